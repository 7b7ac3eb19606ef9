// Copyright (c) 2025, Brainview Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"fmt"
	"image"
	"log/slog"
	"sync"
	"time"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/gpu"
	"github.com/cogentcore/webgpu/wgpu"
)

// Renderer draws a set of cortical surfaces with overlay
// compositing, billboard markers, and id-based picking into a
// [gpu.Renderer] target (a window surface or an offscreen frame).
// All methods are safe for concurrent use.
type Renderer struct {
	sync.Mutex

	// Camera is the orbit camera driving the view each frame.
	// Mutate it between frames (Rotate, Zoom, SetPreset).
	Camera *OrbitCamera

	gp     *gpu.GPU
	target gpu.Renderer
	dev    *gpu.Device

	pipes   *Pipelines
	res     *Resources
	scene   *Scene
	picker  *picker
	markers *markerSet

	params    OverlayParams
	selection Selection

	size      image.Point
	depthTex  *wgpu.Texture
	depthView *wgpu.TextureView

	nextSurface SurfaceID
	start       time.Time
	lastCam     CameraState

	// OnPick, if set, is called with every completed pick result
	// (nil for a background hit) from PollPick and Pick.
	OnPick func(res *PickResult)

	// OnEvent, if set, receives every [ViewerEvent]: EventPicked
	// for completed picks and EventCameraMoved when a frame renders
	// with a camera pose different from the previous frame.
	OnEvent func(ev ViewerEvent)
}

// clearColor is the window background.
var clearColor = wgpu.Color{R: 0.1, G: 0.1, B: 0.15, A: 1}

// NewRenderer creates a renderer drawing into the given target.
// The target's device and texture format are adopted.
func NewRenderer(gp *gpu.GPU, target gpu.Renderer, size image.Point) (*Renderer, error) {
	dev := target.Device()
	rr := &Renderer{
		gp:          gp,
		target:      target,
		dev:         dev,
		scene:       NewScene(),
		nextSurface: 1,
		start:       time.Now(),
	}
	rr.params = OverlayParams{DataMin: -1, DataMax: 1, UseThreshold: true}
	rr.Camera = NewOrbitCamera(aspectOf(size))
	rr.lastCam = rr.Camera.State()

	var err error
	rr.pipes, err = newPipelines(dev, target.Render().Format.Format)
	if err != nil {
		return nil, err
	}
	rr.res, err = newResources(dev, &rr.pipes.layouts)
	if err != nil {
		return nil, err
	}
	rr.picker, err = newPicker(dev, rr.pipes.Picking)
	if err != nil {
		return nil, err
	}
	rr.markers, err = newMarkerSet(dev)
	if err != nil {
		return nil, err
	}
	if err = rr.setSize(size); err != nil {
		return nil, err
	}
	return rr, nil
}

func aspectOf(size image.Point) float32 {
	if size.Y <= 0 {
		return 1
	}
	return float32(size.X) / float32(size.Y)
}

// SetSize resizes the render target, depth buffer, and camera
// aspect. Call on window resize.
func (rr *Renderer) SetSize(size image.Point) error {
	rr.Lock()
	defer rr.Unlock()
	rr.target.SetSize(size)
	return rr.setSize(size)
}

func (rr *Renderer) setSize(size image.Point) error {
	if size.X <= 0 || size.Y <= 0 {
		return fmt.Errorf("render: invalid size %v", size)
	}
	if rr.depthView != nil {
		rr.depthView.Release()
		rr.depthTex.Release()
		rr.depthView, rr.depthTex = nil, nil
	}
	tex, err := rr.dev.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "depth",
		Size: wgpu.Extent3D{
			Width:              uint32(size.X),
			Height:             uint32(size.Y),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth32Float,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if errors.Log(err) != nil {
		return err
	}
	view, err := tex.CreateView(nil)
	if errors.Log(err) != nil {
		tex.Release()
		return err
	}
	rr.depthTex = tex
	rr.depthView = view
	rr.size = size
	rr.Camera.Aspect = aspectOf(size)
	return nil
}

// AddSurface uploads a surface mesh and adds it to the scene at the
// given translation, returning its surface id.
func (rr *Renderer) AddSurface(positions, normals []float32, indices []uint32, translation [3]float32) (SurfaceID, error) {
	rr.Lock()
	defer rr.Unlock()
	id := rr.nextSurface
	if err := rr.res.AddSurface(id, positions, normals, indices); err != nil {
		return 0, err
	}
	rr.nextSurface++
	if err := rr.res.SetOverlayParams(id, &rr.params); err != nil {
		return 0, err
	}
	rr.scene.AddSurface(id, vec3(translation))
	slog.Debug("render: surface added", "surface", id,
		"vertices", len(positions)/3, "triangles", len(indices)/3)
	return id, nil
}

// SetOverlay uploads per-vertex overlay values for a surface.
func (rr *Renderer) SetOverlay(id SurfaceID, values []float32) error {
	rr.Lock()
	defer rr.Unlock()
	return rr.res.SetOverlay(id, values)
}

// SetParcellation uploads region labels and the region color table
// for a surface.
func (rr *Renderer) SetParcellation(id SurfaceID, labels []uint32, table []RegionColor) error {
	rr.Lock()
	defer rr.Unlock()
	return rr.res.SetParcellation(id, labels, table)
}

// SetROI uploads a per-vertex ROI mask for a surface.
func (rr *Renderer) SetROI(id SurfaceID, mask []float32) error {
	rr.Lock()
	defer rr.Unlock()
	return rr.res.SetROI(id, mask)
}

// ClearROI removes a surface's ROI mask.
func (rr *Renderer) ClearROI(id SurfaceID) error {
	rr.Lock()
	defer rr.Unlock()
	return rr.res.ClearROI(id)
}

// SetOverlayParams applies overlay compositing parameters to all
// surfaces.
func (rr *Renderer) SetOverlayParams(op OverlayParams) error {
	rr.Lock()
	defer rr.Unlock()
	rr.params = op
	for _, id := range rr.res.SurfaceIDs() {
		if err := rr.res.SetOverlayParams(id, &op); err != nil {
			return err
		}
	}
	return nil
}

// OverlayParams returns the current overlay parameters.
func (rr *Renderer) OverlayParams() OverlayParams {
	rr.Lock()
	defer rr.Unlock()
	return rr.params
}

// SetColormap switches the active colormap on all surfaces.
func (rr *Renderer) SetColormap(cm Colormap) error {
	rr.Lock()
	defer rr.Unlock()
	return rr.res.SetColormap(cm)
}

// ActiveColormap returns the colormap currently in use.
func (rr *Renderer) ActiveColormap() Colormap {
	rr.Lock()
	defer rr.Unlock()
	return rr.res.ActiveColormap()
}

// SetSelection sets the highlighted vertex.
func (rr *Renderer) SetSelection(sel Selection) {
	rr.Lock()
	defer rr.Unlock()
	rr.selection = sel
}

// ClearSelection removes the highlight.
func (rr *Renderer) ClearSelection() {
	rr.Lock()
	defer rr.Unlock()
	rr.selection = Selection{}
}

// Selection returns the current selection state.
func (rr *Renderer) Selection() Selection {
	rr.Lock()
	defer rr.Unlock()
	return rr.selection
}

// AddMarker adds a billboard marker at a world position.
func (rr *Renderer) AddMarker(pos, color [3]float32) NodeID {
	rr.Lock()
	defer rr.Unlock()
	return rr.scene.AddMarker(vec3(pos), vec3(color))
}

// UpdateMarker moves or recolors a marker; reports whether it
// exists.
func (rr *Renderer) UpdateMarker(id NodeID, pos, color [3]float32) bool {
	rr.Lock()
	defer rr.Unlock()
	return rr.scene.UpdateMarker(id, vec3(pos), vec3(color))
}

// SetMarkerStyle sets a marker's size and selected flag.
func (rr *Renderer) SetMarkerStyle(id NodeID, style MarkerStyle) bool {
	rr.Lock()
	defer rr.Unlock()
	return rr.scene.SetMarkerStyle(id, style)
}

// RemoveMarker deletes one marker.
func (rr *Renderer) RemoveMarker(id NodeID) {
	rr.Lock()
	defer rr.Unlock()
	rr.scene.Remove(id)
}

// ClearMarkers deletes all markers.
func (rr *Renderer) ClearMarkers() {
	rr.Lock()
	defer rr.Unlock()
	rr.scene.ClearMarkers()
}

// MarkerCount returns the number of markers in the scene.
func (rr *Renderer) MarkerCount() int {
	rr.Lock()
	defer rr.Unlock()
	return rr.scene.MarkerCount()
}

// drawSurfaces returns the surface states in scene order, writing
// each one's camera and selection uniforms for this frame.
func (rr *Renderer) drawSurfaces() []*surfaceState {
	vp := rr.Camera.ViewProjection()
	nodes := rr.scene.Surfaces()
	sts := make([]*surfaceState, 0, len(nodes))
	for _, nd := range nodes {
		st, ok := rr.res.surfaces[nd.Surface]
		if !ok {
			continue
		}
		rr.res.writeCamera(st, &vp, nd.Translation)
		rr.res.writeSelection(st, rr.selection)
		sts = append(sts, st)
	}
	return sts
}

// emitCameraMoved fires EventCameraMoved if the camera pose changed
// since the last check. Hooks run outside the renderer lock.
func (rr *Renderer) emitCameraMoved() {
	rr.Lock()
	st := rr.Camera.State()
	changed := st != rr.lastCam
	rr.lastCam = st
	onEvent := rr.OnEvent
	rr.Unlock()
	if changed && onEvent != nil {
		onEvent(ViewerEvent{Kind: EventCameraMoved, Camera: st})
	}
}

// emitPick fires the pick hooks for a completed pick (nil res means
// background). Hooks run outside the renderer lock.
func (rr *Renderer) emitPick(res *PickResult) {
	rr.Lock()
	onPick, onEvent := rr.OnPick, rr.OnEvent
	rr.Unlock()
	if res != nil {
		slog.Debug("render: picked", "surface", res.SurfaceID, "vertex", res.VertexID)
	}
	if onPick != nil {
		onPick(res)
	}
	if onEvent != nil {
		onEvent(ViewerEvent{Kind: EventPicked, Pick: res})
	}
}

// RenderFrame draws one frame: a clearing surface pass over all
// scene surfaces, then a non-clearing marker pass, in one submit.
func (rr *Renderer) RenderFrame() error {
	rr.emitCameraMoved()
	rr.Lock()
	defer rr.Unlock()

	view, err := rr.target.GetCurrentTexture()
	if errors.Log(err) != nil {
		return err
	}
	sts := rr.drawSurfaces()
	vp := rr.Camera.ViewProjection()
	if err := rr.res.writeMarkerCamera(&vp, float32(time.Since(rr.start).Seconds())); err != nil {
		return err
	}
	if err := rr.markers.update(rr.scene); err != nil {
		return err
	}

	cmd, err := rr.dev.Device.CreateCommandEncoder(nil)
	if errors.Log(err) != nil {
		return err
	}

	rp := cmd.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: clearColor,
		}},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            rr.depthView,
			DepthClearValue: 1,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpStore,
		},
	})
	rp.SetPipeline(rr.pipes.Surface)
	for _, st := range sts {
		rp.SetBindGroup(0, st.cameraGroup, nil)
		rp.SetBindGroup(1, st.overlayGroup, nil)
		rp.SetBindGroup(2, st.colorGroup, nil)
		rp.SetBindGroup(3, st.roiGroup, nil)
		rp.SetVertexBuffer(0, st.positions, 0, wgpu.WholeSize)
		rp.SetVertexBuffer(1, st.normals, 0, wgpu.WholeSize)
		rp.SetVertexBuffer(2, st.vertexIDs, 0, wgpu.WholeSize)
		rp.SetIndexBuffer(st.indices, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
		rp.DrawIndexed(st.indexCount, 1, 0, 0, 0)
	}
	rp.End()
	rp.Release()

	if rr.markers.count > 0 {
		mp := cmd.BeginRenderPass(&wgpu.RenderPassDescriptor{
			ColorAttachments: []wgpu.RenderPassColorAttachment{{
				View:    view,
				LoadOp:  wgpu.LoadOpLoad,
				StoreOp: wgpu.StoreOpStore,
			}},
			DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
				View:         rr.depthView,
				DepthLoadOp:  wgpu.LoadOpLoad,
				DepthStoreOp: wgpu.StoreOpStore,
			},
		})
		rr.markers.draw(mp, rr.pipes.Marker, rr.res.markerCamGroup)
		mp.End()
		mp.Release()
	}

	cmdBuf, err := cmd.Finish(nil)
	if errors.Log(err) != nil {
		cmd.Release()
		return err
	}
	rr.dev.Queue.Submit(cmdBuf)
	cmdBuf.Release()
	cmd.Release()

	rr.target.Present()
	return nil
}

// StartPick begins an asynchronous pick at window coordinates
// (x, y). Returns ErrPickPending while a previous pick is still in
// flight. Retrieve the result with PollPick.
func (rr *Renderer) StartPick(x, y int) error {
	rr.Lock()
	defer rr.Unlock()
	return rr.picker.Start(x, y, rr.size, rr.drawSurfaces())
}

// PollPick pumps device callbacks and returns the result of an
// in-flight pick. done is false until the readback completes; a done
// nil result means background was hit.
func (rr *Renderer) PollPick() (res *PickResult, done bool) {
	rr.Lock()
	res, done = rr.picker.Poll()
	rr.Unlock()
	if done {
		rr.emitPick(res)
	}
	return res, done
}

// Pick performs a synchronous pick, blocking until the GPU readback
// completes.
func (rr *Renderer) Pick(x, y int) (*PickResult, error) {
	rr.Lock()
	err := rr.picker.Start(x, y, rr.size, rr.drawSurfaces())
	if err != nil {
		rr.Unlock()
		return nil, err
	}
	res := rr.picker.Wait()
	rr.Unlock()
	rr.emitPick(res)
	return res, nil
}

// Release frees all GPU resources owned by the renderer.
func (rr *Renderer) Release() {
	rr.Lock()
	defer rr.Unlock()
	rr.dev.WaitDone()
	if rr.depthView != nil {
		rr.depthView.Release()
		rr.depthTex.Release()
		rr.depthView, rr.depthTex = nil, nil
	}
	rr.markers.release()
	rr.picker.release()
	rr.res.Release()
	rr.pipes.Release()
}
