// Copyright (c) 2025, Brainview Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"fmt"
	"math/bits"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/gpu"
	"cogentcore.org/core/math32"
	"github.com/cogentcore/webgpu/wgpu"
)

// Selection identifies the currently selected (surface, vertex)
// pair. The highlight applies only to the matching vertex on the
// matching surface instance.
type Selection struct {
	// VertexID of the selected vertex.
	VertexID uint32

	// SurfaceID of the surface the selection is on.
	SurfaceID SurfaceID

	// Has is false when nothing is selected.
	Has bool
}

// AppliesTo reports whether the selection highlight applies to the
// given vertex while drawing the given surface instance.
func (se *Selection) AppliesTo(vertexID uint32, current SurfaceID) bool {
	return se.Has && vertexID == se.VertexID && current == se.SurfaceID
}

// OverlayParams are the UI-controlled overlay compositing
// parameters, uploaded as a uniform and read each frame.
type OverlayParams struct {
	// DataMin and DataMax are the data range for normalization.
	DataMin float32 `yaml:"data-min"`
	DataMax float32 `yaml:"data-max"`

	// Threshold below which overlay values are transparent.
	Threshold float32 `yaml:"threshold"`

	// UseThreshold enables smooth thresholding; when off the
	// overlay shows everywhere at the opacity ceiling.
	UseThreshold bool `yaml:"use-threshold"`

	// Debug selects a diagnostic rendering mode.
	Debug DebugView `yaml:"-"`

	// Source selects overlay vs parcellation coloring.
	Source ColorSource `yaml:"-"`

	// Parcellation selects the region display style.
	Parcellation ParcellationDisplay `yaml:"-"`

	// ROIEnabled turns on the ROI mask highlight.
	ROIEnabled bool `yaml:"roi-enabled"`
}

// uniform structs are laid out to match the WGSL declarations.

type cameraUniform struct {
	ViewProj math32.Matrix4
	Offset   math32.Vector4
}

type selectionUniform struct {
	VertexID       uint32
	SurfaceID      uint32
	CurrentSurface uint32
	HasSelection   uint32
}

type overlayUniform struct {
	DataMin      float32
	DataMax      float32
	Threshold    float32
	UseThreshold float32
	Debug        uint32
	Source       uint32
	Parcellation uint32
	ROIEnabled   uint32
}

func (op *OverlayParams) uniform() overlayUniform {
	u := overlayUniform{
		DataMin:      op.DataMin,
		DataMax:      op.DataMax,
		Threshold:    op.Threshold,
		Debug:        op.Debug.Uint32(),
		Source:       op.Source.Uint32(),
		Parcellation: op.Parcellation.Uint32(),
	}
	if op.UseThreshold {
		u.UseThreshold = 1
	}
	if op.ROIEnabled {
		u.ROIEnabled = 1
	}
	return u
}

// RegionColor is one region color table entry: RGBA in [0, 1],
// with alpha as a validity flag (alpha < 0.5 means unknown region).
type RegionColor [4]float32

// surfaceState is the GPU-side state of one surface instance.
// Each surface owns its buffers; nothing is shared for writing.
type surfaceState struct {
	id          SurfaceID
	vertexCount uint32
	indexCount  uint32

	positions *wgpu.Buffer
	normals   *wgpu.Buffer
	vertexIDs *wgpu.Buffer
	indices   *wgpu.Buffer

	// per-surface uniform copies let one render pass draw all
	// surfaces with different model offsets and current-surface
	// ids without rewriting a shared buffer mid-frame
	camBuf    *wgpu.Buffer
	selBuf    *wgpu.Buffer
	paramsBuf *wgpu.Buffer
	pickIDBuf *wgpu.Buffer

	overlayBuf *wgpu.Buffer
	labelsBuf  *wgpu.Buffer
	regionTex  *wgpu.Texture
	regionView *wgpu.TextureView
	roiBuf     *wgpu.Buffer

	cameraGroup  *wgpu.BindGroup
	overlayGroup *wgpu.BindGroup
	colorGroup   *wgpu.BindGroup
	roiGroup     *wgpu.BindGroup
	pickCamGroup *wgpu.BindGroup
	pickIDGroup  *wgpu.BindGroup
}

// Resources manages all GPU buffers, textures, and bind groups for
// the renderer: per-surface geometry and data arrays, the shared
// colormap, and fallback bindings so every group can always bind.
type Resources struct {
	dev     *gpu.Device
	layouts *bindLayouts

	surfaces map[SurfaceID]*surfaceState

	colormap     Colormap
	colormapTex  *wgpu.Texture
	colormapView *wgpu.TextureView
	sampler      *wgpu.Sampler

	// defaults bound when a surface has no parcellation or ROI
	defLabels     *wgpu.Buffer
	defRegionTex  *wgpu.Texture
	defRegionView *wgpu.TextureView
	defROI        *wgpu.Buffer

	// marker pass camera: view-projection plus a misc lane
	// carrying wall-clock time for the selection pulse
	markerCamBuf   *wgpu.Buffer
	markerCamGroup *wgpu.BindGroup
}

func newResources(dev *gpu.Device, layouts *bindLayouts) (*Resources, error) {
	rs := &Resources{
		dev:      dev,
		layouts:  layouts,
		surfaces: make(map[SurfaceID]*surfaceState),
		colormap: RdBu,
	}

	var err error
	rs.sampler, err = dev.Device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "colormap",
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		MaxAnisotropy: 1,
	})
	if errors.Log(err) != nil {
		return nil, err
	}

	if err = rs.createColormapTexture(rs.colormap); err != nil {
		return nil, err
	}

	rs.defLabels, err = dev.Device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "default-labels",
		Contents: wgpu.ToBytes([]uint32{0}),
		Usage:    wgpu.BufferUsageStorage,
	})
	if errors.Log(err) != nil {
		return nil, err
	}

	rs.defRegionTex, rs.defRegionView, err = rs.createRegionTexture("default-region-colors",
		[]RegionColor{{0.5, 0.5, 0.5, 1}})
	if err != nil {
		return nil, err
	}

	rs.defROI, err = dev.Device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "default-roi",
		Contents: wgpu.ToBytes([]float32{0}),
		Usage:    wgpu.BufferUsageStorage,
	})
	if errors.Log(err) != nil {
		return nil, err
	}

	rs.markerCamBuf, err = dev.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "marker-camera",
		Size:  80,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if errors.Log(err) != nil {
		return nil, err
	}
	rs.markerCamGroup, err = dev.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "marker-camera",
		Layout: layouts.pickCamera,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: rs.markerCamBuf, Size: wgpu.WholeSize},
		},
	})
	if errors.Log(err) != nil {
		return nil, err
	}
	return rs, nil
}

// AddSurface uploads a surface mesh. Positions and normals are flat
// [x y z ...] arrays of equal length; indices form a triangle list.
// Vertex ids are generated densely as 0..n-1. An existing surface
// with the same id is replaced.
func (rs *Resources) AddSurface(id SurfaceID, positions, normals []float32, indices []uint32) error {
	if err := validateSurface(positions, normals, indices); err != nil {
		return err
	}
	rs.RemoveSurface(id)

	n := uint32(len(positions) / 3)
	st := &surfaceState{id: id, vertexCount: n, indexCount: uint32(len(indices))}
	dev := rs.dev

	var err error
	st.positions, err = dev.Device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "surface-positions",
		Contents: wgpu.ToBytes(positions),
		Usage:    wgpu.BufferUsageVertex,
	})
	if errors.Log(err) != nil {
		return err
	}
	st.normals, err = dev.Device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "surface-normals",
		Contents: wgpu.ToBytes(normals),
		Usage:    wgpu.BufferUsageVertex,
	})
	if errors.Log(err) != nil {
		return err
	}
	st.indices, err = dev.Device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "surface-indices",
		Contents: wgpu.ToBytes(indices),
		Usage:    wgpu.BufferUsageIndex,
	})
	if errors.Log(err) != nil {
		return err
	}

	ids := make([]uint32, n)
	for i := range ids {
		ids[i] = uint32(i)
	}
	st.vertexIDs, err = dev.Device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "surface-vertex-ids",
		Contents: wgpu.ToBytes(ids),
		Usage:    wgpu.BufferUsageVertex,
	})
	if errors.Log(err) != nil {
		return err
	}

	st.camBuf, err = dev.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "surface-camera",
		Size:  80, // mat4x4<f32> + vec4<f32>
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if errors.Log(err) != nil {
		return err
	}
	st.selBuf, err = dev.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "surface-selection",
		Size:  16, // 4 * u32
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if errors.Log(err) != nil {
		return err
	}
	st.paramsBuf, err = dev.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "overlay-params",
		Size:  32, // 4 * f32 + 4 * u32
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if errors.Log(err) != nil {
		return err
	}
	st.pickIDBuf, err = dev.Device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "pick-surface-id",
		Contents: wgpu.ToBytes([]uint32{id}),
		Usage:    wgpu.BufferUsageUniform,
	})
	if errors.Log(err) != nil {
		return err
	}

	// overlay starts as a single zero so group 1 always binds
	st.overlayBuf, err = dev.Device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "overlay-data",
		Contents: wgpu.ToBytes([]float32{0}),
		Usage:    wgpu.BufferUsageStorage,
	})
	if errors.Log(err) != nil {
		return err
	}

	if err = rs.buildGroups(st); err != nil {
		return err
	}
	rs.surfaces[id] = st
	return nil
}

// RemoveSurface releases all GPU state of a surface.
func (rs *Resources) RemoveSurface(id SurfaceID) {
	st, ok := rs.surfaces[id]
	if !ok {
		return
	}
	st.release()
	delete(rs.surfaces, id)
}

// SurfaceIDs returns the ids of all uploaded surfaces.
func (rs *Resources) SurfaceIDs() []SurfaceID {
	ids := make([]SurfaceID, 0, len(rs.surfaces))
	for id := range rs.surfaces {
		ids = append(ids, id)
	}
	return ids
}

// VertexCount returns the vertex count of a surface, or 0 if the
// surface is not uploaded.
func (rs *Resources) VertexCount(id SurfaceID) uint32 {
	if st, ok := rs.surfaces[id]; ok {
		return st.vertexCount
	}
	return 0
}

// SetOverlay uploads a per-vertex scalar overlay for a surface.
// The array length must equal the surface vertex count; NaN values
// mean no data and render transparent.
func (rs *Resources) SetOverlay(id SurfaceID, values []float32) error {
	st, ok := rs.surfaces[id]
	if !ok {
		return fmt.Errorf("render: no surface %d", id)
	}
	if uint32(len(values)) != st.vertexCount {
		return fmt.Errorf("render: overlay length %d != vertex count %d on surface %d",
			len(values), st.vertexCount, id)
	}
	if st.overlayBuf != nil {
		st.overlayBuf.Release()
	}
	var err error
	st.overlayBuf, err = rs.dev.Device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "overlay-data",
		Contents: wgpu.ToBytes(values),
		Usage:    wgpu.BufferUsageStorage,
	})
	if errors.Log(err) != nil {
		return err
	}
	return rs.buildOverlayGroup(st)
}

// SetOverlayParams writes the overlay parameter uniform for a
// surface.
func (rs *Resources) SetOverlayParams(id SurfaceID, op *OverlayParams) error {
	st, ok := rs.surfaces[id]
	if !ok {
		return fmt.Errorf("render: no surface %d", id)
	}
	u := op.uniform()
	return errors.Log(rs.dev.Queue.WriteBuffer(st.paramsBuf, 0, wgpu.ToBytes([]overlayUniform{u})))
}

// SetParcellation uploads per-vertex region labels and the region
// color table for a surface. The label array length must equal the
// vertex count. Label 0 conventionally means unknown.
func (rs *Resources) SetParcellation(id SurfaceID, labels []uint32, table []RegionColor) error {
	st, ok := rs.surfaces[id]
	if !ok {
		return fmt.Errorf("render: no surface %d", id)
	}
	if uint32(len(labels)) != st.vertexCount {
		return fmt.Errorf("render: label length %d != vertex count %d on surface %d",
			len(labels), st.vertexCount, id)
	}
	if len(table) == 0 {
		return fmt.Errorf("render: empty region color table for surface %d", id)
	}
	if st.labelsBuf != nil {
		st.labelsBuf.Release()
	}
	var err error
	st.labelsBuf, err = rs.dev.Device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "parcellation-labels",
		Contents: wgpu.ToBytes(labels),
		Usage:    wgpu.BufferUsageStorage,
	})
	if errors.Log(err) != nil {
		return err
	}
	if st.regionTex != nil {
		st.regionView.Release()
		st.regionTex.Release()
	}
	st.regionTex, st.regionView, err = rs.createRegionTexture("region-colors", table)
	if err != nil {
		return err
	}
	return rs.buildColorGroup(st)
}

// SetROI uploads a per-vertex ROI mask for a surface; values above
// 0.5 are in the region of interest. Length must equal the vertex
// count.
func (rs *Resources) SetROI(id SurfaceID, mask []float32) error {
	st, ok := rs.surfaces[id]
	if !ok {
		return fmt.Errorf("render: no surface %d", id)
	}
	if uint32(len(mask)) != st.vertexCount {
		return fmt.Errorf("render: ROI mask length %d != vertex count %d on surface %d",
			len(mask), st.vertexCount, id)
	}
	if st.roiBuf != nil {
		st.roiBuf.Release()
	}
	var err error
	st.roiBuf, err = rs.dev.Device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "roi-mask",
		Contents: wgpu.ToBytes(mask),
		Usage:    wgpu.BufferUsageStorage,
	})
	if errors.Log(err) != nil {
		return err
	}
	return rs.buildROIGroup(st)
}

// ClearROI removes the ROI mask from a surface, rebinding the
// default empty mask.
func (rs *Resources) ClearROI(id SurfaceID) error {
	st, ok := rs.surfaces[id]
	if !ok {
		return fmt.Errorf("render: no surface %d", id)
	}
	if st.roiBuf != nil {
		st.roiBuf.Release()
		st.roiBuf = nil
	}
	return rs.buildROIGroup(st)
}

// SetColormap switches the active colormap, rebaking the texture and
// rebinding it on all surfaces.
func (rs *Resources) SetColormap(cm Colormap) error {
	if cm == rs.colormap && rs.colormapTex != nil {
		return nil
	}
	if err := rs.createColormapTexture(cm); err != nil {
		return err
	}
	rs.colormap = cm
	for _, st := range rs.surfaces {
		if err := rs.buildColorGroup(st); err != nil {
			return err
		}
	}
	return nil
}

// ActiveColormap returns the colormap currently bound.
func (rs *Resources) ActiveColormap() Colormap { return rs.colormap }

// writeCamera updates one surface's camera uniform for this frame.
func (rs *Resources) writeCamera(st *surfaceState, vp *math32.Matrix4, offset math32.Vector3) error {
	u := cameraUniform{ViewProj: *vp, Offset: math32.Vec4(offset.X, offset.Y, offset.Z, 0)}
	return errors.Log(rs.dev.Queue.WriteBuffer(st.camBuf, 0, wgpu.ToBytes([]cameraUniform{u})))
}

// writeSelection updates one surface's selection uniform, recording
// which surface instance is being drawn.
func (rs *Resources) writeSelection(st *surfaceState, sel Selection) error {
	u := selectionUniform{
		VertexID:       sel.VertexID,
		SurfaceID:      sel.SurfaceID,
		CurrentSurface: st.id,
	}
	if sel.Has {
		u.HasSelection = 1
	}
	return errors.Log(rs.dev.Queue.WriteBuffer(st.selBuf, 0, wgpu.ToBytes([]selectionUniform{u})))
}

// writeMarkerCamera updates the marker pass camera with no model
// offset and the current wall-clock time in seconds.
func (rs *Resources) writeMarkerCamera(vp *math32.Matrix4, timeSec float32) error {
	u := cameraUniform{ViewProj: *vp, Offset: math32.Vec4(timeSec, 0, 0, 0)}
	return errors.Log(rs.dev.Queue.WriteBuffer(rs.markerCamBuf, 0, wgpu.ToBytes([]cameraUniform{u})))
}

func (rs *Resources) createColormapTexture(cm Colormap) error {
	dev := rs.dev
	tex, err := dev.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "colormap",
		Size:  wgpu.Extent3D{Width: ColormapN, Height: 1, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatRGBA8UnormSrgb,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
	})
	if errors.Log(err) != nil {
		return err
	}
	dev.Queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Aspect:   wgpu.TextureAspectAll,
			Texture:  tex,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
		},
		cm.Bytes(ColormapN),
		&wgpu.TextureDataLayout{Offset: 0, BytesPerRow: ColormapN * 4, RowsPerImage: 1},
		&wgpu.Extent3D{Width: ColormapN, Height: 1, DepthOrArrayLayers: 1},
	)
	view, err := tex.CreateView(nil)
	if errors.Log(err) != nil {
		tex.Release()
		return err
	}
	if rs.colormapView != nil {
		rs.colormapView.Release()
		rs.colormapTex.Release()
	}
	rs.colormapTex = tex
	rs.colormapView = view
	return nil
}

// createRegionTexture bakes a region color table into an Nx1 texture
// sized to the next power of two, in linear (non-sRGB) format so
// lookups return the table values directly.
func (rs *Resources) createRegionTexture(label string, table []RegionColor) (*wgpu.Texture, *wgpu.TextureView, error) {
	dev := rs.dev
	width := nextPow2(uint32(len(table)))
	data := make([]byte, width*4)
	for i, c := range table {
		data[i*4] = byte(math32.Clamp(c[0], 0, 1) * 255)
		data[i*4+1] = byte(math32.Clamp(c[1], 0, 1) * 255)
		data[i*4+2] = byte(math32.Clamp(c[2], 0, 1) * 255)
		data[i*4+3] = byte(math32.Clamp(c[3], 0, 1) * 255)
	}
	tex, err := dev.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label: label,
		Size:  wgpu.Extent3D{Width: width, Height: 1, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatRGBA8Unorm,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
	})
	if errors.Log(err) != nil {
		return nil, nil, err
	}
	dev.Queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Aspect:   wgpu.TextureAspectAll,
			Texture:  tex,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
		},
		data,
		&wgpu.TextureDataLayout{Offset: 0, BytesPerRow: width * 4, RowsPerImage: 1},
		&wgpu.Extent3D{Width: width, Height: 1, DepthOrArrayLayers: 1},
	)
	view, err := tex.CreateView(nil)
	if errors.Log(err) != nil {
		tex.Release()
		return nil, nil, err
	}
	return tex, view, nil
}

func nextPow2(n uint32) uint32 {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len32(n-1)
}

// buildGroups creates all bind groups for a new surface.
func (rs *Resources) buildGroups(st *surfaceState) error {
	dev := rs.dev
	var err error
	st.cameraGroup, err = dev.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "camera-selection",
		Layout: rs.layouts.camera,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: st.camBuf, Size: wgpu.WholeSize},
			{Binding: 1, Buffer: st.selBuf, Size: wgpu.WholeSize},
		},
	})
	if errors.Log(err) != nil {
		return err
	}
	st.pickCamGroup, err = dev.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "pick-camera",
		Layout: rs.layouts.pickCamera,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: st.camBuf, Size: wgpu.WholeSize},
		},
	})
	if errors.Log(err) != nil {
		return err
	}
	st.pickIDGroup, err = dev.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "pick-surface-id",
		Layout: rs.layouts.pickSurface,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: st.pickIDBuf, Size: wgpu.WholeSize},
		},
	})
	if errors.Log(err) != nil {
		return err
	}
	if err = rs.buildOverlayGroup(st); err != nil {
		return err
	}
	if err = rs.buildColorGroup(st); err != nil {
		return err
	}
	return rs.buildROIGroup(st)
}

func (rs *Resources) buildOverlayGroup(st *surfaceState) error {
	if st.overlayGroup != nil {
		st.overlayGroup.Release()
	}
	var err error
	st.overlayGroup, err = rs.dev.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "overlay",
		Layout: rs.layouts.overlay,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: st.overlayBuf, Size: wgpu.WholeSize},
			{Binding: 1, Buffer: st.paramsBuf, Size: wgpu.WholeSize},
		},
	})
	return errors.Log(err)
}

func (rs *Resources) buildColorGroup(st *surfaceState) error {
	if st.colorGroup != nil {
		st.colorGroup.Release()
	}
	labels := st.labelsBuf
	if labels == nil {
		labels = rs.defLabels
	}
	region := st.regionView
	if region == nil {
		region = rs.defRegionView
	}
	var err error
	st.colorGroup, err = rs.dev.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "colormap-parcellation",
		Layout: rs.layouts.colors,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: rs.colormapView},
			{Binding: 1, Sampler: rs.sampler},
			{Binding: 2, Buffer: labels, Size: wgpu.WholeSize},
			{Binding: 3, TextureView: region},
		},
	})
	return errors.Log(err)
}

func (rs *Resources) buildROIGroup(st *surfaceState) error {
	if st.roiGroup != nil {
		st.roiGroup.Release()
	}
	roi := st.roiBuf
	if roi == nil {
		roi = rs.defROI
	}
	var err error
	st.roiGroup, err = rs.dev.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "roi-mask",
		Layout: rs.layouts.roi,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: roi, Size: wgpu.WholeSize},
		},
	})
	return errors.Log(err)
}

// validateSurface checks the loader input contract before any
// upload, so violations surface as setup errors rather than silent
// render corruption.
func validateSurface(positions, normals []float32, indices []uint32) error {
	if len(positions) == 0 || len(positions)%3 != 0 {
		return fmt.Errorf("render: positions length %d is not a positive multiple of 3", len(positions))
	}
	if len(normals) != len(positions) {
		return fmt.Errorf("render: normals length %d != positions length %d", len(normals), len(positions))
	}
	if len(indices) == 0 || len(indices)%3 != 0 {
		return fmt.Errorf("render: indices length %d is not a positive multiple of 3", len(indices))
	}
	n := uint32(len(positions) / 3)
	for i, ix := range indices {
		if ix >= n {
			return fmt.Errorf("render: index %d at %d out of range (%d vertices)", ix, i, n)
		}
	}
	return nil
}

func (st *surfaceState) release() {
	for _, bg := range []*wgpu.BindGroup{st.cameraGroup, st.overlayGroup, st.colorGroup,
		st.roiGroup, st.pickCamGroup, st.pickIDGroup} {
		if bg != nil {
			bg.Release()
		}
	}
	if st.regionView != nil {
		st.regionView.Release()
	}
	if st.regionTex != nil {
		st.regionTex.Release()
	}
	for _, b := range []*wgpu.Buffer{st.positions, st.normals, st.vertexIDs, st.indices,
		st.camBuf, st.selBuf, st.paramsBuf, st.pickIDBuf, st.overlayBuf, st.labelsBuf, st.roiBuf} {
		if b != nil {
			b.Release()
		}
	}
}

// Release frees all GPU resources.
func (rs *Resources) Release() {
	for id := range rs.surfaces {
		rs.RemoveSurface(id)
	}
	if rs.markerCamGroup != nil {
		rs.markerCamGroup.Release()
		rs.markerCamGroup = nil
	}
	for _, b := range []*wgpu.Buffer{rs.markerCamBuf, rs.defLabels, rs.defROI} {
		if b != nil {
			b.Release()
		}
	}
	rs.markerCamBuf, rs.defLabels, rs.defROI = nil, nil, nil
	if rs.defRegionView != nil {
		rs.defRegionView.Release()
		rs.defRegionTex.Release()
		rs.defRegionView, rs.defRegionTex = nil, nil
	}
	if rs.colormapView != nil {
		rs.colormapView.Release()
		rs.colormapTex.Release()
		rs.colormapView, rs.colormapTex = nil, nil
	}
	if rs.sampler != nil {
		rs.sampler.Release()
		rs.sampler = nil
	}
}
