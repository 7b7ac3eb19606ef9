// Copyright (c) 2025, Brainview Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"sync/atomic"

	cerrors "cogentcore.org/core/base/errors"
	"cogentcore.org/core/gpu"
	"github.com/cogentcore/webgpu/wgpu"
)

// PickResult identifies the vertex under the cursor after a
// successful pick.
type PickResult struct {
	// VertexID of the front-most picked vertex.
	VertexID uint32

	// SurfaceID of the surface instance it belongs to.
	SurfaceID SurfaceID
}

// ErrPickPending is returned by StartPick while a previous async
// pick readback is still in flight.
var ErrPickPending = errors.New("render: pick already in flight")

// pickRowBytes is the row stride of the one-pixel readback copy;
// copy rows must be 256-byte aligned.
const pickRowBytes = 256

// pickPixelBytes is one Rgba32Uint pixel.
const pickPixelBytes = 16

// picker renders all surfaces into an off-screen integer id target
// and reads back the single pixel under the cursor. The readback is
// asynchronous: StartPick submits the work and PollPick retrieves
// the result once the buffer map completes.
type picker struct {
	dev  *gpu.Device
	pipe *wgpu.RenderPipeline

	size     image.Point
	target   *wgpu.Texture
	view     *wgpu.TextureView
	readback *wgpu.Buffer

	// pending is set between StartPick and result retrieval;
	// mapped flips in the MapAsync callback
	pending atomic.Bool
	mapped  atomic.Bool
	mapOK   atomic.Bool
}

func newPicker(dev *gpu.Device, pipe *wgpu.RenderPipeline) (*picker, error) {
	pk := &picker{dev: dev, pipe: pipe}
	var err error
	pk.readback, err = dev.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "pick-readback",
		Size:  pickRowBytes,
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
	})
	if cerrors.Log(err) != nil {
		return nil, err
	}
	return pk, nil
}

// ensureTarget (re)creates the pick render target at the given
// viewport size.
func (pk *picker) ensureTarget(size image.Point) error {
	if pk.target != nil && pk.size == size {
		return nil
	}
	if size.X <= 0 || size.Y <= 0 {
		return fmt.Errorf("render: invalid pick target size %v", size)
	}
	if pk.view != nil {
		pk.view.Release()
		pk.target.Release()
		pk.view, pk.target = nil, nil
	}
	tex, err := pk.dev.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "pick-target",
		Size: wgpu.Extent3D{
			Width:              uint32(size.X),
			Height:             uint32(size.Y),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        pickFormat,
		Usage:         wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageCopySrc,
	})
	if cerrors.Log(err) != nil {
		return err
	}
	view, err := tex.CreateView(nil)
	if cerrors.Log(err) != nil {
		tex.Release()
		return err
	}
	pk.target = tex
	pk.view = view
	pk.size = size
	return nil
}

// Start renders an id pass over the given surfaces, copies the pixel
// at (x, y) into the readback buffer, and begins the async map.
// Coordinates are clamped to the viewport. Returns ErrPickPending if
// a previous pick has not been retrieved yet.
func (pk *picker) Start(x, y int, size image.Point, surfaces []*surfaceState) error {
	if pk.pending.Load() {
		return ErrPickPending
	}
	if err := pk.ensureTarget(size); err != nil {
		return err
	}
	x = min(max(x, 0), size.X-1)
	y = min(max(y, 0), size.Y-1)

	cmd, err := pk.dev.Device.CreateCommandEncoder(nil)
	if cerrors.Log(err) != nil {
		return err
	}
	rp := cmd.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       pk.view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: wgpu.Color{},
		}},
	})
	rp.SetPipeline(pk.pipe)
	for _, st := range surfaces {
		rp.SetBindGroup(0, st.pickCamGroup, nil)
		rp.SetBindGroup(1, st.pickIDGroup, nil)
		rp.SetVertexBuffer(0, st.positions, 0, wgpu.WholeSize)
		rp.SetVertexBuffer(1, st.vertexIDs, 0, wgpu.WholeSize)
		rp.SetIndexBuffer(st.indices, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
		rp.DrawIndexed(st.indexCount, 1, 0, 0, 0)
	}
	rp.End()
	rp.Release()

	cmd.CopyTextureToBuffer(
		&wgpu.ImageCopyTexture{
			Texture:  pk.target,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{X: uint32(x), Y: uint32(y)},
			Aspect:   wgpu.TextureAspectAll,
		},
		&wgpu.ImageCopyBuffer{
			Buffer: pk.readback,
			Layout: wgpu.TextureDataLayout{BytesPerRow: pickRowBytes, RowsPerImage: 1},
		},
		&wgpu.Extent3D{Width: 1, Height: 1, DepthOrArrayLayers: 1},
	)
	cmdBuf, err := cmd.Finish(nil)
	if cerrors.Log(err) != nil {
		cmd.Release()
		return err
	}
	pk.dev.Queue.Submit(cmdBuf)
	cmdBuf.Release()
	cmd.Release()

	pk.pending.Store(true)
	pk.mapped.Store(false)
	pk.readback.MapAsync(wgpu.MapModeRead, 0, pickPixelBytes, func(status wgpu.BufferMapAsyncStatus) {
		pk.mapOK.Store(status == wgpu.BufferMapAsyncStatusSuccess)
		pk.mapped.Store(true)
	})
	return nil
}

// Poll pumps device callbacks without blocking and retrieves the
// pick result if ready. done is false while the readback is still in
// flight (or none was started); a done result with a nil PickResult
// means background was hit.
func (pk *picker) Poll() (res *PickResult, done bool) {
	if !pk.pending.Load() {
		return nil, false
	}
	pk.dev.Device.Poll(false, nil)
	if !pk.mapped.Load() {
		return nil, false
	}
	return pk.finish(), true
}

// Wait blocks until the in-flight pick completes and returns its
// result. Returns nil if no pick was in flight or background was
// hit.
func (pk *picker) Wait() *PickResult {
	if !pk.pending.Load() {
		return nil
	}
	for !pk.mapped.Load() {
		pk.dev.Device.Poll(true, nil)
	}
	return pk.finish()
}

func (pk *picker) finish() *PickResult {
	defer pk.pending.Store(false)
	if !pk.mapOK.Load() {
		return nil
	}
	data := pk.readback.GetMappedRange(0, pickPixelBytes)
	res := decodePick(data)
	pk.readback.Unmap()
	return res
}

// decodePick decodes one Rgba32Uint pixel: (vertex id, surface id,
// unused, occupancy). Zero occupancy means the clear value survived,
// so nothing was hit.
func decodePick(px []byte) *PickResult {
	if len(px) < pickPixelBytes {
		return nil
	}
	occ := binary.LittleEndian.Uint32(px[12:16])
	if occ == 0 {
		return nil
	}
	return &PickResult{
		VertexID:  binary.LittleEndian.Uint32(px[0:4]),
		SurfaceID: binary.LittleEndian.Uint32(px[4:8]),
	}
}

func (pk *picker) release() {
	if pk.view != nil {
		pk.view.Release()
		pk.target.Release()
		pk.view, pk.target = nil, nil
	}
	if pk.readback != nil {
		pk.readback.Release()
		pk.readback = nil
	}
}
