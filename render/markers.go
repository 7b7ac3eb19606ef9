// Copyright (c) 2025, Brainview Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/gpu"
	"github.com/cogentcore/webgpu/wgpu"
)

// markerFloats is the per-instance float count: position (3),
// color (3), size, selected.
const markerFloats = 8

// markerCorners is the shared quad, two CCW triangles in corner
// space.
var markerCorners = []float32{
	-1, -1,
	1, -1,
	1, 1,
	-1, -1,
	1, 1,
	-1, 1,
}

// markerSet maintains the marker instance buffer, rebuilt lazily
// from the scene when its marker revision changes.
type markerSet struct {
	dev *gpu.Device

	corners   *wgpu.Buffer
	instances *wgpu.Buffer
	capacity  int
	count     int
	rev       uint64
}

func newMarkerSet(dev *gpu.Device) (*markerSet, error) {
	ms := &markerSet{dev: dev}
	var err error
	ms.corners, err = dev.Device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "marker-corners",
		Contents: wgpu.ToBytes(markerCorners),
		Usage:    wgpu.BufferUsageVertex,
	})
	if errors.Log(err) != nil {
		return nil, err
	}
	return ms, nil
}

// update repacks marker instances if the scene's markers changed
// since the last frame. The instance buffer only grows; shrinking
// just draws fewer instances.
func (ms *markerSet) update(sc *Scene) error {
	if ms.instances != nil && ms.rev == sc.markerRev {
		return nil
	}
	markers := sc.Markers()
	data := make([]float32, 0, len(markers)*markerFloats)
	for _, nd := range markers {
		sel := float32(0)
		if nd.Style.Selected {
			sel = 1
		}
		data = append(data,
			nd.Translation.X, nd.Translation.Y, nd.Translation.Z,
			nd.Color.X, nd.Color.Y, nd.Color.Z,
			nd.Style.Size, sel)
	}
	ms.count = len(markers)
	ms.rev = sc.markerRev

	if ms.instances == nil || ms.count > ms.capacity {
		if ms.instances != nil {
			ms.instances.Release()
		}
		nc := max(ms.count, 16)
		buf, err := ms.dev.Device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "marker-instances",
			Size:  uint64(nc * markerFloats * 4),
			Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		})
		if errors.Log(err) != nil {
			return err
		}
		ms.instances = buf
		ms.capacity = nc
	}
	if len(data) == 0 {
		return nil
	}
	return errors.Log(ms.dev.Queue.WriteBuffer(ms.instances, 0, wgpu.ToBytes(data)))
}

// draw encodes the marker instances into an open render pass.
func (ms *markerSet) draw(rp *wgpu.RenderPassEncoder, pipe *wgpu.RenderPipeline, camGroup *wgpu.BindGroup) {
	if ms.count == 0 {
		return
	}
	rp.SetPipeline(pipe)
	rp.SetBindGroup(0, camGroup, nil)
	rp.SetVertexBuffer(0, ms.instances, 0, wgpu.WholeSize)
	rp.SetVertexBuffer(1, ms.corners, 0, wgpu.WholeSize)
	rp.Draw(uint32(len(markerCorners)/2), uint32(ms.count), 0, 0)
}

func (ms *markerSet) release() {
	if ms.corners != nil {
		ms.corners.Release()
		ms.corners = nil
	}
	if ms.instances != nil {
		ms.instances.Release()
		ms.instances = nil
	}
}
