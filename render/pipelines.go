// Copyright (c) 2025, Brainview Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	_ "embed"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/gpu"
	"github.com/cogentcore/webgpu/wgpu"
)

//go:embed shaders/surface.wgsl
var surfaceShader string

//go:embed shaders/picking.wgsl
var pickingShader string

//go:embed shaders/marker.wgsl
var markerShader string

// pickFormat is the integer pixel format of the off-screen pick
// target: (vertex_id, surface_id, reserved, occupancy).
const pickFormat = wgpu.TextureFormatRGBA32Uint

// bindLayouts are the named resource-binding group layouts. The main
// surface pipeline is constrained to four groups, the hard limit
// imposed by the WebGPU system.
type bindLayouts struct {
	// camera + selection uniforms, group 0 of the surface pipeline.
	camera *wgpu.BindGroupLayout

	// overlay scalar storage + overlay params uniform, group 1.
	overlay *wgpu.BindGroupLayout

	// colormap texture + sampler + parcellation labels + region
	// color table, group 2.
	colors *wgpu.BindGroupLayout

	// ROI mask storage, group 3.
	roi *wgpu.BindGroupLayout

	// camera-only group 0 shared by the picking and marker
	// pipelines.
	pickCamera *wgpu.BindGroupLayout

	// surface id uniform, group 1 of the picking pipeline.
	pickSurface *wgpu.BindGroupLayout
}

// Pipelines holds the three render pipelines and their bind group
// layouts. The layouts are needed to build per-surface bind groups
// in [Resources].
type Pipelines struct {
	// Surface is the main overlay compositing pipeline.
	Surface *wgpu.RenderPipeline

	// Picking renders integer ids for hit testing.
	Picking *wgpu.RenderPipeline

	// Marker renders billboard annotation markers.
	Marker *wgpu.RenderPipeline

	layouts bindLayouts
}

// newPipelines builds the bind group layouts and the surface,
// picking, and marker pipelines for the given target color format.
func newPipelines(dev *gpu.Device, format wgpu.TextureFormat) (*Pipelines, error) {
	pp := &Pipelines{}
	if err := pp.createLayouts(dev); err != nil {
		return nil, err
	}
	if err := pp.createSurface(dev, format); err != nil {
		return nil, err
	}
	if err := pp.createPicking(dev); err != nil {
		return nil, err
	}
	if err := pp.createMarker(dev, format); err != nil {
		return nil, err
	}
	return pp, nil
}

func (pp *Pipelines) createLayouts(dev *gpu.Device) error {
	var err error
	ly := &pp.layouts

	ly.camera, err = dev.Device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "camera-selection",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex,
				Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform},
			},
		},
	})
	if errors.Log(err) != nil {
		return err
	}

	ly.overlay, err = dev.Device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "overlay",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex,
				Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeReadOnlyStorage},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform},
			},
		},
	})
	if errors.Log(err) != nil {
		return err
	}

	ly.colors, err = dev.Device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "colormap-parcellation",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Sampler:    wgpu.SamplerBindingLayout{Type: wgpu.SamplerBindingTypeFiltering},
			},
			{
				Binding:    2,
				Visibility: wgpu.ShaderStageVertex,
				Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeReadOnlyStorage},
			},
			{
				Binding:    3,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					// region colors are read with textureLoad
					SampleType:    wgpu.TextureSampleTypeUnfilterableFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
		},
	})
	if errors.Log(err) != nil {
		return err
	}

	ly.roi, err = dev.Device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "roi-mask",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex,
				Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeReadOnlyStorage},
			},
		},
	})
	if errors.Log(err) != nil {
		return err
	}

	ly.pickCamera, err = dev.Device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "pick-camera",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex,
				Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform},
			},
		},
	})
	if errors.Log(err) != nil {
		return err
	}

	ly.pickSurface, err = dev.Device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "pick-surface-id",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform},
			},
		},
	})
	return errors.Log(err)
}

// surfaceVertexLayouts: positions, normals, and vertex ids each in
// their own buffer, matching the loader's planar arrays.
func surfaceVertexLayouts() []wgpu.VertexBufferLayout {
	return []wgpu.VertexBufferLayout{
		{
			ArrayStride: 12,
			StepMode:    wgpu.VertexStepModeVertex,
			Attributes: []wgpu.VertexAttribute{
				{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			},
		},
		{
			ArrayStride: 12,
			StepMode:    wgpu.VertexStepModeVertex,
			Attributes: []wgpu.VertexAttribute{
				{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 1},
			},
		},
		{
			ArrayStride: 4,
			StepMode:    wgpu.VertexStepModeVertex,
			Attributes: []wgpu.VertexAttribute{
				{Format: wgpu.VertexFormatUint32, Offset: 0, ShaderLocation: 2},
			},
		},
	}
}

func (pp *Pipelines) createSurface(dev *gpu.Device, format wgpu.TextureFormat) error {
	module, err := dev.Device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "surface",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: surfaceShader},
	})
	if errors.Log(err) != nil {
		return err
	}
	defer module.Release()

	ly := &pp.layouts
	layout, err := dev.Device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "surface",
		BindGroupLayouts: []*wgpu.BindGroupLayout{ly.camera, ly.overlay, ly.colors, ly.roi},
	})
	if errors.Log(err) != nil {
		return err
	}
	defer layout.Release()

	pp.Surface, err = dev.Device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "surface",
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
			Buffers:    surfaceVertexLayouts(),
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format: format,
				// opaque surface; overlay opacity composites in-shader
				Blend:     nil,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeBack,
		},
		DepthStencil: depthState(),
		Multisample:  wgpu.MultisampleState{Count: 1, Mask: 0xFFFFFFFF},
	})
	return errors.Log(err)
}

func (pp *Pipelines) createPicking(dev *gpu.Device) error {
	module, err := dev.Device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "picking",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: pickingShader},
	})
	if errors.Log(err) != nil {
		return err
	}
	defer module.Release()

	ly := &pp.layouts
	layout, err := dev.Device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "picking",
		BindGroupLayouts: []*wgpu.BindGroupLayout{ly.pickCamera, ly.pickSurface},
	})
	if errors.Log(err) != nil {
		return err
	}
	defer layout.Release()

	// positions in slot 0 and vertex ids in slot 1; normals are
	// not needed for picking
	vtx := []wgpu.VertexBufferLayout{
		{
			ArrayStride: 12,
			StepMode:    wgpu.VertexStepModeVertex,
			Attributes: []wgpu.VertexAttribute{
				{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			},
		},
		{
			ArrayStride: 4,
			StepMode:    wgpu.VertexStepModeVertex,
			Attributes: []wgpu.VertexAttribute{
				{Format: wgpu.VertexFormatUint32, Offset: 0, ShaderLocation: 2},
			},
		},
	}

	pp.Picking, err = dev.Device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "picking",
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
			Buffers:    vtx,
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format:    pickFormat,
				Blend:     nil,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeBack,
		},
		Multisample: wgpu.MultisampleState{Count: 1, Mask: 0xFFFFFFFF},
	})
	return errors.Log(err)
}

func (pp *Pipelines) createMarker(dev *gpu.Device, format wgpu.TextureFormat) error {
	module, err := dev.Device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "marker",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: markerShader},
	})
	if errors.Log(err) != nil {
		return err
	}
	defer module.Release()

	layout, err := dev.Device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "marker",
		BindGroupLayouts: []*wgpu.BindGroupLayout{pp.layouts.pickCamera},
	})
	if errors.Log(err) != nil {
		return err
	}
	defer layout.Release()

	// slot 0: per-instance [pos.xyz, color.rgb, size, selected],
	// slot 1: shared quad corner
	vtx := []wgpu.VertexBufferLayout{
		{
			ArrayStride: 32,
			StepMode:    wgpu.VertexStepModeInstance,
			Attributes: []wgpu.VertexAttribute{
				{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
				{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 2},
				{Format: wgpu.VertexFormatFloat32, Offset: 24, ShaderLocation: 3},
				{Format: wgpu.VertexFormatFloat32, Offset: 28, ShaderLocation: 4},
			},
		},
		{
			ArrayStride: 8,
			StepMode:    wgpu.VertexStepModeVertex,
			Attributes: []wgpu.VertexAttribute{
				{Format: wgpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 1},
			},
		},
	}

	pp.Marker, err = dev.Device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "marker",
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
			Buffers:    vtx,
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format: format,
				Blend: &wgpu.BlendState{
					Color: wgpu.BlendComponent{
						SrcFactor: wgpu.BlendFactorSrcAlpha,
						DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						Operation: wgpu.BlendOperationAdd,
					},
					Alpha: wgpu.BlendComponent{
						SrcFactor: wgpu.BlendFactorOne,
						DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						Operation: wgpu.BlendOperationAdd,
					},
				},
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		DepthStencil: depthState(),
		Multisample:  wgpu.MultisampleState{Count: 1, Mask: 0xFFFFFFFF},
	})
	return errors.Log(err)
}

func depthState() *wgpu.DepthStencilState {
	return &wgpu.DepthStencilState{
		Format:            wgpu.TextureFormatDepth32Float,
		DepthWriteEnabled: true,
		DepthCompare:      wgpu.CompareFunctionLess,
		StencilFront:      wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
		StencilBack:       wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
	}
}

// Release frees the pipelines and layouts.
func (pp *Pipelines) Release() {
	if pp.Surface != nil {
		pp.Surface.Release()
		pp.Surface = nil
	}
	if pp.Picking != nil {
		pp.Picking.Release()
		pp.Picking = nil
	}
	if pp.Marker != nil {
		pp.Marker.Release()
		pp.Marker = nil
	}
	ly := &pp.layouts
	for _, l := range []*wgpu.BindGroupLayout{ly.camera, ly.overlay, ly.colors, ly.roi, ly.pickCamera, ly.pickSurface} {
		if l != nil {
			l.Release()
		}
	}
	pp.layouts = bindLayouts{}
}
