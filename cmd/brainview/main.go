// Copyright (c) 2025, Brainview Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Demo viewer: two procedural wavy-sphere "hemispheres" with a
// synthetic statistical overlay, parcellation, and ROI mask.
//
// Controls: drag = orbit, scroll = zoom, click = pick + marker,
// 0 = normal view, F1-F3 = debug views, o/p = overlay/parcellation
// source, e = cycle parcellation display, r = toggle ROI,
// t = toggle threshold, c = cycle colormap, 1-6 = view presets,
// s/l = save/load session.
package main

import (
	"fmt"
	"image"
	"math"
	"runtime"
	"time"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/gpu"
	"github.com/brainsurf/brainview/render"
	"github.com/brainsurf/brainview/session"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

const sessionFile = "brainview-session.yaml"

func init() {
	// must lock main thread for gpu!
	runtime.LockOSThread()
}

func main() {
	gp := gpu.NewGPU(nil)

	if errors.Log(glfw.Init()) != nil {
		return
	}
	defer glfw.Terminate()

	size := image.Point{1024, 768}
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	window, err := glfw.CreateWindow(size.X, size.Y, "brainview", nil, nil)
	if errors.Log(err) != nil {
		return
	}
	defer window.Destroy()

	sp := gpu.Instance().CreateSurface(wgpuglfw.GetSurfaceDescriptor(window))
	sf := gpu.NewSurface(gp, sp, size, 1, gpu.UndefinedType)

	rr, err := render.NewRenderer(gp, sf, size)
	if errors.Log(err) != nil {
		return
	}
	defer gp.Release()
	defer sf.Release()
	defer rr.Release()

	positions, normals, indices := wavySphere(80, 96, 64)

	left, err := rr.AddSurface(positions, normals, indices, [3]float32{-45, 0, 0})
	if errors.Log(err) != nil {
		return
	}
	right, err := rr.AddSurface(positions, normals, indices, [3]float32{45, 0, 0})
	if errors.Log(err) != nil {
		return
	}

	for _, id := range []render.SurfaceID{left, right} {
		errors.Log(rr.SetOverlay(id, syntheticOverlay(positions)))
		errors.Log(rr.SetParcellation(id, octantLabels(positions), octantTable()))
		errors.Log(rr.SetROI(id, dorsalROI(positions)))
	}
	errors.Log(rr.SetOverlayParams(render.OverlayParams{
		DataMin: -3, DataMax: 3, Threshold: 1.2, UseThreshold: true,
	}))

	var marker render.NodeID
	rr.OnPick = func(res *render.PickResult) {
		if res == nil {
			rr.ClearSelection()
			return
		}
		rr.SetSelection(render.Selection{
			VertexID: res.VertexID, SurfaceID: res.SurfaceID, Has: true,
		})
		vi := int(res.VertexID) * 3
		if vi+2 >= len(positions) {
			return
		}
		pos := [3]float32{positions[vi], positions[vi+1], positions[vi+2]}
		if res.SurfaceID == left {
			pos[0] -= 45
		} else {
			pos[0] += 45
		}
		if marker == 0 {
			marker = rr.AddMarker(pos, [3]float32{0.2, 0.9, 0.4})
			rr.SetMarkerStyle(marker, render.MarkerStyle{Size: 1, Selected: true})
		} else {
			rr.UpdateMarker(marker, pos, [3]float32{0.2, 0.9, 0.4})
		}
		fmt.Printf("picked surface %d vertex %d\n", res.SurfaceID, res.VertexID)
	}

	var dragging bool
	var lastX, lastY float64
	var downX, downY float64

	window.SetMouseButtonCallback(func(w *glfw.Window, b glfw.MouseButton, a glfw.Action, m glfw.ModifierKey) {
		if b != glfw.MouseButtonLeft {
			return
		}
		x, y := w.GetCursorPos()
		switch a {
		case glfw.Press:
			dragging = true
			lastX, lastY = x, y
			downX, downY = x, y
		case glfw.Release:
			dragging = false
			if math.Abs(x-downX) < 3 && math.Abs(y-downY) < 3 {
				if err := rr.StartPick(int(x), int(y)); err != nil {
					errors.Log(err)
				}
			}
		}
	})
	window.SetCursorPosCallback(func(w *glfw.Window, x, y float64) {
		if dragging {
			rr.Camera.Rotate(float32(x-lastX), float32(y-lastY))
			lastX, lastY = x, y
		}
	})
	window.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
		rr.Camera.Zoom(float32(-yoff * 12))
	})
	window.SetSizeCallback(func(w *glfw.Window, width, height int) {
		if width > 0 && height > 0 {
			errors.Log(rr.SetSize(image.Point{width, height}))
		}
	})
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, sc int, a glfw.Action, m glfw.ModifierKey) {
		if a != glfw.Press {
			return
		}
		op := rr.OverlayParams()
		switch key {
		case glfw.Key0, glfw.KeyGraveAccent:
			op.Debug = render.DebugNone
		case glfw.KeyF1:
			op.Debug = render.DebugNormals
		case glfw.KeyF2:
			op.Debug = render.DebugRawOverlay
		case glfw.KeyF3:
			op.Debug = render.DebugVertexID
		case glfw.KeyO:
			op.Source = render.SourceOverlay
		case glfw.KeyP:
			op.Source = render.SourceParcellation
		case glfw.KeyE:
			op.Parcellation = cycleDisplay(op.Parcellation)
		case glfw.KeyR:
			op.ROIEnabled = !op.ROIEnabled
		case glfw.KeyT:
			op.UseThreshold = !op.UseThreshold
		case glfw.KeyC:
			errors.Log(rr.SetColormap(nextColormap(rr.ActiveColormap())))
			return
		case glfw.Key1, glfw.Key2, glfw.Key3, glfw.Key4, glfw.Key5, glfw.Key6:
			presets := []render.ViewPreset{
				render.LateralLeft, render.LateralRight, render.Dorsal,
				render.Ventral, render.Anterior, render.Posterior,
			}
			rr.Camera.SetPreset(presets[key-glfw.Key1])
			return
		case glfw.KeyS:
			errors.Log(session.Capture(rr).Save(sessionFile))
			fmt.Println("session saved")
			return
		case glfw.KeyL:
			st, err := session.Open(sessionFile)
			if errors.Log(err) == nil {
				errors.Log(st.Apply(rr))
				fmt.Println("session loaded")
			}
			return
		default:
			return
		}
		errors.Log(rr.SetOverlayParams(op))
	})

	fpsTicker := time.NewTicker(time.Second / 60)
	defer fpsTicker.Stop()
	for range fpsTicker.C {
		if window.ShouldClose() {
			return
		}
		glfw.PollEvents()
		rr.PollPick()
		if errors.Log(rr.RenderFrame()) != nil {
			return
		}
	}
}

func cycleDisplay(pd render.ParcellationDisplay) render.ParcellationDisplay {
	all := render.ParcellationDisplays()
	return all[(int(pd)+1)%len(all)]
}

func nextColormap(cm render.Colormap) render.Colormap {
	all := render.Colormaps()
	return all[(int(cm)+1)%len(all)]
}

// wavySphere generates a bumpy sphere standing in for a cortical
// hemisphere: radius modulated by low-frequency angular waves, with
// radial normals (good enough for display purposes).
func wavySphere(radius float32, sectors, rings int) (positions, normals []float32, indices []uint32) {
	for r := 0; r <= rings; r++ {
		phi := math.Pi * float64(r) / float64(rings)
		for s := 0; s <= sectors; s++ {
			theta := 2 * math.Pi * float64(s) / float64(sectors)
			bump := 1 + 0.07*math.Sin(6*theta)*math.Sin(5*phi)
			rad := float64(radius) * bump
			x := rad * math.Sin(phi) * math.Cos(theta)
			y := rad * math.Sin(phi) * math.Sin(theta)
			z := rad * math.Cos(phi)
			positions = append(positions, float32(x), float32(y), float32(z))
			l := math.Sqrt(x*x + y*y + z*z)
			normals = append(normals, float32(x/l), float32(y/l), float32(z/l))
		}
	}
	stride := uint32(sectors + 1)
	for r := 0; r < rings; r++ {
		for s := 0; s < sectors; s++ {
			a := uint32(r)*stride + uint32(s)
			b := a + stride
			indices = append(indices, a, b, a+1, a+1, b, b+1)
		}
	}
	return
}

// syntheticOverlay is a smooth signed field with NaN holes, so the
// thresholding, two-sided statistics, and no-data paths all show.
func syntheticOverlay(positions []float32) []float32 {
	n := len(positions) / 3
	vals := make([]float32, n)
	nan := float32(math.NaN())
	for i := 0; i < n; i++ {
		x := float64(positions[i*3])
		y := float64(positions[i*3+1])
		z := float64(positions[i*3+2])
		v := 3 * math.Sin(x*0.06) * math.Cos(y*0.05) * math.Sin(z*0.04+1)
		if math.Sin(x*0.2)*math.Cos(z*0.2) > 0.75 {
			vals[i] = nan
		} else {
			vals[i] = float32(v)
		}
	}
	return vals
}

// octantLabels assigns region 1..8 by coordinate octant, with a band
// of label 0 (unknown) near the axes planes.
func octantLabels(positions []float32) []uint32 {
	n := len(positions) / 3
	labels := make([]uint32, n)
	for i := 0; i < n; i++ {
		x, y, z := positions[i*3], positions[i*3+1], positions[i*3+2]
		if abs32(x) < 5 || abs32(y) < 5 || abs32(z) < 5 {
			continue // unknown
		}
		var l uint32 = 1
		if x > 0 {
			l += 1
		}
		if y > 0 {
			l += 2
		}
		if z > 0 {
			l += 4
		}
		labels[i] = l
	}
	return labels
}

func octantTable() []render.RegionColor {
	return []render.RegionColor{
		{0, 0, 0, 0}, // unknown
		{0.89, 0.10, 0.11, 1},
		{0.22, 0.49, 0.72, 1},
		{0.30, 0.69, 0.29, 1},
		{0.60, 0.31, 0.64, 1},
		{1.00, 0.50, 0.00, 1},
		{1.00, 1.00, 0.20, 1},
		{0.65, 0.34, 0.16, 1},
		{0.97, 0.51, 0.75, 1},
	}
}

// dorsalROI marks the upper cap of the sphere.
func dorsalROI(positions []float32) []float32 {
	n := len(positions) / 3
	mask := make([]float32, n)
	for i := 0; i < n; i++ {
		if positions[i*3+2] > 45 {
			mask[i] = 1
		}
	}
	return mask
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
