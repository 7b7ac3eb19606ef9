// Copyright (c) 2025, Brainview Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package render is the GPU rendering core of an interactive
// cortical surface viewer. It draws triangulated brain surfaces with
// a composited scalar overlay (smooth statistical thresholding
// through a colormap), parcellation region coloring, ROI highlights,
// pseudo-curvature base shading, and diagnostic debug views. It also
// provides billboard annotation markers with screen-constant size,
// an orbit camera with anatomical view presets, and exact GPU
// picking via an off-screen integer id pass with asynchronous
// readback.
//
// [Renderer] is the entry point: create one over a [gpu.Renderer]
// target, add surfaces and data arrays, and call RenderFrame from
// the platform event loop.
package render
