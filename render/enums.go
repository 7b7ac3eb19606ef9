// Copyright (c) 2025, Brainview Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

// DebugView selects a diagnostic rendering mode. Any mode other than
// [DebugNone] replaces the normal overlay compositing entirely:
// no colormap, parcellation, ROI tint, lighting, or selection
// highlight is applied.
type DebugView uint32

const (
	// DebugNone is normal rendering with overlay colormapping.
	DebugNone DebugView = iota

	// DebugNormals renders surface normals as RGB colors,
	// with each component mapped from [-1, 1] to [0, 1].
	DebugNormals

	// DebugRawOverlay renders raw overlay values as grayscale,
	// normalized by the current data range, without colormap or
	// thresholding. NaN values render as magenta.
	DebugRawOverlay

	// DebugVertexID renders each vertex id as a deterministic
	// pseudo-random color, for verifying id continuity and that
	// picking lines up with the geometry.
	DebugVertexID
)

// DebugViews returns all debug view modes.
func DebugViews() []DebugView {
	return []DebugView{DebugNone, DebugNormals, DebugRawOverlay, DebugVertexID}
}

// Uint32 returns the shader encoding of the mode.
func (dv DebugView) Uint32() uint32 { return uint32(dv) }

func (dv DebugView) String() string {
	switch dv {
	case DebugNone:
		return "Normal"
	case DebugNormals:
		return "Normals"
	case DebugRawOverlay:
		return "Raw Overlay"
	case DebugVertexID:
		return "Vertex ID"
	}
	return "Unknown"
}

// ColorSource selects what drives the surface color in normal
// rendering: the scalar overlay through a colormap, or the
// parcellation region labels through the region color table.
type ColorSource uint32

const (
	// SourceOverlay colors the surface by the scalar overlay.
	SourceOverlay ColorSource = iota

	// SourceParcellation colors the surface by region labels.
	SourceParcellation
)

// ColorSources returns all color sources.
func ColorSources() []ColorSource {
	return []ColorSource{SourceOverlay, SourceParcellation}
}

// Uint32 returns the shader encoding of the source.
func (cs ColorSource) Uint32() uint32 { return uint32(cs) }

func (cs ColorSource) String() string {
	switch cs {
	case SourceOverlay:
		return "Overlay"
	case SourceParcellation:
		return "Parcellation"
	}
	return "Unknown"
}

// ParcellationDisplay selects how parcellation regions are drawn.
type ParcellationDisplay uint32

const (
	// ParcellationFill fills each region with its table color.
	ParcellationFill ParcellationDisplay = iota

	// ParcellationEdges draws region boundaries only. Without
	// per-vertex adjacency data true boundary detection is not
	// possible in the shader, so this darkens the fill by a
	// constant factor as an approximation.
	ParcellationEdges

	// ParcellationFillEdges combines fill and edge display.
	ParcellationFillEdges
)

// ParcellationDisplays returns all parcellation display modes.
func ParcellationDisplays() []ParcellationDisplay {
	return []ParcellationDisplay{ParcellationFill, ParcellationEdges, ParcellationFillEdges}
}

// Uint32 returns the shader encoding of the mode.
func (pd ParcellationDisplay) Uint32() uint32 { return uint32(pd) }

func (pd ParcellationDisplay) String() string {
	switch pd {
	case ParcellationFill:
		return "Fill"
	case ParcellationEdges:
		return "Edges Only"
	case ParcellationFillEdges:
		return "Fill + Edges"
	}
	return "Unknown"
}
