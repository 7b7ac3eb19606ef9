// Copyright (c) 2025, Brainview Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"cogentcore.org/core/math32"
	cmath32 "github.com/chewxy/math32"
)

// This file mirrors the per-fragment math in shaders/surface.wgsl on
// the CPU, so that thresholding, normalization, and shading behavior
// can be computed for legends and UI readouts with identical results.

const (
	// OpacityCeiling is the maximum overlay opacity: some base
	// surface shading always shows through.
	OpacityCeiling = 0.85

	// roiBlend is how strongly ROI vertices are pulled toward the
	// ROI highlight color.
	roiBlend = 0.85

	// selectionBlend is how strongly the selected vertex is pulled
	// toward the selection highlight color.
	selectionBlend = 0.7

	// edgeDarken approximates edges-only parcellation display by
	// darkening the region fill.
	edgeDarken = 0.55

	lightAmbient = 0.3
	lightDiffuse = 0.7
)

// ThresholdWidth returns the width of the smooth threshold
// transition window for the given threshold.
func ThresholdWidth(threshold float32) float32 {
	return cmath32.Max(threshold*0.2, 0.1)
}

// OverlayOpacity returns the opacity of the overlay color over the
// base surface shade for the given scalar value. NaN always yields 0.
// With thresholding off, the opacity is the constant [OpacityCeiling].
// With thresholding on, the opacity ramps smoothly from 0 at
// threshold to the ceiling at threshold + [ThresholdWidth], applied
// to the absolute value so that two-sided statistics threshold
// symmetrically.
func OverlayOpacity(value, threshold float32, useThreshold bool) float32 {
	if cmath32.IsNaN(value) {
		return 0
	}
	if !useThreshold {
		return OpacityCeiling
	}
	w := ThresholdWidth(threshold)
	return SmoothStep(threshold, threshold+w, cmath32.Abs(value)) * OpacityCeiling
}

// SmoothStep is the standard Hermite smoothstep of x between edges
// lo and hi, clamped to [0, 1].
func SmoothStep(lo, hi, x float32) float32 {
	t := math32.Clamp((x-lo)/(hi-lo), 0, 1)
	return t * t * (3 - 2*t)
}

// NormalizedValue maps a scalar into [0, 1] using the data range.
// A zero-width range yields 0.5; out-of-range values clamp.
func NormalizedValue(value, dataMin, dataMax float32) float32 {
	rng := dataMax - dataMin
	if cmath32.Abs(rng) < 1e-9 {
		return 0.5
	}
	return math32.Clamp((value-dataMin)/rng, 0, 1)
}

// CurvatureShade returns the pseudo-curvature gray level for a vertex
// with the given normal at the given model-space position. It is the
// angle between the normal and the radial direction from the origin,
// mapped into a narrow luminance band so gyral (convex) regions read
// lighter than sulcal (concave) ones. This is a visual approximation
// that assumes the mesh is roughly centered at the origin, not true
// discrete curvature.
func CurvatureShade(normal, pos math32.Vector3) float32 {
	l := pos.Length()
	if l < 1e-6 {
		return 0.6
	}
	n := normal.Normal()
	d := n.Dot(pos.DivScalar(l))
	return 0.6 + 0.15*d
}

// VertexIDColor returns a deterministic pseudo-random color for a
// vertex id, using three independent multiplicative hashes. This is
// for visual verification of id continuity only, not a real hash.
func VertexIDColor(id uint32) math32.Vector3 {
	return math32.Vec3(idHash(id, 2654435761), idHash(id, 2246822519), idHash(id, 3266489917))
}

func idHash(id, mult uint32) float32 {
	return float32((id*mult)>>16&0xff) / 255
}

// RegionKnown reports whether a region color table entry is a known
// region: the alpha channel is a validity flag.
func RegionKnown(alpha float32) bool {
	return alpha >= 0.5
}

// Lambert applies the fixed directional light to a color channel
// scale: ambient floor plus diffuse weighted by the normal.
func Lambert(normal math32.Vector3) float32 {
	light := math32.Vec3(0.5, 0.5, 1).Normal()
	diff := cmath32.Max(normal.Normal().Dot(light), 0)
	return lightAmbient + lightDiffuse*diff
}

// MarkerClipOffset returns the clip-space displacement of a marker
// quad corner. Scaling by the anchor's clip w keeps the on-screen
// size constant regardless of camera distance.
func MarkerClipOffset(corner math32.Vector2, size, clipW float32) math32.Vector2 {
	return corner.MulScalar(size * markerClipScale * clipW)
}

// markerClipScale converts the unit quad corner to clip-space units;
// at size 1 a marker is about 2% of the viewport half-extent.
const markerClipScale = 0.02
