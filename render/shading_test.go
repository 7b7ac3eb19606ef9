// Copyright (c) 2025, Brainview Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"testing"

	"cogentcore.org/core/math32"
	cmath32 "github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
)

func TestThresholdWidth(t *testing.T) {
	assert.InDelta(t, 0.4, ThresholdWidth(2), 1e-6)
	assert.InDelta(t, 0.1, ThresholdWidth(0), 1e-6)
	assert.InDelta(t, 0.1, ThresholdWidth(0.3), 1e-6)
	assert.InDelta(t, 1.0, ThresholdWidth(5), 1e-6)
}

func TestOverlayOpacity(t *testing.T) {
	// below threshold fully transparent
	assert.Equal(t, float32(0), OverlayOpacity(1.9, 2, true))
	assert.Equal(t, float32(0), OverlayOpacity(2, 2, true))

	// at and beyond threshold + width, at the ceiling
	assert.InDelta(t, OpacityCeiling, OverlayOpacity(2.4, 2, true), 1e-6)
	assert.InDelta(t, OpacityCeiling, OverlayOpacity(100, 2, true), 1e-6)

	// inside the window: smoothstep(2, 2.4, 2.3) * 0.85
	assert.InDelta(t, 0.7171875, OverlayOpacity(2.3, 2, true), 1e-6)

	// two-sided: negative values threshold on the absolute value
	assert.InDelta(t, OverlayOpacity(2.3, 2, true), OverlayOpacity(-2.3, 2, true), 1e-7)
	assert.Equal(t, float32(0), OverlayOpacity(-1.9, 2, true))

	// monotone non-decreasing across the window
	prev := float32(-1)
	for v := float32(1.8); v < 2.6; v += 0.01 {
		op := OverlayOpacity(v, 2, true)
		assert.GreaterOrEqual(t, op, prev, "value %g", v)
		prev = op
	}

	// thresholding off is the constant ceiling
	assert.InDelta(t, OpacityCeiling, OverlayOpacity(0.001, 2, false), 1e-6)

	// NaN is always transparent
	nan := cmath32.NaN()
	assert.Equal(t, float32(0), OverlayOpacity(nan, 2, true))
	assert.Equal(t, float32(0), OverlayOpacity(nan, 2, false))
}

func TestNormalizedValue(t *testing.T) {
	assert.InDelta(t, 0.5, NormalizedValue(0, -10, 10), 1e-6)
	assert.InDelta(t, 0, NormalizedValue(-10, -10, 10), 1e-6)
	assert.InDelta(t, 1, NormalizedValue(10, -10, 10), 1e-6)

	// out of range clamps
	assert.Equal(t, float32(0), NormalizedValue(-50, -10, 10))
	assert.Equal(t, float32(1), NormalizedValue(50, -10, 10))

	// zero-width range maps everything to the middle
	assert.Equal(t, float32(0.5), NormalizedValue(3, 5, 5))
	assert.Equal(t, float32(0.5), NormalizedValue(5, 5, 5))
}

func TestSmoothStep(t *testing.T) {
	assert.Equal(t, float32(0), SmoothStep(0, 1, -1))
	assert.Equal(t, float32(0), SmoothStep(0, 1, 0))
	assert.Equal(t, float32(1), SmoothStep(0, 1, 1))
	assert.Equal(t, float32(1), SmoothStep(0, 1, 2))
	assert.InDelta(t, 0.5, SmoothStep(0, 1, 0.5), 1e-6)
	assert.InDelta(t, 0.15625, SmoothStep(0, 1, 0.25), 1e-6)
}

func TestCurvatureShade(t *testing.T) {
	// normal aligned with the radial direction: convex, lightest
	out := CurvatureShade(math32.Vec3(0, 0, 1), math32.Vec3(0, 0, 10))
	assert.InDelta(t, 0.75, out, 1e-5)

	// normal opposing the radial direction: concave, darkest
	in := CurvatureShade(math32.Vec3(0, 0, -1), math32.Vec3(0, 0, 10))
	assert.InDelta(t, 0.45, in, 1e-5)

	// perpendicular is the midpoint
	mid := CurvatureShade(math32.Vec3(1, 0, 0), math32.Vec3(0, 0, 10))
	assert.InDelta(t, 0.6, mid, 1e-5)

	// degenerate position falls back to the midpoint
	assert.Equal(t, float32(0.6), CurvatureShade(math32.Vec3(0, 0, 1), math32.Vector3{}))

	// the whole band stays inside [0.45, 0.75]
	for _, n := range []math32.Vector3{
		math32.Vec3(1, 2, 3), math32.Vec3(-1, 0.5, 0.2), math32.Vec3(0.1, -4, 2),
	} {
		s := CurvatureShade(n, math32.Vec3(3, -2, 7))
		assert.GreaterOrEqual(t, s, float32(0.45)-1e-5)
		assert.LessOrEqual(t, s, float32(0.75)+1e-5)
	}
}

func TestSelectionAppliesTo(t *testing.T) {
	sel := Selection{VertexID: 42, SurfaceID: 2, Has: true}
	assert.True(t, sel.AppliesTo(42, 2))
	assert.False(t, sel.AppliesTo(41, 2))  // wrong vertex
	assert.False(t, sel.AppliesTo(42, 1))  // same vertex id, other surface
	assert.False(t, sel.AppliesTo(41, 1))

	none := Selection{VertexID: 42, SurfaceID: 2}
	assert.False(t, none.AppliesTo(42, 2))
}

func TestVertexIDColor(t *testing.T) {
	// deterministic
	assert.Equal(t, VertexIDColor(1234), VertexIDColor(1234))

	// components in range
	for _, id := range []uint32{0, 1, 17, 65535, 1 << 20} {
		c := VertexIDColor(id)
		for _, v := range []float32{c.X, c.Y, c.Z} {
			assert.GreaterOrEqual(t, v, float32(0))
			assert.LessOrEqual(t, v, float32(1))
		}
	}

	// neighboring ids land on visibly different colors
	a, b := VertexIDColor(100), VertexIDColor(101)
	assert.NotEqual(t, a, b)
}

func TestRegionKnown(t *testing.T) {
	assert.True(t, RegionKnown(1))
	assert.True(t, RegionKnown(0.5))
	assert.False(t, RegionKnown(0.2))
	assert.False(t, RegionKnown(0))
}

func TestLambert(t *testing.T) {
	// facing the light gets ambient + full diffuse
	facing := Lambert(math32.Vec3(0.5, 0.5, 1))
	assert.InDelta(t, 1.0, facing, 1e-5)

	// facing away clamps to the ambient floor
	away := Lambert(math32.Vec3(-0.5, -0.5, -1))
	assert.InDelta(t, 0.3, away, 1e-5)
}

func TestMarkerClipOffset(t *testing.T) {
	corner := math32.Vec2(1, -1)

	// on-screen size is proportional to clip w, so the projected
	// size (offset / w) is invariant to camera distance
	near := MarkerClipOffset(corner, 1, 2)
	far := MarkerClipOffset(corner, 1, 100)
	assert.InDelta(t, near.X/2, far.X/100, 1e-6)
	assert.InDelta(t, near.Y/2, far.Y/100, 1e-6)

	// doubling size doubles the offset
	big := MarkerClipOffset(corner, 2, 2)
	assert.InDelta(t, near.X*2, big.X, 1e-6)
}
