// Copyright (c) 2025, Brainview Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColormapNames(t *testing.T) {
	for _, cm := range Colormaps() {
		got, err := ColormapByName(cm.String())
		assert.NoError(t, err)
		assert.Equal(t, cm, got)
	}
	_, err := ColormapByName("NoSuchMap")
	assert.Error(t, err)
}

func TestRdBuEndpoints(t *testing.T) {
	lo := RdBu.Sample(0)
	assert.InDelta(t, 1, lo.X, 1e-6)
	assert.InDelta(t, 0, lo.Y, 1e-6)
	assert.InDelta(t, 0, lo.Z, 1e-6)

	mid := RdBu.Sample(0.5)
	assert.InDelta(t, 1, mid.X, 1e-6)
	assert.InDelta(t, 1, mid.Y, 1e-6)
	assert.InDelta(t, 1, mid.Z, 1e-6)

	hi := RdBu.Sample(1)
	assert.InDelta(t, 0, hi.X, 1e-6)
	assert.InDelta(t, 0, hi.Y, 1e-6)
	assert.InDelta(t, 1, hi.Z, 1e-6)
}

func TestViridisEndpoints(t *testing.T) {
	lo := Viridis.Sample(0)
	assert.InDelta(t, 0.267, lo.X, 1e-3)
	assert.InDelta(t, 0.004, lo.Y, 1e-3)
	assert.InDelta(t, 0.329, lo.Z, 1e-3)

	hi := Viridis.Sample(1)
	assert.InDelta(t, 0.987, hi.X, 1e-3)
	assert.InDelta(t, 0.954, hi.Y, 1e-3)
	assert.InDelta(t, 0.179, hi.Z, 1e-3)
}

func TestHotEndpoints(t *testing.T) {
	lo := Hot.Sample(0)
	assert.InDelta(t, 0, lo.X+lo.Y+lo.Z, 1e-6)

	hi := Hot.Sample(1)
	assert.InDelta(t, 1, hi.X, 1e-6)
	assert.InDelta(t, 1, hi.Y, 1e-6)
	assert.InDelta(t, 1, hi.Z, 2e-2) // (1-0.66)*3 clamps just above 1
}

func TestSampleClamps(t *testing.T) {
	for _, cm := range Colormaps() {
		assert.Equal(t, cm.Sample(0), cm.Sample(-5), "%v", cm)
		assert.Equal(t, cm.Sample(1), cm.Sample(5), "%v", cm)
		for _, tt := range []float32{0, 0.1, 0.33, 0.5, 0.9, 1} {
			c := cm.Sample(tt)
			for _, v := range []float32{c.X, c.Y, c.Z} {
				assert.GreaterOrEqual(t, v, float32(0))
				assert.LessOrEqual(t, v, float32(1))
			}
		}
	}
}

func TestColormapBytes(t *testing.T) {
	data := RdBu.Bytes(ColormapN)
	assert.Equal(t, ColormapN*4, len(data))

	// first texel is full red, opaque
	assert.Equal(t, byte(255), data[0])
	assert.Equal(t, byte(0), data[1])
	assert.Equal(t, byte(0), data[2])
	assert.Equal(t, byte(255), data[3])

	// last texel is full blue
	last := (ColormapN - 1) * 4
	assert.Equal(t, byte(0), data[last])
	assert.Equal(t, byte(255), data[last+2])
	assert.Equal(t, byte(255), data[last+3])
}
