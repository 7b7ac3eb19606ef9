// Copyright (c) 2025, Brainview Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDebugViewEncoding(t *testing.T) {
	assert.Equal(t, uint32(0), DebugNone.Uint32())
	assert.Equal(t, uint32(1), DebugNormals.Uint32())
	assert.Equal(t, uint32(2), DebugRawOverlay.Uint32())
	assert.Equal(t, uint32(3), DebugVertexID.Uint32())
	assert.Len(t, DebugViews(), 4)

	names := map[DebugView]string{}
	for _, dv := range DebugViews() {
		assert.NotEqual(t, "Unknown", dv.String())
		names[dv] = dv.String()
	}
	assert.Len(t, names, 4)
}

func TestColorSourceEncoding(t *testing.T) {
	assert.Equal(t, uint32(0), SourceOverlay.Uint32())
	assert.Equal(t, uint32(1), SourceParcellation.Uint32())
	assert.Len(t, ColorSources(), 2)
	assert.Equal(t, "Overlay", SourceOverlay.String())
	assert.Equal(t, "Parcellation", SourceParcellation.String())
}

func TestParcellationDisplayEncoding(t *testing.T) {
	assert.Equal(t, uint32(0), ParcellationFill.Uint32())
	assert.Equal(t, uint32(1), ParcellationEdges.Uint32())
	assert.Equal(t, uint32(2), ParcellationFillEdges.Uint32())
	assert.Len(t, ParcellationDisplays(), 3)
}

func TestOverlayParamsUniform(t *testing.T) {
	op := OverlayParams{
		DataMin:      -3,
		DataMax:      3,
		Threshold:    1.2,
		UseThreshold: true,
		Debug:        DebugRawOverlay,
		Source:       SourceParcellation,
		Parcellation: ParcellationEdges,
		ROIEnabled:   true,
	}
	u := op.uniform()
	assert.Equal(t, float32(-3), u.DataMin)
	assert.Equal(t, float32(3), u.DataMax)
	assert.Equal(t, float32(1.2), u.Threshold)
	assert.Equal(t, float32(1), u.UseThreshold)
	assert.Equal(t, uint32(2), u.Debug)
	assert.Equal(t, uint32(1), u.Source)
	assert.Equal(t, uint32(1), u.Parcellation)
	assert.Equal(t, uint32(1), u.ROIEnabled)

	zop := OverlayParams{}
	zero := zop.uniform()
	assert.Equal(t, float32(0), zero.UseThreshold)
	assert.Equal(t, uint32(0), zero.ROIEnabled)
}
