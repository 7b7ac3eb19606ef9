// Copyright (c) 2025, Brainview Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package session

import (
	"path/filepath"
	"testing"

	"github.com/brainsurf/brainview/render"
	"github.com/stretchr/testify/assert"
)

func testState() *State {
	return &State{
		Camera:   render.CameraState{Distance: 250, Azimuth: 1.1, Elevation: -0.3},
		Colormap: render.Viridis.String(),
		Overlay: render.OverlayParams{
			DataMin:      -3,
			DataMax:      3,
			Threshold:    1.2,
			UseThreshold: true,
			ROIEnabled:   true,
		},
		Debug:        render.DebugNone.String(),
		Source:       render.SourceParcellation.String(),
		Parcellation: render.ParcellationFillEdges.String(),
	}
}

func TestStateRoundTrip(t *testing.T) {
	st := testState()
	fn := filepath.Join(t.TempDir(), "session.yaml")
	assert.NoError(t, st.Save(fn))

	got, err := Open(fn)
	assert.NoError(t, err)
	assert.Equal(t, st, got)
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestModeNames(t *testing.T) {
	dv, err := debugByName("Raw Overlay")
	assert.NoError(t, err)
	assert.Equal(t, render.DebugRawOverlay, dv)
	_, err = debugByName("bogus")
	assert.Error(t, err)

	cs, err := sourceByName("Overlay")
	assert.NoError(t, err)
	assert.Equal(t, render.SourceOverlay, cs)
	_, err = sourceByName("")
	assert.Error(t, err)

	pd, err := parcellationByName("Edges Only")
	assert.NoError(t, err)
	assert.Equal(t, render.ParcellationEdges, pd)
	_, err = parcellationByName("Fill+Edges")
	assert.Error(t, err)
}
