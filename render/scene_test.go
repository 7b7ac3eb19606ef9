// Copyright (c) 2025, Brainview Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"testing"

	"cogentcore.org/core/math32"
	"github.com/stretchr/testify/assert"
)

func TestSceneSurfaces(t *testing.T) {
	sc := NewScene()
	assert.False(t, sc.HasSurface())

	a := sc.AddSurface(1, math32.Vec3(-45, 0, 0))
	b := sc.AddSurface(2, math32.Vec3(45, 0, 0))
	assert.True(t, sc.HasSurface())
	assert.NotEqual(t, a, b)

	surfs := sc.Surfaces()
	assert.Len(t, surfs, 2)
	assert.Equal(t, a, surfs[0].ID)
	assert.Equal(t, b, surfs[1].ID)
	assert.Equal(t, SurfaceID(1), surfs[0].Surface)
	assert.Equal(t, float32(-45), surfs[0].Translation.X)

	sc.Remove(a)
	assert.Len(t, sc.Surfaces(), 1)
}

func TestSceneMarkers(t *testing.T) {
	sc := NewScene()
	rev := sc.markerRev

	m := sc.AddMarker(math32.Vec3(1, 2, 3), math32.Vec3(1, 0, 0))
	assert.Equal(t, 1, sc.MarkerCount())
	assert.Greater(t, sc.markerRev, rev)

	st, ok := sc.MarkerStyle(m)
	assert.True(t, ok)
	assert.Equal(t, DefaultMarkerStyle(), st)

	rev = sc.markerRev
	assert.True(t, sc.UpdateMarker(m, math32.Vec3(4, 5, 6), math32.Vec3(0, 1, 0)))
	assert.Greater(t, sc.markerRev, rev)

	ms := sc.Markers()
	assert.Len(t, ms, 1)
	assert.Equal(t, float32(4), ms[0].Translation.X)
	assert.Equal(t, float32(1), ms[0].Color.Y)

	assert.True(t, sc.SetMarkerStyle(m, MarkerStyle{Size: 2, Selected: true}))
	st, _ = sc.MarkerStyle(m)
	assert.True(t, st.Selected)
	assert.Equal(t, float32(2), st.Size)

	// surface nodes are not markers
	s := sc.AddSurface(1, math32.Vector3{})
	assert.False(t, sc.UpdateMarker(s, math32.Vector3{}, math32.Vector3{}))
	_, ok = sc.MarkerStyle(s)
	assert.False(t, ok)

	// unknown ids
	assert.False(t, sc.UpdateMarker(9999, math32.Vector3{}, math32.Vector3{}))

	sc.ClearMarkers()
	assert.Equal(t, 0, sc.MarkerCount())
	assert.True(t, sc.HasSurface())
}

func TestSceneMarkerOrdering(t *testing.T) {
	sc := NewScene()
	ids := []NodeID{
		sc.AddMarker(math32.Vec3(1, 0, 0), math32.Vector3{}),
		sc.AddMarker(math32.Vec3(2, 0, 0), math32.Vector3{}),
		sc.AddMarker(math32.Vec3(3, 0, 0), math32.Vector3{}),
	}
	ms := sc.Markers()
	assert.Len(t, ms, 3)
	for i, nd := range ms {
		assert.Equal(t, ids[i], nd.ID)
	}

	// removal keeps the remaining order stable
	sc.Remove(ids[1])
	ms = sc.Markers()
	assert.Len(t, ms, 2)
	assert.Equal(t, ids[0], ms[0].ID)
	assert.Equal(t, ids[2], ms[1].ID)
}

func TestSceneClear(t *testing.T) {
	sc := NewScene()
	sc.AddSurface(1, math32.Vector3{})
	sc.AddMarker(math32.Vector3{}, math32.Vector3{})
	sc.Clear()
	assert.False(t, sc.HasSurface())
	assert.Equal(t, 0, sc.MarkerCount())
}
