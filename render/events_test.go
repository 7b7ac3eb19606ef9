// Copyright (c) 2025, Brainview Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCameraMovedEvents(t *testing.T) {
	rr := &Renderer{Camera: NewOrbitCamera(1)}
	rr.lastCam = rr.Camera.State()

	var got []ViewerEvent
	rr.OnEvent = func(ev ViewerEvent) { got = append(got, ev) }

	// unchanged pose fires nothing
	rr.emitCameraMoved()
	assert.Empty(t, got)

	rr.Camera.Rotate(100, 50)
	rr.emitCameraMoved()
	assert.Len(t, got, 1)
	assert.Equal(t, EventCameraMoved, got[0].Kind)
	assert.Equal(t, rr.Camera.State(), got[0].Camera)
	assert.Nil(t, got[0].Pick)

	// one event per change, not per frame
	rr.emitCameraMoved()
	assert.Len(t, got, 1)

	rr.Camera.Zoom(5)
	rr.emitCameraMoved()
	assert.Len(t, got, 2)
}

func TestPickEvents(t *testing.T) {
	rr := &Renderer{Camera: NewOrbitCamera(1)}

	var events []ViewerEvent
	var picks []*PickResult
	rr.OnEvent = func(ev ViewerEvent) { events = append(events, ev) }
	rr.OnPick = func(res *PickResult) { picks = append(picks, res) }

	res := &PickResult{VertexID: 7, SurfaceID: 2}
	rr.emitPick(res)
	assert.Len(t, events, 1)
	assert.Equal(t, EventPicked, events[0].Kind)
	assert.Equal(t, res, events[0].Pick)
	assert.Len(t, picks, 1)
	assert.Equal(t, res, picks[0])

	// background hit still reports, with a nil result
	rr.emitPick(nil)
	assert.Len(t, events, 2)
	assert.Nil(t, events[1].Pick)
	assert.Equal(t, EventPicked, events[1].Kind)

	// hooks are optional
	rr.OnEvent = nil
	rr.OnPick = nil
	rr.emitPick(res)
	assert.Len(t, events, 2)
}
