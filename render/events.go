// Copyright (c) 2025, Brainview Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import "cogentcore.org/core/math32"

// EventKind discriminates viewer events.
type EventKind int32

const (
	// EventPicked reports a completed pick.
	EventPicked EventKind = iota

	// EventCameraMoved reports an orbit camera change.
	EventCameraMoved
)

// ViewerEvent is a tagged union of things the viewer reports to
// embedding applications through [Renderer.OnEvent]. Pick is set for
// EventPicked (nil for a background hit); Camera is set for
// EventCameraMoved.
type ViewerEvent struct {
	Kind   EventKind
	Pick   *PickResult
	Camera CameraState
}

func vec3(v [3]float32) math32.Vector3 {
	return math32.Vec3(v[0], v[1], v[2])
}
