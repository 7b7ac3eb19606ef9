// Copyright (c) 2025, Brainview Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"testing"

	"cogentcore.org/core/math32"
	"github.com/stretchr/testify/assert"
)

func TestOrbitDefaults(t *testing.T) {
	oc := NewOrbitCamera(1.5)
	assert.Equal(t, float32(200), oc.Distance)
	assert.Equal(t, float32(0), oc.Theta)
	assert.InDelta(t, 0.17, oc.Phi, 1e-6)
	assert.Equal(t, float32(1.5), oc.Aspect)
}

func TestOrbitRotateClamps(t *testing.T) {
	oc := NewOrbitCamera(1)

	// elevation clamps at both poles
	oc.Rotate(0, 1e6)
	assert.Equal(t, float32(MaxPhi), oc.Phi)
	oc.Rotate(0, -1e6)
	assert.Equal(t, float32(MinPhi), oc.Phi)

	// azimuth wraps freely
	oc.Rotate(1e6, 0)
	assert.Greater(t, oc.Theta, float32(100))
}

func TestOrbitZoomClamps(t *testing.T) {
	oc := NewOrbitCamera(1)
	oc.Zoom(1e6)
	assert.Equal(t, float32(MaxDistance), oc.Distance)
	oc.Zoom(-1e6)
	assert.Equal(t, float32(MinDistance), oc.Distance)

	oc.Distance = 200
	oc.Zoom(1)
	assert.InDelta(t, 220, oc.Distance, 1e-3)
}

func TestOrbitEye(t *testing.T) {
	oc := NewOrbitCamera(1)
	oc.Phi = 0
	oc.Theta = 0
	oc.Distance = 100

	// theta 0, phi 0 looks from +X
	eye := oc.Eye()
	assert.InDelta(t, 100, eye.X, 1e-4)
	assert.InDelta(t, 0, eye.Y, 1e-4)
	assert.InDelta(t, 0, eye.Z, 1e-4)

	// positive elevation raises the eye on +Z
	oc.Phi = 0.5
	assert.Greater(t, oc.Eye().Z, float32(0))

	// target offset shifts the eye with it
	oc.Target = math32.Vec3(10, 20, 30)
	oc.Phi = 0
	eye = oc.Eye()
	assert.InDelta(t, 110, eye.X, 1e-4)
	assert.InDelta(t, 20, eye.Y, 1e-4)
	assert.InDelta(t, 30, eye.Z, 1e-4)
}

func TestViewPresets(t *testing.T) {
	oc := NewOrbitCamera(1)
	oc.Distance = 321

	for _, vp := range ViewPresets() {
		oc.SetPreset(vp)
		theta, phi := vp.Angles()
		assert.Equal(t, theta, oc.Theta, "%v", vp)
		assert.Equal(t, phi, oc.Phi, "%v", vp)
		assert.Equal(t, float32(321), oc.Distance, "%v preserves distance", vp)
		assert.NotEqual(t, "Unknown", vp.String())
	}

	// lateral views look along the X axis from opposite sides
	oc.SetPreset(LateralRight)
	right := oc.Eye()
	oc.SetPreset(LateralLeft)
	left := oc.Eye()
	assert.Greater(t, right.X, float32(0))
	assert.Less(t, left.X, float32(0))

	// dorsal is nearly straight above
	oc.SetPreset(Dorsal)
	assert.Greater(t, oc.Eye().Z, oc.Distance*0.99)
}

func TestCameraStateRoundTrip(t *testing.T) {
	oc := NewOrbitCamera(1)
	oc.Distance = 300
	oc.Theta = 1.2
	oc.Phi = -0.4

	st := oc.State()
	other := NewOrbitCamera(1)
	other.SetState(st)
	assert.Equal(t, oc.Distance, other.Distance)
	assert.Equal(t, oc.Theta, other.Theta)
	assert.Equal(t, oc.Phi, other.Phi)

	// restoring out-of-range values clamps
	other.SetState(CameraState{Distance: 1e9, Azimuth: 0, Elevation: -9})
	assert.Equal(t, float32(MaxDistance), other.Distance)
	assert.Equal(t, float32(MinPhi), other.Phi)
}

func TestViewProjectionFinite(t *testing.T) {
	oc := NewOrbitCamera(1.33)
	vp := oc.ViewProjection()

	// a point near the target projects in front of the camera
	p := math32.Vec4(0, 0, 0, 1).MulMatrix4(&vp)
	assert.Greater(t, p.W, float32(0))
}
