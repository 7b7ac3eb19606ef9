// Copyright (c) 2025, Brainview Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"cogentcore.org/core/math32"
	cmath32 "github.com/chewxy/math32"
)

// Orbit camera limits and parameters.
const (
	MinDistance = 50
	MaxDistance = 500
	MinPhi      = -1.5
	MaxPhi      = 1.5

	rotateSpeed = 0.005
	zoomSpeed   = 0.1

	cameraFOV  = 45
	cameraNear = 1
	cameraFar  = 1000
)

// CameraState is a snapshot of the orbit camera, suitable for
// saving and restoring views.
type CameraState struct {
	// Distance from the orbit target.
	Distance float32 `yaml:"distance"`

	// Azimuth is the horizontal rotation around the Z axis in
	// radians, 0 looking from +X.
	Azimuth float32 `yaml:"azimuth"`

	// Elevation is the vertical angle from the horizontal plane
	// in radians.
	Elevation float32 `yaml:"elevation"`
}

// ViewPreset is a standard anatomical viewing direction.
type ViewPreset int32

const (
	// LateralLeft views from -X, showing the left hemisphere
	// lateral surface.
	LateralLeft ViewPreset = iota

	// LateralRight views from +X.
	LateralRight

	// Dorsal views from above (+Z).
	Dorsal

	// Ventral views from below (-Z).
	Ventral

	// Anterior views the front (+Y).
	Anterior

	// Posterior views the back (-Y).
	Posterior
)

// ViewPresets returns all view presets.
func ViewPresets() []ViewPreset {
	return []ViewPreset{LateralLeft, LateralRight, Dorsal, Ventral, Anterior, Posterior}
}

func (vp ViewPreset) String() string {
	switch vp {
	case LateralLeft:
		return "Lateral Left"
	case LateralRight:
		return "Lateral Right"
	case Dorsal:
		return "Dorsal"
	case Ventral:
		return "Ventral"
	case Anterior:
		return "Anterior"
	case Posterior:
		return "Posterior"
	}
	return "Unknown"
}

// Angles returns the orbit (azimuth, elevation) for the preset.
// The near-vertical views back off the pole slightly so the Z-up
// view matrix stays well defined.
func (vp ViewPreset) Angles() (theta, phi float32) {
	switch vp {
	case LateralLeft:
		return math32.Pi, 0
	case LateralRight:
		return 0, 0
	case Dorsal:
		return 0, math32.Pi/2 - 0.01
	case Ventral:
		return 0, -math32.Pi/2 + 0.01
	case Anterior:
		return math32.Pi / 2, 0
	case Posterior:
		return -math32.Pi / 2, 0
	}
	return 0, 0
}

// OrbitCamera orbits a target point using spherical coordinates with
// Z up, matching the RAS anatomical convention (X right, Y anterior,
// Z superior). The default view is slightly elevated lateral, which
// shows most of the lateral surface with some depth perception.
type OrbitCamera struct {
	// Target is the point the camera orbits and looks at.
	Target math32.Vector3

	// Distance from the target, clamped to [MinDistance, MaxDistance].
	Distance float32

	// Theta is the azimuth in radians.
	Theta float32

	// Phi is the elevation in radians, clamped to [MinPhi, MaxPhi]
	// so the camera cannot flip upside down.
	Phi float32

	// Aspect is the viewport width / height ratio.
	Aspect float32
}

// NewOrbitCamera returns an orbit camera with the default brain view.
func NewOrbitCamera(aspect float32) *OrbitCamera {
	return &OrbitCamera{Distance: 200, Theta: 0, Phi: 0.17, Aspect: aspect}
}

// Rotate applies a mouse drag of (dx, dy) pixels.
func (oc *OrbitCamera) Rotate(dx, dy float32) {
	oc.Theta += dx * rotateSpeed
	oc.Phi = math32.Clamp(oc.Phi+dy*rotateSpeed, MinPhi, MaxPhi)
}

// Zoom applies a scroll wheel delta, scaling the orbit distance.
func (oc *OrbitCamera) Zoom(deltaY float32) {
	oc.Distance = math32.Clamp(oc.Distance*(1+deltaY*zoomSpeed), MinDistance, MaxDistance)
}

// Eye returns the camera position in world space.
func (oc *OrbitCamera) Eye() math32.Vector3 {
	x := oc.Distance * cmath32.Cos(oc.Phi) * cmath32.Cos(oc.Theta)
	y := oc.Distance * cmath32.Cos(oc.Phi) * cmath32.Sin(oc.Theta)
	z := oc.Distance * cmath32.Sin(oc.Phi)
	return oc.Target.Add(math32.Vec3(x, y, z))
}

// ViewMatrix returns the world-to-camera matrix, Z up.
func (oc *OrbitCamera) ViewMatrix() *math32.Matrix4 {
	eye := oc.Eye()
	var lookq math32.Quat
	lookq.SetFromRotationMatrix(math32.NewLookAt(eye, oc.Target, math32.Vec3(0, 0, 1)))
	var cview math32.Matrix4
	cview.SetTransform(eye, lookq, math32.Vec3(1, 1, 1))
	view, _ := cview.Inverse()
	return view
}

// ViewProjection returns the combined view-projection matrix.
func (oc *OrbitCamera) ViewProjection() math32.Matrix4 {
	var proj math32.Matrix4
	proj.SetPerspective(cameraFOV, oc.Aspect, cameraNear, cameraFar)
	var vp math32.Matrix4
	vp.MulMatrices(&proj, oc.ViewMatrix())
	return vp
}

// SetPreset moves the camera to a standard anatomical view,
// keeping the current distance.
func (oc *OrbitCamera) SetPreset(vp ViewPreset) {
	oc.Theta, oc.Phi = vp.Angles()
}

// State returns a snapshot of the camera for saving.
func (oc *OrbitCamera) State() CameraState {
	return CameraState{Distance: oc.Distance, Azimuth: oc.Theta, Elevation: oc.Phi}
}

// SetState restores a saved camera snapshot, clamping to limits.
func (oc *OrbitCamera) SetState(st CameraState) {
	oc.Distance = math32.Clamp(st.Distance, MinDistance, MaxDistance)
	oc.Theta = st.Azimuth
	oc.Phi = math32.Clamp(st.Elevation, MinPhi, MaxPhi)
}
