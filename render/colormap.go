// Copyright (c) 2025, Brainview Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"fmt"

	"cogentcore.org/core/math32"
)

// Colormap is a named 1D color scale used to display overlay values.
type Colormap int32

const (
	// RdBu is a diverging red to white to blue map, matching the
	// matplotlib RdBu convention. It is the default.
	RdBu Colormap = iota

	// Viridis is an approximate perceptually uniform map from dark
	// purple through teal to yellow.
	Viridis

	// Hot runs black, red, yellow, white.
	Hot

	// Cividis is a colorblind-friendly perceptually uniform map
	// from dark blue to yellow.
	Cividis

	// Plasma is a perceptually uniform map from purple through
	// pink and orange to yellow.
	Plasma
)

// ColormapN is the number of texels in a baked colormap texture.
const ColormapN = 256

// Colormaps returns all available colormaps.
func Colormaps() []Colormap {
	return []Colormap{RdBu, Viridis, Hot, Cividis, Plasma}
}

func (cm Colormap) String() string {
	switch cm {
	case RdBu:
		return "RdBu"
	case Viridis:
		return "Viridis"
	case Hot:
		return "Hot"
	case Cividis:
		return "Cividis"
	case Plasma:
		return "Plasma"
	}
	return "Unknown"
}

// ColormapByName returns the colormap with the given name,
// or an error if there is none.
func ColormapByName(name string) (Colormap, error) {
	for _, cm := range Colormaps() {
		if cm.String() == name {
			return cm, nil
		}
	}
	return RdBu, fmt.Errorf("render.ColormapByName: no colormap named %q", name)
}

// Sample returns the colormap color at position t in [0, 1].
// Out-of-range t clamps. This is the exact function baked into the
// GPU texture, exposed so legends and colorbars match the rendering.
func (cm Colormap) Sample(t float32) math32.Vector3 {
	t = math32.Clamp(t, 0, 1)
	var r, g, b float32
	switch cm {
	case RdBu:
		if t < 0.5 {
			s := t * 2
			r, g, b = 1, s, s
		} else {
			s := (t - 0.5) * 2
			r, g, b = 1-s, 1-s, 1
		}
	case Viridis:
		switch {
		case t < 0.25:
			s := t * 4
			r, g, b = 0.267+s*0.05, 0.004+s*0.15, 0.329+s*0.15
		case t < 0.5:
			s := (t - 0.25) * 4
			r, g, b = 0.317-s*0.1, 0.154+s*0.25, 0.479-s*0.05
		case t < 0.75:
			s := (t - 0.5) * 4
			r, g, b = 0.217+s*0.25, 0.404+s*0.2, 0.429-s*0.15
		default:
			s := (t - 0.75) * 4
			r, g, b = 0.467+s*0.52, 0.604+s*0.35, 0.279-s*0.1
		}
	case Hot:
		switch {
		case t < 0.33:
			r, g, b = t*3, 0, 0
		case t < 0.66:
			r, g, b = 1, (t-0.33)*3, 0
		default:
			r, g, b = 1, 1, (t-0.66)*3
		}
	case Cividis:
		switch {
		case t < 0.25:
			s := t * 4
			r, g, b = s*0.15, 0.135+s*0.08, 0.304+s*0.1
		case t < 0.5:
			s := (t - 0.25) * 4
			r, g, b = 0.15+s*0.2, 0.215+s*0.15, 0.404-s*0.05
		case t < 0.75:
			s := (t - 0.5) * 4
			r, g, b = 0.35+s*0.3, 0.365+s*0.15, 0.354-s*0.1
		default:
			s := (t - 0.75) * 4
			r, g, b = 0.65+s*0.34, 0.515+s*0.35, 0.254-s*0.05
		}
	case Plasma:
		switch {
		case t < 0.25:
			s := t * 4
			r, g, b = 0.05+s*0.35, 0.03+s*0.05, 0.53+s*0.1
		case t < 0.5:
			s := (t - 0.25) * 4
			r, g, b = 0.4+s*0.35, 0.08+s*0.1, 0.63-s*0.15
		case t < 0.75:
			s := (t - 0.5) * 4
			r, g, b = 0.75+s*0.2, 0.18+s*0.35, 0.48-s*0.25
		default:
			s := (t - 0.75) * 4
			r, g, b = 0.95+s*0.05, 0.53+s*0.4, 0.23-s*0.1
		}
	}
	return math32.Vec3(math32.Clamp(r, 0, 1), math32.Clamp(g, 0, 1), math32.Clamp(b, 0, 1))
}

// Bytes bakes the colormap into n RGBA8 texels for texture upload.
func (cm Colormap) Bytes(n int) []byte {
	data := make([]byte, n*4)
	for i := 0; i < n; i++ {
		t := float32(i) / float32(n-1)
		c := cm.Sample(t)
		data[i*4] = byte(c.X * 255)
		data[i*4+1] = byte(c.Y * 255)
		data[i*4+2] = byte(c.Z * 255)
		data[i*4+3] = 255
	}
	return data
}
