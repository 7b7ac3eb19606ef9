// Copyright (c) 2025, Brainview Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package session saves and restores viewer state as YAML: camera
// pose, overlay parameters, display modes, and the active colormap.
package session

import (
	"fmt"
	"os"

	"github.com/brainsurf/brainview/render"
	"gopkg.in/yaml.v3"
)

// State is the persisted viewer state. Enum-valued display modes are
// stored as their display names so files stay readable and stable
// across reordering.
type State struct {
	// Camera is the orbit camera pose.
	Camera render.CameraState `yaml:"camera"`

	// Colormap is the active colormap name.
	Colormap string `yaml:"colormap"`

	// Overlay holds the thresholding and range parameters.
	Overlay render.OverlayParams `yaml:"overlay"`

	// Debug, Source, and Parcellation are display mode names.
	Debug        string `yaml:"debug"`
	Source       string `yaml:"source"`
	Parcellation string `yaml:"parcellation"`
}

// Capture snapshots the renderer's current state.
func Capture(rr *render.Renderer) *State {
	op := rr.OverlayParams()
	return &State{
		Camera:       rr.Camera.State(),
		Colormap:     rr.ActiveColormap().String(),
		Overlay:      op,
		Debug:        op.Debug.String(),
		Source:       op.Source.String(),
		Parcellation: op.Parcellation.String(),
	}
}

// Apply restores a captured state onto the renderer. Unknown mode or
// colormap names are errors; nothing is partially applied before the
// first failure is detected.
func (st *State) Apply(rr *render.Renderer) error {
	cm, err := render.ColormapByName(st.Colormap)
	if err != nil {
		return err
	}
	op := st.Overlay
	if op.Debug, err = debugByName(st.Debug); err != nil {
		return err
	}
	if op.Source, err = sourceByName(st.Source); err != nil {
		return err
	}
	if op.Parcellation, err = parcellationByName(st.Parcellation); err != nil {
		return err
	}
	if err = rr.SetColormap(cm); err != nil {
		return err
	}
	if err = rr.SetOverlayParams(op); err != nil {
		return err
	}
	rr.Camera.SetState(st.Camera)
	return nil
}

// Save writes the state to a YAML file.
func (st *State) Save(filename string) error {
	b, err := yaml.Marshal(st)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, b, 0666)
}

// Open reads a state from a YAML file.
func Open(filename string) (*State, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	st := &State{}
	if err := yaml.Unmarshal(b, st); err != nil {
		return nil, err
	}
	return st, nil
}

func debugByName(name string) (render.DebugView, error) {
	for _, dv := range render.DebugViews() {
		if dv.String() == name {
			return dv, nil
		}
	}
	return 0, fmt.Errorf("session: unknown debug view %q", name)
}

func sourceByName(name string) (render.ColorSource, error) {
	for _, cs := range render.ColorSources() {
		if cs.String() == name {
			return cs, nil
		}
	}
	return 0, fmt.Errorf("session: unknown color source %q", name)
}

func parcellationByName(name string) (render.ParcellationDisplay, error) {
	for _, pd := range render.ParcellationDisplays() {
		if pd.String() == name {
			return pd, nil
		}
	}
	return 0, fmt.Errorf("session: unknown parcellation display %q", name)
}
