// Copyright (c) 2025, Brainview Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"sort"

	"cogentcore.org/core/math32"
)

// NodeID identifies a node in the [Scene].
type NodeID uint64

// SurfaceID identifies a surface mesh instance, e.g. the left and
// right hemispheres of one subject.
type SurfaceID = uint32

// MarkerStyle is the adjustable appearance of a marker node.
type MarkerStyle struct {
	// Size is the on-screen size multiplier; 1 is the default.
	Size float32

	// Selected draws the marker with a pulsing highlight.
	Selected bool
}

// DefaultMarkerStyle returns the style new markers start with.
func DefaultMarkerStyle() MarkerStyle {
	return MarkerStyle{Size: 1}
}

// Node is one element of the scene: either a surface instance or an
// annotation marker, with a translation transform.
type Node struct {
	// ID of this node.
	ID NodeID

	// Translation offset applied to the node.
	Translation math32.Vector3

	// Surface is the surface this node draws, for surface nodes.
	Surface SurfaceID

	// IsSurface distinguishes surface nodes from marker nodes.
	IsSurface bool

	// Color of the marker, for marker nodes.
	Color math32.Vector3

	// Style of the marker, for marker nodes.
	Style MarkerStyle
}

// Scene is a flat graph of surface and marker nodes. Surfaces draw
// in ascending node id order, so the first surface added clears the
// frame. It is not safe for concurrent use; the [Renderer]
// serializes access.
type Scene struct {
	nodes  map[NodeID]*Node
	nextID NodeID

	// markerRev increments on any marker change, so the renderer
	// can rebuild the instance buffer lazily.
	markerRev uint64
}

// NewScene returns an empty scene.
func NewScene() *Scene {
	return &Scene{nodes: make(map[NodeID]*Node), nextID: 1}
}

// AddSurface adds a surface instance with the given translation
// and returns its node id.
func (sc *Scene) AddSurface(surf SurfaceID, translation math32.Vector3) NodeID {
	id := sc.nextID
	sc.nextID++
	sc.nodes[id] = &Node{ID: id, IsSurface: true, Surface: surf, Translation: translation}
	return id
}

// AddMarker adds an annotation marker at the given position and
// returns its node id.
func (sc *Scene) AddMarker(pos, color math32.Vector3) NodeID {
	id := sc.nextID
	sc.nextID++
	sc.nodes[id] = &Node{ID: id, Translation: pos, Color: color, Style: DefaultMarkerStyle()}
	sc.markerRev++
	return id
}

// UpdateMarker moves and recolors an existing marker.
// It reports whether the node exists and is a marker.
func (sc *Scene) UpdateMarker(id NodeID, pos, color math32.Vector3) bool {
	nd, ok := sc.nodes[id]
	if !ok || nd.IsSurface {
		return false
	}
	nd.Translation = pos
	nd.Color = color
	sc.markerRev++
	return true
}

// SetMarkerStyle sets the style of a marker.
func (sc *Scene) SetMarkerStyle(id NodeID, st MarkerStyle) bool {
	nd, ok := sc.nodes[id]
	if !ok || nd.IsSurface {
		return false
	}
	nd.Style = st
	sc.markerRev++
	return true
}

// MarkerStyle returns the style of a marker, and whether the node
// exists and is a marker.
func (sc *Scene) MarkerStyle(id NodeID) (MarkerStyle, bool) {
	nd, ok := sc.nodes[id]
	if !ok || nd.IsSurface {
		return MarkerStyle{}, false
	}
	return nd.Style, true
}

// SetTranslation sets the translation of any node.
func (sc *Scene) SetTranslation(id NodeID, tr math32.Vector3) bool {
	nd, ok := sc.nodes[id]
	if !ok {
		return false
	}
	nd.Translation = tr
	if !nd.IsSurface {
		sc.markerRev++
	}
	return true
}

// Remove deletes a node.
func (sc *Scene) Remove(id NodeID) {
	nd, ok := sc.nodes[id]
	if !ok {
		return
	}
	if !nd.IsSurface {
		sc.markerRev++
	}
	delete(sc.nodes, id)
}

// Clear removes all nodes.
func (sc *Scene) Clear() {
	sc.nodes = make(map[NodeID]*Node)
	sc.markerRev++
}

// ClearMarkers removes all marker nodes, keeping surfaces.
func (sc *Scene) ClearMarkers() {
	for id, nd := range sc.nodes {
		if !nd.IsSurface {
			delete(sc.nodes, id)
		}
	}
	sc.markerRev++
}

// HasSurface reports whether any surface node exists.
func (sc *Scene) HasSurface() bool {
	for _, nd := range sc.nodes {
		if nd.IsSurface {
			return true
		}
	}
	return false
}

// Surfaces returns the surface nodes in ascending id order.
func (sc *Scene) Surfaces() []*Node {
	return sc.sorted(true)
}

// Markers returns the marker nodes in ascending id order.
func (sc *Scene) Markers() []*Node {
	return sc.sorted(false)
}

// MarkerCount returns the number of marker nodes.
func (sc *Scene) MarkerCount() int {
	n := 0
	for _, nd := range sc.nodes {
		if !nd.IsSurface {
			n++
		}
	}
	return n
}

func (sc *Scene) sorted(surfaces bool) []*Node {
	var ns []*Node
	for _, nd := range sc.nodes {
		if nd.IsSurface == surfaces {
			ns = append(ns, nd)
		}
	}
	sort.Slice(ns, func(i, j int) bool { return ns[i].ID < ns[j].ID })
	return ns
}
