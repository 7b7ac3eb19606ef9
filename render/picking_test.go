// Copyright (c) 2025, Brainview Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
)

func pickPixel(vertex, surface, blue, occ uint32) []byte {
	px := make([]byte, pickPixelBytes)
	binary.LittleEndian.PutUint32(px[0:], vertex)
	binary.LittleEndian.PutUint32(px[4:], surface)
	binary.LittleEndian.PutUint32(px[8:], blue)
	binary.LittleEndian.PutUint32(px[12:], occ)
	return px
}

func TestDecodePick(t *testing.T) {
	res := decodePick(pickPixel(1234, 2, 0, 1))
	assert.NotNil(t, res)
	assert.Equal(t, uint32(1234), res.VertexID)
	assert.Equal(t, SurfaceID(2), res.SurfaceID)

	// zero occupancy is the clear value: background
	assert.Nil(t, decodePick(pickPixel(1234, 2, 0, 0)))

	// vertex id 0 on surface 0 is still a valid hit
	res = decodePick(pickPixel(0, 0, 0, 1))
	assert.NotNil(t, res)
	assert.Equal(t, uint32(0), res.VertexID)

	// the unused channel never affects the result
	a := decodePick(pickPixel(7, 1, 0, 1))
	b := decodePick(pickPixel(7, 1, 999, 1))
	assert.Equal(t, a, b)

	// short input is treated as no hit
	assert.Nil(t, decodePick(nil))
	assert.Nil(t, decodePick(make([]byte, 8)))
}
