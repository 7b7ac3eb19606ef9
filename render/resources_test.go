// Copyright (c) 2025, Brainview Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

func TestValidateSurface(t *testing.T) {
	pos := []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}
	nrm := []float32{0, 0, 1, 0, 0, 1, 0, 0, 1}
	idx := []uint32{0, 1, 2}

	assert.NoError(t, validateSurface(pos, nrm, idx))

	assert.Error(t, validateSurface(nil, nil, idx))
	assert.Error(t, validateSurface(pos[:8], nrm[:8], idx))
	assert.Error(t, validateSurface(pos, nrm[:6], idx))
	assert.Error(t, validateSurface(pos, nrm, nil))
	assert.Error(t, validateSurface(pos, nrm, []uint32{0, 1}))

	// index out of range for the 3 vertices
	assert.Error(t, validateSurface(pos, nrm, []uint32{0, 1, 3}))
}

func TestNextPow2(t *testing.T) {
	assert.Equal(t, uint32(1), nextPow2(0))
	assert.Equal(t, uint32(1), nextPow2(1))
	assert.Equal(t, uint32(2), nextPow2(2))
	assert.Equal(t, uint32(4), nextPow2(3))
	assert.Equal(t, uint32(8), nextPow2(8))
	assert.Equal(t, uint32(16), nextPow2(9))
	assert.Equal(t, uint32(256), nextPow2(129))
}

func TestUniformSizes(t *testing.T) {
	// layouts must match the WGSL struct declarations exactly
	assert.Equal(t, uintptr(80), unsafe.Sizeof(cameraUniform{}))
	assert.Equal(t, uintptr(16), unsafe.Sizeof(selectionUniform{}))
	assert.Equal(t, uintptr(32), unsafe.Sizeof(overlayUniform{}))
}
