package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navsim/broadside/pkg/core"
)

func TestFootprintOfBoxMesh(t *testing.T) {
	// Two triangles forming a 10 (beam) x 40 (length) deck, at varying heights.
	mesh := []core.ArmorFace{
		{Vertices: [3]core.Vec3{{X: -5, Y: 0, Z: -20}, {X: 5, Y: 2, Z: -20}, {X: 5, Y: 0, Z: 20}}},
		{Vertices: [3]core.Vec3{{X: -5, Y: 1, Z: -20}, {X: 5, Y: 0, Z: 20}, {X: -5, Y: 3, Z: 20}}},
	}

	fp, err := FootprintOf(mesh)
	require.NoError(t, err)
	assert.InDelta(t, 40.0, fp.Length, 1e-9)
	assert.InDelta(t, 10.0, fp.Beam, 1e-9)
	assert.InDelta(t, 400.0, fp.Area, 1e-9)
}

func TestFootprintOfTaperedBow(t *testing.T) {
	// A triangle narrowing toward the bow shrinks hull area below the bounding box.
	mesh := []core.ArmorFace{
		{Vertices: [3]core.Vec3{{X: -5, Y: 0, Z: 0}, {X: 5, Y: 0, Z: 0}, {X: 0, Y: 0, Z: 30}}},
	}

	fp, err := FootprintOf(mesh)
	require.NoError(t, err)
	assert.InDelta(t, 30.0, fp.Length, 1e-9)
	assert.InDelta(t, 10.0, fp.Beam, 1e-9)
	assert.InDelta(t, 150.0, fp.Area, 1e-9)
}

func TestFootprintOfRejectsNonFiniteVertex(t *testing.T) {
	mesh := []core.ArmorFace{
		{Vertices: [3]core.Vec3{{X: math.NaN(), Y: 0, Z: 0}, {X: 5, Y: 0, Z: 0}, {X: 0, Y: 0, Z: 30}}},
	}

	_, err := FootprintOf(mesh)
	assert.Error(t, err)
}

func TestFootprintOfEmptyMesh(t *testing.T) {
	_, err := FootprintOf(nil)
	assert.ErrorIs(t, err, ErrEmptyMesh)
}
