package impact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navsim/broadside/pkg/core"
)

// wall builds a square plate of two triangles perpendicular to the X axis
// at the given x, spanning [-5,5] in Y and Z.
func wall(x, thickness float64, class core.ArmorClass) []core.ArmorFace {
	a := core.Vec3{X: x, Y: -5, Z: -5}
	b := core.Vec3{X: x, Y: 5, Z: -5}
	c := core.Vec3{X: x, Y: 5, Z: 5}
	d := core.Vec3{X: x, Y: -5, Z: 5}
	return []core.ArmorFace{
		{Vertices: [3]core.Vec3{a, b, c}, Thickness: thickness, Class: class},
		{Vertices: [3]core.Vec3{a, c, d}, Thickness: thickness, Class: class},
	}
}

func target(faces ...[]core.ArmorFace) *core.TargetConfiguration {
	cfg := &core.TargetConfiguration{Name: "test hull"}
	for _, f := range faces {
		cfg.Geometry = append(cfg.Geometry, f...)
	}
	return cfg
}

func TestNewPath_EntersAtFirstFace(t *testing.T) {
	tgt := target(wall(0, 50, core.ArmorNormal), wall(2, 20, core.ArmorNormal))
	direction := core.Vec3{X: 1, Y: 0, Z: 0}

	path, hit, ok := NewPath(tgt, direction, core.Vec3{})
	require.True(t, ok)
	assert.InDelta(t, 0.0, hit.At.Point.X, 1e-9)
	assert.InDelta(t, 50.0, hit.Face.Thickness, 1e-9)
	assert.InDelta(t, 90.0, hit.At.Angle, 1e-9)

	// Straight through to the second wall.
	next, alive := path.Penetrate()
	require.True(t, alive)
	assert.InDelta(t, 2.0, next.At.Point.X, 1e-9)
	assert.InDelta(t, 20.0, next.Face.Thickness, 1e-9)

	// Nothing beyond the second wall.
	_, alive = path.Penetrate()
	assert.False(t, alive)
}

func TestNewPath_MissesOffsetMesh(t *testing.T) {
	// Mesh displaced well away from the shot line.
	faces := wall(2, 50, core.ArmorNormal)
	for i := range faces {
		for j := range faces[i].Vertices {
			faces[i].Vertices[j].Y += 100
		}
	}
	tgt := target(faces)

	_, _, ok := NewPath(tgt, core.Vec3{X: 1, Y: 0, Z: 0}, core.Vec3{})
	assert.False(t, ok)
}

func TestRicochet_DeflectsAlongReflectedDirection(t *testing.T) {
	// A wall to bounce off, and a second wall far up the reflected ray.
	tgt := target(wall(0, 500, core.ArmorNormal))
	direction := core.Vec3{X: 1, Y: 0, Z: 0}

	path, _, ok := NewPath(tgt, direction, core.Vec3{})
	require.True(t, ok)

	// Perpendicular hit reflects straight back; no face lies behind.
	_, alive := path.Ricochet()
	assert.False(t, alive)
}
