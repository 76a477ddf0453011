package sim

import (
	"log/slog"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navsim/broadside/pkg/core"
)

func testEvaluator(t *testing.T) *Evaluator {
	t.Helper()
	e, err := New(slog.Default())
	require.NoError(t, err)
	return e
}

func heAmmo() core.AmmoSpec {
	return core.AmmoSpec{
		Kind:     core.AmmoHE,
		Damage:   9000,
		Piercing: 100,
		Gun: core.GunSpec{
			Mass:        870,
			Diameter:    0.406,
			MuzzleSpeed: 820,
			Drag:        0.292,
			Krupp:       2400,
		},
	}
}

// broadWall is a large thin plate at the aim point, wide enough to catch
// every dispersed shot.
func broadWall(thickness float64) *core.TargetConfiguration {
	a := core.Vec3{X: 0, Y: -100, Z: -100}
	b := core.Vec3{X: 0, Y: 100, Z: -100}
	c := core.Vec3{X: 0, Y: 100, Z: 100}
	d := core.Vec3{X: 0, Y: -100, Z: 100}
	return &core.TargetConfiguration{
		Name: "broad wall",
		Geometry: []core.ArmorFace{
			{Vertices: [3]core.Vec3{a, b, c}, Thickness: thickness},
			{Vertices: [3]core.Vec3{a, c, d}, Thickness: thickness},
		},
	}
}

func testDispersion() core.DispersionProfile {
	return core.DispersionProfile{Horizontal: 120, Vertical: 60, MaxRange: 20000, Sigma: 0.4}
}

func TestEvaluateShot_HitsWallAtAimPoint(t *testing.T) {
	e := testEvaluator(t)
	rng := rand.New(rand.NewSource(1))

	damage, outcome := e.EvaluateShot(rng, heAmmo(), broadWall(10), 10000, 0, core.Vec3{})
	assert.Equal(t, core.Penetration, outcome)
	assert.InDelta(t, 3000.0, damage, 1e-9)
}

func TestEvaluateShot_MissesDisplacedTarget(t *testing.T) {
	e := testEvaluator(t)
	rng := rand.New(rand.NewSource(1))

	_, outcome := e.EvaluateShot(rng, heAmmo(), broadWall(10), 10000, 0, core.Vec3{Y: 500})
	assert.Equal(t, core.Miss, outcome)
}

func TestEvaluateVolley_AggregatesOutcomes(t *testing.T) {
	e := testEvaluator(t)

	const shots = 100
	result := e.EvaluateVolley(shots, testDispersion(), heAmmo(), broadWall(10), 10000, 0, core.Vec3{}, 42)

	counted := 0
	for _, n := range result.Outcomes {
		counted += n
	}
	assert.Equal(t, shots, counted)

	// Wall is broad enough that every dispersed shot penetrates.
	assert.Equal(t, shots, result.Outcomes[core.Penetration])
	assert.InDelta(t, 3000.0, result.MeanDamage, 1e-9)
}

func TestEvaluateVolley_ReproducibleUnderSeed(t *testing.T) {
	e := testEvaluator(t)

	a := e.EvaluateVolley(50, testDispersion(), heAmmo(), broadWall(200), 10000, 0, core.Vec3{}, 7)
	b := e.EvaluateVolley(50, testDispersion(), heAmmo(), broadWall(200), 10000, 0, core.Vec3{}, 7)

	assert.Equal(t, a.Outcomes, b.Outcomes)
	assert.InDelta(t, a.MeanDamage, b.MeanDamage, 1e-12)
}

func TestEvaluateVolleyConcurrent_MatchesShotCount(t *testing.T) {
	e := testEvaluator(t)

	const shots = 101
	result := e.EvaluateVolleyConcurrent(shots, 4, testDispersion(), heAmmo(), broadWall(10), 10000, 0, core.Vec3{}, 42)

	counted := 0
	for _, n := range result.Outcomes {
		counted += n
	}
	assert.Equal(t, shots, counted)
	assert.Equal(t, shots, result.Outcomes[core.Penetration])
	assert.InDelta(t, 3000.0, result.MeanDamage, 1e-9)
}

func TestEvaluateVolley_ZeroShots(t *testing.T) {
	e := testEvaluator(t)
	result := e.EvaluateVolley(0, testDispersion(), heAmmo(), broadWall(10), 10000, 0, core.Vec3{}, 1)
	assert.Zero(t, result.MeanDamage)
	assert.Empty(t, result.Outcomes)
}
