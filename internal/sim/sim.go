// Package sim composes the ballistic and impact layers into shot and
// volley evaluation. Each shot is pure: trajectory at range, impact
// direction from azimuth, damage resolution against the target mesh.
package sim

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/navsim/broadside/internal/ballistics"
	"github.com/navsim/broadside/internal/impact"
	"github.com/navsim/broadside/pkg/core"
)

const instrumentationName = "github.com/navsim/broadside/internal/sim"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

func deg2rad(x float64) float64 { return x * math.Pi / 180.0 }

// Evaluator runs shots and volleys. It holds no per-shot state; the random
// source for each evaluation is supplied by the caller so results are
// reproducible and volleys parallelize safely.
type Evaluator struct {
	logger *slog.Logger

	// OTel metrics (no-op when no global meter is configured)
	shots    metric.Int64Counter
	outcomes metric.Int64Counter
}

// New creates an Evaluator. Uses the global OTel meter for metrics.
func New(logger *slog.Logger) (*Evaluator, error) {
	e := &Evaluator{logger: logger}

	m := meter()
	var err error

	e.shots, err = m.Int64Counter(
		"sim.shots.evaluated",
		metric.WithDescription("Total shots evaluated"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating shots counter: %w", err)
	}

	e.outcomes, err = m.Int64Counter(
		"sim.shot.outcomes",
		metric.WithDescription("Shot outcomes by impact type"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating outcomes counter: %w", err)
	}

	return e, nil
}

// EvaluateShot fires one undispersed shot: solve the trajectory for the
// firing range, derive the world-space impact direction from the azimuth
// and impact angle, then resolve damage against the target.
func (e *Evaluator) EvaluateShot(rng *rand.Rand, ammo core.AmmoSpec, target *core.TargetConfiguration,
	rangeM, azimuthDeg float64, aimOffset core.Vec3) (float64, core.ImpactType) {
	flight, converged := ballistics.FlightForRange(ammo.Gun, rangeM)
	if !converged {
		e.logger.Debug("range solver did not converge, using best-effort trajectory",
			"range", rangeM, "achieved", flight.Distance)
	}

	sinAz, cosAz := math.Sincos(deg2rad(azimuthDeg))
	sinIm, cosIm := math.Sincos(deg2rad(flight.ImpactAngle))
	direction := core.Vec3{
		X: cosAz * cosIm,
		Y: sinIm,
		Z: sinAz * cosIm,
	}

	damage, outcome := impact.ComputeDamage(rng, ammo, target, flight.Penetration, flight.Speed, direction, aimOffset)

	e.shots.Add(context.Background(), 1)
	e.outcomes.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("outcome", outcome.String())))

	return damage, outcome
}

// takeShot applies dispersion to the aim point before evaluating.
func (e *Evaluator) takeShot(rng *rand.Rand, sampler *ballistics.Sampler, ammo core.AmmoSpec,
	target *core.TargetConfiguration, rangeM, azimuthDeg float64, aimOffset core.Vec3) (float64, core.ImpactType) {
	offset := aimOffset.Add(sampler.Offset(azimuthDeg, rangeM))
	return e.EvaluateShot(rng, ammo, target, rangeM, azimuthDeg, offset)
}

// VolleyResult aggregates a batch of independent shots.
type VolleyResult struct {
	MeanDamage float64
	Outcomes   map[core.ImpactType]int
}

// EvaluateVolley fires count independent dispersed shots at the same range
// and azimuth, seeding a dedicated random source so the volley is
// reproducible.
func (e *Evaluator) EvaluateVolley(count int, dispersion core.DispersionProfile, ammo core.AmmoSpec,
	target *core.TargetConfiguration, rangeM, azimuthDeg float64, aimOffset core.Vec3, seed int64) VolleyResult {
	rng := rand.New(rand.NewSource(seed))
	sampler := ballistics.NewSampler(dispersion, rng)

	result := VolleyResult{Outcomes: make(map[core.ImpactType]int)}
	total := 0.0
	for i := 0; i < count; i++ {
		damage, outcome := e.takeShot(rng, sampler, ammo, target, rangeM, azimuthDeg, aimOffset)
		total += damage
		result.Outcomes[outcome]++
	}
	if count > 0 {
		result.MeanDamage = total / float64(count)
	}
	return result
}

// EvaluateVolleyConcurrent fans the volley across workers. Shots are
// independent, so the only shared-state concern is randomness: every worker
// gets its own source derived from the base seed.
func (e *Evaluator) EvaluateVolleyConcurrent(count, workers int, dispersion core.DispersionProfile,
	ammo core.AmmoSpec, target *core.TargetConfiguration, rangeM, azimuthDeg float64,
	aimOffset core.Vec3, seed int64) VolleyResult {
	if workers < 1 {
		workers = 1
	}
	if workers > count {
		workers = count
	}

	partials := make([]VolleyResult, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		share := count / workers
		if w < count%workers {
			share++
		}

		wg.Add(1)
		go func(w, share int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed + int64(w)))
			sampler := ballistics.NewSampler(dispersion, rng)

			partial := VolleyResult{Outcomes: make(map[core.ImpactType]int)}
			total := 0.0
			for i := 0; i < share; i++ {
				damage, outcome := e.takeShot(rng, sampler, ammo, target, rangeM, azimuthDeg, aimOffset)
				total += damage
				partial.Outcomes[outcome]++
			}
			partial.MeanDamage = total // summed here, averaged after merge
			partials[w] = partial
		}(w, share)
	}
	wg.Wait()

	merged := VolleyResult{Outcomes: make(map[core.ImpactType]int)}
	total := 0.0
	for _, p := range partials {
		total += p.MeanDamage
		for outcome, n := range p.Outcomes {
			merged.Outcomes[outcome] += n
		}
	}
	if count > 0 {
		merged.MeanDamage = total / float64(count)
	}
	return merged
}
