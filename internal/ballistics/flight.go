// Package ballistics implements the exterior-ballistics model: planar
// trajectory integration under gravity and altitude-dependent drag, an
// inverse range solver, and the dispersion sampler for aim scatter.
package ballistics

import (
	"math"

	"github.com/navsim/broadside/pkg/core"
)

// Barometric atmosphere and integration constants.
const (
	tempSeaLevel  = 288.0     // K
	tempLapseRate = 0.0065    // K/m
	pressSeaLevel = 101325.0  // Pa
	gravity       = 9.81      // m/s^2
	airMolarMass  = 0.0289644 // kg/mol
	gasConstant   = 8.31447   // J/(mol K)

	timeStep = 0.05 // s

	// Inverse solver tuning: initial guess and iteration cap.
	initialGuessDeg = 22.5
	maxIterations   = 12
	rangeTolerance  = 1.0 // m
)

func deg2rad(x float64) float64 { return x * math.Pi / 180.0 }

// FlightForAngle integrates a projectile's planar flight for a launch angle
// in degrees, using forward-Euler steps with air density from the barometric
// model at the current altitude. Integration stops the instant the
// projectile returns to sea level.
func FlightForAngle(gun core.GunSpec, angleDeg float64) core.FlightOutcome {
	// Two-term drag: a quadratic and a linear component, both scaled by
	// the projectile's shape factor.
	cw1 := 1.0
	cw2 := 100.0 + 1000.0/3.0*gun.Diameter
	k := 0.5 * gun.Drag * (gun.Diameter / 2.0) * (gun.Diameter / 2.0) * math.Pi / gun.Mass

	vx := gun.MuzzleSpeed * math.Cos(deg2rad(angleDeg))
	vy := gun.MuzzleSpeed * math.Sin(deg2rad(angleDeg))
	x, y, t := 0.0, 0.0, 0.0

	for y >= 0 {
		x += timeStep * vx
		y += timeStep * vy

		temperature := tempSeaLevel - tempLapseRate*y
		pressure := pressSeaLevel * math.Pow(temperature/tempSeaLevel,
			gravity*airMolarMass/gasConstant/tempLapseRate)
		rho := pressure * airMolarMass / gasConstant / temperature

		vx -= timeStep * k * rho * (cw1*vx*vx + cw2*vx)
		vy -= timeStep*gravity + timeStep*k*rho*(cw1*vy*vy+cw2*vy)

		t += timeStep
	}

	speed := math.Sqrt(vx*vx + vy*vy)
	return core.FlightOutcome{
		Distance:    x,
		Speed:       speed,
		TimeAloft:   t,
		ImpactAngle: math.Atan2(vy, vx) * 180.0 / math.Pi,
		Penetration: penetration(gun, speed),
	}
}

// penetration is the empirical armor-penetration capacity at impact, in mm.
func penetration(gun core.GunSpec, speed float64) float64 {
	c := 0.5561613 * gun.Krupp / 2400.0
	return c * math.Pow(speed, 1.1) * math.Pow(gun.Mass, 0.55) /
		math.Pow(gun.Diameter*1000.0, 0.65)
}

// FlightForRange solves the inverse problem: it searches for the launch
// angle whose horizontal distance matches targetRange, rescaling the guess
// proportionally each iteration. The returned flag reports whether the
// solver converged within tolerance; when it did not, the last evaluated
// flight is returned as a best-effort approximation. Ranges beyond the
// gun's maximum, or trajectories near vertical where distance stops growing
// with angle, may never converge.
func FlightForRange(gun core.GunSpec, targetRange float64) (core.FlightOutcome, bool) {
	guess := initialGuessDeg
	var flight core.FlightOutcome
	for i := 0; i < maxIterations; i++ {
		flight = FlightForAngle(gun, guess)
		if math.Abs(flight.Distance-targetRange) < rangeTolerance {
			return flight, true
		}
		guess = guess * targetRange / flight.Distance
	}
	return FlightForAngle(gun, guess), false
}
