package impact

import (
	"math"
	"math/rand"

	"github.com/navsim/broadside/pkg/core"
)

// normalizationAllowance is subtracted from the obliquity angle before the
// effective-thickness correction, modeling shell nose normalization against
// the plate.
const normalizationAllowance = 6.0

// ricochetDivisor: plates thinner than caliber/14.3 are overmatched and can
// never deflect the shell.
const ricochetDivisor = 14.3

func deg2rad(x float64) float64 { return x * math.Pi / 180.0 }

// ComputeDamage resolves one shot against the target and returns the damage
// dealt and the terminal outcome. penetration and speed come from the
// trajectory evaluation at the firing range. The random source drives the
// probabilistic ricochet band and must not be shared across goroutines.
func ComputeDamage(rng *rand.Rand, ammo core.AmmoSpec, target *core.TargetConfiguration,
	penetration, speed float64, direction, offset core.Vec3) (float64, core.ImpactType) {
	switch ammo.Kind {
	case core.AmmoAP:
		return apDamage(rng, ammo, target, penetration, speed, direction, offset)
	default:
		return heDamage(ammo, target, direction, offset)
	}
}

// heDamage is the single-intersection HE rule: the shell bursts on the
// first face it reaches.
func heDamage(ammo core.AmmoSpec, target *core.TargetConfiguration, direction, offset core.Vec3) (float64, core.ImpactType) {
	_, hit, ok := NewPath(target, direction, offset)
	if !ok {
		return 0, core.Miss
	}
	if hit.Face.Thickness > ammo.Piercing {
		return 0, core.NonPenetration
	}
	if hit.Face.Class == core.ArmorCitadel {
		return ammo.Damage / 3.0, core.Citadel
	}
	return ammo.Damage / 3.0, core.Penetration
}

// apDamage walks the shell face to face, spending its penetration budget,
// tracking citadel crossings and an optional detonator fuse, until a
// terminal outcome is reached. A step guard proportional to the mesh size
// bounds the walk on pathological geometry; when it trips the shell is
// treated as detonating in place.
func apDamage(rng *rand.Rand, ammo core.AmmoSpec, target *core.TargetConfiguration,
	penetration, speed float64, direction, offset core.Vec3) (float64, core.ImpactType) {
	path, hit, ok := NewPath(target, direction, offset)
	if !ok {
		return 0, core.Miss
	}

	budget := penetration
	citadelCrossings := 0
	var lastPos *core.Vec3
	fuseArmed := false
	fuseRemaining := 0.0
	maxSteps := 4 * len(target.Geometry)

	for step := 0; ; step++ {
		face := hit.Face

		if step > maxSteps {
			return detonate(ammo, face, citadelCrossings)
		}

		// Odd crossings mean the shell is currently inside the citadel.
		if face.Class == core.ArmorCitadel {
			citadelCrossings++
		}

		if lastPos != nil && fuseArmed {
			fuseRemaining -= hit.At.Point.Distance(*lastPos)
			if fuseRemaining < 0 {
				return detonate(ammo, face, citadelCrossings)
			}
		}

		// Remember where this hit happened before advancing: the fuse
		// counts down by the distance flown between consecutive hits.
		pos := hit.At.Point

		if ricochets(rng, ammo, face.Thickness, hit.At.Angle) {
			next, alive := path.Ricochet()
			if !alive {
				return 0, core.Ricochet
			}
			hit = next
		} else {
			angle := hit.At.Angle - normalizationAllowance
			if angle < 0 {
				angle = 0
			}
			effective := face.Thickness / math.Cos(deg2rad(90.0-angle))

			budget -= effective
			if budget < 0 {
				if lastPos == nil {
					// Could not get through the very first plate.
					return 0, core.NonPenetration
				}
				return detonate(ammo, face, citadelCrossings)
			}
			if effective > ammo.DetonatorThreshold {
				fuseArmed = true
				fuseRemaining = speed * ammo.DetonatorDelay
			}

			next, alive := path.Penetrate()
			if !alive {
				return 0.1 * ammo.Damage, core.OverPenetration
			}
			hit = next
		}

		lastPos = &pos
	}
}

// ricochets applies the obliquity/overmatch deflection law. Thin plates are
// overmatched outright; shallow hits always deflect; between 30 and 45
// degrees the chance rises linearly.
func ricochets(rng *rand.Rand, ammo core.AmmoSpec, thickness, angle float64) bool {
	if thickness < ammo.Caliber/ricochetDivisor {
		return false
	}
	switch {
	case angle < 30.0:
		return true
	case angle < 45.0:
		return rng.Float64() < (angle-30.0)/15.0
	default:
		return false
	}
}

// detonate is the shared terminal rule for fuse expiry, budget exhaustion
// and the step guard: a burst inside the citadel deals full alpha, the
// torpedo protection belt absorbs everything, anything else is an ordinary
// penetration.
func detonate(ammo core.AmmoSpec, face *core.ArmorFace, citadelCrossings int) (float64, core.ImpactType) {
	if citadelCrossings%2 == 1 {
		return ammo.Damage, core.Citadel
	}
	if face.Class == core.ArmorTorpedoProtectionBelt {
		return 0, core.TorpedoProtection
	}
	return ammo.Damage / 3.0, core.Penetration
}
