package core

// GunSpec holds the muzzle characteristics of a naval gun.
// All values are SI: kilograms, meters, meters per second.
// Built once during ingestion and never mutated.
type GunSpec struct {
	Mass        float64 `json:"mass"`        // projectile mass, kg
	Diameter    float64 `json:"diameter"`    // caliber, m
	MuzzleSpeed float64 `json:"muzzleSpeed"` // m/s
	Drag        float64 `json:"drag"`        // drag coefficient
	Krupp       float64 `json:"krupp"`       // armor-penetration steel constant
}

// FlightOutcome is the result of a single trajectory evaluation.
type FlightOutcome struct {
	Distance    float64 `json:"distance"`    // horizontal distance traveled, m
	Speed       float64 `json:"speed"`       // impact speed, m/s
	TimeAloft   float64 `json:"timeAloft"`   // s
	ImpactAngle float64 `json:"impactAngle"` // deg from horizontal, negative when descending
	Penetration float64 `json:"penetration"` // mm-equivalent armor capacity at impact
}

// DispersionProfile describes aim scatter for a gun mount.
// Spread grows linearly with range up to MaxRange.
type DispersionProfile struct {
	Horizontal float64 `json:"horizontal"` // spread scale, m
	Vertical   float64 `json:"vertical"`   // spread scale, m
	MaxRange   float64 `json:"maxRange"`   // reference range, m
	Sigma      float64 `json:"sigma"`      // Gaussian shape parameter
}
