package ballistics

import (
	"math"
	"math/rand"

	"github.com/navsim/broadside/pkg/core"
)

// Sampler draws aim offsets from a dispersion profile. Each sampler owns
// its random source, so concurrent volleys get one sampler per worker.
type Sampler struct {
	profile core.DispersionProfile
	rng     *rand.Rand
}

// NewSampler creates a sampler over the given profile. The random source
// must not be shared with another goroutine.
func NewSampler(profile core.DispersionProfile, rng *rand.Rand) *Sampler {
	return &Sampler{profile: profile, rng: rng}
}

// boundedGauss rejection-samples N(0, sigma) until the draw lands strictly
// inside (-0.5, 0.5), bounding the tail so extreme dispersion never occurs.
func (s *Sampler) boundedGauss() float64 {
	for {
		v := s.rng.NormFloat64() * s.profile.Sigma
		if v > -0.5 && v < 0.5 {
			return v
		}
	}
}

// Offset returns a random aim offset for a shot at the given azimuth and
// range. The horizontal and vertical draws are scaled by range relative to
// the profile's reference range, then rotated by azimuth into world axes.
func (s *Sampler) Offset(azimuthDeg, rangeM float64) core.Vec3 {
	distanceFactor := rangeM / s.profile.MaxRange
	x := s.profile.Horizontal * s.boundedGauss() * distanceFactor
	y := s.profile.Vertical * s.boundedGauss() * distanceFactor

	sin, cos := math.Sincos(deg2rad(azimuthDeg))
	return core.Vec3{
		X: x*cos - y*sin,
		Y: 0,
		Z: x*sin + y*cos,
	}
}
