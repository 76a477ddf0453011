// Package geometry provides ray-triangle intersection and reflection
// primitives over armor faces. It owns no state; faces are borrowed
// read-only from the target configuration.
package geometry

import (
	"math"

	"github.com/navsim/broadside/pkg/core"
)

// epsilon guards against degenerate geometry: determinants this close to
// zero mean the ray runs parallel to the face plane, and intersection
// parameters below it are self-hits at the current position.
const epsilon = 1e-5

// Intersection is a successful ray-face hit. Angle is the obliquity in
// degrees relative to the face: 0 is a grazing hit, 90 a perpendicular one.
type Intersection struct {
	T     float64   // ray parameter, distance along the ray
	Angle float64   // deg, folded into [0,90]
	Point core.Vec3 // world-space hit point
}

// Normal returns the unit normal of a face, derived from vertex winding
// order as edge1 x edge2.
func Normal(f core.ArmorFace) core.Vec3 {
	edge1 := f.Vertices[1].Sub(f.Vertices[0])
	edge2 := f.Vertices[2].Sub(f.Vertices[0])
	return edge1.Cross(edge2).Normalize()
}

// Reflect mirrors an incoming direction about the face normal. The normal's
// sign is chosen to oppose the incoming ray, so a face reflects correctly
// when hit from either side.
func Reflect(f core.ArmorFace, incoming core.Vec3) core.Vec3 {
	v := incoming.Scale(-1).Normalize()
	n := Normal(f)
	if v.Dot(n) < 0 {
		n = n.Scale(-1)
	}
	scale := 2.0 * v.Dot(n)
	return v.Sub(n.Scale(scale)).Normalize()
}

// Intersect runs the Moller-Trumbore ray-triangle test. It reports no
// intersection when the ray is parallel to the face plane or the hit falls
// outside the triangle's barycentric bounds.
func Intersect(f core.ArmorFace, origin, direction core.Vec3) (Intersection, bool) {
	edge1 := f.Vertices[1].Sub(f.Vertices[0])
	edge2 := f.Vertices[2].Sub(f.Vertices[0])
	h := direction.Cross(edge2)
	a := edge1.Dot(h)
	if math.Abs(a) < epsilon {
		// Ray parallel to triangle
		return Intersection{}, false
	}

	inv := 1.0 / a
	s := origin.Sub(f.Vertices[0])
	u := inv * s.Dot(h)
	if u < 0.0 || u > 1.0 {
		return Intersection{}, false
	}

	q := s.Cross(edge1)
	v := inv * direction.Dot(q)
	if v < 0.0 || u+v > 1.0 {
		return Intersection{}, false
	}

	t := inv * edge2.Dot(q)

	return Intersection{
		T:     t,
		Angle: obliquity(Normal(f), direction),
		Point: origin.Add(direction.Scale(t)),
	}, true
}

// obliquity converts the angle between a face normal and a ray direction
// into the penetration model's convention: folded into [0,90] and
// complemented, so 0 deg means grazing and 90 deg means perpendicular.
func obliquity(normal, direction core.Vec3) float64 {
	cos := normal.Dot(direction) / direction.Length()
	angle := math.Acos(cos) * 180.0 / math.Pi
	if angle < 0 {
		angle = -angle
	}
	if angle > 90 {
		angle = 180 - angle
	}
	return 90 - angle
}

// NextIntersection scans every face of the mesh for the nearest forward
// intersection along the ray, skipping hits at the ray origin itself.
// It returns the index of the hit face, or -1 when the ray exits the mesh.
func NextIntersection(mesh []core.ArmorFace, origin, direction core.Vec3) (int, Intersection, bool) {
	best := -1
	var nearest Intersection
	for i := range mesh {
		hit, ok := Intersect(mesh[i], origin, direction)
		if !ok || hit.T <= epsilon {
			continue
		}
		if best == -1 || hit.T < nearest.T {
			best = i
			nearest = hit
		}
	}
	if best == -1 {
		return -1, Intersection{}, false
	}
	return best, nearest, true
}
