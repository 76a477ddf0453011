// Package impact resolves where a shell ends up inside an armor mesh: the
// stateful path traversal over the target's faces, and the HE/AP damage
// strategies that drive it to a terminal outcome.
package impact

import (
	"github.com/navsim/broadside/internal/geometry"
	"github.com/navsim/broadside/pkg/core"
)

// castback is how far behind the entry offset the initial ray is cast from,
// guaranteeing the first forward intersection is the true entry face.
const castback = 1000.0

// Hit pairs the face that was struck with the intersection details.
// Face points into the target's mesh; the traversal never copies or
// mutates the mesh itself.
type Hit struct {
	Face *core.ArmorFace
	At   geometry.Intersection
}

// Path walks a shell through an armor mesh. It owns only its own position
// and direction; the mesh is borrowed read-only from the target. After each
// hit it precomputes the direction a ricochet off that face would take.
type Path struct {
	mesh      []core.ArmorFace
	position  core.Vec3
	direction core.Vec3
	reflected core.Vec3
}

// NewPath casts a ray along direction toward the entry offset and positions
// the path at the first face it strikes. ok is false when the shot misses
// the mesh entirely.
func NewPath(target *core.TargetConfiguration, direction, offset core.Vec3) (*Path, Hit, bool) {
	start := offset.Sub(direction.Scale(castback))
	idx, inter, found := geometry.NextIntersection(target.Geometry, start, direction)
	if !found {
		return nil, Hit{}, false
	}
	face := &target.Geometry[idx]
	p := &Path{
		mesh:      target.Geometry,
		position:  inter.Point,
		direction: direction,
		reflected: geometry.Reflect(*face, direction),
	}
	return p, Hit{Face: face, At: inter}, true
}

// Ricochet deflects the shell onto the reflected direction computed at the
// last hit and advances to the next face. ok is false when the deflected
// shell leaves the mesh.
func (p *Path) Ricochet() (Hit, bool) {
	p.direction = p.reflected
	return p.advance()
}

// Penetrate continues straight through the face just defeated and advances
// to the next one. ok is false when the shell passes out of the mesh.
func (p *Path) Penetrate() (Hit, bool) {
	return p.advance()
}

func (p *Path) advance() (Hit, bool) {
	idx, inter, found := geometry.NextIntersection(p.mesh, p.position, p.direction)
	if !found {
		return Hit{}, false
	}
	face := &p.mesh[idx]
	p.position = inter.Point
	p.reflected = geometry.Reflect(*face, p.direction)
	return Hit{Face: face, At: inter}, true
}
