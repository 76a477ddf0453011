// Package geo derives plan-view hull measurements from armor geometry.
package geo

import (
	"errors"
	"fmt"

	geom "github.com/peterstace/simplefeatures/geom"

	"github.com/navsim/broadside/pkg/core"
)

// ErrEmptyMesh is returned when a footprint is requested for a mesh with no faces.
var ErrEmptyMesh = errors.New("armor mesh has no faces")

// Footprint is the deck-plan outline of a ship's armor model. Length runs
// along the keel (Z axis of the model), Beam across it.
type Footprint struct {
	Length float64 `json:"length"`
	Beam   float64 `json:"beam"`
	Area   float64 `json:"area"`
}

// FootprintOf projects every mesh vertex onto the waterline plane and
// measures the convex hull of the result.
func FootprintOf(mesh []core.ArmorFace) (Footprint, error) {
	if len(mesh) == 0 {
		return Footprint{}, ErrEmptyMesh
	}

	points := make([]geom.Point, 0, len(mesh)*3)
	for _, face := range mesh {
		for _, v := range face.Vertices {
			pt, err := geom.NewPoint(geom.Coordinates{
				XY: geom.XY{X: v.X, Y: v.Z},
			})
			if err != nil {
				return Footprint{}, fmt.Errorf("projecting vertex: %w", err)
			}
			points = append(points, pt)
		}
	}

	hull := geom.NewMultiPoint(points).AsGeometry().ConvexHull()

	seq := hull.DumpCoordinates()
	minX, maxX := seq.GetXY(0).X, seq.GetXY(0).X
	minZ, maxZ := seq.GetXY(0).Y, seq.GetXY(0).Y
	for i := 1; i < seq.Length(); i++ {
		xy := seq.GetXY(i)
		minX = min(minX, xy.X)
		maxX = max(maxX, xy.X)
		minZ = min(minZ, xy.Y)
		maxZ = max(maxZ, xy.Y)
	}

	return Footprint{
		Length: maxZ - minZ,
		Beam:   maxX - minX,
		Area:   hull.Area(),
	}, nil
}
