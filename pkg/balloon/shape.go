package balloon

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/drawchute/pkg/mesh"
)

const (
	bodyRadius = 0.5
	knotHeight = 0.12
	knotRadius = 0.06
)

// Shape returns the balloon at scale 1: a sphere of radius 0.5 around the
// body position with a small knot below it where the tether attaches. It
// spans TopOffset to BottomOffset of a default balloon.
func Shape() (sdf.SDF3, error) {
	body, err := sdf.Sphere3D(bodyRadius)
	if err != nil {
		return nil, err
	}
	knot, err := sdf.Cone3D(knotHeight, knotRadius, 0.25*knotRadius, 0)
	if err != nil {
		return nil, err
	}
	// Cone3D is centred on the origin; put its narrow end at the bottom.
	knot = sdf.Transform3D(knot, sdf.Translate3d(v3.Vec{Y: -bodyRadius}).Mul(sdf.RotateX(math.Pi/2)))
	return sdf.Union3D(body, knot), nil
}

// ShapeMesh renders Shape with marching cubes at the given resolution.
func ShapeMesh(cells int) (*mesh.Mesh, error) {
	s, err := Shape()
	if err != nil {
		return nil, err
	}
	m, err := mesh.FromSDF(s, cells)
	if err != nil {
		return nil, err
	}
	m.PartName = "balloon"
	return m, nil
}
