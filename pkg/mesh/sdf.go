package mesh

import (
	"errors"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
)

// DefaultCells is the marching cubes resolution used by FromSDF when
// cells is not positive.
const DefaultCells = 64

// ErrEmptySurface is returned when an SDF renders no triangles.
var ErrEmptySurface = errors.New("mesh: sdf produced no surface")

// FromSDF renders a signed distance field into a triangle mesh with
// marching cubes over cells voxels along the longest axis. Triangles do
// not share vertices, so every vertex carries its face normal.
func FromSDF(s sdf.SDF3, cells int) (*Mesh, error) {
	if cells <= 0 {
		cells = DefaultCells
	}
	triangles := render.ToTriangles(s, render.NewMarchingCubesUniform(cells))
	if len(triangles) == 0 {
		return nil, ErrEmptySurface
	}

	m := &Mesh{
		Vertices: make([]float32, 0, len(triangles)*9),
		Normals:  make([]float32, 0, len(triangles)*9),
		Indices:  make([]uint32, 0, len(triangles)*3),
	}
	for _, tri := range triangles {
		n := tri.Normal()
		for _, v := range tri {
			idx := m.AddVertex(v)
			m.Normals = append(m.Normals, float32(n.X), float32(n.Y), float32(n.Z))
			m.Indices = append(m.Indices, idx)
		}
	}
	return m, nil
}
