package mesh

import (
	"fmt"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
)

// ToTriangles converts the indexed mesh into sdfx triangles.
func (m *Mesh) ToTriangles() []*sdf.Triangle3 {
	tris := make([]*sdf.Triangle3, 0, m.TriangleCount())
	for t := 0; t < m.TriangleCount(); t++ {
		idx := m.Triangle(t)
		tris = append(tris, &sdf.Triangle3{
			m.Position(int(idx[0])),
			m.Position(int(idx[1])),
			m.Position(int(idx[2])),
		})
	}
	return tris
}

// SaveSTL writes the mesh to path as an STL file.
func (m *Mesh) SaveSTL(path string) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if m.TriangleCount() == 0 {
		return fmt.Errorf("mesh: nothing to save for %q", m.PartName)
	}
	if err := render.SaveSTL(path, m.ToTriangles()); err != nil {
		return fmt.Errorf("mesh: save %s: %w", path, err)
	}
	return nil
}
