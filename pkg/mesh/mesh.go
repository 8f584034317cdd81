// Package mesh holds the triangle mesh produced for a drawn parachute.
// Buffers are flat so they can be handed to a renderer or serialized to the
// frontend without conversion.
package mesh

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

var (
	// ErrMalformedBuffers reports buffer lengths that are not multiples of 3
	// or normals that do not match the vertices.
	ErrMalformedBuffers = errors.New("mesh: malformed buffers")
	// ErrIndexOutOfRange reports a triangle index >= VertexCount.
	ErrIndexOutOfRange = errors.New("mesh: triangle index out of range")
)

// Mesh is a triangle mesh suitable for rendering.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, indices has 3 uint32s per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	PartName string    `json:"partName"` // which stroke this came from
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Reset truncates all buffers, keeping their capacity.
func (m *Mesh) Reset() {
	m.Vertices = m.Vertices[:0]
	m.Normals = m.Normals[:0]
	m.Indices = m.Indices[:0]
}

// AddVertex appends a vertex and returns its index.
func (m *Mesh) AddVertex(p v3.Vec) uint32 {
	m.Vertices = append(m.Vertices, float32(p.X), float32(p.Y), float32(p.Z))
	return uint32(m.VertexCount() - 1)
}

// AddTriangle appends a triangle. Winding a->b->c is counter-clockwise
// when seen from the side the face normal points to.
func (m *Mesh) AddTriangle(a, b, c uint32) {
	m.Indices = append(m.Indices, a, b, c)
}

// Position returns vertex i.
func (m *Mesh) Position(i int) v3.Vec {
	return v3.Vec{
		X: float64(m.Vertices[3*i]),
		Y: float64(m.Vertices[3*i+1]),
		Z: float64(m.Vertices[3*i+2]),
	}
}

// Triangle returns the vertex indices of triangle i.
func (m *Mesh) Triangle(i int) [3]uint32 {
	return [3]uint32{m.Indices[3*i], m.Indices[3*i+1], m.Indices[3*i+2]}
}

// FaceNormal returns the unnormalized normal (b-a)x(c-a) of triangle i.
// Its length is twice the triangle's area.
func (m *Mesh) FaceNormal(i int) v3.Vec {
	t := m.Triangle(i)
	a := m.Position(int(t[0]))
	b := m.Position(int(t[1]))
	c := m.Position(int(t[2]))
	return b.Sub(a).Cross(c.Sub(a))
}

// Clone returns a deep copy.
func (m *Mesh) Clone() *Mesh {
	return &Mesh{
		Vertices: append([]float32(nil), m.Vertices...),
		Normals:  append([]float32(nil), m.Normals...),
		Indices:  append([]uint32(nil), m.Indices...),
		PartName: m.PartName,
	}
}

// Validate checks buffer shapes and that every index references a vertex.
func (m *Mesh) Validate() error {
	if len(m.Vertices)%3 != 0 || len(m.Indices)%3 != 0 {
		return fmt.Errorf("%w: %d vertex floats, %d indices", ErrMalformedBuffers, len(m.Vertices), len(m.Indices))
	}
	if len(m.Normals) != 0 && len(m.Normals) != len(m.Vertices) {
		return fmt.Errorf("%w: %d normal floats for %d vertex floats", ErrMalformedBuffers, len(m.Normals), len(m.Vertices))
	}
	n := uint32(m.VertexCount())
	for i, idx := range m.Indices {
		if idx >= n {
			return fmt.Errorf("%w: triangle %d references vertex %d of %d", ErrIndexOutOfRange, i/3, idx, n)
		}
	}
	return nil
}

// RecalculateNormals rebuilds per-vertex normals by summing the
// area-weighted normals of every triangle touching the vertex.
// Vertices touched by no (or only degenerate) triangles get a zero normal.
func (m *Mesh) RecalculateNormals() {
	if cap(m.Normals) >= len(m.Vertices) {
		m.Normals = m.Normals[:len(m.Vertices)]
		clear(m.Normals)
	} else {
		m.Normals = make([]float32, len(m.Vertices))
	}

	for t := 0; t < m.TriangleCount(); t++ {
		n := m.FaceNormal(t)
		for _, idx := range m.Triangle(t) {
			m.Normals[3*idx] += float32(n.X)
			m.Normals[3*idx+1] += float32(n.Y)
			m.Normals[3*idx+2] += float32(n.Z)
		}
	}

	for i := 0; i < len(m.Normals); i += 3 {
		x, y, z := m.Normals[i], m.Normals[i+1], m.Normals[i+2]
		l := math32.Sqrt(x*x + y*y + z*z)
		if l == 0 {
			continue
		}
		m.Normals[i], m.Normals[i+1], m.Normals[i+2] = x/l, y/l, z/l
	}
}

// Bounds returns the axis-aligned bounding box of the vertices.
// An empty mesh has a zero box.
func (m *Mesh) Bounds() sdf.Box3 {
	if m.IsEmpty() {
		return sdf.Box3{}
	}
	lo := m.Position(0)
	hi := lo
	for i := 1; i < m.VertexCount(); i++ {
		p := m.Position(i)
		lo = lo.Min(p)
		hi = hi.Max(p)
	}
	return sdf.Box3{Min: lo, Max: hi}
}
