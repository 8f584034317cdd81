package mesh

// edge is a directed edge between two vertex indices.
type edge struct{ from, to uint32 }

func (e edge) reversed() edge { return edge{e.to, e.from} }

// undirected returns the edge with its endpoints in ascending order.
func (e edge) undirected() edge {
	if e.from > e.to {
		return e.reversed()
	}
	return e
}

func (m *Mesh) directedEdges() map[edge]int {
	edges := make(map[edge]int, len(m.Indices))
	for t := 0; t < m.TriangleCount(); t++ {
		tri := m.Triangle(t)
		for j := 0; j < 3; j++ {
			edges[edge{tri[j], tri[(j+1)%3]}]++
		}
	}
	return edges
}

// IsClosed reports whether every edge is shared by exactly two triangles,
// i.e. the mesh is watertight. An empty mesh is not closed.
func (m *Mesh) IsClosed() bool {
	if m.TriangleCount() == 0 {
		return false
	}
	counts := make(map[edge]int, len(m.Indices))
	for e, n := range m.directedEdges() {
		counts[e.undirected()] += n
	}
	for _, n := range counts {
		if n != 2 {
			return false
		}
	}
	return true
}

// IsConsistentlyWound reports whether the mesh is closed and every edge is
// traversed once in each direction, so all faces agree on which side is out.
func (m *Mesh) IsConsistentlyWound() bool {
	if !m.IsClosed() {
		return false
	}
	edges := m.directedEdges()
	for e, n := range edges {
		if n != 1 || edges[e.reversed()] != 1 {
			return false
		}
	}
	return true
}

// SignedVolume returns the enclosed volume of a closed mesh. It is positive
// when faces wind counter-clockwise seen from outside.
func (m *Mesh) SignedVolume() float64 {
	var sum float64
	for t := 0; t < m.TriangleCount(); t++ {
		tri := m.Triangle(t)
		a := m.Position(int(tri[0]))
		b := m.Position(int(tri[1]))
		c := m.Position(int(tri[2]))
		sum += a.Dot(b.Cross(c))
	}
	return sum / 6
}
