// Package ribbon turns a drawn stroke into a closed, two-sided ribbon mesh.
//
// A stroke is a sequence of surface-normalized 2-D points. Each point is
// offset perpendicular to the stroke on both sides, giving a front ring of
// vertices that alternates between the bottom edge (even indices) and the
// top edge (odd indices). The ring is duplicated one volume depth behind to
// form the back face, and the two rings are stitched along the bottom edge,
// the top edge and both ends into a watertight solid.
//
// Every triangle's winding is decided locally with SignedTurn, so a stroke
// that curves both ways along its length still gets outward-facing
// normals everywhere.
package ribbon

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/drawchute/pkg/mesh"
)

// minSegmentLength is the distance below which two consecutive samples are
// treated as the same point.
const minSegmentLength = 1e-9

// Volume is the axis-aligned box a ribbon is scaled into.
type Volume struct {
	Center  v3.Vec // added to every generated vertex
	Extents v3.Vec // half-size along each axis
}

// Box returns the volume as an sdfx bounding box.
func (v Volume) Box() sdf.Box3 {
	return sdf.Box3{Min: v.Center.Sub(v.Extents), Max: v.Center.Add(v.Extents)}
}

func (v Volume) validate() error {
	e := v.Extents
	for _, f := range []float64{e.X, e.Y, e.Z, v.Center.X, v.Center.Y, v.Center.Z} {
		if !finite(f) {
			return fmt.Errorf("%w: non-finite component in %+v", ErrInvalidVolume, v)
		}
	}
	if e.X <= 0 || e.Y <= 0 || e.Z <= 0 {
		return fmt.Errorf("%w: extents %v must be positive", ErrInvalidVolume, e)
	}
	return nil
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger used for diagnostics. Nil disables logging.
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) {
		if l == nil {
			l = slog.New(slog.DiscardHandler)
		}
		b.log = l
	}
}

// Builder generates ribbon meshes into buffers it owns. A Builder is not
// safe for concurrent use; give each drawing surface its own.
type Builder struct {
	vol Volume
	log *slog.Logger

	points []v2.Vec // merged samples of the current pass
	out    mesh.Mesh
	ok     bool // out holds a successful result
}

// NewBuilder returns a Builder targeting vol.
func NewBuilder(vol Volume, opts ...Option) *Builder {
	b := &Builder{vol: vol, log: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Volume returns the target volume.
func (b *Builder) Volume() Volume {
	return b.vol
}

// Mesh returns the result of the last successful Generate, or nil.
func (b *Builder) Mesh() *mesh.Mesh {
	if !b.ok {
		return nil
	}
	return &b.out
}

// Generate builds the ribbon for points drawn with the given brush, where
// brush is the brush width relative to the surface size on each axis.
//
// The returned mesh is owned by the Builder and is overwritten by the next
// successful call; Clone it to keep it. On error the previous mesh is left
// untouched.
func (b *Builder) Generate(points []v2.Vec, brush v2.Vec) (*mesh.Mesh, error) {
	if err := b.vol.validate(); err != nil {
		return nil, err
	}
	if !finite(brush.X) || !finite(brush.Y) || brush.X <= 0 || brush.Y <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBrush, brush)
	}
	if len(points) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInsufficientPoints, len(points))
	}
	for i, p := range points {
		if !finite(p.X) || !finite(p.Y) {
			return nil, fmt.Errorf("%w: sample %d is %v", ErrInvalidPoint, i, p)
		}
	}

	merged := mergeDuplicates(b.points[:0], points)
	b.points = merged
	if len(merged) < 2 {
		return nil, fmt.Errorf("%w: %d distinct of %d samples", ErrInsufficientPoints, len(merged), len(points))
	}
	if dropped := len(points) - len(merged); dropped > 0 {
		b.log.Debug("merged duplicate samples", "dropped", dropped, "kept", len(merged))
	}

	b.out.Reset()
	b.build(merged, brush)
	b.out.RecalculateNormals()
	b.ok = true

	bb := b.out.Bounds()
	b.log.Debug("generated ribbon",
		"points", len(merged),
		"vertices", b.out.VertexCount(),
		"triangles", b.out.TriangleCount(),
		"min", bb.Min, "max", bb.Max)
	return &b.out, nil
}

// mergeDuplicates appends to dst every sample that is not within
// minSegmentLength of the previously kept one.
func mergeDuplicates(dst, points []v2.Vec) []v2.Vec {
	for _, p := range points {
		if n := len(dst); n > 0 && p.Sub(dst[n-1]).Length() < minSegmentLength {
			continue
		}
		dst = append(dst, p)
	}
	return dst
}

func (b *Builder) build(points []v2.Vec, brush v2.Vec) {
	ext := b.vol.Extents
	ring := make([]v2.Vec, 0, 2*len(points)) // front ring in the xy plane

	for i, p := range points {
		var seg v2.Vec
		if i == 0 {
			seg = points[1].Sub(p)
		} else {
			seg = p.Sub(points[i-1])
		}
		dir := perpendicular(seg)
		dir = dir.MulScalar(1 / dir.Length())

		center := v2.Vec{X: 2 * p.X * ext.X, Y: 2 * p.Y * ext.Y}
		offset := v2.Vec{X: ext.X * brush.X * dir.X, Y: ext.Y * brush.Y * dir.Y}
		ring = append(ring, center.Sub(offset), center.Add(offset))
	}

	front := uint32(len(ring))
	for _, depth := range []float64{-ext.Z, ext.Z} {
		for _, q := range ring {
			b.out.AddVertex(v3.Vec{X: q.X, Y: q.Y, Z: depth}.Add(b.vol.Center))
		}
	}

	b.face(ring, 0, false)
	b.face(ring, front, true)

	last := uint32(len(ring) - 1)
	for a := uint32(0); a+2 <= last; a++ {
		// a's partner across the ribbon is the other vertex of its pair.
		b.quad(ring, a, a+2, a^1, front)
	}
	b.quad(ring, 0, 1, 2, front)
	b.quad(ring, last-1, last, last-3, front)
}

// face triangulates a ring as a strip, each triangle wound by the turn at
// its middle vertex. Front faces point to -z; back faces to +z.
func (b *Builder) face(ring []v2.Vec, base uint32, back bool) {
	for i := 1; i < len(ring)-1; i++ {
		turn := SignedTurn(ring[i-1], ring[i], ring[i+1])
		cur := base + uint32(i)
		if (turn > 0) != back {
			b.out.AddTriangle(cur, cur+1, cur-1)
		} else {
			b.out.AddTriangle(cur, cur-1, cur+1)
		}
	}
}

// quad closes the side between front vertices a and c and their back copies
// (index + depth). inner is a front vertex on the solid side of a->c; the
// winding is picked so the face points away from it.
func (b *Builder) quad(ring []v2.Vec, a, c, inner, depth uint32) {
	ab, cb := a+depth, c+depth
	if SignedTurn(ring[c], ring[a], ring[inner]) > 0 {
		b.out.AddTriangle(a, c, cb)
		b.out.AddTriangle(a, cb, ab)
	} else {
		b.out.AddTriangle(a, cb, c)
		b.out.AddTriangle(a, ab, cb)
	}
}

// SignedTurn returns the z component of (prev-cur) x (next-cur).
// It is positive when next lies counter-clockwise of prev as seen from cur,
// negative when clockwise and zero when the three points are collinear.
func SignedTurn(prev, cur, next v2.Vec) float64 {
	a := prev.Sub(cur)
	c := next.Sub(cur)
	return a.X*c.Y - a.Y*c.X
}

// perpendicular rotates v by 90 degrees counter-clockwise.
func perpendicular(v v2.Vec) v2.Vec {
	return v2.Vec{X: -v.Y, Y: v.X}
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
