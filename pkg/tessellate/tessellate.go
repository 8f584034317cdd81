// Package tessellate turns a batch of strokes into ribbon meshes using a
// shared builder. One mesh is produced per stroke.
package tessellate

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/chazu/drawchute/pkg/mesh"
	"github.com/chazu/drawchute/pkg/ribbon"
	"github.com/chazu/drawchute/pkg/stroke"
)

// Option configures a Tessellate call.
type Option func(*options)

type options struct {
	log    *slog.Logger
	onSkip func(i int, name string, err error)
}

// WithLogger reports skipped strokes to l.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// OnSkip calls fn for every stroke skipped for having too few distinct
// points. i is the stroke's index in the batch.
func OnSkip(fn func(i int, name string, err error)) Option {
	return func(o *options) {
		o.onSkip = fn
	}
}

// Tessellate generates a mesh for every stroke, in order, using b. Each
// result is a clone, so b can be reused afterwards. Meshes are named after
// their stroke, falling back to "stroke-<index>" for unnamed strokes.
//
// Strokes with fewer than two distinct points are skipped. Any other
// generation error aborts the batch.
func Tessellate(strokes []stroke.Stroke, b *ribbon.Builder, opts ...Option) ([]*mesh.Mesh, error) {
	if b == nil {
		return nil, errors.New("tessellate: nil builder")
	}
	o := options{log: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}

	meshes := make([]*mesh.Mesh, 0, len(strokes))
	for i, st := range strokes {
		name := partName(st, i)
		m, err := b.Generate(st.Points, st.Brush)
		if errors.Is(err, ribbon.ErrInsufficientPoints) {
			o.log.Warn("skipping stroke", "stroke", name, "err", err)
			if o.onSkip != nil {
				o.onSkip(i, name, err)
			}
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("tessellate: stroke %s: %w", name, err)
		}

		out := m.Clone()
		out.PartName = name
		meshes = append(meshes, out)
	}
	return meshes, nil
}

// partName is the mesh name Tessellate gives the i-th stroke.
func partName(st stroke.Stroke, i int) string {
	if st.Name != "" {
		return st.Name
	}
	return fmt.Sprintf("stroke-%d", i)
}
