package stroke

import (
	"errors"
	"testing"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/drawchute/pkg/ribbon"
)

// surface is 200x100 pixels with its corner at screen (100, 50).
var surface = Surface{
	Origin: v2.Vec{X: 100, Y: 50},
	Size:   v2.Vec{X: 200, Y: 100},
}

func at(x, y float64) v2.Vec { return v2.Vec{X: x, Y: y} }

type recordingSink struct {
	strokes []Stroke
	err     error
}

func (r *recordingSink) Consume(s Stroke) error {
	r.strokes = append(r.strokes, s)
	return r.err
}

type segment struct{ from, to v2.Vec }

type recordingPainter struct {
	segments []segment
	clears   int
}

func (p *recordingPainter) PaintSegment(from, to, _ v2.Vec) {
	p.segments = append(p.segments, segment{from, to})
}

func (p *recordingPainter) Clear() { p.clears++ }

func TestSurfaceNormalize(t *testing.T) {
	assert.Equal(t, at(0, 0), surface.Normalize(at(100, 50)))
	assert.Equal(t, at(1, 1), surface.Normalize(at(300, 150)))
	assert.Equal(t, at(0.5, 0.25), surface.Normalize(at(200, 75)))
	assert.Equal(t, at(-0.5, -0.5), surface.Normalize(at(0, 0)))
}

func TestDragProducesStroke(t *testing.T) {
	sink := &recordingSink{}
	s := NewSampler(surface, WithSink(sink))

	require.True(t, s.BeginStroke(at(100, 50)))
	assert.True(t, s.Active())
	assert.False(t, s.ExtendStroke(at(105, 50)), "5px is below the drag threshold")
	assert.True(t, s.ExtendStroke(at(100, 80)))
	assert.True(t, s.ExtendStroke(at(140, 80)))
	assert.Equal(t, 3, s.Len())

	st, err := s.EndStroke()
	require.NoError(t, err)
	require.NotNil(t, st)
	assert.Equal(t, []v2.Vec{at(0, 0), at(0, 0.3), at(0.2, 0.3)}, st.Points)
	assert.Equal(t, at(0.025, 0.05), st.Brush)

	require.Len(t, sink.strokes, 1)
	assert.Equal(t, *st, sink.strokes[0])
	assert.False(t, s.Active())
	assert.Zero(t, s.Len())
}

func TestTapIsDiscarded(t *testing.T) {
	sink := &recordingSink{}
	s := NewSampler(surface, WithSink(sink))

	s.BeginStroke(at(150, 60))
	st, err := s.EndStroke()
	assert.NoError(t, err)
	assert.Nil(t, st)
	assert.Empty(t, sink.strokes)
	assert.False(t, s.Active())
}

func TestSmallDragIsDiscarded(t *testing.T) {
	sink := &recordingSink{}
	s := NewSampler(surface, WithSink(sink))

	s.BeginStroke(at(150, 60))
	// Each move is measured from the last recorded position, which stays at
	// the start because nothing qualifies.
	assert.False(t, s.ExtendStroke(at(160, 60)))
	assert.False(t, s.ExtendStroke(at(165, 65)))
	assert.False(t, s.ExtendStroke(at(150, 79)))

	st, err := s.EndStroke()
	assert.NoError(t, err)
	assert.Nil(t, st)
	assert.Empty(t, sink.strokes, "no call may reach the builder")
}

func TestDragThreshold(t *testing.T) {
	tests := []struct {
		name      string
		threshold float64
		move      v2.Vec
		want      bool
	}{
		{"below default", DefaultMinDragDistance, at(119, 50), false},
		{"at default", DefaultMinDragDistance, at(120, 50), true},
		{"diagonal above", DefaultMinDragDistance, at(115, 65), true},
		{"custom threshold", 5, at(106, 50), true},
		{"zero threshold", 0, at(100, 50), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSampler(surface, WithMinDragDistance(tt.threshold))
			s.BeginStroke(at(100, 50))
			assert.Equal(t, tt.want, s.ExtendStroke(tt.move))
		})
	}
}

func TestExtendWithoutBegin(t *testing.T) {
	s := NewSampler(surface)
	assert.False(t, s.ExtendStroke(at(300, 300)))
	assert.Zero(t, s.Len())

	st, err := s.EndStroke()
	assert.NoError(t, err)
	assert.Nil(t, st)
}

func TestBeginWhileActiveIsIgnored(t *testing.T) {
	s := NewSampler(surface)
	require.True(t, s.BeginStroke(at(100, 50)))
	require.True(t, s.ExtendStroke(at(100, 100)))

	assert.False(t, s.BeginStroke(at(300, 150)))
	assert.Equal(t, 2, s.Len(), "samples must survive an ignored begin")
}

func TestOutOfBoundsSamples(t *testing.T) {
	permissive := NewSampler(surface)
	permissive.BeginStroke(at(0, 0))
	permissive.ExtendStroke(at(400, 250))
	st, err := permissive.EndStroke()
	require.NoError(t, err)
	assert.Equal(t, []v2.Vec{at(-0.5, -0.5), at(1.5, 2)}, st.Points)

	clamped := NewSampler(surface, WithClamp(true))
	clamped.BeginStroke(at(0, 0))
	clamped.ExtendStroke(at(400, 250))
	st, err = clamped.EndStroke()
	require.NoError(t, err)
	assert.Equal(t, []v2.Vec{at(0, 0), at(1, 1)}, st.Points)
}

func TestSinkErrorStillResets(t *testing.T) {
	boom := errors.New("boom")
	s := NewSampler(surface, WithSink(&recordingSink{err: boom}))
	s.BeginStroke(at(100, 50))
	s.ExtendStroke(at(150, 50))

	st, err := s.EndStroke()
	assert.ErrorIs(t, err, boom)
	assert.NotNil(t, st)
	assert.False(t, s.Active())
	assert.Zero(t, s.Len())
}

func TestPainterFeedback(t *testing.T) {
	p := &recordingPainter{}
	s := NewSampler(surface, WithPainter(p))

	s.BeginStroke(at(100, 50))
	s.ExtendStroke(at(105, 50))
	s.ExtendStroke(at(200, 50))
	s.ExtendStroke(at(200, 100))
	assert.Equal(t, []segment{
		{at(0, 0), at(0.5, 0)},
		{at(0.5, 0), at(0.5, 0.5)},
	}, p.segments)
	assert.Zero(t, p.clears)

	_, err := s.EndStroke()
	require.NoError(t, err)
	assert.Equal(t, 1, p.clears)
}

func TestCancel(t *testing.T) {
	sink := &recordingSink{}
	s := NewSampler(surface, WithSink(sink))
	s.BeginStroke(at(100, 50))
	s.ExtendStroke(at(200, 50))
	s.Cancel()

	assert.False(t, s.Active())
	st, err := s.EndStroke()
	assert.NoError(t, err)
	assert.Nil(t, st)
	assert.Empty(t, sink.strokes)
}

func TestStrokeDoesNotAliasSamplerState(t *testing.T) {
	s := NewSampler(surface)
	s.BeginStroke(at(100, 50))
	s.ExtendStroke(at(200, 50))
	st, err := s.EndStroke()
	require.NoError(t, err)
	want := append([]v2.Vec(nil), st.Points...)

	s.BeginStroke(at(300, 150))
	s.ExtendStroke(at(300, 100))
	assert.Equal(t, want, st.Points)
}

func TestBrushRatio(t *testing.T) {
	tests := []struct {
		name   string
		size   v2.Vec
		pixels int
		want   v2.Vec
	}{
		{"default brush", at(200, 100), DefaultBrushPixels, at(0.025, 0.05)},
		{"fractional size rounds up", at(199.2, 99.5), 10, at(0.05, 0.1)},
		{"square", at(500, 500), 50, at(0.1, 0.1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSampler(Surface{Size: tt.size}, WithBrushPixels(tt.pixels))
			got := s.BrushRatio()
			assert.InDelta(t, tt.want.X, got.X, 1e-12)
			assert.InDelta(t, tt.want.Y, got.Y, 1e-12)
		})
	}
}

func TestSamplerFeedsBuilder(t *testing.T) {
	b := ribbon.NewBuilder(ribbon.Volume{Extents: v3.Vec{X: 1, Y: 1, Z: 1}})
	var generated int
	sink := SinkFunc(func(st Stroke) error {
		m, err := b.Generate(st.Points, st.Brush)
		if err != nil {
			return err
		}
		generated = m.VertexCount()
		return nil
	})

	s := NewSampler(Surface{Size: at(500, 500)}, WithSink(sink), WithBrushPixels(50))
	s.BeginStroke(at(0, 0))
	s.ExtendStroke(at(0, 250))
	s.ExtendStroke(at(0, 500))
	_, err := s.EndStroke()
	require.NoError(t, err)

	assert.Equal(t, 12, generated)
	require.NotNil(t, b.Mesh())
	assert.True(t, b.Mesh().IsConsistentlyWound())
}
