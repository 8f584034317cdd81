// Package stroke captures pointer drags over a rectangular drawing surface
// and turns them into strokes of surface-normalized points.
package stroke

import (
	"log/slog"
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"
)

const (
	// DefaultMinDragDistance is the on-screen distance, in pixels, the
	// pointer must travel before another sample is taken.
	DefaultMinDragDistance = 20.0
	// DefaultBrushPixels is the brush width in pixels.
	DefaultBrushPixels = 5
)

// Stroke is one finished drag gesture.
type Stroke struct {
	Name   string
	Points []v2.Vec // surface-normalized, in drawing order
	Brush  v2.Vec   // brush width relative to the surface size per axis
}

// Surface is the screen-space rectangle being drawn on.
type Surface struct {
	Origin v2.Vec // screen position of the surface's (0,0) corner
	Size   v2.Vec // width and height in pixels
}

// Normalize maps a screen position into surface space, where the surface
// spans [0,1] on both axes. Positions off the surface map outside that range.
func (s Surface) Normalize(pos v2.Vec) v2.Vec {
	local := pos.Sub(s.Origin)
	return v2.Vec{X: local.X / s.Size.X, Y: local.Y / s.Size.Y}
}

// Sink receives finished strokes.
type Sink interface {
	Consume(Stroke) error
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(Stroke) error

// Consume calls f(s).
func (f SinkFunc) Consume(s Stroke) error { return f(s) }

// Painter draws live feedback while a stroke is in progress.
type Painter interface {
	// PaintSegment draws the brush from one normalized sample to the next.
	PaintSegment(from, to, brush v2.Vec)
	// Clear wipes the feedback once the gesture ends.
	Clear()
}

// Option configures a Sampler.
type Option func(*Sampler)

// WithMinDragDistance sets the sampling threshold in pixels.
func WithMinDragDistance(px float64) Option {
	return func(s *Sampler) { s.minDrag = px }
}

// WithBrushPixels sets the brush width in pixels.
func WithBrushPixels(px int) Option {
	return func(s *Sampler) { s.brushPixels = px }
}

// WithSink sets where finished strokes are sent.
func WithSink(sink Sink) Option {
	return func(s *Sampler) { s.sink = sink }
}

// WithPainter sets the live feedback painter.
func WithPainter(p Painter) Option {
	return func(s *Sampler) { s.painter = p }
}

// WithClamp clamps samples to the surface. Off by default: a drag that
// leaves the surface while pressed keeps producing out-of-range samples.
func WithClamp(clamp bool) Option {
	return func(s *Sampler) { s.clamp = clamp }
}

// WithLogger sets the logger used for diagnostics. Nil disables logging.
func WithLogger(l *slog.Logger) Option {
	return func(s *Sampler) {
		if l == nil {
			l = slog.New(slog.DiscardHandler)
		}
		s.log = l
	}
}

// Sampler accumulates samples for one gesture at a time. Events are
// expected serially from a single input source.
type Sampler struct {
	surface     Surface
	minDrag     float64
	brushPixels int
	clamp       bool
	sink        Sink
	painter     Painter
	log         *slog.Logger

	active  bool
	moved   bool
	lastRaw v2.Vec
	points  []v2.Vec
}

// NewSampler returns a Sampler for the given surface.
func NewSampler(surface Surface, opts ...Option) *Sampler {
	s := &Sampler{
		surface:     surface,
		minDrag:     DefaultMinDragDistance,
		brushPixels: DefaultBrushPixels,
		log:         slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Active reports whether a gesture is in progress.
func (s *Sampler) Active() bool { return s.active }

// Len returns the number of samples taken in the current gesture.
func (s *Sampler) Len() int { return len(s.points) }

// BrushRatio returns the brush width relative to the surface's pixel size.
// The pixel size is rounded up, matching the painted texture.
func (s *Sampler) BrushRatio() v2.Vec {
	b := float64(s.brushPixels)
	return v2.Vec{X: b / math.Ceil(s.surface.Size.X), Y: b / math.Ceil(s.surface.Size.Y)}
}

// BeginStroke starts a gesture at the screen position pos. It is ignored
// while another gesture is active.
func (s *Sampler) BeginStroke(pos v2.Vec) bool {
	if s.active {
		return false
	}
	s.active = true
	s.moved = false
	s.lastRaw = pos
	s.points = append(s.points[:0], s.sample(pos))
	return true
}

// ExtendStroke adds a sample if a gesture is active and the pointer has
// travelled at least the minimum drag distance since the last sample.
func (s *Sampler) ExtendStroke(pos v2.Vec) bool {
	if !s.active || pos.Sub(s.lastRaw).Length() < s.minDrag {
		return false
	}
	prev := s.points[len(s.points)-1]
	cur := s.sample(pos)
	s.lastRaw = pos
	s.moved = true
	s.points = append(s.points, cur)
	if s.painter != nil {
		s.painter.PaintSegment(prev, cur, s.BrushRatio())
	}
	return true
}

// EndStroke finishes the gesture. If the pointer moved, the stroke is sent
// to the sink and returned; a tap without movement is discarded and nil is
// returned. Either way the sampler is ready for the next gesture.
func (s *Sampler) EndStroke() (*Stroke, error) {
	defer s.reset()
	if !s.active || !s.moved {
		if s.active {
			s.log.Debug("discarding stroke without movement")
		}
		return nil, nil
	}

	st := &Stroke{
		Points: append([]v2.Vec(nil), s.points...),
		Brush:  s.BrushRatio(),
	}
	s.log.Debug("stroke finished", "samples", len(st.Points), "brush", st.Brush)
	if s.sink == nil {
		return st, nil
	}
	return st, s.sink.Consume(*st)
}

// Cancel abandons the current gesture without emitting it.
func (s *Sampler) Cancel() {
	s.reset()
}

func (s *Sampler) reset() {
	s.active = false
	s.moved = false
	s.points = s.points[:0]
	if s.painter != nil {
		s.painter.Clear()
	}
}

func (s *Sampler) sample(pos v2.Vec) v2.Vec {
	p := s.surface.Normalize(pos)
	if s.clamp {
		p.X = min(max(p.X, 0), 1)
		p.Y = min(max(p.Y, 0), 1)
	}
	return p
}
