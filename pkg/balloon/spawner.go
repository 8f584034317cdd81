package balloon

import (
	"log/slog"
	"math/rand"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Spawner defaults.
const (
	DefaultInterval = 3.0
	DefaultMax      = 12
	DefaultYOffset  = 1.0
	DefaultJitter   = 0.05
)

// Factory creates the body for a new balloon at pos.
type Factory func(pos v3.Vec) Body

// SpawnerOption configures a Spawner.
type SpawnerOption func(*Spawner)

// WithInterval sets the seconds between spawns.
func WithInterval(sec float64) SpawnerOption {
	return func(s *Spawner) { s.interval = sec }
}

// WithMax caps the number of balloons.
func WithMax(n int) SpawnerOption {
	return func(s *Spawner) { s.max = n }
}

// WithYOffset sets how far above the anchor balloons appear.
func WithYOffset(y float64) SpawnerOption {
	return func(s *Spawner) { s.yOffset = y }
}

// WithJitter sets the horizontal scatter radius of spawn positions.
func WithJitter(r float64) SpawnerOption {
	return func(s *Spawner) { s.jitter = r }
}

// WithTuning sets the lift and final size of spawned balloons.
func WithTuning(lift, maxSize float64) SpawnerOption {
	return func(s *Spawner) { s.lift, s.maxSize = lift, maxSize }
}

// WithSeed seeds the scatter for reproducible runs.
func WithSeed(seed int64) SpawnerOption {
	return func(s *Spawner) { s.rng = rand.New(rand.NewSource(seed)) }
}

// WithLogger sets the logger used for spawn events. Nil disables logging.
func WithLogger(l *slog.Logger) SpawnerOption {
	return func(s *Spawner) {
		if l == nil {
			l = slog.New(slog.DiscardHandler)
		}
		s.log = l
	}
}

// Spawner releases balloons tied to an anchor body at a fixed interval.
type Spawner struct {
	anchor   Body
	newBody  Factory
	interval float64
	max      int
	yOffset  float64
	jitter   float64
	lift     float64
	maxSize  float64
	rng      *rand.Rand
	log      *slog.Logger

	wait     float64 // seconds until the next spawn is due
	balloons []*Balloon
}

// NewSpawner returns a Spawner for anchor. The first balloon is released
// on the first Step.
func NewSpawner(anchor Body, newBody Factory, opts ...SpawnerOption) *Spawner {
	s := &Spawner{
		anchor:   anchor,
		newBody:  newBody,
		interval: DefaultInterval,
		max:      DefaultMax,
		yOffset:  DefaultYOffset,
		jitter:   DefaultJitter,
		lift:     DefaultLift,
		maxSize:  DefaultMaxSize,
		rng:      rand.New(rand.NewSource(1)),
		log:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Balloons returns the balloons spawned so far, oldest first.
func (s *Spawner) Balloons() []*Balloon {
	return s.balloons
}

// Step advances the spawn timer and every balloon by dt seconds. While the
// cap is reached the timer stays due, so a spawn happens as soon as room
// is made.
func (s *Spawner) Step(dt float64) {
	if s.wait <= 0 && len(s.balloons) < s.max {
		s.spawn()
		s.wait = s.interval
	}
	if s.wait > 0 {
		s.wait -= dt
	}
	for _, b := range s.balloons {
		b.FixedUpdate(dt)
	}
}

// Remove drops b, for instance after it popped.
func (s *Spawner) Remove(b *Balloon) bool {
	for i, cur := range s.balloons {
		if cur == b {
			s.balloons = append(s.balloons[:i], s.balloons[i+1:]...)
			return true
		}
	}
	return false
}

func (s *Spawner) spawn() {
	p := s.insideUnitCircle()
	offset := Up.MulScalar(s.yOffset).Add(v3.Vec{X: p.X, Z: p.Z}.MulScalar(s.jitter))
	pos := s.anchor.Position().Add(offset)

	b := New(s.newBody(pos), s.anchor)
	b.Lift, b.MaxSize = s.lift, s.maxSize
	b.Active = true
	s.balloons = append(s.balloons, b)
	s.log.Debug("spawned balloon", "count", len(s.balloons), "pos", pos)
}

// insideUnitCircle returns a uniform random point in the unit disc on the
// xz plane.
func (s *Spawner) insideUnitCircle() v3.Vec {
	for {
		x, z := 2*s.rng.Float64()-1, 2*s.rng.Float64()-1
		if x*x+z*z <= 1 {
			return v3.Vec{X: x, Z: z}
		}
	}
}
