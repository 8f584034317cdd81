// Package config loads drawchute settings from TOML or YAML files.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/chazu/drawchute/pkg/balloon"
	"github.com/chazu/drawchute/pkg/ribbon"
	"github.com/chazu/drawchute/pkg/stroke"
)

// ErrUnknownFormat is returned for files that are neither TOML nor YAML.
var ErrUnknownFormat = errors.New("config: unknown format")

// Format names accepted by Parse.
const (
	FormatTOML = "toml"
	FormatYAML = "yaml"
)

// Config holds every tunable of the drawing pipeline.
type Config struct {
	Volume  Volume  `toml:"volume" yaml:"volume"`
	Surface Surface `toml:"surface" yaml:"surface"`
	Brush   Brush   `toml:"brush" yaml:"brush"`
	Balloon Balloon `toml:"balloon" yaml:"balloon"`
}

// Volume is the target box ribbons are scaled into.
type Volume struct {
	Center  [3]float64 `toml:"center" yaml:"center"`
	Extents [3]float64 `toml:"extents" yaml:"extents"` // half-size per axis
}

// Surface describes the on-screen drawing area and how it is sampled.
type Surface struct {
	Origin          [2]float64 `toml:"origin" yaml:"origin"`
	Size            [2]float64 `toml:"size" yaml:"size"` // pixels
	MinDragDistance float64    `toml:"min_drag_distance" yaml:"min_drag_distance"`
	Clamp           bool       `toml:"clamp" yaml:"clamp"`
}

// Brush sets the brush width.
type Brush struct {
	Pixels int `toml:"pixels" yaml:"pixels"`
}

// Balloon tunes the balloon spawner.
type Balloon struct {
	Interval float64 `toml:"interval" yaml:"interval"`
	Max      int     `toml:"max" yaml:"max"`
	YOffset  float64 `toml:"y_offset" yaml:"y_offset"`
	Jitter   float64 `toml:"jitter" yaml:"jitter"`
	Lift     float64 `toml:"lift" yaml:"lift"`
	MaxSize  float64 `toml:"max_size" yaml:"max_size"`
	Seed     int64   `toml:"seed" yaml:"seed"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Volume: Volume{Extents: [3]float64{1, 1, 1}},
		Surface: Surface{
			Size:            [2]float64{512, 512},
			MinDragDistance: stroke.DefaultMinDragDistance,
		},
		Brush: Brush{Pixels: stroke.DefaultBrushPixels},
		Balloon: Balloon{
			Interval: balloon.DefaultInterval,
			Max:      balloon.DefaultMax,
			YOffset:  balloon.DefaultYOffset,
			Jitter:   balloon.DefaultJitter,
			Lift:     balloon.DefaultLift,
			MaxSize:  balloon.DefaultMaxSize,
			Seed:     1,
		},
	}
}

// Load reads the file at path, picking the format from its extension.
// Fields missing from the file keep their defaults.
func Load(path string) (*Config, error) {
	format, err := formatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes data in the named format over the defaults and validates
// the result.
func Parse(data []byte, format string) (*Config, error) {
	cfg := Default()
	var err error
	switch format {
	case FormatTOML:
		err = toml.Unmarshal(data, cfg)
	case FormatYAML:
		err = yaml.Unmarshal(data, cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func formatFor(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

// Validate reports the first field holding an unusable value.
func (c *Config) Validate() error {
	if err := c.checkFinite(); err != nil {
		return err
	}
	for i, e := range c.Volume.Extents {
		if e <= 0 {
			return fmt.Errorf("volume.extents[%d] must be positive, got %g", i, e)
		}
	}
	for i, s := range c.Surface.Size {
		if s <= 0 {
			return fmt.Errorf("surface.size[%d] must be positive, got %g", i, s)
		}
	}
	if c.Surface.MinDragDistance < 0 {
		return fmt.Errorf("surface.min_drag_distance must not be negative, got %g", c.Surface.MinDragDistance)
	}
	if c.Brush.Pixels <= 0 {
		return fmt.Errorf("brush.pixels must be positive, got %d", c.Brush.Pixels)
	}
	b := c.Balloon
	switch {
	case b.Interval < 0:
		return fmt.Errorf("balloon.interval must not be negative, got %g", b.Interval)
	case b.Max < 0:
		return fmt.Errorf("balloon.max must not be negative, got %d", b.Max)
	case b.MaxSize <= 0:
		return fmt.Errorf("balloon.max_size must be positive, got %g", b.MaxSize)
	}
	return nil
}

type namedValue struct {
	name string
	v    float64
}

// checkFinite rejects NaN and infinities, which both decoders accept.
func (c *Config) checkFinite() error {
	fields := []namedValue{
		{"surface.min_drag_distance", c.Surface.MinDragDistance},
		{"balloon.interval", c.Balloon.Interval},
		{"balloon.y_offset", c.Balloon.YOffset},
		{"balloon.jitter", c.Balloon.Jitter},
		{"balloon.lift", c.Balloon.Lift},
		{"balloon.max_size", c.Balloon.MaxSize},
	}
	for i := range 3 {
		fields = append(fields,
			namedValue{fmt.Sprintf("volume.center[%d]", i), c.Volume.Center[i]},
			namedValue{fmt.Sprintf("volume.extents[%d]", i), c.Volume.Extents[i]},
		)
	}
	for i := range 2 {
		fields = append(fields,
			namedValue{fmt.Sprintf("surface.origin[%d]", i), c.Surface.Origin[i]},
			namedValue{fmt.Sprintf("surface.size[%d]", i), c.Surface.Size[i]},
		)
	}
	for _, f := range fields {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%s must be finite, got %g", f.name, f.v)
		}
	}
	return nil
}

// RibbonVolume converts the volume section for ribbon.NewBuilder.
func (c *Config) RibbonVolume() ribbon.Volume {
	ce, ex := c.Volume.Center, c.Volume.Extents
	return ribbon.Volume{
		Center:  v3.Vec{X: ce[0], Y: ce[1], Z: ce[2]},
		Extents: v3.Vec{X: ex[0], Y: ex[1], Z: ex[2]},
	}
}

// StrokeSurface converts the surface section for stroke.NewSampler.
func (c *Config) StrokeSurface() stroke.Surface {
	o, s := c.Surface.Origin, c.Surface.Size
	return stroke.Surface{
		Origin: v2.Vec{X: o[0], Y: o[1]},
		Size:   v2.Vec{X: s[0], Y: s[1]},
	}
}

// SamplerOptions returns the sampler options implied by the config.
func (c *Config) SamplerOptions() []stroke.Option {
	return []stroke.Option{
		stroke.WithMinDragDistance(c.Surface.MinDragDistance),
		stroke.WithBrushPixels(c.Brush.Pixels),
		stroke.WithClamp(c.Surface.Clamp),
	}
}

// SpawnerOptions returns the balloon spawner options implied by the config.
func (c *Config) SpawnerOptions() []balloon.SpawnerOption {
	b := c.Balloon
	return []balloon.SpawnerOption{
		balloon.WithInterval(b.Interval),
		balloon.WithMax(b.Max),
		balloon.WithYOffset(b.YOffset),
		balloon.WithJitter(b.Jitter),
		balloon.WithTuning(b.Lift, b.MaxSize),
		balloon.WithSeed(b.Seed),
	}
}
