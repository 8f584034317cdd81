package main

import (
	"context"
	"fmt"
	"log"
	"sync"

	v2 "github.com/deadsy/sdfx/vec/v2"
	"github.com/samber/lo"
	"github.com/wailsapp/wails/v2/pkg/runtime"

	"github.com/chazu/drawchute/pkg/balloon"
	"github.com/chazu/drawchute/pkg/config"
	"github.com/chazu/drawchute/pkg/engine"
	"github.com/chazu/drawchute/pkg/mesh"
	"github.com/chazu/drawchute/pkg/ribbon"
	"github.com/chazu/drawchute/pkg/stroke"
	"github.com/chazu/drawchute/pkg/tessellate"
)

// Events emitted to the frontend.
const (
	EventMeshUpdated   = "mesh:updated"
	EventStrokeSegment = "stroke:segment"
	EventStrokeClear   = "stroke:clear"
)

// colorPalette is a default palette used to assign distinct colors to parts.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// App is the Wails backend. It exposes methods to the frontend via bindings.
type App struct {
	ctx  context.Context
	emit func(ctx context.Context, event string, data ...interface{})

	cfg    *config.Config
	engine *engine.Engine

	mu      sync.Mutex // serializes pointer events and evaluations
	builder *ribbon.Builder
	sampler *stroke.Sampler
	drawn   *MeshData // last mesh built from a pointer stroke
}

// MeshData is the JSON-serializable mesh format sent to the frontend.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	PartName string    `json:"partName"`
	Color    string    `json:"color"`
}

// EvalErrorData is a JSON-serializable eval error for the frontend.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is the full result returned to the frontend.
type EvalResult struct {
	Meshes   []MeshData      `json:"meshes"`
	Errors   []EvalErrorData `json:"errors"`
	Warnings []EvalErrorData `json:"warnings"`
}

// StrokeResult is returned when the pointer is released.
type StrokeResult struct {
	Mesh      *MeshData `json:"mesh,omitempty"`
	Discarded bool      `json:"discarded"` // tap or drag below the threshold
	Error     string    `json:"error,omitempty"`
}

// SegmentData is the live feedback for one painted segment, in
// surface-normalized coordinates.
type SegmentData struct {
	From  [2]float64 `json:"from"`
	To    [2]float64 `json:"to"`
	Brush [2]float64 `json:"brush"`
}

// NewApp creates a new App drawing into the volume and surface of cfg.
func NewApp(cfg *config.Config) *App {
	a := &App{
		emit:    runtime.EventsEmit,
		cfg:     cfg,
		engine:  engine.NewEngine(),
		builder: ribbon.NewBuilder(cfg.RibbonVolume()),
	}
	opts := append(cfg.SamplerOptions(),
		stroke.WithSink(stroke.SinkFunc(a.consume)),
		stroke.WithPainter(eventPainter{a}),
	)
	a.sampler = stroke.NewSampler(cfg.StrokeSurface(), opts...)
	return a
}

// startup is called by Wails on app startup. The context is saved
// so we can call Wails runtime methods later if needed.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
}

func (a *App) emitEvent(event string, data interface{}) {
	if a.ctx == nil || a.emit == nil {
		return
	}
	a.emit(a.ctx, event, data)
}

// PointerDown starts a stroke at screen position (x, y).
func (a *App) PointerDown(x, y float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sampler.BeginStroke(v2.Vec{X: x, Y: y})
}

// PointerMove extends the current stroke.
func (a *App) PointerMove(x, y float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sampler.ExtendStroke(v2.Vec{X: x, Y: y})
}

// PointerUp finishes the stroke and builds its ribbon. A failed build
// leaves the previous mesh on screen.
func (a *App) PointerUp() StrokeResult {
	a.mu.Lock()
	defer a.mu.Unlock()

	st, err := a.sampler.EndStroke()
	if st == nil && err == nil {
		return StrokeResult{Discarded: true}
	}
	if err != nil {
		log.Printf("Stroke rejected: %v", err)
		return StrokeResult{Error: err.Error()}
	}
	return StrokeResult{Mesh: a.drawn}
}

// consume is the sampler's sink: it runs with a.mu held.
func (a *App) consume(st stroke.Stroke) error {
	m, err := a.builder.Generate(st.Points, st.Brush)
	if err != nil {
		return err
	}
	out := m.Clone()
	out.PartName = "stroke"
	md := toMeshData(out, 0)
	a.drawn = &md
	a.emitEvent(EventMeshUpdated, md)
	return nil
}

// Mesh returns the last mesh drawn with the pointer, or nil.
func (a *App) Mesh() *MeshData {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.drawn
}

// Evaluate takes stroke-script source and returns mesh data + errors.
// This is the binding called by the frontend editor.
func (a *App) Evaluate(source string) EvalResult {
	a.mu.Lock()
	defer a.mu.Unlock()

	result := EvalResult{
		Meshes:   []MeshData{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}

	// Step 1: Evaluate the script into strokes.
	strokes, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		log.Printf("Evaluate fatal error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}

	// Step 2: Convert eval errors to the frontend format.
	if len(evalErrs) > 0 {
		result.Errors = lo.Map(evalErrs, func(e engine.EvalError, _ int) EvalErrorData {
			return EvalErrorData{Line: e.Line, Col: e.Col, Message: e.Message}
		})
		return result
	}

	// Step 3: Build one ribbon per stroke. A separate builder keeps the
	// pointer-drawn mesh intact. Strokes that produce nothing become
	// warnings.
	var warnings []EvalErrorData
	skip := tessellate.OnSkip(func(_ int, name string, _ error) {
		warnings = append(warnings, EvalErrorData{
			Message: fmt.Sprintf("stroke %s skipped: needs two distinct points", name),
		})
	})
	meshes, err := tessellate.Tessellate(strokes, ribbon.NewBuilder(a.cfg.RibbonVolume()), skip)
	if err != nil {
		log.Printf("Tessellate error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{
			Message: "tessellation failed: " + err.Error(),
		})
		return result
	}
	result.Warnings = append(result.Warnings, warnings...)

	result.Meshes = lo.Map(meshes, func(m *mesh.Mesh, i int) MeshData {
		return toMeshData(m, i)
	})
	return result
}

// balloonCells is the marching cubes resolution of the balloon preview.
const balloonCells = 48

// BalloonMesh returns the balloon shape at scale 1 for the frontend to
// instance. The frontend scales it by each balloon's inflation.
func (a *App) BalloonMesh() (MeshData, error) {
	m, err := balloon.ShapeMesh(balloonCells)
	if err != nil {
		log.Printf("Balloon mesh error: %v", err)
		return MeshData{}, err
	}
	return toMeshData(m, 1), nil
}

func toMeshData(m *mesh.Mesh, i int) MeshData {
	return MeshData{
		Vertices: m.Vertices,
		Normals:  m.Normals,
		Indices:  m.Indices,
		PartName: m.PartName,
		Color:    colorPalette[i%len(colorPalette)],
	}
}

// eventPainter forwards live stroke feedback to the frontend.
type eventPainter struct{ a *App }

func (p eventPainter) PaintSegment(from, to, brush v2.Vec) {
	p.a.emitEvent(EventStrokeSegment, SegmentData{
		From:  [2]float64{from.X, from.Y},
		To:    [2]float64{to.X, to.Y},
		Brush: [2]float64{brush.X, brush.Y},
	})
}

func (p eventPainter) Clear() {
	p.a.emitEvent(EventStrokeClear, nil)
}
