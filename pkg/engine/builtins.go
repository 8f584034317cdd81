package engine

import (
	"fmt"
	"strings"

	v2 "github.com/deadsy/sdfx/vec/v2"
	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/drawchute/pkg/stroke"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// preprocessSource rewrites script source before zygomys sees it:
//
//  1. :keyword becomes the string literal "__kw_keyword", so builtins can
//     tell keyword arguments from positional ones.
//  2. ; line comments become // comments, which is what zygomys reads.
//
// String literals and comment text are copied through untouched.
func preprocessSource(source string) string {
	var out strings.Builder
	out.Grow(len(source) + len(source)/4)
	b := []byte(source)
	for i := 0; i < len(b); {
		switch c := b[i]; {
		case c == '"' || c == '`':
			j := skipString(b, i)
			out.Write(b[i:j])
			i = j
		case c == ';':
			out.WriteString("//")
			for i < len(b) && b[i] == ';' {
				i++
			}
			j := i
			for j < len(b) && b[j] != '\n' {
				j++
			}
			out.Write(b[i:j])
			i = j
		case c == ':' && i+1 < len(b) && isLetter(b[i+1]):
			j := i + 1
			for j < len(b) && isKWChar(b[j]) {
				j++
			}
			out.WriteString(`"` + kwPrefix + string(b[i+1:j]) + `"`)
			i = j
		default:
			out.WriteByte(c)
			i++
		}
	}
	return out.String()
}

// skipString returns the index just past the string literal starting at i.
func skipString(b []byte, i int) int {
	quote := b[i]
	j := i + 1
	for j < len(b) && b[j] != quote {
		if quote == '"' && b[j] == '\\' {
			j++
		}
		j++
	}
	if j < len(b) {
		j++
	}
	return min(j, len(b))
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

// ---------------------------------------------------------------------------
// Custom Sexp types
// ---------------------------------------------------------------------------

// sexpVec2 wraps a 2-D point so it can be passed between builtins.
type sexpVec2 struct {
	vec v2.Vec
}

func (v *sexpVec2) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec2 %g %g)", v.vec.X, v.vec.Y)
}
func (v *sexpVec2) Type() *zygo.RegisteredType { return nil }

// sexpStroke is returned by `stroke` so scripts can print what they drew.
type sexpStroke struct {
	name   string
	points int
}

func (s *sexpStroke) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(stroke %q %d points)", s.name, s.points)
}
func (s *sexpStroke) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Argument helpers
// ---------------------------------------------------------------------------

// isKW reports whether s is a preprocessed keyword, returning its name.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok || !strings.HasPrefix(str.S, kwPrefix) {
		return "", false
	}
	return str.S[len(kwPrefix):], true
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			continue
		}
		if i+1 < len(args) {
			result.kw[name] = args[i+1]
			i++
		} else {
			result.kw[name] = zygo.SexpNull
		}
	}
	return result
}

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toVec2 extracts a point from a sexpVec2.
func toVec2(s zygo.Sexp) (v2.Vec, error) {
	if v, ok := s.(*sexpVec2); ok {
		return v.vec, nil
	}
	return v2.Vec{}, fmt.Errorf("expected vec2, got %T (%s)", s, s.SexpString(nil))
}

// toPoints flattens vec2 values and lists or arrays of them.
func toPoints(args []zygo.Sexp) ([]v2.Vec, error) {
	var out []v2.Vec
	for _, a := range args {
		switch v := a.(type) {
		case *zygo.SexpArray:
			pts, err := toPoints(v.Val)
			if err != nil {
				return nil, err
			}
			out = append(out, pts...)
		case *zygo.SexpPair:
			items, err := zygo.ListToArray(v)
			if err != nil {
				return nil, err
			}
			pts, err := toPoints(items)
			if err != nil {
				return nil, err
			}
			out = append(out, pts...)
		default:
			p, err := toVec2(a)
			if err != nil {
				return nil, err
			}
			out = append(out, p)
		}
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// recorder collects the strokes declared by one evaluation.
type recorder struct {
	brush   v2.Vec
	names   map[string]bool
	strokes []stroke.Stroke
}

// registerBuiltins installs the stroke builtins into a zygomys environment.
// Source must be run through preprocessSource first so keywords are
// recognizable.
func registerBuiltins(env *zygo.Zlisp, rec *recorder) {

	// (vec2 0.5 0.25)
	env.AddFunction("vec2", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("vec2 requires exactly 2 arguments, got %d", len(args))
		}
		x, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec2: x: %w", err)
		}
		y, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec2: y: %w", err)
		}
		return &sexpVec2{vec: v2.Vec{X: x, Y: y}}, nil
	})

	// (stroke "name" :brush (vec2 0.02 0.02) (vec2 0 0) (vec2 0 1) ...)
	env.AddFunction("stroke", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		a := parseArgs(args)

		st := stroke.Stroke{Brush: rec.brush}
		rest := a.positional
		if len(rest) > 0 {
			if str, ok := rest[0].(*zygo.SexpStr); ok {
				st.Name = str.S
				rest = rest[1:]
			}
		}
		if st.Name != "" {
			if rec.names[st.Name] {
				return zygo.SexpNull, fmt.Errorf("stroke: duplicate name %q", st.Name)
			}
			rec.names[st.Name] = true
		}

		if v, ok := a.kw["brush"]; ok {
			b, err := toVec2(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("stroke: brush: %w", err)
			}
			st.Brush = b
		}

		pts, err := toPoints(rest)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("stroke: points: %w", err)
		}
		st.Points = pts

		rec.strokes = append(rec.strokes, st)
		return &sexpStroke{name: st.Name, points: len(pts)}, nil
	})
}
