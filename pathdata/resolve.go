package pathdata

import (
	"github.com/paulhankin/tinysvg/paths"
)

// Resolved is an instruction annotated with the absolute points it
// touches.
type Resolved struct {
	Instruction

	// Start is the current point before the instruction, End after it.
	Start, End paths.Vec2

	// Ctrl holds the absolute Bézier control points: two for cubic
	// curves and one for quadratic curves. For the smooth forms the
	// first one is the reflected point.
	Ctrl []paths.Vec2

	// Subpath numbers the subpath the instruction belongs to, counting
	// from zero.
	Subpath int
}

func mirror(ctrl, about paths.Vec2) paths.Vec2 {
	return paths.Vec2{2*about[0] - ctrl[0], 2*about[1] - ctrl[1]}
}

// Resolve walks prog tracking the current point and subpath start, and
// returns each instruction with its absolute coordinates. A program
// that does not begin with a moveto starts at the origin.
func Resolve(prog Program) []Resolved {
	res := make([]Resolved, 0, len(prog))
	var cur, start paths.Vec2
	sub := -1
	closed := false
	var prev *Resolved

	pt := func(in Instruction, i int) paths.Vec2 {
		v := paths.Vec2{in.Params[i], in.Params[i+1]}
		if in.Relative {
			v[0] += cur[0]
			v[1] += cur[1]
		}
		return v
	}

	for _, in := range prog {
		r := Resolved{Instruction: in, Start: cur}
		if in.Kind == MoveTo {
			sub++
			closed = false
		} else if sub < 0 || closed {
			// Drawing after a closepath starts a new subpath at the
			// same point.
			if in.Kind != ClosePath || sub < 0 {
				sub++
				closed = false
			}
		}
		r.Subpath = sub

		switch in.Kind {
		case MoveTo:
			r.End = pt(in, 0)
			start = r.End
		case LineTo:
			r.End = pt(in, 0)
		case HorizontalLineTo:
			r.End = cur
			r.End[0] = in.Params[0]
			if in.Relative {
				r.End[0] += cur[0]
			}
		case VerticalLineTo:
			r.End = cur
			r.End[1] = in.Params[0]
			if in.Relative {
				r.End[1] += cur[1]
			}
		case CubicCurveTo:
			r.Ctrl = []paths.Vec2{pt(in, 0), pt(in, 2)}
			r.End = pt(in, 4)
		case SmoothCubicCurveTo:
			c1 := cur
			if prev != nil && (prev.Kind == CubicCurveTo || prev.Kind == SmoothCubicCurveTo) {
				c1 = mirror(prev.Ctrl[1], cur)
			}
			r.Ctrl = []paths.Vec2{c1, pt(in, 0)}
			r.End = pt(in, 2)
		case QuadraticCurveTo:
			r.Ctrl = []paths.Vec2{pt(in, 0)}
			r.End = pt(in, 2)
		case SmoothQuadraticCurveTo:
			c := cur
			if prev != nil && (prev.Kind == QuadraticCurveTo || prev.Kind == SmoothQuadraticCurveTo) {
				c = mirror(prev.Ctrl[0], cur)
			}
			r.Ctrl = []paths.Vec2{c}
			r.End = pt(in, 0)
		case ArcTo:
			r.End = pt(in, 5)
		case ClosePath:
			r.End = start
			closed = true
		}
		cur = r.End
		res = append(res, r)
		prev = &res[len(res)-1]
	}
	return res
}
