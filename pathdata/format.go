package pathdata

import (
	"math"
	"strconv"

	"github.com/paulhankin/tinysvg/paths"
)

// FormatOptions controls serialization.
type FormatOptions struct {
	// Precision is the number of decimal digits kept. A negative
	// precision writes numbers exactly as they are.
	Precision int

	// CompactFlags packs arc flags against what follows them.
	CompactFlags bool

	// Shorthands writes a curve whose first control point is implied
	// by the previous curve in its smooth form (C to S, Q to T).
	Shorthands bool
}

// Round rounds x to prec decimal digits, halves away from zero.
// A negative prec returns x unchanged.
func Round(x float64, prec int) float64 {
	if prec < 0 || math.IsInf(x, 0) || math.IsNaN(x) {
		return x
	}
	p := math.Pow10(prec)
	if math.Abs(x)*p >= 1<<52 {
		// Already an integer multiple of the requested step.
		return x
	}
	r := math.Round(x*p) / p
	if r == 0 {
		return 0 // no negative zero
	}
	// The quotient can be a few ulps away from the decimal it stands
	// for; going through the text gives the double nearest to that
	// decimal, which rounds to itself.
	r, _ = strconv.ParseFloat(strconv.FormatFloat(r, 'f', prec, 64), 64)
	return r
}

// FormatNumber writes x rounded to prec digits in its shortest form:
// no exponent, no trailing zeros, no trailing decimal point.
func FormatNumber(x float64, prec int) string {
	return string(appendNumber(nil, x, prec))
}

func appendNumber(b []byte, x float64, prec int) []byte {
	x = Round(x, prec)
	if x == 0 {
		return append(b, '0')
	}
	return strconv.AppendFloat(b, x, 'f', -1, 64)
}

type writer struct {
	opt     FormatOptions
	buf     []byte
	scratch [32]byte
	last    byte
	needSep bool
}

func (w *writer) command(c byte) {
	switch c {
	case 'M', 'm', 'Z', 'z':
	default:
		if c == w.last {
			return
		}
	}
	w.buf = append(w.buf, c)
	w.last = c
	w.needSep = false
}

func (w *writer) number(x float64) {
	n := appendNumber(w.scratch[:0], x, w.opt.Precision)
	if w.needSep && n[0] != '-' {
		w.buf = append(w.buf, ' ')
	}
	w.buf = append(w.buf, n...)
	w.needSep = true
}

func (w *writer) flag(x float64) {
	if w.needSep {
		w.buf = append(w.buf, ' ')
	}
	if x != 0 {
		w.buf = append(w.buf, '1')
	} else {
		w.buf = append(w.buf, '0')
	}
	w.needSep = !w.opt.CompactFlags
}

func (w *writer) params(k Kind, ps []float64) {
	for i, x := range ps {
		if k == ArcTo && (i == 3 || i == 4) {
			w.flag(x)
		} else {
			w.number(x)
		}
	}
}

func (w *writer) point(v paths.Vec2) {
	w.number(v[0])
	w.number(v[1])
}

func (w *writer) String() string {
	return string(w.buf)
}

// Serialize writes prog as path data. Instructions keep their kind and
// relativity; numbers are rounded to opt.Precision. Relative
// coordinates are computed from rounded absolute positions, so rounding
// error does not accumulate along the path.
func Serialize(prog Program, opt FormatOptions) string {
	w := &writer{opt: opt}
	res := Resolve(prog)
	prec := opt.Precision

	// cur and start are the rounded positions a reader of the output
	// will compute.
	var cur, start paths.Vec2
	var vals []float64
	pair := func(r Resolved, v paths.Vec2) {
		x, y := Round(v[0], prec), Round(v[1], prec)
		if r.Relative {
			x, y = Round(x-cur[0], prec), Round(y-cur[1], prec)
		}
		vals = append(vals, x, y)
	}

	for i, r := range res {
		kind := r.Kind
		if opt.Shorthands && i > 0 {
			kind = shorthand(res[i-1], r, prec)
		}
		w.command(kind.Letter(r.Relative))
		if prec < 0 {
			ps := r.Params
			if kind != r.Kind {
				ps = ps[2:]
			}
			w.params(kind, ps)
			continue
		}

		vals = vals[:0]
		switch kind {
		case MoveTo, LineTo, SmoothQuadraticCurveTo:
			pair(r, r.End)
		case HorizontalLineTo:
			pair(r, r.End)
			vals = vals[:1]
		case VerticalLineTo:
			pair(r, r.End)
			vals = vals[1:]
		case CubicCurveTo:
			pair(r, r.Ctrl[0])
			pair(r, r.Ctrl[1])
			pair(r, r.End)
		case SmoothCubicCurveTo:
			pair(r, r.Ctrl[1])
			pair(r, r.End)
		case QuadraticCurveTo:
			pair(r, r.Ctrl[0])
			pair(r, r.End)
		case ArcTo:
			vals = append(vals, r.Params[:5]...)
			pair(r, r.End)
		}
		w.params(kind, vals)

		cur = paths.Vec2{Round(r.End[0], prec), Round(r.End[1], prec)}
		if kind == MoveTo {
			start = cur
		} else if kind == ClosePath {
			cur = start
		}
	}
	return w.String()
}

// shorthand returns the kind to write r as, given the instruction
// before it: the smooth form when r's first control point is the
// reflection the smooth form would imply.
func shorthand(prev, r Resolved, prec int) Kind {
	var want paths.Vec2
	switch r.Kind {
	case CubicCurveTo:
		want = r.Start
		if prev.Kind == CubicCurveTo || prev.Kind == SmoothCubicCurveTo {
			want = mirror(prev.Ctrl[1], r.Start)
		}
		if samePoint(want, r.Ctrl[0], prec) {
			return SmoothCubicCurveTo
		}
	case QuadraticCurveTo:
		want = r.Start
		if prev.Kind == QuadraticCurveTo || prev.Kind == SmoothQuadraticCurveTo {
			want = mirror(prev.Ctrl[0], r.Start)
		}
		if samePoint(want, r.Ctrl[0], prec) {
			return SmoothQuadraticCurveTo
		}
	}
	return r.Kind
}

func samePoint(a, b paths.Vec2, prec int) bool {
	if prec < 0 {
		const eps = 1e-9
		return math.Abs(a[0]-b[0]) < eps && math.Abs(a[1]-b[1]) < eps
	}
	return Round(a[0], prec) == Round(b[0], prec) && Round(a[1], prec) == Round(b[1], prec)
}

// SerializePaths writes flattened subpaths as a moveto followed by
// linetos; a closed subpath ends with a closepath instead of a line
// back to its start. All coordinates are absolute.
func SerializePaths(ps *paths.Paths, opt FormatOptions) string {
	w := &writer{opt: opt}
	for _, p := range ps.P {
		v := p.V
		if len(v) == 0 {
			continue
		}
		closed := p.Closed && len(v) > 1 && v[len(v)-1] == v[0]
		if closed {
			v = v[:len(v)-1]
		}
		w.command('M')
		w.point(v[0])
		for _, x := range v[1:] {
			w.command('L')
			w.point(x)
		}
		if closed {
			w.command('Z')
		}
	}
	return w.String()
}
