package pathdata

import (
	"math"

	"github.com/paulhankin/tinysvg/paths"
)

// Flatten turns resolved instructions into polylines, one per subpath.
//
// With steps == 0 every curve is replaced by a straight segment to its
// end point. With steps > 0 each curve is sampled with that many
// segments. Either way, curvature is no longer represented in the
// result.
func Flatten(res []Resolved, steps int) *paths.Paths {
	ps := &paths.Paths{}
	cur := -1
	for _, r := range res {
		if r.Kind == MoveTo {
			ps.MoveTo(r.End)
			cur = r.Subpath
			continue
		}
		if r.Subpath != cur {
			ps.MoveTo(r.Start)
			cur = r.Subpath
		}
		switch r.Kind {
		case ClosePath:
			ps.Close()
		case CubicCurveTo, SmoothCubicCurveTo:
			for i := 1; i < steps; i++ {
				ps.LineTo(cubicAt(r.Start, r.Ctrl[0], r.Ctrl[1], r.End, float64(i)/float64(steps)))
			}
			ps.LineTo(r.End)
		case QuadraticCurveTo, SmoothQuadraticCurveTo:
			for i := 1; i < steps; i++ {
				ps.LineTo(quadAt(r.Start, r.Ctrl[0], r.End, float64(i)/float64(steps)))
			}
			ps.LineTo(r.End)
		case ArcTo:
			if steps > 1 {
				for _, v := range arcPoints(r.Start, r.Params, r.End, steps) {
					ps.LineTo(v)
				}
			}
			ps.LineTo(r.End)
		default:
			ps.LineTo(r.End)
		}
	}
	ps.TightenBounds()
	return ps
}

func cubicAt(p0, p1, p2, p3 paths.Vec2, t float64) paths.Vec2 {
	s := 1 - t
	a, b, c, d := s*s*s, 3*s*s*t, 3*s*t*t, t*t*t
	return paths.Vec2{
		a*p0[0] + b*p1[0] + c*p2[0] + d*p3[0],
		a*p0[1] + b*p1[1] + c*p2[1] + d*p3[1],
	}
}

func quadAt(p0, p1, p2 paths.Vec2, t float64) paths.Vec2 {
	s := 1 - t
	a, b, c := s*s, 2*s*t, t*t
	return paths.Vec2{
		a*p0[0] + b*p1[0] + c*p2[0],
		a*p0[1] + b*p1[1] + c*p2[1],
	}
}

func angle(ux, uy, vx, vy float64) float64 {
	return math.Atan2(ux*vy-uy*vx, ux*vx+uy*vy)
}

// arcPoints returns the interior sample points of an elliptical arc
// (parameters as in the A command) from p0 to p1, using the endpoint to
// center conversion of the SVG implementation notes. It returns nil for
// arcs that render as a straight line.
func arcPoints(p0 paths.Vec2, params []float64, p1 paths.Vec2, steps int) []paths.Vec2 {
	rx, ry := math.Abs(params[0]), math.Abs(params[1])
	if rx == 0 || ry == 0 || p0 == p1 {
		return nil
	}
	large, sweep := params[3] != 0, params[4] != 0
	phi := params[2] * math.Pi / 180
	sinPhi, cosPhi := math.Sincos(phi)

	dx2 := (p0[0] - p1[0]) / 2
	dy2 := (p0[1] - p1[1]) / 2
	x1 := cosPhi*dx2 + sinPhi*dy2
	y1 := -sinPhi*dx2 + cosPhi*dy2

	if l := x1*x1/(rx*rx) + y1*y1/(ry*ry); l > 1 {
		l = math.Sqrt(l)
		rx *= l
		ry *= l
	}

	num := rx*rx*ry*ry - rx*rx*y1*y1 - ry*ry*x1*x1
	den := rx*rx*y1*y1 + ry*ry*x1*x1
	coef := math.Sqrt(math.Max(0, num/den))
	if large == sweep {
		coef = -coef
	}
	cxp := coef * rx * y1 / ry
	cyp := -coef * ry * x1 / rx
	cx := cosPhi*cxp - sinPhi*cyp + (p0[0]+p1[0])/2
	cy := sinPhi*cxp + cosPhi*cyp + (p0[1]+p1[1])/2

	ux, uy := (x1-cxp)/rx, (y1-cyp)/ry
	vx, vy := (-x1-cxp)/rx, (-y1-cyp)/ry
	theta := angle(1, 0, ux, uy)
	delta := angle(ux, uy, vx, vy)
	if !sweep && delta > 0 {
		delta -= 2 * math.Pi
	} else if sweep && delta < 0 {
		delta += 2 * math.Pi
	}

	r := make([]paths.Vec2, 0, steps-1)
	for i := 1; i < steps; i++ {
		sinT, cosT := math.Sincos(theta + delta*float64(i)/float64(steps))
		r = append(r, paths.Vec2{
			cx + rx*cosT*cosPhi - ry*sinT*sinPhi,
			cy + rx*cosT*sinPhi + ry*sinT*cosPhi,
		})
	}
	return r
}
