package paths

import (
	"math"

	"github.com/paulmach/orb/planar"
)

// vec2linedist returns the perpendicular distance from v to the
// infinite line through s and e. If s == e it is the distance from v to s.
func vec2linedist(v, s, e Vec2) float64 {
	dx := e[0] - s[0]
	dy := e[1] - s[1]
	l := math.Hypot(dx, dy)
	if l == 0 {
		return planar.Distance(v, s)
	}
	return math.Abs(dx*(v[1]-s[1])-dy*(v[0]-s[0])) / l
}

type span struct {
	lo, hi int
}

// SimplifyPoints is the Douglas-Peucker reduction of v. Every removed
// point lies within tol of the line through the two retained points
// that enclose it. The first and last points are always kept.
//
// The traversal uses an explicit stack, so arbitrarily long inputs
// don't grow the call stack.
func SimplifyPoints(v []Vec2, tol float64) []Vec2 {
	if len(v) <= 2 {
		return append([]Vec2(nil), v...)
	}
	keep := make([]bool, len(v))
	keep[0] = true
	keep[len(v)-1] = true

	stack := []span{{0, len(v) - 1}}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if s.hi-s.lo < 2 {
			continue
		}
		worst := -1
		worstD := 0.0
		for i := s.lo + 1; i < s.hi; i++ {
			d := vec2linedist(v[i], v[s.lo], v[s.hi])
			if worst < 0 || d > worstD {
				worst = i
				worstD = d
			}
		}
		if worstD <= tol {
			continue
		}
		keep[worst] = true
		stack = append(stack, span{worst, s.hi}, span{s.lo, worst})
	}

	r := make([]Vec2, 0, len(v))
	for i, k := range keep {
		if k {
			r = append(r, v[i])
		}
	}
	return r
}

// Simplify removes points from paths, with the guarantee that
// all removed points are within the given tolerance (distance)
// from the new path. It returns the point counts before and after.
func (ps *Paths) Simplify(tol float64) (before, after int) {
	for i, p := range ps.P {
		before += len(p.V)
		ps.P[i].V = SimplifyPoints(p.V, tol)
		after += len(ps.P[i].V)
	}
	return before, after
}
