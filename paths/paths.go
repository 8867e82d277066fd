// Package paths provides tools for manipulating 2d polylines: the
// flattened form of SVG path data, one Path per subpath.
package paths

import (
	"github.com/paulmach/orb"
)

// Vec2 is a point in absolute document coordinates.
type Vec2 = orb.Point

// Bounds describes an axis-aligned bounding box.
type Bounds = orb.Bound

// A Path is a contiguous series of line segments (a subpath), from the
// first point in V to the last. A closed path ends with a copy of its
// first point.
type Path struct {
	V      orb.LineString
	Closed bool
}

// Paths is the ordered set of subpaths of one path element.
type Paths struct {
	Bounds Bounds
	P      []Path
}

// NumPoints returns the total number of points across all subpaths.
func (ps *Paths) NumPoints() int {
	n := 0
	for _, p := range ps.P {
		n += len(p.V)
	}
	return n
}

// TightenBounds adjusts the bounds to exactly contain the paths.
// If there are no points, the bounds are set to zero.
func (ps *Paths) TightenBounds() {
	var b Bounds
	i := 0
	for _, p := range ps.P {
		if len(p.V) == 0 {
			continue
		}
		if i == 0 {
			b = p.V.Bound()
		} else {
			b = b.Union(p.V.Bound())
		}
		i++
	}
	ps.Bounds = b
}

// MoveTo starts a new subpath at x.
func (ps *Paths) MoveTo(x Vec2) {
	ps.P = append(ps.P, Path{V: orb.LineString{x}})
}

// LineTo extends the last subpath with an edge that goes to x.
// With no open subpath, a new one is started at the origin.
func (ps *Paths) LineTo(x Vec2) {
	if len(ps.P) == 0 {
		ps.MoveTo(Vec2{})
	}
	p := &ps.P[len(ps.P)-1]
	p.V = append(p.V, x)
}

// Close closes the last subpath by appending a copy of its first point.
func (ps *Paths) Close() {
	if len(ps.P) == 0 {
		return
	}
	p := &ps.P[len(ps.P)-1]
	if p.Closed {
		return
	}
	p.V = append(p.V, p.V[0])
	p.Closed = true
}

// Current returns the last point of the last subpath, and whether
// there is one.
func (ps *Paths) Current() (Vec2, bool) {
	if len(ps.P) == 0 {
		return Vec2{}, false
	}
	p := ps.P[len(ps.P)-1]
	return p.V[len(p.V)-1], true
}
