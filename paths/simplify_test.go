package paths

import (
	"math"
	"math/rand"
	"reflect"
	"testing"
)

type simplifyTestCase struct {
	desc string
	path Path
	tol  float64
	want []Path
}

func p(args ...float64) Path {
	if len(args)%2 != 0 {
		panic("p helper needs an even number of args")
	}
	path := Path{}
	for i := 0; i < len(args); i += 2 {
		path.V = append(path.V, Vec2{args[i], args[i+1]})
	}
	return path
}

func TestSimplify(t *testing.T) {
	cases := []simplifyTestCase{
		{
			desc: "line with slightly displaced midpoint, high tolerance",
			path: p(-1, 0, 0, 0.25, 1.0, 0),
			tol:  0.5,
			want: []Path{p(-1, 0, 1, 0)},
		},
		{
			desc: "line with slightly displaced midpoint, low tolerance",
			path: p(-1, 0, 0, 0.5, 1.0, 0),
			tol:  0.2,
			want: []Path{p(-1, 0, 0, 0.5, 1.0, 0)},
		},
		{
			desc: "square with slightly displaced midpoints, high tolerance",
			path: p(-1, -1, 0, -1.1, 1, -1, 0.9, 0, 1, 1, 0, 1.1, -1, 1, -0.9, 0, -1, -1),
			tol:  0.2,
			want: []Path{p(-1, -1, 1, -1, 1, 1, -1, 1, -1, -1)},
		},
		{
			desc: "outlier survives, near-collinear point dropped",
			path: p(0, 0, 1, 0.01, 2, 0, 3, 5, 4, 0),
			tol:  0.5,
			want: []Path{p(0, 0, 2, 0, 3, 5, 4, 0)},
		},
		{
			desc: "distance is measured to the infinite line",
			path: p(0, 0, -5, 0.1, 1, 0),
			tol:  0.5,
			want: []Path{p(0, 0, 1, 0)},
		},
		{
			desc: "degenerate segment measures distance from the start",
			path: p(0, 0, 0.3, 0.4, 0, 0),
			tol:  0.4,
			want: []Path{p(0, 0, 0.3, 0.4, 0, 0)},
		},
		{
			desc: "two points unchanged",
			path: p(0, 0, 10, 10),
			tol:  100,
			want: []Path{p(0, 0, 10, 10)},
		},
		{
			desc: "single point unchanged",
			path: p(3, 4),
			tol:  1,
			want: []Path{p(3, 4)},
		},
	}
	for _, c := range cases {
		ps := &Paths{
			P: []Path{{V: append([]Vec2{}, c.path.V...)}},
		}
		ps.Simplify(c.tol)
		if !reflect.DeepEqual(ps.P, c.want) {
			t.Errorf("%s: Simplify(%v).P = %v, want %v", c.desc, c.tol, ps.P, c.want)
		}
	}
}

func randomWalk(r *rand.Rand, n int) []Vec2 {
	v := make([]Vec2, n)
	for i := 1; i < n; i++ {
		v[i] = Vec2{v[i-1][0] + r.Float64(), v[i-1][1] + r.Float64()*2 - 1}
	}
	return v
}

func TestSimplifyProperties(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	tols := []float64{0.01, 0.1, 0.5, 1, 2, 5, 10}
	for trial := 0; trial < 50; trial++ {
		v := randomWalk(r, 2+r.Intn(200))
		prev := math.MaxInt
		for _, tol := range tols {
			got := SimplifyPoints(v, tol)
			if got[0] != v[0] || got[len(got)-1] != v[len(v)-1] {
				t.Fatalf("trial %d tol %v: endpoints not kept", trial, tol)
			}
			if len(got) > len(v) {
				t.Fatalf("trial %d tol %v: output grew from %d to %d", trial, tol, len(v), len(got))
			}
			if len(got) > prev {
				t.Fatalf("trial %d tol %v: %d points, more than %d at a smaller tolerance", trial, tol, len(got), prev)
			}
			prev = len(got)
			again := SimplifyPoints(got, tol)
			if !reflect.DeepEqual(again, got) {
				t.Fatalf("trial %d tol %v: not idempotent: %v then %v", trial, tol, got, again)
			}
		}
	}
}

func TestSimplifyLongInput(t *testing.T) {
	const n = 100000
	v := make([]Vec2, n)
	for i := range v {
		x := float64(i)
		v[i] = Vec2{x, x * x / n}
	}
	got := SimplifyPoints(v, 0.01)
	if got[0] != v[0] || got[len(got)-1] != v[n-1] {
		t.Errorf("endpoints not kept")
	}
}

func TestTightenBounds(t *testing.T) {
	ps := &Paths{P: []Path{p(1, 2, 3, -4), p(-1, 0)}}
	ps.TightenBounds()
	want := Bounds{Min: Vec2{-1, -4}, Max: Vec2{3, 2}}
	if ps.Bounds != want {
		t.Errorf("TightenBounds() = %v, want %v", ps.Bounds, want)
	}
	if n := ps.NumPoints(); n != 3 {
		t.Errorf("NumPoints() = %d, want 3", n)
	}
}

func TestBuild(t *testing.T) {
	ps := &Paths{}
	ps.MoveTo(Vec2{0, 0})
	ps.LineTo(Vec2{1, 0})
	ps.LineTo(Vec2{1, 1})
	ps.Close()
	ps.Close()
	ps.MoveTo(Vec2{5, 5})
	want := []Path{
		{V: []Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 0}}, Closed: true},
		{V: []Vec2{{5, 5}}},
	}
	if !reflect.DeepEqual(ps.P, want) {
		t.Errorf("built %v, want %v", ps.P, want)
	}
	cur, ok := ps.Current()
	if !ok || cur != (Vec2{5, 5}) {
		t.Errorf("Current() = %v, %v", cur, ok)
	}
}
