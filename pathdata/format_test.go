package pathdata

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paulhankin/tinysvg/paths"
)

func TestRound(t *testing.T) {
	cases := []struct {
		x    float64
		prec int
		want float64
	}{
		{2.5, 0, 3},
		{-2.5, 0, -3},
		{0.125, 2, 0.13},
		{-0.125, 2, -0.13},
		{1.2346, 3, 1.235},
		{6.789, 0, 7},
		{-0.4, 0, 0},
		{3.0001, 0, 3},
		{1e300, 2, 1e300},
		{1.23456, -1, 1.23456},
	}
	for _, c := range cases {
		got := Round(c.x, c.prec)
		assert.Equal(t, c.want, got, "Round(%v, %d)", c.x, c.prec)
		assert.False(t, math.Signbit(got) && got == 0, "Round(%v, %d) is negative zero", c.x, c.prec)
	}
}

func TestRoundIdempotent(t *testing.T) {
	once := Round(-4.383595693415783e+06, 9)
	assert.Equal(t, once, Round(once, 9))

	r := rand.New(rand.NewSource(7))
	for i := 0; i < 10000; i++ {
		x := (r.Float64() - 0.5) * math.Pow10(r.Intn(8))
		p := r.Intn(11)
		once := Round(x, p)
		require.Equal(t, once, Round(once, p), "x=%v p=%d", x, p)
	}
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "1.5", FormatNumber(1.50, 2))
	assert.Equal(t, "0.5", FormatNumber(0.5, 3))
	assert.Equal(t, "0", FormatNumber(-0.0001, 2))
	assert.Equal(t, "-12", FormatNumber(-12, 0))
	assert.Equal(t, "100", FormatNumber(99.999, 2))
	assert.Equal(t, "0.0000001", FormatNumber(1e-7, -1))
}

type serializeTestCase struct {
	desc string
	d    string
	opt  FormatOptions
	want string
}

func TestSerialize(t *testing.T) {
	full := FormatOptions{Precision: -1}
	cases := []serializeTestCase{
		{
			desc: "round to integers",
			d:    "M1.2345,6.789 L2.5,3.0001",
			opt:  FormatOptions{Precision: 0},
			want: "M1 7L3 3",
		},
		{
			desc: "full precision",
			d:    "M 1.25 , 2 L 3 4 L 5 6 z",
			opt:  full,
			want: "M1.25 2L3 4 5 6z",
		},
		{
			desc: "minus signs need no separator",
			d:    "M-1 -2 L -3 4",
			opt:  full,
			want: "M-1-2L-3 4",
		},
		{
			desc: "moveto letters are always written",
			d:    "M1 1 M2 2 Z Z",
			opt:  full,
			want: "M1 1M2 2ZZ",
		},
		{
			desc: "relative rounding does not drift",
			d:    "m0.4 0 l0.4 0 l0.4 0",
			opt:  FormatOptions{Precision: 0},
			want: "m0 0l1 0 0 0",
		},
		{
			desc: "relative after closepath",
			d:    "m1.4 1.4 h2 z l1 1",
			opt:  FormatOptions{Precision: 0},
			want: "m1 1h2zl1 1",
		},
		{
			desc: "arc flags spaced",
			d:    "M0 0 A5 5 0 0 1 5 5",
			opt:  FormatOptions{Precision: 2},
			want: "M0 0A5 5 0 0 1 5 5",
		},
		{
			desc: "arc flags packed",
			d:    "M0 0 A5 5 0 0 1 5 5",
			opt:  FormatOptions{Precision: 2, CompactFlags: true},
			want: "M0 0A5 5 0 015 5",
		},
		{
			desc: "arc flags packed before a negative number",
			d:    "M0 0 a5 5 0 1 0 -5 5",
			opt:  FormatOptions{Precision: -1, CompactFlags: true},
			want: "M0 0a5 5 0 10-5 5",
		},
		{
			desc: "cubic shorthands",
			d:    "M0 0C0 0 1 1 2 2C3 3 4 4 5 5",
			opt:  FormatOptions{Precision: 2, Shorthands: true},
			want: "M0 0S1 1 2 2 4 4 5 5",
		},
		{
			desc: "relative quadratic shorthand",
			d:    "M0 0q1 1 2 0q1 -1 2 0",
			opt:  FormatOptions{Precision: -1, Shorthands: true},
			want: "M0 0q1 1 2 0t2 0",
		},
		{
			desc: "curves kept without shorthands",
			d:    "M0 0C0 0 1 1 2 2",
			opt:  FormatOptions{Precision: 2},
			want: "M0 0C0 0 1 1 2 2",
		},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			got := Serialize(mustParse(t, c.d), c.opt)
			assert.Equal(t, c.want, got)
		})
	}
}

func TestSerializePaths(t *testing.T) {
	ps := &paths.Paths{P: []paths.Path{
		{V: []paths.Vec2{{0, 0}, {3, 5}, {4, 0}}},
		{V: []paths.Vec2{{1.004, 1}, {2, -1}, {1.004, 1}}, Closed: true},
		{V: []paths.Vec2{{7, 7}}},
	}}
	got := SerializePaths(ps, FormatOptions{Precision: 2})
	assert.Equal(t, "M0 0L3 5 4 0M1 1L2-1ZM7 7", got)
}

func randomProgram(r *rand.Rand) string {
	var b strings.Builder
	num := func() string {
		return fmt.Sprintf("%.6f", (r.Float64()-0.5)*200)
	}
	fmt.Fprintf(&b, "M%s %s", num(), num())
	for i := 0; i < 1+r.Intn(20); i++ {
		k := Kind(1 + r.Intn(int(ClosePath)))
		letter := string(k.Letter(r.Intn(2) == 0))
		switch k {
		case ClosePath:
			b.WriteString(letter)
		case ArcTo:
			fmt.Fprintf(&b, "%s%s %s %s %d %d %s %s", letter, num(), num(), num(), r.Intn(2), r.Intn(2), num(), num())
		default:
			b.WriteString(letter)
			for j := 0; j < k.Arity(); j++ {
				b.WriteString(" " + num())
			}
		}
	}
	return b.String()
}

func TestSerializeRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	for trial := 0; trial < 500; trial++ {
		d := randomProgram(r)
		prog := mustParse(t, d)
		for _, prec := range []int{-1, 0, 1, 3} {
			opt := FormatOptions{Precision: prec, CompactFlags: trial%2 == 0}
			out := Serialize(prog, opt)
			again, errs := Parse(out)
			require.Empty(t, errs, "%q serialized as %q", d, out)
			require.Len(t, again, len(prog), "%q serialized as %q", d, out)

			want := Resolve(prog)
			got := Resolve(again)
			for i := range prog {
				require.Equal(t, prog[i].Kind, again[i].Kind)
				require.Equal(t, prog[i].Relative, again[i].Relative)
				if !prog[i].Relative {
					for j, x := range prog[i].Params {
						require.InDelta(t, Round(x, prec), again[i].Params[j], 1e-9, "%q serialized as %q", d, out)
					}
				}
				tol := 1e-9
				if prec >= 0 {
					tol += math.Pow10(-prec) / 2
				}
				require.InDelta(t, want[i].End[0], got[i].End[0], tol, "%q serialized as %q", d, out)
				require.InDelta(t, want[i].End[1], got[i].End[1], tol, "%q serialized as %q", d, out)
			}
			if prec >= 0 {
				// Serializing is stable once rounded.
				require.Equal(t, out, Serialize(again, opt))
			}
		}
	}
}
