// Package pathdata reads and writes the SVG path data mini-language
// (the value of a path element's d attribute).
//
// A string is parsed into a Program of typed instructions, which can be
// resolved to absolute coordinates, flattened to polylines for
// simplification, and serialized again at a chosen numeric precision.
package pathdata

import "fmt"

// Kind identifies a drawing command.
type Kind int

// These are the drawing commands of SVG path data.
const (
	MoveTo Kind = iota
	LineTo
	HorizontalLineTo
	VerticalLineTo
	CubicCurveTo
	SmoothCubicCurveTo
	QuadraticCurveTo
	SmoothQuadraticCurveTo
	ArcTo
	ClosePath
)

var kindLetters = [...]byte{
	MoveTo:                 'M',
	LineTo:                 'L',
	HorizontalLineTo:       'H',
	VerticalLineTo:         'V',
	CubicCurveTo:           'C',
	SmoothCubicCurveTo:     'S',
	QuadraticCurveTo:       'Q',
	SmoothQuadraticCurveTo: 'T',
	ArcTo:                  'A',
	ClosePath:              'Z',
}

var kindArity = [...]int{
	MoveTo:                 2,
	LineTo:                 2,
	HorizontalLineTo:       1,
	VerticalLineTo:         1,
	CubicCurveTo:           6,
	SmoothCubicCurveTo:     4,
	QuadraticCurveTo:       4,
	SmoothQuadraticCurveTo: 2,
	ArcTo:                  7,
	ClosePath:              0,
}

// Arity is the number of parameters one instruction of kind k takes.
func (k Kind) Arity() int { return kindArity[k] }

// Letter returns the command letter, upper case for absolute and lower
// case for relative.
func (k Kind) Letter(relative bool) byte {
	c := kindLetters[k]
	if relative {
		c += 'a' - 'A'
	}
	return c
}

// IsCurve reports whether k draws a curve (Bézier or arc).
func (k Kind) IsCurve() bool {
	return k >= CubicCurveTo && k <= ArcTo
}

func (k Kind) String() string {
	switch k {
	case MoveTo:
		return "MoveTo"
	case LineTo:
		return "LineTo"
	case HorizontalLineTo:
		return "HorizontalLineTo"
	case VerticalLineTo:
		return "VerticalLineTo"
	case CubicCurveTo:
		return "CubicCurveTo"
	case SmoothCubicCurveTo:
		return "SmoothCubicCurveTo"
	case QuadraticCurveTo:
		return "QuadraticCurveTo"
	case SmoothQuadraticCurveTo:
		return "SmoothQuadraticCurveTo"
	case ArcTo:
		return "ArcTo"
	case ClosePath:
		return "ClosePath"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// kindOf maps a command letter to its kind.
func kindOf(c byte) (k Kind, relative, ok bool) {
	if c >= 'a' && c <= 'z' {
		relative = true
		c -= 'a' - 'A'
	}
	for i, l := range kindLetters {
		if l == c {
			return Kind(i), relative, true
		}
	}
	return 0, false, false
}

// Instruction is a single drawing command with its parameters.
// len(Params) always equals Kind.Arity().
type Instruction struct {
	Kind     Kind
	Relative bool
	Params   []float64
}

func (in Instruction) String() string {
	return fmt.Sprintf("%c%v", in.Kind.Letter(in.Relative), in.Params)
}

// Program is the instruction sequence of one path attribute.
type Program []Instruction

// HasDrawing reports whether the program draws anything beyond moves.
func (p Program) HasDrawing() bool {
	for _, in := range p {
		if in.Kind != MoveTo {
			return true
		}
	}
	return false
}
