package pathdata

import (
	"math"

	"github.com/tdewolff/parse/v2/strconv"
)

func isSep(c byte) bool {
	return c == ' ' || c == ',' || c == '\n' || c == '\r' || c == '\t' || c == '\f'
}

func isCommand(c byte) bool {
	_, _, ok := kindOf(c)
	return ok
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

type parser struct {
	b    []byte
	pos  int
	prog Program
	errs []error
}

func (p *parser) skipSep() {
	for p.pos < len(p.b) && isSep(p.b[p.pos]) {
		p.pos++
	}
}

// skipRun moves to the next command letter.
func (p *parser) skipRun() {
	for p.pos < len(p.b) && !isCommand(p.b[p.pos]) {
		p.pos++
	}
}

// atRunEnd reports whether the parameters of the current run are done.
func (p *parser) atRunEnd() bool {
	return p.pos >= len(p.b) || isLetter(p.b[p.pos]) && p.b[p.pos] != 'e' && p.b[p.pos] != 'E'
}

func (p *parser) number() (float64, bool) {
	f, n := strconv.ParseFloat(p.b[p.pos:])
	if n == 0 || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	p.pos += n
	return f, true
}

// flag reads an arc flag, which is always a single character and so
// may be packed against the next number.
func (p *parser) flag() (float64, bool) {
	if p.pos >= len(p.b) {
		return 0, false
	}
	switch p.b[p.pos] {
	case '0':
		p.pos++
		return 0, true
	case '1':
		p.pos++
		return 1, true
	}
	return 0, false
}

// params reads the numbers following a command letter.
func (p *parser) params(k Kind) ([]float64, bool) {
	var ps []float64
	for {
		p.skipSep()
		if p.atRunEnd() {
			return ps, true
		}
		var f float64
		var ok bool
		if i := len(ps) % 7; k == ArcTo && (i == 3 || i == 4) {
			f, ok = p.flag()
		} else {
			f, ok = p.number()
		}
		if !ok {
			return ps, false
		}
		ps = append(ps, f)
	}
}

func (p *parser) run() {
	start := p.pos
	c := p.b[p.pos]
	k, rel, ok := kindOf(c)
	if !ok {
		msg := "unexpected character " + string(c)
		if isLetter(c) {
			msg = "unknown command " + string(c)
		} else if c >= '0' && c <= '9' || c == '-' || c == '+' || c == '.' {
			msg = "parameters without a command"
		}
		p.errs = append(p.errs, &ParseError{Offset: start, Msg: msg})
		p.pos++
		p.skipRun()
		return
	}
	p.pos++
	ps, ok := p.params(k)
	if !ok {
		p.errs = append(p.errs, &ParseError{Offset: p.pos, Msg: "bad number in " + string(c) + " command"})
		p.skipRun()
		return
	}
	n := k.Arity()
	if n == 0 {
		if len(ps) != 0 {
			p.errs = append(p.errs, &ArityError{Command: c, Offset: start, Got: len(ps)})
			return
		}
		p.prog = append(p.prog, Instruction{Kind: k, Relative: rel})
		return
	}
	if len(ps) == 0 || len(ps)%n != 0 {
		p.errs = append(p.errs, &ArityError{Command: c, Offset: start, Got: len(ps), Arity: n})
		return
	}
	for i := 0; i < len(ps); i += n {
		in := Instruction{Kind: k, Relative: rel, Params: ps[i : i+n : i+n]}
		// Extra coordinate pairs after a moveto are implicit linetos.
		if k == MoveTo && i > 0 {
			in.Kind = LineTo
		}
		p.prog = append(p.prog, in)
	}
}

// Parse reads path data into a Program. A malformed command run is
// dropped, its error recorded, and parsing resumes at the next command
// letter; so the Program is always the best effort reading of s, and
// errs is empty only if all of s was understood.
func Parse(s string) (prog Program, errs []error) {
	p := &parser{b: []byte(s)}
	for {
		p.skipSep()
		if p.pos >= len(p.b) {
			break
		}
		p.run()
	}
	return p.prog, p.errs
}
