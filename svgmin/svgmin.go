// Package svgmin shrinks SVG documents. It cleans up the document
// structure, rewrites the path data of every path element (rounding,
// and optionally flattening and simplifying it), and hands the result
// to a generic minifier.
//
// Optimize never fails outright: when something goes wrong it falls
// back to a less optimized document, at worst the input itself.
package svgmin

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"

	"github.com/paulhankin/tinysvg/minifier"
	"github.com/paulhankin/tinysvg/pathdata"
	"github.com/paulhankin/tinysvg/rewrite"
	"github.com/paulhankin/tinysvg/svgdoc"
)

// Size compares input and output sizes in bytes. Reduction is the
// percentage saved, rounded to the nearest integer.
type Size struct {
	Original  int `json:"original"`
	Optimized int `json:"optimized"`
	Reduction int `json:"reduction"`
}

// Result is the outcome of optimizing one document.
type Result struct {
	Data        string       `json:"data"`
	Size        Size         `json:"size"`
	Diagnostics *Diagnostics `json:"diagnostics,omitempty"`
}

// Diagnostics counts the work done on a document.
type Diagnostics struct {
	PathsRewritten     int           `json:"pathsRewritten"`
	PathsSkipped       int           `json:"pathsSkipped"`
	InstructionsParsed int           `json:"instructionsParsed"`
	RunsDropped        int           `json:"runsDropped"`
	PointsBefore       int           `json:"pointsBefore"`
	PointsAfter        int           `json:"pointsAfter"`
	Rewrite            rewrite.Stats `json:"rewrite"`
	Errors             []string      `json:"errors,omitempty"`
}

// Optimizer is the generic minification pass. It gets the document and
// the names of the passes to run.
type Optimizer interface {
	Minify(doc string, plugins []string) (string, error)
}

// Engine runs the optimization pipeline. An Engine holds no state
// between documents and may be used concurrently.
type Engine struct {
	// Optimizer is the final generic pass. If nil, it is skipped.
	Optimizer Optimizer
	// Logger receives debug and warning records. If nil, nothing is
	// logged.
	Logger *slog.Logger
}

// New returns an Engine whose generic pass is the tdewolff minifier.
func New(logger *slog.Logger) *Engine {
	return &Engine{Optimizer: minifier.New(), Logger: logger}
}

var std = New(nil)

// Optimize optimizes doc with the default engine.
func Optimize(doc string, opts Options) (Result, error) {
	return std.Optimize(doc, opts)
}

func reduction(original, optimized int) int {
	if original == 0 {
		return 0
	}
	return int(math.Floor((1-float64(optimized)/float64(original))*100 + 0.5))
}

func result(original, optimized string) Result {
	return Result{
		Data: optimized,
		Size: Size{
			Original:  len(original),
			Optimized: len(optimized),
			Reduction: reduction(len(original), len(optimized)),
		},
	}
}

func (e *Engine) log(level slog.Level, msg string, args ...any) {
	if e.Logger == nil {
		return
	}
	e.Logger.Log(context.Background(), level, msg, args...)
}

// Optimize runs the pipeline on doc. The returned Result is always
// usable. A non-nil error says which fallback was taken: EmptyInputError
// for an empty document, *CollaboratorError when the generic pass
// failed (or lost path data it was not allowed to change) and its input
// was kept, and any other error when the document
// couldn't be processed and is returned unchanged.
func (e *Engine) Optimize(doc string, opts Options) (res Result, err error) {
	opts = opts.Normalize()
	var diag Diagnostics
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("svgmin: internal error: %v", r)
			e.log(slog.LevelError, "optimize failed", "error", err)
			res = result(doc, doc)
		}
		if err != nil {
			diag.Errors = append(diag.Errors, err.Error())
		}
		if opts.Diagnostics {
			res.Diagnostics = &diag
		}
	}()

	if doc == "" {
		return result(doc, doc), EmptyInputError{}
	}
	tree, err := svgdoc.Parse(doc)
	if err != nil {
		e.log(slog.LevelWarn, "document not parsed, returning it unchanged", "error", err)
		return result(doc, doc), err
	}

	rules := opts.Rules()
	diag.Rewrite = rewrite.Apply(tree, rules)
	skipped := e.rewritePaths(tree, opts, &diag)
	diag.Rewrite.Add(rewrite.ApplyPaths(tree, rules))
	kept := protect(tree, skipped)
	marked := tree.String()

	out := marked
	if e.Optimizer != nil {
		minified, merr := e.minify(marked, opts.Plugins())
		if merr != nil {
			err = &CollaboratorError{Err: merr}
			e.log(slog.LevelWarn, "optimizer failed, keeping its input", "error", merr)
		} else {
			out = minified
		}
	}
	final, rerr := restore(rewrite.Normalize(out), kept)
	if rerr != nil && out != marked {
		err = &CollaboratorError{Err: rerr}
		e.log(slog.LevelWarn, "optimizer lost unchanged path data, keeping its input", "error", rerr)
		final, rerr = restore(rewrite.Normalize(marked), kept)
	}
	if rerr != nil {
		return result(doc, doc), rerr
	}
	e.log(slog.LevelDebug, "optimized",
		"original", len(doc), "optimized", len(final),
		"pathsRewritten", diag.PathsRewritten, "pathsSkipped", diag.PathsSkipped,
		"pointsBefore", diag.PointsBefore, "pointsAfter", diag.PointsAfter)
	return result(doc, final), err
}

// keepAttr stands in for the d attribute of a path whose data couldn't
// be parsed while the generic pass and whitespace normalization run, so
// neither can touch that text. Its value indexes the hidden data.
const keepAttr = "data-tinysvg-keep"

// protect renames the d attribute of each skipped element to keepAttr
// and returns the hidden values.
func protect(tree *svgdoc.Node, skipped map[*svgdoc.Node]bool) []string {
	if len(skipped) == 0 {
		return nil
	}
	var kept []string
	tree.Walk(func(n *svgdoc.Node) bool {
		if !skipped[n] {
			return true
		}
		for i, a := range n.Attrs {
			if a.Name == "d" {
				n.Attrs[i] = svgdoc.Attr{Name: keepAttr, Value: strconv.Itoa(len(kept))}
				kept = append(kept, a.Value)
				break
			}
		}
		return true
	})
	return kept
}

// restore puts the hidden path data back in doc. It fails if any of it
// went missing.
func restore(doc string, kept []string) (string, error) {
	if len(kept) == 0 {
		return doc, nil
	}
	tree, err := svgdoc.Parse(doc)
	if err != nil {
		return "", err
	}
	found := 0
	tree.Walk(func(n *svgdoc.Node) bool {
		for i, a := range n.Attrs {
			if a.Name != keepAttr {
				continue
			}
			k, err := strconv.Atoi(a.Value)
			if err != nil || k < 0 || k >= len(kept) {
				break
			}
			n.Attrs[i] = svgdoc.Attr{Name: "d", Value: kept[k]}
			found++
			break
		}
		return true
	})
	if found != len(kept) {
		return "", fmt.Errorf("svgmin: %d of %d unchanged paths missing", len(kept)-found, len(kept))
	}
	return tree.String(), nil
}

// minify runs the generic pass, turning a panic into an error.
func (e *Engine) minify(doc string, plugins []string) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = "", fmt.Errorf("panic: %v", r)
		}
	}()
	return e.Optimizer.Minify(doc, plugins)
}

// hasPathData reports whether the element's d attribute is path data.
func hasPathData(n *svgdoc.Node) bool {
	switch n.Name {
	case "path", "glyph", "missing-glyph":
		return true
	}
	return false
}

// rewritePaths rewrites the path data of every path element in
// document order. Each path is independent: one that can't be
// processed keeps its text, and is returned in the skipped set.
func (e *Engine) rewritePaths(tree *svgdoc.Node, opts Options, diag *Diagnostics) map[*svgdoc.Node]bool {
	skipped := map[*svgdoc.Node]bool{}
	index := 0
	tree.Walk(func(n *svgdoc.Node) bool {
		if n.Type != svgdoc.ElementNode || !hasPathData(n) {
			return true
		}
		d, ok := n.Attr("d")
		if !ok {
			return true
		}
		index++
		out, err := e.rewritePath(d, opts, diag)
		if err != nil {
			diag.PathsSkipped++
			diag.Errors = append(diag.Errors, fmt.Sprintf("path %d: %v", index, err))
			e.log(slog.LevelDebug, "path left unchanged", "path", index, "error", err)
			skipped[n] = true
			return true
		}
		if out != d {
			n.SetAttr("d", out)
		}
		diag.PathsRewritten++
		return true
	})
	return skipped
}

// rewritePath returns the new path data for d. Any parse error leaves
// the path alone, so the error is returned instead.
func (e *Engine) rewritePath(d string, opts Options, diag *Diagnostics) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = d, fmt.Errorf("internal error: %v", r)
		}
	}()

	prog, errs := pathdata.Parse(d)
	diag.InstructionsParsed += len(prog)
	diag.RunsDropped += len(errs)
	if len(errs) > 0 {
		return d, errs[0]
	}

	fopt := pathdata.FormatOptions{
		Precision:    -1,
		CompactFlags: opts.RemoveSpaceAfterFlags,
		Shorthands:   opts.SmoothCurves,
	}
	if opts.RoundCoordinates {
		fopt.Precision = opts.CoordinatePrecision
	}

	if opts.SimplifyPaths {
		ps := pathdata.Flatten(pathdata.Resolve(prog), opts.FlattenSteps)
		before, after := ps.Simplify(opts.SimplifyTolerance)
		diag.PointsBefore += before
		diag.PointsAfter += after
		return pathdata.SerializePaths(ps, fopt), nil
	}

	out = pathdata.Serialize(prog, fopt)
	if fopt.Precision < 0 && len(out) > len(d) {
		// Nothing lossy was asked for and the text didn't get shorter.
		return d, nil
	}
	return out, nil
}
