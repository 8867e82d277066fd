// Package tinysvg provides the functionality for the
// tinysvg binary as a library.
package tinysvg

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/paulhankin/tinysvg/minifier"
	"github.com/paulhankin/tinysvg/svgmin"
)

// DefaultSuffix is added to an input's base name to make its output
// name.
const DefaultSuffix = "-tinysvg-simplified"

type Config struct {
	In     []string
	Out    string
	OutDir string
	Suffix string

	Options svgmin.Options

	JSON bool
	Jobs int

	Logger *slog.Logger
	Stdout io.Writer
}

// BindOptions registers one flag per option on fs, writing into o.
// The flags' defaults are o's current values.
func BindOptions(fs *flag.FlagSet, o *svgmin.Options) {
	fs.BoolVar(&o.RemoveMetadata, "removeMetadata", o.RemoveMetadata, "remove title, desc and metadata elements")
	fs.BoolVar(&o.InlineStyles, "inlineStyles", o.InlineStyles, "turn style properties into attributes")
	fs.BoolVar(&o.CollapseGroups, "collapseGroups", o.CollapseGroups, "replace groups holding a single element by that element")
	fs.BoolVar(&o.RemoveUnusedDefs, "removeUnusedDefs", o.RemoveUnusedDefs, "remove empty groups and defs")
	fs.BoolVar(&o.RemoveIDs, "removeIds", o.RemoveIDs, "remove unreferenced ids, classes and editor data")
	fs.BoolVar(&o.RoundCoordinates, "roundCoordinates", o.RoundCoordinates, "round path coordinates")
	fs.IntVar(&o.CoordinatePrecision, "coordinatePrecision", o.CoordinatePrecision, "decimal digits kept when rounding (0-10)")
	fs.BoolVar(&o.RemoveSpaceAfterFlags, "removeSpaceAfterFlags", o.RemoveSpaceAfterFlags, "write arc flags without separators")
	fs.BoolVar(&o.ConvertShapesToPaths, "convertShapesToPaths", o.ConvertShapesToPaths, "turn rect, line, polyline and polygon into paths")
	fs.BoolVar(&o.MergePaths, "mergePaths", o.MergePaths, "join adjacent stroke-only paths with equal attributes")
	fs.BoolVar(&o.RemoveDuplicatePaths, "removeDuplicatePaths", o.RemoveDuplicatePaths, "remove paths identical to an earlier sibling")
	fs.BoolVar(&o.RemoveEmptyPaths, "removeEmptyPaths", o.RemoveEmptyPaths, "remove paths that draw nothing")
	fs.BoolVar(&o.SmoothCurves, "smoothCurves", o.SmoothCurves, "use S and T shorthands where possible")
	fs.BoolVar(&o.SimplifyPaths, "simplifyPaths", o.SimplifyPaths, "flatten curves and simplify paths (lossy)")
	fs.Float64Var(&o.SimplifyTolerance, "simplifyTolerance", o.SimplifyTolerance, "simplification tolerance (0.1-10)")
	fs.IntVar(&o.FlattenSteps, "flattenSteps", o.FlattenSteps, "segments per curve when simplifying; 0 keeps endpoints only")
	fs.BoolVar(&o.Diagnostics, "diagnostics", o.Diagnostics, "include diagnostics in -json output")
}

// LoadOptions reads options from a toml, yaml or json file into o.
// Options missing from the file keep their values.
func LoadOptions(name string, o *svgmin.Options) error {
	data, err := os.ReadFile(name)
	if err != nil {
		return err
	}
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".toml":
		err = toml.Unmarshal(data, o)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, o)
	case ".json":
		err = json.Unmarshal(data, o)
	default:
		return fmt.Errorf("config file %s: unknown format %q", name, ext)
	}
	if err != nil {
		return fmt.Errorf("config file %s: %w", name, err)
	}
	return nil
}

// OutputName returns where the optimized version of in is written.
func (cfg *Config) OutputName(in string) string {
	if cfg.Out != "" {
		return cfg.Out
	}
	suffix := cfg.Suffix
	if suffix == "" {
		suffix = DefaultSuffix
	}
	dir := cfg.OutDir
	if dir == "" {
		dir = filepath.Dir(in)
	}
	base := filepath.Base(in)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, base+suffix+".svg")
}

// Report is the outcome for one input file.
type Report struct {
	File   string        `json:"file"`
	Out    string        `json:"out"`
	Result svgmin.Result `json:"result"`
	Error  string        `json:"error,omitempty"`
}

func (r *Report) String() string {
	s := fmt.Sprintf("%s: %d → %d bytes (%d%%)", r.File, r.Result.Size.Original, r.Result.Size.Optimized, r.Result.Size.Reduction)
	if r.Error != "" {
		s += ": " + r.Error
	}
	return s
}

func (cfg *Config) logger() *slog.Logger {
	if cfg.Logger != nil {
		return cfg.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (cfg *Config) convertFile(e *svgmin.Engine, in string) (*Report, error) {
	raw, err := os.ReadFile(in)
	if err != nil {
		return nil, err
	}
	r := &Report{File: in, Out: cfg.OutputName(in)}
	res, err := e.Optimize(string(raw), cfg.Options)
	r.Result = res
	if err != nil {
		r.Error = err.Error()
	}
	var empty svgmin.EmptyInputError
	if errors.As(err, &empty) {
		r.Error = "empty input, written unchanged"
	} else if elt, err := minifier.Validate(res.Data); err == nil {
		cfg.logger().Debug("optimized", "file", in, "elements", minifier.Count(elt))
	}

	if r.Out == "-" {
		return r, nil
	}
	if err := os.WriteFile(r.Out, []byte(res.Data), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write output file: %w", err)
	}
	return r, nil
}

// Convert optimizes every input file, writing each result next to its
// input (or to OutDir) and a one-line summary per file to Stdout.
// Files are processed concurrently, at most Jobs at a time.
func Convert(ctx context.Context, cfg *Config) error {
	if len(cfg.In) == 0 {
		return fmt.Errorf("input file must be specified")
	}
	if cfg.Out != "" && len(cfg.In) > 1 {
		return fmt.Errorf("can't use a single output file with %d inputs", len(cfg.In))
	}
	if cfg.OutDir != "" {
		if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
			return err
		}
	}
	stdout := cfg.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}

	e := svgmin.New(cfg.logger())
	reports := make([]*Report, len(cfg.In))
	g, ctx := errgroup.WithContext(ctx)
	if cfg.Jobs > 0 {
		g.SetLimit(cfg.Jobs)
	}
	for i, in := range cfg.In {
		i, in := i, in
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := cfg.convertFile(e, in)
			if err != nil {
				return fmt.Errorf("%s: %w", in, err)
			}
			if r.Error != "" {
				cfg.logger().Warn("fallback taken", "file", in, "error", r.Error)
			}
			reports[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if cfg.Out == "-" {
		_, err := io.WriteString(stdout, reports[0].Result.Data)
		return err
	}
	if cfg.JSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(reports)
	}
	for _, r := range reports {
		if _, err := fmt.Fprintln(stdout, r); err != nil {
			return err
		}
	}
	return nil
}
