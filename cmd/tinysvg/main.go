package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/paulhankin/tinysvg/cmd/tinysvg/tinysvg"
	"github.com/paulhankin/tinysvg/svgmin"
)

// flags
var (
	flagOut     string
	flagOutDir  string
	flagSuffix  string
	flagConfig  string
	flagJSON    bool
	flagJobs    int
	flagVerbose bool

	flagOpts = svgmin.DefaultOptions()
)

func init() {
	flag.StringVar(&flagOut, "out", "", "output file, or - for stdout (single input only)")
	flag.StringVar(&flagOutDir, "outdir", "", "directory for output files (default: next to each input)")
	flag.StringVar(&flagSuffix, "suffix", tinysvg.DefaultSuffix, "added to input names to make output names")
	flag.StringVar(&flagConfig, "config", "", "toml, yaml or json file of options; flags given override it")
	flag.BoolVar(&flagJSON, "json", false, "print results as json")
	flag.IntVar(&flagJobs, "j", 4, "files processed at once")
	flag.BoolVar(&flagVerbose, "v", false, "log per-file details")
	tinysvg.BindOptions(flag.CommandLine, &flagOpts)
}

// options returns the options from -config, overridden by any option
// flags given on the command line.
func options() (svgmin.Options, error) {
	if flagConfig == "" {
		return flagOpts, nil
	}
	opts := svgmin.DefaultOptions()
	if err := tinysvg.LoadOptions(flagConfig, &opts); err != nil {
		return opts, err
	}
	fs := flag.NewFlagSet("options", flag.ContinueOnError)
	tinysvg.BindOptions(fs, &opts)
	var err error
	flag.Visit(func(f *flag.Flag) {
		if err == nil && fs.Lookup(f.Name) != nil {
			err = fs.Set(f.Name, f.Value.String())
		}
	})
	return opts, err
}

func main() {
	fail := func(s string, args ...interface{}) {
		fmt.Fprintf(os.Stderr, s+"\n", args...)
		os.Exit(2)
	}

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: tinysvg [flags] file.svg...\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 {
		fail("must specify at least one svg file")
	}

	level := slog.LevelWarn
	if flagVerbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	opts, err := options()
	if err != nil {
		fail("%v", err)
	}

	cfg := &tinysvg.Config{
		In:      flag.Args(),
		Out:     flagOut,
		OutDir:  flagOutDir,
		Suffix:  flagSuffix,
		Options: opts,
		JSON:    flagJSON,
		Jobs:    flagJobs,
		Logger:  logger,
	}
	if err := tinysvg.Convert(context.Background(), cfg); err != nil {
		fail("%v", err)
	}
}
