package svgmin

import (
	"math"

	"github.com/paulhankin/tinysvg/rewrite"
)

// Options selects what Optimize does. The field names in the json,
// toml and yaml tags are the option names used in config files.
type Options struct {
	RemoveMetadata        bool    `json:"removeMetadata" toml:"removeMetadata" yaml:"removeMetadata"`
	InlineStyles          bool    `json:"inlineStyles" toml:"inlineStyles" yaml:"inlineStyles"`
	CollapseGroups        bool    `json:"collapseGroups" toml:"collapseGroups" yaml:"collapseGroups"`
	RemoveUnusedDefs      bool    `json:"removeUnusedDefs" toml:"removeUnusedDefs" yaml:"removeUnusedDefs"`
	RemoveIDs             bool    `json:"removeIds" toml:"removeIds" yaml:"removeIds"`
	RoundCoordinates      bool    `json:"roundCoordinates" toml:"roundCoordinates" yaml:"roundCoordinates"`
	CoordinatePrecision   int     `json:"coordinatePrecision" toml:"coordinatePrecision" yaml:"coordinatePrecision"`
	RemoveSpaceAfterFlags bool    `json:"removeSpaceAfterFlags" toml:"removeSpaceAfterFlags" yaml:"removeSpaceAfterFlags"`
	ConvertShapesToPaths  bool    `json:"convertShapesToPaths" toml:"convertShapesToPaths" yaml:"convertShapesToPaths"`
	MergePaths            bool    `json:"mergePaths" toml:"mergePaths" yaml:"mergePaths"`
	RemoveDuplicatePaths  bool    `json:"removeDuplicatePaths" toml:"removeDuplicatePaths" yaml:"removeDuplicatePaths"`
	RemoveEmptyPaths      bool    `json:"removeEmptyPaths" toml:"removeEmptyPaths" yaml:"removeEmptyPaths"`
	SmoothCurves          bool    `json:"smoothCurves" toml:"smoothCurves" yaml:"smoothCurves"`
	SimplifyPaths         bool    `json:"simplifyPaths" toml:"simplifyPaths" yaml:"simplifyPaths"`
	SimplifyTolerance     float64 `json:"simplifyTolerance" toml:"simplifyTolerance" yaml:"simplifyTolerance"`

	// FlattenSteps is the number of line segments each curve becomes
	// when paths are simplified. Zero keeps only curve endpoints.
	FlattenSteps int `json:"flattenSteps" toml:"flattenSteps" yaml:"flattenSteps"`
	// Diagnostics asks for Result.Diagnostics to be filled in.
	Diagnostics bool `json:"diagnostics" toml:"diagnostics" yaml:"diagnostics"`
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		RemoveMetadata:        true,
		InlineStyles:          true,
		CollapseGroups:        true,
		RemoveUnusedDefs:      true,
		RemoveIDs:             true,
		RoundCoordinates:      true,
		CoordinatePrecision:   2,
		RemoveSpaceAfterFlags: true,
		ConvertShapesToPaths:  true,
		MergePaths:            true,
		RemoveDuplicatePaths:  true,
		RemoveEmptyPaths:      true,
		SmoothCurves:          true,
		SimplifyPaths:         false,
		SimplifyTolerance:     1,
	}
}

const (
	minPrecision = 0
	maxPrecision = 10
	minTolerance = 0.1
	maxTolerance = 10
	maxSteps     = 64
)

// Normalize clamps the numeric options into range. A tolerance that
// isn't a number becomes 1.
func (o Options) Normalize() Options {
	o.CoordinatePrecision = min(max(o.CoordinatePrecision, minPrecision), maxPrecision)
	if math.IsNaN(o.SimplifyTolerance) {
		o.SimplifyTolerance = 1
	}
	o.SimplifyTolerance = math.Min(math.Max(o.SimplifyTolerance, minTolerance), maxTolerance)
	o.FlattenSteps = min(max(o.FlattenSteps, 0), maxSteps)
	return o
}

// Rules returns the structural rewrite rules these options enable.
func (o Options) Rules() rewrite.Rules {
	return rewrite.Rules{
		RemoveMetadata:       o.RemoveMetadata,
		RemoveIDs:            o.RemoveIDs,
		InlineStyles:         o.InlineStyles,
		CollapseGroups:       o.CollapseGroups,
		RemoveUnusedDefs:     o.RemoveUnusedDefs,
		ConvertShapes:        o.ConvertShapesToPaths,
		RemoveEmptyPaths:     o.RemoveEmptyPaths,
		RemoveDuplicatePaths: o.RemoveDuplicatePaths,
		MergePaths:           o.MergePaths,
	}
}

// Plugins returns the names of the optimization passes handed to the
// generic optimizer, in order.
func (o Options) Plugins() []string {
	var ps []string
	if o.RemoveMetadata {
		ps = append(ps, "removeTitle", "removeDesc", "removeComments", "removeMetadata", "removeEditorsNSData")
	}
	if o.InlineStyles {
		ps = append(ps, "inlineStyles", "removeUnusedNS")
	}
	if o.RoundCoordinates {
		ps = append(ps, "convertPathData", "convertTransform")
	}
	if o.CollapseGroups {
		ps = append(ps, "collapseGroups")
	}
	if o.RemoveUnusedDefs {
		ps = append(ps, "removeUnusedDefs", "removeUselessDefs")
	}
	if o.MergePaths || o.ConvertShapesToPaths {
		ps = append(ps, "mergePaths", "convertShapeToPath")
	}
	if o.RemoveIDs {
		ps = append(ps, "removeAttrs", "removeUselessStrokeAndFill", "removeEmptyAttrs")
	}
	return append(ps,
		"removeDoctype",
		"removeXMLProcInst",
		"removeEmptyText",
		"removeEmptyContainers",
		"cleanupEnableBackground",
		"cleanupNumericValues",
		"cleanupListOfValues",
		"convertColors",
		"removeUnknownsAndDefaults",
		"removeNonInheritableGroupAttrs",
	)
}
