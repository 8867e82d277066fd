package rewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paulhankin/tinysvg/svgdoc"
)

type rewriteTestCase struct {
	desc  string
	rules Rules
	in    string
	want  string
}

func run(t *testing.T, in string, apply func(*svgdoc.Node) Stats) (string, Stats) {
	t.Helper()
	doc, err := svgdoc.Parse(in)
	require.NoError(t, err)
	st := apply(doc)
	return doc.String(), st
}

func TestApply(t *testing.T) {
	cases := []rewriteTestCase{
		{
			desc: "basic cleanup",
			in:   `<?xml version="1.0"?><SVG><!-- c --><Path d="M0 0L1 1" class=""></Path></SVG>`,
			want: `<svg><path d="M0 0L1 1"/></svg>`,
		},
		{
			desc:  "metadata",
			rules: Rules{RemoveMetadata: true},
			in:    `<svg><title>t</title><desc>d</desc><metadata><x/></metadata><path d="M0 0L1 1"/></svg>`,
			want:  `<svg><path d="M0 0L1 1"/></svg>`,
		},
		{
			desc:  "ids and editor data",
			rules: Rules{RemoveIDs: true},
			in: `<svg xmlns="http://www.w3.org/2000/svg" xmlns:inkscape="i" xmlns:sodipodi="s" xml:space="preserve">` +
				`<sodipodi:namedview/><path id="p" class="a" data-x="1" inkscape:label="l" d="M0 0L1 1"/></svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg"><path d="M0 0L1 1"/></svg>`,
		},
		{
			desc:  "referenced ids are kept",
			rules: Rules{RemoveIDs: true},
			in:    `<svg><linearGradient id="g"/><path id="p" fill="url(#g)"/><use href="#p"/><rect id="r"/></svg>`,
			want:  `<svg><linearGradient id="g"/><path id="p" fill="url(#g)"/><use href="#p"/><rect/></svg>`,
		},
		{
			desc:  "inline styles",
			rules: Rules{InlineStyles: true},
			in:    `<svg><path fill="red" style="fill: blue; stroke:#000;stroke-width:2"/></svg>`,
			want:  `<svg><path fill="blue" stroke="#000" stroke-width="2"/></svg>`,
		},
		{
			desc:  "last declaration keeps its value",
			rules: Rules{InlineStyles: true},
			in:    `<svg><path d="M0 0L1 1" style="fill:none;stroke:red"/><path style=" stroke : red ; "/></svg>`,
			want:  `<svg><path d="M0 0L1 1" fill="none" stroke="red"/><path stroke="red"/></svg>`,
		},
		{
			desc:  "important and unknown properties stay in the style",
			rules: Rules{InlineStyles: true},
			in:    `<svg><path style="fill:red !important;stroke:blue;transform-box:fill-box"/></svg>`,
			want:  `<svg><path style="fill:red!important;transform-box:fill-box" stroke="blue"/></svg>`,
		},
		{
			desc:  "collapse groups",
			rules: Rules{CollapseGroups: true},
			in:    "<svg><g fill=\"red\">\n  <g stroke=\"blue\"><path d=\"M0 0L1 1\"/></g>\n</g></svg>",
			want:  `<svg><path fill="red" stroke="blue" d="M0 0L1 1"/></svg>`,
		},
		{
			desc:  "groups that cannot collapse",
			rules: Rules{CollapseGroups: true},
			in: `<svg><g id="a"><path/></g><g fill="red"><path fill="blue"/></g>` +
				`<g clip-path="url(#c)"><path/></g><g><path/><path/></g></svg>`,
			want: `<svg><g id="a"><path/></g><g fill="red"><path fill="blue"/></g>` +
				`<g clip-path="url(#c)"><path/></g><g><path/><path/></g></svg>`,
		},
		{
			desc:  "empty containers",
			rules: Rules{RemoveUnusedDefs: true},
			in:    "<svg><defs> </defs><g><g>\n</g></g><g><path/></g></svg>",
			want:  `<svg><g><path/></g></svg>`,
		},
		{
			desc:  "shapes to paths",
			rules: Rules{ConvertShapes: true},
			in: `<svg><rect x="1" y="2" width="3" height="4" fill="red"/><rect width="3" height="4" rx="1"/>` +
				`<line x2="5" y2="5"/><polyline points="0,0 1,1 2,0"/><polygon points="0 0 1 1 2 0"/>` +
				`<rect width="3px" height="4"/></svg>`,
			want: `<svg><path fill="red" d="M1 2H4V6H1z"/><rect width="3" height="4" rx="1"/>` +
				`<path d="M0 0L5 5"/><path d="M0 0L1 1 2 0"/><path d="M0 0L1 1 2 0z"/>` +
				`<rect width="3px" height="4"/></svg>`,
		},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			got, _ := run(t, c.in, func(doc *svgdoc.Node) Stats { return Apply(doc, c.rules) })
			assert.Equal(t, c.want, got)
		})
	}
}

func TestApplyPaths(t *testing.T) {
	cases := []rewriteTestCase{
		{
			desc:  "empty paths",
			rules: Rules{RemoveEmptyPaths: true},
			in:    `<svg><path/><path d=""/><path d="M1 1"/><path d="M1,1 Q2,2"/><path d="M0 0L1 1"/></svg>`,
			want:  `<svg><path d="M1,1 Q2,2"/><path d="M0 0L1 1"/></svg>`,
		},
		{
			desc:  "duplicate paths",
			rules: Rules{RemoveDuplicatePaths: true},
			in:    `<svg><path d="M0 0L1 1" fill="red"/><path fill="red" d="M0 0L1 1"/><path d="M0 0L1 1"/></svg>`,
			want:  `<svg><path d="M0 0L1 1" fill="red"/><path d="M0 0L1 1"/></svg>`,
		},
		{
			desc:  "merge stroke-only paths",
			rules: Rules{MergePaths: true},
			in: "<svg><path fill=\"none\" stroke=\"red\" d=\"M0 0L1 1\"/>\n" +
				"<path stroke=\"red\" fill=\"none\" d=\"m2 2 1 1\"/><path fill=\"none\" d=\"M5 5L6 6\"/></svg>",
			want: "<svg><path fill=\"none\" stroke=\"red\" d=\"M0 0L1 1M2 2l1 1\"/>\n" +
				"<path fill=\"none\" d=\"M5 5L6 6\"/></svg>",
		},
		{
			desc:  "filled paths are not merged",
			rules: Rules{MergePaths: true},
			in:    `<svg><path d="M0 0L1 1"/><path d="M2 2L3 3"/></svg>`,
			want:  `<svg><path d="M0 0L1 1"/><path d="M2 2L3 3"/></svg>`,
		},
		{
			desc:  "containers emptied by path rules",
			rules: Rules{RemoveEmptyPaths: true, RemoveUnusedDefs: true},
			in:    `<svg><g><path d="M1 1"/></g></svg>`,
			want:  `<svg/>`,
		},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			got, _ := run(t, c.in, func(doc *svgdoc.Node) Stats { return ApplyPaths(doc, c.rules) })
			assert.Equal(t, c.want, got)
		})
	}
}

func TestIdempotent(t *testing.T) {
	all := Rules{
		RemoveMetadata: true, RemoveIDs: true, InlineStyles: true, CollapseGroups: true,
		RemoveUnusedDefs: true, ConvertShapes: true, RemoveEmptyPaths: true,
		RemoveDuplicatePaths: true, MergePaths: true,
	}
	in := `<svg xmlns="http://www.w3.org/2000/svg"><title>x</title><g style="fill:none;stroke:red">` +
		`<rect width="2" height="2"/></g><g><line x2="1" style="fill:none"/><line x2="1" style="fill:none"/></g></svg>`
	apply := func(doc *svgdoc.Node) Stats {
		st := Apply(doc, all)
		st.Add(ApplyPaths(doc, all))
		return st
	}
	once, st := run(t, in, apply)
	assert.NotZero(t, st.ElementsRemoved)
	assert.NotZero(t, st.ShapesConverted)
	twice, st2 := run(t, once, apply)
	assert.Equal(t, once, twice)
	assert.Equal(t, Stats{}, st2)
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"  <svg>\n  <path d=\"M0  0\"/>\n</svg>\n", `<svg><path d="M0 0"/></svg>`},
		{"<text>a \t b</text>", "<text>a b</text>"},
		{"", ""},
	}
	for _, c := range cases {
		got := Normalize(c.in)
		assert.Equal(t, c.want, got)
		assert.Equal(t, got, Normalize(got))
	}
}
