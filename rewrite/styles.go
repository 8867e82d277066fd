package rewrite

import (
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"

	"github.com/paulhankin/tinysvg/svgdoc"
)

// presentation lists the CSS properties that SVG also accepts as
// attributes.
var presentation = map[string]bool{}

func init() {
	for _, p := range strings.Fields(`
		alignment-baseline baseline-shift clip clip-path clip-rule color
		color-interpolation color-interpolation-filters color-profile
		color-rendering cursor direction display dominant-baseline
		enable-background fill fill-opacity fill-rule filter flood-color
		flood-opacity font-family font-size font-size-adjust font-stretch
		font-style font-variant font-weight glyph-orientation-horizontal
		glyph-orientation-vertical image-rendering kerning letter-spacing
		lighting-color marker-end marker-mid marker-start mask opacity
		overflow pointer-events shape-rendering stop-color stop-opacity
		stroke stroke-dasharray stroke-dashoffset stroke-linecap
		stroke-linejoin stroke-miterlimit stroke-opacity stroke-width
		text-anchor text-decoration text-rendering unicode-bidi visibility
		word-spacing writing-mode`) {
		presentation[p] = true
	}
}

func inlineStyles(doc *svgdoc.Node, st *Stats) {
	doc.Walk(func(n *svgdoc.Node) bool {
		if n.Type != svgdoc.ElementNode {
			return true
		}
		style, ok := n.Attr("style")
		if !ok {
			return true
		}
		if inlineStyle(n, style) {
			st.StylesInlined++
		}
		return true
	})
}

// inlineStyle moves the presentation properties of a style attribute
// onto n as attributes. A style declaration overrides an attribute of
// the same name, so it replaces the attribute's value. Declarations
// marked !important, and styles that don't parse, are left alone.
func inlineStyle(n *svgdoc.Node, style string) bool {
	// The parser loses the value of a final declaration that has no
	// terminating semicolon.
	style = strings.TrimSpace(style)
	if !strings.HasSuffix(style, ";") {
		style += ";"
	}
	decls, err := parser.ParseDeclarations(style)
	if err != nil {
		return false
	}
	var rest []*css.Declaration
	moved := false
	for _, d := range decls {
		prop := strings.ToLower(strings.TrimSpace(d.Property))
		val := strings.TrimSpace(d.Value)
		if d.Important || !presentation[prop] || val == "" {
			rest = append(rest, d)
			continue
		}
		n.SetAttr(prop, val)
		moved = true
	}
	if !moved {
		return false
	}
	if len(rest) == 0 {
		n.RemoveAttrs(func(a svgdoc.Attr) bool { return a.Name == "style" })
		return true
	}
	var b strings.Builder
	for i, d := range rest {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(strings.TrimSpace(d.Property))
		b.WriteByte(':')
		b.WriteString(strings.TrimSpace(d.Value))
		if d.Important {
			b.WriteString("!important")
		}
	}
	n.SetAttr("style", b.String())
	return true
}
