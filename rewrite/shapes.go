package rewrite

import (
	"sort"
	"strings"

	"github.com/tdewolff/parse/v2/strconv"

	"github.com/paulhankin/tinysvg/pathdata"
	"github.com/paulhankin/tinysvg/svgdoc"
)

// number parses a unitless attribute value. A missing attribute is
// def; anything with units or junk is rejected.
func number(n *svgdoc.Node, name string, def float64) (float64, bool) {
	s, ok := n.Attr(name)
	if !ok {
		return def, true
	}
	s = strings.TrimSpace(s)
	f, m := strconv.ParseFloat([]byte(s))
	if m == 0 || m != len(s) {
		return 0, false
	}
	return f, true
}

func num(x float64) string {
	return pathdata.FormatNumber(x, -1)
}

// shapeData returns path data drawing the same outline as a basic
// shape, and the attributes it replaces.
func shapeData(n *svgdoc.Node) (string, []string, bool) {
	switch n.Name {
	case "rect":
		if _, ok := n.Attr("rx"); ok {
			return "", nil, false
		}
		if _, ok := n.Attr("ry"); ok {
			return "", nil, false
		}
		x, ok1 := number(n, "x", 0)
		y, ok2 := number(n, "y", 0)
		w, ok3 := number(n, "width", 0)
		h, ok4 := number(n, "height", 0)
		if !ok1 || !ok2 || !ok3 || !ok4 || w <= 0 || h <= 0 {
			return "", nil, false
		}
		d := "M" + num(x) + " " + num(y) + "H" + num(x+w) + "V" + num(y+h) + "H" + num(x) + "z"
		return d, []string{"x", "y", "width", "height"}, true
	case "line":
		x1, ok1 := number(n, "x1", 0)
		y1, ok2 := number(n, "y1", 0)
		x2, ok3 := number(n, "x2", 0)
		y2, ok4 := number(n, "y2", 0)
		if !ok1 || !ok2 || !ok3 || !ok4 {
			return "", nil, false
		}
		d := "M" + num(x1) + " " + num(y1) + "L" + num(x2) + " " + num(y2)
		return d, []string{"x1", "y1", "x2", "y2"}, true
	case "polyline", "polygon":
		pts, ok := n.Attr("points")
		if !ok {
			return "", nil, false
		}
		prog, errs := pathdata.Parse("M" + pts)
		if len(errs) > 0 || len(prog) == 0 {
			return "", nil, false
		}
		d := pathdata.Serialize(prog, pathdata.FormatOptions{Precision: -1})
		if n.Name == "polygon" {
			d += "z"
		}
		return d, []string{"points"}, true
	}
	return "", nil, false
}

func convertShapes(doc *svgdoc.Node, st *Stats) {
	doc.Walk(func(n *svgdoc.Node) bool {
		if n.Type != svgdoc.ElementNode || len(n.Elements()) > 0 {
			return true
		}
		d, drop, ok := shapeData(n)
		if !ok {
			return true
		}
		n.RemoveAttrs(func(a svgdoc.Attr) bool {
			for _, name := range drop {
				if a.Name == name {
					return true
				}
			}
			return false
		})
		n.Name = "path"
		n.SetAttr("d", d)
		st.ShapesConverted++
		return true
	})
}

// emptyData reports whether d parses cleanly and draws nothing. Path
// data with errors is never treated as empty.
func emptyData(d string) bool {
	prog, errs := pathdata.Parse(d)
	return len(errs) == 0 && !prog.HasDrawing()
}

func removeEmptyPaths(doc *svgdoc.Node, st *Stats) {
	postorder(doc, func(n *svgdoc.Node) {
		if n.Type != svgdoc.ElementNode || n.Name != "path" {
			return
		}
		if d, ok := n.Attr("d"); ok && !emptyData(d) {
			return
		}
		n.Remove()
		st.ElementsRemoved++
	})
}

// attrKey is an order-independent key for an element's attributes,
// leaving out the ones named in skip.
func attrKey(n *svgdoc.Node, skip string) string {
	var kv []string
	for _, a := range n.Attrs {
		if a.Name != skip {
			kv = append(kv, a.Name+"\x00"+a.Value)
		}
	}
	sort.Strings(kv)
	return strings.Join(kv, "\x01")
}

func removeDuplicatePaths(doc *svgdoc.Node, st *Stats) {
	doc.Walk(func(n *svgdoc.Node) bool {
		seen := map[string]bool{}
		for _, c := range n.Elements() {
			if c.Name != "path" || len(c.Children) > 0 {
				continue
			}
			if _, ok := c.Attr("id"); ok {
				continue
			}
			k := attrKey(c, "")
			if seen[k] {
				c.Remove()
				st.ElementsRemoved++
				continue
			}
			seen[k] = true
		}
		return true
	})
}

// mergeable reports whether a path may have its data joined with a
// neighbour's. Only unfilled paths qualify: joining filled outlines
// can change how their overlap is filled.
func mergeable(n *svgdoc.Node) bool {
	if n.Type != svgdoc.ElementNode || n.Name != "path" || len(n.Children) > 0 {
		return false
	}
	if fill, _ := n.Attr("fill"); fill != "none" {
		return false
	}
	for _, a := range n.Attrs {
		switch a.Name {
		case "id", "marker-start", "marker-mid", "marker-end", "style":
			return false
		}
	}
	d, ok := n.Attr("d")
	if !ok {
		return false
	}
	prog, errs := pathdata.Parse(d)
	return len(errs) == 0 && len(prog) > 0 && prog[0].Kind == pathdata.MoveTo
}

// absoluteStart makes a leading relative moveto absolute. The first
// moveto of a path is relative to the origin, which is no longer true
// once the data follows another path's.
func absoluteStart(d string) string {
	prog, errs := pathdata.Parse(d)
	if len(errs) > 0 || len(prog) == 0 || !prog[0].Relative {
		return strings.TrimSpace(d)
	}
	prog[0].Relative = false
	return pathdata.Serialize(prog, pathdata.FormatOptions{Precision: -1})
}

func mergePaths(doc *svgdoc.Node, st *Stats) {
	doc.Walk(func(n *svgdoc.Node) bool {
		var prev *svgdoc.Node
		for _, c := range append([]*svgdoc.Node(nil), n.Children...) {
			if c.Type == svgdoc.TextNode && strings.TrimSpace(c.Data) == "" {
				continue
			}
			if !mergeable(c) {
				prev = nil
				continue
			}
			if prev != nil && attrKey(prev, "d") == attrKey(c, "d") {
				pd, _ := prev.Attr("d")
				cd, _ := c.Attr("d")
				prev.SetAttr("d", strings.TrimSpace(pd)+absoluteStart(cd))
				c.Remove()
				st.PathsMerged++
				continue
			}
			prev = c
		}
		return true
	})
}
