// Package rewrite holds the document-level cleanup rules that run
// around path processing: tag and attribute cleanup, metadata
// stripping, style inlining, group collapsing, and the path-element
// rules that drop, dedupe and merge whole elements.
//
// Every rule works on an svgdoc tree and is idempotent.
package rewrite

import (
	"strings"

	"github.com/paulhankin/tinysvg/svgdoc"
)

// Rules selects the optional rules. The basic cleanup always runs: it
// lowercases capitalized element names and drops processing
// instructions, comments and empty attributes.
type Rules struct {
	RemoveMetadata       bool
	RemoveIDs            bool
	InlineStyles         bool
	CollapseGroups       bool
	RemoveUnusedDefs     bool
	ConvertShapes        bool
	RemoveEmptyPaths     bool
	RemoveDuplicatePaths bool
	MergePaths           bool
}

// Stats counts what the rules changed.
type Stats struct {
	ElementsRemoved int `json:"elementsRemoved"`
	AttrsRemoved    int `json:"attrsRemoved"`
	StylesInlined   int `json:"stylesInlined"`
	GroupsCollapsed int `json:"groupsCollapsed"`
	ShapesConverted int `json:"shapesConverted"`
	PathsMerged     int `json:"pathsMerged"`
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.ElementsRemoved += o.ElementsRemoved
	s.AttrsRemoved += o.AttrsRemoved
	s.StylesInlined += o.StylesInlined
	s.GroupsCollapsed += o.GroupsCollapsed
	s.ShapesConverted += o.ShapesConverted
	s.PathsMerged += o.PathsMerged
}

// Apply runs the structural rules on doc. It is meant to run before
// path data is rewritten, so that converted shapes get their path data
// processed too.
func Apply(doc *svgdoc.Node, r Rules) Stats {
	var st Stats
	cleanup(doc, &st)
	if r.RemoveMetadata {
		removeMetadata(doc, &st)
	}
	if r.RemoveIDs {
		removeIDs(doc, &st)
	}
	if r.InlineStyles {
		inlineStyles(doc, &st)
	}
	if r.ConvertShapes {
		convertShapes(doc, &st)
	}
	untilStable(&st, func(pass *Stats) {
		if r.CollapseGroups {
			collapseGroups(doc, pass)
		}
		if r.RemoveUnusedDefs {
			removeEmptyContainers(doc, pass)
		}
	})
	return st
}

// ApplyPaths runs the rules that look at path data. It is meant to run
// after path data has been rewritten, when equal paths also have equal
// text. Removing paths can leave groups that now collapse or are
// empty, so the container rules run again too.
func ApplyPaths(doc *svgdoc.Node, r Rules) Stats {
	var st Stats
	untilStable(&st, func(pass *Stats) {
		if r.RemoveEmptyPaths {
			removeEmptyPaths(doc, pass)
		}
		if r.RemoveDuplicatePaths {
			removeDuplicatePaths(doc, pass)
		}
		if r.MergePaths {
			mergePaths(doc, pass)
		}
		if r.CollapseGroups {
			collapseGroups(doc, pass)
		}
		if r.RemoveUnusedDefs {
			removeEmptyContainers(doc, pass)
		}
	})
	return st
}

// untilStable repeats pass until it changes nothing. Every change a
// pass counts removes an element, so this terminates.
func untilStable(st *Stats, pass func(*Stats)) {
	for {
		var p Stats
		pass(&p)
		if p == (Stats{}) {
			return
		}
		st.Add(p)
	}
}

// postorder calls fn for every descendant of n, children before their
// parent. fn may remove or replace the node it is given.
func postorder(n *svgdoc.Node, fn func(*svgdoc.Node)) {
	kids := append([]*svgdoc.Node(nil), n.Children...)
	for _, c := range kids {
		postorder(c, fn)
		fn(c)
	}
}

func cleanup(doc *svgdoc.Node, st *Stats) {
	postorder(doc, func(n *svgdoc.Node) {
		switch n.Type {
		case svgdoc.ProcInstNode, svgdoc.CommentNode:
			n.Remove()
			st.ElementsRemoved++
		case svgdoc.ElementNode:
			// SVG names are case sensitive (linearGradient), so only
			// names written in capitals are folded.
			if n.Name != "" && n.Name[0] >= 'A' && n.Name[0] <= 'Z' {
				n.Name = strings.ToLower(n.Name)
			}
			before := len(n.Attrs)
			n.RemoveAttrs(func(a svgdoc.Attr) bool { return a.Value == "" })
			st.AttrsRemoved += before - len(n.Attrs)
		}
	})
}

func removeMetadata(doc *svgdoc.Node, st *Stats) {
	postorder(doc, func(n *svgdoc.Node) {
		if n.Type != svgdoc.ElementNode {
			return
		}
		switch n.Name {
		case "title", "desc", "metadata":
			n.Remove()
			st.ElementsRemoved++
		}
	})
}

// editorPrefix reports whether name is in one of the drawing editors'
// private namespaces.
func editorPrefix(name string) bool {
	return strings.HasPrefix(name, "inkscape:") || strings.HasPrefix(name, "sodipodi:")
}

func removeIDs(doc *svgdoc.Node, st *Stats) {
	refs := referencedIDs(doc)
	postorder(doc, func(n *svgdoc.Node) {
		if n.Type != svgdoc.ElementNode {
			return
		}
		if editorPrefix(n.Name) {
			n.Remove()
			st.ElementsRemoved++
			return
		}
		before := len(n.Attrs)
		n.RemoveAttrs(func(a svgdoc.Attr) bool {
			switch {
			case a.Name == "id":
				return !refs[a.Value]
			case a.Name == "class", a.Name == "xml:space":
				return true
			case a.Name == "xmlns:inkscape", a.Name == "xmlns:sodipodi":
				return true
			}
			return strings.HasPrefix(a.Name, "data-") || editorPrefix(a.Name)
		})
		st.AttrsRemoved += before - len(n.Attrs)
	})
}

// referencedIDs finds the ids used by fragment references (href="#a",
// url(#a)) anywhere in the document, including style sheets.
func referencedIDs(doc *svgdoc.Node) map[string]bool {
	refs := map[string]bool{}
	scan := func(s string) {
		if strings.HasPrefix(s, "#") {
			refs[s[1:]] = true
		}
		for {
			i := strings.Index(s, "url(")
			if i < 0 {
				return
			}
			s = s[i+len("url("):]
			j := strings.IndexByte(s, ')')
			if j < 0 {
				return
			}
			ref := strings.Trim(strings.TrimSpace(s[:j]), `'"`)
			if strings.HasPrefix(ref, "#") {
				refs[ref[1:]] = true
			}
			s = s[j:]
		}
	}
	doc.Walk(func(n *svgdoc.Node) bool {
		switch n.Type {
		case svgdoc.ElementNode:
			for _, a := range n.Attrs {
				scan(a.Value)
			}
		case svgdoc.TextNode, svgdoc.CDATANode:
			scan(n.Data)
		}
		return true
	})
	return refs
}

// onlyElement returns n's single element child, provided every other
// child is whitespace.
func onlyElement(n *svgdoc.Node) *svgdoc.Node {
	var el *svgdoc.Node
	for _, c := range n.Children {
		switch c.Type {
		case svgdoc.ElementNode:
			if el != nil {
				return nil
			}
			el = c
		case svgdoc.TextNode:
			if strings.TrimSpace(c.Data) != "" {
				return nil
			}
		default:
			return nil
		}
	}
	return el
}

// Group attributes that apply to the group as a whole rather than
// being inherited by its children.
var groupOnly = map[string]bool{
	"clip-path": true,
	"mask":      true,
	"filter":    true,
}

func collapseGroups(doc *svgdoc.Node, st *Stats) {
	postorder(doc, func(n *svgdoc.Node) {
		if n.Type != svgdoc.ElementNode || n.Name != "g" {
			return
		}
		if _, ok := n.Attr("id"); ok {
			return
		}
		c := onlyElement(n)
		if c == nil || c.Name == "g" {
			return
		}
		for _, a := range n.Attrs {
			if groupOnly[a.Name] {
				return
			}
			if v, ok := c.Attr(a.Name); ok && v != a.Value {
				return
			}
		}
		var attrs []svgdoc.Attr
		for _, a := range n.Attrs {
			if _, ok := c.Attr(a.Name); !ok {
				attrs = append(attrs, a)
			}
		}
		c.Attrs = append(attrs, c.Attrs...)
		n.ReplaceWith(c)
		st.GroupsCollapsed++
	})
}

func removeEmptyContainers(doc *svgdoc.Node, st *Stats) {
	postorder(doc, func(n *svgdoc.Node) {
		if n.Type != svgdoc.ElementNode || (n.Name != "g" && n.Name != "defs") {
			return
		}
		for _, c := range n.Children {
			if c.Type != svgdoc.TextNode || strings.TrimSpace(c.Data) != "" {
				return
			}
		}
		n.Remove()
		st.ElementsRemoved++
	})
}
