// Package svgdoc is a small document tree for SVG text, built on a
// streaming XML lexer. It keeps comments, text and attribute values as
// they appear in the source, so a document that is parsed and written
// back without changes differs only in whitespace inside tags.
package svgdoc

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/xml"
)

// NodeType tells what a Node holds.
type NodeType int

// These are the node types of a document tree.
const (
	DocumentNode NodeType = iota
	ElementNode
	TextNode
	CommentNode
	CDATANode
	DoctypeNode
	ProcInstNode
)

// Attr is an attribute with its raw (still escaped) value.
type Attr struct {
	Name  string
	Value string
}

// Node is one node of a document tree. Elements and processing
// instructions have a Name and Attrs; text, comments, CDATA sections
// and doctypes keep their source text in Data.
type Node struct {
	Type     NodeType
	Name     string
	Attrs    []Attr
	Data     string
	Children []*Node
	Parent   *Node
}

// Parse builds the tree for a document. It is lenient the way browsers
// are with SVG: unmatched end tags are ignored and elements still open
// at the end are closed.
func Parse(doc string) (*Node, error) {
	root := &Node{Type: DocumentNode}
	stack := []*Node{root}
	top := func() *Node { return stack[len(stack)-1] }

	l := xml.NewLexer(parse.NewInputString(doc))
	for {
		tt, data := l.Next()
		switch tt {
		case xml.ErrorToken:
			if err := l.Err(); err != io.EOF {
				return nil, fmt.Errorf("svgdoc: %w", err)
			}
			return root, nil
		case xml.StartTagToken:
			n := &Node{Type: ElementNode, Name: string(l.Text())}
			top().AppendChild(n)
			stack = append(stack, n)
		case xml.StartTagPIToken:
			n := &Node{Type: ProcInstNode, Name: string(l.Text())}
			top().AppendChild(n)
			stack = append(stack, n)
		case xml.AttributeToken:
			n := top()
			n.Attrs = append(n.Attrs, Attr{Name: string(l.Text()), Value: unquote(l.AttrVal())})
		case xml.StartTagCloseToken:
		case xml.StartTagCloseVoidToken, xml.StartTagClosePIToken:
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
		case xml.EndTagToken:
			name := string(l.Text())
			for i := len(stack) - 1; i > 0; i-- {
				if stack[i].Type == ElementNode && stack[i].Name == name {
					stack = stack[:i]
					break
				}
			}
		case xml.TextToken:
			top().AppendChild(&Node{Type: TextNode, Data: string(data)})
		case xml.CommentToken:
			top().AppendChild(&Node{Type: CommentNode, Data: string(data)})
		case xml.CDATAToken:
			top().AppendChild(&Node{Type: CDATANode, Data: string(data)})
		case xml.DOCTYPEToken:
			top().AppendChild(&Node{Type: DoctypeNode, Data: string(data)})
		}
	}
}

func unquote(b []byte) string {
	if len(b) >= 2 && (b[0] == '"' || b[0] == '\'') && b[len(b)-1] == b[0] {
		b = b[1 : len(b)-1]
	}
	return string(b)
}

// AppendChild adds c as the last child of n.
func (n *Node) AppendChild(c *Node) {
	c.Parent = n
	n.Children = append(n.Children, c)
}

// Remove detaches n from its parent.
func (n *Node) Remove() {
	p := n.Parent
	if p == nil {
		return
	}
	for i, c := range p.Children {
		if c == n {
			p.Children = append(p.Children[:i:i], p.Children[i+1:]...)
			break
		}
	}
	n.Parent = nil
}

// ReplaceWith puts r in n's place in the tree.
func (n *Node) ReplaceWith(r *Node) {
	p := n.Parent
	if p == nil {
		return
	}
	for i, c := range p.Children {
		if c == n {
			if r.Parent != nil {
				r.Remove()
			}
			p.Children[i] = r
			r.Parent = p
			break
		}
	}
	n.Parent = nil
}

// Elements returns the element children of n.
func (n *Node) Elements() []*Node {
	var r []*Node
	for _, c := range n.Children {
		if c.Type == ElementNode {
			r = append(r, c)
		}
	}
	return r
}

// Attr returns the value of the named attribute.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr sets the named attribute, adding it at the end if it isn't
// present.
func (n *Node) SetAttr(name, value string) {
	for i, a := range n.Attrs {
		if a.Name == name {
			n.Attrs[i].Value = value
			return
		}
	}
	n.Attrs = append(n.Attrs, Attr{Name: name, Value: value})
}

// RemoveAttrs drops every attribute for which drop returns true.
func (n *Node) RemoveAttrs(drop func(Attr) bool) {
	j := 0
	for _, a := range n.Attrs {
		if drop(a) {
			continue
		}
		n.Attrs[j] = a
		j++
	}
	n.Attrs = n.Attrs[:j]
}

// Walk calls fn for n and its descendants in document order. Returning
// false from fn skips the node's children. The children slice is read
// after fn returns, so fn may change it.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for i := 0; i < len(n.Children); i++ {
		c := n.Children[i]
		c.Walk(fn)
		if i < len(n.Children) && n.Children[i] != c {
			// c was removed or replaced; revisit this index.
			i--
			if i < -1 {
				i = -1
			}
		}
	}
}

// WriteTo writes the document text for n and its descendants.
func (n *Node) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	cw := &countWriter{w: bw}
	n.write(cw)
	if cw.err == nil {
		cw.err = bw.Flush()
	}
	return cw.n, cw.err
}

// String returns the document text for n and its descendants.
func (n *Node) String() string {
	var b bytes.Buffer
	n.WriteTo(&b)
	return b.String()
}

type countWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (cw *countWriter) str(s string) {
	if cw.err != nil {
		return
	}
	var m int
	m, cw.err = io.WriteString(cw.w, s)
	cw.n += int64(m)
}

func (cw *countWriter) attrs(as []Attr) {
	for _, a := range as {
		q, v := `"`, a.Value
		if strings.Contains(v, `"`) {
			if strings.Contains(v, `'`) {
				v = strings.ReplaceAll(v, `"`, "&quot;")
			} else {
				q = `'`
			}
		}
		cw.str(" " + a.Name + "=" + q + v + q)
	}
}

func (n *Node) write(cw *countWriter) {
	switch n.Type {
	case DocumentNode:
		for _, c := range n.Children {
			c.write(cw)
		}
	case ElementNode:
		cw.str("<" + n.Name)
		cw.attrs(n.Attrs)
		if len(n.Children) == 0 {
			cw.str("/>")
			return
		}
		cw.str(">")
		for _, c := range n.Children {
			c.write(cw)
		}
		cw.str("</" + n.Name + ">")
	case ProcInstNode:
		cw.str("<?" + n.Name)
		cw.attrs(n.Attrs)
		cw.str("?>")
	default:
		cw.str(n.Data)
	}
}
