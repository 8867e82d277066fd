// Package minifier is the generic optimization pass run over a whole
// document after path data has been rewritten. It is a thin adapter
// over the tdewolff SVG and CSS minifiers that takes optimization
// pass names, and it refuses to return a document that doesn't decode
// as SVG.
package minifier

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/JoshVarga/svgparser"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/svg"
	"golang.org/x/net/html/charset"
)

const (
	svgType = "image/svg+xml"
	cssType = "text/css"
)

// Minifier minifies SVG documents. The zero value is ready to use and
// safe for concurrent use.
type Minifier struct{}

// New returns a Minifier.
func New() *Minifier {
	return &Minifier{}
}

func enabled(plugins []string, name string) bool {
	for _, p := range plugins {
		if p == name {
			return true
		}
	}
	return false
}

// Minify minifies doc. Pass names it has no counterpart for are
// ignored; comments are kept unless removeComments is among them.
// Numbers keep all their digits, since path data arrives already
// rounded. A panic in the minifier is returned as an error.
func (m *Minifier) Minify(doc string, plugins []string) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = "", fmt.Errorf("minifier: panic: %v", r)
		}
	}()

	mm := minify.New()
	mm.AddFunc(cssType, css.Minify)
	mm.Add(svgType, &svg.Minifier{
		KeepComments: !enabled(plugins, "removeComments"),
	})
	out, err = mm.String(svgType, doc)
	if err != nil {
		return "", fmt.Errorf("minifier: %w", err)
	}
	if _, err := Validate(out); err != nil {
		return "", fmt.Errorf("minifier: output is not valid svg: %w", err)
	}
	return out, nil
}

// Validate decodes doc and returns its root element, which must be an
// svg element.
func Validate(doc string) (*svgparser.Element, error) {
	decoder := xml.NewDecoder(strings.NewReader(doc))
	decoder.CharsetReader = charset.NewReaderLabel
	decoder.Entity = xml.HTMLEntity
	elt, err := svgparser.DecodeFirst(decoder)
	if err != nil {
		return nil, err
	}
	if err := elt.Decode(decoder); err != nil && err != io.EOF {
		return nil, err
	}
	if elt.Name != "svg" {
		return nil, fmt.Errorf("root element is %q", elt.Name)
	}
	return elt, nil
}

// Count returns the number of elements in the tree rooted at e.
func Count(e *svgparser.Element) int {
	n := 1
	for _, c := range e.Children {
		n += Count(c)
	}
	return n
}
