// Package probe wraps XPath 1.0 compilation and document probing behind a
// small query-engine surface.
//
// An Engine compiles expression text into Exprs and parses one document into
// a Results value; every registered expression can then be read from that
// Results without re-parsing. The Engine is immutable and safe for
// concurrent use; a Results value belongs to a single detection call.
package probe

import (
	"fmt"
	"io"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

// Kind is the static result kind of a compiled expression. XPath 1.0 fixes
// the kind at compile time from the expression's outermost construct.
type Kind int

const (
	KindNodeset Kind = iota
	KindBoolean
	KindString
	KindNumber
)

// String returns the kind name used in error messages.
func (k Kind) String() string {
	switch k {
	case KindNodeset:
		return "nodeset"
	case KindBoolean:
		return "boolean"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Expr is one compiled expression. Immutable, safe for concurrent use.
type Expr struct {
	text string
	prog *xpath.Expr
	kind Kind
}

// Text returns the literal expression source.
func (x *Expr) Text() string { return x.text }

// Kind returns the expression's static result kind.
func (x *Expr) Kind() Kind { return x.kind }

// Engine compiles expressions and probes documents.
type Engine struct {
	empty *xmlquery.Node
}

// New constructs an Engine.
// Panics if the embedded sentinel document fails to parse; it is a literal
// constant, so this cannot happen outside a broken build.
func New() *Engine {
	doc, err := xmlquery.Parse(strings.NewReader("<probe/>"))
	if err != nil {
		panic(fmt.Sprintf("probe: parse sentinel document: %v", err))
	}
	return &Engine{empty: doc}
}

// Compile parses expression text and determines its result kind.
func (e *Engine) Compile(text string) (*Expr, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("compile expression: empty text")
	}
	prog, err := xpath.Compile(text)
	if err != nil {
		return nil, fmt.Errorf("compile expression %q: %w", text, err)
	}
	// The result kind is static, so evaluating against the sentinel
	// document reveals it without touching real content.
	kind := KindNodeset
	switch prog.Evaluate(xmlquery.CreateXPathNavigator(e.empty)).(type) {
	case bool:
		kind = KindBoolean
	case float64:
		kind = KindNumber
	case string:
		kind = KindString
	}
	return &Expr{text: text, prog: prog, kind: kind}, nil
}

// Results holds one parsed document. Not safe for concurrent use.
type Results struct {
	doc *xmlquery.Node
}

// Probe parses a document from r. A malformed document is an error; the
// caller decides whether that aborts the call or only skips the document.
func (e *Engine) Probe(r io.Reader) (*Results, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	if xmlquery.FindOne(doc, "/*") == nil {
		return nil, fmt.Errorf("parse document: no root element")
	}
	return &Results{doc: doc}, nil
}

// Bool reads the boolean result of x against the probed document.
func (rs *Results) Bool(x *Expr) (bool, error) {
	v := x.prog.Evaluate(xmlquery.CreateXPathNavigator(rs.doc))
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("expression %q yielded %T, want boolean", x.text, v)
	}
	return b, nil
}

// Strings reads the result of x as an ordered sequence of string values.
// Nodesets yield each node's string-value in document order; a plain string
// result yields a single-element sequence.
func (rs *Results) Strings(x *Expr) ([]string, error) {
	switch v := x.prog.Evaluate(xmlquery.CreateXPathNavigator(rs.doc)).(type) {
	case *xpath.NodeIterator:
		var out []string
		for v.MoveNext() {
			out = append(out, v.Current().Value())
		}
		return out, nil
	case string:
		return []string{v}, nil
	default:
		return nil, fmt.Errorf("expression %q yielded %T, want nodeset or string", x.text, v)
	}
}
