package htmljs

import (
	"strconv"
	"strings"
)

// Node is one entry of a content tree. The interface is sealed: only the
// variants declared in this package implement it. A nil Node renders nothing.
type Node interface {
	htmljsNode()
}

// Kind is implemented by component blueprints referenced from a tree.
// The engine that consumes the tree decides which implementations it accepts.
type Kind interface {
	KindName() string
}

// Scope is the lookup context content renders under. Component instances
// implement it; the parent chain is a non-owning back-reference.
type Scope interface {
	ParentScope() Scope
}

// String is scalar text.
type String string

// Number is scalar numeric text.
type Number float64

// Bool is scalar boolean text.
type Bool bool

// Seq is an ordered list of nodes rendered at the same position.
type Seq []Node

// Func is dynamic content. It is evaluated inside a reactive computation and
// re-evaluated when the data it reads changes.
type Func func() Node

// Tag is an element with attributes and children.
type Tag struct {
	Name     string
	Attrs    Attrs
	Children []Node

	// AttrFuncs are dynamic attribute dictionaries merged after Attrs,
	// in order. Later dictionaries win.
	AttrFuncs []func() Attrs
}

// Include references a component kind.
type Include struct {
	Kind Kind
}

// CharRef is a character reference such as &amp;. HTML holds the reference as
// written, Str the character(s) it stands for.
type CharRef struct {
	HTML string
	Str  string
}

// Comment is an HTML comment.
type Comment struct {
	Value string
}

// Raw is trusted markup inserted without escaping.
type Raw struct {
	Value string
}

// Scoped renders Content under Scope instead of the caller's scope.
type Scoped struct {
	Content Node
	Scope   Scope
}

func (String) htmljsNode()  {}
func (Number) htmljsNode()  {}
func (Bool) htmljsNode()    {}
func (Seq) htmljsNode()     {}
func (Func) htmljsNode()    {}
func (*Tag) htmljsNode()    {}
func (Include) htmljsNode() {}
func (CharRef) htmljsNode() {}
func (Comment) htmljsNode() {}
func (Raw) htmljsNode()     {}
func (Scoped) htmljsNode()  {}

// ScalarString returns the text form of a scalar node and true, or "" and
// false for any other node.
func ScalarString(n Node) (string, bool) {
	switch v := n.(type) {
	case String:
		return string(v), true
	case Number:
		return strconv.FormatFloat(float64(v), 'f', -1, 64), true
	case Bool:
		return strconv.FormatBool(bool(v)), true
	default:
		return "", false
	}
}

// IsNully reports whether n renders nothing: nil, or a Seq whose elements are
// all nully.
func IsNully(n Node) bool {
	if n == nil {
		return true
	}
	if seq, ok := n.(Seq); ok {
		for _, child := range seq {
			if !IsNully(child) {
				return false
			}
		}
		return true
	}
	return false
}

// Sanitized returns the comment text with leading dashes, "--" runs and a
// trailing dash removed so it cannot terminate the comment early.
func (c Comment) Sanitized() string {
	v := strings.TrimLeft(c.Value, "-")
	var b strings.Builder
	b.Grow(len(v))
	for i := 0; i < len(v); {
		j := i
		for j < len(v) && v[j] == '-' {
			j++
		}
		switch {
		case j-i == 1:
			b.WriteByte('-')
			i = j
		case j > i:
			i = j
		default:
			b.WriteByte(v[i])
			i++
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
