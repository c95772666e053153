package ui

import (
	"golang.org/x/net/html"

	"github.com/vango-dev/spark/internal/errors"
	"github.com/vango-dev/spark/pkg/component"
	"github.com/vango-dev/spark/pkg/deps"
	"github.com/vango-dev/spark/pkg/dom"
	"github.com/vango-dev/spark/pkg/htmljs"
	"github.com/vango-dev/spark/pkg/render"
)

// Materialize converts node into live output placed in parent before the
// given member (at the end when before is zero), rendering components under
// scope.
func (e *Engine) Materialize(node htmljs.Node, parent dom.Parent, before dom.Member, scope htmljs.Scope) {
	if parent.IsZero() {
		errors.Raise(errors.CodeNoParent, "materializing %T", node)
	}

	switch n := node.(type) {
	case nil:
	case htmljs.String, htmljs.Number, htmljs.Bool:
		s, _ := htmljs.ScalarString(n)
		e.place(e.backend.CreateText(s), parent, before)
	case htmljs.Seq:
		for _, child := range n {
			e.Materialize(child, parent, before, scope)
		}
	case htmljs.Func:
		e.materializeDynamic(n, parent, before, scope)
	case *htmljs.Tag:
		e.materializeTag(n, parent, before, scope)
	case htmljs.Include:
		inst := e.Render(n.Kind, scope)
		dom.Place(e.backend, dom.RangeMember(inst.Range()), parent, before)
	case htmljs.CharRef:
		e.place(e.backend.CreateText(n.Str), parent, before)
	case htmljs.Comment:
		e.place(e.backend.CreateComment(n.Sanitized()), parent, before)
	case htmljs.Raw:
		nodes, err := e.backend.ParseHTML(n.Value)
		if err != nil {
			e.report(errors.New(errors.CodeRawMarkup).Wrap(err))
			return
		}
		for _, pn := range nodes {
			e.place(pn, parent, before)
		}
	case htmljs.Scoped:
		e.Materialize(n.Content, parent, before, component.ResolveScope(n.Scope))
	default:
		errors.Raise(errors.CodeUnexpectedNode, "got %T", node)
	}
}

func (e *Engine) place(n *html.Node, parent dom.Parent, before dom.Member) {
	dom.Place(e.backend, dom.NodeMember(n), parent, before)
}

// materializeDynamic gives fn its own range and a computation that rebuilds
// the range whenever fn's normalized result changes.
func (e *Engine) materializeDynamic(fn htmljs.Func, parent dom.Parent, before dom.Member, scope htmljs.Scope) {
	if fn == nil {
		return
	}
	r := dom.NewRange(e.backend)
	var last htmljs.Node

	c := e.tracker.Autorun(func(c *deps.Computation) {
		content := normalizeContent(fn())
		if contentEquals(content, last) {
			return
		}
		last = content

		if !c.FirstRun() {
			r.RemoveAll()
			e.observer.ContentRebuilt()
		}
		e.tracker.Nonreactive(func() {
			e.Materialize(content, dom.RangeParent(r), dom.Member{}, scope)
		})
	})
	r.OnDetach(c.Stop)

	dom.Place(e.backend, dom.RangeMember(r), parent, before)
}

// normalizeContent maps nully content to nil and unwraps a one-element Seq.
func normalizeContent(n htmljs.Node) htmljs.Node {
	if htmljs.IsNully(n) {
		return nil
	}
	if seq, ok := n.(htmljs.Seq); ok && len(seq) == 1 {
		return seq[0]
	}
	return n
}

// contentEquals reports whether a dynamic site can keep its current output.
// Scalars and raw markup compare by value; everything else is always
// considered changed.
func contentEquals(a, b htmljs.Node) bool {
	switch av := a.(type) {
	case nil:
		return b == nil
	case htmljs.Raw:
		bv, ok := b.(htmljs.Raw)
		return ok && av.Value == bv.Value
	case htmljs.String, htmljs.Number, htmljs.Bool:
		return a == b
	default:
		return false
	}
}

func (e *Engine) materializeTag(tag *htmljs.Tag, parent dom.Parent, before dom.Member, scope htmljs.Scope) {
	if tag == nil {
		errors.Raise(errors.CodeUnexpectedNode, "got a nil *Tag")
	}
	elem := e.backend.CreateElement(tag.Name)

	attrTag, children := tag, tag.Children
	if tag.Name == "textarea" {
		attrs := make(htmljs.Attrs, len(tag.Attrs)+1)
		for k, v := range tag.Attrs {
			attrs[k] = v
		}
		attrs["value"] = htmljs.Seq(tag.Children)
		attrTag = &htmljs.Tag{Name: tag.Name, Attrs: attrs, AttrFuncs: tag.AttrFuncs}
		children = nil
	}

	if attrTag.Attrs != nil || len(attrTag.AttrFuncs) > 0 {
		handlers := make(map[string]*AttributeHandler)
		c := e.tracker.Autorun(func(*deps.Computation) {
			e.reconcileAttributes(elem, attrTag, handlers, scope)
		})
		e.backend.OnRemoveElement(elem, c.Stop)
	}

	e.Materialize(htmljs.Seq(children), dom.ElementParent(elem), dom.Member{}, scope)
	e.place(elem, parent, before)
}

// reconcileAttributes evaluates the tag's attributes and applies the
// difference. A failure is reported and does not propagate, so one element
// cannot break its siblings.
func (e *Engine) reconcileAttributes(elem *html.Node, tag *htmljs.Tag, handlers map[string]*AttributeHandler, scope htmljs.Scope) {
	defer func() {
		if r := recover(); r != nil {
			err := errors.New(errors.CodeAttributeUpdate).Wrap(errors.FromPanic(r))
			e.report(err, "tag", tag.Name)
		}
	}()

	evaluated := htmljs.EvaluateAttributes(tag)
	values := make(map[string]*string, len(evaluated))
	for k, v := range evaluated {
		if v == nil {
			values[k] = nil
			continue
		}
		s := render.ToText(v, render.ModeString, scope)
		values[k] = &s
	}
	e.updateAttributes(elem, values, handlers)
}
