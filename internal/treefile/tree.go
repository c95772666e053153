package treefile

import (
	"fmt"

	"github.com/vango-dev/spark/internal/errors"
	"github.com/vango-dev/spark/pkg/component"
	"github.com/vango-dev/spark/pkg/deps"
	"github.com/vango-dev/spark/pkg/htmljs"
)

// Tree is a document bound to a scheduler: its variables are reactive and
// its components are defined as kinds.
type Tree struct {
	doc   *Document
	vars  map[string]*deps.Var[string]
	kinds map[string]*component.Kind
	page  *component.Kind
}

// Bind creates the reactive variables and component kinds of d.
func (d *Document) Bind(tracker *deps.Scheduler) *Tree {
	t := &Tree{
		doc:   d,
		vars:  make(map[string]*deps.Var[string], len(d.Vars)),
		kinds: make(map[string]*component.Kind, len(d.Components)),
	}
	for name, value := range d.Vars {
		t.vars[name] = deps.NewVar(tracker, value)
	}
	for name, decl := range d.Components {
		decl := decl
		t.kinds[name] = component.Define(name, component.Capabilities{
			TemplateWith: decl.With,
			Render: func(inst *component.Instance) htmljs.Node {
				return t.build(decl.Render, inst.Data())
			},
		})
	}
	t.page = component.Block(func(*component.Instance) htmljs.Node {
		return t.build(d.Page, nil)
	})
	return t
}

// Document returns the document the tree was bound from.
func (t *Tree) Document() *Document { return t.doc }

// Page returns the kind rendering the document's page.
func (t *Tree) Page() *component.Kind { return t.page }

// Content returns the page as content, for static rendering.
func (t *Tree) Content() htmljs.Node {
	return htmljs.Include{Kind: t.page}
}

// Kind returns the named component kind.
func (t *Tree) Kind(name string) (*component.Kind, error) {
	k, ok := t.kinds[name]
	if !ok {
		return nil, errors.New(errors.CodeUnknownComponent).
			WithDetailf("component %q is not declared", name)
	}
	return k, nil
}

// Vars returns the current variable values.
func (t *Tree) Vars() map[string]string {
	out := make(map[string]string, len(t.vars))
	for name, v := range t.vars {
		out[name] = v.Peek()
	}
	return out
}

// Get returns the current value of a variable.
func (t *Tree) Get(name string) (string, error) {
	v, ok := t.vars[name]
	if !ok {
		return "", unknownVar(name)
	}
	return v.Peek(), nil
}

// Set changes a variable. Content reading it is invalidated and updates on
// the scheduler's next flush.
func (t *Tree) Set(name, value string) error {
	v, ok := t.vars[name]
	if !ok {
		return unknownVar(name)
	}
	v.Set(value)
	return nil
}

func unknownVar(name string) error {
	return errors.New(errors.CodeUnknownVar).WithDetailf("variable %q is not declared", name)
}

// build converts a document node into content. data is the data of the
// component whose render body n belongs to.
func (t *Tree) build(n Node, data any) htmljs.Node {
	switch n.kind {
	case kindNull:
		return nil
	case kindText:
		return htmljs.String(n.text)
	case kindNumber:
		return htmljs.Number(n.number)
	case kindBool:
		return htmljs.Bool(n.boolean)
	case kindSeq:
		return t.buildSeq(n.children, data)
	case kindTag:
		tag := &htmljs.Tag{Name: n.text}
		if len(n.attrs) > 0 {
			tag.Attrs = make(htmljs.Attrs, len(n.attrs))
			for name, attr := range n.attrs {
				tag.Attrs[name] = t.build(attr, data)
			}
		}
		if len(n.children) > 0 {
			tag.Children = t.buildSeq(n.children, data)
		}
		return tag
	case kindInclude:
		kind := t.kinds[n.text]
		if n.data != nil {
			kind = kind.WithData(n.data)
		}
		return htmljs.Include{Kind: kind}
	case kindComment:
		return htmljs.Comment{Value: n.text}
	case kindRaw:
		return htmljs.Raw{Value: n.text}
	case kindCharRef:
		return htmljs.CharRef{HTML: n.charref.HTML, Str: n.charref.Str}
	case kindField:
		return fieldValue(data, n.text)
	case kindVar:
		v := t.vars[n.text]
		return htmljs.Func(func() htmljs.Node {
			return htmljs.String(v.Get())
		})
	}
	panic(fmt.Sprintf("treefile: unhandled node kind %d", n.kind))
}

func (t *Tree) buildSeq(nodes []Node, data any) htmljs.Seq {
	seq := make(htmljs.Seq, len(nodes))
	for i, c := range nodes {
		seq[i] = t.build(c, data)
	}
	return seq
}

// fieldValue looks a field up in component data decoded from YAML.
func fieldValue(data any, name string) htmljs.Node {
	m, ok := data.(map[string]any)
	if !ok {
		return nil
	}
	switch v := m[name].(type) {
	case nil:
		return nil
	case string:
		return htmljs.String(v)
	case int:
		return htmljs.Number(v)
	case float64:
		return htmljs.Number(v)
	case bool:
		return htmljs.Bool(v)
	default:
		return htmljs.String(fmt.Sprint(v))
	}
}
