package component

import (
	"github.com/vango-dev/spark/internal/errors"
	"github.com/vango-dev/spark/pkg/dom"
	"github.com/vango-dev/spark/pkg/htmljs"
)

// State is the lifecycle state of an instance.
type State uint8

const (
	Uninitialized State = iota
	Initialized
	Rendered
	Destroyed
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case Uninitialized:
		return "Uninitialized"
	case Initialized:
		return "Initialized"
	case Rendered:
		return "Rendered"
	case Destroyed:
		return "Destroyed"
	default:
		return "Unknown"
	}
}

// Instance is one instantiation of a Kind.
type Instance struct {
	kind   *Kind
	state  State
	parent htmljs.Scope
	rng    *dom.Range
	view   *TemplateView
}

// Instantiate creates an instance of k under parent and runs its Init and
// Created capabilities. Passing an instance instead of a kind panics.
func Instantiate(k htmljs.Kind, parent htmljs.Scope) *Instance {
	kind := AsKind(k)
	inst := &Instance{kind: kind, parent: parent}
	inst.view = &TemplateView{inst: inst}

	if kind.caps.Init != nil {
		kind.caps.Init(inst)
	}
	inst.state = Initialized
	if kind.caps.Created != nil {
		kind.caps.Created(inst.view)
	}
	return inst
}

// KindName implements htmljs.Kind. Instances are never accepted where a kind
// is expected; implementing the interface lets that mistake be reported.
func (i *Instance) KindName() string { return i.kind.name }

// ParentScope implements htmljs.Scope.
func (i *Instance) ParentScope() htmljs.Scope { return i.parent }

// Kind returns the kind i was instantiated from.
func (i *Instance) Kind() *Kind { return i.kind }

// State returns the current lifecycle state.
func (i *Instance) State() State { return i.state }

// Range returns the instance's output range once rendered.
func (i *Instance) Range() *dom.Range { return i.rng }

// View returns the instance's template view.
func (i *Instance) View() *TemplateView { return i.view }

// Data returns the instance's data context, or nil.
func (i *Instance) Data() any {
	if i.kind.caps.Data == nil {
		return nil
	}
	return i.kind.caps.Data()
}

// Content returns what the instance renders.
func (i *Instance) Content() htmljs.Node {
	if i.kind.caps.Render == nil {
		return nil
	}
	return i.kind.caps.Render(i)
}

// MarkRendered records r as the instance's output and moves it to Rendered.
// An instance can be rendered once.
func (i *Instance) MarkRendered(r *dom.Range) {
	if i.state != Initialized {
		errors.Raise(errors.CodeKindRequired, "instance of %q is %s and cannot be rendered", i.kind.name, i.state)
	}
	i.rng = r
	r.Component = i
	i.state = Rendered
}

// Destroy moves the instance to Destroyed and runs its Destroyed
// capability. Later calls do nothing.
func (i *Instance) Destroy() {
	if i.state == Destroyed {
		return
	}
	i.state = Destroyed
	if i.kind.caps.Destroyed != nil {
		i.kind.caps.Destroyed(i.view)
	}
}

// ResolveScope returns the scope content should render under when placed in
// s. A template-with instance is transparent and resolves to its parent.
func ResolveScope(s htmljs.Scope) htmljs.Scope {
	if inst, ok := s.(*Instance); ok && inst != nil && inst.kind.caps.TemplateWith {
		return inst.parent
	}
	return s
}

// InTemplateScope wraps content so that it renders under the scope that
// included view's instance rather than the instance itself.
func InTemplateScope(view *TemplateView, content htmljs.Node) htmljs.Scoped {
	return htmljs.Scoped{Content: content, Scope: view.inst.parent}
}
