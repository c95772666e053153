package component

import (
	"reflect"

	"github.com/vango-dev/spark/internal/errors"
	"github.com/vango-dev/spark/pkg/htmljs"
)

// Capabilities are the optional hooks a kind provides.
type Capabilities struct {
	// Init runs once during instantiation, before Created.
	Init func(inst *Instance)

	// Created runs after Init with the instance's view.
	Created func(view *TemplateView)

	// Destroyed runs when the instance's output is detached.
	Destroyed func(view *TemplateView)

	// Render produces the instance's content. A kind without Render
	// produces nothing.
	Render func(inst *Instance) htmljs.Node

	// Data returns the data context of the instance.
	Data func() any

	// TemplateWith marks a kind whose instances only redirect data scope.
	// Scoped content skips one such instance when resolving its scope.
	TemplateWith bool
}

// merge returns c with every capability set in o overriding c's.
func (c Capabilities) merge(o Capabilities) Capabilities {
	if o.Init != nil {
		c.Init = o.Init
	}
	if o.Created != nil {
		c.Created = o.Created
	}
	if o.Destroyed != nil {
		c.Destroyed = o.Destroyed
	}
	if o.Render != nil {
		c.Render = o.Render
	}
	if o.Data != nil {
		c.Data = o.Data
	}
	if o.TemplateWith {
		c.TemplateWith = true
	}
	return c
}

// Kind is a component blueprint. Kinds are immutable; Extend returns a new
// one.
type Kind struct {
	name string
	base *Kind
	caps Capabilities
}

// Define creates a kind with the given capabilities.
func Define(name string, caps Capabilities) *Kind {
	return &Kind{name: name, caps: caps}
}

// Block creates an anonymous kind that renders with fn.
func Block(fn func(inst *Instance) htmljs.Node) *Kind {
	return Define("block", Capabilities{Render: fn})
}

// KindName implements htmljs.Kind.
func (k *Kind) KindName() string { return k.name }

// Base returns the kind k was extended from, or nil.
func (k *Kind) Base() *Kind { return k.base }

// Capabilities returns the flattened capabilities of k.
func (k *Kind) Capabilities() Capabilities { return k.caps }

// Extend returns a new kind with k's capabilities overridden by caps.
func (k *Kind) Extend(caps Capabilities) *Kind {
	return &Kind{name: k.name, base: k, caps: k.caps.merge(caps)}
}

// WithData returns a kind whose data accessor always returns data.
// Function-valued data is rejected: it is ambiguous whether the function or
// its result is the data.
func (k *Kind) WithData(data any) *Kind {
	if data != nil && reflect.TypeOf(data).Kind() == reflect.Func {
		errors.Raise(errors.CodeFunctionData, "got %T", data)
	}
	return k.Extend(Capabilities{Data: func() any { return data }})
}

// AsKind checks that k is an uninstantiated kind and returns it.
func AsKind(k htmljs.Kind) *Kind {
	switch v := k.(type) {
	case *Kind:
		if v == nil {
			errors.Raise(errors.CodeNotAKind, "got a nil *Kind")
		}
		return v
	case *Instance:
		if v == nil {
			errors.Raise(errors.CodeNotAKind, "got a nil *Instance")
		}
		errors.Raise(errors.CodeKindRequired, "got an instance of %q", v.kind.name)
	default:
		errors.Raise(errors.CodeNotAKind, "got %T", k)
	}
	return nil
}
