// Package component defines component kinds and instances.
//
// A Kind is an immutable blueprint: a name plus a flattened set of
// Capabilities. Extending a kind copies its capabilities and overrides the
// ones the extension sets, so an instance never walks a chain of bases.
//
//	card := component.Define("card", component.Capabilities{
//		Render: func(i *component.Instance) htmljs.Node {
//			return htmljs.Div(htmljs.Attrs{"class": htmljs.String("card")}, "hi")
//		},
//	})
//	inst := component.Instantiate(card, nil)
//
// Instances move through Uninitialized, Initialized, Rendered and Destroyed
// in that order only. Rendering itself lives in package ui; this package only
// tracks state and exposes the TemplateView passed to lifecycle callbacks.
package component
