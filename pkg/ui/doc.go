// Package ui materializes content trees into live output and keeps that
// output current as reactive data changes.
//
// An Engine ties together a deps.Scheduler, a dom.Backend and a logger.
// Materialize walks a tree once: dynamic content (htmljs.Func) gets its own
// dom.Range and computation, and an element with attributes gets a
// computation that reconciles its attribute set. Nothing else is ever
// revisited. When a dynamic site's value changes, only that site's range is
// cleared and rebuilt; tags and sequences always count as changed.
//
// Every computation the engine starts is stopped when the output it drives
// is detached: dynamic computations with their range, attribute
// computations with their element.
//
// # Rendering components
//
//	engine := ui.New(ui.Config{})
//	inst := engine.Render(counterKind, nil)
//	engine.Insert(inst, dom.ElementParent(body), dom.Member{})
//	...
//	engine.Tracker().Flush() // apply pending updates
//
// # Emboxed values
//
// Box shares one derived value between any number of readers and only
// signals them when the value actually changes:
//
//	total := ui.EmboxValue(engine.Tracker(), func() int { return a.Get() + b.Get() })
//	htmljs.Func(func() htmljs.Node { return htmljs.Number(total.Get()) })
package ui
