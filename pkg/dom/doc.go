// Package dom holds live output: the Backend that creates and mutates nodes,
// and Range, an ordered span of attached nodes that can be cleared and
// rebuilt in place.
//
// Output nodes are golang.org/x/net/html nodes. HTMLBackend builds them in
// memory, parses raw markup with the HTML5 fragment parser and runs removal
// hooks when an element leaves the tree, which is how reactive computations
// wired to an element get stopped.
//
// # Ranges
//
// A Range owns its members (nodes or nested ranges). Its first and last node
// are derived from its members, so they always match the current content:
//
//	r := dom.NewRange(backend)
//	r.Add(dom.NodeMember(backend.CreateText("hi")), dom.Member{})
//	dom.Insert(r, dom.ElementParent(body), dom.Member{})
//	r.RemoveAll() // body is empty again, r stays attached
//	r.Detach()    // OnDetach hooks run exactly once
//
// An attached range with no members keeps an empty text node as a position
// marker so later additions land in the right place.
package dom
