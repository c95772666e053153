// Package htmljs defines the content tree rendered by spark.
//
// A content tree is an immutable description of output: text, tags with
// attribute dictionaries, component references, raw markup and dynamic
// functions that produce more content when evaluated. Consumers (the live
// materializer in package ui and the static renderer in package render)
// dispatch with an exhaustive type switch over the variants below.
//
// # Variants
//
//	nil        no output
//	String     text
//	Number     numeric text
//	Bool       boolean text
//	Seq        ordered list of nodes
//	Func       dynamic content, re-evaluated reactively
//	*Tag       element with attributes and children
//	Include    reference to a component kind
//	CharRef    character reference (&amp; etc.)
//	Comment    HTML comment
//	Raw        trusted markup, parsed by the output backend
//	Scoped     content rendered under an alternate scope
//
// # Building trees
//
//	H("div", Attrs{"class": String("card")},
//	    H("h1", String("Title")),
//	    Func(func() Node { return String(title.Get()) }),
//	)
package htmljs
