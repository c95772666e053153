// Package treefile decodes YAML content-tree documents into htmljs content
// and component kinds.
//
// A document declares reactive string variables, reusable components and a
// page:
//
//	title: Demo
//	vars:
//	  greeting: Hello
//	components:
//	  card:
//	    render:
//	      tag: div
//	      attrs: {class: card}
//	      children:
//	        - tag: h2
//	          children: {field: title}
//	        - {field: body}
//	page:
//	  - tag: h1
//	    children: {var: greeting}
//	  - include: card
//	    data: {title: First, body: Some text}
//
// Content nodes are written as YAML scalars (text, numbers, booleans), YAML
// sequences (fragments) or mappings with exactly one of the keys tag,
// include, comment, raw, charref, field or var.
package treefile
