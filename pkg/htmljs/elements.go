package htmljs

// voidElements are elements that have no closing tag when they have no
// children.
var voidElements = map[string]bool{
	"area":    true,
	"base":    true,
	"br":      true,
	"col":     true,
	"command": true,
	"embed":   true,
	"hr":      true,
	"img":     true,
	"input":   true,
	"keygen":  true,
	"link":    true,
	"meta":    true,
	"param":   true,
	"source":  true,
	"track":   true,
	"wbr":     true,
}

// IsVoidElement returns true if the tag is a void element.
func IsVoidElement(tag string) bool {
	return voidElements[tag]
}

// booleanAttrs are attributes whose presence alone carries their meaning.
var booleanAttrs = map[string]bool{
	"allowfullscreen": true,
	"async":           true,
	"autofocus":       true,
	"autoplay":        true,
	"checked":         true,
	"controls":        true,
	"default":         true,
	"defer":           true,
	"disabled":        true,
	"formnovalidate":  true,
	"hidden":          true,
	"ismap":           true,
	"itemscope":       true,
	"loop":            true,
	"multiple":        true,
	"muted":           true,
	"nomodule":        true,
	"novalidate":      true,
	"open":            true,
	"playsinline":     true,
	"readonly":        true,
	"required":        true,
	"reversed":        true,
	"selected":        true,
}

// IsBooleanAttr returns true if the attribute is a boolean attribute.
func IsBooleanAttr(name string) bool {
	return booleanAttrs[name]
}

// svgElements are tag names created in the SVG namespace. Names that are also
// HTML elements (a, font, image, script, style, title) are left out so they
// keep their HTML meaning.
var svgElements = map[string]bool{}

func init() {
	for _, name := range []string{
		"altGlyph", "altGlyphDef", "altGlyphItem", "animate", "animateColor",
		"animateMotion", "animateTransform", "circle", "clipPath",
		"color-profile", "cursor", "defs", "desc", "ellipse", "feBlend",
		"feColorMatrix", "feComponentTransfer", "feComposite",
		"feConvolveMatrix", "feDiffuseLighting", "feDisplacementMap",
		"feDistantLight", "feFlood", "feFuncA", "feFuncB", "feFuncG",
		"feFuncR", "feGaussianBlur", "feImage", "feMerge", "feMergeNode",
		"feMorphology", "feOffset", "fePointLight", "feSpecularLighting",
		"feSpotLight", "feTile", "feTurbulence", "filter", "font-face",
		"font-face-format", "font-face-name", "font-face-src",
		"font-face-uri", "foreignObject", "g", "glyph", "glyphRef", "hkern",
		"line", "linearGradient", "marker", "mask", "metadata",
		"missing-glyph", "path", "pattern", "polygon", "polyline",
		"radialGradient", "rect", "set", "stop", "svg", "switch", "symbol",
		"text", "textPath", "tref", "tspan", "use", "view", "vkern",
	} {
		svgElements[name] = true
	}
}

// IsKnownSVGElement returns true if the tag is created in the SVG namespace.
func IsKnownSVGElement(tag string) bool {
	return svgElements[tag]
}

// H creates a tag. Arguments can be: nil, Attrs, func() Attrs, func() Node,
// Node, []Node, or a plain string (converted to String).
func H(name string, args ...any) *Tag {
	tag := &Tag{Name: name}
	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			continue
		case Attrs:
			if tag.Attrs == nil {
				tag.Attrs = make(Attrs, len(v))
			}
			for k, val := range v {
				tag.Attrs[k] = val
			}
		case func() Attrs:
			tag.AttrFuncs = append(tag.AttrFuncs, v)
		case func() Node:
			tag.Children = append(tag.Children, Func(v))
		case string:
			tag.Children = append(tag.Children, String(v))
		case []Node:
			tag.Children = append(tag.Children, v...)
		case Node:
			tag.Children = append(tag.Children, v)
		}
	}
	return tag
}

// Div creates a div element.
func Div(args ...any) *Tag { return H("div", args...) }

// Span creates a span element.
func Span(args ...any) *Tag { return H("span", args...) }

// P creates a paragraph element.
func P(args ...any) *Tag { return H("p", args...) }

// Ul creates an unordered list element.
func Ul(args ...any) *Tag { return H("ul", args...) }

// Li creates a list item element.
func Li(args ...any) *Tag { return H("li", args...) }

// Br creates a line break element.
func Br(args ...any) *Tag { return H("br", args...) }

// Input creates an input element.
func Input(args ...any) *Tag { return H("input", args...) }

// Textarea creates a textarea element. Its children become its value.
func Textarea(args ...any) *Tag { return H("textarea", args...) }

// Svg creates an svg element.
func Svg(args ...any) *Tag { return H("svg", args...) }

// Text is shorthand for String.
func Text(s string) String { return String(s) }

// Fragment groups nodes into a Seq, dropping nil entries.
func Fragment(nodes ...Node) Seq {
	seq := make(Seq, 0, len(nodes))
	for _, n := range nodes {
		if n != nil {
			seq = append(seq, n)
		}
	}
	return seq
}
