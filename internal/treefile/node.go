package treefile

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type nodeKind uint8

const (
	kindNull nodeKind = iota
	kindText
	kindNumber
	kindBool
	kindSeq
	kindTag
	kindInclude
	kindComment
	kindRaw
	kindCharRef
	kindField
	kindVar
)

// Node is one decoded content node of a tree document.
type Node struct {
	kind     nodeKind
	line     int
	text     string
	number   float64
	boolean  bool
	children []Node
	attrs    map[string]Node
	data     map[string]any
	charref  CharRef
}

// CharRef is a character reference as written in a document.
type CharRef struct {
	HTML string `yaml:"html"`
	Str  string `yaml:"str"`
}

// rawNode holds the mapping form of a node.
type rawNode struct {
	Tag      string          `yaml:"tag"`
	Attrs    map[string]Node `yaml:"attrs"`
	Children Node            `yaml:"children"`
	Include  string          `yaml:"include"`
	Data     map[string]any  `yaml:"data"`
	Comment  *string         `yaml:"comment"`
	Raw      *string         `yaml:"raw"`
	CharRef  *CharRef        `yaml:"charref"`
	Field    string          `yaml:"field"`
	Var      string          `yaml:"var"`
}

var nodeKeys = map[string]bool{
	"tag": true, "attrs": true, "children": true,
	"include": true, "data": true,
	"comment": true, "raw": true, "charref": true,
	"field": true, "var": true,
}

// Line returns the source line the node was decoded from.
func (n Node) Line() int { return n.line }

// IsNull reports whether the node is empty.
func (n Node) IsNull() bool { return n.kind == kindNull }

// UnmarshalYAML implements yaml.Unmarshaler.
func (n *Node) UnmarshalYAML(value *yaml.Node) error {
	n.line = value.Line
	switch value.Kind {
	case yaml.AliasNode:
		return n.UnmarshalYAML(value.Alias)
	case yaml.ScalarNode:
		return n.decodeScalar(value)
	case yaml.SequenceNode:
		n.kind = kindSeq
		n.children = make([]Node, len(value.Content))
		for i, item := range value.Content {
			if err := n.children[i].UnmarshalYAML(item); err != nil {
				return err
			}
		}
		return nil
	case yaml.MappingNode:
		return n.decodeMapping(value)
	}
	return fmt.Errorf("line %d: unsupported content node", value.Line)
}

func (n *Node) decodeScalar(value *yaml.Node) error {
	switch value.Tag {
	case "!!null":
		n.kind = kindNull
	case "!!int":
		var i int64
		if err := value.Decode(&i); err == nil {
			n.kind = kindNumber
			n.number = float64(i)
			return nil
		}
		fallthrough
	case "!!float":
		f, err := strconv.ParseFloat(strings.ReplaceAll(value.Value, "_", ""), 64)
		if err != nil {
			return fmt.Errorf("line %d: invalid number %q", value.Line, value.Value)
		}
		n.kind = kindNumber
		n.number = f
	case "!!bool":
		var b bool
		if err := value.Decode(&b); err != nil {
			return fmt.Errorf("line %d: %w", value.Line, err)
		}
		n.kind = kindBool
		n.boolean = b
	default:
		n.kind = kindText
		n.text = value.Value
	}
	return nil
}

func (n *Node) decodeMapping(value *yaml.Node) error {
	for i := 0; i < len(value.Content); i += 2 {
		key := value.Content[i].Value
		if !nodeKeys[key] {
			return fmt.Errorf("line %d: unknown node key %q", value.Content[i].Line, key)
		}
	}

	var raw rawNode
	if err := value.Decode(&raw); err != nil {
		return err
	}

	var set []string
	if raw.Tag != "" {
		set = append(set, "tag")
	}
	if raw.Include != "" {
		set = append(set, "include")
	}
	if raw.Comment != nil {
		set = append(set, "comment")
	}
	if raw.Raw != nil {
		set = append(set, "raw")
	}
	if raw.CharRef != nil {
		set = append(set, "charref")
	}
	if raw.Field != "" {
		set = append(set, "field")
	}
	if raw.Var != "" {
		set = append(set, "var")
	}
	if len(set) != 1 {
		sort.Strings(set)
		return fmt.Errorf("line %d: a node needs exactly one of tag, include, comment, raw, charref, field or var (got %v)", value.Line, set)
	}
	if (raw.Attrs != nil || !raw.Children.IsNull()) && raw.Tag == "" {
		return fmt.Errorf("line %d: attrs and children are only allowed on tag nodes", value.Line)
	}
	if raw.Data != nil && raw.Include == "" {
		return fmt.Errorf("line %d: data is only allowed on include nodes", value.Line)
	}

	switch set[0] {
	case "tag":
		n.kind = kindTag
		n.text = raw.Tag
		n.attrs = raw.Attrs
		for name, attr := range raw.Attrs {
			switch attr.kind {
			case kindSeq, kindTag, kindInclude, kindComment, kindRaw:
				return fmt.Errorf("line %d: attribute %q must be text, a charref, a field or a var", attr.line, name)
			}
		}
		if !raw.Children.IsNull() {
			if raw.Children.kind == kindSeq {
				n.children = raw.Children.children
			} else {
				n.children = []Node{raw.Children}
			}
		}
		if strings.EqualFold(raw.Tag, "textarea") {
			if err := checkTextOnly(n.children); err != nil {
				return err
			}
		}
	case "include":
		n.kind = kindInclude
		n.text = raw.Include
		n.data = raw.Data
	case "comment":
		n.kind = kindComment
		n.text = *raw.Comment
	case "raw":
		n.kind = kindRaw
		n.text = *raw.Raw
	case "charref":
		n.kind = kindCharRef
		n.charref = *raw.CharRef
	case "field":
		n.kind = kindField
		n.text = raw.Field
	case "var":
		n.kind = kindVar
		n.text = raw.Var
	}
	return nil
}

// checkTextOnly rejects nodes that cannot render as element text, as the
// content of a textarea becomes its value.
func checkTextOnly(nodes []Node) error {
	for _, c := range nodes {
		switch c.kind {
		case kindSeq:
			if err := checkTextOnly(c.children); err != nil {
				return err
			}
		case kindTag, kindInclude, kindComment:
			return fmt.Errorf("line %d: textarea content must be text, a charref, raw text, a field or a var", c.line)
		}
	}
	return nil
}

// walk calls fn for n and every node below it, including attribute values.
func (n Node) walk(fn func(Node) error) error {
	if err := fn(n); err != nil {
		return err
	}
	for _, c := range n.children {
		if err := c.walk(fn); err != nil {
			return err
		}
	}
	for _, name := range sortedNames(n.attrs) {
		if err := n.attrs[name].walk(fn); err != nil {
			return err
		}
	}
	return nil
}

func sortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
