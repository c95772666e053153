package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vango-dev/spark/internal/errors"
	"github.com/vango-dev/spark/pkg/component"
	"github.com/vango-dev/spark/pkg/htmljs"
)

// TextMode selects how ToText escapes text.
type TextMode uint8

const (
	// ModeString escapes nothing.
	ModeString TextMode = iota + 1
	// ModeRCData escapes & and <.
	ModeRCData
	// ModeAttribute escapes & and ".
	ModeAttribute
)

// String returns a human-readable name for the mode.
func (m TextMode) String() string {
	switch m {
	case ModeString:
		return "string"
	case ModeRCData:
		return "rcdata"
	case ModeAttribute:
		return "attribute"
	default:
		return fmt.Sprintf("TextMode(%d)", uint8(m))
	}
}

func (m TextMode) valid() bool {
	return m >= ModeString && m <= ModeAttribute
}

// ToHTML renders node as HTML under scope.
func ToHTML(node htmljs.Node, scope htmljs.Scope) string {
	var b strings.Builder
	writeHTML(&b, node, scope)
	return b.String()
}

// ToText renders node as text in the given mode under scope.
func ToText(node htmljs.Node, mode TextMode, scope htmljs.Scope) string {
	if !mode.valid() {
		errors.Raise(errors.CodeUnknownTextMode, "mode %s", mode)
	}
	var b strings.Builder
	writeText(&b, node, mode, scope)
	return b.String()
}

// ToRawText renders node as unescaped text.
func ToRawText(node htmljs.Node, scope htmljs.Scope) string {
	return ToText(node, ModeString, scope)
}

func writeHTML(b *strings.Builder, node htmljs.Node, scope htmljs.Scope) {
	switch n := node.(type) {
	case nil:
	case htmljs.String, htmljs.Number, htmljs.Bool:
		s, _ := htmljs.ScalarString(n)
		b.WriteString(escapeRCData(s))
	case htmljs.Seq:
		for _, child := range n {
			writeHTML(b, child, scope)
		}
	case htmljs.Func:
		if n != nil {
			writeHTML(b, n(), scope)
		}
	case *htmljs.Tag:
		writeTag(b, n, scope)
	case htmljs.Include:
		inst := component.Instantiate(n.Kind, scope)
		writeHTML(b, inst.Content(), inst)
	case htmljs.CharRef:
		b.WriteString(n.HTML)
	case htmljs.Comment:
		b.WriteString("<!--")
		b.WriteString(n.Sanitized())
		b.WriteString("-->")
	case htmljs.Raw:
		b.WriteString(n.Value)
	case htmljs.Scoped:
		writeHTML(b, n.Content, component.ResolveScope(n.Scope))
	default:
		errors.Raise(errors.CodeUnexpectedNode, "got %T", node)
	}
}

func writeTag(b *strings.Builder, tag *htmljs.Tag, scope htmljs.Scope) {
	if tag == nil {
		errors.Raise(errors.CodeUnexpectedNode, "got a nil *Tag")
	}

	b.WriteByte('<')
	b.WriteString(tag.Name)
	writeAttrs(b, htmljs.EvaluateAttributes(tag), scope)
	b.WriteByte('>')

	if tag.Name == "textarea" {
		var content strings.Builder
		for _, child := range tag.Children {
			writeText(&content, child, ModeRCData, scope)
		}
		// The parser drops one leading newline inside a textarea.
		if strings.HasPrefix(content.String(), "\n") {
			b.WriteByte('\n')
		}
		b.WriteString(content.String())
	} else {
		for _, child := range tag.Children {
			writeHTML(b, child, scope)
		}
	}

	if len(tag.Children) > 0 || !htmljs.IsVoidElement(tag.Name) {
		b.WriteString("</")
		b.WriteString(tag.Name)
		b.WriteByte('>')
	}
}

// writeAttrs writes attributes sorted by name. Absent (nil) values are
// skipped.
func writeAttrs(b *strings.Builder, attrs htmljs.Attrs, scope htmljs.Scope) {
	if len(attrs) == 0 {
		return
	}
	keys := make([]string, 0, len(attrs))
	for k, v := range attrs {
		if v != nil {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	for _, k := range keys {
		b.WriteByte(' ')
		b.WriteString(k)
		b.WriteString(`="`)
		writeText(b, attrs[k], ModeAttribute, scope)
		b.WriteByte('"')
	}
}

func writeText(b *strings.Builder, node htmljs.Node, mode TextMode, scope htmljs.Scope) {
	switch n := node.(type) {
	case nil:
	case htmljs.String, htmljs.Number, htmljs.Bool:
		s, _ := htmljs.ScalarString(n)
		switch mode {
		case ModeRCData:
			s = escapeRCData(s)
		case ModeAttribute:
			s = escapeAttr(s)
		}
		b.WriteString(s)
	case htmljs.Seq:
		for _, child := range n {
			writeText(b, child, mode, scope)
		}
	case htmljs.Func:
		if n != nil {
			writeText(b, n(), mode, scope)
		}
	case *htmljs.Tag:
		if mode != ModeString {
			errors.Raise(errors.CodeTagInText, "<%s> in %s text", tagName(n), mode)
		}
		writeTag(b, n, scope)
	case htmljs.Include:
		inst := component.Instantiate(n.Kind, scope)
		writeText(b, inst.Content(), mode, inst)
	case htmljs.CharRef:
		if mode == ModeString {
			b.WriteString(n.Str)
		} else {
			b.WriteString(n.HTML)
		}
	case htmljs.Comment:
		// Comments carry no text.
	case htmljs.Raw:
		b.WriteString(n.Value)
	case htmljs.Scoped:
		writeText(b, n.Content, mode, component.ResolveScope(n.Scope))
	default:
		errors.Raise(errors.CodeUnexpectedNode, "got %T", node)
	}
}

func tagName(t *htmljs.Tag) string {
	if t == nil {
		return "nil"
	}
	return t.Name
}
