package ui

import (
	"slices"
	"sort"
	"strings"

	"golang.org/x/net/html"

	"github.com/vango-dev/spark/pkg/dom"
	"github.com/vango-dev/spark/pkg/htmljs"
)

// AttributeHandler applies one attribute of one element. Value is the value
// currently applied; nil means absent.
type AttributeHandler struct {
	Name  string
	Value *string

	update func(b dom.Backend, elem *html.Node, old, value *string)
}

// NewAttributeHandler picks the handler for name on elem: class lists,
// boolean attributes, textarea values and xlink attributes on SVG elements
// get dedicated handling; anything else is set or removed verbatim.
func NewAttributeHandler(elem *html.Node, name string) *AttributeHandler {
	h := &AttributeHandler{Name: name}
	switch {
	case name == "class":
		h.update = updateClass
	case htmljs.IsBooleanAttr(name):
		h.update = func(b dom.Backend, elem *html.Node, _, value *string) {
			if value == nil {
				b.RemoveAttribute(elem, "", name)
			} else {
				b.SetAttribute(elem, "", name, "")
			}
		}
	case name == "value" && elem.Data == "textarea":
		h.update = updateTextareaValue
	case elem.Namespace == "svg" && strings.HasPrefix(name, "xlink:"):
		key := strings.TrimPrefix(name, "xlink:")
		h.update = func(b dom.Backend, elem *html.Node, _, value *string) {
			setOrRemove(b, elem, "xlink", key, value)
		}
	default:
		h.update = func(b dom.Backend, elem *html.Node, _, value *string) {
			setOrRemove(b, elem, "", name, value)
		}
	}
	return h
}

// Update applies the change from old to value.
func (h *AttributeHandler) Update(b dom.Backend, elem *html.Node, old, value *string) {
	h.update(b, elem, old, value)
}

func setOrRemove(b dom.Backend, elem *html.Node, namespace, key string, value *string) {
	if value == nil {
		b.RemoveAttribute(elem, namespace, key)
		return
	}
	b.SetAttribute(elem, namespace, key, *value)
}

// updateClass diffs class tokens so classes added to the element by other
// code survive.
func updateClass(b dom.Backend, elem *html.Node, old, value *string) {
	var oldTokens, newTokens []string
	if old != nil {
		oldTokens = strings.Fields(*old)
	}
	if value != nil {
		newTokens = strings.Fields(*value)
	}
	current, _ := dom.GetAttribute(elem, "", "class")

	var tokens []string
	for _, t := range strings.Fields(current) {
		if slices.Contains(oldTokens, t) && !slices.Contains(newTokens, t) {
			continue
		}
		tokens = append(tokens, t)
	}
	for _, t := range newTokens {
		if !slices.Contains(tokens, t) {
			tokens = append(tokens, t)
		}
	}

	if len(tokens) == 0 {
		b.RemoveAttribute(elem, "", "class")
		return
	}
	b.SetAttribute(elem, "", "class", strings.Join(tokens, " "))
}

// updateTextareaValue replaces the textarea's text content.
func updateTextareaValue(b dom.Backend, elem *html.Node, _, value *string) {
	for c := elem.FirstChild; c != nil; {
		next := c.NextSibling
		b.RemoveNode(c)
		c = next
	}
	if value != nil && *value != "" {
		b.InsertBefore(elem, b.CreateText(*value), nil)
	}
}

// UpdateAttributes applies attrs to elem, touching only attributes whose
// value changed. handlers holds the state of earlier calls for the same
// element and is updated in place; its keys are the attributes currently
// applied. A nil value in attrs removes the attribute.
func UpdateAttributes(b dom.Backend, elem *html.Node, attrs map[string]*string, handlers map[string]*AttributeHandler) {
	updateAttributes(b, elem, attrs, handlers, nil)
}

func (e *Engine) updateAttributes(elem *html.Node, attrs map[string]*string, handlers map[string]*AttributeHandler) {
	updateAttributes(e.backend, elem, attrs, handlers, e.observer.AttributeChanged)
}

func updateAttributes(b dom.Backend, elem *html.Node, attrs map[string]*string, handlers map[string]*AttributeHandler, notify func(op string)) {
	if handlers == nil {
		handlers = make(map[string]*AttributeHandler)
	}
	if notify == nil {
		notify = func(string) {}
	}

	for _, k := range sortedKeys(handlers) {
		if _, ok := attrs[k]; ok {
			continue
		}
		h := handlers[k]
		old := h.Value
		h.Value = nil
		h.update(b, elem, old, nil)
		delete(handlers, k)
		notify(AttrRemove)
	}

	for _, k := range sortedKeys(attrs) {
		value := attrs[k]
		h, ok := handlers[k]
		var old *string
		if !ok {
			if value == nil {
				continue
			}
			h = NewAttributeHandler(elem, k)
			handlers[k] = h
		} else {
			old = h.Value
		}
		if sameValue(old, value) {
			continue
		}
		h.Value = value
		h.update(b, elem, old, value)
		if value == nil {
			delete(handlers, k)
			notify(AttrRemove)
		} else {
			notify(AttrSet)
		}
	}
}

func sameValue(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
