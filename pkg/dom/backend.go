package dom

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/vango-dev/spark/pkg/htmljs"
)

// Backend creates and mutates output nodes.
type Backend interface {
	// CreateElement creates an element, in the SVG namespace for known SVG
	// tag names.
	CreateElement(tag string) *html.Node
	CreateText(text string) *html.Node
	CreateComment(text string) *html.Node

	// ParseHTML parses markup into detached nodes.
	ParseHTML(markup string) ([]*html.Node, error)

	// InsertBefore inserts node into parent before the given child; a nil
	// before appends.
	InsertBefore(parent, node, before *html.Node)

	// RemoveNode detaches node from its parent and runs the removal hooks of
	// node and every descendant.
	RemoveNode(node *html.Node)

	// OnRemoveElement registers fn to run when elem, or an ancestor, is
	// removed through RemoveNode. The returned func unregisters fn; it is
	// safe to call after fn has run.
	OnRemoveElement(elem *html.Node, fn func()) (cancel func())

	SetAttribute(elem *html.Node, namespace, key, value string)
	RemoveAttribute(elem *html.Node, namespace, key string)
}

// HTMLBackend is a Backend over in-memory x/net/html nodes.
type HTMLBackend struct {
	hooks map[*html.Node][]*removeHook
}

type removeHook struct {
	fn func()
}

// NewHTMLBackend creates an HTMLBackend.
func NewHTMLBackend() *HTMLBackend {
	return &HTMLBackend{hooks: make(map[*html.Node][]*removeHook)}
}

// CreateElement implements Backend.
func (b *HTMLBackend) CreateElement(tag string) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	if htmljs.IsKnownSVGElement(tag) {
		n.Namespace = "svg"
	}
	return n
}

// CreateText implements Backend.
func (b *HTMLBackend) CreateText(text string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: text}
}

// CreateComment implements Backend.
func (b *HTMLBackend) CreateComment(text string) *html.Node {
	return &html.Node{Type: html.CommentNode, Data: text}
}

// ParseHTML implements Backend. Markup is parsed as the content of a body
// element.
func (b *HTMLBackend) ParseHTML(markup string) ([]*html.Node, error) {
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return nil, fmt.Errorf("parse markup: %w", err)
	}
	for _, n := range nodes {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
	}
	return nodes, nil
}

// InsertBefore implements Backend. A node that already has a parent is moved.
func (b *HTMLBackend) InsertBefore(parent, node, before *html.Node) {
	if node.Parent != nil {
		node.Parent.RemoveChild(node)
	}
	if before != nil && before.Parent != parent {
		before = nil
	}
	parent.InsertBefore(node, before)
}

// RemoveNode implements Backend.
func (b *HTMLBackend) RemoveNode(node *html.Node) {
	if node.Parent != nil {
		node.Parent.RemoveChild(node)
	}
	b.teardown(node)
}

// OnRemoveElement implements Backend.
func (b *HTMLBackend) OnRemoveElement(elem *html.Node, fn func()) func() {
	h := &removeHook{fn: fn}
	b.hooks[elem] = append(b.hooks[elem], h)
	return func() { b.cancelHook(elem, h) }
}

func (b *HTMLBackend) cancelHook(elem *html.Node, h *removeHook) {
	hooks := b.hooks[elem]
	i := slices.Index(hooks, h)
	if i < 0 {
		return
	}
	hooks = slices.Delete(hooks, i, i+1)
	if len(hooks) == 0 {
		delete(b.hooks, elem)
		return
	}
	b.hooks[elem] = hooks
}

// HookCount returns the number of removal hooks still registered.
func (b *HTMLBackend) HookCount() int {
	n := 0
	for _, hooks := range b.hooks {
		n += len(hooks)
	}
	return n
}

// teardown runs the hooks of node and its descendants. The subtree is
// snapshotted first because hooks may remove further nodes.
func (b *HTMLBackend) teardown(node *html.Node) {
	if len(b.hooks) == 0 {
		return
	}
	var subtree []*html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		subtree = append(subtree, n)
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(node)

	for _, n := range subtree {
		hooks, ok := b.hooks[n]
		if !ok {
			continue
		}
		delete(b.hooks, n)
		for _, h := range hooks {
			h.fn()
		}
	}
}

// SetAttribute implements Backend.
func (b *HTMLBackend) SetAttribute(elem *html.Node, namespace, key, value string) {
	for i := range elem.Attr {
		if elem.Attr[i].Namespace == namespace && elem.Attr[i].Key == key {
			elem.Attr[i].Val = value
			return
		}
	}
	elem.Attr = append(elem.Attr, html.Attribute{Namespace: namespace, Key: key, Val: value})
}

// RemoveAttribute implements Backend.
func (b *HTMLBackend) RemoveAttribute(elem *html.Node, namespace, key string) {
	for i := range elem.Attr {
		if elem.Attr[i].Namespace == namespace && elem.Attr[i].Key == key {
			elem.Attr = append(elem.Attr[:i], elem.Attr[i+1:]...)
			return
		}
	}
}

// GetAttribute returns the value of an attribute and whether it is present.
func GetAttribute(elem *html.Node, namespace, key string) (string, bool) {
	for _, a := range elem.Attr {
		if a.Namespace == namespace && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}
