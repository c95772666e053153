package component

import (
	"fmt"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// TemplateView is the handle lifecycle callbacks receive. Lookups read the
// instance's output range at call time, so they see the current output.
type TemplateView struct {
	inst *Instance
}

// Instance returns the instance behind the view.
func (v *TemplateView) Instance() *Instance { return v.inst }

// Data returns the instance's data context.
func (v *TemplateView) Data() any { return v.inst.Data() }

// FirstNode returns the first output node, or nil before rendering.
func (v *TemplateView) FirstNode() *html.Node {
	if v.inst.rng == nil {
		return nil
	}
	return v.inst.rng.FirstNode()
}

// LastNode returns the last output node, or nil before rendering.
func (v *TemplateView) LastNode() *html.Node {
	if v.inst.rng == nil {
		return nil
	}
	return v.inst.rng.LastNode()
}

// FindAll returns every element in the instance's output matching the CSS
// selector, in document order.
func (v *TemplateView) FindAll(selector string) ([]*html.Node, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("compile selector %q: %w", selector, err)
	}
	if v.inst.rng == nil {
		return nil, nil
	}
	var out []*html.Node
	for _, n := range v.inst.rng.Nodes() {
		if n.Type != html.ElementNode {
			continue
		}
		out = append(out, sel.MatchAll(n)...)
	}
	return out, nil
}

// Find returns the first element matching the CSS selector, or nil.
func (v *TemplateView) Find(selector string) (*html.Node, error) {
	all, err := v.FindAll(selector)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return all[0], nil
}
