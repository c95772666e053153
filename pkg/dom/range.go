package dom

import (
	"slices"

	"golang.org/x/net/html"

	"github.com/vango-dev/spark/internal/errors"
)

// Member is one entry of a Range: either a single node or a nested range.
type Member struct {
	Node  *html.Node
	Range *Range
}

// NodeMember wraps a node as a Member.
func NodeMember(n *html.Node) Member { return Member{Node: n} }

// RangeMember wraps a range as a Member.
func RangeMember(r *Range) Member { return Member{Range: r} }

// IsZero reports whether m holds nothing.
func (m Member) IsZero() bool { return m.Node == nil && m.Range == nil }

func (m Member) same(o Member) bool {
	return m.Node == o.Node && m.Range == o.Range
}

func (m Member) firstNode() *html.Node {
	if m.Range != nil {
		return m.Range.FirstNode()
	}
	return m.Node
}

func (m Member) lastNode() *html.Node {
	if m.Range != nil {
		return m.Range.LastNode()
	}
	return m.Node
}

// Parent is an insertion target: an element or a range.
type Parent struct {
	Elem  *html.Node
	Range *Range
}

// ElementParent targets an element.
func ElementParent(e *html.Node) Parent { return Parent{Elem: e} }

// RangeParent targets a range.
func RangeParent(r *Range) Parent { return Parent{Range: r} }

// IsZero reports whether p targets nothing.
func (p Parent) IsZero() bool { return p.Elem == nil && p.Range == nil }

// Range is an ordered, mutable span of output.
//
// While attached, the range's nodes are contiguous children of one element.
// An attached range with no members holds an empty text node as its position
// marker; the marker is never reported as a member.
type Range struct {
	// Component is the component instance that owns this range, if any.
	Component any

	backend     Backend
	members     []Member
	elem        *html.Node
	parent      *Range
	placeholder *html.Node
	onDetach    []func()
	detached    bool

	// unhook unregisters the removal hook set by Insert on the host element.
	unhook func()
}

// NewRange creates an empty, unattached range.
func NewRange(b Backend) *Range {
	return &Range{backend: b}
}

// Backend returns the backend the range mutates nodes with.
func (r *Range) Backend() Backend { return r.backend }

// Members returns a copy of the member list.
func (r *Range) Members() []Member { return slices.Clone(r.members) }

// Len returns the number of members.
func (r *Range) Len() int { return len(r.members) }

// Attached reports whether the range's nodes live in an element.
func (r *Range) Attached() bool { return r.elem != nil }

// Detached reports whether Detach has run.
func (r *Range) Detached() bool { return r.detached }

// ParentElement returns the element holding the range's nodes, or nil.
func (r *Range) ParentElement() *html.Node { return r.elem }

// ParentRange returns the enclosing range when r is a member of one.
func (r *Range) ParentRange() *Range { return r.parent }

// FirstNode returns the first node of the range, the marker when attached
// and empty, or nil.
func (r *Range) FirstNode() *html.Node {
	if len(r.members) == 0 {
		return r.placeholder
	}
	return r.members[0].firstNode()
}

// LastNode returns the last node of the range, the marker when attached and
// empty, or nil.
func (r *Range) LastNode() *html.Node {
	if len(r.members) == 0 {
		return r.placeholder
	}
	return r.members[len(r.members)-1].lastNode()
}

// Nodes returns the range's nodes in order, flattening nested ranges and
// leaving out markers.
func (r *Range) Nodes() []*html.Node {
	var out []*html.Node
	r.collect(&out)
	return out
}

func (r *Range) collect(out *[]*html.Node) {
	for _, m := range r.members {
		if m.Range != nil {
			m.Range.collect(out)
		} else {
			*out = append(*out, m.Node)
		}
	}
}

// OnDetach registers fn to run once when the range is detached.
func (r *Range) OnDetach(fn func()) {
	if r.detached {
		fn()
		return
	}
	r.onDetach = append(r.onDetach, fn)
}

// Add inserts m before the member before, or appends when before is zero.
// When the range is attached, m's nodes are placed in the output as well.
func (r *Range) Add(m Member, before Member) {
	if m.IsZero() {
		return
	}
	idx := len(r.members)
	if !before.IsZero() {
		idx = r.indexOf(before)
		if idx < 0 {
			errors.Raise(errors.CodeNotAMember, "the reference member does not belong to this range")
		}
	}
	if m.Range != nil {
		if m.Range.parent != nil || m.Range.elem != nil {
			errors.Raise(errors.CodeAlreadyAttached, "a range can only be added once")
		}
		m.Range.parent = r
	}

	if r.elem != nil {
		var ref *html.Node
		if !before.IsZero() {
			ref = before.firstNode()
		} else if last := r.LastNode(); last != nil {
			ref = last.NextSibling
		}
		r.place(m, ref)
		r.dropPlaceholder()
	}
	r.members = slices.Insert(r.members, idx, m)
}

func (r *Range) indexOf(m Member) int {
	return slices.IndexFunc(r.members, m.same)
}

// place puts m's nodes into r's element before ref.
func (r *Range) place(m Member, ref *html.Node) {
	if m.Range != nil {
		m.Range.attach(r.elem, ref)
		return
	}
	r.backend.InsertBefore(r.elem, m.Node, ref)
}

// attach inserts every node of r into elem before ref.
func (r *Range) attach(elem, ref *html.Node) {
	r.elem = elem
	for _, m := range r.members {
		r.place(m, ref)
	}
	if len(r.members) == 0 {
		r.placeholder = r.backend.CreateText("")
		r.backend.InsertBefore(elem, r.placeholder, ref)
	}
}

func (r *Range) dropPlaceholder() {
	if r.placeholder == nil {
		return
	}
	r.backend.RemoveNode(r.placeholder)
	r.placeholder = nil
}

// RemoveAll removes every member from the output and the member list,
// detaching nested ranges. The range itself stays attached and its own
// OnDetach hooks do not run. Calling RemoveAll on an empty range is a no-op.
func (r *Range) RemoveAll() {
	if len(r.members) == 0 {
		return
	}
	var ref *html.Node
	if r.elem != nil {
		ref = r.LastNode().NextSibling
	}
	members := r.members
	r.members = nil
	for _, m := range members {
		r.remove(m)
	}
	if r.elem != nil {
		if ref != nil && ref.Parent != r.elem {
			ref = nil
		}
		r.placeholder = r.backend.CreateText("")
		r.backend.InsertBefore(r.elem, r.placeholder, ref)
	}
}

func (r *Range) remove(m Member) {
	if m.Range != nil {
		m.Range.Detach()
		return
	}
	r.backend.RemoveNode(m.Node)
}

// Detach removes the range and everything in it from the output and runs
// its OnDetach hooks. Later calls do nothing.
func (r *Range) Detach() {
	if r.detached {
		return
	}
	r.detached = true

	var after *html.Node
	if last := r.LastNode(); last != nil && r.elem != nil {
		after = last.NextSibling
	}
	members := r.members
	r.members = nil
	for _, m := range members {
		r.remove(m)
	}
	r.dropPlaceholder()

	if p := r.parent; p != nil {
		if i := p.indexOf(RangeMember(r)); i >= 0 {
			p.members = slices.Delete(p.members, i, i+1)
			if len(p.members) == 0 && p.elem != nil && !p.detached {
				if after != nil && after.Parent != p.elem {
					after = nil
				}
				p.members = nil
				p.placeholder = p.backend.CreateText("")
				p.backend.InsertBefore(p.elem, p.placeholder, after)
			}
		}
	}
	r.elem = nil
	if r.unhook != nil {
		r.unhook()
		r.unhook = nil
	}

	hooks := r.onDetach
	r.onDetach = nil
	for _, fn := range hooks {
		fn()
	}
}

// Insert attaches r to a parent, before the given member or at the end.
//
// Inserting into an element places r's nodes there and arranges for r to be
// detached when the element is removed. Inserting into a range adds r as a
// member of it.
func Insert(r *Range, p Parent, before Member) {
	switch {
	case p.Range != nil:
		p.Range.Add(RangeMember(r), before)
	case p.Elem != nil:
		if r.elem != nil || r.parent != nil {
			errors.Raise(errors.CodeAlreadyAttached, "a range can only be inserted once")
		}
		var ref *html.Node
		if !before.IsZero() {
			ref = before.firstNode()
		}
		r.attach(p.Elem, ref)
		r.unhook = r.backend.OnRemoveElement(p.Elem, r.Detach)
	default:
		errors.Raise(errors.CodeNoParent, "insert needs an element or range parent")
	}
}

// Place puts a member into a parent: nodes go straight into an element,
// ranges are inserted with Insert, and anything targeting a range is added
// to it.
func Place(b Backend, m Member, p Parent, before Member) {
	switch {
	case p.Range != nil:
		p.Range.Add(m, before)
	case m.Range != nil:
		Insert(m.Range, p, before)
	case p.Elem != nil:
		var ref *html.Node
		if !before.IsZero() {
			ref = before.firstNode()
		}
		b.InsertBefore(p.Elem, m.Node, ref)
	default:
		errors.Raise(errors.CodeNoParent, "place needs an element or range parent")
	}
}
