package ui

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/spark/internal/errors"
	"github.com/vango-dev/spark/pkg/component"
	"github.com/vango-dev/spark/pkg/deps"
	"github.com/vango-dev/spark/pkg/dom"
	"github.com/vango-dev/spark/pkg/htmljs"
)

func TestRenderLifecycle(t *testing.T) {
	te := newTestEngine(t)
	var events []string
	count := deps.NewVar(te.tracker, 0)

	counter := component.Define("counter", component.Capabilities{
		Init: func(*component.Instance) { events = append(events, "init") },
		Created: func(v *component.TemplateView) {
			events = append(events, "created")
			if v.FirstNode() != nil {
				t.Error("no output exists before render")
			}
		},
		Render: func(*component.Instance) htmljs.Node {
			events = append(events, "render")
			return htmljs.Span(htmljs.Attrs{"class": htmljs.String("count")},
				htmljs.Func(func() htmljs.Node { return htmljs.Number(count.Get()) }))
		},
		Destroyed: func(*component.TemplateView) {
			events = append(events, "destroyed")
		},
	})

	inst := te.Render(counter, nil)
	if inst.State() != component.Rendered {
		t.Fatalf("state = %s, want Rendered", inst.State())
	}
	if inst.Range().Component != inst {
		t.Error("range should point back to its instance")
	}

	te.Insert(inst, dom.ElementParent(te.body), dom.Member{})
	if n, err := inst.View().Find(".count"); err != nil || n == nil {
		t.Errorf("Find(.count) = %v, %v", n, err)
	}
	count.Set(5)
	te.tracker.Flush()
	if got := te.html(); got != `<span class="count">5</span>` {
		t.Fatalf("output = %q", got)
	}

	te.backend.RemoveNode(te.body)
	if inst.State() != component.Destroyed {
		t.Errorf("state = %s, want Destroyed", inst.State())
	}
	if diff := cmp.Diff([]string{"init", "created", "render", "destroyed"}, events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"counter"}, te.observer.destroyed); diff != "" {
		t.Errorf("destroyed mismatch (-want +got):\n%s", diff)
	}

	count.Set(6)
	if te.tracker.Pending() {
		t.Error("a destroyed component must not leave computations behind")
	}
}

func TestNestedComponentsShareTeardown(t *testing.T) {
	te := newTestEngine(t)
	var childParent htmljs.Scope
	child := component.Define("child", component.Capabilities{
		Render: func(inst *component.Instance) htmljs.Node {
			childParent = inst.ParentScope()
			return htmljs.Li("c")
		},
	})
	parent := component.Define("parent", component.Capabilities{
		Render: func(*component.Instance) htmljs.Node {
			return htmljs.Ul(htmljs.Include{Kind: child}, htmljs.Include{Kind: child})
		},
	})

	inst := te.Mount(parent, nil, te.body)
	if got := te.html(); got != "<ul><li>c</li><li>c</li></ul>" {
		t.Fatalf("output = %q", got)
	}
	if childParent != inst {
		t.Error("child should be rendered under the parent instance")
	}
	if diff := cmp.Diff([]string{"child", "child", "parent"}, te.observer.rendered); diff != "" {
		t.Errorf("rendered mismatch (-want +got):\n%s", diff)
	}

	te.Unmount(inst)
	if inst.State() != component.Destroyed {
		t.Errorf("parent state = %s", inst.State())
	}
	if diff := cmp.Diff([]string{"child", "child", "parent"}, te.observer.destroyed); diff != "" {
		t.Errorf("destroyed mismatch (-want +got):\n%s", diff)
	}
	if te.body.FirstChild != nil {
		t.Error("unmount should remove all output")
	}
}

func TestRenderWithData(t *testing.T) {
	te := newTestEngine(t)
	greet := component.Define("greet", component.Capabilities{
		Render: func(inst *component.Instance) htmljs.Node {
			return htmljs.String("hi " + inst.Data().(string))
		},
	})

	inst := te.Mount(greet, "ada", te.body)
	if got := te.html(); got != "hi ada" {
		t.Errorf("output = %q", got)
	}
	if inst.View().Data() != "ada" {
		t.Errorf("Data() = %v", inst.View().Data())
	}

	expectPanicCode(t, errors.CodeFunctionData, func() {
		te.RenderWithData(greet, func() string { return "x" }, nil)
	})
	expectPanicCode(t, errors.CodeKindRequired, func() {
		te.RenderWithData(inst, "x", nil)
	})
	expectPanicCode(t, errors.CodeKindRequired, func() {
		te.Render(inst, nil)
	})
}

func TestInsertRequiresRenderedInstance(t *testing.T) {
	te := newTestEngine(t)
	inst := component.Instantiate(component.Define("x", component.Capabilities{}), nil)
	expectPanicCode(t, errors.CodeNotRendered, func() {
		te.Insert(inst, dom.ElementParent(te.body), dom.Member{})
	})
}

func TestRenderWithoutRenderCapability(t *testing.T) {
	te := newTestEngine(t)
	inst := te.Render(component.Define("empty", component.Capabilities{}), nil)
	te.Insert(inst, dom.ElementParent(te.body), dom.Member{})
	if inst.Range().Len() != 0 || te.html() != "" {
		t.Error("a kind without Render produces no content")
	}
}

func TestComponentInsideDynamicContent(t *testing.T) {
	te := newTestEngine(t)
	show := deps.NewVar(te.tracker, true)
	destroyed := 0
	item := component.Define("item", component.Capabilities{
		Render:    func(*component.Instance) htmljs.Node { return htmljs.String("item") },
		Destroyed: func(*component.TemplateView) { destroyed++ },
	})

	te.Materialize(htmljs.Func(func() htmljs.Node {
		if show.Get() {
			return htmljs.Include{Kind: item}
		}
		return htmljs.String("none")
	}), dom.ElementParent(te.body), dom.Member{}, nil)

	show.Set(false)
	te.tracker.Flush()
	if got := te.html(); got != "none" || destroyed != 1 {
		t.Errorf("output = %q, destroyed = %d", got, destroyed)
	}
}

func TestMountUnmountReleasesHooks(t *testing.T) {
	te := newTestEngine(t)
	label := deps.NewVar(te.tracker, "a")
	kind := component.Define("panel", component.Capabilities{
		Render: func(*component.Instance) htmljs.Node {
			return htmljs.Div(
				htmljs.Attrs{"class": htmljs.Func(func() htmljs.Node { return htmljs.String(label.Get()) })},
				htmljs.Func(func() htmljs.Node { return htmljs.String(label.Get()) }),
			)
		},
	})

	for i := 0; i < 100; i++ {
		inst := te.Mount(kind, nil, te.body)
		te.Unmount(inst)
	}

	if got := te.backend.HookCount(); got != 0 {
		t.Errorf("HookCount() after 100 mount/unmount cycles = %d, want 0", got)
	}
	if got := te.html(); got != "" {
		t.Errorf("body = %q, want empty", got)
	}
}

func TestNewDefaults(t *testing.T) {
	e := New(Config{})
	if e.Tracker() == nil || e.Backend() == nil {
		t.Fatal("New should fill in a tracker and backend")
	}
	body := e.Backend().CreateElement("body")
	e.Mount(component.Block(func(*component.Instance) htmljs.Node { return htmljs.String("ok") }), nil, body)
	if got := dom.InnerHTML(body); got != "ok" {
		t.Errorf("output = %q", got)
	}
}
