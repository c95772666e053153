package ui

import (
	"io"
	"log/slog"
	"testing"

	"golang.org/x/net/html"

	"github.com/vango-dev/spark/internal/errors"
	"github.com/vango-dev/spark/pkg/deps"
	"github.com/vango-dev/spark/pkg/dom"
)

type recordingObserver struct {
	rebuilt   int
	sets      int
	removes   int
	rendered  []string
	destroyed []string
	errors    []string
}

func (o *recordingObserver) ContentRebuilt() { o.rebuilt++ }

func (o *recordingObserver) AttributeChanged(op string) {
	if op == AttrSet {
		o.sets++
	} else {
		o.removes++
	}
}

func (o *recordingObserver) ComponentRendered(kind string) {
	o.rendered = append(o.rendered, kind)
}

func (o *recordingObserver) ComponentDestroyed(kind string) {
	o.destroyed = append(o.destroyed, kind)
}

func (o *recordingObserver) ErrorReported(code string) {
	o.errors = append(o.errors, code)
}

// recordingBackend counts attribute mutations per key.
type recordingBackend struct {
	*dom.HTMLBackend
	sets    map[string]int
	removes map[string]int
}

func newRecordingBackend() *recordingBackend {
	return &recordingBackend{
		HTMLBackend: dom.NewHTMLBackend(),
		sets:        make(map[string]int),
		removes:     make(map[string]int),
	}
}

func (b *recordingBackend) SetAttribute(elem *html.Node, namespace, key, value string) {
	b.sets[key]++
	b.HTMLBackend.SetAttribute(elem, namespace, key, value)
}

func (b *recordingBackend) RemoveAttribute(elem *html.Node, namespace, key string) {
	b.removes[key]++
	b.HTMLBackend.RemoveAttribute(elem, namespace, key)
}

type testEngine struct {
	*Engine
	tracker  *deps.Scheduler
	backend  *dom.HTMLBackend
	observer *recordingObserver
	errs     []error
	body     *html.Node
}

func newTestEngine(t *testing.T) *testEngine {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	te := &testEngine{
		tracker:  deps.New(deps.WithLogger(logger)),
		backend:  dom.NewHTMLBackend(),
		observer: &recordingObserver{},
	}
	te.Engine = New(Config{
		Tracker:  te.tracker,
		Backend:  te.backend,
		Logger:   logger,
		Observer: te.observer,
		OnError:  func(err error) { te.errs = append(te.errs, err) },
	})
	te.body = te.backend.CreateElement("body")
	return te
}

func (te *testEngine) html() string {
	return dom.InnerHTML(te.body)
}

func expectPanicCode(t *testing.T, code string, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		if r == nil {
			t.Fatalf("expected panic with %s", code)
		}
		err, ok := r.(error)
		if !ok || !errors.HasCode(err, code) {
			t.Fatalf("panic = %v, want code %s", r, code)
		}
	}()
	fn()
}

func ptr(s string) *string { return &s }
