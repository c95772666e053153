package ui

import (
	"context"
	stderrors "errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/html"

	"github.com/vango-dev/spark/internal/errors"
	"github.com/vango-dev/spark/pkg/component"
	"github.com/vango-dev/spark/pkg/deps"
	"github.com/vango-dev/spark/pkg/dom"
	"github.com/vango-dev/spark/pkg/htmljs"
)

const tracerName = "github.com/vango-dev/spark/pkg/ui"

// Config configures an Engine. Zero values get defaults.
type Config struct {
	// Tracker schedules reactive computations. Defaults to deps.New().
	Tracker *deps.Scheduler

	// Backend creates and mutates output. Defaults to dom.NewHTMLBackend().
	Backend dom.Backend

	// Logger receives lifecycle and error logs. Defaults to slog.Default().
	Logger *slog.Logger

	// OnError is called with errors caught at a computation boundary, such
	// as a failed attribute update.
	OnError func(err error)

	// Tracer is used for render spans. Defaults to the global provider.
	Tracer trace.Tracer

	// Observer receives engine events.
	Observer Observer
}

// Engine materializes content trees.
type Engine struct {
	tracker  *deps.Scheduler
	backend  dom.Backend
	logger   *slog.Logger
	onError  func(error)
	tracer   trace.Tracer
	observer Observer
}

// New creates an Engine.
func New(cfg Config) *Engine {
	e := &Engine{
		tracker:  cfg.Tracker,
		backend:  cfg.Backend,
		logger:   cfg.Logger,
		onError:  cfg.OnError,
		tracer:   cfg.Tracer,
		observer: cfg.Observer,
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.tracker == nil {
		e.tracker = deps.New(deps.WithLogger(e.logger))
	}
	if e.backend == nil {
		e.backend = dom.NewHTMLBackend()
	}
	if e.tracer == nil {
		e.tracer = otel.Tracer(tracerName)
	}
	if e.observer == nil {
		e.observer = nopObserver{}
	}
	return e
}

// Tracker returns the engine's scheduler.
func (e *Engine) Tracker() *deps.Scheduler { return e.tracker }

// Backend returns the engine's output backend.
func (e *Engine) Backend() dom.Backend { return e.backend }

// Render instantiates kind under parent and materializes its content into a
// new range owned by the instance. Detaching the range destroys the
// instance.
func (e *Engine) Render(kind htmljs.Kind, parent htmljs.Scope) *component.Instance {
	inst := component.Instantiate(kind, parent)
	name := inst.KindName()

	_, span := e.tracer.Start(context.Background(), "ui.render",
		trace.WithAttributes(attribute.String("ui.component", name)))
	defer span.End()

	content := inst.Content()
	r := dom.NewRange(e.backend)
	inst.MarkRendered(r)
	e.Materialize(content, dom.RangeParent(r), dom.Member{}, inst)

	r.OnDetach(func() {
		inst.Destroy()
		e.observer.ComponentDestroyed(name)
		e.logger.Debug("ui: component destroyed", "component", name)
	})
	e.observer.ComponentRendered(name)
	e.logger.Debug("ui: component rendered", "component", name)
	return inst
}

// RenderWithData renders kind extended with a constant data accessor
// returning data. Function-valued data panics.
func (e *Engine) RenderWithData(kind htmljs.Kind, data any, parent htmljs.Scope) *component.Instance {
	return e.Render(component.AsKind(kind).WithData(data), parent)
}

// Insert attaches a rendered instance's output to parent before the given
// member.
func (e *Engine) Insert(inst *component.Instance, parent dom.Parent, before dom.Member) {
	if inst == nil || inst.Range() == nil {
		errors.Raise(errors.CodeNotRendered, "instance has no output range")
	}
	dom.Insert(inst.Range(), parent, before)
}

// Mount renders kind and appends its output to elem.
func (e *Engine) Mount(kind htmljs.Kind, data any, elem *html.Node) *component.Instance {
	var inst *component.Instance
	if data == nil {
		inst = e.Render(kind, nil)
	} else {
		inst = e.RenderWithData(kind, data, nil)
	}
	e.Insert(inst, dom.ElementParent(elem), dom.Member{})
	return inst
}

// Unmount detaches a rendered instance's output, stopping its computations
// and destroying it.
func (e *Engine) Unmount(inst *component.Instance) {
	if inst == nil || inst.Range() == nil {
		return
	}
	inst.Range().Detach()
}

// report logs err and passes it to the OnError hook.
func (e *Engine) report(err error, args ...any) {
	code := ""
	var se *errors.Error
	if stderrors.As(err, &se) {
		code = se.Code
	}
	e.observer.ErrorReported(code)
	e.logger.Error("ui: computation failed", append([]any{"code", code, "error", err}, args...)...)
	if e.onError != nil {
		e.onError(err)
	}
}
