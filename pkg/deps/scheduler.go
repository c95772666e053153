package deps

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/vango-dev/spark/pkg/deps"

// Observer receives scheduler lifecycle events. pkg/metrics implements it.
type Observer interface {
	ComputationStarted()
	ComputationStopped()
	ComputationRerun()
	Flushed(d time.Duration)
}

// Scheduler tracks the current computation and reruns invalidated
// computations when flushed.
type Scheduler struct {
	current *Computation

	// pending holds invalidated computations in invalidation order.
	pending []*Computation

	// afterFlush callbacks run once no computation is pending.
	afterFlush []func()

	flushing  bool
	inCompute bool
	nextID    uint64

	logger   *slog.Logger
	tracer   trace.Tracer
	observer Observer
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the logger used for recovered panics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

// WithTracer sets the tracer used for flush spans.
// Defaults to the global OpenTelemetry tracer provider.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Scheduler) {
		s.tracer = tracer
	}
}

// WithObserver registers an observer for computation and flush events.
func WithObserver(o Observer) Option {
	return func(s *Scheduler) {
		s.observer = o
	}
}

// New creates a Scheduler.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer(tracerName)
	}
	return s
}

// Logger returns the scheduler's logger.
func (s *Scheduler) Logger() *slog.Logger {
	return s.logger
}

// Active reports whether a computation is currently tracking dependencies.
func (s *Scheduler) Active() bool {
	return s.current != nil
}

// Current returns the computation currently tracking dependencies, or nil.
func (s *Scheduler) Current() *Computation {
	return s.current
}

// Nonreactive runs fn with tracking suspended. Dependencies touched inside fn
// are not registered with the caller's computation, and computations started
// inside fn are not stopped when the caller's computation invalidates.
func (s *Scheduler) Nonreactive(fn func()) {
	old := s.current
	s.current = nil
	defer func() { s.current = old }()
	fn()
}

// OnInvalidate registers fn on the current computation. It panics when no
// computation is active.
func (s *Scheduler) OnInvalidate(fn func()) {
	if s.current == nil {
		panic("deps: OnInvalidate requires a current computation")
	}
	s.current.OnInvalidate(fn)
}

// AfterFlush schedules fn to run after pending computations have rerun.
func (s *Scheduler) AfterFlush(fn func()) {
	s.afterFlush = append(s.afterFlush, fn)
}

// Pending reports whether Flush has work to do.
func (s *Scheduler) Pending() bool {
	return len(s.pending) > 0 || len(s.afterFlush) > 0
}

// NewDependency creates a Dependency tracked by this scheduler.
func (s *Scheduler) NewDependency() *Dependency {
	return &Dependency{s: s}
}

// Autorun runs fn now and again whenever a dependency it touched changes,
// until the returned computation is stopped. When called inside another
// computation, the new computation is stopped when the outer one invalidates.
//
// A panic during the first run stops the computation and propagates.
func (s *Scheduler) Autorun(fn func(c *Computation)) *Computation {
	s.nextID++
	c := &Computation{
		s:        s,
		id:       s.nextID,
		fn:       fn,
		firstRun: true,
	}
	if s.observer != nil {
		s.observer.ComputationStarted()
	}

	if s.current != nil {
		s.current.OnInvalidate(c.Stop)
	}

	errored := true
	defer func() {
		c.firstRun = false
		if errored {
			c.Stop()
		}
	}()
	c.compute()
	errored = false
	return c
}

// Flush reruns invalidated computations and runs after-flush callbacks until
// there is nothing left to do. Calling Flush from inside a computation or a
// running flush does nothing.
func (s *Scheduler) Flush() {
	if s.flushing || s.inCompute {
		s.logger.Warn("deps: ignoring re-entrant flush")
		return
	}
	s.flushing = true
	start := time.Now()

	_, span := s.tracer.Start(context.Background(), "deps.flush")
	reruns, callbacks := 0, 0

	defer func() {
		s.flushing = false
		span.SetAttributes(
			attribute.Int("deps.reruns", reruns),
			attribute.Int("deps.after_flush", callbacks),
		)
		span.End()
		if s.observer != nil {
			s.observer.Flushed(time.Since(start))
		}
	}()

	for len(s.pending) > 0 || len(s.afterFlush) > 0 {
		for len(s.pending) > 0 {
			comps := s.pending
			s.pending = nil
			for _, c := range comps {
				if c.recompute() {
					reruns++
				}
			}
		}

		if len(s.afterFlush) > 0 {
			fn := s.afterFlush[0]
			s.afterFlush = s.afterFlush[1:]
			callbacks++
			s.runAfterFlush(fn)
		}
	}
}

func (s *Scheduler) runAfterFlush(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("deps: after-flush callback panicked", "panic", r)
		}
	}()
	fn()
}
