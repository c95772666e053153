package ui

import "github.com/vango-dev/spark/pkg/deps"

// Box is a shared, change-gated reactive value.
//
// Readers inside a computation share one underlying computation that
// evaluates the wrapped function and only signals them when the result
// changes under the box's equality. The underlying computation starts on the
// first reactive read and stops once no reader has depended on the box for
// two flush cycles. Reads outside any computation call the function directly
// while the box is idle.
type Box[T any] struct {
	tracker  *deps.Scheduler
	fn       func() T
	equal    func(a, b T) bool
	constant bool

	value T
	dep   *deps.Dependency
	comp  *deps.Computation
}

// EmboxValue boxes fn, comparing results with ==.
func EmboxValue[T comparable](tracker *deps.Scheduler, fn func() T) *Box[T] {
	return EmboxValueFunc(tracker, fn, func(a, b T) bool { return a == b })
}

// EmboxValueFunc boxes fn, comparing results with equal.
func EmboxValueFunc[T any](tracker *deps.Scheduler, fn func() T, equal func(a, b T) bool) *Box[T] {
	return &Box[T]{tracker: tracker, fn: fn, equal: equal}
}

// EmboxConstant returns a box that always holds v.
func EmboxConstant[T any](v T) *Box[T] {
	return &Box[T]{value: v, constant: true}
}

// IsConstant reports whether the box was created by EmboxConstant.
func (b *Box[T]) IsConstant() bool { return b.constant }

// Running reports whether the underlying computation is live.
func (b *Box[T]) Running() bool { return b.comp != nil }

// Get returns the current value, registering the caller's computation as a
// reader when there is one.
func (b *Box[T]) Get() T {
	if b.constant {
		return b.value
	}
	if b.comp == nil {
		if !b.tracker.Active() {
			return b.fn()
		}
		b.start()
	}

	if b.tracker.Active() {
		dep := b.dep
		if dep.Depend() {
			b.tracker.OnInvalidate(func() { b.scheduleTeardown(dep) })
		}
	}
	return b.value
}

// start launches the shared computation outside the caller's tracking so the
// caller's invalidation never stops it.
func (b *Box[T]) start() {
	dep := b.tracker.NewDependency()
	b.dep = dep
	defer func() {
		// A panicking first run leaves a stopped computation behind.
		if b.comp != nil && b.comp.Stopped() {
			b.comp = nil
			b.dep = nil
		}
	}()
	b.tracker.Nonreactive(func() {
		b.tracker.Autorun(func(c *deps.Computation) {
			if c.FirstRun() {
				// Set before evaluating so a read from inside fn finds it.
				b.comp = c
			}
			old := b.value
			b.value = b.fn()
			if !c.FirstRun() && !b.equal(b.value, old) {
				dep.Changed()
			}
		})
	})
}

// scheduleTeardown stops the computation for dep once it has had no readers
// through the end of the current flush and the one after it. A reader that
// is rebuilt in between depends again and keeps it alive.
func (b *Box[T]) scheduleTeardown(dep *deps.Dependency) {
	if !b.idle(dep) {
		return
	}
	b.tracker.AfterFlush(func() {
		if !b.idle(dep) {
			return
		}
		b.tracker.AfterFlush(func() {
			if !b.idle(dep) {
				return
			}
			b.comp.Stop()
			b.comp = nil
			b.dep = nil
			var zero T
			b.value = zero
		})
	})
}

// idle reports whether dep is still the live dependency and has no readers.
func (b *Box[T]) idle(dep *deps.Dependency) bool {
	return b.dep == dep && !dep.HasDependents()
}
