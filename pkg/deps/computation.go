package deps

// Computation is a function that reruns when its dependencies change.
type Computation struct {
	s  *Scheduler
	id uint64

	fn func(c *Computation)

	// onInvalidate hooks run once, on the next invalidation.
	onInvalidate []func()

	firstRun    bool
	invalidated bool
	stopped     bool
	recomputing bool
}

// ID returns the unique identifier for this computation.
func (c *Computation) ID() uint64 {
	return c.id
}

// FirstRun reports whether the computation is in its initial run.
func (c *Computation) FirstRun() bool {
	return c.firstRun
}

// Stopped reports whether the computation has been stopped.
func (c *Computation) Stopped() bool {
	return c.stopped
}

// Invalidated reports whether the computation is waiting to rerun.
func (c *Computation) Invalidated() bool {
	return c.invalidated
}

// OnInvalidate registers fn to run on the next invalidation. If the
// computation is already invalidated, fn runs immediately.
func (c *Computation) OnInvalidate(fn func()) {
	if c.invalidated {
		c.s.Nonreactive(fn)
		return
	}
	c.onInvalidate = append(c.onInvalidate, fn)
}

// Invalidate schedules the computation to rerun on the next flush and runs its
// on-invalidate hooks. It is idempotent until the computation reruns.
func (c *Computation) Invalidate() {
	if c.invalidated {
		return
	}
	// A computation invalidated while recomputing reruns immediately instead
	// of queueing itself.
	if !c.recomputing && !c.stopped {
		c.s.pending = append(c.s.pending, c)
	}
	c.invalidated = true

	hooks := c.onInvalidate
	c.onInvalidate = nil
	for _, fn := range hooks {
		c.s.Nonreactive(fn)
	}
}

// Stop prevents the computation from rerunning. It is idempotent.
func (c *Computation) Stop() {
	if c.stopped {
		return
	}
	c.stopped = true
	c.Invalidate()
	if c.s.observer != nil {
		c.s.observer.ComputationStopped()
	}
}

// compute runs fn with c as the current computation.
func (c *Computation) compute() {
	c.invalidated = false

	s := c.s
	prev := s.current
	prevInCompute := s.inCompute
	s.current = c
	s.inCompute = true
	defer func() {
		s.current = prev
		s.inCompute = prevInCompute
	}()

	c.fn(c)
}

// recompute reruns the computation while it stays invalidated. A panic is
// recovered and logged so the flush can continue. Reports whether fn ran.
func (c *Computation) recompute() bool {
	ran := false
	c.recomputing = true
	defer func() { c.recomputing = false }()

	for c.invalidated && !c.stopped {
		ran = true
		if c.s.observer != nil {
			c.s.observer.ComputationRerun()
		}
		c.safeCompute()
	}
	return ran
}

func (c *Computation) safeCompute() {
	defer func() {
		if r := recover(); r != nil {
			c.s.logger.Error("deps: computation panicked", "computation", c.id, "panic", r)
		}
	}()
	c.compute()
}
