package deps

// Dependency is a source of invalidation. Computations that call Depend are
// invalidated by the next Changed.
type Dependency struct {
	s *Scheduler

	// dependents in registration order.
	dependents []*Computation
}

// Depend registers the current computation as a dependent. It reports whether
// the computation was newly registered; outside a computation it returns false.
func (d *Dependency) Depend() bool {
	return d.DependOn(d.s.current)
}

// DependOn registers c as a dependent. The registration is removed when c is
// invalidated.
func (d *Dependency) DependOn(c *Computation) bool {
	if c == nil {
		return false
	}
	for _, existing := range d.dependents {
		if existing == c {
			return false
		}
	}
	d.dependents = append(d.dependents, c)
	c.OnInvalidate(func() { d.remove(c) })
	return true
}

// Changed invalidates every dependent.
func (d *Dependency) Changed() {
	snapshot := make([]*Computation, len(d.dependents))
	copy(snapshot, d.dependents)
	for _, c := range snapshot {
		c.Invalidate()
	}
}

// HasDependents reports whether any computation depends on d.
func (d *Dependency) HasDependents() bool {
	return len(d.dependents) > 0
}

func (d *Dependency) remove(c *Computation) {
	for i, existing := range d.dependents {
		if existing == c {
			d.dependents = append(d.dependents[:i], d.dependents[i+1:]...)
			return
		}
	}
}
