package deps

// Var is a reactive value. Reading it inside a computation registers a
// dependency; setting a different value invalidates dependents.
type Var[T comparable] struct {
	dep   *Dependency
	value T
}

// NewVar creates a Var tracked by s.
func NewVar[T comparable](s *Scheduler, initial T) *Var[T] {
	return &Var[T]{
		dep:   s.NewDependency(),
		value: initial,
	}
}

// Get returns the current value and registers the current computation.
func (v *Var[T]) Get() T {
	v.dep.Depend()
	return v.value
}

// Peek returns the current value without registering a dependency.
func (v *Var[T]) Peek() T {
	return v.value
}

// Set stores value and invalidates dependents if it differs from the current
// value.
func (v *Var[T]) Set(value T) {
	if value == v.value {
		return
	}
	v.value = value
	v.dep.Changed()
}

// Update applies fn to the current value and stores the result.
func (v *Var[T]) Update(fn func(T) T) {
	v.Set(fn(v.value))
}
