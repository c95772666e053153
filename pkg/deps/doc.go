// Package deps provides the dependency tracker that drives spark's reactive
// output.
//
// A Scheduler owns all reactive state. It is injected into the rendering
// engine rather than kept in package globals, and it never starts goroutines:
// invalidated computations rerun only when Flush is called, which makes every
// update cycle deterministic and easy to drive from tests.
//
// # Core Types
//
// Computation reruns a function whenever a Dependency it touched changes:
//
//	s := deps.New()
//	count := deps.NewVar(s, 0)
//	c := s.Autorun(func(c *deps.Computation) {
//	    fmt.Println("count is", count.Get())
//	})
//	count.Set(1)
//	s.Flush() // prints "count is 1"
//	c.Stop()
//
// Dependency is the low-level building block behind Var: Depend registers the
// current computation, Changed invalidates every registered computation.
//
// # Flush ordering
//
// Flush reruns invalidated computations in invalidation order. When none are
// pending it runs one after-flush callback and loops, so callbacks queued from
// inside an after-flush callback run after any reruns it caused.
//
// # Thread Safety
//
// A Scheduler is single-threaded. Callers that share one across goroutines
// must serialize access themselves.
package deps
