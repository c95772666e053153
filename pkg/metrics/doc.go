// Package metrics exposes scheduler and engine activity as Prometheus
// metrics.
//
// A Collector implements both deps.Observer and ui.Observer:
//
//	m := metrics.New(metrics.WithRegistry(reg))
//	tracker := deps.New(deps.WithObserver(m))
//	engine := ui.New(ui.Config{Tracker: tracker, Observer: m})
//
// Metrics collected (namespace "spark" by default):
//   - spark_computations_started_total, spark_computations_stopped_total
//   - spark_computations_active: computations started and not yet stopped
//   - spark_computation_reruns_total
//   - spark_flush_duration_seconds
//   - spark_content_rebuilds_total: dynamic sites cleared and rebuilt
//   - spark_attribute_ops_total{op}: attribute sets and removals
//   - spark_components_rendered_total{component}, spark_components_destroyed_total{component}
//   - spark_components_live
//   - spark_errors_total{code}: errors caught at computation boundaries
package metrics
