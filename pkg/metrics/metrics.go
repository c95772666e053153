package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/spark/pkg/deps"
	"github.com/vango-dev/spark/pkg/ui"
)

// Config configures a Collector.
type Config struct {
	// Namespace is the metrics namespace (default: "spark").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for flush duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures a Collector.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "spark",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Collector records scheduler and engine events.
type Collector struct {
	computationsStarted prometheus.Counter
	computationsStopped prometheus.Counter
	computationsActive  prometheus.Gauge
	reruns              prometheus.Counter
	flushDuration       prometheus.Histogram
	rebuilds            prometheus.Counter
	attributeOps        *prometheus.CounterVec
	componentsRendered  *prometheus.CounterVec
	componentsDestroyed *prometheus.CounterVec
	componentsLive      prometheus.Gauge
	errors              *prometheus.CounterVec
}

var (
	_ deps.Observer = (*Collector)(nil)
	_ ui.Observer   = (*Collector)(nil)
)

// New creates a Collector and registers its metrics.
func New(opts ...Option) *Collector {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	counter := func(name, help string) prometheus.Counter {
		return factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: config.ConstLabels,
		})
	}
	counterVec := func(name, help string, labels ...string) *prometheus.CounterVec {
		return factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: config.ConstLabels,
		}, labels)
	}
	gauge := func(name, help string) prometheus.Gauge {
		return factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: config.ConstLabels,
		})
	}

	return &Collector{
		computationsStarted: counter("computations_started_total", "Total number of reactive computations started"),
		computationsStopped: counter("computations_stopped_total", "Total number of reactive computations stopped"),
		computationsActive:  gauge("computations_active", "Number of computations started and not yet stopped"),
		reruns:              counter("computation_reruns_total", "Total number of computation reruns during flushes"),
		flushDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flush_duration_seconds",
			Help:        "Scheduler flush duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),
		rebuilds:            counter("content_rebuilds_total", "Total number of dynamic content sites rebuilt"),
		attributeOps:        counterVec("attribute_ops_total", "Total attribute mutations by operation", "op"),
		componentsRendered:  counterVec("components_rendered_total", "Total components rendered by kind", "component"),
		componentsDestroyed: counterVec("components_destroyed_total", "Total components destroyed by kind", "component"),
		componentsLive:      gauge("components_live", "Number of rendered components not yet destroyed"),
		errors:              counterVec("errors_total", "Errors caught at computation boundaries by code", "code"),
	}
}

// ComputationStarted implements deps.Observer.
func (c *Collector) ComputationStarted() {
	c.computationsStarted.Inc()
	c.computationsActive.Inc()
}

// ComputationStopped implements deps.Observer.
func (c *Collector) ComputationStopped() {
	c.computationsStopped.Inc()
	c.computationsActive.Dec()
}

// ComputationRerun implements deps.Observer.
func (c *Collector) ComputationRerun() { c.reruns.Inc() }

// Flushed implements deps.Observer.
func (c *Collector) Flushed(d time.Duration) { c.flushDuration.Observe(d.Seconds()) }

// ContentRebuilt implements ui.Observer.
func (c *Collector) ContentRebuilt() { c.rebuilds.Inc() }

// AttributeChanged implements ui.Observer.
func (c *Collector) AttributeChanged(op string) { c.attributeOps.WithLabelValues(op).Inc() }

// ComponentRendered implements ui.Observer.
func (c *Collector) ComponentRendered(kind string) {
	c.componentsRendered.WithLabelValues(kind).Inc()
	c.componentsLive.Inc()
}

// ComponentDestroyed implements ui.Observer.
func (c *Collector) ComponentDestroyed(kind string) {
	c.componentsDestroyed.WithLabelValues(kind).Inc()
	c.componentsLive.Dec()
}

// ErrorReported implements ui.Observer.
func (c *Collector) ErrorReported(code string) {
	if code == "" {
		code = "unknown"
	}
	c.errors.WithLabelValues(code).Inc()
}
