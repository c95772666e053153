package metrics

import (
	"io"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/vango-dev/spark/internal/errors"
	"github.com/vango-dev/spark/pkg/component"
	"github.com/vango-dev/spark/pkg/deps"
	"github.com/vango-dev/spark/pkg/htmljs"
	"github.com/vango-dev/spark/pkg/ui"
)

func metricValue(t *testing.T, m prometheus.Metric) float64 {
	t.Helper()
	var out dto.Metric
	if err := m.Write(&out); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	switch {
	case out.Counter != nil:
		return out.GetCounter().GetValue()
	case out.Gauge != nil:
		return out.GetGauge().GetValue()
	case out.Histogram != nil:
		return float64(out.GetHistogram().GetSampleCount())
	}
	t.Fatal("unsupported metric type")
	return 0
}

func TestCollectorObservesEngine(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(WithRegistry(reg), WithNamespace("test"))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tracker := deps.New(deps.WithObserver(m), deps.WithLogger(logger))
	engine := ui.New(ui.Config{Tracker: tracker, Observer: m, Logger: logger})

	label := deps.NewVar(tracker, "a")
	kind := component.Define("badge", component.Capabilities{
		Render: func(*component.Instance) htmljs.Node {
			return htmljs.Span(
				htmljs.Attrs{"title": htmljs.Func(func() htmljs.Node { return htmljs.String(label.Get()) })},
				htmljs.Func(func() htmljs.Node { return htmljs.String(label.Get()) }),
			)
		},
	})

	body := engine.Backend().CreateElement("body")
	inst := engine.Mount(kind, nil, body)

	label.Set("b")
	tracker.Flush()

	if got := metricValue(t, m.computationsStarted); got != 2 {
		t.Errorf("computations started = %v, want 2", got)
	}
	if got := metricValue(t, m.reruns); got != 2 {
		t.Errorf("reruns = %v, want 2", got)
	}
	if got := metricValue(t, m.flushDuration); got != 1 {
		t.Errorf("flushes = %v, want 1", got)
	}
	if got := metricValue(t, m.rebuilds); got != 1 {
		t.Errorf("rebuilds = %v, want 1", got)
	}
	if got := metricValue(t, m.attributeOps.WithLabelValues(ui.AttrSet)); got != 2 {
		t.Errorf("attribute sets = %v, want 2", got)
	}
	if got := metricValue(t, m.componentsLive); got != 1 {
		t.Errorf("live components = %v, want 1", got)
	}

	engine.Unmount(inst)

	if got := metricValue(t, m.computationsActive); got != 0 {
		t.Errorf("active computations after unmount = %v, want 0", got)
	}
	if got := metricValue(t, m.componentsDestroyed.WithLabelValues("badge")); got != 1 {
		t.Errorf("destroyed = %v, want 1", got)
	}
	if got := metricValue(t, m.componentsLive); got != 0 {
		t.Errorf("live components = %v, want 0", got)
	}
}

func TestCollectorErrors(t *testing.T) {
	m := New(WithRegistry(prometheus.NewRegistry()))
	m.ErrorReported(errors.CodeAttributeUpdate)
	m.ErrorReported("")

	if got := metricValue(t, m.errors.WithLabelValues(errors.CodeAttributeUpdate)); got != 1 {
		t.Errorf("errors{E121} = %v, want 1", got)
	}
	if got := metricValue(t, m.errors.WithLabelValues("unknown")); got != 1 {
		t.Errorf("errors{unknown} = %v, want 1", got)
	}
}

func TestCollectorRegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(WithRegistry(reg))

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	if len(families) == 0 {
		t.Fatal("expected registered metric families")
	}

	defer func() {
		if recover() == nil {
			t.Error("registering twice on one registry should panic")
		}
	}()
	New(WithRegistry(reg))
}
