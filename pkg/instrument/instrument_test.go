package instrument

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/vango-dev/vbind/pkg/dom"
	"github.com/vango-dev/vbind/pkg/reactive"
)

// newStore builds a store with one text observer on "count" and one on
// "gone", whose node is detached.
func newStore(t *testing.T, hooks reactive.Hooks) *reactive.Store {
	t.Helper()
	doc := dom.NewDocument()
	p := dom.NewElement("p")
	doc.AppendChild(p)
	text := dom.NewText("")
	p.AppendChild(text)
	orphan := dom.NewText("")

	store := reactive.NewStore(map[string]any{"count": 0, "gone": ""}, nil, reactive.WithHooks(hooks))
	store.Registry().Register("count", reactive.NewObserver(store, "count", text, "textContent"))
	store.Registry().Register("gone", reactive.NewObserver(store, "gone", orphan, "textContent"))
	return store
}

func metricCounterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("counter Write() error: %v", err)
	}
	if m.Counter == nil {
		t.Fatal("expected counter metric to have Counter field")
	}
	return m.GetCounter().GetValue()
}

func metricHistogramCount(t *testing.T, o prometheus.Observer) uint64 {
	t.Helper()
	metric, ok := o.(prometheus.Metric)
	if !ok {
		t.Fatalf("observer %T does not implement prometheus.Metric", o)
	}
	var m dto.Metric
	if err := metric.Write(&m); err != nil {
		t.Fatalf("histogram Write() error: %v", err)
	}
	return m.GetHistogram().GetSampleCount()
}

func TestMetricsHooks(t *testing.T) {
	m := NewMetrics(WithRegistry(prometheus.NewRegistry()))
	store := newStore(t, m.Hooks())

	if err := store.Set("count", 1); err != nil {
		t.Fatal(err)
	}
	_ = store.Set("count", 2)
	_, _ = store.Get("count")
	if err := store.Set("gone", "x"); err == nil {
		t.Fatal("expected detached refresh error")
	}

	if got := metricCounterValue(t, m.setsTotal.WithLabelValues("count")); got != 2 {
		t.Errorf("sets_total(count) = %v, want 2", got)
	}
	// Two sets refresh via Get, plus the explicit Get.
	if got := metricCounterValue(t, m.readsTotal.WithLabelValues("count")); got != 3 {
		t.Errorf("reads_total(count) = %v, want 3", got)
	}
	if got := metricCounterValue(t, m.refreshesTotal.WithLabelValues("count", "success")); got != 2 {
		t.Errorf("refreshes_total(count,success) = %v, want 2", got)
	}
	if got := metricCounterValue(t, m.refreshesTotal.WithLabelValues("gone", "detached")); got != 1 {
		t.Errorf("refreshes_total(gone,detached) = %v, want 1", got)
	}
	if got := metricHistogramCount(t, m.notifyDuration.WithLabelValues("count")); got != 2 {
		t.Errorf("notify_duration_seconds(count) count = %d, want 2", got)
	}
}

func TestMetricsRecordFunctions(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(WithRegistry(reg), WithNamespace("test"))

	m.RecordPatches(3)
	m.RecordPatches(2)
	m.SetLiveClients(4)

	if got := metricCounterValue(t, m.patchesSent); got != 5 {
		t.Errorf("patches_sent_total = %v, want 5", got)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, f := range families {
		if f.GetName() == "test_live_clients" {
			found = true
			if v := f.GetMetric()[0].GetGauge().GetValue(); v != 4 {
				t.Errorf("live_clients = %v", v)
			}
		}
	}
	if !found {
		t.Error("test_live_clients not gathered")
	}
}

// recordingTracer captures spans started through it.
type recordingTracer struct {
	noop.Tracer
	spans []*recordingSpan
}

func (r *recordingTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	cfg := trace.NewSpanStartConfig(opts...)
	s := &recordingSpan{name: name, attrs: cfg.Attributes()}
	r.spans = append(r.spans, s)
	return trace.ContextWithSpan(ctx, s), s
}

type recordingSpan struct {
	noop.Span
	name   string
	attrs  []attribute.KeyValue
	errs   []error
	status codes.Code
	ended  bool
}

func (s *recordingSpan) SetAttributes(kv ...attribute.KeyValue)        { s.attrs = append(s.attrs, kv...) }
func (s *recordingSpan) RecordError(err error, _ ...trace.EventOption) { s.errs = append(s.errs, err) }
func (s *recordingSpan) SetStatus(c codes.Code, _ string)              { s.status = c }
func (s *recordingSpan) End(...trace.SpanEndOption)                    { s.ended = true }

func (s *recordingSpan) attr(key string) (attribute.Value, bool) {
	for _, kv := range s.attrs {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestOpenTelemetrySpans(t *testing.T) {
	tracer := &recordingTracer{}
	store := newStore(t, OpenTelemetry(
		WithTracer(tracer),
		WithAttributes(attribute.String("vbind.vm", "vm-1")),
	))

	_ = store.Set("count", 7)
	_ = store.Set("gone", "x")

	if len(tracer.spans) != 2 {
		t.Fatalf("spans = %d, want 2", len(tracer.spans))
	}

	ok := tracer.spans[0]
	if ok.name != "vbind.set" || !ok.ended || ok.status != codes.Ok {
		t.Errorf("span 0 = %+v", ok)
	}
	if v, _ := ok.attr("vbind.key"); v.AsString() != "count" {
		t.Errorf("vbind.key = %v", v.AsString())
	}
	if v, _ := ok.attr("vbind.observers"); v.AsInt64() != 1 {
		t.Errorf("vbind.observers = %v", v.AsInt64())
	}
	if v, _ := ok.attr("vbind.vm"); v.AsString() != "vm-1" {
		t.Errorf("vbind.vm = %v", v.AsString())
	}

	failed := tracer.spans[1]
	if failed.status != codes.Error || len(failed.errs) != 1 || !failed.ended {
		t.Errorf("span 1 status = %v errs = %v", failed.status, failed.errs)
	}
}

func TestLoggingHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	store := newStore(t, Logging(logger, slog.LevelInfo))

	_ = store.Set("count", 3)
	_ = store.Set("gone", "x")

	out := buf.String()
	for _, want := range []string{
		"msg=set key=count observers=1",
		"msg=refresh key=count",
		`msg="refresh failed" key=gone`,
		`msg="set failed" key=gone`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}
}

func TestChainedHooks(t *testing.T) {
	m := NewMetrics(WithRegistry(prometheus.NewRegistry()))
	tracer := &recordingTracer{}
	store := newStore(t, reactive.ChainHooks(m.Hooks(), OpenTelemetry(WithTracer(tracer))))

	_ = store.Set("count", 1)

	if got := metricCounterValue(t, m.setsTotal.WithLabelValues("count")); got != 1 {
		t.Errorf("sets_total = %v", got)
	}
	if len(tracer.spans) != 1 || !tracer.spans[0].ended {
		t.Errorf("spans = %v", tracer.spans)
	}
}
