package core

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"expvar"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestExpvarMetricsRecorder(t *testing.T) {
	rec := NewExpvarMetricsRecorder("")
	if !strings.HasPrefix(rec.Name(), "herdbook_service_metrics_") {
		t.Fatalf("unexpected generated name %s", rec.Name())
	}
	rec.Observe(context.Background(), "add_animal", true, 2*time.Millisecond)
	rec.Observe(context.Background(), "add_animal", false, 3*time.Millisecond)
	rec.Observe(context.Background(), "", true, time.Second)

	snap := rec.Snapshot()
	if snap.DurationsMS["add_animal"] != 5 {
		t.Fatalf("expected 5ms total, got %v", snap.DurationsMS["add_animal"])
	}
	if snap.Results["add_animal"]["success"] != 1 || snap.Results["add_animal"]["error"] != 1 {
		t.Fatalf("unexpected results %+v", snap.Results)
	}
	if len(snap.Results) != 1 {
		t.Fatalf("empty operation names must be ignored")
	}

	published := expvar.Get(rec.Name())
	if published == nil {
		t.Fatalf("expected recorder to be published")
	}
	var decoded ExpvarMetricsSnapshot
	if err := json.Unmarshal([]byte(published.String()), &decoded); err != nil {
		t.Fatalf("decode expvar: %v", err)
	}
	if decoded.Results["add_animal"]["success"] != 1 {
		t.Fatalf("unexpected published snapshot %+v", decoded)
	}
}

func TestPrometheusMetricsRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := NewPrometheusMetricsRecorder(reg)
	rec.Observe(context.Background(), "transfer_animal", true, 10*time.Millisecond)
	rec.Observe(context.Background(), "transfer_animal", true, 20*time.Millisecond)
	rec.Observe(context.Background(), "transfer_animal", false, time.Millisecond)
	rec.Observe(context.Background(), "", true, time.Millisecond)

	if got := testutil.ToFloat64(rec.operations.WithLabelValues("transfer_animal", "success")); got != 2 {
		t.Fatalf("expected 2 successes, got %v", got)
	}
	if got := testutil.ToFloat64(rec.operations.WithLabelValues("transfer_animal", "error")); got != 1 {
		t.Fatalf("expected 1 error, got %v", got)
	}
	if got := testutil.CollectAndCount(rec.latency); got != 1 {
		t.Fatalf("expected one latency series, got %d", got)
	}
	if got, err := testutil.GatherAndCount(reg, "herdbook_service_operations_total"); err != nil || got != 2 {
		t.Fatalf("expected 2 counter series, got %d %v", got, err)
	}
}

func TestPrometheusMetricsRecorderReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first := NewPrometheusMetricsRecorder(reg)
	second := NewPrometheusMetricsRecorder(reg)
	first.Observe(context.Background(), "add_breeder", true, time.Millisecond)
	second.Observe(context.Background(), "add_breeder", true, time.Millisecond)

	if got := testutil.ToFloat64(first.operations.WithLabelValues("add_breeder", "success")); got != 2 {
		t.Fatalf("expected recorders to share counters, got %v", got)
	}
	if got, err := testutil.GatherAndCount(reg, "herdbook_service_operations_total"); err != nil || got != 1 {
		t.Fatalf("expected one counter series, got %d %v", got, err)
	}
}

func TestPrometheusMetricsRecorderPanicsOnConflictingCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "herdbook",
		Subsystem: "service",
		Name:      "operations_total",
		Help:      "conflicting",
	}))
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for conflicting collector")
		}
	}()
	NewPrometheusMetricsRecorder(reg)
}

func TestServiceWithPrometheusRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := NewPrometheusMetricsRecorder(reg)
	svc := NewInMemoryService(nil, WithMetricsRecorder(rec))
	seedReference(t, svc)
	if got := testutil.ToFloat64(rec.operations.WithLabelValues("add_animal", "success")); got != 9 {
		t.Fatalf("expected 9 add_animal successes, got %v", got)
	}
}

func TestJSONTraceTracer(t *testing.T) {
	var buf bytes.Buffer
	tracer := NewJSONTracer(&buf)
	_, span := tracer.Start(context.Background(), "list_animals")
	span.End(nil)
	_, span = tracer.Start(context.Background(), "transfer_animal")
	span.End(errors.New("boom"))

	entries := tracer.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Status != "success" || entries[1].Status != "error" || entries[1].Error != "boom" {
		t.Fatalf("unexpected entries %+v", entries)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 JSON lines, got %d", len(lines))
	}
	var decoded JSONTraceEntry
	if err := json.Unmarshal([]byte(lines[1]), &decoded); err != nil || decoded.Operation != "transfer_animal" {
		t.Fatalf("unexpected line %s: %v", lines[1], err)
	}

	silent := NewJSONTracer(nil)
	_, span = silent.Start(context.Background(), "noop")
	span.End(nil)
	if len(silent.Entries()) != 1 {
		t.Fatalf("nil writer tracer must still retain spans")
	}
}
