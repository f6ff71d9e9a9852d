package core

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"herdbook/pkg/domain"
)

type captureAuditRecorder struct {
	entries []AuditEntry
}

func (c *captureAuditRecorder) Record(_ context.Context, entry AuditEntry) {
	c.entries = append(c.entries, entry)
}

func (c *captureAuditRecorder) has(op string, status AuditStatus, predicate func(AuditEntry) bool) bool {
	for _, entry := range c.entries {
		if entry.Operation == op && entry.Status == status {
			if predicate == nil || predicate(entry) {
				return true
			}
		}
	}
	return false
}

type metricsCall struct {
	op      string
	success bool
}

type captureMetricsRecorder struct {
	calls []metricsCall
}

func (c *captureMetricsRecorder) Observe(_ context.Context, op string, success bool, _ time.Duration) {
	c.calls = append(c.calls, metricsCall{op: op, success: success})
}

func (c *captureMetricsRecorder) has(op string, success bool) bool {
	for _, call := range c.calls {
		if call.op == op && call.success == success {
			return true
		}
	}
	return false
}

type spanRecord struct {
	op  string
	err error
}

type captureTracer struct {
	started []string
	ended   []spanRecord
}

func (c *captureTracer) Start(ctx context.Context, op string) (context.Context, TraceSpan) {
	c.started = append(c.started, op)
	return ctx, &captureSpan{tracer: c, op: op}
}

func (c *captureTracer) has(op string, success bool) bool {
	for _, record := range c.ended {
		if record.op == op && (record.err == nil) == success {
			return true
		}
	}
	return false
}

type captureSpan struct {
	tracer *captureTracer
	op     string
}

func (s *captureSpan) End(err error) {
	s.tracer.ended = append(s.tracer.ended, spanRecord{op: s.op, err: err})
}

type logLine struct {
	level string
	msg   string
	args  []any
}

type captureLogger struct {
	mu    sync.Mutex
	lines []logLine
}

func (l *captureLogger) add(level, msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, logLine{level: level, msg: msg, args: args})
}

func (l *captureLogger) Debug(msg string, args ...any) { l.add("debug", msg, args) }
func (l *captureLogger) Info(msg string, args ...any)  { l.add("info", msg, args) }
func (l *captureLogger) Warn(msg string, args ...any)  { l.add("warn", msg, args) }
func (l *captureLogger) Error(msg string, args ...any) { l.add("error", msg, args) }

func (l *captureLogger) count(level string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, line := range l.lines {
		if line.level == level {
			n++
		}
	}
	return n
}

func intPtr(v int) *int { return &v }

// seedReference builds the demonstration herd through the service and trades
// Hansi to David.
func seedReference(t *testing.T, svc *Service) {
	t.Helper()
	ctx := context.Background()
	for _, name := range []string{"Alf", "Beate", "David", "Christine"} {
		if _, _, err := svc.AddBreeder(ctx, name); err != nil {
			t.Fatalf("add breeder %s: %v", name, err)
		}
	}
	animals := []NewAnimal{
		{ID: 0, Name: "Hansi", Owner: "Alf"},
		{ID: 1, Name: "Mausi", Owner: "Beate"},
		{ID: 2, Name: "Fritzi", Owner: "David", FatherID: intPtr(0), MotherID: intPtr(1)},
		{ID: 3, Name: "Frauli", Owner: "David", FatherID: intPtr(0), MotherID: intPtr(1)},
		{ID: 4, Name: "Fratzi", Owner: "Christine", FatherID: intPtr(0), MotherID: intPtr(1)},
		{ID: 5, Name: "Brummer", Owner: "Christine", FatherID: intPtr(2), MotherID: intPtr(3)},
		{ID: 6, Name: "Mini", Owner: "Christine", FatherID: intPtr(4), MotherID: intPtr(3)},
		{ID: 7, Name: "Jack", Owner: "Alf", FatherID: intPtr(5), MotherID: intPtr(1)},
		{ID: 8, Name: "Beate the Second", Owner: "Beate", FatherID: intPtr(0), MotherID: intPtr(6)},
	}
	for _, a := range animals {
		if _, _, err := svc.AddAnimal(ctx, a); err != nil {
			t.Fatalf("add animal %s: %v", a.Name, err)
		}
	}
	if _, _, err := svc.TransferAnimal(ctx, 0, "David"); err != nil {
		t.Fatalf("trade hansi: %v", err)
	}
}

func recordIDs(records []domain.AnimalRecord) []int {
	out := make([]int, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func assertRecordIDs(t *testing.T, label string, got []domain.AnimalRecord, want ...int) {
	t.Helper()
	if fmt.Sprint(recordIDs(got)) != fmt.Sprint(append([]int{}, want...)) {
		t.Fatalf("%s: expected %v, got %v", label, want, recordIDs(got))
	}
}
