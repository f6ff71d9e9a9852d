package core

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"HERDBOOK_STORAGE_DRIVER", "HERDBOOK_SQLITE_PATH", "HERDBOOK_POSTGRES_DSN", "HERDBOOK_LOG_LEVEL", "HERDBOOK_LOG_FORMAT", "HERDBOOK_METRICS"} {
		t.Setenv(key, "")
	}
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Storage.Driver != StorageMemory || cfg.LogLevel != "info" || cfg.LogFormat != "text" || cfg.Metrics != MetricsNone {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("HERDBOOK_STORAGE_DRIVER", "SQLite")
	t.Setenv("HERDBOOK_SQLITE_PATH", "/tmp/herd.db")
	t.Setenv("HERDBOOK_LOG_LEVEL", "debug")
	t.Setenv("HERDBOOK_LOG_FORMAT", "json")
	t.Setenv("HERDBOOK_METRICS", "prometheus")
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Storage.Driver != StorageSQLite || cfg.Storage.SQLitePath != "/tmp/herd.db" || cfg.Metrics != MetricsPrometheus || cfg.LogFormat != "json" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestLoadConfigRejectsUnknownValues(t *testing.T) {
	cases := map[string]string{
		"HERDBOOK_LOG_LEVEL":      "chatty",
		"HERDBOOK_LOG_FORMAT":     "xml",
		"HERDBOOK_METRICS":        "statsd",
		"HERDBOOK_STORAGE_DRIVER": "mongo",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			if _, err := LoadConfig(); err == nil {
				t.Fatalf("expected error for %s=%s", key, value)
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	cases := map[string]slog.Level{"debug": slog.LevelDebug, "": slog.LevelInfo, "WARN": slog.LevelWarn, "error": slog.LevelError}
	for in, want := range cases {
		got, err := ParseLogLevel(in)
		if err != nil || got != want {
			t.Fatalf("ParseLogLevel(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseLogLevel("loud"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, "warn", "text")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("shown", "animal", 7)
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "animal=7") || !strings.Contains(out, "service=herdbook") {
		t.Fatalf("unexpected output %q", out)
	}
	if _, err := NewLogger(&buf, "info", "yaml"); err == nil {
		t.Fatalf("expected format error")
	}
	if _, err := NewLogger(&buf, "nope", "text"); err == nil {
		t.Fatalf("expected level error")
	}
}

func TestNewMetricsRecorder(t *testing.T) {
	rec, err := NewMetricsRecorder(MetricsNone, nil)
	if _, ok := rec.(noopMetricsRecorder); err != nil || !ok {
		t.Fatalf("expected noop recorder, got %T %v", rec, err)
	}
	rec, err = NewMetricsRecorder(MetricsExpvar, nil)
	if _, ok := rec.(*ExpvarMetricsRecorder); err != nil || !ok {
		t.Fatalf("expected expvar recorder, got %T %v", rec, err)
	}
	rec, err = NewMetricsRecorder(MetricsPrometheus, prometheus.NewRegistry())
	if _, ok := rec.(*PrometheusMetricsRecorder); err != nil || !ok {
		t.Fatalf("expected prometheus recorder, got %T %v", rec, err)
	}
	if _, err := NewMetricsRecorder("statsd", nil); err == nil {
		t.Fatalf("expected unknown backend error")
	}
}
