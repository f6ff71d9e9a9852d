package core

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsBackend selects the MetricsRecorder implementation.
type MetricsBackend string

const (
	MetricsNone       MetricsBackend = "none"
	MetricsExpvar     MetricsBackend = "expvar"
	MetricsPrometheus MetricsBackend = "prometheus"
)

// Config gathers the environment driven settings of a herdbook process.
type Config struct {
	Storage   StorageConfig
	LogLevel  string
	LogFormat string
	Metrics   MetricsBackend
}

// LoadConfig reads HERDBOOK_* environment variables and validates them.
//
//	HERDBOOK_LOG_LEVEL: debug|info|warn|error (default info)
//	HERDBOOK_LOG_FORMAT: text|json (default text)
//	HERDBOOK_METRICS: none|expvar|prometheus (default none)
func LoadConfig() (Config, error) {
	cfg := Config{
		Storage:   StorageConfigFromEnv(),
		LogLevel:  envOr("HERDBOOK_LOG_LEVEL", "info"),
		LogFormat: envOr("HERDBOOK_LOG_FORMAT", "text"),
		Metrics:   MetricsBackend(envOr("HERDBOOK_METRICS", string(MetricsNone))),
	}
	if _, err := ParseLogLevel(cfg.LogLevel); err != nil {
		return Config{}, err
	}
	switch cfg.LogFormat {
	case "text", "json":
	default:
		return Config{}, fmt.Errorf("unknown log format %q", cfg.LogFormat)
	}
	switch cfg.Metrics {
	case MetricsNone, MetricsExpvar, MetricsPrometheus:
	default:
		return Config{}, fmt.Errorf("unknown metrics backend %q", cfg.Metrics)
	}
	switch cfg.Storage.Driver {
	case StorageMemory, StorageSQLite, StoragePostgres:
	default:
		return Config{}, fmt.Errorf("unknown storage driver %s", cfg.Storage.Driver)
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := strings.ToLower(strings.TrimSpace(os.Getenv(key))); v != "" {
		return v
	}
	return fallback
}

// ParseLogLevel maps a level name onto slog levels.
func ParseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}

// NewLogger builds a slog logger writing text or JSON records to w.
func NewLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	lvl, err := ParseLogLevel(level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: lvl}
	var handler slog.Handler
	switch strings.ToLower(format) {
	case "", "text":
		handler = slog.NewTextHandler(w, opts)
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
	return slog.New(handler).With("service", "herdbook"), nil
}

// NewMetricsRecorder builds the recorder for backend. reg is used by the
// prometheus backend; nil selects prometheus.DefaultRegisterer, where repeated
// calls share one set of collectors readable through prometheus.DefaultGatherer.
func NewMetricsRecorder(backend MetricsBackend, reg prometheus.Registerer) (MetricsRecorder, error) {
	switch backend {
	case MetricsNone, "":
		return noopMetricsRecorder{}, nil
	case MetricsExpvar:
		return NewExpvarMetricsRecorder(""), nil
	case MetricsPrometheus:
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		return NewPrometheusMetricsRecorder(reg), nil
	default:
		return nil, fmt.Errorf("unknown metrics backend %q", backend)
	}
}
