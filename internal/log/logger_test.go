package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/somabay/handbook/internal/config"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("invalid JSON log line %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, config.LogFormatJSON, "DEBUG")

	logger.Debug("sidebar loaded", slog.Int("nodes", 3))

	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	if lines[0]["msg"] != "sidebar loaded" {
		t.Errorf("msg = %v, want sidebar loaded", lines[0]["msg"])
	}
	if lines[0]["nodes"] != float64(3) {
		t.Errorf("nodes = %v, want 3", lines[0]["nodes"])
	}
}

func TestNew_PrettyFormat(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var buf bytes.Buffer
	logger := New(&buf, config.LogFormatPretty, "INFO")

	logger.Info("page added", slog.String("slug", "hr-benefits"))

	got := buf.String()
	if !strings.Contains(got, " INF page added slug=hr-benefits\n") {
		t.Errorf("unexpected output %q", got)
	}
}

func TestNew_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, config.LogFormatJSON, "WARN")

	logger.Info("hidden")
	logger.Warn("sidebar mirror out of date")

	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %s", len(lines), buf.String())
	}
	if lines[0]["level"] != "WARN" {
		t.Errorf("level = %v, want WARN", lines[0]["level"])
	}
}

func TestContextHandler_AddsIDs(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, config.LogFormatJSON, "INFO").With(slog.String("component", "api"))

	ctx := WithCorrelationID(context.Background(), "corr-1")
	ctx = WithRequestID(ctx, "req-1")
	logger.InfoContext(ctx, "request completed")
	logger.Info("no context ids")

	lines := decodeLines(t, &buf)
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[0]["correlation_id"] != "corr-1" || lines[0]["request_id"] != "req-1" {
		t.Errorf("ids missing from %v", lines[0])
	}
	if lines[0]["component"] != "api" {
		t.Errorf("component = %v, want api", lines[0]["component"])
	}
	if _, ok := lines[1]["correlation_id"]; ok {
		t.Errorf("unexpected correlation_id in %v", lines[1])
	}
}

func TestContextHandler_Group(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, config.LogFormatJSON, "INFO").WithGroup("reorder")

	logger.InfoContext(WithCorrelationID(context.Background(), "c"), "applied", slog.Int("moved", 2))

	lines := decodeLines(t, &buf)
	group, ok := lines[0]["reorder"].(map[string]any)
	if !ok {
		t.Fatalf("reorder group missing from %v", lines[0])
	}
	if group["moved"] != float64(2) || group["correlation_id"] != "c" {
		t.Errorf("group = %v", group)
	}
}

func TestContextIDs_NotSet(t *testing.T) {
	ctx := context.Background()
	if got := CorrelationID(ctx); got != "" {
		t.Errorf("CorrelationID() = %q, want empty", got)
	}
	if got := RequestID(ctx); got != "" {
		t.Errorf("RequestID() = %q, want empty", got)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{" ERROR ", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestConfigure_SetsDefault(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	cfg := config.NewAppConfigWithOptions(
		config.WithLogLevel("ERROR"),
		config.WithLogFormat(config.LogFormatJSON),
	)
	logger := Configure(cfg)

	if slog.Default() != logger {
		t.Error("Configure should install the logger as the slog default")
	}
	if logger.Enabled(context.Background(), slog.LevelWarn) {
		t.Error("warn should be disabled at ERROR level")
	}
}
