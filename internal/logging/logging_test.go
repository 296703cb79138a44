package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/SirPigari/mewo/internal/config"
)

func TestNewHandler_JSON(t *testing.T) {
	var buf bytes.Buffer
	handler := newHandler(config.LogFormatJSON, &buf, slog.LevelInfo)
	logger := slog.New(handler)

	logger.Info("test", "key", "value")

	var result map[string]any
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("JSON unmarshal failed: %v (output: %s)", err, buf.String())
	}

	if result["msg"] != "test" {
		t.Errorf("msg = %v, want test", result["msg"])
	}
	if result["key"] != "value" {
		t.Errorf("key = %v, want value", result["key"])
	}
}

func TestNewHandler_Text(t *testing.T) {
	var buf bytes.Buffer
	handler := newHandler(config.LogFormatText, &buf, slog.LevelInfo)
	logger := slog.New(handler)

	logger.Info("test", "key", "value")

	output := buf.String()
	if !strings.Contains(output, "test") {
		t.Errorf("output should contain 'test': %s", output)
	}
	if !strings.Contains(output, "key=value") {
		t.Errorf("output should contain 'key=value': %s", output)
	}
}

func TestNew(t *testing.T) {
	cfg := config.Default()
	logger := New(cfg)
	if logger == nil {
		t.Fatal("expected logger to be non-nil")
	}
	if logger.Enabled(nil, slog.LevelDebug) {
		t.Error("default logger should not emit debug records")
	}
}

func TestNewDebug(t *testing.T) {
	cfg := config.Default()
	logger := NewDebug(cfg)
	if !logger.Enabled(nil, slog.LevelDebug) {
		t.Error("debug logger should emit debug records")
	}
}

func TestNewDefault(t *testing.T) {
	logger := NewDefault()
	if logger == nil {
		t.Fatal("expected logger to be non-nil")
	}
}

func TestNewForTest(t *testing.T) {
	logger := NewForTest()
	if logger == nil {
		t.Fatal("expected logger to be non-nil")
	}
	logger.Info("test message")
}

func TestWithLine(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	enriched := WithLine(logger, 42)
	enriched.Info("test")

	var result map[string]any
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("JSON unmarshal failed: %v", err)
	}

	if result["line"] != float64(42) {
		t.Errorf("line = %v, want 42", result["line"])
	}
}
