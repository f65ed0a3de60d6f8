package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/seqkit/errors"
)

func newJSONLogger(t *testing.T, level string) (*Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: level, Format: "json"}, "test-svc", &buf)
	return l, &buf
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &m); err != nil {
		t.Fatalf("invalid JSON log line %q: %v", buf.String(), err)
	}
	return m
}

func TestNewDefault(t *testing.T) {
	l := NewDefault("test-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.service != "test-svc" {
		t.Errorf("expected service 'test-svc', got %q", l.service)
	}
}

func TestNewInvalidLevel(t *testing.T) {
	l, buf := newJSONLogger(t, "invalid-level")
	l.Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("invalid level should fall back to info, got %q", buf.String())
	}
	l.Info("shown")
	if buf.Len() == 0 {
		t.Error("expected info message to be written")
	}
}

func TestNewFromEnv(t *testing.T) {
	os.Setenv("SEQKIT_LOG_LEVEL", "debug")
	os.Setenv("SEQKIT_LOG_FORMAT", "json")
	defer os.Unsetenv("SEQKIT_LOG_LEVEL")
	defer os.Unsetenv("SEQKIT_LOG_FORMAT")

	l := NewFromEnv("env-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.GetLogger().GetLevel().String() != "debug" {
		t.Errorf("expected debug level, got %s", l.GetLogger().GetLevel())
	}
}

func TestJSONOutput_Fields(t *testing.T) {
	l, buf := newJSONLogger(t, "debug")
	l.WithComponent("splitter").Info("classified", Fields(FieldBranch, 2, FieldBuffered, 7))

	m := decodeLine(t, buf)
	if m["message"] != "classified" {
		t.Errorf("message = %v", m["message"])
	}
	if m[FieldComponent] != "splitter" {
		t.Errorf("component = %v", m[FieldComponent])
	}
	if m["service"] != "test-svc" {
		t.Errorf("service = %v", m["service"])
	}
	if m[FieldBranch] != float64(2) || m[FieldBuffered] != float64(7) {
		t.Errorf("fields = %v", m)
	}
}

func TestWithContext_TraceAndPass(t *testing.T) {
	l, buf := newJSONLogger(t, "info")
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16},
		SpanID:     trace.SpanID{1, 2, 3, 4, 5, 6, 7, 8},
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)
	ctx = ContextWithPassID(ctx, "pass-1")

	l.WithContext(ctx).Info("pass")
	m := decodeLine(t, buf)
	if m[FieldTraceID] != sc.TraceID().String() {
		t.Errorf("trace_id = %v", m[FieldTraceID])
	}
	if m[FieldSpanID] != sc.SpanID().String() {
		t.Errorf("span_id = %v", m[FieldSpanID])
	}
	if m[FieldPassID] != "pass-1" {
		t.Errorf("pass_id = %v", m[FieldPassID])
	}
}

func TestWithContext_Empty(t *testing.T) {
	l, buf := newJSONLogger(t, "info")
	l.WithContext(context.Background()).Info("plain")
	m := decodeLine(t, buf)
	if _, ok := m[FieldTraceID]; ok {
		t.Error("unexpected trace_id without a span")
	}
}

func TestWithFields(t *testing.T) {
	l, buf := newJSONLogger(t, "info")
	l.WithFields(map[string]interface{}{FieldSequence: "orders"}).Warn("slow")
	m := decodeLine(t, buf)
	if m[FieldSequence] != "orders" || m["level"] != "warn" {
		t.Errorf("got %v", m)
	}
}

func TestWithError(t *testing.T) {
	l, buf := newJSONLogger(t, "info")
	l.WithError(errors.TooManyElements()).Error("find single failed")
	m := decodeLine(t, buf)
	if !strings.Contains(fmt.Sprint(m["error"]), "TOO_MANY_ELEMENTS") {
		t.Errorf("error = %v", m["error"])
	}
}

func TestEnabled(t *testing.T) {
	l, _ := newJSONLogger(t, "warn")
	if l.Enabled(l.GetLogger().GetLevel() - 1) {
		t.Error("levels below warn should be disabled")
	}
	if !l.Enabled(l.GetLogger().GetLevel()) {
		t.Error("warn should be enabled")
	}
}

func TestInitAndGlobal(t *testing.T) {
	Init(Config{Level: "debug", Format: "json", Output: "discard"}, "init-svc")
	if GetGlobalLogger().service != "init-svc" {
		t.Errorf("global service = %q", GetGlobalLogger().service)
	}
	Debug("debug message")
	Info("info message")
	Warn("warn message")
	Error("error message")
	_ = WithContext(context.Background())
}

func TestSetGlobalLogger(t *testing.T) {
	l, buf := newJSONLogger(t, "info")
	SetGlobalLogger(l)
	Info("via global")
	if !strings.Contains(buf.String(), "via global") {
		t.Errorf("expected global logger output, got %q", buf.String())
	}
}

func TestRegisterAndGet(t *testing.T) {
	defer Reset()
	l, buf := newJSONLogger(t, "info")
	Register("memo", l)
	Get("memo").Info("registered")
	if !strings.Contains(buf.String(), "registered") {
		t.Error("Get should return the registered logger")
	}
}

func TestGetUnregistered(t *testing.T) {
	Reset()
	if Get("unknown") == nil {
		t.Fatal("expected fallback logger")
	}
}

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Level != "info" || cfg.Format != "console" || cfg.Output != "stderr" || !cfg.Timestamp {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Level: "debug", Format: "json", Output: "stdout"}, false},
		{"bad level", Config{Level: "loud", Format: "json", Output: "stdout"}, true},
		{"bad format", Config{Level: "info", Format: "xml", Output: "stdout"}, true},
		{"bad output", Config{Level: "info", Format: "json", Output: "file"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() err = %v, wantErr %v", err, tc.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrInvalidConfig) {
				t.Errorf("expected invalid config error, got %v", err)
			}
		})
	}
}

func TestConsoleLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "info", Format: "console", NoColor: true}, "", &buf)
	l.Info("hello", Fields(FieldPulled, 3))
	out := buf.String()
	if !strings.Contains(out, "[INF]") || !strings.Contains(out, "hello") || !strings.Contains(out, "pulled:3") {
		t.Errorf("unexpected console output %q", out)
	}
}

func TestFields(t *testing.T) {
	m := Fields("a", 1, "b", "two", 3, "skipped", "dangling")
	if len(m) != 2 || m["a"] != 1 || m["b"] != "two" {
		t.Errorf("got %v", m)
	}
}

func TestErrorFields(t *testing.T) {
	m := ErrorFields("split", fmt.Errorf("boom"))
	if m[FieldOperation] != "split" || m[FieldError] != "boom" {
		t.Errorf("got %v", m)
	}
}

func TestDurationFields(t *testing.T) {
	m := DurationFields("sort", 1500*time.Millisecond)
	if m[FieldDuration] != int64(1500) {
		t.Errorf("got %v", m)
	}
}

func TestPassFields(t *testing.T) {
	m := PassFields("orders", "p-1", 12, 2*time.Second)
	if m[FieldSequence] != "orders" || m[FieldPassID] != "p-1" || m[FieldPulled] != int64(12) || m[FieldDuration] != int64(2000) {
		t.Errorf("got %v", m)
	}
}
