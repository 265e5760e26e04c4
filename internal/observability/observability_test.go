package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"sales-dashboard/internal/config"
)

func TestNewLogger_Formats(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(config.LoggerConfig{Level: "info", Format: "json"}, &buf)
	logger.Info("hello", "k", "v")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("json handler output not decodable: %v", err)
	}
	if entry["msg"] != "hello" || entry["service"] != "sales-dashboard" {
		t.Errorf("unexpected entry %v", entry)
	}

	buf.Reset()
	logger = NewLogger(config.LoggerConfig{Level: "info", Format: "text"}, &buf)
	logger.Info("hello")
	if !strings.Contains(buf.String(), "msg=hello") {
		t.Errorf("text handler output = %q", buf.String())
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLogLevel(in); got != want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestRequestIDContext(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	if got := GetRequestID(ctx); got != "req-1" {
		t.Errorf("GetRequestID() = %q", got)
	}
	if got := GetRequestID(context.Background()); got != "" {
		t.Errorf("GetRequestID() on empty context = %q", got)
	}
}

func TestStartSpan_InheritsTrace(t *testing.T) {
	ctx, parent := StartSpan(context.Background(), "parent")
	_, child := StartSpan(ctx, "child")

	if child.TraceID != parent.TraceID {
		t.Error("child should share the parent's trace id")
	}
	if child.ParentID != parent.SpanID {
		t.Error("child should reference the parent span")
	}

	child.SetError(errors.New("boom"))
	child.Finish()
	if child.Duration == nil || child.Status != SpanStatusError {
		t.Errorf("unexpected child span %+v", child)
	}

	var buf bytes.Buffer
	slog.New(slog.NewTextHandler(&buf, nil)).Info("done", "span", child)
	if !strings.Contains(buf.String(), "span.operation=child") {
		t.Errorf("span log = %q", buf.String())
	}
}
