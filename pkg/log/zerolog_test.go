package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]interface{}
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("invalid log line %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func TestZerologAdapter_Fields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologAdapterWithLogger(zerolog.New(&buf))

	logger.Info("handler registered",
		HandlerID("h1"),
		Int("handlers", 2),
		Bool("pending", true),
		Duration("took", 1500*time.Millisecond),
		Err(errors.New("boom")),
		Any("ids", []string{"h1", "h2"}),
	)

	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	line := lines[0]

	if line["level"] != "info" {
		t.Errorf("level = %v, want info", line["level"])
	}
	if line["message"] != "handler registered" {
		t.Errorf("message = %v", line["message"])
	}
	if line["handler_id"] != "h1" {
		t.Errorf("handler_id = %v, want h1", line["handler_id"])
	}
	if line["handlers"] != float64(2) {
		t.Errorf("handlers = %v, want 2", line["handlers"])
	}
	if line["pending"] != true {
		t.Errorf("pending = %v, want true", line["pending"])
	}
	if _, ok := line["took"]; !ok {
		t.Error("took missing")
	}
	if line["error"] != "boom" {
		t.Errorf("error = %v, want boom", line["error"])
	}
	if ids, ok := line["ids"].([]interface{}); !ok || len(ids) != 2 {
		t.Errorf("ids = %v, want two entries", line["ids"])
	}
}

func TestZerologAdapter_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologAdapterWithLogger(zerolog.New(&buf).Level(zerolog.WarnLevel))

	logger.Debug("hidden")
	logger.Info("hidden")
	logger.Warn("shown")
	logger.Error("shown")

	lines := decodeLines(t, &buf)
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[0]["level"] != "warn" || lines[1]["level"] != "error" {
		t.Errorf("levels = %v, %v", lines[0]["level"], lines[1]["level"])
	}
}

func TestZerologAdapter_With(t *testing.T) {
	var buf bytes.Buffer
	base := NewZerologAdapterWithLogger(zerolog.New(&buf))
	child := base.With(Screen("inbox"))

	child.Info("appeared", Result(stringer("FullyHandled")))
	base.Info("plain")

	lines := decodeLines(t, &buf)
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[0]["screen"] != "inbox" {
		t.Errorf("child screen = %v, want inbox", lines[0]["screen"])
	}
	if lines[0]["result"] != "FullyHandled" {
		t.Errorf("result = %v, want FullyHandled", lines[0]["result"])
	}
	if _, ok := lines[1]["screen"]; ok {
		t.Error("parent logger picked up child fields")
	}
}

func TestNewConsoleAdapter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleAdapter(&buf, zerolog.InfoLevel)

	logger.Debug("hidden")
	logger.Info("visible", String("screen", "tabs"))

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug message written at info level: %q", out)
	}
	if !strings.Contains(out, "visible") || !strings.Contains(out, "tabs") {
		t.Errorf("console output = %q", out)
	}
}

func TestNoopLogger(t *testing.T) {
	var l Logger = NewNoopLogger()
	l.Debug("x")
	l.Info("x")
	l.Warn("x")
	l.Error("x", Err(errors.New("boom")))
	if l.With(String("k", "v")) == nil {
		t.Error("With returned nil")
	}
}

type stringer string

func (s stringer) String() string { return string(s) }
