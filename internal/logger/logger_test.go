package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"ERR", zerolog.ErrorLevel},
		{" off ", zerolog.Disabled},
		{"", zerolog.InfoLevel},
		{"something", zerolog.InfoLevel},
	}
	for _, c := range cases {
		if got := parseLevel(c.in); got != c.want {
			t.Fatalf("parseLevel(%q)=%v, want %v", c.in, got, c.want)
		}
	}
}

func TestGetenv(t *testing.T) {
	t.Setenv("X", "val")
	if v := getenv("X", "def"); v != "val" {
		t.Fatalf("getenv returned %q, want 'val'", v)
	}
	if v := getenv("Y", "def"); v != "def" {
		t.Fatalf("getenv returned %q, want 'def'", v)
	}
}

func TestInitAndL(t *testing.T) {
	Init("info", false)
	if L() == nil {
		t.Fatalf("L() returned nil")
	}

	Init("debug", true)
	if L().GetLevel() != zerolog.DebugLevel {
		t.Fatalf("expected debug level, got %v", L().GetLevel())
	}
}

func TestL_LazyInitFromEnv(t *testing.T) {
	mu.Lock()
	ready = false
	base = zerolog.Logger{}
	mu.Unlock()

	t.Setenv("LOG_LEVEL", "warn")
	_ = os.Unsetenv("LOG_PRETTY")
	if got := L().GetLevel(); got != zerolog.WarnLevel {
		t.Fatalf("expected lazy init at warn, got %v", got)
	}
}

func TestFor_TagsComponent(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(nil); Init("info", false) })
	Init("info", false)

	l := For("ingestion")
	l.Info().Msg("hello")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("log line is not json: %v (%q)", err, buf.String())
	}
	if line["component"] != "ingestion" || line["service"] != "fxpulse" || line["message"] != "hello" {
		t.Fatalf("unexpected log line: %v", line)
	}
}
