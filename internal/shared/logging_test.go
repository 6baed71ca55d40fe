package shared

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, "text", "warn")

	log.Info("below threshold")
	log.Warn("kept", "rule", "S103")

	out := buf.String()
	if strings.Contains(out, "below threshold") {
		t.Fatalf("info record leaked past warn level:\n%s", out)
	}
	if !strings.Contains(out, "kept") || !strings.Contains(out, "S103") {
		t.Fatalf("warn record missing:\n%s", out)
	}
}

func TestNewLogger_Defaults(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, "", "bogus")

	log.Info("msg")
	if !strings.HasPrefix(strings.TrimSpace(buf.String()), "{") {
		t.Fatalf("default format must be JSON, got:\n%s", buf.String())
	}

	buf.Reset()
	log.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("bogus level must fall back to info, debug leaked:\n%s", buf.String())
	}
}
