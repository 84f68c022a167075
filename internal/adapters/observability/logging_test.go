package observability

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestNewLogger_JSONAndLevel(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, "prod", "warn")

	l.Info().Msg("dropped")
	l.Warn().Str("provider", "liteapi").Msg("kept")

	var line map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line); err != nil {
		t.Fatalf("expected a single JSON line, got %q: %v", buf.String(), err)
	}
	if line["message"] != "kept" || line["provider"] != "liteapi" || line["service"] != "stayfinder" {
		t.Fatalf("unexpected log line: %+v", line)
	}
}
