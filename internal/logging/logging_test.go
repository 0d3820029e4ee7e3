package logging_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/thywilljoshua/studynotes/internal/logging"
)

func TestSetup_JSON(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })
	var buf bytes.Buffer
	if err := logging.Setup("debug", "json", &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	log.Debug().Str("artifact", "summary").Msg("hello")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected one JSON line, got %q: %v", buf.String(), err)
	}
	if entry["message"] != "hello" || entry["artifact"] != "summary" || entry["level"] != "debug" {
		t.Fatalf("unexpected entry: %v", entry)
	}
	if _, ok := entry["caller"]; !ok {
		t.Fatalf("expected caller field, got %v", entry)
	}
}

func TestSetup_LevelFilters(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })
	var buf bytes.Buffer
	if err := logging.Setup("WARN", "console", &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	log.Info().Msg("quiet")
	log.Warn().Msg("loud")
	if strings.Contains(buf.String(), "quiet") || !strings.Contains(buf.String(), "loud") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestSetup_Rejects(t *testing.T) {
	var buf bytes.Buffer
	if err := logging.Setup("chatty", "console", &buf); err == nil {
		t.Fatalf("expected error for unknown level")
	}
	if err := logging.Setup("info", "xml", &buf); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}
