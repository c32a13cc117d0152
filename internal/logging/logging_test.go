package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestSetup_JSON(t *testing.T) {
	prev := log.Logger
	defer func() {
		log.Logger = prev
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	}()

	var buf bytes.Buffer
	if err := Setup("info", "json", &buf); err != nil {
		t.Fatal(err)
	}

	l := Component("forecast")
	l.Debug().Msg("hidden")
	l.Info().Int("generation", 3).Msg("forecast applied")

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("expected exactly one json line, got %q: %v", buf.String(), err)
	}
	if entry["component"] != "forecast" || entry["message"] != "forecast applied" || entry["level"] != "info" {
		t.Errorf("unexpected entry %v", entry)
	}
	if entry["generation"] != float64(3) {
		t.Errorf("expected generation field, got %v", entry["generation"])
	}
}

func TestSetup_Invalid(t *testing.T) {
	prev := log.Logger
	defer func() { log.Logger = prev }()

	var buf bytes.Buffer
	if err := Setup("loud", "json", &buf); err == nil {
		t.Error("expected error for bad level")
	}
	if err := Setup("info", "xml", &buf); err == nil {
		t.Error("expected error for bad format")
	}
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
}
