package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/appengine-ltd/reel-it/internal/game"
)

func TestParseEnvDefaults(t *testing.T) {
	cfg, err := ParseEnvFrom(map[string]string{})
	if err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.LogLevel != "info" || cfg.Lure != "spinner" || cfg.Location != "lake" || cfg.PlayerLevel != 1 {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	lure, err := cfg.LureType()
	if err != nil || lure != game.LureSpinner {
		t.Fatalf("expected spinner, got %q (%v)", lure, err)
	}
}

func TestParseEnvOverrides(t *testing.T) {
	cfg, err := ParseEnvFrom(map[string]string{
		"REELIT_SEED":         "99",
		"REELIT_DATA_DIR":     "/tmp/reel",
		"REELIT_LURE":         "soft-plastic",
		"REELIT_LOCATION":     "sea",
		"REELIT_PLAYER_LEVEL": "12",
	})
	if err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Seed != 99 || cfg.PlayerLevel != 12 {
		t.Fatalf("unexpected overrides %+v", cfg)
	}
	if lure, _ := cfg.LureType(); lure != game.LureSoftPlastic {
		t.Fatalf("expected soft plastic, got %q", lure)
	}
	if c := cfg.Conditions(); c.Location != "sea" || c.PlayerLevel != 12 || c.TimePeriod != "day" {
		t.Fatalf("unexpected conditions %+v", c)
	}
	path, err := cfg.JournalFile()
	if err != nil || path != filepath.Join("/tmp/reel", "journal.db") {
		t.Fatalf("unexpected journal path %q (%v)", path, err)
	}
}

func TestParseEnvRejectsBadNumbers(t *testing.T) {
	if _, err := ParseEnvFrom(map[string]string{"REELIT_SEED": "lots"}); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestJournalFileDisabled(t *testing.T) {
	cfg := Env{NoJournal: true, JournalPath: "/x/journal.db"}
	if path, err := cfg.JournalFile(); err != nil || path != "" {
		t.Fatalf("expected journal disabled, got %q (%v)", path, err)
	}
}

func TestLoadTuningEmptyPath(t *testing.T) {
	got, err := LoadTuning("")
	if err != nil || got != game.DefaultTuning() {
		t.Fatalf("expected defaults, got err %v", err)
	}
}

func TestLoadTuningMergesOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	data := `
cast:
  timeout: 10s
lure:
  sequence_steps: 5
reel:
  tick: 50ms
  escape_rate: 0
qte:
  hold_duration: 1.2s
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := LoadTuning(path)
	if err != nil {
		t.Fatalf("load tuning: %v", err)
	}
	want := game.DefaultTuning()
	want.CastTimeout = 10 * time.Second
	want.LureSequenceSteps = 5
	want.ReelTick = 50 * time.Millisecond
	want.EscapeRate = 0
	want.HoldDuration = 1200 * time.Millisecond
	if got != want {
		t.Fatalf("unexpected merged tuning:\n got %+v\nwant %+v", got, want)
	}
}

func TestParseTuningValidates(t *testing.T) {
	_, err := ParseTuning([]byte("reel:\n  safe_band_low: 80\n  safe_band_high: 40\n"))
	if err == nil || !strings.Contains(err.Error(), "safe band") {
		t.Fatalf("expected safe band validation error, got %v", err)
	}
	if _, err := ParseTuning([]byte("reel:\n  tik: 1s\n")); err == nil {
		t.Fatalf("expected unknown field error")
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, "warn", "json")
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("shown", "kind", "data_integrity")
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, `"kind":"data_integrity"`) {
		t.Fatalf("unexpected log output %q", out)
	}
	if _, err := NewLogger(&buf, "loud", "text"); err == nil {
		t.Fatalf("expected level error")
	}
	if _, err := NewLogger(&buf, "info", "xml"); err == nil {
		t.Fatalf("expected format error")
	}
}

func TestMarshalTuningReadsBack(t *testing.T) {
	want := game.DefaultTuning()
	want.HoldDuration = 900 * time.Millisecond
	data, err := MarshalTuning(want)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got, err := ParseTuning(data)
	if err != nil {
		t.Fatalf("parse exported tuning: %v\n%s", err, data)
	}
	if got != want {
		t.Fatalf("exported tuning did not read back:\n got %+v\nwant %+v", got, want)
	}
}
