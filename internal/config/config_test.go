package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadReturnsDefaultsWhenMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.General.HorizonDays != 90 {
		t.Fatalf("HorizonDays = %d, want 90", cfg.General.HorizonDays)
	}
	if cfg.Planning.MinPhaseGapDays != 1 {
		t.Fatalf("MinPhaseGapDays = %d, want 1", cfg.Planning.MinPhaseGapDays)
	}
	if cfg.Appearance.Theme != "flexoki-dark" {
		t.Fatalf("Theme = %q, want flexoki-dark", cfg.Appearance.Theme)
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.General.HorizonDays = 30
	cfg.Planning.MinPhaseGapDays = 3
	cfg.Appearance.Theme = "tokyo-night"

	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !Exists() {
		t.Fatal("config file should exist after Save")
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.General.HorizonDays != 30 || got.Planning.MinPhaseGapDays != 3 || got.Appearance.Theme != "tokyo-night" {
		t.Fatalf("round trip = %+v", got)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	path := filepath.Join(dir, "foreplan")
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(path, "config.toml"), []byte("[general]\nhorizon_days = 14\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.General.HorizonDays != 14 {
		t.Fatalf("HorizonDays = %d, want 14", cfg.General.HorizonDays)
	}
	if cfg.Planning.MinPhaseGapDays != 1 {
		t.Fatalf("unset section lost its default: %+v", cfg.Planning)
	}
}

func TestDBPathOverride(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")

	cfg := DefaultConfig()
	if got := DBPath(cfg); got != "/tmp/xdg/foreplan/foreplan.db" {
		t.Fatalf("DBPath = %q", got)
	}

	cfg.General.DBPath = "/data/plan.db"
	if got := DBPath(cfg); got != "/data/plan.db" {
		t.Fatalf("DBPath override = %q", got)
	}
}
