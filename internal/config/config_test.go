package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultPassesValidation(t *testing.T) {
	cfg := Default()
	if err := validate(cfg); err != nil {
		t.Fatalf("default config failed validation: %v", err)
	}
}

func TestValidateRejectsBadElevMask(t *testing.T) {
	cfg := Default()
	cfg.Station.ElevMaskDeg = 95
	if err := validate(cfg); err == nil {
		t.Fatal("expected validation error for out-of-range elev_mask_deg")
	}
}

func TestValidateRejectsNonPositiveTick(t *testing.T) {
	cfg := Default()
	cfg.Producer.TickS = 0
	if err := validate(cfg); err == nil {
		t.Fatal("expected validation error for tick_s <= 0")
	}
}

func TestLoadLayersOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	toml := `
[station]
latitude = 1.5
longitude = 2.5
elev_mask_deg = 15
`
	if err := os.WriteFile(path, []byte(toml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Station.Latitude != 1.5 || cfg.Station.ElevMaskDeg != 15 {
		t.Errorf("TOML values not applied: %+v", cfg.Station)
	}
	if cfg.Producer.TickS != 1.0 {
		t.Errorf("unset producer.tick_s should retain default, got %v", cfg.Producer.TickS)
	}
}

func TestListProfilesOnMissingDir(t *testing.T) {
	profiles, err := ListProfiles(filepath.Join(t.TempDir(), "does-not-exist"))
	if err != nil {
		t.Fatalf("ListProfiles: %v", err)
	}
	if len(profiles) != 0 {
		t.Errorf("expected no profiles, got %d", len(profiles))
	}
}
