package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/bowshot/sim"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load defaults: %v", err)
	}

	p := cfg.SimParams()
	want := sim.DefaultParams()
	if p != want {
		t.Errorf("default sim params = %+v, want %+v", p, want)
	}
	if cfg.Derived.WorldW32 != 1500 || cfg.Derived.WorldH32 != 1500 {
		t.Errorf("world = %vx%v, want 1500x1500", cfg.Derived.WorldW32, cfg.Derived.WorldH32)
	}
	if cfg.Screen.Title == "" {
		t.Error("expected a default title")
	}
}

func TestLoadOverridesOnlyPresentFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte("physics:\n  gravity: 0.5\nscoring:\n  award: 10\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Physics.Gravity != 0.5 {
		t.Errorf("gravity = %v, want 0.5", cfg.Physics.Gravity)
	}
	if cfg.Scoring.Award != 10 {
		t.Errorf("award = %v, want 10", cfg.Scoring.Award)
	}
	if cfg.Physics.VelocityDivisor != 6 {
		t.Errorf("velocity divisor = %v, want default 6", cfg.Physics.VelocityDivisor)
	}
	if cfg.Launch.X != 120 || cfg.Launch.Y != 450 {
		t.Errorf("launch = (%v, %v), want default (120, 450)", cfg.Launch.X, cfg.Launch.Y)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"zero divisor", "physics:\n  velocity_divisor: 0\n"},
		{"empty miss band", "miss_band:\n  min: 600\n  max: 600\n"},
		{"zero stats window", "telemetry:\n  stats_window: 0\n"},
		{"bad screen", "screen:\n  width: 0\n"},
		{"malformed", "physics: [\n"},
		{"zero max pull", "autopilot:\n  max_pull: 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestWorldFallsBackToScreen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("world:\n  width: 0\n  height: 0\nscreen:\n  width: 800\n  height: 600\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Derived.WorldW32 != 800 || cfg.Derived.WorldH32 != 600 {
		t.Errorf("world = %vx%v, want 800x600", cfg.Derived.WorldW32, cfg.Derived.WorldH32)
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Scoring.Award = 99

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load written config: %v", err)
	}
	if back.Scoring.Award != 99 {
		t.Errorf("award = %d, want 99", back.Scoring.Award)
	}
}

func TestCfgPanicsBeforeInit(t *testing.T) {
	saved := global
	global = nil
	defer func() {
		global = saved
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	Cfg()
}
