package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultsLoad(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}
	if cfg.Screen.Width != 800 || cfg.Screen.Height != 600 {
		t.Errorf("screen = %dx%d, want 800x600", cfg.Screen.Width, cfg.Screen.Height)
	}
	s := cfg.Settings()
	if s.Count != 200 || s.MaxSpeed != 4 || s.Flock.SeparationWeight != 1.8 {
		t.Errorf("unexpected default settings: %+v", s)
	}
	if s.Magnitude != 0.2 || s.Curl != 4 {
		t.Errorf("field magnitude=%v curl=%v, want 0.2 and 4", s.Magnitude, s.Curl)
	}
}

func TestUserFileOverridesOnlyNamedFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "swarm:\n  count: 42\nfield:\n  noise: simplex\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Swarm.Count != 42 {
		t.Errorf("count = %d, want 42", cfg.Swarm.Count)
	}
	if cfg.Field.Noise != "simplex" {
		t.Errorf("noise = %q, want simplex", cfg.Field.Noise)
	}
	if cfg.Swarm.MaxSpeed != 4 || cfg.Field.Resolution != 20 {
		t.Errorf("defaults lost: max_speed=%v resolution=%v", cfg.Swarm.MaxSpeed, cfg.Field.Resolution)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"bad yaml", "swarm: [", "parsing config file"},
		{"bad noise", "field:\n  noise: worley\n", "unknown noise kind"},
		{"bad pointer", "pointer:\n  mode: magnet\n", "unknown pointer mode"},
		{"bad view", "screen:\n  view: 7\n", "screen.view"},
		{"zero resolution", "field:\n  resolution: 0\n", "resolution"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(tt.name, " ", "_")+".yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg := Default()
	s := cfg.Settings()
	s.Count = 77
	s.Flocking = false
	s.Pointer.Mode = "attract"
	cfg.SetSettings(s)

	path := filepath.Join(t.TempDir(), "saved.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := loaded.Settings(); got != s {
		t.Errorf("settings after round trip = %+v, want %+v", got, s)
	}
}
