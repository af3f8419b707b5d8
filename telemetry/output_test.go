package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestOutputDisabled(t *testing.T) {
	out, err := NewOutput("")
	if err != nil || out != nil {
		t.Fatalf("NewOutput(\"\") = %v, %v; want nil, nil", out, err)
	}
	if err := out.Write(WindowStats{}); err != nil {
		t.Errorf("nil Write: %v", err)
	}
	if err := out.Close(); err != nil {
		t.Errorf("nil Close: %v", err)
	}
}

func TestOutputHeaderOnce(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	out, err := NewOutput(dir)
	if err != nil {
		t.Fatalf("NewOutput: %v", err)
	}
	for i := 1; i <= 3; i++ {
		if err := out.Write(WindowStats{Frame: i * 60, Particles: 200}); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	if err := out.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "stats.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want header + 3 rows:\n%s", len(lines), data)
	}
	if !strings.HasPrefix(lines[0], "frame,particles,") {
		t.Errorf("header = %q", lines[0])
	}
	if strings.Count(string(data), "frame,") != 1 {
		t.Error("header written more than once")
	}
	if !strings.HasPrefix(lines[3], "180,200,") {
		t.Errorf("last row = %q", lines[3])
	}
}
