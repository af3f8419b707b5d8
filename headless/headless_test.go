package headless

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/olivierh59500/flowswarm/swarm"
	"github.com/olivierh59500/flowswarm/telemetry"
)

func newState(t *testing.T) *swarm.State {
	t.Helper()
	st := swarm.DefaultSettings()
	st.Count = 40
	s, err := swarm.NewState(st, 8)
	if err != nil {
		t.Fatalf("NewState: %v", err)
	}
	return s
}

func TestRunMaxFrames(t *testing.T) {
	s := newState(t)
	dir := t.TempDir()
	out, err := telemetry.NewOutput(dir)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	opts := Options{MaxFrames: 100, LogStats: true, Pointer: swarm.NewOrbit()}
	if err := Run(context.Background(), s, telemetry.NewCollector(25), out, opts, logger); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if err := out.Close(); err != nil {
		t.Fatal(err)
	}

	if s.Frame != 100 {
		t.Errorf("frame = %d, want 100", s.Frame)
	}
	data, err := os.ReadFile(filepath.Join(dir, "stats.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if rows := strings.Count(strings.TrimSpace(string(data)), "\n"); rows != 4 {
		t.Errorf("got %d csv rows, want 4:\n%s", rows, data)
	}
	if n := strings.Count(buf.String(), `"msg":"stats"`); n != 4 {
		t.Errorf("logged %d stats windows, want 4", n)
	}
}

func TestRunCancelled(t *testing.T) {
	s := newState(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	err := Run(ctx, s, telemetry.NewCollector(10), nil, Options{}, logger)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run error = %v, want context.Canceled", err)
	}
	if s.Frame != 0 {
		t.Errorf("frame = %d, want 0 after immediate cancel", s.Frame)
	}
}
