package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/milk9111/ride/common"
	"github.com/milk9111/ride/sim"
)

func quiet() *log.Logger {
	l := log.New(&strings.Builder{})
	l.SetLevel(log.ErrorLevel)
	return l
}

func TestRunWithScript(t *testing.T) {
	desc, err := loadLevel("basement")
	if err != nil {
		t.Fatalf("loadLevel: %v", err)
	}
	runner, err := loadScript("drive", quiet())
	if err != nil {
		t.Fatalf("loadScript: %v", err)
	}

	d := sim.New(common.DefaultConfig(), quiet())
	if err := d.Load(desc); err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer d.Unload()

	if err := run(context.Background(), d, runner, 120); err != nil {
		t.Fatalf("run: %v", err)
	}
	if d.Ticks() != 120 {
		t.Fatalf("expected 120 ticks, got %d", d.Ticks())
	}
	if runner.Stopped() {
		t.Fatalf("expected the script to still be running at tick 120")
	}
}

func TestRunCancelled(t *testing.T) {
	desc, err := loadLevel("seesaw")
	if err != nil {
		t.Fatalf("loadLevel: %v", err)
	}
	d := sim.New(common.DefaultConfig(), quiet())
	if err := d.Load(desc); err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer d.Unload()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := run(ctx, d, nil, 10); err == nil {
		t.Fatalf("expected cancellation error")
	}
	if d.Ticks() != 0 {
		t.Fatalf("expected no ticks, got %d", d.Ticks())
	}
}

func TestLoadFromPaths(t *testing.T) {
	dir := t.TempDir()
	levelPath := filepath.Join(dir, "tiny.yaml")
	src := "bodies:\n  - shapes:\n      - type: circle\n        radius: 1\n        density: 1\n"
	if err := os.WriteFile(levelPath, []byte(src), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	desc, err := loadLevel(levelPath)
	if err != nil {
		t.Fatalf("loadLevel: %v", err)
	}
	if len(desc.Bodies) != 1 {
		t.Fatalf("expected 1 body, got %d", len(desc.Bodies))
	}

	scriptPath := filepath.Join(dir, "noop.tengo")
	if err := os.WriteFile(scriptPath, []byte(`input.stop()`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	runner, err := loadScript(scriptPath, quiet())
	if err != nil {
		t.Fatalf("loadScript: %v", err)
	}
	if runner.Name() != scriptPath {
		t.Fatalf("expected name %q, got %q", scriptPath, runner.Name())
	}
}
