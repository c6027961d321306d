package levels

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/milk9111/ride/common"
	"github.com/milk9111/ride/script"
	"github.com/milk9111/ride/sim"
)

func quietLogger() *log.Logger {
	l := log.New(&strings.Builder{})
	l.SetLevel(log.ErrorLevel)
	return l
}

func withDir(t *testing.T, dir string) {
	t.Helper()
	prev := Dir
	Dir = dir
	t.Cleanup(func() { Dir = prev })
}

func TestNames(t *testing.T) {
	got := Names()
	if len(got) != 2 || got[0] != "basement" || got[1] != "seesaw" {
		t.Fatalf("Names() = %v", got)
	}
}

func TestBuiltinLevelsAssemble(t *testing.T) {
	withDir(t, t.TempDir())

	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			desc, err := LoadLevel(name)
			if err != nil {
				t.Fatalf("LoadLevel: %v", err)
			}
			if desc.Name != name {
				t.Fatalf("expected name %q, got %q", name, desc.Name)
			}

			d := sim.New(common.DefaultConfig(), quietLogger())
			if err := d.Load(desc); err != nil {
				t.Fatalf("Load: %v", err)
			}
			defer d.Unload()

			if _, ok := d.CameraFocus(); !ok {
				t.Fatalf("expected a camera focus")
			}
			if n := d.Advance(1); n != 60 {
				t.Fatalf("expected 60 ticks, got %d", n)
			}
		})
	}
}

func TestBasementDrivesRight(t *testing.T) {
	withDir(t, t.TempDir())

	desc, err := LoadLevel("basement")
	if err != nil {
		t.Fatalf("LoadLevel: %v", err)
	}
	d := sim.New(common.DefaultConfig(), quietLogger())
	if err := d.Load(desc); err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer d.Unload()

	before, _ := d.CameraFocus()
	if !d.Press("space") {
		t.Fatalf("expected space to be bound")
	}
	d.Advance(2)
	after, _ := d.CameraFocus()

	if after.X-before.X < 0.5 {
		t.Fatalf("expected the cart to move right, focus went %v -> %v", before, after)
	}
}

func TestDiskOverride(t *testing.T) {
	dir := t.TempDir()
	withDir(t, dir)

	src := `
lower_bound: [-5, -5]
upper_bound: [5, 5]
bodies:
  - id: only
    shapes:
      - type: circle
        radius: 1
`
	if err := os.WriteFile(filepath.Join(dir, "seesaw.yaml"), []byte(src), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	desc, err := LoadLevel("levels/seesaw")
	if err != nil {
		t.Fatalf("LoadLevel: %v", err)
	}
	if desc.Name != "seesaw" {
		t.Fatalf("expected name from the file, got %q", desc.Name)
	}
	if len(desc.Bodies) != 1 || desc.Bodies[0].ID != "only" {
		t.Fatalf("expected disk copy to win, got %d bodies", len(desc.Bodies))
	}
	if _, ok := ModTime("seesaw"); !ok {
		t.Fatalf("expected a mod time for the disk copy")
	}
	if _, ok := ModTime("basement"); ok {
		t.Fatalf("expected no mod time for an embedded-only level")
	}
}

func TestLoadLevelErrors(t *testing.T) {
	dir := t.TempDir()
	withDir(t, dir)

	if _, err := LoadLevel("missing"); err == nil {
		t.Fatalf("expected error for a missing level")
	}

	bad := "bodies:\n  - shapes:\n      - type: circle\n        radius: -1\n"
	if err := os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte(bad), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadLevel("bad"); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestPaths(t *testing.T) {
	tests := []struct {
		in     string
		level  string
		script string
	}{
		{in: "basement", level: "basement.yaml", script: "scripts/basement.tengo"},
		{in: "levels/basement.yaml", level: "basement.yaml", script: "scripts/basement.yaml"},
		{in: "levels/scripts/drive", level: "scripts/drive.yaml", script: "scripts/drive.tengo"},
		{in: "scripts/drive.tengo", level: "scripts/drive.tengo", script: "scripts/drive.tengo"},
		{in: "", level: "", script: ""},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			if got := cleanLevelPath(tc.in); got != tc.level {
				t.Fatalf("cleanLevelPath(%q) = %q, want %q", tc.in, got, tc.level)
			}
			if got := cleanScriptPath(tc.in); got != tc.script {
				t.Fatalf("cleanScriptPath(%q) = %q, want %q", tc.in, got, tc.script)
			}
		})
	}

	if got := NameOf(filepath.Join("levels", "seesaw.yaml")); got != "seesaw" {
		t.Fatalf("NameOf = %q", got)
	}
}

func TestDriveScriptRuns(t *testing.T) {
	withDir(t, t.TempDir())

	src, err := LoadScript("drive")
	if err != nil {
		t.Fatalf("LoadScript: %v", err)
	}
	runner, err := script.Compile("drive", src, quietLogger())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	desc, err := LoadLevel("basement")
	if err != nil {
		t.Fatalf("LoadLevel: %v", err)
	}
	d := sim.New(common.DefaultConfig(), quietLogger())
	if err := d.Load(desc); err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer d.Unload()

	ctx := context.Background()
	for tick := 0; tick < 600 && !runner.Stopped(); tick++ {
		if err := runner.Step(ctx, tick, d.Tick(), d); err != nil {
			t.Fatalf("Step: %v", err)
		}
		d.Advance(d.Tick())
	}
	if !runner.Stopped() {
		t.Fatalf("expected the script to stop")
	}
	if got := d.Ticks(); got != 421 {
		t.Fatalf("expected 421 ticks, got %d", got)
	}
}

func TestWatcherReportsLevelWrites(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	target := filepath.Join(dir, "ramp.yaml")
	if err := os.WriteFile(target, []byte("bodies: []\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case got := <-w.Events:
		if got != target {
			t.Fatalf("expected event for %s, got %s", target, got)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for watcher event")
	}
}

func TestWatcherCloseTwice(t *testing.T) {
	w, err := NewWatcher(t.TempDir())
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if _, ok := <-w.Events; ok {
		t.Fatalf("expected closed events channel")
	}
}
