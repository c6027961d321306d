// Package levels is the built-in level catalogue. Files in a levels/
// directory next to the working directory override the embedded copies, so
// levels can be edited and hot reloaded without rebuilding.
package levels

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/milk9111/ride/level"
)

//go:embed *.yaml
var LevelsFS embed.FS

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

// Dir is the on-disk override directory.
var Dir = "levels"

// Load returns the raw level file for name, preferring the disk copy.
func Load(name string) ([]byte, error) {
	clean := cleanLevelPath(name)
	if data, err := os.ReadFile(diskPath(clean)); err == nil {
		return data, nil
	}
	return LevelsFS.ReadFile(clean)
}

// LoadLevel loads, parses and validates the level called name.
func LoadLevel(name string) (*level.Level, error) {
	data, err := Load(name)
	if err != nil {
		return nil, fmt.Errorf("levels: load %s: %w", name, err)
	}
	lvl, err := level.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("levels: parse %s: %w", name, err)
	}
	if err := lvl.Validate(); err != nil {
		return nil, fmt.Errorf("levels: %s: %w", name, err)
	}
	if lvl.Name == "" {
		lvl.Name = strings.TrimSuffix(cleanLevelPath(name), ".yaml")
	}
	return lvl, nil
}

func LoadScript(name string) ([]byte, error) {
	clean := cleanScriptPath(name)
	if data, err := os.ReadFile(diskPath(clean)); err == nil {
		return data, nil
	}
	return ScriptsFS.ReadFile(clean)
}

// Names lists the embedded levels without their extension.
func Names() []string {
	entries, err := fs.ReadDir(LevelsFS, ".")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !isLevelFile(e.Name()) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), path.Ext(e.Name())))
	}
	slices.Sort(names)
	return names
}

func ModTime(name string) (time.Time, bool) {
	info, err := os.Stat(diskPath(cleanLevelPath(name)))
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

// NameOf maps a watched file path back to a level name.
func NameOf(file string) string {
	base := filepath.Base(file)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func cleanLevelPath(name string) string {
	if name == "" {
		return ""
	}
	s := filepath.ToSlash(name)
	if after, ok := strings.CutPrefix(s, "levels/"); ok {
		s = after
	}
	if path.Ext(s) == "" {
		s += ".yaml"
	}
	return s
}

func cleanScriptPath(name string) string {
	if name == "" {
		return ""
	}
	s := filepath.ToSlash(name)
	if after, ok := strings.CutPrefix(s, "levels/"); ok {
		s = after
	}
	if after, ok := strings.CutPrefix(s, "scripts/"); ok {
		s = after
	}
	if path.Ext(s) == "" {
		s += ".tengo"
	}
	return "scripts/" + s
}

func diskPath(clean string) string {
	return filepath.Join(Dir, filepath.FromSlash(clean))
}
