package common

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// Config carries the physical constants and simulation settings that are not
// part of a level description.
type Config struct {
	// TickRate is the number of fixed simulation ticks per second.
	TickRate float64 `yaml:"tick_rate"`
	// SolverIterations is handed to the engine's constraint solver.
	SolverIterations int `yaml:"solver_iterations"`
	// AnchorTolerance is how far outside a shape an anchor may sit and still
	// select it.
	AnchorTolerance float64 `yaml:"anchor_tolerance"`
	// SpringMaxForce is used for springs that do not set their own limit.
	SpringMaxForce float64 `yaml:"spring_max_force"`
	// Gravity, when set, replaces the gravity of every loaded level.
	Gravity *[2]float64 `yaml:"gravity"`
	// BoundaryWalls adds static walls along the level bounds.
	BoundaryWalls bool `yaml:"boundary_walls"`
	// CameraHeight is the world height visible in the viewer.
	CameraHeight float64 `yaml:"camera_height"`
	Debug        bool    `yaml:"debug"`
}

func DefaultConfig() Config {
	return Config{
		TickRate:         60,
		SolverIterations: 10,
		AnchorTolerance:  1e-6,
		SpringMaxForce:   1000,
		BoundaryWalls:    true,
		CameraHeight:     10,
	}
}

// Tick returns the fixed timestep in seconds.
func (c Config) Tick() float64 {
	return 1 / c.TickRate
}

func (c Config) Validate() error {
	switch {
	case c.TickRate <= 0 || math.IsInf(c.TickRate, 0) || math.IsNaN(c.TickRate):
		return fmt.Errorf("config: tick_rate %v must be positive", c.TickRate)
	case c.SolverIterations <= 0:
		return fmt.Errorf("config: solver_iterations %d must be positive", c.SolverIterations)
	case c.AnchorTolerance < 0 || math.IsNaN(c.AnchorTolerance):
		return fmt.Errorf("config: anchor_tolerance %v must not be negative", c.AnchorTolerance)
	case c.SpringMaxForce <= 0 || math.IsNaN(c.SpringMaxForce):
		return fmt.Errorf("config: spring_max_force %v must be positive", c.SpringMaxForce)
	case c.CameraHeight <= 0 || math.IsNaN(c.CameraHeight):
		return fmt.Errorf("config: camera_height %v must be positive", c.CameraHeight)
	}
	return nil
}

// LoadConfig reads a YAML config file over the defaults. A missing file is
// not an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("config: load %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
