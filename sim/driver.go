// Package sim drives an assembled level with a fixed timestep.
package sim

import (
	"fmt"
	"math"

	"github.com/charmbracelet/log"
	"github.com/milk9111/ride/actor"
	"github.com/milk9111/ride/assembly"
	"github.com/milk9111/ride/common"
	"github.com/milk9111/ride/level"
	"github.com/milk9111/ride/physics"
)

// tickEpsilon absorbs float rounding so that N ticks of frame time, however
// split across frames, run exactly N steps.
const tickEpsilon = 1e-9

type State int

const (
	Idle State = iota
	Running
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Driver owns at most one running level. It is not safe for concurrent use.
type Driver struct {
	cfg         common.Config
	logger      *log.Logger
	bindings    *actor.Bindings
	desc        *level.Level
	level       *assembly.Level
	accumulator float64
	ticks       int
}

func New(cfg common.Config, logger *log.Logger) *Driver {
	if logger == nil {
		logger = log.Default().WithPrefix("sim")
	}
	if !(cfg.TickRate > 0) {
		cfg.TickRate = common.DefaultConfig().TickRate
	}
	return &Driver{
		cfg:      cfg,
		logger:   logger,
		bindings: actor.NewBindings(),
	}
}

func (d *Driver) State() State {
	if d.level == nil {
		return Idle
	}
	return Running
}

func (d *Driver) Config() common.Config {
	return d.cfg
}

// Tick returns the fixed timestep in seconds.
func (d *Driver) Tick() float64 {
	return d.cfg.Tick()
}

// Load tears down the current level and assembles desc. On failure the
// driver is left idle.
func (d *Driver) Load(desc *level.Level) error {
	d.Unload()
	if desc == nil {
		return fmt.Errorf("sim: load: nil level")
	}

	lvl, err := assembly.Assemble(desc, d.cfg, d.bindings, d.logger)
	if err != nil {
		d.logger.Error("load failed", "level", desc.Name, "err", err)
		return fmt.Errorf("sim: load: %w", err)
	}

	d.desc = desc
	d.level = lvl
	d.logger.Info("level running", "level", desc.Name, "inputs", d.bindings.Inputs())
	return nil
}

// Reload reassembles the description currently loaded.
func (d *Driver) Reload() error {
	if d.desc == nil {
		return fmt.Errorf("sim: reload: no level loaded")
	}
	return d.Load(d.desc)
}

// Unload releases the running level: bindings first, then actors, then the
// world.
func (d *Driver) Unload() {
	if d.level != nil {
		d.logger.Info("level unloaded", "level", d.level.Desc.Name, "ticks", d.ticks)
		d.level.Close()
	}
	d.bindings.ResetHeld()
	d.level = nil
	d.desc = nil
	d.accumulator = 0
	d.ticks = 0
}

// Advance adds frameDt seconds of real time and runs every whole tick now
// due. Each tick steps all actors in creation order, then the world. It
// returns the number of ticks run.
func (d *Driver) Advance(frameDt float64) int {
	if d.level == nil || !(frameDt >= 0) || math.IsInf(frameDt, 0) {
		return 0
	}

	tick := d.Tick()
	d.accumulator += frameDt
	n := 0
	for d.accumulator+tickEpsilon >= tick {
		d.level.Actors.Step(tick)
		d.level.World.Step(tick)
		d.accumulator -= tick
		n++
	}
	if d.accumulator < 0 {
		d.accumulator = 0
	}
	d.ticks += n
	return n
}

// Ticks returns the number of ticks run since the level was loaded.
func (d *Driver) Ticks() int {
	return d.ticks
}

// Press forwards a control input press. It reports whether anything is bound
// to the input.
func (d *Driver) Press(input string) bool {
	return d.bindings.Press(input)
}

func (d *Driver) Release(input string) bool {
	return d.bindings.Release(input)
}

// Inputs returns the control inputs the running level listens to.
func (d *Driver) Inputs() []string {
	return d.bindings.Inputs()
}

// CameraFocus returns the point the camera follows, if the level has one.
func (d *Driver) CameraFocus() (level.Vec, bool) {
	if d.level == nil {
		return level.Vec{}, false
	}
	p, ok := d.level.Focus.Get()
	return level.V(p.X, p.Y), ok
}

func (d *Driver) World() *physics.World {
	if d.level == nil {
		return nil
	}
	return d.level.World
}

func (d *Driver) Springs() []*actor.Spring {
	if d.level == nil {
		return nil
	}
	return d.level.Springs
}

// Level returns the description of the running level.
func (d *Driver) Level() *level.Level {
	return d.desc
}

func (d *Driver) Start() level.Vec {
	if d.desc == nil {
		return level.Vec{}
	}
	return d.desc.Start
}

func (d *Driver) Goal() level.Vec {
	if d.desc == nil {
		return level.Vec{}
	}
	return d.desc.Goal
}
