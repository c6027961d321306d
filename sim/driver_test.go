package sim

import (
	"errors"
	"math"
	"testing"

	"github.com/milk9111/ride/common"
	"github.com/milk9111/ride/level"
	"github.com/milk9111/ride/physics"
)

func ball(x, y float64) level.Body {
	mat := level.DefaultMaterial()
	mat.Density = 1
	return level.Body{Shapes: []level.Shape{&level.Circle{Material: mat, Center: level.V(x, y), Radius: 0.4}}}
}

func springLevel() *level.Level {
	desc := level.New()
	desc.Name = "springs"
	desc.Bodies = []level.Body{ball(0, 0), ball(3, 0)}
	desc.Joints = []level.Joint{
		&level.Spring{Anchor1: level.V(0, 0), Anchor2: level.V(3, 0), SpringConstant: 10},
		&level.Motor{Anchor: level.V(0, 0), Torque: 1, Clockwise: "D", CounterClockwise: "A"},
		&level.Camera{Anchor: level.V(3, 0)},
	}
	return desc
}

func TestDriverLifecycle(t *testing.T) {
	d := New(common.DefaultConfig(), nil)
	if d.State() != Idle {
		t.Fatalf("expected idle driver")
	}
	if n := d.Advance(1); n != 0 {
		t.Fatalf("expected idle driver not to tick, ran %d", n)
	}
	if _, ok := d.CameraFocus(); ok {
		t.Fatalf("expected no focus while idle")
	}

	if err := d.Load(springLevel()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if d.State() != Running {
		t.Fatalf("expected running driver")
	}
	focus, ok := d.CameraFocus()
	if !ok || math.Abs(focus.X-3) > 1e-9 {
		t.Fatalf("expected focus on second ball, got %v %v", focus, ok)
	}
	if got := d.Inputs(); len(got) != 2 || got[0] != "A" || got[1] != "D" {
		t.Fatalf("expected inputs [A D], got %v", got)
	}
	if d.Start() != level.V(-50, 0) || d.Goal() != level.V(50, 0) {
		t.Fatalf("unexpected markers %v %v", d.Start(), d.Goal())
	}

	d.Unload()
	if d.State() != Idle || d.World() != nil || d.Level() != nil {
		t.Fatalf("expected idle driver after unload")
	}
	if d.Press("A") {
		t.Fatalf("expected no bindings after unload")
	}
}

func TestDriverSplitTicks(t *testing.T) {
	tests := []struct {
		name   string
		frames []float64
		want   int
	}{
		{name: "one frame", frames: []float64{10.0 / 60}, want: 10},
		{name: "per tick", frames: repeat(1.0/60, 10), want: 10},
		{name: "halves", frames: repeat(0.5/60, 20), want: 10},
		{name: "thirds", frames: repeat(1.0/180, 30), want: 10},
		{name: "uneven", frames: []float64{0.7 / 60, 2.3 / 60, 4 / 60.0, 3 / 60.0}, want: 10},
		{name: "short", frames: []float64{0.4 / 60}, want: 0},
		{name: "negative ignored", frames: []float64{-1, 1.0 / 60, math.NaN()}, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New(common.DefaultConfig(), nil)
			if err := d.Load(springLevel()); err != nil {
				t.Fatalf("Load: %v", err)
			}
			total := 0
			for _, dt := range tt.frames {
				total += d.Advance(dt)
			}
			if total != tt.want || d.Ticks() != tt.want {
				t.Fatalf("expected %d ticks, ran %d (Ticks=%d)", tt.want, total, d.Ticks())
			}
			if d.World().Steps() != tt.want || d.level.Actors.Passes() != tt.want {
				t.Fatalf("expected %d world steps and actor passes, got %d and %d", tt.want, d.World().Steps(), d.level.Actors.Passes())
			}
		})
	}
}

func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

type stepProbe struct {
	world *physics.World
	seen  []int
}

func (p *stepProbe) Step(float64) {
	p.seen = append(p.seen, p.world.Steps())
}

func TestDriverStepsActorsBeforeWorld(t *testing.T) {
	d := New(common.DefaultConfig(), nil)
	if err := d.Load(springLevel()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	probe := &stepProbe{world: d.World()}
	d.level.Actors.Add(probe)

	d.Advance(3 * d.Tick())

	want := []int{0, 1, 2}
	if len(probe.seen) != len(want) {
		t.Fatalf("expected %v, got %v", want, probe.seen)
	}
	for i := range want {
		if probe.seen[i] != want[i] {
			t.Fatalf("expected actors to see %v world steps, got %v", want, probe.seen)
		}
	}
}

func TestDriverPressRelease(t *testing.T) {
	d := New(common.DefaultConfig(), nil)
	if err := d.Load(springLevel()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	motor := d.level.Motors[0]

	if !d.Press("A") {
		t.Fatalf("expected A to be bound")
	}
	d.Advance(d.Tick())
	if motor.Throttle() != 1 || motor.Torque() != 1 {
		t.Fatalf("expected full throttle, got %d torque %v", motor.Throttle(), motor.Torque())
	}

	d.Release("A")
	d.Advance(d.Tick())
	if motor.Throttle() != 0 || motor.Torque() != 0 {
		t.Fatalf("expected released motor idle, got %d torque %v", motor.Throttle(), motor.Torque())
	}
	if d.Press("space") {
		t.Fatalf("expected space to be unbound")
	}
}

func TestDriverFailedLoadStaysIdle(t *testing.T) {
	d := New(common.DefaultConfig(), nil)
	if err := d.Load(springLevel()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	bad := springLevel()
	bad.Joints = append(bad.Joints, &level.Revolute{Anchor: level.V(60, 60)})

	err := d.Load(bad)
	if !errors.Is(err, physics.ErrNoBody) {
		t.Fatalf("expected ErrNoBody, got %v", err)
	}
	if d.State() != Idle {
		t.Fatalf("expected idle after failed load")
	}
	if len(d.Inputs()) != 0 {
		t.Fatalf("expected no bindings after failed load, got %v", d.Inputs())
	}
	if d.Advance(1) != 0 {
		t.Fatalf("expected no ticks after failed load")
	}
}

func TestDriverReload(t *testing.T) {
	d := New(common.DefaultConfig(), nil)
	if err := d.Reload(); err == nil {
		t.Fatalf("expected reload without level to fail")
	}
	if err := d.Load(springLevel()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	d.Press("A")
	d.Advance(30 * d.Tick())
	moved := d.World().Bodies()[0].Angle()

	if err := d.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if d.Ticks() != 0 || d.World().Steps() != 0 {
		t.Fatalf("expected fresh level after reload")
	}
	if moved == 0 {
		t.Fatalf("expected motor to have turned the ball before reload")
	}
	if a := d.World().Bodies()[0].Angle(); a != 0 {
		t.Fatalf("expected reset angle, got %v", a)
	}
	if d.level.Motors[0].Throttle() != 0 {
		t.Fatalf("expected held input forgotten across reload")
	}
}

func TestDriverDeterministic(t *testing.T) {
	run := func() level.Vec {
		d := New(common.DefaultConfig(), nil)
		if err := d.Load(springLevel()); err != nil {
			t.Fatalf("Load: %v", err)
		}
		for i := 0; i < 120; i++ {
			switch i {
			case 10:
				d.Press("A")
			case 50:
				d.Release("A")
			case 60:
				d.Press("D")
			}
			d.Advance(d.Tick())
		}
		p, _ := d.CameraFocus()
		return p
	}

	a, b := run(), run()
	if a != b {
		t.Fatalf("expected identical runs, got %v and %v", a, b)
	}
}
