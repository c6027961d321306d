package actor

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/ride/common"
	"github.com/milk9111/ride/physics"
)

func newWorld() *physics.World {
	cfg := common.DefaultConfig()
	cfg.BoundaryWalls = false
	return physics.NewWorld(cp.Vector{X: -100, Y: -100}, cp.Vector{X: 100, Y: 100}, cp.Vector{}, cfg, nil)
}

func ball(t *testing.T, w *physics.World, center cp.Vector, density float64) *physics.Body {
	t.Helper()
	b := w.CreateBody("")
	if _, err := w.AttachCircle(b, center, 0.4, physics.Material{Density: density}); err != nil {
		t.Fatalf("AttachCircle: %v", err)
	}
	w.FinalizeMass(b)
	return b
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSpringForce(t *testing.T) {
	tests := []struct {
		name     string
		rest     float64
		maxForce float64
		want     float64
	}{
		{name: "at rest", rest: 3, maxForce: 1000, want: 0},
		{name: "stretched", rest: 2.5, maxForce: 1000, want: 5},
		{name: "compressed", rest: 3.5, maxForce: 1000, want: -5},
		{name: "stretched clamped", rest: 1, maxForce: 4, want: 4},
		{name: "compressed clamped", rest: 5, maxForce: 4, want: -4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newWorld()
			a := ball(t, w, cp.Vector{}, 1)
			b := ball(t, w, cp.Vector{X: 3}, 1)
			s := NewSpring(a, b, cp.Vector{}, cp.Vector{X: 3}, SpringParams{Constant: 10, MaxForce: tt.maxForce, RestLength: tt.rest})

			s.Step(1.0 / 60)

			if !near(s.Force(), tt.want) {
				t.Fatalf("expected force %v, got %v", tt.want, s.Force())
			}
			fa, fb := a.Force(), b.Force()
			if !near(fa.X, tt.want) || !near(fb.X, -tt.want) || !near(fa.Y, 0) || !near(fb.Y, 0) {
				t.Fatalf("expected equal and opposite forces ±%v, got %v and %v", tt.want, fa, fb)
			}
			if !near(a.Torque(), 0) || !near(b.Torque(), 0) {
				t.Fatalf("expected no torque for anchors at centres, got %v and %v", a.Torque(), b.Torque())
			}
		})
	}
}

func TestSpringBetweenStaticBodies(t *testing.T) {
	w := newWorld()
	a := ball(t, w, cp.Vector{}, 0)
	b := ball(t, w, cp.Vector{X: 3}, 0)
	if a.Dynamic() || b.Dynamic() {
		t.Fatalf("expected massless bodies to be static")
	}
	s := NewSpring(a, b, cp.Vector{}, cp.Vector{X: 3}, SpringParams{Constant: 10, MaxForce: 1000, RestLength: 2})

	s.Step(1.0 / 60)

	// k·Δ is still reported, but neither body takes it
	if !near(s.Force(), 10) {
		t.Fatalf("expected force 10, got %v", s.Force())
	}
	if a.Force() != (cp.Vector{}) || b.Force() != (cp.Vector{}) {
		t.Fatalf("expected no force on static bodies, got %v and %v", a.Force(), b.Force())
	}
}

func TestSpringDamping(t *testing.T) {
	w := newWorld()
	a := ball(t, w, cp.Vector{}, 1)
	b := ball(t, w, cp.Vector{X: 3}, 1)
	b.Engine().SetVelocity(2, 0)
	s := NewSpring(a, b, cp.Vector{}, cp.Vector{X: 3}, SpringParams{Constant: 10, Damping: 0.5, MaxForce: 1000, RestLength: 3})

	s.Step(1.0 / 60)

	if !near(s.Force(), 1) {
		t.Fatalf("expected damping force 1, got %v", s.Force())
	}
}

func TestSpringZeroLength(t *testing.T) {
	w := newWorld()
	a := ball(t, w, cp.Vector{}, 1)
	b := ball(t, w, cp.Vector{}, 1)
	s := NewSpring(a, b, cp.Vector{}, cp.Vector{}, SpringParams{Constant: 10, MaxForce: 1000, RestLength: 1})

	s.Step(1.0 / 60)

	if s.Force() != 0 || a.Force() != (cp.Vector{}) || b.Force() != (cp.Vector{}) {
		t.Fatalf("expected no force for coincident anchors")
	}
}

func TestSpringAnchorsFollowBodies(t *testing.T) {
	w := newWorld()
	a := ball(t, w, cp.Vector{}, 1)
	b := ball(t, w, cp.Vector{X: 3}, 1)
	s := NewSpring(a, b, cp.Vector{}, cp.Vector{X: 3}, SpringParams{Constant: 10, MaxForce: 1000, RestLength: 3})

	b.Engine().SetPosition(cp.Vector{X: 1})
	_, p2 := s.Anchors()
	if !near(p2.X, 4) || !near(p2.Y, 0) {
		t.Fatalf("expected anchor to move with body, got %v", p2)
	}

	s.Step(1.0 / 60)
	if !near(s.Force(), 10) {
		t.Fatalf("expected k·Δ = 10, got %v", s.Force())
	}
}

func TestMotorThrottle(t *testing.T) {
	w := newWorld()
	wheel := ball(t, w, cp.Vector{}, 1)
	bindings := NewBindings()
	m := NewMotor(wheel, MotorParams{Torque: 2, Clockwise: "D", CounterClockwise: "A"}, bindings)

	steps := []struct {
		press, release string
		wantThrottle   int
		wantTorque     float64
	}{
		{wantThrottle: 0, wantTorque: 0},
		{press: "A", wantThrottle: 1, wantTorque: 2},
		{press: "D", wantThrottle: 0, wantTorque: 0},
		{release: "A", wantThrottle: -1, wantTorque: -2},
		{press: "D", wantThrottle: -1, wantTorque: -2},
		{release: "D", wantThrottle: 0, wantTorque: 0},
		{release: "D", wantThrottle: 0, wantTorque: 0},
	}

	for i, s := range steps {
		if s.press != "" {
			bindings.Press(s.press)
		}
		if s.release != "" {
			bindings.Release(s.release)
		}
		wheel.Engine().SetTorque(0)
		m.Step(1.0 / 60)
		if m.Throttle() != s.wantThrottle {
			t.Fatalf("step %d: expected throttle %d, got %d", i, s.wantThrottle, m.Throttle())
		}
		if !near(wheel.Torque(), s.wantTorque) {
			t.Fatalf("step %d: expected torque %v, got %v", i, s.wantTorque, wheel.Torque())
		}
	}
}

func TestMotorDamping(t *testing.T) {
	w := newWorld()
	wheel := ball(t, w, cp.Vector{}, 1)
	wheel.Engine().SetAngularVelocity(4)
	bindings := NewBindings()
	m := NewMotor(wheel, MotorParams{Torque: 1, Damping: 0.25, Clockwise: "right", CounterClockwise: "left"}, bindings)

	bindings.Press("left")
	m.Step(1.0 / 60)

	if !near(m.Torque(), 0) {
		t.Fatalf("expected 1 - 0.25*4 = 0, got %v", m.Torque())
	}
}

func TestMotorClose(t *testing.T) {
	w := newWorld()
	wheel := ball(t, w, cp.Vector{}, 1)
	bindings := NewBindings()
	m := NewMotor(wheel, MotorParams{Torque: 1, Clockwise: "D", CounterClockwise: "A"}, bindings)
	if bindings.Len() != 2 {
		t.Fatalf("expected 2 bindings, got %d", bindings.Len())
	}

	m.Close()

	if bindings.Len() != 0 {
		t.Fatalf("expected no bindings after close, got %d", bindings.Len())
	}
	if bindings.Press("A") {
		t.Fatalf("expected no control bound to A")
	}
	if m.Throttle() != 0 {
		t.Fatalf("expected closed motor to ignore input")
	}
}

type recorder struct {
	name string
	log  *[]string
}

func (r recorder) Pressed(input string)  { *r.log = append(*r.log, r.name+" press "+input) }
func (r recorder) Released(input string) { *r.log = append(*r.log, r.name+" release "+input) }

func TestBindingsOrderAndBalance(t *testing.T) {
	var got []string
	b := NewBindings()
	first := &recorder{name: "first", log: &got}
	second := &recorder{name: "second", log: &got}
	b.Register(first, "space")
	b.Register(second, "space")

	b.Release("space")
	b.Press("space")
	b.Press("space")
	b.Release("space")

	want := []string{"first press space", "second press space", "first release space", "second release space"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}

	b.Press("space")
	b.ResetHeld()
	if b.Held("space") {
		t.Fatalf("expected held state cleared")
	}
}

func TestCameraFocus(t *testing.T) {
	w := newWorld()
	w.Space().SetGravity(cp.Vector{Y: -10})
	b := ball(t, w, cp.Vector{X: 2, Y: 5}, 1)

	var focus Focus
	if _, ok := focus.Get(); ok {
		t.Fatalf("expected empty focus")
	}
	cam := NewCamera(b, &focus)
	p, ok := focus.Get()
	if !ok || !near(p.X, 2) || !near(p.Y, 5) {
		t.Fatalf("expected focus on body at construction, got %v %v", p, ok)
	}

	for i := 0; i < 10; i++ {
		cam.Step(1.0 / 60)
		w.Step(1.0 / 60)
	}
	cam.Step(1.0 / 60)
	p, _ = focus.Get()
	if p != b.WorldCenter() {
		t.Fatalf("expected focus %v, got %v", b.WorldCenter(), p)
	}
	if p.Y >= 5 {
		t.Fatalf("expected focus to follow falling body, got %v", p)
	}
}

type stepRecorder struct {
	id  int
	log *[]int
}

func (s stepRecorder) Step(float64) { *s.log = append(*s.log, s.id) }

type closeRecorder struct {
	stepRecorder
	closed *[]int
}

func (c closeRecorder) Close() { *c.closed = append(*c.closed, c.id) }

func TestSchedulerOrder(t *testing.T) {
	var steps, closed []int
	s := NewScheduler(stepRecorder{id: 0, log: &steps})
	s.Add(nil)
	s.Add(closeRecorder{stepRecorder: stepRecorder{id: 1, log: &steps}, closed: &closed})
	s.Add(closeRecorder{stepRecorder: stepRecorder{id: 2, log: &steps}, closed: &closed})

	s.Step(0.1)
	s.Step(0.1)

	if s.Passes() != 2 || s.Len() != 3 {
		t.Fatalf("expected 2 passes over 3 actors, got %d over %d", s.Passes(), s.Len())
	}
	want := []int{0, 1, 2, 0, 1, 2}
	for i := range want {
		if steps[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, steps)
		}
	}

	s.Close()
	if len(closed) != 2 || closed[0] != 2 || closed[1] != 1 {
		t.Fatalf("expected reverse close order [2 1], got %v", closed)
	}
	if s.Len() != 0 {
		t.Fatalf("expected empty scheduler after close")
	}
}
