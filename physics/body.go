package physics

import (
	"github.com/jakecoffman/cp"
)

// rank tags engine bodies that belong to a level. It is stored in the engine
// body's UserData and indexes World.bodies.
type rank int

// Body is a simulated body created from a level description. Z is its
// creation index and orders anchor resolution.
type Body struct {
	body   *cp.Body
	z      int
	id     string
	shapes []*cp.Shape
}

func (b *Body) Z() int {
	if b == nil {
		return -1
	}
	return b.z
}

func (b *Body) ID() string {
	if b == nil {
		return ""
	}
	return b.id
}

// Engine returns the underlying engine body.
func (b *Body) Engine() *cp.Body {
	if b == nil {
		return nil
	}
	return b.body
}

func (b *Body) Shapes() []*cp.Shape {
	if b == nil {
		return nil
	}
	return append([]*cp.Shape(nil), b.shapes...)
}

// Ground reports whether b is the world's static ground body.
func (b *Body) Ground() bool {
	return b != nil && b.z < 0
}

// Dynamic reports whether forces and torques move the body.
func (b *Body) Dynamic() bool {
	return b != nil && b.body != nil && b.body.GetType() == cp.BODY_DYNAMIC
}

func (b *Body) Position() cp.Vector {
	return b.body.Position()
}

func (b *Body) Angle() float64 {
	return b.body.Angle()
}

// WorldCenter returns the centre of mass in world coordinates.
func (b *Body) WorldCenter() cp.Vector {
	return b.body.LocalToWorld(b.body.CenterOfGravity())
}

func (b *Body) Velocity() cp.Vector {
	return b.body.Velocity()
}

func (b *Body) AngularVelocity() float64 {
	return b.body.AngularVelocity()
}

func (b *Body) Mass() float64 {
	return b.body.Mass()
}

func (b *Body) LocalToWorld(p cp.Vector) cp.Vector {
	return b.body.LocalToWorld(p)
}

func (b *Body) WorldToLocal(p cp.Vector) cp.Vector {
	return b.body.WorldToLocal(p)
}

// ApplyForceAtWorldPoint accumulates force at p for the next step. Static
// bodies ignore it.
func (b *Body) ApplyForceAtWorldPoint(force, p cp.Vector) {
	if !b.Dynamic() {
		return
	}
	b.body.ApplyForceAtWorldPoint(force, p)
}

// ApplyTorque accumulates torque for the next step. Static bodies ignore it.
func (b *Body) ApplyTorque(torque float64) {
	if !b.Dynamic() {
		return
	}
	b.body.SetTorque(b.body.Torque() + torque)
}

// Force returns the force accumulated since the last step.
func (b *Body) Force() cp.Vector {
	return b.body.Force()
}

// Torque returns the torque accumulated since the last step.
func (b *Body) Torque() float64 {
	return b.body.Torque()
}
