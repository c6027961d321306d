package actor

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/ride/common"
	"github.com/milk9111/ride/physics"
)

// minSpringLength is the anchor separation below which no direction can be
// computed and the spring applies nothing.
const minSpringLength = 1e-9

type SpringParams struct {
	Constant float64
	Damping  float64
	MaxForce float64
	// RestLength is the length at which the spring applies no force.
	RestLength float64
}

// Spring pulls two body-fixed anchor points towards their rest separation.
type Spring struct {
	body1, body2   *physics.Body
	local1, local2 cp.Vector
	params         SpringParams
	force          float64
}

// NewSpring captures the world anchors in each body's local frame. Bodies
// that move later carry their anchors with them.
func NewSpring(body1, body2 *physics.Body, anchor1, anchor2 cp.Vector, params SpringParams) *Spring {
	return &Spring{
		body1:  body1,
		body2:  body2,
		local1: body1.WorldToLocal(anchor1),
		local2: body2.WorldToLocal(anchor2),
		params: params,
	}
}

// Anchors returns the current world positions of both anchors.
func (s *Spring) Anchors() (cp.Vector, cp.Vector) {
	return s.body1.LocalToWorld(s.local1), s.body2.LocalToWorld(s.local2)
}

func (s *Spring) Bodies() (*physics.Body, *physics.Body) {
	return s.body1, s.body2
}

func (s *Spring) Params() SpringParams {
	return s.params
}

// Force returns the scalar force applied on the last step. Positive values
// pull the anchors together.
func (s *Spring) Force() float64 {
	return s.force
}

func pointVelocity(b *physics.Body, p cp.Vector) cp.Vector {
	offset := p.Sub(b.WorldCenter())
	return b.Velocity().Add(offset.Perp().Mult(b.AngularVelocity()))
}

func (s *Spring) Step(dt float64) {
	s.force = 0

	p1, p2 := s.Anchors()
	delta := p2.Sub(p1)
	length := delta.Length()
	if length < minSpringLength {
		return
	}
	dir := delta.Mult(1 / length)

	force := s.params.Constant * (length - s.params.RestLength)

	relVel := pointVelocity(s.body2, p2).Sub(pointVelocity(s.body1, p1))
	force += s.params.Damping * relVel.Dot(dir)

	force = common.ClampMagnitude(force, s.params.MaxForce)
	s.force = force

	f := dir.Mult(force)
	s.body1.ApplyForceAtWorldPoint(f, p1)
	s.body2.ApplyForceAtWorldPoint(f.Neg(), p2)
}
