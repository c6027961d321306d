package level

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidParameter marks a description value the simulation cannot use.
var ErrInvalidParameter = errors.New("invalid parameter")

const minPolygonArea = 1e-9

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalidParameter)
}

// Validate checks structural parameters of every body and joint. Anchor
// resolution is left to the assembler.
func (l *Level) Validate() error {
	if l == nil {
		return invalid("nil level")
	}
	for _, v := range []Vec{l.LowerBound, l.UpperBound, l.Gravity, l.Start, l.Goal} {
		if !v.finite() {
			return invalid("non-finite level vector %v", v)
		}
	}
	if l.LowerBound.X >= l.UpperBound.X || l.LowerBound.Y >= l.UpperBound.Y {
		return invalid("bounds %v-%v are empty", l.LowerBound, l.UpperBound)
	}

	for i, b := range l.Bodies {
		for j, s := range b.Shapes {
			if err := ValidateShape(s); err != nil {
				return fmt.Errorf("body %d shape %d: %w", i, j, err)
			}
		}
	}
	for i, j := range l.Joints {
		if err := ValidateJoint(j); err != nil {
			return fmt.Errorf("joint %d (%v): %w", i, j, err)
		}
	}
	return nil
}

func validateMaterial(m Material) error {
	if !finite(m.Density, m.Friction, m.Restitution) {
		return invalid("non-finite material")
	}
	if m.Density < 0 {
		return invalid("density %g", m.Density)
	}
	if m.Friction < 0 {
		return invalid("friction %g", m.Friction)
	}
	if m.Restitution < 0 {
		return invalid("restitution %g", m.Restitution)
	}
	return nil
}

func ValidateShape(s Shape) error {
	switch s := s.(type) {
	case *Circle:
		if err := validateMaterial(s.Material); err != nil {
			return err
		}
		if !s.Center.finite() || !finite(s.Radius) {
			return invalid("non-finite circle")
		}
		if s.Radius <= 0 {
			return invalid("circle radius %g", s.Radius)
		}
	case *Polygon:
		if err := validateMaterial(s.Material); err != nil {
			return err
		}
		if len(s.Vertices) < 3 {
			return invalid("polygon has %d vertices", len(s.Vertices))
		}
		for _, v := range s.Vertices {
			if !v.finite() {
				return invalid("non-finite polygon vertex %v", v)
			}
		}
		if math.Abs(s.Area()) < minPolygonArea {
			return invalid("polygon has no area")
		}
	case nil:
		return invalid("nil shape")
	default:
		return invalid("unknown shape %T", s)
	}
	return nil
}

func ValidateJoint(j Joint) error {
	switch j := j.(type) {
	case *Revolute:
		if !j.Anchor.finite() {
			return invalid("non-finite anchor")
		}
	case *Distance:
		if !j.Anchor1.finite() || !j.Anchor2.finite() {
			return invalid("non-finite anchor")
		}
	case *Prismatic:
		if !j.Anchor1.finite() || !j.Anchor2.finite() {
			return invalid("non-finite anchor")
		}
	case *Motor:
		if !j.Anchor.finite() || !finite(j.Torque, j.Damping) {
			return invalid("non-finite motor")
		}
		if j.Clockwise == "" || j.CounterClockwise == "" {
			return invalid("motor needs both control inputs")
		}
		if j.Clockwise == j.CounterClockwise {
			return invalid("motor control inputs are both %q", j.Clockwise)
		}
	case *Spring:
		if !j.Anchor1.finite() || !j.Anchor2.finite() || !finite(j.SpringConstant, j.Damping, j.MaxForce) {
			return invalid("non-finite spring")
		}
		if j.MaxForce < 0 {
			return invalid("spring max force %g", j.MaxForce)
		}
	case *Camera:
		if !j.Anchor.finite() {
			return invalid("non-finite anchor")
		}
	case nil:
		return invalid("nil joint")
	default:
		// Unknown variants are rejected by the assembler.
	}
	return nil
}
