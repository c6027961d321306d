// Package level holds the declarative description of a level: bodies made of
// shapes, and joints anchored at world coordinates. Descriptions are produced
// by a loader and only read by the assembler.
package level

import (
	"fmt"
	"math"
)

const (
	DefaultFriction       = 0.5
	DefaultRestitution    = 0.5
	DefaultRadius         = 1.0
	DefaultTorque         = 1.0
	DefaultSpringConstant = 1.0
)

// Vec is a point or direction in world space.
type Vec struct {
	X float64
	Y float64
}

func V(x, y float64) Vec {
	return Vec{X: x, Y: y}
}

func (v Vec) Add(o Vec) Vec {
	return Vec{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vec) Sub(o Vec) Vec {
	return Vec{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vec) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

func (v Vec) Dist(o Vec) float64 {
	return v.Sub(o).Len()
}

func (v Vec) finite() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

func (v Vec) String() string {
	return fmt.Sprintf("(%g, %g)", v.X, v.Y)
}

// Level is the full description of one level. Body order is the z-order used
// to break anchor ties; joints are assembled in order.
type Level struct {
	Name       string
	LowerBound Vec
	UpperBound Vec
	Gravity    Vec
	Start      Vec
	Goal       Vec
	Bodies     []Body
	Joints     []Joint
}

// New returns an empty level with the default world bounds, gravity and
// start/goal markers.
func New() *Level {
	return &Level{
		LowerBound: V(-100, -100),
		UpperBound: V(100, 100),
		Gravity:    V(0, -10),
		Start:      V(-50, 0),
		Goal:       V(50, 0),
	}
}

// Body is an ordered group of shapes simulated as one rigid body. ID is only
// used in diagnostics; identity is the body's index in Level.Bodies.
type Body struct {
	ID     string
	Shapes []Shape
}

func (b Body) String() string {
	if b.ID != "" {
		return fmt.Sprintf("body %q", b.ID)
	}
	return "body"
}
