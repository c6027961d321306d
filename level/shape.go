package level

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Material holds the surface parameters shared by all shape kinds.
type Material struct {
	Density     float64
	Friction    float64
	Restitution float64
	// Group is the collision group. Shapes sharing a negative group never
	// collide with each other.
	Group int
	Color *Color
}

// DefaultMaterial matches the authoring tool defaults: massless, half friction
// and half restitution.
func DefaultMaterial() Material {
	return Material{Friction: DefaultFriction, Restitution: DefaultRestitution}
}

// Shape is either a *Circle or a *Polygon.
type Shape interface {
	Surface() Material
	fmt.Stringer
	isShape()
}

type Circle struct {
	Material
	Center Vec
	Radius float64
}

func (c *Circle) Surface() Material { return c.Material }
func (*Circle) isShape()            {}

func (c *Circle) String() string {
	return fmt.Sprintf("circle at %v r=%g", c.Center, c.Radius)
}

// Polygon vertices are in world space; bodies are created at the origin, so
// world and body-local coordinates coincide at assembly time.
type Polygon struct {
	Material
	Vertices []Vec
}

func (p *Polygon) Surface() Material { return p.Material }
func (*Polygon) isShape()            {}

func (p *Polygon) String() string {
	return fmt.Sprintf("polygon with %d vertices", len(p.Vertices))
}

// Area returns the signed shoelace area of the polygon.
func (p *Polygon) Area() float64 {
	n := len(p.Vertices)
	if n < 3 {
		return 0
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		a := p.Vertices[i]
		b := p.Vertices[(i+1)%n]
		sum += a.X*b.Y - b.X*a.Y
	}
	return sum / 2
}

// Color is a shape fill colour written as "#rrggbb" or "#rrggbbaa".
type Color struct {
	color.NRGBA
}

func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.NRGBA = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}
