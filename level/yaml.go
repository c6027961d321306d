package level

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrEmpty is returned when a level document has no content.
var ErrEmpty = errors.New("level: empty document")

func (v *Vec) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		var xy []float64
		if err := value.Decode(&xy); err != nil {
			return err
		}
		if len(xy) != 2 {
			return fmt.Errorf("line %d: point needs 2 coordinates, got %d", value.Line, len(xy))
		}
		v.X, v.Y = xy[0], xy[1]
	case yaml.MappingNode:
		var xy struct {
			X float64 `yaml:"x"`
			Y float64 `yaml:"y"`
		}
		if err := value.Decode(&xy); err != nil {
			return err
		}
		v.X, v.Y = xy.X, xy.Y
	default:
		return fmt.Errorf("line %d: point must be [x, y] or {x, y}", value.Line)
	}
	return nil
}

func (v Vec) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	if err := node.Encode([]float64{v.X, v.Y}); err != nil {
		return nil, err
	}
	node.Style = yaml.FlowStyle
	return node, nil
}

type shapeYAML struct {
	Type        string   `yaml:"type"`
	Center      Vec      `yaml:"center"`
	Radius      *float64 `yaml:"radius"`
	Vertices    []Vec    `yaml:"vertices"`
	Density     float64  `yaml:"density"`
	Friction    *float64 `yaml:"friction"`
	Restitution *float64 `yaml:"restitution"`
	Group       int      `yaml:"group"`
	Color       *Color   `yaml:"color"`
}

type bodyYAML struct {
	ID     string      `yaml:"id"`
	Shapes []yaml.Node `yaml:"shapes"`
}

type jointYAML struct {
	Type             string   `yaml:"type"`
	ID               string   `yaml:"id"`
	Anchor           *Vec     `yaml:"anchor"`
	Anchor1          *Vec     `yaml:"anchor1"`
	Anchor2          *Vec     `yaml:"anchor2"`
	Torque           *float64 `yaml:"torque"`
	Damping          float64  `yaml:"damping"`
	Clockwise        string   `yaml:"clockwise"`
	CounterClockwise string   `yaml:"counter_clockwise"`
	SpringConstant   *float64 `yaml:"spring_constant"`
	MaxForce         float64  `yaml:"max_force"`
}

type levelYAML struct {
	Name       string      `yaml:"name"`
	LowerBound *Vec        `yaml:"lower_bound"`
	UpperBound *Vec        `yaml:"upper_bound"`
	Gravity    *Vec        `yaml:"gravity"`
	Start      *Vec        `yaml:"start"`
	Goal       *Vec        `yaml:"goal"`
	Bodies     []bodyYAML  `yaml:"bodies"`
	Joints     []yaml.Node `yaml:"joints"`
}

func (l *Level) UnmarshalYAML(value *yaml.Node) error {
	var raw levelYAML
	if err := value.Decode(&raw); err != nil {
		return err
	}

	out := New()
	out.Name = raw.Name
	for _, f := range []struct {
		src *Vec
		dst *Vec
	}{
		{raw.LowerBound, &out.LowerBound},
		{raw.UpperBound, &out.UpperBound},
		{raw.Gravity, &out.Gravity},
		{raw.Start, &out.Start},
		{raw.Goal, &out.Goal},
	} {
		if f.src != nil {
			*f.dst = *f.src
		}
	}

	out.Bodies = make([]Body, 0, len(raw.Bodies))
	for i, rb := range raw.Bodies {
		body := Body{ID: rb.ID, Shapes: make([]Shape, 0, len(rb.Shapes))}
		for j := range rb.Shapes {
			shape, err := decodeShape(&rb.Shapes[j])
			if err != nil {
				return fmt.Errorf("body %d shape %d: %w", i, j, err)
			}
			body.Shapes = append(body.Shapes, shape)
		}
		out.Bodies = append(out.Bodies, body)
	}

	out.Joints = make([]Joint, 0, len(raw.Joints))
	for i := range raw.Joints {
		joint, err := decodeJoint(&raw.Joints[i])
		if err != nil {
			return fmt.Errorf("joint %d: %w", i, err)
		}
		out.Joints = append(out.Joints, joint)
	}

	*l = *out
	return nil
}

func decodeShape(node *yaml.Node) (Shape, error) {
	var raw shapeYAML
	if err := node.Decode(&raw); err != nil {
		return nil, err
	}

	mat := DefaultMaterial()
	mat.Density = raw.Density
	mat.Group = raw.Group
	mat.Color = raw.Color
	if raw.Friction != nil {
		mat.Friction = *raw.Friction
	}
	if raw.Restitution != nil {
		mat.Restitution = *raw.Restitution
	}

	switch raw.Type {
	case "circle":
		c := &Circle{Material: mat, Center: raw.Center, Radius: DefaultRadius}
		if raw.Radius != nil {
			c.Radius = *raw.Radius
		}
		return c, nil
	case "polygon":
		return &Polygon{Material: mat, Vertices: raw.Vertices}, nil
	case "":
		return nil, fmt.Errorf("line %d: shape has no type", node.Line)
	default:
		return nil, fmt.Errorf("line %d: unknown shape type %q", node.Line, raw.Type)
	}
}

func decodeJoint(node *yaml.Node) (Joint, error) {
	var raw jointYAML
	if err := node.Decode(&raw); err != nil {
		return nil, err
	}

	need := func(name string, v *Vec) (Vec, error) {
		if v == nil {
			return Vec{}, fmt.Errorf("line %d: %s joint missing %s", node.Line, raw.Type, name)
		}
		return *v, nil
	}
	pair := func() (Vec, Vec, error) {
		a, err := need("anchor1", raw.Anchor1)
		if err != nil {
			return Vec{}, Vec{}, err
		}
		b, err := need("anchor2", raw.Anchor2)
		return a, b, err
	}

	switch raw.Type {
	case KindRevolute:
		a, err := need("anchor", raw.Anchor)
		if err != nil {
			return nil, err
		}
		return &Revolute{ID: raw.ID, Anchor: a}, nil
	case KindDistance:
		a, b, err := pair()
		if err != nil {
			return nil, err
		}
		return &Distance{ID: raw.ID, Anchor1: a, Anchor2: b}, nil
	case KindPrismatic:
		a, b, err := pair()
		if err != nil {
			return nil, err
		}
		return &Prismatic{ID: raw.ID, Anchor1: a, Anchor2: b}, nil
	case KindMotor:
		a, err := need("anchor", raw.Anchor)
		if err != nil {
			return nil, err
		}
		m := &Motor{
			ID:               raw.ID,
			Anchor:           a,
			Torque:           DefaultTorque,
			Damping:          raw.Damping,
			Clockwise:        raw.Clockwise,
			CounterClockwise: raw.CounterClockwise,
		}
		if raw.Torque != nil {
			m.Torque = *raw.Torque
		}
		return m, nil
	case KindSpring:
		a, b, err := pair()
		if err != nil {
			return nil, err
		}
		s := &Spring{
			ID:             raw.ID,
			Anchor1:        a,
			Anchor2:        b,
			SpringConstant: DefaultSpringConstant,
			Damping:        raw.Damping,
			MaxForce:       raw.MaxForce,
		}
		if raw.SpringConstant != nil {
			s.SpringConstant = *raw.SpringConstant
		}
		return s, nil
	case KindCamera:
		a, err := need("anchor", raw.Anchor)
		if err != nil {
			return nil, err
		}
		return &Camera{ID: raw.ID, Anchor: a}, nil
	case "":
		return nil, fmt.Errorf("line %d: joint has no type", node.Line)
	default:
		return nil, fmt.Errorf("line %d: unknown joint type %q", node.Line, raw.Type)
	}
}

// Parse decodes a level from YAML and applies defaults. It does not validate.
func Parse(data []byte) (*Level, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmpty
	}
	var l Level
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("level: parse: %w", err)
	}
	return &l, nil
}

func Decode(r io.Reader) (*Level, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("level: read: %w", err)
	}
	return Parse(data)
}

// Load reads, parses and validates the level file at path.
func Load(path string) (*Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("level: load %s: %w", path, err)
	}
	l, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("level: load %s: %w", path, err)
	}
	if err := l.Validate(); err != nil {
		return nil, fmt.Errorf("level: load %s: %w", path, err)
	}
	return l, nil
}
