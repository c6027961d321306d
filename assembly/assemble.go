// Package assembly turns a level description into a live world plus the
// actors that drive its custom joints.
package assembly

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/ride/actor"
	"github.com/milk9111/ride/common"
	"github.com/milk9111/ride/level"
	"github.com/milk9111/ride/physics"
)

// minAnchorDistance is the shortest usable distance or slide axis.
const minAnchorDistance = 1e-6

// Level is an assembled level. Actors run in creation order; all cameras
// write into Focus, so the last one created wins.
type Level struct {
	Desc    *level.Level
	World   *physics.World
	Actors  *actor.Scheduler
	Focus   *actor.Focus
	Springs []*actor.Spring
	Motors  []*actor.Motor
	Cameras []*actor.Camera
}

// Close unregisters every motor and discards the actors and the world.
func (l *Level) Close() {
	if l == nil {
		return
	}
	l.Actors.Close()
	l.World.Close()
	l.Springs = nil
	l.Motors = nil
	l.Cameras = nil
}

func vec(v level.Vec) cp.Vector {
	return cp.Vector{X: v.X, Y: v.Y}
}

type assembler struct {
	cfg      common.Config
	bindings *actor.Bindings
	logger   *log.Logger
	out      *Level
	resolver *physics.Resolver
}

// Assemble builds desc into a new world. Motors are registered on bindings.
// On error nothing stays registered and no level is returned.
func Assemble(desc *level.Level, cfg common.Config, bindings *actor.Bindings, logger *log.Logger) (lvl *Level, err error) {
	if logger == nil {
		logger = log.Default().WithPrefix("assembly")
	}
	if desc == nil {
		return nil, fmt.Errorf("assembly: nil level")
	}
	if err := desc.Validate(); err != nil {
		return nil, fmt.Errorf("assembly: %w", err)
	}
	if bindings == nil {
		bindings = actor.NewBindings()
	}

	gravity := vec(desc.Gravity)
	if cfg.Gravity != nil {
		gravity = cp.Vector{X: cfg.Gravity[0], Y: cfg.Gravity[1]}
	}

	world := physics.NewWorld(vec(desc.LowerBound), vec(desc.UpperBound), gravity, cfg, logger)
	a := &assembler{
		cfg:      cfg,
		bindings: bindings,
		logger:   logger,
		resolver: physics.NewResolver(world),
		out: &Level{
			Desc:   desc,
			World:  world,
			Actors: actor.NewScheduler(),
			Focus:  &actor.Focus{},
		},
	}
	defer func() {
		if err != nil {
			a.out.Close()
		}
	}()

	for i, body := range desc.Bodies {
		if err := a.addBody(body); err != nil {
			return nil, &BodyError{Index: i, Body: body, Err: err}
		}
	}

	for i, joint := range desc.Joints {
		if err := a.addJoint(joint); err != nil {
			return nil, &JointError{Index: i, Joint: joint, Err: err}
		}
	}

	logger.Info("assembled level",
		"name", desc.Name,
		"bodies", len(desc.Bodies),
		"joints", len(desc.Joints),
		"actors", a.out.Actors.Len(),
	)
	return a.out, nil
}

func material(m level.Material) physics.Material {
	out := physics.Material{
		Density:     m.Density,
		Friction:    m.Friction,
		Restitution: m.Restitution,
		Group:       m.Group,
	}
	if m.Color != nil {
		out.UserData = m.Color.NRGBA
	}
	return out
}

func (a *assembler) addBody(desc level.Body) error {
	world := a.out.World
	body := world.CreateBody(desc.ID)
	for j, shape := range desc.Shapes {
		var err error
		switch s := shape.(type) {
		case *level.Circle:
			_, err = world.AttachCircle(body, vec(s.Center), s.Radius, material(s.Material))
		case *level.Polygon:
			verts := make([]cp.Vector, len(s.Vertices))
			for k, v := range s.Vertices {
				verts[k] = vec(v)
			}
			_, err = world.AttachPolygon(body, verts, material(s.Material))
		default:
			err = fmt.Errorf("unknown shape %T: %w", shape, level.ErrInvalidParameter)
		}
		if err != nil {
			return fmt.Errorf("shape %d: %w", j, err)
		}
	}
	world.FinalizeMass(body)
	return nil
}

func (a *assembler) pair(p1, p2 level.Vec) (*physics.Body, *physics.Body, error) {
	b1, b2, err := a.resolver.BodiesAtLineSegment(vec(p1), vec(p2))
	if err != nil {
		return nil, nil, err
	}
	if b1 == b2 {
		return nil, nil, fmt.Errorf("body %d: %w", b1.Z(), ErrSelfJoint)
	}
	return b1, b2, nil
}

func (a *assembler) addJoint(joint level.Joint) error {
	world := a.out.World

	switch j := joint.(type) {
	case *level.Revolute:
		b1, b2, err := a.resolver.PivotBodiesAtPoint(vec(j.Anchor))
		if err != nil {
			return err
		}
		world.Pivot(b1, b2, vec(j.Anchor))

	case *level.Distance:
		if j.Anchor1.Dist(j.Anchor2) < minAnchorDistance {
			return fmt.Errorf("zero rest length: %w", level.ErrInvalidParameter)
		}
		b1, b2, err := a.pair(j.Anchor1, j.Anchor2)
		if err != nil {
			return err
		}
		world.Pin(b1, b2, vec(j.Anchor1), vec(j.Anchor2))

	case *level.Prismatic:
		if j.Anchor1.Dist(j.Anchor2) < minAnchorDistance {
			return fmt.Errorf("zero slide axis: %w", level.ErrInvalidParameter)
		}
		b1, b2, err := a.pair(j.Anchor1, j.Anchor2)
		if err != nil {
			return err
		}
		world.Slide(b1, b2, vec(j.Anchor1), vec(j.Anchor2).Sub(vec(j.Anchor1)))

	case *level.Motor:
		body, err := a.resolver.TopBodyAtPoint(vec(j.Anchor))
		if err != nil {
			return err
		}
		m := actor.NewMotor(body, actor.MotorParams{
			Torque:           j.Torque,
			Damping:          j.Damping,
			Clockwise:        j.Clockwise,
			CounterClockwise: j.CounterClockwise,
		}, a.bindings)
		a.out.Actors.Add(m)
		a.out.Motors = append(a.out.Motors, m)

	case *level.Spring:
		b1, b2, err := a.pair(j.Anchor1, j.Anchor2)
		if err != nil {
			return err
		}
		maxForce := j.MaxForce
		if maxForce == 0 {
			maxForce = a.cfg.SpringMaxForce
		}
		s := actor.NewSpring(b1, b2, vec(j.Anchor1), vec(j.Anchor2), actor.SpringParams{
			Constant:   j.SpringConstant,
			Damping:    j.Damping,
			MaxForce:   maxForce,
			RestLength: j.Anchor1.Dist(j.Anchor2),
		})
		a.out.Actors.Add(s)
		a.out.Springs = append(a.out.Springs, s)

	case *level.Camera:
		body, err := a.resolver.TopBodyAtPoint(vec(j.Anchor))
		if err != nil {
			return err
		}
		c := actor.NewCamera(body, a.out.Focus)
		a.out.Actors.Add(c)
		a.out.Cameras = append(a.out.Cameras, c)

	default:
		return fmt.Errorf("%T: %w", joint, ErrUnknownJoint)
	}

	a.logger.Debug("joint", "kind", joint.Kind(), "joint", joint.String())
	return nil
}
