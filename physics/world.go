// Package physics adapts the Chipmunk engine to level assembly: it owns the
// space, tags level bodies with their z-rank and answers anchor probes.
package physics

import (
	"fmt"
	"math"

	"github.com/charmbracelet/log"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/ride/common"
)

const (
	wallRadius   = 0.5
	wallFriction = 0.5
)

// Material is the engine-side view of a shape's surface.
type Material struct {
	Density     float64
	Friction    float64
	Restitution float64
	Group       int
	// UserData is stored on the engine shape, usually its draw colour.
	UserData any
}

// World owns the Chipmunk space and the level bodies added to it.
type World struct {
	space       *cp.Space
	bounds      cp.BB
	ground      *Body
	bodies      []*Body
	constraints []*cp.Constraint
	walls       []*cp.Shape
	tolerance   float64
	steps       int
	logger      *log.Logger
}

// NewWorld creates an empty world spanning lower..upper.
func NewWorld(lower, upper, gravity cp.Vector, cfg common.Config, logger *log.Logger) *World {
	if logger == nil {
		logger = log.Default().WithPrefix("physics")
	}

	space := cp.NewSpace()
	space.Iterations = uint(max(cfg.SolverIterations, 1))
	space.SetGravity(gravity)

	w := &World{
		space:     space,
		bounds:    cp.BB{L: lower.X, B: lower.Y, R: upper.X, T: upper.Y},
		ground:    &Body{body: space.StaticBody, z: -1, id: "ground"},
		tolerance: cfg.AnchorTolerance,
		logger:    logger,
	}
	if cfg.BoundaryWalls {
		w.buildWalls()
	}
	return w
}

func (w *World) buildWalls() {
	bb := w.bounds
	corners := []cp.Vector{
		{X: bb.L, Y: bb.B},
		{X: bb.R, Y: bb.B},
		{X: bb.R, Y: bb.T},
		{X: bb.L, Y: bb.T},
	}
	for i := range corners {
		a := corners[i]
		b := corners[(i+1)%len(corners)]
		seg := cp.NewSegment(w.space.StaticBody, a, b, wallRadius)
		seg.SetFriction(wallFriction)
		w.space.AddShape(seg)
		w.walls = append(w.walls, seg)
	}
}

// Space returns the underlying Chipmunk space.
func (w *World) Space() *cp.Space {
	if w == nil {
		return nil
	}
	return w.space
}

// Ground returns the static body that anchors single-body pivots.
func (w *World) Ground() *Body {
	if w == nil {
		return nil
	}
	return w.ground
}

func (w *World) Bounds() cp.BB {
	if w == nil {
		return cp.BB{}
	}
	return w.bounds
}

// Bodies returns the level bodies in z order.
func (w *World) Bodies() []*Body {
	if w == nil {
		return nil
	}
	return append([]*Body(nil), w.bodies...)
}

func (w *World) Body(z int) (*Body, bool) {
	if w == nil || z < 0 || z >= len(w.bodies) {
		return nil, false
	}
	return w.bodies[z], true
}

func (w *World) EachBody(f func(*Body)) {
	if w == nil {
		return
	}
	for _, b := range w.bodies {
		f(b)
	}
}

// Constraints returns the native joints in creation order.
func (w *World) Constraints() []*cp.Constraint {
	if w == nil {
		return nil
	}
	return append([]*cp.Constraint(nil), w.constraints...)
}

// Steps returns how many times the world has been stepped.
func (w *World) Steps() int {
	if w == nil {
		return 0
	}
	return w.steps
}

// CreateBody adds a body at the origin with angle zero. Its z-rank is the
// number of bodies created before it. The body is dynamic until FinalizeMass
// decides otherwise.
func (w *World) CreateBody(id string) *Body {
	if w == nil || w.space == nil {
		return nil
	}
	z := len(w.bodies)
	cpBody := cp.NewBody(0, 0)
	cpBody.UserData = rank(z)
	w.space.AddBody(cpBody)

	b := &Body{body: cpBody, z: z, id: id}
	w.bodies = append(w.bodies, b)
	return b
}

// AttachCircle adds a circle centred at the body-local point center.
func (w *World) AttachCircle(b *Body, center cp.Vector, radius float64, m Material) (*cp.Shape, error) {
	if w == nil || w.space == nil || b == nil {
		return nil, fmt.Errorf("physics: attach circle: no body")
	}
	if !(radius > 0) {
		return nil, fmt.Errorf("physics: attach circle: radius %v", radius)
	}
	return w.attach(b, cp.NewCircle(b.body, radius, center), m), nil
}

// AttachPolygon adds a convex polygon with body-local vertices. Concave input
// is replaced by its convex hull.
func (w *World) AttachPolygon(b *Body, verts []cp.Vector, m Material) (*cp.Shape, error) {
	if w == nil || w.space == nil || b == nil {
		return nil, fmt.Errorf("physics: attach polygon: no body")
	}
	if len(verts) < 3 {
		return nil, fmt.Errorf("physics: attach polygon: %d vertices", len(verts))
	}
	shape := cp.NewPolyShape(b.body, len(verts), verts, cp.NewTransformIdentity(), 0)
	if shape.Area() == 0 {
		return nil, fmt.Errorf("physics: attach polygon: degenerate hull")
	}
	return w.attach(b, shape, m), nil
}

func (w *World) attach(b *Body, shape *cp.Shape, m Material) *cp.Shape {
	shape.SetFriction(m.Friction)
	shape.SetElasticity(m.Restitution)
	shape.SetFilter(filterForGroup(m.Group))
	shape.UserData = m.UserData
	if m.Density > 0 {
		shape.SetDensity(m.Density)
	}
	w.space.AddShape(shape)
	b.shapes = append(b.shapes, shape)
	return shape
}

// filterForGroup maps signed collision groups onto Chipmunk's unsigned
// groups: shapes sharing a negative group never collide, other groups
// collide normally.
func filterForGroup(group int) cp.ShapeFilter {
	filter := cp.ShapeFilter{Group: cp.NO_GROUP, Categories: cp.ALL_CATEGORIES, Mask: cp.ALL_CATEGORIES}
	if group < 0 {
		filter.Group = uint(-group)
	}
	return filter
}

// FinalizeMass computes mass, centre of mass and inertia from the attached
// shapes. A body without mass becomes static.
func (w *World) FinalizeMass(b *Body) {
	if w == nil || b == nil || b.body == nil {
		return
	}
	b.body.AccumulateMassFromShapes()
	m := b.body.Mass()
	if !(m > 0) || math.IsInf(m, 0) || !(b.body.Moment() > 0) {
		b.body.SetType(cp.BODY_STATIC)
		w.logger.Debug("static body", "z", b.z, "id", b.id, "shapes", len(b.shapes))
		return
	}
	w.logger.Debug("dynamic body", "z", b.z, "id", b.id, "shapes", len(b.shapes), "mass", m)
}

func (w *World) addConstraint(c *cp.Constraint) *cp.Constraint {
	c.SetCollideBodies(false)
	w.space.AddConstraint(c)
	w.constraints = append(w.constraints, c)
	return c
}

// Pivot joins a and b so they rotate about the world point pivot.
func (w *World) Pivot(a, b *Body, pivot cp.Vector) *cp.Constraint {
	if w == nil || w.space == nil {
		return nil
	}
	return w.addConstraint(cp.NewPivotJoint(a.body, b.body, pivot))
}

// Pin keeps the world points anchorA on a and anchorB on b at their current
// distance.
func (w *World) Pin(a, b *Body, anchorA, anchorB cp.Vector) *cp.Constraint {
	if w == nil || w.space == nil {
		return nil
	}
	return w.addConstraint(cp.NewPinJoint(a.body, b.body, a.WorldToLocal(anchorA), b.WorldToLocal(anchorB)))
}

// Slide lets b translate along axis through anchor on a while keeping the
// relative angle fixed. The groove spans the world bounds.
func (w *World) Slide(a, b *Body, anchor, axis cp.Vector) []*cp.Constraint {
	if w == nil || w.space == nil {
		return nil
	}
	extent := cp.Vector{X: w.bounds.R - w.bounds.L, Y: w.bounds.T - w.bounds.B}.Length()
	dir := axis.Normalize()
	grooveA := a.WorldToLocal(anchor.Sub(dir.Mult(extent)))
	grooveB := a.WorldToLocal(anchor.Add(dir.Mult(extent)))

	groove := w.addConstraint(cp.NewGrooveJoint(a.body, b.body, grooveA, grooveB, b.WorldToLocal(anchor)))
	lock := w.addConstraint(cp.NewRotaryLimitJoint(a.body, b.body, 0, 0))
	return []*cp.Constraint{groove, lock}
}

// Step advances the engine by dt seconds.
func (w *World) Step(dt float64) {
	if w == nil || w.space == nil {
		return
	}
	w.space.Step(dt)
	w.steps++
}

// Close drops the space. Bodies handed out earlier must not be used after.
func (w *World) Close() {
	if w == nil {
		return
	}
	w.space = nil
	w.bodies = nil
	w.constraints = nil
	w.walls = nil
}
