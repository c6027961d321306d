package level

import "fmt"

// Joint kinds as written in level files.
const (
	KindRevolute  = "revolute"
	KindDistance  = "distance"
	KindPrismatic = "prismatic"
	KindMotor     = "motor"
	KindSpring    = "spring"
	KindCamera    = "camera"
)

// Joint is one of *Revolute, *Distance, *Prismatic, *Motor, *Spring or
// *Camera. The first three become native engine joints; the rest are driven
// by custom actors.
type Joint interface {
	Kind() string
	fmt.Stringer
	isJoint()
}

func describe(kind, id string, format string, args ...any) string {
	s := kind
	if id != "" {
		s += fmt.Sprintf(" %q", id)
	}
	return s + " " + fmt.Sprintf(format, args...)
}

// Revolute pins the two topmost bodies at Anchor together, or the topmost
// body to the ground when only one is there.
type Revolute struct {
	ID     string
	Anchor Vec
}

func (*Revolute) Kind() string { return KindRevolute }
func (*Revolute) isJoint()     {}
func (j *Revolute) String() string {
	return describe(KindRevolute, j.ID, "at %v", j.Anchor)
}

// Distance keeps its anchors at their initial distance.
type Distance struct {
	ID      string
	Anchor1 Vec
	Anchor2 Vec
}

func (*Distance) Kind() string { return KindDistance }
func (*Distance) isJoint()     {}
func (j *Distance) String() string {
	return describe(KindDistance, j.ID, "%v-%v", j.Anchor1, j.Anchor2)
}

// Prismatic lets the second body slide along the Anchor1->Anchor2 axis.
type Prismatic struct {
	ID      string
	Anchor1 Vec
	Anchor2 Vec
}

func (*Prismatic) Kind() string { return KindPrismatic }
func (*Prismatic) isJoint()     {}
func (j *Prismatic) String() string {
	return describe(KindPrismatic, j.ID, "%v-%v", j.Anchor1, j.Anchor2)
}

// Motor applies torque to the topmost body at Anchor while one of its control
// inputs is held.
type Motor struct {
	ID               string
	Anchor           Vec
	Torque           float64
	Damping          float64
	Clockwise        string
	CounterClockwise string
}

func (*Motor) Kind() string { return KindMotor }
func (*Motor) isJoint()     {}
func (j *Motor) String() string {
	return describe(KindMotor, j.ID, "at %v keys=%s/%s", j.Anchor, j.Clockwise, j.CounterClockwise)
}

// Spring is a damped spring between two anchors whose rest length is the
// initial anchor distance. A zero MaxForce means the configured default.
type Spring struct {
	ID             string
	Anchor1        Vec
	Anchor2        Vec
	SpringConstant float64
	Damping        float64
	MaxForce       float64
}

func (*Spring) Kind() string { return KindSpring }
func (*Spring) isJoint()     {}
func (j *Spring) String() string {
	return describe(KindSpring, j.ID, "%v-%v k=%g", j.Anchor1, j.Anchor2, j.SpringConstant)
}

// Camera makes the view follow the topmost body at Anchor.
type Camera struct {
	ID     string
	Anchor Vec
}

func (*Camera) Kind() string { return KindCamera }
func (*Camera) isJoint()     {}
func (j *Camera) String() string {
	return describe(KindCamera, j.ID, "at %v", j.Anchor)
}
