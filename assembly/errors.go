package assembly

import (
	"errors"
	"fmt"

	"github.com/milk9111/ride/level"
	"github.com/milk9111/ride/physics"
)

var (
	ErrUnknownJoint = errors.New("unknown joint kind")
	ErrSelfJoint    = fmt.Errorf("%w: joint connects a body to itself", physics.ErrMalformedLevel)
)

// JointError reports the joint that stopped assembly.
type JointError struct {
	Index int
	Joint level.Joint
	Err   error
}

func (e *JointError) Error() string {
	return fmt.Sprintf("assembly: joint %d (%v): %v", e.Index, e.Joint, e.Err)
}

func (e *JointError) Unwrap() error {
	return e.Err
}

// BodyError reports the body that stopped assembly.
type BodyError struct {
	Index int
	Body  level.Body
	Err   error
}

func (e *BodyError) Error() string {
	return fmt.Sprintf("assembly: body %d (%v): %v", e.Index, e.Body, e.Err)
}

func (e *BodyError) Unwrap() error {
	return e.Err
}
