package actor

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/ride/physics"
)

// Focus is the world point the view is centred on. It is written by camera
// actors and read by the presentation layer.
type Focus struct {
	point cp.Vector
	set   bool
}

func (f *Focus) Set(p cp.Vector) {
	f.point = p
	f.set = true
}

// Get returns the focus point, or false while no camera has written one.
func (f *Focus) Get() (cp.Vector, bool) {
	if f == nil {
		return cp.Vector{}, false
	}
	return f.point, f.set
}

// Camera keeps Focus on a body's centre of mass.
type Camera struct {
	body  *physics.Body
	focus *Focus
}

// NewCamera writes the initial focus so it is valid before the first step.
func NewCamera(body *physics.Body, focus *Focus) *Camera {
	c := &Camera{body: body, focus: focus}
	c.focus.Set(body.WorldCenter())
	return c
}

func (c *Camera) Body() *physics.Body {
	return c.body
}

func (c *Camera) Step(dt float64) {
	c.focus.Set(c.body.WorldCenter())
}
