package actor

import "github.com/milk9111/ride/physics"

type MotorParams struct {
	Torque           float64
	Damping          float64
	Clockwise        string
	CounterClockwise string
}

// Motor applies torque to a body while its control inputs are held. The
// throttle sums the held directions: -1 clockwise, +1 counter-clockwise.
type Motor struct {
	body     *physics.Body
	params   MotorParams
	throttle int
	bindings *Bindings
	torque   float64
}

// NewMotor registers the motor on bindings for both of its inputs.
func NewMotor(body *physics.Body, params MotorParams, bindings *Bindings) *Motor {
	m := &Motor{body: body, params: params, bindings: bindings}
	bindings.Register(m, params.Clockwise, params.CounterClockwise)
	return m
}

func (m *Motor) Pressed(input string) {
	switch input {
	case m.params.Clockwise:
		m.throttle--
	case m.params.CounterClockwise:
		m.throttle++
	}
}

func (m *Motor) Released(input string) {
	switch input {
	case m.params.Clockwise:
		m.throttle++
	case m.params.CounterClockwise:
		m.throttle--
	}
}

func (m *Motor) Throttle() int {
	return m.throttle
}

func (m *Motor) Body() *physics.Body {
	return m.body
}

func (m *Motor) Params() MotorParams {
	return m.params
}

// Torque returns the torque applied on the last step.
func (m *Motor) Torque() float64 {
	return m.torque
}

func (m *Motor) Step(dt float64) {
	m.torque = 0
	if m.throttle == 0 {
		return
	}
	m.torque = float64(m.throttle)*m.params.Torque - m.params.Damping*m.body.AngularVelocity()
	m.body.ApplyTorque(m.torque)
}

// Close removes the motor's input bindings.
func (m *Motor) Close() {
	if m.bindings == nil {
		return
	}
	m.bindings.Unregister(m)
	m.bindings = nil
}
