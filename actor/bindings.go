package actor

import "slices"

// Control receives edges of the named inputs it was registered for.
type Control interface {
	Pressed(input string)
	Released(input string)
}

// Bindings routes named control inputs to the actors registered for them.
// Handlers for one input run in registration order. An input that is already
// held ignores further presses, and a release without a press is dropped, so
// every control sees balanced edges.
type Bindings struct {
	table map[string][]Control
	held  map[string]bool
}

func NewBindings() *Bindings {
	return &Bindings{
		table: make(map[string][]Control),
		held:  make(map[string]bool),
	}
}

// Register binds c to each of the given inputs.
func (b *Bindings) Register(c Control, inputs ...string) {
	if b == nil || c == nil {
		return
	}
	for _, input := range inputs {
		if input == "" {
			continue
		}
		b.table[input] = append(b.table[input], c)
	}
}

// Unregister removes every binding of c.
func (b *Bindings) Unregister(c Control) {
	if b == nil || c == nil {
		return
	}
	for input, controls := range b.table {
		controls = slices.DeleteFunc(controls, func(other Control) bool { return other == c })
		if len(controls) == 0 {
			delete(b.table, input)
			continue
		}
		b.table[input] = controls
	}
}

// Press delivers a press of input. It reports whether any control is bound.
func (b *Bindings) Press(input string) bool {
	if b == nil || b.held[input] {
		return false
	}
	b.held[input] = true
	controls := slices.Clone(b.table[input])
	for _, c := range controls {
		c.Pressed(input)
	}
	return len(controls) > 0
}

// Release delivers a release of input. It reports whether any control is
// bound.
func (b *Bindings) Release(input string) bool {
	if b == nil || !b.held[input] {
		return false
	}
	delete(b.held, input)
	controls := slices.Clone(b.table[input])
	for _, c := range controls {
		c.Released(input)
	}
	return len(controls) > 0
}

func (b *Bindings) Held(input string) bool {
	return b != nil && b.held[input]
}

// Len returns the number of (input, control) bindings.
func (b *Bindings) Len() int {
	if b == nil {
		return 0
	}
	n := 0
	for _, controls := range b.table {
		n += len(controls)
	}
	return n
}

// Inputs returns the bound input names in sorted order.
func (b *Bindings) Inputs() []string {
	if b == nil {
		return nil
	}
	inputs := make([]string, 0, len(b.table))
	for input := range b.table {
		inputs = append(inputs, input)
	}
	slices.Sort(inputs)
	return inputs
}

// ResetHeld forgets which inputs are held.
func (b *Bindings) ResetHeld() {
	if b == nil {
		return
	}
	clear(b.held)
}
