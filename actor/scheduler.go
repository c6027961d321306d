// Package actor implements the force-based joints the engine lacks: springs,
// keyboard driven motors and the camera follower. Actors are stepped once per
// tick, in creation order, before the world.
package actor

type Actor interface {
	Step(dt float64)
}

// Closer is implemented by actors holding registrations that must be
// released on teardown.
type Closer interface {
	Close()
}

type Scheduler struct {
	actors []Actor
	passes int
}

func NewScheduler(actors ...Actor) *Scheduler {
	copied := append([]Actor(nil), actors...)
	return &Scheduler{actors: copied}
}

func (s *Scheduler) Add(actor Actor) {
	if actor == nil {
		return
	}
	s.actors = append(s.actors, actor)
}

// Step runs one pass over all actors.
func (s *Scheduler) Step(dt float64) {
	if s == nil {
		return
	}
	for _, actor := range s.actors {
		actor.Step(dt)
	}
	s.passes++
}

// Passes returns how many times Step has run.
func (s *Scheduler) Passes() int {
	if s == nil {
		return 0
	}
	return s.passes
}

func (s *Scheduler) Actors() []Actor {
	if s == nil {
		return nil
	}
	actors := make([]Actor, 0, len(s.actors))
	return append(actors, s.actors...)
}

func (s *Scheduler) Len() int {
	if s == nil {
		return 0
	}
	return len(s.actors)
}

// Close releases every actor in reverse creation order and empties the
// scheduler.
func (s *Scheduler) Close() {
	if s == nil {
		return
	}
	for i := len(s.actors) - 1; i >= 0; i-- {
		if c, ok := s.actors[i].(Closer); ok {
			c.Close()
		}
	}
	s.actors = nil
}
