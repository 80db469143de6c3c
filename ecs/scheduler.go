package ecs

type System interface {
	Update(w *World)
}

// Scheduler runs systems in a fixed order, once per simulation tick.
type Scheduler struct {
	systems []System
}

func NewScheduler(systems ...System) *Scheduler {
	s := &Scheduler{}
	for _, system := range systems {
		s.Add(system)
	}
	return s
}

func (s *Scheduler) Add(system System) {
	if system == nil {
		return
	}
	s.systems = append(s.systems, system)
}

// Step advances the world clock by dt and runs every system once.
func (s *Scheduler) Step(w *World, dt float64) {
	if s == nil || w == nil {
		return
	}
	w.advance(dt)
	for _, system := range s.systems {
		system.Update(w)
	}
}

func (s *Scheduler) Systems() []System {
	systems := make([]System, 0, len(s.systems))
	return append(systems, s.systems...)
}
