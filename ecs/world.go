package ecs

import "github.com/milk9111/gunrunner/ecs/component"

// Time is the fixed-step simulation clock. Now only advances through
// Scheduler.Step, so every system in a tick sees the same timestamp.
type Time struct {
	Now   float64
	Delta float64
	Tick  uint64
}

// World owns entities, component stores and the event queue.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]store
	events   EventQueue
	time     Time
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{stores: make(map[component.ComponentID]store)}
}

// Time returns the clock as of the current tick.
func (w *World) Time() Time {
	if w == nil {
		return Time{}
	}
	return w.time
}

func (w *World) advance(dt float64) {
	w.time.Tick++
	w.time.Delta = dt
	w.time.Now += dt
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

// Query returns the live entities that have every listed component kind.
func (w *World) Query(kinds ...component.Kind) []Entity {
	if w == nil || len(kinds) == 0 {
		return nil
	}
	sets := make([]store, 0, len(kinds))
	for _, k := range kinds {
		s, ok := w.stores[k.ID()]
		if !ok || s.len() == 0 {
			return nil
		}
		sets = append(sets, s)
	}
	smallest := sets[0]
	for _, s := range sets[1:] {
		if s.len() < smallest.len() {
			smallest = s
		}
	}
	out := make([]Entity, 0, smallest.len())
	for _, e := range smallest.entities() {
		if !w.entities.isAlive(e) {
			continue
		}
		all := true
		for _, s := range sets {
			if s != smallest && !s.has(e) {
				all = false
				break
			}
		}
		if all {
			out = append(out, e)
		}
	}
	return out
}

// IsAlive reports whether an entity handle is valid.
func (w *World) IsAlive(e Entity) bool {
	if w == nil {
		return false
	}
	return w.entities.isAlive(e)
}

func (w *World) destroy(e Entity) bool {
	if !w.entities.destroy(e) {
		return false
	}
	for _, s := range w.stores {
		s.remove(e)
	}
	return true
}
