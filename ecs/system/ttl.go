package system

import (
	"github.com/milk9111/gunrunner/ecs"
	"github.com/milk9111/gunrunner/ecs/component"
)

// TTLSystem counts down TTL components and marks entities for removal when
// their time runs out.
type TTLSystem struct{}

func NewTTLSystem() *TTLSystem {
	return &TTLSystem{}
}

func (s *TTLSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	dt := w.Time().Delta
	ecs.ForEach(w, component.TTLComponent.Kind(), func(e ecs.Entity, ttl *component.TTL) {
		ttl.Seconds -= dt
		if ttl.Seconds > 0 {
			return
		}
		// TTL expired: the cleanup slot destroys the entity
		_ = ecs.Add(w, e, component.PendingRemovalComponent.Kind(), &component.PendingRemoval{})
	})
}

// CleanupSystem destroys every entity marked PendingRemoval. It runs last so
// the other systems see a stable set of entities for the whole tick.
type CleanupSystem struct{}

func NewCleanupSystem() *CleanupSystem {
	return &CleanupSystem{}
}

func (s *CleanupSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	for _, e := range w.Query(component.PendingRemovalComponent.Kind()) {
		ecs.DestroyEntity(w, e)
	}
}
