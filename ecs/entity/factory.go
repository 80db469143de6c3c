package entity

import (
	"fmt"
	"log"
	"math/rand/v2"
	"sync"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/gunrunner/ecs"
	"github.com/milk9111/gunrunner/ecs/component"
	"github.com/milk9111/gunrunner/ecs/system"
	"github.com/milk9111/gunrunner/prefabs"
)

// Factory builds actors from prefabs by kind name and caches the decoded
// specs until they are reloaded.
type Factory struct {
	rng *rand.Rand

	mu    sync.Mutex
	specs map[string]prefabs.EntityBuildSpec
}

var _ system.ActorFactory = (*Factory)(nil)

func NewFactory(rng *rand.Rand) *Factory {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Factory{rng: rng, specs: make(map[string]prefabs.EntityBuildSpec)}
}

func (f *Factory) Spawn(w *ecs.World, kind string, position cp.Vector) (ecs.Entity, error) {
	spec, err := f.spec(kind)
	if err != nil {
		return 0, err
	}
	return BuildEntityFromSpec(w, spec, kind, position, f.rng)
}

// Reload drops the cached spec for name so the next Spawn reads it again.
func (f *Factory) Reload(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.specs[name]; ok {
		log.Printf("[factory] reloading prefab %q", name)
	}
	delete(f.specs, name)
}

func (f *Factory) spec(kind string) (prefabs.EntityBuildSpec, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if spec, ok := f.specs[kind]; ok {
		return spec, nil
	}
	spec, err := prefabs.LoadEntityBuildSpec(kind)
	if err != nil {
		return prefabs.EntityBuildSpec{}, fmt.Errorf("factory: load %q: %w", kind, err)
	}
	f.specs[kind] = spec
	return spec, nil
}

// Roster resolves enemy archetype names to their difficulty tiers. Names
// whose prefab has no enemy component are rejected.
func (f *Factory) Roster(names []string) ([]system.Archetype, error) {
	roster := make([]system.Archetype, 0, len(names))
	for _, name := range names {
		spec, err := f.spec(name)
		if err != nil {
			return nil, err
		}
		raw, ok := spec.Components["enemy"]
		if !ok {
			return nil, fmt.Errorf("factory: %q is not an enemy", name)
		}
		enemy, err := prefabs.DecodeComponentSpec[enemySpec](raw)
		if err != nil {
			return nil, fmt.Errorf("factory: decode %q: %w", name, err)
		}
		difficulty := enemy.Difficulty
		if difficulty == "" {
			difficulty = component.DifficultyEasy
		}
		roster = append(roster, system.Archetype{Kind: name, Difficulty: difficulty})
	}
	return roster, nil
}

// SpawnPlayer builds the player prefab at position.
func (f *Factory) SpawnPlayer(w *ecs.World, name string, position cp.Vector) (ecs.Entity, error) {
	e, err := f.Spawn(w, name, position)
	if err != nil {
		return 0, err
	}
	if !ecs.Has(w, e, component.PlayerTagComponent.Kind()) {
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("factory: %q is not a player", name)
	}
	return e, nil
}
