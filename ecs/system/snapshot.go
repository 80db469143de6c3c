package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/gunrunner/ecs"
	"github.com/milk9111/gunrunner/ecs/component"
)

// ActorSnapshot is a read-only view of one combat actor.
type ActorSnapshot struct {
	Entity     ecs.Entity
	Position   cp.Vector
	Facing     float64
	Health     float64
	MaxHealth  float64
	Invincible bool
}

type ScoreSnapshot struct {
	Score      int
	Multiplier int
}

type DirectorSnapshot struct {
	Phase       Phase
	Progress    float64
	BossPhase   bool
	CameraSpeed float64
}

// Snapshot is taken after a tick for HUD and camera collaborators. It holds
// copies; changing it does not touch the world.
type Snapshot struct {
	Tick     uint64
	Player   *ActorSnapshot
	Enemies  []ActorSnapshot
	Score    ScoreSnapshot
	Director DirectorSnapshot
}

// TakeSnapshot copies the player, enemy, score and director state out of w.
// director may be nil.
func TakeSnapshot(w *ecs.World, director *Director) Snapshot {
	snap := Snapshot{Tick: w.Time().Tick, Score: ScoreSnapshot{Multiplier: 1}}
	now := w.Time().Now

	if player, ok := ecs.First(w, component.PlayerTagComponent.Kind()); ok {
		if actor, ok := actorSnapshot(w, player, now); ok {
			snap.Player = &actor
		}
		if combo, ok := ecs.Get(w, player, component.ComboComponent.Kind()); ok {
			snap.Score = ScoreSnapshot{Score: combo.Score, Multiplier: combo.Multiplier}
		}
	}

	for _, e := range w.Query(component.EnemyTagComponent.Kind(), component.BodyComponent.Kind()) {
		if actor, ok := actorSnapshot(w, e, now); ok {
			snap.Enemies = append(snap.Enemies, actor)
		}
	}

	if director != nil {
		phase := director.Phase()
		snap.Director = DirectorSnapshot{
			Phase:       phase,
			Progress:    director.Progress(),
			BossPhase:   phase == PhaseBossIntro || phase == PhaseBossActive,
			CameraSpeed: director.CameraSpeed(),
		}
	}
	return snap
}

func actorSnapshot(w *ecs.World, e ecs.Entity, now float64) (ActorSnapshot, bool) {
	body, ok := ecs.Get(w, e, component.BodyComponent.Kind())
	if !ok {
		return ActorSnapshot{}, false
	}
	actor := ActorSnapshot{Entity: e, Position: body.Position, Facing: body.Facing}
	if combat, ok := ecs.Get(w, e, component.CombatComponent.Kind()); ok {
		actor.Health = combat.Health
		actor.MaxHealth = combat.MaxHealth
		actor.Invincible = combat.IsInvincible(now)
	}
	return actor, true
}
