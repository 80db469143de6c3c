package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/gunrunner/ecs"
)

const (
	EventDeath              ecs.EventType = "death"
	EventScore              ecs.EventType = "score"
	EventPopup              ecs.EventType = "popup"
	EventHitFlash           ecs.EventType = "hit_flash"
	EventSpawnTint          ecs.EventType = "spawn_tint"
	EventProjectileConsumed ecs.EventType = "projectile_consumed"
	EventProjectileFired    ecs.EventType = "projectile_fired"
	EventPowerupPicked      ecs.EventType = "powerup_picked"
	EventMicrochipDropped   ecs.EventType = "microchip_dropped"
	EventMicrochipPicked    ecs.EventType = "microchip_picked"
	EventStateCue           ecs.EventType = "state_cue"
	EventOverheat           ecs.EventType = "overheat"
	EventPhase              ecs.EventType = "phase"
)

// ScoreData accompanies EventScore.
type ScoreData struct {
	Delta      int
	Score      int
	Multiplier int
}

// PopupData accompanies EventPopup.
type PopupData struct {
	Position cp.Vector
	Text     string
}

// HitFlashData accompanies EventHitFlash.
type HitFlashData struct {
	Duration float64
}

// ProjectileFiredData accompanies EventProjectileFired.
type ProjectileFiredData struct {
	Owner     ecs.Entity
	Secondary bool
}

func emit(w *ecs.World, typ ecs.EventType, e ecs.Entity, data any) {
	w.Events().Push(ecs.Event{Type: typ, Entity: e, Data: data})
}
