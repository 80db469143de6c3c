package system

import (
	"math"
	"math/rand/v2"
	"strconv"

	"github.com/milk9111/gunrunner/common"
	"github.com/milk9111/gunrunner/ecs"
	"github.com/milk9111/gunrunner/ecs/component"
)

// PickupCollectSystem applies powerups and microchips the player touches.
type PickupCollectSystem struct{}

func NewPickupCollectSystem() *PickupCollectSystem { return &PickupCollectSystem{} }

func (s *PickupCollectSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	player, ok := ecs.First(w, component.PlayerTagComponent.Kind())
	if !ok {
		return
	}
	pb, ok := ecs.Get(w, player, component.BodyComponent.Kind())
	if !ok {
		return
	}
	if pc, ok := ecs.Get(w, player, component.CombatComponent.Kind()); ok && pc.Dying {
		return
	}

	ecs.ForEach2(w, component.PowerupComponent.Kind(), component.BodyComponent.Kind(), func(e ecs.Entity, p *component.Powerup, body *component.Body) {
		if collected(w, e) || !overlaps(pb, body) {
			return
		}
		applyPowerup(w, player, p)
		_ = ecs.Add(w, e, component.PendingRemovalComponent.Kind(), &component.PendingRemoval{})
		emit(w, EventPowerupPicked, player, *p)
	})

	ecs.ForEach2(w, component.MicrochipComponent.Kind(), component.BodyComponent.Kind(), func(e ecs.Entity, chip *component.Microchip, body *component.Body) {
		if collected(w, e) || !overlaps(pb, body) {
			return
		}
		awardPoints(w, chip.Size.Value())
		_ = ecs.Add(w, e, component.PendingRemovalComponent.Kind(), &component.PendingRemoval{})
		emit(w, EventMicrochipPicked, player, chip.Size)
	})
}

func collected(w *ecs.World, e ecs.Entity) bool {
	return ecs.Has(w, e, component.PendingRemovalComponent.Kind())
}

func applyPowerup(w *ecs.World, player ecs.Entity, p *component.Powerup) {
	switch p.Kind {
	case component.PowerupHealth:
		if combat, ok := ecs.Get(w, player, component.CombatComponent.Kind()); ok {
			Heal(combat, p.Amount)
		}
	case component.PowerupSpeedBoost:
		_ = ecs.Add(w, player, component.SpeedBoostComponent.Kind(), &component.SpeedBoost{
			Multiplier: p.Multiplier,
			Remaining:  p.Duration,
		})
	}
	if body, ok := ecs.Get(w, player, component.BodyComponent.Kind()); ok {
		emit(w, EventPopup, player, PopupData{Position: body.Position, Text: powerupPopup(p)})
	}
}

func powerupPopup(p *component.Powerup) string {
	if p.Kind == component.PowerupSpeedBoost {
		return strconv.Itoa(int(p.Duration))
	}
	return strconv.Itoa(int(p.Amount))
}

// RollHealthAmount samples a health pickup the way the level tuning expects:
// a uniform amount in [lo, hi] scaled by a uniform factor in [0.1, 1],
// rounded and clamped back into [lo, hi].
func RollHealthAmount(rng *rand.Rand, lo, hi float64) float64 {
	if hi < lo {
		lo, hi = hi, lo
	}
	amount := (lo + rng.Float64()*(hi-lo)) * (1 + rng.Float64()*9) / 10
	return math.Round(common.Clamp(amount, lo, hi))
}
