package system

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/gunrunner/ecs"
	"github.com/milk9111/gunrunner/ecs/component"
)

// GunSystem turns fire intent into projectiles and tracks overheat. Disabled
// or dead owners cannot fire.
type GunSystem struct{}

func NewGunSystem() *GunSystem {
	return &GunSystem{}
}

func (s *GunSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.Time().Delta

	ecs.ForEach3(w, component.GunComponent.Kind(), component.IntentComponent.Kind(), component.BodyComponent.Kind(), func(e ecs.Entity, gun *component.Gun, intent *component.Intent, body *component.Body) {
		gun.ShotTimer += dt
		gun.SecondaryTimer += dt

		canFire := !gun.Overheated && !ownerDisabled(w, e)
		aim := cp.Vector{X: intent.AimX, Y: intent.AimY}
		if aim.LengthSq() == 0 {
			aim = cp.Vector{X: body.Facing}
		}

		primary := canFire && intent.Fire
		secondary := canFire && intent.Secondary && gun.HasSecondary

		if primary && gun.ShotTimer >= gun.ShotCooldown {
			spawnProjectile(w, e, body.Position, aim, gun.Primary, false)
			emit(w, EventProjectileFired, e, ProjectileFiredData{Owner: e})
			gun.ShotTimer = 0
		}
		if secondary && gun.SecondaryTimer >= gun.SecondaryCooldown {
			spawnProjectile(w, e, body.Position, aim, gun.Secondary, false)
			emit(w, EventProjectileFired, e, ProjectileFiredData{Owner: e, Secondary: true})
			gun.SecondaryTimer = 0
		}

		if gun.CanOverheat {
			updateHeat(w, e, gun, body, primary || secondary, dt)
		}
	})
}

// updateHeat raises heat while firing and cools it otherwise. Reaching the
// cap overheats the gun and hurts its owner; it recovers once heat falls to
// the threshold fraction.
func updateHeat(w *ecs.World, e ecs.Entity, gun *component.Gun, body *component.Body, firing bool, dt float64) {
	if firing {
		gun.Heat = math.Min(gun.Heat+dt, gun.OverheatTime)
		if gun.Heat >= gun.OverheatTime {
			gun.Overheated = true
			emit(w, EventOverheat, e, nil)
			if gun.OverheatDamage > 0 {
				queueHit(w, e, component.Hit{Amount: gun.OverheatDamage, SourceX: body.Position.X, Source: uint64(e)})
			}
		}
		return
	}

	gun.Heat = math.Max(gun.Heat-dt, 0)
	if gun.Overheated && gun.Heat <= gun.OverheatTime*gun.OverheatThreshold {
		gun.Overheated = false
	}
}

func ownerDisabled(w *ecs.World, e ecs.Entity) bool {
	if p, ok := ecs.Get(w, e, component.PlayerComponent.Kind()); ok && p.InputDisabled {
		return true
	}
	if c, ok := ecs.Get(w, e, component.CombatComponent.Kind()); ok && c.Dying {
		return true
	}
	return false
}
