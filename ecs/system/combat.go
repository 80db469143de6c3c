package system

import (
	"math"

	"github.com/milk9111/gunrunner/ecs"
	"github.com/milk9111/gunrunner/ecs/component"
)

// Outcome is the result of resolving one hit.
type Outcome int

const (
	Absorbed Outcome = iota
	Staggered
	Killed
)

func (o Outcome) String() string {
	switch o {
	case Staggered:
		return "staggered"
	case Killed:
		return "killed"
	default:
		return "absorbed"
	}
}

// ApplyDamage resolves hit against the target's combat profile at time now.
// Knockback is applied only when the target survives the hit.
func ApplyDamage(combat *component.Combat, body *component.Body, motion *component.Motion, hit component.Hit, now float64) Outcome {
	if combat == nil || combat.Dying || combat.IsInvincible(now) {
		return Absorbed
	}

	combat.Health -= math.Max(hit.Amount, 0)
	if combat.Health <= 0 {
		combat.Health = 0
		combat.Dying = true
		return Killed
	}

	if body != nil && motion != nil {
		vx, vy := knockbackVelocity(hit.Knockback, motion.Gravity)
		if body.Position.X < hit.SourceX {
			vx = -vx
		}
		if vx != 0 || vy != 0 {
			body.Velocity.X = vx
			body.Velocity.Y = vy
			body.Override = true
		}
	}

	combat.InvincibleUntil = now + combat.InvincibilityPeriod
	return Staggered
}

func knockbackVelocity(knockback, gravity float64) (float64, float64) {
	if knockback <= 0 || gravity >= 0 {
		return 0, 0
	}
	return math.Sqrt(knockback * knockback * -gravity), math.Sqrt(knockback * -gravity)
}

// Heal adds amount clamped to [0, MaxHealth]. Dying targets are not healed.
func Heal(combat *component.Combat, amount float64) float64 {
	if combat == nil || combat.Dying || amount <= 0 {
		return 0
	}
	before := combat.Health
	combat.Health = math.Min(combat.Health+amount, combat.MaxHealth)
	return combat.Health - before
}

// CombatSystem drains hit requests and consumes each outcome in the same
// tick: projectiles are released, deaths are announced and dying enemies are
// handed to the enemy system.
type CombatSystem struct {
	enemies *EnemySystem
}

func NewCombatSystem(enemies *EnemySystem) *CombatSystem {
	return &CombatSystem{enemies: enemies}
}

func (s *CombatSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	now := w.Time().Now

	ecs.ForEach(w, component.HitRequestComponent.Kind(), func(e ecs.Entity, req *component.HitRequest) {
		hits := req.Hits
		ecs.Remove(w, e, component.HitRequestComponent.Kind())

		combat, ok := ecs.Get(w, e, component.CombatComponent.Kind())
		if !ok {
			return
		}
		body, _ := ecs.Get(w, e, component.BodyComponent.Kind())
		motion, _ := ecs.Get(w, e, component.MotionComponent.Kind())

		for _, hit := range hits {
			if hit.Projectile != 0 {
				consumeProjectile(w, ecs.Entity(hit.Projectile), e)
			}
			s.resolve(w, e, combat, body, motion, hit, now)
		}
	})
}

func (s *CombatSystem) resolve(w *ecs.World, e ecs.Entity, combat *component.Combat, body *component.Body, motion *component.Motion, hit component.Hit, now float64) {
	switch ApplyDamage(combat, body, motion, hit, now) {
	case Staggered:
		flash := combat.InvincibilityPeriod
		if enemy, ok := ecs.Get(w, e, component.EnemyComponent.Kind()); ok {
			flash = enemy.FlashLength
		}
		emit(w, EventHitFlash, e, HitFlashData{Duration: flash})
	case Killed:
		emit(w, EventDeath, e, nil)
		if ecs.Has(w, e, component.PlayerTagComponent.Kind()) {
			disablePlayer(w, e)
			return
		}
		if s.enemies == nil || !s.enemies.Transition(w, e, EnemyDying) {
			removeDeadEnemy(w, e, combat)
		}
	}
}

// consumeProjectile releases a projectile that touched target, whatever the
// outcome of the hit.
func consumeProjectile(w *ecs.World, projectile, target ecs.Entity) {
	if !ecs.IsAlive(w, projectile) || ecs.Has(w, projectile, component.PendingRemovalComponent.Kind()) {
		return
	}
	_ = ecs.Add(w, projectile, component.PendingRemovalComponent.Kind(), &component.PendingRemoval{})
	emit(w, EventProjectileConsumed, projectile, target)
}

// queueHit appends a hit to the target's request for this tick.
func queueHit(w *ecs.World, target ecs.Entity, hit component.Hit) {
	if req, ok := ecs.Get(w, target, component.HitRequestComponent.Kind()); ok {
		req.Hits = append(req.Hits, hit)
		return
	}
	_ = ecs.Add(w, target, component.HitRequestComponent.Kind(), &component.HitRequest{Hits: []component.Hit{hit}})
}

func disablePlayer(w *ecs.World, e ecs.Entity) {
	if player, ok := ecs.Get(w, e, component.PlayerComponent.Kind()); ok {
		player.InputDisabled = true
		player.ContinuousRun = false
	}
	if intent, ok := ecs.Get(w, e, component.IntentComponent.Kind()); ok {
		*intent = component.Intent{}
	}
	ecs.Remove(w, e, component.GoToPointComponent.Kind())
}
