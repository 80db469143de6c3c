package system

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/gunrunner/common"
	"github.com/milk9111/gunrunner/ecs"
	"github.com/milk9111/gunrunner/ecs/component"
)

const defaultProjectileSize = 0.25

// spawnProjectile creates a shot travelling along dir from origin.
func spawnProjectile(w *ecs.World, owner ecs.Entity, origin, dir cp.Vector, spec component.ProjectileSpec, hostile bool) ecs.Entity {
	if dir.LengthSq() == 0 {
		dir = cp.Vector{X: 1}
	}
	size := spec.Size
	if size <= 0 {
		size = defaultProjectileSize
	}

	e := ecs.CreateEntity(w)
	_ = ecs.Add(w, e, component.BodyComponent.Kind(), &component.Body{
		Position: origin,
		Velocity: dir.Normalize().Mult(spec.Speed),
		Size:     cp.Vector{X: size, Y: size},
		Facing:   common.Sign(dir.X),
	})
	_ = ecs.Add(w, e, component.ProjectileComponent.Kind(), &component.Projectile{
		Damage:    spec.Damage,
		Knockback: spec.Knockback,
		Owner:     uint64(owner),
		Hostile:   hostile,
	})
	if spec.Lifetime > 0 {
		_ = ecs.Add(w, e, component.TTLComponent.Kind(), &component.TTL{Seconds: spec.Lifetime})
	}
	return e
}

// overlaps reports whether two center-sized boxes intersect.
func overlaps(a, b *component.Body) bool {
	return math.Abs(a.Position.X-b.Position.X)*2 < a.Size.X+b.Size.X &&
		math.Abs(a.Position.Y-b.Position.Y)*2 < a.Size.Y+b.Size.Y
}

// ProjectileSystem moves shots in a straight line and queues a hit on the
// first valid target each one touches. Friendly shots hit enemies, hostile
// shots hit the player. Shots that enter solid geometry are released.
type ProjectileSystem struct {
	probe Probe
}

func NewProjectileSystem(probe Probe) *ProjectileSystem {
	if probe == nil {
		probe = openGround{}
	}
	return &ProjectileSystem{probe: probe}
}

func (s *ProjectileSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.Time().Delta

	ecs.ForEach2(w, component.BodyComponent.Kind(), component.ProjectileComponent.Kind(), func(e ecs.Entity, body *component.Body, shot *component.Projectile) {
		if shot.Spent || ecs.Has(w, e, component.PendingRemovalComponent.Kind()) {
			return
		}
		body.Position = body.Position.Add(body.Velocity.Mult(dt))

		if s.probe.Query(body.Position, common.MaskDefault) {
			consumeProjectile(w, e, 0)
			return
		}

		var tag component.Kind = component.EnemyTagComponent.Kind()
		if shot.Hostile {
			tag = component.PlayerTagComponent.Kind()
		}
		for _, target := range w.Query(tag, component.CombatComponent.Kind(), component.BodyComponent.Kind()) {
			if uint64(target) == shot.Owner {
				continue
			}
			combat, _ := ecs.Get(w, target, component.CombatComponent.Kind())
			tb, _ := ecs.Get(w, target, component.BodyComponent.Kind())
			if combat.Dying || combat.IgnoreProjectiles || !overlaps(body, tb) {
				continue
			}
			queueHit(w, target, component.Hit{
				Amount:     shot.Damage,
				Knockback:  shot.Knockback,
				SourceX:    body.Position.X,
				Source:     shot.Owner,
				Projectile: uint64(e),
			})
			shot.Spent = true
			return
		}
	})
}

// ContactSystem applies an enemy's body damage to the player while they
// overlap. Repeated contact is absorbed by the invincibility window.
type ContactSystem struct{}

func NewContactSystem() *ContactSystem {
	return &ContactSystem{}
}

func (s *ContactSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	player, ok := ecs.First(w, component.PlayerTagComponent.Kind())
	if !ok {
		return
	}
	pb, okB := ecs.Get(w, player, component.BodyComponent.Kind())
	pc, okC := ecs.Get(w, player, component.CombatComponent.Kind())
	if !okB || !okC || pc.Dying {
		return
	}
	now := w.Time().Now

	for _, e := range w.Query(component.EnemyTagComponent.Kind(), component.CombatComponent.Kind(), component.BodyComponent.Kind()) {
		combat, _ := ecs.Get(w, e, component.CombatComponent.Kind())
		body, _ := ecs.Get(w, e, component.BodyComponent.Kind())
		if combat.Dying || combat.Damage <= 0 || !overlaps(pb, body) {
			continue
		}
		if enemy, ok := ecs.Get(w, e, component.EnemyComponent.Kind()); ok && !enemy.Spawned {
			continue
		}
		if pc.IsInvincible(now) {
			return
		}
		queueHit(w, player, component.Hit{
			Amount:    combat.Damage,
			Knockback: combat.Knockback,
			SourceX:   body.Position.X,
			Source:    uint64(e),
		})
		return
	}
}
