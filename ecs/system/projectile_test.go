package system

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/gunrunner/ecs"
	"github.com/milk9111/gunrunner/ecs/component"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectileHitsEnemy(t *testing.T) {
	w := ecs.NewWorld()
	player := newTestPlayer(t, w, cp.Vector{})
	enemy := newTestEnemy(t, w, cp.Vector{X: 2}, component.Enemy{Spawned: true})
	shot := spawnProjectile(w, player, cp.Vector{X: 1}, cp.Vector{X: 1}, component.ProjectileSpec{Damage: 7, Knockback: 1, Speed: 10}, false)
	advance(w, 1, 0.05)

	NewProjectileSystem(nil).Update(w)

	req, ok := ecs.Get(w, enemy, component.HitRequestComponent.Kind())
	require.True(t, ok)
	require.Len(t, req.Hits, 1)
	assert.Equal(t, 7.0, req.Hits[0].Amount)
	assert.Equal(t, uint64(shot), req.Hits[0].Projectile)
	assert.Equal(t, uint64(player), req.Hits[0].Source)

	p, _ := ecs.Get(w, shot, component.ProjectileComponent.Kind())
	assert.True(t, p.Spent)
	assert.False(t, ecs.Has(w, player, component.HitRequestComponent.Kind()), "friendly shots skip the player")
}

func TestHostileProjectileHitsPlayer(t *testing.T) {
	w := ecs.NewWorld()
	player := newTestPlayer(t, w, cp.Vector{})
	enemy := newTestEnemy(t, w, cp.Vector{X: 2}, component.Enemy{Spawned: true})
	shot := spawnProjectile(w, enemy, cp.Vector{X: 1}, cp.Vector{X: -1}, component.ProjectileSpec{Damage: 3, Speed: 10}, true)
	advance(w, 1, 0.05)

	NewProjectileSystem(nil).Update(w)

	req, ok := ecs.Get(w, player, component.HitRequestComponent.Kind())
	require.True(t, ok)
	require.Len(t, req.Hits, 1)
	assert.Equal(t, 3.0, req.Hits[0].Amount)
	assert.Equal(t, uint64(enemy), req.Hits[0].Source)
	assert.False(t, ecs.Has(w, enemy, component.HitRequestComponent.Kind()), "hostile shots skip enemies")

	p, _ := ecs.Get(w, shot, component.ProjectileComponent.Kind())
	assert.True(t, p.Spent)
}

func TestProjectilePassesSpawningEnemy(t *testing.T) {
	w := ecs.NewWorld()
	enemy := newTestEnemy(t, w, cp.Vector{X: 2}, component.Enemy{})
	combat, _ := ecs.Get(w, enemy, component.CombatComponent.Kind())
	combat.IgnoreProjectiles = true
	shot := spawnProjectile(w, 0, cp.Vector{X: 1.5}, cp.Vector{X: 1}, component.ProjectileSpec{Damage: 7, Speed: 10}, false)
	advance(w, 1, 0.05)

	NewProjectileSystem(nil).Update(w)

	assert.False(t, ecs.Has(w, enemy, component.HitRequestComponent.Kind()))
	p, _ := ecs.Get(w, shot, component.ProjectileComponent.Kind())
	assert.False(t, p.Spent)
}

func TestProjectileReleasedByGeometry(t *testing.T) {
	w := ecs.NewWorld()
	shot := spawnProjectile(w, 0, cp.Vector{Y: 0.5}, cp.Vector{Y: -1}, component.ProjectileSpec{Speed: 10}, true)
	advance(w, 1, 0.1)

	NewProjectileSystem(floorAt(0)).Update(w)

	assert.True(t, ecs.Has(w, shot, component.PendingRemovalComponent.Kind()))
	assert.Len(t, drainEvents(w, EventProjectileConsumed), 1)
}

func TestContactDamage(t *testing.T) {
	w := ecs.NewWorld()
	player := newTestPlayer(t, w, cp.Vector{})
	newTestEnemy(t, w, cp.Vector{X: 0.5}, component.Enemy{Spawned: true})

	NewContactSystem().Update(w)

	req, ok := ecs.Get(w, player, component.HitRequestComponent.Kind())
	require.True(t, ok)
	require.Len(t, req.Hits, 1)
	assert.Equal(t, 10.0, req.Hits[0].Amount)
	assert.Equal(t, 0.5, req.Hits[0].SourceX)
}

func TestContactIgnoresSpawningEnemy(t *testing.T) {
	w := ecs.NewWorld()
	player := newTestPlayer(t, w, cp.Vector{})
	newTestEnemy(t, w, cp.Vector{X: 0.5}, component.Enemy{})

	NewContactSystem().Update(w)

	assert.False(t, ecs.Has(w, player, component.HitRequestComponent.Kind()))
}

func TestContactRespectsInvincibility(t *testing.T) {
	w := ecs.NewWorld()
	player := newTestPlayer(t, w, cp.Vector{})
	newTestEnemy(t, w, cp.Vector{X: 0.5}, component.Enemy{Spawned: true})
	s := ecs.NewScheduler(NewContactSystem(), NewCombatSystem(nil))

	s.Step(w, 0.1)
	s.Step(w, 0.1)
	s.Step(w, 0.1)

	combat, _ := ecs.Get(w, player, component.CombatComponent.Kind())
	assert.Equal(t, 90.0, combat.Health)
}
