package system

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/gunrunner/ecs"
	"github.com/milk9111/gunrunner/ecs/component"
	"github.com/milk9111/gunrunner/prefabs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTakeSnapshot(t *testing.T) {
	w := ecs.NewWorld()
	player := newTestPlayer(t, w, cp.Vector{X: 3, Y: 1})
	combat, _ := ecs.Get(w, player, component.CombatComponent.Kind())
	combat.Health = 60
	combat.InvincibleUntil = 5
	combo, _ := ecs.Get(w, player, component.ComboComponent.Kind())
	combo.Score = 420
	combo.Multiplier = 3
	a := newTestEnemy(t, w, cp.Vector{X: 10}, component.Enemy{Spawned: true})
	b := newTestEnemy(t, w, cp.Vector{X: 12}, component.Enemy{Spawned: true})
	advance(w, 2, 0.5)

	snap := TakeSnapshot(w, nil)

	assert.Equal(t, uint64(2), snap.Tick)
	require.NotNil(t, snap.Player)
	assert.Equal(t, ActorSnapshot{
		Entity:     player,
		Position:   cp.Vector{X: 3, Y: 1},
		Facing:     1,
		Health:     60,
		MaxHealth:  100,
		Invincible: true,
	}, *snap.Player)
	assert.Equal(t, ScoreSnapshot{Score: 420, Multiplier: 3}, snap.Score)
	require.Len(t, snap.Enemies, 2)
	assert.ElementsMatch(t, []ecs.Entity{a, b}, []ecs.Entity{snap.Enemies[0].Entity, snap.Enemies[1].Entity})
	assert.Equal(t, DirectorSnapshot{}, snap.Director)

	// The snapshot is a copy.
	snap.Player.Health = 1
	assert.Equal(t, 60.0, combat.Health)
}

func TestTakeSnapshotWithoutPlayer(t *testing.T) {
	w := ecs.NewWorld()

	snap := TakeSnapshot(w, nil)

	assert.Nil(t, snap.Player)
	assert.Empty(t, snap.Enemies)
	assert.Equal(t, 1, snap.Score.Multiplier)
}

func TestTakeSnapshotDirector(t *testing.T) {
	w := ecs.NewWorld()
	newTestPlayer(t, w, cp.Vector{})
	level := &prefabs.LevelSpec{Boss: testBoss()}
	level.Boss.StartTime = 0
	director := NewDirector(level, nil, nil, &recordingFactory{t: t}, nil, testRNG())
	s := ecs.NewScheduler(director)
	s.Step(w, 1)

	snap := TakeSnapshot(w, director)

	assert.Equal(t, PhaseBossIntro, snap.Director.Phase)
	assert.True(t, snap.Director.BossPhase)
}
