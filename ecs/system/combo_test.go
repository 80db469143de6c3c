package system

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/gunrunner/ecs"
	"github.com/milk9111/gunrunner/ecs/component"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCombo() *component.Combo {
	return &component.Combo{StartKills: 3, DecayTime: 1, Multiplier: 1, Peak: 1}
}

func TestNextComboThresholdIncreases(t *testing.T) {
	combo := newCombo()
	assert.Equal(t, 3, NextComboThreshold(combo, 1))
	assert.Equal(t, 5, NextComboThreshold(combo, 2))
	assert.Equal(t, 8, NextComboThreshold(combo, 3))

	prev := NextComboThreshold(combo, 1)
	for n := 2; n < 20; n++ {
		next := NextComboThreshold(combo, n)
		assert.Greater(t, next, prev, "threshold(%d)", n)
		prev = next
	}
}

func TestRegisterKillThirdKillDoubles(t *testing.T) {
	combo := newCombo()
	RegisterKill(combo, 10, 1, 100)
	RegisterKill(combo, 10, 1, 100)
	assert.Equal(t, 1, combo.Multiplier)

	delta := RegisterKill(combo, 10, 1, 100)
	assert.Equal(t, 2, combo.Multiplier)
	assert.Equal(t, 2, combo.Peak)
	// base is 10*1 + 10/100*100 = 20, doubled
	assert.Equal(t, 40, delta)
	assert.Equal(t, 20+20+40, combo.Score)
}

func TestRegisterKillScoreMonotonicInMultiplier(t *testing.T) {
	prev := 0
	for m := 1; m <= 6; m++ {
		combo := newCombo()
		combo.Multiplier = m
		combo.Peak = m
		// Keep the chain far from the next threshold so the multiplier holds.
		combo.KillChain = -100
		delta := RegisterKill(combo, 30, 5, 100)
		assert.Greater(t, delta, prev, "multiplier %d", m)
		prev = delta
	}
}

func TestDecayComboNeverNegative(t *testing.T) {
	combo := newCombo()
	for range 20 {
		RegisterKill(combo, 10, 1, 100)
	}
	require.Greater(t, combo.Multiplier, 3)

	for combo.Multiplier > 1 {
		DecayCombo(combo, 0.1)
		assert.GreaterOrEqual(t, combo.KillChain, 0)
		assert.GreaterOrEqual(t, combo.Multiplier, 1)
	}
	assert.Equal(t, 0, combo.KillChain)

	// Decay is idle at the base multiplier.
	DecayCombo(combo, 10)
	assert.Equal(t, 1, combo.Multiplier)
}

func TestDecayComboWindow(t *testing.T) {
	combo := newCombo()
	combo.Multiplier = 3
	combo.Peak = 3
	combo.KillChain = 8

	DecayCombo(combo, 0.9)
	assert.Equal(t, 3, combo.Multiplier)
	DecayCombo(combo, 0.2)
	assert.Equal(t, 2, combo.Multiplier)
	assert.Equal(t, NextComboThreshold(combo, 2)-2, combo.KillChain)

	// One step below the peak the window shrinks to 0.75s.
	DecayCombo(combo, 0.7)
	assert.Equal(t, 2, combo.Multiplier)
	DecayCombo(combo, 0.1)
	assert.Equal(t, 1, combo.Multiplier)
	assert.Equal(t, 0, combo.KillChain)
}

func TestAddPointsUsesMultiplier(t *testing.T) {
	combo := newCombo()
	combo.Multiplier = 3
	assert.Equal(t, 75, AddPoints(combo, 25))
	assert.Equal(t, 75, combo.Score)
	assert.Equal(t, 0, AddPoints(combo, 0))
	assert.Equal(t, 0, AddPoints(nil, 10))
}

func TestComboSystemEmitsScoreOnKill(t *testing.T) {
	w := ecs.NewWorld()
	player := newTestPlayer(t, w, cp.Vector{})

	delta, ok := awardKill(w, &component.Combat{MaxHealth: 20, Damage: 10})
	require.True(t, ok)
	assert.Equal(t, 220, delta)

	scores := drainEvents(w, EventScore)
	require.Len(t, scores, 1)
	assert.Equal(t, player, scores[0].Entity)
	assert.Equal(t, ScoreData{Delta: 220, Score: 220, Multiplier: 1}, scores[0].Data)
}
