package system

import (
	"math"

	"github.com/milk9111/gunrunner/common"
	"github.com/milk9111/gunrunner/ecs"
	"github.com/milk9111/gunrunner/ecs/component"
)

// NextComboThreshold is the kill chain needed to leave multiplier n.
func NextComboThreshold(combo *component.Combo, n int) int {
	start := 1
	if combo != nil && combo.StartKills > 0 {
		start = combo.StartKills
	}
	threshold := start - 1
	for i := 1; i <= n; i++ {
		threshold += i
	}
	return threshold
}

// RegisterKill extends the kill chain, bumps the multiplier when the chain
// crosses the next threshold and returns the score awarded for the kill.
func RegisterKill(combo *component.Combo, enemyMaxHealth, enemyDamage, playerMaxHealth float64) int {
	if combo == nil {
		return 0
	}
	if combo.Multiplier < 1 {
		combo.Multiplier = 1
	}

	combo.KillChain++
	combo.Timer = 0
	if combo.KillChain >= NextComboThreshold(combo, combo.Multiplier) {
		combo.Multiplier++
		combo.Peak = combo.Multiplier
	}

	base := enemyMaxHealth * enemyDamage
	if playerMaxHealth > 0 {
		base += enemyMaxHealth / playerMaxHealth * 100
	}
	delta := int(math.Round(base)) * combo.Multiplier
	combo.Score += delta
	return delta
}

// AddPoints awards points scaled by the current multiplier.
func AddPoints(combo *component.Combo, points int) int {
	if combo == nil || points <= 0 {
		return 0
	}
	delta := points * max(combo.Multiplier, 1)
	combo.Score += delta
	return delta
}

// DecayCombo drops the multiplier by one step once the decay window passes
// without a kill. The window shrinks the further the multiplier sits below
// its peak.
func DecayCombo(combo *component.Combo, dt float64) {
	if combo == nil || combo.Multiplier <= 1 {
		return
	}
	combo.Timer += dt

	window := common.Clamp(combo.DecayTime-0.25*float64(combo.Peak-combo.Multiplier), combo.DecayTime*0.25, combo.DecayTime)
	if combo.Timer < window {
		return
	}

	combo.Multiplier--
	combo.KillChain = 0
	if combo.Multiplier > 1 {
		combo.KillChain = max(NextComboThreshold(combo, combo.Multiplier)-combo.Multiplier, 0)
	}
	combo.Timer = 0
}

// ComboSystem decays the player's multiplier each tick.
type ComboSystem struct{}

func NewComboSystem() *ComboSystem {
	return &ComboSystem{}
}

func (s *ComboSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.Time().Delta
	ecs.ForEach(w, component.ComboComponent.Kind(), func(_ ecs.Entity, combo *component.Combo) {
		DecayCombo(combo, dt)
	})
}

// awardKill credits the player's combo for a defeated enemy.
func awardKill(w *ecs.World, enemy *component.Combat) (int, bool) {
	player, ok := ecs.First(w, component.PlayerTagComponent.Kind())
	if !ok {
		return 0, false
	}
	combo, ok := ecs.Get(w, player, component.ComboComponent.Kind())
	if !ok {
		return 0, false
	}
	playerMax := 0.0
	if pc, ok := ecs.Get(w, player, component.CombatComponent.Kind()); ok {
		playerMax = pc.MaxHealth
	}
	delta := RegisterKill(combo, enemy.MaxHealth, enemy.Damage, playerMax)
	emit(w, EventScore, player, ScoreData{Delta: delta, Score: combo.Score, Multiplier: combo.Multiplier})
	return delta, true
}

// awardPoints credits flat points to the player's combo.
func awardPoints(w *ecs.World, points int) int {
	player, ok := ecs.First(w, component.PlayerTagComponent.Kind())
	if !ok {
		return 0
	}
	combo, ok := ecs.Get(w, player, component.ComboComponent.Kind())
	if !ok {
		return 0
	}
	delta := AddPoints(combo, points)
	emit(w, EventScore, player, ScoreData{Delta: delta, Score: combo.Score, Multiplier: combo.Multiplier})
	return delta
}
