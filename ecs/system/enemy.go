package system

import (
	"log"
	"math/rand/v2"
	"strconv"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/gunrunner/ecs"
	"github.com/milk9111/gunrunner/ecs/component"
)

// MicrochipKind is the factory kind used for loot drops.
const MicrochipKind = "microchip"

const (
	chipScatterX = 3.0
	chipScatterY = 8.0
)

// EnemySystem drives every enemy's lifecycle machine: the spawn intro, the
// archetype behavior while active and the one-shot death.
type EnemySystem struct {
	probe   Probe
	factory ActorFactory
	scripts *ScriptBehavior
	rng     *rand.Rand
}

// NewEnemySystem wires the collaborators enemies use. factory may be nil, in
// which case no loot drops.
func NewEnemySystem(probe Probe, factory ActorFactory, scripts *ScriptBehavior, rng *rand.Rand) *EnemySystem {
	if probe == nil {
		probe = openGround{}
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &EnemySystem{probe: probe, factory: factory, scripts: scripts, rng: rng}
}

func (s *EnemySystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach(w, component.EnemyStateMachineComponent.Kind(), func(e ecs.Entity, sm *component.EnemyStateMachine) {
		ctx, ok := s.context(w, e, sm)
		if !ok {
			return
		}
		if sm.State == nil {
			sm.State = EnemySpawning
			if ctx.Enemy.Spawned {
				sm.State = EnemyActive
			}
			sm.State.Enter(ctx)
		}
		applyEnemyPending(sm, ctx)
		sm.State.Update(ctx)
		applyEnemyPending(sm, ctx)
	})
}

// Transition moves an enemy to state immediately, running Exit and Enter,
// and reports whether the enemy is now in state. Leaving the dying state is
// not possible.
func (s *EnemySystem) Transition(w *ecs.World, e ecs.Entity, state component.EnemyState) bool {
	sm, ok := ecs.Get(w, e, component.EnemyStateMachineComponent.Kind())
	if !ok || state == nil {
		return false
	}
	ctx, ok := s.context(w, e, sm)
	if !ok {
		return false
	}
	if sm.State == nil {
		sm.State = state
		state.Enter(ctx)
		return true
	}
	sm.Pending = state
	applyEnemyPending(sm, ctx)
	return sm.State == state
}

// Kill destroys an enemy outright, scoring it without loot. Enemies immune to
// instant kills and enemies already dying are left alone.
func (s *EnemySystem) Kill(w *ecs.World, e ecs.Entity) bool {
	enemy, ok := ecs.Get(w, e, component.EnemyComponent.Kind())
	if !ok || enemy.ImmuneToInstantKill {
		return false
	}
	combat, ok := ecs.Get(w, e, component.CombatComponent.Kind())
	if !ok || combat.Dying {
		return false
	}
	combat.Health = 0
	combat.Dying = true
	enemy.InstantKilled = true
	emit(w, EventDeath, e, nil)
	if !s.Transition(w, e, EnemyDying) {
		removeDeadEnemy(w, e, combat)
	}
	return true
}

// removeDeadEnemy retires an enemy that has no state machine to run its
// dying state. The kill still scores.
func removeDeadEnemy(w *ecs.World, e ecs.Entity, combat *component.Combat) {
	if ecs.Has(w, e, component.PendingRemovalComponent.Kind()) {
		return
	}
	_ = ecs.Add(w, e, component.PendingRemovalComponent.Kind(), &component.PendingRemoval{})
	awardKill(w, combat)
}

func applyEnemyPending(sm *component.EnemyStateMachine, ctx *component.EnemyStateContext) {
	if sm.Pending == nil {
		return
	}
	next := sm.Pending
	sm.Pending = nil
	if next == sm.State || sm.State == EnemyDying {
		return
	}
	if sm.State != nil {
		sm.State.Exit(ctx)
	}
	sm.State = next
	sm.State.Enter(ctx)
}

func (s *EnemySystem) context(w *ecs.World, e ecs.Entity, sm *component.EnemyStateMachine) (*component.EnemyStateContext, bool) {
	enemy, ok1 := ecs.Get(w, e, component.EnemyComponent.Kind())
	body, ok2 := ecs.Get(w, e, component.BodyComponent.Kind())
	motion, ok3 := ecs.Get(w, e, component.MotionComponent.Kind())
	combat, ok4 := ecs.Get(w, e, component.CombatComponent.Kind())
	intent, ok5 := ecs.Get(w, e, component.IntentComponent.Kind())
	if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 {
		return nil, false
	}

	ctx := &component.EnemyStateContext{
		Enemy:  enemy,
		Body:   body,
		Motion: motion,
		Combat: combat,
		Intent: intent,
		DT:     w.Time().Delta,
	}
	if player, ok := ecs.First(w, component.PlayerTagComponent.Kind()); ok {
		pb, okB := ecs.Get(w, player, component.BodyComponent.Kind())
		pc, okC := ecs.Get(w, player, component.CombatComponent.Kind())
		if okB && (!okC || !pc.Dying) {
			ctx.PlayerFound = true
			ctx.PlayerPos = pb.Position
		}
	}

	ctx.Probe = s.probe.Query
	ctx.Tint = func(spawning bool) {
		emit(w, EventSpawnTint, e, spawning)
	}
	ctx.Launch = func(vy float64) {
		body.Velocity.Y = vy
		body.Override = true
	}
	ctx.Attack = func() {
		if !ctx.PlayerFound {
			return
		}
		dir := ctx.PlayerPos.Sub(body.Position)
		spawnProjectile(w, e, body.Position, dir, enemy.Behavior.Shot, true)
		emit(w, EventProjectileFired, e, ProjectileFiredData{Owner: e})
	}
	ctx.Script = func() (component.ScriptDecision, bool) {
		if s.scripts == nil {
			return component.ScriptDecision{}, false
		}
		return s.scripts.Decide(e, w.Time().Now, ctx)
	}
	ctx.Die = func() {
		s.die(w, e, enemy, body, combat)
	}
	ctx.Cue = func(name string) {
		emit(w, EventStateCue, e, name)
	}
	ctx.ChangeState = func(state component.EnemyState) {
		sm.Pending = state
	}
	return ctx, true
}

func (s *EnemySystem) die(w *ecs.World, e ecs.Entity, enemy *component.Enemy, body *component.Body, combat *component.Combat) {
	_ = ecs.Add(w, e, component.PendingRemovalComponent.Kind(), &component.PendingRemoval{})
	if s.scripts != nil {
		s.scripts.Forget(e)
	}

	if delta, ok := awardKill(w, combat); ok {
		emit(w, EventPopup, e, PopupData{Position: body.Position, Text: strconv.Itoa(delta)})
	}
	if !enemy.InstantKilled {
		s.dropLoot(w, enemy.Loot, body.Position)
	}
}

func (s *EnemySystem) dropLoot(w *ecs.World, loot component.Loot, origin cp.Vector) {
	if s.factory == nil || loot.Max <= 0 {
		return
	}
	if s.rng.Float64()*100 >= loot.Chance {
		return
	}

	count := rollRange(s.rng, loot.Min, loot.Max)
	for range count {
		size := component.ChipSize(rollRange(s.rng, int(loot.Smallest), int(loot.Biggest)))
		chip, err := s.factory.Spawn(w, MicrochipKind, origin)
		if err != nil {
			log.Printf("[enemy] microchip spawn failed: %v", err)
			return
		}
		if mc, ok := ecs.Get(w, chip, component.MicrochipComponent.Kind()); ok {
			mc.Size = size
		} else {
			_ = ecs.Add(w, chip, component.MicrochipComponent.Kind(), &component.Microchip{Size: size})
		}
		if cb, ok := ecs.Get(w, chip, component.BodyComponent.Kind()); ok {
			cb.Velocity = cp.Vector{
				X: (s.rng.Float64()*2 - 1) * chipScatterX,
				Y: chipScatterY * (0.5 + 0.5*s.rng.Float64()),
			}
			cb.Override = true
		}
		emit(w, EventMicrochipDropped, chip, size)
	}
}

// rollRange samples an integer uniformly from [lo, hi].
func rollRange(rng *rand.Rand, lo, hi int) int {
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo + rng.IntN(hi-lo+1)
}
