package system

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/gunrunner/common"
	"github.com/milk9111/gunrunner/ecs"
	"github.com/milk9111/gunrunner/ecs/component"
	"github.com/stretchr/testify/require"
)

func testRNG() *rand.Rand {
	return rand.New(rand.NewPCG(12345, 67890))
}

// advance moves the world clock forward by n ticks of dt without running
// any system.
func advance(w *ecs.World, n int, dt float64) {
	s := ecs.NewScheduler()
	for range n {
		s.Step(w, dt)
	}
}

func add[T any](t *testing.T, w *ecs.World, e ecs.Entity, kind component.ComponentKind[T], v *T) {
	t.Helper()
	require.NoError(t, ecs.Add(w, e, kind, v))
}

func newTestPlayer(t *testing.T, w *ecs.World, pos cp.Vector) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	add(t, w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{})
	add(t, w, e, component.BodyComponent.Kind(), &component.Body{
		Position: pos,
		Size:     cp.Vector{X: 1, Y: 2},
		Facing:   1,
		Grounded: true,
		Mask:     common.MaskDefault,
	})
	add(t, w, e, component.MotionComponent.Kind(), &component.Motion{
		Gravity:         common.Gravity,
		GroundDamping:   common.GroundDamping,
		InAirDamping:    common.InAirDamping,
		SpeedMultiplier: 1,
	})
	add(t, w, e, component.CombatComponent.Kind(), &component.Combat{
		MaxHealth:           100,
		Health:              100,
		Damage:              10,
		InvincibilityPeriod: 1,
	})
	add(t, w, e, component.PlayerComponent.Kind(), &component.Player{
		WalkSpeed:          10,
		RunSpeed:           17.5,
		RunFullSpeed:       20,
		RunFullTime:        1.5,
		ContinuousRunSpeed: 12,
		JumpHeight:         5,
	})
	add(t, w, e, component.ComboComponent.Kind(), &component.Combo{StartKills: 3, DecayTime: 1, Multiplier: 1, Peak: 1})
	add(t, w, e, component.IntentComponent.Kind(), &component.Intent{})
	add(t, w, e, component.PlayerStateMachineComponent.Kind(), &component.PlayerStateMachine{})
	return e
}

func newTestEnemy(t *testing.T, w *ecs.World, pos cp.Vector, enemy component.Enemy) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	add(t, w, e, component.EnemyTagComponent.Kind(), &component.EnemyTag{})
	add(t, w, e, component.BodyComponent.Kind(), &component.Body{
		Position: pos,
		Size:     cp.Vector{X: 1, Y: 1},
		Facing:   -1,
		Grounded: true,
		Mask:     common.MaskDefault,
	})
	add(t, w, e, component.MotionComponent.Kind(), &component.Motion{
		Gravity:         common.Gravity,
		GroundDamping:   common.GroundDamping,
		InAirDamping:    common.InAirDamping,
		TargetSpeed:     5,
		SpeedMultiplier: 1,
	})
	add(t, w, e, component.CombatComponent.Kind(), &component.Combat{MaxHealth: 20, Health: 20, Damage: 10, Knockback: 1})
	if enemy.SpawnMask == 0 {
		enemy.SpawnMask = common.MaskSpawn
	}
	if enemy.DefaultMask == 0 {
		enemy.DefaultMask = common.MaskDefault
	}
	add(t, w, e, component.EnemyComponent.Kind(), &enemy)
	add(t, w, e, component.IntentComponent.Kind(), &component.Intent{})
	add(t, w, e, component.EnemyStateMachineComponent.Kind(), &component.EnemyStateMachine{})
	return e
}

// stubProbe reports solid geometry wherever solid returns true.
type stubProbe struct {
	solid func(p cp.Vector) bool
}

func (s stubProbe) Query(p cp.Vector, _ uint) bool {
	if s.solid == nil {
		return false
	}
	return s.solid(p)
}

// floorAt is a probe whose ground fills everything below y.
func floorAt(y float64) stubProbe {
	return stubProbe{solid: func(p cp.Vector) bool { return p.Y < y }}
}

type spawnCall struct {
	Kind     string
	Position cp.Vector
	Entity   ecs.Entity
}

// recordingFactory builds minimal actors and remembers every spawn.
type recordingFactory struct {
	t     *testing.T
	calls []spawnCall
	fail  map[string]bool
}

func (f *recordingFactory) Spawn(w *ecs.World, kind string, pos cp.Vector) (ecs.Entity, error) {
	if f.fail[kind] {
		return 0, fmt.Errorf("no prefab %q", kind)
	}
	e := ecs.CreateEntity(w)
	body := &component.Body{Position: pos, Size: cp.Vector{X: 1, Y: 1}, Facing: -1, Mask: common.MaskDefault}
	if err := ecs.Add(w, e, component.BodyComponent.Kind(), body); err != nil {
		return 0, err
	}
	switch kind {
	case MicrochipKind:
		_ = ecs.Add(w, e, component.MicrochipComponent.Kind(), &component.Microchip{})
	case "health", "speed_boost":
		_ = ecs.Add(w, e, component.PowerupComponent.Kind(), &component.Powerup{Kind: component.PowerupKind(kind)})
	default:
		_ = ecs.Add(w, e, component.EnemyTagComponent.Kind(), &component.EnemyTag{})
		_ = ecs.Add(w, e, component.EnemyComponent.Kind(), &component.Enemy{Archetype: kind})
		_ = ecs.Add(w, e, component.CombatComponent.Kind(), &component.Combat{MaxHealth: 10, Health: 10})
	}
	f.calls = append(f.calls, spawnCall{Kind: kind, Position: pos, Entity: e})
	return e, nil
}

func (f *recordingFactory) count(kind string) int {
	n := 0
	for _, c := range f.calls {
		if c.Kind == kind {
			n++
		}
	}
	return n
}

func drainEvents(w *ecs.World, typ ecs.EventType) []ecs.Event {
	var out []ecs.Event
	for _, evt := range w.Events().Drain() {
		if evt.Type == typ {
			out = append(out, evt)
		}
	}
	return out
}
