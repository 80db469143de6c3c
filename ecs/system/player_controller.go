package system

import (
	"github.com/milk9111/gunrunner/common"
	"github.com/milk9111/gunrunner/ecs"
	"github.com/milk9111/gunrunner/ecs/component"
)

const defaultGoToTolerance = 0.1

// PlayerControllerSystem turns the player's intent into locomotion: state
// transitions, facing, the run escalation, jumps and the speed the kinematic
// integrator blends toward.
type PlayerControllerSystem struct{}

func NewPlayerControllerSystem() *PlayerControllerSystem {
	return &PlayerControllerSystem{}
}

func (p *PlayerControllerSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.Time().Delta

	entities := w.Query(
		component.PlayerTagComponent.Kind(),
		component.PlayerComponent.Kind(),
		component.IntentComponent.Kind(),
		component.BodyComponent.Kind(),
		component.MotionComponent.Kind(),
		component.PlayerStateMachineComponent.Kind(),
	)
	for _, e := range entities {
		player, _ := ecs.Get(w, e, component.PlayerComponent.Kind())
		intent, _ := ecs.Get(w, e, component.IntentComponent.Kind())
		body, _ := ecs.Get(w, e, component.BodyComponent.Kind())
		motion, _ := ecs.Get(w, e, component.MotionComponent.Kind())
		sm, _ := ecs.Get(w, e, component.PlayerStateMachineComponent.Kind())

		if combat, ok := ecs.Get(w, e, component.CombatComponent.Kind()); ok && combat.Dying {
			player.InputDisabled = true
			*intent = component.Intent{}
			continue
		}

		motion.SpeedMultiplier = tickSpeedBoost(w, e, dt)

		goTo, hasGoTo := ecs.Get(w, e, component.GoToPointComponent.Kind())
		if player.InputDisabled || hasGoTo {
			*intent = component.Intent{}
		}

		ctx := &component.PlayerStateContext{
			Intent:  intent,
			Player:  player,
			Body:    body,
			Running: isRunning(player, intent),
		}
		if hasGoTo {
			ctx.GoTo = goTo
		}
		ctx.ChangeState = func(state component.PlayerState) {
			sm.Pending = state
		}
		ctx.Cue = func(name string) {
			emit(w, EventStateCue, e, name)
		}
		ctx.FinishGoTo = func() {
			finishGoTo(w, e, ctx)
		}

		if sm.State == nil {
			sm.State = PlayerIdle
			sm.State.Enter(ctx)
		}
		if hasGoTo && sm.State != PlayerGoToPoint {
			sm.Pending = PlayerGoToPoint
		}
		applyPlayerPending(sm, ctx)
		sm.State.Update(ctx)
		applyPlayerPending(sm, ctx)

		face(player, body, intent)
		run := isRunning(player, intent)
		trackRun(player, run, dt)

		if intent.Jump && body.Grounded {
			body.Velocity.Y = common.LaunchSpeed(player.JumpHeight, motion.Gravity)
			body.Override = true
		}

		motion.TargetSpeed = targetSpeed(player, run, ctx.GoTo != nil)
	}
}

func applyPlayerPending(sm *component.PlayerStateMachine, ctx *component.PlayerStateContext) {
	if sm.Pending == nil {
		return
	}
	next := sm.Pending
	sm.Pending = nil
	if next == sm.State {
		return
	}
	if sm.State != nil {
		sm.State.Exit(ctx)
	}
	sm.State = next
	sm.State.Enter(ctx)
}

func isRunning(player *component.Player, intent *component.Intent) bool {
	return (intent.Run && intent.MoveX != 0) || player.ContinuousRun
}

// face turns the body toward the aim while firing, otherwise toward the
// movement. Turning around cancels the run escalation.
func face(player *component.Player, body *component.Body, intent *component.Intent) {
	dir := 0.0
	if (intent.Fire || intent.Secondary) && intent.AimX != 0 {
		dir = common.Sign(intent.AimX)
	} else if intent.MoveX != 0 {
		dir = common.Sign(intent.MoveX)
	}
	if dir == 0 || dir == body.Facing {
		return
	}
	body.Facing = dir
	if player.RunTimer > 0 {
		player.RunTimer = 0
		player.RunFull = false
	}
}

func trackRun(player *component.Player, run bool, dt float64) {
	if run {
		player.RunTimer += dt
		if player.RunTimer >= player.RunFullTime || player.ContinuousRun {
			player.RunFull = true
		}
		return
	}
	if player.RunTimer > 0 {
		player.RunTimer = 0
		player.RunFull = false
	}
}

func targetSpeed(player *component.Player, run, goingTo bool) float64 {
	switch {
	case !run:
		return player.WalkSpeed
	case !player.RunFull:
		return player.RunSpeed
	case player.ContinuousRun && !goingTo:
		return player.ContinuousRunSpeed
	default:
		return player.RunFullSpeed
	}
}

// tickSpeedBoost counts down an active boost and returns the multiplier to
// use this tick.
func tickSpeedBoost(w *ecs.World, e ecs.Entity, dt float64) float64 {
	boost, ok := ecs.Get(w, e, component.SpeedBoostComponent.Kind())
	if !ok {
		return 1
	}
	boost.Remaining -= dt
	if boost.Remaining <= 0 || boost.Multiplier <= 0 {
		ecs.Remove(w, e, component.SpeedBoostComponent.Kind())
		return 1
	}
	return boost.Multiplier
}

func finishGoTo(w *ecs.World, e ecs.Entity, ctx *component.PlayerStateContext) {
	g := ctx.GoTo
	ctx.GoTo = nil
	*ctx.Intent = component.Intent{}
	if g != nil {
		if !g.Inertia {
			ctx.Body.Velocity.X = 0
		}
		if g.ReEnable {
			ctx.Player.InputDisabled = false
		}
	}
	ecs.Remove(w, e, component.GoToPointComponent.Kind())
	ctx.ChangeState(locomotionState(ctx))
}

// GoToPoint makes the player walk to targetX with input disabled. reEnable
// hands control back on arrival; inertia keeps the walking speed on arrival.
func GoToPoint(w *ecs.World, player ecs.Entity, targetX float64, reEnable, inertia bool) error {
	p, ok := ecs.Get(w, player, component.PlayerComponent.Kind())
	if !ok {
		return component.ErrEntityNotAlive
	}
	p.InputDisabled = true
	return ecs.Add(w, player, component.GoToPointComponent.Kind(), &component.GoToPoint{
		TargetX:  targetX,
		ReEnable: reEnable,
		Inertia:  inertia,
	})
}

// CancelGoTo ends a scripted walk on the next tick.
func CancelGoTo(w *ecs.World, player ecs.Entity) {
	if g, ok := ecs.Get(w, player, component.GoToPointComponent.Kind()); ok {
		g.Cancelled = true
	}
}

// SetInputEnabled toggles player control. Pending intent is discarded.
func SetInputEnabled(w *ecs.World, player ecs.Entity, enabled bool) {
	if p, ok := ecs.Get(w, player, component.PlayerComponent.Kind()); ok {
		p.InputDisabled = !enabled
	}
	if in, ok := ecs.Get(w, player, component.IntentComponent.Kind()); ok {
		*in = component.Intent{}
	}
}
