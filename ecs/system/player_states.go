package system

import (
	"math"

	"github.com/milk9111/gunrunner/common"
	"github.com/milk9111/gunrunner/ecs/component"
)

// Player state singletons (avoid allocations on transitions).
var (
	PlayerIdle      component.PlayerState = &playerIdleState{}
	PlayerWalk      component.PlayerState = &playerWalkState{}
	PlayerRun       component.PlayerState = &playerRunState{}
	PlayerAirborne  component.PlayerState = &playerAirborneState{}
	PlayerGoToPoint component.PlayerState = &playerGoToPointState{}
)

type playerIdleState struct{}

type playerWalkState struct{}

type playerRunState struct{}

type playerAirborneState struct{}

type playerGoToPointState struct{}

// locomotionState picks the continuous-motion state matching this tick.
func locomotionState(ctx *component.PlayerStateContext) component.PlayerState {
	switch {
	case !ctx.Body.Grounded:
		return PlayerAirborne
	case ctx.Intent.MoveX == 0:
		return PlayerIdle
	case ctx.Running:
		return PlayerRun
	default:
		return PlayerWalk
	}
}

func followLocomotion(ctx *component.PlayerStateContext, current component.PlayerState) {
	if next := locomotionState(ctx); next != current {
		ctx.ChangeState(next)
	}
}

func (playerIdleState) Name() string { return "idle" }
func (playerIdleState) Enter(ctx *component.PlayerStateContext) {
	ctx.Cue("idle")
}
func (playerIdleState) Exit(ctx *component.PlayerStateContext) {}
func (s *playerIdleState) Update(ctx *component.PlayerStateContext) {
	followLocomotion(ctx, s)
}

func (playerWalkState) Name() string { return "walk" }
func (playerWalkState) Enter(ctx *component.PlayerStateContext) {
	ctx.Cue("walk")
}
func (playerWalkState) Exit(ctx *component.PlayerStateContext) {}
func (s *playerWalkState) Update(ctx *component.PlayerStateContext) {
	followLocomotion(ctx, s)
}

func (playerRunState) Name() string { return "run" }
func (playerRunState) Enter(ctx *component.PlayerStateContext) {
	ctx.Cue("run")
}
func (playerRunState) Exit(ctx *component.PlayerStateContext) {}
func (s *playerRunState) Update(ctx *component.PlayerStateContext) {
	followLocomotion(ctx, s)
}

func (playerAirborneState) Name() string { return "airborne" }
func (playerAirborneState) Enter(ctx *component.PlayerStateContext) {
	ctx.Cue("airborne")
}
func (playerAirborneState) Exit(ctx *component.PlayerStateContext) {
	ctx.Cue("land")
}
func (s *playerAirborneState) Update(ctx *component.PlayerStateContext) {
	followLocomotion(ctx, s)
}

// The go-to state steers toward the target and ends once the player is
// within tolerance or has walked past it.
func (playerGoToPointState) Name() string { return "go_to_point" }
func (playerGoToPointState) Enter(ctx *component.PlayerStateContext) {
	ctx.Cue("go_to_point")
}
func (playerGoToPointState) Exit(ctx *component.PlayerStateContext) {}
func (playerGoToPointState) Update(ctx *component.PlayerStateContext) {
	g := ctx.GoTo
	if g == nil || g.Cancelled {
		ctx.FinishGoTo()
		return
	}

	tolerance := ctx.Player.GoToTolerance
	if tolerance <= 0 {
		tolerance = defaultGoToTolerance
	}
	dx := g.TargetX - ctx.Body.Position.X
	if g.Dir == 0 {
		g.Dir = common.Sign(dx)
	}
	if math.Abs(dx) <= tolerance || common.Sign(dx) != g.Dir {
		ctx.FinishGoTo()
		return
	}
	ctx.Intent.MoveX = g.Dir
}
