package system

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/gunrunner/common"
	"github.com/milk9111/gunrunner/ecs/component"
)

// Enemy state singletons.
var (
	EnemySpawning component.EnemyState = &enemySpawningState{}
	EnemyActive   component.EnemyState = &enemyActiveState{}
	EnemyDying    component.EnemyState = &enemyDyingState{}
)

const probeReach = 0.1

type enemySpawningState struct{}

type enemyActiveState struct{}

type enemyDyingState struct{}

func (enemySpawningState) Name() string { return "spawning" }
func (enemySpawningState) Enter(ctx *component.EnemyStateContext) {
	e := ctx.Enemy
	ctx.Combat.Invincible = true
	ctx.Combat.IgnoreProjectiles = true
	ctx.Body.Mask = e.SpawnMask
	if e.Direction == 0 {
		e.Direction = common.Sign(e.Entry.X - ctx.Body.Position.X)
		if e.Direction == 0 {
			e.Direction = -1
		}
	}
	ctx.Body.Facing = e.Direction
	ctx.Tint(true)
	ctx.Cue("spawning")
}
func (enemySpawningState) Exit(ctx *component.EnemyStateContext) {
	ctx.Tint(false)
}
func (enemySpawningState) Update(ctx *component.EnemyStateContext) {
	e := ctx.Enemy
	// every archetype keeps to the platform while entering
	if ctx.Body.Grounded && !ctx.Probe(ledgePoint(ctx.Body, e.Direction), ctx.Body.Mask) {
		flipEnemy(ctx)
	}
	steerEnemy(ctx, e.Direction)

	if math.Abs(ctx.Body.Position.X-e.Entry.X) > e.SpawnEntryRange {
		return
	}
	ctx.Launch(common.LaunchSpeed(e.Entry.Y-ctx.Body.Position.Y+e.SpawnJumpHeight, ctx.Motion.Gravity))
	ctx.Body.Mask = e.DefaultMask
	ctx.Combat.Invincible = false
	ctx.Combat.IgnoreProjectiles = false
	e.Spawned = true
	ctx.ChangeState(EnemyActive)
}

func (enemyActiveState) Name() string { return "active" }
func (enemyActiveState) Enter(ctx *component.EnemyStateContext) {
	ctx.Cue("active")
}
func (enemyActiveState) Exit(ctx *component.EnemyStateContext) {}
func (enemyActiveState) Update(ctx *component.EnemyStateContext) {
	e := ctx.Enemy
	if e.CheckLedge && ctx.Body.Grounded && !ctx.Probe(ledgePoint(ctx.Body, e.Direction), ctx.Body.Mask) {
		flipEnemy(ctx)
	} else if e.CheckFront && ctx.Probe(frontPoint(ctx.Body, e.Direction), ctx.Body.Mask) {
		flipEnemy(ctx)
	}
	e.AttackTimer += ctx.DT
	runBehavior(ctx)
}

func (enemyDyingState) Name() string { return "dying" }
func (enemyDyingState) Enter(ctx *component.EnemyStateContext) {
	*ctx.Intent = component.Intent{}
	ctx.Cue("dying")
	ctx.Die()
}
func (enemyDyingState) Exit(ctx *component.EnemyStateContext) {}
func (enemyDyingState) Update(ctx *component.EnemyStateContext) {
	*ctx.Intent = component.Intent{}
}

func frontPoint(body *component.Body, dir float64) cp.Vector {
	return cp.Vector{X: body.Position.X + dir*(body.Size.X/2+probeReach), Y: body.Position.Y}
}

func ledgePoint(body *component.Body, dir float64) cp.Vector {
	return cp.Vector{
		X: body.Position.X + dir*(body.Size.X/2+probeReach),
		Y: body.Position.Y - body.Size.Y/2 - probeReach,
	}
}

func flipEnemy(ctx *component.EnemyStateContext) {
	ctx.Enemy.Direction = -ctx.Enemy.Direction
	ctx.Body.Facing = ctx.Enemy.Direction
}

// steerEnemy writes the horizontal intent, honoring DisableMovement.
func steerEnemy(ctx *component.EnemyStateContext, move float64) {
	if move != 0 {
		ctx.Body.Facing = common.Sign(move)
	}
	if ctx.Enemy.DisableMovement {
		move = 0
	}
	ctx.Intent.MoveX = common.Clamp(move, -1, 1)
}
