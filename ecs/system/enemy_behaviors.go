package system

import (
	"math"

	"github.com/milk9111/gunrunner/common"
	"github.com/milk9111/gunrunner/ecs/component"
)

type behaviorFunc func(ctx *component.EnemyStateContext)

var enemyBehaviors = map[component.BehaviorKind]behaviorFunc{
	component.BehaviorWalker:   walkerBehavior,
	component.BehaviorJumper:   jumperBehavior,
	component.BehaviorShooter:  shooterBehavior,
	component.BehaviorScripted: scriptedBehavior,
}

// runBehavior dispatches on the archetype's behavior kind. Unknown kinds walk.
func runBehavior(ctx *component.EnemyStateContext) {
	fn, ok := enemyBehaviors[ctx.Enemy.Behavior.Kind]
	if !ok {
		fn = walkerBehavior
	}
	fn(ctx)
}

func attackReady(ctx *component.EnemyStateContext) bool {
	b := ctx.Enemy.Behavior
	return b.AttackInterval > 0 && ctx.Enemy.AttackTimer >= b.AttackInterval
}

func playerInRange(ctx *component.EnemyStateContext) bool {
	r := ctx.Enemy.Behavior.AttackRange
	return ctx.PlayerFound && r > 0 && math.Abs(ctx.PlayerPos.X-ctx.Body.Position.X) <= r
}

func walkerBehavior(ctx *component.EnemyStateContext) {
	steerEnemy(ctx, ctx.Enemy.Direction)
}

// jumperBehavior patrols and hops toward the player when they come in range.
func jumperBehavior(ctx *component.EnemyStateContext) {
	e := ctx.Enemy
	if ctx.Body.Grounded && playerInRange(ctx) && attackReady(ctx) {
		if dir := common.Sign(ctx.PlayerPos.X - ctx.Body.Position.X); dir != 0 {
			e.Direction = dir
		}
		ctx.Launch(common.LaunchSpeed(e.Behavior.JumpHeight, ctx.Motion.Gravity))
		e.AttackTimer = 0
	}
	steerEnemy(ctx, e.Direction)
}

// shooterBehavior patrols until the player is in range, then holds position
// and fires on its attack interval.
func shooterBehavior(ctx *component.EnemyStateContext) {
	e := ctx.Enemy
	if !playerInRange(ctx) {
		steerEnemy(ctx, e.Direction)
		return
	}
	if dir := common.Sign(ctx.PlayerPos.X - ctx.Body.Position.X); dir != 0 {
		ctx.Body.Facing = dir
	}
	ctx.Intent.MoveX = 0
	if attackReady(ctx) {
		ctx.Attack()
		e.AttackTimer = 0
	}
}

func scriptedBehavior(ctx *component.EnemyStateContext) {
	d, ok := ctx.Script()
	if !ok {
		walkerBehavior(ctx)
		return
	}
	e := ctx.Enemy
	move := common.Clamp(d.Move, -1, 1)
	if move != 0 {
		e.Direction = common.Sign(move)
	}
	steerEnemy(ctx, move)
	if d.Jump && ctx.Body.Grounded {
		ctx.Launch(common.LaunchSpeed(e.Behavior.JumpHeight, ctx.Motion.Gravity))
	}
	if d.Attack && attackReady(ctx) {
		ctx.Attack()
		e.AttackTimer = 0
	}
}
