package component

// PlayerState defines the interface for player state machine states.
// Each state owns its own enter/exit and per-tick logic, including the
// transitions out of it.
type PlayerState interface {
	Name() string
	Enter(ctx *PlayerStateContext)
	Exit(ctx *PlayerStateContext)
	Update(ctx *PlayerStateContext)
}

// PlayerStateContext provides controlled access to intent and physics for a
// state. It uses callbacks to avoid tight coupling to the ECS package.
type PlayerStateContext struct {
	Intent *Intent
	Player *Player
	Body   *Body
	GoTo   *GoToPoint

	// Running is the resolved run intent for this tick.
	Running bool

	ChangeState func(state PlayerState)
	FinishGoTo  func()
	Cue         func(name string)
}

// PlayerStateMachine stores the active and pending states for the player.
type PlayerStateMachine struct {
	State   PlayerState
	Pending PlayerState
}

var PlayerStateMachineComponent = NewComponent[PlayerStateMachine]()
