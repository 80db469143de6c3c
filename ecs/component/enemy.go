package component

import "github.com/jakecoffman/cp"

type Difficulty string

const (
	DifficultyEasy      Difficulty = "easy"
	DifficultyNormal    Difficulty = "normal"
	DifficultyDifficult Difficulty = "difficult"
	DifficultyBrutal    Difficulty = "brutal"
	DifficultyInsane    Difficulty = "insane"
	DifficultyBoss      Difficulty = "boss"
)

// BehaviorKind selects the Active-state behavior of an enemy archetype.
type BehaviorKind string

const (
	BehaviorWalker   BehaviorKind = "walker"
	BehaviorJumper   BehaviorKind = "jumper"
	BehaviorShooter  BehaviorKind = "shooter"
	BehaviorScripted BehaviorKind = "scripted"
)

// Behavior is the tagged variant an archetype is built from. Only the fields
// of the selected Kind are read.
type Behavior struct {
	Kind BehaviorKind

	AttackRange    float64
	AttackInterval float64

	// jumper
	JumpHeight float64

	// shooter
	Shot ProjectileSpec

	// scripted
	Script string
}

// Enemy carries the archetype tuning and the spawn/patrol runtime of an enemy.
type Enemy struct {
	Archetype  string
	Difficulty Difficulty
	MoveSpeed  float64

	SpawnEntryRange float64
	SpawnJumpHeight float64
	SpawnMask       uint
	DefaultMask     uint
	Entry           cp.Vector
	Spawned         bool

	// Direction is the patrol direction flag, +1 or -1.
	Direction       float64
	DisableMovement bool
	CheckFront      bool
	CheckLedge      bool

	ImmuneToInstantKill bool
	FlashLength         float64
	AttackTimer         float64

	// InstantKilled marks a death by Kill, which drops no loot.
	InstantKilled bool

	Loot     Loot
	Behavior Behavior
}

var EnemyComponent = NewComponent[Enemy]()

// EnemyState is one node of the enemy lifecycle machine.
type EnemyState interface {
	Name() string
	Enter(ctx *EnemyStateContext)
	Exit(ctx *EnemyStateContext)
	Update(ctx *EnemyStateContext)
}

// EnemyStateContext gives a state access to the enemy's components and the
// collaborators it may call during its tick slot.
type EnemyStateContext struct {
	Enemy  *Enemy
	Body   *Body
	Motion *Motion
	Combat *Combat
	Intent *Intent
	DT     float64

	// PlayerFound is false when no live player exists.
	PlayerFound bool
	PlayerPos   cp.Vector

	Probe       func(point cp.Vector, mask uint) bool
	Tint        func(spawning bool)
	Launch      func(vy float64)
	Attack      func()
	Script      func() (ScriptDecision, bool)
	Die         func()
	Cue         func(name string)
	ChangeState func(state EnemyState)
}

// ScriptDecision is what a scripted behavior returns for one tick.
type ScriptDecision struct {
	Move   float64
	Jump   bool
	Attack bool
}

// EnemyStateMachine stores the active and pending states for an enemy.
type EnemyStateMachine struct {
	State   EnemyState
	Pending EnemyState
}

var EnemyStateMachineComponent = NewComponent[EnemyStateMachine]()
