package component

// Player holds locomotion tuning and run bookkeeping for the player actor.
type Player struct {
	WalkSpeed          float64
	RunSpeed           float64
	RunFullSpeed       float64
	RunFullTime        float64
	ContinuousRunSpeed float64
	JumpHeight         float64
	GoToTolerance      float64

	RunTimer      float64
	RunFull       bool
	ContinuousRun bool
	InputDisabled bool
}

var PlayerComponent = NewComponent[Player]()

// GoToPoint is the scripted-walk interrupt. While present, ordinary intent is
// ignored and the player walks toward TargetX.
type GoToPoint struct {
	TargetX float64
	// ReEnable hands input back once the point is reached.
	ReEnable bool
	// Inertia keeps horizontal velocity when stopping.
	Inertia bool
	// Cancelled stops the walk on the next tick.
	Cancelled bool
	// Dir is the committed walk direction. Passing the target ends the walk.
	Dir float64
}

var GoToPointComponent = NewComponent[GoToPoint]()

// SpeedBoost scales the player's target speed until Remaining runs out.
type SpeedBoost struct {
	Multiplier float64
	Remaining  float64
}

var SpeedBoostComponent = NewComponent[SpeedBoost]()
