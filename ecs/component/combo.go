package component

// Combo is the player's kill-chain score state, one per run.
type Combo struct {
	StartKills int
	DecayTime  float64

	Multiplier int
	KillChain  int
	Timer      float64
	Peak       int
	Score      int
}

var ComboComponent = NewComponent[Combo]()
