package component

type PowerupKind string

const (
	PowerupHealth     PowerupKind = "health"
	PowerupSpeedBoost PowerupKind = "speed_boost"
)

// Powerup is a pickup spawned by the encounter director. Amount is the
// already-rolled heal for health pickups.
type Powerup struct {
	Kind       PowerupKind
	Amount     float64
	Multiplier float64
	Duration   float64
}

var PowerupComponent = NewComponent[Powerup]()
