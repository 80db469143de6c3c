package component

import "github.com/jakecoffman/cp"

// Body is the kinematic state of an actor. Position is the body center in
// world space with y pointing up. Facing is +1 (right) or -1 (left).
type Body struct {
	Position cp.Vector
	Velocity cp.Vector
	Size     cp.Vector
	Facing   float64
	Grounded bool

	// Mask selects which collision categories the mover and probes consider.
	Mask uint

	// Override is set when Velocity was written directly this tick (knockback,
	// jump launch). The next integration moves by Velocity as-is, skipping the
	// damping blend and gravity once.
	Override bool
}

var BodyComponent = NewComponent[Body]()

// Motion holds the tuning the kinematic integrator blends toward.
type Motion struct {
	Gravity         float64
	GroundDamping   float64
	InAirDamping    float64
	TargetSpeed     float64
	SpeedMultiplier float64
}

var MotionComponent = NewComponent[Motion]()
