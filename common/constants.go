package common

// Tuning shared by the prefab defaults and the debug runner.
const (
	TPS      = 60
	TickRate = 1.0 / TPS

	Gravity       = -35.0
	GroundDamping = 10.0
	InAirDamping  = 5.0

	// PixelsPerUnit maps world units to screen pixels in the debug runner.
	PixelsPerUnit = 16.0
)

// Collision categories. Bodies select what they collide with through Mask.
const (
	CategoryGround uint = 1 << iota
	CategorySpawnPlatform
	CategoryWall

	MaskDefault = CategoryGround | CategoryWall
	MaskSpawn   = CategoryGround | CategorySpawnPlatform | CategoryWall
	MaskAll     = ^uint(0)
)
