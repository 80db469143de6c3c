package component

// ProjectileSpec describes what a gun or shooter fires.
type ProjectileSpec struct {
	Damage    float64
	Knockback float64
	Speed     float64
	Lifetime  float64
	Size      float64
}

// Gun turns fire intent into projectiles. Timers count up from the last shot.
type Gun struct {
	Name         string
	Primary      ProjectileSpec
	ShotCooldown float64

	HasSecondary      bool
	Secondary         ProjectileSpec
	SecondaryCooldown float64

	CanOverheat       bool
	OverheatTime      float64
	OverheatDamage    float64
	OverheatThreshold float64

	ShotTimer      float64
	SecondaryTimer float64
	Heat           float64
	Overheated     bool
}

var GunComponent = NewComponent[Gun]()

// Projectile is an in-flight shot. Hostile shots hit the player, friendly
// shots hit enemies. Spent is set once it has landed a hit.
type Projectile struct {
	Damage    float64
	Knockback float64
	Owner     uint64
	Hostile   bool
	Spent     bool
}

var ProjectileComponent = NewComponent[Projectile]()
