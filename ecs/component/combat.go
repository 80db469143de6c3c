package component

// Combat is the damage profile shared by the player and enemies.
type Combat struct {
	MaxHealth float64
	Health    float64
	Damage    float64
	Knockback float64

	// Invincible is an explicit immunity flag (enemy spawn intro).
	Invincible bool
	// InvincibleUntil is the sim time at which the post-hit window closes.
	InvincibleUntil     float64
	InvincibilityPeriod float64

	// IgnoreProjectiles lets projectiles pass through without being consumed.
	IgnoreProjectiles bool

	// Dying is the one-shot death guard.
	Dying bool
}

var CombatComponent = NewComponent[Combat]()

// IsInvincible reports whether damage would be absorbed at time now.
func (c *Combat) IsInvincible(now float64) bool {
	if c == nil {
		return true
	}
	return c.Invincible || now < c.InvincibleUntil
}

// Hit is one incoming damage event.
type Hit struct {
	Amount     float64
	Knockback  float64
	SourceX    float64
	Source     uint64
	Projectile uint64
}

// HitRequest collects the hits that landed on an entity this tick. The
// combat system resolves them in arrival order and removes the component.
type HitRequest struct {
	Hits []Hit
}

var HitRequestComponent = NewComponent[HitRequest]()
