package prefabs

import (
	"fmt"

	"github.com/milk9111/gunrunner/common"
	"github.com/milk9111/gunrunner/ecs/component"
	"gopkg.in/yaml.v3"
)

// EntityBuildSpec is a prefab: a name plus the components to attach, keyed
// by builder name.
type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Components map[string]any `yaml:"components"`
}

func LoadEntityBuildSpec(filename string) (EntityBuildSpec, error) {
	return LoadSpec[EntityBuildSpec](filename)
}

func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

type BodyComponentSpec struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Mask   string  `yaml:"mask"`
	Facing float64 `yaml:"facing"`
}

type MotionComponentSpec struct {
	Gravity       float64 `yaml:"gravity"`
	GroundDamping float64 `yaml:"ground_damping"`
	InAirDamping  float64 `yaml:"in_air_damping"`
	TargetSpeed   float64 `yaml:"target_speed"`
}

type CombatComponentSpec struct {
	MaxHealth           float64 `yaml:"max_health"`
	Damage              float64 `yaml:"damage"`
	Knockback           float64 `yaml:"knockback"`
	InvincibilityPeriod float64 `yaml:"invincibility_period"`
}

type PlayerComponentSpec struct {
	WalkSpeed          float64 `yaml:"walk_speed"`
	RunSpeed           float64 `yaml:"run_speed"`
	RunFullSpeed       float64 `yaml:"run_full_speed"`
	RunFullTime        float64 `yaml:"run_full_time"`
	ContinuousRunSpeed float64 `yaml:"continuous_run_speed"`
	JumpHeight         float64 `yaml:"jump_height"`
	GoToTolerance      float64 `yaml:"go_to_tolerance"`
}

type ComboComponentSpec struct {
	StartKills int     `yaml:"start_kills"`
	DecayTime  float64 `yaml:"decay_time"`
}

type ProjectileComponentSpec struct {
	Damage    float64 `yaml:"damage"`
	Knockback float64 `yaml:"knockback"`
	Speed     float64 `yaml:"speed"`
	Lifetime  float64 `yaml:"lifetime"`
	Size      float64 `yaml:"size"`
}

type GunComponentSpec struct {
	Name              string                   `yaml:"name"`
	Primary           ProjectileComponentSpec  `yaml:"primary"`
	ShotCooldown      float64                  `yaml:"shot_cooldown"`
	Secondary         *ProjectileComponentSpec `yaml:"secondary"`
	SecondaryCooldown float64                  `yaml:"secondary_cooldown"`
	CanOverheat       bool                     `yaml:"can_overheat"`
	OverheatTime      float64                  `yaml:"overheat_time"`
	OverheatDamage    float64                  `yaml:"overheat_damage"`
	OverheatThreshold float64                  `yaml:"overheat_threshold"`
}

type LootComponentSpec struct {
	Chance   *float64 `yaml:"chance"`
	Min      int      `yaml:"min"`
	Max      int      `yaml:"max"`
	Smallest string   `yaml:"smallest"`
	Biggest  string   `yaml:"biggest"`
}

type BehaviorComponentSpec struct {
	Kind           component.BehaviorKind  `yaml:"kind"`
	AttackRange    float64                 `yaml:"attack_range"`
	AttackInterval float64                 `yaml:"attack_interval"`
	JumpHeight     float64                 `yaml:"jump_height"`
	Shot           ProjectileComponentSpec `yaml:"shot"`
	Script         string                  `yaml:"script"`
}

type EnemyComponentSpec struct {
	Difficulty          component.Difficulty  `yaml:"difficulty"`
	MoveSpeed           float64               `yaml:"move_speed"`
	SpawnEntryRange     float64               `yaml:"spawn_entry_range"`
	SpawnJumpHeight     float64               `yaml:"spawn_jump_height"`
	Spawned             bool                  `yaml:"spawned"`
	CheckFront          bool                  `yaml:"check_front"`
	CheckLedge          bool                  `yaml:"check_ledge"`
	ImmuneToInstantKill bool                  `yaml:"immune_to_instant_kill"`
	FlashLength         float64               `yaml:"flash_length"`
	Loot                LootComponentSpec     `yaml:"loot"`
	Behavior            BehaviorComponentSpec `yaml:"behavior"`
}

type PowerupComponentSpec struct {
	Kind       component.PowerupKind `yaml:"kind"`
	MinHealth  float64               `yaml:"min_health"`
	MaxHealth  float64               `yaml:"max_health"`
	Multiplier float64               `yaml:"multiplier"`
	Duration   float64               `yaml:"duration"`
}

type MicrochipComponentSpec struct {
	Size string `yaml:"size"`
}

type TTLComponentSpec struct {
	Seconds float64 `yaml:"seconds"`
}

// ParseCategory maps a geometry category name to its collision bit.
func ParseCategory(name string) (uint, bool) {
	switch name {
	case "ground":
		return common.CategoryGround, true
	case "spawn_platform":
		return common.CategorySpawnPlatform, true
	case "wall":
		return common.CategoryWall, true
	}
	return 0, false
}

// ParseMask maps a body mask name to the categories it collides with.
func ParseMask(name string) (uint, error) {
	switch name {
	case "", "default":
		return common.MaskDefault, nil
	case "spawn":
		return common.MaskSpawn, nil
	case "all":
		return common.MaskAll, nil
	}
	return 0, fmt.Errorf("%w: mask %q", ErrInvalidSpec, name)
}
