package entity

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/gunrunner/common"
	"github.com/milk9111/gunrunner/ecs"
	"github.com/milk9111/gunrunner/ecs/component"
	"github.com/milk9111/gunrunner/ecs/system"
	"github.com/milk9111/gunrunner/prefabs"
)

type buildContext struct {
	PrefabPath string
	Position   cp.Vector
	Rand       *rand.Rand
}

type componentBuildFn func(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error

var componentRegistry = map[string]componentBuildFn{
	"player_tag":           addPlayerTag,
	"enemy_tag":            addEnemyTag,
	"boss_tag":             addBossTag,
	"body":                 addBody,
	"motion":               addMotion,
	"combat":               addCombat,
	"player":               addPlayer,
	"combo":                addCombo,
	"gun":                  addGun,
	"intent":               addIntent,
	"player_state_machine": addPlayerStateMachine,
	"enemy":                addEnemy,
	"enemy_state_machine":  addEnemyStateMachine,
	"powerup":              addPowerup,
	"microchip":            addMicrochip,
	"ttl":                  addTTL,
}

// Builders later in the order read components attached earlier (enemy reads
// body and motion).
var componentBuildOrder = []string{
	"player_tag",
	"enemy_tag",
	"boss_tag",
	"body",
	"motion",
	"combat",
	"player",
	"combo",
	"gun",
	"intent",
	"player_state_machine",
	"enemy",
	"enemy_state_machine",
	"powerup",
	"microchip",
	"ttl",
}

// BuildEntity loads a prefab and builds it at position.
func BuildEntity(w *ecs.World, prefabPath string, position cp.Vector, rng *rand.Rand) (ecs.Entity, error) {
	spec, err := prefabs.LoadEntityBuildSpec(prefabPath)
	if err != nil {
		return 0, fmt.Errorf("build entity: load %q: %w", prefabPath, err)
	}
	return BuildEntityFromSpec(w, spec, prefabPath, position, rng)
}

func BuildEntityFromSpec(w *ecs.World, spec prefabs.EntityBuildSpec, prefabPath string, position cp.Vector, rng *rand.Rand) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("build entity: world is nil")
	}
	if len(spec.Components) == 0 {
		return 0, fmt.Errorf("build entity: prefab %q does not define components", prefabPath)
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	e := ecs.CreateEntity(w)
	ctx := &buildContext{PrefabPath: prefabPath, Position: position, Rand: rng}

	remaining := make(map[string]any, len(spec.Components))
	for k, v := range spec.Components {
		remaining[k] = v
	}

	names := make([]string, 0, len(remaining))
	for _, name := range componentBuildOrder {
		if _, ok := remaining[name]; ok {
			names = append(names, name)
			delete(remaining, name)
		}
	}
	extra := make([]string, 0, len(remaining))
	for name := range remaining {
		extra = append(extra, name)
	}
	sort.Strings(extra)
	names = append(names, extra...)

	for _, name := range names {
		builder, ok := componentRegistry[name]
		if !ok {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("build entity: %q: no builder for component %q", prefabPath, name)
		}
		if err := builder(w, e, spec.Components[name], ctx); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("build entity: %q: add %q: %w", prefabPath, name, err)
		}
	}

	return e, nil
}

func addPlayerTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{})
}

func addEnemyTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.EnemyTagComponent.Kind(), &component.EnemyTag{})
}

func addBossTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.BossTagComponent.Kind(), &component.BossTag{})
}

type bodySpec = prefabs.BodyComponentSpec

func addBody(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[bodySpec](raw)
	if err != nil {
		return fmt.Errorf("decode body spec: %w", err)
	}
	mask, err := prefabs.ParseMask(spec.Mask)
	if err != nil {
		return err
	}
	if spec.Width <= 0 {
		spec.Width = 1
	}
	if spec.Height <= 0 {
		spec.Height = 1
	}
	facing := common.Sign(spec.Facing)
	if facing == 0 {
		facing = 1
	}
	return ecs.Add(w, e, component.BodyComponent.Kind(), &component.Body{
		Position: ctx.Position,
		Size:     cp.Vector{X: spec.Width, Y: spec.Height},
		Facing:   facing,
		Mask:     mask,
	})
}

type motionSpec = prefabs.MotionComponentSpec

func addMotion(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[motionSpec](raw)
	if err != nil {
		return fmt.Errorf("decode motion spec: %w", err)
	}
	if spec.Gravity == 0 {
		spec.Gravity = common.Gravity
	}
	if spec.GroundDamping == 0 {
		spec.GroundDamping = common.GroundDamping
	}
	if spec.InAirDamping == 0 {
		spec.InAirDamping = common.InAirDamping
	}
	return ecs.Add(w, e, component.MotionComponent.Kind(), &component.Motion{
		Gravity:         spec.Gravity,
		GroundDamping:   spec.GroundDamping,
		InAirDamping:    spec.InAirDamping,
		TargetSpeed:     spec.TargetSpeed,
		SpeedMultiplier: 1,
	})
}

type combatSpec = prefabs.CombatComponentSpec

func addCombat(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[combatSpec](raw)
	if err != nil {
		return fmt.Errorf("decode combat spec: %w", err)
	}
	if spec.MaxHealth <= 0 {
		spec.MaxHealth = 1
	}
	return ecs.Add(w, e, component.CombatComponent.Kind(), &component.Combat{
		MaxHealth:           spec.MaxHealth,
		Health:              spec.MaxHealth,
		Damage:              spec.Damage,
		Knockback:           spec.Knockback,
		InvincibilityPeriod: spec.InvincibilityPeriod,
	})
}

type playerSpec = prefabs.PlayerComponentSpec

func addPlayer(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[playerSpec](raw)
	if err != nil {
		return fmt.Errorf("decode player spec: %w", err)
	}
	return ecs.Add(w, e, component.PlayerComponent.Kind(), &component.Player{
		WalkSpeed:          orDefault(spec.WalkSpeed, 10),
		RunSpeed:           orDefault(spec.RunSpeed, 17.5),
		RunFullSpeed:       orDefault(spec.RunFullSpeed, 20),
		RunFullTime:        orDefault(spec.RunFullTime, 1.5),
		ContinuousRunSpeed: orDefault(spec.ContinuousRunSpeed, 10),
		JumpHeight:         orDefault(spec.JumpHeight, 5),
		GoToTolerance:      spec.GoToTolerance,
	})
}

type comboSpec = prefabs.ComboComponentSpec

func addCombo(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[comboSpec](raw)
	if err != nil {
		return fmt.Errorf("decode combo spec: %w", err)
	}
	if spec.StartKills <= 0 {
		spec.StartKills = 3
	}
	return ecs.Add(w, e, component.ComboComponent.Kind(), &component.Combo{
		StartKills: spec.StartKills,
		DecayTime:  orDefault(spec.DecayTime, 1),
		Multiplier: 1,
		Peak:       1,
	})
}

type gunSpec = prefabs.GunComponentSpec

func addGun(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[gunSpec](raw)
	if err != nil {
		return fmt.Errorf("decode gun spec: %w", err)
	}
	gun := &component.Gun{
		Name:              spec.Name,
		Primary:           projectileSpec(spec.Primary),
		ShotCooldown:      spec.ShotCooldown,
		SecondaryCooldown: spec.SecondaryCooldown,
		CanOverheat:       spec.CanOverheat,
		OverheatTime:      orDefault(spec.OverheatTime, 5),
		OverheatDamage:    spec.OverheatDamage,
		OverheatThreshold: orDefault(spec.OverheatThreshold, 0.5),
	}
	if spec.Secondary != nil {
		gun.HasSecondary = true
		gun.Secondary = projectileSpec(*spec.Secondary)
	}
	// Ready to fire on the first tick.
	gun.ShotTimer = gun.ShotCooldown
	gun.SecondaryTimer = gun.SecondaryCooldown
	return ecs.Add(w, e, component.GunComponent.Kind(), gun)
}

func projectileSpec(spec prefabs.ProjectileComponentSpec) component.ProjectileSpec {
	return component.ProjectileSpec{
		Damage:    spec.Damage,
		Knockback: spec.Knockback,
		Speed:     spec.Speed,
		Lifetime:  spec.Lifetime,
		Size:      spec.Size,
	}
}

func addIntent(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.IntentComponent.Kind(), &component.Intent{})
}

func addPlayerStateMachine(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.PlayerStateMachineComponent.Kind(), &component.PlayerStateMachine{})
}

func addEnemyStateMachine(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.EnemyStateMachineComponent.Kind(), &component.EnemyStateMachine{})
}

type enemySpec = prefabs.EnemyComponentSpec

func addEnemy(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[enemySpec](raw)
	if err != nil {
		return fmt.Errorf("decode enemy spec: %w", err)
	}
	if spec.Difficulty == "" {
		spec.Difficulty = component.DifficultyEasy
	}
	if !prefabs.ValidDifficulty(spec.Difficulty) {
		return fmt.Errorf("%w: difficulty %q", prefabs.ErrInvalidSpec, spec.Difficulty)
	}
	loot, err := lootFromSpec(spec.Loot)
	if err != nil {
		return err
	}
	behavior, err := behaviorFromSpec(spec.Behavior)
	if err != nil {
		return err
	}

	enemy := &component.Enemy{
		Archetype:           prefabs.PrefabName(ctx.PrefabPath),
		Difficulty:          spec.Difficulty,
		MoveSpeed:           orDefault(spec.MoveSpeed, 5),
		SpawnEntryRange:     orDefault(spec.SpawnEntryRange, 1),
		SpawnJumpHeight:     orDefault(spec.SpawnJumpHeight, 4),
		SpawnMask:           common.MaskSpawn,
		DefaultMask:         common.MaskDefault,
		Spawned:             spec.Spawned,
		CheckFront:          spec.CheckFront,
		CheckLedge:          spec.CheckLedge,
		ImmuneToInstantKill: spec.ImmuneToInstantKill,
		FlashLength:         orDefault(spec.FlashLength, 0.1),
		Loot:                loot,
		Behavior:            behavior,
	}
	if body, ok := ecs.Get(w, e, component.BodyComponent.Kind()); ok {
		enemy.DefaultMask = body.Mask
		enemy.Entry = body.Position
		if spec.Spawned {
			enemy.Direction = -1
			body.Facing = -1
		}
	}
	if motion, ok := ecs.Get(w, e, component.MotionComponent.Kind()); ok {
		motion.TargetSpeed = enemy.MoveSpeed
	}
	return ecs.Add(w, e, component.EnemyComponent.Kind(), enemy)
}

func lootFromSpec(spec prefabs.LootComponentSpec) (component.Loot, error) {
	loot := component.Loot{Chance: 25, Min: spec.Min, Max: spec.Max}
	if spec.Chance != nil {
		loot.Chance = *spec.Chance
	}
	if loot.Min == 0 && loot.Max == 0 {
		loot.Min, loot.Max = 1, 3
	}
	if loot.Min < 0 || loot.Max < loot.Min {
		return loot, fmt.Errorf("%w: loot count [%d, %d]", prefabs.ErrInvalidSpec, loot.Min, loot.Max)
	}
	var ok bool
	if loot.Smallest, ok = parseChip(spec.Smallest, component.ChipSmall); !ok {
		return loot, fmt.Errorf("%w: chip size %q", prefabs.ErrInvalidSpec, spec.Smallest)
	}
	if loot.Biggest, ok = parseChip(spec.Biggest, loot.Smallest); !ok {
		return loot, fmt.Errorf("%w: chip size %q", prefabs.ErrInvalidSpec, spec.Biggest)
	}
	if loot.Biggest < loot.Smallest {
		return loot, fmt.Errorf("%w: chip sizes %s > %s", prefabs.ErrInvalidSpec, loot.Smallest, loot.Biggest)
	}
	return loot, nil
}

func parseChip(name string, fallback component.ChipSize) (component.ChipSize, bool) {
	if name == "" {
		return fallback, true
	}
	return component.ParseChipSize(name)
}

func behaviorFromSpec(spec prefabs.BehaviorComponentSpec) (component.Behavior, error) {
	b := component.Behavior{
		Kind:           spec.Kind,
		AttackRange:    spec.AttackRange,
		AttackInterval: spec.AttackInterval,
		JumpHeight:     spec.JumpHeight,
		Shot:           projectileSpec(spec.Shot),
		Script:         spec.Script,
	}
	switch b.Kind {
	case "":
		b.Kind = component.BehaviorWalker
	case component.BehaviorWalker, component.BehaviorJumper, component.BehaviorShooter:
	case component.BehaviorScripted:
		if b.Script == "" {
			return b, fmt.Errorf("%w: scripted behavior without script", prefabs.ErrInvalidSpec)
		}
	default:
		return b, fmt.Errorf("%w: behavior kind %q", prefabs.ErrInvalidSpec, b.Kind)
	}
	return b, nil
}

type powerupSpec = prefabs.PowerupComponentSpec

func addPowerup(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[powerupSpec](raw)
	if err != nil {
		return fmt.Errorf("decode powerup spec: %w", err)
	}
	p := &component.Powerup{Kind: spec.Kind}
	switch spec.Kind {
	case component.PowerupHealth:
		p.Amount = system.RollHealthAmount(ctx.Rand, orDefault(spec.MinHealth, 5), orDefault(spec.MaxHealth, 100))
	case component.PowerupSpeedBoost:
		p.Multiplier = orDefault(spec.Multiplier, 1.5)
		p.Duration = orDefault(spec.Duration, 5)
	default:
		return fmt.Errorf("%w: powerup kind %q", prefabs.ErrInvalidSpec, spec.Kind)
	}
	return ecs.Add(w, e, component.PowerupComponent.Kind(), p)
}

type microchipSpec = prefabs.MicrochipComponentSpec

func addMicrochip(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[microchipSpec](raw)
	if err != nil {
		return fmt.Errorf("decode microchip spec: %w", err)
	}
	size, ok := parseChip(spec.Size, component.ChipSmall)
	if !ok {
		return fmt.Errorf("%w: chip size %q", prefabs.ErrInvalidSpec, spec.Size)
	}
	return ecs.Add(w, e, component.MicrochipComponent.Kind(), &component.Microchip{Size: size})
}

type ttlSpec = prefabs.TTLComponentSpec

func addTTL(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[ttlSpec](raw)
	if err != nil {
		return fmt.Errorf("decode ttl spec: %w", err)
	}
	if spec.Seconds <= 0 {
		return nil
	}
	return ecs.Add(w, e, component.TTLComponent.Kind(), &component.TTL{Seconds: spec.Seconds})
}

func orDefault(v, fallback float64) float64 {
	if v == 0 {
		return fallback
	}
	return v
}
