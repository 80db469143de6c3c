// Command simulate runs a level headless with a simple turret bot standing in
// for the player and prints what happened. It is handy for tuning wave and
// boss timings without opening a window.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"math/rand/v2"
	"os"
	"sort"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/gunrunner/common"
	"github.com/milk9111/gunrunner/ecs"
	"github.com/milk9111/gunrunner/ecs/component"
	"github.com/milk9111/gunrunner/ecs/entity"
	"github.com/milk9111/gunrunner/ecs/system"
	"github.com/milk9111/gunrunner/obj"
	"github.com/milk9111/gunrunner/prefabs"
)

func main() {
	levelName := flag.String("level", "level_1", "level prefab name in prefabs/")
	seconds := flag.Float64("seconds", 120, "simulated seconds")
	seed := flag.Uint64("seed", 1, "random seed")
	shoot := flag.Bool("shoot", true, "let the bot shoot at the nearest enemy")
	quiet := flag.Bool("q", false, "only print the summary")
	flag.Parse()

	if *quiet {
		log.SetOutput(io.Discard)
	}
	if err := run(*levelName, *seconds, *seed, *shoot, *quiet); err != nil {
		fmt.Fprintln(os.Stderr, "simulate:", err)
		os.Exit(1)
	}
}

func run(levelName string, seconds float64, seed uint64, shoot, quiet bool) error {
	level, err := prefabs.LoadLevelSpec(levelName)
	if err != nil {
		return err
	}
	collision, err := obj.NewCollisionWorldFromLevel(level)
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	w := ecs.NewWorld()
	factory := entity.NewFactory(rng)
	player, err := factory.SpawnPlayer(w, level.Player, level.PlayerStart.Vector())
	if err != nil {
		return fmt.Errorf("spawn player: %w", err)
	}
	roster, err := factory.Roster(level.Enemies)
	if err != nil {
		return fmt.Errorf("enemy roster: %w", err)
	}

	stage := system.NopStage{HalfWidth: float64(1280) / common.PixelsPerUnit / 2}
	enemies := system.NewEnemySystem(collision, factory, system.NewScriptBehavior(prefabs.LoadScript), rng)
	director := system.NewDirector(level, roster, nil, factory, stage, rng)
	scheduler := ecs.NewScheduler(
		system.NewPlayerControllerSystem(),
		enemies,
		system.NewGunSystem(),
		system.NewKinematicsSystem(collision),
		system.NewProjectileSystem(collision),
		system.NewContactSystem(),
		system.NewCombatSystem(enemies),
		system.NewPickupCollectSystem(),
		system.NewTTLSystem(),
		system.NewComboSystem(),
		director,
		system.NewCleanupSystem(),
	)

	counts := map[ecs.EventType]int{}
	ticks := int(math.Ceil(seconds * common.TPS))
	for range ticks {
		if in, ok := ecs.Get(w, player, component.IntentComponent.Kind()); ok {
			*in = botIntent(w, player, shoot)
		}
		scheduler.Step(w, common.TickRate)

		for _, evt := range w.Events().Drain() {
			counts[evt.Type]++
			if quiet {
				continue
			}
			switch evt.Type {
			case system.EventPhase:
				fmt.Printf("%7.2fs phase %v\n", w.Time().Now, evt.Data)
			case system.EventDeath:
				if evt.Entity == player {
					fmt.Printf("%7.2fs player died\n", w.Time().Now)
				}
			}
		}
		if director.Phase() == system.PhaseResolved {
			break
		}
	}

	snap := system.TakeSnapshot(w, director)
	fmt.Printf("level %s seed %d: %.1fs simulated, phase %s, waves %d\n",
		level.Name, seed, w.Time().Now, snap.Director.Phase, director.WaveIndex())
	if snap.Player != nil {
		fmt.Printf("player hp %.0f/%.0f at (%.1f, %.1f)\n",
			snap.Player.Health, snap.Player.MaxHealth, snap.Player.Position.X, snap.Player.Position.Y)
	}
	fmt.Printf("score %d x%d, %d enemies alive\n", snap.Score.Score, snap.Score.Multiplier, len(snap.Enemies))

	types := make([]string, 0, len(counts))
	for typ := range counts {
		types = append(types, string(typ))
	}
	sort.Strings(types)
	for _, typ := range types {
		fmt.Printf("  %-20s %d\n", typ, counts[ecs.EventType(typ)])
	}
	return nil
}

// botIntent holds position and aims at the nearest enemy.
func botIntent(w *ecs.World, player ecs.Entity, shoot bool) component.Intent {
	body, ok := ecs.Get(w, player, component.BodyComponent.Kind())
	if !ok {
		return component.Intent{}
	}
	origin := body.Position

	var target cp.Vector
	best := math.Inf(1)
	ecs.ForEach2(w, component.EnemyTagComponent.Kind(), component.BodyComponent.Kind(),
		func(_ ecs.Entity, _ *component.EnemyTag, eb *component.Body) {
			if d := eb.Position.DistanceSq(origin); d < best {
				best = d
				target = eb.Position
			}
		})
	if math.IsInf(best, 1) {
		return component.Intent{AimX: body.Facing}
	}
	aim := target.Sub(origin).Normalize()
	return component.Intent{Fire: shoot, AimX: aim.X, AimY: aim.Y}
}
