package main

import (
	"fmt"
	"image/color"
	"log"
	"math/rand/v2"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/gunrunner/audio"
	"github.com/milk9111/gunrunner/common"
	"github.com/milk9111/gunrunner/ecs"
	"github.com/milk9111/gunrunner/ecs/component"
	"github.com/milk9111/gunrunner/ecs/entity"
	"github.com/milk9111/gunrunner/ecs/system"
	"github.com/milk9111/gunrunner/obj"
	"github.com/milk9111/gunrunner/prefabs"
	"golang.org/x/image/colornames"
)

const (
	baseWidth  = 1280
	baseHeight = 720

	maxFeed = 6
)

type GameOptions struct {
	Level     string
	Debug     bool
	HotReload bool
	Music     bool
	Seed      uint64
}

// Game hosts one level of the simulation in an ebiten window.
type Game struct {
	opts GameOptions

	world     *ecs.World
	scheduler *ecs.Scheduler
	director  *system.Director
	factory   *entity.Factory
	scripts   *system.ScriptBehavior
	collision *obj.CollisionWorld
	camera    *obj.Camera
	input     *obj.Input
	watcher   *prefabs.Watcher
	music     *audio.Music
	player    ecs.Entity

	snapshot system.Snapshot
	feed     []string
}

func NewGame(opts GameOptions) (*Game, error) {
	g := &Game{opts: opts}
	if err := g.load(); err != nil {
		return nil, err
	}
	if opts.HotReload {
		w, err := prefabs.NewWatcher(prefabs.DiskDir, filepath.Join(prefabs.DiskDir, "scripts"))
		if err != nil {
			log.Printf("[game] hot reload disabled: %v", err)
		} else {
			g.watcher = w
		}
	}
	return g, nil
}

// load builds a fresh world for the configured level.
func (g *Game) load() error {
	level, err := prefabs.LoadLevelSpec(g.opts.Level)
	if err != nil {
		return err
	}
	collision, err := obj.NewCollisionWorldFromLevel(level)
	if err != nil {
		return err
	}

	seed := g.opts.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	log.Printf("[game] level %q seed %d", level.Name, seed)

	w := ecs.NewWorld()
	factory := entity.NewFactory(rng)
	if g.scripts == nil {
		g.scripts = system.NewScriptBehavior(prefabs.LoadScript)
	}

	player, err := factory.SpawnPlayer(w, level.Player, level.PlayerStart.Vector())
	if err != nil {
		return fmt.Errorf("spawn player: %w", err)
	}
	roster, err := factory.Roster(level.Enemies)
	if err != nil {
		return fmt.Errorf("enemy roster: %w", err)
	}

	camera := obj.NewCamera(baseWidth, baseHeight, common.PixelsPerUnit)
	camera.SetWorldBounds(levelBounds(level))
	camera.SetPanTarget(level.Boss.Entry.Vector())
	camera.SnapTo(level.PlayerStart.Vector())

	g.closeMusic()
	var clock system.Clock
	if g.opts.Music && level.Music != "" {
		music, err := audio.PlayMusic(level.Music)
		if err != nil {
			log.Printf("[game] music unavailable, using simulation clock: %v", err)
		} else {
			g.music = music
			clock = music
		}
	}

	enemies := system.NewEnemySystem(collision, factory, g.scripts, rng)
	director := system.NewDirector(level, roster, clock, factory, camera, rng)

	g.world = w
	g.factory = factory
	g.collision = collision
	g.camera = camera
	g.input = obj.NewInput(camera)
	g.player = player
	g.director = director
	g.feed = nil
	g.scheduler = ecs.NewScheduler(
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
	return nil
}

func levelBounds(level *prefabs.LevelSpec) (float64, float64) {
	if len(level.Geometry) == 0 {
		return 0, 0
	}
	lo, hi := level.Geometry[0].Min.X, level.Geometry[0].Max.X
	for _, box := range level.Geometry[1:] {
		lo = min(lo, box.Min.X)
		hi = max(hi, box.Max.X)
	}
	return lo, hi
}

func (g *Game) closeMusic() {
	if g.music == nil {
		return
	}
	if err := g.music.Close(); err != nil {
		log.Printf("[game] close music: %v", err)
	}
	g.music = nil
}

func (g *Game) Close() {
	g.closeMusic()
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) Update() error {
	g.reloadChanged()

	origin := cp.Vector{}
	body, hasBody := ecs.Get(g.world, g.player, component.BodyComponent.Kind())
	if hasBody {
		origin = body.Position
	}
	intent := g.input.Poll(origin)
	if g.input.Quit {
		return ebiten.Termination
	}
	if g.input.Reload {
		if err := g.load(); err != nil {
			log.Printf("[game] restart: %v", err)
		}
		return nil
	}
	if in, ok := ecs.Get(g.world, g.player, component.IntentComponent.Kind()); ok {
		*in = intent
	}

	g.scheduler.Step(g.world, common.TickRate)

	if body, ok := ecs.Get(g.world, g.player, component.BodyComponent.Kind()); ok {
		origin = body.Position
	}
	g.camera.Update(origin, common.TickRate)
	g.consumeEvents()
	g.snapshot = system.TakeSnapshot(g.world, g.director)
	return nil
}

// reloadChanged applies prefab and script edits picked up by the watcher.
// Actors spawned after the edit use the new spec.
func (g *Game) reloadChanged() {
	if g.watcher == nil {
		return
	}
	for _, path := range g.watcher.Drain() {
		name := prefabs.PrefabName(path)
		if prefabs.IsScriptFile(path) {
			log.Printf("[game] script %q changed", name)
			g.scripts.Invalidate(name)
			continue
		}
		g.factory.Reload(name)
		if name == g.opts.Level {
			log.Printf("[game] level %q changed, press F5 to restart", name)
		}
	}
}

func (g *Game) consumeEvents() {
	for _, evt := range g.world.Events().Drain() {
		var line string
		switch evt.Type {
		case system.EventPhase:
			line = fmt.Sprintf("phase: %v", evt.Data)
		case system.EventDeath:
			if evt.Entity == g.player {
				line = "player died (F5 to restart)"
			}
		case system.EventPopup:
			if p, ok := evt.Data.(system.PopupData); ok {
				line = p.Text
			}
		case system.EventOverheat:
			line = "gun overheated"
		}
		if line == "" {
			continue
		}
		g.feed = append(g.feed, line)
		if len(g.feed) > maxFeed {
			g.feed = g.feed[len(g.feed)-maxFeed:]
		}
	}
}

var (
	colorBackground = colornames.Midnightblue
	colorPlayer     = colornames.Limegreen
	colorEnemy      = colornames.Crimson
	colorBoss       = colornames.Darkviolet
	colorShot       = colornames.Gold
	colorPickup     = colornames.Deepskyblue
	colorChip       = colornames.Darkorange
	colorFlash      = colornames.White
)

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)
	if g.opts.Debug {
		g.collision.DebugDraw(screen, g.camera)
	}

	now := g.world.Time().Now
	ecs.ForEach(g.world, component.BodyComponent.Kind(), func(e ecs.Entity, body *component.Body) {
		clr := g.bodyColor(e, now)
		x, y := g.camera.WorldToScreen(body.Position)
		w := body.Size.X * g.camera.Scale()
		h := body.Size.Y * g.camera.Scale()
		left, top := float32(x-w/2), float32(y-h/2)
		if ecs.Has(g.world, e, component.ProjectileComponent.Kind()) {
			vector.DrawFilledRect(screen, left, top, float32(w), float32(h), clr, false)
			return
		}
		vector.StrokeRect(screen, left, top, float32(w), float32(h), 2, clr, false)
		if body.Facing != 0 {
			ex := float32(x + body.Facing*w/2)
			vector.StrokeLine(screen, float32(x), float32(y), ex, float32(y), 2, clr, false)
		}
	})

	ebitenutil.DebugPrint(screen, g.hud())
}

func (g *Game) bodyColor(e ecs.Entity, now float64) color.Color {
	switch {
	case ecs.Has(g.world, e, component.PlayerTagComponent.Kind()):
		if c, ok := ecs.Get(g.world, e, component.CombatComponent.Kind()); ok && c.IsInvincible(now) {
			return colorFlash
		}
		return colorPlayer
	case ecs.Has(g.world, e, component.BossTagComponent.Kind()):
		return colorBoss
	case ecs.Has(g.world, e, component.EnemyTagComponent.Kind()):
		return colorEnemy
	case ecs.Has(g.world, e, component.ProjectileComponent.Kind()):
		return colorShot
	case ecs.Has(g.world, e, component.MicrochipComponent.Kind()):
		return colorChip
	}
	return colorPickup
}

func (g *Game) hud() string {
	s := g.snapshot
	var b strings.Builder
	fmt.Fprintf(&b, "FPS: %.1f  t=%.1fs\n", ebiten.ActualFPS(), g.world.Time().Now)
	if s.Player != nil {
		fmt.Fprintf(&b, "HP: %.0f/%.0f\n", s.Player.Health, s.Player.MaxHealth)
	}
	fmt.Fprintf(&b, "Score: %d  x%d\n", s.Score.Score, s.Score.Multiplier)
	fmt.Fprintf(&b, "Phase: %s", s.Director.Phase)
	if s.Director.BossPhase {
		fmt.Fprintf(&b, "  progress %.0f%%  camera %.1f", s.Director.Progress*100, s.Director.CameraSpeed)
	}
	fmt.Fprintf(&b, "\nEnemies: %d\n\n", len(s.Enemies))
	for _, line := range g.feed {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
