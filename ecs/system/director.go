package system

import (
	"fmt"
	"log"
	"math"
	"math/rand/v2"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/gunrunner/common"
	"github.com/milk9111/gunrunner/ecs"
	"github.com/milk9111/gunrunner/ecs/component"
	"github.com/milk9111/gunrunner/prefabs"
)

// Phase is the encounter phase of a level.
type Phase int

const (
	PhaseWaves Phase = iota
	PhaseBossIntro
	PhaseBossActive
	PhaseResolved
)

func (p Phase) String() string {
	switch p {
	case PhaseWaves:
		return "waves"
	case PhaseBossIntro:
		return "boss_intro"
	case PhaseBossActive:
		return "boss_active"
	case PhaseResolved:
		return "resolved"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Archetype is an enemy kind the director may spawn for waves of its
// difficulty.
type Archetype struct {
	Kind       string
	Difficulty component.Difficulty
}

// Director schedules the waves, powerup drops and boss encounter of one
// level. It only holds actors by handle; spawned enemies outlive it.
type Director struct {
	level   *prefabs.LevelSpec
	roster  []Archetype
	clock   Clock
	factory ActorFactory
	stage   Stage
	rng     *rand.Rand

	tasks     Tasks
	phase     Phase
	waveIndex int

	powerupTimer float64
	nextPowerup  float64

	boss          ecs.Entity
	bossSpawned   bool
	introStarted  bool
	introComplete bool
	progress      float64
	cameraSpeed   float64
}

// NewDirector builds a director for level. A nil clock falls back to the
// simulation clock, a nil stage ignores camera commands and a nil factory
// spawns nothing.
func NewDirector(level *prefabs.LevelSpec, roster []Archetype, clock Clock, factory ActorFactory, stage Stage, rng *rand.Rand) *Director {
	if level == nil {
		level = &prefabs.LevelSpec{}
	}
	if stage == nil {
		stage = NopStage{}
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	d := &Director{
		level:   level,
		roster:  roster,
		clock:   clock,
		factory: factory,
		stage:   stage,
		rng:     rng,
	}
	d.nextPowerup = d.samplePowerupTime()

	if factory == nil {
		log.Printf("[director] no actor factory: nothing will spawn")
	}
	if len(roster) == 0 {
		log.Printf("[director] level %q has no enemy archetypes: waves disabled", level.Name)
	}
	if len(level.Spawners) == 0 {
		log.Printf("[director] level %q has no spawners: waves disabled", level.Name)
	}
	if len(level.Powerups) == 0 {
		log.Printf("[director] level %q has no powerups: drops disabled", level.Name)
	}
	return d
}

func (d *Director) Update(w *ecs.World) {
	if w == nil || d.phase == PhaseResolved {
		return
	}

	now := d.elapsed(w)
	player, alive := d.player(w)
	if !alive {
		d.resolve(w)
		return
	}

	boss := d.level.Boss
	switch d.phase {
	case PhaseWaves:
		if boss.Kind != "" && now >= boss.StartTime {
			d.startIntro(w, player)
			break
		}
		d.launchWaves(w, now)
		d.tickPowerups(w)
	case PhaseBossIntro:
		if d.introDone(w, now) {
			d.startActive(w, player)
		}
	}

	d.tasks.Run(w.Time().Now)
}

func (d *Director) Phase() Phase { return d.phase }

// Progress is the boss run progress in [0, 1].
func (d *Director) Progress() float64 { return d.progress }

func (d *Director) CameraSpeed() float64 { return d.cameraSpeed }

// Intro reports whether the boss intro has started and whether it has
// completed.
func (d *Director) Intro() (started, complete bool) { return d.introStarted, d.introComplete }

// Boss returns the boss handle once it has been spawned.
func (d *Director) Boss() (ecs.Entity, bool) { return d.boss, d.bossSpawned }

// WaveIndex is the number of waves launched so far.
func (d *Director) WaveIndex() int { return d.waveIndex }

// NextPowerupTime is the currently sampled delay between powerup drops.
func (d *Director) NextPowerupTime() float64 { return d.nextPowerup }

func (d *Director) Tasks() *Tasks { return &d.tasks }

func (d *Director) elapsed(w *ecs.World) float64 {
	if d.clock != nil {
		return d.clock.Elapsed()
	}
	return w.Time().Now
}

// player reports the player handle and whether the player is still alive.
func (d *Director) player(w *ecs.World) (ecs.Entity, bool) {
	e, ok := ecs.First(w, component.PlayerTagComponent.Kind())
	if !ok {
		return 0, false
	}
	if combat, ok := ecs.Get(w, e, component.CombatComponent.Kind()); ok {
		if combat.Dying || combat.Health <= 0 {
			return e, false
		}
	}
	return e, true
}

func (d *Director) setPhase(w *ecs.World, phase Phase) {
	if d.phase == phase {
		return
	}
	log.Printf("[director] %s -> %s", d.phase, phase)
	d.phase = phase
	emit(w, EventPhase, 0, phase)
}

// resolve ends the encounter. Enemies already spawned stay alive.
func (d *Director) resolve(w *ecs.World) {
	d.tasks.CancelAll()
	d.setPhase(w, PhaseResolved)
}

func (d *Director) launchWaves(w *ecs.World, now float64) {
	waves := d.level.Waves
	for d.waveIndex < len(waves) && now >= waves[d.waveIndex].StartTime {
		d.startWave(w, d.waveIndex, waves[d.waveIndex])
		d.waveIndex++
	}
}

func (d *Director) startWave(w *ecs.World, index int, wave prefabs.WaveSpec) {
	if wave.EnemyCount <= 0 {
		return
	}
	candidates := d.archetypes(wave.Difficulty)
	if len(candidates) == 0 {
		log.Printf("[director] wave %d: no %s archetype in roster", index, wave.Difficulty)
		return
	}
	if len(d.level.Spawners) == 0 {
		log.Printf("[director] wave %d: no spawners", index)
		return
	}

	spawned := 0
	d.tasks.Start(fmt.Sprintf("wave-%d", index), w.Time().Now, func(now float64) (float64, bool) {
		d.spawnEnemy(w, candidates)
		spawned++
		if spawned >= wave.EnemyCount {
			return 0, true
		}
		return now + wave.SpawnInterval, false
	})
}

func (d *Director) archetypes(difficulty component.Difficulty) []Archetype {
	var out []Archetype
	for _, a := range d.roster {
		if a.Difficulty == difficulty {
			out = append(out, a)
		}
	}
	return out
}

func (d *Director) spawnEnemy(w *ecs.World, candidates []Archetype) {
	if d.factory == nil {
		return
	}
	arch := candidates[d.rng.IntN(len(candidates))]
	spawner := d.level.Spawners[d.rng.IntN(len(d.level.Spawners))]

	e, err := d.factory.Spawn(w, arch.Kind, spawner.Position.Vector())
	if err != nil {
		log.Printf("[director] spawn %q: %v", arch.Kind, err)
		return
	}
	if enemy, ok := ecs.Get(w, e, component.EnemyComponent.Kind()); ok {
		t := d.rng.Float64()
		enemy.Entry = cp.Vector{
			X: common.Lerp(spawner.EntryStart.X, spawner.EntryEnd.X, t),
			Y: common.Lerp(spawner.EntryStart.Y, spawner.EntryEnd.Y, t),
		}
	}
}

func (d *Director) samplePowerupTime() float64 {
	lo, hi := d.level.MinPowerupTime, d.level.MaxPowerupTime
	if hi <= lo {
		return lo
	}
	return lo + d.rng.Float64()*(hi-lo)
}

func (d *Director) tickPowerups(w *ecs.World) {
	if len(d.level.Powerups) == 0 || d.factory == nil {
		return
	}
	d.powerupTimer += w.Time().Delta
	if d.powerupTimer < d.nextPowerup {
		return
	}
	d.powerupTimer = 0
	d.nextPowerup = d.samplePowerupTime()

	kind := d.level.Powerups[d.rng.IntN(len(d.level.Powerups))]
	span := math.Max(d.stage.CameraHalfWidth()-d.level.PowerupBuffer, 0)
	offset := (d.rng.Float64()*2 - 1) * span
	pos := d.level.PowerupSpawner.Vector().Add(cp.Vector{X: offset})
	if _, err := d.factory.Spawn(w, kind, pos); err != nil {
		log.Printf("[director] spawn powerup %q: %v", kind, err)
	}
}

func (d *Director) startIntro(w *ecs.World, player ecs.Entity) {
	boss := d.level.Boss
	d.introStarted = true
	d.setPhase(w, PhaseBossIntro)

	if d.factory != nil {
		e, err := d.factory.Spawn(w, boss.Kind, boss.Spawn.Vector())
		if err != nil {
			log.Printf("[director] spawn boss %q: %v", boss.Kind, err)
		} else {
			d.boss = e
			d.bossSpawned = true
			_ = ecs.Add(w, e, component.BossTagComponent.Kind(), &component.BossTag{})
			if enemy, ok := ecs.Get(w, e, component.EnemyComponent.Kind()); ok {
				enemy.Entry = boss.Entry.Vector()
			}
		}
	}

	d.stage.SetCameraMode(CameraScripted)
	if err := GoToPoint(w, player, boss.PlayerWaitPoint.X, false, false); err != nil {
		log.Printf("[director] player go-to: %v", err)
	}
}

// introDone reports whether the boss finished its entrance or died. The intro
// timer only applies when the boss never spawned.
func (d *Director) introDone(w *ecs.World, now float64) bool {
	if !d.bossSpawned {
		boss := d.level.Boss
		return boss.IntroLength <= 0 || now >= boss.StartTime+boss.IntroLength
	}
	if !ecs.IsAlive(w, d.boss) {
		return true
	}
	if combat, ok := ecs.Get(w, d.boss, component.CombatComponent.Kind()); ok && combat.Dying {
		return true
	}
	enemy, ok := ecs.Get(w, d.boss, component.EnemyComponent.Kind())
	return !ok || enemy.Spawned
}

func (d *Director) startActive(w *ecs.World, player ecs.Entity) {
	boss := d.level.Boss
	d.introComplete = true
	d.setPhase(w, PhaseBossActive)

	d.stage.SetRunnerBounds(true)
	d.stage.SetCameraMode(CameraRunner)
	d.stage.SetScrolling(true)

	ecs.Remove(w, player, component.GoToPointComponent.Kind())
	SetInputEnabled(w, player, true)
	if p, ok := ecs.Get(w, player, component.PlayerComponent.Kind()); ok {
		p.ContinuousRun = true
	}

	start := w.Time().Now
	d.cameraSpeed = boss.CameraSpeed
	d.stage.SetCameraSpeed(d.cameraSpeed)
	d.tasks.Start("camera-ramp", start, func(now float64) (float64, bool) {
		t := 1.0
		if boss.SpeedUpTime > 0 {
			t = common.Clamp01((now - start) / boss.SpeedUpTime)
		}
		d.cameraSpeed = common.Lerp(boss.CameraSpeed, boss.FullCameraSpeed, t)
		d.stage.SetCameraSpeed(d.cameraSpeed)
		return now, t >= 1
	})
	d.tasks.Start("progress", start, func(now float64) (float64, bool) {
		if boss.TotalLength <= 0 {
			d.progress = 1
			return 0, true
		}
		d.progress = common.Clamp01((now - start) / boss.TotalLength)
		return now, d.progress >= 1
	})
}
