package prefabs

import (
	"errors"
	"fmt"
	"sort"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/gunrunner/ecs/component"
	"gopkg.in/yaml.v3"
)

// ErrInvalidSpec is wrapped by every validation failure.
var ErrInvalidSpec = errors.New("prefabs: invalid spec")

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

type Vec2 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

func (v Vec2) Vector() cp.Vector {
	return cp.Vector{X: v.X, Y: v.Y}
}

// WaveSpec is one timed batch of enemies of a single difficulty.
type WaveSpec struct {
	StartTime     float64              `yaml:"start_time"`
	EnemyCount    int                  `yaml:"enemy_count"`
	SpawnInterval float64              `yaml:"spawn_interval"`
	Difficulty    component.Difficulty `yaml:"difficulty"`
}

// BossSpec describes the single scripted boss encounter of a level.
type BossSpec struct {
	Kind            string  `yaml:"kind"`
	StartTime       float64 `yaml:"start_time"`
	IntroLength     float64 `yaml:"intro_length"`
	TotalLength     float64 `yaml:"total_length"`
	CameraSpeed     float64 `yaml:"camera_speed"`
	FullCameraSpeed float64 `yaml:"full_camera_speed"`
	SpeedUpTime     float64 `yaml:"speed_up_time"`
	Spawn           Vec2    `yaml:"spawn"`
	Entry           Vec2    `yaml:"entry"`
	PlayerWaitPoint Vec2    `yaml:"player_wait_point"`
}

// SpawnerSpec is an off-screen spawn location. Enemies pick a random entry
// point on the segment between EntryStart and EntryEnd.
type SpawnerSpec struct {
	Position   Vec2 `yaml:"position"`
	EntryStart Vec2 `yaml:"entry_start"`
	EntryEnd   Vec2 `yaml:"entry_end"`
}

type LevelSpec struct {
	Name           string        `yaml:"name"`
	Player         string        `yaml:"player"`
	PlayerStart    Vec2          `yaml:"player_start"`
	Enemies        []string      `yaml:"enemies"`
	Powerups       []string      `yaml:"powerups"`
	MinPowerupTime float64       `yaml:"min_powerup_time"`
	MaxPowerupTime float64       `yaml:"max_powerup_time"`
	PowerupBuffer  float64       `yaml:"powerup_buffer"`
	PowerupSpawner Vec2          `yaml:"powerup_spawner"`
	Spawners       []SpawnerSpec `yaml:"spawners"`
	Waves          []WaveSpec    `yaml:"waves"`
	Boss           BossSpec      `yaml:"boss"`
	Geometry       []BoxSpec     `yaml:"geometry"`
	Music          string        `yaml:"music"`
}

// BoxSpec is a static collision box in world units, y up.
type BoxSpec struct {
	Min      Vec2   `yaml:"min"`
	Max      Vec2   `yaml:"max"`
	Category string `yaml:"category"`
}

// LoadLevelSpec loads, defaults and validates a level encounter.
func LoadLevelSpec(name string) (*LevelSpec, error) {
	spec, err := LoadSpec[LevelSpec](name)
	if err != nil {
		return nil, err
	}
	spec.applyDefaults()
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("prefabs: level %s: %w", name, err)
	}
	return &spec, nil
}

func (l *LevelSpec) applyDefaults() {
	if l.Player == "" {
		l.Player = "player"
	}
	if l.MinPowerupTime == 0 && l.MaxPowerupTime == 0 {
		l.MinPowerupTime = 15
		l.MaxPowerupTime = 25
	}
	if l.PowerupBuffer == 0 {
		l.PowerupBuffer = 5
	}
	for i := range l.Waves {
		if l.Waves[i].Difficulty == "" {
			l.Waves[i].Difficulty = component.DifficultyEasy
		}
	}
	sort.SliceStable(l.Waves, func(i, j int) bool {
		return l.Waves[i].StartTime < l.Waves[j].StartTime
	})
	for i := range l.Geometry {
		if l.Geometry[i].Category == "" {
			l.Geometry[i].Category = "ground"
		}
	}
	b := &l.Boss
	if b.FullCameraSpeed == 0 {
		b.FullCameraSpeed = b.CameraSpeed
	}
}

// Validate reports the first structural problem in the level. Empty enemy,
// spawner and powerup lists are allowed; the director treats them as no-ops.
func (l *LevelSpec) Validate() error {
	if l.MinPowerupTime < 0 || l.MaxPowerupTime < l.MinPowerupTime {
		return fmt.Errorf("%w: powerup time range [%g, %g]", ErrInvalidSpec, l.MinPowerupTime, l.MaxPowerupTime)
	}
	for i, wave := range l.Waves {
		if wave.StartTime < 0 || wave.EnemyCount < 0 || wave.SpawnInterval < 0 {
			return fmt.Errorf("%w: wave %d has negative timing or count", ErrInvalidSpec, i)
		}
		if !ValidDifficulty(wave.Difficulty) {
			return fmt.Errorf("%w: wave %d difficulty %q", ErrInvalidSpec, i, wave.Difficulty)
		}
	}
	b := l.Boss
	if b.Kind != "" {
		if b.StartTime < 0 || b.IntroLength < 0 || b.TotalLength < 0 || b.SpeedUpTime < 0 {
			return fmt.Errorf("%w: boss %q has negative timing", ErrInvalidSpec, b.Kind)
		}
	}
	for i, box := range l.Geometry {
		if box.Max.X <= box.Min.X || box.Max.Y <= box.Min.Y {
			return fmt.Errorf("%w: geometry %d is empty", ErrInvalidSpec, i)
		}
		if _, ok := ParseCategory(box.Category); !ok {
			return fmt.Errorf("%w: geometry %d category %q", ErrInvalidSpec, i, box.Category)
		}
	}
	return nil
}

func ValidDifficulty(d component.Difficulty) bool {
	switch d {
	case component.DifficultyEasy, component.DifficultyNormal, component.DifficultyDifficult,
		component.DifficultyBrutal, component.DifficultyInsane, component.DifficultyBoss:
		return true
	}
	return false
}
