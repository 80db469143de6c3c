package prefabs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/milk9111/gunrunner/common"
	"github.com/milk9111/gunrunner/ecs/component"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestLoadLevelSpec(t *testing.T) {
	level, err := LoadLevelSpec("level_1")
	require.NoError(t, err)

	assert.Equal(t, "level_1", level.Name)
	assert.Equal(t, "player", level.Player)
	assert.Equal(t, []string{"crawler", "hopper", "gunner", "skitter"}, level.Enemies)
	assert.Len(t, level.Spawners, 2)
	assert.Equal(t, "warden", level.Boss.Kind)
	assert.Equal(t, 60.0, level.Boss.StartTime)
	require.NotEmpty(t, level.Waves)
	for i := 1; i < len(level.Waves); i++ {
		assert.LessOrEqual(t, level.Waves[i-1].StartTime, level.Waves[i].StartTime)
	}
}

func TestLevelDefaults(t *testing.T) {
	var level LevelSpec
	require.NoError(t, yaml.Unmarshal([]byte(`
name: bare
waves:
  - {start_time: 10, enemy_count: 1}
  - {start_time: 2, enemy_count: 1, difficulty: normal}
geometry:
  - {min: {x: 0, y: 0}, max: {x: 1, y: 1}}
boss: {kind: warden, camera_speed: 3}
`), &level))

	level.applyDefaults()
	require.NoError(t, level.Validate())

	assert.Equal(t, "player", level.Player)
	assert.Equal(t, 15.0, level.MinPowerupTime)
	assert.Equal(t, 25.0, level.MaxPowerupTime)
	assert.Equal(t, 5.0, level.PowerupBuffer)
	assert.Equal(t, 2.0, level.Waves[0].StartTime)
	assert.Equal(t, component.DifficultyEasy, level.Waves[1].Difficulty)
	assert.Equal(t, "ground", level.Geometry[0].Category)
	assert.Equal(t, 3.0, level.Boss.FullCameraSpeed)
}

func TestLevelValidate(t *testing.T) {
	tests := []struct {
		name  string
		level LevelSpec
	}{
		{name: "inverted powerup range", level: LevelSpec{MinPowerupTime: 10, MaxPowerupTime: 5}},
		{name: "negative wave count", level: LevelSpec{MaxPowerupTime: 1, Waves: []WaveSpec{{EnemyCount: -1, Difficulty: component.DifficultyEasy}}}},
		{name: "unknown difficulty", level: LevelSpec{MaxPowerupTime: 1, Waves: []WaveSpec{{Difficulty: "nightmare"}}}},
		{name: "negative boss timing", level: LevelSpec{MaxPowerupTime: 1, Boss: BossSpec{Kind: "warden", IntroLength: -1}}},
		{name: "empty box", level: LevelSpec{MaxPowerupTime: 1, Geometry: []BoxSpec{{Max: Vec2{X: 1}, Category: "ground"}}}},
		{name: "unknown category", level: LevelSpec{MaxPowerupTime: 1, Geometry: []BoxSpec{{Max: Vec2{X: 1, Y: 1}, Category: "lava"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.level.Validate(), ErrInvalidSpec)
		})
	}

	empty := LevelSpec{MaxPowerupTime: 1}
	assert.NoError(t, empty.Validate(), "empty lists are allowed")
}

func TestLoadSpecFromDisk(t *testing.T) {
	dir := t.TempDir()
	prev := DiskDir
	DiskDir = dir
	t.Cleanup(func() { DiskDir = prev })

	require.NoError(t, os.WriteFile(filepath.Join(dir, "level_1.yaml"), []byte("name: edited\nmax_powerup_time: 3\n"), 0o644))

	level, err := LoadLevelSpec("level_1")
	require.NoError(t, err)
	assert.Equal(t, "edited", level.Name)

	_, err = LoadLevelSpec("missing_level")
	assert.Error(t, err)
}

func TestLoadScript(t *testing.T) {
	for _, name := range []string{"skitter", "scripts/skitter", "prefabs/scripts/skitter.tengo"} {
		src, err := LoadScript(name)
		require.NoError(t, err, name)
		assert.NotEmpty(t, src)
	}
}

func TestDecodeComponentSpec(t *testing.T) {
	raw := map[string]any{"width": 2, "height": 3.5, "mask": "spawn"}
	spec, err := DecodeComponentSpec[BodyComponentSpec](raw)
	require.NoError(t, err)
	assert.Equal(t, BodyComponentSpec{Width: 2, Height: 3.5, Mask: "spawn"}, spec)

	spec, err = DecodeComponentSpec[BodyComponentSpec](nil)
	require.NoError(t, err)
	assert.Equal(t, BodyComponentSpec{}, spec)

	_, err = DecodeComponentSpec[BodyComponentSpec](map[string]any{"width": "wide"})
	assert.Error(t, err)
}

func TestParseMaskAndCategory(t *testing.T) {
	mask, err := ParseMask("")
	require.NoError(t, err)
	assert.Equal(t, common.MaskDefault, mask)
	mask, err = ParseMask("spawn")
	require.NoError(t, err)
	assert.Equal(t, common.MaskSpawn, mask)
	_, err = ParseMask("water")
	assert.ErrorIs(t, err, ErrInvalidSpec)

	cat, ok := ParseCategory("spawn_platform")
	assert.True(t, ok)
	assert.Equal(t, common.CategorySpawnPlatform, cat)
	assert.Zero(t, common.MaskDefault&cat, "default bodies pass through spawn platforms")
	_, ok = ParseCategory("lava")
	assert.False(t, ok)
}

func TestPrefabName(t *testing.T) {
	assert.Equal(t, "skitter", PrefabName("prefabs/skitter.yaml"))
	assert.Equal(t, "warden", PrefabName("/abs/prefabs/scripts/warden.tengo"))
	assert.True(t, IsScriptFile("prefabs/scripts/warden.tengo"))
	assert.False(t, IsScriptFile("prefabs/warden.yaml"))
}
