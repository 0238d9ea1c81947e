package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestEmbeddedDefaultsAreValid(t *testing.T) {
	var cfg Config
	require.NoError(t, yaml.Unmarshal(DefaultYAML(), &cfg))
	require.NoError(t, Validate(cfg))

	assert.Equal(t, 10, cfg.Track.LookaheadSegments)
	assert.Equal(t, 4, cfg.Track.InitialSegmentsWithoutObstacles)
	assert.Equal(t, Vec3{Z: -5}, cfg.Track.StartPoint)
	assert.Equal(t, 0.1, cfg.Content.RareCollectableChance)
	assert.Equal(t, 1.0, cfg.Audio.FadeDuration)
	assert.Equal(t, []float64{500, 1500, 3000}, cfg.Seasons.Thresholds)
	require.Len(t, cfg.Seasons.Palettes, 4)

	names := []string{}
	for _, p := range cfg.Seasons.Palettes {
		names = append(names, p.Name)
		require.NotEmpty(t, p.Segments)
	}
	assert.Equal(t, []string{"default", "summer", "autumn", "winter"}, names)

	// Aliased shapes expand into full segment definitions.
	straight := cfg.Seasons.Palettes[1].Segments[0]
	assert.Equal(t, "straight", straight.Name)
	assert.Len(t, straight.Anchors, 6)
}

func TestHardcodedDefaultsAreValid(t *testing.T) {
	require.NoError(t, Validate(DefaultConfig()))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		code   string
	}{
		{"empty obstacle group", func(c *Config) { c.Seasons.Palettes[2].Obstacles = nil }, CodeEmptyObstacles},
		{"thresholds equal", func(c *Config) { c.Seasons.Thresholds = []float64{100, 100, 300} }, CodeThresholdOrder},
		{"thresholds decreasing", func(c *Config) { c.Seasons.Thresholds = []float64{300, 200, 100} }, CodeThresholdOrder},
		{"too few palettes", func(c *Config) { c.Seasons.Palettes = c.Seasons.Palettes[:3] }, CodePaletteCount},
		{"rare chance above one", func(c *Config) { c.Content.RareCollectableChance = 1.5 }, CodeChanceRange},
		{"negative powerup chance", func(c *Config) { c.Content.PowerupChance = -0.1 }, CodeChanceRange},
		{"negative cooldown", func(c *Config) { c.Content.RareCollectableCooldown = -1 }, CodeNegativeDuration},
		{"negative fade", func(c *Config) { c.Audio.FadeDuration = -1 }, CodeNegativeDuration},
		{"zero lookahead", func(c *Config) { c.Track.LookaheadSegments = 0 }, CodeLookahead},
		{"palette without segments", func(c *Config) { c.Seasons.Palettes[0].Segments = nil }, CodeNoSegments},
		{"zero length segment", func(c *Config) { c.Seasons.Palettes[0].Segments[0].Exit = Vec3{} }, CodeSegmentLength},
		{"powerups missing", func(c *Config) { c.Content.Powerups = nil }, CodeNoPowerups},
		{"duplicate channel", func(c *Config) { c.Seasons.Palettes[3].BGM.Channel = "bgm_default" }, CodeDuplicateChannel},
		{"missing channel", func(c *Config) { c.Seasons.Palettes[1].BGM.Channel = "" }, CodeMissingChannel},
		{"unequal bgm volume", func(c *Config) { c.Seasons.Palettes[1].BGM.Volume = 0.4 }, CodeBGMVolume},
		{"bgm volume above one", func(c *Config) {
			for i := range c.Seasons.Palettes {
				c.Seasons.Palettes[i].BGM.Volume = 1.5
			}
		}, CodeBGMVolume},
		{"missing default collectible", func(c *Config) { c.Content.DefaultCollectible = " " }, CodeMissingCollectible},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := Validate(cfg)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrConfiguration))

			var cerr ConfigurationError
			require.True(t, errors.As(err, &cerr))
			assert.Equal(t, tt.code, cerr.Code)
		})
	}
}

func TestValidateAllowsZeroPowerupChanceWithoutPowerups(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Content.PowerupChance = 0
	cfg.Content.Powerups = nil
	assert.NoError(t, Validate(cfg))
}

func TestValidateAllowsSharedBGMVolume(t *testing.T) {
	cfg := DefaultConfig()
	for i := range cfg.Seasons.Palettes {
		cfg.Seasons.Palettes[i].BGM.Volume = 0.4
	}
	assert.NoError(t, Validate(cfg))
}

func TestLoadCustomPath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Track.LookaheadSegments = 6
	data, err := Marshal(cfg)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 6, loaded.Track.LookaheadSegments)
}

func TestLoadCustomPathErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("track: [unterminated"), 0o644))
	_, err = Load(bad)
	assert.Error(t, err)

	invalidCfg := DefaultConfig()
	invalidCfg.Seasons.Thresholds = []float64{10, 5, 20}
	data, err := Marshal(invalidCfg)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "invalid.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	_, err = Load(path)
	assert.True(t, errors.Is(err, ErrConfiguration))
}

func TestLoadSearchOrder(t *testing.T) {
	home := t.TempDir()
	work := t.TempDir()
	t.Setenv("HOME", home)
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(work))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	// Nothing on disk: embedded defaults.
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Track.LookaheadSegments)

	// Local configs directory overrides the embedded defaults.
	local := DefaultConfig()
	local.Track.LookaheadSegments = 7
	writeConfig(t, filepath.Join(work, "configs", FileName), local)

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Track.LookaheadSegments)

	// User config directory wins over the local one.
	user := DefaultConfig()
	user.Track.LookaheadSegments = 3
	writeConfig(t, filepath.Join(home, ".season-runner", "configs", FileName), user)

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Track.LookaheadSegments)
}

func writeConfig(t *testing.T, path string, cfg Config) {
	t.Helper()
	data, err := Marshal(cfg)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func TestApplyPreset(t *testing.T) {
	cfg := DefaultConfig()
	ApplyPreset(&cfg, DifficultyHard)
	assert.True(t, cfg.Player.Difficulty.Enabled)
	assert.Equal(t, 0.7, cfg.Player.Difficulty.InitialLevel)

	ApplyPreset(&cfg, DifficultyFixed)
	assert.False(t, cfg.Player.Difficulty.Enabled)
}
