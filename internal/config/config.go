// Package config provides YAML-based configuration loading, validation and
// difficulty management for the season runner.
package config

import "github.com/vovakirdan/season-runner/internal/core"

// Config contains all configuration for a run.
type Config struct {
	Track   TrackConfig   `yaml:"track"`
	Content ContentConfig `yaml:"content"`
	Audio   AudioConfig   `yaml:"audio"`
	Seasons SeasonsConfig `yaml:"seasons"`
	Player  PlayerConfig  `yaml:"player"`
}

// TrackConfig defines how the track is extended ahead of the player.
type TrackConfig struct {
	LookaheadSegments               int     `yaml:"lookahead_segments"`
	InitialSegmentsWithoutObstacles int     `yaml:"initial_segments_without_obstacles"`
	KeepBehind                      int     `yaml:"keep_behind"` // Segments kept behind the player before release
	StartPoint                      Vec3    `yaml:"start_point"`
	VariantNoiseScale               float64 `yaml:"variant_noise_scale"`
}

// ContentConfig defines the placement probabilities and cooldowns.
type ContentConfig struct {
	RareCollectableChance   float64  `yaml:"rare_collectable_chance"`
	RareCollectableCooldown float64  `yaml:"rare_collectable_cooldown"` // Seconds
	PowerupChance           float64  `yaml:"powerup_chance"`
	PowerupCooldownDuration float64  `yaml:"powerup_cooldown_duration"` // Seconds
	DefaultCollectible      string   `yaml:"default_collectible"`
	Powerups                []string `yaml:"powerups"`
}

// AudioConfig defines crossfade timing and the output device.
type AudioConfig struct {
	FadeDuration float64 `yaml:"fade_duration"` // Seconds per crossfade phase
	SampleRate   int     `yaml:"sample_rate"`
	BufferMillis int     `yaml:"buffer_millis"`
}

// SeasonsConfig lists the score thresholds and one palette per season.
// Palette 0 is the default season; palette i+1 is entered at thresholds[i].
type SeasonsConfig struct {
	Thresholds []float64       `yaml:"thresholds"`
	Palettes   []PaletteConfig `yaml:"palettes"`
}

// PaletteConfig describes one season's content bundle.
type PaletteConfig struct {
	Name            string            `yaml:"name"`
	Color           string            `yaml:"color"` // Preview color name
	Segments        []SegmentConfig   `yaml:"segments"`
	Obstacles       []string          `yaml:"obstacles"`
	RareCollectible string            `yaml:"rare_collectible"`
	Environment     EnvironmentConfig `yaml:"environment"`
	BGM             BGMConfig         `yaml:"bgm"`
}

// SegmentConfig describes a segment variant in its local frame.
// The entry is the local origin; Exit is where the next segment attaches.
type SegmentConfig struct {
	Name    string         `yaml:"name"`
	Exit    Vec3           `yaml:"exit"`
	ExitYaw float64        `yaml:"exit_yaw"` // Degrees
	Anchors []AnchorConfig `yaml:"anchors"`
}

// AnchorConfig is a named point on a segment. Only anchors tagged
// "obstacle" can receive content.
type AnchorConfig struct {
	Name     string `yaml:"name"`
	Tag      string `yaml:"tag"`
	Position Vec3   `yaml:"position"`
}

// EnvironmentConfig is the ambient look of a season.
type EnvironmentConfig struct {
	Skybox  string  `yaml:"skybox"`
	Ambient string  `yaml:"ambient"` // Hex color
	Fog     float64 `yaml:"fog"`
}

// BGMConfig names a season's music channel and how to synthesize it.
type BGMConfig struct {
	Channel string    `yaml:"channel"`
	Volume  float64   `yaml:"volume"`
	BPM     float64   `yaml:"bpm"`
	Notes   []float64 `yaml:"notes"` // Hz, looped; 0 is a rest
}

// PlayerConfig defines the simulated runner that feeds score and progress.
type PlayerConfig struct {
	BaseSpeed        float64          `yaml:"base_speed"` // Units per second
	ScorePerUnit     float64          `yaml:"score_per_unit"`
	CollectibleValue int              `yaml:"collectible_value"`
	RareMultiplier   int              `yaml:"rare_multiplier"`
	Difficulty       DifficultyConfig `yaml:"difficulty"`
}

// Vec3 is a YAML-friendly position.
type Vec3 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// Vec converts to the geometry type.
func (v Vec3) Vec() core.Vec3 {
	return core.V3(v.X, v.Y, v.Z)
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over a run.
type ProgressionConfig struct {
	Type  string  `yaml:"type"`   // "score", "time", or "none"
	MaxAt float64 `yaml:"max_at"` // Score or seconds at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier float64 `yaml:"speed_multiplier"` // Multiplier added to speed at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}

// ApplyPreset modifies the player difficulty based on a preset.
func ApplyPreset(cfg *Config, preset DifficultyPreset) {
	if IsFixedPreset(preset) {
		cfg.Player.Difficulty.Enabled = false
		return
	}
	cfg.Player.Difficulty.Enabled = true
	cfg.Player.Difficulty.InitialLevel = InitialLevelForPreset(preset)
}
