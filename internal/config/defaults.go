package config

import (
	_ "embed"
)

//go:embed defaults/runner.yaml
var defaultRunnerYAML []byte

// DefaultYAML returns the embedded default configuration document.
func DefaultYAML() []byte {
	return defaultRunnerYAML
}

// DefaultConfig returns the hard-coded configuration used when the embedded
// document cannot be parsed. It mirrors defaults/runner.yaml with a single
// straight segment shape per season.
func DefaultConfig() Config {
	return Config{
		Track: TrackConfig{
			LookaheadSegments:               10,
			InitialSegmentsWithoutObstacles: 4,
			KeepBehind:                      2,
			StartPoint:                      Vec3{Z: -5},
			VariantNoiseScale:               0.35,
		},
		Content: ContentConfig{
			RareCollectableChance:   0.1,
			RareCollectableCooldown: 10,
			PowerupChance:           0.3,
			PowerupCooldownDuration: 3,
			DefaultCollectible:      "coin",
			Powerups:                []string{"magnet", "shield", "boost"},
		},
		Audio: AudioConfig{
			FadeDuration: 1.0,
			SampleRate:   44100,
			BufferMillis: 100,
		},
		Seasons: SeasonsConfig{
			Thresholds: []float64{500, 1500, 3000},
			Palettes: []PaletteConfig{
				defaultPalette("default", "green", "bgm_default", "gem", "clear_day", "#9fd3ff", 0,
					[]string{"barrier", "crate", "cone"}),
				defaultPalette("summer", "bright_yellow", "bgm_summer", "seashell", "sunny", "#ffe08a", 0,
					[]string{"sandcastle", "beach_ball", "parasol"}),
				defaultPalette("autumn", "orange", "bgm_autumn", "golden_acorn", "overcast", "#d9822b", 0.2,
					[]string{"log", "leaf_pile", "pumpkin"}),
				defaultPalette("winter", "bright_cyan", "bgm_winter", "snowflake", "snowfall", "#dff6ff", 0.5,
					[]string{"snowman", "ice_block", "sled"}),
			},
		},
		Player: PlayerConfig{
			BaseSpeed:        12,
			ScorePerUnit:     1,
			CollectibleValue: 10,
			RareMultiplier:   5,
			Difficulty: DifficultyConfig{
				Enabled:      true,
				InitialLevel: 0.0,
				Progression: ProgressionConfig{
					Type:  "score",
					MaxAt: 4000,
				},
				Scaling: ScalingConfig{
					SpeedMultiplier: 1.5,
				},
			},
		},
	}
}

func defaultPalette(name, color, channel, rare, skybox, ambient string, fog float64, obstacles []string) PaletteConfig {
	return PaletteConfig{
		Name:  name,
		Color: color,
		Segments: []SegmentConfig{{
			Name: "straight",
			Exit: Vec3{Z: 10},
			Anchors: []AnchorConfig{
				{Name: "left_near", Tag: "obstacle", Position: Vec3{X: -2, Z: 3}},
				{Name: "mid_near", Tag: "obstacle", Position: Vec3{Z: 3}},
				{Name: "right_near", Tag: "obstacle", Position: Vec3{X: 2, Z: 3}},
				{Name: "left_far", Tag: "obstacle", Position: Vec3{X: -2, Z: 7}},
				{Name: "right_far", Tag: "obstacle", Position: Vec3{X: 2, Z: 7}},
			},
		}},
		Obstacles:       obstacles,
		RareCollectible: rare,
		Environment:     EnvironmentConfig{Skybox: skybox, Ambient: ambient, Fog: fog},
		BGM: BGMConfig{
			Channel: channel,
			Volume:  0.8,
			BPM:     120,
			Notes:   []float64{261.63, 329.63, 392.00, 0},
		},
	}
}
