package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// ErrConfiguration matches every ConfigurationError via errors.Is.
var ErrConfiguration = errors.New("configuration error")

// ConfigurationError contains details about an invalid configuration.
// It is fatal at load time.
type ConfigurationError struct {
	Code    string
	Message string
}

func (e ConfigurationError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Is reports whether target is ErrConfiguration.
func (e ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// Configuration error codes.
const (
	CodeEmptyObstacles     = "EMPTY_OBSTACLE_GROUP"
	CodeThresholdOrder     = "THRESHOLDS_NOT_INCREASING"
	CodePaletteCount       = "MISSING_PALETTE"
	CodeChanceRange        = "CHANCE_OUT_OF_RANGE"
	CodeNegativeDuration   = "NEGATIVE_DURATION"
	CodeLookahead          = "INVALID_LOOKAHEAD"
	CodeNoSegments         = "NO_SEGMENTS"
	CodeSegmentLength      = "ZERO_LENGTH_SEGMENT"
	CodeNoPowerups         = "NO_POWERUPS"
	CodeDuplicateChannel   = "DUPLICATE_CHANNEL"
	CodeMissingChannel     = "MISSING_CHANNEL"
	CodeMissingCollectible = "MISSING_COLLECTIBLE"
	CodeBGMVolume          = "BGM_VOLUME_MISMATCH"
)

func invalid(code, format string, args ...any) error {
	return ConfigurationError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Validate checks cfg and returns the first ConfigurationError found.
// Checks:
//   - look-ahead is at least one segment; counts and durations are not negative
//   - chances lie in [0, 1]
//   - thresholds strictly increase and every season has a palette
//   - every palette has segments of non-zero length and a non-empty obstacle group
//   - BGM channel names are present and unique
//   - every palette shares one BGM volume in [0, 1]; a crossfade fades the
//     incoming track up to the outgoing track's volume
func Validate(cfg Config) error {
	if err := validateTrack(cfg.Track); err != nil {
		return err
	}
	if err := validateContent(cfg.Content); err != nil {
		return err
	}
	if cfg.Audio.FadeDuration < 0 {
		return invalid(CodeNegativeDuration, "fade_duration must not be negative, got %v", cfg.Audio.FadeDuration)
	}
	return ValidateSeasons(cfg.Seasons)
}

func validateTrack(t TrackConfig) error {
	if t.LookaheadSegments < 1 {
		return invalid(CodeLookahead, "lookahead_segments must be at least 1, got %d", t.LookaheadSegments)
	}
	if t.InitialSegmentsWithoutObstacles < 0 {
		return invalid(CodeLookahead, "initial_segments_without_obstacles must not be negative, got %d", t.InitialSegmentsWithoutObstacles)
	}
	if t.KeepBehind < 0 {
		return invalid(CodeLookahead, "keep_behind must not be negative, got %d", t.KeepBehind)
	}
	return nil
}

func validateContent(c ContentConfig) error {
	if c.RareCollectableChance < 0 || c.RareCollectableChance > 1 {
		return invalid(CodeChanceRange, "rare_collectable_chance must be in [0, 1], got %v", c.RareCollectableChance)
	}
	if c.PowerupChance < 0 || c.PowerupChance > 1 {
		return invalid(CodeChanceRange, "powerup_chance must be in [0, 1], got %v", c.PowerupChance)
	}
	if c.RareCollectableCooldown < 0 {
		return invalid(CodeNegativeDuration, "rare_collectable_cooldown must not be negative, got %v", c.RareCollectableCooldown)
	}
	if c.PowerupCooldownDuration < 0 {
		return invalid(CodeNegativeDuration, "powerup_cooldown_duration must not be negative, got %v", c.PowerupCooldownDuration)
	}
	if strings.TrimSpace(c.DefaultCollectible) == "" {
		return invalid(CodeMissingCollectible, "default_collectible must be set")
	}
	if c.PowerupChance > 0 && len(c.Powerups) == 0 {
		return invalid(CodeNoPowerups, "powerup_chance is %v but no powerups are listed", c.PowerupChance)
	}
	return nil
}

// ValidateSeasons checks the threshold list against the palettes.
func ValidateSeasons(s SeasonsConfig) error {
	for i := 1; i < len(s.Thresholds); i++ {
		if s.Thresholds[i] <= s.Thresholds[i-1] {
			return invalid(CodeThresholdOrder, "thresholds must strictly increase: %v then %v at index %d",
				s.Thresholds[i-1], s.Thresholds[i], i)
		}
	}
	if need := len(s.Thresholds) + 1; len(s.Palettes) < need {
		return invalid(CodePaletteCount, "%d thresholds need %d palettes, got %d", len(s.Thresholds), need, len(s.Palettes))
	}

	for i, p := range s.Palettes {
		if err := validatePalette(i, p); err != nil {
			return err
		}
	}

	channels := lo.Map(s.Palettes, func(p PaletteConfig, _ int) string { return p.BGM.Channel })
	if dups := lo.FindDuplicates(channels); len(dups) > 0 {
		return invalid(CodeDuplicateChannel, "bgm channel %q is used by more than one palette", dups[0])
	}

	base := s.Palettes[0].BGM.Volume
	if base < 0 || base > 1 {
		return invalid(CodeBGMVolume, "palette 0 (%s) bgm volume must be in [0, 1], got %v", s.Palettes[0].Name, base)
	}
	for i, p := range s.Palettes[1:] {
		if p.BGM.Volume != base {
			return invalid(CodeBGMVolume, "palette %d (%s) bgm volume %v differs from palette 0 volume %v",
				i+1, p.Name, p.BGM.Volume, base)
		}
	}
	return nil
}

func validatePalette(i int, p PaletteConfig) error {
	if len(p.Obstacles) == 0 {
		return invalid(CodeEmptyObstacles, "palette %d (%s) has an empty obstacle group", i, p.Name)
	}
	if len(p.Segments) == 0 {
		return invalid(CodeNoSegments, "palette %d (%s) has no segments", i, p.Name)
	}
	for _, seg := range p.Segments {
		if seg.Exit.Vec().Len() <= 0 {
			return invalid(CodeSegmentLength, "palette %d (%s) segment %q has zero length", i, p.Name, seg.Name)
		}
	}
	if strings.TrimSpace(p.BGM.Channel) == "" {
		return invalid(CodeMissingChannel, "palette %d (%s) has no bgm channel", i, p.Name)
	}
	return nil
}
