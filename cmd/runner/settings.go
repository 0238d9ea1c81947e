package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/season-runner/internal/storage"
)

var (
	flagBGMVolume float64
	flagSFXVolume float64
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change audio volumes",
	Long: `Show the stored audio volumes, or change them with --bgm and --sfx.

Volumes lie in [0, 1] and default to 1. The music volume scales every
season's configured channel volume. The effect volume sets the pickup
chimes played by 'runner watch --audio'.

Examples:
  runner settings
  runner settings --bgm 0.5
  runner settings --bgm 0.8 --sfx 0.3`,
	Args: cobra.NoArgs,
	RunE: runSettings,
}

func init() {
	settingsCmd.Flags().Float64Var(&flagBGMVolume, "bgm", 1, "Music volume in [0, 1]")
	settingsCmd.Flags().Float64Var(&flagSFXVolume, "sfx", 1, "Sound effect volume in [0, 1]")
}

func runSettings(cmd *cobra.Command, _ []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening runs database: %w", err)
	}
	defer store.Close()

	st, err := store.Settings()
	if err != nil {
		return fmt.Errorf("reading settings: %w", err)
	}

	changed := false
	if cmd.Flags().Changed("bgm") {
		st.BGMVolume = flagBGMVolume
		changed = true
	}
	if cmd.Flags().Changed("sfx") {
		st.SFXVolume = flagSFXVolume
		changed = true
	}
	if changed {
		if err := store.SaveSettings(st); err != nil {
			return fmt.Errorf("saving settings: %w", err)
		}
	}

	fmt.Printf("  %-6s %.2f\n", "bgm", st.BGMVolume)
	fmt.Printf("  %-6s %.2f\n", "sfx", st.SFXVolume)
	return nil
}
