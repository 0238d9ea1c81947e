package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/season-runner/internal/audio"
	"github.com/vovakirdan/season-runner/internal/platform/tui"
	"github.com/vovakirdan/season-runner/internal/runner"
	"github.com/vovakirdan/season-runner/internal/storage"
)

var (
	flagWatchDuration float64
	flagAudio         bool
	flagLogFile       string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Preview a run in the terminal",
	Long: `Preview the generated track top-down while a simulated player runs it.

Each segment is drawn in its season's color, so a season change shows up as
the new color scrolling in. The HUD shows score, cooldowns, the music
crossfade and the environment.

Controls:
  P/Space   - Pause
  +/-       - Faster/slower
  ?         - More keys
  Q/Esc     - Quit

Examples:
  runner watch
  runner watch --audio
  runner watch --seed 42 --duration 60`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().Float64Var(&flagWatchDuration, "duration", 0, "Simulated seconds before the run ends (0 = until quit)")
	watchCmd.Flags().BoolVar(&flagAudio, "audio", false, "Play season music through the speaker")
	watchCmd.Flags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file while the preview runs")
}

func runWatch(_ *cobra.Command, _ []string) error {
	// Logging to stderr would draw over the preview
	var logOut io.Writer = io.Discard
	if flagLogFile != "" {
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logger := newLogger(logOut)

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width, height = w, h
	}
	rc := runtimeConfig(width, height)

	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open runs database", "error", err)
		store = nil
	} else {
		defer store.Close()
	}

	settings := storage.DefaultSettings()
	if store != nil {
		if st, stErr := store.Settings(); stErr == nil {
			settings = st
		}
	}

	out := openOutput(logger, flagAudio, cfg.Audio.SampleRate, cfg.Audio.BufferMillis)
	var fx tui.Effects
	if out != nil {
		defer out.Close()
		fx = out.NewEffects(settings.SFXVolume)
	}

	run, err := runner.New(runner.Options{
		Config: cfg,
		Seed:   rc.Seed,
		Bank:   audio.NewSeasonBank(cfg.Seasons, out, settings.BGMVolume),
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("creating runner: %w", err)
	}

	sum, err := tui.Run(run, store, rc, flagWatchDuration, fx, logger)
	if err != nil {
		return fmt.Errorf("running preview: %w", err)
	}

	fmt.Printf("Score %.0f, %.0fm, season %s (seed %d)\n", sum.Score, sum.Distance, sum.Name, sum.Seed)
	return nil
}

// openOutput opens the speaker when enabled. Without a speaker the music
// channels run silently.
func openOutput(logger *log.Logger, enabled bool, sampleRate, bufferMillis int) *audio.Output {
	if !enabled {
		return nil
	}
	out := audio.NewOutput(sampleRate)
	if err := out.Open(bufferMillis); err != nil {
		logger.Warn("audio unavailable, continuing without sound", "error", err)
		return nil
	}
	return out
}
