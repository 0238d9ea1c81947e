package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/season-runner/internal/audio"
	"github.com/vovakirdan/season-runner/internal/runner"
	"github.com/vovakirdan/season-runner/internal/storage"
)

var (
	flagDuration float64
	flagNoSave   bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a headless simulation",
	Long: `Run the track generator and season engine without a terminal UI.

A simulated player runs down the track at a difficulty-scaled speed for the
given number of simulated seconds. Season changes and music handovers are
logged; the summary is printed and saved to the run history.

Examples:
  runner simulate
  runner simulate --seed 42 --duration 300
  runner simulate --difficulty hard --no-save`,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().Float64Var(&flagDuration, "duration", 120, "Simulated seconds to run")
	simulateCmd.Flags().BoolVar(&flagNoSave, "no-save", false, "Do not record the run")
}

func runSimulate(_ *cobra.Command, _ []string) error {
	logger := newLogger(os.Stderr)

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	rc := runtimeConfig(0, 0)
	settings := audioSettings(logger)

	run, err := runner.New(runner.Options{
		Config: cfg,
		Seed:   rc.Seed,
		Bank:   audio.NewSeasonBank(cfg.Seasons, nil, settings.BGMVolume),
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("creating runner: %w", err)
	}

	var seasons []runner.SeasonChanged
	dt := rc.TickDuration()
	steps := int(flagDuration * float64(rc.TickRate))

	for _, ev := range run.Start() {
		logEvent(logger, run, ev)
	}
	for range steps {
		for _, ev := range run.Step(dt) {
			logEvent(logger, run, ev)
			if sc, ok := ev.(runner.SeasonChanged); ok {
				seasons = append(seasons, sc)
			}
		}
	}

	sum := run.Finish()
	printSummary(sum, seasons)

	if flagNoSave || sum.Score <= 0 {
		return nil
	}
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open runs database", "error", err)
		return nil
	}
	defer store.Close()
	if _, err := store.SaveRun(sum.Record()); err != nil {
		logger.Warn("could not save run", "error", err)
	}
	return nil
}

// logEvent reports the events worth reading in a headless run.
func logEvent(logger *log.Logger, run *runner.Runner, ev runner.Event) {
	switch e := ev.(type) {
	case runner.SegmentAppended:
		logger.Debug("segment appended", "id", e.Segment.ID, "variant", e.Segment.Variant,
			"items", e.Segment.Placement.Count(), "skipped", e.Segment.Placement.Skipped)
	case runner.SeasonChanged:
		logger.Info("season changed", "from", e.From, "to", e.To, "name", e.Name, "score", int(e.Score))
	case runner.CrossfadeStarted:
		logger.Info("crossfade started", "from", e.From, "to", e.To)
	case runner.CrossfadeFinished:
		logger.Info("crossfade finished", "to", e.To, "tick", run.Ticks())
	case runner.AudioDegraded:
		logger.Warn("music unavailable", "channel", e.Channel, "error", e.Err)
	case runner.ItemCollected:
		if e.Rare {
			logger.Info("rare collected", "variant", e.Variant, "points", e.Points)
		}
	}
}

func printSummary(sum runner.Summary, seasons []runner.SeasonChanged) {
	fmt.Println("Run Summary")
	fmt.Println()
	fmt.Printf("  %-14s %d\n", "Seed", sum.Seed)
	fmt.Printf("  %-14s %.0f\n", "Score", sum.Score)
	fmt.Printf("  %-14s %.0fm\n", "Distance", sum.Distance)
	fmt.Printf("  %-14s %.1fs\n", "Time", sum.Elapsed)
	fmt.Printf("  %-14s %s (%d)\n", "Season", sum.Name, sum.Season)
	fmt.Println()
	fmt.Printf("  %-14s %d (%d without content)\n", "Segments", sum.Stats.Segments, sum.Stats.Skipped)
	fmt.Printf("  %-14s %d\n", "Obstacles", sum.Stats.Obstacles)
	fmt.Printf("  %-14s %d (%d rare)\n", "Collectibles", sum.Stats.Collectibles, sum.Stats.Rares)
	fmt.Printf("  %-14s %d\n", "Power-ups", sum.Stats.PowerUps)
	fmt.Printf("  %-14s %d\n", "Picked up", sum.Stats.Collected)

	if len(seasons) == 0 {
		return
	}
	fmt.Println()
	fmt.Println("  Seasons")
	lines := lo.Map(seasons, func(sc runner.SeasonChanged, _ int) string {
		return fmt.Sprintf("    %6.0f  %s", sc.Score, sc.Name)
	})
	for _, line := range lines {
		fmt.Println(line)
	}
}
