package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/season-runner/internal/platform/tui"
	"github.com/vovakirdan/season-runner/internal/storage"
)

var (
	flagScoresTUI bool
	flagClear     bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the best runs",
	Long: `Display the top 5 runs and overall statistics.

Examples:
  runner scores
  runner scores --tui
  runner scores --clear`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagScoresTUI, "tui", false, "Show an interactive leaderboard")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the run history")
}

func runScores(_ *cobra.Command, _ []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening runs database: %w", err)
	}
	defer store.Close()

	if flagClear {
		if err := store.ClearRuns(); err != nil {
			return fmt.Errorf("clearing runs: %w", err)
		}
		fmt.Println("Run history cleared.")
		return nil
	}

	if flagScoresTUI {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		if err := tui.RunLeaderboard(store, width, height); err != nil {
			return fmt.Errorf("showing leaderboard: %w", err)
		}
		return nil
	}

	runs, err := store.Leaderboard(storage.LeaderboardSize)
	if err != nil {
		return fmt.Errorf("retrieving runs: %w", err)
	}

	fmt.Println("Best Runs")
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Try 'runner simulate' or 'runner watch' to set the first score!")
		return nil
	}

	fmt.Printf("  %-4s  %-10s  %-10s  %-10s  %-20s  %s\n", "Rank", "Score", "Season", "Distance", "Seed", "Date")
	fmt.Printf("  %-4s  %-10s  %-10s  %-10s  %-20s  %s\n", "----", "-----", "------", "--------", "----", "----")
	for i, r := range runs {
		fmt.Printf("  %-4d  %-10.0f  %-10s  %-10.0f  %-20d  %s\n",
			i+1, r.Score, r.SeasonName, r.Distance, r.Seed, r.CreatedAt.Format("2006-01-02 15:04"))
	}

	stats, err := store.Stats()
	if err == nil {
		fmt.Println()
		fmt.Printf("Best: %.0f  Runs: %d  Average: %.0f  Rares found: %d\n",
			stats.HighScore, stats.Runs, stats.AvgScore, stats.TotalRares)
	}
	return nil
}
