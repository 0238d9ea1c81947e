// runner generates an endless seasonal track and plays it back.
//
// Usage:
//
//	runner simulate          - Run a headless simulation and print the summary
//	runner watch             - Preview a run in the terminal
//	runner serve             - Start SSH server for remote spectators
//	runner scores            - Show the best runs
//	runner settings          - Show or change audio volumes
//	runner config            - Print the effective track configuration
//
// Global flags:
//
//	--fps <rate>           - Set tick rate (default: 60)
//	--seed <value>         - Set RNG seed for reproducible tracks
//	--db <path>            - Set database path (default: ~/.season-runner/runs.db)
//	--config <path>        - Use a custom track config YAML
//	--difficulty <preset>  - Difficulty preset: easy, normal, hard, fixed
//	--log-level <level>    - debug, info, warn, error
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/vovakirdan/season-runner/internal/config"
	"github.com/vovakirdan/season-runner/internal/core"
	"github.com/vovakirdan/season-runner/internal/runner"
	"github.com/vovakirdan/season-runner/internal/storage"
)

const envPrefix = "RUNNER"

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLogLevel   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if runner.IsConfigError(err) {
			fmt.Fprintln(os.Stderr, "Check the file passed to --config; 'runner config' prints a valid one.")
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "runner",
	Short: "Season Runner - procedural seasonal tracks for an endless runner",
	Long: `Season Runner builds an endless track ahead of a runner, fills it with
obstacles, collectibles and power-ups, and switches seasons as the score
crosses thresholds, crossfading the music between them.

Available commands:
  simulate - Run a headless simulation
  watch    - Preview a run in the terminal
  serve    - Start SSH server for remote spectators
  scores   - View the best runs
  settings - Show or change audio volumes
  config   - Print the effective track configuration

Settings are also read from .season-runner.yaml in the home or current
directory and from RUNNER_* environment variables.

Examples:
  runner simulate --seed 42 --duration 300
  runner watch --difficulty hard
  runner serve --ssh :2222
  runner scores`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (simulation steps per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.season-runner/runs.db", "Path to run history database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom track config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(configCmd)
}

// initConfig reads .season-runner.yaml and RUNNER_* variables into unset flags.
func initConfig() {
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
	}
	viper.AddConfigPath(".")
	viper.SetConfigType("yaml")
	viper.SetConfigName(".season-runner")

	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	bindFlags(rootCmd, viper.GetViper())
	for _, cmd := range rootCmd.Commands() {
		bindFlags(cmd, viper.GetViper())
	}
}

// bindFlags applies config file and environment values to flags the user
// did not set on the command line.
func bindFlags(cmd *cobra.Command, v *viper.Viper) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		// Environment variables can't have dashes, e.g. --log-level reads RUNNER_LOG_LEVEL
		if strings.Contains(f.Name, "-") {
			envVarSuffix := strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
			if err := v.BindEnv(f.Name, fmt.Sprintf("%s_%s", envPrefix, envVarSuffix)); err != nil {
				fmt.Fprintf(os.Stderr, "Could not bind env var %s: %v\n", f.Name, err)
			}
		}
		if !f.Changed && v.IsSet(f.Name) {
			val := v.Get(f.Name)
			if err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val)); err != nil {
				fmt.Fprintf(os.Stderr, "Could not set flag value for %s: %v\n", f.Name, err)
			}
		}
	})
}

// newLogger creates the command logger writing to w at --log-level.
func newLogger(w io.Writer) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "runner",
	})
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", flagLogLevel)
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// loadConfig loads the track configuration and applies --difficulty.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}

	switch preset := config.DifficultyPreset(flagDifficulty); preset {
	case "":
	case config.DifficultyEasy, config.DifficultyNormal, config.DifficultyHard, config.DifficultyFixed:
		config.ApplyPreset(&cfg, preset)
	default:
		return cfg, fmt.Errorf("unknown difficulty %q (want easy, normal, hard or fixed)", flagDifficulty)
	}
	return cfg, nil
}

// runtimeConfig returns the tick rate and resolved seed for a run.
func runtimeConfig(width, height int) core.RuntimeConfig {
	rc := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
	rc.Seed = rc.ResolveSeed()
	return rc
}

// audioSettings returns the stored volumes, or defaults when the database
// is unavailable.
func audioSettings(logger *log.Logger) storage.Settings {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open runs database", "error", err)
		return storage.DefaultSettings()
	}
	defer store.Close()

	st, err := store.Settings()
	if err != nil {
		logger.Warn("could not read settings", "error", err)
		return storage.DefaultSettings()
	}
	return st
}
