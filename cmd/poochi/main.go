// poochi is a side-scrolling battle arena played in the terminal.
//
// Usage:
//
//	poochi list                - List available battles
//	poochi play <battle>       - Fight a battle
//	poochi menu                - Pick battles interactively
//	poochi outcomes [battle]   - Show the log of finished battles
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--db <path>           - Set database path (default: ~/.poochi/outcomes.db)
//	--config <path>       - Custom battle config YAML
//	--difficulty <name>   - easy, normal or hard
//	--log-file <path>     - Write logs to a file (default: no logs)
//	--log-level <level>   - debug, info, warn or error
//	--cpuprofile <dir>    - Write a CPU profile into dir
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/poochi/internal/battle"
	"github.com/vovakirdan/poochi/internal/config"
)

var (
	// Global flags
	flagFPS        int
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLogFile    string
	flagLogLevel   string
	flagCPUProfile string
)

var logger = log.New(io.Discard)

var (
	logFile  *os.File
	profiler interface{ Stop() }
)

func main() {
	err := rootCmd.Execute()
	shutdown()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "poochi",
	Short: "Poochi - side-scrolling battles in your terminal",
	Long: `Poochi is a terminal battle arena: walk, jump and shoot your way
through a tile level until every enemy is down.

Available commands:
  list       - Show all available battles
  play       - Fight a specific battle directly
  menu       - Interactive battle picker
  outcomes   - View the log of finished battles

Examples:
  poochi list
  poochi play battle_1
  poochi play battle_2 --difficulty hard
  poochi menu --log-file ./poochi.log --log-level debug
  poochi outcomes battle_1`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.poochi/outcomes.db", "Path to outcomes database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom battle config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagCPUProfile, "cpuprofile", "", "Directory for a CPU profile")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(outcomesCmd)
}

// setup wires the global flags into the logger, the profiler and the
// battle package before any command runs.
func setup(_ *cobra.Command, _ []string) error {
	preset, err := config.ParsePreset(flagDifficulty)
	if err != nil {
		return err
	}

	if flagLogFile != "" {
		level, err := log.ParseLevel(flagLogLevel)
		if err != nil {
			return fmt.Errorf("invalid --log-level: %w", err)
		}
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		logFile = f
		// The terminal belongs to Bubble Tea, so logs only go to the file.
		logger = log.NewWithOptions(f, log.Options{
			ReportTimestamp: true,
			Prefix:          "poochi",
			Level:           level,
		})
	}

	if flagCPUProfile != "" {
		profiler = profile.Start(
			profile.CPUProfile,
			profile.ProfilePath(flagCPUProfile),
			profile.NoShutdownHook,
			profile.Quiet,
		)
	}

	battle.SetLogger(logger)
	battle.SetConfigPath(flagConfig)
	battle.SetDifficultyPreset(preset)
	return nil
}

// shutdown flushes the profile and closes the log file.
func shutdown() {
	if profiler != nil {
		profiler.Stop()
		profiler = nil
	}
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}

// fatalf prints an error and exits, flushing what setup opened.
func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	shutdown()
	os.Exit(1)
}
