package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/poochi/internal/registry"
	"github.com/vovakirdan/poochi/internal/storage"
)

var (
	flagLimit int
	flagClear bool
)

var outcomesCmd = &cobra.Command{
	Use:   "outcomes [battle]",
	Short: "Show finished battles",
	Long: `Display the most recent outcomes, for one battle or all of them.

Examples:
  poochi outcomes
  poochi outcomes battle_1 --limit 20
  poochi outcomes battle_1 --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runOutcomes,
}

func init() {
	outcomesCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of outcomes to show")
	outcomesCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the recorded outcomes instead")
}

func runOutcomes(cmd *cobra.Command, args []string) {
	sceneID := ""
	title := "all battles"
	if len(args) == 1 {
		sceneID = args[0]
		game, err := registry.Create(sceneID)
		if err != nil {
			fatalf("%v\nRun 'poochi list' to see available battles.", err)
		}
		title = game.Title()
	}

	if flagClear && sceneID == "" {
		fatalf("--clear needs a battle id")
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fatalf("opening outcomes database: %v", err)
	}
	defer store.Close()

	if flagClear {
		if err := store.ClearOutcomes(sceneID); err != nil {
			store.Close()
			fatalf("clearing outcomes: %v", err)
		}
		fmt.Printf("Cleared outcomes for %s.\n", title)
		return
	}

	outcomes, err := store.RecentOutcomes(sceneID, flagLimit)
	if err != nil {
		store.Close()
		fatalf("retrieving outcomes: %v", err)
	}

	fmt.Printf("Outcomes - %s\n", title)
	fmt.Println()

	if len(outcomes) == 0 {
		fmt.Println("No battles recorded yet.")
		return
	}

	fmt.Printf("  %-10s  %-8s  %7s  %8s  %s\n", "Battle", "Result", "Time", "Defeated", "Date")
	fmt.Printf("  %-10s  %-8s  %7s  %8s  %s\n", "------", "------", "----", "--------", "----")

	for _, o := range outcomes {
		fmt.Printf("  %-10s  %-8s  %6.1fs  %8d  %s\n",
			o.SceneID, o.Result, o.Duration, o.Defeated, o.CreatedAt.Format("2006-01-02 15:04"))
	}

	if sceneID != "" {
		if best, ok, err := store.BestTime(sceneID); err == nil && ok {
			fmt.Println()
			fmt.Printf("Fastest win: %.1fs\n", best)
		}
	}
}
