package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/poochi/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with a battle picker menu",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to pick a battle.
After you quit a battle, you return to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Fight
  Tab          - Outcome log
  Q            - Quit

Examples:
  poochi menu
  poochi menu --fps 30
  poochi menu --db ./outcomes.db`,
	Run: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	store := openStore()
	cfg := terminalConfig()

	for {
		menuResult, err := tui.RunMenu(store, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			break
		}

		// Update config with any size changes
		cfg = menuResult.Config

		if menuResult.Quit {
			break
		}

		if menuResult.WantsOutcome {
			goBack, olErr := tui.RunOutcomes(store, cfg.ScreenW, cfg.ScreenH)
			if olErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", olErr)
			}
			if goBack {
				continue
			}
			break
		}

		if menuResult.SceneID == "" {
			break
		}

		if _, err := fight(menuResult.SceneID, cfg, store); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}

		// Loop back to menu
	}

	if store != nil {
		store.Close()
	}
}
