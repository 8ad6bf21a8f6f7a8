package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/poochi/internal/battle"
	"github.com/vovakirdan/poochi/internal/core"
	"github.com/vovakirdan/poochi/internal/platform/tui"
	"github.com/vovakirdan/poochi/internal/registry"
	"github.com/vovakirdan/poochi/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play <battle>",
	Short: "Fight a battle",
	Long: `Start the specified battle.

Controls:
  Left/Right, A/D   - Walk
  Space/Z           - Jump
  F/X               - Fire
  Esc               - Retreat
  P                 - Pause
  R                 - Fight again (after the battle ends)
  Q/Ctrl+C          - Quit

Difficulty options:
  easy   - Slower enemies, faster shots, enemies notice you later
  normal - The level as configured
  hard   - Faster enemies, slower shots, enemies notice you sooner

Examples:
  poochi play battle_1
  poochi play battle_2 --difficulty easy
  poochi play battle_3 --config ./my-battle.yaml`,
	Args: cobra.ExactArgs(1),
	Run:  runPlay,
}

func runPlay(cmd *cobra.Command, args []string) {
	sceneID := args[0]

	if !registry.Exists(sceneID) {
		fatalf("unknown battle %q\nRun 'poochi list' to see available battles.", sceneID)
	}

	store := openStore()
	state, err := fight(sceneID, terminalConfig(), store)

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if err != nil {
		fatalf("%v", err)
	}
	printOutcome(state)
}

// terminalConfig sizes the scene to the current terminal.
func terminalConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
	}
}

// openStore opens the outcome log. Battles still work without it.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open outcomes database: %v\n", err)
		logger.Warn("continuing without outcome log", "path", flagDBPath, "error", err)
		return nil
	}
	return store
}

// fight creates the scene, hooks up its world switch and runs it until
// the player quits.
func fight(sceneID string, cfg core.RuntimeConfig, store *storage.Store) (core.GameState, error) {
	game, err := registry.Create(sceneID)
	if err != nil {
		return core.GameState{}, fmt.Errorf("creating battle: %w", err)
	}

	if sc, ok := game.(*battle.Scene); ok {
		sc.SetController(battle.ControllerFunc(func(reason battle.SwitchReason) {
			logger.Info("leaving battle", "scene", sceneID, "reason", reason)
		}))
	}

	state, err := tui.Run(game, store, logger, cfg)
	if err != nil {
		return state, fmt.Errorf("running battle: %w", err)
	}
	return state, nil
}

// printOutcome reports how the last battle ended.
func printOutcome(st core.GameState) {
	switch st.Outcome {
	case storage.ResultWon:
		fmt.Printf("Victory in %.1fs, defeated %d/%d.\n", st.Elapsed, st.Score, st.Targets)
	case storage.ResultRetreat:
		fmt.Printf("Retreated after %.1fs, defeated %d/%d.\n", st.Elapsed, st.Score, st.Targets)
	}
}
