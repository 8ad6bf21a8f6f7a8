package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/poochi/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available battles",
	Long:  `Shows a list of all battles built from the embedded levels.`,
	Run:   runList,
}

func runList(cmd *cobra.Command, args []string) {
	scenes := registry.List()

	if len(scenes) == 0 {
		fmt.Println("No battles available.")
		return
	}

	fmt.Println("Available battles:")
	fmt.Println()

	maxIDLen := 2 // "ID" header
	for _, sc := range scenes {
		maxIDLen = max(maxIDLen, len(sc.ID))
	}

	fmt.Printf("  %-*s  %s\n", maxIDLen, "ID", "Title")
	fmt.Printf("  %-*s  %s\n", maxIDLen, "--", "-----")

	for _, sc := range scenes {
		fmt.Printf("  %-*s  %s\n", maxIDLen, sc.ID, sc.Title)
	}

	fmt.Println()
	fmt.Println("Run 'poochi play <id>' to fight a battle.")
}
