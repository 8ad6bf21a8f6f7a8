// Package tui provides the Bubble Tea driver for battle scenes.
// It turns ticks into frame deltas, key presses into held-key snapshots,
// and the scene's screen buffer into styled terminal output.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// maxFrameDelta caps dt after a stall so bodies never tunnel through tiles.
const maxFrameDelta = 0.1

// TickMsg is sent to trigger a simulation frame.
type TickMsg time.Time

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(tickRate int) tea.Cmd {
	if tickRate <= 0 {
		tickRate = 60
	}
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// frameDelta returns the seconds between two ticks, falling back to the
// nominal step for the first tick and clamping stalls.
func frameDelta(last, now time.Time, nominal float64) float64 {
	if last.IsZero() || !now.After(last) {
		return nominal
	}
	return min(now.Sub(last).Seconds(), maxFrameDelta)
}
