package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/poochi/internal/core"
)

// DefaultHoldWindow is how long a key counts as held after the terminal
// last reported it. Terminals send repeats, never releases.
const DefaultHoldWindow = 300 * time.Millisecond

// KeyMap defines the battle key bindings.
type KeyMap struct {
	Left       key.Binding
	Right      key.Binding
	Up         key.Binding
	Down       key.Binding
	Jump       key.Binding
	Fire       key.Binding
	Escape     key.Binding
	Pause      key.Binding
	Restart    key.Binding
	Screenshot key.Binding
	Quit       key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Jump, k.Fire, k.Escape, k.Pause, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down},
		{k.Jump, k.Fire, k.Escape},
		{k.Pause, k.Restart, k.Screenshot, k.Quit},
	}
}

// DefaultKeyMap returns default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Left: key.NewBinding(
			key.WithKeys("left", "a", "h"),
			key.WithHelp("←/a", "walk left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "d", "l"),
			key.WithHelp("→/d", "walk right"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "w", "k"),
			key.WithHelp("↑/w", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "s", "j"),
			key.WithHelp("↓/s", "down"),
		),
		Jump: key.NewBinding(
			key.WithKeys(" ", "z"),
			key.WithHelp("space", "jump"),
		),
		Fire: key.NewBinding(
			key.WithKeys("f", "x"),
			key.WithHelp("f", "fire"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "retreat"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pause"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "fight again"),
		),
		Screenshot: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "screenshot"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// MapKey translates a key message to a logical battle key.
// Returns KeyNone for keys that are not battle input.
func (k KeyMap) MapKey(msg tea.KeyMsg) core.Key {
	switch {
	case key.Matches(msg, k.Left):
		return core.KeyLeft
	case key.Matches(msg, k.Right):
		return core.KeyRight
	case key.Matches(msg, k.Up):
		return core.KeyUp
	case key.Matches(msg, k.Down):
		return core.KeyDown
	case key.Matches(msg, k.Jump):
		return core.KeyJump
	case key.Matches(msg, k.Fire):
		return core.KeyFire
	case key.Matches(msg, k.Escape):
		return core.KeyEscape
	}
	return core.KeyNone
}

// HeldKeys turns key press events into per-frame held-key snapshots.
// Directional keys stay held while the terminal keeps repeating them;
// action keys are delivered to exactly one frame per press.
type HeldKeys struct {
	window time.Duration
	seen   map[core.Key]time.Time
	pulse  map[core.Key]bool
}

// NewHeldKeys creates a tracker with the given hold window.
func NewHeldKeys(window time.Duration) *HeldKeys {
	if window <= 0 {
		window = DefaultHoldWindow
	}
	return &HeldKeys{
		window: window,
		seen:   make(map[core.Key]time.Time),
		pulse:  make(map[core.Key]bool),
	}
}

func continuous(k core.Key) bool {
	switch k {
	case core.KeyLeft, core.KeyRight, core.KeyUp, core.KeyDown:
		return true
	}
	return false
}

// opposite returns the key that a press of k releases.
func opposite(k core.Key) core.Key {
	switch k {
	case core.KeyLeft:
		return core.KeyRight
	case core.KeyRight:
		return core.KeyLeft
	case core.KeyUp:
		return core.KeyDown
	case core.KeyDown:
		return core.KeyUp
	}
	return core.KeyNone
}

// Press records that k was reported at time at.
func (h *HeldKeys) Press(k core.Key, at time.Time) {
	if k == core.KeyNone {
		return
	}
	if !continuous(k) {
		h.pulse[k] = true
		return
	}
	delete(h.seen, opposite(k))
	h.seen[k] = at
}

// Frame returns the keys held at now and consumes pending action presses.
func (h *HeldKeys) Frame(now time.Time) core.InputFrame {
	frame := core.NewInputFrame()
	for k, at := range h.seen {
		if now.Sub(at) > h.window {
			delete(h.seen, k)
			continue
		}
		frame.Set(k)
	}
	for k := range h.pulse {
		frame.Set(k)
		delete(h.pulse, k)
	}
	return frame
}

// Release forgets every key.
func (h *HeldKeys) Release() {
	clear(h.seen)
	clear(h.pulse)
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionOutcomes
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "tab":
		return MenuActionOutcomes
	}

	return MenuActionNone
}
