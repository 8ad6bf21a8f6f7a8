package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/vovakirdan/poochi/internal/core"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestMapKey(t *testing.T) {
	keys := DefaultKeyMap()

	tests := []struct {
		name string
		msg  tea.KeyMsg
		want core.Key
	}{
		{"arrow left", tea.KeyMsg{Type: tea.KeyLeft}, core.KeyLeft},
		{"a", runeKey('a'), core.KeyLeft},
		{"d", runeKey('d'), core.KeyRight},
		{"arrow up", tea.KeyMsg{Type: tea.KeyUp}, core.KeyUp},
		{"s", runeKey('s'), core.KeyDown},
		{"space", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, core.KeyJump},
		{"z", runeKey('z'), core.KeyJump},
		{"f", runeKey('f'), core.KeyFire},
		{"esc", tea.KeyMsg{Type: tea.KeyEsc}, core.KeyEscape},
		{"unbound", runeKey('y'), core.KeyNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, keys.MapKey(tt.msg))
		})
	}
}

func TestHeldKeysWindow(t *testing.T) {
	start := time.Unix(1000, 0)
	h := NewHeldKeys(300 * time.Millisecond)

	h.Press(core.KeyRight, start)
	assert.True(t, h.Frame(start.Add(100*time.Millisecond)).Has(core.KeyRight))
	assert.True(t, h.Frame(start.Add(300*time.Millisecond)).Has(core.KeyRight), "held through the window")
	assert.False(t, h.Frame(start.Add(301*time.Millisecond)).Has(core.KeyRight), "released after the window")

	// A repeat refreshes the hold.
	h.Press(core.KeyRight, start.Add(400*time.Millisecond))
	h.Press(core.KeyRight, start.Add(600*time.Millisecond))
	assert.True(t, h.Frame(start.Add(800*time.Millisecond)).Has(core.KeyRight))
}

func TestHeldKeysOppositeReleases(t *testing.T) {
	now := time.Unix(1000, 0)
	h := NewHeldKeys(0)

	h.Press(core.KeyLeft, now)
	h.Press(core.KeyRight, now)
	f := h.Frame(now)
	assert.True(t, f.Has(core.KeyRight))
	assert.False(t, f.Has(core.KeyLeft))
	assert.Equal(t, 1, f.Horizontal())

	h.Press(core.KeyUp, now)
	h.Press(core.KeyDown, now)
	f = h.Frame(now)
	assert.True(t, f.Has(core.KeyDown))
	assert.False(t, f.Has(core.KeyUp))
	assert.True(t, f.Has(core.KeyRight), "vertical press keeps horizontal hold")
}

func TestHeldKeysActionPulse(t *testing.T) {
	now := time.Unix(1000, 0)
	h := NewHeldKeys(DefaultHoldWindow)

	h.Press(core.KeyFire, now)
	h.Press(core.KeyJump, now)
	h.Press(core.KeyNone, now)

	first := h.Frame(now)
	assert.True(t, first.Has(core.KeyFire))
	assert.True(t, first.Has(core.KeyJump))
	assert.False(t, first.Has(core.KeyNone))

	second := h.Frame(now)
	assert.False(t, second.Has(core.KeyFire), "actions last one frame")
	assert.False(t, second.Has(core.KeyJump))
}

func TestHeldKeysRelease(t *testing.T) {
	now := time.Unix(1000, 0)
	h := NewHeldKeys(DefaultHoldWindow)
	h.Press(core.KeyLeft, now)
	h.Press(core.KeyFire, now)

	h.Release()

	f := h.Frame(now)
	assert.False(t, f.Has(core.KeyLeft))
	assert.False(t, f.Has(core.KeyFire))
}

func TestMapKeyToMenuAction(t *testing.T) {
	tests := []struct {
		msg  tea.KeyMsg
		want MenuAction
	}{
		{runeKey('q'), MenuActionQuit},
		{tea.KeyMsg{Type: tea.KeyEsc}, MenuActionQuit},
		{tea.KeyMsg{Type: tea.KeyUp}, MenuActionUp},
		{runeKey('j'), MenuActionDown},
		{tea.KeyMsg{Type: tea.KeyEnter}, MenuActionSelect},
		{tea.KeyMsg{Type: tea.KeyTab}, MenuActionOutcomes},
		{runeKey('x'), MenuActionNone},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, MapKeyToMenuAction(tt.msg), "key %q", tt.msg.String())
	}
}
