package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/poochi/internal/core"
	"github.com/vovakirdan/poochi/internal/registry"
	"github.com/vovakirdan/poochi/internal/storage"
)

// helpRows is the terminal height reserved below the scene for the help bar.
const helpRows = 1

var helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

// Model is the Bubble Tea model for running a battle scene.
type Model struct {
	game         registry.Game
	screen       *core.Screen
	store        *storage.Store
	log          *log.Logger
	config       core.RuntimeConfig // terminal size
	keys         KeyMap
	help         help.Model
	held         *HeldKeys
	gameState    core.GameState
	lastTick     time.Time
	paused       bool
	quitting     bool
	outcomeSaved bool // Whether the outcome has been saved for the current battle
}

// NewModel creates a new Bubble Tea model for the given scene.
// store and logger may be nil.
func NewModel(game registry.Game, store *storage.Store, logger *log.Logger, cfg core.RuntimeConfig) Model {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	m := Model{
		game:   game,
		store:  store,
		log:    logger,
		config: cfg,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		held:   NewHeldKeys(DefaultHoldWindow),
	}
	m.help.Width = cfg.ScreenW
	sc := m.sceneConfig()
	m.screen = core.NewScreen(sc.ScreenW, sc.ScreenH)
	return m
}

// sceneConfig is the runtime config handed to the scene: the terminal
// minus the help bar.
func (m Model) sceneConfig() core.RuntimeConfig {
	sc := m.config
	sc.ScreenH = max(sc.ScreenH-helpRows, 1)
	return sc
}

// Init initializes the model and starts the scene.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.sceneConfig())
	// Note: gameState will be set on first tick (value receiver limitation)

	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg, time.Now())

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg, at time.Time) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Screenshot):
		m.saveScreenshot()
		return m, nil
	case key.Matches(msg, m.keys.Pause):
		if !m.gameState.GameOver {
			m.paused = !m.paused
			m.held.Release()
		}
		return m, nil
	case key.Matches(msg, m.keys.Restart):
		if m.gameState.GameOver {
			m.restart()
		}
		return m, nil
	}

	if !m.paused {
		m.held.Press(m.keys.MapKey(msg), at)
	}
	return m, nil
}

func (m *Model) restart() {
	m.game.Reset(m.sceneConfig())
	m.gameState = m.game.State()
	m.outcomeSaved = false
	m.held.Release()
	m.log.Debug("battle restarted", "scene", m.game.ID())
}

// handleResize processes window resize events.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	if msg.Width == m.config.ScreenW && msg.Height == m.config.ScreenH {
		return m, nil
	}
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.help.Width = msg.Width
	sc := m.sceneConfig()
	m.screen.Resize(sc.ScreenW, sc.ScreenH)

	// The camera is sized to the screen, so a resize rebuilds the battle.
	if !m.gameState.GameOver {
		m.game.Reset(sc)
		m.gameState = m.game.State()
	}

	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	dt := frameDelta(m.lastTick, now, m.config.FrameDelta())
	m.lastTick = now

	if m.paused {
		return m, tickCmd(m.config.TickRate)
	}

	result := m.game.Step(m.held.Frame(now), dt)
	m.gameState = result.State

	if m.gameState.GameOver && !m.outcomeSaved {
		m.saveOutcome()
		m.outcomeSaved = true
	}

	return m, tickCmd(m.config.TickRate)
}

// saveOutcome records the finished battle. Best-effort: the session
// continues without the log.
func (m *Model) saveOutcome() {
	st := m.gameState
	if m.store == nil || st.Outcome == "" {
		return
	}
	_, err := m.store.SaveOutcome(storage.Outcome{
		SceneID:  m.game.ID(),
		Result:   st.Outcome,
		Duration: st.Elapsed,
		Defeated: st.Score,
	})
	if err != nil {
		m.log.Warn("could not save outcome", "error", err)
	}
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.screen.Clear()
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".poochi", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.log.Warn("could not create screenshot directory", "error", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.log.Warn("could not save screenshot", "error", err)
		return
	}
	m.log.Info("screenshot saved", "path", path)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.screen.Clear()
	m.game.Render(m.screen)
	if m.paused {
		m.screen.DrawTextCentered(m.screen.Height()/2, " PAUSED ")
	}

	return RenderScreen(m.screen) + "\n" + helpStyle.Render(m.help.View(m.keys))
}

// State returns the last scene state seen by the model.
func (m Model) State() core.GameState {
	return m.gameState
}

// Run starts the Bubble Tea program for game.
func Run(game registry.Game, store *storage.Store, logger *log.Logger, cfg core.RuntimeConfig) (core.GameState, error) {
	model := NewModel(game, store, logger, cfg)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	final, err := p.Run()
	if err != nil {
		return core.GameState{}, err
	}
	if fm, ok := final.(Model); ok {
		return fm.State(), nil
	}
	return core.GameState{}, nil
}
