package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/poochi/internal/registry"
	"github.com/vovakirdan/poochi/internal/storage"
)

// Outcome view layout constants
const (
	minWidthForSidebar = 80  // Minimum width to show the scene list sidebar
	sidebarWidth       = 24  // Width of the scene list sidebar
	maxOutcomes        = 100 // Max outcomes to load
)

// OutcomesKeyMap defines the key bindings for the outcome log.
type OutcomesKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	NextScene key.Binding
	PrevScene key.Binding
	Back      key.Binding
	Quit      key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k OutcomesKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextScene, k.PrevScene, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k OutcomesKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextScene, k.PrevScene},
		{k.Back, k.Quit},
	}
}

// DefaultOutcomesKeyMap returns default key bindings.
func DefaultOutcomesKeyMap() OutcomesKeyMap {
	return OutcomesKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextScene: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next battle"),
		),
		PrevScene: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev battle"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// OutcomesModel is the Bubble Tea model for the outcome log screen.
type OutcomesModel struct {
	scenes      []registry.GameInfo
	cursor      int
	store       *storage.Store
	outcomes    []storage.Outcome
	table       table.Model
	help        help.Model
	keys        OutcomesKeyMap
	width       int
	height      int
	quitting    bool
	goingBack   bool // True if user pressed back (not quit)
	showSidebar bool
}

// NewOutcomesModel creates a new outcome log model.
func NewOutcomesModel(store *storage.Store, width, height int) OutcomesModel {
	m := OutcomesModel{
		scenes:      registry.List(),
		store:       store,
		keys:        DefaultOutcomesKeyMap(),
		help:        help.New(),
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}
	m.table = m.createTable()
	if len(m.scenes) > 0 {
		m.loadOutcomes(m.scenes[0].ID)
	}
	return m
}

// createTable creates a new table sized to the window.
func (m *OutcomesModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Result", Width: 9},
		{Title: "Time", Width: 8},
		{Title: "Defeated", Width: 9},
		{Title: "Date", Width: 14},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)), // Leave room for header, help, and margins
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// loadOutcomes loads the log of the given scene.
func (m *OutcomesModel) loadOutcomes(sceneID string) {
	m.outcomes = nil
	if m.store != nil {
		if out, err := m.store.RecentOutcomes(sceneID, maxOutcomes); err == nil {
			m.outcomes = out
		}
	}
	m.table.SetRows(outcomeRows(m.outcomes))
	m.table.GotoTop()
}

// outcomeRows formats outcomes for the table, newest first.
func outcomeRows(outcomes []storage.Outcome) []table.Row {
	rows := make([]table.Row, len(outcomes))
	for i, o := range outcomes {
		rows[i] = table.Row{
			fmt.Sprintf("%d", len(outcomes)-i),
			o.Result,
			fmt.Sprintf("%.1fs", o.Duration),
			fmt.Sprintf("%d", o.Defeated),
			o.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	return rows
}

// Init initializes the outcome log model.
func (m OutcomesModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the outcome log.
func (m OutcomesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextScene):
			if len(m.scenes) > 0 {
				m.cursor = (m.cursor + 1) % len(m.scenes)
				m.loadOutcomes(m.scenes[m.cursor].ID)
			}
			return m, nil

		case key.Matches(msg, m.keys.PrevScene):
			if len(m.scenes) > 0 {
				m.cursor = (m.cursor - 1 + len(m.scenes)) % len(m.scenes)
				m.loadOutcomes(m.scenes[m.cursor].ID)
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.table.SetRows(outcomeRows(m.outcomes))
		m.help.Width = msg.Width
		return m, nil
	}

	// Scrolling and everything else goes to the table
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the outcome log.
func (m OutcomesModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	title := "BATTLE LOG"
	if len(m.scenes) > 0 {
		title = fmt.Sprintf("BATTLE LOG - %s", m.scenes[m.cursor].Title)
	}
	b.WriteString(menuTitleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	content := boxStyle.Render(m.tableContent())

	if m.showSidebar {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.sidebar(), "  ", content))
	} else {
		b.WriteString(centerText(fmt.Sprintf("< %s >", m.currentTitle()), m.width))
		b.WriteString("\n\n")
		b.WriteString(content)
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

func (m OutcomesModel) currentTitle() string {
	if len(m.scenes) == 0 {
		return ""
	}
	return m.scenes[m.cursor].Title
}

// sidebar renders the scene list.
func (m OutcomesModel) sidebar() string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth).
		Padding(0, 1)

	var sb strings.Builder
	sb.WriteString("Battles\n")
	sb.WriteString(strings.Repeat("-", sidebarWidth-4))
	sb.WriteString("\n")
	for i, sc := range m.scenes {
		line := "  " + sc.Title
		if i == m.cursor {
			line = menuCursorStyle.Render("> " + sc.Title)
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return style.Render(sb.String())
}

// tableContent renders the table or an empty message.
func (m OutcomesModel) tableContent() string {
	if len(m.outcomes) == 0 {
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4).
			Render("No battles recorded yet.")
	}
	return m.table.View()
}

// RunOutcomes runs the outcome log screen.
// Returns true if user wants to go back to the menu, false if quitting.
func RunOutcomes(store *storage.Store, width, height int) (goBack bool, err error) {
	p := tea.NewProgram(
		NewOutcomesModel(store, width, height),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(OutcomesModel)
	if !ok {
		return false, nil
	}
	return m.goingBack, nil
}
