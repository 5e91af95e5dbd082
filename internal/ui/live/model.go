package live

import (
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Model renders a live console UI using Bubble Tea.
type Model struct {
	state        State
	table        table.Model
	updates      <-chan Update
	tickInterval time.Duration
	now          time.Time
	noColor      bool
}

// Options configures the live UI model.
type Options struct {
	NoColor      bool
	TickInterval time.Duration
}

// NewModel constructs a live UI model for an update stream.
func NewModel(updates <-chan Update, opts Options) Model {
	tickInterval := opts.TickInterval
	if tickInterval <= 0 {
		tickInterval = 200 * time.Millisecond
	}
	t := table.New(
		table.WithColumns(defaultColumns()),
		table.WithRows([]table.Row{}),
		table.WithFocused(false),
	)
	t.SetStyles(tableStyles(opts.NoColor))
	return Model{
		state:        State{StartedAt: time.Now()},
		table:        t,
		updates:      updates,
		tickInterval: tickInterval,
		now:          time.Now(),
		noColor:      opts.NoColor,
	}
}

// Init starts ticking and waits for the first update.
func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForUpdate(m.updates), tick(m.tickInterval))
}

// Update consumes session updates and timer ticks.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.table.SetWidth(typed.Width)
		m.table.SetHeight(max(typed.Height-4, 1))
		m.table.SetColumns(columnsForWidth(typed.Width))
		return m, nil
	case UpdateMsg:
		m.state = Reduce(m.state, typed.Update)
		m.table.SetRows(rowsForState(m.state))
		return m, waitForUpdate(m.updates)
	case tickMsg:
		m.now = time.Time(typed)
		return m, tick(m.tickInterval)
	}
	return m, nil
}

// View renders the live UI.
func (m Model) View() string {
	header := renderHeader(m.state, m.now, m.noColor)
	summary := renderSummary(m.state, m.noColor)
	phaseLine := renderPhaseLine(m.state, m.noColor)
	tableView := m.table.View()
	footer := renderFooter(m.state, m.noColor)
	return lipgloss.JoinVertical(lipgloss.Left, header, summary, phaseLine, tableView, footer)
}

// UpdateMsg wraps a session update for Bubble Tea.
type UpdateMsg struct {
	Update Update
}

// tickMsg carries a clock tick for updates.
type tickMsg time.Time

// waitForUpdate blocks until a session update is available.
func waitForUpdate(updates <-chan Update) tea.Cmd {
	return func() tea.Msg {
		if updates == nil {
			return nil
		}
		update, ok := <-updates
		if !ok {
			return tea.Quit()
		}
		return UpdateMsg{Update: update}
	}
}

// tick emits a periodic tick message.
func tick(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}
