package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tally/internal/app"
	"tally/internal/config"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	doneStyle  = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle  = lipgloss.NewStyle().Faint(true)
)

type Model struct {
	app     *app.App
	cfg     config.Config
	input   textinput.Model
	status  string
	history []string
	cursor  int
	done    bool
}

func New(a *app.App, cfg config.Config) Model {
	ti := textinput.New()
	ti.Placeholder = "todo read book"
	ti.CharLimit = 256
	ti.Width = 40
	ti.Focus()

	status := app.Welcome
	if n := a.Notice(); n != "" {
		status += "\n" + n
	}
	return Model{
		app:    a,
		cfg:    cfg,
		input:  ti,
		status: status,
	}
}

func Run(a *app.App, cfg config.Config) error {
	program := tea.NewProgram(New(a, cfg))
	_, err := program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.input.Width = msg.Width - 10
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", m.cfg.Keys.Quit:
		m.done = true
		return m, tea.Quit
	case m.cfg.Keys.Cancel:
		m.input.SetValue("")
		m.cursor = len(m.history)
		return m, nil
	case m.cfg.Keys.Confirm:
		return m.submit()
	case m.cfg.Keys.HistoryUp:
		if len(m.history) == 0 {
			return m, nil
		}
		m.cursor = clampCursor(m.cursor-1, len(m.history))
		m.input.SetValue(m.history[m.cursor])
		m.input.CursorEnd()
		return m, nil
	case m.cfg.Keys.HistoryDown:
		if m.cursor >= len(m.history)-1 {
			m.cursor = len(m.history)
			m.input.SetValue("")
			return m, nil
		}
		m.cursor = clampCursor(m.cursor+1, len(m.history))
		m.input.SetValue(m.history[m.cursor])
		m.input.CursorEnd()
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	line := strings.TrimSpace(m.input.Value())
	if line == "" {
		return m, nil
	}
	m.history = append(m.history, line)
	m.cursor = len(m.history)
	m.input.SetValue("")

	out, exit := m.app.Handle(line)
	m.status = out
	if exit {
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Tally"))
	b.WriteString("\n\n")

	tasks := m.app.Tasks()
	if len(tasks) == 0 {
		b.WriteString("No tasks yet. Try: todo read book")
		b.WriteString("\n")
	}
	for i, t := range tasks {
		line := fmt.Sprintf("%d. %s", i+1, t.Display())
		if t.Done() {
			line = doneStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	for _, l := range strings.Split(m.status, "\n") {
		if strings.HasPrefix(l, "Error: ") {
			l = errStyle.Render(l)
		}
		b.WriteString(l)
		b.WriteString("\n")
	}
	if m.done {
		return b.String()
	}

	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(renderHelp(m.cfg.Keys))
	return b.String()
}

func renderHelp(k config.Keymap) string {
	return helpStyle.Render(fmt.Sprintf("%s run • %s/%s history • %s clear • %s quit",
		k.Confirm, k.HistoryUp, k.HistoryDown, k.Cancel, k.Quit))
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
