package ui

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/squillaiugis/todo-app/internal/app"
	"github.com/squillaiugis/todo-app/internal/logger"
	"github.com/squillaiugis/todo-app/internal/utils"
	"github.com/squillaiugis/todo-app/models"
)

type boardKeyMap struct {
	Up, Down, Toggle, Delete, Filter, PrevPage, NextPage, Add, Quit key.Binding
}

func (k boardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.Delete, k.Add, k.Filter, k.PrevPage, k.NextPage, k.Quit}
}

func (k boardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var boardKeys = boardKeyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Toggle:   key.NewBinding(key.WithKeys(" ", "x", "enter"), key.WithHelp("space", "toggle")),
	Delete:   key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
	Filter:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "filter")),
	PrevPage: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "prev page")),
	NextPage: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "next page")),
	Add:      key.NewBinding(key.WithKeys("a", "n"), key.WithHelp("a", "add")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// storeChangedMsg is sent when the backing file was changed by another process.
type storeChangedMsg struct{}

// BoardModel is the interactive full-screen task board.
type BoardModel struct {
	app      *app.App
	snap     app.Snapshot
	changes  <-chan struct{}
	cursor   int
	adding   bool
	input    textinput.Model
	priority models.TaskPriority
	help     help.Model
	status   string
	width    int
}

// NewBoardModel creates a board over a bootstrapped app. changes may be nil.
func NewBoardModel(a *app.App, changes <-chan struct{}) BoardModel {
	ti := textinput.New()
	ti.Placeholder = "What needs to be done?"
	ti.CharLimit = 200
	ti.Width = 50

	h := help.New()
	h.Styles.ShortDesc = StyleHelp
	h.Styles.ShortSeparator = StyleHelp

	return BoardModel{
		app:      a,
		snap:     a.Snapshot(),
		changes:  changes,
		input:    ti,
		priority: models.PriorityMedium,
		help:     h,
		width:    80,
	}
}

// RunBoard runs the board until the user quits.
func RunBoard(a *app.App, changes <-chan struct{}) error {
	p := tea.NewProgram(NewBoardModel(a, changes), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("board error: %w", err)
	}
	return nil
}

func waitForChange(changes <-chan struct{}) tea.Cmd {
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return storeChangedMsg{}
	}
}

func (m BoardModel) Init() tea.Cmd {
	return waitForChange(m.changes)
}

func (m BoardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case storeChangedMsg:
		snap, err := m.app.Reload()
		if err != nil {
			// Keep showing the last good state; a malformed file is reported, not dropped.
			slog.Warn("reload after external change failed", "error", err)
			m.status = "reload failed: " + err.Error()
		} else {
			m.setSnapshot(snap)
			m.status = "reloaded changes from disk"
		}
		return m, waitForChange(m.changes)

	case tea.KeyMsg:
		if m.adding {
			return m.updateAdding(msg)
		}
		return m.updateBrowsing(msg)
	}
	return m, nil
}

func (m BoardModel) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	switch {
	case key.Matches(msg, boardKeys.Quit):
		return m, tea.Quit
	case key.Matches(msg, boardKeys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, boardKeys.Down):
		if m.cursor < len(m.snap.Page.Tasks)-1 {
			m.cursor++
		}
	case key.Matches(msg, boardKeys.Toggle):
		if task, ok := m.selected(); ok {
			m.dispatch(app.ToggleTask{ID: task.ID})
		}
	case key.Matches(msg, boardKeys.Delete):
		if task, ok := m.selected(); ok {
			m.dispatch(app.DeleteTask{ID: task.ID})
			m.status = "deleted: " + utils.Truncate(task.Text, 40)
		}
	case key.Matches(msg, boardKeys.Filter):
		m.dispatch(app.SetFilter{Filter: m.snap.Filter.Next()})
		m.cursor = 0
	case key.Matches(msg, boardKeys.PrevPage):
		m.dispatch(app.SetPage{Page: m.snap.Page.Current - 1})
		m.cursor = 0
	case key.Matches(msg, boardKeys.NextPage):
		m.dispatch(app.SetPage{Page: m.snap.Page.Current + 1})
		m.cursor = 0
	case key.Matches(msg, boardKeys.Add):
		m.adding = true
		m.input.Reset()
		cmd := m.input.Focus()
		return m, cmd
	}
	return m, nil
}

func (m BoardModel) updateAdding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.adding = false
		m.input.Blur()
		return m, nil
	case "tab":
		m.priority = m.priority.Next()
		return m, nil
	case "enter":
		text := m.input.Value()
		logger.SetLastInput(text)
		m.adding = false
		m.input.Blur()
		m.input.Reset()
		m.dispatch(app.AddTask{Text: text, Priority: m.priority})
		m.cursor = 0
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// dispatch runs a command and shows any error in the status line.
func (m *BoardModel) dispatch(cmd app.Command) {
	snap, err := m.app.Dispatch(cmd)
	if err != nil {
		slog.Debug("board command failed", "command", fmt.Sprintf("%T", cmd), "error", err)
		m.status = "error: " + err.Error()
		return
	}
	m.setSnapshot(snap)
}

func (m *BoardModel) setSnapshot(snap app.Snapshot) {
	m.snap = snap
	if m.cursor >= len(snap.Page.Tasks) {
		m.cursor = max(0, len(snap.Page.Tasks)-1)
	}
}

func (m BoardModel) selected() (models.Task, bool) {
	tasks := m.snap.Page.Tasks
	if m.cursor < 0 || m.cursor >= len(tasks) {
		return models.Task{}, false
	}
	return tasks[m.cursor], true
}

func (m BoardModel) View() string {
	var b strings.Builder

	counts := m.snap.Counts
	b.WriteString(StyleHeader.Render("To-Do"))
	b.WriteString(StyleSubtle.Render(fmt.Sprintf("%d active · %d completed", counts.Active, counts.Completed)))
	b.WriteString("\n\n  " + FilterTabs(m.snap.Filter) + "\n\n")

	if len(m.snap.Page.Tasks) == 0 {
		b.WriteString("  " + StyleSubtle.Render(emptyMessage(m.snap.Filter)) + "\n")
	}
	textWidth := max(20, m.width-20)
	for i, t := range m.snap.Page.Tasks {
		cursor := "  "
		if i == m.cursor && !m.adding {
			cursor = StyleCursor.Render("▶ ")
		}
		text := utils.Truncate(t.Text, textWidth)
		if t.Completed {
			text = StyleDone.Render(text)
		} else {
			text = StyleText.Render(text)
		}
		badge := PriorityStyle(t.Priority).Render(fmt.Sprintf("%-6s", t.Priority))
		b.WriteString(fmt.Sprintf("%s%s %s  %s\n", cursor, Checkbox(t.Completed), badge, text))
	}

	b.WriteString("\n  " + m.pager() + "\n")

	if m.adding {
		label := fmt.Sprintf("New task · priority %s (tab to change) · enter to save · esc to cancel",
			PriorityStyle(m.priority).Render(string(m.priority)))
		b.WriteString("\n" + StyleSubtle.Render(label) + "\n")
		b.WriteString(StyleInputBox.Render(m.input.View()) + "\n")
	}

	if m.status != "" {
		style := StyleSuccess
		if strings.HasPrefix(m.status, "error") || strings.HasPrefix(m.status, "reload failed") {
			style = StyleError
		}
		b.WriteString("\n" + style.Render(m.status) + "\n")
	}

	if !m.adding {
		b.WriteString("\n" + m.help.View(boardKeys) + "\n")
	}
	return lipgloss.NewStyle().Padding(1, 1).Render(b.String())
}

func (m BoardModel) pager() string {
	p := m.snap.Page
	prev, next := "◀", "▶"
	if !p.HasPrev {
		prev = StyleSubtle.Render(prev)
	} else {
		prev = StylePageMarker.Render(prev)
	}
	if !p.HasNext {
		next = StyleSubtle.Render(next)
	} else {
		next = StylePageMarker.Render(next)
	}
	return fmt.Sprintf("%s %s %s", prev, StyleSubtle.Render(PageFooter(p)), next)
}
