package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type mode int

const (
	modeList mode = iota
	modeAdd
	modeEdit
)

const helpText = "a add · e edit · space toggle · d delete · ↑/↓ move · q quit"

var (
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	helpStyle   = lipgloss.NewStyle().Faint(true)
)

// TUI is the bubbletea model. Key presses become Controller intents; the
// ListView it draws is the Controller's Renderer.
type TUI struct {
	ctrl   *Controller
	view   *ListView
	cursor int
	mode   mode
	input  textinput.Model
	editID string
	status string
}

func NewTUI(ctrl *Controller, view *ListView) TUI {
	ti := textinput.New()
	ti.Placeholder = "Add a new task..."
	ti.CharLimit = 256
	ti.Width = 48

	return TUI{
		ctrl:   ctrl,
		view:   view,
		input:  ti,
		status: "Press 'a' to add a task.",
	}
}

func RunTUI(ctrl *Controller, view *ListView, opts ...tea.ProgramOption) error {
	program := tea.NewProgram(NewTUI(ctrl, view), opts...)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

func (m TUI) Init() tea.Cmd {
	return nil
}

func (m TUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeAdd:
			return m.updateAddMode(msg)
		case modeEdit:
			return m.updateEditMode(msg)
		default:
			return m.updateListMode(msg.String())
		}
	case tea.WindowSizeMsg:
		if msg.Width > 12 {
			m.input.Width = msg.Width - 12
		}
	}
	return m, nil
}

func (m TUI) updateListMode(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q":
		return m, tea.Quit
	case "up", "k":
		m.cursor = clampCursor(m.cursor-1, m.view.Len())
	case "down", "j":
		m.cursor = clampCursor(m.cursor+1, m.view.Len())
	case "a":
		m.mode = modeAdd
		m.input.Reset()
		m.input.Placeholder = "Add a new task..."
		m.status = "Type a title and press Enter"
		cmd := m.input.Focus()
		return m, cmd
	case " ", "x":
		task, _, ok := m.view.ItemAt(m.cursor)
		if !ok {
			return m, nil
		}
		m.ctrl.ToggleComplete(task.ID)
		m.cursor = clampCursor(m.cursor, m.view.Len())
		m.status = "Toggled task"
	case "d":
		task, _, ok := m.view.ItemAt(m.cursor)
		if !ok {
			return m, nil
		}
		m.ctrl.Delete(task.ID)
		m.cursor = clampCursor(m.cursor, m.view.Len())
		m.status = fmt.Sprintf("Deleted %q", task.Title)
	case "e":
		task, list, ok := m.view.ItemAt(m.cursor)
		if !ok {
			return m, nil
		}
		if list == ListCompleted {
			m.status = "Completed tasks cannot be edited"
			return m, nil
		}
		m.ctrl.BeginEdit(task.ID)
		id, value, open := m.view.Editor()
		if !open || id != task.ID {
			return m, nil
		}
		m.mode = modeEdit
		m.editID = id
		m.input.SetValue(value)
		m.input.CursorEnd()
		m.status = "Edit the title; Enter saves, Esc cancels"
		cmd := m.input.Focus()
		return m, cmd
	}
	return m, nil
}

func (m TUI) updateAddMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.leaveInput()
		m.status = "Cancelled"
		return m, nil
	case "enter":
		if _, added := m.ctrl.Add(m.input.Value()); !added {
			m.status = "Title cannot be empty"
			return m, nil
		}
		pending, _ := m.view.Counts()
		m.cursor = clampCursor(pending-1, m.view.Len())
		m.leaveInput()
		m.status = "Added task"
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m TUI) updateEditMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.ctrl.CancelEdit(m.editID)
		m.leaveInput()
		m.status = "Edit cancelled"
		return m, nil
	case "enter":
		if !m.ctrl.CommitEdit(m.editID, m.input.Value()) {
			m.status = "Title cannot be empty"
			return m, nil
		}
		m.leaveInput()
		m.status = "Updated task"
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m *TUI) leaveInput() {
	m.mode = modeList
	m.editID = ""
	m.input.Reset()
	m.input.Blur()
}

func (m TUI) View() string {
	opts := RenderOptions{Cursor: m.cursor}
	if m.mode == modeEdit {
		opts.EditorLine = m.input.View()
	}

	var b strings.Builder
	b.WriteString(m.view.Render(opts))
	if m.mode == modeAdd {
		b.WriteString("\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render(helpText))
	b.WriteString("\n")
	return b.String()
}

func clampCursor(cursor, length int) int {
	if length == 0 || cursor < 0 {
		return 0
	}
	if cursor >= length {
		return length - 1
	}
	return cursor
}
