package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"term-todo/internal/tasks"
)

const dateLayout = "Jan 2, 2006, 03:04 PM"

var (
	headerStyle      = lipgloss.NewStyle().Bold(true)
	sectionStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	dateStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	placeholderStyle = lipgloss.NewStyle().Faint(true).Italic(true)
	completedStyle   = lipgloss.NewStyle().Strikethrough(true).Faint(true)
	cursorStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	editorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
)

var placeholderText = map[List]string{
	ListPending:   "No pending tasks",
	ListCompleted: "No completed tasks",
}

// ListView is an in-memory Renderer: it holds what the Controller asked to be
// shown and draws it as text.
type ListView struct {
	items       map[List][]tasks.Task
	placeholder map[List]bool
	pending     int
	completed   int
	editorID    string
	editorValue string
	now         func() time.Time
}

func NewListView() *ListView {
	return &ListView{
		items:       map[List][]tasks.Task{ListPending: nil, ListCompleted: nil},
		placeholder: make(map[List]bool),
		now:         time.Now,
	}
}

func (v *ListView) RenderItem(task tasks.Task, list List) {
	v.items[list] = append(v.items[list], task)
}

func (v *ListView) RemoveItem(id string) {
	for list, items := range v.items {
		for i, item := range items {
			if item.ID == id {
				v.items[list] = append(items[:i:i], items[i+1:]...)
				break
			}
		}
	}
	if v.editorID == id {
		v.CloseEditor(id)
	}
}

func (v *ListView) UpdateTitle(id, title string) {
	for _, items := range v.items {
		for i := range items {
			if items[i].ID == id {
				items[i].Title = title
			}
		}
	}
}

func (v *ListView) ShowEmptyPlaceholder(list List) { v.placeholder[list] = true }

func (v *ListView) HideEmptyPlaceholder(list List) { v.placeholder[list] = false }

func (v *ListView) SetCounts(pending, completed int) {
	v.pending = pending
	v.completed = completed
}

func (v *ListView) OpenEditor(id, value string) {
	v.editorID = id
	v.editorValue = value
}

func (v *ListView) CloseEditor(id string) {
	if v.editorID == id {
		v.editorID = ""
		v.editorValue = ""
	}
}

func (v *ListView) Clear(list List) {
	for _, item := range v.items[list] {
		if item.ID == v.editorID {
			v.CloseEditor(item.ID)
		}
	}
	v.items[list] = nil
	v.placeholder[list] = false
}

// Editor reports the task whose edit field is open and its initial value.
func (v *ListView) Editor() (id, value string, open bool) {
	return v.editorID, v.editorValue, v.editorID != ""
}

func (v *ListView) Counts() (pending, completed int) {
	return v.pending, v.completed
}

// Len is the number of rows across both lists.
func (v *ListView) Len() int {
	return len(v.items[ListPending]) + len(v.items[ListCompleted])
}

// ItemAt returns the row at the 0-based position, pending rows first.
func (v *ListView) ItemAt(index int) (tasks.Task, List, bool) {
	pending := v.items[ListPending]
	if index >= 0 && index < len(pending) {
		return pending[index], ListPending, true
	}
	index -= len(pending)
	completed := v.items[ListCompleted]
	if index >= 0 && index < len(completed) {
		return completed[index], ListCompleted, true
	}
	return tasks.Task{}, 0, false
}

type RenderOptions struct {
	// Cursor is the highlighted 0-based row, or -1 for none.
	Cursor int
	// EditorLine replaces the default edit field rendering when non-empty.
	EditorLine string
}

func (v *ListView) View() string {
	return v.Render(RenderOptions{Cursor: -1})
}

func (v *ListView) Render(opts RenderOptions) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("todo"))
	b.WriteString(fmt.Sprintf("  pending %d · completed %d\n", v.pending, v.completed))

	row := 0
	for _, list := range []List{ListPending, ListCompleted} {
		b.WriteString("\n")
		title := "Pending"
		count := v.pending
		if list == ListCompleted {
			title = "Completed"
			count = v.completed
		}
		b.WriteString(sectionStyle.Render(fmt.Sprintf("%s (%d)", title, count)))
		b.WriteString("\n")

		if v.placeholder[list] {
			b.WriteString("  ")
			b.WriteString(placeholderStyle.Render(placeholderText[list]))
			b.WriteString("\n")
		}
		for _, item := range v.items[list] {
			v.writeItem(&b, item, row, opts)
			row++
		}
	}
	return b.String()
}

func (v *ListView) writeItem(b *strings.Builder, item tasks.Task, row int, opts RenderOptions) {
	marker := "  "
	if row == opts.Cursor {
		marker = cursorStyle.Render("> ")
	}

	check := "[ ]"
	title := item.Title
	if item.Completed {
		check = "[x]"
		title = completedStyle.Render(title)
	}
	b.WriteString(fmt.Sprintf("%s%d. %s %s\n", marker, row+1, check, title))

	b.WriteString("     ")
	b.WriteString(dateStyle.Render("Created: " + v.formatDate(item.CreatedAt)))
	b.WriteString("\n")
	if item.Completed && item.CompletedAt != nil {
		b.WriteString("     ")
		b.WriteString(dateStyle.Render("Completed: " + v.formatDate(*item.CompletedAt)))
		b.WriteString("\n")
	}

	if item.ID == v.editorID {
		line := opts.EditorLine
		if line == "" {
			line = "edit> " + v.editorValue
		}
		b.WriteString("     ")
		b.WriteString(editorStyle.Render(line))
		b.WriteString("\n")
	}
}

func (v *ListView) formatDate(t time.Time) string {
	return fmt.Sprintf("%s (%s)",
		t.Local().Format(dateLayout),
		humanize.RelTime(t, v.now(), "ago", "from now"),
	)
}
