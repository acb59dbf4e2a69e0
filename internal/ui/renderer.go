package ui

import "term-todo/internal/tasks"

type List int

const (
	ListPending List = iota
	ListCompleted
)

func (l List) String() string {
	switch l {
	case ListPending:
		return "pending"
	case ListCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

func listFor(task tasks.Task) List {
	if task.Completed {
		return ListCompleted
	}
	return ListPending
}

// Renderer receives incremental drawing instructions from the Controller.
type Renderer interface {
	RenderItem(task tasks.Task, list List)
	RemoveItem(id string)
	UpdateTitle(id, title string)
	ShowEmptyPlaceholder(list List)
	HideEmptyPlaceholder(list List)
	SetCounts(pending, completed int)
	// OpenEditor shows the inline edit field for id, pre-filled and focused.
	OpenEditor(id, value string)
	CloseEditor(id string)
	Clear(list List)
}
