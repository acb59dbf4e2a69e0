package ui

import (
	"log/slog"

	"term-todo/internal/tasks"
)

type EditState int

const (
	Viewing EditState = iota
	Editing
)

func (s EditState) String() string {
	if s == Editing {
		return "editing"
	}
	return "viewing"
}

// Controller turns user intents into store mutations and the smallest set of
// Renderer instructions that keeps the two lists in sync.
type Controller struct {
	store       *tasks.Store
	renderer    Renderer
	logger      *slog.Logger
	editing     map[string]bool
	placeholder map[List]bool
}

func NewController(store *tasks.Store, renderer Renderer, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		store:       store,
		renderer:    renderer,
		logger:      logger,
		editing:     make(map[string]bool),
		placeholder: make(map[List]bool),
	}
}

// RenderAll redraws both lists from the store. Only used at start-up.
func (c *Controller) RenderAll() {
	c.renderer.Clear(ListPending)
	c.renderer.Clear(ListCompleted)
	c.placeholder = make(map[List]bool)
	c.editing = make(map[string]bool)

	for _, task := range c.store.Pending() {
		c.renderer.RenderItem(task, ListPending)
	}
	for _, task := range c.store.Completed() {
		c.renderer.RenderItem(task, ListCompleted)
	}
	c.refresh()
}

func (c *Controller) Add(title string) (tasks.Task, bool) {
	task, added, err := c.store.Add(title)
	c.logWriteError("add", task.ID, err)
	if !added {
		return tasks.Task{}, false
	}

	c.place(task, ListPending)
	c.refresh()
	return task, true
}

func (c *Controller) Delete(id string) bool {
	deleted, err := c.store.Delete(id)
	c.logWriteError("delete", id, err)
	if !deleted {
		return false
	}

	delete(c.editing, id)
	c.renderer.RemoveItem(id)
	c.refresh()
	return true
}

func (c *Controller) ToggleComplete(id string) bool {
	task, toggled, err := c.store.ToggleComplete(id)
	c.logWriteError("toggle", id, err)
	if !toggled {
		return false
	}

	delete(c.editing, id)
	c.renderer.RemoveItem(id)
	c.place(task, listFor(task))
	c.refresh()
	return true
}

// BeginEdit opens the inline editor for a pending task. Issuing it again
// while the editor is open closes it without saving.
func (c *Controller) BeginEdit(id string) {
	task, found := c.store.Get(id)
	if !found || task.Completed {
		return
	}
	if c.editing[id] {
		c.CancelEdit(id)
		return
	}

	c.editing[id] = true
	c.renderer.OpenEditor(id, task.Title)
}

// CommitEdit saves text as the new title. A blank text is refused and the
// editor stays open.
func (c *Controller) CommitEdit(id, text string) bool {
	if !c.editing[id] {
		return false
	}
	title := tasks.NormalizeTitle(text)
	if title == "" {
		return false
	}

	updated, err := c.store.Update(id, title)
	c.logWriteError("update", id, err)
	delete(c.editing, id)
	c.renderer.CloseEditor(id)
	if updated {
		c.renderer.UpdateTitle(id, title)
	}
	return updated
}

func (c *Controller) CancelEdit(id string) {
	if !c.editing[id] {
		return
	}
	delete(c.editing, id)
	c.renderer.CloseEditor(id)
}

func (c *Controller) EditState(id string) EditState {
	if c.editing[id] {
		return Editing
	}
	return Viewing
}

func (c *Controller) place(task tasks.Task, list List) {
	if c.placeholder[list] {
		c.renderer.HideEmptyPlaceholder(list)
		c.placeholder[list] = false
	}
	c.renderer.RenderItem(task, list)
}

func (c *Controller) refresh() {
	pending, completed := c.store.Counts()
	c.renderer.SetCounts(pending, completed)
	c.syncPlaceholder(ListPending, pending)
	c.syncPlaceholder(ListCompleted, completed)
}

func (c *Controller) syncPlaceholder(list List, count int) {
	switch {
	case count == 0 && !c.placeholder[list]:
		c.renderer.ShowEmptyPlaceholder(list)
		c.placeholder[list] = true
	case count > 0 && c.placeholder[list]:
		c.renderer.HideEmptyPlaceholder(list)
		c.placeholder[list] = false
	}
}

func (c *Controller) logWriteError(op, id string, err error) {
	if err != nil {
		c.logger.Error("task snapshot write failed", "op", op, "task_id", id, "error", err)
	}
}
