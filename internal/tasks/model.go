package tasks

import (
	"strings"
	"time"
)

// DefaultSlotKey is the KV slot holding the task snapshot.
const DefaultSlotKey = "tasks"

type Task struct {
	ID          string
	Title       string
	Completed   bool
	CreatedAt   time.Time
	CompletedAt *time.Time
}

// IsPending reports whether the task still needs doing.
func (t Task) IsPending() bool {
	return !t.Completed
}

func (t Task) clone() Task {
	if t.CompletedAt != nil {
		completedAt := *t.CompletedAt
		t.CompletedAt = &completedAt
	}
	return t
}

func (t *Task) toggle(now time.Time) {
	t.Completed = !t.Completed
	if t.Completed {
		t.CompletedAt = &now
		return
	}
	t.CompletedAt = nil
}

func NormalizeTitle(title string) string {
	return strings.TrimSpace(title)
}
