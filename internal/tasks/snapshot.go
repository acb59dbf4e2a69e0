package tasks

import (
	"encoding/json"
	"fmt"
)

// SnapshotRow is the persisted form of a Task.
type SnapshotRow struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Completed   bool    `json:"completed"`
	CreatedAt   string  `json:"createdAt"`
	CompletedAt *string `json:"completedAt,omitempty"`
}

func EncodeSnapshot(tasks []Task) (string, error) {
	rows := make([]SnapshotRow, 0, len(tasks))
	for _, task := range tasks {
		row := SnapshotRow{
			ID:        task.ID,
			Title:     task.Title,
			Completed: task.Completed,
			CreatedAt: formatTime(task.CreatedAt),
		}
		if task.CompletedAt != nil {
			completedAt := formatTime(*task.CompletedAt)
			row.CompletedAt = &completedAt
		}
		rows = append(rows, row)
	}

	raw, err := json.Marshal(rows)
	if err != nil {
		return "", fmt.Errorf("encode task snapshot: %w", err)
	}
	return string(raw), nil
}

// DecodeSnapshot parses a snapshot produced by EncodeSnapshot. Any row that
// breaks a Task invariant makes the whole snapshot invalid.
func DecodeSnapshot(raw string) ([]Task, error) {
	var rows []SnapshotRow
	if err := json.Unmarshal([]byte(raw), &rows); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSnapshotCorrupt, err)
	}

	result := make([]Task, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))
	for i, row := range rows {
		task, err := row.task()
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrSnapshotCorrupt, i, err)
		}
		if _, dup := seen[task.ID]; dup {
			return nil, fmt.Errorf("%w: row %d: duplicate id %q", ErrSnapshotCorrupt, i, task.ID)
		}
		seen[task.ID] = struct{}{}
		result = append(result, task)
	}
	return result, nil
}

func (r SnapshotRow) task() (Task, error) {
	if r.ID == "" {
		return Task{}, fmt.Errorf("missing id")
	}
	title := NormalizeTitle(r.Title)
	if title == "" {
		return Task{}, fmt.Errorf("empty title for %q", r.ID)
	}
	if r.Completed != (r.CompletedAt != nil) {
		return Task{}, fmt.Errorf("completed=%t disagrees with completedAt for %q", r.Completed, r.ID)
	}

	createdAt, err := parseTime(r.CreatedAt)
	if err != nil {
		return Task{}, fmt.Errorf("parse createdAt for %q: %w", r.ID, err)
	}

	task := Task{
		ID:        r.ID,
		Title:     title,
		Completed: r.Completed,
		CreatedAt: createdAt,
	}
	if r.CompletedAt != nil {
		completedAt, err := parseTime(*r.CompletedAt)
		if err != nil {
			return Task{}, fmt.Errorf("parse completedAt for %q: %w", r.ID, err)
		}
		task.CompletedAt = &completedAt
	}
	return task, nil
}
