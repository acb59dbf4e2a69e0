package ui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"term-todo/internal/tasks"
)

type recordingRenderer struct {
	calls []string
}

func (r *recordingRenderer) RenderItem(task tasks.Task, list List) {
	r.record("render:%s:%s", list, task.Title)
}

func (r *recordingRenderer) RemoveItem(id string) { r.record("remove:%s", id) }
func (r *recordingRenderer) UpdateTitle(id, title string) { r.record("title:%s:%s", id, title) }
func (r *recordingRenderer) ShowEmptyPlaceholder(list List) { r.record("show:%s", list) }
func (r *recordingRenderer) HideEmptyPlaceholder(list List) { r.record("hide:%s", list) }
func (r *recordingRenderer) SetCounts(pending, completed int) {
	r.record("counts:%d/%d", pending, completed)
}
func (r *recordingRenderer) OpenEditor(id, value string) { r.record("open:%s:%s", id, value) }
func (r *recordingRenderer) CloseEditor(id string) { r.record("close:%s", id) }
func (r *recordingRenderer) Clear(list List) { r.record("clear:%s", list) }

func (r *recordingRenderer) record(format string, args ...any) {
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

// take returns the calls recorded since the last take.
func (r *recordingRenderer) take() []string {
	calls := r.calls
	r.calls = nil
	return calls
}

func newTestStore(t *testing.T) (*tasks.Store, *tasks.MemoryKV) {
	t.Helper()
	kv := tasks.NewMemoryKV()
	return tasks.OpenStore(context.Background(), kv, tasks.DefaultSlotKey, slog.New(slog.NewTextHandler(io.Discard, nil))), kv
}

func newRecordingController(t *testing.T) (*Controller, *tasks.Store, *recordingRenderer) {
	t.Helper()
	store, _ := newTestStore(t)
	renderer := &recordingRenderer{}
	return NewController(store, renderer, slog.New(slog.NewTextHandler(io.Discard, nil))), store, renderer
}

func newListController(t *testing.T) (*Controller, *tasks.Store, *ListView) {
	t.Helper()
	store, _ := newTestStore(t)
	view := NewListView()
	ctrl := NewController(store, view, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctrl.RenderAll()
	return ctrl, store, view
}
