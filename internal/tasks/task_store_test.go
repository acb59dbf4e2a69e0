package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func newMemoryStore(t *testing.T) (*Store, *MemoryKV) {
	t.Helper()
	kv := NewMemoryKV()
	return OpenStore(context.Background(), kv, DefaultSlotKey, discardLogger()), kv
}

func TestAddTrimsTitleAndPersists(t *testing.T) {
	t.Parallel()

	store, kv := newMemoryStore(t)

	for _, title := range []string{"Buy milk", "  padded  ", "tab\there"} {
		task, added, err := store.Add(title)
		if err != nil {
			t.Fatalf("Add(%q): %v", title, err)
		}
		if !added {
			t.Fatalf("expected Add(%q) to add a task", title)
		}
		got, found := store.Get(task.ID)
		if !found {
			t.Fatalf("expected Get(%q) to find task", task.ID)
		}
		if got.Title != strings.TrimSpace(title) {
			t.Fatalf("expected title %q, got %q", strings.TrimSpace(title), got.Title)
		}
		if got.Completed || got.CompletedAt != nil {
			t.Fatalf("expected new task to be pending: %#v", got)
		}
	}

	raw, found, _ := kv.Get(context.Background(), DefaultSlotKey)
	if !found || !strings.Contains(raw, `"title":"padded"`) {
		t.Fatalf("expected snapshot to contain trimmed title, got %q", raw)
	}
}

func TestAddRejectsBlankTitles(t *testing.T) {
	t.Parallel()

	store, kv := newMemoryStore(t)

	for _, title := range []string{"", "   ", "\n\t"} {
		if _, added, err := store.Add(title); added || err != nil {
			t.Fatalf("expected Add(%q) to be rejected, added=%t err=%v", title, added, err)
		}
	}
	if store.Len() != 0 {
		t.Fatalf("expected empty store, got %d tasks", store.Len())
	}
	if _, found, _ := kv.Get(context.Background(), DefaultSlotKey); found {
		t.Fatalf("expected no snapshot write for rejected adds")
	}
}

func TestAddGeneratesDistinctIDs(t *testing.T) {
	t.Parallel()

	store, _ := newMemoryStore(t)
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		task, _, err := store.Add(fmt.Sprintf("task %d", i))
		if err != nil {
			t.Fatalf("Add: %v", err)
		}
		if seen[task.ID] {
			t.Fatalf("duplicate id %q", task.ID)
		}
		seen[task.ID] = true
	}
}

func TestAddRetriesCollidingID(t *testing.T) {
	t.Parallel()

	store, _ := newMemoryStore(t)
	ids := []string{"same", "same", "other"}
	store.newID = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}

	first, _, _ := store.Add("one")
	second, _, _ := store.Add("two")
	if first.ID != "same" || second.ID != "other" {
		t.Fatalf("expected ids same/other, got %q/%q", first.ID, second.ID)
	}
}

func TestToggleCompleteMaintainsCompletedAt(t *testing.T) {
	t.Parallel()

	store, _ := newMemoryStore(t)
	clock := time.Date(2026, 10, 17, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return clock }

	task, _, _ := store.Add("Buy milk")

	clock = clock.Add(time.Hour)
	done, toggled, err := store.ToggleComplete(task.ID)
	if err != nil || !toggled {
		t.Fatalf("ToggleComplete: toggled=%t err=%v", toggled, err)
	}
	if !done.Completed || done.CompletedAt == nil || !done.CompletedAt.Equal(clock) {
		t.Fatalf("expected completed at %s, got %#v", clock, done)
	}

	clock = clock.Add(time.Hour)
	undone, _, _ := store.ToggleComplete(task.ID)
	if undone.Completed || undone.CompletedAt != nil {
		t.Fatalf("expected pending without completedAt, got %#v", undone)
	}

	clock = clock.Add(time.Hour)
	again, _, _ := store.ToggleComplete(task.ID)
	if !again.CompletedAt.Equal(clock) {
		t.Fatalf("expected fresh completedAt %s, got %s", clock, *again.CompletedAt)
	}
	if !again.CreatedAt.Equal(task.CreatedAt) {
		t.Fatalf("expected createdAt to be unchanged")
	}
}

func TestReturnedTasksAreCopies(t *testing.T) {
	t.Parallel()

	store, _ := newMemoryStore(t)
	task, _, _ := store.Add("Buy milk")
	done, _, _ := store.ToggleComplete(task.ID)

	*done.CompletedAt = time.Time{}
	done.Title = "mutated"

	got, _ := store.Get(task.ID)
	if got.Title != "Buy milk" || got.CompletedAt.IsZero() {
		t.Fatalf("expected store state to be isolated from returned copy: %#v", got)
	}
}

func TestUnknownIDsAreNoOps(t *testing.T) {
	t.Parallel()

	store, _ := newMemoryStore(t)
	store.Add("keep")

	if updated, err := store.Update("nope", "x"); updated || err != nil {
		t.Fatalf("expected Update on unknown id to be a no-op")
	}
	if deleted, err := store.Delete("nope"); deleted || err != nil {
		t.Fatalf("expected Delete on unknown id to be a no-op")
	}
	if _, toggled, err := store.ToggleComplete("nope"); toggled || err != nil {
		t.Fatalf("expected ToggleComplete on unknown id to be a no-op")
	}
	if _, found := store.Get("nope"); found {
		t.Fatalf("expected Get on unknown id to report absent")
	}
	if store.Len() != 1 {
		t.Fatalf("expected store to be unchanged")
	}
}

func TestUpdateRejectsBlankTitle(t *testing.T) {
	t.Parallel()

	store, _ := newMemoryStore(t)
	task, _, _ := store.Add("Buy milk")

	if updated, _ := store.Update(task.ID, "   "); updated {
		t.Fatalf("expected blank update to be rejected")
	}
	if updated, _ := store.Update(task.ID, " Buy oat milk "); !updated {
		t.Fatalf("expected update to apply")
	}
	got, _ := store.Get(task.ID)
	if got.Title != "Buy oat milk" {
		t.Fatalf("expected updated title, got %q", got.Title)
	}
}

func TestPendingAndCompletedPartitionStore(t *testing.T) {
	t.Parallel()

	store, _ := newMemoryStore(t)
	var ids []string
	for _, title := range []string{"A", "B", "C", "D", "E"} {
		task, _, _ := store.Add(title)
		ids = append(ids, task.ID)
	}
	store.ToggleComplete(ids[1])
	store.ToggleComplete(ids[3])

	pending, completed := store.Pending(), store.Completed()
	if len(pending)+len(completed) != store.Len() {
		t.Fatalf("expected partition sizes to add up to %d", store.Len())
	}

	seen := make(map[string]int)
	for _, task := range append(pending, completed...) {
		seen[task.ID]++
	}
	for _, id := range ids {
		if seen[id] != 1 {
			t.Fatalf("expected id %q exactly once, got %d", id, seen[id])
		}
	}

	if got := titles(pending); got != "A,C,E" {
		t.Fatalf("expected pending in store order A,C,E, got %s", got)
	}
	if got := titles(completed); got != "B,D" {
		t.Fatalf("expected completed in store order B,D, got %s", got)
	}

	p, c := store.Counts()
	if p != 3 || c != 2 {
		t.Fatalf("expected counts 3/2, got %d/%d", p, c)
	}
}

func TestOrderPreservedAcrossDelete(t *testing.T) {
	t.Parallel()

	store, _ := newMemoryStore(t)
	a, _, _ := store.Add("A")
	b, _, _ := store.Add("B")

	if got := titles(store.Pending()); got != "A,B" {
		t.Fatalf("expected A,B, got %s", got)
	}

	store.Delete(a.ID)
	pending := store.Pending()
	if len(pending) != 1 || pending[0].ID != b.ID {
		t.Fatalf("expected only B to remain, got %s", titles(pending))
	}
}

func TestBuyMilkLifecycle(t *testing.T) {
	t.Parallel()

	store, kv := newMemoryStore(t)

	task, _, _ := store.Add("Buy milk")
	if p, c := store.Counts(); p != 1 || c != 0 {
		t.Fatalf("expected 1/0 after add, got %d/%d", p, c)
	}

	done, _, _ := store.ToggleComplete(task.ID)
	if p, c := store.Counts(); p != 0 || c != 1 {
		t.Fatalf("expected 0/1 after toggle, got %d/%d", p, c)
	}
	if done.CompletedAt == nil {
		t.Fatalf("expected completedAt to be set")
	}

	if updated, _ := store.Update(task.ID, "Buy cheese"); !updated {
		t.Fatalf("expected completed task title to be updatable through the store")
	}

	store.Delete(task.ID)
	if _, found := store.Get(task.ID); found {
		t.Fatalf("expected task to be gone")
	}
	if p, c := store.Counts(); p != 0 || c != 0 {
		t.Fatalf("expected 0/0 after delete, got %d/%d", p, c)
	}

	raw, _, _ := kv.Get(context.Background(), DefaultSlotKey)
	if raw != "[]" {
		t.Fatalf("expected empty snapshot, got %q", raw)
	}
	reopened := OpenStore(context.Background(), kv, DefaultSlotKey, discardLogger())
	if reopened.Len() != 0 {
		t.Fatalf("expected reopened store to be empty")
	}
}

func TestOpenStoreResetsOnCorruptSnapshot(t *testing.T) {
	t.Parallel()

	kv := NewMemoryKV()
	if err := kv.Put(context.Background(), DefaultSlotKey, `[{"id":"a","title":"x","createdAt":"nope"}]`); err != nil {
		t.Fatalf("Put: %v", err)
	}

	logger, logs := captureLogger()
	store := OpenStore(context.Background(), kv, DefaultSlotKey, logger)
	if store.Len() != 0 {
		t.Fatalf("expected empty store after corrupt snapshot, got %d", store.Len())
	}
	if !strings.Contains(logs.String(), "task snapshot rejected") {
		t.Fatalf("expected corruption to be logged: %q", logs.String())
	}

	if _, _, err := store.Add("fresh"); err != nil {
		t.Fatalf("Add after reset: %v", err)
	}
	reopened := OpenStore(context.Background(), kv, DefaultSlotKey, discardLogger())
	if reopened.Len() != 1 {
		t.Fatalf("expected new snapshot to replace the corrupt one")
	}
}

func TestOpenStoreToleratesReadFailure(t *testing.T) {
	t.Parallel()

	logger, logs := captureLogger()
	store := OpenStore(context.Background(), &failingKV{getErr: errors.New("io error")}, "", logger)
	if store.Len() != 0 {
		t.Fatalf("expected empty store")
	}
	if !strings.Contains(logs.String(), "io error") {
		t.Fatalf("expected read failure to be logged: %q", logs.String())
	}
}

func TestOpenStoreUsesNamedSlot(t *testing.T) {
	t.Parallel()

	kv := NewMemoryKV()
	work := OpenStore(context.Background(), kv, "work", discardLogger())
	work.Add("report")

	home := OpenStore(context.Background(), kv, "home", discardLogger())
	if home.Len() != 0 {
		t.Fatalf("expected separate slot to be empty")
	}
	if _, found, _ := kv.Get(context.Background(), "work"); !found {
		t.Fatalf("expected snapshot under slot %q", "work")
	}
}

func TestWriteFailureKeepsMutationAndReportsError(t *testing.T) {
	t.Parallel()

	kv := &failingKV{putErr: errDiskFull}
	store := OpenStore(context.Background(), kv, DefaultSlotKey, discardLogger())

	task, added, err := store.Add("Buy milk")
	if !added {
		t.Fatalf("expected task to be added in memory")
	}
	if !errors.Is(err, errDiskFull) {
		t.Fatalf("expected write error, got %v", err)
	}
	if _, found := store.Get(task.ID); !found {
		t.Fatalf("expected task to remain in memory")
	}
	if kv.puts != 1 {
		t.Fatalf("expected one write attempt, got %d", kv.puts)
	}
}

func titles(list []Task) string {
	parts := make([]string, 0, len(list))
	for _, task := range list {
		parts = append(parts, task.Title)
	}
	return strings.Join(parts, ",")
}
