package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Store is the authoritative, ordered task collection. It is not safe for
// concurrent use: one caller drives it, one intent at a time.
type Store struct {
	kv     KV
	key    string
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
	tasks  []Task
}

// OpenStore builds a store from the snapshot held in kv under key. A missing
// or unreadable snapshot yields an empty store; the reason is logged.
func OpenStore(ctx context.Context, kv KV, key string, logger *slog.Logger) *Store {
	if key == "" {
		key = DefaultSlotKey
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Store{
		kv:     kv,
		key:    key,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
		tasks:  make([]Task, 0),
	}
	s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) {
	raw, found, err := s.kv.Get(ctx, s.key)
	if err != nil {
		s.logger.Warn("task snapshot unreadable; starting empty", "slot", s.key, "error", err)
		return
	}
	if !found || raw == "" {
		s.logger.Info("no task snapshot; starting empty", "slot", s.key)
		return
	}

	loaded, err := DecodeSnapshot(raw)
	if err != nil {
		s.logger.Warn("task snapshot rejected; starting empty", "slot", s.key, "error", err)
		return
	}
	s.tasks = loaded
	s.logger.Debug("task snapshot loaded", "slot", s.key, "tasks", len(loaded))
}

func (s *Store) save() error {
	raw, err := EncodeSnapshot(s.tasks)
	if err != nil {
		return err
	}
	if err := s.kv.Put(context.Background(), s.key, raw); err != nil {
		return fmt.Errorf("save task snapshot: %w", err)
	}
	return nil
}

// Add appends a new pending task. A blank title adds nothing and reports false.
func (s *Store) Add(title string) (Task, bool, error) {
	title = NormalizeTitle(title)
	if title == "" {
		return Task{}, false, nil
	}

	task := Task{
		ID:        s.nextID(),
		Title:     title,
		CreatedAt: s.now().UTC(),
	}
	s.tasks = append(s.tasks, task)
	return task.clone(), true, s.save()
}

func (s *Store) nextID() string {
	for {
		id := s.newID()
		if _, exists := s.indexOf(id); !exists {
			return id
		}
	}
}

func (s *Store) Get(id string) (Task, bool) {
	i, ok := s.indexOf(id)
	if !ok {
		return Task{}, false
	}
	return s.tasks[i].clone(), true
}

func (s *Store) Update(id, title string) (bool, error) {
	title = NormalizeTitle(title)
	i, ok := s.indexOf(id)
	if !ok || title == "" {
		return false, nil
	}
	s.tasks[i].Title = title
	return true, s.save()
}

func (s *Store) Delete(id string) (bool, error) {
	i, ok := s.indexOf(id)
	if !ok {
		return false, nil
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	return true, s.save()
}

// ToggleComplete flips the completion state and returns the task as it is now.
func (s *Store) ToggleComplete(id string) (Task, bool, error) {
	i, ok := s.indexOf(id)
	if !ok {
		return Task{}, false, nil
	}
	s.tasks[i].toggle(s.now().UTC())
	return s.tasks[i].clone(), true, s.save()
}

func (s *Store) Pending() []Task {
	return s.filter(Task.IsPending)
}

func (s *Store) Completed() []Task {
	return s.filter(func(t Task) bool { return t.Completed })
}

func (s *Store) All() []Task {
	return s.filter(func(Task) bool { return true })
}

func (s *Store) Len() int {
	return len(s.tasks)
}

func (s *Store) Counts() (pending, completed int) {
	for _, task := range s.tasks {
		if task.Completed {
			completed++
		} else {
			pending++
		}
	}
	return pending, completed
}

func (s *Store) filter(keep func(Task) bool) []Task {
	result := make([]Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		if keep(task) {
			result = append(result, task.clone())
		}
	}
	return result
}

func (s *Store) indexOf(id string) (int, bool) {
	for i, task := range s.tasks {
		if task.ID == id {
			return i, true
		}
	}
	return 0, false
}
