package tasks

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
)

type sqliteTestHarness struct {
	Ctx    context.Context
	DBPath string
	KV     *SQLiteKV
}

func newSQLiteTestHarness(t *testing.T) *sqliteTestHarness {
	t.Helper()

	dbPath := t.TempDir() + "/tasks.db"
	kv, err := NewSQLiteKV(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteKV: %v", err)
	}
	t.Cleanup(func() {
		_ = kv.Close()
	})

	return &sqliteTestHarness{
		Ctx:    context.Background(),
		DBPath: dbPath,
		KV:     kv,
	}
}

func (h *sqliteTestHarness) OpenStore(t *testing.T) *Store {
	t.Helper()
	return OpenStore(h.Ctx, h.KV, DefaultSlotKey, discardLogger())
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// captureLogger returns a logger writing text records into the returned buffer.
func captureLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

type failingKV struct {
	getErr error
	putErr error
	puts   int
}

func (f *failingKV) Get(context.Context, string) (string, bool, error) {
	if f.getErr != nil {
		return "", false, f.getErr
	}
	return "", false, nil
}

func (f *failingKV) Put(context.Context, string, string) error {
	f.puts++
	return f.putErr
}

var errDiskFull = errors.New("disk full")
