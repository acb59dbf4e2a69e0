package tasks

import (
	"context"
	"errors"
)

var ErrSnapshotCorrupt = errors.New("task snapshot is corrupt")

// KV is a durable key-value store. The task store keeps its whole state in a
// single slot of it.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Put(ctx context.Context, key, value string) error
}
