package main

import (
	"context"

	"term-todo/internal/tasks"
)

func corruptSnapshot(dbPath string) error {
	kv, err := tasks.NewSQLiteKV(dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = kv.Close()
	}()
	return kv.Put(context.Background(), tasks.DefaultSlotKey, "{not-json")
}
