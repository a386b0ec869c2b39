// Package cache defines the durable local key-value cache and the records kept in it.
package cache

import (
	"errors"
)

// ErrNotFound is returned by Get when a key has no record.
var ErrNotFound = errors.New("cache: not found")

// Store is a durable keyed byte store. Implementations must treat removing
// an absent key as success.
type Store interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Remove(key string) error
	Close() error
}

// SessionKey is the global record holding the serialized Session.
const SessionKey = "taskTracker_user"

// taskKeyPrefix namespaces per-user task snapshots.
const taskKeyPrefix = "taskTracker_tasks_"

// TasksKey returns the snapshot key for username.
func TasksKey(username string) string {
	return taskKeyPrefix + username
}
