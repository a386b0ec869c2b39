package cache

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"tasktrack/internal/service"
)

// ErrCorrupt wraps decode failures of stored records.
var ErrCorrupt = errors.New("cache: corrupt record")

// TaskSnapshot is the stored copy of one user's task list.
type TaskSnapshot struct {
	Username string         `json:"username"`
	Tasks    []service.Task `json:"tasks"`
}

// encode writes v as JSON without HTML escaping, so stored text stays raw.
func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// LoadSession reads the persisted Session.
// Returns ErrNotFound when absent and an error wrapping ErrCorrupt when the
// record cannot be decoded or is missing a field.
func LoadSession(s Store) (service.Session, error) {
	data, err := s.Get(SessionKey)
	if err != nil {
		return service.Session{}, err
	}
	var sess service.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return service.Session{}, fmt.Errorf("%w: %s: %v", ErrCorrupt, SessionKey, err)
	}
	if !sess.Valid() {
		return service.Session{}, fmt.Errorf("%w: %s: missing username or token", ErrCorrupt, SessionKey)
	}
	return sess, nil
}

// SaveSession persists sess under SessionKey.
func SaveSession(s Store, sess service.Session) error {
	data, err := encode(sess)
	if err != nil {
		return err
	}
	return s.Set(SessionKey, data)
}

// ClearSession removes the persisted Session.
func ClearSession(s Store) error {
	return s.Remove(SessionKey)
}

// LoadTasks reads username's snapshot. A snapshot without a task array
// yields an empty list. Returns ErrNotFound when absent and an error
// wrapping ErrCorrupt when undecodable.
func LoadTasks(s Store, username string) ([]service.Task, error) {
	key := TasksKey(username)
	data, err := s.Get(key)
	if err != nil {
		return nil, err
	}
	var snap TaskSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, key, err)
	}
	if snap.Tasks == nil {
		snap.Tasks = []service.Task{}
	}
	return snap.Tasks, nil
}

// SaveTasks writes username's full task list.
func SaveTasks(s Store, username string, tasks []service.Task) error {
	if tasks == nil {
		tasks = []service.Task{}
	}
	data, err := encode(TaskSnapshot{Username: username, Tasks: tasks})
	if err != nil {
		return err
	}
	return s.Set(TasksKey(username), data)
}

// ClearTasks removes username's snapshot.
func ClearTasks(s Store, username string) error {
	return s.Remove(TasksKey(username))
}
