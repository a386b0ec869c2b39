// Package tasks keeps the current user's task list in sync with the remote
// authority and the durable local cache.
//
// Mutations are two-phase: the remote call is attempted first and its
// outcome is reconciled by ReconcileAdd / ReconcileToggle. Remote failures
// never reach callers; they degrade to a local change, which is cached.
// The store is not safe for concurrent use.
package tasks

import (
	"context"
	"errors"
	"strings"

	"tasktrack/internal/cache"
	"tasktrack/internal/log"
	"tasktrack/internal/service"
)

// Identity supplies the current session.
type Identity interface {
	Current() (service.Session, bool)
}

// Renderer observes the task list after each change.
type Renderer interface {
	Render(tasks []service.Task)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(tasks []service.Task)

func (f RendererFunc) Render(tasks []service.Task) { f(tasks) }

// Store owns the in-memory task list for the current session.
type Store struct {
	authority service.Service
	cache     cache.Store
	identity  Identity
	renderer  Renderer
	newID     func() string

	tasks []service.Task
}

// Option configures a Store.
type Option func(*Store)

// WithRenderer sets the list observer.
func WithRenderer(r Renderer) Option {
	return func(s *Store) {
		s.renderer = r
	}
}

// WithIDGenerator replaces the provisional id generator.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) {
		s.newID = gen
	}
}

// NewStore creates an empty Store.
func NewStore(authority service.Service, c cache.Store, identity Identity, opts ...Option) *Store {
	s := &Store{
		authority: authority,
		cache:     c,
		identity:  identity,
		newID:     NewProvisionalID,
		tasks:     []service.Task{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Tasks returns a copy of the current list.
func (s *Store) Tasks() []service.Task {
	return append([]service.Task{}, s.tasks...)
}

// Find returns the task with id.
func (s *Store) Find(id string) (service.Task, bool) {
	if i := s.index(id); i >= 0 {
		return s.tasks[i], true
	}
	return service.Task{}, false
}

// Reset empties the in-memory list without touching the cache.
func (s *Store) Reset() {
	s.tasks = []service.Task{}
	s.render()
}

// Load shows the cached snapshot (if any) and then replaces it with the
// authority's list when reachable. Without a session it does nothing.
func (s *Store) Load(ctx context.Context) {
	sess, ok := s.identity.Current()
	if !ok {
		return
	}

	cached, err := cache.LoadTasks(s.cache, sess.Username)
	switch {
	case err == nil:
		s.tasks = cached
		s.render()
		log.Debug().Str("username", sess.Username).Int("count", len(cached)).Msg("loaded tasks from cache")
	case errors.Is(err, cache.ErrNotFound):
		s.tasks = []service.Task{}
	default:
		s.tasks = []service.Task{}
		log.Warn().Err(err).Str("username", sess.Username).Msg("ignoring unreadable task cache")
	}

	remote, err := s.authority.ListTasks(ctx, sess.Token)
	if err != nil {
		log.Warn().Err(err).Str("op", "load").Str("username", sess.Username).Msg("remote task list unavailable; keeping cached tasks")
		return
	}

	s.tasks = remote
	s.persist(sess.Username)
	s.render()
	log.Debug().Str("username", sess.Username).Int("count", len(remote)).Msg("loaded tasks from api")
}

// Add appends a task with the trimmed text. Empty text or a missing
// session is a no-op and returns ok=false. synced reports whether the
// authority accepted the task.
func (s *Store) Add(ctx context.Context, text string) (task service.Task, synced, ok bool) {
	sess, hasSession := s.identity.Current()
	text = strings.TrimSpace(text)
	if !hasSession || text == "" {
		return service.Task{}, false, false
	}

	remote, err := s.authority.CreateTask(ctx, sess.Token, text)
	task, synced = ReconcileAdd(text, remote, err, s.newID)
	if !synced {
		log.Warn().Err(err).Str("op", "add").Str("task_id", task.ID).Msg("task added locally only")
	}

	s.tasks = append(s.tasks, task)
	s.persist(sess.Username)
	s.render()
	return task, synced, true
}

// Toggle flips the completion of the task with id. An unknown id or a
// missing session is a no-op and returns ok=false.
func (s *Store) Toggle(ctx context.Context, id string) (task service.Task, synced, ok bool) {
	sess, hasSession := s.identity.Current()
	if !hasSession {
		return service.Task{}, false, false
	}
	i := s.index(id)
	if i < 0 {
		return service.Task{}, false, false
	}
	prior := s.tasks[i].Completed

	remote, err := s.authority.ToggleTask(ctx, sess.Token, id)
	completed, synced := ReconcileToggle(prior, remote, err)
	if !synced {
		log.Warn().Err(err).Str("op", "toggle").Str("task_id", id).Msg("task toggled locally only")
	}

	// Re-resolve: the list may have been replaced while the call was in flight.
	if i = s.index(id); i < 0 {
		return service.Task{}, synced, false
	}
	s.tasks[i].Completed = completed
	task = s.tasks[i]

	s.persist(sess.Username)
	s.render()
	return task, synced, true
}

func (s *Store) index(id string) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) persist(username string) {
	if err := cache.SaveTasks(s.cache, username, s.tasks); err != nil {
		log.Error().Err(err).Str("username", username).Msg("failed to save task cache")
	}
}

func (s *Store) render() {
	if s.renderer != nil {
		s.renderer.Render(s.Tasks())
	}
}
