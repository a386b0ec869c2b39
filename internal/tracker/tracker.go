// Package tracker assembles one running instance: the session controller,
// the task store, the durable cache and the remote authority.
package tracker

import (
	"context"
	"fmt"

	"tasktrack/internal/cache"
	"tasktrack/internal/cache/filecache"
	"tasktrack/internal/cache/sqlitecache"
	"tasktrack/internal/config"
	"tasktrack/internal/service"
	"tasktrack/internal/session"
	"tasktrack/internal/tasks"
)

// Tracker is the per-instance state passed to every command.
type Tracker struct {
	Session *session.Controller
	Tasks   *tasks.Store

	cache cache.Store
}

type options struct {
	listener session.Listener
	renderer tasks.Renderer
}

// Option configures a Tracker.
type Option func(*options)

// WithListener observes view transitions.
func WithListener(l session.Listener) Option {
	return func(o *options) { o.listener = l }
}

// WithRenderer observes task list changes.
func WithRenderer(r tasks.Renderer) Option {
	return func(o *options) { o.renderer = r }
}

// New wires a Tracker. The tracker owns c and closes it in Close.
func New(authority service.Service, c cache.Store, opts ...Option) *Tracker {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	ctrl := session.NewController(authority, c, o.listener)
	var taskOpts []tasks.Option
	if o.renderer != nil {
		taskOpts = append(taskOpts, tasks.WithRenderer(o.renderer))
	}
	store := tasks.NewStore(authority, c, ctrl, taskOpts...)
	ctrl.SetTaskLoader(store)

	return &Tracker{Session: ctrl, Tasks: store, cache: c}
}

// OpenCache opens the cache backend selected by cfg.
func OpenCache(cfg *config.Config) (cache.Store, error) {
	switch cfg.Cache {
	case config.CacheFile, "":
		return filecache.Open(cfg.CacheDir())
	case config.CacheSQLite:
		if err := cfg.EnsureDir(); err != nil {
			return nil, fmt.Errorf("create config dir: %w", err)
		}
		return sqlitecache.Open(cfg.CacheDBPath())
	default:
		return nil, fmt.Errorf("unknown cache backend: %s", cfg.Cache)
	}
}

// Restore picks up the persisted session without network calls.
func (t *Tracker) Restore() session.State {
	return t.Session.Restore()
}

// Start restores the persisted session and loads tasks when authenticated.
func (t *Tracker) Start(ctx context.Context) session.State {
	return t.Session.Start(ctx)
}

// Close releases the cache.
func (t *Tracker) Close() error {
	return t.cache.Close()
}
