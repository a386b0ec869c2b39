// Package cachetest holds behaviour checks shared by every cache.Store backend.
package cachetest

import (
	"bytes"
	"errors"
	"testing"

	"tasktrack/internal/cache"
)

// Run exercises the cache.Store contract against stores built by open.
func Run(t *testing.T, open func(t *testing.T) cache.Store) {
	t.Helper()

	t.Run("get missing", func(t *testing.T) {
		s := open(t)
		if _, err := s.Get("absent"); !errors.Is(err, cache.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("set then get", func(t *testing.T) {
		s := open(t)
		if err := s.Set("k", []byte(`{"a":1}`)); err != nil {
			t.Fatalf("set: %v", err)
		}
		got, err := s.Get("k")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if !bytes.Equal(got, []byte(`{"a":1}`)) {
			t.Errorf("unexpected value %q", got)
		}
	})

	t.Run("overwrite", func(t *testing.T) {
		s := open(t)
		_ = s.Set("k", []byte("one"))
		if err := s.Set("k", []byte("two")); err != nil {
			t.Fatalf("set: %v", err)
		}
		got, _ := s.Get("k")
		if string(got) != "two" {
			t.Errorf("expected last write to win, got %q", got)
		}
	})

	t.Run("remove", func(t *testing.T) {
		s := open(t)
		_ = s.Set("k", []byte("v"))
		if err := s.Remove("k"); err != nil {
			t.Fatalf("remove: %v", err)
		}
		if _, err := s.Get("k"); !errors.Is(err, cache.ErrNotFound) {
			t.Fatalf("expected ErrNotFound after remove, got %v", err)
		}
		if err := s.Remove("k"); err != nil {
			t.Errorf("removing an absent key should succeed, got %v", err)
		}
	})

	t.Run("keys are independent", func(t *testing.T) {
		s := open(t)
		_ = s.Set(cache.TasksKey("alice"), []byte("a"))
		_ = s.Set(cache.TasksKey("bob"), []byte("b"))
		_ = s.Remove(cache.TasksKey("alice"))

		got, err := s.Get(cache.TasksKey("bob"))
		if err != nil || string(got) != "b" {
			t.Errorf("expected bob untouched, got %q, %v", got, err)
		}
	})

	t.Run("unusual key characters", func(t *testing.T) {
		s := open(t)
		key := cache.TasksKey("../we ird/name")
		if err := s.Set(key, []byte("v")); err != nil {
			t.Fatalf("set: %v", err)
		}
		got, err := s.Get(key)
		if err != nil || string(got) != "v" {
			t.Errorf("expected round trip, got %q, %v", got, err)
		}
	})
}
