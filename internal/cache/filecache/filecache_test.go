package filecache_test

import (
	"os"
	"path/filepath"
	"testing"

	"tasktrack/internal/cache"
	"tasktrack/internal/cache/cachetest"
	"tasktrack/internal/cache/filecache"
)

func TestStore(t *testing.T) {
	cachetest.Run(t, func(t *testing.T) cache.Store {
		s, err := filecache.Open(filepath.Join(t.TempDir(), "cache"))
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		return s
	})
}

func TestStore_FileStaysInDir(t *testing.T) {
	dir := t.TempDir()
	s, err := filecache.Open(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	path := s.Path(cache.TasksKey("../../etc/passwd"))
	if filepath.Dir(path) != dir {
		t.Errorf("expected file inside %s, got %s", dir, path)
	}

	if err := s.Set(cache.SessionKey, []byte("{}")); err != nil {
		t.Fatalf("set: %v", err)
	}
	info, err := os.Stat(s.Path(cache.SessionKey))
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("expected mode 0600, got %v", info.Mode().Perm())
	}
}

func TestOpen_EmptyDir(t *testing.T) {
	if _, err := filecache.Open(""); err == nil {
		t.Fatal("expected error for empty dir")
	}
}
