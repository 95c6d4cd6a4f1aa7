package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/classdiagram/pkg/cache"
)

func TestCacheDir(t *testing.T) {
	c := testCLI(t)
	dir, err := c.cacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != c.Config.Cache.Dir {
		t.Errorf("cacheDir() = %q, want %q", dir, c.Config.Cache.Dir)
	}

	c.Config.Cache.Backend = cache.BackendRedis
	if _, err := c.cacheDir(); err == nil {
		t.Error("cacheDir() should refuse non-file backends")
	}
}

func TestCacheDirDefault(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	c := testCLI(t)
	c.Config.Cache.Dir = ""

	dir, err := c.cacheDir()
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(os.Getenv("XDG_CACHE_HOME"), "classdiagram")
	if dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}
