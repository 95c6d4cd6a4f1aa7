package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/classdiagram/pkg/cache"
)

func env(vars map[string]string) lookupFunc {
	return func(name string) (string, bool) {
		v, ok := vars[name]
		return v, ok
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[plantuml]
jar = "/opt/plantuml/plantuml.jar"
timeout = "30s"

[cache]
backend = "redis"
redis_url = "redis://localhost:6379/0"

[server]
addr = ":9000"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.PlantUML.Jar != "/opt/plantuml/plantuml.jar" {
		t.Errorf("Jar = %q", cfg.PlantUML.Jar)
	}
	if cfg.PlantUML.Timeout.Duration != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.PlantUML.Timeout)
	}
	if cfg.PlantUML.Java != "java" {
		t.Errorf("Java = %q, default should survive a partial file", cfg.PlantUML.Java)
	}
	if cfg.Cache.Backend != cache.BackendRedis || cfg.Server.Addr != ":9000" {
		t.Errorf("Cache = %+v, Server = %+v", cfg.Cache, cfg.Server)
	}
}

func TestLoadFileMissing(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "none.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != DefaultAddr {
		t.Errorf("Addr = %q, want default", cfg.Server.Addr)
	}
}

func TestLoadFileInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[plantuml\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Error("expected a decode error")
	}
}

func TestApplyEnv(t *testing.T) {
	tests := []struct {
		name    string
		vars    map[string]string
		check   func(*Config) bool
		wantErr bool
	}{
		{
			name:  "strings",
			vars:  map[string]string{"CLASSDIAGRAM_ADDR": ":7000", "CLASSDIAGRAM_MONGO_URI": "mongodb://db"},
			check: func(c *Config) bool { return c.Server.Addr == ":7000" && c.Store.MongoURI == "mongodb://db" },
		},
		{
			name:  "blank ignored",
			vars:  map[string]string{"CLASSDIAGRAM_ADDR": "  "},
			check: func(c *Config) bool { return c.Server.Addr == DefaultAddr },
		},
		{
			name:  "timeout",
			vars:  map[string]string{"CLASSDIAGRAM_PLANTUML_TIMEOUT": "5s"},
			check: func(c *Config) bool { return c.PlantUML.Timeout.Duration == 5*time.Second },
		},
		{
			name:  "ssl off",
			vars:  map[string]string{"CLASSDIAGRAM_S3_USE_SSL": "false"},
			check: func(c *Config) bool { return !c.Artifacts.UseSSL },
		},
		{name: "bad timeout", vars: map[string]string{"CLASSDIAGRAM_PLANTUML_TIMEOUT": "soon"}, wantErr: true},
		{name: "bad size", vars: map[string]string{"CLASSDIAGRAM_CACHE_SIZE": "many"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			err := cfg.applyEnv(env(tt.vars))
			if (err != nil) != tt.wantErr {
				t.Fatalf("applyEnv() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil && !tt.check(cfg) {
				t.Errorf("applyEnv() config = %+v", cfg)
			}
		})
	}
}

func TestPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg/config")
	t.Setenv("XDG_CACHE_HOME", "/xdg/cache")

	if got, _ := Path(); got != filepath.Join("/xdg/config", "classdiagram", "config.toml") {
		t.Errorf("Path() = %q", got)
	}
	if got, _ := CacheDir(); got != filepath.Join("/xdg/cache", "classdiagram") {
		t.Errorf("CacheDir() = %q", got)
	}
}

func TestCacheOptions(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/xdg/cache")

	opts, err := Default().CacheOptions()
	if err != nil {
		t.Fatal(err)
	}
	if opts.Dir != filepath.Join("/xdg/cache", "classdiagram") {
		t.Errorf("Dir = %q", opts.Dir)
	}

	cfg := Default()
	cfg.Cache.Backend = cache.BackendMemory
	if opts, _ := cfg.CacheOptions(); opts.Dir != "" {
		t.Errorf("memory backend got Dir %q", opts.Dir)
	}
}

func TestS3(t *testing.T) {
	if _, ok := Default().S3(); ok {
		t.Error("publishing should be off without an endpoint")
	}
	cfg := Default()
	cfg.Artifacts.Endpoint = "localhost:9000"
	s3, ok := cfg.S3()
	if !ok || s3.Bucket != "classdiagram" {
		t.Errorf("S3() = %+v, %v", s3, ok)
	}
}
