// Package config loads classdiagram settings from the config file, a .env
// file and CLASSDIAGRAM_* environment variables, in increasing precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/matzehuels/classdiagram/pkg/artifact"
	"github.com/matzehuels/classdiagram/pkg/cache"
	"github.com/matzehuels/classdiagram/pkg/render/plantuml"
)

const (
	appName  = "classdiagram"
	fileName = "config.toml"

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "CLASSDIAGRAM_"

	// DefaultAddr is where the HTTP service listens.
	DefaultAddr = ":8080"

	// DefaultDatabase is the Mongo database for saved diagrams.
	DefaultDatabase = "classdiagram"
)

// Config is the merged configuration.
type Config struct {
	PlantUML  PlantUML  `toml:"plantuml"`
	Cache     Cache     `toml:"cache"`
	Server    Server    `toml:"server"`
	Store     Store     `toml:"store"`
	Artifacts Artifacts `toml:"artifacts"`
}

// PlantUML locates the external renderer.
type PlantUML struct {
	Java    string   `toml:"java"`
	Jar     string   `toml:"jar"`
	Timeout Duration `toml:"timeout"`
}

// Cache selects the description cache backend.
type Cache struct {
	Backend  string `toml:"backend"` // file, memory, redis or none
	Dir      string `toml:"dir"`
	Size     int    `toml:"size"`
	RedisURL string `toml:"redis_url"`
}

// Server configures `classdiagram serve`.
type Server struct {
	Addr string `toml:"addr"`
}

// Store configures saved diagrams. An empty MongoURI keeps them in files
// under Dir, or in memory when Dir is empty too.
type Store struct {
	MongoURI string `toml:"mongo_uri"`
	Database string `toml:"database"`
	Dir      string `toml:"dir"`
}

// Artifacts configures the S3-compatible bucket that published descriptions
// go to. Publishing is disabled without an endpoint.
type Artifacts struct {
	Endpoint  string `toml:"endpoint"`
	Region    string `toml:"region"`
	Bucket    string `toml:"bucket"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
	UseSSL    bool   `toml:"use_ssl"`
}

// Duration is a time.Duration written as "90s" in TOML.
type Duration struct{ time.Duration }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		PlantUML: PlantUML{
			Java:    plantuml.DefaultJava,
			Jar:     plantuml.DefaultJar,
			Timeout: Duration{plantuml.DefaultTimeout},
		},
		Cache: Cache{
			Backend: cache.BackendFile,
			Size:    cache.DefaultMemorySize,
		},
		Server: Server{Addr: DefaultAddr},
		Store:  Store{Database: DefaultDatabase},
		Artifacts: Artifacts{
			Region: "us-east-1",
			Bucket: "classdiagram",
			UseSSL: true,
		},
	}
}

// Load reads the default config file (if present), then .env in the working
// directory (if present), then the environment.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile is like Load with an explicit config file. A missing file is not
// an error.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	_ = godotenv.Load()
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Path returns $XDG_CONFIG_HOME/classdiagram/config.toml, falling back to
// ~/.config.
func Path() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, fileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, fileName), nil
}

// CacheDir returns $XDG_CACHE_HOME/classdiagram, falling back to ~/.cache.
func CacheDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

type lookupFunc func(string) (string, bool)

func (c *Config) applyEnv(lookup lookupFunc) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	str("JAVA", &c.PlantUML.Java)
	str("PLANTUML_JAR", &c.PlantUML.Jar)
	str("CACHE_BACKEND", &c.Cache.Backend)
	str("CACHE_DIR", &c.Cache.Dir)
	str("REDIS_URL", &c.Cache.RedisURL)
	str("ADDR", &c.Server.Addr)
	str("MONGO_URI", &c.Store.MongoURI)
	str("MONGO_DATABASE", &c.Store.Database)
	str("STORE_DIR", &c.Store.Dir)
	str("S3_ENDPOINT", &c.Artifacts.Endpoint)
	str("S3_REGION", &c.Artifacts.Region)
	str("S3_BUCKET", &c.Artifacts.Bucket)
	str("S3_ACCESS_KEY", &c.Artifacts.AccessKey)
	str("S3_SECRET_KEY", &c.Artifacts.SecretKey)

	if v, ok := lookup(EnvPrefix + "PLANTUML_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sPLANTUML_TIMEOUT: %w", EnvPrefix, err)
		}
		c.PlantUML.Timeout = Duration{d}
	}
	if v, ok := lookup(EnvPrefix + "CACHE_SIZE"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sCACHE_SIZE: %w", EnvPrefix, err)
		}
		c.Cache.Size = n
	}
	if v, ok := lookup(EnvPrefix + "S3_USE_SSL"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sS3_USE_SSL: %w", EnvPrefix, err)
		}
		c.Artifacts.UseSSL = b
	}
	return nil
}

// CacheOptions returns the options for cache.Open. The file backend
// defaults to CacheDir.
func (c *Config) CacheOptions() (cache.Options, error) {
	opts := cache.Options{
		Backend:  c.Cache.Backend,
		Dir:      c.Cache.Dir,
		Size:     c.Cache.Size,
		RedisURL: c.Cache.RedisURL,
	}
	if (opts.Backend == cache.BackendFile || opts.Backend == "") && opts.Dir == "" {
		dir, err := CacheDir()
		if err != nil {
			return cache.Options{}, err
		}
		opts.Dir = dir
	}
	return opts, nil
}

// Exporter returns a PlantUML exporter for the configured renderer.
func (c *Config) Exporter() *plantuml.Exporter {
	return &plantuml.Exporter{
		Java:    c.PlantUML.Java,
		Jar:     c.PlantUML.Jar,
		Timeout: c.PlantUML.Timeout.Duration,
	}
}

// S3 returns the artifact store settings and whether publishing is enabled.
func (c *Config) S3() (artifact.S3Config, bool) {
	a := c.Artifacts
	return artifact.S3Config{
		Endpoint:  a.Endpoint,
		Region:    a.Region,
		AccessKey: a.AccessKey,
		SecretKey: a.SecretKey,
		Bucket:    a.Bucket,
		UseSSL:    a.UseSSL,
	}, a.Endpoint != ""
}
