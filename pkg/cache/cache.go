// Package cache stores encoded diagram descriptions and previews so that an
// unchanged manifest is not resolved and encoded again.
//
// Four backends implement [Cache]: [FileCache] for the CLI, [MemoryCache]
// (a bounded LRU) and [RedisCache] for the HTTP service, and [NullCache]
// when caching is off. Keys come from a [Keyer] so every backend agrees on
// what identifies a cached result.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with optional expiry. A miss is reported as
// ok == false with a nil error.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Backend names accepted by [Open].
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendNone   = "none"
)

// Options selects and configures a backend for [Open].
type Options struct {
	Backend  string
	Dir      string // file backend
	Size     int    // memory backend entries
	RedisURL string // redis backend
}

// Open creates the backend named in opts. An empty backend means file.
func Open(ctx context.Context, opts Options) (Cache, error) {
	switch opts.Backend {
	case BackendFile, "":
		c, err := NewFileCache(opts.Dir)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendMemory:
		c, err := NewMemoryCache(opts.Size)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendRedis:
		c, err := NewRedisCache(ctx, opts.RedisURL)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendNone:
		return NewNullCache(), nil
	default:
		return nil, &UnknownBackendError{Name: opts.Backend}
	}
}

// UnknownBackendError reports an unsupported backend name.
type UnknownBackendError struct{ Name string }

func (e *UnknownBackendError) Error() string { return "unknown cache backend: " + e.Name }
