package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/redis/go-redis/v9"
)

// Options selects and configures a backend for Open.
type Options struct {
	Backend Backend
	// Path is the file for the file and sqlite backends. Empty means the default
	// under ~/.estate.
	Path          string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
}

// Open builds the configured Store. The returned closer releases any
// connection the backend holds; it is never nil.
func Open(ctx context.Context, opts Options) (Store, io.Closer, error) {
	switch opts.Backend {
	case BackendMemory:
		return NewMemoryStore(), nopCloser{}, nil

	case BackendRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     opts.RedisAddr,
			Password: opts.RedisPassword,
			DB:       opts.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close() //nolint:errcheck
			return nil, nil, fmt.Errorf("storage.Open: ping redis %s: %w", opts.RedisAddr, err)
		}
		prefix := opts.RedisPrefix
		if prefix == "" {
			prefix = DefaultRedisPrefix
		}
		return NewRedisStoreWithPrefix(rdb, prefix), rdb, nil

	case BackendSQLite:
		path := opts.Path
		if path == "" {
			def, err := DefaultFilePath()
			if err != nil {
				return nil, nil, fmt.Errorf("storage.Open: %w", err)
			}
			path = def[:len(def)-len(".json")] + ".db"
		}
		s, err := OpenSQLiteStore(ctx, path)
		if err != nil {
			return nil, nil, fmt.Errorf("storage.Open: %w", err)
		}
		return s, s, nil

	case BackendFile, "":
		path := opts.Path
		if path == "" {
			def, err := DefaultFilePath()
			if err != nil {
				return nil, nil, fmt.Errorf("storage.Open: %w", err)
			}
			path = def
		}
		return NewFileStore(path), nopCloser{}, nil
	}
	return nil, nil, fmt.Errorf("storage.Open: unknown backend %q", opts.Backend)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
