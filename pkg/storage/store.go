// Package storage persists the session across process restarts.
//
// A Store is a flat string key-value map holding the access token, the refresh
// token and the cached user (as JSON). Writes to different keys are independent:
// a crash between two Set calls can leave a new access token next to a stale
// refresh token, and callers must tolerate that.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Key names a persisted session entry.
type Key string

const (
	KeyAccessToken  Key = "access_token"
	KeyRefreshToken Key = "refresh_token"
	KeyUser         Key = "user"
)

// Keys lists every key a session writes.
var Keys = []Key{KeyAccessToken, KeyRefreshToken, KeyUser}

// ErrNotFound is returned by Get when the key holds no value.
var ErrNotFound = errors.New("storage: key not found")

// Store is the durable backing copy of the session.
type Store interface {
	// Get returns the value for key, or ErrNotFound.
	Get(ctx context.Context, key Key) (string, error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key Key, value string) error
	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key Key) error
}

// Lookup is Get with ErrNotFound folded into ok=false.
func Lookup(ctx context.Context, s Store, key Key) (string, bool, error) {
	v, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

// Clear removes every session key. All removals are attempted; the errors are joined.
func Clear(ctx context.Context, s Store) error {
	var errs []error
	for _, k := range Keys {
		if err := s.Remove(ctx, k); err != nil {
			errs = append(errs, fmt.Errorf("remove %s: %w", k, err))
		}
	}
	return errors.Join(errs...)
}

// Backend selects a Store implementation.
type Backend string

const (
	BackendFile   Backend = "file"
	BackendRedis  Backend = "redis"
	BackendSQLite Backend = "sqlite"
	BackendMemory Backend = "memory"
)

// UnmarshalText implements encoding.TextUnmarshaler for Backend.
func (b *Backend) UnmarshalText(text []byte) error {
	v := Backend(strings.ToLower(strings.TrimSpace(string(text))))
	switch v {
	case BackendFile, BackendRedis, BackendSQLite, BackendMemory:
		*b = v
		return nil
	default:
		return fmt.Errorf("invalid store backend: %q (valid options: file, redis, sqlite, memory)", string(text))
	}
}
