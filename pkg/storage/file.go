package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// errCorrupt marks a session file that is not a JSON object of strings.
var errCorrupt = errors.New("decode session file")

const (
	dirPermissions  = 0o700
	filePermissions = 0o600
)

// FileStore keeps the session in a single JSON object on disk, by default
// ~/.estate/session.json. Every Set or Remove rewrites the file through a
// temp file and rename.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// DefaultFilePath returns ~/.estate/session.json.
func DefaultFilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".estate", "session.json"), nil
}

// NewFileStore returns a FileStore writing to path. The file is created on first write.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (f *FileStore) Path() string { return f.path }

func (f *FileStore) Get(_ context.Context, key Key) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	values, err := f.read()
	if err != nil {
		return "", err
	}
	v, ok := values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (f *FileStore) Set(_ context.Context, key Key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	values, err := f.read()
	if err != nil {
		return err
	}
	values[key] = value
	return f.write(values)
}

// Remove deletes key. A file that cannot be decoded is discarded whole.
func (f *FileStore) Remove(_ context.Context, key Key) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	values, err := f.read()
	if errors.Is(err, errCorrupt) {
		if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove corrupt session file: %w", err)
		}
		return nil
	}
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	if len(values) == 0 {
		if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove session file: %w", err)
		}
		return nil
	}
	return f.write(values)
}

func (f *FileStore) read() (map[Key]string, error) {
	values := make(map[Key]string)
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return values, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("%w: %w", errCorrupt, err)
	}
	return values, nil
}

func (f *FileStore) write(values map[Key]string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), dirPermissions); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session file: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, filePermissions); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		os.Remove(tmp) //nolint:errcheck // best-effort cleanup
		return fmt.Errorf("replace session file: %w", err)
	}
	return nil
}
