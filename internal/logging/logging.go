// Package logging configures the process-wide zerolog logger. Output goes to a
// file because the terminal belongs to the UI.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// Options controls logger construction.
type Options struct {
	Level  string
	Format string
	// File is the log destination. Empty means ~/.estate/estate.log.
	File string
}

// DefaultFile returns ~/.estate/estate.log.
func DefaultFile() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("find home directory: %w", err)
	}
	return filepath.Join(home, ".estate", "estate.log"), nil
}

// ParseLevel accepts zerolog level names. Empty means info.
func ParseLevel(s string) (zerolog.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("log level %q: %w", s, err)
	}
	return lvl, nil
}

// New builds a logger writing to w.
func New(w io.Writer, opts Options) (zerolog.Logger, error) {
	lvl, err := ParseLevel(opts.Level)
	if err != nil {
		return zerolog.Nop(), err
	}
	switch strings.ToLower(opts.Format) {
	case "", FormatJSON:
	case FormatConsole:
		w = zerolog.ConsoleWriter{Out: w, NoColor: true, TimeFormat: time.RFC3339}
	default:
		return zerolog.Nop(), fmt.Errorf("log format %q: want %s or %s", opts.Format, FormatJSON, FormatConsole)
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}

// Setup opens the log file and installs the logger as the global
// github.com/rs/zerolog/log logger. Close the returned file on exit.
func Setup(opts Options) (io.Closer, error) {
	path := opts.File
	if path == "" {
		var err error
		if path, err = DefaultFile(); err != nil {
			return nil, fmt.Errorf("logging.Setup: %w", err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("logging.Setup: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("logging.Setup: %w", err)
	}
	logger, err := New(f, opts)
	if err != nil {
		f.Close() //nolint:errcheck
		return nil, fmt.Errorf("logging.Setup: %w", err)
	}
	log.Logger = logger
	return f, nil
}

// Disable silences the global logger.
func Disable() {
	log.Logger = zerolog.Nop()
}
