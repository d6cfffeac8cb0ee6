// Package prompt holds the default summarization instruction and keeps it in
// sync with an optional override file.
package prompt

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/GriffinCanCode/audio2reu/internal/syncx"
)

// Store serves the current default instruction.
type Store struct {
	path    string
	current *syncx.RWGuard[string]
}

// NewStore returns a store seeded from path, or from DefaultSummary when path is empty.
func NewStore(path string) (*Store, error) {
	s := &Store{path: path, current: syncx.NewGuard(DefaultSummary)}
	if path == "" {
		return s, nil
	}
	if err := s.reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Default returns the instruction in effect.
func (s *Store) Default() string { return s.current.Get() }

// reload reads the override file. An empty file falls back to DefaultSummary.
func (s *Store) reload() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("read prompt file: %w", err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		text = DefaultSummary
	}
	s.current.Set(text)
	return nil
}

// Watch reloads the override file whenever it changes until ctx is done.
// Editors that replace the file are handled by watching its directory.
func (s *Store) Watch(ctx context.Context) error {
	if s.path == "" {
		<-ctx.Done()
		return nil
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("add watch path: %w", err)
	}
	target := filepath.Clean(s.path)
	slog.Info("watching summary prompt", "path", target)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if filepath.Clean(ev.Name) != target || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := s.reload(); err != nil {
				slog.Warn("summary prompt reload failed", "path", target, "error", err)
				continue
			}
			slog.Info("summary prompt reloaded", "path", target)
		case err, ok := <-w.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			slog.Warn("prompt watcher error", "error", err)
		}
	}
}
