package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps one JSON file per diagram in a directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a file store in baseDir, creating it if needed.
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("file store: directory is required")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) diagramPath(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

func (s *FileStore) Get(ctx context.Context, id string) (*Diagram, error) {
	if !ValidID(id) {
		return nil, ErrNotFound
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read(s.diagramPath(id))
}

func (s *FileStore) read(path string) (*Diagram, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read diagram file: %w", err)
	}
	var d Diagram
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse diagram: %w", err)
	}
	return &d, nil
}

func (s *FileStore) Save(ctx context.Context, d *Diagram) error {
	if !ValidID(d.ID) {
		return fmt.Errorf("save diagram: invalid id %q", d.ID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal diagram: %w", err)
	}
	if err := os.WriteFile(s.diagramPath(d.ID), data, 0o644); err != nil {
		return fmt.Errorf("write diagram file: %w", err)
	}
	return nil
}

func (s *FileStore) List(ctx context.Context, limit int) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read store dir: %w", err)
	}
	var out []Summary
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		d, err := s.read(filepath.Join(s.baseDir, entry.Name()))
		if err != nil {
			continue
		}
		out = append(out, summarize(d))
	}
	return newestFirst(out, limit), nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	if !ValidID(id) {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.diagramPath(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove diagram file: %w", err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the base directory for diagram files.
func (s *FileStore) Path() string {
	return s.baseDir
}

var _ Store = (*FileStore)(nil)
