package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// FileStore stores each diagram as a JSON file named after its id.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a file-based store in baseDir. If baseDir is empty,
// it defaults to the user config directory, e.g. ~/.config/stackdraw/diagrams.
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("get config dir: %w", err)
		}
		baseDir = filepath.Join(dir, "stackdraw", "diagrams")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create diagram dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

// path maps an id to its file. Only UUIDs are accepted so an id can never
// escape the directory.
func (s *FileStore) path(id string) (string, bool) {
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return filepath.Join(s.baseDir, id+".json"), true
}

func (s *FileStore) Put(ctx context.Context, d *Diagram) error {
	if err := validate(d); err != nil {
		return err
	}
	path, ok := s.path(d.ID)
	if !ok {
		return fmt.Errorf("diagram id %q is not a uuid", d.ID)
	}

	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal diagram: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write diagram file: %w", err)
	}
	return nil
}

func (s *FileStore) Get(ctx context.Context, id string) (*Diagram, error) {
	path, ok := s.path(id)
	if !ok {
		return nil, notFound(id)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return readDiagram(path, id)
}

func readDiagram(path, id string) (*Diagram, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, notFound(id)
		}
		return nil, fmt.Errorf("read diagram file: %w", err)
	}
	var d Diagram
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse diagram %s: %w", id, err)
	}
	return &d, nil
}

func (s *FileStore) List(ctx context.Context, limit int) ([]*Diagram, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read diagram dir: %w", err)
	}

	var out []*Diagram
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		id := entry.Name()[:len(entry.Name())-len(".json")]
		d, err := readDiagram(filepath.Join(s.baseDir, entry.Name()), id)
		if err != nil {
			continue
		}
		out = append(out, d)
	}

	sortNewestFirst(out)
	if n := listLimit(limit); len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	path, ok := s.path(id)
	if !ok {
		return notFound(id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return notFound(id)
		}
		return fmt.Errorf("remove diagram file: %w", err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

var _ Store = (*FileStore)(nil)
