package store

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore keeps diagrams in a map. Contents are lost on exit.
type MemoryStore struct {
	mu       sync.RWMutex
	diagrams map[string]Diagram
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{diagrams: make(map[string]Diagram)}
}

func (s *MemoryStore) Put(ctx context.Context, d *Diagram) error {
	if err := validate(d); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.diagrams[d.ID] = *d
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Diagram, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.diagrams[id]
	if !ok {
		return nil, notFound(id)
	}
	return &d, nil
}

func (s *MemoryStore) List(ctx context.Context, limit int) ([]*Diagram, error) {
	s.mu.RLock()
	out := make([]*Diagram, 0, len(s.diagrams))
	for _, d := range s.diagrams {
		d := d
		out = append(out, &d)
	}
	s.mu.RUnlock()

	sortNewestFirst(out)
	if n := listLimit(limit); len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.diagrams[id]; !ok {
		return notFound(id)
	}
	delete(s.diagrams, id)
	return nil
}

func (s *MemoryStore) Close() error { return nil }

// sortNewestFirst orders by creation time, breaking ties by id so the order
// is stable.
func sortNewestFirst(ds []*Diagram) {
	sort.Slice(ds, func(i, j int) bool {
		if !ds[i].CreatedAt.Equal(ds[j].CreatedAt) {
			return ds[i].CreatedAt.After(ds[j].CreatedAt)
		}
		return ds[i].ID < ds[j].ID
	})
}

var _ Store = (*MemoryStore)(nil)
