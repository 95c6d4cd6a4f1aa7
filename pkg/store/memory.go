package store

import (
	"context"
	"slices"
	"sync"
)

// MemoryStore keeps diagrams in a map. It is safe for concurrent use.
type MemoryStore struct {
	mu       sync.RWMutex
	diagrams map[string]*Diagram
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{diagrams: make(map[string]*Diagram)}
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Diagram, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.diagrams[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (s *MemoryStore) Save(ctx context.Context, d *Diagram) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *d
	s.diagrams[d.ID] = &cp
	return nil
}

func (s *MemoryStore) List(ctx context.Context, limit int) ([]Summary, error) {
	s.mu.RLock()
	out := make([]Summary, 0, len(s.diagrams))
	for _, d := range s.diagrams {
		out = append(out, summarize(d))
	}
	s.mu.RUnlock()
	return newestFirst(out, limit), nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.diagrams, id)
	return nil
}

func (s *MemoryStore) Close() error { return nil }

// newestFirst sorts by creation time descending, then id, and applies limit.
func newestFirst(out []Summary, limit int) []Summary {
	slices.SortFunc(out, func(a, b Summary) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

var _ Store = (*MemoryStore)(nil)
