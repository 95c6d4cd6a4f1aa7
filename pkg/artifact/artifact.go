// Package artifact publishes encoded descriptions and rendered images to
// object storage so they can be linked to from outside the service.
package artifact

import (
	"context"
	"errors"
	"path"
	"sort"
	"strings"
	"sync"

	cderrors "github.com/matzehuels/classdiagram/pkg/errors"
)

// ErrNotFound is returned when an artifact does not exist.
var ErrNotFound = errors.New("artifact not found")

// Store persists artifacts grouped by diagram id.
type Store interface {
	Put(ctx context.Context, diagramID, name string, content []byte, contentType string) error
	Get(ctx context.Context, diagramID, name string) ([]byte, error)
	GetURL(ctx context.Context, diagramID, name string) (string, error)
	List(ctx context.Context, diagramID string) ([]string, error)
}

// ContentType returns the MIME type for an artifact name.
func ContentType(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".puml":
		return "text/plain; charset=utf-8"
	case ".svg":
		return "image/svg+xml"
	case ".png":
		return "image/png"
	case ".pdf":
		return "application/pdf"
	case ".json":
		return "application/json"
	default:
		return "application/octet-stream"
	}
}

func objectKey(diagramID, name string) string {
	normalized := strings.TrimLeft(strings.TrimSpace(name), "/")
	return strings.TrimSpace(diagramID) + "/" + normalized
}

// MemoryStore keeps artifacts in process.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string][]byte
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string][]byte)}
}

func (s *MemoryStore) Put(ctx context.Context, diagramID, name string, content []byte, contentType string) error {
	if err := checkArgs(diagramID, name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[objectKey(diagramID, name)] = append([]byte(nil), content...)
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, diagramID, name string) ([]byte, error) {
	if err := checkArgs(diagramID, name); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.items[objectKey(diagramID, name)]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

// GetURL returns a memory:// reference; the store has no public endpoint.
func (s *MemoryStore) GetURL(ctx context.Context, diagramID, name string) (string, error) {
	if _, err := s.Get(ctx, diagramID, name); err != nil {
		return "", err
	}
	return "memory://" + objectKey(diagramID, name), nil
}

func (s *MemoryStore) List(ctx context.Context, diagramID string) ([]string, error) {
	prefix := strings.TrimSuffix(diagramID, "/") + "/"
	s.mu.RLock()
	defer s.mu.RUnlock()
	var names []string
	for k := range s.items {
		if strings.HasPrefix(k, prefix) {
			names = append(names, strings.TrimPrefix(k, prefix))
		}
	}
	sort.Strings(names)
	return names, nil
}

// checkArgs rejects ids and names that would escape the diagram's prefix.
func checkArgs(diagramID, name string) error {
	if strings.TrimSpace(diagramID) == "" {
		return errors.New("diagram id is required")
	}
	if strings.TrimSpace(name) == "" {
		return errors.New("artifact name is required")
	}
	if strings.Contains(diagramID, "/") {
		return cderrors.New(cderrors.ErrCodeInvalidPath, "diagram id cannot contain /: %q", diagramID)
	}
	return cderrors.ValidatePath(name)
}

var _ Store = (*MemoryStore)(nil)
