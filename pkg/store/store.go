// Package store keeps saved diagram manifests for the HTTP service.
//
// A saved [Diagram] is a manifest plus an id and timestamps. Three backends
// implement [Store]:
//   - [MemoryStore]: in-process, for development and tests
//   - [FileStore]: one JSON file per diagram, for a single local server
//   - [MongoStore]: a MongoDB collection, for shared deployments
//
// Ids are random UUIDs. The manifest's content hash is stored alongside so
// callers can key caches on it without re-encoding.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/classdiagram/pkg/cache"
	cdio "github.com/matzehuels/classdiagram/pkg/io"
)

// ErrNotFound is returned when a diagram does not exist.
var ErrNotFound = errors.New("diagram not found")

// Diagram is a saved manifest.
type Diagram struct {
	ID        string         `json:"id" bson:"_id"`
	Title     string         `json:"title" bson:"title"`
	Hash      string         `json:"hash" bson:"hash"`
	Manifest  *cdio.Manifest `json:"manifest" bson:"manifest"`
	CreatedAt time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time      `json:"updated_at" bson:"updated_at"`
}

// Summary is the listing view of a diagram.
type Summary struct {
	ID        string    `json:"id" bson:"_id"`
	Title     string    `json:"title" bson:"title"`
	Types     int       `json:"types" bson:"-"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Store persists diagrams.
type Store interface {
	// Get returns the diagram with id, or ErrNotFound.
	Get(ctx context.Context, id string) (*Diagram, error)
	// Save inserts or replaces d.
	Save(ctx context.Context, d *Diagram) error
	// List returns diagrams newest first. A limit of zero or less returns all.
	List(ctx context.Context, limit int) ([]Summary, error)
	// Delete removes a diagram; deleting a missing id is not an error.
	Delete(ctx context.Context, id string) error
	Close() error
}

// New creates a diagram record for m with a fresh id.
func New(m *cdio.Manifest) (*Diagram, error) {
	hash, err := ManifestHash(m)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &Diagram{
		ID:        uuid.NewString(),
		Title:     m.Title,
		Hash:      hash,
		Manifest:  m,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ManifestHash returns the content hash of m's canonical JSON encoding.
func ManifestHash(m *cdio.Manifest) (string, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("hash manifest: %w", err)
	}
	return cache.Hash(data), nil
}

// ValidID reports whether id has the form of a generated id.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func summarize(d *Diagram) Summary {
	s := Summary{ID: d.ID, Title: d.Title, CreatedAt: d.CreatedAt}
	if d.Manifest != nil {
		s.Types = len(d.Manifest.TypeNames())
	}
	return s
}
