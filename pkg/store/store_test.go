package store

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	cdio "github.com/matzehuels/classdiagram/pkg/io"
)

func manifest(title string, types ...string) *cdio.Manifest {
	m := &cdio.Manifest{Title: title}
	for _, t := range types {
		m.Types = append(m.Types, cdio.TypeSpec{Name: t})
	}
	return m
}

// exerciseStore runs the behavior every backend shares.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	first, err := New(manifest("first", "A", "B"))
	if err != nil {
		t.Fatal(err)
	}
	second, _ := New(manifest("second", "C"))
	second.CreatedAt = first.CreatedAt.Add(time.Second)

	for _, d := range []*Diagram{first, second} {
		if err := s.Save(ctx, d); err != nil {
			t.Fatalf("Save error: %v", err)
		}
	}

	got, err := s.Get(ctx, first.ID)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.Title != "first" || got.Hash != first.Hash || len(got.Manifest.Types) != 2 {
		t.Errorf("Get = %+v", got)
	}

	list, err := s.List(ctx, 0)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(list) != 2 || list[0].ID != second.ID || list[1].Types != 2 {
		t.Errorf("List = %+v, want second then first", list)
	}
	if list, _ := s.List(ctx, 1); len(list) != 1 {
		t.Errorf("List(1) returned %d entries", len(list))
	}

	first.Title = "renamed"
	if err := s.Save(ctx, first); err != nil {
		t.Fatal(err)
	}
	if got, _ := s.Get(ctx, first.ID); got.Title != "renamed" {
		t.Errorf("Title after replace = %q", got.Title)
	}

	if err := s.Delete(ctx, first.ID); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, err := s.Get(ctx, first.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after Delete error = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, first.ID); err != nil {
		t.Errorf("Delete of missing id error: %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	exerciseStore(t, s)
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	exerciseStore(t, s)

	if _, err := s.Get(context.Background(), "../etc/passwd"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get with invalid id error = %v, want ErrNotFound", err)
	}
	if err := s.Save(context.Background(), &Diagram{ID: "nope"}); err == nil {
		t.Error("Save with invalid id should fail")
	}
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("CLASSDIAGRAM_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("CLASSDIAGRAM_TEST_MONGO_URI not set")
	}
	s, err := NewMongoStore(context.Background(), uri, "classdiagram_test")
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	exerciseStore(t, s)
}

func TestManifestHash(t *testing.T) {
	a, _ := ManifestHash(manifest("x", "A"))
	b, _ := ManifestHash(manifest("x", "A"))
	c, _ := ManifestHash(manifest("x", "B"))
	if a != b {
		t.Error("ManifestHash should be deterministic")
	}
	if a == c {
		t.Error("different manifests should hash differently")
	}
}

func TestMemoryStoreCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	d, _ := New(manifest("x"))
	s.Save(ctx, d)
	d.Title = "changed"
	if got, _ := s.Get(ctx, d.ID); got.Title != "x" {
		t.Errorf("stored diagram aliased caller's value: %q", got.Title)
	}
}
