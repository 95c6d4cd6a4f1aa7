package io

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/classdiagram/pkg/errors"
)

func TestDescriptionPath(t *testing.T) {
	tests := []struct{ in, want string }{
		{"zoo", "zoo.puml"},
		{"zoo.puml", "zoo.puml"},
		{"out/zoo.PUML", "out/zoo.PUML"},
		{"zoo.txt", "zoo.txt.puml"},
	}
	for _, tt := range tests {
		if got := DescriptionPath(tt.in); got != tt.want {
			t.Errorf("DescriptionPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExportDescription(t *testing.T) {
	dir := t.TempDir()
	const desc = "@startuml\n@enduml\n"

	path, err := ExportDescription(filepath.Join(dir, "zoo"), desc)
	if err != nil {
		t.Fatalf("ExportDescription() error = %v", err)
	}
	if filepath.Base(path) != "zoo.puml" {
		t.Errorf("path = %q, want zoo.puml", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != desc {
		t.Errorf("content = %q, want %q", data, desc)
	}

	_, err = ExportDescription(filepath.Join(dir, "missing", "zoo"), desc)
	if !errors.Is(err, errors.ErrCodePersistence) {
		t.Errorf("error = %v, want code %s", err, errors.ErrCodePersistence)
	}
}
