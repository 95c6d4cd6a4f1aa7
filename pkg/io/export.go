package io

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/classdiagram/pkg/errors"
)

// DescriptionExt is the file extension for PlantUML descriptions.
const DescriptionExt = ".puml"

// WriteDescription writes an encoded description to w.
func WriteDescription(w io.Writer, desc string) error {
	if _, err := io.WriteString(w, desc); err != nil {
		return fmt.Errorf("write description: %w", err)
	}
	return nil
}

// DescriptionPath returns the .puml path for an output name. A name that
// already ends in the extension is returned unchanged.
func DescriptionPath(name string) string {
	if strings.EqualFold(filepath.Ext(name), DescriptionExt) {
		return name
	}
	return name + DescriptionExt
}

// ExportDescription writes desc to the .puml file for name and returns the
// path written. Failures carry [errors.ErrCodePersistence].
func ExportDescription(name, desc string) (string, error) {
	path := DescriptionPath(name)
	f, err := os.Create(path)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodePersistence, err, "create %s", path)
	}
	if err := WriteDescription(f, desc); err != nil {
		f.Close()
		return "", errors.Wrap(errors.ErrCodePersistence, err, "write %s", path)
	}
	if err := f.Close(); err != nil {
		return "", errors.Wrap(errors.ErrCodePersistence, err, "close %s", path)
	}
	return path, nil
}
