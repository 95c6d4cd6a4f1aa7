package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/classdiagram/pkg/cache"
	"github.com/matzehuels/classdiagram/pkg/errors"
	cdio "github.com/matzehuels/classdiagram/pkg/io"
	"github.com/matzehuels/classdiagram/pkg/render/plantuml"
)

func zoo() *cdio.Manifest {
	return &cdio.Manifest{
		Title: "Zoo",
		Types: []cdio.TypeSpec{
			{Name: "zoo.Animal", Attributes: []cdio.AttributeSpec{{Name: "name", Type: "String", Visibility: "private"}}},
			{Name: "zoo.Dog", Extends: "zoo.Animal"},
			{Name: "zoo.Kennel"},
		},
		Relationships: []cdio.RelationshipSpec{{Source: "zoo.Dog", Target: "zoo.Kennel", Kind: "Composition"}},
	}
}

func newRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewMemoryCache(16)
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, nil)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestValidatePreviewFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"dot", false},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidatePreviewFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidatePreviewFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestOptionsValidateForLoad(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"no input", Options{}, true},
		{"manifest", Options{Manifest: zoo()}, false},
		{"path", Options{ManifestPath: "zoo.toml"}, false},
		{"source dir", Options{SourceDir: "src"}, false},
		{"two inputs", Options{ManifestPath: "zoo.toml", SourceDir: "src"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateForLoad()
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateForLoad() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	opts := Options{SourceDir: "src"}
	if err := opts.ValidateForLoad(); err != nil {
		t.Fatal(err)
	}
	if opts.Language != DefaultLanguage {
		t.Errorf("Language = %q, want %q", opts.Language, DefaultLanguage)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
}

func TestOptionsValidateAndSetDefaults(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"plain", Options{Manifest: zoo()}, false},
		{"preview", Options{Manifest: zoo(), Preview: "svg"}, false},
		{"bad preview", Options{Manifest: zoo(), Preview: "gif"}, true},
		{"export without output", Options{Manifest: zoo(), Export: true}, true},
		{"export", Options{Manifest: zoo(), Export: true, Output: "zoo", ExportFormat: "svg"}, false},
		{"bad export format", Options{Manifest: zoo(), Export: true, Output: "zoo", ExportFormat: "bmp"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAndSetDefaults() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{SourceDir: "src"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	opts.Language = "typescript"
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.Language != "typescript" {
		t.Errorf("second call changed Language to %q", opts.Language)
	}
}

func TestOptionsApply(t *testing.T) {
	m := zoo()
	opts := Options{Title: "Park", Qualified: true, Layout: "elk"}
	got := opts.apply(m)
	if got.Title != "Park" || !got.Qualified || got.Layout != "elk" {
		t.Errorf("apply() = %+v", got)
	}
	if m.Title != "Zoo" || m.Qualified {
		t.Error("apply() modified its input")
	}
}

func TestExecute(t *testing.T) {
	r := newRunner(t)
	ctx := context.Background()

	result, err := r.Execute(ctx, Options{Manifest: zoo()})
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"title Zoo\n",
		"class Animal {\n\t-String name\n}\n",
		"Kennel *-- Dog\n",
		"Animal <|-- Dog\n",
	} {
		if !strings.Contains(result.Description, want) {
			t.Errorf("description missing %q:\n%s", want, result.Description)
		}
	}
	if result.Stats.TypeCount != 3 {
		t.Errorf("TypeCount = %d, want 3", result.Stats.TypeCount)
	}
	if result.CacheInfo.EncodeHit {
		t.Error("first run should miss the cache")
	}

	again, err := r.Execute(ctx, Options{Manifest: zoo()})
	if err != nil {
		t.Fatal(err)
	}
	if !again.CacheInfo.EncodeHit {
		t.Error("second run should hit the cache")
	}
	if again.Description != result.Description {
		t.Error("cached description differs")
	}

	refreshed, err := r.Execute(ctx, Options{Manifest: zoo(), Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if refreshed.CacheInfo.EncodeHit {
		t.Error("refresh should bypass the cache")
	}
}

func TestExecuteOverridesChangeKey(t *testing.T) {
	r := newRunner(t)
	ctx := context.Background()

	if _, err := r.Execute(ctx, Options{Manifest: zoo()}); err != nil {
		t.Fatal(err)
	}
	result, err := r.Execute(ctx, Options{Manifest: zoo(), Qualified: true})
	if err != nil {
		t.Fatal(err)
	}
	if result.CacheInfo.EncodeHit {
		t.Error("qualified run should not reuse the short-name description")
	}
	if !strings.Contains(result.Description, "class zoo.Animal {") {
		t.Errorf("expected qualified names:\n%s", result.Description)
	}
}

func TestExecuteOnly(t *testing.T) {
	r := newRunner(t)
	ctx := context.Background()

	result, err := r.Execute(ctx, Options{Manifest: zoo(), Only: []string{"zoo.Dog"}})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(result.Description, "class Kennel") {
		t.Errorf("unselected type encoded:\n%s", result.Description)
	}

	_, err = r.Execute(ctx, Options{Manifest: zoo(), Only: []string{"zoo.Cat"}})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Execute() error = %v, want code %s", err, errors.ErrCodeInvalidInput)
	}
}

func TestExecuteWritesDescription(t *testing.T) {
	r := newRunner(t)
	out := filepath.Join(t.TempDir(), "zoo")

	result, err := r.Execute(context.Background(), Options{Manifest: zoo(), Output: out})
	if err != nil {
		t.Fatal(err)
	}
	if result.DescriptionPath != out+".puml" {
		t.Errorf("DescriptionPath = %q", result.DescriptionPath)
	}
	data, err := os.ReadFile(result.DescriptionPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != result.Description {
		t.Error("file content differs from description")
	}
}

func TestExecuteExportFailure(t *testing.T) {
	r := newRunner(t)
	r.Exporter = &plantuml.Exporter{Java: "java", Jar: filepath.Join(t.TempDir(), "missing.jar")}
	out := filepath.Join(t.TempDir(), "zoo")

	result, err := r.Execute(context.Background(), Options{Manifest: zoo(), Output: out, Export: true})
	if err != nil {
		t.Fatalf("non-strict export should not fail the run: %v", err)
	}
	if !errors.Is(result.ExportErr, errors.ErrCodeExport) {
		t.Errorf("ExportErr = %v, want code %s", result.ExportErr, errors.ErrCodeExport)
	}
	if _, err := os.Stat(result.DescriptionPath); err != nil {
		t.Errorf("description should survive a failed export: %v", err)
	}

	_, err = r.Execute(context.Background(), Options{Manifest: zoo(), Output: out, Export: true, StrictExport: true})
	if !errors.Is(err, errors.ErrCodeExport) {
		t.Errorf("strict export error = %v, want code %s", err, errors.ErrCodeExport)
	}
}

func TestExecuteDOTPreview(t *testing.T) {
	r := newRunner(t)
	ctx := context.Background()

	result, err := r.Execute(ctx, Options{Manifest: zoo(), Preview: PreviewDOT})
	if err != nil {
		t.Fatal(err)
	}
	dot := string(result.Preview)
	if !strings.HasPrefix(dot, "digraph") {
		t.Errorf("preview is not DOT:\n%s", dot)
	}
	if result.CacheInfo.PreviewHit {
		t.Error("first preview should miss the cache")
	}

	again, err := r.Execute(ctx, Options{Manifest: zoo(), Preview: PreviewDOT})
	if err != nil {
		t.Fatal(err)
	}
	if !again.CacheInfo.PreviewHit {
		t.Error("second preview should hit the cache")
	}
}

func TestExecuteSourceDir(t *testing.T) {
	dir := t.TempDir()
	src := "class Animal:\n    pass\n\nclass Dog(Animal):\n    def bark(self) -> str:\n        return 'woof'\n"
	if err := os.WriteFile(filepath.Join(dir, "zoo.py"), []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := newRunner(t).Execute(context.Background(), Options{SourceDir: dir})
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"class Dog {\n\t+bark() str\n}\n", "Animal <|-- Dog\n"} {
		if !strings.Contains(result.Description, want) {
			t.Errorf("description missing %q:\n%s", want, result.Description)
		}
	}
	if strings.Contains(result.Description, "class object") {
		t.Errorf("root type should not be drawn:\n%s", result.Description)
	}
}

func TestLoadManifestPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zoo.json")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := cdio.WriteManifest(zoo(), f, cdio.FormatJSON); err != nil {
		t.Fatal(err)
	}
	f.Close()

	m, err := newRunner(t).Load(context.Background(), Options{ManifestPath: path})
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Types) != 3 {
		t.Errorf("Load() types = %d, want 3", len(m.Types))
	}

	_, err = newRunner(t).Load(context.Background(), Options{ManifestPath: filepath.Join(t.TempDir(), "nope.toml")})
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load() error = %v, want code %s", err, errors.ErrCodeFileNotFound)
	}
}

func TestLoadUnsupportedLanguage(t *testing.T) {
	_, err := newRunner(t).Load(context.Background(), Options{SourceDir: t.TempDir(), Language: "cobol"})
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("Load() error = %v, want code %s", err, errors.ErrCodeUnsupported)
	}
}
