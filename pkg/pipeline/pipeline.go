// Package pipeline runs the load → encode → write → export flow shared by
// the CLI and the HTTP service.
//
// # Stages
//
//  1. Load: read a manifest file, or scan a source tree and describe the
//     classes found as a manifest
//  2. Encode: build the diagram model and encode it as PlantUML text
//  3. Write: save the description as a .puml file
//  4. Export: run PlantUML on the file (optional)
//  5. Preview: draw a Graphviz node-link preview (optional)
//
// Encoding and previews are cached by manifest content hash, so an unchanged
// manifest is never encoded twice.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    ManifestPath: "zoo.toml",
//	    Output:       "zoo",
//	    Export:       true,
//	})
//	fmt.Print(result.Description)
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/classdiagram/pkg/cache"
	cdio "github.com/matzehuels/classdiagram/pkg/io"
	"github.com/matzehuels/classdiagram/pkg/render/plantuml"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// TTLDiagram is how long encoded descriptions stay cached.
	TTLDiagram = 7 * 24 * time.Hour

	// TTLPreview is how long rendered previews stay cached.
	TTLPreview = 24 * time.Hour

	// DefaultLanguage is the source language scanned when none is given.
	DefaultLanguage = "python"
)

// Preview format constants.
const (
	PreviewSVG = "svg"
	PreviewPNG = "png"
	PreviewPDF = "pdf"
	PreviewDOT = "dot"
)

// ValidPreviewFormats is the set of supported preview formats.
var ValidPreviewFormats = map[string]bool{
	PreviewSVG: true,
	PreviewPNG: true,
	PreviewPDF: true,
	PreviewDOT: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures a pipeline run. Exactly one of Manifest, ManifestPath
// and SourceDir names the input.
type Options struct {
	// Load options
	Manifest     *cdio.Manifest `json:"manifest,omitempty"`
	ManifestPath string         `json:"manifest_path,omitempty"`
	SourceDir    string         `json:"source_dir,omitempty"`
	Language     string         `json:"language,omitempty"` // for SourceDir

	// Encode options; zero values keep the manifest's settings
	Title     string   `json:"title,omitempty"`
	Qualified bool     `json:"qualified,omitempty"`
	Layout    string   `json:"layout,omitempty"`
	Only      []string `json:"only,omitempty"`
	Strict    bool     `json:"strict,omitempty"`
	Refresh   bool     `json:"refresh,omitempty"`

	// Output options
	Output       string `json:"output,omitempty"` // description file name; empty skips writing
	Export       bool   `json:"export,omitempty"`
	ExportFormat string `json:"export_format,omitempty"`
	StrictExport bool   `json:"strict_export,omitempty"` // fail the run when export fails

	// Preview options
	Preview         string `json:"preview,omitempty"` // preview format; empty skips the preview
	PreviewDetailed bool   `json:"preview_detailed,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Manifest is the loaded manifest with overrides applied.
	Manifest *cdio.Manifest

	// ManifestHash is the content hash of Manifest.
	ManifestHash string

	// Description is the encoded PlantUML text.
	Description string

	// DescriptionPath is the .puml file written, if any.
	DescriptionPath string

	// ExportPath is the image PlantUML wrote, if export succeeded.
	ExportPath string

	// ExportErr holds a non-fatal export failure.
	ExportErr error

	// Preview is the rendered node-link preview, if requested.
	Preview []byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	TypeCount  int
	LoadTime   time.Duration
	EncodeTime time.Duration
	ExportTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	EncodeHit  bool
	PreviewHit bool
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidatePreviewFormat checks that a preview format is valid.
func ValidatePreviewFormat(format string) error {
	if !ValidPreviewFormats[format] {
		return fmt.Errorf("invalid preview format: %q (must be one of: svg, png, pdf, dot)", format)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the input selection and applies defaults.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if o.Preview != "" {
		if err := ValidatePreviewFormat(o.Preview); err != nil {
			return err
		}
	}
	if o.Export {
		if o.Output == "" {
			return fmt.Errorf("export requires an output name")
		}
		if err := plantuml.ValidateFormat(o.ExportFormat); err != nil {
			return err
		}
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks that exactly one input is set.
func (o *Options) ValidateForLoad() error {
	inputs := 0
	for _, set := range []bool{o.Manifest != nil, o.ManifestPath != "", o.SourceDir != ""} {
		if set {
			inputs++
		}
	}
	switch inputs {
	case 0:
		return fmt.Errorf("manifest, manifest_path or source_dir is required")
	case 1:
	default:
		return fmt.Errorf("only one of manifest, manifest_path and source_dir may be set")
	}
	if o.SourceDir != "" && o.Language == "" {
		o.Language = DefaultLanguage
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// Source describes the input for logs and hooks.
func (o *Options) Source() string {
	switch {
	case o.ManifestPath != "":
		return o.ManifestPath
	case o.SourceDir != "":
		return o.SourceDir
	default:
		return "inline manifest"
	}
}

// apply returns a copy of m with the encode overrides applied.
func (o *Options) apply(m *cdio.Manifest) *cdio.Manifest {
	out := *m
	if o.Title != "" {
		out.Title = o.Title
	}
	if o.Layout != "" {
		out.Layout = o.Layout
	}
	out.Qualified = out.Qualified || o.Qualified
	out.Strict = out.Strict || o.Strict
	return &out
}

// DiagramKeyOpts returns cache key options for encoding.
func (o *Options) DiagramKeyOpts() cache.DiagramKeyOpts {
	return cache.DiagramKeyOpts{
		Qualified: o.Qualified,
		Layout:    o.Layout,
		Only:      o.Only,
		Strict:    o.Strict,
	}
}

// PreviewKeyOpts returns cache key options for previews.
func (o *Options) PreviewKeyOpts() cache.PreviewKeyOpts {
	return cache.PreviewKeyOpts{Detailed: o.PreviewDetailed, Format: o.Preview}
}

// buildOptions returns the manifest build options, with the selection
// checked against the manifest's visible types.
func (o *Options) buildOptions(m *cdio.Manifest) (cdio.BuildOptions, error) {
	if o.Only == nil {
		return cdio.BuildOptions{}, nil
	}
	names := m.TypeNames()
	var unknown []string
	for _, n := range o.Only {
		if !slices.Contains(names, n) {
			unknown = append(unknown, n)
		}
	}
	if len(unknown) > 0 {
		return cdio.BuildOptions{}, fmt.Errorf("unknown types selected: %s", strings.Join(unknown, ", "))
	}
	return cdio.BuildOptions{Only: o.Only}, nil
}
