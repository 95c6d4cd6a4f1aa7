package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/classdiagram/pkg/cache"
	"github.com/matzehuels/classdiagram/pkg/diagram"
	"github.com/matzehuels/classdiagram/pkg/errors"
	cdio "github.com/matzehuels/classdiagram/pkg/io"
	"github.com/matzehuels/classdiagram/pkg/meta/source"
	"github.com/matzehuels/classdiagram/pkg/observability"
	"github.com/matzehuels/classdiagram/pkg/render/nodelink"
	"github.com/matzehuels/classdiagram/pkg/render/plantuml"
	"github.com/matzehuels/classdiagram/pkg/store"
)

// Runner executes the pipeline with caching. It holds no per-run state, so
// one Runner may serve concurrent runs when its cache is safe for
// concurrent use.
type Runner struct {
	Cache    cache.Cache
	Keyer    cache.Keyer
	Logger   *log.Logger
	Exporter *plantuml.Exporter
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:    c,
		Keyer:    keyer,
		Logger:   logger,
		Exporter: &plantuml.Exporter{Logger: logger},
	}
}

// Execute runs every requested stage.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid options")
	}
	r.applyLogger(&opts)
	result := &Result{}

	// Stage 1: Load
	loadStart := time.Now()
	m, err := r.Load(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Manifest = opts.apply(m)
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.TypeCount = len(result.Manifest.TypeNames())
	if result.ManifestHash, err = store.ManifestHash(result.Manifest); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "hash manifest")
	}

	// Stage 2: Encode
	encodeStart := time.Now()
	desc, hit, err := r.encode(ctx, result.Manifest, result.ManifestHash, opts)
	if err != nil {
		return nil, err
	}
	result.Description = desc
	result.Stats.EncodeTime = time.Since(encodeStart)
	result.CacheInfo.EncodeHit = hit
	r.Logger.Info("encoded diagram",
		"types", result.Stats.TypeCount,
		"cached", hit,
		"duration", result.Stats.EncodeTime)

	// Stage 3: Write
	if opts.Output != "" {
		path, err := cdio.ExportDescription(opts.Output, desc)
		if err != nil {
			return nil, err
		}
		result.DescriptionPath = path
		r.Logger.Info("wrote description", "file", path)
	}

	// Stage 4: Export
	if opts.Export {
		exportStart := time.Now()
		result.ExportPath, result.ExportErr = r.Export(ctx, result.DescriptionPath, opts.ExportFormat)
		result.Stats.ExportTime = time.Since(exportStart)
		if result.ExportErr != nil {
			if opts.StrictExport {
				return nil, result.ExportErr
			}
			r.Logger.Warn("export failed", "err", result.ExportErr)
		}
	}

	// Stage 5: Preview
	if opts.Preview != "" {
		preview, hit, err := r.PreviewWithCacheInfo(ctx, result.Manifest, opts)
		if err != nil {
			return nil, err
		}
		result.Preview = preview
		result.CacheInfo.PreviewHit = hit
	}
	return result, nil
}

// Load reads the manifest named by opts, or scans opts.SourceDir and
// describes the classes found.
func (r *Runner) Load(ctx context.Context, opts Options) (m *cdio.Manifest, err error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid options")
	}
	src := opts.Source()
	start := time.Now()
	observability.Pipeline().OnLoadStart(ctx, src)
	defer func() {
		n := 0
		if m != nil {
			n = len(m.Types)
		}
		observability.Pipeline().OnLoadComplete(ctx, src, n, time.Since(start), err)
	}()

	switch {
	case opts.Manifest != nil:
		if err := opts.Manifest.Validate(); err != nil {
			return nil, err
		}
		return opts.Manifest, nil
	case opts.ManifestPath != "":
		return cdio.ImportManifest(opts.ManifestPath)
	default:
		return r.scan(ctx, opts)
	}
}

func (r *Runner) scan(ctx context.Context, opts Options) (*cdio.Manifest, error) {
	lang, err := source.Lookup(opts.Language)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnsupported, err, "scan %s", opts.SourceDir)
	}
	p := source.New(lang)
	handles, err := p.ScanDir(ctx, opts.SourceDir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeProvider, err, "scan %s", opts.SourceDir)
	}
	r.Logger.Debug("scanned sources", "dir", opts.SourceDir, "language", lang.Name, "classes", len(handles))
	return cdio.FromProvider(p, handles)
}

// Build turns a manifest into a model, honoring the type selection in opts.
func (r *Runner) Build(m *cdio.Manifest, opts Options) (*diagram.Model, error) {
	bopts, err := opts.buildOptions(m)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "select types")
	}
	return m.Build(bopts)
}

// EncodeWithCacheInfo encodes m (with overrides from opts applied) and
// reports whether the description came from the cache.
func (r *Runner) EncodeWithCacheInfo(ctx context.Context, m *cdio.Manifest, opts Options) (string, bool, error) {
	r.applyLogger(&opts)
	applied := opts.apply(m)
	hash, err := store.ManifestHash(applied)
	if err != nil {
		return "", false, errors.Wrap(errors.ErrCodeInternal, err, "hash manifest")
	}
	return r.encode(ctx, applied, hash, opts)
}

// Encode is a convenience wrapper that calls EncodeWithCacheInfo and discards the cache hit info.
func (r *Runner) Encode(ctx context.Context, m *cdio.Manifest, opts Options) (string, error) {
	desc, _, err := r.EncodeWithCacheInfo(ctx, m, opts)
	return desc, err
}

func (r *Runner) encode(ctx context.Context, m *cdio.Manifest, hash string, opts Options) (string, bool, error) {
	key := r.Keyer.DiagramKey(hash, opts.DiagramKeyOpts())
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "diagram")
			return string(data), true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "diagram")
	}

	model, err := r.Build(m, opts)
	if err != nil {
		return "", false, err
	}

	start := time.Now()
	n := len(model.Types())
	observability.Pipeline().OnEncodeStart(ctx, n)
	desc, err := diagram.Encode(model)
	observability.Pipeline().OnEncodeComplete(ctx, n, time.Since(start), err)
	if err != nil {
		return "", false, errors.Wrap(errors.ErrCodeProvider, err, "encode")
	}

	if err := r.Cache.Set(ctx, key, []byte(desc), TTLDiagram); err != nil {
		r.Logger.Debug("cache write failed", "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "diagram", len(desc))
	}
	return desc, false, nil
}

// Export runs PlantUML on a written description.
func (r *Runner) Export(ctx context.Context, path, format string) (string, error) {
	exporter := r.Exporter
	if exporter == nil {
		exporter = &plantuml.Exporter{Logger: r.Logger}
	}
	start := time.Now()
	observability.Pipeline().OnExportStart(ctx, format)
	out, err := exporter.Export(ctx, path, format)
	observability.Pipeline().OnExportComplete(ctx, format, time.Since(start), err)
	return out, err
}

// PreviewWithCacheInfo renders a node-link preview of m in opts.Preview
// format and reports whether it came from the cache.
func (r *Runner) PreviewWithCacheInfo(ctx context.Context, m *cdio.Manifest, opts Options) ([]byte, bool, error) {
	if err := ValidatePreviewFormat(opts.Preview); err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInvalidFormat, err, "preview")
	}
	hash, err := store.ManifestHash(m)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "hash manifest")
	}
	diagramKey := r.Keyer.DiagramKey(hash, opts.DiagramKeyOpts())
	key := r.Keyer.PreviewKey(cache.Hash([]byte(diagramKey)), opts.PreviewKeyOpts())
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "preview")
			return data, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "preview")
	}

	model, err := r.Build(m, opts)
	if err != nil {
		return nil, false, err
	}
	d, err := diagram.Resolve(model)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeProvider, err, "resolve")
	}
	data, err := renderPreview(ctx, d, opts)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeExport, err, "preview %s", opts.Preview)
	}

	if err := r.Cache.Set(ctx, key, data, TTLPreview); err == nil {
		observability.Cache().OnCacheSet(ctx, "preview", len(data))
	}
	return data, false, nil
}

func renderPreview(ctx context.Context, d *diagram.Diagram, opts Options) ([]byte, error) {
	dot := nodelink.ToDOT(d, nodelink.Options{Detailed: opts.PreviewDetailed})
	switch opts.Preview {
	case PreviewDOT:
		return []byte(dot), nil
	case PreviewSVG:
		return nodelink.RenderSVG(ctx, dot)
	case PreviewPNG:
		return nodelink.RenderPNG(ctx, dot, 2.0)
	case PreviewPDF:
		return nodelink.RenderPDF(ctx, dot)
	default:
		return nil, fmt.Errorf("unsupported preview format: %s", opts.Preview)
	}
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
