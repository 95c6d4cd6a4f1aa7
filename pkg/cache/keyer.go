package cache

import "slices"

// DiagramKeyOpts are the encode settings that change a description.
type DiagramKeyOpts struct {
	Qualified bool     `json:"qualified,omitempty"`
	Layout    string   `json:"layout,omitempty"`
	Only      []string `json:"only,omitempty"`
	Strict    bool     `json:"strict,omitempty"`
}

// PreviewKeyOpts are the settings that change a node-link preview.
type PreviewKeyOpts struct {
	Detailed bool   `json:"detailed,omitempty"`
	Format   string `json:"format,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	// DiagramKey identifies the description encoded from a manifest.
	DiagramKey(manifestHash string, opts DiagramKeyOpts) string
	// PreviewKey identifies a rendered preview of a description.
	PreviewKey(diagramHash string, opts PreviewKeyOpts) string
}

// DefaultKeyer hashes the inputs with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// DiagramKey implements [Keyer]. The order of opts.Only does not matter.
func (DefaultKeyer) DiagramKey(manifestHash string, opts DiagramKeyOpts) string {
	if opts.Only != nil {
		opts.Only = slices.Sorted(slices.Values(opts.Only))
	}
	return hashKey("diagram", manifestHash, opts)
}

// PreviewKey implements [Keyer].
func (DefaultKeyer) PreviewKey(diagramHash string, opts PreviewKeyOpts) string {
	return hashKey("preview", diagramHash, opts)
}
