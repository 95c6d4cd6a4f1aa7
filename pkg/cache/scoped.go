package cache

// ScopedKeyer wraps a Keyer with a prefix so that several services can
// share one Redis without seeing each other's entries:
//
//	keyer := cache.NewScopedKeyer(nil, "classdiagram:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// DiagramKey generates a prefixed key for encoded descriptions.
func (k *ScopedKeyer) DiagramKey(manifestHash string, opts DiagramKeyOpts) string {
	return k.prefix + k.inner.DiagramKey(manifestHash, opts)
}

// PreviewKey generates a prefixed key for previews.
func (k *ScopedKeyer) PreviewKey(diagramHash string, opts PreviewKeyOpts) string {
	return k.prefix + k.inner.PreviewKey(diagramHash, opts)
}
