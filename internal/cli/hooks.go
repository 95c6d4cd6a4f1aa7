package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/classdiagram/pkg/observability"
)

// debugHooks logs pipeline and cache events. main registers them with
// --verbose.
type debugHooks struct {
	observability.NoopPipelineHooks
	observability.NoopCacheHooks
	logger *log.Logger
}

// RegisterDebugHooks logs pipeline and cache events through c's logger.
func (c *CLI) RegisterDebugHooks() {
	h := &debugHooks{logger: c.Logger}
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
}

func (h *debugHooks) OnLoadComplete(_ context.Context, source string, types int, d time.Duration, err error) {
	h.logger.Debug("load", "source", source, "types", types, "duration", d, "err", err)
}

func (h *debugHooks) OnEncodeComplete(_ context.Context, types int, d time.Duration, err error) {
	h.logger.Debug("encode", "types", types, "duration", d, "err", err)
}

func (h *debugHooks) OnExportComplete(_ context.Context, format string, d time.Duration, err error) {
	h.logger.Debug("export", "format", format, "duration", d, "err", err)
}

func (h *debugHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *debugHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}
