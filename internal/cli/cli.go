package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/classdiagram/internal/config"
	"github.com/matzehuels/classdiagram/pkg/buildinfo"
	"github.com/matzehuels/classdiagram/pkg/cache"
	"github.com/matzehuels/classdiagram/pkg/pipeline"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is loaded lazily by loadConfig(); tests may set it directly.
	Config *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "classdiagram",
		Short: "classdiagram draws UML class diagrams as PlantUML",
		Long: `classdiagram builds UML class diagrams from hand-written manifests or from
Python and TypeScript sources, and writes them as PlantUML descriptions.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.scanCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// config returns the loaded configuration, loading it on first use.
func (c *CLI) loadConfig() (*config.Config, error) {
	if c.Config != nil {
		return c.Config, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	c.Config = cfg
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. The CLI always caches in
// files unless caching is off.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	cc, err := c.newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	runner := pipeline.NewRunner(cc, nil, c.Logger)
	runner.Exporter = cfg.Exporter()
	runner.Exporter.Logger = c.Logger
	return runner, nil
}

func (c *CLI) newCache(ctx context.Context, cfg *config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	opts, err := cfg.CacheOptions()
	if err != nil {
		c.Logger.Debug("cache disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.Open(ctx, opts)
}
