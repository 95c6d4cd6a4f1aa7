package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/classdiagram/internal/config"
	"github.com/matzehuels/classdiagram/internal/server"
	"github.com/matzehuels/classdiagram/pkg/artifact"
	"github.com/matzehuels/classdiagram/pkg/cache"
	"github.com/matzehuels/classdiagram/pkg/pipeline"
	"github.com/matzehuels/classdiagram/pkg/store"
)

const shutdownTimeout = 10 * time.Second

// serveCommand starts the HTTP service.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the encoder over HTTP",
		Long: `Serve the encoder over HTTP.

Saved diagrams go to MongoDB when [store] mongo_uri is set, to files under
[store] dir otherwise, and to memory when neither is set. Publishing needs an
[artifacts] endpoint.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, "+config.DefaultAddr+")")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if addr == "" {
		addr = cfg.Server.Addr
	}
	logger := loggerFromContext(ctx)

	cc, err := c.newCache(ctx, cfg, false)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	runner := pipeline.NewRunner(cc, cache.NewScopedKeyer(nil, "classdiagram:"), logger)
	runner.Exporter = cfg.Exporter()
	runner.Exporter.Logger = logger
	defer runner.Close()

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	srv := server.New(addr, runner, st, logger)
	if s3cfg, ok := cfg.S3(); ok {
		arts, err := artifact.NewS3Store(s3cfg)
		if err != nil {
			return fmt.Errorf("artifact store: %w", err)
		}
		srv.Artifacts = arts
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Start() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(sctx)
}

func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch {
	case cfg.Store.MongoURI != "":
		s, err := store.NewMongoStore(ctx, cfg.Store.MongoURI, cfg.Store.Database)
		if err != nil {
			return nil, fmt.Errorf("connect store: %w", err)
		}
		return s, nil
	case cfg.Store.Dir != "":
		s, err := store.NewFileStore(cfg.Store.Dir)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		return s, nil
	default:
		return store.NewMemoryStore(), nil
	}
}
