// Package server exposes the encoder as an HTTP service: encode manifests on
// demand, save them, and fetch descriptions and previews of saved diagrams.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/classdiagram/pkg/artifact"
	"github.com/matzehuels/classdiagram/pkg/pipeline"
	"github.com/matzehuels/classdiagram/pkg/store"
)

// MaxManifestBytes bounds request bodies.
const MaxManifestBytes = 4 << 20

// Server serves the HTTP API.
type Server struct {
	Runner    *pipeline.Runner
	Store     store.Store
	Artifacts artifact.Store // nil disables publishing
	Logger    *log.Logger

	httpServer *http.Server
}

// New creates a server listening on addr.
func New(addr string, runner *pipeline.Runner, st store.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{Runner: runner, Store: st, Logger: logger}
	s.httpServer = &http.Server{
		Addr:              addr,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/encode", s.handleEncode)
		r.Route("/diagrams", func(r chi.Router) {
			r.Post("/", s.handleSave)
			r.Get("/", s.handleList)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGet)
				r.Delete("/", s.handleDelete)
				r.Get("/puml", s.handleDescription)
				r.Get("/svg", s.handlePreview(pipeline.PreviewSVG))
				r.Get("/dot", s.handlePreview(pipeline.PreviewDOT))
				r.Post("/publish", s.handlePublish)
			})
		})
	})
	return r
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.httpServer.Handler = s.Handler()
	s.Logger.Info("listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
