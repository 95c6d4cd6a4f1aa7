package server

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/classdiagram/pkg/artifact"
	"github.com/matzehuels/classdiagram/pkg/buildinfo"
	"github.com/matzehuels/classdiagram/pkg/errors"
	cdio "github.com/matzehuels/classdiagram/pkg/io"
	"github.com/matzehuels/classdiagram/pkg/observability"
	"github.com/matzehuels/classdiagram/pkg/pipeline"
	"github.com/matzehuels/classdiagram/pkg/store"
)

const descriptionName = "diagram" + cdio.DescriptionExt

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "build": buildinfo.Get()})
}

// handleEncode encodes the manifest in the request body without saving it.
func (s *Server) handleEncode(w http.ResponseWriter, r *http.Request) {
	m, err := readManifest(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	opts := encodeOptions(r)
	opts.Manifest = m
	result, err := s.Runner.Execute(r.Context(), opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("X-Cache", cacheStatus(result.CacheInfo.EncodeHit))
	writeText(w, result.Description)
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	m, err := readManifest(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	d, err := store.New(m)
	if err != nil {
		s.fail(w, r, errors.Wrap(errors.ErrCodeInternal, err, "create diagram"))
		return
	}
	if err := s.Store.Save(r.Context(), d); err != nil {
		s.fail(w, r, errors.Wrap(errors.ErrCodePersistence, err, "save diagram"))
		return
	}
	w.Header().Set("Location", "/v1/diagrams/"+d.ID)
	writeJSON(w, http.StatusCreated, map[string]string{"id": d.ID})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.fail(w, r, errors.New(errors.ErrCodeInvalidInput, "invalid limit %q", v))
			return
		}
		limit = n
	}
	list, err := s.Store.List(r.Context(), limit)
	if err != nil {
		s.fail(w, r, errors.Wrap(errors.ErrCodePersistence, err, "list diagrams"))
		return
	}
	if list == nil {
		list = []store.Summary{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	d, ok := s.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.load(w, r); !ok {
		return
	}
	if err := s.Store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, errors.Wrap(errors.ErrCodePersistence, err, "delete diagram"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDescription(w http.ResponseWriter, r *http.Request) {
	d, ok := s.load(w, r)
	if !ok {
		return
	}
	opts := encodeOptions(r)
	opts.Manifest = d.Manifest
	result, err := s.Runner.Execute(r.Context(), opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("X-Cache", cacheStatus(result.CacheInfo.EncodeHit))
	writeText(w, result.Description)
}

func (s *Server) handlePreview(format string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, ok := s.load(w, r)
		if !ok {
			return
		}
		opts := encodeOptions(r)
		opts.Preview = format
		opts.PreviewDetailed = r.URL.Query().Get("detailed") == "true"
		data, hit, err := s.Runner.PreviewWithCacheInfo(r.Context(), d.Manifest, opts)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		w.Header().Set("Content-Type", previewContentType(format))
		w.Header().Set("X-Cache", cacheStatus(hit))
		w.Write(data)
	}
}

// handlePublish uploads the encoded description to the artifact store and
// returns a link to it.
func (s *Server) handlePublish(w http.ResponseWriter, r *http.Request) {
	if s.Artifacts == nil {
		s.fail(w, r, errors.New(errors.ErrCodeUnsupported, "publishing is not configured"))
		return
	}
	d, ok := s.load(w, r)
	if !ok {
		return
	}
	desc, err := s.Runner.Encode(r.Context(), d.Manifest, pipeline.Options{})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	ctx := r.Context()
	if err := s.Artifacts.Put(ctx, d.ID, descriptionName, []byte(desc), artifact.ContentType(descriptionName)); err != nil {
		s.fail(w, r, errors.Wrap(errors.ErrCodePersistence, err, "publish %s", d.ID))
		return
	}
	url, err := s.Artifacts.GetURL(ctx, d.ID, descriptionName)
	if err != nil {
		s.fail(w, r, errors.Wrap(errors.ErrCodePersistence, err, "link %s", d.ID))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

// load fetches the diagram named in the path, writing the error response
// itself when it cannot.
func (s *Server) load(w http.ResponseWriter, r *http.Request) (*store.Diagram, bool) {
	id := chi.URLParam(r, "id")
	if !store.ValidID(id) {
		s.fail(w, r, errors.New(errors.ErrCodeInvalidInput, "invalid diagram id %q", id))
		return nil, false
	}
	d, err := s.Store.Get(r.Context(), id)
	if stderrors.Is(err, store.ErrNotFound) {
		s.fail(w, r, errors.New(errors.ErrCodeNotFound, "diagram %s not found", id))
		return nil, false
	}
	if err != nil {
		s.fail(w, r, errors.Wrap(errors.ErrCodePersistence, err, "load diagram"))
		return nil, false
	}
	return d, true
}

// readManifest decodes the body as TOML when the content type says so and
// as JSON otherwise.
func readManifest(r *http.Request) (*cdio.Manifest, error) {
	format := cdio.FormatJSON
	if ct, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err == nil && strings.HasSuffix(ct, "toml") {
		format = cdio.FormatTOML
	}
	return cdio.ReadManifest(io.LimitReader(r.Body, MaxManifestBytes), format)
}

// encodeOptions reads the encode overrides from the query string.
func encodeOptions(r *http.Request) pipeline.Options {
	q := r.URL.Query()
	opts := pipeline.Options{
		Title:     q.Get("title"),
		Layout:    q.Get("layout"),
		Qualified: q.Get("qualified") == "true",
		Strict:    q.Get("strict") == "true",
		Refresh:   q.Get("refresh") == "true",
	}
	if only := q.Get("only"); only != "" {
		opts.Only = strings.Split(only, ",")
	}
	return opts
}

func cacheStatus(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}

func previewContentType(format string) string {
	switch format {
	case pipeline.PreviewSVG:
		return "image/svg+xml"
	case pipeline.PreviewPNG:
		return "image/png"
	case pipeline.PreviewPDF:
		return "application/pdf"
	default:
		return "text/vnd.graphviz; charset=utf-8"
	}
}

// =============================================================================
// Responses
// =============================================================================

type errorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
	if status >= http.StatusInternalServerError {
		s.Logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, status, errorResponse{Code: code, Message: errors.UserMessage(err)})
}

// statusFor maps error codes to HTTP statuses.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidManifest,
		errors.ErrCodeInvalidPath, errors.ErrCodeInvalidTypeName, errors.ErrCodeInvalidStyle:
		return http.StatusBadRequest
	case errors.ErrCodeModelInconsistency, errors.ErrCodeUnknownKind:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeText(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, text)
}
