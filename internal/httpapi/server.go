// Package httpapi exposes the sandbox over HTTP. All handlers delegate to
// an injected session; the package owns only routing, JSON envelopes and
// the error-code to status mapping.
package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/structlab/structlab/pkg/archive"
	"github.com/structlab/structlab/pkg/errors"
	"github.com/structlab/structlab/pkg/session"
)

// Server bundles the session and archive behind a chi router.
type Server struct {
	session *session.Session
	archive *archive.Archive
	log     *log.Logger
	router  chi.Router
}

// New creates a Server. A nil archive gets an in-memory one; a nil logger
// gets the package default.
func New(sess *session.Session, arch *archive.Archive, logger *log.Logger) *Server {
	if arch == nil {
		arch = archive.New(nil)
	}
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{session: sess, archive: arch, log: logger}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Route("/forest/{kind}", func(r chi.Router) {
			r.Get("/", s.handleForestSnapshot)
			r.Post("/insert", s.handleForestInsert)
			r.Post("/detach", s.handleForestDetach)
			r.Post("/weight", s.handleForestWeight)
			r.Post("/reset", s.handleForestReset)
		})
		r.Post("/reattach/{token}", s.handleReattach)

		r.Route("/bst", func(r chi.Router) {
			r.Get("/", s.handleBSTSnapshot)
			r.Post("/insert", s.handleBSTInsert)
			r.Post("/delete", s.handleBSTDelete)
			r.Post("/detach", s.handleBSTDetach)
			r.Post("/reset", s.handleBSTReset)
			r.Get("/search", s.handleBSTSearch)
			r.Get("/max", s.handleBSTMax)
			r.Get("/height", s.handleBSTHeight)
		})

		r.Route("/graph", func(r chi.Router) {
			r.Get("/", s.handleGraphSnapshot)
			r.Post("/vertex", s.handleGraphAddVertex)
			r.Delete("/vertex/{id}", s.handleGraphDeleteVertex)
			r.Post("/edge", s.handleGraphAddEdge)
			r.Post("/weight", s.handleGraphWeight)
			r.Post("/reset", s.handleGraphReset)
		})

		r.Get("/route", s.handleRoute)
		r.Get("/stations", s.handleStations)
		r.Get("/network", s.handleNetwork)
		r.Post("/layout", s.handleLayout)
		r.Get("/export/{target}", s.handleExport)

		r.Route("/archive", func(r chi.Router) {
			r.Get("/", s.handleArchiveList)
			r.Post("/", s.handleArchiveSave)
			r.Get("/{name}", s.handleArchiveLoad)
			r.Delete("/{name}", s.handleArchiveDelete)
		})
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorResponse is the standard error envelope.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	status := statusOf(code)
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, errorResponse{Error: errors.UserMessage(err), Code: string(code)})
}

func statusOf(code errors.Code) int {
	switch code {
	case errors.ErrCodeNotFound, errors.ErrCodeTokenNotFound,
		errors.ErrCodeParentNotFound, errors.ErrCodeUnknownStation,
		errors.ErrCodeArchiveNotFound:
		return http.StatusNotFound
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidValue,
		errors.ErrCodeInvalidKind:
		return http.StatusBadRequest
	case errors.ErrCodeUnsupported:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// decode parses the request body into v. Empty bodies decode to the zero
// value so mutation endpoints can omit optional fields entirely.
func decode(r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}
