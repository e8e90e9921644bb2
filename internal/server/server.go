// Package server exposes the badge pipeline over HTTP.
//
// Registration systems push event and attendee records in, then request
// composed layouts or rendered artifacts per attendee. All composition
// goes through the shared pipeline runner, so caching and degradation
// behavior match the CLI exactly.
package server

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/lanyardlab/badgeforge/pkg/badge"
	"github.com/lanyardlab/badgeforge/pkg/errors"
	"github.com/lanyardlab/badgeforge/pkg/pipeline"
)

// Server is the badge HTTP API.
type Server struct {
	router *chi.Mux
	runner *pipeline.Runner
	store  Store
	logger *log.Logger
}

// New assembles the API around a pipeline runner and a record store.
func New(runner *pipeline.Runner, store Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		router: chi.NewRouter(),
		runner: runner,
		store:  store,
		logger: logger,
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(s.requestID)

	s.router.Get("/healthz", s.handleHealth)
	s.router.Post("/v1/badges", s.handleComposeInline)

	s.router.Route("/v1/events/{eventID}", func(r chi.Router) {
		r.Put("/", s.handlePutEvent)
		r.Get("/", s.handleGetEvent)
		r.Put("/attendees/{attendeeID}", s.handlePutAttendee)
		r.Get("/attendees", s.handleListAttendees)
		r.Post("/attendees/{attendeeID}/badge", s.handleComposeStored)
	})
}

// requestID tags every request with a UUID for log correlation.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-ID", id)
		s.logger.Debug("request", "id", id, "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePutEvent(w http.ResponseWriter, r *http.Request) {
	var ev badge.Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		writeError(w, http.StatusBadRequest, "invalid event body", "")
		return
	}
	ev.ID = chi.URLParam(r, "eventID")
	if err := s.store.PutEvent(r.Context(), &ev); err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeData(w, http.StatusOK, ev)
}

func (s *Server) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	ev, err := s.store.GetEvent(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeData(w, http.StatusOK, ev)
}

func (s *Server) handlePutAttendee(w http.ResponseWriter, r *http.Request) {
	var a badge.Attendee
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		writeError(w, http.StatusBadRequest, "invalid attendee body", "")
		return
	}
	a.ID = chi.URLParam(r, "attendeeID")
	if err := a.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, errors.UserMessage(err), string(errors.GetCode(err)))
		return
	}
	if err := s.store.PutAttendee(r.Context(), chi.URLParam(r, "eventID"), &a); err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeData(w, http.StatusOK, a)
}

func (s *Server) handleListAttendees(w http.ResponseWriter, r *http.Request) {
	attendees, err := s.store.ListAttendees(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	if attendees == nil {
		attendees = []badge.Attendee{}
	}
	writeData(w, http.StatusOK, attendees)
}

// composeRequest is the inline variant of a badge request: both records in
// the body, nothing read from the store.
type composeRequest struct {
	Event    *badge.Event    `json:"event"`
	Attendee *badge.Attendee `json:"attendee"`
	Formats  []string        `json:"formats,omitempty"`
	Refresh  bool            `json:"refresh,omitempty"`
}

// composeResponse carries the layout plus any rendered artifacts,
// base64-encoded per format.
type composeResponse struct {
	Layout     *badge.Layout     `json:"layout"`
	Artifacts  map[string]string `json:"artifacts,omitempty"`
	RecordHash string            `json:"record_hash"`
	LayoutHit  bool              `json:"layout_cache_hit"`
}

func (s *Server) handleComposeInline(w http.ResponseWriter, r *http.Request) {
	var req composeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "")
		return
	}
	s.compose(w, r, pipeline.Options{
		Event:    req.Event,
		Attendee: req.Attendee,
		Formats:  req.Formats,
		Refresh:  req.Refresh,
	})
}

func (s *Server) handleComposeStored(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	eventID := chi.URLParam(r, "eventID")

	ev, err := s.store.GetEvent(ctx, eventID)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	a, err := s.store.GetAttendee(ctx, eventID, chi.URLParam(r, "attendeeID"))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	opts := pipeline.Options{Event: ev, Attendee: a}
	if f := r.URL.Query().Get("formats"); f != "" {
		opts.Formats = strings.Split(f, ",")
	}
	opts.Refresh = r.URL.Query().Get("refresh") == "true"
	s.compose(w, r, opts)
}

func (s *Server) compose(w http.ResponseWriter, r *http.Request, opts pipeline.Options) {
	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if code := errors.GetCode(err); code == errors.ErrCodeInternal || code == errors.ErrCodeUnknownFont {
			status = http.StatusInternalServerError
		}
		writeError(w, status, errors.UserMessage(err), string(errors.GetCode(err)))
		return
	}

	resp := composeResponse{
		Layout:     result.Layout,
		RecordHash: result.RecordHash,
		LayoutHit:  result.CacheInfo.LayoutHit,
	}
	if len(result.Artifacts) > 0 {
		resp.Artifacts = make(map[string]string, len(result.Artifacts))
		for format, data := range result.Artifacts {
			resp.Artifacts[format] = base64.StdEncoding.EncodeToString(data)
		}
	}
	writeData(w, http.StatusOK, resp)
}

func (s *Server) writeStoreError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case errors.ErrCodeNotFound, errors.ErrCodeEventNotFound, errors.ErrCodeAttendeeNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeInvalidRecord, errors.ErrCodeInvalidInput, errors.ErrCodeInvalidTag:
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("store error", "error", err)
	}
	writeError(w, status, errors.UserMessage(err), string(code))
}

func writeData(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": message,
		"code":  code,
	})
}
