// Package server exposes the batch course API over HTTP.
//
// POST /api/courses takes {"subject_codes": [...]} and answers with a
// newline-delimited JSON stream: one progress event per finished code,
// then exactly one complete event carrying every outcome in request order.
// Only structurally invalid input is rejected up front; individual failed
// codes ride along inside the stream.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/pfrederiksen/handbook-courses/internal/batch"
	"github.com/pfrederiksen/handbook-courses/internal/config"
)

// Server wires the orchestrator to HTTP handlers.
type Server struct {
	orch   *batch.Orchestrator
	cfg    config.Config
	mux    *http.ServeMux
	logger zerolog.Logger
}

// New creates a Server around an orchestrator.
func New(orch *batch.Orchestrator, cfg config.Config) *Server {
	s := &Server{
		orch:   orch,
		cfg:    cfg,
		mux:    http.NewServeMux(),
		logger: log.With().Str("component", "server").Logger(),
	}

	s.mux.HandleFunc("/api/courses", s.handleCourses)
	s.mux.HandleFunc("/healthz", s.handleHealth)
	s.mux.Handle("/metrics", promhttp.Handler())
	if cfg.StaticDir != "" {
		s.mux.Handle("/", http.FileServer(http.Dir(cfg.StaticDir)))
	}

	return s
}

// Handler returns the full handler chain, CORS outermost.
func (s *Server) Handler() http.Handler {
	return s.cors(s.mux)
}

// ListenAndServe runs the server until the listener fails.
func (s *Server) ListenAndServe() error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info().Str("addr", s.cfg.Addr).Msg("listening")
	return srv.ListenAndServe()
}

type coursesRequest struct {
	SubjectCodes []string `json:"subject_codes"`
}

// handleCourses streams batch resolution as NDJSON. The request body must
// decode cleanly before any fetch begins; after the first event is written
// the response is committed and per-code errors travel inside the stream.
func (s *Server) handleCourses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req coursesRequest
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	s.logger.Info().
		Int("codes", len(req.SubjectCodes)).
		Str("remote", r.RemoteAddr).
		Msg("batch request")

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Cache-Control", "max-age=300")
	w.Header().Set("X-Accel-Buffering", "no")

	flusher, _ := w.(http.Flusher)
	enc := json.NewEncoder(w)

	events := s.orch.Run(r.Context(), req.SubjectCodes)
	for ev := range events {
		if err := enc.Encode(ev); err != nil {
			// Client went away; keep draining so the workers finish and
			// the cache still gets populated.
			s.logger.Warn().Err(err).Msg("client disconnected mid-stream")
			for range events {
			}
			return
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintln(w, `{"status":"ok"}`)
}

func (s *Server) respondError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
