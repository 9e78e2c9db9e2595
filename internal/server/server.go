// Package server exposes the assistant over HTTP.
package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"finsight/internal/domain"
)

//go:embed static
var staticFS embed.FS

// Answerer runs a query through the full pipeline.
type Answerer interface {
	Answer(ctx context.Context, query string, history []domain.Turn) (string, error)
}

// Server is a thin wrapper over chi + stdlib http.Server.
type Server struct {
	answerer Answerer
	log      zerolog.Logger
	srv      *http.Server
}

type chatRequest struct {
	Query   string        `json:"query"`
	History []domain.Turn `json:"history"`
}

type chatResponse struct {
	Answer string `json:"answer"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// New creates the server with routes mounted.
func New(addr string, corsOrigins []string, answerer Answerer, log zerolog.Logger) *Server {
	s := &Server{
		answerer: answerer,
		log:      log,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	r.Use(s.requestLogger)

	r.Post("/api/chat", s.handleChat)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	static, _ := fs.Sub(staticFS, "static")
	r.Handle("/*", http.FileServer(http.FS(static)))

	s.srv = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler { return s.srv.Handler }

// Run starts the server and blocks until it is shut down.
func (s *Server) Run() error {
	s.log.Info().Str("addr", s.srv.Addr).Msg("http listening")
	err := s.srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "query is required"})
		return
	}

	answer, err := s.answerer.Answer(r.Context(), req.Query, req.History)
	if err != nil {
		if errors.Is(err, domain.ErrNoEntityFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "no company found for query"})
			return
		}
		s.log.Error().Err(err).Msg("chat request failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to process request"})
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{Answer: answer})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
