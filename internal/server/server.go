// Package server exposes the parsing engine over HTTP: statement upload
// and parse, stored result retrieval, and a health check.
package server

import (
	"log/slog"
	"net/http"

	"github.com/rumor-ml/commons.systems/cardparse/internal/parse"
	"github.com/rumor-ml/commons.systems/cardparse/internal/store"
)

// Server is the statement parsing API server.
type Server struct {
	dispatcher *parse.Dispatcher
	store      *store.Store
	log        *slog.Logger
	mux        *http.ServeMux
}

// New creates a server around an existing dispatcher and store.
func New(dispatcher *parse.Dispatcher, st *store.Store, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		dispatcher: dispatcher,
		store:      st,
		log:        log,
		mux:        http.NewServeMux(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("POST /api/parse", s.handleParse)
	s.mux.HandleFunc("GET /api/statements", s.handleListStatements)
	s.mux.HandleFunc("GET /api/statements/{id}", s.handleGetStatement)
}

// Handler returns the HTTP handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return corsMiddleware(s.mux)
}

// corsMiddleware allows browser clients from any origin.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
