package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"reportctx/internal/config"
	"reportctx/internal/pipeline"
)

// Server is the HTTP API server for reportctx.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(orch *pipeline.Orchestrator, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/api/reports", s.handleUpload)
		r.Post("/api/reports/batch", s.handleBatchUpload)
		r.Get("/api/reports", s.handleListReports)
		r.Get("/api/reports/{jobID}/status", s.handleJobStatus)
		r.Get("/api/reports/{docID}/sections", s.handleSections)
		r.Get("/api/reports/{docID}/financials", s.handleFinancials)
		r.Delete("/api/reports/{docID}", s.handleDeleteReport)

		r.Post("/api/query", s.handleQuery)
		r.Get("/api/stats", s.handleStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":              "ok",
		"generator_available": s.orchestrator.Processor().GeneratorAvailable(r.Context()),
	})
}
