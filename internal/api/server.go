package api

import (
	"log/slog"
	"net/http"

	"github.com/clinpipe/clinpipe/internal/config"
	"github.com/clinpipe/clinpipe/internal/pipeline"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for clinpipe.
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

		r.Post("/api/process", s.handleProcess)

		r.Post("/api/notes", s.handleIngest)
		r.Post("/api/notes/batch", s.handleBatchIngest)
		r.Get("/api/jobs/{jobID}", s.handleJobStatus)

		r.Get("/api/notes", s.handleListNotes)
		r.Get("/api/notes/{noteID}", s.handleGetNote)
		r.Delete("/api/notes/{noteID}", s.handleDeleteNote)

		r.Get("/api/search", s.handleSearch)

		r.Get("/api/pipeline", s.handlePipelineInfo)
		r.Get("/api/pipeline/rules/{component}", s.handlePipelineRules)
		r.Get("/api/stats/pipeline", s.handlePipelineStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
