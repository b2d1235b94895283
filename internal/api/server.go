package api

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/joshuamkite/freecell-engine/internal/metrics"
	"github.com/joshuamkite/freecell-engine/internal/scan"
	_ "github.com/joshuamkite/freecell-engine/internal/scripting" // registers the script metric
	"github.com/joshuamkite/freecell-engine/internal/store"
)

// Server handles HTTP requests
type Server struct {
	db             store.DB
	scanner        *scan.Scanner
	sessions       *sessionRegistry
	errorHandler   *ErrorHandler
	logger         *log.Logger
	securityLogger *SecurityLogger
	startTime      time.Time
}

// NewServer creates a new API server
func NewServer(db store.DB) *Server {
	logger := log.New(os.Stdout, "[API] ", log.LstdFlags|log.Lshortfile)
	errorHandler := NewErrorHandler(logger)
	securityLogger := NewSecurityLogger()

	server := &Server{
		db:             db,
		scanner:        scan.NewScanner(),
		sessions:       newSessionRegistry(),
		errorHandler:   errorHandler,
		logger:         logger,
		securityLogger: securityLogger,
		startTime:      time.Now(),
	}

	// Log server startup
	securityLogger.LogSystemStartup("unknown", map[string]interface{}{
		"metrics_available": len(metrics.List()),
		"scanner_enabled":   server.scanner != nil,
		"database_enabled":  server.db != nil,
	})

	return server
}

// Routes sets up the HTTP routes with proper middleware
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.SecurityLoggingMiddleware)
	r.Use(s.errorHandler.RecoveryHandler) // Use our custom recovery handler
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(s.CORSMiddleware)

	// Health and monitoring endpoints
	r.Get("/health", s.handleHealthCheck)
	r.Get("/health/ready", s.handleReadiness)
	r.Get("/health/live", s.handleLiveness)
	r.Get("/metrics", s.handleRuntimeMetrics)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/deal", s.handleDeal)
		r.Post("/move", s.handleMove)
		r.Post("/autoplay", s.handleAutoplay)
		r.Post("/evaluate", s.handleEvaluate)
		r.Get("/deal-metrics", s.handleListMetrics)

		r.Post("/scan", s.handleScan)
		r.Get("/runs", s.handleListRuns)
		r.Get("/runs/{id}", s.handleGetRun)
		r.Get("/runs/{id}/hits", s.handleGetRunHits)

		r.Post("/sessions", s.handleCreateSession)
		r.Get("/sessions/{id}", s.handleGetSession)
		r.Post("/sessions/{id}/moves", s.handleSessionMove)
		r.Post("/sessions/{id}/undo", s.handleSessionUndo)
		r.Post("/sessions/{id}/autoplay", s.handleSessionAutoplay)
		r.Delete("/sessions/{id}", s.handleDeleteSession)
	})

	return r
}

// writeJSON writes a JSON response with proper headers
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Engine-Version", EngineVersion)
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// If encoding fails, try to write a simple error response
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// writeError writes a structured error response
func (s *Server) writeError(w http.ResponseWriter, status int, errType, message string, context map[string]interface{}) {
	errorResponse := EngineError{
		Type:    errType,
		Message: message,
		Context: context,
	}
	s.writeJSON(w, status, errorResponse)
}
