// Package admin exposes a liveness check and run counters over HTTP.
// It never touches the crawl data path; the engine updates a shared
// snapshot that this server reads on each request.
package admin

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/hanaul/dc-harvester/internal/dcinside/engine"
)

// StatsSource is polled on every /stats request for a fresh snapshot.
type StatsSource func() engine.RunStats

// Server is the admin HTTP surface.
type Server struct {
	mu      sync.RWMutex
	source  StatsSource
	router  chi.Router
	started time.Time
}

// NewServer builds the admin router. source may be nil until a run
// starts; SetSource can be called later once the engine exists.
func NewServer(source StatsSource) *Server {
	s := &Server{source: source, started: time.Now()}

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Recoverer)

	r.Get("/healthz", s.handleHealthz)
	r.Get("/stats", s.handleStats)

	s.router = r
	return s
}

// SetSource swaps the stats source, used once the engine for this run
// is constructed.
func (s *Server) SetSource(source StatsSource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.source = source
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.started).String(),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	source := s.source
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	if source == nil {
		json.NewEncoder(w).Encode(map[string]string{"status": "idle"})
		return
	}
	json.NewEncoder(w).Encode(source())
}
