// Package arenaserve exposes a Tree[string, string] over HTTP: point
// get/put/delete, a range scan, a diagnostics endpoint, and a Prometheus
// metrics endpoint. A single mutex serializes every request against the
// tree's single-writer, single-reader-at-a-time contract.
package arenaserve

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ssargent/arenatree/pkg/arenaconfig"
	"github.com/ssargent/arenatree/pkg/arenastats"
	"github.com/ssargent/arenatree/pkg/arenatree"
)

// APIResponse is the envelope returned by every JSON endpoint.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Server holds the shared tree and serializes access to it.
type Server struct {
	mu      sync.Mutex
	tree    *arenatree.Tree[string, string]
	metrics *arenastats.Metrics
	config  *arenaconfig.Config
}

// NewServer wraps tree for HTTP access.
func NewServer(tree *arenatree.Tree[string, string], config *arenaconfig.Config, metrics *arenastats.Metrics) *Server {
	return &Server{tree: tree, config: config, metrics: metrics}
}

// Router builds the chi router for this server.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	if s.config == nil || s.config.Metrics.Enabled {
		path := "/metrics"
		if s.config != nil && s.config.Metrics.Path != "" {
			path = s.config.Metrics.Path
		}
		r.Handle(path, promhttp.Handler())
	}

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health", s.instrument("GET", "/v1/health", s.handleHealth))
		r.Put("/keys/{key}", s.instrument("PUT", "/v1/keys/{key}", s.handlePut))
		r.Get("/keys/{key}", s.instrument("GET", "/v1/keys/{key}", s.handleGet))
		r.Delete("/keys/{key}", s.instrument("DELETE", "/v1/keys/{key}", s.handleDelete))
		r.Get("/range", s.instrument("GET", "/v1/range", s.handleRange))
		r.Get("/stats", s.instrument("GET", "/v1/stats", s.handleStats))
		r.Get("/check", s.instrument("GET", "/v1/check", s.handleCheck))
	})

	return r
}

func (s *Server) instrument(method, endpoint string, h http.HandlerFunc) http.HandlerFunc {
	if s.metrics == nil {
		return h
	}
	return s.metrics.InstrumentHandler(method, endpoint, h)
}

// ListenAndServe blocks serving the router on config.Bind:config.Port.
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf("%s:%d", s.config.Bind, s.config.Port)
	log.Printf("arenatree server listening on %s", addr)
	return http.ListenAndServe(addr, s.Router())
}

func sendSuccess(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(APIResponse{Success: true, Data: data})
}

func sendError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(APIResponse{Success: false, Error: message})
}

func (s *Server) recordOp(operation string, start time.Time, success bool) {
	if s.metrics != nil {
		s.metrics.RecordTreeOperation(operation, success, time.Since(start))
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	sendSuccess(w, map[string]string{"status": "healthy"})
}
