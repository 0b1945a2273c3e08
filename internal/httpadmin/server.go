// Package httpadmin exposes a small read-only HTTP surface next to a running
// check: current aggregate stats and a remote stop trigger.
package httpadmin

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/hamed0406/sitewatch/internal/scheduler"
	"github.com/hamed0406/sitewatch/internal/stats"
)

type Server struct {
	Log    *zap.Logger
	Agg    *stats.Aggregator
	Signal *scheduler.ShutdownSignal
	// Key guards POST /api/stop. Empty means the route is open (local use).
	Key string
}

func NewServer(log *zap.Logger, agg *stats.Aggregator, sig *scheduler.ShutdownSignal, key string) *Server {
	return &Server{Log: log, Agg: agg, Signal: sig, Key: key}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.AllowAll().Handler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/api/stats", s.handleStats)
	r.Post("/api/stop", s.handleStop)

	return r
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.Agg.Table())
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	if s.Key != "" && readAuth(r) != s.Key {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"forbidden"}`))
		return
	}

	first := s.Signal.Trigger()
	s.Log.Info("stop_requested",
		zap.String("remote", r.RemoteAddr),
		zap.Bool("first", first),
	)
	w.WriteHeader(http.StatusAccepted)
	_, _ = w.Write([]byte(`{"stopping":true}`))
}

// readAuth accepts either a bearer token or an X-API-Key header.
func readAuth(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(strings.ToLower(h), "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return strings.TrimSpace(r.Header.Get("X-API-Key"))
}
