// Package api serves the metrics and health endpoints.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server wraps the HTTP exposition surface. Scrapes read the latest
// snapshot only and never touch the sensor.
type Server struct {
	HTTP *http.Server
	Log  *slog.Logger
}

// NewServer builds the router and configures the listener. reg is the
// private registry carrying the sensor collector.
func NewServer(addr string, log *slog.Logger, reg *prometheus.Registry) *Server {
	r := NewRouter(reg)
	logged := handlers.LoggingHandler(os.Stdout, r)

	hs := &http.Server{
		Addr:              addr,
		Handler:           logged,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return &Server{HTTP: hs, Log: log.With(slog.String("component", "api"))}
}

// NewRouter wires the endpoint handlers.
func NewRouter(reg *prometheus.Registry) *mux.Router {
	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{})).Methods("GET")
	r.HandleFunc("/health", healthHandler).Methods("GET")
	return r
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// Start binds the listener and serves until Stop. A bind failure is
// returned immediately so the caller can abort startup.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.HTTP.Addr)
	if err != nil {
		return err
	}
	s.Log.Info("http server starting", slog.String("addr", s.HTTP.Addr))
	return s.HTTP.Serve(ln)
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	s.Log.Info("http server stopping")
	return s.HTTP.Shutdown(ctx)
}
