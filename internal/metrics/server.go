package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Server manages the Prometheus metrics HTTP server.
type Server struct {
	server   *http.Server
	registry *prometheus.Registry
	port     int
	endpoint string

	Collectors *Collectors
}

// NewServer builds a registry with runtime collectors plus the application collectors.
func NewServer(port int, endpoint string) *Server {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	s := &Server{
		registry:   registry,
		port:       port,
		endpoint:   endpoint,
		Collectors: NewCollectors(registry),
	}

	mux := http.NewServeMux()
	mux.Handle(endpoint, s.Handler())
	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}
	return s
}

// Handler serves the registry in the Prometheus exposition format.
func (s *Server) Handler() http.Handler {
	return promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})
}

// Start begins serving metrics on the configured port.
func (s *Server) Start() {
	go func() {
		logrus.Infof("metrics server listening on port %d%s", s.port, s.endpoint)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Errorf("metrics server failed: %v", err)
		}
	}()
}

// Shutdown gracefully stops the metrics server.
func (s *Server) Shutdown(ctx context.Context) error {
	logrus.Info("shutting down metrics server...")
	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}
	logrus.Info("metrics server stopped")
	return nil
}
