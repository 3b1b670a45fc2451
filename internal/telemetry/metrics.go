package telemetry

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// NewMetricsServer returns a server exposing handler at /metrics.
func NewMetricsServer(port int, handler http.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// StartMetricsServer serves Prometheus metrics until the server is shut down.
func StartMetricsServer(srv *http.Server) error {
	slog.Info("Starting metrics server", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
