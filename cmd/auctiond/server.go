// server.go - ops-only HTTP surface: /healthz and /metrics, with
// signal-based graceful shutdown. Never accepts order submissions or
// reveals; the daemon replays a pre-recorded stream read from disk.
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// OpsServer exposes the daemon's operational surface.
type OpsServer struct {
	addr     string
	server   *http.Server
	health   *HealthChecker
	metrics  *MetricsCollector
	limiter  *RateLimiter
	waitGrp  *sync.WaitGroup
	logger   *Logger
}

// NewOpsServer builds the ops surface; the caller owns starting and
// stopping it via Start/Shutdown.
func NewOpsServer(addr string, health *HealthChecker, metrics *MetricsCollector, logger *Logger) *OpsServer {
	return &OpsServer{
		addr:    addr,
		health:  health,
		metrics: metrics,
		limiter: NewRateLimiter(60, 60, time.Minute),
		waitGrp: &sync.WaitGroup{},
		logger:  logger,
	}
}

func (s *OpsServer) healthzHandler(w http.ResponseWriter, r *http.Request) {
	if !s.limiter.Allow() {
		http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
		return
	}
	resp := CreateHealthResponse(s.health.CheckHealth())
	w.Header().Set("Content-Type", "application/json")
	if resp.Data.(*SystemHealth).OverallStatus != Healthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(resp)
}

func (s *OpsServer) metricsHandler(w http.ResponseWriter, r *http.Request) {
	if !s.limiter.Allow() {
		http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.metrics.GetMetricsSummary())
}

// Start runs the server in a new goroutine and installs a SIGINT/SIGTERM
// handler that shuts it down gracefully.
func (s *OpsServer) Start() {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.healthzHandler)
	mux.HandleFunc("/metrics", s.metricsHandler)

	s.server = &http.Server{Addr: s.addr, Handler: mux}

	s.waitGrp.Add(1)
	go func() {
		defer s.waitGrp.Done()
		s.logger.Info("ops server listening on %s", s.addr)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("ops server failed: %v", err)
		}
	}()

	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
		<-c
		s.logger.Info("shutting down ops server")
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = s.server.Shutdown(ctx)
	}()
}

// Shutdown stops the server and blocks until its serving goroutine has
// exited.
func (s *OpsServer) Shutdown(ctx context.Context) error {
	err := s.server.Shutdown(ctx)
	s.waitGrp.Wait()
	return err
}
