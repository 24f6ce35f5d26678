package watcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bufbuild/connect-go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/lemony312/FreeRide/internal/config"
	"github.com/lemony312/FreeRide/internal/observability"
	"github.com/lemony312/FreeRide/internal/rpc"
	"github.com/lemony312/FreeRide/internal/rpc/connectjson"
)

// Connect procedures exposed by the watcher daemon.
const (
	StatusProcedure    = "/freeride.watcher.v1.WatcherService/Status"
	RotateNowProcedure = "/freeride.watcher.v1.WatcherService/RotateNow"
)

// Server hosts the watcher loop plus health/metrics/RPC endpoints.
type Server struct {
	cfg     *config.Config
	logger  *zap.Logger
	rotator *Rotator
	watcher *Watcher
	metrics *observability.Metrics
}

// NewServer constructs a daemon instance.
func NewServer(cfg *config.Config, logger *zap.Logger) *Server {
	metrics := observability.NewMetrics()
	rotator := NewRotator(cfg.Host.ConfigPath, cfg.Host.StatePath, cfg.Rotation.Wrap, logger, metrics)
	w := &Watcher{
		Rotator:  rotator,
		Source:   &FileSignal{Path: cfg.Rotation.TriggerPath},
		Interval: cfg.Rotation.PollInterval,
		Logger:   logger,
		Metrics:  metrics,
	}
	return &Server{cfg: cfg, logger: logger, rotator: rotator, watcher: w, metrics: metrics}
}

// handler assembles the daemon's HTTP surface: health, metrics, and the two
// Connect procedures, served over h2c so plain-HTTP clients can speak HTTP/2.
func (s *Server) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.healthHandler)
	mux.HandleFunc("/metrics", s.metricsHandler)
	mux.Handle(StatusProcedure, connect.NewUnaryHandler(
		StatusProcedure, s.handleStatus, connect.WithCodec(connectjson.Codec{})))
	mux.Handle(RotateNowProcedure, connect.NewUnaryHandler(
		RotateNowProcedure, s.handleRotateNow, connect.WithCodec(connectjson.Codec{})))
	return h2c.NewHandler(mux, &http2.Server{})
}

// Run starts the HTTP server and the monitoring loop, blocking until context
// cancellation or fatal error.
func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)
	go func() {
		s.logger.Info("starting freeride watcher daemon",
			zap.String("addr", s.cfg.Server.Addr),
			zap.Duration("poll_interval", s.cfg.Rotation.PollInterval))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("server failed: %w", err)
		}
	}()
	go func() {
		if err := s.watcher.Run(ctx); err != nil && ctx.Err() == nil {
			errCh <- fmt.Errorf("watcher loop failed: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		s.logger.Info("shutting down freeride watcher daemon")
	case runErr = <-errCh:
		cancel()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && runErr == nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return runErr
}

func (s *Server) handleStatus(ctx context.Context, req *connect.Request[rpc.StatusRequest]) (*connect.Response[rpc.StatusResponse], error) {
	status, err := s.rotator.Status()
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(&status), nil
}

func (s *Server) handleRotateNow(ctx context.Context, req *connect.Request[rpc.RotateRequest]) (*connect.Response[rpc.RotateResponse], error) {
	res, err := s.rotator.Rotate(req.Msg.Reason)
	if err != nil {
		code := connect.CodeInternal
		if errors.Is(err, ErrNoFallbacks) || errors.Is(err, ErrRotationExhausted) {
			code = connect.CodeFailedPrecondition
		}
		return nil, connect.NewError(code, err)
	}
	return connect.NewResponse(&res), nil
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) metricsHandler(w http.ResponseWriter, r *http.Request) {
	if !s.cfg.Server.MetricsEnabled {
		http.NotFound(w, r)
		return
	}

	promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{}).ServeHTTP(w, r)
}
