// Package server exposes the inbound webhook endpoint and the operational
// endpoints (/healthz, /metrics).
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"linecord/internal/domain"
	"linecord/internal/line"
	"linecord/internal/metrics"
)

// maxBodyBytes bounds webhook request bodies; LINE event envelopes are small.
const maxBodyBytes = 1 << 20

// EventHandler processes one normalized inbound event synchronously.
type EventHandler interface {
	HandleEvent(ctx context.Context, ev domain.InboundEvent) error
}

// Config configures the webhook server.
type Config struct {
	Host   string
	Port   int
	Path   string // webhook URL path (default: /callback)
	Secret string // LINE channel secret for signature verification
	Logger *slog.Logger
}

// Server accepts LINE webhook deliveries and hands each event to the bridge.
type Server struct {
	host    string
	port    int
	path    string
	secret  string
	handler EventHandler
	logger  *slog.Logger
	srv     *http.Server
}

func New(cfg Config, handler EventHandler) *Server {
	if cfg.Path == "" {
		cfg.Path = "/callback"
	}
	if cfg.Port == 0 {
		cfg.Port = 8443
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Server{
		host:    cfg.Host,
		port:    cfg.Port,
		path:    cfg.Path,
		secret:  cfg.Secret,
		handler: handler,
		logger:  cfg.Logger,
	}
}

// Start runs the HTTP server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc(s.path, s.handleCallback)
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.Handle("/metrics", metrics.Collector.Handler())

	s.srv = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.host, s.port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	s.logger.Info("webhook server starting", "addr", s.srv.Addr, "path", s.path)

	errCh := make(chan error, 1)
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("webhook server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("webhook server: %w", err)
	}
}

func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if !line.VerifySignature(s.secret, body, r.Header.Get(line.SignatureHeader)) {
		metrics.SignatureRejects.Inc()
		s.logger.Warn("rejected webhook with invalid signature", "remote", r.RemoteAddr)
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	events, err := line.ParseWebhook(body)
	if err != nil {
		s.logger.Warn("rejected malformed webhook body", "err", err)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	for _, ev := range events {
		metrics.EventsReceived.Inc()
		if err := s.handler.HandleEvent(r.Context(), ev); err != nil {
			s.logger.Error("event handling failed", "err", err, "kind", ev.Kind.String())
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
	}

	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}
