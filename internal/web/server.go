package web

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"
)

const (
	defaultShutdownTimeout = 5 * time.Second
	defaultSessionTTL      = 30 * time.Minute
	pruneInterval          = time.Minute
)

// Config defines the inputs for the shell web server.
type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	SessionTTL      time.Duration
}

// Server hosts the shell's HTTP surface.
type Server struct {
	addr            string
	shutdownTimeout time.Duration
	registry        *sessions
	httpServer      *http.Server
}

// NewServer builds a configured server.
func NewServer(config Config) (*Server, error) {
	addr := strings.TrimSpace(config.Addr)
	if addr == "" {
		return nil, errors.New("listen address is required")
	}
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = defaultShutdownTimeout
	}
	if config.SessionTTL <= 0 {
		config.SessionTTL = defaultSessionTTL
	}

	registry := newSessions(config.SessionTTL)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           NewHandler(registry),
		ReadHeaderTimeout: 5 * time.Second,
	}

	return &Server{
		addr:            addr,
		shutdownTimeout: config.ShutdownTimeout,
		registry:        registry,
		httpServer:      httpServer,
	}, nil
}

// ListenAndServe runs the HTTP server until the context ends.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	go s.pruneLoop(ctx)

	serveErr := make(chan error, 1)
	log.Printf("web listening on %s", s.addr)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

// pruneLoop drops idle visitor shells until the context ends.
func (s *Server) pruneLoop(ctx context.Context) {
	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := s.registry.prune(now); n > 0 {
				log.Printf("pruned %d idle sessions", n)
			}
		}
	}
}
