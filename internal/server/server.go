package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/mimecast/dnode/internal/config"
	"github.com/mimecast/dnode/internal/event"
	"github.com/mimecast/dnode/internal/io/dlog"
	"github.com/mimecast/dnode/internal/version"

	"github.com/pkg/errors"
)

// Waiter resolves waits on the node log.
type Waiter interface {
	SubmitContext(ctx context.Context, p event.Predicate, timeout time.Duration) event.Outcome
	PendingCount() int
	Stats() event.Stats
	Recent() []string
}

// Server is the HTTP wait API.
type Server struct {
	waiter Waiter
	cfg    *config.ServerConfig
	// Various server statistics counters.
	stats stats
	// To control the max amount of concurrent waits.
	waitLimiter chan struct{}
}

// New returns a new server.
func New(waiter Waiter, cfg *config.ServerConfig) *Server {
	dlog.Common.Info("Creating server", version.String())
	cfg = cfg.Bounded()

	return &Server{
		waiter:      waiter,
		cfg:         cfg,
		waitLimiter: make(chan struct{}, cfg.MaxConcurrentWaits),
	}
}

// Start the server and block until ctx ends. Returns the exit status.
func (s *Server) Start(ctx context.Context) int {
	dlog.Common.Info("Binding server", s.cfg.ListenAddress)

	listener, err := net.Listen("tcp", s.cfg.ListenAddress)
	if err != nil {
		dlog.Common.Error("Failed to open listening TCP socket", err)
		return 1
	}

	return s.serve(ctx, listener)
}

func (s *Server) serve(ctx context.Context, listener net.Listener) int {
	httpServer := &http.Server{Handler: s.Handler()}
	serveErr := make(chan error, 1)

	go s.stats.start(ctx, s.waiter)
	go func() { serveErr <- httpServer.Serve(listener) }()

	select {
	case err := <-serveErr:
		dlog.Common.Error("Server stopped", err)
		return 1
	case <-ctx.Done():
	}

	dlog.Common.Info("Shutting down server", fmt.Sprintf("waits=%d", s.waiter.PendingCount()))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		dlog.Common.Warn("Unclean server shutdown", errors.Wrap(err, "shutdown"))
		return 1
	}
	return 0
}
