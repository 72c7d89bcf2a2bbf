// Package server exposes the notification API and the guarded back-office pages.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/agence-immo/agence/internal/access"
	"github.com/agence-immo/agence/internal/domain"
	"github.com/agence-immo/agence/internal/logging"
	"github.com/go-chi/chi/v5"
)

const shutdownTimeout = 10 * time.Second

// Server wires the repository and the access guard into an HTTP handler.
type Server struct {
	repo   domain.NotificationRepository
	guard  *access.Guard
	logger logging.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l logging.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// New returns a server over repo guarded by guard.
func New(repo domain.NotificationRepository, guard *access.Guard, opts ...Option) *Server {
	s := &Server{repo: repo, guard: guard, logger: logging.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the router with the full middleware stack.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(s.recoverMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.guard.Middleware)

	r.Get("/healthz", s.healthz)

	r.Route("/api/notifications", func(r chi.Router) {
		r.Use(requireSession)
		r.Get("/", s.listNotifications)
		r.Get("/unread-count", s.unreadCount)
		r.Post("/read-all", s.markAllRead)
		r.Post("/{id}/read", s.markRead)
	})

	r.Get("/", s.page("Accueil"))
	table := s.guard.Table()
	r.Get(table.LoginPath, s.page("Connexion"))
	for _, path := range table.AuthOnlyExact {
		if path != table.LoginPath {
			r.Get(path, s.page(authPageTitle(path)))
		}
	}
	for _, prefix := range table.AuthOnlyPrefixes {
		r.Get(prefix, s.page(authPageTitle(prefix)))
		r.Get(prefix+"/*", s.page(authPageTitle(prefix)))
	}
	for prefix, title := range backOfficePages {
		r.Get(prefix, s.page(title))
		r.Get(prefix+"/*", s.page(title))
	}

	return r
}

// Run serves handler on addr until ctx is done, then shuts down gracefully.
func Run(ctx context.Context, addr string, handler http.Handler, logger logging.Logger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return Serve(ctx, ln, handler, logger)
}

// Serve is Run over an existing listener.
func Serve(ctx context.Context, ln net.Listener, handler http.Handler, logger logging.Logger) error {
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	logger.Info("http server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}
