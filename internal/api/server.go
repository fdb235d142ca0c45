// Package api serves the lending tracker's REST API.
package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/jask/lendtrack/internal/config"
	"github.com/jask/lendtrack/internal/domain"
)

const (
	readHeaderTimeout      = 5 * time.Second
	defaultShutdownTimeout = 5 * time.Second
)

// Lending is what the API needs from the lending service.
type Lending interface {
	domain.Lender
	Friend(ctx context.Context, id int64) (domain.Friend, error)
	Item(ctx context.Context, id int64) (domain.Item, error)
}

// Server runs the HTTP API.
type Server struct {
	httpAddr        string
	shutdownTimeout time.Duration
	httpServer      *http.Server
}

// NewServer builds a server for cfg backed by svc.
func NewServer(cfg config.ServerConfig, svc Lending) *Server {
	timeout := cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	return &Server{
		httpAddr:        cfg.Addr,
		shutdownTimeout: timeout,
		httpServer: &http.Server{
			Addr:              cfg.Addr,
			Handler:           NewHandler(cfg, svc),
			ReadHeaderTimeout: readHeaderTimeout,
		},
	}
}

// NewHandler returns the full router: /up, /api/... and the optional static site.
func NewHandler(cfg config.ServerConfig, svc Lending) http.Handler {
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         300,
	}))

	r.Get("/up", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	h := &handlers{svc: svc}
	r.Route("/api", func(r chi.Router) {
		r.Use(bearerToken(cfg.APIToken))

		r.Get("/friends", h.listFriends)
		r.Post("/friends", h.createFriend)
		r.Get("/friends/{id}", h.getFriend)
		r.Delete("/friends/{id}", h.deleteFriend)
		r.Get("/friends/{id}/items", h.friendItems)

		r.Post("/items", h.createItem)
		r.Get("/items/{id}", h.getItem)
		r.Delete("/items/{id}", h.deleteItem)
	})

	if cfg.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(cfg.StaticDir)))
	}

	return otelhttp.NewHandler(r, "lendtrack-api")
}

// ListenAndServe runs the HTTP server until the context ends.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("api server is nil")
	}

	serveErr := make(chan error, 1)
	log.Printf("api server listening on %s", s.httpAddr)
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
