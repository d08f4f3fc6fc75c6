// Package web wires the router, middleware and HTTP server lifecycle.
package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/crumbworks/todosvc/internal/database"
	"github.com/crumbworks/todosvc/internal/store"
	"github.com/crumbworks/todosvc/internal/web/handlers"
	"github.com/crumbworks/todosvc/internal/web/middleware"
)

// Server represents the web server
type Server struct {
	db       *database.DB
	port     int
	bind     string
	router   *chi.Mux
	handlers *handlers.Handlers
}

// NewServer creates a new web server. statementTimeout bounds every
// database round-trip issued by the repositories.
func NewServer(db *database.DB, port int, bind string, statementTimeout time.Duration) *Server {
	s := &Server{
		db:     db,
		port:   port,
		bind:   bind,
		router: chi.NewRouter(),
	}

	s.handlers = handlers.New(
		store.NewUserRepository(db, statementTimeout),
		store.NewTodoRepository(db, statementTimeout),
	)
	s.setupRoutes()

	return s
}

// Handler returns the root HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	r := s.router
	h := s.handlers

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Get("/", h.Greeting)

	r.Route("/users", func(r chi.Router) {
		r.Post("/", h.UserCreate)
		r.Get("/", h.UserList)
		r.Get("/{id}", h.UserGet)
		r.Put("/{id}", h.UserUpdate)
		r.Delete("/{id}", h.UserDelete)
	})

	r.Route("/todos", func(r chi.Router) {
		r.Post("/", h.TodoCreate)
		r.Get("/", h.TodoList)
		r.Get("/{id}", h.TodoGet)
		r.Put("/{id}", h.TodoUpdate)
		r.Delete("/{id}", h.TodoDelete)
	})

	// Unmatched routes and methods both produce the 404 envelope
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.NotFound)
}

// Start starts the web server and blocks until ctx is canceled or the
// listener fails.
func (s *Server) Start(ctx context.Context) error {
	var addr string
	if s.bind != "" {
		addr = fmt.Sprintf("%s:%d", s.bind, s.port)
	} else {
		addr = fmt.Sprintf(":%d", s.port)
	}

	server := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errChan:
		return err
	}
}
