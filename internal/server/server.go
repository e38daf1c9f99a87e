// Package server wires handlers, middleware, and routes together.
//
// This is the composition root: every dependency — database, verifier,
// services, handlers — is assembled here in one place. main.go only loads
// configuration and calls New/Start; nothing below this layer touches HTTP
// setup, and the handlers never see the concrete database type.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/devconnect/backend/internal/auth"
	"github.com/devconnect/backend/internal/config"
	"github.com/devconnect/backend/internal/handler"
	"github.com/devconnect/backend/internal/middleware"
	sqliteRepo "github.com/devconnect/backend/internal/repository/sqlite"
	"github.com/devconnect/backend/internal/service"
)

// Server owns the router and the database connection. The connection is
// closed during graceful shutdown so the WAL is flushed and the file lock
// released.
type Server struct {
	router *chi.Mux
	config config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the full dependency chain: database, token verifier,
// services, handlers, routes.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// Handler exposes the assembled router, mainly for tests that drive the
// server through httptest without binding a port.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the database connection. Start does this itself; tests
// that never call Start use Close directly.
func (s *Server) Close() error {
	return s.db.Close()
}

// setupRoutes configures middleware and the route table.
//
//	GET  /                  → health/landing message (public)
//	GET  /api/posts         → list posts, ?type= ?featured= ?limit= (public)
//	GET  /api/posts/{id}    → single post with owner (public)
//	GET  /api/me            → caller's profile (bearer token required)
//	POST /api/me/sync       → reconcile caller's profile (bearer token required)
//	POST /api/posts         → create a post owned by the caller (bearer token required)
//
// Middleware order matters: request ID and real IP first so the logger
// sees them, Recoverer before anything that can panic, CORS before routing
// so preflights are answered without hitting handlers.
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(cors.New(s.config.CorsOptions()).Handler)

	verifier, err := auth.NewVerifier(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token verifier: %w", err)
	}

	profileService := service.NewProfileService(s.db, s.logger)
	profileHandler := handler.NewProfileHandler(profileService, s.logger)

	postService := service.NewPostService(s.db, s.logger)
	postHandler := handler.NewPostHandler(postService, s.logger)

	s.router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message": "DevConnect backend running"}`))
	})

	s.router.Route("/api", func(r chi.Router) {
		// Public reads.
		r.Get("/posts", postHandler.HandleList)
		r.Get("/posts/{id}", postHandler.HandleGet)

		// Everything below requires a verified bearer token.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(verifier, s.logger))

			r.Get("/me", profileHandler.HandleMe)
			r.Post("/me/sync", profileHandler.HandleSync)
			r.Post("/posts", postHandler.HandleCreate)
		})
	})

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, wait up to 30s for in-flight
// requests, close the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         ":" + s.config.Port,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.String("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
