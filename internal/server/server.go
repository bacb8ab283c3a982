// Package server sets up the HTTP server, router, and all route definitions.
//
// This package is the composition root. New assembles the dependency chain:
//
//	sqlite.DB → UserDB / LanguageDB → validation.Validator → UserService → handlers
//
// Each layer only receives what it needs. Handlers see the service, the
// service sees the repository interface, and only this package knows the
// concrete SQLite types.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/form-backend/internal/auth"
	"github.com/sakif/form-backend/internal/handler"
	"github.com/sakif/form-backend/internal/middleware"
	sqliteRepo "github.com/sakif/form-backend/internal/repository/sqlite"
	"github.com/sakif/form-backend/internal/service"
	"github.com/sakif/form-backend/internal/validation"
)

// Config holds server configuration.
type Config struct {
	Port   int
	DBPath string

	// Bootstrap creates the tables and the canonical language rows when
	// they are missing. Off by default; production schemas are managed
	// outside the application.
	Bootstrap bool

	PasswordScheme auth.Scheme
	BcryptCost     int
}

// Server represents the HTTP server and all its dependencies.
//
// The Server owns the database connection and closes it on shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
	users  *service.UserService
}

// New opens the store, loads the accepted language list from it and wires
// every route.
//
// The language table is the single source of truth: the validator is built
// from whatever rows it holds, so a name the form accepts always has a row
// to join against.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Server, error) {
	passwords, err := auth.NewPasswordServiceForScheme(cfg.PasswordScheme, cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("configuring passwords: %w", err)
	}

	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if cfg.Bootstrap {
		if err := db.EnsureSchema(ctx, validation.DefaultLanguages); err != nil {
			db.Close()
			return nil, fmt.Errorf("bootstrapping schema: %w", err)
		}
		logger.Info("schema bootstrapped", slog.Int("languages", len(validation.DefaultLanguages)))
	}

	languages, err := db.Languages().List(ctx)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("loading languages: %w", err)
	}
	if len(languages) == 0 {
		db.Close()
		return nil, errors.New("loading languages: ProgrammingLanguages table is empty")
	}

	names := make([]string, 0, len(languages))
	for _, l := range languages {
		names = append(names, l.Name)
	}

	validator := validation.NewValidator(names)
	userService := service.NewUserService(db.Users(passwords, logger), validator, passwords, logger)

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
		users:  userService,
	}
	s.setupRoutes()

	return s, nil
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
// GET    /healthz               → Store ping
// GET    /api/languages         → Accepted language names
// POST   /api/users             → Register (form)
// POST   /api/login             → Check credentials (form)
// GET    /api/me                → Current user            [Basic auth]
// GET    /api/users/{id}        → Read own profile        [Basic auth]
// PUT    /api/users/{id}        → Replace own profile     [Basic auth]
//
// Middleware executes in the order it's added.
func (s *Server) setupRoutes() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	userHandler := handler.NewUserHandler(s.users, s.logger)
	authHandler := handler.NewAuthHandler(s.users, s.logger)
	healthHandler := handler.NewHealthHandler(s.db, s.logger)

	s.router.Get("/healthz", healthHandler.HandleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/languages", userHandler.HandleLanguages)
		r.Post("/users", userHandler.HandleRegister)
		r.Post("/login", authHandler.HandleLogin)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireCredentials(s.users, s.logger))
			r.Get("/me", authHandler.HandleMe)
			r.Get("/users/{id}", userHandler.HandleGetProfile)
			r.Put("/users/{id}", userHandler.HandleUpdateProfile)
		})
	})
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the database connection.
func (s *Server) Close() error {
	return s.db.Close()
}

// Start starts the HTTP server and blocks until SIGINT/SIGTERM, then shuts
// down gracefully:
//  1. Stop accepting new HTTP connections
//  2. Wait for in-flight requests to finish (30s timeout)
//  3. Close the database connection
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
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
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("database", s.config.DBPath),
			slog.String("passwordScheme", string(s.config.PasswordScheme)),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
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
