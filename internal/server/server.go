// Package server assembles the catalog HTTP application from its configuration
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	_ "github.com/bookcatalog/backend/docs"
	authMiddleware "github.com/bookcatalog/backend/internal/auth/middleware"
	authService "github.com/bookcatalog/backend/internal/auth/service"
	"github.com/bookcatalog/backend/internal/config"
	"github.com/bookcatalog/backend/internal/handlers"
	sharedMiddleware "github.com/bookcatalog/backend/internal/middleware"
	"github.com/bookcatalog/backend/internal/models"
	"github.com/bookcatalog/backend/internal/repositories"
	"github.com/bookcatalog/backend/internal/services"
	"github.com/bookcatalog/backend/internal/validation"
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const shutdownTimeout = 30 * time.Second

// AdminBootstrapper creates the first administrator
type AdminBootstrapper interface {
	EnsureAdmin(ctx context.Context, username, email, password string) (bool, error)
}

// Server is the wired catalog application
type Server struct {
	cfg     *config.Config
	handler http.Handler
	admins  AdminBootstrapper
	logger  *zap.Logger
}

// Options tune the application wiring
type Options struct {
	// BcryptCost overrides bcrypt.DefaultCost
	BcryptCost int
}

// New wires repositories, services, the access gate and handlers over db
func New(cfg *config.Config, db *sql.DB, logger *zap.Logger, opts Options) (*Server, error) {
	tokens, err := authService.NewTokenService(cfg.JWT.Secret, cfg.JWT.Algorithm, cfg.JWT.Expiration)
	if err != nil {
		return nil, fmt.Errorf("failed to create token service: %w", err)
	}

	cost := opts.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hasher := authService.NewPasswordHasher(cost)

	// Initialize repositories
	bookRepo := repositories.NewBookRepository(db, logger)
	genreRepo := repositories.NewGenreRepository(db, logger)
	userRepo := repositories.NewUserRepository(db, logger)

	// Initialize services
	bookService := services.NewBookService(bookRepo, genreRepo, logger)
	genreService := services.NewGenreService(genreRepo, bookRepo, logger)
	userService := services.NewUserService(userRepo, hasher, tokens, logger)

	gate := authMiddleware.NewGate(tokens, userService, logger)
	v := validation.New()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, gate, v, cfg.JWT.Expiration, logger)
	bookHandler := handlers.NewBookHandler(bookService, gate, v, logger)
	genreHandler := handlers.NewGenreHandler(genreService, gate, v, logger)

	r := chi.NewRouter()

	r.Use(sharedMiddleware.RequestIDMiddleware)
	r.Use(sharedMiddleware.LoggerMiddleware(logger))
	r.Use(sharedMiddleware.RecoveryMiddleware(logger))
	r.Use(sharedMiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins))
	r.Use(sharedMiddleware.RequestSizeLimitMiddleware(sharedMiddleware.DefaultMaxRequestSize))

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Route("/api/v1", func(r chi.Router) {
		authHandler.RegisterRoutes(r)
		bookHandler.RegisterRoutes(r)
		genreHandler.RegisterRoutes(r)
	})

	return &Server{
		cfg:     cfg,
		handler: r,
		admins:  userService,
		logger:  logger,
	}, nil
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// EnsureAdmin creates the configured administrator when no administrator exists
func (s *Server) EnsureAdmin(ctx context.Context) error {
	created, err := s.admins.EnsureAdmin(ctx, s.cfg.Admin.Username, s.cfg.Admin.Email, s.cfg.Admin.Password)
	if err != nil {
		return err
	}
	if created {
		s.logger.Info("bootstrap administrator created",
			zap.String("username", s.cfg.Admin.Username),
			zap.String("role", string(models.RoleAdmin)),
		)
	}
	return nil
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Server.Port),
		Handler:      s.handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Server starting", zap.Int("port", s.cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed to start: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	s.logger.Info("Server exited")
	return nil
}
