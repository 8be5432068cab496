package router

import (
	"context"
	"fmt"

	"github.com/anonto42/alumni-forum/backend/internal/handlers"
	"github.com/anonto42/alumni-forum/backend/internal/middleware"
	"github.com/anonto42/alumni-forum/backend/internal/models"
	"github.com/anonto42/alumni-forum/backend/internal/repositories"
	"github.com/anonto42/alumni-forum/backend/internal/services"
	"github.com/anonto42/alumni-forum/backend/pkg/config"
	"github.com/anonto42/alumni-forum/backend/pkg/firebase"
	"github.com/anonto42/alumni-forum/backend/pkg/logger"
	"github.com/labstack/echo/v4"
)

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(ctx context.Context, e *echo.Echo, cfg *config.Config, db *config.DB) error {
	if err := db.Postgres.AutoMigrate(&models.User{}); err != nil {
		return fmt.Errorf("failed to auto migrate models: %w", err)
	}
	logger.Info("PostgreSQL auto-migrations completed")

	e.GET("/health", handlers.HealthCheck(db.Ping))
	e.GET("/", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"message": "alumni forum api"})
	})

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(db.Postgres)
	postRepo := repositories.NewMongoPostRepository(db.Mongo.Database(cfg.MongoDatabase))

	// --- Initialize Services ---
	postService := services.NewPostService(postRepo)
	replyService := services.NewReplyService(postRepo)

	requireActor, err := authMiddleware(ctx, cfg, userRepo)
	if err != nil {
		return err
	}

	public := e.Group("/api/v1")
	protected := e.Group("/api/v1", requireActor)
	logger.Info("Authentication middleware applied to /api/v1 write routes", logger.String("provider", cfg.AuthProvider))

	handlers.NewPostHandler(postService).RegisterPostRoutes(public, protected)
	logger.Info("Post routes configured")

	handlers.NewReplyHandler(replyService).RegisterReplyRoutes(public, protected)
	logger.Info("Reply routes configured")

	return nil
}

// authMiddleware builds the token check for the configured AUTH_PROVIDER
func authMiddleware(ctx context.Context, cfg *config.Config, users repositories.UserRepository) (echo.MiddlewareFunc, error) {
	switch cfg.AuthProvider {
	case config.AuthProviderJWT:
		if cfg.JWTSecret == "" {
			return nil, fmt.Errorf("auth provider %q needs JWT_SECRET", cfg.AuthProvider)
		}
		return middleware.JWTAuthMiddleware(cfg.JWTSecret, users), nil
	case config.AuthProviderFirebase:
		client, err := firebase.NewAuthClient(ctx, cfg.FirebaseCredentialsPath)
		if err != nil {
			return nil, fmt.Errorf("auth provider %q: %w", cfg.AuthProvider, err)
		}
		return middleware.FirebaseAuthMiddleware(client, users), nil
	default:
		return nil, fmt.Errorf("unknown auth provider %q", cfg.AuthProvider)
	}
}
