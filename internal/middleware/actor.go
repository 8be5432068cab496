package middleware

import (
	"net/http"
	"strings"

	"github.com/anonto42/alumni-forum/backend/internal/apperr"
	"github.com/anonto42/alumni-forum/backend/internal/models"
	"github.com/anonto42/alumni-forum/backend/pkg/logger"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

const actorKey = "actor"

// SetActor stores the authenticated actor on the request context
func SetActor(c echo.Context, actor models.Actor) {
	c.Set(actorKey, actor)
}

// ActorFromContext returns the actor placed on the context by the auth middleware
func ActorFromContext(c echo.Context) (models.Actor, bool) {
	actor, ok := c.Get(actorKey).(models.Actor)
	return actor, ok && actor.ID != ""
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header
func bearerToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Missing Authorization header")
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Invalid Authorization header format")
	}
	return parts[1], nil
}

// actorLookupError turns a failed user lookup into the response for the client
func actorLookupError(err error) error {
	if errors.Is(err, apperr.ErrNotFound) {
		return echo.NewHTTPError(http.StatusUnauthorized, "Authenticated user not found")
	}
	logger.Error("failed to resolve actor", logger.ErrorField(err))
	return echo.NewHTTPError(http.StatusInternalServerError, "Failed to resolve authenticated user")
}
