package handlers

import (
	"net/http"

	"github.com/anonto42/alumni-forum/backend/internal/apperr"
	"github.com/anonto42/alumni-forum/backend/internal/middleware"
	"github.com/anonto42/alumni-forum/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// httpError maps a service error onto an echo HTTP error. Server-side failures
// keep their detail in the log only.
func httpError(err error) error {
	code := apperr.StatusCode(err)
	if code >= http.StatusInternalServerError {
		return echo.NewHTTPError(code, "Internal server error").SetInternal(err)
	}
	return echo.NewHTTPError(code, err.Error())
}

// currentActor returns the authenticated actor or a 401
func currentActor(c echo.Context) (models.Actor, error) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		return models.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	return actor, nil
}

// bindAndValidate decodes the request body into req and checks its tags
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(req); err != nil {
		return httpError(err)
	}
	return nil
}
