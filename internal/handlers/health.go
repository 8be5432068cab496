package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthChecker reports the state of each backing store, nil meaning healthy
type HealthChecker func(ctx context.Context) map[string]error

// HealthCheck returns a handler reporting service and dependency health
func HealthCheck(check HealthChecker) echo.HandlerFunc {
	return func(c echo.Context) error {
		status := "healthy"
		code := http.StatusOK
		deps := map[string]string{}
		if check != nil {
			for name, err := range check(c.Request().Context()) {
				if err != nil {
					status = "unhealthy"
					code = http.StatusServiceUnavailable
					deps[name] = err.Error()
					continue
				}
				deps[name] = "ok"
			}
		}
		return c.JSON(code, echo.Map{
			"status":       status,
			"service":      "alumni-forum",
			"dependencies": deps,
		})
	}
}
