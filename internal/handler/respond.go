package handler

import (
	"etailor-admin/internal/apperr"
	"etailor-admin/pkg/config"

	"github.com/labstack/echo/v4"
)

// fail writes the uniform error envelope. The underlying detail is exposed
// only in development mode.
func fail(c echo.Context, cfg *config.ServerConfig, err *apperr.Error) error {
	payload := echo.Map{
		"success": false,
		"message": err.Message,
	}
	if cfg.IsDevelopment() && err.Err != nil {
		payload["error"] = err.Err.Error()
	}
	return c.JSON(err.Status(), payload)
}
