package middleware

import (
	"errors"
	"net/http"

	"stayRank/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ErrorHandler is the echo-level fallback for errors no handler converted to
// a response itself.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "Internal server error"

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		code = httpErr.Code
		if msg, ok := httpErr.Message.(string); ok {
			message = msg
		}
	}

	if code >= http.StatusInternalServerError {
		logger.Error("Unhandled request error", err, "path", c.Request().URL.Path)
	}

	if err := c.JSON(code, map[string]string{"message": message}); err != nil {
		logger.Error("Failed to write error response", err)
	}
}
