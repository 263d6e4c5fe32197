package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/car_rental/internal/logging"
	"github.com/Skotchmaster/car_rental/internal/service"
)

// NewHTTPErrorHandler renders errors as plain text. Unknown errors are logged
// and shown as a generic 500 so no internals reach the browser.
func NewHTTPErrorHandler() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code, msg := resolveError(err, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.String(code, msg)
	}
}

func resolveError(err error, c echo.Context) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	switch {
	case errors.Is(err, service.ErrCarNotFound):
		return http.StatusNotFound, MsgCarNotFound
	case errors.Is(err, service.ErrUserNotFound):
		return http.StatusNotFound, "User not found"
	}

	logging.FromContext(c.Request().Context()).Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
}
