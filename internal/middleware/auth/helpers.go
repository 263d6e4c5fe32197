package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/car_rental/internal/logging"
	"github.com/Skotchmaster/car_rental/internal/metrics"
	"github.com/Skotchmaster/car_rental/internal/session"
)

const (
	MsgLoginRequired = "Login required"
	MsgAdminsOnly    = "Admins only"
)

// reject queues one error flash and sends the browser to target. The guarded
// handler is never called.
func reject(c echo.Context, s *session.Session, guard, msg, target string) error {
	l := logging.With(c.Request().Context(), "handler", guard)
	l.Warn().Str("path", c.Request().URL.Path).Str("reason", msg).Msg("access_denied")

	metrics.GuardRejectionsTotal.WithLabelValues(guard).Inc()
	s.AddFlash(session.FlashError, msg)
	return c.Redirect(http.StatusSeeOther, target)
}
