package auth

import (
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/car_rental/internal/session"
)

// AdminOnly treats a session without a user as not-admin.
func AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		s := session.FromContext(c)
		if !s.IsAdmin() {
			return reject(c, s, "admin_only", MsgAdminsOnly, "/")
		}
		return next(c)
	}
}
