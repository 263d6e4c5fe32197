package auth

import (
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/car_rental/internal/session"
)

func RequireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		s := session.FromContext(c)
		if !s.Authenticated() {
			return reject(c, s, "require_login", MsgLoginRequired, "/login")
		}
		return next(c)
	}
}
