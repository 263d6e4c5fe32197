package httpserver

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/car_rental/internal/service"
	"github.com/Skotchmaster/car_rental/internal/session"
)

type PageHTTP struct {
	Auth *service.AuthService
}

func (h *PageHTTP) Home(c echo.Context) error {
	return render(c, "home", "", nil)
}

func (h *PageHTTP) Dashboard(c echo.Context) error {
	return render(c, "dashboard", "Dashboard", nil)
}

func (h *PageHTTP) Admin(c echo.Context) error {
	users, err := h.Auth.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return render(c, "admin", "Admin", map[string]any{"Users": users})
}

func (h *PageHTTP) Promote(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return flashRedirect(c, session.FlashError, MsgUserNotFound, "/admin")
	}
	if err := h.Auth.Promote(c.Request().Context(), id); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return flashRedirect(c, session.FlashError, MsgUserNotFound, "/admin")
		}
		return err
	}
	return flashRedirect(c, session.FlashSuccess, MsgUserPromoted, "/admin")
}
