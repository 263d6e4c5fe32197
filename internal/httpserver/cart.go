package httpserver

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/car_rental/internal/service"
	"github.com/Skotchmaster/car_rental/internal/session"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) View(c echo.Context) error {
	s := session.FromContext(c)
	var total float64
	for _, line := range s.Cart {
		total += line.Rate * float64(line.Days)
	}
	return render(c, "cart", "Cart", map[string]any{"Cart": s.Cart, "GrandTotal": total})
}

func (h *CartHTTP) Add(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return flashRedirect(c, session.FlashError, MsgCartCarNotFound, "/cars")
	}
	s := session.FromContext(c)
	if _, err := h.Svc.AddLine(c.Request().Context(), s, id, c.FormValue("days")); err != nil {
		if errors.Is(err, service.ErrCarNotFound) {
			return flashRedirect(c, session.FlashError, MsgCartCarNotFound, "/cars")
		}
		return err
	}
	return flashRedirect(c, session.FlashSuccess, MsgAddedToCart, "/cart")
}

func (h *CartHTTP) Remove(c echo.Context) error {
	if h.Svc.RemoveLine(session.FromContext(c), c.Param("index")) {
		return flashRedirect(c, session.FlashSuccess, MsgItemRemoved, "/cart")
	}
	return redirect(c, "/cart")
}

func (h *CartHTTP) Checkout(c echo.Context) error {
	h.Svc.Checkout(c.Request().Context(), session.FromContext(c))
	return flashRedirect(c, session.FlashSuccess, MsgCheckedOut, "/cars")
}
