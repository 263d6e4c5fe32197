package httpserver

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/car_rental/internal/service"
	"github.com/Skotchmaster/car_rental/internal/session"
)

type ReviewHTTP struct {
	Svc *service.ReviewService
}

func (h *ReviewHTTP) List(c echo.Context) error {
	reviews, err := h.Svc.List(c.Request().Context())
	if err != nil {
		return err
	}
	return render(c, "reviews", "Reviews", map[string]any{"Reviews": reviews})
}

func (h *ReviewHTTP) Submit(c echo.Context) error {
	s := session.FromContext(c)
	_, err := h.Svc.Submit(c.Request().Context(), s.User.Username, c.FormValue("message"))
	if errors.Is(err, service.ErrEmptyReviewMessage) {
		return flashRedirect(c, session.FlashError, MsgEmptyReview, "/reviews")
	}
	if err != nil {
		return err
	}
	return flashRedirect(c, session.FlashSuccess, MsgReviewSubmitted, "/reviews")
}
