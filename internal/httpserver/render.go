package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/car_rental/internal/middleware/csrf"
	"github.com/Skotchmaster/car_rental/internal/session"
	"github.com/Skotchmaster/car_rental/internal/views"
)

// render draws a page with the common layout data. Pending flashes are
// consumed here, so each message shows on exactly one page.
func render(c echo.Context, name, title string, data map[string]any) error {
	s := session.FromContext(c)
	p := views.Page{
		Title:    title,
		User:     userView(s.User),
		Messages: s.PopFlashes(session.FlashSuccess),
		Errors:   s.PopFlashes(session.FlashError),
		CSRF:     csrf.Token(c),
		Data:     data,
	}
	return c.Render(http.StatusOK, name, p)
}

// userView strips the password hash before anything reaches a template.
func userView(u *session.User) *views.UserView {
	if u == nil {
		return nil
	}
	return &views.UserView{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
		IsAdmin:  u.IsAdmin(),
	}
}

// flashRedirect queues msg and redirects. The session is saved before the
// redirect goes out, so a store failure turns into a 500 instead of a
// success message for a change that was lost.
func flashRedirect(c echo.Context, kind, msg, target string) error {
	session.FromContext(c).AddFlash(kind, msg)
	if err := session.Commit(c); err != nil {
		return err
	}
	return redirect(c, target)
}

// redirect answers POSTs with 303 so the browser follows with a GET.
func redirect(c echo.Context, target string) error {
	code := http.StatusFound
	if c.Request().Method != http.MethodGet && c.Request().Method != http.MethodHead {
		code = http.StatusSeeOther
	}
	return c.Redirect(code, target)
}

func parseID(raw string) (uint, bool) {
	n, err := strconv.ParseUint(raw, 10, 0)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}
