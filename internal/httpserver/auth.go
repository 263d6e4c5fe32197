package httpserver

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/car_rental/internal/logging"
	"github.com/Skotchmaster/car_rental/internal/models"
	"github.com/Skotchmaster/car_rental/internal/service"
	"github.com/Skotchmaster/car_rental/internal/session"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

// registerForm has no role field: a posted role is dropped at bind time.
type registerForm struct {
	Username string `form:"username" validate:"required,max=64"`
	Email    string `form:"email" validate:"required,email,max=255"`
	Password string `form:"password" validate:"required,max=72"`
}

type loginForm struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

func (h *AuthHTTP) RegisterPage(c echo.Context) error {
	return render(c, "register", "Register", nil)
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.With(ctx, "handler", "auth_register")

	var form registerForm
	if err := c.Bind(&form); err != nil {
		l.Warn().Int("status", 400).Err(err).Msg("register_failed")
		return flashRedirect(c, session.FlashError, "Invalid form", "/register")
	}
	if err := c.Validate(&form); err != nil {
		l.Warn().Int("status", 422).Err(err).Msg("register_failed")
		return flashRedirect(c, session.FlashError, validationMessage(err), "/register")
	}

	if _, err := h.Svc.Register(ctx, form.Username, form.Email, form.Password); err != nil {
		if errors.Is(err, service.ErrDuplicateEmail) {
			return flashRedirect(c, session.FlashError, MsgEmailInUse, "/register")
		}
		return err
	}
	return redirect(c, "/login")
}

func (h *AuthHTTP) LoginPage(c echo.Context) error {
	return render(c, "login", "Login", nil)
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var form loginForm
	if err := c.Bind(&form); err != nil {
		return flashRedirect(c, session.FlashError, MsgInvalidCredentials, "/login")
	}

	user, err := h.Svc.Login(ctx, form.Email, form.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return flashRedirect(c, session.FlashError, MsgInvalidCredentials, "/login")
		}
		return err
	}

	session.FromContext(c).SetUser(sessionUser(user))
	if err := session.Commit(c); err != nil {
		return err
	}
	logging.With(ctx, "handler", "auth_login").Info().Uint("user_id", user.ID).Msg("login_succeeded")
	return redirect(c, "/cars")
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	session.FromContext(c).Destroy()
	return redirect(c, "/login")
}

func sessionUser(u *models.User) *session.User {
	return &session.User{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
	}
}
