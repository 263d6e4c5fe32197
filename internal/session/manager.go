package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/car_rental/internal/logging"
)

const (
	contextKey = "session"
	managerKey = "session_manager"
)

type Manager struct {
	Store      Store
	TTL        time.Duration
	CookieName string
	Secure     bool
}

func NewManager(store Store, ttl time.Duration, cookieName string, secure bool) *Manager {
	if cookieName == "" {
		cookieName = "sid"
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Manager{Store: store, TTL: ttl, CookieName: cookieName, Secure: secure}
}

// Middleware loads the session for the request cookie (or starts a new one)
// and commits it right before the response headers are written, unless a
// handler already did so with Commit. Expiry is sliding: every committed
// request pushes the TTL forward. A failed commit at that point can only be
// logged; handlers that report success to the user call Commit first.
func (m *Manager) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, err := m.load(c)
			if err != nil {
				return err
			}
			c.Set(contextKey, sess)
			c.Set(managerKey, m)

			c.Response().Before(func() {
				if sess.committed && !sess.dirty {
					return
				}
				if err := m.commit(c, sess); err != nil {
					logging.FromContext(c.Request().Context()).Error().
						Err(err).Str("handler", "session_commit").Msg("session_save_failed")
				}
			})
			return next(c)
		}
	}
}

func (m *Manager) load(c echo.Context) (*Session, error) {
	ck, err := c.Cookie(m.CookieName)
	if err != nil || ck.Value == "" {
		return New(), nil
	}
	sess, err := m.Store.Load(c.Request().Context(), ck.Value)
	if errors.Is(err, ErrNotFound) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return sess, nil
}

func (m *Manager) commit(c echo.Context, s *Session) error {
	ctx := c.Request().Context()

	if s.destroyed {
		if !s.isNew {
			if err := m.Store.Delete(ctx, s.Token); err != nil {
				return err
			}
		}
		if s.oldToken != "" {
			if err := m.Store.Delete(ctx, s.oldToken); err != nil {
				return err
			}
		}
		m.clearCookie(c)
		s.markCommitted()
		return nil
	}

	// An untouched new session is not worth a store entry or a cookie.
	if s.isNew && !s.dirty {
		return nil
	}

	if s.oldToken != "" {
		if err := m.Store.Delete(ctx, s.oldToken); err != nil {
			return err
		}
	}
	if err := m.Store.Save(ctx, s, m.TTL); err != nil {
		return err
	}
	m.setCookie(c, s.Token)
	s.markCommitted()
	return nil
}

// Commit writes the request session to the store now, so a store failure
// surfaces as an error before the handler answers. Without the middleware
// it does nothing.
func Commit(c echo.Context) error {
	m, ok := c.Get(managerKey).(*Manager)
	if !ok {
		return nil
	}
	if err := m.commit(c, FromContext(c)); err != nil {
		return fmt.Errorf("commit session: %w", err)
	}
	return nil
}

func (m *Manager) setCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     m.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(m.TTL.Seconds()),
	})
}

func (m *Manager) clearCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     m.CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   m.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// FromContext returns the request session. Without the middleware it hands
// back an empty throwaway session so callers never see nil.
func FromContext(c echo.Context) *Session {
	if s, ok := c.Get(contextKey).(*Session); ok && s != nil {
		return s
	}
	s := New()
	c.Set(contextKey, s)
	return s
}
