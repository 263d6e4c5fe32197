// Package session holds per-browser server-side state: the signed-in user,
// the rental cart and one-shot flash messages. A Session is loaded by
// Manager.Middleware at the start of a request and written back to the
// Store just before the response headers go out.
package session

import (
	"time"

	"github.com/google/uuid"
)

const (
	FlashSuccess = "success"
	FlashError   = "error"

	roleAdmin = "admin"
)

// User is the signed-in account as stored in the session. PasswordHash is
// kept so the record matches the credential store; it is never handed to views.
type User struct {
	ID           uint   `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
	Role         string `json:"role"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == roleAdmin
}

type CartLine struct {
	CarID uint    `json:"carId"`
	Brand string  `json:"brand"`
	Model string  `json:"car_model"`
	Rate  float64 `json:"rental_rate"`
	Days  int     `json:"days"`
	Image string  `json:"image"`
}

type Session struct {
	Token     string              `json:"-"`
	User      *User               `json:"user,omitempty"`
	Cart      []CartLine          `json:"cart"`
	Flashes   map[string][]string `json:"flashes,omitempty"`
	CreatedAt time.Time           `json:"created_at"`

	isNew     bool
	dirty     bool
	destroyed bool
	committed bool
	oldToken  string
}

func New() *Session {
	return &Session{
		Token:     newToken(),
		Cart:      []CartLine{},
		CreatedAt: time.Now().UTC(),
		isNew:     true,
	}
}

func newToken() string { return uuid.NewString() }

func (s *Session) Authenticated() bool {
	return s.User != nil
}

func (s *Session) IsAdmin() bool {
	return s.User.IsAdmin()
}

// SetUser signs u in and rotates the token so a pre-login token cannot be reused.
func (s *Session) SetUser(u *User) {
	s.User = u
	s.Regenerate()
}

func (s *Session) Regenerate() {
	if !s.isNew && s.oldToken == "" {
		s.oldToken = s.Token
	}
	s.Token = newToken()
	s.dirty = true
}

// Destroy drops the session from the store and clears the cookie on commit.
func (s *Session) Destroy() {
	s.destroyed = true
	s.dirty = true
	s.User = nil
	s.Cart = []CartLine{}
	s.Flashes = nil
}

func (s *Session) Destroyed() bool { return s.destroyed }

// markCommitted records that the store now holds exactly this state.
func (s *Session) markCommitted() {
	s.committed = true
	s.dirty = false
	s.isNew = false
	s.oldToken = ""
}

func (s *Session) AddFlash(kind, msg string) {
	if s.Flashes == nil {
		s.Flashes = make(map[string][]string)
	}
	s.Flashes[kind] = append(s.Flashes[kind], msg)
	s.dirty = true
}

// PopFlashes returns and clears the queued messages of kind.
func (s *Session) PopFlashes(kind string) []string {
	msgs := s.Flashes[kind]
	if len(msgs) == 0 {
		return nil
	}
	delete(s.Flashes, kind)
	s.dirty = true
	return msgs
}

func (s *Session) AppendLine(line CartLine) {
	s.Cart = append(s.Cart, line)
	s.dirty = true
}

// RemoveLine deletes the line at index i and reports whether anything was removed.
func (s *Session) RemoveLine(i int) bool {
	if i < 0 || i >= len(s.Cart) {
		return false
	}
	s.Cart = append(s.Cart[:i], s.Cart[i+1:]...)
	s.dirty = true
	return true
}

func (s *Session) ClearCart() {
	s.Cart = []CartLine{}
	s.dirty = true
}
