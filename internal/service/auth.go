package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Skotchmaster/car_rental/internal/hash"
	"github.com/Skotchmaster/car_rental/internal/logging"
	"github.com/Skotchmaster/car_rental/internal/metrics"
	"github.com/Skotchmaster/car_rental/internal/models"
	"github.com/Skotchmaster/car_rental/internal/mykafka"
	"github.com/Skotchmaster/car_rental/internal/repo"
)

type AuthService struct {
	Users  UserRepo
	Events mykafka.Publisher
}

func NewAuthService(users UserRepo, events mykafka.Publisher) *AuthService {
	return &AuthService{Users: users, Events: events}
}

// Register creates a user with role "user". The role is never taken from input.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	l := logging.With(ctx, "svc", "auth.register")

	taken, err := s.Users.EmailTaken(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if taken {
		metrics.RegistrationsTotal.WithLabelValues("duplicate").Inc()
		l.Warn().Int("status", 409).Str("reason", "email already in use").Msg("register_failed")
		return nil, ErrDuplicateEmail
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: pwHash,
		Role:         models.RoleUser,
	}
	if err := s.Users.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			metrics.RegistrationsTotal.WithLabelValues("duplicate").Inc()
			l.Warn().Int("status", 409).Str("reason", "unique index").Msg("register_failed")
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	l.Info().Uint("user_id", user.ID).Msg("user_registered")
	publish(ctx, s.Events, mykafka.TopicUserEvents, strconv.FormatUint(uint64(user.ID), 10), mykafka.UserRegistered{
		Type:     "user_registered",
		UserID:   user.ID,
		Username: user.Username,
		At:       time.Now().UTC(),
	})
	return &user, nil
}

// Login returns ErrInvalidCredentials for an unknown email and for a wrong
// password alike.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, error) {
	l := logging.With(ctx, "svc", "auth.login")

	user, err := s.Users.FindUserByEmail(ctx, email)
	if err != nil {
		if repo.IsNotFound(err) {
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
			l.Warn().Int("status", 401).Str("reason", "unknown email").Msg("login_failed")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !hash.CheckPassword(user.PasswordHash, password) {
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		l.Warn().Int("status", 401).Str("reason", "wrong password").Msg("login_failed")
		return nil, ErrInvalidCredentials
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return user, nil
}

func (s *AuthService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.Users.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *AuthService) Promote(ctx context.Context, id uint) error {
	if err := s.Users.SetUserRole(ctx, id, models.RoleAdmin); err != nil {
		if repo.IsNotFound(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("promote user %d: %w", id, err)
	}
	logging.With(ctx, "svc", "auth.promote").Info().Uint("user_id", id).Msg("user_promoted")
	return nil
}

// BootstrapAdmin promotes the account registered under email, if there is one.
func (s *AuthService) BootstrapAdmin(ctx context.Context, email string) error {
	if email == "" {
		return nil
	}
	l := logging.With(ctx, "svc", "auth.bootstrap")

	user, err := s.Users.FindUserByEmail(ctx, email)
	if err != nil {
		if repo.IsNotFound(err) {
			l.Warn().Str("email", email).Msg("bootstrap_admin_not_registered")
			return nil
		}
		return fmt.Errorf("find bootstrap admin: %w", err)
	}
	if user.Role == models.RoleAdmin {
		return nil
	}
	return s.Promote(ctx, user.ID)
}
