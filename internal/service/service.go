package service

import (
	"context"
	"errors"

	"github.com/Skotchmaster/car_rental/internal/logging"
	"github.com/Skotchmaster/car_rental/internal/models"
	"github.com/Skotchmaster/car_rental/internal/mykafka"
)

var (
	ErrDuplicateEmail     = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrCarNotFound        = errors.New("car not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmptyReviewMessage = errors.New("message cannot be empty")
	ErrValidation         = errors.New("validation failed")
)

type UserRepo interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	EmailTaken(ctx context.Context, email string) (bool, error)
	CreateUser(ctx context.Context, u *models.User) error
	ListUsers(ctx context.Context) ([]models.User, error)
	SetUserRole(ctx context.Context, id uint, role string) error
}

type CarLookup interface {
	GetCar(ctx context.Context, id uint) (*models.Car, error)
}

type CarRepo interface {
	CarLookup
	ListCars(ctx context.Context, offset, limit int) (int64, []models.Car, error)
	AllCars(ctx context.Context) ([]models.Car, error)
	CreateCar(ctx context.Context, car *models.Car) error
	UpdateCar(ctx context.Context, car *models.Car) error
	DeleteCar(ctx context.Context, id uint) error
	SearchAvailableCars(ctx context.Context, term string) ([]models.Car, error)
}

// CarIndex is the optional search mirror of the cars table.
type CarIndex interface {
	// Reset drops every indexed document.
	Reset(ctx context.Context) error
	IndexCar(ctx context.Context, car *models.Car) error
	DeleteCar(ctx context.Context, id uint) error
	SearchAvailableCars(ctx context.Context, term string) ([]models.Car, error)
}

type ReviewRepo interface {
	ListReviews(ctx context.Context) ([]models.Review, error)
	CreateReview(ctx context.Context, review *models.Review) error
}

// publish sends an event without failing the caller; delivery errors are logged.
func publish(ctx context.Context, p mykafka.Publisher, topic, key string, event any) {
	if p == nil {
		return
	}
	if err := p.PublishEvent(ctx, topic, key, event); err != nil {
		logging.With(ctx, "topic", topic).Warn().Err(err).Msg("event_publish_failed")
	}
}
