package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Skotchmaster/car_rental/internal/models"
)

type ReviewService struct {
	Reviews ReviewRepo
}

func NewReviewService(reviews ReviewRepo) *ReviewService {
	return &ReviewService{Reviews: reviews}
}

func (s *ReviewService) List(ctx context.Context) ([]models.Review, error) {
	reviews, err := s.Reviews.ListReviews(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}

func (s *ReviewService) Submit(ctx context.Context, username, message string) (*models.Review, error) {
	if strings.TrimSpace(message) == "" {
		return nil, ErrEmptyReviewMessage
	}
	review := models.Review{Username: username, Message: message}
	if err := s.Reviews.CreateReview(ctx, &review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}
	return &review, nil
}
