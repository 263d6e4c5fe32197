package repo

import (
	"context"

	"github.com/Skotchmaster/car_rental/internal/models"
)

func (r *GormRepo) ListReviews(ctx context.Context) ([]models.Review, error) {
	reviews := make([]models.Review, 0)
	if err := r.DB.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *GormRepo) CreateReview(ctx context.Context, review *models.Review) error {
	return r.DB.WithContext(ctx).Create(review).Error
}
