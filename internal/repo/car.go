package repo

import (
	"context"
	"strings"

	"github.com/Skotchmaster/car_rental/internal/models"
)

var carColumns = []string{
	"car_model", "car_type", "rental_rate", "rental_term", "availability",
	"available_from", "available_to", "pickup_location", "image",
}

func (r *GormRepo) GetCar(ctx context.Context, id uint) (*models.Car, error) {
	var car models.Car
	if err := r.DB.WithContext(ctx).First(&car, id).Error; err != nil {
		return nil, err
	}
	return &car, nil
}

func (r *GormRepo) ListCars(ctx context.Context, offset, limit int) (int64, []models.Car, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Car{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var cars []models.Car
	if err := r.DB.WithContext(ctx).Model(&models.Car{}).Order(`"carId" ASC`).Offset(offset).Limit(limit).Find(&cars).Error; err != nil {
		return 0, nil, err
	}
	return total, cars, nil
}

// AllCars returns every car ordered by id.
func (r *GormRepo) AllCars(ctx context.Context) ([]models.Car, error) {
	cars := make([]models.Car, 0)
	if err := r.DB.WithContext(ctx).Order(`"carId" ASC`).Find(&cars).Error; err != nil {
		return nil, err
	}
	return cars, nil
}

func (r *GormRepo) CreateCar(ctx context.Context, car *models.Car) error {
	return r.DB.WithContext(ctx).Create(car).Error
}

// UpdateCar writes every column of car, zero values included, to the row with car.ID.
func (r *GormRepo) UpdateCar(ctx context.Context, car *models.Car) error {
	res := r.DB.WithContext(ctx).Model(&models.Car{ID: car.ID}).Select(carColumns).Updates(car)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepo) DeleteCar(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Car{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SearchAvailableCars matches term as a case-insensitive substring of the
// model or type of available cars.
func (r *GormRepo) SearchAvailableCars(ctx context.Context, term string) ([]models.Car, error) {
	pattern := "%" + escapeLike(strings.ToLower(term)) + "%"

	cars := make([]models.Car, 0)
	if err := r.DB.WithContext(ctx).
		Where(`(LOWER(car_model) LIKE ? ESCAPE '\' OR LOWER(car_type) LIKE ? ESCAPE '\') AND availability = ?`, pattern, pattern, true).
		Order(`"carId" ASC`).
		Find(&cars).Error; err != nil {
		return nil, err
	}
	return cars, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
