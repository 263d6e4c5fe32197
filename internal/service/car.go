package service

import (
	"context"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/Skotchmaster/car_rental/internal/logging"
	"github.com/Skotchmaster/car_rental/internal/models"
	"github.com/Skotchmaster/car_rental/internal/mykafka"
	"github.com/Skotchmaster/car_rental/internal/repo"
	"github.com/Skotchmaster/car_rental/internal/util"
)

type CarService struct {
	Cars   CarRepo
	Index  CarIndex
	Events mykafka.Publisher

	// indexInSync is set by a successful Reindex and cleared by any failed
	// mirror write. Search only reads the index while it is set.
	indexInSync atomic.Bool
}

func NewCarService(cars CarRepo, index CarIndex, events mykafka.Publisher) *CarService {
	return &CarService{Cars: cars, Index: index, Events: events}
}

type CarPage struct {
	Cars  []models.Car
	Total int64
	Page  int
	Size  int
}

func (s *CarService) List(ctx context.Context, page, size int) (*CarPage, error) {
	offset, limit := util.Calculate(page, size)
	total, cars, err := s.Cars.ListCars(ctx, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list cars: %w", err)
	}
	if page < 1 {
		page = util.DefaultPage
	}
	return &CarPage{Cars: cars, Total: total, Page: page, Size: limit}, nil
}

func (s *CarService) Get(ctx context.Context, id uint) (*models.Car, error) {
	car, err := s.Cars.GetCar(ctx, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, ErrCarNotFound
		}
		return nil, fmt.Errorf("get car %d: %w", id, err)
	}
	return car, nil
}

func (s *CarService) Create(ctx context.Context, car *models.Car) error {
	if err := s.Cars.CreateCar(ctx, car); err != nil {
		return fmt.Errorf("create car: %w", err)
	}
	s.mirror(ctx, car)
	s.changed(ctx, "car_created", car.ID)
	return nil
}

func (s *CarService) Update(ctx context.Context, car *models.Car) error {
	if err := s.Cars.UpdateCar(ctx, car); err != nil {
		if repo.IsNotFound(err) {
			return ErrCarNotFound
		}
		return fmt.Errorf("update car %d: %w", car.ID, err)
	}
	s.mirror(ctx, car)
	s.changed(ctx, "car_updated", car.ID)
	return nil
}

func (s *CarService) Delete(ctx context.Context, id uint) error {
	if err := s.Cars.DeleteCar(ctx, id); err != nil {
		if repo.IsNotFound(err) {
			return ErrCarNotFound
		}
		return fmt.Errorf("delete car %d: %w", id, err)
	}
	if s.Index != nil {
		if err := s.Index.DeleteCar(ctx, id); err != nil {
			s.indexInSync.Store(false)
			logging.With(ctx, "svc", "car.delete").Warn().Err(err).Uint("car_id", id).Msg("index_delete_failed")
		}
	}
	s.changed(ctx, "car_deleted", id)
	return nil
}

// Search matches term as a case-insensitive substring of model or type among
// available cars. The search index answers only while it holds every car;
// otherwise, or when it fails, the database answers.
func (s *CarService) Search(ctx context.Context, term string) ([]models.Car, error) {
	if s.Index != nil && s.indexInSync.Load() {
		cars, err := s.Index.SearchAvailableCars(ctx, term)
		if err == nil {
			return cars, nil
		}
		logging.With(ctx, "svc", "car.search").Warn().Err(err).Msg("index_search_failed")
	}
	cars, err := s.Cars.SearchAvailableCars(ctx, term)
	if err != nil {
		return nil, fmt.Errorf("search cars: %w", err)
	}
	return cars, nil
}

// Reindex rebuilds the search index from the cars table. Until it succeeds
// searches go to the database.
func (s *CarService) Reindex(ctx context.Context) error {
	if s.Index == nil {
		return nil
	}
	s.indexInSync.Store(false)

	cars, err := s.Cars.AllCars(ctx)
	if err != nil {
		return fmt.Errorf("reindex: load cars: %w", err)
	}
	if err := s.Index.Reset(ctx); err != nil {
		return fmt.Errorf("reindex: reset: %w", err)
	}
	for i := range cars {
		if err := s.Index.IndexCar(ctx, &cars[i]); err != nil {
			return fmt.Errorf("reindex: %w", err)
		}
	}

	s.indexInSync.Store(true)
	logging.With(ctx, "svc", "car.reindex").Info().Int("cars", len(cars)).Msg("index_rebuilt")
	return nil
}

// IndexInSync reports whether searches are served from the index.
func (s *CarService) IndexInSync() bool {
	return s.Index != nil && s.indexInSync.Load()
}

func (s *CarService) mirror(ctx context.Context, car *models.Car) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexCar(ctx, car); err != nil {
		s.indexInSync.Store(false)
		logging.With(ctx, "svc", "car.index").Warn().Err(err).Uint("car_id", car.ID).Msg("index_car_failed")
	}
}

func (s *CarService) changed(ctx context.Context, typ string, id uint) {
	publish(ctx, s.Events, mykafka.TopicCarEvents, strconv.FormatUint(uint64(id), 10), mykafka.CarChanged{
		Type:  typ,
		CarID: id,
		At:    time.Now().UTC(),
	})
}
