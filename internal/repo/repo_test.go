package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/car_rental/internal/models"
	"github.com/Skotchmaster/car_rental/internal/testutil"
)

func newTestRepo(t *testing.T) *GormRepo {
	return &GormRepo{DB: testutil.InitTestDB(t)}
}

func seedCars(t *testing.T, r *GormRepo) {
	t.Helper()
	cars := []models.Car{
		{CarModel: "Toyota Corolla", CarType: "Sedan", RentalRate: 50, Availability: true},
		{CarModel: "Honda CR-V", CarType: "SUV", RentalRate: 70, Availability: true},
		{CarModel: "Toyota Hilux", CarType: "Pickup", RentalRate: 90, Availability: false},
		{CarModel: "Mini 100%", CarType: "Hatch", RentalRate: 40, Availability: true},
	}
	for i := range cars {
		require.NoError(t, r.CreateCar(context.Background(), &cars[i]))
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, r.CreateUser(ctx, &models.User{Username: "a", Email: "a@x.io", PasswordHash: "h", Role: models.RoleUser}))
	err := r.CreateUser(ctx, &models.User{Username: "b", Email: "a@x.io", PasswordHash: "h", Role: models.RoleUser})
	require.ErrorIs(t, err, ErrDuplicate)

	taken, err := r.EmailTaken(ctx, "a@x.io")
	require.NoError(t, err)
	assert.True(t, taken)

	users, err := r.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestSetUserRole(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	u := models.User{Username: "a", Email: "a@x.io", PasswordHash: "h", Role: models.RoleUser}
	require.NoError(t, r.CreateUser(ctx, &u))
	require.NoError(t, r.SetUserRole(ctx, u.ID, models.RoleAdmin))

	got, err := r.FindUserByEmail(ctx, "a@x.io")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, got.Role)

	assert.True(t, IsNotFound(r.SetUserRole(ctx, 999, models.RoleAdmin)))
}

func TestSearchAvailableCars(t *testing.T) {
	r := newTestRepo(t)
	seedCars(t, r)
	ctx := context.Background()

	tests := []struct {
		term string
		want []string
	}{
		{term: "toyota", want: []string{"Toyota Corolla"}},
		{term: "SUV", want: []string{"Honda CR-V"}},
		{term: "o", want: []string{"Toyota Corolla", "Honda CR-V"}},
		{term: "100%", want: []string{"Mini 100%"}},
		{term: "0%", want: []string{"Mini 100%"}},
		{term: "_", want: []string{}},
		{term: "tesla", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			cars, err := r.SearchAvailableCars(ctx, tt.term)
			require.NoError(t, err)
			got := make([]string, 0, len(cars))
			for _, c := range cars {
				got = append(got, c.CarModel)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUpdateCar_WritesZeroValues(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	car := models.Car{CarModel: "Ford Focus", CarType: "Hatch", RentalRate: 30, Availability: true, Image: "a.png"}
	require.NoError(t, r.CreateCar(ctx, &car))

	car.Availability = false
	car.RentalRate = 0
	car.CarModel = "Ford Fiesta"
	require.NoError(t, r.UpdateCar(ctx, &car))

	got, err := r.GetCar(ctx, car.ID)
	require.NoError(t, err)
	assert.False(t, got.Availability)
	assert.Zero(t, got.RentalRate)
	assert.Equal(t, "Ford Fiesta", got.CarModel)

	missing := models.Car{ID: 404, CarModel: "Ghost"}
	assert.True(t, IsNotFound(r.UpdateCar(ctx, &missing)))
}

func TestDeleteCar(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	car := models.Car{CarModel: "Ford Focus"}
	require.NoError(t, r.CreateCar(ctx, &car))
	require.NoError(t, r.DeleteCar(ctx, car.ID))

	_, err := r.GetCar(ctx, car.ID)
	assert.True(t, IsNotFound(err))
	assert.True(t, IsNotFound(r.DeleteCar(ctx, car.ID)))
}

func TestListCars_Paginates(t *testing.T) {
	r := newTestRepo(t)
	seedCars(t, r)

	total, cars, err := r.ListCars(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
	require.Len(t, cars, 2)
	assert.Equal(t, "Honda CR-V", cars[0].CarModel)
}

func TestReviews_NewestFirst(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, r.CreateReview(ctx, &models.Review{Username: "a", Message: "first"}))
	require.NoError(t, r.CreateReview(ctx, &models.Review{Username: "b", Message: "second"}))

	reviews, err := r.ListReviews(ctx)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, "second", reviews[0].Message)
}
