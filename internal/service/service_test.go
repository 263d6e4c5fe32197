package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/car_rental/internal/models"
	"github.com/Skotchmaster/car_rental/internal/mykafka"
	"github.com/Skotchmaster/car_rental/internal/repo"
	"github.com/Skotchmaster/car_rental/internal/session"
	"github.com/Skotchmaster/car_rental/internal/testutil"
)

type fixture struct {
	repo    *repo.GormRepo
	events  *mykafka.Recorder
	auth    *AuthService
	cars    *CarService
	cart    *CartService
	reviews *ReviewService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	r := &repo.GormRepo{DB: testutil.InitTestDB(t)}
	ev := &mykafka.Recorder{}
	return &fixture{
		repo:    r,
		events:  ev,
		auth:    NewAuthService(r, ev),
		cars:    NewCarService(r, nil, ev),
		cart:    NewCartService(r, ev),
		reviews: NewReviewService(r),
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.auth.Register(ctx, "alice", "a@x.io", "secret")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, u.Role)
	assert.NotEqual(t, "secret", u.PasswordHash)

	_, err = f.auth.Register(ctx, "alice2", "a@x.io", "other")
	require.ErrorIs(t, err, ErrDuplicateEmail)

	users, err := f.auth.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	evs := f.events.Events()
	require.Len(t, evs, 1)
	assert.Equal(t, mykafka.TopicUserEvents, evs[0].Topic)
}

type racingUsers struct {
	*repo.GormRepo
}

// EmailTaken always misses, as if a concurrent insert landed after the check.
func (racingUsers) EmailTaken(context.Context, string) (bool, error) { return false, nil }

func TestRegister_UniqueIndexCatchesRace(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewAuthService(racingUsers{f.repo}, nil)

	_, err := svc.Register(ctx, "a", "a@x.io", "pw")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "b", "a@x.io", "pw")
	require.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestLogin_SameErrorForUnknownEmailAndWrongPassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.auth.Register(ctx, "alice", "a@x.io", "secret")
	require.NoError(t, err)

	_, errUnknown := f.auth.Login(ctx, "nobody@x.io", "secret")
	_, errWrong := f.auth.Login(ctx, "a@x.io", "wrong")

	require.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	require.ErrorIs(t, errWrong, ErrInvalidCredentials)
	assert.Equal(t, errUnknown.Error(), errWrong.Error())

	u, err := f.auth.Login(ctx, "a@x.io", "secret")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
}

func TestPromoteAndBootstrap(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.auth.Register(ctx, "root", "root@x.io", "pw")
	require.NoError(t, err)

	require.NoError(t, f.auth.BootstrapAdmin(ctx, ""))
	require.NoError(t, f.auth.BootstrapAdmin(ctx, "missing@x.io"))
	require.NoError(t, f.auth.BootstrapAdmin(ctx, "root@x.io"))

	got, err := f.repo.FindUserByEmail(ctx, "root@x.io")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, got.Role)

	require.NoError(t, f.auth.Promote(ctx, u.ID))
	assert.ErrorIs(t, f.auth.Promote(ctx, 999), ErrUserNotFound)
}

func seedCar(t *testing.T, f *fixture, model string, available bool) *models.Car {
	t.Helper()
	car := &models.Car{CarModel: model, CarType: "Sedan", RentalRate: 45.5, Availability: available, Image: "c.png"}
	require.NoError(t, f.cars.Create(context.Background(), car))
	return car
}

func TestCarService_CRUD(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	car := seedCar(t, f, "Toyota Corolla", true)

	got, err := f.cars.Get(ctx, car.ID)
	require.NoError(t, err)
	assert.Equal(t, "Toyota Corolla", got.CarModel)

	got.CarModel = "Toyota Camry"
	got.Availability = false
	require.NoError(t, f.cars.Update(ctx, got))

	page, err := f.cars.List(ctx, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
	assert.Equal(t, "Toyota Camry", page.Cars[0].CarModel)

	require.NoError(t, f.cars.Delete(ctx, car.ID))
	_, err = f.cars.Get(ctx, car.ID)
	assert.ErrorIs(t, err, ErrCarNotFound)
	assert.ErrorIs(t, f.cars.Delete(ctx, car.ID), ErrCarNotFound)
	assert.ErrorIs(t, f.cars.Update(ctx, &models.Car{ID: car.ID}), ErrCarNotFound)

	types := []string{}
	for _, e := range f.events.Events() {
		types = append(types, e.Event.(mykafka.CarChanged).Type)
	}
	assert.Equal(t, []string{"car_created", "car_updated", "car_deleted"}, types)
}

type failingIndex struct{}

func (failingIndex) Reset(context.Context) error                 { return errors.New("down") }
func (failingIndex) IndexCar(context.Context, *models.Car) error { return errors.New("down") }
func (failingIndex) DeleteCar(context.Context, uint) error       { return errors.New("down") }
func (failingIndex) SearchAvailableCars(context.Context, string) ([]models.Car, error) {
	return nil, errors.New("down")
}

func TestCarService_SearchFallsBackToDatabase(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedCar(t, f, "Toyota Corolla", true)
	seedCar(t, f, "Toyota Hilux", false)

	svc := NewCarService(f.repo, failingIndex{}, nil)
	require.Error(t, svc.Reindex(ctx))
	assert.False(t, svc.IndexInSync())

	cars, err := svc.Search(ctx, "TOYOTA")
	require.NoError(t, err)
	require.Len(t, cars, 1)
	assert.Equal(t, "Toyota Corolla", cars[0].CarModel)

	cars, err = svc.Search(ctx, "tesla")
	require.NoError(t, err)
	assert.Empty(t, cars)
}

// memIndex is an in-process search mirror with the same matching rules as
// the database query. failWrites makes IndexCar and DeleteCar fail.
type memIndex struct {
	docs       map[uint]models.Car
	searches   int
	failWrites bool
}

func newMemIndex() *memIndex { return &memIndex{docs: map[uint]models.Car{}} }

func (m *memIndex) Reset(context.Context) error {
	m.docs = map[uint]models.Car{}
	return nil
}

func (m *memIndex) IndexCar(_ context.Context, car *models.Car) error {
	if m.failWrites {
		return errors.New("index write failed")
	}
	m.docs[car.ID] = *car
	return nil
}

func (m *memIndex) DeleteCar(_ context.Context, id uint) error {
	if m.failWrites {
		return errors.New("index write failed")
	}
	delete(m.docs, id)
	return nil
}

func (m *memIndex) SearchAvailableCars(_ context.Context, term string) ([]models.Car, error) {
	m.searches++
	term = strings.ToLower(term)
	cars := make([]models.Car, 0)
	for _, c := range m.docs {
		if !c.Availability {
			continue
		}
		if strings.Contains(strings.ToLower(c.CarModel), term) || strings.Contains(strings.ToLower(c.CarType), term) {
			cars = append(cars, c)
		}
	}
	sort.Slice(cars, func(i, j int) bool { return cars[i].ID < cars[j].ID })
	return cars, nil
}

func TestCarService_ReindexCoversCarsCreatedBeforeStartup(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, model := range []string{"Toyota Corolla", "Toyota Yaris", "Honda Civic"} {
		require.NoError(t, f.repo.CreateCar(ctx, &models.Car{CarModel: model, CarType: "Sedan", Availability: true}))
	}

	idx := newMemIndex()
	svc := NewCarService(f.repo, idx, nil)

	require.NoError(t, svc.Create(ctx, &models.Car{CarModel: "Toyota Supra", CarType: "Coupe", Availability: true}))
	cars, err := svc.Search(ctx, "toyota")
	require.NoError(t, err)
	assert.Len(t, cars, 3)
	assert.Zero(t, idx.searches)

	require.NoError(t, svc.Reindex(ctx))
	assert.True(t, svc.IndexInSync())
	assert.Len(t, idx.docs, 4)

	cars, err = svc.Search(ctx, "toyota")
	require.NoError(t, err)
	assert.Len(t, cars, 3)
	assert.Equal(t, 1, idx.searches)
}

func TestCarService_FailedMirrorWriteFallsBackToDatabase(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	car := seedCar(t, f, "Toyota Corolla", true)

	idx := newMemIndex()
	svc := NewCarService(f.repo, idx, nil)
	require.NoError(t, svc.Reindex(ctx))

	idx.failWrites = true
	car.Availability = false
	require.NoError(t, svc.Update(ctx, car))
	assert.False(t, svc.IndexInSync())

	cars, err := svc.Search(ctx, "corolla")
	require.NoError(t, err)
	assert.Empty(t, cars)
	assert.Zero(t, idx.searches)

	idx.failWrites = false
	require.NoError(t, svc.Reindex(ctx))
	cars, err = svc.Search(ctx, "corolla")
	require.NoError(t, err)
	assert.Empty(t, cars)
	assert.Equal(t, 1, idx.searches)
}

func TestCart_AddThenRemove(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	car := seedCar(t, f, "Honda  Civic Type R", true)
	sess := session.New()

	line, err := f.cart.AddLine(ctx, sess, car.ID, "3")
	require.NoError(t, err)
	assert.Equal(t, "Honda", line.Brand)
	assert.Equal(t, 3, line.Days)
	assert.Equal(t, 45.5, line.Rate)
	require.Len(t, sess.Cart, 1)

	assert.False(t, f.cart.RemoveLine(sess, "1"))
	assert.False(t, f.cart.RemoveLine(sess, "abc"))
	assert.False(t, f.cart.RemoveLine(sess, ""))
	require.Len(t, sess.Cart, 1)

	assert.True(t, f.cart.RemoveLine(sess, "0"))
	assert.Empty(t, sess.Cart)
}

func TestCart_AddMissingCar(t *testing.T) {
	f := newFixture(t)
	sess := session.New()

	_, err := f.cart.AddLine(context.Background(), sess, 42, "2")
	require.ErrorIs(t, err, ErrCarNotFound)
	assert.Empty(t, sess.Cart)
}

func TestCart_CheckoutAlwaysEmpties(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	car := seedCar(t, f, "Ford Focus", true)
	sess := session.New()
	sess.User = &session.User{ID: 5}

	f.cart.Checkout(ctx, sess)
	assert.Empty(t, sess.Cart)

	_, err := f.cart.AddLine(ctx, sess, car.ID, "")
	require.NoError(t, err)
	_, err = f.cart.AddLine(ctx, sess, car.ID, "7")
	require.NoError(t, err)
	f.cart.Checkout(ctx, sess)
	assert.Empty(t, sess.Cart)

	evs := f.events.Events()
	last := evs[len(evs)-1].Event.(mykafka.CartCheckedOut)
	assert.Equal(t, uint(5), last.UserID)
	require.Len(t, last.Lines, 2)
	assert.Equal(t, 1, last.Lines[0].Days)
	assert.Equal(t, 7, last.Lines[1].Days)
}

func TestParseDays(t *testing.T) {
	tests := map[string]int{
		"": 1, "abc": 1, "0": 1, "-4": 1, "1": 1, " 5 ": 5, "30": 30,
		"2.5": 2, "3abc": 3, "+4": 4, "x3": 1, "-": 1, "99999999999999999999": 1,
	}
	for raw, want := range tests {
		assert.Equal(t, want, ParseDays(raw), "raw=%q", raw)
	}
}

func TestCart_RemoveReadsLeadingIndex(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sess := session.New()
	for _, model := range []string{"Toyota Corolla", "Honda Civic", "Ford Focus"} {
		car := seedCar(t, f, model, true)
		_, err := f.cart.AddLine(ctx, sess, car.ID, "1")
		require.NoError(t, err)
	}

	assert.True(t, f.cart.RemoveLine(sess, "1abc"))
	require.Len(t, sess.Cart, 2)
	assert.Equal(t, "Toyota", sess.Cart[0].Brand)
	assert.Equal(t, "Ford", sess.Cart[1].Brand)

	assert.False(t, f.cart.RemoveLine(sess, "-1"))
	assert.False(t, f.cart.RemoveLine(sess, "2.0"))
	require.Len(t, sess.Cart, 2)
}

func TestBrand(t *testing.T) {
	assert.Equal(t, "Toyota", Brand("Toyota Corolla"))
	assert.Equal(t, "Tesla", Brand("  Tesla\tModel 3"))
	assert.Equal(t, "", Brand("   "))
}

func TestReviews(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.reviews.Submit(ctx, "alice", "   \n\t")
	require.ErrorIs(t, err, ErrEmptyReviewMessage)

	_, err = f.reviews.Submit(ctx, "alice", "first")
	require.NoError(t, err)
	_, err = f.reviews.Submit(ctx, "bob", "second")
	require.NoError(t, err)

	list, err := f.reviews.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Message)
	assert.Equal(t, "bob", list[0].Username)
}
