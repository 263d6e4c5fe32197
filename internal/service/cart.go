package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Skotchmaster/car_rental/internal/metrics"
	"github.com/Skotchmaster/car_rental/internal/mykafka"
	"github.com/Skotchmaster/car_rental/internal/repo"
	"github.com/Skotchmaster/car_rental/internal/session"
)

// CartService manipulates the rental cart kept in the session. Nothing here
// touches the database except the car lookup on add.
type CartService struct {
	Cars   CarLookup
	Events mykafka.Publisher
}

func NewCartService(cars CarLookup, events mykafka.Publisher) *CartService {
	return &CartService{Cars: cars, Events: events}
}

func (s *CartService) AddLine(ctx context.Context, sess *session.Session, carID uint, daysRaw string) (*session.CartLine, error) {
	car, err := s.Cars.GetCar(ctx, carID)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, ErrCarNotFound
		}
		return nil, fmt.Errorf("get car %d: %w", carID, err)
	}

	line := session.CartLine{
		CarID: car.ID,
		Brand: Brand(car.CarModel),
		Model: car.CarModel,
		Rate:  car.RentalRate,
		Days:  ParseDays(daysRaw),
		Image: car.Image,
	}
	sess.AppendLine(line)
	metrics.CartOperationsTotal.WithLabelValues("add").Inc()
	return &line, nil
}

// RemoveLine drops the line at the given position. A malformed or
// out-of-range index leaves the cart as it is.
func (s *CartService) RemoveLine(sess *session.Session, indexRaw string) bool {
	i, ok := leadingInt(indexRaw)
	if !ok {
		return false
	}
	if !sess.RemoveLine(i) {
		return false
	}
	metrics.CartOperationsTotal.WithLabelValues("remove").Inc()
	return true
}

// Checkout empties the cart unconditionally. No booking is persisted.
func (s *CartService) Checkout(ctx context.Context, sess *session.Session) {
	ev := mykafka.CartCheckedOut{
		Type:  "cart_checked_out",
		Lines: make([]mykafka.CartLineEvent, 0, len(sess.Cart)),
		At:    time.Now().UTC(),
	}
	if sess.User != nil {
		ev.UserID = sess.User.ID
	}
	for _, line := range sess.Cart {
		ev.Lines = append(ev.Lines, mykafka.CartLineEvent{CarID: line.CarID, Days: line.Days, Rate: line.Rate})
	}

	sess.ClearCart()
	metrics.CartOperationsTotal.WithLabelValues("checkout").Inc()
	publish(ctx, s.Events, mykafka.TopicCartEvents, strconv.FormatUint(uint64(ev.UserID), 10), ev)
}

// Brand is the first whitespace-separated word of a car model.
func Brand(model string) string {
	fields := strings.Fields(model)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// ParseDays reads a rental length from the leading integer of raw, so "2.5"
// is 2 and "3abc" is 3. Anything missing, non-numeric or below 1 is 1.
func ParseDays(raw string) int {
	n, ok := leadingInt(raw)
	if !ok || n < 1 {
		return 1
	}
	return n
}

// leadingInt parses an optionally signed run of digits at the start of s,
// after leading whitespace, and ignores whatever follows it.
func leadingInt(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t\r\n")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
