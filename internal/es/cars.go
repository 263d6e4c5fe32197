package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/Skotchmaster/car_rental/internal/models"
)

// searchPageSize is the hit count per request; SearchAvailableCars pages
// with search_after until the hits run out.
const searchPageSize = 100

// CarIndex mirrors the cars table into an Elasticsearch index.
type CarIndex struct {
	Client *elasticsearch.Client
	Index  string
}

func NewCarIndex(client *elasticsearch.Client, index string) *CarIndex {
	return &CarIndex{Client: client, Index: index}
}

func (x *CarIndex) IndexCar(ctx context.Context, car *models.Car) error {
	body, err := json.Marshal(car)
	if err != nil {
		return fmt.Errorf("es: encode car: %w", err)
	}
	res, err := x.Client.Index(
		x.Index,
		bytes.NewReader(body),
		x.Client.Index.WithContext(ctx),
		x.Client.Index.WithDocumentID(strconv.FormatUint(uint64(car.ID), 10)),
		x.Client.Index.WithRefresh("true"),
	)
	if err != nil {
		return fmt.Errorf("es: index car %d: %w", car.ID, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError("index car", res.StatusCode, res.Body)
	}
	return nil
}

func (x *CarIndex) DeleteCar(ctx context.Context, id uint) error {
	res, err := x.Client.Delete(
		x.Index,
		strconv.FormatUint(uint64(id), 10),
		x.Client.Delete.WithContext(ctx),
		x.Client.Delete.WithRefresh("true"),
	)
	if err != nil {
		return fmt.Errorf("es: delete car %d: %w", id, err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return responseError("delete car", res.StatusCode, res.Body)
	}
	return nil
}

// Reset deletes the whole index. A missing index is not an error; the next
// IndexCar creates it again.
func (x *CarIndex) Reset(ctx context.Context) error {
	res, err := x.Client.Indices.Delete(
		[]string{x.Index},
		x.Client.Indices.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("es: delete index %s: %w", x.Index, err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return responseError("delete index", res.StatusCode, res.Body)
	}
	return nil
}

// SearchAvailableCars matches term as a case-insensitive substring of
// car_model or car_type, restricted to available cars.
func (x *CarIndex) SearchAvailableCars(ctx context.Context, term string) ([]models.Car, error) {
	cars := make([]models.Car, 0)
	var after []any
	for {
		page, err := x.searchPage(ctx, term, after)
		if err != nil {
			return nil, err
		}
		cars = append(cars, page...)
		if len(page) < searchPageSize {
			return cars, nil
		}
		after = []any{page[len(page)-1].ID}
	}
}

func (x *CarIndex) searchPage(ctx context.Context, term string, after []any) ([]models.Car, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(searchBody(term, after)); err != nil {
		return nil, fmt.Errorf("es: encode query: %w", err)
	}

	res, err := x.Client.Search(
		x.Client.Search.WithContext(ctx),
		x.Client.Search.WithIndex(x.Index),
		x.Client.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("es: search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, responseError("search", res.StatusCode, res.Body)
	}

	var r struct {
		Hits struct {
			Hits []struct {
				Source models.Car `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("es: decode search: %w", err)
	}

	cars := make([]models.Car, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		cars[i] = hit.Source
	}
	return cars, nil
}

func searchBody(term string, after []any) map[string]any {
	pattern := "*" + escapeWildcard(strings.ToLower(term)) + "*"
	wildcard := func(field string) map[string]any {
		return map[string]any{
			"wildcard": map[string]any{
				field: map[string]any{"value": pattern, "case_insensitive": true},
			},
		}
	}
	body := map[string]any{
		"size": searchPageSize,
		"sort": []any{map[string]any{"carId": "asc"}},
		"query": map[string]any{
			"bool": map[string]any{
				"filter": []any{
					map[string]any{"term": map[string]any{"availability": true}},
				},
				"should": []any{
					wildcard("car_model.keyword"),
					wildcard("car_type.keyword"),
				},
				"minimum_should_match": 1,
			},
		},
	}
	if len(after) > 0 {
		body["search_after"] = after
	}
	return body
}

func escapeWildcard(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`)
	return r.Replace(s)
}

func responseError(op string, status int, body io.Reader) error {
	b, _ := io.ReadAll(body)
	return fmt.Errorf("es: %s: status %d: %s", op, status, b)
}
