package es

import (
	"context"
	"fmt"
	"io"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/Skotchmaster/car_rental/internal/config"
	"github.com/Skotchmaster/car_rental/internal/logging"
)

func NewClient(ctx context.Context, cfg config.ESConfig) (*elasticsearch.Client, error) {
	l := logging.With(ctx, "component", "elasticsearch")
	l.Info().Str("url", cfg.URL).Msg("es_connecting")

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.User,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("es: new client: %w", err)
	}

	res, err := client.Info(client.Info.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("es: info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("es: info: %s: %s", res.Status(), body)
	}

	l.Info().Msg("es_connected")
	return client, nil
}
