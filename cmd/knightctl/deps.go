package main

import (
	"context"
	"fmt"

	knightPostgres "knights/internal/knight/store/postgres"
	"knights/internal/platform/postgres"
)

// withStore opens the database named by DATABASE_URL and closes it after fn.
func withStore(ctx context.Context, fn func(s *knightPostgres.PostgresStore) error) error {
	cfg, err := postgres.ConfigFromEnv()
	if err != nil {
		return fmt.Errorf("load database config: %w", err)
	}
	db, err := postgres.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	return fn(knightPostgres.New(db))
}
