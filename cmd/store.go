package main

import (
	"context"
	"fmt"
	"strings"

	"archive-scraper/internal/config"
	"archive-scraper/internal/store"
	"archive-scraper/internal/store/sqlstore"
	"archive-scraper/internal/store/supabase"

	"github.com/rs/zerolog"
)

func openStore(ctx context.Context, c config.StoreConfig, log zerolog.Logger) (store.MovieStore, error) {
	log = log.With().Str("component", "store").Logger()

	var (
		s   store.MovieStore
		err error
	)
	switch strings.ToLower(c.Driver) {
	case "supabase":
		s, err = supabase.New(supabase.Options{
			URL:     c.SupabaseURL,
			Key:     c.SupabaseKey,
			Table:   c.Table,
			Timeout: c.Timeout,
		}, log)
	case "postgres":
		s, err = sqlstore.Open(ctx, sqlstore.Postgres, c.DatabaseURL, log)
	case "sqlite":
		s, err = sqlstore.Open(ctx, sqlstore.SQLite, c.SQLitePath, log)
	case "memory":
		s = store.NewMemory()
	default:
		err = fmt.Errorf("%w: %q", store.ErrUnknownDriver, c.Driver)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func closeStore(s store.MovieStore) {
	if err := s.Close(); err != nil {
		log.Warn().Err(err).Msg("closing store")
	}
}
