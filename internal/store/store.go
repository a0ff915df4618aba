package store

import (
	"context"
	"errors"
	"fmt"

	"archive-scraper/internal/models"
)

var (
	// ErrDuplicate is returned by Insert when the link is already stored.
	ErrDuplicate          = errors.New("movie with this link already exists")
	ErrMissingCredentials = errors.New("store credentials are not configured")
	ErrUnknownDriver      = errors.New("unknown store driver")
)

// MovieStore persists movie records. Records are created once per unique
// link and never updated or deleted.
type MovieStore interface {
	Exists(ctx context.Context, link string) (bool, error)
	Insert(ctx context.Context, movie models.Movie) error
	Count(ctx context.Context) (int, error)
	// List returns records in insertion order; limit <= 0 means all.
	List(ctx context.Context, limit int) ([]models.Movie, error)
	Close() error
}

// Save inserts movie unless a record with the same link exists. It reports
// whether a new record was written.
func Save(ctx context.Context, s MovieStore, movie models.Movie) (bool, error) {
	exists, err := s.Exists(ctx, movie.Link)
	if err != nil {
		return false, fmt.Errorf("check existing link: %w", err)
	}
	if exists {
		return false, nil
	}

	if err := s.Insert(ctx, movie); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return false, nil
		}
		return false, fmt.Errorf("insert movie: %w", err)
	}
	return true, nil
}
