package store

import (
	"context"
	"errors"
	"testing"

	"archive-scraper/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveSkipsExistingLinks(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	movie := models.Movie{Title: "Movie", Link: "https://links.example.blog/archives/1"}

	inserted, err := Save(ctx, s, movie)
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = Save(ctx, s, models.Movie{Title: "Renamed", Link: movie.Link})
	require.NoError(t, err)
	assert.False(t, inserted)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	all, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Movie", all[0].Title, "existing records are never updated")
}

// racyStore reports a link as absent and then loses the insert race.
type racyStore struct {
	*Memory
}

func (r racyStore) Exists(ctx context.Context, link string) (bool, error) {
	return false, nil
}

func TestSaveTreatsDuplicateInsertAsExisting(t *testing.T) {
	ctx := context.Background()
	s := racyStore{NewMemory(models.Movie{Title: "A", Link: "https://x/1"})}

	inserted, err := Save(ctx, s, models.Movie{Title: "A", Link: "https://x/1"})
	require.NoError(t, err)
	assert.False(t, inserted)
}

type failingStore struct {
	*Memory
	existsErr error
	insertErr error
}

func (f failingStore) Exists(ctx context.Context, link string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	return f.Memory.Exists(ctx, link)
}

func (f failingStore) Insert(ctx context.Context, movie models.Movie) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	return f.Memory.Insert(ctx, movie)
}

func TestSavePropagatesErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")

	_, err := Save(ctx, failingStore{Memory: NewMemory(), existsErr: boom}, models.Movie{Link: "https://x/1"})
	assert.ErrorIs(t, err, boom)

	_, err = Save(ctx, failingStore{Memory: NewMemory(), insertErr: boom}, models.Movie{Link: "https://x/1"})
	assert.ErrorIs(t, err, boom)
}

func TestMemoryList(t *testing.T) {
	ctx := context.Background()
	s := NewMemory(
		models.Movie{Title: "A", Link: "https://x/1"},
		models.Movie{Title: "B", Link: "https://x/2"},
		models.Movie{Title: "C", Link: "https://x/3"},
	)

	first, err := s.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, int64(1), first[0].ID)
	assert.Equal(t, "B", first[1].Title)

	assert.ErrorIs(t, s.Insert(ctx, models.Movie{Link: "https://x/2"}), ErrDuplicate)
}
