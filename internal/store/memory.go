package store

import (
	"context"
	"sync"

	"archive-scraper/internal/models"
)

// Memory keeps records in process. It backs dry runs.
type Memory struct {
	mu     sync.Mutex
	movies []models.Movie
	links  map[string]struct{}
}

var _ MovieStore = (*Memory)(nil)

func NewMemory(seed ...models.Movie) *Memory {
	m := &Memory{links: make(map[string]struct{})}
	for _, movie := range seed {
		_ = m.Insert(context.Background(), movie)
	}
	return m
}

func (m *Memory) Exists(ctx context.Context, link string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.links[link]
	return ok, nil
}

func (m *Memory) Insert(ctx context.Context, movie models.Movie) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.links[movie.Link]; ok {
		return ErrDuplicate
	}
	movie.ID = int64(len(m.movies) + 1)
	m.movies = append(m.movies, movie)
	m.links[movie.Link] = struct{}{}
	return nil
}

func (m *Memory) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.movies), nil
}

func (m *Memory) List(ctx context.Context, limit int) ([]models.Movie, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.movies)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]models.Movie, n)
	copy(out, m.movies[:n])
	return out, nil
}

func (m *Memory) Close() error { return nil }
