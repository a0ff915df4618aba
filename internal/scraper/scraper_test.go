package scraper

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"archive-scraper/internal/archive"
	"archive-scraper/internal/browser/browsertest"
	"archive-scraper/internal/models"
	"archive-scraper/internal/store"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseURL = "https://links.example.blog"

var period = archive.Period{Year: "2026", Month: "01"}

func entry(path, title string) string {
	return fmt.Sprintf(`<div><article><div><div><div><header><h1><a href="%s">%s</a></h1></header></div></div></div></article></div>`, path, title)
}

func listing(entries ...string) browsertest.Element {
	return browsertest.Element{HTML: "<div>" + strings.Join(entries, "") + "</div>"}
}

func TestRunWalksAllPages(t *testing.T) {
	month := archive.MonthURL(baseURL, period)
	page := browsertest.New().
		Add(month, archive.MainContainerXPath, listing(entry("/archives/1", "One"), entry("/archives/2", "Two"))).
		Add(month, archive.LastPageXPaths[0], browsertest.Element{Text: "PAGE\n3"}).
		Add(month+"/page/2", archive.MainContainerXPath, listing(entry("/archives/3", "Three"), `<div>ad</div>`)).
		Add(month+"/page/3", archive.MainContainerXPath, listing(entry("/archives/1", "One again")))

	movies := store.NewMemory()
	s := New(page, movies, baseURL, zerolog.Nop())

	summary, err := s.Run(context.Background(), period)
	require.NoError(t, err)

	assert.Equal(t, []string{month, month + "/page/2", month + "/page/3"}, page.Visited)
	assert.Equal(t, 3, summary.Pages)
	assert.Equal(t, 3, summary.Scraped)
	assert.Equal(t, 4, summary.Found)
	assert.Equal(t, 3, summary.Inserted)
	assert.Equal(t, 1, summary.Existing)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 3, summary.Total)

	all, err := movies.List(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, []models.Movie{
		{ID: 1, Title: "One", Link: baseURL + "/archives/1"},
		{ID: 2, Title: "Two", Link: baseURL + "/archives/2"},
		{ID: 3, Title: "Three", Link: baseURL + "/archives/3"},
	}, all)
}

func TestRunWithoutPaginationScrapesOnePage(t *testing.T) {
	month := archive.MonthURL(baseURL, period)
	page := browsertest.New().
		Add(month, archive.MainContainerXPath, listing(entry("/archives/1", "One")))

	summary, err := New(page, store.NewMemory(), baseURL, zerolog.Nop()).Run(context.Background(), period)
	require.NoError(t, err)

	assert.Equal(t, []string{month}, page.Visited)
	assert.Equal(t, 1, summary.Pages)
	assert.Equal(t, 1, summary.Inserted)
}

func TestPageCountFallsBackToSecondCandidate(t *testing.T) {
	month := archive.MonthURL(baseURL, period)
	page := browsertest.New().
		// On later pages the first link is "previous" and carries no count.
		Add(month, archive.LastPageXPaths[0], browsertest.Element{Text: "PREV"}).
		Add(month, archive.LastPageXPaths[1], browsertest.Element{Text: "PAGE\n12"})
	require.NoError(t, page.Navigate(context.Background(), month))

	s := New(page, store.NewMemory(), baseURL, zerolog.Nop())
	assert.Equal(t, 12, s.PageCount(context.Background()))
}

func TestRunDoesNotReinsertKnownLinks(t *testing.T) {
	month := archive.MonthURL(baseURL, period)
	page := browsertest.New().
		Add(month, archive.MainContainerXPath, listing(entry("/archives/1", "One"), entry("/archives/2", "Two")))

	movies := store.NewMemory(models.Movie{Title: "One", Link: baseURL + "/archives/1"})
	s := New(page, movies, baseURL, zerolog.Nop())

	for i := 0; i < 2; i++ {
		_, err := s.Run(context.Background(), period)
		require.NoError(t, err)
	}

	count, err := movies.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestRunAbortsWhenListingDoesNotLoad(t *testing.T) {
	month := archive.MonthURL(baseURL, period)
	page := browsertest.New().
		Add(month, archive.MainContainerXPath, listing(entry("/archives/1", "One"))).
		Add(month, archive.LastPageXPaths[0], browsertest.Element{Text: "PAGE\n3"}).
		FailNavigation(month+"/page/2", errors.New("net::ERR_CONNECTION_RESET"))

	summary, err := New(page, store.NewMemory(), baseURL, zerolog.Nop()).Run(context.Background(), period)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page 2")
	assert.Equal(t, 1, summary.Scraped)
	assert.Equal(t, 1, summary.Inserted)
}

func TestRunFailsWithoutContainer(t *testing.T) {
	page := browsertest.New()

	_, err := New(page, store.NewMemory(), baseURL, zerolog.Nop()).Run(context.Background(), period)
	assert.ErrorIs(t, err, browsertest.ErrNoSuchElement)
}

func TestRunReadsEveryListingContainer(t *testing.T) {
	month := archive.MonthURL(baseURL, period)
	first := listing(entry("/archives/1", "One"), entry("/archives/2", "Two"))
	second := listing(entry("/archives/3", "Three"))
	page := browsertest.New().
		Add(month, archive.MainContainerXPath, browsertest.Element{HTML: first.HTML, More: []string{second.HTML}})

	movies := store.NewMemory()
	summary, err := New(page, movies, baseURL, zerolog.Nop()).Run(context.Background(), period)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Found)
	assert.Equal(t, 3, summary.Inserted)
	assert.Equal(t, 3, summary.Total)

	exists, err := movies.Exists(context.Background(), baseURL+"/archives/3")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestRunReloadsListingPages(t *testing.T) {
	month := archive.MonthURL(baseURL, period)
	page := browsertest.New().
		Add(month, archive.MainContainerXPath, listing(entry("/archives/1", "One")))

	_, err := New(page, store.NewMemory(), baseURL, zerolog.Nop()).Run(context.Background(), period)
	require.NoError(t, err)
	assert.Equal(t, []string{month}, page.Reloaded)
}
