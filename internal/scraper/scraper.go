package scraper

import (
	"context"
	"fmt"

	"archive-scraper/internal/archive"
	"archive-scraper/internal/browser"
	"archive-scraper/internal/store"

	"github.com/rs/zerolog"
)

// Summary counts what one run did.
type Summary struct {
	Period   archive.Period
	Pages    int // pages listed by the pagination
	Scraped  int // pages actually visited
	Found    int
	Inserted int
	Existing int
	Failed   int
	Total    int // records in the store after the run
}

type Scraper struct {
	page    browser.Page
	store   store.MovieStore
	baseURL string
	log     zerolog.Logger
}

func New(page browser.Page, movies store.MovieStore, baseURL string, log zerolog.Logger) *Scraper {
	return &Scraper{
		page:    page,
		store:   movies,
		baseURL: baseURL,
		log:     log.With().Str("component", "scraper").Logger(),
	}
}

// Run scrapes every listing page of one month archive into the store. A
// page that fails to load aborts the run; the summary gathered so far is
// returned with the error.
func (s *Scraper) Run(ctx context.Context, period archive.Period) (*Summary, error) {
	summary := &Summary{Period: period, Pages: 1}
	monthURL := archive.MonthURL(s.baseURL, period)

	s.log.Info().Str("url", monthURL).Msg("opening archive")
	if err := s.setupPage(ctx, monthURL); err != nil {
		return summary, err
	}

	summary.Pages = s.PageCount(ctx)
	s.scrapePage(ctx, 1, monthURL, summary)

	for n := 2; n <= summary.Pages; n++ {
		pageURL := archive.PageURL(monthURL, n)
		s.log.Info().Int("page", n).Str("url", pageURL).Msg("navigating to page")

		if err := s.setupPage(ctx, pageURL); err != nil {
			return summary, fmt.Errorf("page %d: %w", n, err)
		}
		s.scrapePage(ctx, n, pageURL, summary)
	}

	total, err := s.store.Count(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("error getting count")
	}
	summary.Total = total

	s.log.Info().
		Int("pages", summary.Scraped).
		Int("found", summary.Found).
		Int("new", summary.Inserted).
		Int("existing", summary.Existing).
		Int("failed", summary.Failed).
		Int("total", summary.Total).
		Msg("scraping completed for all pages")
	return summary, nil
}

// setupPage navigates and waits for the listing container.
func (s *Scraper) setupPage(ctx context.Context, url string) error {
	if err := s.page.Navigate(ctx, url); err != nil {
		return err
	}
	s.log.Debug().Msg("waiting for content to load")
	if err := s.page.WaitPresent(ctx, archive.MainContainerXPath); err != nil {
		return fmt.Errorf("listing container did not load: %w", err)
	}
	return nil
}

// PageCount reads the last page number from the pagination links on the
// current page, falling back to a single page.
func (s *Scraper) PageCount(ctx context.Context) int {
	for _, xpath := range archive.LastPageXPaths {
		if err := s.page.WaitPresent(ctx, xpath); err != nil {
			s.log.Debug().Str("xpath", xpath).Msg("pagination link not found, trying next")
			continue
		}
		text, err := s.page.Text(ctx, xpath)
		if err != nil {
			s.log.Debug().Err(err).Str("xpath", xpath).Msg("pagination text unreadable, trying next")
			continue
		}
		if n, ok := archive.ParsePageCount(text); ok && n > 1 {
			s.log.Info().Int("pages", n).Msg("total pages found")
			return n
		}
	}

	s.log.Info().Msg("could not find pagination, assuming single page")
	return 1
}

// scrapePage saves every item of every listing container on the current
// page. Items that cannot be extracted or saved are logged and skipped.
func (s *Scraper) scrapePage(ctx context.Context, n int, pageURL string, summary *Summary) {
	log := s.log.With().Int("page", n).Logger()
	summary.Scraped++

	containers, err := s.page.OuterHTML(ctx, archive.MainContainerXPath)
	if err != nil {
		log.Error().Err(err).Msg("could not read listing container")
		return
	}
	var items []archive.Item
	for _, html := range containers {
		found, err := archive.ExtractItems(html, pageURL)
		if err != nil {
			log.Error().Err(err).Msg("could not parse listing container")
			continue
		}
		// Indexes run on across containers.
		offset := len(items)
		for _, item := range found {
			item.Index += offset
			items = append(items, item)
		}
	}
	log.Info().Int("items", len(items)).Msg("scraping page")

	for _, item := range items {
		itemLog := log.With().Int("index", item.Index).Logger()
		if item.Err != nil {
			summary.Failed++
			itemLog.Warn().Err(item.Err).Msg("could not extract data from this div")
			continue
		}
		summary.Found++

		inserted, err := store.Save(ctx, s.store, item.Movie)
		if err != nil {
			summary.Failed++
			itemLog.Error().Err(err).Str("link", item.Movie.Link).Msg("error inserting movie")
			continue
		}

		status := "exists"
		if inserted {
			status = "new"
			summary.Inserted++
		} else {
			summary.Existing++
		}
		itemLog.Info().
			Str("status", status).
			Str("title", item.Movie.Title).
			Str("link", item.Movie.Link).
			Msg("movie")
	}
}
