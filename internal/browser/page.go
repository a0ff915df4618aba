package browser

import (
	"context"
	"time"
)

// Page is the set of browser operations the scraping flows need. Selectors
// are XPath expressions. Every call waits for its target up to the
// session's action timeout; page loads use the navigation timeout.
type Page interface {
	// Navigate loads url, reloads it when configured and lets it settle
	// before returning.
	Navigate(ctx context.Context, url string) error
	// Open loads url once, without reloading or settling.
	Open(ctx context.Context, url string) error
	WaitPresent(ctx context.Context, xpath string) error
	WaitClickable(ctx context.Context, xpath string) error
	Text(ctx context.Context, xpath string) (string, error)
	// OuterHTML returns the markup of every element matching xpath, in
	// document order.
	OuterHTML(ctx context.Context, xpath string) ([]string, error)
	// Href returns the resolved (absolute) href property of an element.
	Href(ctx context.Context, xpath string) (string, error)
	Click(ctx context.Context, xpath string) error
	Location(ctx context.Context) (string, error)
}

// Sleep pauses for d unless ctx ends first.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
