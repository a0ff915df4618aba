// Package browsertest provides a scripted, in-memory browser.Page.
package browsertest

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"archive-scraper/internal/browser"
)

var (
	ErrNoSuchElement = errors.New("no such element")
	ErrNotClickable  = errors.New("element not clickable")
)

// Element is what a page shows at one XPath.
type Element struct {
	Text string
	HTML string
	// More holds the markup of further elements matching the same XPath.
	More []string
	Href string
	// Disabled elements are present but never become clickable.
	Disabled bool
	// Opens, when set, is the URL the tab shows after the element is clicked.
	Opens string
}

// Page serves elements keyed by URL and XPath and records what the code
// under test did with them.
type Page struct {
	mu       sync.Mutex
	dom      map[string]map[string]Element
	failures map[string]error
	current  string

	Visited []string
	// Reloaded lists the URLs loaded through Navigate; Open skips the reload.
	Reloaded []string
	Clicks   []string
}

var _ browser.Page = (*Page)(nil)

func New() *Page {
	return &Page{
		dom:      make(map[string]map[string]Element),
		failures: make(map[string]error),
	}
}

// Add places el at xpath on the page served for url.
func (p *Page) Add(url, xpath string, el Element) *Page {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.dom[url] == nil {
		p.dom[url] = make(map[string]Element)
	}
	p.dom[url][xpath] = el
	return p
}

// FailNavigation makes every navigation to url return err.
func (p *Page) FailNavigation(url string, err error) *Page {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failures[url] = err
	return p
}

func (p *Page) lookup(xpath string) (Element, error) {
	el, ok := p.dom[p.current][xpath]
	if !ok {
		return Element{}, fmt.Errorf("%w: %s on %s", ErrNoSuchElement, xpath, p.current)
	}
	return el, nil
}

func (p *Page) Navigate(ctx context.Context, url string) error {
	return p.load(ctx, url, true)
}

func (p *Page) Open(ctx context.Context, url string) error {
	return p.load(ctx, url, false)
}

func (p *Page) load(ctx context.Context, url string, reload bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Visited = append(p.Visited, url)
	if err := p.failures[url]; err != nil {
		return err
	}
	if reload {
		p.Reloaded = append(p.Reloaded, url)
	}
	p.current = url
	return nil
}

func (p *Page) WaitPresent(ctx context.Context, xpath string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, err := p.lookup(xpath)
	return err
}

func (p *Page) WaitClickable(ctx context.Context, xpath string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	el, err := p.lookup(xpath)
	if err != nil {
		return err
	}
	if el.Disabled {
		return fmt.Errorf("%w: %s", ErrNotClickable, xpath)
	}
	return nil
}

func (p *Page) Text(ctx context.Context, xpath string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	el, err := p.lookup(xpath)
	return el.Text, err
}

func (p *Page) OuterHTML(ctx context.Context, xpath string) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	el, err := p.lookup(xpath)
	if err != nil {
		return nil, err
	}
	return append([]string{el.HTML}, el.More...), nil
}

func (p *Page) Href(ctx context.Context, xpath string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	el, err := p.lookup(xpath)
	return el.Href, err
}

func (p *Page) Click(ctx context.Context, xpath string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	el, err := p.lookup(xpath)
	if err != nil {
		return err
	}
	if el.Disabled {
		return fmt.Errorf("%w: %s", ErrNotClickable, xpath)
	}
	p.Clicks = append(p.Clicks, xpath)
	if el.Opens != "" {
		p.current = el.Opens
	}
	return nil
}

func (p *Page) Location(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current, nil
}
