package archive

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"archive-scraper/internal/models"

	"github.com/PuerkitoBio/goquery"
)

var (
	ErrAnchorNotFound = errors.New("anchor not found")
	ErrMissingHref    = errors.New("anchor has no href")
)

// Item is the outcome of extracting one child of the main container.
// Err is set when the child did not yield a usable movie.
type Item struct {
	Index int // 1-based position among the container's child divs
	Movie models.Movie
	Err   error
}

var indexedStep = regexp.MustCompile(`^([a-z0-9]+)\[(\d+)\]$`)

// ExtractItems parses the outer HTML of the main container. Every direct
// child div is one listing entry; its anchor is looked up at ItemAnchorPath
// and the href is resolved against pageURL.
func ExtractItems(containerHTML, pageURL string) ([]Item, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(containerHTML))
	if err != nil {
		return nil, fmt.Errorf("parse container html: %w", err)
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse page url: %w", err)
	}

	container := doc.Find("body").Children().First()
	var items []Item
	container.ChildrenFiltered("div").Each(func(i int, div *goquery.Selection) {
		item := Item{Index: i + 1}
		item.Movie, item.Err = extractMovie(div, base)
		items = append(items, item)
	})
	return items, nil
}

func extractMovie(div *goquery.Selection, base *url.URL) (models.Movie, error) {
	anchor := walk(div, ItemAnchorPath).First()
	if anchor.Length() == 0 {
		return models.Movie{}, fmt.Errorf("%w at %s", ErrAnchorNotFound, ItemAnchorPath)
	}

	href, ok := anchor.Attr("href")
	href = strings.TrimSpace(href)
	if !ok || href == "" {
		return models.Movie{}, ErrMissingHref
	}
	ref, err := url.Parse(href)
	if err != nil {
		return models.Movie{}, fmt.Errorf("parse href %q: %w", href, err)
	}

	return models.Movie{
		Title: strings.Join(strings.Fields(anchor.Text()), " "),
		Link:  base.ResolveReference(ref).String(),
	}, nil
}

// walk follows a relative XPath such as "article/div[1]/a". The first step
// is matched at any depth below sel, the rest are child steps.
func walk(sel *goquery.Selection, path string) *goquery.Selection {
	for i, step := range strings.Split(path, "/") {
		if m := indexedStep.FindStringSubmatch(step); m != nil {
			step = fmt.Sprintf("%s:nth-of-type(%s)", m[1], m[2])
		}
		if i == 0 {
			sel = sel.Find(step)
			continue
		}
		sel = sel.ChildrenFiltered(step)
	}
	return sel
}
