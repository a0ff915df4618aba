// Package supabase stores movie records in a hosted table through its
// PostgREST endpoint.
package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"archive-scraper/internal/models"
	"archive-scraper/internal/store"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

type Options struct {
	URL     string
	Key     string
	Table   string
	Timeout time.Duration
}

type Client struct {
	http  *resty.Client
	table string
	log   zerolog.Logger
}

var _ store.MovieStore = (*Client)(nil)

type row struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Link  string `json:"link"`
}

func New(opts Options, log zerolog.Logger) (*Client, error) {
	if opts.URL == "" || opts.Key == "" {
		return nil, fmt.Errorf("%w: SUPABASE_URL and SUPABASE_KEY must be set", store.ErrMissingCredentials)
	}
	if opts.Table == "" {
		opts.Table = "movies"
	}

	client := resty.New()
	client.SetBaseURL(strings.TrimRight(opts.URL, "/") + "/rest/v1")
	client.SetHeader("apikey", opts.Key)
	client.SetAuthToken(opts.Key)
	client.SetHeader("accept", "application/json")
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}

	log.Info().Str("url", opts.URL).Str("table", opts.Table).Msg("supabase client initialized")
	return &Client{http: client, table: opts.Table, log: log}, nil
}

func (c *Client) path() string {
	return "/" + c.table
}

func checkResponse(op string, res *resty.Response) error {
	if res.IsError() {
		return fmt.Errorf("%s: unexpected status %d: %s", op, res.StatusCode(), strings.TrimSpace(res.String()))
	}
	return nil
}

func (c *Client) Exists(ctx context.Context, link string) (bool, error) {
	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"select": "id",
			"link":   "eq." + link,
			"limit":  "1",
		}).
		Get(c.path())
	if err != nil {
		return false, fmt.Errorf("lookup link: %w", err)
	}
	if err := checkResponse("lookup link", res); err != nil {
		return false, err
	}

	var rows []row
	if err := json.Unmarshal(res.Body(), &rows); err != nil {
		return false, fmt.Errorf("decode lookup response: %w", err)
	}
	return len(rows) > 0, nil
}

func (c *Client) Insert(ctx context.Context, movie models.Movie) error {
	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("content-type", "application/json").
		SetHeader("prefer", "return=minimal").
		SetBody(map[string]string{
			"title": movie.Title,
			"link":  movie.Link,
		}).
		Post(c.path())
	if err != nil {
		return fmt.Errorf("insert movie: %w", err)
	}
	if res.StatusCode() == http.StatusConflict {
		return store.ErrDuplicate
	}
	return checkResponse("insert movie", res)
}

func (c *Client) Count(ctx context.Context) (int, error) {
	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("prefer", "count=exact").
		SetQueryParam("select", "id").
		Head(c.path())
	if err != nil {
		return 0, fmt.Errorf("count movies: %w", err)
	}
	if err := checkResponse("count movies", res); err != nil {
		return 0, err
	}
	return parseContentRange(res.Header().Get("Content-Range"))
}

// parseContentRange reads the total out of a PostgREST range such as
// "0-24/573" or "*/0".
func parseContentRange(header string) (int, error) {
	i := strings.LastIndex(header, "/")
	if i < 0 {
		return 0, fmt.Errorf("malformed content-range %q", header)
	}
	total := header[i+1:]
	if total == "*" {
		return 0, fmt.Errorf("content-range %q has no exact count", header)
	}
	n, err := strconv.Atoi(total)
	if err != nil {
		return 0, fmt.Errorf("malformed content-range %q: %w", header, err)
	}
	return n, nil
}

func (c *Client) List(ctx context.Context, limit int) ([]models.Movie, error) {
	req := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"select": "id,title,link",
			"order":  "id.asc",
		})
	if limit > 0 {
		req.SetQueryParam("limit", strconv.Itoa(limit))
	}

	res, err := req.Get(c.path())
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	if err := checkResponse("list movies", res); err != nil {
		return nil, err
	}

	var rows []row
	if err := json.Unmarshal(res.Body(), &rows); err != nil {
		return nil, fmt.Errorf("decode list response: %w", err)
	}
	movies := make([]models.Movie, 0, len(rows))
	for _, r := range rows {
		movies = append(movies, models.Movie{ID: r.ID, Title: r.Title, Link: r.Link})
	}
	return movies, nil
}

// Close is a no-op; the REST client holds no session.
func (c *Client) Close() error {
	c.log.Info().Msg("supabase session closed")
	return nil
}
