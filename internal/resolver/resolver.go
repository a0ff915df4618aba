package resolver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"archive-scraper/internal/browser"

	"github.com/rs/zerolog"
)

// DownloadLinkXPath is the download anchor on an archive post.
const DownloadLinkXPath = "/html/body/div[1]/div/div/div/div/div/main/div/div/article/div/div[2]/div[2]/p[3]/a"

type action int

const (
	click action = iota
	readHref
)

// Step is one fixed element on the intermediate pages.
type Step struct {
	Name   string
	XPath  string
	action action
}

// Steps peel back the redirect layers of the intermediate landing page.
// The last one holds the final link.
var Steps = []Step{
	{Name: "form link", XPath: "/html/body/section/main/div/form/span/a", action: click},
	{Name: "second span", XPath: "/html/body/section/article/span[2]", action: click},
	{Name: "first span", XPath: "/html/body/section/article/span[1]", action: click},
	{Name: "final anchor", XPath: "/html/body/section/article/center[2]/a", action: readHref},
}

// StepError reports which step of the chain failed. Step 0 is the post page.
type StepError struct {
	Step  int
	Name  string
	XPath string
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s): %v", e.Step, e.Name, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

var ErrEmptyHref = errors.New("anchor has an empty href")

type Resolution struct {
	PostURL     string
	DownloadURL string // intermediate landing page linked from the post
	FinalURL    string
}

type Options struct {
	// StepDelay is slept after opening the landing page and after each click.
	StepDelay time.Duration
	// OpenFinal navigates to the final link once it is known.
	OpenFinal bool
}

type Resolver struct {
	page browser.Page
	opts Options
	log  zerolog.Logger
}

func New(page browser.Page, opts Options, log zerolog.Logger) *Resolver {
	return &Resolver{
		page: page,
		opts: opts,
		log:  log.With().Str("component", "resolver").Logger(),
	}
}

// Resolve follows the fixed click chain from an archive post to the final
// download link.
func (r *Resolver) Resolve(ctx context.Context, postURL string) (*Resolution, error) {
	res := &Resolution{PostURL: postURL}
	log := r.log.With().Str("post", postURL).Logger()

	log.Info().Msg("opening post")
	if err := r.page.Navigate(ctx, postURL); err != nil {
		return res, &StepError{Step: 0, Name: "post", XPath: DownloadLinkXPath, Err: err}
	}
	href, err := r.readHref(ctx, DownloadLinkXPath)
	if err != nil {
		return res, &StepError{Step: 0, Name: "download link", XPath: DownloadLinkXPath, Err: err}
	}
	res.DownloadURL = href
	log.Info().Str("href", href).Msg("found download link")

	// Redirect pages are loaded once, without a reload.
	if err := r.page.Open(ctx, href); err != nil {
		return res, &StepError{Step: 0, Name: "download link", XPath: DownloadLinkXPath, Err: err}
	}
	if err := browser.Sleep(ctx, r.opts.StepDelay); err != nil {
		return res, err
	}

	for i, step := range Steps {
		n := i + 1
		log.Info().Int("step", n).Str("name", step.Name).Msg("resolving")

		switch step.action {
		case click:
			if err := r.page.WaitClickable(ctx, step.XPath); err != nil {
				return res, &StepError{Step: n, Name: step.Name, XPath: step.XPath, Err: err}
			}
			if err := r.page.Click(ctx, step.XPath); err != nil {
				return res, &StepError{Step: n, Name: step.Name, XPath: step.XPath, Err: err}
			}
			if err := browser.Sleep(ctx, r.opts.StepDelay); err != nil {
				return res, err
			}
		case readHref:
			final, err := r.readHref(ctx, step.XPath)
			if err != nil {
				return res, &StepError{Step: n, Name: step.Name, XPath: step.XPath, Err: err}
			}
			res.FinalURL = final
		}
	}
	log.Info().Str("final", res.FinalURL).Msg("final download link")

	if r.opts.OpenFinal {
		if err := r.page.Open(ctx, res.FinalURL); err != nil {
			return res, fmt.Errorf("opening final link: %w", err)
		}
		log.Info().Msg("reached the final download page")
	}
	return res, nil
}

func (r *Resolver) readHref(ctx context.Context, xpath string) (string, error) {
	if err := r.page.WaitPresent(ctx, xpath); err != nil {
		return "", err
	}
	href, err := r.page.Href(ctx, xpath)
	if err != nil {
		return "", err
	}
	if href == "" {
		return "", ErrEmptyHref
	}
	return href, nil
}

// ResolveAll resolves posts one after another. Failures are logged and
// skipped; only successful resolutions are returned.
func (r *Resolver) ResolveAll(ctx context.Context, postURLs []string) []*Resolution {
	var out []*Resolution
	for _, u := range postURLs {
		if ctx.Err() != nil {
			break
		}
		res, err := r.Resolve(ctx, u)
		if err != nil {
			r.log.Error().Err(err).Str("post", u).Msg("an error occurred during navigation")
			continue
		}
		out = append(out, res)
	}
	return out
}
