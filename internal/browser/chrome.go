package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"archive-scraper/internal/config"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog"
)

// Session is a single browser tab driven over the DevTools protocol.
type Session struct {
	ctx               context.Context
	cancel            context.CancelFunc
	actionTimeout     time.Duration
	navigationTimeout time.Duration
	settleDelay       time.Duration
	reload            bool
	log               zerolog.Logger
}

var _ Page = (*Session)(nil)

// allocatorFlags are the command-line switches added on top of chromedp's
// defaults.
func allocatorFlags(cfg config.BrowserConfig) map[string]interface{} {
	var headless interface{} = false
	if cfg.Headless {
		headless = "new"
	}

	flags := map[string]interface{}{
		// Disable updates and popups
		"disable-notifications":                  true,
		"disable-component-update":               true,
		"disable-background-downloads":           true,
		"disable-client-side-phishing-detection": true,
		"disable-sync":                           true,
		"disable-default-apps":                   true,
		"disable-infobars":                       true,

		// Basic settings
		"headless":        headless,
		"disable-gpu":     cfg.Headless,
		"incognito":       cfg.Incognito,
		"window-size":     fmt.Sprintf("%d,%d", cfg.WindowWidth, cfg.WindowHeight),
		"start-maximized": !cfg.Headless,

		// Hide the automation banner and navigator.webdriver
		"enable-automation":      false,
		"disable-blink-features": "AutomationControlled",

		// Stability flags
		"disable-background-timer-throttling":    true,
		"disable-backgrounding-occluded-windows": true,
		"disable-breakpad":                       true,
		"disable-dev-shm-usage":                  true,
		"disable-ipc-flooding-protection":        true,
		"disable-renderer-backgrounding":         true,
		"no-sandbox":                             true,
	}
	if cfg.AdBlock {
		// Keeps Brave Shields' built-in ad blocking on.
		flags["enable-features"] = "BraveAdblockDefault"
	}
	return flags
}

func allocatorOptions(cfg config.BrowserConfig, execPath string) []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
	)
	for name, value := range allocatorFlags(cfg) {
		opts = append(opts, chromedp.Flag(name, value))
	}
	if execPath != "" {
		opts = append(opts, chromedp.ExecPath(execPath))
	}
	return opts
}

// NewSession starts the browser at execPath and opens one tab. The whole
// session is bounded by cfg.GlobalTimeout; Close releases it.
func NewSession(cfg config.BrowserConfig, execPath string, log zerolog.Logger) (*Session, error) {
	log = log.With().Str("component", "browser").Logger()

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocatorOptions(cfg, execPath)...)

	chromeLog := log.With().Str("component", "chrome").Logger()
	browserCtx, browserCancel := chromedp.NewContext(
		allocCtx,
		chromedp.WithLogf(func(format string, args ...interface{}) {
			chromeLog.Debug().Msgf(format, args...)
		}),
		chromedp.WithErrorf(func(format string, args ...interface{}) {
			chromeLog.Debug().Msgf(format, args...)
		}),
	)

	timeoutCtx, timeoutCancel := context.WithTimeout(browserCtx, cfg.GlobalTimeout)

	cancelFunc := func() {
		log.Debug().Msg("canceling browser contexts")
		timeoutCancel()
		browserCancel()
		allocCancel()
	}

	// The first Run launches the process.
	if err := chromedp.Run(timeoutCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		log.Info().Str("exec_path", execPath).Bool("headless", cfg.Headless).Msg("starting new browser instance")
		return nil
	})); err != nil {
		cancelFunc()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	return &Session{
		ctx:               timeoutCtx,
		cancel:            cancelFunc,
		actionTimeout:     cfg.ActionTimeout,
		navigationTimeout: cfg.NavigationTimeout,
		settleDelay:       cfg.SettleDelay,
		reload:            cfg.Reload,
		log:               log,
	}, nil
}

// Close shuts the browser down. It is safe to call more than once.
func (s *Session) Close() {
	s.cancel()
}

// run executes actions against the tab under the action timeout.
func (s *Session) run(ctx context.Context, actions ...chromedp.Action) error {
	return s.runWithTimeout(ctx, s.actionTimeout, actions...)
}

// runWithTimeout executes actions against the tab, bounded by timeout. ctx
// only carries cancellation; the actions always run on the session's tab.
func (s *Session) runWithTimeout(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	if err := s.ctx.Err(); err != nil {
		return fmt.Errorf("browser session ended: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("parent context canceled: %w", err)
	}

	timeoutCtx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	err := chromedp.Run(timeoutCtx, actions...)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("action canceled: %w", ctx.Err())
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("action timed out after %v: %w", timeout, err)
		}
		if errors.Is(err, context.Canceled) {
			return fmt.Errorf("action context canceled during execution: %w", err)
		}
		return err
	}
	return nil
}

func (s *Session) Navigate(ctx context.Context, url string) error {
	s.log.Debug().Str("url", url).Msg("navigating")

	actions := []chromedp.Action{chromedp.Navigate(url)}
	if s.reload {
		actions = append(actions, chromedp.Reload())
	}
	if err := s.runWithTimeout(ctx, s.navigationTimeout, actions...); err != nil {
		return fmt.Errorf("navigation to %s failed: %w", url, err)
	}
	return Sleep(ctx, s.settleDelay)
}

func (s *Session) Open(ctx context.Context, url string) error {
	s.log.Debug().Str("url", url).Msg("opening")

	if err := s.runWithTimeout(ctx, s.navigationTimeout, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("opening %s failed: %w", url, err)
	}
	return nil
}

func (s *Session) WaitPresent(ctx context.Context, xpath string) error {
	return s.run(ctx, chromedp.WaitReady(xpath, chromedp.BySearch))
}

func (s *Session) WaitClickable(ctx context.Context, xpath string) error {
	return s.run(ctx,
		chromedp.WaitVisible(xpath, chromedp.BySearch),
		chromedp.WaitEnabled(xpath, chromedp.BySearch),
	)
}

func (s *Session) Text(ctx context.Context, xpath string) (string, error) {
	var text string
	if err := s.run(ctx, chromedp.Text(xpath, &text, chromedp.BySearch)); err != nil {
		return "", err
	}
	return text, nil
}

func (s *Session) OuterHTML(ctx context.Context, xpath string) ([]string, error) {
	var out []string
	collect := func(ctx context.Context, _ runtime.ExecutionContextID, nodes ...*cdp.Node) error {
		for _, n := range nodes {
			html, err := dom.GetOuterHTML().WithNodeID(n.NodeID).Do(ctx)
			if err != nil {
				return fmt.Errorf("could not get outer html: %w", err)
			}
			out = append(out, html)
		}
		return nil
	}
	if err := s.run(ctx, chromedp.QueryAfter(xpath, collect, chromedp.BySearch)); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Session) Href(ctx context.Context, xpath string) (string, error) {
	var href string
	if err := s.run(ctx, chromedp.JavascriptAttribute(xpath, "href", &href, chromedp.BySearch)); err != nil {
		return "", err
	}
	return href, nil
}

func (s *Session) Click(ctx context.Context, xpath string) error {
	return s.run(ctx, chromedp.Click(xpath, chromedp.BySearch))
}

func (s *Session) Location(ctx context.Context) (string, error) {
	var location string
	if err := s.run(ctx, chromedp.Location(&location)); err != nil {
		return "", err
	}
	return location, nil
}
