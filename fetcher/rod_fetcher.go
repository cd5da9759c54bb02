package fetcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/rs/zerolog/log"
)

// RodFetcher implements the Fetcher interface using rod (headless browser).
// It is used for sites that render their listing with JavaScript.
type RodFetcher struct {
	browser   *rod.Browser
	userAgent string
	timeout   time.Duration
}

// NewRodFetcher launches a headless browser and connects to it
func NewRodFetcher(userAgent string, timeout time.Duration) (*RodFetcher, error) {
	// This should be mounted as a volume to use disk instead of memory
	userDataDir := os.Getenv("BROWSER_DATA_DIR")
	if userDataDir == "" {
		userDataDir = "/tmp/quotes-browser-data"
	}

	if err := os.MkdirAll(userDataDir, 0755); err != nil {
		log.Warn().Err(err).Str("dir", userDataDir).Msg("Failed to create browser data directory")
		userDataDir = ""
	}

	l := launcher.New().
		Headless(true).
		NoSandbox(true).
		Leakless(false).
		Set("disable-dev-shm-usage").
		Set("disable-gpu").
		Set("no-first-run").
		Set("no-default-browser-check").
		Set("disable-extensions").
		Set("mute-audio")
	if userDataDir != "" {
		l = l.UserDataDir(userDataDir)
	}

	// Prefer a system Chrome/Chromium over downloading one
	if path, found := launcher.LookPath(); found {
		l = l.Bin(path)
	}

	browserURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(browserURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	return &RodFetcher{
		browser:   browser,
		userAgent: userAgent,
		timeout:   timeout,
	}, nil
}

// Close closes the browser
func (rf *RodFetcher) Close() error {
	if rf.browser != nil {
		return rf.browser.Close()
	}
	return nil
}

// Fetch implements the Fetcher interface
func (rf *RodFetcher) Fetch(ctx context.Context, url string) (*Page, error) {
	page, err := rf.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, &NetworkError{URL: url, Err: fmt.Errorf("failed to create page: %w", err)}
	}
	defer page.Close()

	if rf.userAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: rf.userAgent}); err != nil {
			log.Warn().Err(err).Msg("Failed to set browser user agent")
		}
	}

	p := page.Context(ctx).Timeout(rf.timeout)

	// The first document response is the page itself; later ones belong to frames
	status := 0
	waitResponse := p.EachEvent(func(e *proto.NetworkResponseReceived) bool {
		if e.Type != proto.NetworkResourceTypeDocument {
			return false
		}
		status = e.Response.Status
		return true
	})

	if err := p.Navigate(url); err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}
	waitResponse()
	if status == 0 {
		if err := ctx.Err(); err != nil {
			return nil, &NetworkError{URL: url, Err: err}
		}
		return nil, &NetworkError{URL: url, Err: errors.New("no document response received")}
	}
	if err := checkStatus(url, status); err != nil {
		return nil, err
	}

	if err := p.WaitLoad(); err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}

	html, err := p.HTML()
	if err != nil {
		return nil, &NetworkError{URL: url, Err: fmt.Errorf("failed to get HTML: %w", err)}
	}

	return &Page{
		URL:        url,
		StatusCode: status,
		Body:       []byte(html),
	}, nil
}
