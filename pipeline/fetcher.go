package pipeline

import (
	"fmt"
	"time"

	"quotes-scraper/config"
	"quotes-scraper/fetcher"

	"github.com/rs/zerolog/log"
)

// retryInterval is the first backoff interval when retries are enabled
const retryInterval = 500 * time.Millisecond

// NewFetcher builds the fetcher selected by crawl.fetcher, wrapped with
// retries when http.retries is positive. The returned close function releases
// the browser when one was started and is always safe to call.
func NewFetcher(cfg *config.CrawlConfig) (fetcher.Fetcher, func() error, error) {
	var (
		base    fetcher.Fetcher
		closeFn = func() error { return nil }
	)

	switch cfg.Crawl.Fetcher {
	case config.FetcherBrowser:
		rf, err := fetcher.NewRodFetcher(cfg.HTTP.UserAgent, cfg.Timeout())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to start browser: %w", err)
		}
		base, closeFn = rf, rf.Close
	case config.FetcherHTTP, "":
		base = fetcher.NewCollyFetcher(cfg.HTTP.UserAgent, cfg.Timeout(), nil)
	default:
		return nil, nil, fmt.Errorf("unknown fetcher %q", cfg.Crawl.Fetcher)
	}

	log.Debug().Str("fetcher", cfg.Crawl.Fetcher).Int("retries", cfg.HTTP.Retries).Msg("Fetcher ready")
	return fetcher.NewRetrying(base, cfg.HTTP.Retries, retryInterval), closeFn, nil
}
