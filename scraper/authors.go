package scraper

import (
	"context"
	"time"

	"quotes-scraper/fetcher"
	"quotes-scraper/models"
	"quotes-scraper/parser"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
)

// DefaultAuthorDelay is the pause after each author page fetch
const DefaultAuthorDelay = 800 * time.Millisecond

// SleepFunc pauses for d or until ctx is done
type SleepFunc func(ctx context.Context, d time.Duration) error

// AuthorResult is the outcome of an author crawl
type AuthorResult struct {
	Authors []models.Author
	Pages   int
	Skipped []string // Author pages that could not be fetched
	Visited int      // Distinct author pages claimed, fetched or skipped
}

// AuthorCrawler discovers author detail pages through the "(about)" links of
// the listing and parses each one once per crawl
type AuthorCrawler struct {
	fetcher   fetcher.Fetcher
	details   *parser.DetailParser
	baseURL   string
	startPath string
	delay     time.Duration
	sleep     SleepFunc
}

// AuthorOption customizes an AuthorCrawler
type AuthorOption func(*AuthorCrawler)

// WithDelay sets the pause after each author page fetch
func WithDelay(d time.Duration) AuthorOption {
	return func(c *AuthorCrawler) {
		c.delay = d
	}
}

// WithSleep replaces the function used to pause between author pages
func WithSleep(fn SleepFunc) AuthorOption {
	return func(c *AuthorCrawler) {
		c.sleep = fn
	}
}

// NewAuthorCrawler creates a new AuthorCrawler
func NewAuthorCrawler(f fetcher.Fetcher, baseURL, startPath string, opts ...AuthorOption) *AuthorCrawler {
	c := &AuthorCrawler{
		fetcher:   f,
		details:   parser.NewDetailParser(),
		baseURL:   baseURL,
		startPath: startPath,
		delay:     DefaultAuthorDelay,
		sleep:     sleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Crawl walks the listing and fetches every not yet visited author page.
// A failed author page is skipped; a failed listing page ends the crawl and the
// authors gathered so far are returned together with the error.
func (c *AuthorCrawler) Crawl(ctx context.Context) (*AuthorResult, error) {
	log.Info().Str("base_url", c.baseURL).Dur("delay", c.delay).Msg("Starting author crawl")

	frontier := NewFrontier()
	result := &AuthorResult{Authors: []models.Author{}}

	pages, err := Walk(ctx, c.fetcher, c.baseURL, c.startPath, func(ctx context.Context, doc *goquery.Document, pageURL string) error {
		for _, link := range c.details.AuthorLinks(doc, c.baseURL) {
			if !frontier.Claim(link) {
				continue
			}

			author, err := c.fetchAuthor(ctx, link)
			if err != nil {
				log.Warn().Err(err).Str("url", link).Msg("Skipping author page")
				result.Skipped = append(result.Skipped, link)
			} else {
				result.Authors = append(result.Authors, author)
			}

			if err := c.sleep(ctx, c.delay); err != nil {
				return err
			}
		}
		return nil
	})
	result.Pages = pages
	result.Visited = frontier.Len()

	if err != nil {
		return result, err
	}

	log.Info().
		Int("pages", result.Pages).
		Int("authors", len(result.Authors)).
		Int("visited", result.Visited).
		Int("skipped", len(result.Skipped)).
		Msg("Author crawl completed")
	return result, nil
}

func (c *AuthorCrawler) fetchAuthor(ctx context.Context, link string) (models.Author, error) {
	log.Info().Str("url", link).Msg("Scraping page")
	page, err := c.fetcher.Fetch(ctx, link)
	if err != nil {
		return models.Author{}, err
	}

	doc, err := parser.NewDocument(page.Body)
	if err != nil {
		return models.Author{}, err
	}

	return c.details.ParseAuthorPage(doc, link), nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
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
