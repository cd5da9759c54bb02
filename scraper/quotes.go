package scraper

import (
	"context"

	"quotes-scraper/fetcher"
	"quotes-scraper/models"
	"quotes-scraper/parser"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
)

// QuoteResult is the outcome of a quote crawl
type QuoteResult struct {
	Quotes []models.Quote
	Pages  int
}

// QuoteCrawler collects every quote of the paginated listing
type QuoteCrawler struct {
	fetcher   fetcher.Fetcher
	parser    *parser.Parser
	baseURL   string
	startPath string
}

// NewQuoteCrawler creates a new QuoteCrawler
func NewQuoteCrawler(f fetcher.Fetcher, baseURL, startPath string) *QuoteCrawler {
	return &QuoteCrawler{
		fetcher:   f,
		parser:    parser.NewParser(),
		baseURL:   baseURL,
		startPath: startPath,
	}
}

// Crawl walks the listing from the start page. On a listing-page failure the
// quotes gathered so far are returned together with the error.
func (c *QuoteCrawler) Crawl(ctx context.Context) (*QuoteResult, error) {
	log.Info().Str("base_url", c.baseURL).Msg("Starting quote crawl")

	result := &QuoteResult{Quotes: []models.Quote{}}
	pages, err := Walk(ctx, c.fetcher, c.baseURL, c.startPath, func(ctx context.Context, doc *goquery.Document, pageURL string) error {
		quotes := c.parser.ParseQuotes(doc, pageURL)
		log.Debug().Str("url", pageURL).Int("quotes", len(quotes)).Msg("Parsed listing page")
		result.Quotes = append(result.Quotes, quotes...)
		return nil
	})
	result.Pages = pages

	if err != nil {
		return result, err
	}

	log.Info().Int("pages", result.Pages).Int("quotes", len(result.Quotes)).Msg("Quote crawl completed")
	return result, nil
}
