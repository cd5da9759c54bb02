// Package pipeline runs a complete crawl: both site traversals, the CSV files,
// author deduplication and the optional result sinks.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"quotes-scraper/config"
	"quotes-scraper/csvio"
	"quotes-scraper/db"
	"quotes-scraper/dedup"
	"quotes-scraper/fetcher"
	"quotes-scraper/models"
	"quotes-scraper/notifier"
	"quotes-scraper/scraper"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// RunStore mirrors crawl results into a database
type RunStore interface {
	CreateRun(ctx context.Context, id uuid.UUID, baseURL string) (*db.Run, error)
	SaveQuotes(ctx context.Context, runID uuid.UUID, quotes []models.Quote) error
	SaveAuthors(ctx context.Context, runID uuid.UUID, authors []models.Author) error
	FinishRun(ctx context.Context, id uuid.UUID, pages, quotes, authors int) error
	FailRun(ctx context.Context, id uuid.UUID, cause error) error
}

// Exporter copies crawl results to a spreadsheet
type Exporter interface {
	WriteQuotes(ctx context.Context, label string, quotes []models.Quote) (string, int64, error)
	WriteAuthors(ctx context.Context, label string, authors []models.Author) (string, int64, error)
	SheetURL(sheetID int64) string
}

// Notifier announces the outcome of a run
type Notifier interface {
	Notify(ctx context.Context, s notifier.Summary) error
}

// Report is the outcome of one run
type Report struct {
	RunID       uuid.UUID
	QuotePages  int
	AuthorPages int
	Quotes      int
	Authors     int
	Skipped     []string
	Dedup       *dedup.Result
	SheetURL    string
	Duration    time.Duration
}

// Pipeline runs crawls with a fixed configuration and set of sinks
type Pipeline struct {
	cfg      *config.CrawlConfig
	fetcher  fetcher.Fetcher
	store    RunStore
	exporter Exporter
	notifier Notifier
	sleep    scraper.SleepFunc
	now      func() time.Time
}

// Option customizes a Pipeline
type Option func(*Pipeline)

// WithStore mirrors every run into store
func WithStore(store RunStore) Option {
	return func(p *Pipeline) { p.store = store }
}

// WithExporter exports every successful run
func WithExporter(e Exporter) Option {
	return func(p *Pipeline) { p.exporter = e }
}

// WithNotifier announces every run
func WithNotifier(n Notifier) Option {
	return func(p *Pipeline) { p.notifier = n }
}

// WithSleep replaces the pause used between author pages
func WithSleep(fn scraper.SleepFunc) Option {
	return func(p *Pipeline) { p.sleep = fn }
}

// New creates a Pipeline
func New(cfg *config.CrawlConfig, f fetcher.Fetcher, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:     cfg,
		fetcher: f,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run performs one complete crawl. The author crawl and its CSV come first,
// then the quote crawl and its CSV, then deduplication. Nothing is written for
// a crawl that stopped on a listing page. Sink failures are logged only.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	started := p.now()
	report := &Report{RunID: uuid.New()}
	logger := log.With().Str("run_id", report.RunID.String()).Logger()
	logger.Info().Str("base_url", p.cfg.Site.BaseURL).Msg("Starting crawl run")

	store := p.store
	if store != nil {
		if _, err := store.CreateRun(ctx, report.RunID, p.cfg.Site.BaseURL); err != nil {
			logger.Warn().Err(err).Msg("Failed to record run, database mirror disabled for this run")
			store = nil
		}
	}

	authors, quotes, err := p.crawl(ctx, report)
	report.Duration = p.now().Sub(started)
	if err != nil {
		logger.Error().Err(err).Msg("Crawl run failed")
		if store != nil {
			if ferr := store.FailRun(ctx, report.RunID, err); ferr != nil {
				logger.Warn().Err(ferr).Msg("Failed to mark run as failed")
			}
		}
		p.notify(ctx, report, err)
		return report, err
	}

	if store != nil {
		p.mirror(ctx, store, report, quotes, authors)
	}
	if p.exporter != nil {
		p.export(ctx, report, quotes, authors)
	}
	p.notify(ctx, report, nil)

	logger.Info().
		Int("quotes", report.Quotes).
		Int("authors", report.Authors).
		Int("unique_authors", report.Dedup.Kept).
		Dur("duration", report.Duration).
		Msg("Crawl run completed")
	return report, nil
}

func (p *Pipeline) crawl(ctx context.Context, report *Report) ([]models.Author, []models.Quote, error) {
	authorOpts := []scraper.AuthorOption{scraper.WithDelay(p.cfg.AuthorDelay())}
	if p.sleep != nil {
		authorOpts = append(authorOpts, scraper.WithSleep(p.sleep))
	}

	authorResult, err := scraper.NewAuthorCrawler(p.fetcher, p.cfg.Site.BaseURL, p.cfg.Site.StartPath, authorOpts...).Crawl(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("author crawl: %w", err)
	}
	report.AuthorPages = authorResult.Pages
	report.Authors = len(authorResult.Authors)
	report.Skipped = authorResult.Skipped

	if err := csvio.WriteFile(p.cfg.Output.AuthorsCSV, authorResult.Authors); err != nil {
		return nil, nil, fmt.Errorf("write authors: %w", err)
	}
	log.Info().Str("path", p.cfg.Output.AuthorsCSV).Int("rows", report.Authors).Msg("Wrote authors CSV")

	quoteResult, err := scraper.NewQuoteCrawler(p.fetcher, p.cfg.Site.BaseURL, p.cfg.Site.StartPath).Crawl(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("quote crawl: %w", err)
	}
	report.QuotePages = quoteResult.Pages
	report.Quotes = len(quoteResult.Quotes)

	if err := csvio.WriteFile(p.cfg.Output.QuotesCSV, quoteResult.Quotes); err != nil {
		return nil, nil, fmt.Errorf("write quotes: %w", err)
	}
	log.Info().Str("path", p.cfg.Output.QuotesCSV).Int("rows", report.Quotes).Msg("Wrote quotes CSV")

	result, err := dedup.File(p.cfg.Output.AuthorsCSV, p.cfg.Output.AuthorsDedupCSV)
	if err != nil {
		return nil, nil, fmt.Errorf("dedup authors: %w", err)
	}
	report.Dedup = result

	return authorResult.Authors, quoteResult.Quotes, nil
}

func (p *Pipeline) mirror(ctx context.Context, store RunStore, report *Report, quotes []models.Quote, authors []models.Author) {
	logger := log.With().Str("run_id", report.RunID.String()).Logger()

	if err := store.SaveQuotes(ctx, report.RunID, quotes); err != nil {
		logger.Warn().Err(err).Msg("Failed to save quotes to database")
	}
	if err := store.SaveAuthors(ctx, report.RunID, authors); err != nil {
		logger.Warn().Err(err).Msg("Failed to save authors to database")
	}
	if err := store.FinishRun(ctx, report.RunID, report.QuotePages, report.Quotes, report.Authors); err != nil {
		logger.Warn().Err(err).Msg("Failed to finish run in database")
	}
}

func (p *Pipeline) export(ctx context.Context, report *Report, quotes []models.Quote, authors []models.Author) {
	logger := log.With().Str("run_id", report.RunID.String()).Logger()
	label := p.now().Format("20060102_150405")

	_, sheetID, err := p.exporter.WriteQuotes(ctx, label, quotes)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to export quotes to Google Sheets")
	} else {
		report.SheetURL = p.exporter.SheetURL(sheetID)
	}

	if _, _, err := p.exporter.WriteAuthors(ctx, label, authors); err != nil {
		logger.Warn().Err(err).Msg("Failed to export authors to Google Sheets")
	}
}

func (p *Pipeline) notify(ctx context.Context, report *Report, runErr error) {
	if p.notifier == nil {
		return
	}

	summary := notifier.Summary{
		RunID:      report.RunID.String(),
		BaseURL:    p.cfg.Site.BaseURL,
		QuotePages: report.QuotePages,
		Quotes:     report.Quotes,
		Authors:    report.Authors,
		Skipped:    len(report.Skipped),
		Duration:   report.Duration,
		SheetURL:   report.SheetURL,
		Err:        runErr,
	}
	if report.Dedup != nil {
		summary.UniqueAuthors = report.Dedup.Kept
	}

	if err := p.notifier.Notify(ctx, summary); err != nil {
		log.Warn().Err(err).Str("run_id", report.RunID.String()).Msg("Failed to send notification")
	}
}
