package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quotes-scraper/api"
	"quotes-scraper/config"
	"quotes-scraper/dashboard"
	"quotes-scraper/db"
	"quotes-scraper/dedup"
	"quotes-scraper/notifier"
	"quotes-scraper/pipeline"
	"quotes-scraper/rag"
	"quotes-scraper/scheduler"
	"quotes-scraper/sheets"

	"github.com/rs/zerolog/log"
)

// SinkOptions enable the optional destinations of a crawl
type SinkOptions struct {
	Database      bool   `long:"database" env:"MIRROR_DATABASE" description:"Mirror every run into Postgres (DATABASE_URL or DB_* variables)"`
	Spreadsheet   string `long:"spreadsheet" env:"SPREADSHEET_URL" description:"Google Sheets URL or ID to export quotes and authors to"`
	Credentials   string `long:"credentials" env:"GOOGLE_SHEETS_CREDENTIALS_FILE" description:"Service account JSON file (or use GOOGLE_SHEETS_CREDENTIALS)"`
	TelegramToken string `long:"telegram-token" env:"TELEGRAM_BOT_TOKEN" description:"Bot token used to send run summaries"`
	TelegramChat  int64  `long:"telegram-chat" env:"TELEGRAM_CHAT_ID" description:"Chat that receives run summaries"`
}

// CrawlOptions override the configuration file
type CrawlOptions struct {
	BaseURL string `long:"base-url" env:"BASE_URL" description:"Override site.base_url"`
	Fetcher string `long:"fetcher" env:"FETCHER" choice:"http" choice:"browser" description:"Override crawl.fetcher"`
}

type crawlCommand struct {
	CrawlOptions
	SinkOptions
}

func (c *crawlCommand) Execute(args []string) error {
	ctx, stop := signalContext()
	defer stop()

	cfg, err := loadConfig(opts.Config, c.CrawlOptions)
	if err != nil {
		return err
	}

	p, cleanup, err := buildPipeline(ctx, cfg, c.SinkOptions)
	if err != nil {
		return err
	}
	defer cleanup()

	report, err := p.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Run %s\n", report.RunID)
	fmt.Printf("Quotes: %d (%d pages) -> %s\n", report.Quotes, report.QuotePages, cfg.Output.QuotesCSV)
	fmt.Printf("Authors: %d (%d skipped) -> %s\n", report.Authors, len(report.Skipped), cfg.Output.AuthorsCSV)
	fmt.Printf("Unique authors: %d -> %s\n", report.Dedup.Kept, cfg.Output.AuthorsDedupCSV)
	if report.SheetURL != "" {
		fmt.Printf("Spreadsheet: %s\n", report.SheetURL)
	}
	return nil
}

type dedupCommand struct {
	Args struct {
		Input  string `positional-arg-name:"input" description:"CSV to deduplicate (default: output.authors_csv)"`
		Output string `positional-arg-name:"output" description:"Destination CSV (default: output.authors_dedup_csv)"`
	} `positional-args:"yes"`
}

func (c *dedupCommand) Execute(args []string) error {
	cfg, err := loadConfig(opts.Config, CrawlOptions{})
	if err != nil {
		return err
	}

	in, out := c.Args.Input, c.Args.Output
	if in == "" {
		in = cfg.Output.AuthorsCSV
	}
	if out == "" {
		out = cfg.Output.AuthorsDedupCSV
	}

	result, err := dedup.File(in, out)
	if err != nil {
		return err
	}

	log.Info().
		Str("input", in).
		Str("output", out).
		Str("column", result.Column).
		Int("kept", result.Kept).
		Int("removed", result.Removed).
		Msg("Removed duplicate authors")
	return nil
}

type serveCommand struct {
	Addr           string `long:"addr" env:"ADDR" default:":8000" description:"HTTP listen address"`
	GoogleAPIKey   string `long:"google-api-key" env:"GOOGLE_API_KEY" description:"Gemini API key; the question endpoint is disabled without it"`
	ChromaURL      string `long:"chroma-url" env:"CHROMA_URL" default:"http://localhost:8001" description:"Chroma server URL"`
	Collection     string `long:"collection" env:"CHROMA_COLLECTION" default:"authors" description:"Chroma collection for author chunks"`
	ChatModel      string `long:"chat-model" env:"GEMINI_CHAT_MODEL" default:"gemini-2.0-flash-001" description:"Gemini model used for answers"`
	EmbeddingModel string `long:"embedding-model" env:"GEMINI_EMBEDDING_MODEL" default:"text-embedding-004" description:"Gemini embedding model"`
	TopK           int    `long:"top-k" env:"RAG_TOP_K" default:"3" description:"Chunks retrieved per question"`
	NoDashboard    bool   `long:"no-dashboard" description:"Do not serve the dashboard"`
}

func (c *serveCommand) Execute(args []string) error {
	ctx, stop := signalContext()
	defer stop()

	cfg, err := loadConfig(opts.Config, CrawlOptions{})
	if err != nil {
		return err
	}

	var answerer api.Answerer
	if c.GoogleAPIKey != "" {
		service, err := rag.Build(ctx, rag.Config{
			GoogleAPIKey:   c.GoogleAPIKey,
			ChromaURL:      c.ChromaURL,
			Collection:     c.Collection,
			ChatModel:      c.ChatModel,
			EmbeddingModel: c.EmbeddingModel,
			TopK:           c.TopK,
		}, cfg.Output.AuthorsDedupCSV)
		if err != nil {
			return fmt.Errorf("failed to build RAG service: %w", err)
		}
		answerer = service
	} else {
		log.Warn().Msg("GOOGLE_API_KEY not set, question endpoint disabled")
	}

	var data *dashboard.Data
	if !c.NoDashboard {
		data, err = dashboard.Load(cfg.Output.QuotesCSV)
		if err != nil {
			return err
		}
		log.Info().Int("quotes", len(data.Quotes())).Int("authors", len(data.Authors())).Msg("Dashboard data loaded")
	}

	srv := &http.Server{
		Addr:              c.Addr,
		Handler:           api.NewServer(api.NewHandler(answerer, data)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", c.Addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

type scheduleCommand struct {
	Cron   string `long:"cron" env:"CRAWL_SCHEDULE" default:"0 6 * * *" description:"Cron expression or descriptor (@daily, @every 6h)"`
	RunNow bool   `long:"run-now" description:"Also run once at startup"`
	CrawlOptions
	SinkOptions
}

func (c *scheduleCommand) Execute(args []string) error {
	ctx, stop := signalContext()
	defer stop()

	cfg, err := loadConfig(opts.Config, c.CrawlOptions)
	if err != nil {
		return err
	}

	p, cleanup, err := buildPipeline(ctx, cfg, c.SinkOptions)
	if err != nil {
		return err
	}
	defer cleanup()

	sched, err := scheduler.NewScheduler(c.Cron, func(ctx context.Context) error {
		_, err := p.Run(ctx)
		return err
	})
	if err != nil {
		return err
	}

	sched.Start()
	if c.RunNow {
		sched.TryRun()
	}

	<-ctx.Done()
	sched.Stop()
	return nil
}

// loadConfig loads configuration from file or returns defaults, then applies
// command line overrides
func loadConfig(configPath string, overrides CrawlOptions) (*config.CrawlConfig, error) {
	var cfg *config.CrawlConfig
	if _, err := os.Stat(configPath); err == nil {
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		log.Debug().Str("path", configPath).Msg("Loaded configuration")
	} else {
		log.Debug().Str("path", configPath).Msg("Config file not found, using default configuration")
		cfg = config.GetDefaultConfig()
	}

	if overrides.BaseURL != "" {
		cfg.Site.BaseURL = overrides.BaseURL
	}
	if overrides.Fetcher != "" {
		cfg.Crawl.Fetcher = overrides.Fetcher
	}
	return cfg, cfg.Validate()
}

// buildPipeline wires the fetcher and every enabled sink. Sinks that fail to
// initialize are logged and left out.
func buildPipeline(ctx context.Context, cfg *config.CrawlConfig, sinks SinkOptions) (*pipeline.Pipeline, func(), error) {
	f, closeFetcher, err := pipeline.NewFetcher(cfg)
	if err != nil {
		return nil, nil, err
	}

	closers := []func() error{closeFetcher}
	var pipelineOpts []pipeline.Option

	if sinks.Database {
		database, err := db.NewDB(ctx, "")
		if err != nil {
			log.Warn().Err(err).Msg("Failed to connect to database, mirror disabled")
		} else {
			pipelineOpts = append(pipelineOpts, pipeline.WithStore(database))
			closers = append(closers, database.Close)
		}
	}

	if sinks.Spreadsheet != "" {
		id := sheets.ExtractSpreadsheetID(sinks.Spreadsheet)
		writer, err := sheets.NewWriter(ctx, id, sinks.Credentials)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to initialize Google Sheets writer, export disabled")
		} else {
			pipelineOpts = append(pipelineOpts, pipeline.WithExporter(writer))
		}
	}

	if sinks.TelegramToken != "" {
		tg, err := notifier.NewTelegram(sinks.TelegramToken, sinks.TelegramChat)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to initialize Telegram notifier, notifications disabled")
		} else {
			pipelineOpts = append(pipelineOpts, pipeline.WithNotifier(tg))
		}
	}

	cleanup := func() {
		for _, c := range closers {
			if err := c(); err != nil {
				log.Warn().Err(err).Msg("Cleanup failed")
			}
		}
	}
	return pipeline.New(cfg, f, pipelineOpts...), cleanup, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
