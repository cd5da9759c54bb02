package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Fetcher kinds accepted in crawl.fetcher
const (
	FetcherHTTP    = "http"
	FetcherBrowser = "browser"
)

// CrawlConfig represents the crawl policy
type CrawlConfig struct {
	Site struct {
		BaseURL   string `yaml:"base_url"`
		StartPath string `yaml:"start_path"`
	} `yaml:"site"`
	HTTP struct {
		UserAgent      string `yaml:"user_agent"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
		Retries        int    `yaml:"retries"`
	} `yaml:"http"`
	Crawl struct {
		AuthorDelayMs int    `yaml:"author_delay_ms"`
		Fetcher       string `yaml:"fetcher"`
	} `yaml:"crawl"`
	Output struct {
		QuotesCSV       string `yaml:"quotes_csv"`
		AuthorsCSV      string `yaml:"authors_csv"`
		AuthorsDedupCSV string `yaml:"authors_dedup_csv"`
	} `yaml:"output"`
}

// LoadConfig loads configuration from a YAML file.
// Keys absent from the file keep their default values.
func LoadConfig(path string) (*CrawlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := GetDefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// GetDefaultConfig returns a default configuration
func GetDefaultConfig() *CrawlConfig {
	cfg := &CrawlConfig{}
	cfg.Site.BaseURL = "http://quotes.toscrape.com"
	cfg.Site.StartPath = "/"
	cfg.HTTP.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	cfg.HTTP.TimeoutSeconds = 10
	cfg.HTTP.Retries = 0
	cfg.Crawl.AuthorDelayMs = 800
	cfg.Crawl.Fetcher = FetcherHTTP
	cfg.Output.QuotesCSV = "documents/dados.csv"
	cfg.Output.AuthorsCSV = "documents/author.csv"
	cfg.Output.AuthorsDedupCSV = "documents/author_sem_duplicatas.csv"
	return cfg
}

// Validate checks values that would make a crawl impossible
func (c *CrawlConfig) Validate() error {
	if c.Site.BaseURL == "" {
		return fmt.Errorf("site.base_url must not be empty")
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("http.timeout_seconds must be positive, got %d", c.HTTP.TimeoutSeconds)
	}
	if c.HTTP.Retries < 0 {
		return fmt.Errorf("http.retries must not be negative, got %d", c.HTTP.Retries)
	}
	if c.Crawl.AuthorDelayMs < 0 {
		return fmt.Errorf("crawl.author_delay_ms must not be negative, got %d", c.Crawl.AuthorDelayMs)
	}
	switch c.Crawl.Fetcher {
	case FetcherHTTP, FetcherBrowser:
	default:
		return fmt.Errorf("crawl.fetcher must be %q or %q, got %q", FetcherHTTP, FetcherBrowser, c.Crawl.Fetcher)
	}
	return nil
}

// Timeout returns the per-request timeout
func (c *CrawlConfig) Timeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}

// AuthorDelay returns the pause inserted after each author page fetch
func (c *CrawlConfig) AuthorDelay() time.Duration {
	return time.Duration(c.Crawl.AuthorDelayMs) * time.Millisecond
}
