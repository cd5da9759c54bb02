package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestGetDefaultConfig(t *testing.T) {
	cfg := GetDefaultConfig()

	assert.Equal(t, "http://quotes.toscrape.com", cfg.Site.BaseURL)
	assert.Equal(t, "/", cfg.Site.StartPath)
	assert.Equal(t, 10*time.Second, cfg.Timeout())
	assert.Equal(t, 800*time.Millisecond, cfg.AuthorDelay())
	assert.Equal(t, FetcherHTTP, cfg.Crawl.Fetcher)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `
crawl:
  author_delay_ms: 0
output:
  quotes_csv: out/quotes.csv
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, time.Duration(0), cfg.AuthorDelay())
	assert.Equal(t, "out/quotes.csv", cfg.Output.QuotesCSV)
	assert.Equal(t, "documents/author.csv", cfg.Output.AuthorsCSV)
	assert.Equal(t, "http://quotes.toscrape.com", cfg.Site.BaseURL)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid yaml", "site: [unclosed"},
		{"bad fetcher", "crawl:\n  fetcher: telnet\n"},
		{"zero timeout", "http:\n  timeout_seconds: 0\n"},
		{"negative retries", "http:\n  retries: -1\n"},
		{"negative delay", "crawl:\n  author_delay_ms: -5\n"},
		{"empty base url", "site:\n  base_url: \"\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
