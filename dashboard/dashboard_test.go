package dashboard

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"quotes-scraper/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sample = []models.Quote{
	{Author: "Albert Einstein", Text: "“Q1”", Tags: []string{"change", "world", "thinking"}, SourceURL: "http://quotes.toscrape.com/"},
	{Author: "J.K. Rowling", Text: "“Q2”", Tags: []string{"abilities", "choices"}, SourceURL: "http://quotes.toscrape.com/"},
	{Author: "Albert Einstein", Text: "“Q3”", Tags: []string{"world", "life"}, SourceURL: "http://quotes.toscrape.com/page/2/"},
	{Author: "Albert Einstein", Text: "“Q4”", Tags: []string{}, SourceURL: ""},
}

func TestNew_UniqueAuthorsInOrder(t *testing.T) {
	d := New(sample)
	assert.Equal(t, []string{"Albert Einstein", "J.K. Rowling"}, d.Authors())
	assert.Len(t, d.Quotes(), 4)

	assert.Equal(t, []string{}, New(nil).Authors())
}

func TestStats(t *testing.T) {
	stats, err := New(sample).Stats("Albert Einstein", "")
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalQuotes)
	assert.Equal(t, "Total de citações de Albert Einstein: 3", stats.Summary)
	assert.Equal(t, []TagCount{
		{Tag: "world", Count: 2},
		{Tag: "change", Count: 1},
		{Tag: "life", Count: 1},
		{Tag: "thinking", Count: 1},
	}, stats.Tags)
	require.Len(t, stats.Quotes, 3)
	assert.Equal(t, "“Q3”", stats.Quotes[1].Text)
}

func TestStats_NarrowedByTag(t *testing.T) {
	stats, err := New(sample).Stats("Albert Einstein", "world")
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalQuotes)
	assert.Equal(t, "world", stats.Tag)
	assert.Len(t, stats.Tags, 4)
	require.Len(t, stats.Quotes, 2)
	assert.Equal(t, "“Q1”", stats.Quotes[0].Text)
	assert.Equal(t, "“Q3”", stats.Quotes[1].Text)

	stats, err = New(sample).Stats("Albert Einstein", "choices")
	require.NoError(t, err)
	assert.Empty(t, stats.Quotes)
}

func TestStats_NoSelection(t *testing.T) {
	_, err := New(sample).Stats("", "")
	assert.ErrorIs(t, err, ErrNoAuthor)
	assert.Equal(t, "Nenhum autor selecionado.", err.Error())
}

func TestStats_UnknownAuthor(t *testing.T) {
	_, err := New(sample).Stats("Jane Austen", "")
	assert.ErrorIs(t, err, ErrUnknownAuthor)
}

func TestTagFrequency_Empty(t *testing.T) {
	assert.Empty(t, TagFrequency(nil))
	assert.Empty(t, TagFrequency([]models.Quote{{Tags: []string{""}}}))
}

func TestCloud(t *testing.T) {
	cloud := Cloud([]TagCount{{"a", 5}, {"b", 3}, {"c", 1}})
	require.Len(t, cloud, 3)
	assert.Equal(t, maxTagSize, cloud[0].Size)
	assert.Equal(t, 22, cloud[1].Size)
	assert.Equal(t, minTagSize, cloud[2].Size)

	single := Cloud([]TagCount{{"a", 2}, {"b", 2}})
	assert.Equal(t, maxTagSize, single[0].Size)
	assert.Equal(t, maxTagSize, single[1].Size)

	assert.Empty(t, Cloud(nil))
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(sample).Render(&buf, "Albert Einstein"))
	html := buf.String()

	assert.Contains(t, html, "Total de citações de Albert Einstein: 3")
	assert.Contains(t, html, `<option value="Albert Einstein" selected>`)
	assert.Contains(t, html, `<option value="J.K. Rowling">`)
	assert.Contains(t, html, `href="http://quotes.toscrape.com/page/2/"`)
	assert.Contains(t, html, `<span class="badge">world</span>`)
	assert.Contains(t, html, "font-size:32px")
	assert.NotContains(t, html, "J.K. Rowling: ")
}

func TestRender_NoSelection(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(sample).Render(&buf, ""))
	assert.Contains(t, buf.String(), "Nenhum autor selecionado.")
	assert.NotContains(t, buf.String(), "lista-citacoes")
}

func TestRender_EscapesText(t *testing.T) {
	d := New([]models.Quote{{Author: "<b>X</b>", Text: "<script>", Tags: []string{}}})
	var buf bytes.Buffer
	require.NoError(t, d.Render(&buf, "<b>X</b>"))
	assert.NotContains(t, buf.String(), "<script>")
	assert.Contains(t, buf.String(), "&lt;script&gt;")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dados.csv")
	content := "autor,citacao,tags,pagina\n" +
		"Albert Einstein,“Q1”,\"['change', 'world']\",http://quotes.toscrape.com/\n" +
		"Jane Austen,“Q2”,[],http://quotes.toscrape.com/page/2/\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	d, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Albert Einstein", "Jane Austen"}, d.Authors())

	stats, err := d.Stats("Albert Einstein", "")
	require.NoError(t, err)
	assert.Equal(t, []TagCount{{"change", 1}, {"world", 1}}, stats.Tags)

	_, err = Load(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
