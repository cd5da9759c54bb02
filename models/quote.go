package models

// Quote column names as written to the quotes CSV
const (
	ColumnQuoteAuthor = "autor"
	ColumnQuoteText   = "citacao"
	ColumnQuoteTags   = "tags"
	ColumnQuotePage   = "pagina"
)

// QuoteColumns is the header of the quotes CSV, in order
var QuoteColumns = []string{ColumnQuoteAuthor, ColumnQuoteText, ColumnQuoteTags, ColumnQuotePage}

// Quote represents one quote block found on a listing page
type Quote struct {
	Author    string   `json:"author"`
	Text      string   `json:"text"`
	Tags      []string `json:"tags"`
	SourceURL string   `json:"source_url"` // Resolved URL of the listing page the quote was found on
}

// Columns implements csvio.Record
func (q Quote) Columns() []string {
	return QuoteColumns
}

// Values implements csvio.Record
func (q Quote) Values() []string {
	return []string{q.Author, q.Text, FormatTagList(q.Tags), q.SourceURL}
}

// QuoteFromRow builds a Quote from a CSV row keyed by column name
func QuoteFromRow(row map[string]string) (Quote, error) {
	tags, err := ParseTagList(row[ColumnQuoteTags])
	if err != nil {
		return Quote{}, err
	}
	return Quote{
		Author:    row[ColumnQuoteAuthor],
		Text:      row[ColumnQuoteText],
		Tags:      tags,
		SourceURL: row[ColumnQuotePage],
	}, nil
}
