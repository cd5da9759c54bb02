package models

// Author column names as written to the authors CSV
const (
	ColumnAuthorName          = "author"
	ColumnAuthorBirthDate     = "data nascimento"
	ColumnAuthorBirthLocation = "local nascimento"
	ColumnAuthorDescription   = "descricao"
)

// AuthorColumns is the header of the authors CSV, in order
var AuthorColumns = []string{ColumnAuthorName, ColumnAuthorBirthDate, ColumnAuthorBirthLocation, ColumnAuthorDescription}

// Author represents the biography found on an author detail page
type Author struct {
	Name          string `json:"name"`
	BirthDate     string `json:"birth_date"`
	BirthLocation string `json:"birth_location"`
	Biography     string `json:"biography"` // Sanitized: quote characters and select punctuation stripped
	URL           string `json:"url"`       // Detail page URL, not part of the CSV
}

// Columns implements csvio.Record
func (a Author) Columns() []string {
	return AuthorColumns
}

// Values implements csvio.Record
func (a Author) Values() []string {
	return []string{a.Name, a.BirthDate, a.BirthLocation, a.Biography}
}

// AuthorFromRow builds an Author from a CSV row keyed by column name
func AuthorFromRow(row map[string]string) Author {
	return Author{
		Name:          row[ColumnAuthorName],
		BirthDate:     row[ColumnAuthorBirthDate],
		BirthLocation: row[ColumnAuthorBirthLocation],
		Biography:     row[ColumnAuthorDescription],
	}
}
