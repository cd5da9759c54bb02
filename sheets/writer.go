// Package sheets exports crawl results to a Google spreadsheet, one new sheet
// per table and run.
package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"quotes-scraper/csvio"
	"quotes-scraper/models"

	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// maxSheetNameLen is the longest sheet title Google Sheets accepts
const maxSheetNameLen = 100

// Writer handles writing crawl results to Google Sheets
type Writer struct {
	service       *sheets.Service
	spreadsheetID string
}

// LoadCredentials reads service account JSON from credentialsPath, or from the
// GOOGLE_SHEETS_CREDENTIALS environment variable when the path is empty
func LoadCredentials(credentialsPath string) ([]byte, error) {
	var credsJSON []byte

	if credentialsPath != "" {
		data, err := os.ReadFile(credentialsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read credentials file: %w", err)
		}
		credsJSON = data
	} else {
		credsEnv := strings.TrimSpace(os.Getenv("GOOGLE_SHEETS_CREDENTIALS"))
		if credsEnv == "" {
			return nil, fmt.Errorf("credentials not found: GOOGLE_SHEETS_CREDENTIALS environment variable is empty or not set")
		}
		log.Debug().Int("bytes", len(credsEnv)).Msg("Reading credentials from GOOGLE_SHEETS_CREDENTIALS")
		credsJSON = []byte(credsEnv)
	}

	var creds map[string]interface{}
	if err := json.Unmarshal(credsJSON, &creds); err != nil {
		return nil, fmt.Errorf("invalid credentials JSON (check if JSON is properly formatted): %w", err)
	}
	if creds["type"] != "service_account" {
		return nil, fmt.Errorf("credentials must be a service account JSON file (type: service_account), got type: %v", creds["type"])
	}

	return credsJSON, nil
}

// NewWriter creates a new Google Sheets writer
func NewWriter(ctx context.Context, spreadsheetID, credentialsPath string) (*Writer, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet ID must not be empty")
	}

	credsJSON, err := LoadCredentials(credentialsPath)
	if err != nil {
		return nil, err
	}

	service, err := sheets.NewService(ctx, option.WithCredentialsJSON(credsJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Writer{
		service:       service,
		spreadsheetID: spreadsheetID,
	}, nil
}

// WriteQuotes creates a "Quotes <label>" sheet holding every quote
func (w *Writer) WriteQuotes(ctx context.Context, label string, quotes []models.Quote) (string, int64, error) {
	return w.CreateSheetAndWrite(ctx, "Quotes "+label, BuildValues(quotes))
}

// WriteAuthors creates an "Authors <label>" sheet holding every author
func (w *Writer) WriteAuthors(ctx context.Context, label string, authors []models.Author) (string, int64, error) {
	return w.CreateSheetAndWrite(ctx, "Authors "+label, BuildValues(authors))
}

// CreateSheetAndWrite creates a new sheet at the beginning of the spreadsheet
// and writes values to it. It returns the sheet name and sheet ID (gid).
func (w *Writer) CreateSheetAndWrite(ctx context.Context, sheetName string, values [][]interface{}) (string, int64, error) {
	if len(values) == 0 {
		return "", 0, csvio.ErrEmptyInput
	}
	sheetName = SanitizeSheetName(sheetName)

	batchUpdateRequest := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			{
				AddSheet: &sheets.AddSheetRequest{
					Properties: &sheets.SheetProperties{
						Title: sheetName,
						Index: 0,
					},
				},
			},
		},
	}

	batchUpdateResp, err := w.service.Spreadsheets.BatchUpdate(w.spreadsheetID, batchUpdateRequest).Context(ctx).Do()
	if err != nil {
		return "", 0, fmt.Errorf("failed to create sheet: %w", err)
	}

	var sheetID int64
	if len(batchUpdateResp.Replies) > 0 && batchUpdateResp.Replies[0].AddSheet != nil {
		sheetID = batchUpdateResp.Replies[0].AddSheet.Properties.SheetId
	}
	log.Info().Str("sheet", sheetName).Int64("sheet_id", sheetID).Msg("Created sheet")

	valueRange := &sheets.ValueRange{
		Values: values,
	}
	_, err = w.service.Spreadsheets.Values.Update(w.spreadsheetID, fmt.Sprintf("'%s'!A1", sheetName), valueRange).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return "", 0, fmt.Errorf("failed to write to sheet: %w", err)
	}

	log.Info().Str("sheet", sheetName).Int("rows", len(values)-1).Msg("Wrote rows to Google Sheets")
	return sheetName, sheetID, nil
}

// SheetURL returns a link that opens a specific sheet of the spreadsheet
func (w *Writer) SheetURL(sheetID int64) string {
	return SheetURL(w.spreadsheetID, sheetID)
}

// BuildValues turns records into sheet rows: a header from the first record's
// columns, then one row per record. Zero records give zero rows.
func BuildValues[T csvio.Record](records []T) [][]interface{} {
	if len(records) == 0 {
		return nil
	}

	values := make([][]interface{}, 0, len(records)+1)
	values = append(values, toRow(records[0].Columns()))
	for _, r := range records {
		values = append(values, toRow(r.Values()))
	}
	return values
}

func toRow(cells []string) []interface{} {
	row := make([]interface{}, len(cells))
	for i, c := range cells {
		row[i] = c
	}
	return row
}

// SanitizeSheetName removes characters Google Sheets rejects in sheet titles
func SanitizeSheetName(name string) string {
	invalidChars := []string{"/", "\\", "?", "*", "[", "]", "'"}
	result := name
	for _, char := range invalidChars {
		result = strings.ReplaceAll(result, char, "_")
	}
	result = strings.TrimSpace(result)
	if result == "" {
		result = "Sheet1"
	}
	if len(result) > maxSheetNameLen {
		result = result[:maxSheetNameLen]
	}
	return result
}

// ExtractSpreadsheetID extracts the spreadsheet ID from a Google Sheets URL
// such as https://docs.google.com/spreadsheets/d/SPREADSHEET_ID/edit?usp=sharing.
// A bare ID is returned unchanged.
func ExtractSpreadsheetID(url string) string {
	url = strings.TrimSpace(url)
	if !strings.Contains(url, "/") {
		return url
	}

	parts := strings.Split(url, "/d/")
	if len(parts) < 2 {
		return ""
	}

	idPart := parts[1]
	if idx := strings.IndexAny(idPart, "/?#"); idx != -1 {
		idPart = idPart[:idx]
	}

	return strings.TrimSpace(idPart)
}

// SheetURL builds the URL of a sheet inside a spreadsheet
func SheetURL(spreadsheetID string, sheetID int64) string {
	return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/edit#gid=%d", spreadsheetID, sheetID)
}
