package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"seniorcare/internal/core"
	"seniorcare/internal/reports"
)

// Sink appends monthly fund reports to a Google Sheets workbook, one block
// of rows per export.
type Sink struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

var _ reports.Sink = (*Sink)(nil)

// NewFromEnv creates a Sheets sink using environment variables.
// Required: GOOGLE_SPREADSHEET_ID.
// Credentials: GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS.
// Optional: GOOGLE_REPORT_SHEET_NAME (default "Fund Report").
func NewFromEnv(ctx context.Context) (*Sink, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	sheetName := strings.TrimSpace(os.Getenv("GOOGLE_REPORT_SHEET_NAME"))
	if sheetName == "" {
		sheetName = "Fund Report"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Sink{svc: svc, spreadsheetID: spreadsheetID, sheetName: sheetName}, nil
}

func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	inlineJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	credsFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if inlineJSON == "" && credsFile == "" {
		credsFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	switch {
	case inlineJSON != "":
		credentialsJSON = []byte(inlineJSON)
	case credsFile != "":
		b, err := os.ReadFile(credsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = b
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// PublishFundReport appends the report as rows: a summary row followed by
// one row per category breakdown entry.
func (s *Sink) PublishFundReport(ctx context.Context, report core.MonthlyFundReport) error {
	if s.svc == nil {
		return errors.New("sheets service not initialized")
	}

	values := [][]any{{
		fmt.Sprintf("%04d-%02d", report.Year, report.Month),
		"summary",
		report.Added.String(),
		report.Released.String(),
		report.Pending.String(),
		report.Available.String(),
	}}
	for _, row := range report.ByCategory {
		values = append(values, []any{
			fmt.Sprintf("%04d-%02d", report.Year, report.Month),
			row.Name,
			"", row.Amount.String(), "", "",
		})
	}

	rng := fmt.Sprintf("%s!A:F", s.sheetName)
	_, err := s.svc.Spreadsheets.Values.Append(s.spreadsheetID, rng,
		&gsheet.ValueRange{Values: values}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append report rows to %s: %w", s.sheetName, err)
	}

	slog.InfoContext(ctx, "Fund report rows appended",
		"sheet", s.sheetName, "rows", len(values),
		"year", report.Year, "month", report.Month)
	return nil
}
