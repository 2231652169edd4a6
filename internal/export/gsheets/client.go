// Package gsheets mirrors the transaction ledger and monthly spending
// reports into a Google Spreadsheet.
package gsheets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"

	"fintrack/internal/analytics"
	"fintrack/internal/core"
)

type Client struct {
	svc           *sheets.Service
	spreadsheetID string
	ledgerSheet   string
	reportSheet   string
}

// New builds a Sheets client for the given spreadsheet. Credentials come
// from GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE or
// GOOGLE_APPLICATION_CREDENTIALS.
func New(ctx context.Context, spreadsheetID, ledgerSheet, reportSheet string) (*Client, error) {
	if strings.TrimSpace(spreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	if ledgerSheet == "" {
		ledgerSheet = "Transactions"
	}
	if reportSheet == "" {
		reportSheet = "Report"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		ledgerSheet:   ledgerSheet,
		reportSheet:   reportSheet,
	}, nil
}

func newSheetsService(ctx context.Context) (*sheets.Service, error) {
	credsJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	credsFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if credsJSON == "" && credsFile == "" {
		credsFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentials []byte
	switch {
	case credsJSON != "":
		credentials = []byte(credsJSON)
	case credsFile != "":
		data, err := os.ReadFile(credsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentials = data
	default:
		return nil, errors.New("no service account credentials configured")
	}

	svc, err := sheets.NewService(ctx,
		option.WithCredentialsJSON(credentials),
		option.WithScopes(sheets.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return svc, nil
}

// AppendTransaction adds one ledger row: date, description, amount,
// category name and the backend record id for later reconciliation.
func (c *Client) AppendTransaction(ctx context.Context, t core.Transaction) error {
	row := []any{
		t.Date.Format("2006-01-02"),
		t.Description,
		t.Amount.InexactFloat64(),
		core.CategoryName(t.Category),
		t.ID,
	}
	vr := &sheets.ValueRange{Values: [][]any{row}}

	rng := fmt.Sprintf("%s!A:E", c.ledgerSheet)
	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append ledger row: %w", err)
	}
	return nil
}

// WriteMonthlyReport replaces the report sheet contents with the
// per-category spending report for one period. Month is 0-based.
func (c *Client) WriteMonthlyReport(ctx context.Context, month, year int, rows []analytics.ReportRow) error {
	values := [][]any{
		{fmt.Sprintf("Spending report %d-%02d", year, month+1)},
		{"Category", "Spending", "Budget", "Remaining", "Used %"},
	}
	for _, row := range rows {
		values = append(values, []any{
			row.Category.Name,
			row.Spending.InexactFloat64(),
			row.Budget.InexactFloat64(),
			row.Remaining.InexactFloat64(),
			row.Percentage.InexactFloat64(),
		})
	}

	clearRng := fmt.Sprintf("%s!A:E", c.reportSheet)
	_, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, clearRng, &sheets.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clear report sheet: %w", err)
	}

	writeRng := fmt.Sprintf("%s!A1", c.reportSheet)
	vr := &sheets.ValueRange{Values: values}
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, writeRng, vr).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write report sheet: %w", err)
	}
	return nil
}
