// Package google writes ledger snapshots to a Google Sheets spreadsheet
// using service-account credentials.
package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"financx/internal/core"
	"financx/internal/export"
)

// Client writes snapshots to three sheets of one spreadsheet: one each for
// transactions, accounts and categories. Every export clears and rewrites
// the sheets in full.
type Client struct {
	svc               *gsheet.Service
	spreadsheetID     string
	transactionsSheet string
	accountsSheet     string
	categoriesSheet   string
}

var _ export.Writer = (*Client)(nil)

// Config names the destination spreadsheet and its sheets.
type Config struct {
	SpreadsheetID     string
	TransactionsSheet string
	AccountsSheet     string
	CategoriesSheet   string
}

// New creates a Sheets client from service-account credentials found in
// the environment: GOOGLE_SERVICE_ACCOUNT_JSON (inline),
// GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS (paths).
func New(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return &Client{
		svc:               svc,
		spreadsheetID:     cfg.SpreadsheetID,
		transactionsSheet: sheetNameOrDefault(cfg.TransactionsSheet, "Transactions"),
		accountsSheet:     sheetNameOrDefault(cfg.AccountsSheet, "Accounts"),
		categoriesSheet:   sheetNameOrDefault(cfg.CategoriesSheet, "Categories"),
	}, nil
}

func sheetNameOrDefault(name, fallback string) string {
	if strings.TrimSpace(name) == "" {
		return fallback
	}
	return strings.TrimSpace(name)
}

func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	inline := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	file := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if inline == "" && file == "" {
		file = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentials []byte
	switch {
	case inline != "":
		credentials = []byte(inline)
	case file != "":
		var err error
		credentials, err = os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	return gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentials),
		goption.WithScopes(gsheet.SpreadsheetsScope))
}

// WriteSnapshot clears and rewrites the three destination sheets.
func (c *Client) WriteSnapshot(ctx context.Context, snap export.Snapshot) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}
	if err := c.writeSheet(ctx, c.transactionsSheet, transactionRows(snap.Transactions)); err != nil {
		return err
	}
	if err := c.writeSheet(ctx, c.accountsSheet, accountRows(snap.Accounts)); err != nil {
		return err
	}
	return c.writeSheet(ctx, c.categoriesSheet, categoryRows(snap.Categories))
}

func (c *Client) writeSheet(ctx context.Context, sheet string, rows [][]any) error {
	clearRange := fmt.Sprintf("%s!A:Z", sheet)
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, clearRange, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear sheet %s: %w", sheet, err)
	}
	writeRange := fmt.Sprintf("%s!A1", sheet)
	vr := &gsheet.ValueRange{Values: rows}
	if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, writeRange, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do(); err != nil {
		return fmt.Errorf("write sheet %s: %w", sheet, err)
	}
	return nil
}

func transactionRows(transactions []core.Transaction) [][]any {
	rows := make([][]any, 0, len(transactions)+1)
	rows = append(rows, []any{"ID", "Date", "Account", "Description", "Category", "Amount"})
	for _, t := range transactions {
		rows = append(rows, []any{t.ID, t.Date.String(), t.AccountName, t.Description, t.CategoryName, t.Amount.String()})
	}
	return rows
}

func accountRows(accounts []core.Account) [][]any {
	rows := make([][]any, 0, len(accounts)+1)
	rows = append(rows, []any{"ID", "Name", "Initial Balance", "Current Balance"})
	for _, a := range accounts {
		rows = append(rows, []any{a.ID, a.Name, a.InitialBalance.String(), a.CurrentBalance.String()})
	}
	return rows
}

func categoryRows(categories []core.Category) [][]any {
	rows := make([][]any, 0, len(categories)+1)
	rows = append(rows, []any{"ID", "Name", "Type"})
	for _, c := range categories {
		rows = append(rows, []any{c.ID, c.Name, string(c.Type)})
	}
	return rows
}
