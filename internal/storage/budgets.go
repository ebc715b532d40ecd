package storage

import (
	"context"
	"fmt"
	"log/slog"

	"financx/internal/core"
)

// UpsertBudget sets the single budget row for (category, month). Setting
// the same value twice is idempotent; setting 0 keeps the row with value 0.
func (s *Store) UpsertBudget(ctx context.Context, categoryID int64, month core.Month, amount core.Money) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO budgets (category_id, month, amount_cents) VALUES (?, ?, ?)
		ON CONFLICT (category_id, month) DO UPDATE SET amount_cents = excluded.amount_cents`,
		categoryID, month.String(), amount.Cents)
	if err != nil {
		return fmt.Errorf("upsert budget: %w", err)
	}

	slog.InfoContext(ctx, "Budget set",
		"category_id", categoryID, "month", month.String(), "amount_cents", amount.Cents)
	return nil
}

// BudgetRows computes budgeted and spent amounts for every expense
// category in the given month. Spending is the magnitude of the negative
// amounts; entries with a NULL category resolve to the Uncategorized
// category. Rows are ordered by category name; filtering out categories
// with neither budget nor spending is left to the caller.
func (s *Store) BudgetRows(ctx context.Context, month core.Month, uncategorizedID int64) ([]core.BudgetRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.name,
		       IFNULL(b.amount_cents, 0),
		       IFNULL((SELECT -SUM(t.amount_cents)
		               FROM transactions t
		               WHERE IFNULL(t.category_id, ?) = c.id
		                 AND substr(t.date, 1, 7) = ?
		                 AND t.amount_cents < 0), 0)
		FROM categories c
		LEFT JOIN budgets b ON b.category_id = c.id AND b.month = ?
		WHERE c.type = 'expense'
		ORDER BY c.name COLLATE NOCASE`,
		uncategorizedID, month.String(), month.String())
	if err != nil {
		return nil, fmt.Errorf("query budget rows: %w", err)
	}
	defer rows.Close()

	var result []core.BudgetRow
	for rows.Next() {
		var row core.BudgetRow
		if err := rows.Scan(&row.CategoryID, &row.CategoryName,
			&row.Budgeted.Cents, &row.Spent.Cents); err != nil {
			return nil, fmt.Errorf("scan budget row: %w", err)
		}
		row.Remaining = row.Budgeted.Sub(row.Spent)
		row.OverBudget = row.Budgeted.IsPositive() && row.Spent.Cents > row.Budgeted.Cents
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate budget rows: %w", err)
	}
	return result, nil
}
