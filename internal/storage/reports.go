package storage

import (
	"context"
	"fmt"

	"financx/internal/core"
)

// SpendingByCategory sums the magnitude of expense transactions (negative
// amounts) per category over [start, end] inclusive. Categories with no
// matching spend are omitted; rows are ordered by spent amount descending
// for chart rendering. An inverted range yields an empty result.
func (s *Store) SpendingByCategory(ctx context.Context, start, end core.Date) ([]core.ReportRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT IFNULL(c.name, 'Uncategorized') AS category_name,
		       -SUM(t.amount_cents) AS spent_cents
		FROM transactions t
		LEFT JOIN categories c ON t.category_id = c.id
		WHERE t.amount_cents < 0 AND t.date BETWEEN ? AND ?
		GROUP BY category_name
		ORDER BY spent_cents DESC`,
		start.String(), end.String())
	if err != nil {
		return nil, fmt.Errorf("query spending by category: %w", err)
	}
	defer rows.Close()

	var report []core.ReportRow
	for rows.Next() {
		var row core.ReportRow
		if err := rows.Scan(&row.CategoryName, &row.Spent.Cents); err != nil {
			return nil, fmt.Errorf("scan report row: %w", err)
		}
		report = append(report, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate report rows: %w", err)
	}
	return report, nil
}

// MonthlyFlow returns the net cash flow of the given month across all
// accounts: income and expenses contribute with their natural sign.
func (s *Store) MonthlyFlow(ctx context.Context, month core.Month) (core.Money, error) {
	var cents int64
	err := s.db.QueryRowContext(ctx, `
		SELECT IFNULL(SUM(amount_cents), 0)
		FROM transactions
		WHERE substr(date, 1, 7) = ?`, month.String()).
		Scan(&cents)
	if err != nil {
		return core.Money{}, fmt.Errorf("monthly flow: %w", err)
	}
	return core.Money{Cents: cents}, nil
}
