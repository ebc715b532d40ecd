package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"financx/internal/core"
)

const transactionColumns = `
	t.id, t.account_id, a.name, t.date, t.description, t.amount_cents,
	t.category_id, IFNULL(c.name, 'Uncategorized')
	FROM transactions t
	JOIN accounts a ON t.account_id = a.id
	LEFT JOIN categories c ON t.category_id = c.id`

// InsertTransaction appends a transaction to the log after verifying its
// references inside the same transaction: an unknown account fails with
// core.ErrNotFound, an unknown category with core.ErrCategoryNotFound.
func (s *Store) InsertTransaction(ctx context.Context, accountID int64, date core.Date, description string, amount core.Money, categoryID *int64) (int64, error) {
	var id int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := checkReferences(ctx, tx, accountID, categoryID); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `
			INSERT INTO transactions (account_id, date, description, amount_cents, category_id)
			VALUES (?, ?, ?, ?, ?)`,
			accountID, date.String(), description, amount.Cents, categoryID)
		if err != nil {
			return fmt.Errorf("insert transaction: %w", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("transaction insert id: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	slog.InfoContext(ctx, "Transaction added",
		"id", id, "account_id", accountID, "date", date.String(), "amount_cents", amount.Cents)
	return id, nil
}

// UpdateTransaction rewrites a log entry. Reassigning the account moves
// the entry's contribution to the new account's derived balance.
func (s *Store) UpdateTransaction(ctx context.Context, id, accountID int64, date core.Date, description string, amount core.Money, categoryID *int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := checkReferences(ctx, tx, accountID, categoryID); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `
			UPDATE transactions
			SET account_id = ?, date = ?, description = ?, amount_cents = ?, category_id = ?
			WHERE id = ?`,
			accountID, date.String(), description, amount.Cents, categoryID, id)
		if err != nil {
			return fmt.Errorf("update transaction %d: %w", id, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("update transaction %d: %w", id, err)
		}
		if affected == 0 {
			return core.ErrNotFound
		}
		return nil
	})
}

// DeleteTransaction removes one log entry.
func (s *Store) DeleteTransaction(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete transaction %d: %w", id, err)
	}
	if affected == 0 {
		return core.ErrNotFound
	}
	return nil
}

// GetTransaction returns one log entry with resolved account and category
// names.
func (s *Store) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	var (
		tr      core.Transaction
		dateStr string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` WHERE t.id = ?`, id).
		Scan(&tr.ID, &tr.AccountID, &tr.AccountName, &dateStr, &tr.Description,
			&tr.Amount.Cents, &tr.CategoryID, &tr.CategoryName)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction %d: %w", id, mapNotFound(err))
	}
	tr.Date, err = core.ParseDate(dateStr)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("transaction %d has bad date %q: %w", id, dateStr, err)
	}
	return tr, nil
}

// ListTransactions returns log entries ordered by date descending with
// insertion order descending as tie-break (most recent first). A non-nil
// accountID filters to one account; a positive limit bounds the result.
func (s *Store) ListTransactions(ctx context.Context, accountID *int64, limit int) ([]core.Transaction, error) {
	query := `SELECT ` + transactionColumns
	args := []any{}
	if accountID != nil {
		query += ` WHERE t.account_id = ?`
		args = append(args, *accountID)
	}
	query += ` ORDER BY t.date DESC, t.id DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return s.queryTransactions(ctx, query, args...)
}

// ListTransactionsInRange returns log entries with dates inside
// [start, end] inclusive, most recent first. An inverted range simply
// matches nothing.
func (s *Store) ListTransactionsInRange(ctx context.Context, start, end core.Date) ([]core.Transaction, error) {
	query := `SELECT ` + transactionColumns +
		` WHERE t.date BETWEEN ? AND ? ORDER BY t.date DESC, t.id DESC`
	return s.queryTransactions(ctx, query, start.String(), end.String())
}

func (s *Store) queryTransactions(ctx context.Context, query string, args ...any) ([]core.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var transactions []core.Transaction
	for rows.Next() {
		var (
			tr      core.Transaction
			dateStr string
		)
		if err := rows.Scan(&tr.ID, &tr.AccountID, &tr.AccountName, &dateStr,
			&tr.Description, &tr.Amount.Cents, &tr.CategoryID, &tr.CategoryName); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		if tr.Date, err = core.ParseDate(dateStr); err != nil {
			return nil, fmt.Errorf("transaction %d has bad date %q: %w", tr.ID, dateStr, err)
		}
		transactions = append(transactions, tr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return transactions, nil
}

// checkReferences verifies the account and (when given) category a
// transaction points at, inside the write transaction.
func checkReferences(ctx context.Context, tx *sql.Tx, accountID int64, categoryID *int64) error {
	var one int
	if err := tx.QueryRowContext(ctx,
		`SELECT 1 FROM accounts WHERE id = ?`, accountID).Scan(&one); err != nil {
		if err == sql.ErrNoRows {
			return core.ErrNotFound
		}
		return fmt.Errorf("check account %d: %w", accountID, err)
	}
	if categoryID != nil {
		if err := tx.QueryRowContext(ctx,
			`SELECT 1 FROM categories WHERE id = ?`, *categoryID).Scan(&one); err != nil {
			if err == sql.ErrNoRows {
				return core.ErrCategoryNotFound
			}
			return fmt.Errorf("check category %d: %w", *categoryID, err)
		}
	}
	return nil
}
