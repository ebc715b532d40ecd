package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"financx/internal/core"
)

// CreateAccount inserts a new account and returns its id. A name clash
// (case-insensitive) fails with core.ErrDuplicateName.
func (s *Store) CreateAccount(ctx context.Context, name string, initialBalance core.Money) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO accounts (name, initial_balance_cents) VALUES (?, ?)`,
		name, initialBalance.Cents)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, core.ErrDuplicateName
		}
		return 0, fmt.Errorf("insert account: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("account insert id: %w", err)
	}

	slog.InfoContext(ctx, "Account created", "id", id, "name", name)
	return id, nil
}

// GetAccount returns one account with its derived current balance.
func (s *Store) GetAccount(ctx context.Context, id int64) (core.Account, error) {
	var acc core.Account
	err := s.db.QueryRowContext(ctx, `
		SELECT a.id, a.name, a.initial_balance_cents,
		       a.initial_balance_cents + IFNULL(SUM(t.amount_cents), 0)
		FROM accounts a
		LEFT JOIN transactions t ON t.account_id = a.id
		WHERE a.id = ?
		GROUP BY a.id`, id).
		Scan(&acc.ID, &acc.Name, &acc.InitialBalance.Cents, &acc.CurrentBalance.Cents)
	if err != nil {
		return core.Account{}, fmt.Errorf("get account %d: %w", id, mapNotFound(err))
	}
	return acc, nil
}

// ListAccounts returns all accounts ordered by name, each with its current
// balance derived from the initial balance plus the transaction log.
func (s *Store) ListAccounts(ctx context.Context) ([]core.Account, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT a.id, a.name, a.initial_balance_cents,
		       a.initial_balance_cents + IFNULL(SUM(t.amount_cents), 0)
		FROM accounts a
		LEFT JOIN transactions t ON t.account_id = a.id
		GROUP BY a.id
		ORDER BY a.name COLLATE NOCASE`)
	if err != nil {
		return nil, fmt.Errorf("query accounts: %w", err)
	}
	defer rows.Close()

	var accounts []core.Account
	for rows.Next() {
		var acc core.Account
		if err := rows.Scan(&acc.ID, &acc.Name, &acc.InitialBalance.Cents, &acc.CurrentBalance.Cents); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}
	return accounts, nil
}

// UpdateAccount changes an account's name and initial balance. Changing
// the initial balance shifts the derived current balance by the delta;
// no transaction is synthesized.
func (s *Store) UpdateAccount(ctx context.Context, id int64, name string, initialBalance core.Money) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE accounts SET name = ?, initial_balance_cents = ? WHERE id = ?`,
		name, initialBalance.Cents, id)
	if err != nil {
		if isUniqueViolation(err) {
			return core.ErrDuplicateName
		}
		return fmt.Errorf("update account %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update account %d: %w", id, err)
	}
	if affected == 0 {
		return core.ErrNotFound
	}
	return nil
}

// DeleteAccount removes an account and every transaction it owns as one
// atomic unit.
func (s *Store) DeleteAccount(ctx context.Context, id int64) error {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM transactions WHERE account_id = ?`, id); err != nil {
			return fmt.Errorf("delete account transactions: %w", err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete account: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("delete account: %w", err)
		}
		if affected == 0 {
			return core.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "Account deleted with its transactions", "id", id)
	return nil
}

// NetTotal returns the sum of current balances across all accounts.
func (s *Store) NetTotal(ctx context.Context) (core.Money, error) {
	var cents int64
	err := s.db.QueryRowContext(ctx, `
		SELECT IFNULL((SELECT SUM(initial_balance_cents) FROM accounts), 0)
		     + IFNULL((SELECT SUM(amount_cents) FROM transactions), 0)`).
		Scan(&cents)
	if err != nil {
		return core.Money{}, fmt.Errorf("net total: %w", err)
	}
	return core.Money{Cents: cents}, nil
}
