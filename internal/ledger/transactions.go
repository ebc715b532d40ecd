package ledger

import (
	"context"
	"strings"

	"financx/internal/core"
)

// TransactionInput carries the raw fields of an add/update transaction
// command before validation.
type TransactionInput struct {
	AccountID   int64
	Date        string
	Description string
	Amount      string
	CategoryID  *int64
}

func (in TransactionInput) parse() (date core.Date, description string, amount core.Money, err error) {
	description = strings.TrimSpace(in.Description)
	if err = core.ValidateDescription(description); err != nil {
		return
	}
	if date, err = core.ParseDate(in.Date); err != nil {
		return
	}
	amount, err = core.ParseAmount(in.Amount)
	return
}

// AddTransaction validates and appends a transaction to the log. The
// account must exist; a non-nil category id must reference an existing
// category or the command fails with ErrCategoryNotFound.
func (s *Service) AddTransaction(ctx context.Context, in TransactionInput) (core.Transaction, error) {
	date, description, amount, err := in.parse()
	if err != nil {
		return core.Transaction{}, err
	}
	id, err := s.store.InsertTransaction(ctx, in.AccountID, date, description, amount, in.CategoryID)
	if err != nil {
		return core.Transaction{}, err
	}
	return s.store.GetTransaction(ctx, id)
}

// UpdateTransaction validates and rewrites every field of an existing
// transaction, including moving it between accounts.
func (s *Service) UpdateTransaction(ctx context.Context, id int64, in TransactionInput) (core.Transaction, error) {
	date, description, amount, err := in.parse()
	if err != nil {
		return core.Transaction{}, err
	}
	if err := s.store.UpdateTransaction(ctx, id, in.AccountID, date, description, amount, in.CategoryID); err != nil {
		return core.Transaction{}, err
	}
	return s.store.GetTransaction(ctx, id)
}

// DeleteTransaction removes a single transaction from the log.
func (s *Service) DeleteTransaction(ctx context.Context, id int64) error {
	return s.store.DeleteTransaction(ctx, id)
}

// GetTransaction returns a single transaction with its account and
// category names resolved.
func (s *Service) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	return s.store.GetTransaction(ctx, id)
}

// ListTransactions returns transactions newest first, ties broken by
// insertion order (most recent insert first). A non-nil accountID filters
// to one account; limit <= 0 means no limit.
func (s *Service) ListTransactions(ctx context.Context, accountID *int64, limit int) ([]core.Transaction, error) {
	return s.store.ListTransactions(ctx, accountID, limit)
}

// TransactionsInRange returns transactions dated inside the inclusive
// range, newest first.
func (s *Service) TransactionsInRange(ctx context.Context, start, end string) ([]core.Transaction, error) {
	from, err := core.ParseDate(start)
	if err != nil {
		return nil, err
	}
	to, err := core.ParseDate(end)
	if err != nil {
		return nil, err
	}
	return s.store.ListTransactionsInRange(ctx, from, to)
}
