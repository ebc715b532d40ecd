// Package ledger implements the command and query surface of the finance
// tracker: account, category and transaction stores plus the balance,
// budget and report engines. All monetary aggregates are derived from the
// transaction log on every query; nothing derived is ever persisted.
package ledger

import (
	"context"
	"strings"
	"time"

	"financx/internal/core"
)

// Store is the persistence boundary the service runs on. It is satisfied
// by *storage.Store.
type Store interface {
	CreateAccount(ctx context.Context, name string, initialBalance core.Money) (int64, error)
	GetAccount(ctx context.Context, id int64) (core.Account, error)
	ListAccounts(ctx context.Context) ([]core.Account, error)
	UpdateAccount(ctx context.Context, id int64, name string, initialBalance core.Money) error
	DeleteAccount(ctx context.Context, id int64) error
	NetTotal(ctx context.Context) (core.Money, error)

	CreateCategory(ctx context.Context, name string, typ core.CategoryType) (int64, error)
	GetCategory(ctx context.Context, id int64) (core.Category, error)
	ListCategories(ctx context.Context, typ core.CategoryType) ([]core.Category, error)
	UpdateCategory(ctx context.Context, id int64, name string, typ core.CategoryType) error
	DeleteCategoryCascade(ctx context.Context, id, uncategorizedID int64) error
	UncategorizedID(ctx context.Context) (int64, error)

	InsertTransaction(ctx context.Context, accountID int64, date core.Date, description string, amount core.Money, categoryID *int64) (int64, error)
	UpdateTransaction(ctx context.Context, id, accountID int64, date core.Date, description string, amount core.Money, categoryID *int64) error
	DeleteTransaction(ctx context.Context, id int64) error
	GetTransaction(ctx context.Context, id int64) (core.Transaction, error)
	ListTransactions(ctx context.Context, accountID *int64, limit int) ([]core.Transaction, error)
	ListTransactionsInRange(ctx context.Context, start, end core.Date) ([]core.Transaction, error)

	UpsertBudget(ctx context.Context, categoryID int64, month core.Month, amount core.Money) error
	BudgetRows(ctx context.Context, month core.Month, uncategorizedID int64) ([]core.BudgetRow, error)

	SpendingByCategory(ctx context.Context, start, end core.Date) ([]core.ReportRow, error)
	MonthlyFlow(ctx context.Context, month core.Month) (core.Money, error)

	GetSetting(ctx context.Context, key, fallback string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
}

// Service exposes the ledger operations to the UI layer. All failures are
// deterministic validation outcomes returned as core sentinel errors; the
// service never retries and never aborts the process.
type Service struct {
	store Store
	now   func() time.Time
}

// New creates a Service on the given store.
func New(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// CreateAccount validates and creates an account. A blank initial balance
// defaults to zero.
func (s *Service) CreateAccount(ctx context.Context, name, initialBalance string) (core.Account, error) {
	name = strings.TrimSpace(name)
	if err := core.ValidateName(name); err != nil {
		return core.Account{}, err
	}
	balance, err := parseOptionalAmount(initialBalance)
	if err != nil {
		return core.Account{}, err
	}
	id, err := s.store.CreateAccount(ctx, name, balance)
	if err != nil {
		return core.Account{}, err
	}
	return s.store.GetAccount(ctx, id)
}

// UpdateAccount validates and rewrites an account. Changing the initial
// balance shifts the derived current balance by the delta.
func (s *Service) UpdateAccount(ctx context.Context, id int64, name, initialBalance string) (core.Account, error) {
	name = strings.TrimSpace(name)
	if err := core.ValidateName(name); err != nil {
		return core.Account{}, err
	}
	balance, err := parseOptionalAmount(initialBalance)
	if err != nil {
		return core.Account{}, err
	}
	if err := s.store.UpdateAccount(ctx, id, name, balance); err != nil {
		return core.Account{}, err
	}
	return s.store.GetAccount(ctx, id)
}

// DeleteAccount removes an account and cascades the delete to all of its
// transactions. The operation is irreversible and all-or-nothing.
func (s *Service) DeleteAccount(ctx context.Context, id int64) error {
	return s.store.DeleteAccount(ctx, id)
}

// ListAccounts returns all accounts with derived current balances.
func (s *Service) ListAccounts(ctx context.Context) ([]core.Account, error) {
	return s.store.ListAccounts(ctx)
}

// NetTotal returns the sum of current balances across all accounts.
func (s *Service) NetTotal(ctx context.Context) (core.Money, error) {
	return s.store.NetTotal(ctx)
}

// CreateCategory validates and creates a category.
func (s *Service) CreateCategory(ctx context.Context, name, typ string) (core.Category, error) {
	name = strings.TrimSpace(name)
	if err := core.ValidateName(name); err != nil {
		return core.Category{}, err
	}
	catType := core.CategoryType(strings.ToLower(strings.TrimSpace(typ)))
	if !catType.Valid() {
		return core.Category{}, core.ErrInvalidType
	}
	id, err := s.store.CreateCategory(ctx, name, catType)
	if err != nil {
		return core.Category{}, err
	}
	return s.store.GetCategory(ctx, id)
}

// UpdateCategory renames and retypes a category. The Uncategorized
// fallback is immutable.
func (s *Service) UpdateCategory(ctx context.Context, id int64, name, typ string) (core.Category, error) {
	existing, err := s.store.GetCategory(ctx, id)
	if err != nil {
		return core.Category{}, err
	}
	if existing.IsProtected() {
		return core.Category{}, core.ErrProtectedCategory
	}
	name = strings.TrimSpace(name)
	if err := core.ValidateName(name); err != nil {
		return core.Category{}, err
	}
	// Renaming anything to the fallback's name is also off limits.
	if strings.EqualFold(name, core.UncategorizedName) {
		return core.Category{}, core.ErrDuplicateName
	}
	catType := core.CategoryType(strings.ToLower(strings.TrimSpace(typ)))
	if !catType.Valid() {
		return core.Category{}, core.ErrInvalidType
	}
	if err := s.store.UpdateCategory(ctx, id, name, catType); err != nil {
		return core.Category{}, err
	}
	return s.store.GetCategory(ctx, id)
}

// DeleteCategory removes a category: its transactions are reassigned to
// Uncategorized and its budget rows dropped, atomically. The Uncategorized
// fallback cannot be deleted.
func (s *Service) DeleteCategory(ctx context.Context, id int64) error {
	existing, err := s.store.GetCategory(ctx, id)
	if err != nil {
		return err
	}
	if existing.IsProtected() {
		return core.ErrProtectedCategory
	}
	uncategorizedID, err := s.store.UncategorizedID(ctx)
	if err != nil {
		return err
	}
	return s.store.DeleteCategoryCascade(ctx, id, uncategorizedID)
}

// ListCategories returns all categories, filtered by type when typ is
// "expense" or "income"; any other filter value means no filter (the UI
// sends an empty string for "all").
func (s *Service) ListCategories(ctx context.Context, typ string) ([]core.Category, error) {
	return s.store.ListCategories(ctx, core.CategoryType(strings.ToLower(strings.TrimSpace(typ))))
}

// Theme returns the persisted display theme, defaulting to "light".
func (s *Service) Theme(ctx context.Context) (string, error) {
	return s.store.GetSetting(ctx, "theme", "light")
}

// SetTheme persists the display theme preference.
func (s *Service) SetTheme(ctx context.Context, theme string) error {
	if theme != "light" && theme != "dark" {
		return core.ErrInvalidTheme
	}
	return s.store.SetSetting(ctx, "theme", theme)
}

// parseOptionalAmount treats a blank string as zero, otherwise parses a
// signed decimal amount.
func parseOptionalAmount(s string) (core.Money, error) {
	if strings.TrimSpace(s) == "" {
		return core.Money{}, nil
	}
	return core.ParseAmount(s)
}
