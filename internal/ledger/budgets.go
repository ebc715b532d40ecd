package ledger

import (
	"context"
	"errors"

	"financx/internal/core"
)

// SetBudget assigns a monthly cap to an expense category, replacing any
// previous value for the same category and month. The amount must be a
// non-negative decimal.
func (s *Service) SetBudget(ctx context.Context, categoryID int64, month, amount string) error {
	m, err := core.ParseMonth(month)
	if err != nil {
		return err
	}
	budget, err := core.ParseAmount(amount)
	if err != nil {
		return err
	}
	if budget.IsNegative() {
		return core.ErrInvalidAmount
	}
	category, err := s.store.GetCategory(ctx, categoryID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.ErrCategoryNotFound
		}
		return err
	}
	if category.Type != core.Expense {
		return core.ErrInvalidType
	}
	return s.store.UpsertBudget(ctx, categoryID, m, budget)
}

// BudgetRows computes the budget-versus-actual view for one month. A row
// appears for every expense category that has a nonzero budget or nonzero
// spending in the month; spending is the sum of the absolute values of the
// category's negative transactions.
func (s *Service) BudgetRows(ctx context.Context, month string) ([]core.BudgetRow, error) {
	m, err := core.ParseMonth(month)
	if err != nil {
		return nil, err
	}
	uncategorizedID, err := s.store.UncategorizedID(ctx)
	if err != nil {
		return nil, err
	}
	all, err := s.store.BudgetRows(ctx, m, uncategorizedID)
	if err != nil {
		return nil, err
	}
	rows := make([]core.BudgetRow, 0, len(all))
	for _, row := range all {
		if !row.Budgeted.IsZero() || !row.Spent.IsZero() {
			rows = append(rows, row)
		}
	}
	return rows, nil
}
