package ledger

import (
	"context"

	"financx/internal/core"
)

// dashboardRecentLimit caps the recent-activity list on the dashboard.
const dashboardRecentLimit = 15

// Dashboard is the aggregate snapshot backing the landing view.
type Dashboard struct {
	Accounts           []core.Account     `json:"accounts"`
	NetTotal           core.Money         `json:"net_total"`
	AccountCount       int                `json:"account_count"`
	RecentTransactions []core.Transaction `json:"recent_transactions"`
	CurrentMonth       string             `json:"current_month"`
	MonthlyFlow        core.Money         `json:"monthly_flow"`
}

// SpendingByCategory aggregates expense transactions in the inclusive date
// range by category, largest spender first. A range with no expenses, or
// an inverted range, yields no rows.
func (s *Service) SpendingByCategory(ctx context.Context, start, end string) ([]core.ReportRow, error) {
	from, err := core.ParseDate(start)
	if err != nil {
		return nil, err
	}
	to, err := core.ParseDate(end)
	if err != nil {
		return nil, err
	}
	return s.store.SpendingByCategory(ctx, from, to)
}

// Dashboard computes the landing-view snapshot: all accounts with derived
// balances, the net total, recent activity, and the current month's signed
// cash flow.
func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	accounts, err := s.store.ListAccounts(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	net, err := s.store.NetTotal(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	recent, err := s.store.ListTransactions(ctx, nil, dashboardRecentLimit)
	if err != nil {
		return Dashboard{}, err
	}
	month := core.MonthOf(s.now())
	flow, err := s.store.MonthlyFlow(ctx, month)
	if err != nil {
		return Dashboard{}, err
	}
	return Dashboard{
		Accounts:           accounts,
		NetTotal:           net,
		AccountCount:       len(accounts),
		RecentTransactions: recent,
		CurrentMonth:       month.String(),
		MonthlyFlow:        flow,
	}, nil
}
