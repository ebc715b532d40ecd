package core

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// MaxNameLen bounds account and category names.
	MaxNameLen = 100
	// MaxDescriptionLen bounds transaction descriptions.
	MaxDescriptionLen = 255

	// UncategorizedName is the system-owned fallback category. It always
	// exists and can never be renamed, retyped or deleted.
	UncategorizedName = "Uncategorized"

	dateLayout  = "2006-01-02"
	monthLayout = "2006-01"
)

// CategoryType classifies a category as income or expense.
type CategoryType string

const (
	Expense CategoryType = "expense"
	Income  CategoryType = "income"
)

// Valid reports whether the type is one of the two known kinds.
func (t CategoryType) Valid() bool {
	return t == Expense || t == Income
}

var (
	ErrEmptyName          = errors.New("empty name")
	ErrNameTooLong        = errors.New("name too long")
	ErrEmptyDescription   = errors.New("empty description")
	ErrDescriptionTooLong = errors.New("description too long")
	ErrDuplicateName      = errors.New("duplicate name")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidType        = errors.New("invalid category type")
	ErrInvalidDate        = errors.New("invalid date")
	ErrInvalidMonth       = errors.New("invalid month")
	ErrInvalidTheme       = errors.New("invalid theme")
	ErrNotFound           = errors.New("not found")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrProtectedCategory  = errors.New("protected category")
)

type (
	// Date is a calendar date with no time component.
	Date struct {
		time.Time
	}

	// Month is a calendar month (year + month granularity), the key space
	// of budget entries.
	Month struct {
		Year  int
		Month time.Month
	}

	// Account is a root entity. CurrentBalance is always derived from the
	// initial balance plus the transaction log, never stored.
	Account struct {
		ID             int64  `json:"id"`
		Name           string `json:"name"`
		InitialBalance Money  `json:"initial_balance"`
		CurrentBalance Money  `json:"current_balance"`
	}

	// Category is a root entity weakly referenced by transactions.
	Category struct {
		ID   int64        `json:"id"`
		Name string       `json:"name"`
		Type CategoryType `json:"type"`
	}

	// Transaction is a financial event owned by an account. A negative
	// amount is an expense, a positive one income; the sign is the source
	// of truth for the classification. CategoryID is nil when the entry
	// resolves to Uncategorized.
	Transaction struct {
		ID           int64  `json:"id"`
		AccountID    int64  `json:"account_id"`
		AccountName  string `json:"account_name"`
		Date         Date   `json:"date"`
		Description  string `json:"description"`
		Amount       Money  `json:"amount"`
		CategoryID   *int64 `json:"category_id"`
		CategoryName string `json:"category_name"`
	}

	// BudgetRow is the derived budget-vs-actual view for one expense
	// category in one month. Spent is a non-negative magnitude.
	BudgetRow struct {
		CategoryID   int64  `json:"category_id"`
		CategoryName string `json:"category_name"`
		Budgeted     Money  `json:"budgeted_amount"`
		Spent        Money  `json:"spent_amount"`
		Remaining    Money  `json:"remaining_amount"`
		OverBudget   bool   `json:"over_budget"`
	}

	// ReportRow is one line of the spending-by-category report.
	ReportRow struct {
		CategoryName string `json:"category_name"`
		Spent        Money  `json:"spent_amount"`
	}
)

// IsProtected reports whether the category is the system-owned
// Uncategorized fallback.
func (c Category) IsProtected() bool {
	return strings.EqualFold(c.Name, UncategorizedName)
}

// Progress returns the budget consumption as a percentage capped at 100,
// and whether the ratio is unbounded (spending against a zero budget).
// Callers must render the unbounded case specially instead of showing a
// finite percentage.
func (b BudgetRow) Progress() (percent int, unbounded bool) {
	if b.Budgeted.IsZero() {
		return 0, b.Spent.IsPositive()
	}
	percent = int(b.Spent.Cents * 100 / b.Budgeted.Cents)
	if percent > 100 {
		percent = 100
	}
	if percent < 0 {
		percent = 0
	}
	return percent, false
}

// ParseDate parses an ISO calendar date (YYYY-MM-DD).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// NewDate creates a Date from year, month, day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// String renders the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format(dateLayout)
}

// MarshalJSON encodes the date as its ISO string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes a JSON "YYYY-MM-DD" string.
func (d *Date) UnmarshalJSON(data []byte) error {
	parsed, err := ParseDate(strings.Trim(string(data), `"`))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseMonth parses a YYYY-MM month key.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse(monthLayout, strings.TrimSpace(s))
	if err != nil {
		return Month{}, ErrInvalidMonth
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

// MonthOf returns the calendar month containing t.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// String renders the month as YYYY-MM.
func (m Month) String() string {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC).Format(monthLayout)
}

// ValidateName checks an account or category name: non-empty after
// trimming, at most MaxNameLen characters. Limits count characters, not
// bytes, so multi-byte names are not penalized.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	if utf8.RuneCountInString(name) > MaxNameLen {
		return ErrNameTooLong
	}
	return nil
}

// ValidateDescription checks a transaction description: non-empty after
// trimming, at most MaxDescriptionLen characters.
func ValidateDescription(desc string) error {
	desc = strings.TrimSpace(desc)
	if desc == "" {
		return ErrEmptyDescription
	}
	if utf8.RuneCountInString(desc) > MaxDescriptionLen {
		return ErrDescriptionTooLong
	}
	return nil
}
