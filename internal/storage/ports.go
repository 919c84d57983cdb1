package storage

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"expensebot/internal/core"
)

// ErrNoExpenses is returned by DeleteLastExpense when the user has no
// recorded expenses. Backends translate their driver sentinels into it.
var ErrNoExpenses = errors.New("no expenses recorded")

// Store is the persistence port the services and the report surface depend
// on. The core treats every read as a snapshot: all aggregation happens in
// the store, evaluators only consume the numbers handed back.
type Store interface {
	// SaveExpense persists a validated record and returns its id.
	SaveExpense(ctx context.Context, userID int64, rec core.ExpenseRecord) (int64, error)

	// Summary returns per-category totals over the trailing window, sorted
	// descending by total.
	Summary(ctx context.Context, userID int64, days int) ([]core.CategorySummary, error)

	TotalToday(ctx context.Context, userID int64) (decimal.Decimal, error)
	TotalWeek(ctx context.Context, userID int64) (decimal.Decimal, error)
	TotalMonth(ctx context.Context, userID int64) (decimal.Decimal, error)

	BudgetLimits(ctx context.Context, userID int64) (core.BudgetLimits, error)
	SetBudgetLimit(ctx context.Context, userID int64, period core.Period, amount decimal.Decimal) error

	RecentExpenses(ctx context.Context, userID int64, limit int) ([]core.ExpenseRecord, error)
	DeleteLastExpense(ctx context.Context, userID int64) error

	Close() error
}
