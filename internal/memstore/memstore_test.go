package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"expensebot/internal/core"
	"expensebot/internal/storage"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestStore() *Store {
	return New().WithClock(func() time.Time { return testNow })
}

func record(amount int64, category string, ts time.Time) core.ExpenseRecord {
	return core.ExpenseRecord{
		Amount:    decimal.NewFromInt(amount),
		Category:  category,
		Timestamp: ts,
		Source:    core.SourceText,
	}
}

func TestStore_Summary_Ordering(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()
	const userID = 1

	for _, rec := range []core.ExpenseRecord{
		record(100, "Transport", testNow.Add(-time.Hour)),
		record(300, "Food", testNow.Add(-2*time.Hour)),
		record(150, "Transport", testNow.Add(-3*time.Hour)),
		record(999, "Travel", testNow.AddDate(0, 0, -40)), // outside window
	} {
		_, err := store.SaveExpense(ctx, userID, rec)
		require.NoError(t, err)
	}

	summary, err := store.Summary(ctx, userID, 30)
	require.NoError(t, err)
	require.Len(t, summary, 2)

	require.Equal(t, "Food", summary[0].Category)
	require.True(t, summary[0].Total.Equal(decimal.NewFromInt(300)))
	require.Equal(t, "Transport", summary[1].Category)
	require.True(t, summary[1].Total.Equal(decimal.NewFromInt(250)))
	require.EqualValues(t, 2, summary[1].Count)
}

func TestStore_Totals(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()
	const userID = 1

	_, err := store.SaveExpense(ctx, userID, record(150, "Food", testNow.Add(-time.Hour)))
	require.NoError(t, err)
	_, err = store.SaveExpense(ctx, userID, record(200, "Transport", testNow.AddDate(0, 0, -3)))
	require.NoError(t, err)
	_, err = store.SaveExpense(ctx, userID, record(400, "Shopping", testNow.AddDate(0, 0, -20)))
	require.NoError(t, err)
	_, err = store.SaveExpense(ctx, 2, record(777, "Food", testNow))
	require.NoError(t, err)

	today, err := store.TotalToday(ctx, userID)
	require.NoError(t, err)
	require.True(t, today.Equal(decimal.NewFromInt(150)))

	week, err := store.TotalWeek(ctx, userID)
	require.NoError(t, err)
	require.True(t, week.Equal(decimal.NewFromInt(350)))

	month, err := store.TotalMonth(ctx, userID)
	require.NoError(t, err)
	require.True(t, month.Equal(decimal.NewFromInt(750)))
}

func TestStore_TotalToday_UTCMidnight(t *testing.T) {
	// Clock sits at 03:00 on the 15th in IST, which is 21:30 UTC on the
	// 14th. The day boundary is UTC midnight of the 14th, matching the
	// SQLite backend, so a morning-of-the-14th expense still counts.
	ist := time.FixedZone("IST", 5*3600+1800)
	localNow := time.Date(2025, 6, 15, 3, 0, 0, 0, ist)
	store := New().WithClock(func() time.Time { return localNow })
	ctx := context.Background()
	const userID = 1

	_, err := store.SaveExpense(ctx, userID, record(120, "Food", time.Date(2025, 6, 14, 10, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	_, err = store.SaveExpense(ctx, userID, record(80, "Transport", time.Date(2025, 6, 13, 23, 0, 0, 0, time.UTC)))
	require.NoError(t, err)

	total, err := store.TotalToday(ctx, userID)
	require.NoError(t, err)
	require.True(t, total.Equal(decimal.NewFromInt(120)), "TotalToday = %s, want 120", total)
}

func TestStore_BudgetLimits(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()
	const userID = 5

	limits, err := store.BudgetLimits(ctx, userID)
	require.NoError(t, err)
	require.False(t, limits.HasAny())

	require.NoError(t, store.SetBudgetLimit(ctx, userID, core.PeriodWeekly, decimal.NewFromInt(3500)))

	limits, err = store.BudgetLimits(ctx, userID)
	require.NoError(t, err)
	require.Nil(t, limits.Daily)
	require.NotNil(t, limits.Weekly)
	require.True(t, limits.Weekly.Equal(decimal.NewFromInt(3500)))

	require.ErrorIs(t, store.SetBudgetLimit(ctx, userID, core.PeriodDaily, decimal.Zero), core.ErrInvalidAmount)
	require.ErrorIs(t, store.SetBudgetLimit(ctx, userID, "yearly", decimal.NewFromInt(1)), core.ErrInvalidPeriod)
}

func TestStore_RecentAndDelete(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()
	const userID = 9

	for i, category := range []string{"Food", "Transport", "Shopping"} {
		rec := record(int64(100*(i+1)), category, testNow.Add(time.Duration(i-3)*time.Hour))
		_, err := store.SaveExpense(ctx, userID, rec)
		require.NoError(t, err)
	}

	recent, err := store.RecentExpenses(ctx, userID, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	require.Equal(t, "Shopping", recent[0].Category)
	require.Equal(t, "Transport", recent[1].Category)

	require.NoError(t, store.DeleteLastExpense(ctx, userID))
	recent, err = store.RecentExpenses(ctx, userID, 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	require.Equal(t, "Transport", recent[0].Category)

	require.ErrorIs(t, store.DeleteLastExpense(ctx, 404), storage.ErrNoExpenses)
}

func TestStore_SaveExpense_Invalid(t *testing.T) {
	store := newTestStore()

	_, err := store.SaveExpense(context.Background(), 1, core.ExpenseRecord{
		Amount:   decimal.NewFromInt(-5),
		Category: "Food",
		Source:   core.SourceText,
	})
	require.ErrorIs(t, err, core.ErrInvalidAmount)
}
