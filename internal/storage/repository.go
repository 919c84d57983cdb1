package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"expensebot/internal/core"
)

// timeLayout is the canonical created_at format. Timestamps are stored in
// UTC as sortable strings so that window cutoffs computed in Go compare
// correctly in SQL.
const timeLayout = "2006-01-02 15:04:05"

// SQLiteRepository is the authoritative Store backed by a local SQLite file.
type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
	now     func() time.Time
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
		now:     time.Now,
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) SaveExpense(ctx context.Context, userID int64, rec core.ExpenseRecord) (int64, error) {
	if err := rec.Validate(); err != nil {
		return 0, fmt.Errorf("validate expense: %w", err)
	}

	if err := r.queries.UpsertUser(ctx, userID); err != nil {
		return 0, fmt.Errorf("upsert user: %w", err)
	}

	ts := rec.Timestamp
	if ts.IsZero() {
		ts = r.now()
	}

	params := CreateExpenseParams{
		UserID:      userID,
		AmountCents: core.Cents(rec.Amount),
		Category:    rec.Category,
		Description: rec.Description,
		CreatedAt:   ts.UTC().Format(timeLayout),
		Source:      string(rec.Source),
	}
	if rec.Payment != nil {
		params.TransactionID = nullString(rec.Payment.TransactionID)
		params.AccountName = nullString(rec.Payment.AccountName)
		params.PaymentMethod = nullString(rec.Payment.PaymentMethod)
	}

	id, err := r.queries.CreateExpense(ctx, params)
	if err != nil {
		return 0, fmt.Errorf("create expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved to SQLite",
		"id", id,
		"user_id", userID,
		"category", rec.Category,
		"amount", rec.Amount.String(),
		"source", rec.Source)

	return id, nil
}

func (r *SQLiteRepository) Summary(ctx context.Context, userID int64, days int) ([]core.CategorySummary, error) {
	sums, err := r.queries.GetSummary(ctx, userID, r.cutoffDays(days))
	if err != nil {
		return nil, fmt.Errorf("get summary: %w", err)
	}

	out := make([]core.CategorySummary, len(sums))
	for i, s := range sums {
		out[i] = core.CategorySummary{
			Category: s.Category,
			Total:    core.FromCents(s.TotalCents),
			Count:    s.Count,
		}
	}
	return out, nil
}

func (r *SQLiteRepository) TotalToday(ctx context.Context, userID int64) (decimal.Decimal, error) {
	return r.totalSince(ctx, userID, r.startOfToday())
}

func (r *SQLiteRepository) TotalWeek(ctx context.Context, userID int64) (decimal.Decimal, error) {
	return r.totalSince(ctx, userID, r.cutoffDays(7))
}

func (r *SQLiteRepository) TotalMonth(ctx context.Context, userID int64) (decimal.Decimal, error) {
	return r.totalSince(ctx, userID, r.cutoffDays(30))
}

func (r *SQLiteRepository) totalSince(ctx context.Context, userID int64, since string) (decimal.Decimal, error) {
	cents, err := r.queries.GetTotalSince(ctx, userID, since)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("get total: %w", err)
	}
	return core.FromCents(cents), nil
}

func (r *SQLiteRepository) BudgetLimits(ctx context.Context, userID int64) (core.BudgetLimits, error) {
	row, err := r.queries.GetBudgetLimits(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return core.BudgetLimits{}, nil
	}
	if err != nil {
		return core.BudgetLimits{}, fmt.Errorf("get budget limits: %w", err)
	}

	return core.BudgetLimits{
		Daily:   limitFromCents(row.DailyCents),
		Weekly:  limitFromCents(row.WeeklyCents),
		Monthly: limitFromCents(row.MonthlyCents),
	}, nil
}

func (r *SQLiteRepository) SetBudgetLimit(ctx context.Context, userID int64, period core.Period, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("set budget limit: %w", core.ErrInvalidAmount)
	}
	if err := r.queries.UpsertUser(ctx, userID); err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}

	cents := core.Cents(amount)
	var err error
	switch period {
	case core.PeriodDaily:
		err = r.queries.SetDailyLimit(ctx, userID, cents)
	case core.PeriodWeekly:
		err = r.queries.SetWeeklyLimit(ctx, userID, cents)
	case core.PeriodMonthly:
		err = r.queries.SetMonthlyLimit(ctx, userID, cents)
	default:
		return fmt.Errorf("set budget limit: %w", core.ErrInvalidPeriod)
	}
	if err != nil {
		return fmt.Errorf("set %s limit: %w", period, err)
	}

	slog.InfoContext(ctx, "Budget limit updated",
		"user_id", userID,
		"period", period,
		"amount", amount.String())
	return nil
}

func (r *SQLiteRepository) RecentExpenses(ctx context.Context, userID int64, limit int) ([]core.ExpenseRecord, error) {
	rowsData, err := r.queries.GetRecentExpenses(ctx, userID, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("get recent expenses: %w", err)
	}

	out := make([]core.ExpenseRecord, len(rowsData))
	for i, e := range rowsData {
		rec := core.ExpenseRecord{
			Amount:      core.FromCents(e.AmountCents),
			Category:    e.Category,
			Description: e.Description,
			Source:      core.Source(e.Source),
		}
		if ts, parseErr := time.ParseInLocation(timeLayout, e.CreatedAt, time.UTC); parseErr == nil {
			rec.Timestamp = ts
		}
		if e.TransactionID.Valid || e.AccountName.Valid || e.PaymentMethod.Valid {
			rec.Payment = &core.PaymentDetails{
				TransactionID: e.TransactionID.String,
				AccountName:   e.AccountName.String,
				PaymentMethod: e.PaymentMethod.String,
			}
		}
		out[i] = rec
	}
	return out, nil
}

func (r *SQLiteRepository) DeleteLastExpense(ctx context.Context, userID int64) error {
	affected, err := r.queries.DeleteLastExpense(ctx, userID)
	if err != nil {
		return fmt.Errorf("delete last expense: %w", err)
	}
	if affected == 0 {
		return ErrNoExpenses
	}

	slog.InfoContext(ctx, "Last expense deleted", "user_id", userID)
	return nil
}

// cutoffDays returns the created_at lower bound for a trailing N-day window.
func (r *SQLiteRepository) cutoffDays(days int) string {
	return r.now().UTC().AddDate(0, 0, -days).Format(timeLayout)
}

// startOfToday returns midnight UTC of the current day.
func (r *SQLiteRepository) startOfToday() string {
	now := r.now().UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return midnight.Format(timeLayout)
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func limitFromCents(v sql.NullInt64) *decimal.Decimal {
	if !v.Valid {
		return nil
	}
	d := core.FromCents(v.Int64)
	return &d
}
