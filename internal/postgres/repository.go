// Package postgres implements the storage.Store port on PostgreSQL via
// pgx. It is the multi-instance alternative to the SQLite backend; the two
// must agree on aggregation semantics.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"expensebot/internal/core"
	"expensebot/internal/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
    user_id BIGINT PRIMARY KEY,
    username TEXT,
    first_name TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS expenses (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL REFERENCES users(user_id),
    amount NUMERIC(14,2) NOT NULL CHECK (amount > 0),
    category TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL,
    source TEXT NOT NULL DEFAULT 'text',
    transaction_id TEXT,
    account_name TEXT,
    payment_method TEXT
);

CREATE INDEX IF NOT EXISTS idx_expenses_user_created ON expenses(user_id, created_at);

CREATE TABLE IF NOT EXISTS budget_limits (
    user_id BIGINT PRIMARY KEY REFERENCES users(user_id),
    daily_limit NUMERIC(14,2),
    weekly_limit NUMERIC(14,2),
    monthly_limit NUMERIC(14,2),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// Repository is a Store backed by a pgx connection pool.
type Repository struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

func NewRepository(ctx context.Context, url string) (*Repository, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return &Repository{pool: pool, now: time.Now}, nil
}

func (r *Repository) Close() error {
	r.pool.Close()
	return nil
}

func (r *Repository) SaveExpense(ctx context.Context, userID int64, rec core.ExpenseRecord) (int64, error) {
	if err := rec.Validate(); err != nil {
		return 0, fmt.Errorf("validate expense: %w", err)
	}

	if _, err := r.pool.Exec(ctx,
		`INSERT INTO users (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`, userID); err != nil {
		return 0, fmt.Errorf("upsert user: %w", err)
	}

	ts := rec.Timestamp
	if ts.IsZero() {
		ts = r.now()
	}

	var txID, account, method *string
	if rec.Payment != nil {
		txID = nilIfEmpty(rec.Payment.TransactionID)
		account = nilIfEmpty(rec.Payment.AccountName)
		method = nilIfEmpty(rec.Payment.PaymentMethod)
	}

	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO expenses (user_id, amount, category, description, created_at, source, transaction_id, account_name, payment_method)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`,
		userID, rec.Amount.String(), rec.Category, rec.Description, ts.UTC(),
		string(rec.Source), txID, account, method,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved to Postgres",
		"id", id,
		"user_id", userID,
		"category", rec.Category,
		"amount", rec.Amount.String())
	return id, nil
}

func (r *Repository) Summary(ctx context.Context, userID int64, days int) ([]core.CategorySummary, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT category, SUM(amount)::text, COUNT(*)
		FROM expenses
		WHERE user_id = $1 AND created_at >= $2
		GROUP BY category
		ORDER BY SUM(amount) DESC, category ASC`,
		userID, r.now().UTC().AddDate(0, 0, -days))
	if err != nil {
		return nil, fmt.Errorf("get summary: %w", err)
	}
	defer rows.Close()

	var out []core.CategorySummary
	for rows.Next() {
		var (
			cs    core.CategorySummary
			total string
		)
		if err := rows.Scan(&cs.Category, &total, &cs.Count); err != nil {
			return nil, fmt.Errorf("scan summary row: %w", err)
		}
		if cs.Total, err = decimal.NewFromString(total); err != nil {
			return nil, fmt.Errorf("parse total %q: %w", total, err)
		}
		out = append(out, cs)
	}
	return out, rows.Err()
}

func (r *Repository) TotalToday(ctx context.Context, userID int64) (decimal.Decimal, error) {
	now := r.now().UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return r.totalSince(ctx, userID, midnight)
}

func (r *Repository) TotalWeek(ctx context.Context, userID int64) (decimal.Decimal, error) {
	return r.totalSince(ctx, userID, r.now().UTC().AddDate(0, 0, -7))
}

func (r *Repository) TotalMonth(ctx context.Context, userID int64) (decimal.Decimal, error) {
	return r.totalSince(ctx, userID, r.now().UTC().AddDate(0, 0, -30))
}

func (r *Repository) totalSince(ctx context.Context, userID int64, cutoff time.Time) (decimal.Decimal, error) {
	var total string
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0)::text
		FROM expenses
		WHERE user_id = $1 AND created_at >= $2`,
		userID, cutoff).Scan(&total)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("get total: %w", err)
	}
	return decimal.NewFromString(total)
}

func (r *Repository) BudgetLimits(ctx context.Context, userID int64) (core.BudgetLimits, error) {
	var daily, weekly, monthly *string
	err := r.pool.QueryRow(ctx, `
		SELECT daily_limit::text, weekly_limit::text, monthly_limit::text
		FROM budget_limits
		WHERE user_id = $1`,
		userID).Scan(&daily, &weekly, &monthly)
	if errors.Is(err, pgx.ErrNoRows) {
		return core.BudgetLimits{}, nil
	}
	if err != nil {
		return core.BudgetLimits{}, fmt.Errorf("get budget limits: %w", err)
	}

	limits := core.BudgetLimits{}
	if limits.Daily, err = parseLimit(daily); err != nil {
		return core.BudgetLimits{}, err
	}
	if limits.Weekly, err = parseLimit(weekly); err != nil {
		return core.BudgetLimits{}, err
	}
	if limits.Monthly, err = parseLimit(monthly); err != nil {
		return core.BudgetLimits{}, err
	}
	return limits, nil
}

func (r *Repository) SetBudgetLimit(ctx context.Context, userID int64, period core.Period, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("set budget limit: %w", core.ErrInvalidAmount)
	}

	var column string
	switch period {
	case core.PeriodDaily:
		column = "daily_limit"
	case core.PeriodWeekly:
		column = "weekly_limit"
	case core.PeriodMonthly:
		column = "monthly_limit"
	default:
		return fmt.Errorf("set budget limit: %w", core.ErrInvalidPeriod)
	}

	if _, err := r.pool.Exec(ctx,
		`INSERT INTO users (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`, userID); err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO budget_limits (user_id, %[1]s, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (user_id) DO UPDATE SET %[1]s = excluded.%[1]s, updated_at = now()`, column)
	if _, err := r.pool.Exec(ctx, query, userID, amount.String()); err != nil {
		return fmt.Errorf("set %s limit: %w", period, err)
	}
	return nil
}

func (r *Repository) RecentExpenses(ctx context.Context, userID int64, limit int) ([]core.ExpenseRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT amount::text, category, description, created_at, source, transaction_id, account_name, payment_method
		FROM expenses
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("get recent expenses: %w", err)
	}
	defer rows.Close()

	var out []core.ExpenseRecord
	for rows.Next() {
		var (
			rec                   core.ExpenseRecord
			amount, source        string
			txID, account, method *string
		)
		if err := rows.Scan(&amount, &rec.Category, &rec.Description, &rec.Timestamp,
			&source, &txID, &account, &method); err != nil {
			return nil, fmt.Errorf("scan expense row: %w", err)
		}
		if rec.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("parse amount %q: %w", amount, err)
		}
		rec.Source = core.Source(source)
		if txID != nil || account != nil || method != nil {
			rec.Payment = &core.PaymentDetails{
				TransactionID: deref(txID),
				AccountName:   deref(account),
				PaymentMethod: deref(method),
			}
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *Repository) DeleteLastExpense(ctx context.Context, userID int64) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM expenses
		WHERE id = (
		    SELECT id FROM expenses
		    WHERE user_id = $1
		    ORDER BY created_at DESC, id DESC
		    LIMIT 1
		)`,
		userID)
	if err != nil {
		return fmt.Errorf("delete last expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNoExpenses
	}
	return nil
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func parseLimit(s *string) (*decimal.Decimal, error) {
	if s == nil {
		return nil, nil
	}
	d, err := decimal.NewFromString(*s)
	if err != nil {
		return nil, fmt.Errorf("parse limit %q: %w", *s, err)
	}
	return &d, nil
}
