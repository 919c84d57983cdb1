package storage

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

// Expense is the raw expenses row.
type Expense struct {
	ID            int64
	UserID        int64
	AmountCents   int64
	Category      string
	Description   string
	CreatedAt     string
	Source        string
	TransactionID sql.NullString
	AccountName   sql.NullString
	PaymentMethod sql.NullString
}

// CategorySum is one row of the summary aggregation.
type CategorySum struct {
	Category   string
	TotalCents int64
	Count      int64
}

// BudgetLimitsRow is the raw budget_limits row; NULL means unset.
type BudgetLimitsRow struct {
	UserID       int64
	DailyCents   sql.NullInt64
	WeeklyCents  sql.NullInt64
	MonthlyCents sql.NullInt64
}

const upsertUser = `
INSERT INTO users (user_id) VALUES (?)
ON CONFLICT (user_id) DO NOTHING
`

func (q *Queries) UpsertUser(ctx context.Context, userID int64) error {
	_, err := q.db.ExecContext(ctx, upsertUser, userID)
	return err
}

const createExpense = `
INSERT INTO expenses (user_id, amount_cents, category, description, created_at, source, transaction_id, account_name, payment_method)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING id
`

type CreateExpenseParams struct {
	UserID        int64
	AmountCents   int64
	Category      string
	Description   string
	CreatedAt     string
	Source        string
	TransactionID sql.NullString
	AccountName   sql.NullString
	PaymentMethod sql.NullString
}

func (q *Queries) CreateExpense(ctx context.Context, arg CreateExpenseParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, createExpense,
		arg.UserID,
		arg.AmountCents,
		arg.Category,
		arg.Description,
		arg.CreatedAt,
		arg.Source,
		arg.TransactionID,
		arg.AccountName,
		arg.PaymentMethod,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const getSummary = `
SELECT category, SUM(amount_cents) AS total_cents, COUNT(*) AS cnt
FROM expenses
WHERE user_id = ? AND created_at >= ?
GROUP BY category
ORDER BY total_cents DESC, category ASC
`

func (q *Queries) GetSummary(ctx context.Context, userID int64, since string) ([]CategorySum, error) {
	rows, err := q.db.QueryContext(ctx, getSummary, userID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CategorySum
	for rows.Next() {
		var cs CategorySum
		if err := rows.Scan(&cs.Category, &cs.TotalCents, &cs.Count); err != nil {
			return nil, err
		}
		out = append(out, cs)
	}
	return out, rows.Err()
}

const getTotalSince = `
SELECT COALESCE(SUM(amount_cents), 0)
FROM expenses
WHERE user_id = ? AND created_at >= ?
`

func (q *Queries) GetTotalSince(ctx context.Context, userID int64, since string) (int64, error) {
	var total int64
	err := q.db.QueryRowContext(ctx, getTotalSince, userID, since).Scan(&total)
	return total, err
}

const getBudgetLimits = `
SELECT user_id, daily_cents, weekly_cents, monthly_cents
FROM budget_limits
WHERE user_id = ?
`

func (q *Queries) GetBudgetLimits(ctx context.Context, userID int64) (BudgetLimitsRow, error) {
	var row BudgetLimitsRow
	err := q.db.QueryRowContext(ctx, getBudgetLimits, userID).
		Scan(&row.UserID, &row.DailyCents, &row.WeeklyCents, &row.MonthlyCents)
	return row, err
}

const setDailyLimit = `
INSERT INTO budget_limits (user_id, daily_cents, updated_at) VALUES (?, ?, datetime('now'))
ON CONFLICT (user_id) DO UPDATE SET daily_cents = excluded.daily_cents, updated_at = datetime('now')
`

const setWeeklyLimit = `
INSERT INTO budget_limits (user_id, weekly_cents, updated_at) VALUES (?, ?, datetime('now'))
ON CONFLICT (user_id) DO UPDATE SET weekly_cents = excluded.weekly_cents, updated_at = datetime('now')
`

const setMonthlyLimit = `
INSERT INTO budget_limits (user_id, monthly_cents, updated_at) VALUES (?, ?, datetime('now'))
ON CONFLICT (user_id) DO UPDATE SET monthly_cents = excluded.monthly_cents, updated_at = datetime('now')
`

func (q *Queries) SetDailyLimit(ctx context.Context, userID, cents int64) error {
	_, err := q.db.ExecContext(ctx, setDailyLimit, userID, cents)
	return err
}

func (q *Queries) SetWeeklyLimit(ctx context.Context, userID, cents int64) error {
	_, err := q.db.ExecContext(ctx, setWeeklyLimit, userID, cents)
	return err
}

func (q *Queries) SetMonthlyLimit(ctx context.Context, userID, cents int64) error {
	_, err := q.db.ExecContext(ctx, setMonthlyLimit, userID, cents)
	return err
}

const getRecentExpenses = `
SELECT id, user_id, amount_cents, category, description, created_at, source, transaction_id, account_name, payment_method
FROM expenses
WHERE user_id = ?
ORDER BY created_at DESC, id DESC
LIMIT ?
`

func (q *Queries) GetRecentExpenses(ctx context.Context, userID int64, limit int64) ([]Expense, error) {
	rows, err := q.db.QueryContext(ctx, getRecentExpenses, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Expense
	for rows.Next() {
		var e Expense
		if err := rows.Scan(&e.ID, &e.UserID, &e.AmountCents, &e.Category, &e.Description,
			&e.CreatedAt, &e.Source, &e.TransactionID, &e.AccountName, &e.PaymentMethod); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

const deleteLastExpense = `
DELETE FROM expenses
WHERE id = (
    SELECT id FROM expenses
    WHERE user_id = ?
    ORDER BY created_at DESC, id DESC
    LIMIT 1
)
`

func (q *Queries) DeleteLastExpense(ctx context.Context, userID int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteLastExpense, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
