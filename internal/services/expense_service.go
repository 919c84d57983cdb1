// Package services wires parsing, storage, budgets and messaging into the
// operations the worker and the report surface call.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"expensebot/internal/amqp"
	"expensebot/internal/analytics"
	"expensebot/internal/budget"
	"expensebot/internal/core"
	"expensebot/internal/nlp"
	"expensebot/internal/storage"
)

// AdvisoryPublisher pushes budget advisories back toward the user. The
// AMQP client satisfies it; tests substitute a recorder.
type AdvisoryPublisher interface {
	PublishAdvisory(ctx context.Context, msg *amqp.Advisory) error
}

// ExpenseService orchestrates the ingest pipeline: parse the raw text,
// persist the expense, evaluate budgets and emit an advisory when spending
// crosses the caution bands.
type ExpenseService struct {
	store     storage.Store
	parser    *nlp.Parser
	publisher AdvisoryPublisher
}

func NewExpenseService(store storage.Store, parser *nlp.Parser, publisher AdvisoryPublisher) *ExpenseService {
	if parser == nil {
		parser = nlp.NewParser(nil)
	}
	return &ExpenseService{
		store:     store,
		parser:    parser,
		publisher: publisher,
	}
}

// IngestResult reports what a single ingest produced.
type IngestResult struct {
	ID       int64
	Record   core.ExpenseRecord
	Statuses []budget.Status
	Advisory string
}

// Ingest parses raw text into an expense, saves it and evaluates budgets.
// Payment may be nil; a zero timestamp defaults to now inside the store.
func (s *ExpenseService) Ingest(ctx context.Context, userID int64, text string, source core.Source, payment *core.PaymentDetails, ts time.Time) (*IngestResult, error) {
	rec, err := s.parser.Parse(text)
	if err != nil {
		return nil, err
	}
	rec.Source = source
	rec.Payment = payment
	rec.Timestamp = ts

	id, err := s.store.SaveExpense(ctx, userID, rec)
	if err != nil {
		return nil, fmt.Errorf("save expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense ingested",
		"id", id,
		"user_id", userID,
		"category", rec.Category,
		"amount", rec.Amount.String(),
		"source", string(source))

	result := &IngestResult{ID: id, Record: rec}

	statuses, monthSpend, monthlyLimit, err := s.budgetSnapshot(ctx, userID)
	if err != nil {
		// The expense is saved; budget evaluation is advisory only.
		slog.ErrorContext(ctx, "Budget evaluation failed", "user_id", userID, "error", err)
		return result, nil
	}
	result.Statuses = statuses

	if monthlyLimit != nil {
		if advisory, ok := analytics.Advisory(monthSpend, *monthlyLimit); ok {
			result.Advisory = advisory
			s.publishAdvisory(ctx, userID, advisory)
		}
	}

	return result, nil
}

// BudgetStatuses evaluates every configured limit against current spend.
func (s *ExpenseService) BudgetStatuses(ctx context.Context, userID int64) ([]budget.Status, error) {
	statuses, _, _, err := s.budgetSnapshot(ctx, userID)
	return statuses, err
}

// SetLimit stores a budget limit for the period.
func (s *ExpenseService) SetLimit(ctx context.Context, userID int64, period core.Period, amount decimal.Decimal) error {
	if err := s.store.SetBudgetLimit(ctx, userID, period, amount); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Budget limit set",
		"user_id", userID,
		"period", string(period),
		"amount", amount.String())
	return nil
}

// DeleteLast removes the user's most recent expense.
func (s *ExpenseService) DeleteLast(ctx context.Context, userID int64) error {
	return s.store.DeleteLastExpense(ctx, userID)
}

func (s *ExpenseService) budgetSnapshot(ctx context.Context, userID int64) ([]budget.Status, decimal.Decimal, *decimal.Decimal, error) {
	limits, err := s.store.BudgetLimits(ctx, userID)
	if err != nil {
		return nil, decimal.Decimal{}, nil, fmt.Errorf("load budget limits: %w", err)
	}

	today, err := s.store.TotalToday(ctx, userID)
	if err != nil {
		return nil, decimal.Decimal{}, nil, fmt.Errorf("total today: %w", err)
	}
	week, err := s.store.TotalWeek(ctx, userID)
	if err != nil {
		return nil, decimal.Decimal{}, nil, fmt.Errorf("total week: %w", err)
	}
	month, err := s.store.TotalMonth(ctx, userID)
	if err != nil {
		return nil, decimal.Decimal{}, nil, fmt.Errorf("total month: %w", err)
	}

	return budget.Statuses(limits, today, week, month), month, limits.Monthly, nil
}

func (s *ExpenseService) publishAdvisory(ctx context.Context, userID int64, text string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishAdvisory(ctx, amqp.NewAdvisory(userID, text)); err != nil {
		// Advisories are best effort; the expense stays saved.
		slog.ErrorContext(ctx, "Failed to publish advisory", "user_id", userID, "error", err)
	}
}
