// Package memstore is an in-memory Store used as the default backend and as
// the fake in service tests. It mirrors the SQLite repository's aggregation
// semantics without any I/O.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"expensebot/internal/core"
	"expensebot/internal/storage"
)

type entry struct {
	id     int64
	userID int64
	rec    core.ExpenseRecord
}

type Store struct {
	mu     sync.Mutex
	nextID int64
	items  []entry
	limits map[int64]core.BudgetLimits
	now    func() time.Time
}

func New() *Store {
	return &Store{
		nextID: 1,
		limits: make(map[int64]core.BudgetLimits),
		now:    time.Now,
	}
}

// WithClock replaces the store's clock; tests use this to pin windows.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func (s *Store) Close() error {
	return nil
}

func (s *Store) SaveExpense(_ context.Context, userID int64, rec core.ExpenseRecord) (int64, error) {
	if err := rec.Validate(); err != nil {
		return 0, fmt.Errorf("validate expense: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.Timestamp.IsZero() {
		rec.Timestamp = s.now()
	}
	id := s.nextID
	s.nextID++
	s.items = append(s.items, entry{id: id, userID: userID, rec: rec})
	return id, nil
}

func (s *Store) Summary(_ context.Context, userID int64, days int) ([]core.CategorySummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().AddDate(0, 0, -days)
	totals := make(map[string]*core.CategorySummary)
	for _, e := range s.items {
		if e.userID != userID || e.rec.Timestamp.Before(cutoff) {
			continue
		}
		cs, ok := totals[e.rec.Category]
		if !ok {
			cs = &core.CategorySummary{Category: e.rec.Category, Total: decimal.Zero}
			totals[e.rec.Category] = cs
		}
		cs.Total = cs.Total.Add(e.rec.Amount)
		cs.Count++
	}

	out := make([]core.CategorySummary, 0, len(totals))
	for _, cs := range totals {
		out = append(out, *cs)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Total.Equal(out[j].Total) {
			return out[i].Total.GreaterThan(out[j].Total)
		}
		return out[i].Category < out[j].Category
	})
	return out, nil
}

func (s *Store) TotalToday(_ context.Context, userID int64) (decimal.Decimal, error) {
	now := s.now().UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return s.totalSince(userID, midnight), nil
}

func (s *Store) TotalWeek(_ context.Context, userID int64) (decimal.Decimal, error) {
	return s.totalSince(userID, s.now().AddDate(0, 0, -7)), nil
}

func (s *Store) TotalMonth(_ context.Context, userID int64) (decimal.Decimal, error) {
	return s.totalSince(userID, s.now().AddDate(0, 0, -30)), nil
}

func (s *Store) totalSince(userID int64, cutoff time.Time) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := decimal.Zero
	for _, e := range s.items {
		if e.userID != userID || e.rec.Timestamp.Before(cutoff) {
			continue
		}
		total = total.Add(e.rec.Amount)
	}
	return total
}

func (s *Store) BudgetLimits(_ context.Context, userID int64) (core.BudgetLimits, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.limits[userID], nil
}

func (s *Store) SetBudgetLimit(_ context.Context, userID int64, period core.Period, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("set budget limit: %w", core.ErrInvalidAmount)
	}
	if err := period.Validate(); err != nil {
		return fmt.Errorf("set budget limit: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	limits := s.limits[userID]
	value := amount
	switch period {
	case core.PeriodDaily:
		limits.Daily = &value
	case core.PeriodWeekly:
		limits.Weekly = &value
	case core.PeriodMonthly:
		limits.Monthly = &value
	}
	s.limits[userID] = limits
	return nil
}

func (s *Store) RecentExpenses(_ context.Context, userID int64, limit int) ([]core.ExpenseRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var mine []entry
	for _, e := range s.items {
		if e.userID == userID {
			mine = append(mine, e)
		}
	}
	sort.Slice(mine, func(i, j int) bool {
		if !mine[i].rec.Timestamp.Equal(mine[j].rec.Timestamp) {
			return mine[i].rec.Timestamp.After(mine[j].rec.Timestamp)
		}
		return mine[i].id > mine[j].id
	})

	if limit > 0 && len(mine) > limit {
		mine = mine[:limit]
	}
	out := make([]core.ExpenseRecord, len(mine))
	for i, e := range mine {
		out[i] = e.rec
	}
	return out, nil
}

func (s *Store) DeleteLastExpense(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	last := -1
	for i, e := range s.items {
		if e.userID != userID {
			continue
		}
		if last < 0 || isLater(e, s.items[last]) {
			last = i
		}
	}
	if last < 0 {
		return storage.ErrNoExpenses
	}
	s.items = append(s.items[:last], s.items[last+1:]...)
	return nil
}

func isLater(a, b entry) bool {
	if !a.rec.Timestamp.Equal(b.rec.Timestamp) {
		return a.rec.Timestamp.After(b.rec.Timestamp)
	}
	return a.id > b.id
}
