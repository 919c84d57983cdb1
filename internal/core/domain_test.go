package core

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestExpenseRecord_Validate(t *testing.T) {
	valid := ExpenseRecord{
		Amount:      decimal.NewFromInt(150),
		Category:    "Food",
		Description: "biriyani",
		Timestamp:   time.Now(),
		Source:      SourceText,
	}

	tests := []struct {
		name    string
		mutate  func(r ExpenseRecord) ExpenseRecord
		wantErr error
	}{
		{
			name:    "valid record",
			mutate:  func(r ExpenseRecord) ExpenseRecord { return r },
			wantErr: nil,
		},
		{
			name: "zero amount",
			mutate: func(r ExpenseRecord) ExpenseRecord {
				r.Amount = decimal.Zero
				return r
			},
			wantErr: ErrInvalidAmount,
		},
		{
			name: "negative amount",
			mutate: func(r ExpenseRecord) ExpenseRecord {
				r.Amount = decimal.NewFromInt(-10)
				return r
			},
			wantErr: ErrInvalidAmount,
		},
		{
			name: "blank category",
			mutate: func(r ExpenseRecord) ExpenseRecord {
				r.Category = "  "
				return r
			},
			wantErr: ErrInvalidCategory,
		},
		{
			name: "unknown source",
			mutate: func(r ExpenseRecord) ExpenseRecord {
				r.Source = "carrier-pigeon"
				return r
			},
			wantErr: ErrInvalidSource,
		},
		{
			name: "payment metadata is optional",
			mutate: func(r ExpenseRecord) ExpenseRecord {
				r.Payment = &PaymentDetails{TransactionID: "xyz123", AccountName: "MyBank"}
				return r
			},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.mutate(valid).Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBudgetLimits_Limit(t *testing.T) {
	daily := decimal.NewFromInt(500)
	monthly := decimal.NewFromInt(15000)
	limits := BudgetLimits{Daily: &daily, Monthly: &monthly}

	if got := limits.Limit(PeriodDaily); got == nil || !got.Equal(daily) {
		t.Errorf("Limit(daily) = %v, want %v", got, daily)
	}
	if got := limits.Limit(PeriodWeekly); got != nil {
		t.Errorf("Limit(weekly) = %v, want nil", got)
	}
	if got := limits.Limit(PeriodMonthly); got == nil || !got.Equal(monthly) {
		t.Errorf("Limit(monthly) = %v, want %v", got, monthly)
	}
	if !limits.HasAny() {
		t.Error("HasAny() = false, want true")
	}
	if (BudgetLimits{}).HasAny() {
		t.Error("HasAny() on empty limits = true, want false")
	}
}

func TestCents(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"12.34", 1234},
		{"12.345", 1235},
		{"12.344", 1234},
		{"150", 15000},
		{"0.5", 50},
	}

	for _, tt := range tests {
		d, err := decimal.NewFromString(tt.in)
		if err != nil {
			t.Fatalf("parse %q: %v", tt.in, err)
		}
		if got := Cents(d); got != tt.want {
			t.Errorf("Cents(%s) = %d, want %d", tt.in, got, tt.want)
		}
	}

	if back := FromCents(1234); !back.Equal(decimal.RequireFromString("12.34")) {
		t.Errorf("FromCents(1234) = %s, want 12.34", back)
	}
}

func TestTotal(t *testing.T) {
	summary := []CategorySummary{
		{Category: "Food", Total: decimal.NewFromInt(300), Count: 3},
		{Category: "Transport", Total: decimal.NewFromInt(275), Count: 2},
	}
	if got := Total(summary); !got.Equal(decimal.NewFromInt(575)) {
		t.Errorf("Total() = %s, want 575", got)
	}
	if got := Total(nil); !got.IsZero() {
		t.Errorf("Total(nil) = %s, want 0", got)
	}
}
