package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Source identifies the channel a raw expense message arrived through.
type Source string

const (
	SourceText              Source = "text"
	SourcePhotoOCR          Source = "photo-ocr"
	SourceVoice             Source = "voice"
	SourcePaymentScreenshot Source = "payment-screenshot"
)

// Period names one of the budget evaluation windows.
type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
)

var (
	ErrNoAmountFound    = errors.New("no amount found in text")
	ErrExtractionFailed = errors.New("extraction failed")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidCategory  = errors.New("invalid category")
	ErrInvalidSource    = errors.New("invalid source")
	ErrInvalidPeriod    = errors.New("invalid period")
)

type (
	// PaymentDetails carries optional payment metadata taken verbatim from
	// the input (screenshot captions and the like). The parser never reads
	// these fields.
	PaymentDetails struct {
		TransactionID string
		AccountName   string
		PaymentMethod string
	}

	// ExpenseRecord is one validated spending event.
	ExpenseRecord struct {
		Amount      decimal.Decimal
		Category    string
		Description string
		Timestamp   time.Time
		Source      Source
		Payment     *PaymentDetails
	}

	// CategorySummary is an aggregate of spend for a single category over a
	// trailing window. Stores return summaries sorted descending by Total.
	CategorySummary struct {
		Category string
		Total    decimal.Decimal
		Count    int64
	}

	// BudgetLimits holds the optional per-period ceilings for one user.
	// A nil pointer means the limit is unset, which is not the same as zero.
	BudgetLimits struct {
		Daily   *decimal.Decimal
		Weekly  *decimal.Decimal
		Monthly *decimal.Decimal
	}
)

func (s Source) Validate() error {
	switch s {
	case SourceText, SourcePhotoOCR, SourceVoice, SourcePaymentScreenshot:
		return nil
	}
	return ErrInvalidSource
}

func (p Period) Validate() error {
	switch p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly:
		return nil
	}
	return ErrInvalidPeriod
}

func (r ExpenseRecord) Validate() error {
	if !r.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(r.Category) == "" {
		return ErrInvalidCategory
	}
	if err := r.Source.Validate(); err != nil {
		return err
	}
	return nil
}

// Limit returns the ceiling for the given period, or nil when unset.
func (b BudgetLimits) Limit(p Period) *decimal.Decimal {
	switch p {
	case PeriodDaily:
		return b.Daily
	case PeriodWeekly:
		return b.Weekly
	case PeriodMonthly:
		return b.Monthly
	}
	return nil
}

// HasAny reports whether at least one period has a limit set.
func (b BudgetLimits) HasAny() bool {
	return b.Daily != nil || b.Weekly != nil || b.Monthly != nil
}

// Total sums the amounts of a summary window.
func Total(summary []CategorySummary) decimal.Decimal {
	total := decimal.Zero
	for _, s := range summary {
		total = total.Add(s.Total)
	}
	return total
}
