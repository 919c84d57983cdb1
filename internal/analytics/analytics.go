// Package analytics computes spending trends from caller-supplied summary
// windows. Every function is pure; no aggregate is cached and nothing is
// read from storage directly.
package analytics

import (
	"fmt"

	"github.com/shopspring/decimal"

	"expensebot/internal/core"
)

// Advisory thresholds, strict lower bounds in percent. This is a different
// table from the budget monitor's 75/90/100 tiers; the two evaluators stay
// independent.
var (
	cautionFloor  = decimal.NewFromInt(80)
	exceededFloor = decimal.NewFromInt(100)
)

var (
	daysPerMonth = decimal.NewFromInt(30)
	daysPerWeek  = decimal.NewFromInt(7)
)

// TrendingCategory returns the category with the highest spend in the
// window. Summaries arrive sorted descending by total, so this is the first
// entry. ok is false when the window is empty.
func TrendingCategory(summary []core.CategorySummary) (string, bool) {
	if len(summary) == 0 {
		return "", false
	}
	return summary[0].Category, true
}

// DailyAverage returns the window total divided by days. An empty window
// averages to zero. days must be positive; that is the caller's contract and
// is not validated here.
func DailyAverage(summary []core.CategorySummary, days int) decimal.Decimal {
	if len(summary) == 0 {
		return decimal.Zero
	}
	return core.Total(summary).Div(decimal.NewFromInt(int64(days)))
}

// MonthlyProjection extrapolates a 7-day window linearly to a 30-day month.
func MonthlyProjection(last7Days []core.CategorySummary) decimal.Decimal {
	if len(last7Days) == 0 {
		return decimal.Zero
	}
	return core.Total(last7Days).Mul(daysPerMonth).Div(daysPerWeek)
}

// Advisory emits a budget advisory message for a spend total against a
// budget: an exceeded warning above 100%, a caution above 80%, nothing
// otherwise. ok is false when there is nothing to say or budget is not
// positive.
func Advisory(totalSpend, budget decimal.Decimal) (string, bool) {
	if !budget.IsPositive() {
		return "", false
	}

	percent := totalSpend.Div(budget).Mul(decimal.NewFromInt(100))
	switch {
	case percent.GreaterThan(exceededFloor):
		return fmt.Sprintf("Warning: You've exceeded your monthly budget! Spent %s%%", percent.Round(0)), true
	case percent.GreaterThan(cautionFloor):
		return fmt.Sprintf("Caution: You've spent %s%% of your monthly budget", percent.Round(0)), true
	default:
		return "", false
	}
}
