// Package budget evaluates spend totals against per-period limits. The
// monitor is pure and stateless: it does no aggregation and holds no
// configuration beyond its fixed tier thresholds.
package budget

import (
	"github.com/shopspring/decimal"

	"expensebot/internal/core"
)

// Severity is the ordered tier derived from a spend-to-limit percentage.
type Severity int

const (
	Safe Severity = iota
	Warning
	Critical
	Exceeded
)

// Tier thresholds, inclusive lower bounds in percent. These are distinct
// from the analytics advisory thresholds and must stay independently
// configured.
var (
	warningFloor  = decimal.NewFromInt(75)
	criticalFloor = decimal.NewFromInt(90)
	exceededFloor = decimal.NewFromInt(100)
)

func (s Severity) String() string {
	switch s {
	case Safe:
		return "safe"
	case Warning:
		return "warning"
	case Critical:
		return "critical"
	case Exceeded:
		return "exceeded"
	}
	return "unknown"
}

// Status is the evaluation result for a single period.
type Status struct {
	Period   core.Period
	Spent    decimal.Decimal
	Limit    decimal.Decimal
	Percent  decimal.Decimal
	Severity Severity
}

// Evaluate compares a current total against a limit and returns the severity
// tier. ok is false when limit is nil (unset): no limit means no opinion,
// which is not an error and not a default tier.
func Evaluate(current decimal.Decimal, limit *decimal.Decimal) (Severity, bool) {
	if limit == nil || !limit.IsPositive() {
		return Safe, false
	}

	percent := Percent(current, *limit)
	switch {
	case percent.GreaterThanOrEqual(exceededFloor):
		return Exceeded, true
	case percent.GreaterThanOrEqual(criticalFloor):
		return Critical, true
	case percent.GreaterThanOrEqual(warningFloor):
		return Warning, true
	default:
		return Safe, true
	}
}

// Percent returns current/limit as a percentage.
func Percent(current, limit decimal.Decimal) decimal.Decimal {
	return current.Div(limit).Mul(decimal.NewFromInt(100))
}

// Statuses evaluates each period that has a limit set. Periods without a
// limit are omitted entirely. Totals are supplied by the caller; the monitor
// never aggregates.
func Statuses(limits core.BudgetLimits, today, week, month decimal.Decimal) []Status {
	type pair struct {
		period core.Period
		spent  decimal.Decimal
	}

	var out []Status
	for _, p := range []pair{
		{core.PeriodDaily, today},
		{core.PeriodWeekly, week},
		{core.PeriodMonthly, month},
	} {
		limit := limits.Limit(p.period)
		severity, ok := Evaluate(p.spent, limit)
		if !ok {
			continue
		}
		out = append(out, Status{
			Period:   p.period,
			Spent:    p.spent,
			Limit:    *limit,
			Percent:  Percent(p.spent, *limit),
			Severity: severity,
		})
	}
	return out
}
