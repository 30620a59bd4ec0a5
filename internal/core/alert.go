package core

import "github.com/shopspring/decimal"

// AlertTier classifies spending relative to the configured budget limit.
type AlertTier string

const (
	NoBudgetSet AlertTier = "none"
	Healthy     AlertTier = "healthy"
	Warning     AlertTier = "warning"
	Exceeded    AlertTier = "exceeded"
)

// Alert is the result of classifying total spending against a budget limit.
// Only the field matching the tier is meaningful: Overage for Exceeded,
// PercentUsed for Warning, Remaining for Healthy.
type Alert struct {
	Tier        AlertTier
	Overage     Money
	PercentUsed int64
	Remaining   Money
}

var (
	hundred       = decimal.NewFromInt(100)
	warnThreshold = decimal.NewFromInt(80)
)

// Classify maps (total spent, budget limit) to an alert tier.
//
// The exceed test is strictly greater-than: spending exactly equal to the
// limit is 100% used and classifies as Warning, never Exceeded. The warning
// band starts at 80% of the limit, computed with exact decimal arithmetic.
func Classify(totalSpent, budgetLimit Money) Alert {
	if budgetLimit.Cents <= 0 {
		return Alert{Tier: NoBudgetSet}
	}
	if totalSpent.Cents > budgetLimit.Cents {
		return Alert{
			Tier:    Exceeded,
			Overage: Money{Cents: totalSpent.Cents - budgetLimit.Cents},
		}
	}
	used := decimal.NewFromInt(totalSpent.Cents).
		Mul(hundred).
		Div(decimal.NewFromInt(budgetLimit.Cents))
	if used.GreaterThanOrEqual(warnThreshold) {
		return Alert{
			Tier:        Warning,
			PercentUsed: used.Round(0).IntPart(),
		}
	}
	return Alert{
		Tier:      Healthy,
		Remaining: Money{Cents: budgetLimit.Cents - totalSpent.Cents},
	}
}
