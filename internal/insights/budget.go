package insights

import (
	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

// SuggestedSavingsRate is the fraction of monthly spend proposed as a target
// when the owner has not stored one.
var SuggestedSavingsRate = decimal.RequireFromString("0.2")

// BudgetStatus compares spend against a monthly target.
type BudgetStatus struct {
	Target      core.Money `json:"target"`
	Spent       core.Money `json:"spent"`
	Remaining   core.Money `json:"remaining"`
	Overage     core.Money `json:"overage"`
	PercentUsed float64    `json:"percent_used"`
	Progress    float64    `json:"progress"`
	OverBudget  bool       `json:"over_budget"`
	Suggested   bool       `json:"suggested"`
}

// SuggestTarget proposes 20% of the current month's total, rounded to whole units.
func SuggestTarget(monthTotal core.Money) core.Money {
	return core.NewMoney(monthTotal.Decimal().Mul(SuggestedSavingsRate).Round(0))
}

// ComputeStatus derives remaining budget and usage. A target that is not
// positive yields zero remaining, zero usage and never over budget.
func ComputeStatus(target, spent core.Money) BudgetStatus {
	st := BudgetStatus{Target: target, Spent: spent, Remaining: core.Zero, Overage: core.Zero}
	if !target.IsPositive() {
		return st
	}

	used := percentOf(spent, target)
	st.Remaining = target.Sub(spent)
	st.PercentUsed = used.InexactFloat64()
	st.OverBudget = used.GreaterThan(hundred)
	st.Progress = decimal.Min(used, hundred).InexactFloat64()
	if st.OverBudget {
		st.Overage = spent.Sub(target)
	}
	return st
}
