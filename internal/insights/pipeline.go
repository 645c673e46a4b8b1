package insights

import (
	"time"

	"fintrack/internal/core"
)

// Report is the full analysis of one period.
type Report struct {
	Period     core.Period      `json:"period"`
	Breakdown  Breakdown        `json:"breakdown"`
	Previous   Breakdown        `json:"previous"`
	Changes    []CategoryChange `json:"-"`
	Projection core.Money       `json:"projection"`
	Projected  bool             `json:"projected"`
	Day        int              `json:"day"`
	Tips       []core.Tip       `json:"tips"`
}

// ComputeCategoryBreakdown returns per-category totals sorted by total descending.
func ComputeCategoryBreakdown(expenses []core.Expense) []CategoryTotal {
	return GroupByCategory(expenses).Categories
}

// ComputeBudgetStatus compares the total of expenses against target.
func ComputeBudgetStatus(expenses []core.Expense, target core.Money) BudgetStatus {
	return ComputeStatus(target, Sum(expenses))
}

// GenerateTips evaluates the calendar month containing now against the month
// before it. expenses may span any range; only those two months are read.
func GenerateTips(expenses []core.Expense, now time.Time) []core.Tip {
	return Analyze(expenses, core.PeriodOf(now), now).Tips
}

// Analyze runs the whole pipeline for p as seen at asOf.
func Analyze(expenses []core.Expense, p core.Period, asOf time.Time) Report {
	current := FilterMonth(expenses, p)
	previous := FilterMonth(expenses, p.Previous())
	day := ElapsedDays(p, asOf)

	in := NewInput(current, previous, day, p.Days())
	return Report{
		Period:     p,
		Breakdown:  in.Current,
		Previous:   in.Previous,
		Changes:    in.Changes,
		Projection: in.Projection,
		Projected:  in.Projected,
		Day:        day,
		Tips:       Evaluate(in),
	}
}
