package insights

import (
	"fmt"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

// Thresholds used by the default rules. All are exclusive bounds in percent
// unless stated otherwise.
var (
	TrendIncreaseThreshold   = decimal.NewFromInt(20)
	TrendDecreaseThreshold   = decimal.NewFromInt(-10)
	DominantShareThreshold   = decimal.NewFromInt(40)
	CategorySpikeThreshold   = decimal.NewFromInt(50)
	ProjectionRatioThreshold = decimal.RequireFromString("1.2")
	FoodShareThreshold       = decimal.NewFromInt(30)
	EntertainmentThreshold   = decimal.NewFromInt(20)
)

const (
	// MinProjectionDay is the last day of the month on which the run rate is
	// still considered too noisy to report.
	MinProjectionDay = 7
	// HealthyRecordCount is the number of records above which an otherwise
	// quiet month is reported as healthy rather than sparse.
	HealthyRecordCount = 10

	CategoryFoodDining    = "Food & Dining"
	CategoryEntertainment = "Entertainment"
)

// Input is everything the rules look at. Build it with NewInput or fill it by hand.
type Input struct {
	Current    Breakdown
	Previous   Breakdown
	Changes    []CategoryChange
	Projection core.Money
	Projected  bool
	Day        int
}

// NewInput derives the rule input from two monthly snapshots and the number
// of elapsed days in the current month.
func NewInput(current, previous []core.Expense, day, daysInMonth int) Input {
	in := Input{
		Current:  GroupByCategory(current),
		Previous: GroupByCategory(previous),
		Day:      day,
	}
	in.Changes = CompareCategories(in.Current, in.Previous)
	in.Projection, in.Projected = Project(in.Current.Total, day, daysInMonth)
	return in
}

// Rule inspects the input and emits zero or more tips.
type Rule struct {
	Name  string
	Apply func(Input) []core.Tip
}

// DefaultRules are evaluated in order. They are not mutually exclusive.
var DefaultRules = []Rule{
	{Name: "trend", Apply: trendRule},
	{Name: "dominant_category", Apply: dominantCategoryRule},
	{Name: "category_spike", Apply: categorySpikeRule},
	{Name: "run_rate", Apply: runRateRule},
	{Name: "category_advice", Apply: categoryAdviceRule},
}

// Evaluate runs DefaultRules and falls back to a single neutral tip when none
// of them fired. The result is never empty.
func Evaluate(in Input) []core.Tip {
	return EvaluateRules(DefaultRules, in)
}

// EvaluateRules runs rules in order and applies the fallback.
func EvaluateRules(rules []Rule, in Input) []core.Tip {
	var tips []core.Tip
	for _, r := range rules {
		tips = append(tips, r.Apply(in)...)
	}
	if len(tips) > 0 {
		return tips
	}
	if in.Current.Count >= HealthyRecordCount {
		return []core.Tip{{
			Kind:    core.TipSuccess,
			Message: "Your spending patterns look healthy! Keep tracking your expenses to maintain good financial habits.",
		}}
	}
	return []core.Tip{{
		Kind:    core.TipInfo,
		Message: "Add more expenses to receive personalized insights and recommendations.",
	}}
}

func trendRule(in Input) []core.Tip {
	t, ok := Compare(in.Current.Total, in.Previous.Total)
	if !ok {
		return nil
	}
	switch {
	case t.Change.GreaterThan(TrendIncreaseThreshold):
		return []core.Tip{{
			Kind:    core.TipWarning,
			Message: fmt.Sprintf("Your spending is %s%% higher than last month. Consider reviewing your budget.", pct(t.Change)),
		}}
	case t.Change.LessThan(TrendDecreaseThreshold):
		return []core.Tip{{
			Kind:    core.TipSuccess,
			Message: fmt.Sprintf("Great job! You've reduced spending by %s%% compared to last month.", pct(t.Change.Abs())),
		}}
	}
	return nil
}

func dominantCategoryRule(in Input) []core.Tip {
	if in.Current.Total.IsZero() || len(in.Current.Categories) == 0 {
		return nil
	}
	top := in.Current.Categories[0]
	if !top.Share.GreaterThan(DominantShareThreshold) {
		return nil
	}
	return []core.Tip{{
		Kind: core.TipWarning,
		Message: fmt.Sprintf("%s accounts for %s%% of your spending. Look for ways to reduce costs in this category.",
			top.Category.Name, pct(top.Share)),
	}}
}

func categorySpikeRule(in Input) []core.Tip {
	var tips []core.Tip
	for _, c := range in.Changes {
		if c.Change.GreaterThan(CategorySpikeThreshold) {
			tips = append(tips, core.Tip{
				Kind:    core.TipWarning,
				Message: fmt.Sprintf("Your %s spending has increased by %s%% this month.", c.Category.Name, pct(c.Change)),
			})
		}
	}
	return tips
}

func runRateRule(in Input) []core.Tip {
	if in.Day <= MinProjectionDay || !in.Projected {
		return nil
	}
	limit := in.Previous.Total.Decimal().Mul(ProjectionRatioThreshold)
	if !in.Projection.Decimal().GreaterThan(limit) {
		return nil
	}
	return []core.Tip{{
		Kind:    core.TipWarning,
		Message: fmt.Sprintf("At your current pace, you're projected to spend $%s this month. Consider slowing down.", in.Projection),
	}}
}

func categoryAdviceRule(in Input) []core.Tip {
	var tips []core.Tip
	if in.Current.ShareOfName(CategoryFoodDining).GreaterThan(FoodShareThreshold) {
		tips = append(tips, core.Tip{
			Kind:    core.TipInfo,
			Message: "Meal planning and cooking at home can significantly reduce food expenses.",
		})
	}
	if in.Current.ShareOfName(CategoryEntertainment).GreaterThan(EntertainmentThreshold) {
		tips = append(tips, core.Tip{
			Kind:    core.TipInfo,
			Message: "Look for free or low-cost entertainment alternatives like community events or parks.",
		})
	}
	return tips
}

// pct formats a percentage with one decimal.
func pct(d decimal.Decimal) string {
	return d.StringFixed(1)
}
