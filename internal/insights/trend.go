package insights

import (
	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

// Trend is the relative change of a total between two periods, in percent.
type Trend struct {
	Current  core.Money      `json:"current"`
	Previous core.Money      `json:"previous"`
	Change   decimal.Decimal `json:"-"`
}

// ChangePercent is Change for display.
func (t Trend) ChangePercent() float64 {
	return t.Change.InexactFloat64()
}

// CategoryChange is the trend of a single category present in both periods.
type CategoryChange struct {
	Category core.Category
	Trend
}

// Compare computes (current - previous) / previous * 100.
// There is no trend when previous is not positive.
func Compare(current, previous core.Money) (Trend, bool) {
	if !previous.IsPositive() {
		return Trend{}, false
	}
	change := current.Sub(previous).Decimal().Div(previous.Decimal()).Mul(hundred)
	return Trend{Current: current, Previous: previous, Change: change}, true
}

// CompareCategories pairs buckets by category and returns the change of every
// category that had spend in both periods, in the order of current.
func CompareCategories(current, previous Breakdown) []CategoryChange {
	var out []CategoryChange
	for _, c := range current.Categories {
		p, ok := previous.Lookup(c.Key)
		if !ok {
			continue
		}
		t, ok := Compare(c.Total, p.Total)
		if !ok {
			continue
		}
		out = append(out, CategoryChange{Category: c.Category, Trend: t})
	}
	return out
}
