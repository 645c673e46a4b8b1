// Package insights derives totals, shares, trends, projections, budget status
// and advice from a snapshot of expense records.
//
// Every function in this package is pure. Callers fetch a snapshot, pass it in,
// and re-invoke the functions whenever the snapshot changes.
package insights

import (
	"sort"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

var hundred = decimal.NewFromInt(100)

// CategoryTotal is one bucket of a Breakdown.
type CategoryTotal struct {
	Key        string          `json:"-"`
	Category   core.Category   `json:"category"`
	Total      core.Money      `json:"total"`
	Count      int             `json:"count"`
	Share      decimal.Decimal `json:"-"`
	Percentage float64         `json:"percentage"`
}

// Breakdown is the per-category aggregate of a set of expenses.
// Categories are ordered by total descending.
type Breakdown struct {
	Total      core.Money      `json:"total"`
	Count      int             `json:"count"`
	Categories []CategoryTotal `json:"categories"`
}

// MonthTotal is the aggregate of one calendar month.
type MonthTotal struct {
	Period core.Period `json:"period"`
	Total  core.Money  `json:"total"`
	Count  int         `json:"count"`
}

// Sum adds up the amounts of all expenses.
func Sum(expenses []core.Expense) core.Money {
	total := core.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total
}

// FilterMonth keeps the expenses dated within p. Only the calendar date is compared.
func FilterMonth(expenses []core.Expense, p core.Period) []core.Expense {
	out := make([]core.Expense, 0, len(expenses))
	for _, e := range expenses {
		if p.Contains(e.Date) {
			out = append(out, e)
		}
	}
	return out
}

// GroupByCategory buckets expenses by category. Categories without expenses
// are absent. Percentages are zero when the total is zero.
func GroupByCategory(expenses []core.Expense) Breakdown {
	index := make(map[string]int)
	var buckets []CategoryTotal
	total := core.Zero

	for _, e := range expenses {
		key := e.CategoryKey()
		i, ok := index[key]
		if !ok {
			i = len(buckets)
			index[key] = i
			buckets = append(buckets, CategoryTotal{Key: key, Category: e.Category, Total: core.Zero})
		}
		buckets[i].Total = buckets[i].Total.Add(e.Amount)
		buckets[i].Count++
		total = total.Add(e.Amount)
	}

	for i := range buckets {
		buckets[i].Share = percentOf(buckets[i].Total, total)
		buckets[i].Percentage = buckets[i].Share.InexactFloat64()
	}

	sort.SliceStable(buckets, func(i, j int) bool {
		if c := buckets[i].Total.Cmp(buckets[j].Total); c != 0 {
			return c > 0
		}
		if buckets[i].Category.Name != buckets[j].Category.Name {
			return buckets[i].Category.Name < buckets[j].Category.Name
		}
		return buckets[i].Key < buckets[j].Key
	})

	return Breakdown{Total: total, Count: len(expenses), Categories: buckets}
}

// GroupByMonth totals expenses per calendar month, oldest first.
func GroupByMonth(expenses []core.Expense) []MonthTotal {
	index := make(map[core.Period]int)
	var months []MonthTotal
	for _, e := range expenses {
		p := core.PeriodOf(e.Date.Time)
		i, ok := index[p]
		if !ok {
			i = len(months)
			index[p] = i
			months = append(months, MonthTotal{Period: p, Total: core.Zero})
		}
		months[i].Total = months[i].Total.Add(e.Amount)
		months[i].Count++
	}
	sort.Slice(months, func(i, j int) bool {
		return months[i].Period.Before(months[j].Period)
	})
	return months
}

// Lookup returns the bucket with the given key.
func (b Breakdown) Lookup(key string) (CategoryTotal, bool) {
	for _, c := range b.Categories {
		if c.Key == key {
			return c, true
		}
	}
	return CategoryTotal{}, false
}

// ShareOfName sums the shares of every bucket whose category carries name.
func (b Breakdown) ShareOfName(name string) decimal.Decimal {
	share := decimal.Zero
	for _, c := range b.Categories {
		if c.Category.Name == name {
			share = share.Add(c.Share)
		}
	}
	return share
}

// percentOf returns part as a percentage of whole, or zero when whole is zero.
func percentOf(part, whole core.Money) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Decimal().Div(whole.Decimal()).Mul(hundred)
}
