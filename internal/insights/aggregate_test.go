package insights

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
)

var (
	march = core.Period{Year: 2025, Month: time.March}
	feb   = core.Period{Year: 2025, Month: time.February}
)

func expense(category, amount string, d core.Date) core.Expense {
	return core.Expense{
		ID:          category + "-" + amount + "-" + d.String(),
		OwnerID:     "owner",
		Category:    core.Category{ID: category, Name: category},
		Amount:      core.MustMoney(amount),
		Description: category,
		Date:        d,
	}
}

func on(p core.Period, day int) core.Date {
	return core.NewDate(p.Year, p.Month, day)
}

func TestGroupByCategory_SharesSumToHundred(t *testing.T) {
	expenses := []core.Expense{
		expense("Housing", "10", on(march, 1)),
		expense("Transport", "20", on(march, 2)),
		expense("Groceries", "3.33", on(march, 3)),
		expense("Transport", "7.01", on(march, 4)),
	}

	b := GroupByCategory(expenses)
	require.Len(t, b.Categories, 3)
	assert.Equal(t, "40.34", b.Total.String())
	assert.Equal(t, 4, b.Count)

	var sum float64
	for _, c := range b.Categories {
		sum += c.Percentage
	}
	assert.InDelta(t, 100.0, sum, 1e-9)
}

func TestGroupByCategory_SortedDescendingWithStableTies(t *testing.T) {
	expenses := []core.Expense{
		expense("Beta", "5", on(march, 1)),
		expense("Alpha", "5", on(march, 1)),
		expense("Gamma", "50", on(march, 1)),
	}

	b := GroupByCategory(expenses)
	require.Len(t, b.Categories, 3)
	assert.Equal(t, "Gamma", b.Categories[0].Category.Name)
	assert.Equal(t, "Alpha", b.Categories[1].Category.Name)
	assert.Equal(t, "Beta", b.Categories[2].Category.Name)
}

func TestGroupByCategory_Empty(t *testing.T) {
	b := GroupByCategory(nil)
	assert.True(t, b.Total.IsZero())
	assert.Zero(t, b.Count)
	assert.Empty(t, b.Categories)
	assert.Empty(t, ComputeCategoryBreakdown(nil))
}

func TestGroupByCategory_ZeroTotalHasZeroPercentages(t *testing.T) {
	zero := expense("Misc", "0", on(march, 1))
	b := GroupByCategory([]core.Expense{zero})
	require.Len(t, b.Categories, 1)
	assert.Equal(t, 0.0, b.Categories[0].Percentage)
	assert.True(t, b.Categories[0].Share.IsZero())
}

func TestGroupByCategory_FallsBackToNameWithoutID(t *testing.T) {
	a := expense("Travel", "10", on(march, 1))
	b := expense("Travel", "15", on(march, 2))
	a.Category.ID, b.Category.ID = "", ""

	got := GroupByCategory([]core.Expense{a, b})
	require.Len(t, got.Categories, 1)
	assert.Equal(t, "25.00", got.Categories[0].Total.String())
	assert.Equal(t, 2, got.Categories[0].Count)
}

func TestFilterMonth(t *testing.T) {
	expenses := []core.Expense{
		expense("A", "1", on(march, 1)),
		expense("A", "2", on(march, 31)),
		expense("A", "4", on(feb, 28)),
		expense("A", "8", core.NewDate(2024, time.March, 15)),
	}

	got := FilterMonth(expenses, march)
	require.Len(t, got, 2)
	assert.Equal(t, "3.00", Sum(got).String())
	assert.Empty(t, FilterMonth(nil, march))
}

func TestGroupByMonth(t *testing.T) {
	expenses := []core.Expense{
		expense("A", "1", on(march, 1)),
		expense("A", "4", on(feb, 28)),
		expense("B", "2", on(march, 31)),
	}

	months := GroupByMonth(expenses)
	require.Len(t, months, 2)
	assert.Equal(t, feb, months[0].Period)
	assert.Equal(t, "4.00", months[0].Total.String())
	assert.Equal(t, march, months[1].Period)
	assert.Equal(t, 2, months[1].Count)
}
