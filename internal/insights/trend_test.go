package insights

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
)

func TestCompare(t *testing.T) {
	tr, ok := Compare(core.MustMoney("150"), core.MustMoney("100"))
	require.True(t, ok)
	assert.Equal(t, 50.0, tr.ChangePercent())

	tr, ok = Compare(core.MustMoney("75"), core.MustMoney("100"))
	require.True(t, ok)
	assert.Equal(t, -25.0, tr.ChangePercent())

	_, ok = Compare(core.MustMoney("75"), core.Zero)
	assert.False(t, ok, "no trend without previous spend")
}

func TestCompareCategories(t *testing.T) {
	current := GroupByCategory([]core.Expense{
		expense("Groceries", "300", on(march, 2)),
		expense("Travel", "200", on(march, 3)),
		expense("Books", "20", on(march, 4)),
	})
	previous := GroupByCategory([]core.Expense{
		expense("Groceries", "200", on(feb, 2)),
		expense("Travel", "250", on(feb, 3)),
	})

	changes := CompareCategories(current, previous)
	require.Len(t, changes, 2)
	assert.Equal(t, "Groceries", changes[0].Category.Name)
	assert.Equal(t, 50.0, changes[0].ChangePercent())
	assert.Equal(t, "Travel", changes[1].Category.Name)
	assert.Equal(t, -20.0, changes[1].ChangePercent())
}
