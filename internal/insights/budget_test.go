package insights

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"fintrack/internal/core"
)

func TestSuggestTarget(t *testing.T) {
	cases := []struct {
		total string
		want  string
	}{
		{"500", "100.00"},
		{"0", "0.00"},
		{"502.50", "101.00"}, // 100.5 rounds half away from zero
		{"123.40", "25.00"},
	}
	for _, tc := range cases {
		got := SuggestTarget(core.MustMoney(tc.total))
		assert.Equal(t, tc.want, got.String(), "total %s", tc.total)
	}
}

func TestComputeStatus(t *testing.T) {
	tests := []struct {
		name        string
		target      string
		spent       string
		remaining   string
		percentUsed float64
		progress    float64
		overBudget  bool
		overage     string
	}{
		{name: "under budget", target: "200", spent: "50", remaining: "150.00", percentUsed: 25, progress: 25, overage: "0.00"},
		{name: "exactly at target", target: "100", spent: "100", remaining: "0.00", percentUsed: 100, progress: 100, overage: "0.00"},
		{name: "over budget", target: "100", spent: "150", remaining: "-50.00", percentUsed: 150, progress: 100, overBudget: true, overage: "50.00"},
		{name: "zero target is guarded", target: "0", spent: "80", remaining: "0.00", overage: "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := ComputeStatus(core.MustMoney(tt.target), core.MustMoney(tt.spent))
			assert.Equal(t, tt.remaining, st.Remaining.String())
			assert.InDelta(t, tt.percentUsed, st.PercentUsed, 1e-9)
			assert.InDelta(t, tt.progress, st.Progress, 1e-9)
			assert.Equal(t, tt.overBudget, st.OverBudget)
			assert.Equal(t, tt.overage, st.Overage.String())
			assert.Equal(t, tt.spent, st.Spent.Decimal().String())
		})
	}
}

func TestComputeBudgetStatusSumsExpenses(t *testing.T) {
	p := core.Period{Year: 2025, Month: time.May}
	expenses := []core.Expense{
		expense("A", "30", on(p, 1)),
		expense("B", "45.50", on(p, 2)),
	}
	st := ComputeBudgetStatus(expenses, core.MustMoney("50"))
	assert.Equal(t, "75.50", st.Spent.String())
	assert.True(t, st.OverBudget)
	assert.Equal(t, "25.50", st.Overage.String())
}

func TestProject(t *testing.T) {
	got, ok := Project(core.MustMoney("300"), 10, 30)
	assert.True(t, ok)
	assert.Equal(t, "900.00", got.String())

	_, ok = Project(core.MustMoney("300"), 0, 30)
	assert.False(t, ok)
}

func TestDaysInMonth(t *testing.T) {
	assert.Equal(t, 29, DaysInMonth(2024, time.February))
	assert.Equal(t, 28, DaysInMonth(2025, time.February))
	assert.Equal(t, 31, DaysInMonth(2025, time.January))
}

func TestElapsedDays(t *testing.T) {
	asOf := time.Date(2025, time.March, 12, 18, 0, 0, 0, time.UTC)
	assert.Equal(t, 12, ElapsedDays(march, asOf))
	assert.Equal(t, 28, ElapsedDays(feb, asOf))
	assert.Equal(t, 0, ElapsedDays(march.Next(), asOf))
}
