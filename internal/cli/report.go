package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"fintrack/internal/icons"
	"fintrack/internal/insights"
	"fintrack/internal/services"
)

const barWidth = 20

// RenderDashboard renders the month summary, breakdown, budget and tips.
func RenderDashboard(d *services.Dashboard) string {
	var b strings.Builder

	r := d.Report
	b.WriteString(FormatTitle(fmt.Sprintf("%s · %s", r.Period, d.OwnerID)))
	b.WriteString("\n")

	summary := []string{fmt.Sprintf("Spent        %s (%d expenses)", r.Breakdown.Total, r.Breakdown.Count)}
	if t, ok := insights.Compare(r.Breakdown.Total, r.Previous.Total); ok {
		summary = append(summary, fmt.Sprintf("vs %s  %+.1f%%", r.Period.Previous(), t.ChangePercent()))
	}
	if r.Projected {
		summary = append(summary, fmt.Sprintf("Projection   %s", r.Projection))
	}
	summary = append(summary, renderBudget(d.Budget))
	b.WriteString(RenderBox("Summary", strings.Join(summary, "\n")))
	b.WriteString("\n")

	if len(r.Breakdown.Categories) > 0 {
		b.WriteString(RenderBox("By category", renderBreakdown(r.Breakdown.Categories)))
		b.WriteString("\n")
	}

	if len(r.Tips) > 0 {
		lines := make([]string, len(r.Tips))
		for i, t := range r.Tips {
			lines[i] = FormatTip(t)
		}
		b.WriteString(RenderBox("Tips", strings.Join(lines, "\n")))
		b.WriteString("\n")
	}
	return b.String()
}

func renderBudget(st insights.BudgetStatus) string {
	label := "Target"
	if st.Suggested {
		label = "Suggested"
	}
	line := fmt.Sprintf("%-12s %s  %s %.1f%%", label, st.Target, bar(st.Progress), st.PercentUsed)
	if st.OverBudget {
		return ErrorStyle.Render(line + fmt.Sprintf("  over by %s", st.Overage))
	}
	return line
}

func renderBreakdown(cats []insights.CategoryTotal) string {
	rows := make([]string, len(cats))
	for i, c := range cats {
		rows[i] = lipgloss.JoinHorizontal(lipgloss.Top,
			TableCellStyle.Render(icons.Lookup(c.Category.Icon).Symbol),
			TableCellStyle.Width(20).Render(c.Category.Name),
			TableCellStyle.Width(12).Align(lipgloss.Right).Render(c.Total.String()),
			SubtleStyle.Render(fmt.Sprintf("%5.1f%%", c.Percentage)),
		)
	}
	return strings.Join(rows, "\n")
}

// RenderHistory renders per-month totals as horizontal bars scaled to the
// largest month.
func RenderHistory(totals []insights.MonthTotal) string {
	if len(totals) == 0 {
		return SubtleStyle.Render("No expenses in range.")
	}
	peak := totals[0].Total
	for _, t := range totals[1:] {
		if t.Total.Cmp(peak) > 0 {
			peak = t.Total
		}
	}
	rows := make([]string, len(totals))
	for i, t := range totals {
		pct := 0.0
		if peak.IsPositive() {
			pct = t.Total.Decimal().Div(peak.Decimal()).InexactFloat64() * 100
		}
		rows[i] = fmt.Sprintf("%s  %s %12s", t.Period, bar(pct), t.Total)
	}
	return RenderBox("History", strings.Join(rows, "\n"))
}

// bar draws pct (0-100) as a fixed-width gauge.
func bar(pct float64) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := int(pct / 100 * barWidth)
	return InfoStyle.Render(strings.Repeat("█", filled)) + SubtleStyle.Render(strings.Repeat("░", barWidth-filled))
}
