package cli

import (
	"github.com/charmbracelet/lipgloss"

	"fintrack/internal/core"
)

var (
	PrimaryColor = lipgloss.Color("#0EA5E9")
	SuccessColor = lipgloss.Color("#22C55E")
	WarningColor = lipgloss.Color("#F59E0B")
	ErrorColor   = lipgloss.Color("#EF4444")
	SubtleColor  = lipgloss.Color("#64748B")

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			MarginBottom(1)

	SubtleStyle  = lipgloss.NewStyle().Foreground(SubtleColor)
	SuccessStyle = lipgloss.NewStyle().Foreground(SuccessColor)
	WarningStyle = lipgloss.NewStyle().Foreground(WarningColor)
	ErrorStyle   = lipgloss.NewStyle().Foreground(ErrorColor)
	InfoStyle    = lipgloss.NewStyle().Foreground(PrimaryColor)
	BoldStyle    = lipgloss.NewStyle().Bold(true)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#334155")).
			Padding(1, 2)

	TableCellStyle = lipgloss.NewStyle().PaddingRight(2)
)

const (
	SuccessIcon = "✓"
	WarningIcon = "⚠"
	InfoIcon    = "ℹ"
)

// FormatTitle renders a section title.
func FormatTitle(title string) string {
	return TitleStyle.Render(title)
}

// FormatTip renders a tip with the icon and color of its kind.
func FormatTip(t core.Tip) string {
	switch t.Kind {
	case core.TipWarning:
		return WarningStyle.Render(WarningIcon + " " + t.Message)
	case core.TipSuccess:
		return SuccessStyle.Render(SuccessIcon + " " + t.Message)
	default:
		return InfoStyle.Render(InfoIcon + " " + t.Message)
	}
}

// RenderBox draws content inside a rounded box with a bold title line.
func RenderBox(title, content string) string {
	return BoxStyle.Render(BoldStyle.Render(title) + "\n\n" + content)
}
