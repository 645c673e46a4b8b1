package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/config"
	"fintrack/internal/core"
	"fintrack/internal/insights"
	"fintrack/internal/services"
)

func TestSetupLoggerHonoursFormatAndLevel(t *testing.T) {
	cfg := config.Defaults()
	cfg.LogFormat = "json"
	cfg.LogLevel = "warn"

	var buf bytes.Buffer
	logger := SetupLogger(&cfg, &buf)
	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
}

func TestLoadAndValidateConfig(t *testing.T) {
	t.Setenv("DATA_BACKEND", "memory")
	t.Setenv("AMQP_URL", "")
	t.Setenv("GOOGLE_SPREADSHEET_ID", "")
	t.Setenv("AUTH_JWT_SECRET", "")
	t.Setenv("LOG_LEVEL", "")

	cfg, err := LoadAndValidateConfig(false)
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.DataBackend)

	_, err = LoadAndValidateConfig(true)
	assert.ErrorContains(t, err, "AMQP_URL is required")
}

func TestFormatTipUsesKindIcon(t *testing.T) {
	assert.Contains(t, FormatTip(core.Tip{Kind: core.TipWarning, Message: "careful"}), WarningIcon+" careful")
	assert.Contains(t, FormatTip(core.Tip{Kind: core.TipSuccess, Message: "nice"}), SuccessIcon+" nice")
	assert.Contains(t, FormatTip(core.Tip{Kind: core.TipInfo, Message: "fyi"}), InfoIcon+" fyi")
}

func TestRenderDashboard(t *testing.T) {
	march := core.Period{Year: 2025, Month: time.March}
	expenses := []core.Expense{
		{Category: core.Category{ID: "housing", Name: "Housing", Icon: "home"}, Amount: core.MustMoney("900"), Date: core.NewDate(2025, time.March, 2)},
		{Category: core.Category{ID: "travel", Name: "Travel", Icon: "plane"}, Amount: core.MustMoney("100"), Date: core.NewDate(2025, time.March, 3)},
		{Category: core.Category{ID: "housing", Name: "Housing", Icon: "home"}, Amount: core.MustMoney("500"), Date: core.NewDate(2025, time.February, 2)},
	}
	report := insights.Analyze(expenses, march, time.Date(2025, time.March, 31, 12, 0, 0, 0, time.UTC))
	d := &services.Dashboard{
		OwnerID: "alice",
		Report:  report,
		Budget:  insights.ComputeStatus(core.MustMoney("800"), report.Breakdown.Total),
	}

	out := RenderDashboard(d)
	assert.Contains(t, out, "2025-03")
	assert.Contains(t, out, "1000.00")
	assert.Contains(t, out, "Housing")
	assert.Contains(t, out, "over by 200.00")
	assert.Contains(t, out, "+100.0%")
}

func TestRenderHistory(t *testing.T) {
	out := RenderHistory([]insights.MonthTotal{
		{Period: core.Period{Year: 2025, Month: time.January}, Total: core.MustMoney("50")},
		{Period: core.Period{Year: 2025, Month: time.February}, Total: core.MustMoney("100")},
	})
	assert.Contains(t, out, "2025-01")
	assert.Equal(t, 1, strings.Count(out, strings.Repeat("█", barWidth)))

	assert.Contains(t, RenderHistory(nil), "No expenses")
}
