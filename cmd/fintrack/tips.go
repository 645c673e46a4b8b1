package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"fintrack/internal/backend"
	"fintrack/internal/cli"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/services"
)

func tipsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tips",
		Short: "Print the breakdown, budget and tips for a month",
		Long: `Analyse one month for an owner and print the category breakdown,
budget progress and tips. With --history the per-month totals of the
preceding months are printed as well.`,
		RunE: runTips,
	}
	cmd.Flags().StringP("month", "m", "", "month to analyse (format: 2025-03, default: current)")
	cmd.Flags().String("owner", "", "owner id (default: DEFAULT_OWNER_ID)")
	cmd.Flags().Int("history", 0, "also show totals for this many months ending at --month")
	cmd.Flags().Bool("json", false, "print the report as JSON")
	return cmd
}

func runTips(cmd *cobra.Command, _ []string) error {
	cfg, err := cli.LoadAndValidateConfig(false)
	if err != nil {
		return err
	}
	// Reports go to stdout; logs stay quiet unless something fails.
	cfg.LogLevel = "warn"
	logger := cli.SetupLogger(cfg, cmd.ErrOrStderr())
	ctx := cmd.Context()

	month, _ := cmd.Flags().GetString("month")
	owner, _ := cmd.Flags().GetString("owner")
	history, _ := cmd.Flags().GetInt("history")
	asJSON, _ := cmd.Flags().GetBool("json")

	p := core.PeriodOf(time.Now())
	if month != "" {
		if p, err = core.ParsePeriod(month); err != nil {
			return err
		}
	}
	if owner == "" {
		owner = cfg.DefaultOwnerID
	}

	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	store, err := backend.NewFactory(logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("Closing backend failed", log.FieldError, err)
		}
	}()

	svc := services.NewDashboardService(store, nil, logger)
	d, err := svc.Load(ctx, owner, p)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"period":    d.Report.Period,
			"breakdown": d.Report.Breakdown,
			"budget":    d.Budget,
			"tips":      d.Report.Tips,
		})
	}

	fmt.Fprintln(out, cli.RenderDashboard(d))
	if history > 0 {
		totals, err := svc.History(ctx, owner, p, history)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, cli.RenderHistory(totals))
	}
	return nil
}
