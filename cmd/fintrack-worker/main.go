// Command fintrack-worker mirrors expense events from the broker into a
// Google Sheets spreadsheet.
package main

import (
	"context"
	"errors"
	"os"

	"fintrack/internal/amqp"
	"fintrack/internal/cli"
	"fintrack/internal/log"
	gsheet "fintrack/internal/sheets/google"
	"fintrack/internal/worker"
)

func main() {
	cli.LoadEnvFile()

	cfg, err := cli.LoadAndValidateConfig(true)
	if err != nil {
		cli.Fatal(nil, "Configuration validation failed", err)
	}
	logger := cli.SetupLogger(cfg, os.Stdout).WithComponent(log.ComponentWorker)
	logger.Info("Starting fintrack-worker", log.FieldOperation, log.OpStartup)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sheets, err := gsheet.New(ctx, gsheet.Config{
		SpreadsheetID:      cfg.GoogleSpreadsheetID,
		SheetName:          cfg.GoogleSheetName,
		ServiceAccountJSON: cfg.GoogleServiceAccountJSON,
		ServiceAccountFile: cfg.GoogleServiceAccountFile,
	}, logger)
	if err != nil {
		cli.Fatal(logger, "Failed to initialize Google Sheets client", err)
	}
	logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)

	broker, err := amqp.Dial(ctx, amqp.Config{
		URL:          cfg.AMQPURL,
		ExchangeName: cfg.AMQPExchange,
		QueueName:    cfg.AMQPQueue,
	}, logger)
	if err != nil {
		cli.Fatal(logger, "Failed to initialize AMQP client", err)
	}

	mirror := worker.NewMirrorWorker(sheets, logger)

	runCtx, done := cli.GracefulShutdown(ctx, logger, cfg.ShutdownTimeout, func(context.Context) error {
		stats := mirror.Stats()
		logger.Info("Mirror totals",
			"appended", stats.Appended,
			"removed", stats.Removed,
			"failed", stats.Failed)
		return broker.Close()
	})

	if err := broker.Consume(runCtx, mirror.Handle); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", log.FieldError, err)
		cancel()
	}
	<-done
}
