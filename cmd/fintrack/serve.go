package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"fintrack/internal/amqp"
	"fintrack/internal/auth"
	"fintrack/internal/backend"
	"fintrack/internal/cache"
	"fintrack/internal/cli"
	apphttp "fintrack/internal/http"
	"fintrack/internal/log"
	"fintrack/internal/services"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web dashboard and JSON API",
		RunE:  runServe,
	}
	cmd.Flags().Int("rate-limit", 60, "write requests per minute per client")
	cmd.Flags().StringSlice("trusted-proxy", nil, "extra CIDR allowed to set X-Forwarded-For")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := cli.LoadAndValidateConfig(false)
	if err != nil {
		return err
	}
	logger := cli.SetupLogger(cfg, cmd.OutOrStdout())
	ctx := cmd.Context()

	logger.Info("Starting fintrack", log.FieldOperation, log.OpStartup, "version", version, "backend", cfg.DataBackend)

	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	store, err := backend.NewFactory(logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return err
	}

	snapshots := cache.NewLRUCache[services.Snapshot](cfg.CacheSize, cfg.CacheTTL)
	caches := cache.NewManager(logger)
	caches.Register(snapshots)
	caches.StartCleanup(time.Minute)

	var (
		publisher services.EventPublisher
		broker    *amqp.Client
	)
	if cfg.AMQPURL != "" {
		broker, err = amqp.Dial(ctx, amqp.Config{
			URL:          cfg.AMQPURL,
			ExchangeName: cfg.AMQPExchange,
			QueueName:    cfg.AMQPQueue,
		}, logger)
		if err != nil {
			caches.Stop()
			_ = store.Close()
			return fmt.Errorf("connect to broker: %w", err)
		}
		publisher = broker
	} else {
		logger.Info("AMQP_URL not set, expense events are not published")
	}

	rateLimit, _ := cmd.Flags().GetInt("rate-limit")
	proxies, _ := cmd.Flags().GetStringSlice("trusted-proxy")

	authn := auth.New(cfg.AuthJWTSecret, cfg.DefaultOwnerID, logger)
	srv, err := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Expenses:          services.NewExpenseService(store, publisher, snapshots, logger),
		Dashboard:         services.NewDashboardService(store, snapshots, logger),
		Auth:              authn,
		Backend:           store,
		Snapshots:         snapshots,
		Logger:            logger,
		RequestsPerMinute: rateLimit,
		TrustedProxies:    proxies,
	})
	if err != nil {
		caches.Stop()
		if broker != nil {
			_ = broker.Close()
		}
		_ = store.Close()
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	runCtx, done := cli.GracefulShutdown(ctx, logger, cfg.ShutdownTimeout, func(shutdownCtx context.Context) error {
		err := srv.Shutdown(shutdownCtx)
		caches.Stop()
		if broker != nil {
			err = errors.Join(err, broker.Close())
		}
		return errors.Join(err, store.Close())
	})

	logger.Info("Listening", "port", cfg.Port, "auth", authn.Enabled())
	serveErr := srv.ListenAndServe()
	if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
		logger.Error("Server error", log.FieldError, serveErr, "port", cfg.Port)
		cancel()
	}

	<-runCtx.Done()
	<-done
	if errors.Is(serveErr, http.ErrServerClosed) {
		return nil
	}
	return serveErr
}
