package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"paytrack/internal/amqp"
	"paytrack/internal/cache"
	"paytrack/internal/cli"
	apphttp "paytrack/internal/http"
	"paytrack/internal/live"
	applog "paytrack/internal/log"
	"paytrack/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentApp)
	logger.Info("Starting paytrack")

	cfg := cli.LoadAndValidateConfig(logger)
	backendRes := cli.OpenStore(context.Background(), logger, cfg)
	st := backendRes.Store

	snapshots := cache.NewLRUCache[live.Snapshot](cfg.SnapshotCacheSize, cfg.SnapshotCacheTTL)
	cacheManager := cache.NewManager()
	cacheManager.Register("snapshots", snapshots)

	loader := live.NewLoader(st, snapshots)
	hub := live.NewHub(loader)

	// Each server instance gets its own exclusive queue so every instance
	// hears about writes made elsewhere.
	amqpClient := cli.OpenAMQP(logger, cfg, "")
	notifiers := services.Notifiers{hub}
	if amqpClient != nil {
		notifiers = append(notifiers, amqpClient)
	} else {
		logger.Info("AMQP disabled - changes stay in this process")
	}

	ledger := services.NewLedgerService(st, notifiers)
	dashboard := services.NewDashboardService(loader)
	processor := services.NewRecurringProcessor(st, notifiers, cfg.RecurringConcurrency)

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Ledger:       ledger,
		Dashboard:    dashboard,
		Materializer: processor,
		Streamer:     hub,
		UserHeader:   cfg.UserHeader,
		Location:     cfg.Location(),
		Ready:        backendRes.Ping,
		Logger:       logger,
	})

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(shutdownCtx context.Context) {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown failed", "error", err)
		}
		cacheManager.Stop()
		if amqpClient != nil {
			_ = amqpClient.Close()
		}
		if err := backendRes.Close(); err != nil {
			logger.Error("Failed to close store", "error", err)
		}
	})

	cacheManager.Start(ctx, time.Minute)

	if amqpClient != nil {
		go func() {
			err := amqpClient.Consume(ctx, func(ctx context.Context, msg *amqp.ChangeMessage) error {
				hub.Notify(ctx, msg.Change)
				return nil
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("AMQP consumer stopped", "error", err)
			}
		}()
	}

	go func() {
		logger.Info("HTTP server listening",
			"addr", srv.Addr,
			"backend", cfg.DataBackend,
			"user_header", cfg.UserHeader,
			"timezone", cfg.Timezone)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", "error", err)
			os.Exit(1)
		}
	}()

	cli.WaitForShutdown(ctx, done)
}
