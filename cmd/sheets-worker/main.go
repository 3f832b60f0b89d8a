package main

import (
	"context"
	"errors"
	"os"
	"time"

	"paytrack/internal/cli"
	"paytrack/internal/live"
	applog "paytrack/internal/log"
	"paytrack/internal/services"
	"paytrack/internal/sheets"
	gsheet "paytrack/internal/sheets/google"
	"paytrack/internal/sheets/memory"
	"paytrack/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentSheets)
	logger.Info("Starting sheets-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	if cfg.AMQPURL == "" {
		logger.Error("sheets-worker needs AMQP_URL to receive changes")
		os.Exit(1)
	}
	backendRes := cli.OpenStore(context.Background(), logger, cfg)

	var writer sheets.ReportWriter
	if cfg.GoogleSpreadsheetID != "" {
		client, err := gsheet.New(context.Background(), cfg.GoogleSpreadsheetID)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		writer = client
		logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		writer = memory.New()
		logger.Info("Google Sheets disabled - reports are kept in memory only")
	}

	// A durable queue keeps changes made while the worker is down.
	queue := cfg.AMQPQueue
	if queue == "" {
		queue = "paytrack.sheets"
	}
	amqpClient := cli.OpenAMQP(logger, cfg, queue)
	if amqpClient == nil {
		os.Exit(1)
	}

	// Every message reloads from the store; no snapshot cache here.
	dashboard := services.NewDashboardService(live.NewLoader(backendRes.Store, nil))
	mirror := worker.NewSheetsMirror(dashboard, writer, backendRes.Store, cfg.GoogleSheetPrefix, cfg.Location())

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(context.Context) {
		_ = amqpClient.Close()
		if err := backendRes.Close(); err != nil {
			logger.Error("Failed to close store", "error", err)
		}
	})

	logger.Info("Running startup sync")
	if err := mirror.StartupSync(ctx); err != nil {
		logger.Error("Startup sync failed", "error", err)
	}

	go func() {
		if err := amqpClient.Consume(ctx, mirror.HandleChange); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("AMQP consumer stopped", "error", err)
		}
	}()

	cli.WaitForShutdown(ctx, done)
}
