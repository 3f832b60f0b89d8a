package main

import (
	"context"
	"time"

	"paytrack/internal/cli"
	applog "paytrack/internal/log"
	"paytrack/internal/services"
	"paytrack/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentRecurring)
	logger.Info("Starting recurring-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	backendRes := cli.OpenStore(context.Background(), logger, cfg)

	// Changes are announced so the server and sheets-worker pick up the
	// generated transactions.
	amqpClient := cli.OpenAMQPPublisher(logger, cfg)
	var notifier services.Notifier
	if amqpClient != nil {
		notifier = amqpClient
	} else {
		logger.Info("AMQP disabled - generated transactions will not be announced")
	}

	processor := services.NewRecurringProcessor(backendRes.Store, notifier, cfg.RecurringConcurrency)
	w := worker.NewRecurringWorker(processor, cfg.RecurringInterval, cfg.Location())
	logger.Info("Recurring processor configured",
		"interval", cfg.RecurringInterval,
		"concurrency", cfg.RecurringConcurrency,
		"timezone", cfg.Timezone,
		"backend", cfg.DataBackend)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(context.Context) {
		if amqpClient != nil {
			_ = amqpClient.Close()
		}
		if err := backendRes.Close(); err != nil {
			logger.Error("Failed to close store", "error", err)
		}
	})

	go w.Run(ctx)

	cli.WaitForShutdown(ctx, done)
}
