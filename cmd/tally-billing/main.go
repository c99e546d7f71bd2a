package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tally/internal/amqp"
	"tally/internal/audit"
	"tally/internal/cli"
	"tally/internal/core"
	"tally/internal/log"
	"tally/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentBilling)
	cfg := cli.LoadAndValidateConfig(logger)

	logger.Info("starting tally-billing",
		"interval", cfg.BillingInterval.String(),
		log.FieldFile, cfg.DBPath)

	store := cli.InitStore(logger, cfg.DBPath)
	defer store.Close()

	recorder, closeRecorder := cli.BuildRecorder(logger, cfg, func() (audit.Recorder, error) {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			return nil, err
		}
		return client, nil
	})
	defer closeRecorder()

	proc := services.NewBillingProcessor(store, recorder, cfg.ActorID, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runOnce := func() {
		billed, err := proc.ProcessDue(ctx, core.Today())
		if err != nil {
			logger.ErrorContext(ctx, "billing run failed", log.FieldError, err)
			return
		}
		if billed > 0 {
			logger.InfoContext(ctx, "billing run complete", "billed", billed)
		}
	}

	// Bill anything already due, then keep ticking.
	runOnce()

	ticker := time.NewTicker(cfg.BillingInterval)
	defer ticker.Stop()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case sig := <-sigChan:
			logger.Info("shutdown signal received", "signal", sig.String())
			return
		case <-ticker.C:
			runOnce()
		}
	}
}
