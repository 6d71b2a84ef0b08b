package main

import (
	"context"
	"os"
	"time"

	"bilancio/internal/amqp"
	"bilancio/internal/cli"
	"bilancio/internal/snapshot"
	"bilancio/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting bilancio-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the backup worker")
		os.Exit(1)
	}

	result := cli.InitBackend(context.Background(), logger, cfg)
	if result.Events == nil {
		logger.Error("AMQP client unavailable, cannot consume events")
		os.Exit(1)
	}

	backup := worker.NewBackupWorker(snapshot.NewBuilder(result.Store), cfg.BackupDir)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		if result.Cleanup != nil {
			if err := result.Cleanup(); err != nil {
				logger.Warn("Backend cleanup failed", "error", err)
			}
		}
	})

	logger.Info("Backup worker ready", "backup_dir", cfg.BackupDir, "queue", cfg.AMQPQueue)

	err := result.Events.ConsumeSnapshotImported(ctx, func(msg *amqp.SnapshotImportedMessage) error {
		return backup.HandleImportedEvent(ctx, msg)
	})
	if err != nil && ctx.Err() == nil {
		logger.Error("Consumer stopped", "error", err)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
}
