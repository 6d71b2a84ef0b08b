package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"bilancio/internal/cli"
	"bilancio/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	ownerID := flag.String("owner", "", "owner UUID whose data to export")
	outPath := flag.String("out", "", "output file (default: stdout)")
	flag.Parse()

	if *ownerID == "" {
		fmt.Fprintln(os.Stderr, "usage: bilancio-export -owner <uuid> [-out snapshot.json]")
		os.Exit(2)
	}

	cfg := cli.LoadAndValidateConfig(logger)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ExportTimeout)
	defer cancel()

	result := cli.InitBackend(ctx, logger, cfg)
	defer func() {
		if result.Cleanup != nil {
			if err := result.Cleanup(); err != nil {
				logger.Warn("Backend cleanup failed", "error", err)
			}
		}
	}()

	var events services.EventPublisher
	if result.Events != nil {
		events = result.Events
	}
	svc := services.NewSnapshotService(result.Store, events)

	snap, err := svc.Export(ctx, *ownerID)
	if err != nil {
		logger.Error("Export failed", "error", err, "owner_id", *ownerID)
		os.Exit(1)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		logger.Error("Failed to encode snapshot", "error", err)
		os.Exit(1)
	}
	data = append(data, '\n')

	if *outPath == "" {
		if _, err := os.Stdout.Write(data); err != nil {
			logger.Error("Failed to write snapshot", "error", err)
			os.Exit(1)
		}
		return
	}

	if err := os.WriteFile(*outPath, data, 0644); err != nil {
		logger.Error("Failed to write snapshot file", "error", err, "file", *outPath)
		os.Exit(1)
	}
	logger.Info("Snapshot written",
		"file", *outPath,
		"bytes", len(data),
		"templates", snap.Metadata.TotalTemplates,
		"budgets", snap.Metadata.TotalBudgets,
		"transactions", snap.Metadata.TotalTransactions,
		"savings_goals", snap.Metadata.TotalSavingsGoals)
}
