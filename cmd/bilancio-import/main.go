package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"bilancio/internal/cli"
	"bilancio/internal/services"
	"bilancio/internal/snapshot"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	ownerID := flag.String("owner", "", "owner UUID receiving the imported data")
	filePath := flag.String("file", "", "snapshot JSON file to import")
	modeFlag := flag.String("mode", "", "import mode: replace, merge or append (default: replace)")
	dryRun := flag.Bool("dry-run", false, "validate and count without applying changes")
	flag.Parse()

	if *ownerID == "" || *filePath == "" {
		fmt.Fprintln(os.Stderr, "usage: bilancio-import -owner <uuid> -file snapshot.json [-mode replace|merge|append] [-dry-run]")
		os.Exit(2)
	}

	if !strings.EqualFold(filepath.Ext(*filePath), ".json") {
		logger.Error("Only JSON snapshot files are supported", "file", *filePath)
		os.Exit(1)
	}

	mode, err := snapshot.ParseMode(*modeFlag)
	if err != nil {
		logger.Error("Invalid import mode", "error", err, "mode", *modeFlag)
		os.Exit(1)
	}

	doc, err := os.ReadFile(*filePath)
	if err != nil {
		logger.Error("Failed to read snapshot file", "error", err, "file", *filePath)
		os.Exit(1)
	}
	if len(doc) > services.MaxDocumentBytes {
		logger.Error("Snapshot file exceeds size limit",
			"file", *filePath, "bytes", len(doc), "limit", services.MaxDocumentBytes)
		os.Exit(1)
	}

	cfg := cli.LoadAndValidateConfig(logger)

	ctx := context.Background()
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

	res, err := svc.ImportDocument(ctx, *ownerID, doc, snapshot.Options{
		Mode:   mode,
		DryRun: *dryRun,
	})
	if err != nil {
		logger.Error("Import aborted", "error", err, "owner_id", *ownerID, "mode", string(mode))
		os.Exit(1)
	}

	logger.Info(res.Message,
		"owner_id", *ownerID,
		"mode", string(mode),
		"dry_run", *dryRun,
		"templates", res.Imported.Templates,
		"template_lines", res.Imported.TemplateLines,
		"monthly_budgets", res.Imported.MonthlyBudgets,
		"budget_lines", res.Imported.BudgetLines,
		"transactions", res.Imported.Transactions,
		"savings_goals", res.Imported.SavingsGoals,
		"errors", len(res.Errors),
		"warnings", len(res.Warnings))

	for _, w := range res.Warnings {
		logger.Warn(w)
	}
	for _, e := range res.Errors {
		logger.Error(e)
	}
}
