package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/Lllllllleong/sanctionlistflow/internal/blob"
	"github.com/Lllllllleong/sanctionlistflow/internal/config"
	"github.com/Lllllllleong/sanctionlistflow/internal/models"
	"github.com/Lllllllleong/sanctionlistflow/internal/services"
)

// local-check runs one watcher pass against a directory instead of GCS,
// with the run log and workflow trigger disabled. It exists for inspecting
// what a deployment would publish before wiring any cloud resources.
func main() {
	dataDir := flag.String("data", "./data", "directory holding snapshots and fingerprints")
	source := flag.String("source", "", "check a single source (unsc or kdn) instead of all")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	switch *source {
	case "", models.SourceUNSC, models.SourceKDN:
	default:
		slog.Error("Unknown source.", "source", *source)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration.", "error", err)
		os.Exit(1)
	}
	cfg.Storage.Backend = blob.BackendLocal
	cfg.Storage.BaseDir = *dataDir
	cfg.Firestore.ProjectID = ""
	cfg.Workflow.ID = ""

	ctx := context.Background()
	watcher, err := services.NewWatcher(ctx, cfg)
	if err != nil {
		slog.Error("Failed to initialize the watcher.", "error", err)
		os.Exit(1)
	}
	if *source != "" {
		watcher.Only(*source)
	}

	summary, runErr := watcher.Run(ctx)
	out, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		slog.Error("Failed to render the run summary.", "error", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
	if runErr != nil {
		os.Exit(1)
	}
}
