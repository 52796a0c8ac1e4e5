package main

import (
	"context"
	"log/slog"
	"os"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"
	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	cloudevents "github.com/cloudevents/sdk-go/v2"

	"github.com/Lllllllleong/sanctionlistflow/internal/config"
	"github.com/Lllllllleong/sanctionlistflow/internal/services"
)

var (
	watcherInstance *services.WatcherFunction
	once            sync.Once
	initErr         error
)

func init() {
	// --- Set up structured logging ---
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Register the CloudEvent function. Cloud Scheduler publishes the tick
	// through Pub/Sub and the framework routes it here.
	functions.CloudEvent("CheckSanctionLists", checkSanctionLists)
}

func main() {
	port := "8080"
	if envPort := os.Getenv("PORT"); envPort != "" {
		port = envPort
	}
	if err := funcframework.Start(port); err != nil {
		slog.Error("Failed to start the Functions Framework.", "error", err)
		os.Exit(1)
	}
}

// checkSanctionLists is the Cloud Function entry point. One invocation runs
// every source check once; the event payload carries nothing the run needs.
func checkSanctionLists(ctx context.Context, e cloudevents.Event) error {
	// Use sync.Once for robust, one-time initialization of clients.
	once.Do(func() {
		var cfg *config.Config
		cfg, initErr = config.Load()
		if initErr != nil {
			return
		}
		watcherInstance, initErr = services.NewWatcher(context.Background(), cfg)
	})
	if initErr != nil {
		slog.Error("Critical error during function initialization", "error", initErr)
		return initErr
	}

	slog.Info("Received schedule tick.", "eventId", e.ID(), "eventType", e.Type())

	// Errors inside a run are already logged with context; returning one
	// marks the invocation as failed so the scheduler retries.
	_, err := watcherInstance.Run(ctx)
	return err
}
