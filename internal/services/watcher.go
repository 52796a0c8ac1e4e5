package services

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Lllllllleong/sanctionlistflow/internal/blob"
	"github.com/Lllllllleong/sanctionlistflow/internal/config"
	"github.com/Lllllllleong/sanctionlistflow/internal/fetch"
	"github.com/Lllllllleong/sanctionlistflow/internal/fingerprint"
	"github.com/Lllllllleong/sanctionlistflow/internal/gcp"
	"github.com/Lllllllleong/sanctionlistflow/internal/models"
	"github.com/Lllllllleong/sanctionlistflow/internal/runlog"
)

// WorkflowTrigger starts the downstream workflow with a JSON payload.
// *gcp.WorkflowTrigger satisfies it.
type WorkflowTrigger interface {
	Trigger(ctx context.Context, payload any) error
}

// sourcePipeline is one per-source check. UNSCFunction and KDNFunction
// both satisfy it.
type sourcePipeline interface {
	Source() string
	Process(ctx context.Context, runID string) (*models.SourceReport, error)
}

// WatcherFunction runs every source check and triggers the downstream
// workflow when at least one list changed.
type WatcherFunction struct {
	pipelines []sourcePipeline
	trigger   WorkflowTrigger
}

// NewWatcher wires the full watcher from configuration: the blob store
// holding snapshots and fingerprints, the optional Firestore run log, the
// optional workflow trigger, and one pipeline per source.
func NewWatcher(ctx context.Context, cfg *config.Config) (*WatcherFunction, error) {
	blobs, err := blob.New(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}
	state := fingerprint.NewBlobStore(blobs)

	var runs *runlog.Logger
	if cfg.Firestore.ProjectID != "" {
		client, err := gcp.NewFirestoreClient(ctx, cfg.Firestore.ProjectID)
		if err != nil {
			return nil, err
		}
		runs = runlog.New(client, cfg.Firestore.Collection)
	}

	w := &WatcherFunction{}
	if cfg.Workflow.ID != "" {
		client, err := gcp.NewExecutionsClient(ctx)
		if err != nil {
			return nil, err
		}
		w.trigger = gcp.NewWorkflowTrigger(client, cfg.Workflow.ProjectID, cfg.Workflow.Location, cfg.Workflow.ID)
	}

	unscFetcher := fetch.NewClient(fetch.Options{
		Timeout:   cfg.HTTP.Timeout,
		UserAgent: cfg.HTTP.UserAgent,
	})
	kdnFetcher := fetch.NewClient(fetch.Options{
		Timeout:     cfg.HTTP.Timeout,
		UserAgent:   cfg.HTTP.UserAgent,
		InsecureTLS: cfg.KDN.InsecureTLS,
	})
	w.pipelines = []sourcePipeline{
		NewUNSC(cfg.UNSC, unscFetcher, blobs, state, runs),
		NewKDN(cfg.KDN, kdnFetcher, blobs, state, runs),
	}

	slog.Info("Watcher initialized.",
		"storageBackend", cfg.Storage.Backend,
		"runLog", runs != nil,
		"workflowTrigger", w.trigger != nil)
	return w, nil
}

// Only narrows the watcher to the named sources. Calling it with nothing
// keeps every pipeline.
func (w *WatcherFunction) Only(sources ...string) {
	if len(sources) == 0 {
		return
	}
	keep := make([]sourcePipeline, 0, len(w.pipelines))
	for _, p := range w.pipelines {
		if slices.Contains(sources, p.Source()) {
			keep = append(keep, p)
		}
	}
	w.pipelines = keep
}

// Run checks every source once. The checks run concurrently and
// independently: one source failing never stops the other, so the reports
// collect whatever each pipeline managed before its first error. The
// downstream workflow fires only when at least one source changed.
func (w *WatcherFunction) Run(ctx context.Context) (*models.RunSummary, error) {
	runID := uuid.NewString()
	logCtx := slog.With("runId", runID)
	logCtx.Info("Starting sanction-list run.", "sources", len(w.pipelines))
	summary := &models.RunSummary{
		RunID:     runID,
		StartedAt: time.Now().UTC(),
	}

	reports := make([]*models.SourceReport, len(w.pipelines))
	var eg errgroup.Group
	for i, p := range w.pipelines {
		eg.Go(func() error {
			report, err := p.Process(ctx, runID)
			reports[i] = report
			return err
		})
	}
	runErr := eg.Wait()

	summary.FinishedAt = time.Now().UTC()
	for _, report := range reports {
		if report == nil {
			continue
		}
		summary.Sources = append(summary.Sources, *report)
		summary.Changed = summary.Changed || report.Changed
	}

	if summary.Changed && w.trigger != nil {
		if err := w.trigger.Trigger(ctx, summary); err != nil {
			logCtx.Error("Failed to trigger the downstream workflow.", "error", err)
			if runErr == nil {
				runErr = err
			}
		} else {
			logCtx.Info("Triggered the downstream workflow.")
		}
	}

	logCtx.Info("Sanction-list run finished.",
		"changed", summary.Changed,
		"duration", summary.FinishedAt.Sub(summary.StartedAt).String(),
		"failed", runErr != nil)
	return summary, runErr
}
