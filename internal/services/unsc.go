package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Lllllllleong/sanctionlistflow/internal/blob"
	"github.com/Lllllllleong/sanctionlistflow/internal/config"
	"github.com/Lllllllleong/sanctionlistflow/internal/fingerprint"
	"github.com/Lllllllleong/sanctionlistflow/internal/models"
	"github.com/Lllllllleong/sanctionlistflow/internal/runlog"
	"github.com/Lllllllleong/sanctionlistflow/internal/scrape"
	"github.com/Lllllllleong/sanctionlistflow/internal/unsc"
)

// Fetcher retrieves a document over HTTP. *fetch.Client satisfies it.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// UNSCFunction checks the Security Council consolidated list for changes and
// republishes it as a JSON snapshot when the XML behind the listing page moves.
type UNSCFunction struct {
	config  config.UNSCConfig
	fetcher Fetcher
	blobs   blob.Store
	state   fingerprint.Store
	runs    *runlog.Logger
}

// NewUNSC creates a new UNSCFunction instance.
func NewUNSC(cfg config.UNSCConfig, fetcher Fetcher, blobs blob.Store, state fingerprint.Store, runs *runlog.Logger) *UNSCFunction {
	return &UNSCFunction{
		config:  cfg,
		fetcher: fetcher,
		blobs:   blobs,
		state:   state,
		runs:    runs,
	}
}

// Source identifies the pipeline in reports and the run log.
func (f *UNSCFunction) Source() string { return models.SourceUNSC }

// Process runs one consolidated-list check and reports what it did.
func (f *UNSCFunction) Process(ctx context.Context, runID string) (*models.SourceReport, error) {
	logCtx := slog.With("runId", runID, "source", models.SourceUNSC)
	report := &models.SourceReport{Source: models.SourceUNSC}
	f.runs.Begin(ctx, runID, models.SourceUNSC)
	fail := func(message string, err error) error {
		return handleError(ctx, logCtx, f.runs, runID, report, message, err)
	}

	// --- 1. Locate the XML document behind the listing page ---
	listing, err := f.fetcher.Get(ctx, f.config.ListURL)
	if err != nil {
		return report, fail("failed to fetch listing page", err)
	}
	xmlURL, found, err := scrape.FindLink(listing, f.config.ListURL, scrape.LinkQuery{
		Class:    "documentlinks",
		Contains: []string{"xml"},
	})
	if err != nil {
		return report, fail("failed to scan listing page for the XML link", err)
	}
	if !found {
		return report, fail("failed to locate the XML link", fmt.Errorf("no documentlinks anchor mentions xml on %s", f.config.ListURL))
	}
	logCtx.Info("Located consolidated-list XML.", "url", xmlURL)

	// --- 2. Fetch and fingerprint ---
	data, err := f.fetcher.Get(ctx, xmlURL)
	if err != nil {
		return report, fail("failed to download the consolidated list", err)
	}
	digest := fingerprint.Digest(data)
	report.Fingerprint = digest
	stored, exists, err := f.state.Load(ctx, f.config.StateKey)
	if err != nil {
		return report, fail("failed to load the stored fingerprint", err)
	}
	if !fingerprint.Changed(digest, stored, exists) {
		logCtx.Info("Consolidated list unchanged. Skipping.", "fingerprint", digest)
		f.runs.Skipped(ctx, runID, models.SourceUNSC, digest)
		return report, nil
	}
	logCtx.Info("Consolidated list changed.", "fingerprint", digest, "bytes", len(data))

	// --- 3. Normalize and publish ---
	list, err := unsc.Normalize(data)
	if err != nil {
		return report, fail("failed to normalize the consolidated list", err)
	}
	if err := blob.PutJSON(ctx, f.blobs, f.config.OutputKey, list); err != nil {
		return report, fail("failed to publish the snapshot", err)
	}
	// The fingerprint advances only after the snapshot is fully published,
	// so a failed run retries from scratch.
	if err := f.state.Save(ctx, f.config.StateKey, digest); err != nil {
		return report, fail("failed to save the fingerprint", err)
	}

	report.Changed = true
	report.RecordCounts = map[string]int{
		"individuals": len(list.Individuals),
		"entities":    len(list.Entities),
	}
	report.OutputKeys = []string{f.config.OutputKey}
	f.runs.Succeeded(ctx, runID, models.SourceUNSC, digest, report.RecordCounts, report.OutputKeys)
	logCtx.Info("Consolidated list published.",
		"individuals", len(list.Individuals),
		"entities", len(list.Entities),
		"outputKey", f.config.OutputKey)
	return report, nil
}

// handleError wraps a source-check failure once: it logs it, records it on
// the report and in the run log, and returns the wrapped error for the caller.
func handleError(ctx context.Context, logCtx *slog.Logger, runs *runlog.Logger, runID string, report *models.SourceReport, message string, originalErr error) error {
	wrapped := fmt.Errorf("%s: %w", message, originalErr)
	logCtx.Error(message, "error", originalErr)
	report.Error = wrapped.Error()
	runs.Failed(ctx, runID, report.Source, wrapped.Error())
	return wrapped
}
