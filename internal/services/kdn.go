package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Lllllllleong/sanctionlistflow/internal/blob"
	"github.com/Lllllllleong/sanctionlistflow/internal/config"
	"github.com/Lllllllleong/sanctionlistflow/internal/fingerprint"
	"github.com/Lllllllleong/sanctionlistflow/internal/kdn"
	"github.com/Lllllllleong/sanctionlistflow/internal/models"
	"github.com/Lllllllleong/sanctionlistflow/internal/pdfpage"
	"github.com/Lllllllleong/sanctionlistflow/internal/runlog"
	"github.com/Lllllllleong/sanctionlistflow/internal/scrape"
)

// KDNFunction checks the Ministry of Home Affairs sanction list for changes
// and republishes the PDF's tables as JSON snapshots when the document moves.
type KDNFunction struct {
	config  config.KDNConfig
	fetcher Fetcher
	blobs   blob.Store
	state   fingerprint.Store
	runs    *runlog.Logger

	readPages func(data []byte) ([]pdfpage.Page, error)
	now       func() time.Time
}

// NewKDN creates a new KDNFunction instance.
func NewKDN(cfg config.KDNConfig, fetcher Fetcher, blobs blob.Store, state fingerprint.Store, runs *runlog.Logger) *KDNFunction {
	return &KDNFunction{
		config:    cfg,
		fetcher:   fetcher,
		blobs:     blobs,
		state:     state,
		runs:      runs,
		readPages: pdfpage.Read,
		now:       time.Now,
	}
}

// Source identifies the pipeline in reports and the run log.
func (f *KDNFunction) Source() string { return models.SourceKDN }

// Process runs one ministry-list check and reports what it did.
func (f *KDNFunction) Process(ctx context.Context, runID string) (*models.SourceReport, error) {
	logCtx := slog.With("runId", runID, "source", models.SourceKDN)
	report := &models.SourceReport{Source: models.SourceKDN}
	f.runs.Begin(ctx, runID, models.SourceKDN)
	fail := func(message string, err error) error {
		return handleError(ctx, logCtx, f.runs, runID, report, message, err)
	}

	// --- 1. Locate the PDF document behind the listing page ---
	listing, err := f.fetcher.Get(ctx, f.config.ListURL)
	if err != nil {
		return report, fail("failed to fetch listing page", err)
	}
	pdfURL, found, err := scrape.FindLink(listing, f.config.BaseURL, scrape.LinkQuery{
		Contains:    []string{"SENARAI_KDN", ".pdf"},
		NotSuffixes: []string{".xml"},
	})
	if err != nil {
		return report, fail("failed to scan listing page for the PDF link", err)
	}
	if !found {
		return report, fail("failed to locate the PDF link", fmt.Errorf("no anchor mentions SENARAI_KDN and .pdf on %s", f.config.ListURL))
	}
	logCtx.Info("Located ministry-list PDF.", "url", pdfURL)

	// --- 2. Fetch and fingerprint ---
	data, err := f.fetcher.Get(ctx, pdfURL)
	if err != nil {
		return report, fail("failed to download the ministry list", err)
	}
	digest := fingerprint.Digest(data)
	report.Fingerprint = digest
	stored, exists, err := f.state.Load(ctx, f.config.StateKey)
	if err != nil {
		return report, fail("failed to load the stored fingerprint", err)
	}
	if !fingerprint.Changed(digest, stored, exists) {
		logCtx.Info("Ministry list unchanged. Skipping.", "fingerprint", digest)
		f.runs.Skipped(ctx, runID, models.SourceKDN, digest)
		return report, nil
	}
	logCtx.Info("Ministry list changed.", "fingerprint", digest, "bytes", len(data))

	// --- 3. Extract the individual and group tables ---
	pages, err := f.readPages(data)
	if err != nil {
		return report, fail("failed to read the PDF", err)
	}
	now := f.now()
	individuals := kdn.ExtractIndividuals(pages, now)
	groups := kdn.ExtractGroups(pages, f.config.GroupsFirstPage, f.config.GroupsLastPage, now)
	if len(individuals) == 0 && len(groups) == 0 {
		logCtx.Warn("No records extracted from the PDF. Publishing empty snapshots.", "pages", len(pages))
	}

	// --- 4. Publish and advance the fingerprint ---
	if err := blob.PutJSON(ctx, f.blobs, f.config.IndividualsKey, individuals); err != nil {
		return report, fail("failed to publish the individuals snapshot", err)
	}
	if err := blob.PutJSON(ctx, f.blobs, f.config.GroupsKey, groups); err != nil {
		return report, fail("failed to publish the groups snapshot", err)
	}
	// The fingerprint advances only after both snapshots are fully
	// published, so a failed run retries from scratch.
	if err := f.state.Save(ctx, f.config.StateKey, digest); err != nil {
		return report, fail("failed to save the fingerprint", err)
	}

	report.Changed = true
	report.RecordCounts = map[string]int{
		"individuals": len(individuals),
		"groups":      len(groups),
	}
	report.OutputKeys = []string{f.config.IndividualsKey, f.config.GroupsKey}
	f.runs.Succeeded(ctx, runID, models.SourceKDN, digest, report.RecordCounts, report.OutputKeys)
	logCtx.Info("Ministry list published.",
		"individuals", len(individuals),
		"groups", len(groups),
		"outputKeys", report.OutputKeys)
	return report, nil
}
