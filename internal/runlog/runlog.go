// Package runlog records one Firestore document per source per watcher
// run, mirroring pipeline progress for operational queries.
package runlog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cloud.google.com/go/firestore"
)

// Run statuses.
const (
	StatusRunning   = "RUNNING"
	StatusSkipped   = "SKIPPED"
	StatusSucceeded = "SUCCEEDED"
	StatusFailed    = "FAILED"
)

// Record is the Firestore document for one source within one run.
type Record struct {
	RunID        string         `firestore:"runId"`
	Source       string         `firestore:"source"`
	Status       string         `firestore:"status"`
	Fingerprint  string         `firestore:"fingerprint,omitempty"`
	RecordCounts map[string]int `firestore:"recordCounts,omitempty"`
	OutputKeys   []string       `firestore:"outputKeys,omitempty"`
	ErrorDetails string         `firestore:"errorDetails,omitempty"`
	StartedAt    time.Time      `firestore:"startedAt"`
	FinishedAt   time.Time      `firestore:"finishedAt,omitempty"`
}

// Logger writes run records. A nil Logger is valid and records nothing, so
// deployments without Firestore skip the bookkeeping without branching at
// every call site. Run-log writes never fail a run; problems are logged
// and the pipeline moves on.
type Logger struct {
	client     *firestore.Client
	collection string
}

func New(client *firestore.Client, collection string) *Logger {
	return &Logger{client: client, collection: collection}
}

// Begin opens the record for one source's pass within a run.
func (l *Logger) Begin(ctx context.Context, runID, source string) {
	if l == nil {
		return
	}
	rec := Record{
		RunID:     runID,
		Source:    source,
		Status:    StatusRunning,
		StartedAt: time.Now(),
	}
	if _, err := l.docRef(runID, source).Set(ctx, rec); err != nil {
		slog.Warn("Could not write run-log record.", "runId", runID, "source", source, "error", err)
	}
}

// Skipped closes the record for a source whose document was unchanged.
func (l *Logger) Skipped(ctx context.Context, runID, source, fingerprint string) {
	l.finish(ctx, runID, source, []firestore.Update{
		{Path: "status", Value: StatusSkipped},
		{Path: "fingerprint", Value: fingerprint},
		{Path: "finishedAt", Value: time.Now()},
	})
}

// Succeeded closes the record for a source whose snapshots were published.
func (l *Logger) Succeeded(ctx context.Context, runID, source, fingerprint string, counts map[string]int, outputKeys []string) {
	l.finish(ctx, runID, source, []firestore.Update{
		{Path: "status", Value: StatusSucceeded},
		{Path: "fingerprint", Value: fingerprint},
		{Path: "recordCounts", Value: counts},
		{Path: "outputKeys", Value: outputKeys},
		{Path: "finishedAt", Value: time.Now()},
	})
}

// Failed closes the record for a source whose pass errored.
func (l *Logger) Failed(ctx context.Context, runID, source, detail string) {
	l.finish(ctx, runID, source, []firestore.Update{
		{Path: "status", Value: StatusFailed},
		{Path: "errorDetails", Value: detail},
		{Path: "finishedAt", Value: time.Now()},
	})
}

func (l *Logger) finish(ctx context.Context, runID, source string, updates []firestore.Update) {
	if l == nil {
		return
	}
	if _, err := l.docRef(runID, source).Update(ctx, updates); err != nil {
		slog.Warn("Could not update run-log record.", "runId", runID, "source", source, "error", err)
	}
}

func (l *Logger) docRef(runID, source string) *firestore.DocumentRef {
	return l.client.Collection(l.collection).Doc(fmt.Sprintf("%s-%s", runID, source))
}
