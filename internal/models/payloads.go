// Package models defines the payload shapes shared between the watcher,
// its run log, and the downstream workflow.
package models

import "time"

// Source names used in reports, run-log documents, and log context.
const (
	SourceUNSC = "unsc"
	SourceKDN  = "kdn"
)

// SourceReport summarizes one source pipeline's outcome within a run.
type SourceReport struct {
	Source       string         `json:"source"`
	Changed      bool           `json:"changed"`
	Fingerprint  string         `json:"fingerprint,omitempty"`
	RecordCounts map[string]int `json:"recordCounts,omitempty"`
	OutputKeys   []string       `json:"outputKeys,omitempty"`
	Error        string         `json:"error,omitempty"`
}

// RunSummary is one whole invocation's outcome. It doubles as the workflow
// trigger payload, so downstream consumers can see which snapshots to
// reload.
type RunSummary struct {
	RunID      string         `json:"runId"`
	StartedAt  time.Time      `json:"startedAt"`
	FinishedAt time.Time      `json:"finishedAt"`
	Changed    bool           `json:"changed"`
	Sources    []SourceReport `json:"sources"`
}
