package main

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// OwnerState tracks how far one owner's pipeline progressed.
type OwnerState string

const (
	StatePending     OwnerState = "PENDING"
	StateProvisioned OwnerState = "PROVISIONED"
	StateRegistered  OwnerState = "REGISTERED"
	StateDataCopied  OwnerState = "DATA_COPIED"
	StateDone        OwnerState = "DONE"
	StateFailed      OwnerState = "FAILED"
)

// OwnerOutcome records the result of one owner's migration: the state
// reached, per-collection row counts, and error detail when something failed.
type OwnerOutcome struct {
	OwnerID     uint                     `json:"owner_id"`
	Email       string                   `json:"email"`
	DBName      string                   `json:"db_name,omitempty"`
	State       OwnerState               `json:"state"`
	FailedStage string                   `json:"failed_stage,omitempty"`
	Errors      []string                 `json:"errors,omitempty"`
	Counts      map[CollectionKind]int64 `json:"counts,omitempty"`
	Skipped     bool                     `json:"skipped,omitempty"`
}

// fail marks the outcome failed. The first failing stage is kept as the
// headline; every error is retained for the report.
func (o *OwnerOutcome) fail(stage string, err error) {
	o.State = StateFailed
	if o.FailedStage == "" {
		o.FailedStage = stage
	}
	o.Errors = append(o.Errors, err.Error())
}

func (o *OwnerOutcome) setCount(kind CollectionKind, n int64) {
	if o.Counts == nil {
		o.Counts = make(map[CollectionKind]int64)
	}
	o.Counts[kind] = n
}

// Report aggregates per-owner outcomes for one run. Outcomes are recorded
// whole once an owner finishes, so concurrent readers (the status endpoint)
// only ever see completed entries.
type Report struct {
	mu         sync.RWMutex
	startedAt  time.Time
	finishedAt time.Time
	outcomes   []*OwnerOutcome
}

func NewReport() *Report {
	return &Report{startedAt: time.Now()}
}

// Record appends a finished owner's outcome.
func (r *Report) Record(outcome *OwnerOutcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, outcome)
}

// Finish stamps the run's end time.
func (r *Report) Finish() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finishedAt = time.Now()
}

// ReportSnapshot is the serializable view of a run.
type ReportSnapshot struct {
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt *time.Time      `json:"finished_at,omitempty"`
	Done       int             `json:"done"`
	Failed     int             `json:"failed"`
	Skipped    int             `json:"skipped"`
	Outcomes   []*OwnerOutcome `json:"outcomes"`
}

// Snapshot returns a copy safe to serialize while the run continues.
func (r *Report) Snapshot() ReportSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap := ReportSnapshot{
		StartedAt: r.startedAt,
		Outcomes:  make([]*OwnerOutcome, len(r.outcomes)),
	}
	copy(snap.Outcomes, r.outcomes)
	if !r.finishedAt.IsZero() {
		t := r.finishedAt
		snap.FinishedAt = &t
	}
	for _, o := range r.outcomes {
		switch {
		case o.Skipped:
			snap.Skipped++
		case o.State == StateDone:
			snap.Done++
		case o.State == StateFailed:
			snap.Failed++
		}
	}
	return snap
}

// Render writes the operator-facing end-of-run summary.
func (r *Report) Render(w io.Writer) {
	snap := r.Snapshot()

	fmt.Fprintf(w, "migration run started %s\n", snap.StartedAt.Format(time.RFC3339))
	for _, o := range snap.Outcomes {
		switch {
		case o.Skipped:
			fmt.Fprintf(w, "  owner %d (%s): already migrated, skipped (%s)\n", o.OwnerID, o.Email, o.DBName)
		case o.State == StateDone:
			fmt.Fprintf(w, "  owner %d (%s): DONE db=%s %s\n", o.OwnerID, o.Email, o.DBName, formatCounts(o.Counts))
		default:
			fmt.Fprintf(w, "  owner %d (%s): FAILED at %s %s\n", o.OwnerID, o.Email, o.FailedStage, formatCounts(o.Counts))
			for _, e := range o.Errors {
				fmt.Fprintf(w, "    error: %s\n", e)
			}
		}
	}
	fmt.Fprintf(w, "total: %d done, %d failed, %d skipped\n", snap.Done, snap.Failed, snap.Skipped)
}

func formatCounts(counts map[CollectionKind]int64) string {
	if len(counts) == 0 {
		return ""
	}
	parts := make([]string, 0, len(counts))
	for _, kind := range collectionOrder {
		if n, ok := counts[kind]; ok {
			parts = append(parts, fmt.Sprintf("%s=%d", kind, n))
		}
	}
	return strings.Join(parts, " ")
}
