package mirror

import "time"

// OutcomeStatus enumerates the terminal states of one repository reconciliation.
type OutcomeStatus string

// Reconciliation outcome statuses.
const (
	OutcomeStatusSucceeded OutcomeStatus = "succeeded"
	OutcomeStatusSkipped   OutcomeStatus = "skipped"
	OutcomeStatusFailed    OutcomeStatus = "failed"
)

// Skip reasons recorded on skipped outcomes.
const (
	SkipReasonProtectedRepository = "protected repository"
	SkipReasonArchivedRepository  = "archived repository"
	SkipReasonDryRun              = "dry run"
)

// ReconciliationOutcome records the terminal state of one repository reconciliation.
type ReconciliationOutcome struct {
	RepositoryName string
	Status         OutcomeStatus
	Reason         string
}

// SucceededOutcome builds a successful outcome for the repository.
func SucceededOutcome(repositoryName string) ReconciliationOutcome {
	return ReconciliationOutcome{RepositoryName: repositoryName, Status: OutcomeStatusSucceeded}
}

// SkippedOutcome builds a skipped outcome with the provided reason.
func SkippedOutcome(repositoryName string, reason string) ReconciliationOutcome {
	return ReconciliationOutcome{RepositoryName: repositoryName, Status: OutcomeStatusSkipped, Reason: reason}
}

// FailedOutcome builds a failed outcome with the provided reason.
func FailedOutcome(repositoryName string, reason string) ReconciliationOutcome {
	return ReconciliationOutcome{RepositoryName: repositoryName, Status: OutcomeStatusFailed, Reason: reason}
}

// RunSummary aggregates reconciliation outcomes for one run.
type RunSummary struct {
	Succeeded   int
	Skipped     int
	Failed      int
	StartedAt   time.Time
	CompletedAt time.Time
}

// Record increments the counter matching the outcome's status.
func (summary *RunSummary) Record(outcome ReconciliationOutcome) {
	switch outcome.Status {
	case OutcomeStatusSucceeded:
		summary.Succeeded++
	case OutcomeStatusSkipped:
		summary.Skipped++
	case OutcomeStatusFailed:
		summary.Failed++
	}
}

// Total returns the number of recorded outcomes.
func (summary RunSummary) Total() int {
	return summary.Succeeded + summary.Skipped + summary.Failed
}

// Duration returns the elapsed wall-clock time of the run.
func (summary RunSummary) Duration() time.Duration {
	if summary.StartedAt.IsZero() || summary.CompletedAt.IsZero() {
		return 0
	}
	return summary.CompletedAt.Sub(summary.StartedAt)
}
