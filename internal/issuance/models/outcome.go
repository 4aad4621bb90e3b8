package models

import "time"

// Outcome is the terminal state a run ends in.
type Outcome string

const (
	OutcomeDelivered          Outcome = "delivered"
	OutcomeValidationNotified Outcome = "validation_notified"
	OutcomeTechnicalNotified  Outcome = "technical_notified"
)

// RunResult reports how a single claim was resolved.
type RunResult struct {
	RunID   string
	Outcome Outcome
}

// IssuanceRecord is appended to the issuance log once per run.
type IssuanceRecord struct {
	RunID          string
	Outcome        Outcome
	RequesterEmail string
	Username       string
	SubmissionCode string
	FullName       string
	Reason         string
	RecordedAt     time.Time
}
