package handler

import (
	"time"

	"certify/internal/issuance/models"
)

// ClaimResponse is the HTTP response for POST /v1/claims.
type ClaimResponse struct {
	RunID   string `json:"run_id"`
	Outcome string `json:"outcome"`
	Error   string `json:"error,omitempty"`
}

// IssuanceResponse is one entry of GET /v1/issuances.
type IssuanceResponse struct {
	RunID          string    `json:"run_id"`
	Outcome        string    `json:"outcome"`
	RequesterEmail string    `json:"requester_email"`
	Username       string    `json:"username"`
	SubmissionCode string    `json:"submission_code"`
	FullName       string    `json:"full_name,omitempty"`
	Reason         string    `json:"reason,omitempty"`
	RecordedAt     time.Time `json:"recorded_at"`
}

type IssuanceListResponse struct {
	Issuances []IssuanceResponse `json:"issuances"`
}

type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// FromRecords converts issuance log records to the HTTP response.
func FromRecords(records []models.IssuanceRecord) *IssuanceListResponse {
	out := make([]IssuanceResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, IssuanceResponse{
			RunID:          rec.RunID,
			Outcome:        string(rec.Outcome),
			RequesterEmail: rec.RequesterEmail,
			Username:       rec.Username,
			SubmissionCode: rec.SubmissionCode,
			FullName:       rec.FullName,
			Reason:         rec.Reason,
			RecordedAt:     rec.RecordedAt,
		})
	}
	return &IssuanceListResponse{Issuances: out}
}
