package models

import (
	"strings"
	"time"
)

// Claim is one requester's submitted identity and contribution code.
type Claim struct {
	RequesterEmail string
	Username       string
	SubmissionCode string
	SubmittedAt    time.Time
}

// Normalized returns a copy with surrounding whitespace removed from every field.
func (c Claim) Normalized() Claim {
	return Claim{
		RequesterEmail: strings.TrimSpace(c.RequesterEmail),
		Username:       strings.TrimSpace(c.Username),
		SubmissionCode: strings.TrimSpace(c.SubmissionCode),
		SubmittedAt:    c.SubmittedAt,
	}
}

// ReferenceRecord is one row of the trusted dataset of completed reviews.
type ReferenceRecord struct {
	Username       string `json:"username"`
	SubmissionCode string `json:"submission_code"`
	FullName       string `json:"full_name"`
}
