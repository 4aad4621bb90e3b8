// Package validator matches reviewer claims against the reference dataset.
package validator

import (
	"strings"

	"certify/internal/issuance/models"
)

// Validate scans records in stored order and returns the first one whose
// username equals the claim's ignoring case and whose submission code equals
// the claim's exactly. Duplicate rows are not an error: the earliest row wins,
// so the result depends on table order.
func Validate(claim models.Claim, records []models.ReferenceRecord) models.MatchResult {
	username := strings.ToLower(strings.TrimSpace(claim.Username))
	code := strings.TrimSpace(claim.SubmissionCode)

	for _, rec := range records {
		if strings.ToLower(strings.TrimSpace(rec.Username)) != username {
			continue
		}
		if strings.TrimSpace(rec.SubmissionCode) != code {
			continue
		}
		return models.Matched(strings.TrimSpace(rec.FullName))
	}
	return models.NotFound
}
