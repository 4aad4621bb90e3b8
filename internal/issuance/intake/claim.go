// Package intake turns submitted form events into claims. Events arrive as an
// ordered list of answers: [timestamp, requesterEmail, username, submissionCode, ...].
package intake

import (
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"certify/internal/issuance/models"
	dErrors "certify/pkg/domain-errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Event is the wire shape shared by the HTTP webhook and Kafka records.
type Event struct {
	Values []string `json:"values"`
}

const (
	idxTimestamp = iota
	idxRequesterEmail
	idxUsername
	idxSubmissionCode
	minValues
)

// submittedAtLayouts lists the timestamp formats form exports are known to use.
var submittedAtLayouts = []string{"02/01/2006 15:04:05", time.RFC3339}

// DecodeEvent parses a JSON event body.
func DecodeEvent(data []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return Event{}, dErrors.Wrap(err, dErrors.CodeBadRequest, "malformed claim event")
	}
	return ev, nil
}

// ParseValues maps an ordered answer list onto a Claim. Answers past the
// submission code are ignored. An unparseable timestamp falls back to receivedAt.
func ParseValues(values []string, receivedAt time.Time) (models.Claim, error) {
	if len(values) < minValues {
		return models.Claim{}, dErrors.New(dErrors.CodeBadRequest, "claim event needs timestamp, email, username and submission code")
	}
	claim := models.Claim{
		RequesterEmail: values[idxRequesterEmail],
		Username:       values[idxUsername],
		SubmissionCode: values[idxSubmissionCode],
		SubmittedAt:    parseSubmittedAt(values[idxTimestamp], receivedAt),
	}.Normalized()

	if claim.RequesterEmail == "" {
		return models.Claim{}, dErrors.New(dErrors.CodeValidation, "requester email is required")
	}
	return claim, nil
}

func parseSubmittedAt(raw string, fallback time.Time) time.Time {
	raw = strings.TrimSpace(raw)
	for _, layout := range submittedAtLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return fallback
}
