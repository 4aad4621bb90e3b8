package intake

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"certify/internal/issuance/models"
	dErrors "certify/pkg/domain-errors"
	"certify/pkg/requestcontext"
)

func TestParseValues(t *testing.T) {
	received := time.Date(2025, time.June, 5, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		values  []string
		want    models.Claim
		wantErr dErrors.Code
	}{
		{
			name:   "form export timestamp",
			values: []string{"05/06/2025 09:15:00", " jane@x.com", "JSmith ", "ART-42", "ignored"},
			want: models.Claim{
				RequesterEmail: "jane@x.com",
				Username:       "JSmith",
				SubmissionCode: "ART-42",
				SubmittedAt:    time.Date(2025, time.June, 5, 9, 15, 0, 0, time.UTC),
			},
		},
		{
			name:   "rfc3339 timestamp",
			values: []string{"2025-06-05T09:15:00Z", "jane@x.com", "jsmith", "ART-42"},
			want: models.Claim{
				RequesterEmail: "jane@x.com",
				Username:       "jsmith",
				SubmissionCode: "ART-42",
				SubmittedAt:    time.Date(2025, time.June, 5, 9, 15, 0, 0, time.UTC),
			},
		},
		{
			name:   "unparseable timestamp uses receive time",
			values: []string{"yesterday", "jane@x.com", "jsmith", "ART-42"},
			want: models.Claim{
				RequesterEmail: "jane@x.com",
				Username:       "jsmith",
				SubmissionCode: "ART-42",
				SubmittedAt:    received,
			},
		},
		{
			name:    "too few values",
			values:  []string{"05/06/2025 09:15:00", "jane@x.com", "jsmith"},
			wantErr: dErrors.CodeBadRequest,
		},
		{
			name:    "blank email",
			values:  []string{"", "  ", "jsmith", "ART-42"},
			wantErr: dErrors.CodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseValues(tt.values, received)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr, dErrors.CodeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeEventRejectsMalformedJSON(t *testing.T) {
	_, err := DecodeEvent([]byte(`{"values": [`))
	require.Error(t, err)
	assert.Equal(t, dErrors.CodeBadRequest, dErrors.CodeOf(err))
}

type stubProcessor struct {
	claims     []models.Claim
	requestIDs []string
	result     models.RunResult
	err        error
}

func (p *stubProcessor) Process(ctx context.Context, claim models.Claim) (models.RunResult, error) {
	p.claims = append(p.claims, claim)
	p.requestIDs = append(p.requestIDs, requestcontext.RequestID(ctx))
	return p.result, p.err
}

func newTestConsumer(p ClaimProcessor) *Consumer {
	return &Consumer{processor: p, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func TestHandleRecordProcessesClaim(t *testing.T) {
	p := &stubProcessor{result: models.RunResult{RunID: "run-1", Outcome: models.OutcomeDelivered}}
	c := newTestConsumer(p)

	rec := &kgo.Record{
		Value:     []byte(`{"values":["05/06/2025 09:15:00","jane@x.com","JSmith","ART-42"]}`),
		Headers:   []kgo.RecordHeader{{Key: "X-Request-ID", Value: []byte("req-7")}},
		Timestamp: time.Now(),
	}

	require.NoError(t, c.HandleRecord(context.Background(), rec))
	require.Len(t, p.claims, 1)
	assert.Equal(t, "JSmith", p.claims[0].Username)
	assert.Equal(t, []string{"req-7"}, p.requestIDs)
}

func TestHandleRecordSkipsMalformedRecords(t *testing.T) {
	p := &stubProcessor{}
	c := newTestConsumer(p)

	err := c.HandleRecord(context.Background(), &kgo.Record{Value: []byte(`{"values":["only-one"]}`)})

	require.Error(t, err)
	assert.Empty(t, p.claims)
}

func TestHandleRecordReturnsDeliveryFailure(t *testing.T) {
	deliveryErr := &models.DeliveryError{Kind: models.NotificationSuccess, Recipient: "jane@x.com", Err: errors.New("smtp down")}
	p := &stubProcessor{result: models.RunResult{RunID: "run-1", Outcome: models.OutcomeTechnicalNotified}, err: deliveryErr}
	c := newTestConsumer(p)

	err := c.HandleRecord(context.Background(), &kgo.Record{Value: []byte(`{"values":["","jane@x.com","jsmith","ART-42"]}`)})

	assert.ErrorIs(t, err, deliveryErr)
	require.Len(t, p.requestIDs, 1)
	assert.NotEmpty(t, p.requestIDs[0])
}
