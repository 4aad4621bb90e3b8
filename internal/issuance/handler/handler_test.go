package handler

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"certify/internal/issuance/models"
	"certify/internal/issuance/store"
	"certify/internal/platform/middleware"
	"certify/pkg/testutil"
)

type stubService struct {
	claims []models.Claim
	result models.RunResult
	err    error
}

func (s *stubService) Process(_ context.Context, claim models.Claim) (models.RunResult, error) {
	s.claims = append(s.claims, claim)
	return s.result, s.err
}

func newRouter(t *testing.T, svc Service, log IssuanceLog, checks map[string]HealthCheck) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	New(svc, log, checks, logger).Register(r)
	return r
}

func postClaim(router http.Handler, body string) *httptest.ResponseRecorder {
	return testutil.DoRequest(router, testutil.NewJSONRequest(http.MethodPost, "/v1/claims", body))
}

func TestHandleClaimReturnsOutcome(t *testing.T) {
	svc := &stubService{result: models.RunResult{RunID: "run-1", Outcome: models.OutcomeDelivered}}
	router := newRouter(t, svc, nil, nil)

	rec := postClaim(router, `{"values":["05/06/2025 09:15:00","jane@x.com","JSmith","ART-42","extra"]}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ClaimResponse{RunID: "run-1", Outcome: "delivered"}, testutil.DecodeResponse[ClaimResponse](t, rec))
	require.Len(t, svc.claims, 1)
	assert.Equal(t, "ART-42", svc.claims[0].SubmissionCode)
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
}

func TestHandleClaimRejectsShortEvents(t *testing.T) {
	svc := &stubService{}
	router := newRouter(t, svc, nil, nil)

	rec := postClaim(router, `{"values":["05/06/2025 09:15:00","jane@x.com"]}`)

	testutil.AssertErrorCode(t, rec, http.StatusBadRequest, "bad_request")
	assert.Empty(t, svc.claims)
}

func TestHandleClaimRejectsMalformedJSON(t *testing.T) {
	router := newRouter(t, &stubService{}, nil, nil)

	rec := postClaim(router, `not json`)

	testutil.AssertErrorCode(t, rec, http.StatusBadRequest, "bad_request")
}

func TestHandleClaimFallsBackToRequestTime(t *testing.T) {
	svc := &stubService{result: models.RunResult{RunID: "run-1", Outcome: models.OutcomeValidationNotified}}
	router := newRouter(t, svc, nil, nil)
	received := time.Date(2025, time.June, 5, 12, 0, 0, 0, time.UTC)

	req := testutil.NewJSONRequest(http.MethodPost, "/v1/claims", `{"values":["not a date","jane@x.com","jsmith","ART-42"]}`)
	rec := testutil.DoRequest(router, testutil.WithRequestTime(req, received))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, svc.claims, 1)
	assert.Equal(t, received, svc.claims[0].SubmittedAt)
}

func TestHandleClaimReportsDeliveryFailure(t *testing.T) {
	svc := &stubService{
		result: models.RunResult{RunID: "run-2", Outcome: models.OutcomeTechnicalNotified},
		err:    &models.DeliveryError{Kind: models.NotificationSuccess, Recipient: "jane@x.com", Err: errors.New("smtp: 421")},
	}
	router := newRouter(t, svc, nil, nil)

	rec := postClaim(router, `{"values":["","jane@x.com","jsmith","ART-42"]}`)

	require.Equal(t, http.StatusBadGateway, rec.Code)
	resp := testutil.DecodeResponse[ClaimResponse](t, rec)
	assert.Equal(t, "run-2", resp.RunID)
	assert.Equal(t, "technical_notified", resp.Outcome)
	assert.NotContains(t, rec.Body.String(), "421")
}

func TestHandleListIssuances(t *testing.T) {
	log := store.NewInMemoryStore()
	ctx := context.Background()
	for _, id := range []string{"run-1", "run-2", "run-3"} {
		require.NoError(t, log.Append(ctx, models.IssuanceRecord{RunID: id, Outcome: models.OutcomeDelivered, RecordedAt: time.Now()}))
	}
	router := newRouter(t, &stubService{}, log, nil)

	rec := testutil.DoRequest(router, httptest.NewRequest(http.MethodGet, "/v1/issuances?limit=2", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := testutil.DecodeResponse[IssuanceListResponse](t, rec)
	require.Len(t, resp.Issuances, 2)
	assert.Equal(t, "run-3", resp.Issuances[0].RunID)
	assert.Equal(t, "run-2", resp.Issuances[1].RunID)
}

func TestHandleListIssuancesRejectsBadLimit(t *testing.T) {
	router := newRouter(t, &stubService{}, store.NewInMemoryStore(), nil)

	rec := testutil.DoRequest(router, httptest.NewRequest(http.MethodGet, "/v1/issuances?limit=-4", nil))

	testutil.AssertErrorCode(t, rec, http.StatusBadRequest, "bad_request")
}

func TestHandleHealth(t *testing.T) {
	tests := []struct {
		name       string
		checks     map[string]HealthCheck
		wantStatus int
		wantBody   string
	}{
		{
			name:       "no dependencies",
			wantStatus: http.StatusOK,
			wantBody:   `"status":"ok"`,
		},
		{
			name: "dependency down",
			checks: map[string]HealthCheck{
				"postgres": func(context.Context) error { return nil },
				"redis":    func(context.Context) error { return errors.New("dial tcp: refused") },
			},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   `"redis":"unavailable"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newRouter(t, &stubService{}, nil, tt.checks)
			rec := testutil.DoRequest(router, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}
