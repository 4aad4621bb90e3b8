package testutil

import (
	"net/http"
	"time"

	"certify/pkg/requestcontext"
)

// WithRequestTime pins the request clock, as a scheduler replaying an event would.
func WithRequestTime(req *http.Request, t time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), t))
}
