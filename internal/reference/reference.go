// Package reference exposes the read-only dataset of completed reviews.
//
// Every backend returns a full snapshot in stored order; callers scan it
// linearly. Writes are owned by external maintainers and are never
// synchronized with reads here.
package reference

import (
	"context"

	"certify/internal/issuance/models"
)

// Source returns an in-memory snapshot of the reference table.
type Source interface {
	Snapshot(ctx context.Context) ([]models.ReferenceRecord, error)
}
