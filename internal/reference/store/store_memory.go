package store

import (
	"context"
	"sync"

	"certify/internal/issuance/models"
)

// InMemoryStore holds a fixed reference table, mainly for tests and local runs.
type InMemoryStore struct {
	mu      sync.RWMutex
	records []models.ReferenceRecord
}

func NewInMemoryStore(records ...models.ReferenceRecord) *InMemoryStore {
	return &InMemoryStore{records: append([]models.ReferenceRecord{}, records...)}
}

// Replace swaps the whole table, the way the external refresh job does.
func (s *InMemoryStore) Replace(records []models.ReferenceRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append([]models.ReferenceRecord{}, records...)
}

func (s *InMemoryStore) Snapshot(_ context.Context) ([]models.ReferenceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.ReferenceRecord{}, s.records...), nil
}
