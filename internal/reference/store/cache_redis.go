package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"

	"certify/internal/issuance/models"
	"certify/internal/reference"
)

// SnapshotCacheKey holds the JSON-encoded reference table.
const SnapshotCacheKey = "certify:reference:snapshot"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// CachedStore serves snapshots from Redis and refills from the source on a miss.
// Redis failures degrade to reading the source directly.
type CachedStore struct {
	source reference.Source
	client redis.Cmdable
	ttl    time.Duration
	logger *slog.Logger
}

type CacheOption func(*CachedStore)

func WithCacheLogger(logger *slog.Logger) CacheOption {
	return func(c *CachedStore) {
		c.logger = logger
	}
}

func NewCachedStore(source reference.Source, client redis.Cmdable, ttl time.Duration, opts ...CacheOption) *CachedStore {
	c := &CachedStore{source: source, client: client, ttl: ttl, logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *CachedStore) Snapshot(ctx context.Context) ([]models.ReferenceRecord, error) {
	records, err := c.cached(ctx)
	if err == nil {
		return records, nil
	}
	if !errors.Is(err, redis.Nil) {
		c.logger.WarnContext(ctx, "reference cache read failed", "error", err)
	}

	records, err = c.source.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.store(ctx, records); err != nil {
		c.logger.WarnContext(ctx, "reference cache write failed", "error", err)
	}
	return records, nil
}

// Invalidate drops the cached snapshot so the next read hits the source.
func (c *CachedStore) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, SnapshotCacheKey).Err()
}

func (c *CachedStore) cached(ctx context.Context) ([]models.ReferenceRecord, error) {
	raw, err := c.client.Get(ctx, SnapshotCacheKey).Bytes()
	if err != nil {
		return nil, err
	}
	var records []models.ReferenceRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode cached snapshot: %w", err)
	}
	return records, nil
}

func (c *CachedStore) store(ctx context.Context, records []models.ReferenceRecord) error {
	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return c.client.Set(ctx, SnapshotCacheKey, raw, c.ttl).Err()
}
