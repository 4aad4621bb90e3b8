package intake

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/twmb/franz-go/pkg/kgo"

	"certify/internal/issuance/models"
	"certify/internal/platform/config"
	"certify/pkg/requestcontext"
)

// ClaimProcessor resolves one claim to a terminal outcome.
type ClaimProcessor interface {
	Process(ctx context.Context, claim models.Claim) (models.RunResult, error)
}

// Consumer reads claim events from a Kafka topic. Each record is processed once;
// offsets are committed after every poll whether or not a run succeeded.
type Consumer struct {
	client    *kgo.Client
	processor ClaimProcessor
	logger    *slog.Logger
}

type ConsumerOption func(*Consumer)

func WithConsumerLogger(logger *slog.Logger) ConsumerOption {
	return func(c *Consumer) {
		c.logger = logger
	}
}

// NewConsumer joins the configured consumer group. Auto-commit is disabled so
// offsets only move past records that were handled.
func NewConsumer(cfg config.KafkaConfig, processor ClaimProcessor, opts ...ConsumerOption) (*Consumer, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ConsumerGroup(cfg.Group),
		kgo.ConsumeTopics(cfg.Topic),
		kgo.DisableAutoCommit(),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	c := &Consumer{client: client, processor: processor, logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Run polls until ctx is cancelled or the client is closed.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		fetches.EachError(func(topic string, partition int32, err error) {
			c.logger.ErrorContext(ctx, "kafka fetch failed", "topic", topic, "partition", partition, "error", err)
		})
		fetches.EachRecord(func(rec *kgo.Record) {
			_ = c.HandleRecord(ctx, rec)
		})
		if err := c.client.CommitUncommittedOffsets(ctx); err != nil && !errors.Is(err, context.Canceled) {
			c.logger.ErrorContext(ctx, "kafka commit failed", "error", err)
		}
	}
}

// HandleRecord decodes and processes one record. Malformed records are logged
// and skipped; they are not redelivered.
func (c *Consumer) HandleRecord(ctx context.Context, rec *kgo.Record) error {
	requestID := recordRequestID(rec)
	ctx = requestcontext.WithRequestID(ctx, requestID)
	logger := c.logger.With("request_id", requestID, "partition", rec.Partition, "offset", rec.Offset)

	ev, err := DecodeEvent(rec.Value)
	if err != nil {
		logger.WarnContext(ctx, "skipping malformed claim record", "error", err)
		return err
	}
	receivedAt := rec.Timestamp
	if receivedAt.IsZero() {
		receivedAt = time.Now()
	}
	ctx = requestcontext.WithTime(ctx, receivedAt)
	claim, err := ParseValues(ev.Values, receivedAt)
	if err != nil {
		logger.WarnContext(ctx, "skipping invalid claim record", "error", err)
		return err
	}

	result, err := c.processor.Process(ctx, claim)
	if err != nil {
		logger.ErrorContext(ctx, "claim run ended with delivery failure",
			"run_id", result.RunID,
			"outcome", result.Outcome,
			"error", err,
		)
		return err
	}
	logger.InfoContext(ctx, "claim processed", "run_id", result.RunID, "outcome", result.Outcome)
	return nil
}

// Close leaves the consumer group and stops Run.
func (c *Consumer) Close() {
	c.client.Close()
}

// recordRequestID prefers an upstream X-Request-ID header.
func recordRequestID(rec *kgo.Record) string {
	for _, h := range rec.Headers {
		if h.Key == "X-Request-ID" && len(h.Value) > 0 {
			return string(h.Value)
		}
	}
	return uuid.NewString()
}
