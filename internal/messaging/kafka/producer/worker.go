package producer

import (
	"context"
	"time"

	"employee-records/internal/messaging/kafka"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const relayBatchSize = 50

// Relay drains the transactional outbox into kafka. Domain services only
// ever write outbox rows; the relay is the single component that talks to
// the broker, so a broker outage never fails an employee or salary write.
type Relay struct {
	repo         kafka.OutboxRepository
	writer       *kafkago.Writer
	pollInterval time.Duration
	logger       *zap.Logger
}

func NewRelay(repo kafka.OutboxRepository, writer *kafkago.Writer, pollInterval time.Duration, logger *zap.Logger) *Relay {
	if pollInterval <= 0 {
		pollInterval = 3 * time.Second
	}
	return &Relay{
		repo:         repo,
		writer:       writer,
		pollInterval: pollInterval,
		logger:       logger.Named("outbox.relay"),
	}
}

// Run polls until the context is cancelled. Each tick publishes one batch
// of pending rows; rows that fail to publish are marked failed and picked
// up again after their backoff.
func (r *Relay) Run(ctx context.Context) {
	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	r.logger.Info("outbox relay started", zap.Duration("poll_interval", r.pollInterval))

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("outbox relay stopped")
			return
		case <-ticker.C:
			if err := r.drainBatch(ctx); err != nil {
				r.logger.Error("outbox batch failed", zap.Error(err))
			}
		}
	}
}

func (r *Relay) drainBatch(ctx context.Context) error {
	rows, err := r.repo.ListPending(ctx, relayBatchSize)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}

	var sent, failed int
	for _, row := range rows {
		if err := publishEvent(ctx, r.writer, row); err != nil {
			failed++
			r.logger.Error("publish failed",
				zap.String("outbox_id", row.ID),
				zap.String("event_type", row.EventType),
				zap.String("topic", row.Topic),
				zap.Error(err),
			)
			_ = r.repo.MarkFailed(ctx, row.ID, err.Error())
			continue
		}

		if err := r.repo.MarkSent(ctx, row.ID); err != nil {
			r.logger.Error("mark sent failed",
				zap.String("outbox_id", row.ID),
				zap.Error(err),
			)
			continue
		}
		sent++
	}

	r.logger.Info("outbox batch drained",
		zap.Int("sent", sent),
		zap.Int("failed", failed),
	)
	return nil
}
