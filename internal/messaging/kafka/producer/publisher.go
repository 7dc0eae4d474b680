package producer

import (
	"context"

	"employee-records/internal/messaging/kafka"

	kafkago "github.com/segmentio/kafka-go"
)

// publishEvent writes one outbox row to its topic, keyed by aggregate id
// so all events for one employee or salary land on the same partition.
// The originating request id travels as a header for downstream tracing.
func publishEvent(ctx context.Context, writer *kafkago.Writer, row kafka.OutboxEvent) error {
	headers := []kafkago.Header{
		{Key: "event_type", Value: []byte(row.EventType)},
		{Key: "aggregate_type", Value: []byte(row.AggregateType)},
	}
	if row.RequestID != "" {
		headers = append(headers, kafkago.Header{Key: "request_id", Value: []byte(row.RequestID)})
	}

	return writer.WriteMessages(ctx, kafkago.Message{
		Topic:   row.Topic,
		Key:     []byte(row.AggregateID),
		Value:   row.Payload,
		Headers: headers,
	})
}
