package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/hazard-verify-service/internal/config"
	"github.com/couchcryptid/hazard-verify-service/internal/domain"
)

// Writer publishes verdicts to a Kafka topic.
// It implements pipeline.BatchLoader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// LoadBatch serializes and publishes verdicts in a single WriteMessages call.
// Verdicts are keyed by report id so all verdicts for a report share a partition.
func (w *Writer) LoadBatch(ctx context.Context, verdicts []domain.Verdict) error {
	if len(verdicts) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(verdicts))
	for i := range verdicts {
		msg, err := serializeToMessage(verdicts[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write verdicts: %w", err)
	}
	w.logger.Debug("published verdicts", "count", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a Verdict into a Kafka message.
func serializeToMessage(v domain.Verdict) (kafkago.Message, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize verdict: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(v.ReportID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "status", Value: []byte(v.Status)},
			{Key: "verified_at", Value: []byte(v.VerifiedAt.Format(time.RFC3339))},
		},
	}, nil
}
