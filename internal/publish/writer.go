// Package publish forwards lightning events to a Kafka topic.
package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"thunder.klederson.com/internal/lightning"
	"thunder.klederson.com/internal/observability"
)

const (
	queueSize     = 256
	maxBatch      = 32
	flushInterval = 500 * time.Millisecond
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer queues events and publishes them in batches from Run.
type Writer struct {
	writer  messageWriter
	station string
	queue   chan lightning.Event
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewWriter creates a Kafka producer for topic. station is the device serial
// number, sent as the message key.
func NewWriter(brokers []string, topic, station string, logger *slog.Logger, metrics *observability.Metrics) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireOne,
	}
	return newWriter(w, station, logger, metrics)
}

func newWriter(w messageWriter, station string, logger *slog.Logger, metrics *observability.Metrics) *Writer {
	return &Writer{
		writer:  w,
		station: station,
		queue:   make(chan lightning.Event, queueSize),
		logger:  logger,
		metrics: metrics,
	}
}

// Enqueue hands an event to the publisher without blocking. Events are
// dropped when the queue is full.
func (w *Writer) Enqueue(ev lightning.Event) {
	select {
	case w.queue <- ev:
	default:
		w.metrics.PublishDropped.Inc()
		w.logger.Warn("publish queue full, dropping event", "id", ev.ID, "kind", ev.KindName)
	}
}

// Run publishes queued events until ctx is cancelled, then flushes what is left.
func (w *Writer) Run(ctx context.Context) error {
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	batch := make([]lightning.Event, 0, maxBatch)
	for {
		select {
		case <-ctx.Done():
			w.drain(&batch)
			flushCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			w.flush(flushCtx, batch)
			cancel()
			return nil
		case ev := <-w.queue:
			batch = append(batch, ev)
			if len(batch) >= maxBatch {
				w.flush(ctx, batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				w.flush(ctx, batch)
				batch = batch[:0]
			}
		}
	}
}

func (w *Writer) drain(batch *[]lightning.Event) {
	for {
		select {
		case ev := <-w.queue:
			*batch = append(*batch, ev)
		default:
			return
		}
	}
}

func (w *Writer) flush(ctx context.Context, events []lightning.Event) {
	if len(events) == 0 {
		return
	}
	msgs := make([]kafkago.Message, 0, len(events))
	for _, ev := range events {
		msg, err := serializeToMessage(w.station, ev)
		if err != nil {
			w.logger.Error("serialize event", "id", ev.ID, "error", err)
			continue
		}
		msgs = append(msgs, msg)
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		w.metrics.PublishErrors.Inc()
		w.logger.Error("publish events", "count", len(msgs), "error", err)
		return
	}
	w.logger.Debug("published events", "count", len(msgs))
}

// Close releases the Kafka connection.
func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals an event into a Kafka message keyed by station.
func serializeToMessage(station string, ev lightning.Event) (kafkago.Message, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize lightning event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(station),
		Value: data,
		Time:  ev.DetectedAt,
		Headers: []kafkago.Header{
			{Key: "event_kind", Value: []byte(ev.KindName)},
			{Key: "detected_at", Value: []byte(ev.DetectedAt.Format(time.RFC3339))},
		},
	}, nil
}
