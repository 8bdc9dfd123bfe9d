package publish

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thunder.klederson.com/internal/lightning"
	"thunder.klederson.com/internal/observability"
)

type mockWriter struct {
	mu     sync.Mutex
	msgs   []kafkago.Message
	err    error
	closed bool
}

func (m *mockWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.msgs = append(m.msgs, msgs...)
	return nil
}

func (m *mockWriter) Close() error {
	m.closed = true
	return nil
}

func (m *mockWriter) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.msgs)
}

var at = time.Date(2020, 6, 12, 18, 4, 5, 0, time.UTC)

func TestSerializeToMessage(t *testing.T) {
	ev := lightning.NewEvent(lightning.KindStrike, 12, 340000, at)

	msg, err := serializeToMessage("TH-0042", ev)
	require.NoError(t, err)

	assert.Equal(t, []byte("TH-0042"), msg.Key)
	assert.Equal(t, at, msg.Time)
	assert.JSONEq(t, `{"id":"`+ev.ID+`","kind":"strike","distance_km":12,"energy":340000,"detected_at":"2020-06-12T18:04:05Z"}`, string(msg.Value))
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "event_kind", msg.Headers[0].Key)
	assert.Equal(t, []byte("strike"), msg.Headers[0].Value)
	assert.Equal(t, "detected_at", msg.Headers[1].Key)
	assert.Equal(t, []byte("2020-06-12T18:04:05Z"), msg.Headers[1].Value)
}

func TestRun_FlushesOnShutdown(t *testing.T) {
	mw := &mockWriter{}
	w := newWriter(mw, "TH-0042", slog.Default(), observability.NewMetricsForTesting())

	w.Enqueue(lightning.NewEvent(lightning.KindStrike, 5, 1, at))
	w.Enqueue(lightning.NewEvent(lightning.KindDisturber, 0, 0, at))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, w.Run(ctx))

	assert.Equal(t, 2, mw.count())
	require.NoError(t, w.Close())
	assert.True(t, mw.closed)
}

func TestRun_FlushesOnInterval(t *testing.T) {
	mw := &mockWriter{}
	w := newWriter(mw, "TH-0042", slog.Default(), observability.NewMetricsForTesting())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	w.Enqueue(lightning.NewEvent(lightning.KindStrike, 5, 1, at))

	assert.Eventually(t, func() bool { return mw.count() == 1 }, 2*time.Second, 10*time.Millisecond)
	cancel()
	require.NoError(t, <-done)
}

func TestEnqueue_DropsWhenFull(t *testing.T) {
	metrics := observability.NewMetricsForTesting()
	w := newWriter(&mockWriter{}, "TH-0042", slog.Default(), metrics)

	for i := 0; i < queueSize+3; i++ {
		w.Enqueue(lightning.NewEvent(lightning.KindNoise, 0, 0, at))
	}

	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.PublishDropped))
}

func TestFlush_CountsErrors(t *testing.T) {
	metrics := observability.NewMetricsForTesting()
	w := newWriter(&mockWriter{err: errors.New("broker down")}, "TH-0042", slog.Default(), metrics)

	w.flush(context.Background(), []lightning.Event{lightning.NewEvent(lightning.KindStrike, 1, 1, at)})

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.PublishErrors))
}
