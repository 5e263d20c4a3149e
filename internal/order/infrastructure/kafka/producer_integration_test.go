//go:build integration

package kafka

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmehra2102/storefront/pkg/outbox"
	"github.com/dmehra2102/storefront/pkg/tracing"
	"github.com/dmehra2102/storefront/test/integration"
)

func TestRelayPublishesToKafka(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	svc, err := integration.Kafka(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { svc.Teardown(context.Background()) })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	writer := NewWriter([]string{svc.Addr})
	t.Cleanup(func() { _ = writer.Close() })

	const topic = "order.events.test"
	const traceparent = "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01"
	store := outbox.NewMemoryStore()
	relay := outbox.NewRelay(log, store, outbox.NewDispatcher(log, writer, topic), "it-relay", time.Second)

	require.NoError(t, store.Enqueue(ctx, outbox.Event{
		AggregateType: "order",
		AggregateID:   "o-1",
		Type:          "OrderCreated",
		Payload:       []byte(`{"orderId":"o-1"}`),
		Traceparent:   traceparent,
	}))

	// Topic auto-creation can fail the first write; retry until it lands.
	require.Eventually(t, func() bool {
		relay.Tick(ctx)
		return store.Events()[0].Status == outbox.StatusSent
	}, time.Minute, time.Second)

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     []string{svc.Addr},
		Topic:       topic,
		StartOffset: kafka.FirstOffset,
	})
	t.Cleanup(func() { _ = reader.Close() })

	msg, err := reader.ReadMessage(ctx)
	require.NoError(t, err)
	assert.Equal(t, "o-1", string(msg.Key))
	assert.JSONEq(t, `{"orderId":"o-1"}`, string(msg.Value))

	sc := trace.SpanContextFromContext(tracing.ExtractKafkaHeaders(ctx, msg.Headers))
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", sc.TraceID().String())
}
