package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/govalues/decimal"
	"github.com/ktosdespidoras/roblox/internal/adapter/config"
	"github.com/ktosdespidoras/roblox/internal/core/domain"
	"github.com/ktosdespidoras/roblox/internal/core/port"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ port.EventPublisher = (*Publisher)(nil)

type captureWriter struct {
	messages []kafka.Message
}

func (w *captureWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *captureWriter) Close() error { return nil }

func TestNewPublisher(t *testing.T) {
	assert.Nil(t, NewPublisher(&config.Kafka{Brokers: " , "}))

	p := NewPublisher(&config.Kafka{Brokers: "kafka-1:9092, kafka-2:9092", Topic: "checkout.orders"})
	require.NotNil(t, p)
	w, ok := p.writer.(*kafka.Writer)
	require.True(t, ok)
	assert.Equal(t, "checkout.orders", w.Topic)
	assert.Equal(t, "tcp", w.Addr.Network())
}

func TestPublisher_PublishOrderCompleted(t *testing.T) {
	w := &captureWriter{}
	p := &Publisher{writer: w}

	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	order := &domain.Order{
		ID: created.UnixMilli(), Owner: "alice", TargetAccount: "builder", Amount: 1000,
		PriceValue: decimal.MustParse("12.50"), Currency: domain.CurrencyUSD,
		CreatedAt: created, Status: domain.OrderStatusCompleted,
	}
	require.NoError(t, p.PublishOrderCompleted(context.Background(), order))
	require.NoError(t, p.PublishOrderCompleted(context.Background(), order))

	require.Len(t, w.messages, 2)
	assert.Equal(t, "alice", string(w.messages[0].Key))

	var first, second OrderCompleted
	require.NoError(t, json.Unmarshal(w.messages[0].Value, &first))
	require.NoError(t, json.Unmarshal(w.messages[1].Value, &second))
	assert.Equal(t, TypeOrderCompleted, first.Type)
	assert.Equal(t, order.ID, first.OrderID)
	assert.Equal(t, "12.50", first.Price)
	assert.Equal(t, "USD", first.Currency)
	assert.NotEqual(t, first.EventID, second.EventID)
}
