// Package events publishes completed orders to Kafka.
package events

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ktosdespidoras/roblox/internal/adapter/config"
	"github.com/ktosdespidoras/roblox/internal/core/domain"
	"github.com/segmentio/kafka-go"
)

const TypeOrderCompleted = "order.completed"

// OrderCompleted is the event body. It carries no payment data.
type OrderCompleted struct {
	EventID       string    `json:"event_id"`
	Type          string    `json:"type"`
	OrderID       int64     `json:"order_id"`
	Owner         string    `json:"owner"`
	TargetAccount string    `json:"target_account"`
	Amount        int64     `json:"amount"`
	Price         string    `json:"price"`
	Currency      string    `json:"currency"`
	CreatedAt     time.Time `json:"created_at"`
}

func NewOrderCompleted(order *domain.Order) OrderCompleted {
	return OrderCompleted{
		EventID:       uuid.NewString(),
		Type:          TypeOrderCompleted,
		OrderID:       order.ID,
		Owner:         order.Owner,
		TargetAccount: order.TargetAccount,
		Amount:        order.Amount,
		Price:         order.PriceValue.String(),
		Currency:      string(order.Currency),
		CreatedAt:     order.CreatedAt,
	}
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Publisher struct {
	writer messageWriter
}

// NewPublisher returns nil when no brokers are configured.
func NewPublisher(cfg *config.Kafka) *Publisher {
	brokers := splitBrokers(cfg.Brokers)
	if len(brokers) == 0 {
		return nil
	}
	return &Publisher{writer: &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}}
}

// PublishOrderCompleted writes the event keyed by owner so one owner's
// orders stay in one partition.
func (p *Publisher) PublishOrderCompleted(ctx context.Context, order *domain.Order) error {
	data, err := json.Marshal(NewOrderCompleted(order))
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(order.Owner),
		Value: data,
		Time:  time.Now().UTC(),
	})
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

func splitBrokers(csv string) []string {
	brokers := []string{}
	for _, b := range strings.Split(csv, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
