// Package notify reports completed orders to the operator channel.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/ktosdespidoras/roblox/internal/adapter/config"
	"github.com/ktosdespidoras/roblox/internal/core/domain"
	"github.com/ktosdespidoras/roblox/internal/core/port"
	"github.com/ktosdespidoras/roblox/internal/core/task"
	"go.uber.org/zap"
)

const (
	outcomeSent    = "sent"
	outcomeSkipped = "skipped"
	outcomeFailed  = "failed"

	maxRetryAfter = 3 * time.Second
)

type Dispatcher struct {
	logger      *zap.Logger
	client      *http.Client
	endpoint    string
	chatID      string
	lookupURL   string
	fallbackURL string
	timeout     time.Duration
	events      port.EventPublisher
	metrics     port.CheckoutMetrics

	pending task.Group
}

// NewDispatcher builds a dispatcher. events and metrics may be nil.
func NewDispatcher(cfg *config.Notify, events port.EventPublisher, metrics port.CheckoutMetrics,
	log *zap.Logger) (*Dispatcher, error) {
	return &Dispatcher{
		logger:      log,
		client:      &http.Client{Timeout: cfg.Timeout},
		endpoint:    cfg.Endpoint,
		chatID:      cfg.ChatID,
		lookupURL:   cfg.IPLookupURL,
		fallbackURL: cfg.FallbackURL,
		timeout:     cfg.Timeout,
		events:      events,
		metrics:     metrics,
	}, nil
}

type message struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

type errThrottled struct {
	RetryAfter time.Duration
}

func (e *errThrottled) Error() string {
	return fmt.Sprintf("Too Many Requests. Retry-After: %s", e.RetryAfter)
}

// Notify reports the order in the background. The result may be ignored;
// failures are logged and counted.
func (d *Dispatcher) Notify(ctx context.Context, order *domain.Order, payment domain.PaymentSummary,
	client domain.ClientContext) *task.Result {
	return d.pending.Go(ctx, d.logger, "notify", d.timeout, func(ctx context.Context) error {
		d.publish(ctx, order)

		outcome, err := d.dispatch(ctx, order, payment, client)
		if d.metrics != nil {
			d.metrics.NotificationFinished(outcome)
		}
		return err
	})
}

// Drain waits for reports still in flight.
func (d *Dispatcher) Drain(ctx context.Context) error {
	return d.pending.Wait(ctx)
}

func (d *Dispatcher) publish(ctx context.Context, order *domain.Order) {
	if d.events == nil {
		return
	}
	if err := d.events.PublishOrderCompleted(ctx, order); err != nil {
		d.logger.Warn("publish order event", zap.Int64("order", order.ID), zap.Error(err))
	}
}

func (d *Dispatcher) dispatch(ctx context.Context, order *domain.Order, payment domain.PaymentSummary,
	client domain.ClientContext) (string, error) {
	if d.endpoint == "" {
		return outcomeSkipped, nil
	}

	report := Report{
		Order:   order,
		Payment: payment,
		Network: d.networkLabel(ctx, client.RemoteAddr),
		Device:  DeviceClass(client.UserAgent),
	}

	err := d.deliver(ctx, report.String())
	var throttled *errThrottled
	if errors.As(err, &throttled) && throttled.RetryAfter <= maxRetryAfter {
		d.logger.Debug("Pause before notification retry", zap.Duration("RetryAfter", throttled.RetryAfter))
		r := time.NewTimer(throttled.RetryAfter)
		defer r.Stop()
		select {
		case <-r.C:
			err = d.deliver(ctx, report.String())
		case <-ctx.Done():
			err = ctx.Err()
		}
	}
	if err != nil {
		return outcomeFailed, fmt.Errorf("%w: %w", domain.ErrNotification, err)
	}

	d.logger.Debug("Order reported", zap.Int64("order", order.ID))
	return outcomeSent, nil
}

func (d *Dispatcher) deliver(ctx context.Context, text string) error {
	body, err := json.Marshal(message{ChatID: d.chatID, Text: text})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("error on %s : %w", d.endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("request error %s : %w", d.endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter := time.Second
		if sec, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil {
			retryAfter = time.Duration(sec) * time.Second
		}
		return &errThrottled{RetryAfter: retryAfter}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("bad response %v for request %s", resp.StatusCode, d.endpoint)
	}
	return nil
}
