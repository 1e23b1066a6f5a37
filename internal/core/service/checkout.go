package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ktosdespidoras/roblox/internal/core/domain"
	"github.com/ktosdespidoras/roblox/internal/core/port"
	"go.uber.org/zap"
)

const (
	outcomeSuccess    = "success"
	outcomeValidation = "validation"
	outcomeRejected   = "rejected"
	outcomeFailed     = "failed"
)

// Checkout drives one purchase: form -> processing -> success, falling back
// to form when the pipeline fails. Only one submission runs at a time.
type Checkout struct {
	mu       sync.Mutex
	owner    string
	product  domain.Product
	currency domain.Currency
	state    domain.CheckoutState
	form     domain.CheckoutForm
	order    *domain.Order

	ledger   port.Ledger
	notifier port.Notifier
	metrics  port.CheckoutMetrics
	logger   *zap.Logger
	now      func() time.Time
}

func NewCheckout(owner string, product domain.Product, currency domain.Currency,
	ledger port.Ledger, notifier port.Notifier, metrics port.CheckoutMetrics, logger *zap.Logger) (*Checkout, error) {
	if !currency.Valid() {
		return nil, domain.ErrUnsupportedCurrency
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &Checkout{
		owner:    owner,
		product:  product,
		currency: currency,
		state:    domain.CheckoutStateForm,
		ledger:   ledger,
		notifier: notifier,
		metrics:  metrics,
		logger:   logger,
		now:      time.Now,
	}, nil
}

func (c *Checkout) State() domain.CheckoutState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Form returns the fields as last entered.
func (c *Checkout) Form() domain.CheckoutForm {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form
}

func (c *Checkout) View() *domain.CheckoutView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view()
}

// SwitchCurrency changes the display currency while the form is open.
func (c *Checkout) SwitchCurrency(currency domain.Currency) error {
	if !currency.Valid() {
		return domain.ErrUnsupportedCurrency
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.acceptingInput(); err != nil {
		return err
	}
	c.currency = currency
	return nil
}

// Submit validates the form, records the order and reports it. The order is
// returned once the local cache holds it; the remote write and the
// notification finish on their own.
func (c *Checkout) Submit(ctx context.Context, form domain.CheckoutForm,
	client domain.ClientContext) (*domain.Order, error) {
	c.mu.Lock()
	if err := c.acceptingInput(); err != nil {
		c.mu.Unlock()
		c.metrics.SubmissionFinished(outcomeRejected)
		return nil, err
	}

	c.form = form
	if err := form.Validate(&c.product); err != nil {
		c.mu.Unlock()
		c.metrics.SubmissionFinished(outcomeValidation)
		return nil, err
	}
	if c.product.Amount < domain.MinOrderAmount {
		c.mu.Unlock()
		c.metrics.SubmissionFinished(outcomeValidation)
		return nil, domain.ErrAmountBelowMinimum
	}

	payment := form.Payment()
	draft := &domain.OrderDraft{
		Owner:         c.owner,
		TargetAccount: form.AccountLabel(&c.product),
		Amount:        c.product.Amount,
		Price:         c.product.PriceIn(c.currency),
		Payment:       payment,
		CreatedAt:     c.now().UTC(),
	}
	c.state = domain.CheckoutStateProcessing
	c.mu.Unlock()

	order, err := c.process(ctx, draft, client)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state = domain.CheckoutStateForm
		c.metrics.SubmissionFinished(outcomeFailed)
		c.logger.Error("Checkout submission failed",
			zap.String("owner", c.owner), zap.Error(err))
		return nil, err
	}

	c.state = domain.CheckoutStateSuccess
	c.order = order
	c.form = domain.CheckoutForm{}
	c.metrics.SubmissionFinished(outcomeSuccess)
	c.logger.Info("Checkout completed",
		zap.String("owner", c.owner),
		zap.Int64("order", order.ID),
		zap.String("card", payment.Masked()))

	return order, nil
}

func (c *Checkout) process(ctx context.Context, draft *domain.OrderDraft,
	client domain.ClientContext) (order *domain.Order, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: submission panicked: %v", domain.ErrInternal, p)
		}
	}()

	order, _, err = c.ledger.Record(ctx, draft)
	if err != nil {
		return nil, err
	}

	c.notifier.Notify(ctx, order, draft.Payment, client)

	return order, nil
}

func (c *Checkout) acceptingInput() error {
	switch c.state {
	case domain.CheckoutStateForm:
		return nil
	case domain.CheckoutStateProcessing:
		return domain.ErrCheckoutBusy
	}
	return domain.ErrCheckoutClosed
}

func (c *Checkout) view() *domain.CheckoutView {
	return &domain.CheckoutView{
		State:    c.state,
		Product:  c.product,
		Currency: c.currency,
		Price:    c.product.PriceIn(c.currency),
		Order:    c.order,
	}
}

// IsFatal reports whether a submission error returned the checkout to form
// after processing began.
func IsFatal(err error) bool {
	return err != nil &&
		!errors.Is(err, domain.ErrValidation) &&
		!errors.Is(err, domain.ErrAmountBelowMinimum) &&
		!errors.Is(err, domain.ErrCheckoutBusy) &&
		!errors.Is(err, domain.ErrCheckoutClosed)
}
