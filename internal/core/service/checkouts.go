package service

import (
	"context"
	"sync"

	"github.com/ktosdespidoras/roblox/internal/core/catalog"
	"github.com/ktosdespidoras/roblox/internal/core/converter"
	"github.com/ktosdespidoras/roblox/internal/core/domain"
	"github.com/ktosdespidoras/roblox/internal/core/port"
	"go.uber.org/zap"
)

// CheckoutService keeps at most one checkout per owner.
type CheckoutService struct {
	mu        sync.Mutex
	checkouts map[string]*Checkout

	catalog  *catalog.Catalog
	ledger   port.Ledger
	notifier port.Notifier
	metrics  port.CheckoutMetrics
	logger   *zap.Logger
}

func NewCheckoutService(catalog *catalog.Catalog, ledger port.Ledger, notifier port.Notifier,
	metrics port.CheckoutMetrics, logger *zap.Logger) (*CheckoutService, error) {
	return &CheckoutService{
		checkouts: make(map[string]*Checkout),
		catalog:   catalog,
		ledger:    ledger,
		notifier:  notifier,
		metrics:   metrics,
		logger:    logger,
	}, nil
}

// Start opens a fresh checkout in form, replacing any idle one.
func (s *CheckoutService) Start(ctx context.Context, owner string, sel domain.Selection) (*domain.CheckoutView, error) {
	var product *domain.Product
	var err error
	if sel.CustomAmount != 0 {
		product, err = converter.NewCustomProduct(sel.CustomAmount)
	} else {
		product, err = s.catalog.Find(sel.ProductID)
	}
	if err != nil {
		return nil, err
	}

	co, err := NewCheckout(owner, *product, sel.Currency, s.ledger, s.notifier, s.metrics, s.logger)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.checkouts[owner]; ok && existing.State() == domain.CheckoutStateProcessing {
		return nil, domain.ErrCheckoutBusy
	}
	s.checkouts[owner] = co

	return co.View(), nil
}

func (s *CheckoutService) SwitchCurrency(ctx context.Context, owner string,
	currency domain.Currency) (*domain.CheckoutView, error) {
	co, err := s.get(owner)
	if err != nil {
		return nil, err
	}
	err = co.SwitchCurrency(currency)
	if err != nil {
		return nil, err
	}
	return co.View(), nil
}

// Submit returns the checkout view even on failure so callers can show the
// state the checkout landed in.
func (s *CheckoutService) Submit(ctx context.Context, owner string, form domain.CheckoutForm,
	client domain.ClientContext) (*domain.CheckoutView, error) {
	co, err := s.get(owner)
	if err != nil {
		return nil, err
	}
	_, err = co.Submit(ctx, form, client)
	return co.View(), err
}

func (s *CheckoutService) View(ctx context.Context, owner string) (*domain.CheckoutView, error) {
	co, err := s.get(owner)
	if err != nil {
		return nil, err
	}
	return co.View(), nil
}

// Leave discards the owner's checkout. A submission in flight cannot be
// abandoned.
func (s *CheckoutService) Leave(ctx context.Context, owner string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	co, ok := s.checkouts[owner]
	if !ok {
		return nil
	}
	if co.State() == domain.CheckoutStateProcessing {
		return domain.ErrCheckoutBusy
	}
	delete(s.checkouts, owner)
	return nil
}

func (s *CheckoutService) History(ctx context.Context, owner string) ([]*domain.Order, error) {
	return s.ledger.History(ctx, owner)
}

func (s *CheckoutService) get(owner string) (*Checkout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	co, ok := s.checkouts[owner]
	if !ok {
		return nil, domain.ErrCheckoutNotFound
	}
	return co, nil
}
