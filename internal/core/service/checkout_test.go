package service_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/ktosdespidoras/roblox/internal/core/catalog"
	"github.com/ktosdespidoras/roblox/internal/core/converter"
	"github.com/ktosdespidoras/roblox/internal/core/domain"
	"github.com/ktosdespidoras/roblox/internal/core/port/mock"
	"github.com/ktosdespidoras/roblox/internal/core/service"
	"github.com/ktosdespidoras/roblox/internal/core/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type prepareCheckoutMocks func(ledger *mock.MockLedger, notifier *mock.MockNotifier)

var filledForm = domain.CheckoutForm{
	TargetAccount: "builder",
	CardNumber:    "4242 4242 4242 4242",
	CardExpiry:    "12/30",
	CardCode:      "123",
}

func catalogProduct(t *testing.T, id int64) domain.Product {
	t.Helper()
	c, err := catalog.New()
	require.NoError(t, err)
	p, err := c.Find(id)
	require.NoError(t, err)
	return *p
}

func recordOK(ledger *mock.MockLedger) *gomock.Call {
	return ledger.EXPECT().Record(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, d *domain.OrderDraft) (*domain.Order, *task.Result, error) {
			return domain.NewOrder(d), task.Done(nil), nil
		})
}

func TestCheckout_Submit(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	logger, _ := zap.NewProduction()

	small := domain.Product{ID: 1, Amount: 399, PriceRub: 498}
	custom, err := converter.NewCustomProduct(1000)
	require.NoError(t, err)

	type submitTest struct {
		name     string
		product  domain.Product
		currency domain.Currency
		form     domain.CheckoutForm
		mock     prepareCheckoutMocks
		expError error
		expState domain.CheckoutState
	}

	tests := []submitTest{
		{
			name:     "Catalog product succeeds",
			product:  catalogProduct(t, 1),
			currency: domain.CurrencyRUB,
			form:     filledForm,
			mock: func(ledger *mock.MockLedger, notifier *mock.MockNotifier) {
				ledger.EXPECT().Record(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, d *domain.OrderDraft) (*domain.Order, *task.Result, error) {
						assert.Equal(t, "alice", d.Owner)
						assert.Equal(t, "builder", d.TargetAccount)
						assert.Equal(t, int64(400), d.Amount)
						assert.Equal(t, "500", d.Price.Value.String())
						assert.Equal(t, domain.CurrencyRUB, d.Price.Currency)
						assert.Equal(t, domain.PaymentSummary{Last4: "4242", Expiry: "12/30"}, d.Payment)
						return domain.NewOrder(d), task.Done(nil), nil
					})
				notifier.EXPECT().Notify(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(task.Done(nil))
			},
			expState: domain.CheckoutStateSuccess,
		},
		{
			name:     "Custom product skips account",
			product:  *custom,
			currency: domain.CurrencyUSD,
			form:     domain.CheckoutForm{CardNumber: "4000 0000 0000 0002", CardExpiry: "01/31", CardCode: "321"},
			mock: func(ledger *mock.MockLedger, notifier *mock.MockNotifier) {
				ledger.EXPECT().Record(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, d *domain.OrderDraft) (*domain.Order, *task.Result, error) {
						assert.Equal(t, domain.AccountNotRequired, d.TargetAccount)
						assert.Equal(t, "12.50", d.Price.Value.String())
						return domain.NewOrder(d), task.Done(nil), nil
					})
				notifier.EXPECT().Notify(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(task.Done(nil))
			},
			expState: domain.CheckoutStateSuccess,
		},
		{
			name:     "Missing card blocks processing",
			product:  catalogProduct(t, 1),
			currency: domain.CurrencyRUB,
			form:     domain.CheckoutForm{TargetAccount: "builder", CardExpiry: "12/30", CardCode: "123"},
			mock:     func(ledger *mock.MockLedger, notifier *mock.MockNotifier) {},
			expError: domain.ErrValidation,
			expState: domain.CheckoutStateForm,
		},
		{
			name:     "Missing account blocks processing",
			product:  catalogProduct(t, 2),
			currency: domain.CurrencyRUB,
			form:     domain.CheckoutForm{CardNumber: "4242", CardExpiry: "12/30", CardCode: "123"},
			mock:     func(ledger *mock.MockLedger, notifier *mock.MockNotifier) {},
			expError: domain.ErrValidation,
			expState: domain.CheckoutStateForm,
		},
		{
			name:     "Amount 399 rejected",
			product:  small,
			currency: domain.CurrencyRUB,
			form:     filledForm,
			mock:     func(ledger *mock.MockLedger, notifier *mock.MockNotifier) {},
			expError: domain.ErrAmountBelowMinimum,
			expState: domain.CheckoutStateForm,
		},
		{
			name:     "Local persistence failure returns to form",
			product:  catalogProduct(t, 1),
			currency: domain.CurrencyRUB,
			form:     filledForm,
			mock: func(ledger *mock.MockLedger, notifier *mock.MockNotifier) {
				ledger.EXPECT().Record(gomock.Any(), gomock.Any()).
					Return(nil, nil, fmt.Errorf("%w: quota exceeded", domain.ErrPersistence))
			},
			expError: domain.ErrPersistence,
			expState: domain.CheckoutStateForm,
		},
		{
			name:     "Panic in pipeline returns to form",
			product:  catalogProduct(t, 1),
			currency: domain.CurrencyRUB,
			form:     filledForm,
			mock: func(ledger *mock.MockLedger, notifier *mock.MockNotifier) {
				ledger.EXPECT().Record(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *domain.OrderDraft) (*domain.Order, *task.Result, error) {
						panic("storage exploded")
					})
			},
			expError: domain.ErrInternal,
			expState: domain.CheckoutStateForm,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ledger := mock.NewMockLedger(mockCtrl)
			notifier := mock.NewMockNotifier(mockCtrl)
			test.mock(ledger, notifier)

			co, err := service.NewCheckout("alice", test.product, test.currency, ledger, notifier, nil, logger)
			require.NoError(t, err)

			order, err := co.Submit(context.Background(), test.form, domain.ClientContext{})
			assert.Equal(t, test.expState, co.State())

			if test.expError != nil {
				assert.ErrorIs(t, err, test.expError)
				assert.Nil(t, order)
				assert.Equal(t, test.form, co.Form())
				assert.Nil(t, co.View().Order)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, domain.OrderStatusCompleted, order.Status)
			assert.Equal(t, order, co.View().Order)
		})
	}
}

func TestCheckout_SuccessIsTerminal(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	ledger := mock.NewMockLedger(mockCtrl)
	notifier := mock.NewMockNotifier(mockCtrl)
	recordOK(ledger).Times(1)
	notifier.EXPECT().Notify(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(task.Done(nil)).Times(1)

	co, err := service.NewCheckout("alice", catalogProduct(t, 1), domain.CurrencyRUB, ledger, notifier, nil, zap.NewNop())
	require.NoError(t, err)

	_, err = co.Submit(context.Background(), filledForm, domain.ClientContext{})
	require.NoError(t, err)

	_, err = co.Submit(context.Background(), filledForm, domain.ClientContext{})
	assert.ErrorIs(t, err, domain.ErrCheckoutClosed)
	assert.ErrorIs(t, co.SwitchCurrency(domain.CurrencyUSD), domain.ErrCheckoutClosed)
	assert.Equal(t, domain.CheckoutStateSuccess, co.State())
	assert.Equal(t, domain.CheckoutForm{}, co.Form())
}

func TestCheckout_RetryAfterFailure(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	ledger := mock.NewMockLedger(mockCtrl)
	notifier := mock.NewMockNotifier(mockCtrl)
	gomock.InOrder(
		ledger.EXPECT().Record(gomock.Any(), gomock.Any()).Return(nil, nil, domain.ErrPersistence),
		recordOK(ledger),
	)
	notifier.EXPECT().Notify(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(task.Done(nil))

	co, err := service.NewCheckout("alice", catalogProduct(t, 1), domain.CurrencyRUB, ledger, notifier, nil, zap.NewNop())
	require.NoError(t, err)

	_, err = co.Submit(context.Background(), filledForm, domain.ClientContext{})
	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.True(t, service.IsFatal(err))
	assert.Equal(t, domain.CheckoutStateForm, co.State())

	_, err = co.Submit(context.Background(), filledForm, domain.ClientContext{})
	assert.NoError(t, err)
	assert.Equal(t, domain.CheckoutStateSuccess, co.State())
}

func TestCheckout_SingleFlight(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	entered := make(chan struct{})
	release := make(chan struct{})

	ledger := mock.NewMockLedger(mockCtrl)
	notifier := mock.NewMockNotifier(mockCtrl)
	ledger.EXPECT().Record(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, d *domain.OrderDraft) (*domain.Order, *task.Result, error) {
			close(entered)
			<-release
			return domain.NewOrder(d), task.Done(nil), nil
		}).Times(1)
	notifier.EXPECT().Notify(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(task.Done(nil)).Times(1)

	co, err := service.NewCheckout("alice", catalogProduct(t, 1), domain.CurrencyRUB, ledger, notifier, nil, zap.NewNop())
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := co.Submit(context.Background(), filledForm, domain.ClientContext{})
		assert.NoError(t, err)
	}()

	<-entered
	assert.Equal(t, domain.CheckoutStateProcessing, co.State())

	_, err = co.Submit(context.Background(), filledForm, domain.ClientContext{})
	assert.ErrorIs(t, err, domain.ErrCheckoutBusy)
	assert.ErrorIs(t, co.SwitchCurrency(domain.CurrencyUSD), domain.ErrCheckoutBusy)

	close(release)
	wg.Wait()
	assert.Equal(t, domain.CheckoutStateSuccess, co.State())
}

func TestCheckout_NotificationNotAwaited(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	block := make(chan struct{})
	defer close(block)

	ledger := mock.NewMockLedger(mockCtrl)
	notifier := mock.NewMockNotifier(mockCtrl)
	recordOK(ledger)
	notifier.EXPECT().Notify(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ *domain.Order, p domain.PaymentSummary, _ domain.ClientContext) *task.Result {
			assert.Equal(t, "4242", p.Last4)
			return task.Go(ctx, zap.NewNop(), "slow", 0, func(context.Context) error {
				<-block
				return domain.ErrNotification
			})
		})

	co, err := service.NewCheckout("alice", catalogProduct(t, 1), domain.CurrencyRUB, ledger, notifier, nil, zap.NewNop())
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		_, _ = co.Submit(context.Background(), filledForm, domain.ClientContext{})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("submit waited for the notification")
	}
	assert.Equal(t, domain.CheckoutStateSuccess, co.State())
}

func TestCheckout_SwitchCurrencyChangesSubmittedPrice(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	ledger := mock.NewMockLedger(mockCtrl)
	notifier := mock.NewMockNotifier(mockCtrl)
	ledger.EXPECT().Record(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, d *domain.OrderDraft) (*domain.Order, *task.Result, error) {
			assert.Equal(t, domain.CurrencyUSD, d.Price.Currency)
			assert.Equal(t, "5.00", d.Price.Value.String())
			return domain.NewOrder(d), task.Done(nil), nil
		})
	notifier.EXPECT().Notify(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(task.Done(nil))

	co, err := service.NewCheckout("alice", catalogProduct(t, 1), domain.CurrencyRUB, ledger, notifier, nil, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "500", co.View().Price.Value.String())

	require.NoError(t, co.SwitchCurrency(domain.CurrencyUSD))
	assert.Equal(t, "5.00", co.View().Price.Value.String())
	assert.ErrorIs(t, co.SwitchCurrency(domain.Currency("EUR")), domain.ErrUnsupportedCurrency)

	order, err := co.Submit(context.Background(), filledForm, domain.ClientContext{})
	require.NoError(t, err)
	assert.Equal(t, domain.CurrencyUSD, order.Currency)
}

func TestCheckoutService_Lifecycle(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	c, err := catalog.New()
	require.NoError(t, err)

	ledger := mock.NewMockLedger(mockCtrl)
	notifier := mock.NewMockNotifier(mockCtrl)
	recordOK(ledger)
	notifier.EXPECT().Notify(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(task.Done(nil))

	s, err := service.NewCheckoutService(c, ledger, notifier, nil, zap.NewNop())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = s.View(ctx, "alice")
	assert.ErrorIs(t, err, domain.ErrCheckoutNotFound)

	_, err = s.Start(ctx, "alice", domain.Selection{ProductID: 42, Currency: domain.CurrencyRUB})
	assert.ErrorIs(t, err, domain.ErrUnknownProduct)

	_, err = s.Start(ctx, "alice", domain.Selection{CustomAmount: 399, Currency: domain.CurrencyRUB})
	assert.ErrorIs(t, err, domain.ErrAmountBelowMinimum)

	_, err = s.Start(ctx, "alice", domain.Selection{ProductID: 1, Currency: domain.Currency("EUR")})
	assert.ErrorIs(t, err, domain.ErrUnsupportedCurrency)

	view, err := s.Start(ctx, "alice", domain.Selection{CustomAmount: 400, Currency: domain.CurrencyRUB})
	require.NoError(t, err)
	assert.Equal(t, domain.CheckoutStateForm, view.State)
	assert.True(t, view.Product.IsCustom())
	assert.Equal(t, "500", view.Price.Value.String())

	view, err = s.SwitchCurrency(ctx, "alice", domain.CurrencyUSD)
	require.NoError(t, err)
	assert.Equal(t, "5.00", view.Price.Value.String())

	view, err = s.Submit(ctx, "alice", domain.CheckoutForm{CardNumber: "1", CardExpiry: "1"}, domain.ClientContext{})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, domain.CheckoutStateForm, view.State)

	view, err = s.Submit(ctx, "alice", filledForm, domain.ClientContext{})
	require.NoError(t, err)
	assert.Equal(t, domain.CheckoutStateSuccess, view.State)
	require.NotNil(t, view.Order)

	require.NoError(t, s.Leave(ctx, "alice"))
	_, err = s.View(ctx, "alice")
	assert.ErrorIs(t, err, domain.ErrCheckoutNotFound)
	_, err = s.Submit(ctx, "alice", filledForm, domain.ClientContext{})
	assert.ErrorIs(t, err, domain.ErrCheckoutNotFound)

	// leaving twice is harmless
	assert.NoError(t, s.Leave(ctx, "alice"))
}

func TestCheckoutService_BusyCheckoutCannotBeReplaced(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	c, err := catalog.New()
	require.NoError(t, err)

	entered := make(chan struct{})
	release := make(chan struct{})

	ledger := mock.NewMockLedger(mockCtrl)
	notifier := mock.NewMockNotifier(mockCtrl)
	ledger.EXPECT().Record(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, d *domain.OrderDraft) (*domain.Order, *task.Result, error) {
			close(entered)
			<-release
			return domain.NewOrder(d), task.Done(nil), nil
		})
	notifier.EXPECT().Notify(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(task.Done(nil))

	s, err := service.NewCheckoutService(c, ledger, notifier, nil, zap.NewNop())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = s.Start(ctx, "alice", domain.Selection{ProductID: 1, Currency: domain.CurrencyRUB})
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = s.Submit(ctx, "alice", filledForm, domain.ClientContext{})
	}()
	<-entered

	_, err = s.Start(ctx, "alice", domain.Selection{ProductID: 2, Currency: domain.CurrencyRUB})
	assert.ErrorIs(t, err, domain.ErrCheckoutBusy)
	assert.ErrorIs(t, s.Leave(ctx, "alice"), domain.ErrCheckoutBusy)

	close(release)
	<-done
	assert.NoError(t, s.Leave(ctx, "alice"))
}
