package domain

import (
	"time"

	"github.com/govalues/decimal"
)

type OrderStatus string

const (
	OrderStatusCompleted OrderStatus = "completed"
)

// AccountNotRequired is the target account label of custom products.
const AccountNotRequired = "Not Required"

// PaymentSummary is everything about a card that outlives the request.
type PaymentSummary struct {
	Last4  string `json:"last4"`
	Expiry string `json:"expiry"`
}

func (p PaymentSummary) Masked() string {
	return "**** " + p.Last4
}

// OrderDraft is what the checkout hands to the ledger.
type OrderDraft struct {
	Owner         string
	TargetAccount string
	Amount        int64
	Price         Money
	Payment       PaymentSummary
	CreatedAt     time.Time
}

// Order is a completed submission. It is created once by the ledger and
// never changed afterwards.
type Order struct {
	ID            int64           `json:"id"`
	Owner         string          `json:"owner"`
	TargetAccount string          `json:"target_account"`
	Amount        int64           `json:"amount"`
	PriceValue    decimal.Decimal `json:"price_value"`
	Currency      Currency        `json:"currency"`
	CreatedAt     time.Time       `json:"created_at"`
	Status        OrderStatus     `json:"status"`
}

func NewOrder(d *OrderDraft) *Order {
	return &Order{
		ID:            d.CreatedAt.UnixMilli(),
		Owner:         d.Owner,
		TargetAccount: d.TargetAccount,
		Amount:        d.Amount,
		PriceValue:    d.Price.Value,
		Currency:      d.Price.Currency,
		CreatedAt:     d.CreatedAt,
		Status:        OrderStatusCompleted,
	}
}

func (o *Order) Price() Money {
	return Money{Value: o.PriceValue, Currency: o.Currency}
}

// RemoteOrder is the row appended to the remote order table.
type RemoteOrder struct {
	Owner         string
	TargetAccount string
	CardLast4     string
	CardExpiry    string
	Amount        int64
	PriceValue    decimal.Decimal
	Currency      Currency
	CreatedAt     time.Time
}

func NewRemoteOrder(o *Order, p PaymentSummary) *RemoteOrder {
	return &RemoteOrder{
		Owner:         o.Owner,
		TargetAccount: o.TargetAccount,
		CardLast4:     p.Last4,
		CardExpiry:    p.Expiry,
		Amount:        o.Amount,
		PriceValue:    o.PriceValue,
		Currency:      o.Currency,
		CreatedAt:     o.CreatedAt,
	}
}
