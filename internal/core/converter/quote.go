package converter

import (
	"github.com/govalues/decimal"
	"github.com/ktosdespidoras/roblox/internal/core/domain"
)

// Quote is the custom-amount calculator. The price always belongs to the
// active currency: every amount or currency change recomputes it.
type Quote struct {
	currency domain.Currency
	amount   int64
	price    decimal.Decimal
}

func NewQuote(c domain.Currency) (*Quote, error) {
	if !c.Valid() {
		return nil, domain.ErrUnsupportedCurrency
	}
	return &Quote{currency: c, price: decimal.Zero}, nil
}

func (q *Quote) SetAmount(amount int64) error {
	m, err := ToPrice(amount, q.currency)
	if err != nil {
		return err
	}
	q.amount = amount
	q.price = m.Value
	return nil
}

// SetPrice keeps the entered price and derives the amount it buys.
func (q *Quote) SetPrice(price decimal.Decimal) error {
	amount, err := ToAmount(price, q.currency)
	if err != nil {
		return err
	}
	q.amount = amount
	q.price = price
	return nil
}

func (q *Quote) SetCurrency(c domain.Currency) error {
	m, err := ToPrice(q.amount, c)
	if err != nil {
		return err
	}
	q.currency = c
	q.price = m.Value
	return nil
}

func (q *Quote) Amount() int64 {
	return q.amount
}

func (q *Quote) Currency() domain.Currency {
	return q.currency
}

func (q *Quote) Price() domain.Money {
	return domain.Money{Value: q.price, Currency: q.currency}
}

// Product freezes the quote into a custom product.
func (q *Quote) Product() (*domain.Product, error) {
	return NewCustomProduct(q.amount)
}
