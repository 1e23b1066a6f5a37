package domain

import "github.com/govalues/decimal"

const (
	// CustomProductID marks a product built from a user-entered amount.
	CustomProductID int64 = 9999
	// SubscriptionProductID marks the recurring package.
	SubscriptionProductID int64 = 9998

	// MinOrderAmount is the smallest amount a checkout accepts.
	MinOrderAmount int64 = 400
)

// Product is an offer. Catalog products derive both prices from Amount;
// custom products keep the prices computed when they were created.
type Product struct {
	ID       int64           `json:"id"`
	Amount   int64           `json:"amount"`
	Price    decimal.Decimal `json:"price"`
	PriceRub int64           `json:"price_rub"`
	Bonus    int64           `json:"bonus"`
}

func (p *Product) IsCustom() bool {
	return p.ID == CustomProductID
}

func (p *Product) IsSubscription() bool {
	return p.ID == SubscriptionProductID
}

// RequiresAccount reports whether the target account username is needed.
func (p *Product) RequiresAccount() bool {
	return !p.IsCustom()
}

// PriceIn returns the authoritative price for the active display currency.
func (p *Product) PriceIn(c Currency) Money {
	if c == CurrencyRUB {
		return Money{Value: decimal.MustNew(p.PriceRub, 0), Currency: CurrencyRUB}
	}
	return Money{Value: p.Price, Currency: CurrencyUSD}
}
