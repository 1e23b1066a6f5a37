package domain

import (
	"strings"

	"github.com/govalues/decimal"
)

type Currency string

const (
	CurrencyRUB Currency = "RUB"
	CurrencyUSD Currency = "USD"
)

// ParseCurrency accepts a currency code or the display language it belongs to.
func ParseCurrency(s string) (Currency, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "RUB", "RU":
		return CurrencyRUB, nil
	case "USD", "EN":
		return CurrencyUSD, nil
	}
	return "", ErrUnsupportedCurrency
}

func (c Currency) Valid() bool {
	return c == CurrencyRUB || c == CurrencyUSD
}

// Money is a price tagged with the currency it was computed in.
type Money struct {
	Value    decimal.Decimal `json:"value"`
	Currency Currency        `json:"currency"`
}

func (m Money) String() string {
	if m.Currency == CurrencyRUB {
		return m.Value.String() + " ₽"
	}
	return "$" + m.Value.String()
}
