// Package converter maps an amount of virtual currency to a price and back.
//
// RUB prices are whole roubles, floor(amount * 1.25). USD prices are rounded
// half-up to cents, round(amount * 0.0125, 2). The inverse truncates, so a
// price read off the forward direction converts back to an amount no larger
// than the one it came from.
package converter

import (
	"errors"
	"fmt"

	"github.com/govalues/decimal"
	"github.com/ktosdespidoras/roblox/internal/core/domain"
)

// MaxAmount bounds amounts so the integer arithmetic cannot overflow.
const MaxAmount int64 = 1_000_000_000_000

var ErrAmountOutOfRange = errors.New("amount is out of range")

var (
	usdRate   = decimal.MustParse("0.0125")
	usdHalf   = decimal.MustParse("0.005")
	usdInvert = decimal.MustNew(80, 0)
	rubInvert = decimal.MustParse("0.8")
)

// ToPrice converts an amount into a price in currency c.
func ToPrice(amount int64, c domain.Currency) (domain.Money, error) {
	if amount < 0 || amount > MaxAmount {
		return domain.Money{}, ErrAmountOutOfRange
	}

	switch c {
	case domain.CurrencyRUB:
		return domain.Money{Value: decimal.MustNew(rubPrice(amount), 0), Currency: c}, nil
	case domain.CurrencyUSD:
		v, err := usdPrice(amount)
		if err != nil {
			return domain.Money{}, err
		}
		return domain.Money{Value: v, Currency: c}, nil
	}
	return domain.Money{}, domain.ErrUnsupportedCurrency
}

// ToAmount converts a price in currency c into the largest amount it covers.
func ToAmount(price decimal.Decimal, c domain.Currency) (int64, error) {
	if price.IsNeg() {
		return 0, ErrAmountOutOfRange
	}

	var factor decimal.Decimal
	switch c {
	case domain.CurrencyRUB:
		factor = rubInvert
	case domain.CurrencyUSD:
		factor = usdInvert
	default:
		return 0, domain.ErrUnsupportedCurrency
	}

	d, err := price.Mul(factor)
	if err != nil {
		return 0, fmt.Errorf("math error:%w", err)
	}
	whole, _, ok := d.Floor(0).Int64(0)
	if !ok || whole > MaxAmount {
		return 0, ErrAmountOutOfRange
	}
	return whole, nil
}

// FromAmount computes both catalog prices of an amount.
func FromAmount(amount int64) (price decimal.Decimal, priceRub int64, err error) {
	if amount < 0 || amount > MaxAmount {
		return decimal.Zero, 0, ErrAmountOutOfRange
	}
	price, err = usdPrice(amount)
	if err != nil {
		return decimal.Zero, 0, err
	}
	return price, rubPrice(amount), nil
}

// NewCustomProduct builds the user-defined product for amount. Its prices
// are fixed here and never derived again.
func NewCustomProduct(amount int64) (*domain.Product, error) {
	if amount < domain.MinOrderAmount {
		return nil, domain.ErrAmountBelowMinimum
	}
	price, priceRub, err := FromAmount(amount)
	if err != nil {
		return nil, err
	}
	return &domain.Product{
		ID:       domain.CustomProductID,
		Amount:   amount,
		Price:    price,
		PriceRub: priceRub,
	}, nil
}

func rubPrice(amount int64) int64 {
	return amount * 5 / 4
}

func usdPrice(amount int64) (decimal.Decimal, error) {
	d, err := decimal.MustNew(amount, 0).Mul(usdRate)
	if err != nil {
		return decimal.Zero, fmt.Errorf("math error:%w", err)
	}
	d, err = d.Add(usdHalf)
	if err != nil {
		return decimal.Zero, fmt.Errorf("math error:%w", err)
	}
	return d.Trunc(2), nil
}
