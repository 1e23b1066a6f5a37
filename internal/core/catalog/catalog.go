package catalog

import (
	"fmt"

	"github.com/ktosdespidoras/roblox/internal/core/converter"
	"github.com/ktosdespidoras/roblox/internal/core/domain"
)

type entry struct {
	id     int64
	amount int64
	bonus  int64
}

var packages = []entry{
	{id: 1, amount: 400},
	{id: 2, amount: 800, bonus: 40},
	{id: 3, amount: 1700, bonus: 150},
	{id: domain.SubscriptionProductID, amount: 2000, bonus: 200},
	{id: 4, amount: 4500, bonus: 500},
	{id: 5, amount: 10000, bonus: 1500},
}

type Catalog struct {
	products []*domain.Product
	byID     map[int64]*domain.Product
}

func New() (*Catalog, error) {
	c := &Catalog{
		products: make([]*domain.Product, 0, len(packages)),
		byID:     make(map[int64]*domain.Product, len(packages)),
	}
	for _, e := range packages {
		price, priceRub, err := converter.FromAmount(e.amount)
		if err != nil {
			return nil, fmt.Errorf("catalog entry %d: %w", e.id, err)
		}
		p := &domain.Product{
			ID:       e.id,
			Amount:   e.amount,
			Price:    price,
			PriceRub: priceRub,
			Bonus:    e.bonus,
		}
		c.products = append(c.products, p)
		c.byID[p.ID] = p
	}
	return c, nil
}

// List returns copies so callers cannot reprice the catalog.
func (c *Catalog) List() []domain.Product {
	result := make([]domain.Product, 0, len(c.products))
	for _, p := range c.products {
		result = append(result, *p)
	}
	return result
}

func (c *Catalog) Find(id int64) (*domain.Product, error) {
	p, ok := c.byID[id]
	if !ok {
		return nil, domain.ErrUnknownProduct
	}
	cp := *p
	return &cp, nil
}
