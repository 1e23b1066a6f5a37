package catalog_test

import (
	"testing"

	"github.com/ktosdespidoras/roblox/internal/core/catalog"
	"github.com/ktosdespidoras/roblox/internal/core/converter"
	"github.com/ktosdespidoras/roblox/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_PricesDerivedFromAmount(t *testing.T) {
	c, err := catalog.New()
	require.NoError(t, err)

	list := c.List()
	require.NotEmpty(t, list)

	for _, p := range list {
		assert.GreaterOrEqual(t, p.Amount, domain.MinOrderAmount)
		assert.Equal(t, p.Amount*5/4, p.PriceRub, "product %d", p.ID)

		usd, err := converter.ToPrice(p.Amount, domain.CurrencyUSD)
		require.NoError(t, err)
		assert.Equal(t, 0, usd.Value.Cmp(p.Price), "product %d", p.ID)
	}
}

func TestCatalog_Find(t *testing.T) {
	c, err := catalog.New()
	require.NoError(t, err)

	p, err := c.Find(1)
	require.NoError(t, err)
	assert.Equal(t, int64(400), p.Amount)
	assert.Equal(t, int64(500), p.PriceRub)

	sub, err := c.Find(domain.SubscriptionProductID)
	require.NoError(t, err)
	assert.True(t, sub.IsSubscription())

	_, err = c.Find(domain.CustomProductID)
	assert.ErrorIs(t, err, domain.ErrUnknownProduct)

	// returned products are copies
	p.PriceRub = 1
	again, _ := c.Find(1)
	assert.Equal(t, int64(500), again.PriceRub)
}
