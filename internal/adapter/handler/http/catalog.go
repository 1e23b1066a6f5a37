package http

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/govalues/decimal"
	"github.com/ktosdespidoras/roblox/internal/core/catalog"
	"github.com/ktosdespidoras/roblox/internal/core/converter"
	"github.com/ktosdespidoras/roblox/internal/core/domain"
	"go.uber.org/zap"
)

type CatalogHandler struct {
	Handler
	catalog *catalog.Catalog
}

func NewCatalogHandler(c *catalog.Catalog, logger *zap.Logger) (*CatalogHandler, error) {
	return &CatalogHandler{
		Handler: *NewHandler(logger),
		catalog: c,
	}, nil
}

func (ch *CatalogHandler) ListProducts(ctx *gin.Context) {
	currency, err := currencyParam(ctx)
	if err != nil {
		ch.handleError(ctx, err)
		return
	}

	products := ch.catalog.List()
	result := make([]productResponse, 0, len(products))
	for _, p := range products {
		result = append(result, newProductResponse(p, currency))
	}

	ch.handleSuccess(ctx, result)
}

// quoteResponse is not orderable below the minimum order amount.
type quoteResponse struct {
	Amount    int64         `json:"amount"`
	Price     moneyResponse `json:"price"`
	Orderable bool          `json:"orderable"`
}

// Quote prices a custom amount, or the amount a custom price buys.
func (ch *CatalogHandler) Quote(ctx *gin.Context) {
	currency, err := currencyParam(ctx)
	if err != nil {
		ch.handleError(ctx, err)
		return
	}
	q, err := converter.NewQuote(currency)
	if err != nil {
		ch.handleError(ctx, err)
		return
	}

	switch {
	case ctx.Query("amount") != "":
		amount, perr := strconv.ParseInt(ctx.Query("amount"), 10, 64)
		if perr != nil {
			ch.handleValidationError(ctx, perr)
			return
		}
		err = q.SetAmount(amount)
	case ctx.Query("price") != "":
		price, perr := decimal.Parse(ctx.Query("price"))
		if perr != nil {
			ch.handleValidationError(ctx, perr)
			return
		}
		err = q.SetPrice(price)
	default:
		ch.handleError(ctx, domain.ErrBadRequest)
		return
	}
	if err != nil {
		ch.handleError(ctx, err)
		return
	}

	ch.handleSuccess(ctx, quoteResponse{
		Amount:    q.Amount(),
		Price:     newMoneyResponse(q.Price()),
		Orderable: q.Amount() >= domain.MinOrderAmount,
	})
}
