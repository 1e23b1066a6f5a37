package http

import (
	"github.com/gin-gonic/gin"
	"github.com/ktosdespidoras/roblox/internal/core/domain"
	"github.com/ktosdespidoras/roblox/internal/core/port"
	"go.uber.org/zap"
)

type CheckoutHandler struct {
	Handler
	service port.CheckoutService
}

func NewCheckoutHandler(service port.CheckoutService, logger *zap.Logger) (*CheckoutHandler, error) {
	return &CheckoutHandler{
		Handler: *NewHandler(logger),
		service: service,
	}, nil
}

type startRequest struct {
	ProductID    int64  `json:"product_id"`
	CustomAmount int64  `json:"custom_amount"`
	Currency     string `json:"currency"`
}

type currencyRequest struct {
	Currency string `json:"currency" binding:"required"`
}

type submitRequest struct {
	TargetAccount string `json:"target_account"`
	CardNumber    string `json:"card_number"`
	CardExpiry    string `json:"card_expiry"`
	CardCode      string `json:"card_code"`
}

type checkoutResponse struct {
	State   string          `json:"state"`
	Product productResponse `json:"product"`
	Price   moneyResponse   `json:"price"`
	Order   *orderResponse  `json:"order,omitempty"`
}

func newCheckoutResponse(v *domain.CheckoutView) checkoutResponse {
	return checkoutResponse{
		State:   string(v.State),
		Product: newProductResponse(v.Product, v.Currency),
		Price:   newMoneyResponse(v.Price),
		Order:   newOrderResponse(v.Order),
	}
}

func (ch *CheckoutHandler) Start(ctx *gin.Context) {
	req := startRequest{}
	err := ctx.ShouldBindJSON(&req)
	if err != nil {
		ch.handleValidationError(ctx, err)
		return
	}

	currency := domain.CurrencyRUB
	if req.Currency != "" {
		currency, err = domain.ParseCurrency(req.Currency)
		if err != nil {
			ch.handleError(ctx, err)
			return
		}
	}

	view, err := ch.service.Start(ctx, getAuthPayload(ctx).Username, domain.Selection{
		ProductID:    req.ProductID,
		CustomAmount: req.CustomAmount,
		Currency:     currency,
	})
	if err != nil {
		ch.handleError(ctx, err)
		return
	}

	ch.handleSuccess(ctx, newCheckoutResponse(view))
}

func (ch *CheckoutHandler) SwitchCurrency(ctx *gin.Context) {
	req := currencyRequest{}
	err := ctx.ShouldBindJSON(&req)
	if err != nil {
		ch.handleValidationError(ctx, err)
		return
	}
	currency, err := domain.ParseCurrency(req.Currency)
	if err != nil {
		ch.handleError(ctx, err)
		return
	}

	view, err := ch.service.SwitchCurrency(ctx, getAuthPayload(ctx).Username, currency)
	if err != nil {
		ch.handleError(ctx, err)
		return
	}

	ch.handleSuccess(ctx, newCheckoutResponse(view))
}

// Submit answers with the order once it is saved locally. Payment fields
// are not echoed back.
func (ch *CheckoutHandler) Submit(ctx *gin.Context) {
	req := submitRequest{}
	err := ctx.ShouldBindJSON(&req)
	if err != nil {
		ch.handleValidationError(ctx, err)
		return
	}

	form := domain.CheckoutForm{
		TargetAccount: req.TargetAccount,
		CardNumber:    req.CardNumber,
		CardExpiry:    req.CardExpiry,
		CardCode:      req.CardCode,
	}
	client := domain.ClientContext{
		UserAgent:  ctx.Request.UserAgent(),
		RemoteAddr: ctx.ClientIP(),
	}

	view, err := ch.service.Submit(ctx, getAuthPayload(ctx).Username, form, client)
	if err != nil {
		ch.handleError(ctx, err)
		return
	}

	ch.handleSuccess(ctx, newCheckoutResponse(view))
}

func (ch *CheckoutHandler) View(ctx *gin.Context) {
	view, err := ch.service.View(ctx, getAuthPayload(ctx).Username)
	if err != nil {
		ch.handleError(ctx, err)
		return
	}

	ch.handleSuccess(ctx, newCheckoutResponse(view))
}

// Leave is "back to dashboard".
func (ch *CheckoutHandler) Leave(ctx *gin.Context) {
	err := ch.service.Leave(ctx, getAuthPayload(ctx).Username)
	if err != nil {
		ch.handleError(ctx, err)
		return
	}

	ch.handleSuccess(ctx, nil)
}

func (ch *CheckoutHandler) ListOrders(ctx *gin.Context) {
	list, err := ch.service.History(ctx, getAuthPayload(ctx).Username)
	if err != nil {
		ch.handleError(ctx, err)
		return
	}

	result := make([]*orderResponse, 0, len(list))
	for _, o := range list {
		result = append(result, newOrderResponse(o))
	}

	ch.handleSuccess(ctx, result)
}
