package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/govalues/decimal"
	"github.com/ktosdespidoras/roblox/internal/core/converter"
	"github.com/ktosdespidoras/roblox/internal/core/domain"
	"go.uber.org/zap"
)

var errorStatusMap = map[error]int{
	domain.ErrInternal:        http.StatusInternalServerError,
	domain.ErrDataNotFound:    http.StatusNotFound,
	domain.ErrConflictingData: http.StatusConflict,

	domain.ErrInvalidCredentials:         http.StatusUnauthorized,
	domain.ErrEmptyAuthorizationHeader:   http.StatusUnauthorized,
	domain.ErrInvalidAuthorizationHeader: http.StatusUnauthorized,
	domain.ErrInvalidAuthorizationType:   http.StatusUnauthorized,
	domain.ErrInvalidToken:               http.StatusUnauthorized,
	domain.ErrExpiredToken:               http.StatusUnauthorized,
	domain.ErrTokenCreation:              http.StatusInternalServerError,

	domain.ErrBadRequest:          http.StatusBadRequest,
	domain.ErrValidation:          http.StatusBadRequest,
	domain.ErrUnsupportedCurrency: http.StatusBadRequest,
	converter.ErrAmountOutOfRange: http.StatusBadRequest,
	domain.ErrAmountBelowMinimum:  http.StatusUnprocessableEntity,
	domain.ErrUnknownProduct:      http.StatusNotFound,
	domain.ErrCheckoutNotFound:    http.StatusNotFound,
	domain.ErrCheckoutBusy:        http.StatusConflict,
	domain.ErrCheckoutClosed:      http.StatusConflict,
	domain.ErrPersistence:         http.StatusInternalServerError,
}

type Handler struct {
	logger *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{logger: logger}
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func statusFor(err error) (int, bool) {
	if status, ok := errorStatusMap[err]; ok {
		return status, true
	}
	for known, status := range errorStatusMap {
		if errors.Is(err, known) {
			return status, true
		}
	}
	return http.StatusInternalServerError, false
}

// handleAbort sends an error response and aborts the request with the specified status code and error message
func (h *Handler) handleAbort(ctx *gin.Context, err error) {
	statusCode, ok := statusFor(err)
	if !ok {
		h.logger.Error("aborting request", zap.Error(err))
	}
	_ = ctx.Error(err)
	ctx.AbortWithStatusJSON(statusCode, errorResponse{Error: err.Error()})
}

// handleError answers client errors with the message and hides server errors.
func (h *Handler) handleError(ctx *gin.Context, err error) {
	statusCode, ok := statusFor(err)
	if !ok {
		h.logger.Error("error processing request", zap.Error(err))
	}
	_ = ctx.Error(err)
	if statusCode >= http.StatusInternalServerError {
		ctx.Status(statusCode)
		return
	}

	resp := errorResponse{Error: err.Error()}
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		resp.Field = verr.Field
	}
	ctx.JSON(statusCode, resp)
}

func (h *Handler) handleValidationError(ctx *gin.Context, err error) {
	h.handleError(ctx, errors.Join(domain.ErrBadRequest, err))
}

// handleSuccess sends a success response with the specified status code and optional data
func (h *Handler) handleSuccessWithStatus(ctx *gin.Context, data any, status int) {
	if data != nil {
		ctx.JSON(status, data)
	} else {
		ctx.Status(status)
	}
}

func (h *Handler) handleSuccess(ctx *gin.Context, data any) {
	h.handleSuccessWithStatus(ctx, data, http.StatusOK)
}

type moneyResponse struct {
	Value    decimal.Decimal `json:"value"`
	Currency string          `json:"currency"`
	Display  string          `json:"display"`
}

func newMoneyResponse(m domain.Money) moneyResponse {
	return moneyResponse{Value: m.Value, Currency: string(m.Currency), Display: m.String()}
}

type productResponse struct {
	ID           int64         `json:"id"`
	Amount       int64         `json:"amount"`
	Bonus        int64         `json:"bonus"`
	Price        moneyResponse `json:"price"`
	Custom       bool          `json:"custom"`
	Subscription bool          `json:"subscription"`
}

func newProductResponse(p domain.Product, c domain.Currency) productResponse {
	return productResponse{
		ID:           p.ID,
		Amount:       p.Amount,
		Bonus:        p.Bonus,
		Price:        newMoneyResponse(p.PriceIn(c)),
		Custom:       p.IsCustom(),
		Subscription: p.IsSubscription(),
	}
}

type orderResponse struct {
	ID            int64         `json:"id"`
	TargetAccount string        `json:"target_account"`
	Amount        int64         `json:"amount"`
	Price         moneyResponse `json:"price"`
	Status        string        `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
}

func newOrderResponse(o *domain.Order) *orderResponse {
	if o == nil {
		return nil
	}
	return &orderResponse{
		ID:            o.ID,
		TargetAccount: o.TargetAccount,
		Amount:        o.Amount,
		Price:         newMoneyResponse(o.Price()),
		Status:        string(o.Status),
		CreatedAt:     o.CreatedAt,
	}
}

// currencyParam reads ?currency=, RUB when absent.
func currencyParam(ctx *gin.Context) (domain.Currency, error) {
	raw := ctx.Query("currency")
	if raw == "" {
		return domain.CurrencyRUB, nil
	}
	return domain.ParseCurrency(raw)
}
