package port

import (
	"context"

	"github.com/ktosdespidoras/roblox/internal/core/domain"
)

type SessionService interface {
	RegisterUser(ctx context.Context, username string, password string) (string, error)
	LoginUser(ctx context.Context, username string, password string) (string, error)
	LogoutUser(ctx context.Context, username string) error
	IsLoggedIn(ctx context.Context, username string) bool
}

type CheckoutService interface {
	Start(ctx context.Context, owner string, sel domain.Selection) (*domain.CheckoutView, error)
	SwitchCurrency(ctx context.Context, owner string, currency domain.Currency) (*domain.CheckoutView, error)
	Submit(ctx context.Context, owner string, form domain.CheckoutForm,
		client domain.ClientContext) (*domain.CheckoutView, error)
	View(ctx context.Context, owner string) (*domain.CheckoutView, error)
	Leave(ctx context.Context, owner string) error
	History(ctx context.Context, owner string) ([]*domain.Order, error)
}
