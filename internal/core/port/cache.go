package port

import (
	"context"

	"github.com/ktosdespidoras/roblox/internal/core/domain"
)

// OrderCache is the local durable slot holding the full order list.
//
//go:generate mockgen -source=cache.go -destination=mock/cache.go -package=mock
type OrderCache interface {
	AppendOrder(ctx context.Context, order *domain.Order) error
	ListOrders(ctx context.Context) ([]*domain.Order, error)
}

// SessionCache is the local durable slot holding session state.
type SessionCache interface {
	SaveSession(ctx context.Context, session *domain.Session) error
	LoadSession(ctx context.Context, username string) (*domain.Session, error)
	ClearSession(ctx context.Context, username string) error
}
