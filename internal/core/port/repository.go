package port

import (
	"context"

	"github.com/ktosdespidoras/roblox/internal/core/domain"
)

// RemoteStore is the network store with the user table and the order
// table. The ledger treats every call as advisory.
//
//go:generate mockgen -source=repository.go -destination=mock/repository.go -package=mock
type RemoteStore interface {
	// User
	CreateUser(ctx context.Context, user *domain.User) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)

	// Order
	InsertOrder(ctx context.Context, order *domain.RemoteOrder) error
	ListOrdersByOwner(ctx context.Context, owner string) ([]*domain.RemoteOrder, error)
}
