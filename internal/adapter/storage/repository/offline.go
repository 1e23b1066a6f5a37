package repository

import (
	"context"

	"github.com/ktosdespidoras/roblox/internal/core/domain"
)

// Offline stands in for the remote store when no database is configured.
// Every call fails with ErrRemoteUnavailable.
type Offline struct{}

func (Offline) CreateUser(context.Context, *domain.User) (*domain.User, error) {
	return nil, domain.ErrRemoteUnavailable
}

func (Offline) GetUserByUsername(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrRemoteUnavailable
}

func (Offline) InsertOrder(context.Context, *domain.RemoteOrder) error {
	return domain.ErrRemoteUnavailable
}

func (Offline) ListOrdersByOwner(context.Context, string) ([]*domain.RemoteOrder, error) {
	return nil, domain.ErrRemoteUnavailable
}
