package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/ktosdespidoras/roblox/internal/core/domain"
	"github.com/ktosdespidoras/roblox/internal/core/port"
	"github.com/ktosdespidoras/roblox/internal/core/task"
	"go.uber.org/zap"
)

const remoteTimeout = 10 * time.Second

// Ledger writes every order to the local cache and, as advice only, to the
// remote store. History is served from the local cache.
type Ledger struct {
	remote  port.RemoteStore
	cache   port.OrderCache
	metrics port.CheckoutMetrics
	logger  *zap.Logger

	pending task.Group
}

func NewLedger(remote port.RemoteStore, cache port.OrderCache,
	metrics port.CheckoutMetrics, logger *zap.Logger) (*Ledger, error) {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &Ledger{
		remote:  remote,
		cache:   cache,
		metrics: metrics,
		logger:  logger,
	}, nil
}

func (l *Ledger) Record(ctx context.Context, draft *domain.OrderDraft) (*domain.Order, *task.Result, error) {
	order := domain.NewOrder(draft)

	err := l.cache.AppendOrder(ctx, order)
	if err != nil {
		l.logger.Error("Append order to local cache", zap.Error(err))
		return nil, nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}

	row := domain.NewRemoteOrder(order, draft.Payment)
	result := l.detach(ctx, "remote order insert", func(ctx context.Context) error {
		err := l.remote.InsertOrder(ctx, row)
		if err != nil {
			l.metrics.RemoteWriteFailed()
			return fmt.Errorf("%w: %w", domain.ErrRemoteWrite, err)
		}
		return nil
	})

	return order, result, nil
}

// History returns the owner's orders from the local cache, newest first.
// The remote copy is fetched alongside but not merged: the local order id is
// a timestamp and cannot key a merge.
func (l *Ledger) History(ctx context.Context, owner string) ([]*domain.Order, error) {
	l.detach(ctx, "remote order history", func(ctx context.Context) error {
		list, err := l.remote.ListOrdersByOwner(ctx, owner)
		if err != nil {
			return err
		}
		l.logger.Debug("Remote history fetched",
			zap.String("owner", owner), zap.Int("count", len(list)))
		return nil
	})

	all, err := l.cache.ListOrders(ctx)
	if err != nil {
		l.logger.Error("Read local order cache", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}

	list := make([]*domain.Order, 0, len(all))
	for _, o := range all {
		if o.Owner == owner {
			list = append(list, o)
		}
	}
	slices.SortFunc(list, func(a, b *domain.Order) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	return list, nil
}

// Drain waits for detached remote calls, for shutdown and tests.
func (l *Ledger) Drain(ctx context.Context) error {
	return l.pending.Wait(ctx)
}

func (l *Ledger) detach(ctx context.Context, name string, fn func(ctx context.Context) error) *task.Result {
	return l.pending.Go(ctx, l.logger, name, remoteTimeout, fn)
}

type nopMetrics struct{}

func (nopMetrics) SubmissionFinished(string)   {}
func (nopMetrics) RemoteWriteFailed()          {}
func (nopMetrics) NotificationFinished(string) {}
