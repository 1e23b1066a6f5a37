package port

import (
	"context"

	"github.com/ktosdespidoras/roblox/internal/core/domain"
	"github.com/ktosdespidoras/roblox/internal/core/task"
)

//go:generate mockgen -source=ledger.go -destination=mock/ledger.go -package=mock
type Ledger interface {
	// Record persists the order locally and starts the remote append. The
	// returned task reports the remote leg and may be ignored.
	Record(ctx context.Context, draft *domain.OrderDraft) (*domain.Order, *task.Result, error)
	History(ctx context.Context, owner string) ([]*domain.Order, error)
}

type Notifier interface {
	Notify(ctx context.Context, order *domain.Order, payment domain.PaymentSummary,
		client domain.ClientContext) *task.Result
}

type EventPublisher interface {
	PublishOrderCompleted(ctx context.Context, order *domain.Order) error
}

// CheckoutMetrics receives outcomes the user never sees.
type CheckoutMetrics interface {
	SubmissionFinished(outcome string)
	RemoteWriteFailed()
	NotificationFinished(outcome string)
}
