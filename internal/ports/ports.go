package ports

import (
	"context"
	"time"

	"github.com/brunesovrbrauns/bdc-manager-app/internal/domain"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/feed"
)

// HealthChecker is used to probe dependencies.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// AgentLister reads the active roster in display order.
type AgentLister interface {
	ListActive(ctx context.Context) ([]domain.Agent, error)
}

type ShiftStore interface {
	Upsert(ctx context.Context, s domain.ShiftSubmission) error
	ListByDate(ctx context.Context, date time.Time) ([]domain.ShiftSubmission, error)
}

type StorewideStore interface {
	Get(ctx context.Context, date time.Time) (*domain.StorewideReport, error)
	Upsert(ctx context.Context, r domain.StorewideReport) error
	Reopen(ctx context.Context, date time.Time, generatedTime string) error
}

type TotalsReader interface {
	QuickTotals(ctx context.Context, date time.Time) (domain.QuickTotals, error)
}

// ChangeFeed hands out invalidation subscriptions.
type ChangeFeed interface {
	Subscribe(f feed.Filter) *feed.Subscription
}
