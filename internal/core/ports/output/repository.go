package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"vision-alert-service/internal/core/domain"
)

type AlertListFilter struct {
	Status string
	Level  string
	Source string
	RuleID uuid.UUID
	SortBy string
	Order  string
	Limit  int
	Offset int
}

type EventListFilter struct {
	RuleID    uuid.UUID
	ClassName string
	Since     time.Time
	Until     time.Time
	Limit     int
	Offset    int
}

type AlertRepository interface {
	Create(ctx context.Context, alert *domain.Alert) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Alert, error)
	Update(ctx context.Context, alert *domain.Alert) error
	List(ctx context.Context, filter AlertListFilter) ([]*domain.Alert, int, error)
}

type RuleRepository interface {
	Create(ctx context.Context, rule *domain.MonitorRule) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.MonitorRule, error)
	GetBySlug(ctx context.Context, slug string) (*domain.MonitorRule, error)
	Update(ctx context.Context, rule *domain.MonitorRule) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, enabledOnly bool) ([]*domain.MonitorRule, error)
}

type EventRepository interface {
	CreateBatch(ctx context.Context, events []*domain.DetectionEvent) error
	List(ctx context.Context, filter EventListFilter) ([]*domain.DetectionEvent, int, error)
}
