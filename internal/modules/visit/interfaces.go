package visit

import (
	"context"
	"time"

	"museo/internal/domain"
	"museo/internal/repository"
)

// VisitRepository is the booking store as the service sees it.
type VisitRepository interface {
	CreateWithCapacity(ctx context.Context, v *domain.Visit, maxCapacity int) (*repository.CapacityBlock, error)
	ReinstateWithCapacity(ctx context.Context, v *domain.Visit, status, description string, maxCapacity int) error
	VisitsForDate(ctx context.Context, day time.Time) ([]domain.Visit, error)
	List(ctx context.Context, f repository.VisitFilter) ([]domain.Visit, error)
	GetByID(ctx context.Context, id int64) (*domain.Visit, error)
	UpdateStatus(ctx context.Context, id int64, status, description string) error
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context) (*repository.VisitStats, error)
}

// EventSink receives lifecycle events for the live board. Optional; a nil
// sink disables broadcasting.
type EventSink interface {
	VisitCreated(v *domain.Visit)
	VisitStatusChanged(v *domain.Visit)
	VisitDeleted(id int64, blockID string)
}
