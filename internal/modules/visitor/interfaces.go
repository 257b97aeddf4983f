package visitor

import (
	"context"

	"museo/internal/domain"
	"museo/internal/repository"
)

// VisitorRepository is the walk-in log store as the service sees it.
type VisitorRepository interface {
	Create(ctx context.Context, e *domain.VisitorEntry) error
	List(ctx context.Context, f repository.VisitorFilter) ([]domain.VisitorEntry, error)
	GetByID(ctx context.Context, id int64) (*domain.VisitorEntry, error)
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context) (*repository.VisitorStats, error)
}
