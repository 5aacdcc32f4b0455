package ports

import (
	"context"
	"time"

	"github.com/emiliopalmerini/expconv/internal/domain"
)

// RunRepository stores the history of completed conversion runs.
type RunRepository interface {
	Create(ctx context.Context, run *domain.ConversionRun) error
	GetByID(ctx context.Context, id string) (*domain.ConversionRun, error)
	List(ctx context.Context, opts ListRunsOptions) ([]*domain.ConversionRun, error)
	DeleteBefore(ctx context.Context, before time.Time) (int64, error)
}

type ListRunsOptions struct {
	Limit     int
	InputPath *string
}
