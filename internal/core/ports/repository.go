package ports

import (
	"context"

	"github.com/agritrust/api-core/internal/core/domain"
)

type BatchRepository interface {
	// Save inserts exactly one new batch record. A unique-constraint
	// violation on the token identifier surfaces as domain.ErrConflict.
	Save(ctx context.Context, batch *domain.Batch) error

	// GetByID retrieves a single batch scoped to the owning farmer.
	GetByID(ctx context.Context, id string, farmer domain.Identity) (*domain.Batch, error)

	// FindByFarmer retrieves the farmer's batches, creation date descending.
	FindByFarmer(ctx context.Context, farmer domain.Identity) ([]*domain.Batch, error)
}
