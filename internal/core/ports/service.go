package ports

import (
	"context"

	"github.com/agritrust/api-core/internal/core/domain"
)

type BatchService interface {
	// RegisterBatch runs the full registration workflow: validate, publish
	// the creation event to the ledger, pin the image and metadata, mint
	// the batch NFT and persist the composite record.
	// payload is the raw JSON form of the submission; image is optional.
	RegisterBatch(ctx context.Context, farmer domain.Identity, payload []byte, image *domain.ImageUpload) (*domain.Batch, error)

	ListBatches(ctx context.Context, farmer domain.Identity) ([]*domain.Batch, error)

	GetBatch(ctx context.Context, farmer domain.Identity, batchID string) (*domain.Batch, error)
}
