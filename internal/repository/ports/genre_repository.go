package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/streamnest/streamnest-backend/internal/domain"
)

type GenreRepository interface {
	Create(ctx context.Context, name string, thumbnail *string) (*domain.Genre, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Genre, error)
	// ListWithCounts returns genres newest-first, each carrying the number
	// of content rows referencing it.
	ListWithCounts(ctx context.Context, limit, offset int) ([]domain.Genre, error)
	Count(ctx context.Context) (int64, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Update(ctx context.Context, id uuid.UUID, fields domain.GenreUpdate) (*domain.Genre, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
