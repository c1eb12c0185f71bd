package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/streamnest/streamnest-backend/internal/domain"
)

type ContentRepository interface {
	Create(ctx context.Context, fields domain.NewContent) (*domain.Content, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Content, error)
	List(ctx context.Context, limit, offset int) ([]domain.Content, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, id uuid.UUID, fields domain.ContentUpdate) (*domain.Content, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
