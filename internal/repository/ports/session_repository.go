package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/streamnest/streamnest-backend/internal/domain"
)

// SessionRepository tracks issued bearer tokens. A token is usable only while
// its row is active and unexpired; deactivation is how logout revokes a JWT
// before its own expiry.
type SessionRepository interface {
	CreateSession(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) (*domain.Session, error)
	DeactivateSession(ctx context.Context, token string) error
	// FindActiveSession yields sql.ErrNoRows for revoked or expired tokens.
	FindActiveSession(ctx context.Context, token string) (*domain.Session, error)
}
