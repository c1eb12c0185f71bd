package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/streamnest/streamnest-backend/internal/domain"
)

type UserRepository interface {
	CreateSubscriber(ctx context.Context, firstName, email, username string, passwordHash, passwordSalt []byte) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// SetResetOTP stores a fresh code and expiry on the user row, clearing
	// any previous verification mark.
	SetResetOTP(ctx context.Context, id uuid.UUID, otp string, expiresAt time.Time) error
	// FindByEmailAndOTP matches on both columns at once; a stale or wrong
	// code yields sql.ErrNoRows.
	FindByEmailAndOTP(ctx context.Context, email, otp string) (*domain.User, error)
	MarkOTPVerified(ctx context.Context, id uuid.UUID, verifiedAt time.Time) error
	// ResetPasswordIfVerified writes the new credentials and nulls the three
	// OTP columns in a single conditional UPDATE. It returns false when no
	// row had otp_verified_at set, which makes consumption at-most-once even
	// under concurrent calls.
	ResetPasswordIfVerified(ctx context.Context, email string, passwordHash, passwordSalt []byte) (bool, error)
}
