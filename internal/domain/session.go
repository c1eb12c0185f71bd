package domain

import (
	"time"

	"github.com/google/uuid"
)

// Session is the server-side record backing an issued bearer token. Logout
// flips is_active so the token is revoked even before its JWT expiry.
type Session struct {
	ID        int64     `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Token     string    `db:"token" json:"token"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
	IsActive  bool      `db:"is_active" json:"is_active"`
}
