package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleAdmin      = "admin"
	RoleSubscriber = "subscriber"
)

// User carries account credentials plus the password-reset OTP state.
// The OTP columns live on the user row itself: reset_otp and otp_expires_at
// are set when a reset is requested, otp_verified_at gates the final password
// change, and all three are cleared together when the new password lands.
type User struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	FirstName     string     `db:"first_name" json:"first_name"`
	LastName      string     `db:"last_name" json:"last_name"`
	Username      string     `db:"username" json:"username"`
	Email         string     `db:"email" json:"email"`
	Role          string     `db:"role" json:"role"`
	PlanType      string     `db:"plan_type" json:"plan_type"`
	PasswordHash  []byte     `db:"password_hash" json:"-"`
	PasswordSalt  []byte     `db:"password_salt" json:"-"`
	ResetOTP      *string    `db:"reset_otp" json:"-"`
	OTPExpiresAt  *time.Time `db:"otp_expires_at" json:"-"`
	OTPVerifiedAt *time.Time `db:"otp_verified_at" json:"-"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
