package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/streamnest/streamnest-backend/internal/domain"
	"github.com/streamnest/streamnest-backend/internal/repository/ports"
	"github.com/streamnest/streamnest-backend/internal/util"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailTaken          = errors.New("email is already registered")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrInvalidOrExpiredOTP = errors.New("invalid or expired otp")
	ErrResetNotVerified    = errors.New("password reset not verified")
)

// PasswordResetSender dispatches a reset code to the user. Delivery is
// fire-and-forget from the caller's point of view; no confirmation is read.
type PasswordResetSender interface {
	SendPasswordReset(ctx context.Context, email, otp string) error
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

type AuthService struct {
	users      ports.UserRepository
	sessions   ports.SessionRepository
	mailer     PasswordResetSender
	tokens     *util.JWTManager
	sessionTTL time.Duration
	resetTTL   time.Duration

	now func() time.Time
}

func NewAuthService(
	users ports.UserRepository,
	sessions ports.SessionRepository,
	mailer PasswordResetSender,
	tokens *util.JWTManager,
	sessionTTL time.Duration,
	resetTTL time.Duration,
) *AuthService {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	if resetTTL <= 0 {
		resetTTL = 10 * time.Minute
	}
	return &AuthService{
		users:      users,
		sessions:   sessions,
		mailer:     mailer,
		tokens:     tokens,
		sessionTTL: sessionTTL,
		resetTTL:   resetTTL,
		now:        time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, firstName, email, password string) (*domain.User, error) {
	email = normalizeEmail(email)
	firstName = strings.TrimSpace(firstName)
	if err := util.ValidatePassword(password); err != nil {
		return nil, err
	}

	hash, salt, err := util.DerivePassword(password)
	if err != nil {
		return nil, fmt.Errorf("derive password: %w", err)
	}

	username := email
	if at := strings.Index(email, "@"); at > 0 {
		username = email[:at]
	}

	user, err := s.users.CreateSubscriber(ctx, firstName, email, username, hash, salt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !util.VerifyPassword(password, user.PasswordSalt, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Generate(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	if _, err := s.sessions.CreateSession(ctx, user.ID, token, expiresAt); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// Authenticate resolves a bearer token to its user. The token must both
// parse and still have an active session row, so logout revokes it.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if _, err := s.sessions.FindActiveSession(ctx, token); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("find session: %w", err)
	}
	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	if err := s.sessions.DeactivateSession(ctx, token); err != nil {
		return fmt.Errorf("deactivate session: %w", err)
	}
	return nil
}

// RequestPasswordReset issues a fresh OTP for the account and mails it. The
// code is persisted before the mail goes out, so a delivery failure surfaces
// as an error while the stored code stays usable.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUserNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}

	otp, err := util.GenerateResetOTP()
	if err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}
	expiresAt := s.now().Add(s.resetTTL)
	if err := s.users.SetResetOTP(ctx, user.ID, otp, expiresAt); err != nil {
		return fmt.Errorf("store otp: %w", err)
	}

	if err := s.mailer.SendPasswordReset(ctx, user.Email, otp); err != nil {
		return fmt.Errorf("send reset mail: %w", err)
	}
	return nil
}

// VerifyPasswordReset checks the submitted code and marks the account as
// reset-verified. A code submitted at exactly its expiry instant is still
// accepted; only strictly-later submissions are rejected.
func (s *AuthService) VerifyPasswordReset(ctx context.Context, email, otp string) error {
	user, err := s.users.FindByEmailAndOTP(ctx, normalizeEmail(email), otp)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrInvalidOrExpiredOTP
		}
		return fmt.Errorf("find user by otp: %w", err)
	}
	if user.OTPExpiresAt == nil || s.now().After(*user.OTPExpiresAt) {
		return ErrInvalidOrExpiredOTP
	}
	if err := s.users.MarkOTPVerified(ctx, user.ID, s.now()); err != nil {
		return fmt.Errorf("mark otp verified: %w", err)
	}
	return nil
}

// ApplyPasswordReset stores the new password and consumes the verification
// in one conditional update, so two racing calls cannot both succeed.
func (s *AuthService) ApplyPasswordReset(ctx context.Context, email, newPassword string) error {
	if err := util.ValidatePassword(newPassword); err != nil {
		return err
	}
	hash, salt, err := util.DerivePassword(newPassword)
	if err != nil {
		return fmt.Errorf("derive password: %w", err)
	}

	consumed, err := s.users.ResetPasswordIfVerified(ctx, normalizeEmail(email), hash, salt)
	if err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	if !consumed {
		return ErrResetNotVerified
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
