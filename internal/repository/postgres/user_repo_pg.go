package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/streamnest/streamnest-backend/internal/domain"
)

const userColumns = `id, first_name, last_name, username, email, role, plan_type,
	password_hash, password_salt, reset_otp, otp_expires_at, otp_verified_at,
	created_at, updated_at`

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) CreateSubscriber(ctx context.Context, firstName, email, username string, passwordHash, passwordSalt []byte) (*domain.User, error) {
	const query = `
        INSERT INTO users (first_name, email, username, role, password_hash, password_salt)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING ` + userColumns
	row := r.db.QueryRowxContext(ctx, query, firstName, email, username, domain.RoleSubscriber, passwordHash, passwordSalt)
	var user domain.User
	if err := row.StructScan(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	var user domain.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	var user domain.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) SetResetOTP(ctx context.Context, id uuid.UUID, otp string, expiresAt time.Time) error {
	const query = `
        UPDATE users
        SET reset_otp = $2,
            otp_expires_at = $3,
            otp_verified_at = NULL,
            updated_at = NOW()
        WHERE id = $1
    `
	_, err := r.db.ExecContext(ctx, query, id, otp, expiresAt)
	return err
}

func (r *UserRepository) FindByEmailAndOTP(ctx context.Context, email, otp string) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email = $1 AND reset_otp = $2`
	var user domain.User
	if err := r.db.GetContext(ctx, &user, query, email, otp); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) MarkOTPVerified(ctx context.Context, id uuid.UUID, verifiedAt time.Time) error {
	const query = `
        UPDATE users
        SET otp_verified_at = $2,
            updated_at = NOW()
        WHERE id = $1
    `
	_, err := r.db.ExecContext(ctx, query, id, verifiedAt)
	return err
}

func (r *UserRepository) ResetPasswordIfVerified(ctx context.Context, email string, passwordHash, passwordSalt []byte) (bool, error) {
	const query = `
        UPDATE users
        SET password_hash = $2,
            password_salt = $3,
            reset_otp = NULL,
            otp_expires_at = NULL,
            otp_verified_at = NULL,
            updated_at = NOW()
        WHERE email = $1 AND otp_verified_at IS NOT NULL
    `
	res, err := r.db.ExecContext(ctx, query, email, passwordHash, passwordSalt)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}
