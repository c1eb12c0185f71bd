package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/streamnest/streamnest-backend/internal/domain"
)

type GenreRepository struct {
	db *sqlx.DB
}

func NewGenreRepo(db *sqlx.DB) *GenreRepository {
	return &GenreRepository{db: db}
}

func (r *GenreRepository) Create(ctx context.Context, name string, thumbnail *string) (*domain.Genre, error) {
	const query = `
        INSERT INTO genres (name, thumbnail)
        VALUES ($1, $2)
        RETURNING id, name, thumbnail, 0 AS content_count, created_at, updated_at
    `
	row := r.db.QueryRowxContext(ctx, query, name, thumbnail)
	var genre domain.Genre
	if err := row.StructScan(&genre); err != nil {
		return nil, err
	}
	return &genre, nil
}

func (r *GenreRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Genre, error) {
	const query = `
        SELECT g.id, g.name, g.thumbnail,
               COUNT(c.id) AS content_count,
               g.created_at, g.updated_at
        FROM genres g
        LEFT JOIN contents c ON c.genre_id = g.id
        WHERE g.id = $1
        GROUP BY g.id
    `
	var genre domain.Genre
	if err := r.db.GetContext(ctx, &genre, query, id); err != nil {
		return nil, err
	}
	return &genre, nil
}

func (r *GenreRepository) ListWithCounts(ctx context.Context, limit, offset int) ([]domain.Genre, error) {
	const query = `
        SELECT g.id, g.name, g.thumbnail,
               COUNT(c.id) AS content_count,
               g.created_at, g.updated_at
        FROM genres g
        LEFT JOIN contents c ON c.genre_id = g.id
        GROUP BY g.id
        ORDER BY g.created_at DESC
        LIMIT $1 OFFSET $2
    `
	genres := []domain.Genre{}
	if err := r.db.SelectContext(ctx, &genres, query, limit, offset); err != nil {
		return nil, err
	}
	return genres, nil
}

func (r *GenreRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM genres`); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *GenreRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	const query = `SELECT EXISTS (SELECT 1 FROM genres WHERE id = $1)`
	if err := r.db.GetContext(ctx, &exists, query, id); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *GenreRepository) Update(ctx context.Context, id uuid.UUID, fields domain.GenreUpdate) (*domain.Genre, error) {
	setParts := []string{"updated_at = NOW()"}
	args := []any{id}
	idx := 2

	if fields.Name != nil {
		setParts = append(setParts, fmt.Sprintf("name = $%d", idx))
		args = append(args, *fields.Name)
		idx++
	}
	if fields.Thumbnail != nil {
		setParts = append(setParts, fmt.Sprintf("thumbnail = $%d", idx))
		args = append(args, *fields.Thumbnail)
		idx++
	}

	query := fmt.Sprintf(`
        WITH updated AS (
            UPDATE genres SET %s
            WHERE id = $1
            RETURNING *
        )
        SELECT updated.id, updated.name, updated.thumbnail,
               COUNT(c.id) AS content_count,
               updated.created_at, updated.updated_at
        FROM updated
        LEFT JOIN contents c ON c.genre_id = updated.id
        GROUP BY updated.id, updated.name, updated.thumbnail, updated.created_at, updated.updated_at
    `, strings.Join(setParts, ", "))

	row := r.db.QueryRowxContext(ctx, query, args...)
	var genre domain.Genre
	if err := row.StructScan(&genre); err != nil {
		return nil, err
	}
	return &genre, nil
}

func (r *GenreRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM genres WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
