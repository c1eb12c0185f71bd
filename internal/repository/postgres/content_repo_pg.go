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

// contentColumns lists the selected columns with the content table aliased as
// %[1]s, so the same projection works for plain selects and CTE returns.
const contentColumns = `%[1]s.id, %[1]s.title, %[1]s.description, %[1]s.publish, %[1]s.schedule,
	%[1]s.genre_id, %[1]s.video, %[1]s.image, %[1]s.created_at, %[1]s.updated_at,
	g.name AS genre_name`

func contentSelect(alias string) string {
	return fmt.Sprintf(contentColumns, alias)
}

type ContentRepository struct {
	db *sqlx.DB
}

func NewContentRepo(db *sqlx.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

func (r *ContentRepository) Create(ctx context.Context, fields domain.NewContent) (*domain.Content, error) {
	query := `
        WITH inserted AS (
            INSERT INTO contents (title, description, publish, schedule, genre_id, video, image)
            VALUES ($1, $2, $3, $4, $5, $6, $7)
            RETURNING *
        )
        SELECT ` + contentSelect("inserted") + `
        FROM inserted
        LEFT JOIN genres g ON g.id = inserted.genre_id
    `
	row := r.db.QueryRowxContext(ctx, query,
		fields.Title, fields.Description, fields.Publish, fields.Schedule,
		fields.GenreID, fields.Video, fields.Image)
	var content domain.Content
	if err := row.StructScan(&content); err != nil {
		return nil, err
	}
	return &content, nil
}

func (r *ContentRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Content, error) {
	query := `
        SELECT ` + contentSelect("c") + `
        FROM contents c
        LEFT JOIN genres g ON g.id = c.genre_id
        WHERE c.id = $1
    `
	var content domain.Content
	if err := r.db.GetContext(ctx, &content, query, id); err != nil {
		return nil, err
	}
	return &content, nil
}

func (r *ContentRepository) List(ctx context.Context, limit, offset int) ([]domain.Content, error) {
	query := `
        SELECT ` + contentSelect("c") + `
        FROM contents c
        LEFT JOIN genres g ON g.id = c.genre_id
        ORDER BY c.created_at DESC
        LIMIT $1 OFFSET $2
    `
	contents := []domain.Content{}
	if err := r.db.SelectContext(ctx, &contents, query, limit, offset); err != nil {
		return nil, err
	}
	return contents, nil
}

func (r *ContentRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM contents`); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *ContentRepository) Update(ctx context.Context, id uuid.UUID, fields domain.ContentUpdate) (*domain.Content, error) {
	setParts := []string{"updated_at = NOW()"}
	args := []any{id}
	idx := 2

	addSet := func(column string, value any) {
		setParts = append(setParts, fmt.Sprintf("%s = $%d", column, idx))
		args = append(args, value)
		idx++
	}

	if fields.Title != nil {
		addSet("title", *fields.Title)
	}
	if fields.Description != nil {
		addSet("description", *fields.Description)
	}
	if fields.Publish != nil {
		addSet("publish", *fields.Publish)
	}
	if fields.Schedule != nil {
		addSet("schedule", *fields.Schedule)
	}
	if fields.GenreID != nil {
		addSet("genre_id", *fields.GenreID)
	}
	if fields.Video != nil {
		addSet("video", *fields.Video)
	}
	if fields.Image != nil {
		addSet("image", *fields.Image)
	}

	query := fmt.Sprintf(`
        WITH updated AS (
            UPDATE contents SET %s
            WHERE id = $1
            RETURNING *
        )
        SELECT %s
        FROM updated
        LEFT JOIN genres g ON g.id = updated.genre_id
    `, strings.Join(setParts, ", "), contentSelect("updated"))

	row := r.db.QueryRowxContext(ctx, query, args...)
	var content domain.Content
	if err := row.StructScan(&content); err != nil {
		return nil, err
	}
	return &content, nil
}

func (r *ContentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM contents WHERE id = $1`, id)
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
