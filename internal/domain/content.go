package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type PublishState string

const (
	PublishPublic   PublishState = "public"
	PublishPrivate  PublishState = "private"
	PublishSchedule PublishState = "schedule"
)

func ParsePublishState(raw string) (PublishState, error) {
	switch PublishState(raw) {
	case PublishPublic, PublishPrivate, PublishSchedule:
		return PublishState(raw), nil
	default:
		return "", fmt.Errorf("invalid publish state %q", raw)
	}
}

// Content is a catalog entry. Video and Image hold generated file names; the
// files they point at exist in the videos / contents storage classes for as
// long as the reference is non-nil.
type Content struct {
	ID          uuid.UUID    `db:"id" json:"id"`
	Title       string       `db:"title" json:"title"`
	Description string       `db:"description" json:"description"`
	Publish     PublishState `db:"publish" json:"publish"`
	Schedule    time.Time    `db:"schedule" json:"schedule"`
	GenreID     uuid.UUID    `db:"genre_id" json:"genre_id"`
	Video       *string      `db:"video" json:"video,omitempty"`
	Image       *string      `db:"image" json:"image,omitempty"`
	GenreName   *string      `db:"genre_name" json:"genre_name,omitempty"`
	CreatedAt   time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time    `db:"updated_at" json:"updated_at"`
}

// NewContent enumerates every field a create may set.
type NewContent struct {
	Title       string
	Description string
	Publish     PublishState
	Schedule    time.Time
	GenreID     uuid.UUID
	Video       *string
	Image       *string
}

// ContentUpdate enumerates every field an update may touch. A nil pointer
// leaves the column unchanged.
type ContentUpdate struct {
	Title       *string
	Description *string
	Publish     *PublishState
	Schedule    *time.Time
	GenreID     *uuid.UUID
	Video       *string
	Image       *string
}

func (u ContentUpdate) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.Publish == nil &&
		u.Schedule == nil && u.GenreID == nil && u.Video == nil && u.Image == nil
}
