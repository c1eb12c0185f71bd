package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Genre groups content entries. Thumbnail is either a storage-relative path
// (set by an upload) or an external URL (set by a later update).
type Genre struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Thumbnail    *string   `db:"thumbnail" json:"thumbnail,omitempty"`
	ContentCount int64     `db:"content_count" json:"total_content"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// HasStoredThumbnail reports whether the thumbnail points at a file this
// system stored, as opposed to an external URL.
func (g *Genre) HasStoredThumbnail() bool {
	if g.Thumbnail == nil {
		return false
	}
	t := *g.Thumbnail
	return t != "" && !strings.HasPrefix(t, "http://") && !strings.HasPrefix(t, "https://")
}

// GenreUpdate enumerates the fields an update may touch.
type GenreUpdate struct {
	Name      *string
	Thumbnail *string
}
