package ports

import (
	"context"
	"io"

	"github.com/streamnest/streamnest-backend/internal/domain"
)

// FileStore persists uploaded assets. Implementations keep one location per
// asset class (a directory on disk, or a key prefix in an object store).
type FileStore interface {
	// Save streams the reader into the class location under the given name
	// and returns the stored path, relative to the store's public root.
	Save(ctx context.Context, class domain.AssetClass, name, contentType string, reader io.Reader, size int64) (string, error)
	// RemoveIfPresent deletes the named file. A file that is already gone is
	// not an error.
	RemoveIfPresent(ctx context.Context, class domain.AssetClass, name string) error
}
