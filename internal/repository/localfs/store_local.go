// Package localfs stores uploaded assets on the local filesystem, one
// directory per asset class under a configurable base directory.
package localfs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/streamnest/streamnest-backend/internal/domain"
)

type Store struct {
	baseDir      string
	publicPrefix string
}

// New returns a store rooted at baseDir. Stored paths are reported relative
// to publicPrefix (e.g. "uploads"), matching how the files are served.
func New(baseDir, publicPrefix string) *Store {
	if publicPrefix == "" {
		publicPrefix = "uploads"
	}
	return &Store{baseDir: baseDir, publicPrefix: publicPrefix}
}

func (s *Store) Save(ctx context.Context, class domain.AssetClass, name, contentType string, reader io.Reader, size int64) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	dir := filepath.Join(s.baseDir, string(class))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("localfs: ensure %s: %w", dir, err)
	}

	target := filepath.Join(dir, name)
	dst, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("localfs: create %s: %w", target, err)
	}
	if _, err := io.Copy(dst, reader); err != nil {
		_ = dst.Close()
		_ = os.Remove(target)
		return "", fmt.Errorf("localfs: write %s: %w", target, err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(target)
		return "", fmt.Errorf("localfs: close %s: %w", target, err)
	}

	return path.Join(s.publicPrefix, string(class), name), nil
}

func (s *Store) RemoveIfPresent(ctx context.Context, class domain.AssetClass, name string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	// Reject anything that could escape the class directory.
	if name == "" || name != filepath.Base(name) {
		return fmt.Errorf("localfs: invalid file name %q", name)
	}

	target := filepath.Join(s.baseDir, string(class), name)
	if err := os.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("localfs: remove %s: %w", target, err)
	}
	return nil
}
