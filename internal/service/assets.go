package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/streamnest/streamnest-backend/internal/domain"
	"github.com/streamnest/streamnest-backend/internal/media"
	"github.com/streamnest/streamnest-backend/internal/repository/ports"
)

// AssetUpload carries one uploaded file through the service layer.
type AssetUpload struct {
	Reader      io.Reader
	Size        int64
	FileName    string
	ContentType string
}

type storedAsset struct {
	class domain.AssetClass
	name  string
}

// assetName builds a collision-resistant file name: unix timestamp, a fixed
// per-slot suffix, and the original extension.
func assetName(now time.Time, suffix, original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	return strconv.FormatInt(now.Unix(), 10) + suffix + ext
}

// saveImageUpload validates the payload decodes as an image before handing
// it to the file store. Returns the stored path.
func saveImageUpload(ctx context.Context, files ports.FileStore, class domain.AssetClass, name string, upload *AssetUpload) (string, error) {
	data, err := io.ReadAll(upload.Reader)
	if err != nil {
		return "", fmt.Errorf("read image upload: %w", err)
	}
	if _, err := media.SniffImage(data); err != nil {
		return "", ErrInvalidImage
	}
	path, err := files.Save(ctx, class, name, upload.ContentType, bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}
	return path, nil
}
