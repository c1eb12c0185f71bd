// Package media validates uploaded image payloads before they reach storage.
package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

var ErrNotAnImage = errors.New("media: payload is not a decodable image")

// SniffImage decodes the image header and returns the detected format
// (jpeg, png, gif or webp). It never reads pixel data.
func SniffImage(data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrNotAnImage
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotAnImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return "", ErrNotAnImage
	}
	return format, nil
}
