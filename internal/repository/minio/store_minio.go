// Package minio stores uploaded assets in an S3-compatible bucket, one
// object-key prefix per asset class.
package minio

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/streamnest/streamnest-backend/internal/domain"
)

type Store struct {
	client *minio.Client
	bucket string
}

func NewClient(endpoint, key, secret string, useSSL bool) (*minio.Client, error) {
	return minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(key, secret, ""),
		Secure: useSSL,
	})
}

func NewStore(client *minio.Client, bucket string) *Store {
	return &Store{client: client, bucket: bucket}
}

func (s *Store) Save(ctx context.Context, class domain.AssetClass, name, contentType string, reader io.Reader, size int64) (string, error) {
	key := path.Join(string(class), name)
	opts := minio.PutObjectOptions{ContentType: contentType}
	if _, err := s.client.PutObject(ctx, s.bucket, key, reader, size, opts); err != nil {
		return "", fmt.Errorf("minio: put %s: %w", key, err)
	}
	return key, nil
}

func (s *Store) RemoveIfPresent(ctx context.Context, class domain.AssetClass, name string) error {
	key := path.Join(string(class), name)
	err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
	if err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket" {
			return nil
		}
		return fmt.Errorf("minio: remove %s: %w", key, err)
	}
	return nil
}
