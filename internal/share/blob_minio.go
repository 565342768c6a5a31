package share

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
)

// MinIOBlobStore writes uploaded bytes to a MinIO bucket and mints the
// durable URL recorded with the file. When the bucket is world-readable
// the URL is the stable public object URL; otherwise a presigned GET URL
// valid for the share TTL.
type MinIOBlobStore struct {
	client     *minio.Client
	bucket     string
	publicRead bool
	linkTTL    time.Duration
}

// NewMinIOBlobStore constructs the durable-blob adapter.
func NewMinIOBlobStore(client *minio.Client, bucket string, publicRead bool, linkTTL time.Duration) *MinIOBlobStore {
	return &MinIOBlobStore{
		client:     client,
		bucket:     bucket,
		publicRead: publicRead,
		linkTTL:    linkTTL,
	}
}

// Kind reports the storage kind persisted with records written here.
func (s *MinIOBlobStore) Kind() StorageKind {
	return StorageDurableBlob
}

// Put stores the object and returns its durable URL. The caller guarantees
// key uniqueness; no retry is attempted here.
func (s *MinIOBlobStore) Put(ctx context.Context, objectName string, r io.Reader, size int64, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, objectName, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("%w: put object: %v", ErrStorageUnavailable, err)
	}

	if s.publicRead {
		return s.publicURL(objectName), nil
	}

	signed, err := s.client.PresignedGetObject(ctx, s.bucket, objectName, s.linkTTL, url.Values{})
	if err != nil {
		return "", fmt.Errorf("%w: presign object: %v", ErrStorageUnavailable, err)
	}
	return signed.String(), nil
}

func (s *MinIOBlobStore) publicURL(objectName string) string {
	u := *s.client.EndpointURL()
	u.Path = fmt.Sprintf("/%s/%s", s.bucket, objectName)
	return u.String()
}
