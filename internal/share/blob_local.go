package share

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalBlobStore keeps uploaded bytes on the local filesystem. It is the
// deployment-mode fallback: paths written here do not survive host
// recycling, which retrieval reports as a 500 rather than masking.
type LocalBlobStore struct {
	dir string
}

// NewLocalBlobStore creates the uploads directory if needed.
func NewLocalBlobStore(dir string) (*LocalBlobStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &LocalBlobStore{dir: dir}, nil
}

// Kind reports the storage kind persisted with records written here.
func (s *LocalBlobStore) Kind() StorageKind {
	return StorageLocalEphemeral
}

// Put writes the file under the uploads directory and returns its path.
// Object keys are flattened: the key's directory part becomes a prefix of
// the file name, keeping the uploads dir flat like the original layout.
func (s *LocalBlobStore) Put(ctx context.Context, objectName string, r io.Reader, size int64, contentType string) (string, error) {
	name := filepath.Base(filepath.Dir(objectName)) + "-" + filepath.Base(objectName)
	path := filepath.Join(s.dir, name)

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("%w: create local object: %v", ErrStorageUnavailable, err)
	}

	if _, err := io.Copy(dst, r); err != nil {
		dst.Close()
		os.Remove(path)
		return "", fmt.Errorf("%w: write local object: %v", ErrStorageUnavailable, err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("%w: close local object: %v", ErrStorageUnavailable, err)
	}

	return path, nil
}
