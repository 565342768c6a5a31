package share

import (
	"time"

	"github.com/google/uuid"
)

// StorageKind names where a file's bytes live. Retrieval branches only on
// the kind persisted with the record, never on the currently configured
// backend.
type StorageKind string

const (
	// StorageLocalEphemeral is the local-disk fallback; the path is not
	// guaranteed to survive across invocations in serverless deployments.
	StorageLocalEphemeral StorageKind = "local-ephemeral"
	// StorageDurableBlob means the bytes sit behind a durable object-store URL.
	StorageDurableBlob StorageKind = "durable-blob"
)

// FileRecord is the persisted metadata for one shared file. UUID is the
// public capability token; anyone holding it may download the file.
type FileRecord struct {
	UUID         uuid.UUID   `json:"uuid"`
	StoredName   string      `json:"-"`
	OriginalName string      `json:"original_name"`
	StorageKind  StorageKind `json:"storage_kind"`
	LocationRef  string      `json:"-"`
	ContentType  string      `json:"content_type"`
	SizeBytes    int64       `json:"size_bytes"`
	Sender       string      `json:"sender,omitempty"`
	Receiver     string      `json:"receiver,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
}

// Sent reports whether the one-time notification has been claimed.
func (r FileRecord) Sent() bool {
	return r.Sender != ""
}
