package share

import "errors"

var (
	// ErrMissingFile signals an upload request without exactly one file payload.
	ErrMissingFile = errors.New("missing file payload")
	// ErrEmptyFile signals a zero-byte payload.
	ErrEmptyFile = errors.New("empty file payload")
	// ErrFileTooLarge signals that the upload exceeds the configured ceiling.
	ErrFileTooLarge = errors.New("file too large")
	// ErrNotFound signals that no record matches the identifier.
	ErrNotFound = errors.New("file not found")
	// ErrDuplicateID signals an identifier collision on record creation.
	ErrDuplicateID = errors.New("duplicate identifier")
	// ErrAlreadySent signals that the send-once guard has already been claimed.
	ErrAlreadySent = errors.New("email already sent")
	// ErrStorageUnavailable signals that the blob backend rejected the write.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrRetrieval signals that stored bytes could not be read back.
	ErrRetrieval = errors.New("stored file unreachable")
)
