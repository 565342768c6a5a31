package share

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/inshare/goshare/internal/metrics"
)

type recordStore interface {
	Create(ctx context.Context, rec FileRecord) (FileRecord, error)
	GetByUUID(ctx context.Context, id uuid.UUID) (FileRecord, error)
}

type blobStore interface {
	Kind() StorageKind
	Put(ctx context.Context, objectName string, r io.Reader, size int64, contentType string) (string, error)
}

// Service runs the upload pipeline and resolves retrieval requests.
type Service struct {
	repo        recordStore
	blobs       blobStore
	spoolDir    string
	maxFileSize int64
	log         *zap.Logger
}

// NewService constructs a share service.
func NewService(repo recordStore, blobs blobStore, spoolDir string, maxFileSize int64, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		repo:        repo,
		blobs:       blobs,
		spoolDir:    spoolDir,
		maxFileSize: maxFileSize,
		log:         log,
	}
}

// Upload spools the payload, pushes it to blob storage and persists the
// file record. The record is created only after the bytes are durably
// stored; a metadata failure after a successful blob write leaves an
// orphaned object, never a dangling record.
func (s *Service) Upload(ctx context.Context, fileHeader *multipart.FileHeader) (FileRecord, error) {
	if fileHeader == nil {
		return FileRecord{}, ErrMissingFile
	}
	if fileHeader.Size > s.maxFileSize {
		return FileRecord{}, ErrFileTooLarge
	}

	src, err := fileHeader.Open()
	if err != nil {
		return FileRecord{}, fmt.Errorf("open upload file: %w", err)
	}
	defer src.Close()

	spool, err := os.CreateTemp(s.spoolDir, "goshare-upload-*")
	if err != nil {
		return FileRecord{}, fmt.Errorf("create spool file: %w", err)
	}
	defer func() {
		spool.Close()
		os.Remove(spool.Name())
	}()

	// Spool the stream and enforce the ceiling authoritatively: the
	// declared size is advisory, only counted bytes are trusted.
	written, err := io.Copy(spool, io.LimitReader(src, s.maxFileSize+1))
	if err != nil {
		return FileRecord{}, fmt.Errorf("spool upload: %w", err)
	}
	if written > s.maxFileSize {
		return FileRecord{}, ErrFileTooLarge
	}
	if written == 0 {
		return FileRecord{}, ErrEmptyFile
	}
	if _, err := spool.Seek(0, io.SeekStart); err != nil {
		return FileRecord{}, fmt.Errorf("rewind spool: %w", err)
	}

	id := uuid.New()
	storedName := generateStoredName(fileHeader.Filename)
	// Keys are namespaced by identifier; the public token itself never
	// exposes the stored name.
	objectName := fmt.Sprintf("%s/%s", id.String(), storedName)
	contentType := detectContentType(fileHeader)

	locationRef, err := s.blobs.Put(ctx, objectName, spool, written, contentType)
	if err != nil {
		return FileRecord{}, err
	}

	rec := FileRecord{
		UUID:         id,
		StoredName:   storedName,
		OriginalName: sanitizeFilename(fileHeader.Filename),
		StorageKind:  s.blobs.Kind(),
		LocationRef:  locationRef,
		ContentType:  contentType,
		SizeBytes:    written,
	}

	stored, err := s.repo.Create(ctx, rec)
	if err != nil {
		// The blob outlives the failed record: garbage, not danger.
		s.log.Error("file record not persisted, blob orphaned",
			zap.String("uuid", id.String()),
			zap.String("object", objectName),
			zap.Error(err),
		)
		return FileRecord{}, err
	}

	metrics.ObserveUpload(stored.SizeBytes)
	return stored, nil
}

// Resolve looks up a record for retrieval. For durable-blob records the
// returned reader is nil and the caller redirects to the record's
// location. For local-ephemeral records the bytes are opened for
// streaming; a missing path maps to ErrRetrieval, the expected failure
// mode when local disk did not survive the deployment.
func (s *Service) Resolve(ctx context.Context, id uuid.UUID) (FileRecord, io.ReadCloser, error) {
	rec, err := s.repo.GetByUUID(ctx, id)
	if err != nil {
		return FileRecord{}, nil, err
	}

	if rec.StorageKind == StorageDurableBlob {
		return rec, nil, nil
	}

	f, err := os.Open(rec.LocationRef)
	if err != nil {
		s.log.Error("local file unreachable",
			zap.String("uuid", rec.UUID.String()),
			zap.Error(err),
		)
		return FileRecord{}, nil, fmt.Errorf("%w: %v", ErrRetrieval, err)
	}
	return rec, f, nil
}

func generateStoredName(original string) string {
	ext := filepath.Ext(filepath.Base(original))
	if len(ext) > 16 {
		ext = ""
	}
	return fmt.Sprintf("%d-%09d%s", time.Now().UnixMilli(), rand.Int64N(1_000_000_000), ext)
}

func detectContentType(fileHeader *multipart.FileHeader) string {
	if ct := fileHeader.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

func sanitizeFilename(name string) string {
	name = strings.TrimSpace(filepath.Base(name))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "upload"
	}
	return name
}
