package share

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const repoTimeout = 5 * time.Second

const pgUniqueViolation = "23505"

// Repository provides access to file record storage.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository builds a new file record repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a new file record. The identifier must be unique; a
// collision returns ErrDuplicateID.
func (r *Repository) Create(ctx context.Context, rec FileRecord) (FileRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	query := `
INSERT INTO files (uuid, stored_name, original_name, storage_kind, location_ref, content_type, size_bytes)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING uuid, stored_name, original_name, storage_kind, location_ref, content_type, size_bytes,
          COALESCE(sender, ''), COALESCE(receiver, ''), created_at;`

	row := r.pool.QueryRow(ctx, query,
		rec.UUID,
		rec.StoredName,
		rec.OriginalName,
		string(rec.StorageKind),
		rec.LocationRef,
		rec.ContentType,
		rec.SizeBytes,
	)

	stored, err := scanRecord(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return FileRecord{}, ErrDuplicateID
		}
		return FileRecord{}, fmt.Errorf("create file record: %w", err)
	}
	return stored, nil
}

// GetByUUID fetches a record by its public identifier.
func (r *Repository) GetByUUID(ctx context.Context, id uuid.UUID) (FileRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	query := `
SELECT uuid, stored_name, original_name, storage_kind, location_ref, content_type, size_bytes,
       COALESCE(sender, ''), COALESCE(receiver, ''), created_at
FROM files
WHERE uuid = $1;`

	rec, err := scanRecord(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return FileRecord{}, ErrNotFound
		}
		return FileRecord{}, fmt.Errorf("get file record: %w", err)
	}
	return rec, nil
}

// AttachSenderReceiver claims the send-once guard. The update is a single
// conditional statement so two concurrent claims cannot both succeed:
// only the row whose sender is still NULL is written.
func (r *Repository) AttachSenderReceiver(ctx context.Context, id uuid.UUID, sender, receiver string) error {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	tag, err := r.pool.Exec(ctx,
		`UPDATE files SET sender = $2, receiver = $3 WHERE uuid = $1 AND sender IS NULL;`,
		id, sender, receiver,
	)
	if err != nil {
		return fmt.Errorf("attach sender/receiver: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	// No row updated: either the record does not exist or it was already
	// claimed. Disambiguate with a plain lookup.
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM files WHERE uuid = $1);`, id).Scan(&exists); err != nil {
		return fmt.Errorf("check file record: %w", err)
	}
	if !exists {
		return ErrNotFound
	}
	return ErrAlreadySent
}

// ClearSenderReceiver rolls back a claim made by AttachSenderReceiver.
// The clear is guarded by the claimed sender so it can never undo a
// different caller's claim.
func (r *Repository) ClearSenderReceiver(ctx context.Context, id uuid.UUID, sender string) error {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	_, err := r.pool.Exec(ctx,
		`UPDATE files SET sender = NULL, receiver = NULL WHERE uuid = $1 AND sender = $2;`,
		id, sender,
	)
	if err != nil {
		return fmt.Errorf("clear sender/receiver: %w", err)
	}
	return nil
}

func scanRecord(row pgx.Row) (FileRecord, error) {
	var rec FileRecord
	var kind string
	err := row.Scan(
		&rec.UUID,
		&rec.StoredName,
		&rec.OriginalName,
		&kind,
		&rec.LocationRef,
		&rec.ContentType,
		&rec.SizeBytes,
		&rec.Sender,
		&rec.Receiver,
		&rec.CreatedAt,
	)
	if err != nil {
		return FileRecord{}, err
	}
	rec.StorageKind = StorageKind(kind)
	return rec, nil
}
