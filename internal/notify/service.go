package notify

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/inshare/goshare/internal/metrics"
	"github.com/inshare/goshare/internal/share"
)

var (
	// ErrValidation signals missing or malformed dispatcher input.
	ErrValidation = errors.New("all fields are required")
	// ErrMailTransport signals that the external mail send failed.
	ErrMailTransport = errors.New("mail transport failed")
)

type recordStore interface {
	GetByUUID(ctx context.Context, id uuid.UUID) (share.FileRecord, error)
	AttachSenderReceiver(ctx context.Context, id uuid.UUID, sender, receiver string) error
	ClearSenderReceiver(ctx context.Context, id uuid.UUID, sender string) error
}

// Service dispatches the one-time share notification.
type Service struct {
	repo    recordStore
	mailer  Mailer
	baseURL string
	linkTTL time.Duration
	log     *zap.Logger
}

// NewService constructs a notification dispatcher.
func NewService(repo recordStore, mailer Mailer, baseURL string, linkTTL time.Duration, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		repo:    repo,
		mailer:  mailer,
		baseURL: baseURL,
		linkTTL: linkTTL,
		log:     log,
	}
}

// Send claims the record's send-once guard and delivers the email.
//
// Ordering policy: the guard is claimed first via the store's conditional
// update, so under concurrency exactly one caller wins; the mail transport
// runs after the claim, and a transport failure rolls the claim back. A
// record is therefore never left marked sent when the caller was told the
// send failed.
func (s *Service) Send(ctx context.Context, id uuid.UUID, emailFrom, emailTo string) error {
	if !validAddress(emailFrom) || !validAddress(emailTo) {
		return ErrValidation
	}

	rec, err := s.repo.GetByUUID(ctx, id)
	if err != nil {
		return err
	}
	if rec.Sent() {
		return share.ErrAlreadySent
	}

	if err := s.repo.AttachSenderReceiver(ctx, id, emailFrom, emailTo); err != nil {
		return err
	}

	msg, err := renderMessage(emailFrom, emailTo, share.RetrievalURL(s.baseURL, id), rec.SizeBytes, s.linkTTL)
	if err != nil {
		s.rollbackClaim(ctx, id, emailFrom)
		return err
	}

	if err := s.mailer.Send(msg); err != nil {
		metrics.ObserveEmailSend("transport_error")
		s.log.Error("mail send failed",
			zap.String("uuid", id.String()),
			zap.Error(err),
		)
		s.rollbackClaim(ctx, id, emailFrom)
		return fmt.Errorf("%w: %v", ErrMailTransport, err)
	}

	metrics.ObserveEmailSend("success")
	return nil
}

// rollbackClaim releases the guard after a failed send. If the rollback
// itself fails the record stays claimed: duplicate mail is worse than a
// stuck sent flag.
func (s *Service) rollbackClaim(ctx context.Context, id uuid.UUID, sender string) {
	if err := s.repo.ClearSenderReceiver(ctx, id, sender); err != nil {
		s.log.Error("send-once rollback failed, record stays claimed",
			zap.String("uuid", id.String()),
			zap.Error(err),
		)
	}
}

func validAddress(addr string) bool {
	if addr == "" {
		return false
	}
	_, err := mail.ParseAddress(addr)
	return err == nil
}
