package notification

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/shift-scheduler/internal"
	"github.com/frahmantamala/shift-scheduler/internal/auth"
)

type RepositoryAPI interface {
	Create(ctx context.Context, n *Notification) error
	ListVisible(ctx context.Context, username, role string) ([]*Notification, error)
	// MarkRead reports false when no visible notification has the id.
	MarkRead(ctx context.Context, id int64, username, role string) (bool, error)
	MarkAllRead(ctx context.Context, username, role string) (int64, error)
	DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type Service struct {
	repo      RepositoryAPI
	retention time.Duration
	now       func() time.Time
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, retention time.Duration, logger *slog.Logger) *Service {
	if retention <= 0 {
		retention = internal.DefaultRetention
	}
	return &Service{
		repo:      repo,
		retention: retention,
		now:       time.Now,
		logger:    logger,
	}
}

// WithClock replaces the time source used for retention cutoffs.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Create stores n unread. It joins a transaction carried by ctx.
func (s *Service) Create(ctx context.Context, n *Notification) error {
	n.IsRead = false
	if err := s.repo.Create(ctx, n); err != nil {
		s.logger.ErrorContext(ctx, "failed to create notification", "type", n.Type, "username", n.Username, "error", err)
		return err
	}
	return nil
}

func (s *Service) List(ctx context.Context, p auth.Principal) ([]*Notification, error) {
	list, err := s.repo.ListVisible(ctx, p.Username, string(p.Role))
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list notifications", "error", err)
		return nil, err
	}
	return list, nil
}

func (s *Service) MarkRead(ctx context.Context, p auth.Principal, id int64) error {
	ok, err := s.repo.MarkRead(ctx, id, p.Username, string(p.Role))
	if err != nil {
		return err
	}
	if !ok {
		return internal.ErrNotificationNotFound
	}
	return nil
}

func (s *Service) MarkAllRead(ctx context.Context, p auth.Principal) (int64, error) {
	n, err := s.repo.MarkAllRead(ctx, p.Username, string(p.Role))
	if err != nil {
		return 0, err
	}
	s.logger.DebugContext(ctx, "notifications marked read", "count", n)
	return n, nil
}

// Purge deletes read notifications older than the retention window.
// Unread notifications are kept regardless of age.
func (s *Service) Purge(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-s.retention)
	n, err := s.repo.DeleteReadBefore(ctx, cutoff)
	if err != nil {
		s.logger.ErrorContext(ctx, "notification purge failed", "error", err)
		return 0, err
	}
	s.logger.InfoContext(ctx, "notification purge finished", "deleted", n, "cutoff", cutoff.Format(time.RFC3339))
	return n, nil
}
