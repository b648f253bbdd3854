package shift

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/shift-scheduler/internal"
	"github.com/frahmantamala/shift-scheduler/internal/auth"
	"github.com/frahmantamala/shift-scheduler/internal/core/events"
	"github.com/frahmantamala/shift-scheduler/internal/notification"
	"github.com/frahmantamala/shift-scheduler/internal/store"
)

type RepositoryAPI interface {
	CreateBatch(ctx context.Context, shifts []*Shift) error
	GetByID(ctx context.Context, id int64) (*Shift, error)
	List(ctx context.Context) ([]*Shift, error)
	ListByUsername(ctx context.Context, username string) ([]*Shift, error)
	ListBetween(ctx context.Context, from, to string) ([]*Shift, error)
	// Transition moves a pending shift to next and reports false when the
	// shift was no longer pending.
	Transition(ctx context.Context, id int64, next Status, actor string, at time.Time) (bool, error)
	Delete(ctx context.Context, id int64) error
}

type Searcher interface {
	Search(ctx context.Context, q SearchQuery) ([]*Shift, error)
}

type NoticeWriter interface {
	Create(ctx context.Context, n *notification.Notification) error
}

type OwnerDirectory interface {
	DepartmentOf(ctx context.Context, username string) (string, error)
}

type Dependencies struct {
	Repo       RepositoryAPI
	Searcher   Searcher
	Transactor store.Transactor
	Notices    NoticeWriter
	Owners     OwnerDirectory
	Policy     auth.Policy
	Events     events.Publisher
	Logger     *slog.Logger
}

type Service struct {
	repo     RepositoryAPI
	searcher Searcher
	tx       store.Transactor
	notices  NoticeWriter
	owners   OwnerDirectory
	policy   auth.Policy
	events   events.Publisher
	logger   *slog.Logger
	now      func() time.Time
}

func NewService(deps Dependencies) *Service {
	return &Service{
		repo:     deps.Repo,
		searcher: deps.Searcher,
		tx:       deps.Transactor,
		notices:  deps.Notices,
		owners:   deps.Owners,
		policy:   deps.Policy,
		events:   deps.Events,
		logger:   deps.Logger,
		now:      time.Now,
	}
}

// Create inserts the base shift and its recurrences as one batch. Staff
// batches also produce a single approval request for managers.
func (s *Service) Create(ctx context.Context, actor auth.Principal, dto CreateShiftDTO) ([]*Shift, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	dates, err := RecurrenceDates(dto.Date, dto.RepeatOption)
	if err != nil {
		return nil, err
	}

	department := dto.Department
	if department == "" {
		// Resolved before the transaction opens so it never competes with it
		// for a connection.
		department, err = s.owners.DepartmentOf(ctx, actor.Username)
		if err != nil {
			return nil, err
		}
	}

	status := StatusPending
	autoApproved := s.policy.AutoApproves(actor)
	if autoApproved {
		status = StatusApproved
	}

	batch := make([]*Shift, 0, len(dates))
	for _, date := range dates {
		batch = append(batch, &Shift{
			Username:   actor.Username,
			Date:       date,
			StartTime:  dto.StartTime,
			EndTime:    dto.EndTime,
			Notes:      dto.Notes,
			Department: department,
			Status:     status,
		})
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.CreateBatch(ctx, batch); err != nil {
			return err
		}
		if autoApproved {
			return nil
		}
		return s.notices.Create(ctx, &notification.Notification{
			Type:       notification.TypeApprovalNeeded,
			Username:   actor.Username,
			TargetRole: string(auth.RoleManager),
			Date:       dto.Date,
			Message:    fmt.Sprintf("%sからの新しいシフト申請があります (%s: %s-%s)", actor.Username, dto.Date, dto.StartTime, dto.EndTime),
		})
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to create shifts", "username", actor.Username, "count", len(batch), "error", err)
		return nil, err
	}

	s.logger.InfoContext(ctx, "shifts created",
		"username", actor.Username,
		"count", len(batch),
		"repeat", dto.RepeatOption,
		"status", status)
	return batch, nil
}

func (s *Service) Approve(ctx context.Context, actor auth.Principal, id int64) error {
	if !s.policy.CanApproveShifts(actor) {
		return internal.ErrForbidden
	}
	return s.review(ctx, actor, id, StatusApproved)
}

func (s *Service) Reject(ctx context.Context, actor auth.Principal, id int64) error {
	if !s.policy.CanRejectShifts(actor) {
		return internal.ErrForbidden
	}
	return s.review(ctx, actor, id, StatusRejected)
}

var reviewOutcomes = map[Status]struct {
	notice  notification.Type
	event   string
	message string
}{
	StatusApproved: {notification.TypeShiftApproved, events.EventTypeShiftApproved, "シフトが承認されました"},
	StatusRejected: {notification.TypeShiftRejected, events.EventTypeShiftRejected, "シフトが却下されました"},
}

func (s *Service) review(ctx context.Context, actor auth.Principal, id int64, next Status) error {
	outcome := reviewOutcomes[next]
	var reviewed *Shift

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		sh, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !sh.Status.CanTransitionTo(next) {
			return internal.ErrInvalidShiftStatus
		}
		ok, err := s.repo.Transition(ctx, id, next, actor.Username, s.now())
		if err != nil {
			return err
		}
		if !ok {
			// Lost the race against a concurrent decision.
			return internal.ErrInvalidShiftStatus
		}
		reviewed = sh
		return s.notices.Create(ctx, &notification.Notification{
			Type:       outcome.notice,
			Username:   sh.Username,
			TargetRole: sh.Username,
			Date:       sh.Date,
			Message:    fmt.Sprintf("%s (%s)", outcome.message, sh.Window()),
		})
	})
	if err != nil {
		s.logger.WarnContext(ctx, "shift review failed", "shift_id", id, "decision", next, "error", err)
		return err
	}

	s.logger.InfoContext(ctx, "shift reviewed", "shift_id", id, "decision", next, "owner", reviewed.Username, "reviewer", actor.Username)
	s.publish(ctx, outcome.event, reviewed, actor)
	return nil
}

// Delete removes a shift. A manager removing someone else's shift tells the
// owner about it.
func (s *Service) Delete(ctx context.Context, actor auth.Principal, id int64) error {
	var (
		deleted    *Shift
		onBehalfOf bool
	)

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		sh, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !s.policy.CanDeleteShift(actor, sh.Username) {
			return internal.ErrCannotDeleteShift
		}
		if err := s.repo.Delete(ctx, id); err != nil {
			return err
		}
		deleted = sh
		onBehalfOf = sh.Username != actor.Username
		if !onBehalfOf {
			return nil
		}
		return s.notices.Create(ctx, &notification.Notification{
			Type:       notification.TypeShiftDeleted,
			Username:   sh.Username,
			TargetRole: sh.Username,
			Date:       sh.Date,
			Message:    fmt.Sprintf("管理者によりシフトが削除されました (%s)", sh.Window()),
		})
	})
	if err != nil {
		s.logger.WarnContext(ctx, "shift deletion failed", "shift_id", id, "error", err)
		return err
	}

	s.logger.InfoContext(ctx, "shift deleted", "shift_id", id, "owner", deleted.Username, "deleted_by", actor.Username)
	if onBehalfOf {
		s.publish(ctx, events.EventTypeShiftDeleted, deleted, actor)
	}
	return nil
}

// List returns every shift for reviewers and the caller's own otherwise.
func (s *Service) List(ctx context.Context, actor auth.Principal) ([]*Shift, error) {
	if s.policy.CanViewAllShifts(actor) {
		return s.repo.List(ctx)
	}
	return s.repo.ListByUsername(ctx, actor.Username)
}

func (s *Service) ListBetween(ctx context.Context, from, to string) ([]*Shift, error) {
	return s.repo.ListBetween(ctx, from, to)
}

func (s *Service) Search(ctx context.Context, actor auth.Principal, q SearchQuery) ([]*Shift, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	found, err := s.searcher.Search(ctx, q)
	if err != nil {
		s.logger.ErrorContext(ctx, "shift search failed", "type", q.Type, "error", err)
		return nil, err
	}
	if s.policy.CanViewAllShifts(actor) {
		return found, nil
	}
	own := make([]*Shift, 0, len(found))
	for _, sh := range found {
		if sh.Username == actor.Username {
			own = append(own, sh)
		}
	}
	return own, nil
}

func (s *Service) publish(ctx context.Context, eventType string, sh *Shift, actor auth.Principal) {
	if s.events == nil {
		return
	}
	ev := events.NewShiftReviewedEvent(eventType, sh.ID, sh.Username, actor.Username, sh.Date, sh.StartTime, sh.EndTime)
	if err := s.events.Publish(ctx, ev); err != nil {
		s.logger.WarnContext(ctx, "failed to publish shift event", "event_type", eventType, "shift_id", sh.ID, "error", err)
	}
}
