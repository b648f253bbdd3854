package user

import (
	"context"
	"errors"
	"log/slog"

	"github.com/frahmantamala/shift-scheduler/internal"
	"github.com/frahmantamala/shift-scheduler/internal/auth"
)

type RepositoryAPI interface {
	List(ctx context.Context) ([]*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	Create(ctx context.Context, u *User) error
	Delete(ctx context.Context, id int64) error
}

// DepartmentRegistry records department names seen on accounts.
type DepartmentRegistry interface {
	Ensure(ctx context.Context, name string) error
}

type Service struct {
	repo        RepositoryAPI
	policy      auth.Policy
	departments DepartmentRegistry
	bcryptCost  int
	logger      *slog.Logger
}

func NewService(repo RepositoryAPI, policy auth.Policy, bcryptCost int, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		policy:     policy,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

func (s *Service) WithDepartments(d DepartmentRegistry) *Service {
	s.departments = d
	return s
}

func (s *Service) List(ctx context.Context, actor auth.Principal) ([]*User, error) {
	if !s.policy.CanManageUsers(actor) {
		return nil, internal.ErrForbidden
	}
	users, err := s.repo.List(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list users", "error", err)
		return nil, err
	}
	return users, nil
}

func (s *Service) Create(ctx context.Context, actor auth.Principal, dto CreateUserDTO) (*User, error) {
	if !s.policy.CanManageUsers(actor) {
		return nil, internal.ErrForbidden
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByUsername(ctx, dto.Username)
	if err != nil && !errors.Is(err, internal.ErrUserNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, internal.ErrUsernameTaken
	}

	hash, err := auth.HashPassword(dto.Password, s.bcryptCost)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	u := &User{
		Username:     dto.Username,
		PasswordHash: hash,
		Role:         auth.Role(dto.Role),
		Email:        dto.Email,
		Department:   dto.Department,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	if s.departments != nil && u.Department != "" {
		if err := s.departments.Ensure(ctx, u.Department); err != nil {
			s.logger.WarnContext(ctx, "failed to register department", "department", u.Department, "error", err)
		}
	}

	s.logger.InfoContext(ctx, "user created", "user_id", u.ID, "username", u.Username, "role", u.Role, "created_by", actor.Username)
	return u, nil
}

// Delete removes the account; shifts and notifications go with it through
// the username foreign key.
func (s *Service) Delete(ctx context.Context, actor auth.Principal, id int64) error {
	if !s.policy.CanManageUsers(actor) {
		return internal.ErrForbidden
	}
	target, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.policy.AuthorizeUserDeletion(actor, target.Account()); err != nil {
		s.logger.WarnContext(ctx, "user deletion refused", "target", target.Username, "error", err)
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "user deleted", "user_id", id, "username", target.Username, "deleted_by", actor.Username)
	return nil
}

// DepartmentOf returns the department recorded on the user, or "" when the
// user is unknown.
func (s *Service) DepartmentOf(ctx context.Context, username string) (string, error) {
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, internal.ErrUserNotFound) {
			return "", nil
		}
		return "", err
	}
	return u.Department, nil
}

// EmailForUsername is used by the mail subscriber.
func (s *Service) EmailForUsername(ctx context.Context, username string) (string, error) {
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, internal.ErrUserNotFound) {
			return "", nil
		}
		return "", err
	}
	return u.Email, nil
}
