package template

import (
	"context"
	"log/slog"
)

type RepositoryAPI interface {
	GetAll(ctx context.Context) ([]*Template, error)
	GetByID(ctx context.Context, id int64) (*Template, error)
	Create(ctx context.Context, t *Template) error
	Update(ctx context.Context, t *Template) error
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) GetAll(ctx context.Context) ([]*Template, error) {
	templates, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to get templates from repository", "error", err)
		return nil, err
	}
	s.logger.DebugContext(ctx, "retrieved templates", "count", len(templates))
	return templates, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Template, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, dto TemplateDTO) (*Template, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	t := &Template{Name: dto.Name, StartTime: dto.StartTime, EndTime: dto.EndTime}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "template created", "template_id", t.ID, "name", t.Name)
	return t, nil
}

func (s *Service) Update(ctx context.Context, id int64, dto TemplateDTO) (*Template, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Name, t.StartTime, t.EndTime = dto.Name, dto.StartTime, dto.EndTime
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "template updated", "template_id", id)
	return t, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "template deleted", "template_id", id)
	return nil
}
