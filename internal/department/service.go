package department

import (
	"context"
	"log/slog"
	"time"
)

const cacheKey = "departments:all"

type RepositoryAPI interface {
	Names(ctx context.Context) ([]string, error)
	Ensure(ctx context.Context, name string) error
}

// Cache stores the department name list. A miss is (nil, false, nil).
type Cache interface {
	Get(ctx context.Context, key string) ([]string, bool, error)
	Set(ctx context.Context, key string, names []string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type Service struct {
	repo   RepositoryAPI
	cache  Cache
	ttl    time.Duration
	logger *slog.Logger
}

// NewService wires an optional cache; pass nil to always read the store.
func NewService(repo RepositoryAPI, cache Cache, ttl time.Duration, logger *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, ttl: ttl, logger: logger}
}

func (s *Service) List(ctx context.Context) ([]string, error) {
	if s.cache != nil {
		names, ok, err := s.cache.Get(ctx, cacheKey)
		switch {
		case err != nil:
			s.logger.WarnContext(ctx, "department cache read failed", "error", err)
		case ok:
			return names, nil
		}
	}

	names, err := s.repo.Names(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list departments", "error", err)
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, names, s.ttl); err != nil {
			s.logger.WarnContext(ctx, "department cache write failed", "error", err)
		}
	}
	return names, nil
}

// Ensure adds name when missing and drops the cached list.
func (s *Service) Ensure(ctx context.Context, name string) error {
	if err := s.repo.Ensure(ctx, name); err != nil {
		return err
	}
	if s.cache != nil {
		if err := s.cache.Delete(ctx, cacheKey); err != nil {
			s.logger.WarnContext(ctx, "department cache invalidation failed", "error", err)
		}
	}
	return nil
}
