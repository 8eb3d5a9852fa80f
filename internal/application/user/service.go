package user

import (
	"context"

	"github.com/bloodlink/api/internal/domain"
)

// Service is the admin-facing user administration surface.
type Service interface {
	List(ctx context.Context, limit int, cursor string) ([]domain.User, string, error)
	Get(ctx context.Context, username string) (*domain.User, error)
	Disable(ctx context.Context, username string) error
}

type userStore interface {
	ScanPage(ctx context.Context, limit int32, cursor string) ([]domain.User, string, error)
	Get(ctx context.Context, username string) (*domain.User, error)
	Disable(ctx context.Context, username string) error
}

type service struct {
	repo userStore
}

func NewService(repo userStore) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context, limit int, cursor string) ([]domain.User, string, error) {
	if limit < 1 {
		limit = 50
	}
	return s.repo.ScanPage(ctx, int32(limit), cursor)
}

func (s *service) Get(ctx context.Context, username string) (*domain.User, error) {
	return s.repo.Get(ctx, username)
}

func (s *service) Disable(ctx context.Context, username string) error {
	if _, err := s.repo.Get(ctx, username); err != nil {
		return err
	}
	return s.repo.Disable(ctx, username)
}
