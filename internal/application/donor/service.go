package donor

import (
	"context"
	"errors"
	"time"

	"github.com/bloodlink/api/internal/domain"
)

type Service interface {
	UpsertProfile(ctx context.Context, username, userID string, req domain.UpsertDonorProfileRequest) (*domain.DonorProfile, error)
	GetProfile(ctx context.Context, username string) (*domain.DonorProfile, error)
	ListOpenRequests(ctx context.Context, bloodGroup string) ([]domain.BloodRequest, error)
}

type donorStore interface {
	Put(ctx context.Context, p *domain.DonorProfile) error
	Get(ctx context.Context, username string) (*domain.DonorProfile, error)
}

type requestStore interface {
	ListOpen(ctx context.Context, bloodGroup string) ([]domain.BloodRequest, error)
}

type service struct {
	donors   donorStore
	requests requestStore
}

func NewService(donors donorStore, requests requestStore) Service {
	return &service{donors: donors, requests: requests}
}

// UpsertProfile creates or replaces the caller's donor profile. Availability
// defaults to true on first creation and is otherwise carried over unless the
// request sets it.
func (s *service) UpsertProfile(ctx context.Context, username, userID string, req domain.UpsertDonorProfileRequest) (*domain.DonorProfile, error) {
	now := time.Now().UTC()
	p := &domain.DonorProfile{
		Username:   username,
		UserID:     userID,
		BloodGroup: req.BloodGroup,
		City:       req.City,
		Available:  true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if existing, err := s.donors.Get(ctx, username); err == nil {
		p.CreatedAt = existing.CreatedAt
		p.Available = existing.Available
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if req.Available != nil {
		p.Available = *req.Available
	}
	if err := s.donors.Put(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) GetProfile(ctx context.Context, username string) (*domain.DonorProfile, error) {
	return s.donors.Get(ctx, username)
}

func (s *service) ListOpenRequests(ctx context.Context, bloodGroup string) ([]domain.BloodRequest, error) {
	return s.requests.ListOpen(ctx, bloodGroup)
}
