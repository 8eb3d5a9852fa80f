package recipient

import (
	"context"
	"fmt"
	"time"

	"github.com/bloodlink/api/internal/domain"
	"github.com/bloodlink/api/internal/pkg/id"
)

type Service interface {
	CreateRequest(ctx context.Context, username string, req domain.CreateBloodRequestRequest) (*domain.BloodRequest, error)
	ListOwnRequests(ctx context.Context, username string) ([]domain.BloodRequest, error)
	CloseRequest(ctx context.Context, username string, isAdmin bool, requestID string) error
	SearchDonors(ctx context.Context, bloodGroup string) ([]domain.DonorProfile, error)
}

type requestStore interface {
	Put(ctx context.Context, br *domain.BloodRequest) error
	Get(ctx context.Context, requestID string) (*domain.BloodRequest, error)
	ListByRequester(ctx context.Context, username string) ([]domain.BloodRequest, error)
	Close(ctx context.Context, requestID string) error
}

type donorStore interface {
	ListByBloodGroup(ctx context.Context, bloodGroup string) ([]domain.DonorProfile, error)
}

type service struct {
	requests requestStore
	donors   donorStore
}

func NewService(requests requestStore, donors donorStore) Service {
	return &service{requests: requests, donors: donors}
}

func (s *service) CreateRequest(ctx context.Context, username string, req domain.CreateBloodRequestRequest) (*domain.BloodRequest, error) {
	now := time.Now().UTC()
	br := &domain.BloodRequest{
		RequestID:  id.New(),
		Requester:  username,
		BloodGroup: req.BloodGroup,
		Units:      req.Units,
		City:       req.City,
		Status:     domain.RequestStatusOpen,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.requests.Put(ctx, br); err != nil {
		return nil, err
	}
	return br, nil
}

func (s *service) ListOwnRequests(ctx context.Context, username string) ([]domain.BloodRequest, error) {
	return s.requests.ListByRequester(ctx, username)
}

// CloseRequest closes an open request. Recipients may only close their own;
// admins may close any. Closing an already-closed request is a conflict.
func (s *service) CloseRequest(ctx context.Context, username string, isAdmin bool, requestID string) error {
	br, err := s.requests.Get(ctx, requestID)
	if err != nil {
		return err
	}
	if !isAdmin && br.Requester != username {
		return fmt.Errorf("not your request: %w", domain.ErrForbidden)
	}
	return s.requests.Close(ctx, requestID)
}

func (s *service) SearchDonors(ctx context.Context, bloodGroup string) ([]domain.DonorProfile, error) {
	if bloodGroup == "" {
		return nil, fmt.Errorf("blood_group is required: %w", domain.ErrValidation)
	}
	return s.donors.ListByBloodGroup(ctx, bloodGroup)
}
