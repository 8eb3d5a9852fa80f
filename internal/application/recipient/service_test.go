package recipient

import (
	"context"
	"fmt"
	"testing"

	"github.com/bloodlink/api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRequestStore struct {
	mock.Mock
}

func (m *mockRequestStore) Put(ctx context.Context, br *domain.BloodRequest) error {
	args := m.Called(ctx, br)
	return args.Error(0)
}

func (m *mockRequestStore) Get(ctx context.Context, requestID string) (*domain.BloodRequest, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BloodRequest), args.Error(1)
}

func (m *mockRequestStore) ListByRequester(ctx context.Context, username string) ([]domain.BloodRequest, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BloodRequest), args.Error(1)
}

func (m *mockRequestStore) Close(ctx context.Context, requestID string) error {
	args := m.Called(ctx, requestID)
	return args.Error(0)
}

type mockDonorStore struct {
	mock.Mock
}

func (m *mockDonorStore) ListByBloodGroup(ctx context.Context, bloodGroup string) ([]domain.DonorProfile, error) {
	args := m.Called(ctx, bloodGroup)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DonorProfile), args.Error(1)
}

func TestCreateRequest(t *testing.T) {
	requests := new(mockRequestStore)
	requests.On("Put", mock.Anything, mock.MatchedBy(func(br *domain.BloodRequest) bool {
		return br.Requester == "rita" &&
			br.BloodGroup == "O-" &&
			br.Status == domain.RequestStatusOpen &&
			br.RequestID != ""
	})).Return(nil)

	svc := NewService(requests, new(mockDonorStore))
	br, err := svc.CreateRequest(context.Background(), "rita", domain.CreateBloodRequestRequest{
		BloodGroup: "O-",
		Units:      2,
		City:       "Pune",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.RequestStatusOpen, br.Status)
	requests.AssertExpectations(t)
}

func TestCloseRequest_Owner(t *testing.T) {
	requests := new(mockRequestStore)
	requests.On("Get", mock.Anything, "req-1").
		Return(&domain.BloodRequest{RequestID: "req-1", Requester: "rita", Status: domain.RequestStatusOpen}, nil)
	requests.On("Close", mock.Anything, "req-1").Return(nil)

	svc := NewService(requests, new(mockDonorStore))
	err := svc.CloseRequest(context.Background(), "rita", false, "req-1")

	require.NoError(t, err)
	requests.AssertExpectations(t)
}

func TestCloseRequest_NotOwner(t *testing.T) {
	requests := new(mockRequestStore)
	requests.On("Get", mock.Anything, "req-1").
		Return(&domain.BloodRequest{RequestID: "req-1", Requester: "rita", Status: domain.RequestStatusOpen}, nil)

	svc := NewService(requests, new(mockDonorStore))
	err := svc.CloseRequest(context.Background(), "mallory", false, "req-1")

	assert.ErrorIs(t, err, domain.ErrForbidden)
	requests.AssertNotCalled(t, "Close")
}

func TestCloseRequest_AdminClosesAny(t *testing.T) {
	requests := new(mockRequestStore)
	requests.On("Get", mock.Anything, "req-1").
		Return(&domain.BloodRequest{RequestID: "req-1", Requester: "rita", Status: domain.RequestStatusOpen}, nil)
	requests.On("Close", mock.Anything, "req-1").Return(nil)

	svc := NewService(requests, new(mockDonorStore))
	err := svc.CloseRequest(context.Background(), "root", true, "req-1")

	require.NoError(t, err)
}

func TestCloseRequest_AlreadyClosed(t *testing.T) {
	requests := new(mockRequestStore)
	requests.On("Get", mock.Anything, "req-1").
		Return(&domain.BloodRequest{RequestID: "req-1", Requester: "rita", Status: domain.RequestStatusClosed}, nil)
	requests.On("Close", mock.Anything, "req-1").
		Return(fmt.Errorf("request already closed: %w", domain.ErrConflict))

	svc := NewService(requests, new(mockDonorStore))
	err := svc.CloseRequest(context.Background(), "rita", false, "req-1")

	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestSearchDonors_RequiresBloodGroup(t *testing.T) {
	donors := new(mockDonorStore)

	svc := NewService(new(mockRequestStore), donors)
	_, err := svc.SearchDonors(context.Background(), "")

	assert.ErrorIs(t, err, domain.ErrValidation)
	donors.AssertNotCalled(t, "ListByBloodGroup")
}

func TestSearchDonors(t *testing.T) {
	donors := new(mockDonorStore)
	donors.On("ListByBloodGroup", mock.Anything, "AB+").
		Return([]domain.DonorProfile{{Username: "dave", BloodGroup: "AB+"}}, nil)

	svc := NewService(new(mockRequestStore), donors)
	got, err := svc.SearchDonors(context.Background(), "AB+")

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "dave", got[0].Username)
}
