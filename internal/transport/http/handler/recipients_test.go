package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bloodlink/api/internal/application/recipient"
	"github.com/bloodlink/api/internal/domain"
	jwtinfra "github.com/bloodlink/api/internal/infrastructure/jwt"
	"github.com/bloodlink/api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRecipientService struct {
	mock.Mock
}

func (m *mockRecipientService) CreateRequest(ctx context.Context, username string, req domain.CreateBloodRequestRequest) (*domain.BloodRequest, error) {
	args := m.Called(ctx, username, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BloodRequest), args.Error(1)
}

func (m *mockRecipientService) ListOwnRequests(ctx context.Context, username string) ([]domain.BloodRequest, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BloodRequest), args.Error(1)
}

func (m *mockRecipientService) CloseRequest(ctx context.Context, username string, isAdmin bool, requestID string) error {
	args := m.Called(ctx, username, isAdmin, requestID)
	return args.Error(0)
}

func (m *mockRecipientService) SearchDonors(ctx context.Context, bloodGroup string) ([]domain.DonorProfile, error) {
	args := m.Called(ctx, bloodGroup)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DonorProfile), args.Error(1)
}

// staticVerifier accepts any bearer token and returns fixed claims.
type staticVerifier struct {
	claims *jwtinfra.Claims
}

func (v *staticVerifier) Verify(string) (*jwtinfra.Claims, error) { return v.claims, nil }

func recipientRouter(svc recipient.Service, claims *jwtinfra.Claims) http.Handler {
	h := NewRecipientHandler(svc)
	r := chi.NewRouter()
	r.Use(middleware.Auth(&staticVerifier{claims: claims}))
	r.Post("/requests/{id}/close", h.CloseRequest)
	return r
}

func closeRequest(t *testing.T, router http.Handler, id string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/requests/"+id+"/close", nil)
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCloseRequest_Handler(t *testing.T) {
	svc := new(mockRecipientService)
	svc.On("CloseRequest", mock.Anything, "rita", false, "req-1").Return(nil)

	claims := &jwtinfra.Claims{Username: "rita", Role: domain.RoleRecipient}
	rec := closeRequest(t, recipientRouter(svc, claims), "req-1")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Request closed", decodeMessage(t, rec))
	svc.AssertExpectations(t)
}

func TestCloseRequest_SecondCloseIsConflict(t *testing.T) {
	svc := new(mockRecipientService)
	svc.On("CloseRequest", mock.Anything, "rita", false, "req-1").
		Return(fmt.Errorf("request already closed: %w", domain.ErrConflict))

	claims := &jwtinfra.Claims{Username: "rita", Role: domain.RoleRecipient}
	rec := closeRequest(t, recipientRouter(svc, claims), "req-1")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeMessage(t, rec), "already closed")
}

func TestCloseRequest_AdminFlagFromClaims(t *testing.T) {
	svc := new(mockRecipientService)
	svc.On("CloseRequest", mock.Anything, "root", true, "req-1").Return(nil)

	claims := &jwtinfra.Claims{Username: "root", Role: domain.RoleAdmin}
	rec := closeRequest(t, recipientRouter(svc, claims), "req-1")

	require.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}
