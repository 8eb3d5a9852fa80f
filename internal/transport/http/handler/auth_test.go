package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bloodlink/api/internal/application/auth"
	"github.com/bloodlink/api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockAuthService struct {
	mock.Mock
}

func (m *mockAuthService) Register(ctx context.Context, req domain.RegisterRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *mockAuthService) VerifyOTP(ctx context.Context, req domain.VerifyOTPRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *mockAuthService) ResendOTP(ctx context.Context, req domain.ResendOTPRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *mockAuthService) Login(ctx context.Context, req domain.LoginRequest) (*auth.LoginResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.LoginResult), args.Error(1)
}

func postJSON(t *testing.T, h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var env MessageEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env.Message
}

func TestRegister_Created(t *testing.T) {
	svc := new(mockAuthService)
	svc.On("Register", mock.Anything, mock.MatchedBy(func(req domain.RegisterRequest) bool {
		return req.Username == "alice" && req.Email == "alice@example.com"
	})).Return(nil)

	h := NewAuthHandler(svc)
	rec := postJSON(t, h.Register, `{"username":"alice","password":"secret","email":"alice@example.com"}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "OTP sent", decodeMessage(t, rec))
	svc.AssertExpectations(t)
}

func TestRegister_MalformedBody(t *testing.T) {
	svc := new(mockAuthService)
	h := NewAuthHandler(svc)

	rec := postJSON(t, h.Register, `{"username":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "Register")
}

func TestRegister_MissingEmail(t *testing.T) {
	svc := new(mockAuthService)
	h := NewAuthHandler(svc)

	rec := postJSON(t, h.Register, `{"username":"alice","password":"secret"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "Register")
}

func TestRegister_UsernameTaken(t *testing.T) {
	svc := new(mockAuthService)
	svc.On("Register", mock.Anything, mock.Anything).
		Return(fmt.Errorf("username already exists: %w", domain.ErrConflict))

	h := NewAuthHandler(svc)
	rec := postJSON(t, h.Register, `{"username":"alice","password":"secret","email":"alice@example.com"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeMessage(t, rec), "username already exists")
}

func TestRegister_StoreFailure(t *testing.T) {
	svc := new(mockAuthService)
	svc.On("Register", mock.Anything, mock.Anything).
		Return(fmt.Errorf("dynamodb: connection refused"))

	h := NewAuthHandler(svc)
	rec := postJSON(t, h.Register, `{"username":"alice","password":"secret","email":"alice@example.com"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	// Internals must not leak to the client.
	assert.Equal(t, "Server error", decodeMessage(t, rec))
}

func TestVerifyOTP_Success(t *testing.T) {
	svc := new(mockAuthService)
	svc.On("VerifyOTP", mock.Anything, domain.VerifyOTPRequest{Username: "alice", OTP: "123456"}).
		Return(nil)

	h := NewAuthHandler(svc)
	rec := postJSON(t, h.VerifyOTP, `{"username":"alice","otp":"123456"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OTP verified successfully", decodeMessage(t, rec))
}

func TestVerifyOTP_WrongCodeIs400(t *testing.T) {
	svc := new(mockAuthService)
	svc.On("VerifyOTP", mock.Anything, mock.Anything).
		Return(fmt.Errorf("invalid or expired otp: %w", domain.ErrInvalidCredential))

	h := NewAuthHandler(svc)
	rec := postJSON(t, h.VerifyOTP, `{"username":"alice","otp":"000000"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid or expired OTP", decodeMessage(t, rec))
}

func TestVerifyOTP_UnknownUser(t *testing.T) {
	svc := new(mockAuthService)
	svc.On("VerifyOTP", mock.Anything, mock.Anything).
		Return(fmt.Errorf("user not found: %w", domain.ErrNotFound))

	h := NewAuthHandler(svc)
	rec := postJSON(t, h.VerifyOTP, `{"username":"ghost","otp":"123456"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestVerifyOTP_AlreadyVerified(t *testing.T) {
	svc := new(mockAuthService)
	svc.On("VerifyOTP", mock.Anything, mock.Anything).
		Return(fmt.Errorf("account already verified: %w", domain.ErrConflict))

	h := NewAuthHandler(svc)
	rec := postJSON(t, h.VerifyOTP, `{"username":"alice","otp":"123456"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeMessage(t, rec), "already verified")
}

func TestResendOTP_Success(t *testing.T) {
	svc := new(mockAuthService)
	svc.On("ResendOTP", mock.Anything, domain.ResendOTPRequest{Username: "alice", Email: "alice@example.com"}).
		Return(nil)

	h := NewAuthHandler(svc)
	rec := postJSON(t, h.ResendOTP, `{"username":"alice","email":"alice@example.com"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OTP resent successfully", decodeMessage(t, rec))
}

func TestResendOTP_EmailMismatch(t *testing.T) {
	svc := new(mockAuthService)
	svc.On("ResendOTP", mock.Anything, mock.Anything).
		Return(fmt.Errorf("user not found: %w", domain.ErrNotFound))

	h := NewAuthHandler(svc)
	rec := postJSON(t, h.ResendOTP, `{"username":"alice","email":"other@example.com"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLogin_Success(t *testing.T) {
	svc := new(mockAuthService)
	svc.On("Login", mock.Anything, domain.LoginRequest{Username: "alice", Password: "secret", LoginAs: "user"}).
		Return(&auth.LoginResult{Token: "tok-abc", Role: domain.RoleDonor, Username: "alice"}, nil)

	h := NewAuthHandler(svc)
	rec := postJSON(t, h.Login, `{"username":"alice","password":"secret","loginAs":"user"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var env LoginEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "Login successful", env.Message)
	assert.Equal(t, "tok-abc", env.Token)
	assert.Equal(t, domain.RoleDonor, env.Role)
	assert.Equal(t, "alice", env.Username)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := new(mockAuthService)
	svc.On("Login", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("invalid password: %w", domain.ErrInvalidCredential))

	h := NewAuthHandler(svc)
	rec := postJSON(t, h.Login, `{"username":"alice","password":"wrong","loginAs":"user"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogin_RoleGate(t *testing.T) {
	svc := new(mockAuthService)
	svc.On("Login", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("not an admin account: %w", domain.ErrForbidden))

	h := NewAuthHandler(svc)
	rec := postJSON(t, h.Login, `{"username":"alice","password":"secret","loginAs":"admin"}`)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestLogin_DisabledAccount(t *testing.T) {
	svc := new(mockAuthService)
	svc.On("Login", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("account disabled: %w", domain.ErrForbidden))

	h := NewAuthHandler(svc)
	rec := postJSON(t, h.Login, `{"username":"alice","password":"secret","loginAs":"user"}`)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestLogin_InvalidLoginAs(t *testing.T) {
	svc := new(mockAuthService)
	h := NewAuthHandler(svc)

	rec := postJSON(t, h.Login, `{"username":"alice","password":"secret","loginAs":"superuser"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "Login")
}
