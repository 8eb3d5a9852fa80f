package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bloodlink/api/internal/domain"
	"github.com/bloodlink/api/internal/pkg/id"
	"github.com/bloodlink/api/internal/pkg/otp"
	"golang.org/x/crypto/bcrypt"
)

// LoginResult is returned to the client on a successful login. It never
// carries the password hash or OTP fields.
type LoginResult struct {
	Token    string
	Role     domain.Role
	Username string
}

type Service interface {
	Register(ctx context.Context, req domain.RegisterRequest) error
	VerifyOTP(ctx context.Context, req domain.VerifyOTPRequest) error
	ResendOTP(ctx context.Context, req domain.ResendOTPRequest) error
	Login(ctx context.Context, req domain.LoginRequest) (*LoginResult, error)
}

type userStore interface {
	Get(ctx context.Context, username string) (*domain.User, error)
	Insert(ctx context.Context, u *domain.User) error
	SetOTP(ctx context.Context, username, code string, expiresAt int64) error
	MarkVerified(ctx context.Context, username, code string) error
}

type mailer interface {
	SendEmail(to, subject, body string) error
}

type smsSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

type tokenSigner interface {
	Sign(userID, username string, role domain.Role) (string, error)
}

type service struct {
	repo       userStore
	mailer     mailer
	smsSender  smsSender
	signer     tokenSigner
	otpChannel string
}

type ServiceDeps struct {
	UserRepo    userStore
	Mailer      mailer
	SMSSender   smsSender
	JWTProvider tokenSigner
	OTPChannel  string // "email" or "sms"
}

func NewService(deps ServiceDeps) Service {
	return &service{
		repo:       deps.UserRepo,
		mailer:     deps.Mailer,
		smsSender:  deps.SMSSender,
		signer:     deps.JWTProvider,
		otpChannel: deps.OTPChannel,
	}
}

func (s *service) Register(ctx context.Context, req domain.RegisterRequest) error {
	if req.Username == "" || req.Password == "" || req.Email == "" {
		return fmt.Errorf("username, password, and email are required: %w", domain.ErrValidation)
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return err
	}
	// Advisory pre-check; the store's conditional insert is the final arbiter.
	if _, err := s.repo.Get(ctx, req.Username); err == nil {
		return fmt.Errorf("username already exists: %w", domain.ErrConflict)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	code, err := otp.Generate()
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	expiry := otp.ExpiryFrom(now)
	u := &domain.User{
		Username:     req.Username,
		UserID:       id.New(),
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         role,
		Name:         req.Name,
		Address:      req.Address,
		Gender:       req.Gender,
		Age:          req.Age,
		Phone:        req.Phone,
		IsVerified:   false,
		OTP:          &code,
		OTPExpiry:    &expiry,
		Enable:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Insert(ctx, u); err != nil {
		return err
	}
	if err := s.dispatchOTP(ctx, u, code); err != nil {
		return fmt.Errorf("dispatch otp: %w", err)
	}
	slog.Info("registered user, otp dispatched", "username", u.Username, "role", u.Role)
	return nil
}

func (s *service) VerifyOTP(ctx context.Context, req domain.VerifyOTPRequest) error {
	u, err := s.repo.Get(ctx, req.Username)
	if err != nil {
		return err
	}
	if u.IsVerified {
		return fmt.Errorf("already verified: %w", domain.ErrConflict)
	}
	if u.OTP == nil || u.OTPExpiry == nil || req.OTP != *u.OTP {
		return fmt.Errorf("invalid or expired otp: %w", domain.ErrInvalidCredential)
	}
	if *u.OTPExpiry < time.Now().Unix() {
		return fmt.Errorf("invalid or expired otp: %w", domain.ErrInvalidCredential)
	}
	// Conditional on the code we just checked. If a concurrent resend rotated
	// it in between, this fails and the submitted code is treated as invalid.
	return s.repo.MarkVerified(ctx, req.Username, req.OTP)
}

func (s *service) ResendOTP(ctx context.Context, req domain.ResendOTPRequest) error {
	u, err := s.repo.Get(ctx, req.Username)
	if err != nil {
		return err
	}
	// Stricter lookup than VerifyOTP: the pair must match so a code is never
	// re-sent to an address the account was not registered with.
	if u.Email != req.Email {
		return fmt.Errorf("user %q: %w", req.Username, domain.ErrNotFound)
	}
	if u.IsVerified {
		return fmt.Errorf("already verified: %w", domain.ErrConflict)
	}
	code, err := otp.Generate()
	if err != nil {
		return err
	}
	if err := s.repo.SetOTP(ctx, req.Username, code, otp.ExpiryFrom(time.Now())); err != nil {
		return err
	}
	if err := s.dispatchOTP(ctx, u, code); err != nil {
		return fmt.Errorf("dispatch otp: %w", err)
	}
	slog.Info("otp resent", "username", u.Username)
	return nil
}

// Login checks credentials and the requested login mode, then issues a bearer
// token. It does not require the account to be verified; unverified accounts
// can log in (pinned by TestLogin_UnverifiedAccountAllowed).
func (s *service) Login(ctx context.Context, req domain.LoginRequest) (*LoginResult, error) {
	u, err := s.repo.Get(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("invalid password: %w", domain.ErrInvalidCredential)
	}
	if !u.Enable {
		return nil, fmt.Errorf("account disabled: %w", domain.ErrForbidden)
	}
	switch req.LoginAs {
	case "admin":
		if u.Role != domain.RoleAdmin {
			return nil, fmt.Errorf("not an admin: %w", domain.ErrForbidden)
		}
	case "user":
		if !u.Role.IsUser() {
			return nil, fmt.Errorf("not a regular user: %w", domain.ErrForbidden)
		}
	default:
		return nil, fmt.Errorf("loginAs must be admin or user: %w", domain.ErrValidation)
	}
	token, err := s.signer.Sign(u.UserID, u.Username, u.Role)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, Role: u.Role, Username: u.Username}, nil
}

// dispatchOTP delivers the code over the configured channel. SMS deployments
// fall back to email for accounts registered without a phone number, and when
// no SMS sender was wired at startup.
func (s *service) dispatchOTP(ctx context.Context, u *domain.User, code string) error {
	if s.otpChannel == "sms" && s.smsSender != nil && u.Phone != nil {
		return s.smsSender.SendSMS(ctx, *u.Phone, "Your Blood-Link verification code: "+code)
	}
	return s.mailer.SendEmail(u.Email, "Verify your Blood-Link account", "Your OTP: "+code)
}
