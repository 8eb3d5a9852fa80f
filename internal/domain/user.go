package domain

import "time"

// User is the credential store record. Username is the table's partition key,
// so the store itself enforces the uniqueness invariant at write time.
//
// While IsVerified is false the record carries a pending OTP and its expiry;
// both are cleared the instant verification succeeds and are never re-set for
// a verified account.
type User struct {
	Username     string  `json:"username" dynamodbav:"username"`
	UserID       string  `json:"id" dynamodbav:"user_id"`
	Email        string  `json:"email" dynamodbav:"email"`
	PasswordHash string  `json:"-" dynamodbav:"password_hash"`
	Role         Role    `json:"role" dynamodbav:"role"`
	Name         string  `json:"name,omitempty" dynamodbav:"name"`
	Address      string  `json:"address,omitempty" dynamodbav:"address"`
	Gender       string  `json:"gender,omitempty" dynamodbav:"gender"`
	Age          int     `json:"age,omitempty" dynamodbav:"age"`
	Phone        *string `json:"phone,omitempty" dynamodbav:"phone"`

	IsVerified bool    `json:"is_verified" dynamodbav:"is_verified"`
	OTP        *string `json:"-" dynamodbav:"otp"`
	OTPExpiry  *int64  `json:"-" dynamodbav:"otp_expiry"` // Unix seconds

	Enable    bool      `json:"enable" dynamodbav:"enable"`
	CreatedAt time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updated" dynamodbav:"updated_at"`
}

type RegisterRequest struct {
	Username string  `json:"username" validate:"required"`
	Password string  `json:"password" validate:"required"`
	Email    string  `json:"email" validate:"required,email"`
	Name     string  `json:"name"`
	Address  string  `json:"address"`
	Gender   string  `json:"gender"`
	Age      int     `json:"age"`
	Phone    *string `json:"phone"`
	Role     string  `json:"role"` // defaults to "recipient" when empty
}

type VerifyOTPRequest struct {
	Username string `json:"username" validate:"required"`
	OTP      string `json:"otp" validate:"required"`
}

type ResendOTPRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	LoginAs  string `json:"loginAs" validate:"required,oneof=admin user"`
}
