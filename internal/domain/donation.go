package domain

import "time"

// DonorProfile is a donor's availability card. Keyed by username so each
// donor has at most one profile; upserts overwrite in place.
type DonorProfile struct {
	Username   string    `json:"username" dynamodbav:"username"`
	UserID     string    `json:"user_id" dynamodbav:"user_id"`
	BloodGroup string    `json:"blood_group" dynamodbav:"blood_group"`
	City       string    `json:"city" dynamodbav:"city"`
	Available  bool      `json:"available" dynamodbav:"available"`
	CreatedAt  time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt  time.Time `json:"updated" dynamodbav:"updated_at"`
}

type UpsertDonorProfileRequest struct {
	BloodGroup string `json:"blood_group" validate:"required"`
	City       string `json:"city"`
	Available  *bool  `json:"available"`
}

// BloodRequest statuses. A request starts open and closes exactly once.
const (
	RequestStatusOpen   = "open"
	RequestStatusClosed = "closed"
)

type BloodRequest struct {
	RequestID  string    `json:"id" dynamodbav:"request_id"`
	Requester  string    `json:"requester" dynamodbav:"requester"` // username
	BloodGroup string    `json:"blood_group" dynamodbav:"blood_group"`
	Units      int       `json:"units" dynamodbav:"units"`
	City       string    `json:"city" dynamodbav:"city"`
	Status     string    `json:"status" dynamodbav:"status"`
	CreatedAt  time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt  time.Time `json:"updated" dynamodbav:"updated_at"`
}

type CreateBloodRequestRequest struct {
	BloodGroup string `json:"blood_group" validate:"required"`
	Units      int    `json:"units" validate:"required,min=1"`
	City       string `json:"city"`
}
