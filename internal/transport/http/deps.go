package http

import (
	"github.com/bloodlink/api/internal/infrastructure/dynamo"
	jwtinfra "github.com/bloodlink/api/internal/infrastructure/jwt"
	"github.com/bloodlink/api/internal/infrastructure/smtp"
	"github.com/bloodlink/api/internal/infrastructure/sns"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo    *dynamo.UserRepo
	DonorRepo   *dynamo.DonorRepo
	RequestRepo *dynamo.RequestRepo
	Mailer      smtp.Mailer
	SMSSender   sns.SMSSender
	JWTProvider *jwtinfra.Provider
}
