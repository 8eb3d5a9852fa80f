package http

import (
	"net/http"

	"github.com/bloodlink/api/internal/application/auth"
	"github.com/bloodlink/api/internal/application/donor"
	"github.com/bloodlink/api/internal/application/recipient"
	"github.com/bloodlink/api/internal/application/user"
	"github.com/bloodlink/api/internal/config"
	"github.com/bloodlink/api/internal/domain"
	"github.com/bloodlink/api/internal/transport/http/handler"
	appmiddleware "github.com/bloodlink/api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authMw := appmiddleware.Auth(deps.JWTProvider)

	// 5 requests/second, burst of 10 — applied to the public auth endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	authSvc := auth.NewService(auth.ServiceDeps{
		UserRepo:    deps.UserRepo,
		Mailer:      deps.Mailer,
		SMSSender:   deps.SMSSender,
		JWTProvider: deps.JWTProvider,
		OTPChannel:  cfg.OTPChannel,
	})
	donorSvc := donor.NewService(deps.DonorRepo, deps.RequestRepo)
	recipientSvc := recipient.NewService(deps.RequestRepo, deps.DonorRepo)
	userSvc := user.NewService(deps.UserRepo)

	healthH := handler.NewHealthHandler()
	authH := handler.NewAuthHandler(authSvc)
	donorH := handler.NewDonorHandler(donorSvc)
	recipientH := handler.NewRecipientHandler(recipientSvc)
	userH := handler.NewUserHandler(userSvc)

	r.Get("/health", healthH.Ping)

	r.Route("/api", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(sensitiveRL.Limit)
			r.Post("/auth/register", authH.Register)
			r.Post("/auth/verify-otp", authH.VerifyOTP)
			r.Post("/auth/resend-otp", authH.ResendOTP)
			r.Post("/auth/login", authH.Login)
		})

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Route("/donor", func(r chi.Router) {
				r.Use(appmiddleware.RequireRole(domain.RoleDonor, domain.RoleAdmin))
				r.Put("/profile", donorH.UpsertProfile)
				r.Get("/profile", donorH.GetProfile)
				r.Get("/requests", donorH.ListOpenRequests)
			})

			r.Route("/recipients", func(r chi.Router) {
				r.Use(appmiddleware.RequireRole(domain.RoleRecipient, domain.RoleAdmin))
				r.Post("/requests", recipientH.CreateRequest)
				r.Get("/requests", recipientH.ListOwnRequests)
				r.Post("/requests/{id}/close", recipientH.CloseRequest)
				r.Get("/donors", recipientH.SearchDonors)
			})

			r.Route("/users", func(r chi.Router) {
				r.Use(appmiddleware.RequireRole(domain.RoleAdmin))
				r.Get("/", userH.List)
				r.Get("/{username}", userH.Get)
				r.Delete("/{username}", userH.Disable)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Route not found"}`))
	})

	return r
}
