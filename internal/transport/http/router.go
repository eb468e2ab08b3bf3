package http

import (
	"net/http"

	"github.com/go-auth-core/internal/application/auth"
	"github.com/go-auth-core/internal/application/otp"
	"github.com/go-auth-core/internal/application/rbac"
	"github.com/go-auth-core/internal/config"
	"github.com/go-auth-core/internal/ratelimit"
	"github.com/go-auth-core/internal/revocation"
	"github.com/go-auth-core/internal/transport/http/handler"
	appmiddleware "github.com/go-auth-core/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
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

	// Fixed-window limiters share the key-value store, so limits hold
	// across instances. Login and register are keyed by client IP; OTP
	// sends are keyed by email inside the OTP service.
	loginRL := ratelimit.NewLimiter(deps.KVStore, "login", cfg.LoginRateMax, cfg.LoginRateWindow)
	registerRL := ratelimit.NewLimiter(deps.KVStore, "register", cfg.RegisterRateMax, cfg.RegisterRateWindow)
	otpRL := ratelimit.NewLimiter(deps.KVStore, "otp", cfg.OTPRateMax, cfg.OTPRateWindow)

	revoked := revocation.NewList(deps.KVStore)

	otpSvc := otp.NewService(otp.ServiceDeps{
		KV:          deps.KVStore,
		Limiter:     otpRL,
		UserRepo:    deps.UserRepo,
		Mailer:      deps.Mailer,
		SMSSender:   deps.SMSSender,
		Lifetime:    cfg.OTPLifetime,
		CodeLength:  cfg.OTPLength,
		MaxAttempts: cfg.OTPMaxAttempts,
	})
	authSvc := auth.NewService(auth.ServiceDeps{
		UserRepo: deps.UserRepo,
		Codec:    deps.Codec,
		Revoked:  revoked,
		OTPSvc:   otpSvc,
	})
	rbacSvc := rbac.NewService(deps.RoleRepo)

	healthH := handler.NewHealthHandler(deps.KVStore)
	authH := handler.NewAuthHandler(authSvc, rbacSvc)
	otpH := handler.NewOTPHandler(otpSvc)
	roleH := handler.NewRoleHandler(deps.RoleRepo)
	userH := handler.NewUserHandler(deps.UserRepo)

	authMw := appmiddleware.Auth(authSvc)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		r.With(appmiddleware.RateLimit(registerRL)).Post("/auth/register", authH.Register)
		r.With(appmiddleware.RateLimit(loginRL)).Post("/auth/login", authH.Login)
		r.Post("/auth/send-otp", otpH.Send)
		r.Post("/auth/verify-otp", otpH.Verify)
		r.Post("/auth/reset-password", authH.ResetPassword)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Post("/auth/logout", authH.Logout)
			r.Get("/auth/me", authH.Me)

			r.With(appmiddleware.RequirePermission(rbacSvc, "auth", "read", "users")).
				Get("/users", userH.List)

			r.With(appmiddleware.RequirePermission(rbacSvc, "auth", "read", "roles")).
				Get("/roles", roleH.List)
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequirePermission(rbacSvc, "auth", "write", "roles"))

				r.Post("/roles", roleH.Create)
				r.Put("/roles/{id}", roleH.Update)
				r.Delete("/roles/{id}", roleH.Delete)
			})
		})
	})

	return r
}
