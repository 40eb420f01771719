package http

import (
	"context"
	"net/http"

	"github.com/campaigngrade-hub/campaigngrade1/internal/application"
	"github.com/campaigngrade-hub/campaigngrade1/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// ReadinessCheck reports whether a backing dependency can serve traffic.
type ReadinessCheck func(ctx context.Context) error

type Handler struct {
	service        *application.Service
	checks         map[string]ReadinessCheck
	maxUploadBytes int64
}

func NewHandler(service *application.Service, maxUploadBytes int64, checks map[string]ReadinessCheck) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 10 << 20
	}
	return &Handler{service: service, checks: checks, maxUploadBytes: maxUploadBytes}
}

type RouterOptions struct {
	RateLimitRPS   float64
	RateLimitBurst int

	// TrustProxy rewrites RemoteAddr from proxy headers before rate limiting.
	TrustProxy bool
}

func NewRouter(handler *Handler, opts RouterOptions) http.Handler {
	limiter := NewIPRateLimiter(opts.RateLimitRPS, opts.RateLimitBurst)

	r := chi.NewRouter()
	if opts.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", handler.healthz)
	r.Get("/readyz", handler.readyz)

	r.Route("/v1", func(r chi.Router) {
		r.Use(limiter.Middleware)

		r.Post("/auth/signup", handler.signUp)
		r.Post("/auth/login", handler.login)
		r.Post("/auth/password/reset-request", handler.passwordResetRequest)
		r.Post("/auth/password/reset", handler.passwordReset)

		r.Get("/firms", handler.listFirms)
		r.Get("/firms/search", handler.searchFirms)
		r.Get("/firms/{slug}", handler.firmPage)

		r.Group(func(r chi.Router) {
			r.Use(handler.authMiddleware)

			r.Get("/me", handler.dashboard)
			r.Post("/me/password", handler.changePassword)

			r.Post("/firms", handler.suggestFirm)
			r.Post("/firms/notify", handler.notifyFirm)
			r.Post("/firms/{slug}/claims", handler.submitClaim)

			r.Post("/reviews", handler.submitReview)
			r.Put("/reviews/{reviewID}", handler.editReview)
			r.Post("/reviews/{reviewID}/flags", handler.flagReview)

			r.Post("/verification", handler.submitVerification)

			r.Route("/firm-admin", func(r chi.Router) {
				r.Use(requireRole(domain.RoleFirmAdmin, domain.RolePlatformAdmin))
				r.Patch("/firms/{firmID}", handler.updateFirmProfile)
				r.Put("/firms/{firmID}/pricing", handler.setFirmPricing)
				r.Post("/reviews/{reviewID}/response", handler.respondToReview)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(requireRole(domain.RolePlatformAdmin))
				r.Get("/overview", handler.adminOverview)

				r.Get("/reviews", handler.adminListReviews)
				r.Post("/reviews/{reviewID}/decision", handler.adminDecideReview)
				r.Delete("/reviews/{reviewID}", handler.adminDeleteReview)
				r.Get("/evidence", handler.adminEvidenceURL)

				r.Get("/verifications", handler.adminListVerifications)
				r.Post("/verifications/{id}/decision", handler.adminDecideVerification)

				r.Get("/claims", handler.adminListClaims)
				r.Post("/claims/{id}/decision", handler.adminDecideClaim)

				r.Get("/flags", handler.adminListFlags)
				r.Post("/flags/{id}/decision", handler.adminResolveFlag)

				r.Delete("/responses/{id}", handler.adminRemoveResponse)

				r.Get("/users", handler.adminListUsers)
				r.Put("/users/{id}/role", handler.adminSetRole)

				r.Post("/firms", handler.adminCreateFirm)
			})
		})
	})

	return r
}
