// Package httptransport is the thin HTTP layer over the insurance engines.
// Handlers decode, delegate, and encode; business rules stay in the services.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"coverline/internal/authz"
	"coverline/internal/claims"
	"coverline/internal/control"
	"coverline/internal/policy"
	authmw "coverline/pkg/platform/middleware/auth"
)

// Handler carries the engine dependencies for all routes.
type Handler struct {
	policies *policy.Service
	claims   *claims.Service
	control  *control.Service
	roles    *authz.Registry
	verifier *authmw.Verifier
	logger   *slog.Logger
}

func NewHandler(
	policies *policy.Service,
	claimsSvc *claims.Service,
	controlSvc *control.Service,
	roles *authz.Registry,
	verifier *authmw.Verifier,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		policies: policies,
		claims:   claimsSvc,
		control:  controlSvc,
		roles:    roles,
		verifier: verifier,
		logger:   logger,
	}
}

// NewRouter wires all public endpoints. Reads are open; every mutating route
// requires an authenticated principal, whose capabilities the engines check.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", promhttp.Handler())

	// Public reads.
	r.Get("/policies/{policyID}", h.handleGetPolicy)
	r.Get("/policies/{policyID}/state", h.handleGetPolicyState)
	r.Get("/policies/{policyID}/claim", h.handleClaimForPolicy)
	r.Get("/policies/count", h.handlePolicyCount)
	r.Get("/claims/{claimID}", h.handleGetClaim)
	r.Get("/claims/{claimID}/state", h.handleGetClaimState)
	r.Get("/claims/{claimID}/oracle-data", h.handleClaimOracleData)
	r.Get("/status/paused", h.handlePaused)
	r.Get("/oracle-config", h.handleGetOracleConfig)

	// Authenticated mutations.
	r.Group(func(r chi.Router) {
		r.Use(authmw.RequireAuth(h.verifier, h.logger))

		r.Post("/policies", h.handleIssuePolicy)
		r.Post("/policies/{policyID}/cancel", h.handleCancelPolicy)
		r.Post("/policies/{policyID}/expire", h.handleExpirePolicy)

		r.Post("/claims", h.handleSubmitClaim)
		r.Post("/claims/{claimID}/review", h.handleStartReview)
		r.Post("/claims/{claimID}/approve", h.handleApproveClaim)
		r.Post("/claims/{claimID}/reject", h.handleRejectClaim)
		r.Post("/claims/{claimID}/settle", h.handleSettleClaim)
		r.Post("/claims/{claimID}/validate", h.handleValidateClaim)

		r.Post("/admin/pause", h.handlePause)
		r.Post("/admin/unpause", h.handleUnpause)
		r.Put("/admin/oracle-config", h.handleSetOracleConfig)
		r.Post("/admin/roles/grant", h.handleGrantRole)
		r.Post("/admin/roles/revoke", h.handleRevokeRole)
	})

	return r
}
