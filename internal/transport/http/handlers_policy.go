package httptransport

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	id "coverline/pkg/domain"
	dErrors "coverline/pkg/domain-errors"
	authmw "coverline/pkg/platform/middleware/auth"
)

func (h *Handler) handleIssuePolicy(w http.ResponseWriter, r *http.Request) {
	var req issuePolicyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.Wrap(err, dErrors.CodeInvalidInput, "decode request body"))
		return
	}
	holder, err := id.ParseIdentity(req.Holder)
	if err != nil {
		writeError(w, err)
		return
	}

	policyID, err := h.policies.IssuePolicy(
		r.Context(),
		authmw.PrincipalFrom(r.Context()),
		holder,
		id.Amount(req.CoverageAmount),
		id.Amount(req.PremiumAmount),
		req.DurationDays,
	)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, idResponse{ID: policyID.String()})
}

func (h *Handler) handleCancelPolicy(w http.ResponseWriter, r *http.Request) {
	h.transitionPolicy(w, r, h.policies.CancelPolicy)
}

func (h *Handler) handleExpirePolicy(w http.ResponseWriter, r *http.Request) {
	h.transitionPolicy(w, r, h.policies.ExpirePolicy)
}

func (h *Handler) transitionPolicy(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, actor id.Identity, policyID id.PolicyID) error) {
	policyID, err := policyIDFromURL(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := op(r.Context(), authmw.PrincipalFrom(r.Context()), policyID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleGetPolicy(w http.ResponseWriter, r *http.Request) {
	policyID, err := policyIDFromURL(r)
	if err != nil {
		writeError(w, err)
		return
	}
	p, err := h.policies.GetPolicy(r.Context(), policyID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, policyResponse{
		ID:             p.ID.String(),
		Holder:         p.Holder.String(),
		CoverageAmount: p.CoverageAmount.Int64(),
		PremiumAmount:  p.PremiumAmount.Int64(),
		StartTime:      p.StartTime,
		EndTime:        p.EndTime,
		State:          p.State.String(),
		CreatedAt:      p.CreatedAt,
	})
}

func (h *Handler) handleGetPolicyState(w http.ResponseWriter, r *http.Request) {
	policyID, err := policyIDFromURL(r)
	if err != nil {
		writeError(w, err)
		return
	}
	state, err := h.policies.GetPolicyState(r.Context(), policyID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stateResponse{State: state.String()})
}

func (h *Handler) handleClaimForPolicy(w http.ResponseWriter, r *http.Request) {
	policyID, err := policyIDFromURL(r)
	if err != nil {
		writeError(w, err)
		return
	}
	claimID, err := h.claims.ClaimForPolicy(r.Context(), policyID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, idResponse{ID: claimID.String()})
}

func (h *Handler) handlePolicyCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.policies.PolicyCount(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, countResponse{Count: count})
}

func policyIDFromURL(r *http.Request) (id.PolicyID, error) {
	return id.ParsePolicyID(chi.URLParam(r, "policyID"))
}
