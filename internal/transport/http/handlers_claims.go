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

func (h *Handler) handleSubmitClaim(w http.ResponseWriter, r *http.Request) {
	var req submitClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.Wrap(err, dErrors.CodeInvalidInput, "decode request body"))
		return
	}
	policyID, err := id.ParsePolicyID(req.PolicyID)
	if err != nil {
		writeError(w, err)
		return
	}

	claimID, err := h.claims.SubmitClaim(
		r.Context(),
		authmw.PrincipalFrom(r.Context()),
		policyID,
		id.Amount(req.Amount),
	)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, idResponse{ID: claimID.String()})
}

func (h *Handler) handleStartReview(w http.ResponseWriter, r *http.Request) {
	h.transitionClaim(w, r, h.claims.StartReview)
}

func (h *Handler) handleRejectClaim(w http.ResponseWriter, r *http.Request) {
	h.transitionClaim(w, r, h.claims.RejectClaim)
}

func (h *Handler) handleSettleClaim(w http.ResponseWriter, r *http.Request) {
	h.transitionClaim(w, r, h.claims.SettleClaim)
}

func (h *Handler) transitionClaim(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, actor id.Identity, claimID id.ClaimID) error) {
	claimID, err := claimIDFromURL(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := op(r.Context(), authmw.PrincipalFrom(r.Context()), claimID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleApproveClaim(w http.ResponseWriter, r *http.Request) {
	claimID, err := claimIDFromURL(r)
	if err != nil {
		writeError(w, err)
		return
	}

	// The body is optional: an approval without oracle data carries no
	// oracle_data_id, and the engine decides whether the gate requires one.
	var req approveClaimRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, dErrors.Wrap(err, dErrors.CodeInvalidInput, "decode request body"))
			return
		}
	}
	var dataID *id.OracleDataID
	if req.OracleDataID != nil {
		parsed, err := id.ParseOracleDataID(*req.OracleDataID)
		if err != nil {
			writeError(w, err)
			return
		}
		dataID = &parsed
	}

	if err := h.claims.ApproveClaim(r.Context(), authmw.PrincipalFrom(r.Context()), claimID, dataID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleValidateClaim(w http.ResponseWriter, r *http.Request) {
	claimID, err := claimIDFromURL(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req validateClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.Wrap(err, dErrors.CodeInvalidInput, "decode request body"))
		return
	}
	dataID, err := id.ParseOracleDataID(req.OracleDataID)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.claims.ValidateClaimWithOracle(r.Context(), claimID, dataID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, validResponse{Valid: true})
}

func (h *Handler) handleGetClaim(w http.ResponseWriter, r *http.Request) {
	claimID, err := claimIDFromURL(r)
	if err != nil {
		writeError(w, err)
		return
	}
	c, err := h.claims.GetClaim(r.Context(), claimID)
	if err != nil {
		writeError(w, err)
		return
	}
	resp := claimResponse{
		ID:          c.ID.String(),
		PolicyID:    c.PolicyID.String(),
		Claimant:    c.Claimant.String(),
		Amount:      c.Amount.Int64(),
		State:       c.State.String(),
		SubmittedAt: c.SubmittedAt,
	}
	if !c.OracleDataID.IsNil() {
		resp.OracleDataID = c.OracleDataID.String()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetClaimState(w http.ResponseWriter, r *http.Request) {
	claimID, err := claimIDFromURL(r)
	if err != nil {
		writeError(w, err)
		return
	}
	state, err := h.claims.GetClaimState(r.Context(), claimID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stateResponse{State: state.String()})
}

func (h *Handler) handleClaimOracleData(w http.ResponseWriter, r *http.Request) {
	claimID, err := claimIDFromURL(r)
	if err != nil {
		writeError(w, err)
		return
	}
	dataID, err := h.claims.ClaimOracleData(r.Context(), claimID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, oracleDataResponse{OracleDataID: dataID.String()})
}

func claimIDFromURL(r *http.Request) (id.ClaimID, error) {
	return id.ParseClaimID(chi.URLParam(r, "claimID"))
}
