package httptransport

import (
	"context"
	"encoding/json"
	"net/http"

	"coverline/internal/oracle"
	id "coverline/pkg/domain"
	dErrors "coverline/pkg/domain-errors"
	authmw "coverline/pkg/platform/middleware/auth"
)

func (h *Handler) handlePause(w http.ResponseWriter, r *http.Request) {
	if err := h.control.Pause(r.Context(), authmw.PrincipalFrom(r.Context())); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pausedResponse{Paused: true})
}

func (h *Handler) handleUnpause(w http.ResponseWriter, r *http.Request) {
	if err := h.control.Unpause(r.Context(), authmw.PrincipalFrom(r.Context())); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pausedResponse{Paused: false})
}

func (h *Handler) handlePaused(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, pausedResponse{Paused: h.control.Paused()})
}

func (h *Handler) handleSetOracleConfig(w http.ResponseWriter, r *http.Request) {
	var req oracleConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.Wrap(err, dErrors.CodeInvalidInput, "decode request body"))
		return
	}
	oracleID, err := id.ParseIdentity(req.Oracle)
	if err != nil {
		writeError(w, err)
		return
	}

	cfg := oracle.ValidationConfig{
		Oracle:         oracleID,
		Required:       req.Required,
		MinSubmissions: req.MinSubmissions,
	}
	if err := h.control.SetOracleConfig(r.Context(), authmw.PrincipalFrom(r.Context()), cfg); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleGetOracleConfig(w http.ResponseWriter, _ *http.Request) {
	cfg, err := h.control.OracleConfig()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, oracleConfigResponse{
		Oracle:         cfg.Oracle.String(),
		Required:       cfg.Required,
		MinSubmissions: cfg.MinSubmissions,
	})
}

func (h *Handler) handleGrantRole(w http.ResponseWriter, r *http.Request) {
	h.mutateRole(w, r, h.roles.Grant)
}

func (h *Handler) handleRevokeRole(w http.ResponseWriter, r *http.Request) {
	h.mutateRole(w, r, h.roles.Revoke)
}

func (h *Handler) mutateRole(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, actor, principal id.Identity, capability id.Capability) error) {
	var req roleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.Wrap(err, dErrors.CodeInvalidInput, "decode request body"))
		return
	}
	principal, err := id.ParseIdentity(req.Principal)
	if err != nil {
		writeError(w, err)
		return
	}
	capability, err := id.ParseCapability(req.Capability)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := op(r.Context(), authmw.PrincipalFrom(r.Context()), principal, capability); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
