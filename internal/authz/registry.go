package authz

import (
	"context"
	"log/slog"
	"sync"

	"coverline/internal/events"
	id "coverline/pkg/domain"
	dErrors "coverline/pkg/domain-errors"
)

// Registry is the in-process role store. The admin identity is set exactly
// once by Initialize and passes every capability check; other principals hold
// only the capabilities granted to them. Grants and revocations are
// admin-gated.
type Registry struct {
	mu     sync.RWMutex
	admin  id.Identity
	roles  map[id.Identity]map[id.Capability]bool
	bus    events.Publisher
	logger *slog.Logger
}

func NewRegistry(bus events.Publisher, logger *slog.Logger) *Registry {
	return &Registry{
		roles:  make(map[id.Identity]map[id.Capability]bool),
		bus:    bus,
		logger: logger,
	}
}

// Initialize records the administrator identity. One-time setup: a second
// call fails with CodeAlreadyInitialized.
func (r *Registry) Initialize(_ context.Context, admin id.Identity) error {
	if admin.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "admin identity is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.admin.IsNil() {
		return dErrors.New(dErrors.CodeAlreadyInitialized, "admin identity is already set")
	}
	r.admin = admin
	return nil
}

// Admin returns the administrator identity, or CodeNotInitialized before
// Initialize has run.
func (r *Registry) Admin() (id.Identity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.admin.IsNil() {
		return "", dErrors.New(dErrors.CodeNotInitialized, "admin identity is not set")
	}
	return r.admin, nil
}

// Require returns CodeUnauthorized unless the principal is the admin or holds
// the capability.
func (r *Registry) Require(_ context.Context, principal id.Identity, capability id.Capability) error {
	if principal.IsNil() {
		return dErrors.New(dErrors.CodeUnauthorized, "principal identity is required")
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.admin.IsNil() {
		return dErrors.New(dErrors.CodeNotInitialized, "admin identity is not set")
	}
	if principal == r.admin {
		return nil
	}
	if r.roles[principal][capability] {
		return nil
	}
	return dErrors.Newf(dErrors.CodeUnauthorized, "principal does not hold capability %q", capability)
}

// Grant gives a principal a capability. Admin-gated; granting an already-held
// capability is not an error.
func (r *Registry) Grant(ctx context.Context, actor, principal id.Identity, capability id.Capability) error {
	if err := r.requireAdmin(actor); err != nil {
		return err
	}
	if principal.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "principal identity is required")
	}
	if !capability.IsValid() {
		return dErrors.New(dErrors.CodeInvalidInput, "unknown capability")
	}

	r.mu.Lock()
	if r.roles[principal] == nil {
		r.roles[principal] = make(map[id.Capability]bool)
	}
	r.roles[principal][capability] = true
	r.mu.Unlock()

	r.emit(ctx, events.KindRoleGranted, actor, principal, capability)
	return nil
}

// Revoke removes a capability from a principal. Admin-gated; revoking an
// absent capability is not an error.
func (r *Registry) Revoke(ctx context.Context, actor, principal id.Identity, capability id.Capability) error {
	if err := r.requireAdmin(actor); err != nil {
		return err
	}
	if principal.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "principal identity is required")
	}

	r.mu.Lock()
	delete(r.roles[principal], capability)
	r.mu.Unlock()

	r.emit(ctx, events.KindRoleRevoked, actor, principal, capability)
	return nil
}

func (r *Registry) requireAdmin(actor id.Identity) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.admin.IsNil() {
		return dErrors.New(dErrors.CodeNotInitialized, "admin identity is not set")
	}
	if actor != r.admin {
		return dErrors.New(dErrors.CodeUnauthorized, "only the administrator can manage roles")
	}
	return nil
}

func (r *Registry) emit(ctx context.Context, kind events.Kind, actor, principal id.Identity, capability id.Capability) {
	if r.bus == nil {
		return
	}
	if err := r.bus.Emit(ctx, events.Event{
		Kind:       kind,
		Actor:      actor,
		Subject:    principal,
		Capability: capability,
	}); err != nil && r.logger != nil {
		r.logger.ErrorContext(ctx, "role event emit failed", "kind", kind, "error", err)
	}
}
