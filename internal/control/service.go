package control

import (
	"context"
	"log/slog"

	"coverline/internal/authz"
	"coverline/internal/events"
	"coverline/internal/oracle"
	id "coverline/pkg/domain"
	dErrors "coverline/pkg/domain-errors"
)

// Service owns the admin-gated control operations. It keeps authorization out
// of the Switch and Gate themselves so those stay plain state holders.
type Service struct {
	authorizer authz.Authorizer
	pause      *Switch
	gate       *oracle.Gate
	bus        events.Publisher
	logger     *slog.Logger
}

func NewService(authorizer authz.Authorizer, pause *Switch, gate *oracle.Gate, bus events.Publisher, logger *slog.Logger) (*Service, error) {
	if authorizer == nil || pause == nil || gate == nil {
		return nil, dErrors.New(dErrors.CodeNotInitialized, "control service requires authorizer, switch, and gate")
	}
	return &Service{
		authorizer: authorizer,
		pause:      pause,
		gate:       gate,
		bus:        bus,
		logger:     logger,
	}, nil
}

// Pause sets the global pause flag. Idempotent: pausing an already-paused
// system succeeds. The paused event is emitted only when the flag actually
// flips, so the journal records transitions rather than repeats.
func (s *Service) Pause(ctx context.Context, actor id.Identity) error {
	if err := s.authorizer.Require(ctx, actor, id.CapabilityAdmin); err != nil {
		return err
	}
	if s.pause.set(true) {
		s.emit(ctx, events.KindPaused, actor)
	}
	return nil
}

// Unpause clears the global pause flag. Idempotent like Pause.
func (s *Service) Unpause(ctx context.Context, actor id.Identity) error {
	if err := s.authorizer.Require(ctx, actor, id.CapabilityAdmin); err != nil {
		return err
	}
	if s.pause.set(false) {
		s.emit(ctx, events.KindUnpaused, actor)
	}
	return nil
}

// Paused reports the flag. Public read, no authorization.
func (s *Service) Paused() bool {
	return s.pause.Paused()
}

// SetOracleConfig replaces the oracle gate configuration atomically.
func (s *Service) SetOracleConfig(ctx context.Context, actor id.Identity, cfg oracle.ValidationConfig) error {
	if err := s.authorizer.Require(ctx, actor, id.CapabilityAdmin); err != nil {
		return err
	}
	if err := s.gate.SetConfig(cfg); err != nil {
		return err
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "oracle validation config replaced",
			"oracle", cfg.Oracle,
			"required", cfg.Required,
			"min_submissions", cfg.MinSubmissions,
		)
	}
	return nil
}

// OracleConfig returns the active gate configuration. Public read.
func (s *Service) OracleConfig() (oracle.ValidationConfig, error) {
	return s.gate.Config()
}

func (s *Service) emit(ctx context.Context, kind events.Kind, actor id.Identity) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Emit(ctx, events.Event{Kind: kind, Actor: actor}); err != nil && s.logger != nil {
		s.logger.ErrorContext(ctx, "control event emit failed", "kind", kind, "error", err)
	}
}
