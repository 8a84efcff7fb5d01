package service

import (
	"context"
	"errors"
	"fmt"

	"custodia/internal/account/models"
	"custodia/internal/account/store"
	"custodia/internal/identity"
	"custodia/pkg/domain"
	"custodia/pkg/platform/sentinel"

	dErrors "custodia/pkg/domain-errors"
)

// Initialize performs the one-time module bootstrap: it derives the module's
// own identity from the installer, stores the Registry record there with all
// five counters at zero, and returns the module identity. A second call
// fails with ErrAlreadyInitialized.
func (s *Service) Initialize(ctx context.Context, installer domain.IdentityID) (domain.IdentityID, error) {
	ctx, span := s.startSpan(ctx, "account.Initialize")
	defer span.End()

	if installer.IsNil() {
		return domain.IdentityID{}, dErrors.New(dErrors.CodeValidation, "installer identity required")
	}

	moduleID := identity.ModuleIdentity(installer)
	source, err := identity.NewAuthoritySource()
	if err != nil {
		return domain.IdentityID{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to provision registry authority")
	}

	err = s.store.Update(ctx, func(tx store.Tx) error {
		if err := tx.CreateRegistry(moduleID, &models.Registry{AuthoritySource: source}); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				return models.ErrAlreadyInitialized
			}
			return fmt.Errorf("store registry: %w", err)
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return domain.IdentityID{}, err
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "registry initialized",
			"installer", installer.String(),
			"module_identity", moduleID.String(),
		)
	}
	return moduleID, nil
}

// Counters returns the five registry counters, the protocol's externally
// observable history.
func (s *Service) Counters(ctx context.Context) (models.Counters, error) {
	ctx, span := s.startSpan(ctx, "account.Counters")
	defer span.End()

	var counters models.Counters
	err := s.store.View(ctx, func(tx store.Tx) error {
		_, registry, err := tx.GetRegistry()
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "registry not initialized")
			}
			return fmt.Errorf("get registry: %w", err)
		}
		counters = registry.Counters
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return models.Counters{}, err
	}
	return counters, nil
}
