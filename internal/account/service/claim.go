package service

import (
	"context"
	"errors"
	"fmt"

	"custodia/internal/account/models"
	"custodia/internal/account/store"
	"custodia/pkg/domain"
	"custodia/pkg/platform/sentinel"

	audit "custodia/pkg/platform/audit"
)

// ClaimCapability converts allow-list membership into a capability deposited
// at the claiming identity. The claimer leaves the allow-list in the same
// unit of work; a principal may hold at most one live capability across all
// shared accounts.
func (s *Service) ClaimCapability(ctx context.Context, claimer, target domain.IdentityID) error {
	ctx, span := s.startSpan(ctx, "account.ClaimCapability")
	defer span.End()

	err := s.store.Update(ctx, func(tx store.Tx) error {
		management, err := tx.GetManagement(target)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return models.ErrNotFound
			}
			return fmt.Errorf("get management: %w", err)
		}
		if !management.HasClaimer(claimer) {
			return models.ErrNotListed
		}
		if _, err := tx.GetCapability(claimer); err == nil {
			return models.ErrAlreadyHoldingCapability
		} else if !errors.Is(err, sentinel.ErrNotFound) {
			return fmt.Errorf("get capability: %w", err)
		}

		if err := management.RemoveClaimer(claimer); err != nil {
			return err
		}
		if err := tx.SetManagement(target, management); err != nil {
			return fmt.Errorf("store management: %w", err)
		}
		if err := tx.CreateCapability(claimer, &models.Capability{Target: target}); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				return models.ErrAlreadyHoldingCapability
			}
			return fmt.Errorf("store capability: %w", err)
		}
		return s.bumpCounter(tx, audit.KindClaimed)
	})
	if err != nil {
		span.RecordError(err)
		return err
	}

	s.emit(ctx, audit.KindClaimed, claimer, claimer, target)
	return nil
}
