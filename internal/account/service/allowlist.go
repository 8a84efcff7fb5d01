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

// AddClaimer appends a principal to the end of a shared account's allow-list.
// Only the account administrator may call it; the administrator may list
// itself.
func (s *Service) AddClaimer(ctx context.Context, admin, target, claimer domain.IdentityID) error {
	ctx, span := s.startSpan(ctx, "account.AddClaimer")
	defer span.End()

	err := s.store.Update(ctx, func(tx store.Tx) error {
		management, err := s.managementFor(tx, target, admin)
		if err != nil {
			return err
		}
		if err := management.AddClaimer(claimer); err != nil {
			return err
		}
		if err := tx.SetManagement(target, management); err != nil {
			return fmt.Errorf("store management: %w", err)
		}
		return s.bumpCounter(tx, audit.KindClaimerAdded)
	})
	if err != nil {
		span.RecordError(err)
		return err
	}

	s.emit(ctx, audit.KindClaimerAdded, admin, claimer, target)
	return nil
}

// RemoveClaimer removes a principal from the allow-list, preserving the
// relative order of the remaining entries.
func (s *Service) RemoveClaimer(ctx context.Context, admin, target, claimer domain.IdentityID) error {
	ctx, span := s.startSpan(ctx, "account.RemoveClaimer")
	defer span.End()

	err := s.store.Update(ctx, func(tx store.Tx) error {
		management, err := s.managementFor(tx, target, admin)
		if err != nil {
			return err
		}
		if err := management.RemoveClaimer(claimer); err != nil {
			return err
		}
		if err := tx.SetManagement(target, management); err != nil {
			return fmt.Errorf("store management: %w", err)
		}
		return s.bumpCounter(tx, audit.KindClaimerRemoved)
	})
	if err != nil {
		span.RecordError(err)
		return err
	}

	s.emit(ctx, audit.KindClaimerRemoved, admin, claimer, target)
	return nil
}

// ListClaimers returns the current allow-list in insertion order. Read-only;
// no audit record is appended.
func (s *Service) ListClaimers(ctx context.Context, target domain.IdentityID) ([]domain.IdentityID, error) {
	ctx, span := s.startSpan(ctx, "account.ListClaimers")
	defer span.End()

	var claimers []domain.IdentityID
	err := s.store.View(ctx, func(tx store.Tx) error {
		management, err := tx.GetManagement(target)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return models.ErrNotFound
			}
			return fmt.Errorf("get management: %w", err)
		}
		claimers = management.Unclaimed
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return claimers, nil
}

// managementFor loads the management record and enforces the shared guard
// sequence of both allow-list mutations: NotFound before NotAdmin.
func (s *Service) managementFor(tx store.Tx, target, admin domain.IdentityID) (*models.Management, error) {
	management, err := tx.GetManagement(target)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("get management: %w", err)
	}
	if management.Admin != admin {
		return nil, models.ErrNotAdmin
	}
	return management, nil
}
