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
	audit "custodia/pkg/platform/audit"
)

// CreateSharedAccount derives a new shared-account identity from (creator,
// seed), provisions its authority source, and installs the account with the
// creator as administrator and an empty allow-list. The same (creator, seed)
// pair always collides on the second call.
func (s *Service) CreateSharedAccount(ctx context.Context, creator domain.IdentityID, seed []byte) (domain.IdentityID, error) {
	ctx, span := s.startSpan(ctx, "account.CreateSharedAccount")
	defer span.End()

	if creator.IsNil() {
		return domain.IdentityID{}, dErrors.New(dErrors.CodeValidation, "creator identity required")
	}

	target := identity.Derive(creator, seed)
	source, err := identity.NewAuthoritySource()
	if err != nil {
		return domain.IdentityID{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to provision account authority")
	}

	err = s.store.Update(ctx, func(tx store.Tx) error {
		account := &models.SharedAccount{AuthoritySource: source}
		management := &models.Management{Admin: creator}
		if err := tx.CreateAccount(target, account, management); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				return models.ErrAlreadyExists
			}
			return fmt.Errorf("store shared account: %w", err)
		}
		return s.bumpCounter(tx, audit.KindAccountCreated)
	})
	if err != nil {
		span.RecordError(err)
		return domain.IdentityID{}, err
	}

	s.emit(ctx, audit.KindAccountCreated, creator, domain.IdentityID{}, target)
	return target, nil
}
