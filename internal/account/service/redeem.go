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
	"custodia/pkg/requestcontext"

	dErrors "custodia/pkg/domain-errors"
	audit "custodia/pkg/platform/audit"
)

// AcquireAuthority consumes the acquirer's capability and mints a one-time
// authority proof for the target account. The capability is destroyed in the
// same unit of work; the proof is ephemeral and cannot be re-derived without
// a fresh claim-and-redeem cycle. A mismatched target leaves the capability
// untouched and still redeemable for its own account.
func (s *Service) AcquireAuthority(ctx context.Context, acquirer, target domain.IdentityID) (*identity.Proof, error) {
	ctx, span := s.startSpan(ctx, "account.AcquireAuthority")
	defer span.End()

	var source []byte
	err := s.store.Update(ctx, func(tx store.Tx) error {
		capability, err := tx.GetCapability(acquirer)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return models.ErrNoCapability
			}
			return fmt.Errorf("get capability: %w", err)
		}
		if capability.Target != target {
			return models.ErrWrongTarget
		}

		account, err := tx.GetAccount(target)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return models.ErrNotFound
			}
			return fmt.Errorf("get shared account: %w", err)
		}

		if err := tx.DeleteCapability(acquirer); err != nil {
			return fmt.Errorf("consume capability: %w", err)
		}
		source = account.AuthoritySource
		return s.bumpCounter(tx, audit.KindRedeemed)
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	proof, err := identity.MintProof(source, target, acquirer, requestcontext.Now(ctx), s.proofTTL)
	if err != nil {
		span.RecordError(err)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to mint authority proof")
	}

	s.emit(ctx, audit.KindRedeemed, acquirer, acquirer, target)
	return proof, nil
}
