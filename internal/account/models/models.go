// Package models holds the record types of the shared-account protocol. The
// identity store keeps at most one record of each type per identity; these
// types never alias each other and a Capability is moved, not copied.
package models

import (
	"custodia/pkg/domain"

	audit "custodia/pkg/platform/audit"
)

// Registry is the module-wide bootstrap record. It exists exactly once, at
// the identity derived from the installer, and is never destroyed.
type Registry struct {
	AuthoritySource []byte
	Counters        Counters
}

// Counters tracks one monotonic counter per audit kind. They never decrement
// and are the only externally observable history of the protocol.
type Counters struct {
	AccountsCreated uint64 `json:"accounts_created"`
	ClaimersAdded   uint64 `json:"claimers_added"`
	ClaimersRemoved uint64 `json:"claimers_removed"`
	Claimed         uint64 `json:"capabilities_claimed"`
	Redeemed        uint64 `json:"authority_redeemed"`
}

// Increment bumps the counter for the given event kind by one.
func (c *Counters) Increment(kind audit.Kind) {
	switch kind {
	case audit.KindAccountCreated:
		c.AccountsCreated++
	case audit.KindClaimerAdded:
		c.ClaimersAdded++
	case audit.KindClaimerRemoved:
		c.ClaimersRemoved++
	case audit.KindClaimed:
		c.Claimed++
	case audit.KindRedeemed:
		c.Redeemed++
	}
}

// SharedAccount is the record created by the factory at the derived identity.
// Its authority source is owned by the account identity itself and is
// immutable after creation.
type SharedAccount struct {
	AuthoritySource []byte
}

// Management co-locates 1:1 with a SharedAccount. Admin is set once at
// creation; Unclaimed is the administrator-curated allow-list, ordered by
// insertion and free of duplicates.
type Management struct {
	Admin     domain.IdentityID
	Unclaimed []domain.IdentityID
}

// HasClaimer reports whether the principal is on the allow-list.
func (m *Management) HasClaimer(claimer domain.IdentityID) bool {
	for _, listed := range m.Unclaimed {
		if listed == claimer {
			return true
		}
	}
	return false
}

// AddClaimer appends the principal to the end of the allow-list. The admin
// may list itself.
func (m *Management) AddClaimer(claimer domain.IdentityID) error {
	if m.HasClaimer(claimer) {
		return ErrAlreadyListed
	}
	m.Unclaimed = append(m.Unclaimed, claimer)
	return nil
}

// RemoveClaimer removes the principal, preserving the relative order of the
// surviving entries. Callers depend on this being a stable removal.
func (m *Management) RemoveClaimer(claimer domain.IdentityID) error {
	for i, listed := range m.Unclaimed {
		if listed == claimer {
			m.Unclaimed = append(m.Unclaimed[:i], m.Unclaimed[i+1:]...)
			return nil
		}
	}
	return ErrNotListed
}

// Clone returns an independent copy so store reads never alias live state.
func (m *Management) Clone() *Management {
	clone := &Management{Admin: m.Admin}
	if len(m.Unclaimed) > 0 {
		clone.Unclaimed = append([]domain.IdentityID{}, m.Unclaimed...)
	}
	return clone
}

// Capability entitles its holder to exactly one redemption against Target.
// At most one Capability exists per holder at any time, across all shared
// accounts, and redemption destroys it.
type Capability struct {
	Target domain.IdentityID
}
