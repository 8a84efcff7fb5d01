// Package domain holds the typed identifiers shared across the module.
package domain

import (
	"fmt"

	"github.com/google/uuid"

	dErrors "custodia/pkg/domain-errors"
)

// IdentityID addresses a holder of records in the identity store: a principal
// or a shared account. The distinct type keeps principal and account
// parameters from being swapped silently at call sites.
type IdentityID uuid.UUID

// String renders the canonical UUID form.
func (id IdentityID) String() string { return uuid.UUID(id).String() }

// IsNil reports whether the identity is the zero value.
func (id IdentityID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// NewIdentityID returns a fresh random identity, used for principals.
func NewIdentityID() IdentityID { return IdentityID(uuid.New()) }

// MarshalText renders the canonical UUID form for JSON and text encoders.
func (id IdentityID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

// UnmarshalText accepts the canonical UUID form.
func (id *IdentityID) UnmarshalText(text []byte) error {
	u, err := uuid.Parse(string(text))
	if err != nil {
		return fmt.Errorf("invalid identity id %q: %w", text, err)
	}
	*id = IdentityID(u)
	return nil
}

// ParseIdentityID validates an identity identifier at a trust boundary.
// Rejects empty, malformed, and nil UUIDs.
func ParseIdentityID(raw string) (IdentityID, error) {
	u, err := uuid.Parse(raw)
	if err != nil {
		return IdentityID{}, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("invalid identity id %q", raw))
	}
	if u == uuid.Nil {
		return IdentityID{}, dErrors.New(dErrors.CodeValidation, "identity id must not be nil")
	}
	return IdentityID(u), nil
}
