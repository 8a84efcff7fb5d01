// Package store defines the identity-store contract the protocol runs
// against: typed records keyed by identity, at most one record of each type
// per identity, mutated only inside atomic units of work.
package store

import (
	"context"

	"custodia/internal/account/models"
	"custodia/pkg/domain"
)

// Tx is the typed view of the identity store inside one unit of work.
// Reads return sentinel.ErrNotFound for empty slots; creations return
// sentinel.ErrConflict for occupied ones. Mutations inside View return
// sentinel.ErrReadOnly.
type Tx interface {
	// The Registry record is a singleton: CreateRegistry fails with
	// sentinel.ErrConflict if a registry exists at any identity.
	GetRegistry() (domain.IdentityID, *models.Registry, error)
	CreateRegistry(id domain.IdentityID, registry *models.Registry) error
	SetRegistry(id domain.IdentityID, registry *models.Registry) error

	// CreateAccount installs the SharedAccount record and its co-located
	// Management record in one step.
	CreateAccount(id domain.IdentityID, account *models.SharedAccount, management *models.Management) error
	GetAccount(id domain.IdentityID) (*models.SharedAccount, error)

	GetManagement(id domain.IdentityID) (*models.Management, error)
	SetManagement(id domain.IdentityID, management *models.Management) error

	// A Capability occupies the holder's single credential slot;
	// CreateCapability fails with sentinel.ErrConflict while any capability
	// is outstanding for that holder, and DeleteCapability consumes it.
	GetCapability(holder domain.IdentityID) (*models.Capability, error)
	CreateCapability(holder domain.IdentityID, capability *models.Capability) error
	DeleteCapability(holder domain.IdentityID) error
}

// Store executes units of work. A caller observes either the full pre-state
// or the full post-state of an Update, never an intermediate state; when fn
// returns an error nothing is applied.
type Store interface {
	View(ctx context.Context, fn func(Tx) error) error
	Update(ctx context.Context, fn func(Tx) error) error
}
