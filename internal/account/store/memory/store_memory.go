// Package memory implements the identity store as mutex-serialized maps, one
// map per record type keyed by identity. Units of work stage their writes and
// commit only when the closure succeeds, so a failed operation has no
// partial effect.
package memory

import (
	"context"
	"sync"

	"custodia/internal/account/models"
	"custodia/internal/account/store"
	"custodia/pkg/domain"
	"custodia/pkg/platform/sentinel"
)

type Store struct {
	mu sync.RWMutex

	registryID   domain.IdentityID
	registry     *models.Registry
	accounts     map[domain.IdentityID]*models.SharedAccount
	managements  map[domain.IdentityID]*models.Management
	capabilities map[domain.IdentityID]*models.Capability
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		accounts:     make(map[domain.IdentityID]*models.SharedAccount),
		managements:  make(map[domain.IdentityID]*models.Management),
		capabilities: make(map[domain.IdentityID]*models.Capability),
	}
}

func (s *Store) View(_ context.Context, fn func(store.Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(&memTx{store: s})
}

func (s *Store) Update(_ context.Context, fn func(store.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memTx{
		store:        s,
		writable:     true,
		accounts:     make(map[domain.IdentityID]*models.SharedAccount),
		managements:  make(map[domain.IdentityID]*models.Management),
		capabilities: make(map[domain.IdentityID]*models.Capability),
		capStaged:    make(map[domain.IdentityID]bool),
	}
	if err := fn(tx); err != nil {
		return err
	}
	tx.commit()
	return nil
}

// memTx stages writes against the live maps. Reads consult the staged layer
// first so a unit of work observes its own writes.
type memTx struct {
	store    *Store
	writable bool

	registryStaged bool
	registryID     domain.IdentityID
	registry       *models.Registry

	accounts    map[domain.IdentityID]*models.SharedAccount
	managements map[domain.IdentityID]*models.Management

	// capStaged marks holders touched in this tx; a staged nil capability
	// is a pending delete.
	capabilities map[domain.IdentityID]*models.Capability
	capStaged    map[domain.IdentityID]bool
}

var _ store.Tx = (*memTx)(nil)

func (tx *memTx) GetRegistry() (domain.IdentityID, *models.Registry, error) {
	if tx.registryStaged {
		return tx.registryID, cloneRegistry(tx.registry), nil
	}
	if tx.store.registry == nil {
		return domain.IdentityID{}, nil, sentinel.ErrNotFound
	}
	return tx.store.registryID, cloneRegistry(tx.store.registry), nil
}

func (tx *memTx) CreateRegistry(id domain.IdentityID, registry *models.Registry) error {
	if !tx.writable {
		return sentinel.ErrReadOnly
	}
	if tx.registryStaged || tx.store.registry != nil {
		return sentinel.ErrConflict
	}
	tx.registryStaged = true
	tx.registryID = id
	tx.registry = cloneRegistry(registry)
	return nil
}

func (tx *memTx) SetRegistry(id domain.IdentityID, registry *models.Registry) error {
	if !tx.writable {
		return sentinel.ErrReadOnly
	}
	if !tx.registryStaged && tx.store.registry == nil {
		return sentinel.ErrNotFound
	}
	tx.registryStaged = true
	tx.registryID = id
	tx.registry = cloneRegistry(registry)
	return nil
}

func (tx *memTx) CreateAccount(id domain.IdentityID, account *models.SharedAccount, management *models.Management) error {
	if !tx.writable {
		return sentinel.ErrReadOnly
	}
	if _, staged := tx.accounts[id]; staged {
		return sentinel.ErrConflict
	}
	if _, live := tx.store.accounts[id]; live {
		return sentinel.ErrConflict
	}
	tx.accounts[id] = cloneAccount(account)
	tx.managements[id] = management.Clone()
	return nil
}

func (tx *memTx) GetAccount(id domain.IdentityID) (*models.SharedAccount, error) {
	if account, staged := tx.accounts[id]; staged {
		return cloneAccount(account), nil
	}
	account, ok := tx.store.accounts[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cloneAccount(account), nil
}

func (tx *memTx) GetManagement(id domain.IdentityID) (*models.Management, error) {
	if management, staged := tx.managements[id]; staged {
		return management.Clone(), nil
	}
	management, ok := tx.store.managements[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return management.Clone(), nil
}

func (tx *memTx) SetManagement(id domain.IdentityID, management *models.Management) error {
	if !tx.writable {
		return sentinel.ErrReadOnly
	}
	if _, staged := tx.managements[id]; !staged {
		if _, live := tx.store.managements[id]; !live {
			return sentinel.ErrNotFound
		}
	}
	tx.managements[id] = management.Clone()
	return nil
}

func (tx *memTx) GetCapability(holder domain.IdentityID) (*models.Capability, error) {
	if tx.capStaged != nil && tx.capStaged[holder] {
		if tx.capabilities[holder] == nil {
			return nil, sentinel.ErrNotFound
		}
		capability := *tx.capabilities[holder]
		return &capability, nil
	}
	live, ok := tx.store.capabilities[holder]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	capability := *live
	return &capability, nil
}

func (tx *memTx) CreateCapability(holder domain.IdentityID, capability *models.Capability) error {
	if !tx.writable {
		return sentinel.ErrReadOnly
	}
	if _, err := tx.GetCapability(holder); err == nil {
		return sentinel.ErrConflict
	}
	staged := *capability
	tx.capabilities[holder] = &staged
	tx.capStaged[holder] = true
	return nil
}

func (tx *memTx) DeleteCapability(holder domain.IdentityID) error {
	if !tx.writable {
		return sentinel.ErrReadOnly
	}
	if _, err := tx.GetCapability(holder); err != nil {
		return err
	}
	tx.capabilities[holder] = nil
	tx.capStaged[holder] = true
	return nil
}

func (tx *memTx) commit() {
	if tx.registryStaged {
		tx.store.registryID = tx.registryID
		tx.store.registry = tx.registry
	}
	for id, account := range tx.accounts {
		tx.store.accounts[id] = account
	}
	for id, management := range tx.managements {
		tx.store.managements[id] = management
	}
	for holder := range tx.capStaged {
		if capability := tx.capabilities[holder]; capability == nil {
			delete(tx.store.capabilities, holder)
		} else {
			tx.store.capabilities[holder] = capability
		}
	}
}

func cloneRegistry(registry *models.Registry) *models.Registry {
	clone := *registry
	return &clone
}

func cloneAccount(account *models.SharedAccount) *models.SharedAccount {
	clone := *account
	return &clone
}
