package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"custodia/internal/account/models"
	"custodia/internal/account/store"
	"custodia/pkg/domain"
	"custodia/pkg/platform/sentinel"
)

type MemoryStoreSuite struct {
	suite.Suite
	ctx   context.Context
	store *Store
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = New()
}

func (s *MemoryStoreSuite) createAccount(id, admin domain.IdentityID) {
	err := s.store.Update(s.ctx, func(tx store.Tx) error {
		return tx.CreateAccount(id,
			&models.SharedAccount{AuthoritySource: []byte("source")},
			&models.Management{Admin: admin},
		)
	})
	s.Require().NoError(err)
}

func (s *MemoryStoreSuite) TestRegistryLifecycle() {
	id := domain.NewIdentityID()

	err := s.store.Update(s.ctx, func(tx store.Tx) error {
		return tx.CreateRegistry(id, &models.Registry{AuthoritySource: []byte("r")})
	})
	s.Require().NoError(err)

	err = s.store.Update(s.ctx, func(tx store.Tx) error {
		return tx.CreateRegistry(domain.NewIdentityID(), &models.Registry{})
	})
	s.ErrorIs(err, sentinel.ErrConflict)

	err = s.store.Update(s.ctx, func(tx store.Tx) error {
		gotID, registry, err := tx.GetRegistry()
		s.Require().NoError(err)
		s.Equal(id, gotID)
		registry.Counters.AccountsCreated = 7
		return tx.SetRegistry(gotID, registry)
	})
	s.Require().NoError(err)

	err = s.store.View(s.ctx, func(tx store.Tx) error {
		_, registry, err := tx.GetRegistry()
		s.Require().NoError(err)
		s.Equal(uint64(7), registry.Counters.AccountsCreated)
		return nil
	})
	s.Require().NoError(err)
}

func (s *MemoryStoreSuite) TestGetRegistryNotFound() {
	err := s.store.View(s.ctx, func(tx store.Tx) error {
		_, _, err := tx.GetRegistry()
		return err
	})
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *MemoryStoreSuite) TestCreateAccountConflict() {
	id := domain.NewIdentityID()
	s.createAccount(id, domain.NewIdentityID())

	err := s.store.Update(s.ctx, func(tx store.Tx) error {
		return tx.CreateAccount(id, &models.SharedAccount{}, &models.Management{})
	})
	s.ErrorIs(err, sentinel.ErrConflict)
}

func (s *MemoryStoreSuite) TestAccountAndManagementReads() {
	id := domain.NewIdentityID()
	admin := domain.NewIdentityID()
	s.createAccount(id, admin)

	err := s.store.View(s.ctx, func(tx store.Tx) error {
		account, err := tx.GetAccount(id)
		s.Require().NoError(err)
		s.Equal([]byte("source"), account.AuthoritySource)

		management, err := tx.GetManagement(id)
		s.Require().NoError(err)
		s.Equal(admin, management.Admin)
		s.Empty(management.Unclaimed)

		_, err = tx.GetAccount(domain.NewIdentityID())
		s.ErrorIs(err, sentinel.ErrNotFound)
		return nil
	})
	s.Require().NoError(err)
}

func (s *MemoryStoreSuite) TestSetManagementUnknownAccount() {
	err := s.store.Update(s.ctx, func(tx store.Tx) error {
		return tx.SetManagement(domain.NewIdentityID(), &models.Management{})
	})
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *MemoryStoreSuite) TestCapabilitySlot() {
	holder := domain.NewIdentityID()
	target := domain.NewIdentityID()

	err := s.store.Update(s.ctx, func(tx store.Tx) error {
		return tx.CreateCapability(holder, &models.Capability{Target: target})
	})
	s.Require().NoError(err)

	err = s.store.Update(s.ctx, func(tx store.Tx) error {
		return tx.CreateCapability(holder, &models.Capability{Target: domain.NewIdentityID()})
	})
	s.ErrorIs(err, sentinel.ErrConflict)

	err = s.store.Update(s.ctx, func(tx store.Tx) error {
		capability, err := tx.GetCapability(holder)
		s.Require().NoError(err)
		s.Equal(target, capability.Target)
		return tx.DeleteCapability(holder)
	})
	s.Require().NoError(err)

	err = s.store.View(s.ctx, func(tx store.Tx) error {
		_, err := tx.GetCapability(holder)
		return err
	})
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *MemoryStoreSuite) TestUpdateRollsBackOnError() {
	id := domain.NewIdentityID()
	boom := errors.New("boom")

	err := s.store.Update(s.ctx, func(tx store.Tx) error {
		s.Require().NoError(tx.CreateAccount(id, &models.SharedAccount{}, &models.Management{}))
		s.Require().NoError(tx.CreateCapability(id, &models.Capability{Target: id}))
		return boom
	})
	s.ErrorIs(err, boom)

	err = s.store.View(s.ctx, func(tx store.Tx) error {
		_, err := tx.GetAccount(id)
		s.ErrorIs(err, sentinel.ErrNotFound)
		_, err = tx.GetCapability(id)
		s.ErrorIs(err, sentinel.ErrNotFound)
		return nil
	})
	s.Require().NoError(err)
}

func (s *MemoryStoreSuite) TestTxObservesOwnWrites() {
	id := domain.NewIdentityID()

	err := s.store.Update(s.ctx, func(tx store.Tx) error {
		s.Require().NoError(tx.CreateAccount(id, &models.SharedAccount{}, &models.Management{}))
		_, err := tx.GetAccount(id)
		s.Require().NoError(err)

		s.Require().NoError(tx.CreateCapability(id, &models.Capability{Target: id}))
		s.Require().NoError(tx.DeleteCapability(id))
		_, err = tx.GetCapability(id)
		s.ErrorIs(err, sentinel.ErrNotFound)
		return nil
	})
	s.Require().NoError(err)
}

func (s *MemoryStoreSuite) TestViewRejectsWrites() {
	err := s.store.View(s.ctx, func(tx store.Tx) error {
		return tx.CreateRegistry(domain.NewIdentityID(), &models.Registry{})
	})
	s.ErrorIs(err, sentinel.ErrReadOnly)

	err = s.store.View(s.ctx, func(tx store.Tx) error {
		return tx.CreateAccount(domain.NewIdentityID(), &models.SharedAccount{}, &models.Management{})
	})
	s.ErrorIs(err, sentinel.ErrReadOnly)
}
