package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"custodia/pkg/domain"

	audit "custodia/pkg/platform/audit"
)

func TestCountersIncrement(t *testing.T) {
	var c Counters

	c.Increment(audit.KindAccountCreated)
	c.Increment(audit.KindClaimerAdded)
	c.Increment(audit.KindClaimerAdded)
	c.Increment(audit.KindClaimerRemoved)
	c.Increment(audit.KindClaimed)
	c.Increment(audit.KindRedeemed)
	c.Increment(audit.KindRedeemed)
	c.Increment(audit.KindRedeemed)

	assert.Equal(t, uint64(1), c.AccountsCreated)
	assert.Equal(t, uint64(2), c.ClaimersAdded)
	assert.Equal(t, uint64(1), c.ClaimersRemoved)
	assert.Equal(t, uint64(1), c.Claimed)
	assert.Equal(t, uint64(3), c.Redeemed)
}

func TestCountersIncrementUnknownKindIsNoop(t *testing.T) {
	var c Counters
	c.Increment(audit.Kind("unknown"))
	assert.Equal(t, Counters{}, c)
}

func TestManagementAddClaimer(t *testing.T) {
	admin := domain.NewIdentityID()
	claimer := domain.NewIdentityID()
	m := &Management{Admin: admin}

	require.NoError(t, m.AddClaimer(claimer))
	assert.True(t, m.HasClaimer(claimer))

	err := m.AddClaimer(claimer)
	assert.ErrorIs(t, err, ErrAlreadyListed)
	assert.Len(t, m.Unclaimed, 1)
}

func TestManagementAdminMayListItself(t *testing.T) {
	admin := domain.NewIdentityID()
	m := &Management{Admin: admin}

	require.NoError(t, m.AddClaimer(admin))
	assert.True(t, m.HasClaimer(admin))
}

func TestManagementRemoveClaimerKeepsOrder(t *testing.T) {
	a := domain.NewIdentityID()
	b := domain.NewIdentityID()
	c := domain.NewIdentityID()
	m := &Management{Admin: domain.NewIdentityID()}

	require.NoError(t, m.AddClaimer(a))
	require.NoError(t, m.AddClaimer(b))
	require.NoError(t, m.AddClaimer(c))

	require.NoError(t, m.RemoveClaimer(b))
	assert.Equal(t, []domain.IdentityID{a, c}, m.Unclaimed)
}

func TestManagementRemoveClaimerNotListed(t *testing.T) {
	m := &Management{Admin: domain.NewIdentityID()}
	err := m.RemoveClaimer(domain.NewIdentityID())
	assert.ErrorIs(t, err, ErrNotListed)
}

func TestManagementCloneIsIndependent(t *testing.T) {
	a := domain.NewIdentityID()
	b := domain.NewIdentityID()
	m := &Management{Admin: domain.NewIdentityID()}
	require.NoError(t, m.AddClaimer(a))

	clone := m.Clone()
	require.NoError(t, clone.AddClaimer(b))

	assert.False(t, m.HasClaimer(b))
	assert.True(t, clone.HasClaimer(a))
	assert.Equal(t, m.Admin, clone.Admin)
}
