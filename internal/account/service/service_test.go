package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"custodia/internal/account/models"
	"custodia/internal/identity"
	"custodia/pkg/domain"
	"custodia/pkg/platform/audit/publisher"
	"custodia/pkg/requestcontext"

	dErrors "custodia/pkg/domain-errors"
	memorystore "custodia/internal/account/store/memory"
	audit "custodia/pkg/platform/audit"
	auditmemory "custodia/pkg/platform/audit/store/memory"
)

type fixture struct {
	svc   *Service
	sink  *auditmemory.InMemoryStore
	ctx   context.Context
	admin domain.IdentityID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	sink := auditmemory.NewInMemoryStore()
	svc := New(memorystore.New(),
		WithAuditPublisher(publisher.NewPublisher(sink)),
	)
	ctx := requestcontext.WithTime(context.Background(), time.Now())
	return &fixture{svc: svc, sink: sink, ctx: ctx, admin: domain.NewIdentityID()}
}

// newAccount creates a shared account administered by f.admin.
func (f *fixture) newAccount(t *testing.T, seed string) domain.IdentityID {
	t.Helper()
	target, err := f.svc.CreateSharedAccount(f.ctx, f.admin, []byte(seed))
	require.NoError(t, err)
	return target
}

func (f *fixture) listedClaimer(t *testing.T, target domain.IdentityID) domain.IdentityID {
	t.Helper()
	claimer := domain.NewIdentityID()
	require.NoError(t, f.svc.AddClaimer(f.ctx, f.admin, target, claimer))
	return claimer
}

func TestInitialize(t *testing.T) {
	f := newFixture(t)
	installer := domain.NewIdentityID()

	moduleID, err := f.svc.Initialize(f.ctx, installer)
	require.NoError(t, err)
	assert.Equal(t, identity.ModuleIdentity(installer), moduleID)

	counters, err := f.svc.Counters(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Counters{}, counters)
}

func TestInitializeTwice(t *testing.T) {
	f := newFixture(t)
	installer := domain.NewIdentityID()

	_, err := f.svc.Initialize(f.ctx, installer)
	require.NoError(t, err)

	_, err = f.svc.Initialize(f.ctx, installer)
	assert.ErrorIs(t, err, models.ErrAlreadyInitialized)

	// A different installer cannot bootstrap a second registry either.
	_, err = f.svc.Initialize(f.ctx, domain.NewIdentityID())
	assert.ErrorIs(t, err, models.ErrAlreadyInitialized)
}

func TestInitializeRejectsNilInstaller(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Initialize(f.ctx, domain.IdentityID{})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestCountersBeforeInitialize(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Counters(f.ctx)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestCreateSharedAccountIsDeterministic(t *testing.T) {
	f := newFixture(t)
	creator := domain.NewIdentityID()

	target, err := f.svc.CreateSharedAccount(f.ctx, creator, []byte("treasury"))
	require.NoError(t, err)
	assert.Equal(t, identity.Derive(creator, []byte("treasury")), target)

	_, err = f.svc.CreateSharedAccount(f.ctx, creator, []byte("treasury"))
	assert.ErrorIs(t, err, models.ErrAlreadyExists)

	other, err := f.svc.CreateSharedAccount(f.ctx, creator, []byte("ops"))
	require.NoError(t, err)
	assert.NotEqual(t, target, other)
}

func TestCreateSharedAccountEmptySeed(t *testing.T) {
	f := newFixture(t)
	creator := domain.NewIdentityID()

	target, err := f.svc.CreateSharedAccount(f.ctx, creator, nil)
	require.NoError(t, err)
	assert.Equal(t, identity.Derive(creator, nil), target)
}

func TestAddClaimer(t *testing.T) {
	f := newFixture(t)
	target := f.newAccount(t, "treasury")
	claimer := domain.NewIdentityID()

	require.NoError(t, f.svc.AddClaimer(f.ctx, f.admin, target, claimer))

	claimers, err := f.svc.ListClaimers(f.ctx, target)
	require.NoError(t, err)
	assert.Equal(t, []domain.IdentityID{claimer}, claimers)
}

func TestAddClaimerGuards(t *testing.T) {
	f := newFixture(t)
	target := f.newAccount(t, "treasury")
	claimer := f.listedClaimer(t, target)

	err := f.svc.AddClaimer(f.ctx, f.admin, domain.NewIdentityID(), claimer)
	assert.ErrorIs(t, err, models.ErrNotFound)

	err = f.svc.AddClaimer(f.ctx, domain.NewIdentityID(), target, claimer)
	assert.ErrorIs(t, err, models.ErrNotAdmin)

	err = f.svc.AddClaimer(f.ctx, f.admin, target, claimer)
	assert.ErrorIs(t, err, models.ErrAlreadyListed)
}

func TestAdminMayListItself(t *testing.T) {
	f := newFixture(t)
	target := f.newAccount(t, "treasury")

	require.NoError(t, f.svc.AddClaimer(f.ctx, f.admin, target, f.admin))
	require.NoError(t, f.svc.ClaimCapability(f.ctx, f.admin, target))
}

func TestRemoveClaimerKeepsOrder(t *testing.T) {
	f := newFixture(t)
	target := f.newAccount(t, "treasury")
	a := f.listedClaimer(t, target)
	b := f.listedClaimer(t, target)
	c := f.listedClaimer(t, target)

	require.NoError(t, f.svc.RemoveClaimer(f.ctx, f.admin, target, b))

	claimers, err := f.svc.ListClaimers(f.ctx, target)
	require.NoError(t, err)
	assert.Equal(t, []domain.IdentityID{a, c}, claimers)
}

func TestRemoveClaimerGuards(t *testing.T) {
	f := newFixture(t)
	target := f.newAccount(t, "treasury")
	claimer := f.listedClaimer(t, target)

	err := f.svc.RemoveClaimer(f.ctx, f.admin, domain.NewIdentityID(), claimer)
	assert.ErrorIs(t, err, models.ErrNotFound)

	err = f.svc.RemoveClaimer(f.ctx, domain.NewIdentityID(), target, claimer)
	assert.ErrorIs(t, err, models.ErrNotAdmin)

	err = f.svc.RemoveClaimer(f.ctx, f.admin, target, domain.NewIdentityID())
	assert.ErrorIs(t, err, models.ErrNotListed)
}

func TestClaimCapability(t *testing.T) {
	f := newFixture(t)
	target := f.newAccount(t, "treasury")
	claimer := f.listedClaimer(t, target)

	require.NoError(t, f.svc.ClaimCapability(f.ctx, claimer, target))

	// The claim consumed the allow-list entry.
	claimers, err := f.svc.ListClaimers(f.ctx, target)
	require.NoError(t, err)
	assert.Empty(t, claimers)

	// Without a fresh listing the same principal cannot claim again.
	err = f.svc.ClaimCapability(f.ctx, claimer, target)
	assert.ErrorIs(t, err, models.ErrNotListed)
}

func TestClaimCapabilityGuards(t *testing.T) {
	f := newFixture(t)
	target := f.newAccount(t, "treasury")
	claimer := domain.NewIdentityID()

	err := f.svc.ClaimCapability(f.ctx, claimer, domain.NewIdentityID())
	assert.ErrorIs(t, err, models.ErrNotFound)

	err = f.svc.ClaimCapability(f.ctx, claimer, target)
	assert.ErrorIs(t, err, models.ErrNotListed)
}

func TestClaimCapabilityIsGloballyExclusive(t *testing.T) {
	f := newFixture(t)
	first := f.newAccount(t, "treasury")
	second := f.newAccount(t, "ops")
	claimer := f.listedClaimer(t, first)
	require.NoError(t, f.svc.AddClaimer(f.ctx, f.admin, second, claimer))

	require.NoError(t, f.svc.ClaimCapability(f.ctx, claimer, first))

	// One live capability per principal, across all shared accounts.
	err := f.svc.ClaimCapability(f.ctx, claimer, second)
	assert.ErrorIs(t, err, models.ErrAlreadyHoldingCapability)

	// The failed claim must not have consumed the second listing.
	claimers, err := f.svc.ListClaimers(f.ctx, second)
	require.NoError(t, err)
	assert.Equal(t, []domain.IdentityID{claimer}, claimers)
}

func TestAcquireAuthority(t *testing.T) {
	f := newFixture(t)
	target := f.newAccount(t, "treasury")
	claimer := f.listedClaimer(t, target)
	require.NoError(t, f.svc.ClaimCapability(f.ctx, claimer, target))

	now := time.Now()
	ctx := requestcontext.WithTime(f.ctx, now)

	proof, err := f.svc.AcquireAuthority(ctx, claimer, target)
	require.NoError(t, err)
	assert.NotEmpty(t, proof.Token)
	assert.Equal(t, target, proof.Target)
	assert.Equal(t, claimer, proof.Acquirer)
	assert.Equal(t, now.Add(DefaultProofTTL), proof.ExpiresAt)

	// The capability was consumed; redemption is single-use.
	_, err = f.svc.AcquireAuthority(ctx, claimer, target)
	assert.ErrorIs(t, err, models.ErrNoCapability)
}

func TestAcquireAuthorityWithoutCapability(t *testing.T) {
	f := newFixture(t)
	target := f.newAccount(t, "treasury")

	_, err := f.svc.AcquireAuthority(f.ctx, domain.NewIdentityID(), target)
	assert.ErrorIs(t, err, models.ErrNoCapability)
}

func TestAcquireAuthorityWrongTarget(t *testing.T) {
	f := newFixture(t)
	target := f.newAccount(t, "treasury")
	other := f.newAccount(t, "ops")
	claimer := f.listedClaimer(t, target)
	require.NoError(t, f.svc.ClaimCapability(f.ctx, claimer, target))

	_, err := f.svc.AcquireAuthority(f.ctx, claimer, other)
	assert.ErrorIs(t, err, models.ErrWrongTarget)

	// The mismatch left the capability intact and still redeemable.
	proof, err := f.svc.AcquireAuthority(f.ctx, claimer, target)
	require.NoError(t, err)
	assert.Equal(t, target, proof.Target)
}

func TestCountersTrackHistory(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Initialize(f.ctx, domain.NewIdentityID())
	require.NoError(t, err)

	first := f.newAccount(t, "treasury")
	f.newAccount(t, "ops")

	a := f.listedClaimer(t, first)
	b := f.listedClaimer(t, first)
	f.listedClaimer(t, first)

	require.NoError(t, f.svc.RemoveClaimer(f.ctx, f.admin, first, b))
	require.NoError(t, f.svc.ClaimCapability(f.ctx, a, first))
	_, err = f.svc.AcquireAuthority(f.ctx, a, first)
	require.NoError(t, err)

	counters, err := f.svc.Counters(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Counters{
		AccountsCreated: 2,
		ClaimersAdded:   3,
		ClaimersRemoved: 1,
		Claimed:         1,
		Redeemed:        1,
	}, counters)
}

func TestCountersIgnoreFailedOperations(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Initialize(f.ctx, domain.NewIdentityID())
	require.NoError(t, err)

	target := f.newAccount(t, "treasury")
	_, err = f.svc.CreateSharedAccount(f.ctx, f.admin, []byte("treasury"))
	require.ErrorIs(t, err, models.ErrAlreadyExists)

	err = f.svc.AddClaimer(f.ctx, domain.NewIdentityID(), target, domain.NewIdentityID())
	require.ErrorIs(t, err, models.ErrNotAdmin)

	counters, err := f.svc.Counters(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Counters{AccountsCreated: 1}, counters)
}

func TestOperationsWorkWithoutRegistry(t *testing.T) {
	// Bootstrap is a deployment precondition, not a protocol guard: the
	// factory and issuer still run, history just goes unrecorded.
	f := newFixture(t)
	target := f.newAccount(t, "treasury")
	claimer := f.listedClaimer(t, target)

	require.NoError(t, f.svc.ClaimCapability(f.ctx, claimer, target))
	_, err := f.svc.AcquireAuthority(f.ctx, claimer, target)
	require.NoError(t, err)
}

func TestAuditTrail(t *testing.T) {
	f := newFixture(t)
	target := f.newAccount(t, "treasury")
	claimer := f.listedClaimer(t, target)
	require.NoError(t, f.svc.ClaimCapability(f.ctx, claimer, target))
	_, err := f.svc.AcquireAuthority(f.ctx, claimer, target)
	require.NoError(t, err)

	created, err := f.sink.ListByKind(f.ctx, audit.KindAccountCreated)
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, f.admin, created[0].Actor)
	assert.Equal(t, target, created[0].Target)
	assert.False(t, created[0].Timestamp.IsZero())

	added, err := f.sink.ListByKind(f.ctx, audit.KindClaimerAdded)
	require.NoError(t, err)
	require.Len(t, added, 1)
	assert.Equal(t, claimer, added[0].Subject)

	claimed, err := f.sink.ListByKind(f.ctx, audit.KindClaimed)
	require.NoError(t, err)
	assert.Len(t, claimed, 1)

	redeemed, err := f.sink.ListByKind(f.ctx, audit.KindRedeemed)
	require.NoError(t, err)
	assert.Len(t, redeemed, 1)
}

func TestFailedOperationEmitsNoAudit(t *testing.T) {
	f := newFixture(t)
	target := f.newAccount(t, "treasury")

	err := f.svc.AddClaimer(f.ctx, domain.NewIdentityID(), target, domain.NewIdentityID())
	require.ErrorIs(t, err, models.ErrNotAdmin)

	added, err := f.sink.ListByKind(f.ctx, audit.KindClaimerAdded)
	require.NoError(t, err)
	assert.Empty(t, added)
}
