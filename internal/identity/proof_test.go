package identity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"custodia/pkg/domain"
)

func TestMintAndVerifyProof(t *testing.T) {
	source, err := NewAuthoritySource()
	require.NoError(t, err)
	target := domain.NewIdentityID()
	acquirer := domain.NewIdentityID()
	now := time.Now()

	proof, err := MintProof(source, target, acquirer, now, 30*time.Second)
	require.NoError(t, err)
	assert.NotEmpty(t, proof.Token)
	assert.Equal(t, target, proof.Target)
	assert.Equal(t, acquirer, proof.Acquirer)
	assert.Equal(t, now.Add(30*time.Second), proof.ExpiresAt)

	key, err := VerifyingKey(source)
	require.NoError(t, err)
	assert.NoError(t, VerifyProof(key, proof.Token, target))
}

func TestVerifyProofRejectsOtherTarget(t *testing.T) {
	source, err := NewAuthoritySource()
	require.NoError(t, err)
	target := domain.NewIdentityID()

	proof, err := MintProof(source, target, domain.NewIdentityID(), time.Now(), time.Minute)
	require.NoError(t, err)

	key, err := VerifyingKey(source)
	require.NoError(t, err)
	assert.Error(t, VerifyProof(key, proof.Token, domain.NewIdentityID()))
}

func TestVerifyProofRejectsForeignKey(t *testing.T) {
	source, err := NewAuthoritySource()
	require.NoError(t, err)
	foreign, err := NewAuthoritySource()
	require.NoError(t, err)
	target := domain.NewIdentityID()

	proof, err := MintProof(source, target, domain.NewIdentityID(), time.Now(), time.Minute)
	require.NoError(t, err)

	key, err := VerifyingKey(foreign)
	require.NoError(t, err)
	assert.Error(t, VerifyProof(key, proof.Token, target))
}

func TestVerifyProofRejectsExpired(t *testing.T) {
	source, err := NewAuthoritySource()
	require.NoError(t, err)
	target := domain.NewIdentityID()

	proof, err := MintProof(source, target, domain.NewIdentityID(),
		time.Now().Add(-time.Hour), time.Second)
	require.NoError(t, err)

	key, err := VerifyingKey(source)
	require.NoError(t, err)
	assert.Error(t, VerifyProof(key, proof.Token, target))
}
