// Package identity implements the deterministic address deriver and the
// authority-source key material for shared accounts.
package identity

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/google/uuid"
	"golang.org/x/crypto/hkdf"

	"custodia/pkg/domain"
)

const (
	registrySeed      = "custodia/registry/v1"
	hkdfInfoAuthority = "custodia/authority/signing/v1"
)

// Derive maps (parent, seed) to the identity addressed by that pair. The
// mapping is deterministic and collision-resistant: distinct pairs produce
// distinct identities.
func Derive(parent domain.IdentityID, seed []byte) domain.IdentityID {
	return domain.IdentityID(uuid.NewSHA1(uuid.UUID(parent), seed))
}

// ModuleIdentity returns the fixed identity that holds the Registry record
// for a given installer.
func ModuleIdentity(installer domain.IdentityID) domain.IdentityID {
	return Derive(installer, []byte(registrySeed))
}

// NewAuthoritySource returns fresh secret key material for an identity's
// authority source. The raw bytes are stored; signing keys are expanded on
// demand and never persisted.
func NewAuthoritySource() ([]byte, error) {
	source := make([]byte, 32)
	if _, err := rand.Read(source); err != nil {
		return nil, fmt.Errorf("generate authority source: %w", err)
	}
	return source, nil
}

// SigningKey expands an authority source into its ed25519 signing key.
func SigningKey(source []byte) (ed25519.PrivateKey, error) {
	seed, err := hkdfExpand(source, hkdfInfoAuthority, ed25519.SeedSize)
	if err != nil {
		return nil, err
	}
	return ed25519.NewKeyFromSeed(seed), nil
}

// VerifyingKey returns the public half of an authority source's signing key.
func VerifyingKey(source []byte) (ed25519.PublicKey, error) {
	key, err := SigningKey(source)
	if err != nil {
		return nil, err
	}
	return key.Public().(ed25519.PublicKey), nil
}

func hkdfExpand(secret []byte, info string, outLen int) ([]byte, error) {
	reader := hkdf.New(sha256.New, secret, nil, []byte(info))
	out := make([]byte, outLen)
	if _, err := io.ReadFull(reader, out); err != nil {
		return nil, fmt.Errorf("hkdf expand: %w", err)
	}
	return out, nil
}
