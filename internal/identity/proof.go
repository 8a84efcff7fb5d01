package identity

import (
	"crypto/ed25519"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"custodia/pkg/domain"
)

const proofIssuer = "custodia"

// Proof is a one-time demonstration of a shared account's authority. It is
// minted on redemption, never persisted, and expires within seconds; a fresh
// claim-and-redeem cycle is the only way to obtain another.
type Proof struct {
	Token     string            `json:"token"`
	Target    domain.IdentityID `json:"target"`
	Acquirer  domain.IdentityID `json:"acquirer"`
	ExpiresAt time.Time         `json:"expires_at"`
}

// MintProof signs a short-lived EdDSA token binding the acquirer to the
// target account's authority source.
func MintProof(source []byte, target, acquirer domain.IdentityID, now time.Time, ttl time.Duration) (*Proof, error) {
	key, err := SigningKey(source)
	if err != nil {
		return nil, err
	}

	expiresAt := now.Add(ttl)
	claims := jwt.RegisteredClaims{
		Issuer:    proofIssuer,
		Subject:   target.String(),
		Audience:  jwt.ClaimStrings{acquirer.String()},
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims).SignedString(key)
	if err != nil {
		return nil, fmt.Errorf("sign authority proof: %w", err)
	}

	return &Proof{
		Token:     token,
		Target:    target,
		Acquirer:  acquirer,
		ExpiresAt: expiresAt,
	}, nil
}

// VerifyProof checks a proof token against an account's verifying key and
// confirms it was minted for the expected target.
func VerifyProof(key ed25519.PublicKey, token string, target domain.IdentityID) error {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{},
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodEd25519); !ok {
				return nil, fmt.Errorf("unexpected signing method %s", t.Method.Alg())
			}
			return key, nil
		},
		jwt.WithIssuer(proofIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return fmt.Errorf("verify authority proof: %w", err)
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject != target.String() {
		return fmt.Errorf("authority proof targets a different account")
	}
	return nil
}
