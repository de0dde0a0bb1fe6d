// Package token verifies and decodes signed supported-versions policy
// tokens. Only RS256 against the pinned public key is accepted.
package token

import (
	"crypto/rsa"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/relaychat/supportgate/model"
)

// policyPublicKeyPEM is the pinned key used to sign policy snapshots.
// Rotating it requires shipping a new build.
const policyPublicKeyPEM = `-----BEGIN PUBLIC KEY-----
MIICIjANBgkqhkiG9w0BAQEFAAOCAg8AMIICCgKCAgEAtUvR8XgMm3972ROOqd2L
RfvzYS+bJAcLLQGPTxkqeoAMbvMBpKB6aWtZsWYcEOpIXBQNLIO/7E2T3JH6Uxe5
2TNyKDJdM6e9qUhyCDJ3Fa8Ln5VEzhC7euVCBTGqpTWIqsb+VE7c+30t37PhgDaj
Rzi2fz4w2PaZ6iEcEa3u44c8ZCJ2SjuvG9Ju81eJMvZhpOgtzbG5vQCrlju4Y6tS
JDc3neWjlS0nMnOeYwAmoX6eZ5H5kdyO/OyBYx8JJGxZC/KkrBYntcwGFj2xLwU6
1KXc3vEOSt1fCcMaIaUjD0Cbv+7ckAnNzR9PL1SpR70UdlXz70tF7oYuvwgQ1mXI
IyMM8dEMeeNNuIkvnny3NbddOwN61iG6ECwETKFH65DdU+qTQIVOxm8uHE8DAALW
OXljhzQYHzughMFdGzAQX4fPGTwbMfxqaLpVGrVWS7DqNbX2Sx7DKBW7j1LfyzlM
SyWjUalhrhaIpnHMXWhiyJ9/SWZSomOsRuMes0m+RBs8DVypqwhtzP4fginnbxpQ
bCK4haoCOFQ0kzcQXc3qIRu7PKRPd0CatKJahpstdBpmvOJuAqqoaLLfI244uVOh
K72/y7KYsHO9dHsncVvHMlQMxAjurcNORrrZnGcQmPnJE4GAWcC+8iajTo3El5vP
0Jw8oofXupC9HuYVANnnRacCAwEAAQ==
-----END PUBLIC KEY-----`

// PolicyClaims are the JWT claims of a signed policy snapshot. The policy
// payload rides alongside the registered claims.
type PolicyClaims struct {
	model.SupportedVersions
	jwt.RegisteredClaims
}

// Verifier decodes signed policy tokens against a fixed RSA public key.
type Verifier struct {
	key *rsa.PublicKey
}

// NewVerifier returns a Verifier bound to the pinned policy signing key.
func NewVerifier() (*Verifier, error) {
	key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(policyPublicKeyPEM))
	if err != nil {
		return nil, fmt.Errorf("failed to parse policy public key: %w", err)
	}
	return &Verifier{key: key}, nil
}

// NewVerifierWithKey returns a Verifier bound to an arbitrary key.
func NewVerifierWithKey(key *rsa.PublicKey) *Verifier {
	return &Verifier{key: key}
}

// Decode validates a policy token and returns its payload. It fails on a bad
// signature, a malformed token, or any signing method other than RS256.
func (v *Verifier) Decode(tokenString string) (*model.SupportedVersions, error) {
	claims := &PolicyClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method: RS256 only, nothing else is trusted
		if token.Method.Alg() != jwt.SigningMethodRS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.key, nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid policy token")
	}

	return &claims.SupportedVersions, nil
}
