package token

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/relaychat/supportgate/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signPolicy(t *testing.T, key *rsa.PrivateKey, policy model.SupportedVersions) string {
	t.Helper()
	claims := &PolicyClaims{SupportedVersions: policy}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)
	return signed
}

func TestDecode_ValidToken(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	policy := model.SupportedVersions{
		Timestamp: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC).Format(time.RFC3339),
		Versions: []model.Version{
			{Version: "6.5.0", Expiration: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
		},
	}

	v := NewVerifierWithKey(&key.PublicKey)
	decoded, err := v.Decode(signPolicy(t, key, policy))
	require.NoError(t, err)

	assert.Equal(t, policy.Timestamp, decoded.Timestamp)
	require.Len(t, decoded.Versions, 1)
	assert.Equal(t, "6.5.0", decoded.Versions[0].Version)
	assert.True(t, decoded.Versions[0].Expiration.Equal(policy.Versions[0].Expiration))
}

func TestDecode_RejectsWrongAlgorithm(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	// HS256 token signed with an arbitrary shared secret
	claims := &PolicyClaims{SupportedVersions: model.SupportedVersions{Timestamp: "2025-06-01T00:00:00Z"}}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("not-a-policy-key"))
	require.NoError(t, err)

	v := NewVerifierWithKey(&key.PublicKey)
	_, err = v.Decode(signed)
	assert.Error(t, err)
}

func TestDecode_RejectsWrongKey(t *testing.T) {
	signingKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	otherKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	signed := signPolicy(t, signingKey, model.SupportedVersions{Timestamp: "2025-06-01T00:00:00Z"})

	v := NewVerifierWithKey(&otherKey.PublicKey)
	_, err = v.Decode(signed)
	assert.Error(t, err)
}

func TestDecode_RejectsMalformedToken(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	v := NewVerifierWithKey(&key.PublicKey)
	for _, tok := range []string{"", "garbage", "a.b", "a.b.c"} {
		_, err := v.Decode(tok)
		assert.Error(t, err, "token %q should not decode", tok)
	}
}

func TestDecode_RejectsTamperedPayload(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	signed := signPolicy(t, key, model.SupportedVersions{Timestamp: "2025-06-01T00:00:00Z"})

	// Flip a character inside the payload segment
	tampered := []byte(signed)
	mid := len(tampered) / 2
	if tampered[mid] == 'A' {
		tampered[mid] = 'B'
	} else {
		tampered[mid] = 'A'
	}

	v := NewVerifierWithKey(&key.PublicKey)
	_, err = v.Decode(string(tampered))
	assert.Error(t, err)
}

func TestNewVerifier_ParsesEmbeddedKey(t *testing.T) {
	v, err := NewVerifier()
	require.NoError(t, err)
	assert.NotNil(t, v)
}
