package policy

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/relaychat/supportgate/internal/token"
	"github.com/relaychat/supportgate/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeCloud struct {
	token string
	err   error
	calls int
}

func (f *fakeCloud) FetchSupportedVersions(_ context.Context, _, _ string) (string, error) {
	f.calls++
	return f.token, f.err
}

func testKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

func sign(t *testing.T, key *rsa.PrivateKey, policy model.SupportedVersions) string {
	t.Helper()
	claims := &token.PolicyClaims{SupportedVersions: policy}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)
	return signed
}

func writePolicyFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "supportedVersions.jwt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func policyAt(ts string) model.SupportedVersions {
	return model.SupportedVersions{
		Timestamp: ts,
		Versions:  []model.Version{{Version: "6.5.0"}},
	}
}

func TestResolver_BuiltinFromFile(t *testing.T) {
	key := testKey(t)
	verifier := token.NewVerifierWithKey(&key.PublicKey)
	path := writePolicyFile(t, sign(t, key, policyAt("2025-05-01T00:00:00Z")))

	r := NewResolver(verifier, nil, zap.NewNop(), path)

	builtin, source := r.Builtin()
	assert.Equal(t, SourceBuiltin, source)
	assert.Equal(t, "2025-05-01T00:00:00Z", builtin.Timestamp)
}

func TestResolver_SampleFallbackOnMissingFile(t *testing.T) {
	key := testKey(t)
	verifier := token.NewVerifierWithKey(&key.PublicKey)

	r := NewResolver(verifier, nil, zap.NewNop(), filepath.Join(t.TempDir(), "absent.jwt"))

	builtin, source := r.Builtin()
	assert.Equal(t, SourceSample, source)
	assert.NotEmpty(t, builtin.Versions)
}

func TestResolver_SampleFallbackOnBadSignature(t *testing.T) {
	signingKey := testKey(t)
	otherKey := testKey(t)
	verifier := token.NewVerifierWithKey(&otherKey.PublicKey)
	path := writePolicyFile(t, sign(t, signingKey, policyAt("2025-05-01T00:00:00Z")))

	// Must not panic or propagate: fail-open to the sample policy.
	r := NewResolver(verifier, nil, zap.NewNop(), path)

	builtin, source := r.Builtin()
	assert.Equal(t, SourceSample, source)
	assert.NotEmpty(t, builtin.Versions)
}

func TestResolve_NoServerPolicyReturnsBaseline(t *testing.T) {
	key := testKey(t)
	verifier := token.NewVerifierWithKey(&key.PublicKey)
	path := writePolicyFile(t, sign(t, key, policyAt("2025-05-01T00:00:00Z")))
	cloud := &fakeCloud{}

	r := NewResolver(verifier, cloud, zap.NewNop(), path)

	tests := []struct {
		name   string
		server *model.Server
	}{
		{"nil server", nil},
		{"no policy token", &model.Server{URL: "https://a.example", WorkspaceUID: "uid-1"}},
		{"no workspace uid", &model.Server{URL: "https://a.example", SupportedVersionsToken: "tok"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolved, source := r.Resolve(context.Background(), tt.server)
			assert.Equal(t, SourceBuiltin, source)
			assert.Equal(t, "2025-05-01T00:00:00Z", resolved.Timestamp)
		})
	}
	assert.Zero(t, cloud.calls, "cloud must not be consulted without a server policy and workspace uid")
}

func TestResolve_NewestTimestampWins(t *testing.T) {
	key := testKey(t)
	verifier := token.NewVerifierWithKey(&key.PublicKey)
	path := writePolicyFile(t, sign(t, key, policyAt("2025-05-01T00:00:00Z")))

	tests := []struct {
		name       string
		serverTS   string
		cloudTS    string
		wantSource string
		wantTS     string
	}{
		{"cloud newest", "2025-04-01T00:00:00Z", "2025-06-01T00:00:00Z", SourceCloud, "2025-06-01T00:00:00Z"},
		{"builtin newest", "2025-01-01T00:00:00Z", "2025-02-01T00:00:00Z", SourceBuiltin, "2025-05-01T00:00:00Z"},
		{"server newest", "2025-07-01T00:00:00Z", "2025-06-01T00:00:00Z", SourceServer, "2025-07-01T00:00:00Z"},
		{"tie favors cloud", "2025-01-01T00:00:00Z", "2025-05-01T00:00:00Z", SourceCloud, "2025-05-01T00:00:00Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cloud := &fakeCloud{token: sign(t, key, policyAt(tt.cloudTS))}
			r := NewResolver(verifier, cloud, zap.NewNop(), path)

			server := &model.Server{
				URL:                    "https://a.example",
				WorkspaceUID:           "uid-1",
				SupportedVersionsToken: sign(t, key, policyAt(tt.serverTS)),
			}

			resolved, source := r.Resolve(context.Background(), server)
			assert.Equal(t, tt.wantSource, source)
			assert.Equal(t, tt.wantTS, resolved.Timestamp)
		})
	}
}

func TestResolve_CloudFailureFallsBack(t *testing.T) {
	key := testKey(t)
	verifier := token.NewVerifierWithKey(&key.PublicKey)
	path := writePolicyFile(t, sign(t, key, policyAt("2025-05-01T00:00:00Z")))

	server := &model.Server{
		URL:                    "https://a.example",
		WorkspaceUID:           "uid-1",
		SupportedVersionsToken: sign(t, key, policyAt("2025-04-01T00:00:00Z")),
	}

	t.Run("fetch error", func(t *testing.T) {
		cloud := &fakeCloud{err: fmt.Errorf("connection refused")}
		r := NewResolver(verifier, cloud, zap.NewNop(), path)

		resolved, source := r.Resolve(context.Background(), server)
		assert.Equal(t, SourceBuiltin, source)
		assert.Equal(t, "2025-05-01T00:00:00Z", resolved.Timestamp)
	})

	t.Run("bad cloud token", func(t *testing.T) {
		cloud := &fakeCloud{token: "not-a-token"}
		r := NewResolver(verifier, cloud, zap.NewNop(), path)

		resolved, source := r.Resolve(context.Background(), server)
		assert.Equal(t, SourceBuiltin, source)
		assert.Equal(t, "2025-05-01T00:00:00Z", resolved.Timestamp)
	})
}

func TestResolve_UnparseableTimestampNeverWins(t *testing.T) {
	key := testKey(t)
	verifier := token.NewVerifierWithKey(&key.PublicKey)
	path := writePolicyFile(t, sign(t, key, policyAt("2025-05-01T00:00:00Z")))

	cloud := &fakeCloud{token: sign(t, key, policyAt("20250601"))}
	r := NewResolver(verifier, cloud, zap.NewNop(), path)

	server := &model.Server{
		URL:                    "https://a.example",
		WorkspaceUID:           "uid-1",
		SupportedVersionsToken: sign(t, key, policyAt("2025-04-01T00:00:00Z")),
	}

	resolved, source := r.Resolve(context.Background(), server)
	assert.Equal(t, SourceBuiltin, source)
	assert.Equal(t, "2025-05-01T00:00:00Z", resolved.Timestamp)
}
