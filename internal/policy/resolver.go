// Package policy resolves the effective supported-versions snapshot for a
// server from the built-in baseline, the server's self-reported policy, and
// the cloud releases endpoint. The freshest timestamp wins.
package policy

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/relaychat/supportgate/internal/token"
	"github.com/relaychat/supportgate/model"
	"go.uber.org/zap"
)

// Source labels where a resolved snapshot came from.
const (
	SourceBuiltin = "builtin"
	SourceSample  = "sample"
	SourceServer  = "server"
	SourceCloud   = "cloud"
)

// CloudClient fetches the signed policy token for a workspace from the cloud
// releases endpoint.
type CloudClient interface {
	FetchSupportedVersions(ctx context.Context, workspaceUID, domain string) (string, error)
}

// Resolver chooses among built-in, server-supplied, and cloud-supplied
// version policies.
type Resolver struct {
	verifier   *token.Verifier
	cloud      CloudClient
	logger     *zap.Logger
	policyFile string

	mu            sync.RWMutex
	builtin       *model.SupportedVersions
	builtinSource string
}

// NewResolver creates a Resolver and eagerly loads the built-in policy.
// The built-in load is fail-open: when the policy file is missing or its
// token does not verify, the bundled sample policy takes its place.
func NewResolver(verifier *token.Verifier, cloud CloudClient, logger *zap.Logger, policyFile string) *Resolver {
	r := &Resolver{
		verifier:   verifier,
		cloud:      cloud,
		logger:     logger,
		policyFile: policyFile,
	}
	r.ReloadBuiltin()
	return r
}

// ReloadBuiltin re-reads and re-verifies the built-in policy token file.
func (r *Resolver) ReloadBuiltin() {
	policy, source := r.loadBuiltin()

	r.mu.Lock()
	r.builtin = policy
	r.builtinSource = source
	r.mu.Unlock()
}

// Builtin returns the current baseline policy and its source label.
func (r *Resolver) Builtin() (*model.SupportedVersions, string) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.builtin, r.builtinSource
}

func (r *Resolver) loadBuiltin() (*model.SupportedVersions, string) {
	content, err := os.ReadFile(r.policyFile)
	if err != nil {
		r.logger.Warn("built-in policy file unavailable, using sample policy",
			zap.String("path", r.policyFile), zap.Error(err))
		return SamplePolicy(), SourceSample
	}

	decoded, err := r.verifier.Decode(string(content))
	if err != nil {
		r.logger.Warn("built-in policy token failed verification, using sample policy",
			zap.String("path", r.policyFile), zap.Error(err))
		return SamplePolicy(), SourceSample
	}

	return decoded, SourceBuiltin
}

// Resolve returns the effective policy for a server along with its source
// label. It never fails: every decode or fetch problem falls back to the
// freshest snapshot resolved so far.
func (r *Resolver) Resolve(ctx context.Context, server *model.Server) (*model.SupportedVersions, string) {
	best, bestSource := r.Builtin()

	if server == nil || server.SupportedVersionsToken == "" || server.WorkspaceUID == "" {
		return best, bestSource
	}

	// Server self-reported policy
	if serverPolicy, err := r.verifier.Decode(server.SupportedVersionsToken); err != nil {
		r.logger.Warn("server-reported policy token failed verification",
			zap.String("url", server.URL), zap.Error(err))
	} else if !newerThan(best, serverPolicy) {
		best, bestSource = serverPolicy, SourceServer
	}

	// Cloud policy, keyed by workspace identifier
	if r.cloud != nil {
		cloudToken, err := r.cloud.FetchSupportedVersions(ctx, server.WorkspaceUID, server.URL)
		if err != nil {
			r.logger.Warn("cloud policy fetch failed",
				zap.String("workspace_uid", server.WorkspaceUID), zap.Error(err))
			return best, bestSource
		}

		cloudPolicy, err := r.verifier.Decode(cloudToken)
		if err != nil {
			r.logger.Warn("cloud policy token failed verification",
				zap.String("workspace_uid", server.WorkspaceUID), zap.Error(err))
			return best, bestSource
		}

		// Not-less-than comparison: a tie favors the cloud snapshot
		if !newerThan(best, cloudPolicy) {
			best, bestSource = cloudPolicy, SourceCloud
		}
	}

	return best, bestSource
}

// newerThan reports whether a is strictly newer than b, comparing parsed
// timestamps rather than raw strings.
func newerThan(a, b *model.SupportedVersions) bool {
	return a.TimestampTime().After(b.TimestampTime())
}

// SamplePolicy is the bundled fallback used when the built-in policy token
// cannot be decoded. It keeps the evaluator operational with a conservative
// snapshot.
func SamplePolicy() *model.SupportedVersions {
	return &model.SupportedVersions{
		Timestamp: "2024-01-01T00:00:00Z",
		Messages: []model.Message{
			{
				RemainingDays: 15,
				Title:         "message_token_expiration_title",
				Subtitle:      "message_token_expiration_subtitle",
				Description:   "message_token_expiration_description",
				Type:          model.MessageTypeWarning,
				Link:          "https://releases.relay.chat",
			},
		},
		Versions: []model.Version{
			{Version: "7.0.0", Expiration: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)},
			{Version: "6.5.0", Expiration: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
			{Version: "6.4.0", Expiration: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
		},
	}
}
