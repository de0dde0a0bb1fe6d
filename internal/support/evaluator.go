// Package support implements the top-level version-support evaluation: it
// derives a compatibility range from a server's semantic version, matches it
// against the resolved policy, and dispatches expiration messaging.
package support

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/relaychat/supportgate/internal/expiration"
	"github.com/relaychat/supportgate/internal/i18n"
	"github.com/relaychat/supportgate/internal/policy"
	"github.com/relaychat/supportgate/model"
	"go.uber.org/zap"
)

// Dispatcher receives the expiration-message side effect of an evaluation.
// The message is nil when the display-window guard suppressed the banner.
type Dispatcher interface {
	DispatchExpirationMessage(ctx context.Context, serverURL string, message *model.TranslatedMessage) error
}

// Evaluator orchestrates policy resolution, range matching, message
// selection, and dispatch.
type Evaluator struct {
	Resolver   *policy.Resolver
	Dispatcher Dispatcher
	Dictionary model.Dictionary
	Language   string
	Logger     *zap.Logger
}

// NewEvaluator creates an Evaluator with the bundled dictionary as base.
func NewEvaluator(resolver *policy.Resolver, dispatcher Dispatcher, language string, logger *zap.Logger) *Evaluator {
	return &Evaluator{
		Resolver:   resolver,
		Dispatcher: dispatcher,
		Dictionary: i18n.BuiltinDictionary(),
		Language:   language,
		Logger:     logger,
	}
}

// TildeRange derives the compatibility range for a server version: the first
// two dot-separated components form a tilde constraint, so "6.5.3" becomes
// "~6.5" and matches any patch release of the 6.5 line.
func TildeRange(version string) (*semver.Constraints, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(version), "v")
	if trimmed == "" {
		return nil, fmt.Errorf("empty version")
	}

	parts := strings.SplitN(trimmed, ".", 3)
	var rangeExpr string
	if len(parts) >= 2 {
		rangeExpr = fmt.Sprintf("~%s.%s", parts[0], parts[1])
	} else {
		rangeExpr = "~" + parts[0]
	}

	constraint, err := semver.NewConstraint(rangeExpr)
	if err != nil {
		return nil, fmt.Errorf("cannot derive range from version %q: %w", version, err)
	}
	return constraint, nil
}

// IsServerVersionSupported reports whether the server's version is still
// supported under the resolved policy as of the given instant, dispatching
// the applicable expiration message as a side effect.
//
// A version that matches the range but whose expiration has passed dispatches
// nothing and falls through to the exception list; this keeps
// workspace-specific support extensions effective past the general policy.
func (e *Evaluator) IsServerVersionSupported(ctx context.Context, server *model.Server, now time.Time) (bool, error) {
	if server == nil || server.Version == "" {
		return false, nil
	}

	resolved, source := e.Resolver.Resolve(ctx, server)
	e.Logger.Debug("resolved supported-versions policy",
		zap.String("url", server.URL), zap.String("source", source))

	constraint, err := TildeRange(server.Version)
	if err != nil {
		e.Logger.Warn("server version is not semver-compatible",
			zap.String("url", server.URL), zap.String("version", server.Version), zap.Error(err))
		return false, nil
	}

	if match := findMatch(resolved.Versions, constraint); match != nil {
		if match.Expiration.After(now) {
			e.dispatch(ctx, server, resolved, match, resolved.Messages, now)
			return true, nil
		}
		// Expired general match: no dispatch, fall through to exceptions
	}

	if resolved.Exceptions != nil {
		fallback := resolved.Exceptions.Messages
		if len(fallback) == 0 {
			fallback = resolved.Messages
		}
		if match := findMatch(resolved.Exceptions.Versions, constraint); match != nil && match.Expiration.After(now) {
			e.dispatch(ctx, server, resolved, match, fallback, now)
			return true, nil
		}
	}

	return false, nil
}

// findMatch returns the first policy entry satisfying the constraint.
// List order is policy-defined and must not be re-sorted.
func findMatch(versions []model.Version, constraint *semver.Constraints) *model.Version {
	for i := range versions {
		v, err := semver.NewVersion(versions[i].Version)
		if err != nil {
			continue
		}
		if constraint.Check(v) {
			return &versions[i]
		}
	}
	return nil
}

// dispatch selects and translates the expiration message for a matched
// version and pushes the result to the sink. The per-version message list
// wins over the supplied fallback; the policy dictionary wins over the base
// dictionary.
func (e *Evaluator) dispatch(ctx context.Context, server *model.Server, resolved *model.SupportedVersions, match *model.Version, fallback []model.Message, now time.Time) {
	messages := match.Messages
	if len(messages) == 0 {
		messages = fallback
	}

	dict := e.Dictionary
	if len(resolved.I18n) > 0 {
		dict = resolved.I18n
	}

	selected := expiration.Select(messages, match.Expiration, now)
	var translated *model.TranslatedMessage
	if selected != nil {
		translated = i18n.Translate(dict, selected, match.Expiration, e.Language, server.Title, server.URL, now)
	}

	if e.Dispatcher == nil {
		return
	}
	if err := e.Dispatcher.DispatchExpirationMessage(ctx, server.URL, translated); err != nil {
		e.Logger.Warn("failed to dispatch expiration message",
			zap.String("url", server.URL), zap.Error(err))
	}
}
