package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/oauth2"

	"github.com/stellarshank/gdrive-mcp/internal/logging"
)

// expiryDelta treats tokens expiring within this window as already expired,
// so a token returned by the provider stays usable for the immediate call.
const expiryDelta = 10 * time.Second

// OAuth result labels for metrics.
const (
	resultSuccess = "success"
	resultFailure = "failure"
)

// MetricsRecorder records OAuth lifecycle metrics. Satisfied by
// *instrumentation.Metrics; a nil recorder disables recording.
type MetricsRecorder interface {
	RecordOAuthAuth(ctx context.Context, result string)
	RecordOAuthTokenRefresh(ctx context.Context, result string)
}

// Provider produces a valid, non-expired OAuth2 token on demand, applying
// the cheapest sufficient recovery path:
//
//  1. A stored valid token is returned as-is, with no network calls.
//  2. A stored expired token with a refresh token gets exactly one refresh
//     exchange; the refreshed token is persisted and returned.
//  3. Otherwise (no token, no refresh token, or refresh failure) the
//     interactive browser flow runs, and the fresh token is persisted.
//
// A Provider is constructed once per process and shared by all tool
// handlers; there is no other credential state.
type Provider struct {
	cfg     *oauth2.Config
	store   Store
	logger  *slog.Logger
	metrics MetricsRecorder

	// authorize runs the interactive flow; replaceable in tests.
	authorize func(ctx context.Context) (*oauth2.Token, error)

	// now is the clock used for expiry checks; replaceable in tests.
	now func() time.Time
}

// NewProvider creates a credential provider backed by the given OAuth2
// client configuration and token store. metrics may be nil.
func NewProvider(cfg *oauth2.Config, store Store, logger *slog.Logger, metrics MetricsRecorder) *Provider {
	if logger == nil {
		logger = slog.Default()
	}

	p := &Provider{
		cfg:     cfg,
		store:   store,
		logger:  logger,
		metrics: metrics,
		now:     time.Now,
	}
	p.authorize = func(ctx context.Context) (*oauth2.Token, error) {
		return Authorize(ctx, cfg, OpenBrowser, logger)
	}
	return p
}

// Token returns a token guaranteed valid at the instant of return, or a
// fatal error if interactive authorization cannot complete.
func (p *Provider) Token(ctx context.Context) (*oauth2.Token, error) {
	tok, ok := p.store.Load()
	if ok && p.valid(tok) {
		p.logger.Debug("using stored token", slog.Time("expiry", tok.Expiry))
		return tok, nil
	}

	if ok && tok.RefreshToken != "" {
		refreshed, err := p.refresh(ctx, tok)
		if err == nil {
			return refreshed, nil
		}
		// Refresh failure falls through to interactive re-authorization.
		// This does not distinguish a revoked refresh token from a
		// transient network error; a transient failure costs the user an
		// unnecessary consent round-trip.
		p.logger.Warn("token refresh failed, falling back to interactive authorization",
			logging.Err(err))
	}

	return p.interactiveAuth(ctx)
}

// Reauthorize runs the interactive authorization unconditionally,
// replacing any stored token on success.
func (p *Provider) Reauthorize(ctx context.Context) error {
	_, err := p.interactiveAuth(ctx)
	return err
}

// refresh performs a single refresh exchange and persists the result.
func (p *Provider) refresh(ctx context.Context, tok *oauth2.Token) (*oauth2.Token, error) {
	p.logger.Info("refreshing expired token")

	refreshed, err := p.cfg.TokenSource(ctx, tok).Token()
	if err != nil {
		p.recordRefresh(ctx, resultFailure)
		return nil, fmt.Errorf("refresh exchange failed: %w", err)
	}
	p.recordRefresh(ctx, resultSuccess)

	// Google omits the refresh token from refresh responses; carry the
	// original forward so the next refresh still works.
	if refreshed.RefreshToken == "" {
		refreshed.RefreshToken = tok.RefreshToken
	}

	if err := p.store.Save(refreshed); err != nil {
		p.logger.Warn("failed to persist refreshed token", logging.Err(err))
	}

	p.logger.Info("token refreshed", slog.Time("expiry", refreshed.Expiry))
	return refreshed, nil
}

// interactiveAuth runs the browser flow and persists the fresh token.
func (p *Provider) interactiveAuth(ctx context.Context) (*oauth2.Token, error) {
	p.logger.Info("no usable token, starting interactive authorization")

	tok, err := p.authorize(ctx)
	if err != nil {
		p.recordAuth(ctx, resultFailure)
		return nil, fmt.Errorf("interactive authorization failed: %w", err)
	}
	p.recordAuth(ctx, resultSuccess)

	if err := p.store.Save(tok); err != nil {
		p.logger.Warn("failed to persist token", logging.Err(err))
	}

	return tok, nil
}

// valid reports whether the token is usable right now: it has an access
// token and is not within expiryDelta of expiring. A zero expiry means the
// token does not expire.
func (p *Provider) valid(tok *oauth2.Token) bool {
	if tok == nil || tok.AccessToken == "" {
		return false
	}
	if tok.Expiry.IsZero() {
		return true
	}
	return tok.Expiry.After(p.now().Add(expiryDelta))
}

func (p *Provider) recordAuth(ctx context.Context, result string) {
	if p.metrics != nil {
		p.metrics.RecordOAuthAuth(ctx, result)
	}
}

func (p *Provider) recordRefresh(ctx context.Context, result string) {
	if p.metrics != nil {
		p.metrics.RecordOAuthTokenRefresh(ctx, result)
	}
}
