package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

// memStore is an in-memory Store for provider tests.
type memStore struct {
	token *oauth2.Token
	saves int
}

func (s *memStore) Load() (*oauth2.Token, bool) {
	if s.token == nil {
		return nil, false
	}
	return s.token, true
}

func (s *memStore) Save(tok *oauth2.Token) error {
	s.token = tok
	s.saves++
	return nil
}

// fakeMetrics counts recorded OAuth events.
type fakeMetrics struct {
	authResults    []string
	refreshResults []string
}

func (m *fakeMetrics) RecordOAuthAuth(_ context.Context, result string) {
	m.authResults = append(m.authResults, result)
}

func (m *fakeMetrics) RecordOAuthTokenRefresh(_ context.Context, result string) {
	m.refreshResults = append(m.refreshResults, result)
}

// newRefreshServer returns a test token endpoint. Each refresh request
// increments calls and responds with status; on 200 it returns a fresh
// access token.
func newRefreshServer(t *testing.T, calls *atomic.Int64, status int) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"refreshed-access","token_type":"Bearer","expires_in":3600}`))
	}))
	t.Cleanup(srv.Close)

	return srv
}

func newTestProviderConfig(tokenURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		Endpoint: oauth2.Endpoint{
			AuthURL:  tokenURL + "/auth",
			TokenURL: tokenURL + "/token",
			// Pin the auth style like google.Endpoint does; otherwise
			// auto-detect retries a failed exchange with the other style
			// and the endpoint sees two requests instead of one.
			AuthStyle: oauth2.AuthStyleInParams,
		},
		Scopes: Scopes,
	}
}

func TestProvider_ValidTokenReturnedWithoutNetwork(t *testing.T) {
	var refreshCalls atomic.Int64
	srv := newRefreshServer(t, &refreshCalls, http.StatusOK)

	stored := &oauth2.Token{
		AccessToken:  "valid-access",
		RefreshToken: "refresh",
		Expiry:       time.Now().Add(time.Hour),
	}
	store := &memStore{token: stored}

	var authCalls atomic.Int64
	p := NewProvider(newTestProviderConfig(srv.URL), store, nil, nil)
	p.authorize = func(ctx context.Context) (*oauth2.Token, error) {
		authCalls.Add(1)
		return nil, errors.New("should not be called")
	}

	tok, err := p.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "valid-access", tok.AccessToken)
	assert.Zero(t, refreshCalls.Load(), "valid token must not trigger a refresh")
	assert.Zero(t, authCalls.Load(), "valid token must not trigger interactive auth")
	assert.Zero(t, store.saves, "valid token must not be re-persisted")
}

func TestProvider_ExpiredRefreshableTokenRefreshedOnce(t *testing.T) {
	var refreshCalls atomic.Int64
	srv := newRefreshServer(t, &refreshCalls, http.StatusOK)

	store := &memStore{token: &oauth2.Token{
		AccessToken:  "stale-access",
		RefreshToken: "refresh-789",
		Expiry:       time.Now().Add(-time.Hour),
	}}
	metrics := &fakeMetrics{}

	var authCalls atomic.Int64
	p := NewProvider(newTestProviderConfig(srv.URL), store, nil, metrics)
	p.authorize = func(ctx context.Context) (*oauth2.Token, error) {
		authCalls.Add(1)
		return nil, errors.New("should not be called")
	}

	tok, err := p.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "refreshed-access", tok.AccessToken)
	assert.Equal(t, int64(1), refreshCalls.Load(), "exactly one refresh exchange")
	assert.Zero(t, authCalls.Load(), "successful refresh must not trigger interactive auth")

	// Refreshed token is persisted with the original refresh token carried over.
	assert.Equal(t, 1, store.saves)
	assert.Equal(t, "refresh-789", store.token.RefreshToken)

	assert.Equal(t, []string{"success"}, metrics.refreshResults)
	assert.Empty(t, metrics.authResults)
}

func TestProvider_ExpiredUnrefreshableTokenTriggersAuthOnce(t *testing.T) {
	store := &memStore{token: &oauth2.Token{
		AccessToken: "stale-access",
		Expiry:      time.Now().Add(-time.Hour),
		// No refresh token.
	}}

	fresh := &oauth2.Token{
		AccessToken: "fresh-access",
		Expiry:      time.Now().Add(time.Hour),
	}

	var authCalls atomic.Int64
	p := NewProvider(newTestProviderConfig("http://127.0.0.1:0"), store, nil, nil)
	p.authorize = func(ctx context.Context) (*oauth2.Token, error) {
		authCalls.Add(1)
		return fresh, nil
	}

	tok, err := p.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fresh-access", tok.AccessToken)
	assert.Equal(t, int64(1), authCalls.Load(), "exactly one interactive flow")
	assert.Equal(t, 1, store.saves, "fresh token must be persisted")
}

func TestProvider_AbsentTokenTriggersAuth(t *testing.T) {
	store := &memStore{}

	var authCalls atomic.Int64
	p := NewProvider(newTestProviderConfig("http://127.0.0.1:0"), store, nil, nil)
	p.authorize = func(ctx context.Context) (*oauth2.Token, error) {
		authCalls.Add(1)
		return &oauth2.Token{AccessToken: "fresh"}, nil
	}

	tok, err := p.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fresh", tok.AccessToken)
	assert.Equal(t, int64(1), authCalls.Load())
}

func TestProvider_RefreshFailureFallsBackToAuth(t *testing.T) {
	var refreshCalls atomic.Int64
	srv := newRefreshServer(t, &refreshCalls, http.StatusUnauthorized)

	store := &memStore{token: &oauth2.Token{
		AccessToken:  "stale-access",
		RefreshToken: "revoked-refresh",
		Expiry:       time.Now().Add(-time.Hour),
	}}
	metrics := &fakeMetrics{}

	var authCalls atomic.Int64
	p := NewProvider(newTestProviderConfig(srv.URL), store, nil, metrics)
	p.authorize = func(ctx context.Context) (*oauth2.Token, error) {
		authCalls.Add(1)
		return &oauth2.Token{AccessToken: "fresh-after-fallback"}, nil
	}

	tok, err := p.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fresh-after-fallback", tok.AccessToken)
	assert.Equal(t, int64(1), refreshCalls.Load())
	assert.Equal(t, int64(1), authCalls.Load(), "refresh failure falls back to interactive auth")

	assert.Equal(t, []string{"failure"}, metrics.refreshResults)
	assert.Equal(t, []string{"success"}, metrics.authResults)
}

func TestProvider_AuthFailurePropagates(t *testing.T) {
	store := &memStore{}
	metrics := &fakeMetrics{}

	p := NewProvider(newTestProviderConfig("http://127.0.0.1:0"), store, nil, metrics)
	p.authorize = func(ctx context.Context) (*oauth2.Token, error) {
		return nil, errors.New("user canceled consent")
	}

	_, err := p.Token(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "interactive authorization failed")
	assert.Zero(t, store.saves)
	assert.Equal(t, []string{"failure"}, metrics.authResults)
}

func TestProvider_TokenNearExpiryIsRefreshed(t *testing.T) {
	var refreshCalls atomic.Int64
	srv := newRefreshServer(t, &refreshCalls, http.StatusOK)

	now := time.Now()
	store := &memStore{token: &oauth2.Token{
		AccessToken:  "about-to-expire",
		RefreshToken: "refresh",
		Expiry:       now.Add(5 * time.Second), // inside the expiry delta
	}}

	p := NewProvider(newTestProviderConfig(srv.URL), store, nil, nil)
	p.now = func() time.Time { return now }

	tok, err := p.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "refreshed-access", tok.AccessToken)
	assert.Equal(t, int64(1), refreshCalls.Load())
}

func TestProvider_ZeroExpiryTokenIsValid(t *testing.T) {
	store := &memStore{token: &oauth2.Token{AccessToken: "no-expiry"}}

	p := NewProvider(newTestProviderConfig("http://127.0.0.1:0"), store, nil, nil)
	p.authorize = func(ctx context.Context) (*oauth2.Token, error) {
		return nil, errors.New("should not be called")
	}

	tok, err := p.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "no-expiry", tok.AccessToken)
}
