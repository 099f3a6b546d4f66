package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

// completeCallback parses the authorization URL the flow handed to the
// browser launcher and simulates the user's consent by hitting the local
// callback with the given query values.
func completeCallback(t *testing.T, authURL string, query url.Values) {
	t.Helper()

	parsed, err := url.Parse(authURL)
	require.NoError(t, err)

	redirect := parsed.Query().Get("redirect_uri")
	require.NotEmpty(t, redirect, "auth URL must carry a redirect_uri")

	if query.Get("state") == "" {
		query.Set("state", parsed.Query().Get("state"))
	}

	resp, err := http.Get(redirect + "?" + query.Encode())
	require.NoError(t, err)
	resp.Body.Close()
}

func TestAuthorize_Success(t *testing.T) {
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "auth-code-123", r.FormValue("code"))
		assert.NotEmpty(t, r.FormValue("code_verifier"), "exchange must carry the PKCE verifier")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"exchanged-access","refresh_token":"exchanged-refresh","token_type":"Bearer","expires_in":3600}`))
	}))
	defer tokenSrv.Close()

	cfg := &oauth2.Config{
		ClientID: "client-id",
		Endpoint: oauth2.Endpoint{
			AuthURL:  tokenSrv.URL + "/auth",
			TokenURL: tokenSrv.URL + "/token",
		},
		Scopes: Scopes,
	}

	openURL := func(authURL string) error {
		go completeCallback(t, authURL, url.Values{"code": {"auth-code-123"}})
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tok, err := Authorize(ctx, cfg, openURL, nil)
	require.NoError(t, err)
	assert.Equal(t, "exchanged-access", tok.AccessToken)
	assert.Equal(t, "exchanged-refresh", tok.RefreshToken)
}

func TestAuthorize_StateMismatch(t *testing.T) {
	cfg := &oauth2.Config{
		ClientID: "client-id",
		Endpoint: oauth2.Endpoint{
			AuthURL:  "http://127.0.0.1:0/auth",
			TokenURL: "http://127.0.0.1:0/token",
		},
	}

	openURL := func(authURL string) error {
		go completeCallback(t, authURL, url.Values{
			"code":  {"auth-code-123"},
			"state": {"wrong-state"},
		})
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := Authorize(ctx, cfg, openURL, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "state mismatch")
}

func TestAuthorize_ProviderError(t *testing.T) {
	cfg := &oauth2.Config{
		ClientID: "client-id",
		Endpoint: oauth2.Endpoint{
			AuthURL:  "http://127.0.0.1:0/auth",
			TokenURL: "http://127.0.0.1:0/token",
		},
	}

	openURL := func(authURL string) error {
		go completeCallback(t, authURL, url.Values{
			"error":             {"access_denied"},
			"error_description": {"The user denied the request"},
		})
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := Authorize(ctx, cfg, openURL, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access_denied")
}

func TestAuthorize_ContextCanceled(t *testing.T) {
	cfg := &oauth2.Config{
		ClientID: "client-id",
		Endpoint: oauth2.Endpoint{
			AuthURL:  "http://127.0.0.1:0/auth",
			TokenURL: "http://127.0.0.1:0/token",
		},
	}

	ctx, cancel := context.WithCancel(context.Background())

	openURL := func(string) error {
		// Never complete the callback; cancel instead.
		cancel()
		return nil
	}

	_, err := Authorize(ctx, cfg, openURL, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "canceled")
}

func TestGenerateState_Unique(t *testing.T) {
	a, err := generateState()
	require.NoError(t, err)
	b, err := generateState()
	require.NoError(t, err)

	assert.Len(t, a, stateTokenBytes*2)
	assert.NotEqual(t, a, b)
}
