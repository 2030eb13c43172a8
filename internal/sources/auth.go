package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nvenk/partscout/internal/metrics"
	"github.com/nvenk/partscout/internal/tokencache"
)

// defaultTokenTTL applies when a token endpoint omits expires_in.
const defaultTokenTTL = 3600 * time.Second

// TokenProvider performs the OAuth2 client-credentials grant for one
// source and reads/writes the shared token cache. Concurrent callers may
// race on a cold cache; the redundant exchange is harmless and last
// write wins.
type TokenProvider struct {
	source   string
	tokenURL string
	form     url.Values
	cache    *tokencache.Cache
	client   *http.Client
}

// TokenOption configures the TokenProvider.
type TokenOption func(*TokenProvider)

// WithTokenHTTPClient overrides the default HTTP client.
func WithTokenHTTPClient(c *http.Client) TokenOption {
	return func(p *TokenProvider) {
		p.client = c
	}
}

// WithTokenFormValue adds an extra form value to the credential
// exchange, e.g. the Nexar identity service's "audience".
func WithTokenFormValue(key, value string) TokenOption {
	return func(p *TokenProvider) {
		p.form.Set(key, value)
	}
}

// NewTokenProvider creates a client-credentials token provider for the
// named source, caching tokens in cache under that name.
func NewTokenProvider(
	source, tokenURL, clientID, clientSecret string,
	cache *tokencache.Cache,
	opts ...TokenOption,
) *TokenProvider {
	p := &TokenProvider{
		source:   source,
		tokenURL: tokenURL,
		form: url.Values{
			"grant_type":    {"client_credentials"},
			"client_id":     {clientID},
			"client_secret": {clientSecret},
		},
		cache:  cache,
		client: newHTTPClient(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Source returns the cache key this provider authenticates for.
func (p *TokenProvider) Source() string {
	return p.source
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// Token returns a valid bearer token, serving the cached one when
// present and performing the credential exchange otherwise.
func (p *TokenProvider) Token(ctx context.Context) (string, error) {
	if token, ok := p.cache.Get(p.source); ok {
		return token, nil
	}
	return p.Refresh(ctx)
}

// Refresh performs the credential exchange unconditionally, bypassing
// the cache read, and stores the fresh token.
func (p *TokenProvider) Refresh(ctx context.Context) (string, error) {
	metrics.TokenRefreshesTotal.WithLabelValues(p.source).Inc()

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		p.tokenURL,
		strings.NewReader(p.form.Encode()),
	)
	if err != nil {
		return "", fmt.Errorf("creating token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("executing token request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf(
			"token request failed (status %d): %s",
			resp.StatusCode,
			string(body),
		)
	}

	var tokenResp tokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return "", fmt.Errorf("parsing token response: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return "", fmt.Errorf("token response missing access_token")
	}

	ttl := defaultTokenTTL
	if tokenResp.ExpiresIn > 0 {
		ttl = time.Duration(tokenResp.ExpiresIn) * time.Second
	}
	p.cache.Set(p.source, tokenResp.AccessToken, ttl)

	return tokenResp.AccessToken, nil
}

// doAuthorized issues the request produced by build with a bearer token.
// A 401 invalidates the cached token regardless of its stated expiry:
// the helper forces one refresh and retries exactly once. Any further
// failure is terminal for this call.
func doAuthorized(
	ctx context.Context,
	client *http.Client,
	tokens *TokenProvider,
	build func() (*http.Request, error),
) ([]byte, error) {
	token, err := tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting auth token: %w", err)
	}

	body, status, err := sendAuthorized(client, build, token)
	if err != nil {
		return nil, err
	}

	if status == http.StatusUnauthorized {
		token, err = tokens.Refresh(ctx)
		if err != nil {
			return nil, fmt.Errorf("refreshing auth token: %w", err)
		}
		body, status, err = sendAuthorized(client, build, token)
		if err != nil {
			return nil, err
		}
	}

	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return nil, fmt.Errorf(
			"source API error (status %d): %s",
			status,
			string(body),
		)
	}

	return body, nil
}

func sendAuthorized(
	client *http.Client,
	build func() (*http.Request, error),
	token string,
) ([]byte, int, error) {
	req, err := build()
	if err != nil {
		return nil, 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("reading response body: %w", err)
	}

	return body, resp.StatusCode, nil
}
