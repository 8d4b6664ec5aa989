package siwa

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client exchanges authorization codes and refresh tokens at the token
// endpoint, minting a fresh client secret per request.
type Client struct {
	cfg            *Config
	httpClient     *http.Client
	tokenEndpoint  string
	secretLifetime time.Duration
}

type clientOption struct {
	httpClient     *http.Client
	tokenEndpoint  string
	secretLifetime time.Duration
}

type ClientOption func(*clientOption)

// WithClientHTTPClient sets the HTTP client used for token requests.
func WithClientHTTPClient(c *http.Client) ClientOption {
	return func(opt *clientOption) {
		opt.httpClient = c
	}
}

// WithTokenEndpoint overrides the token endpoint. The default is Apple's.
func WithTokenEndpoint(uri string) ClientOption {
	return func(opt *clientOption) {
		opt.tokenEndpoint = uri
	}
}

// WithSecretLifetime sets the lifetime of minted client secrets.
func WithSecretLifetime(d time.Duration) ClientOption {
	return func(opt *clientOption) {
		opt.secretLifetime = d
	}
}

func NewClient(cfg *Config, opts ...ClientOption) *Client {
	opt := clientOption{
		httpClient:     &http.Client{Timeout: defaultFetchTimeout},
		tokenEndpoint:  TokenEndpoint,
		secretLifetime: defaultSecretLifetime,
	}

	for _, f := range opts {
		f(&opt)
	}

	return &Client{
		cfg:            cfg,
		httpClient:     opt.httpClient,
		tokenEndpoint:  opt.tokenEndpoint,
		secretLifetime: opt.secretLifetime,
	}
}

// Exchange trades an authorization code for tokens.
func (c *Client) Exchange(ctx context.Context, code string) (*TokenResponse, error) {
	form := url.Values{
		"grant_type":   {"authorization_code"},
		"code":         {code},
		"redirect_uri": {c.cfg.RedirectURI},
	}

	return c.post(ctx, form)
}

// Refresh trades a refresh token for a new access token.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
	}

	return c.post(ctx, form)
}

func (c *Client) post(ctx context.Context, form url.Values) (*TokenResponse, error) {
	secret, err := ClientSecret(c.cfg, c.secretLifetime)
	if err != nil {
		return nil, fmt.Errorf("mint client secret: %w", err)
	}

	form.Set("client_id", c.cfg.ClientID)
	form.Set("client_secret", secret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("invalid uri (%s): %w", c.tokenEndpoint, err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", c.tokenEndpoint, err)
	}

	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		var er ErrorResponse

		if err := json.NewDecoder(res.Body).Decode(&er); err != nil {
			return nil, fmt.Errorf("http post %s: status=%d", c.tokenEndpoint, res.StatusCode)
		}

		return nil, &er
	}

	var tr TokenResponse

	if err := json.NewDecoder(res.Body).Decode(&tr); err != nil {
		return nil, fmt.Errorf("decode token response: %w", err)
	}

	return &tr, nil
}
