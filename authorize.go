package siwa

import (
	"strings"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// Endpoint is Apple's OAuth 2.0 endpoint pair.
var Endpoint = oauth2.Endpoint{
	AuthURL:  AuthorizationEndpoint,
	TokenURL: TokenEndpoint,
}

// AuthorizationRequest is a ready-to-use authorization URL together with
// the state and nonce values bound to it. The caller must retain both to
// validate the response and the resulting identity token.
type AuthorizationRequest struct {
	URL   string
	State string
	Nonce string
}

type authorizeOption struct {
	state string
	nonce string
}

type AuthorizeOption func(*authorizeOption)

// WithState overrides the generated state value.
func WithState(state string) AuthorizeOption {
	return func(opt *authorizeOption) {
		opt.state = state
	}
}

// WithRequestNonce overrides the generated nonce value.
func WithRequestNonce(nonce string) AuthorizeOption {
	return func(opt *authorizeOption) {
		opt.nonce = nonce
	}
}

// NewAuthorizationRequest builds the authorization URL from the
// configuration. State falls back to cfg.State and then to a generated
// value; a nonce is always generated unless supplied.
func NewAuthorizationRequest(cfg *Config, opts ...AuthorizeOption) *AuthorizationRequest {
	var opt authorizeOption

	for _, f := range opts {
		f(&opt)
	}

	if opt.state == "" {
		opt.state = cfg.State
	}

	if opt.state == "" {
		opt.state = uuid.NewString()
	}

	if opt.nonce == "" {
		opt.nonce = uuid.NewString()
	}

	oc := oauth2.Config{
		ClientID:    cfg.ClientID,
		RedirectURL: cfg.RedirectURI,
		Scopes:      strings.Fields(cfg.Scope),
		Endpoint:    Endpoint,
	}

	params := []oauth2.AuthCodeOption{
		oauth2.SetAuthURLParam("response_type", cfg.ResponseType),
		oauth2.SetAuthURLParam("response_mode", cfg.ResponseMode),
		oauth2.SetAuthURLParam("nonce", opt.nonce),
	}

	return &AuthorizationRequest{
		URL:   oc.AuthCodeURL(opt.state, params...),
		State: opt.state,
		Nonce: opt.nonce,
	}
}
