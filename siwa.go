// Package siwa implements the relying-party side of Sign in with Apple:
// building authorization requests, minting the ES256-signed client secret,
// exchanging authorization codes and refresh tokens, and verifying the
// identity tokens Apple issues against its published JSON Web Key Set.
package siwa

const (
	// Issuer is the `iss` value of identity tokens issued by Apple.
	Issuer = "https://appleid.apple.com"

	// AuthorizationEndpoint is where users are sent to authenticate.
	AuthorizationEndpoint = Issuer + "/auth/authorize"

	// TokenEndpoint exchanges authorization codes and refresh tokens.
	TokenEndpoint = Issuer + "/auth/token"

	// KeysEndpoint serves the JWKS used to verify identity tokens.
	KeysEndpoint = Issuer + "/auth/keys"

	// ConfigurationURI is Apple's OpenID Provider Metadata document.
	ConfigurationURI = Issuer + "/.well-known/openid-configuration"
)
