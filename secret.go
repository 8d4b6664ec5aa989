package siwa

import (
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	defaultSecretLifetime = 5 * time.Minute

	// MaxSecretLifetime is the longest client secret lifetime Apple
	// accepts: six months.
	MaxSecretLifetime = 15777000 * time.Second
)

// ClientSecret mints the client secret for the token endpoint: an
// ES256-signed JWT issued by the team, subject to the client id, with the
// registered key id in its header. Lifetimes above Apple's maximum are
// clamped; a zero lifetime uses a short default.
func ClientSecret(cfg *Config, lifetime time.Duration) (string, error) {
	if lifetime <= 0 {
		lifetime = defaultSecretLifetime
	}

	if lifetime > MaxSecretLifetime {
		lifetime = MaxSecretLifetime
	}

	key, err := jwk.ParseKey([]byte(cfg.PrivateKey), jwk.WithPEM(true))
	if err != nil {
		return "", fmt.Errorf("parse private key: %w", err)
	}

	if err := key.Set(jwk.KeyIDKey, cfg.KeyID); err != nil {
		return "", fmt.Errorf("set kid: %w", err)
	}

	now := time.Now()

	tok, err := jwt.NewBuilder().
		Issuer(cfg.TeamID).
		Subject(cfg.ClientID).
		Audience([]string{Issuer}).
		IssuedAt(now).
		Expiration(now.Add(lifetime)).
		Build()
	if err != nil {
		return "", fmt.Errorf("build client secret claims: %w", err)
	}

	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.ES256, key))
	if err != nil {
		return "", fmt.Errorf("sign client secret: %w", err)
	}

	return string(signed), nil
}
