package siwa_test

import (
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/edenhq/go-siwa"
)

func TestClientSecret(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)

	secret, err := siwa.ClientSecret(cfg, 10*time.Minute)
	if err != nil {
		t.Fatalf("should not return error: %v", err)
	}

	priv, err := jwk.ParseKey([]byte(cfg.PrivateKey), jwk.WithPEM(true))
	if err != nil {
		t.Fatal(err)
	}

	pub, err := jwk.PublicKeyOf(priv)
	if err != nil {
		t.Fatal(err)
	}

	tok, err := jwt.Parse([]byte(secret), jwt.WithKey(jwa.ES256, pub))
	if err != nil {
		t.Fatalf("secret should verify with the configured key: %v", err)
	}

	if tok.Issuer() != cfg.TeamID {
		t.Errorf("iss should be the team id, got %s", tok.Issuer())
	}

	if tok.Subject() != cfg.ClientID {
		t.Errorf("sub should be the client id, got %s", tok.Subject())
	}

	if aud := tok.Audience(); len(aud) != 1 || aud[0] != siwa.Issuer {
		t.Errorf("aud should be the issuer, got %v", aud)
	}

	until := time.Until(tok.Expiration())
	if until < 9*time.Minute || until > 10*time.Minute {
		t.Errorf("unexpected lifetime: %s", until)
	}

	// The registered key id travels in the header.
	msg, err := jws.Parse([]byte(secret))
	if err != nil {
		t.Fatal(err)
	}

	sigs := msg.Signatures()
	if len(sigs) != 1 {
		t.Fatalf("want 1 signature, got %d", len(sigs))
	}

	if kid := sigs[0].ProtectedHeaders().KeyID(); kid != cfg.KeyID {
		t.Errorf("want kid %s, got %s", cfg.KeyID, kid)
	}
}

func TestClientSecret_LifetimeClamped(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)

	secret, err := siwa.ClientSecret(cfg, 2*siwa.MaxSecretLifetime)
	if err != nil {
		t.Fatalf("should not return error: %v", err)
	}

	tok, err := jwt.ParseInsecure([]byte(secret))
	if err != nil {
		t.Fatal(err)
	}

	if time.Until(tok.Expiration()) > siwa.MaxSecretLifetime {
		t.Errorf("lifetime should be clamped, exp=%s", tok.Expiration())
	}
}

func TestClientSecret_BadKey(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.PrivateKey = "not a pem"

	if _, err := siwa.ClientSecret(cfg, time.Minute); err == nil {
		t.Error("should return error")
	}
}
