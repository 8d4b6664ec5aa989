package siwa_test

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/edenhq/go-siwa"
)

const (
	testClientID    = "com.example.app"
	testRedirectURI = "https://example.com/auth/callback"
)

func testConfig(t *testing.T) *siwa.Config {
	t.Helper()

	return &siwa.Config{
		ClientID:     testClientID,
		TeamID:       "TEAM123456",
		KeyID:        "KEY1234567",
		PrivateKey:   genECPEM(t),
		RedirectURI:  testRedirectURI,
		Scope:        "email name",
		ResponseMode: "form_post",
		ResponseType: "code id_token",
	}
}

// genRSAKey returns a signing key and its public half, both carrying kid.
func genRSAKey(t *testing.T, kid string) (jwk.Key, jwk.Key) {
	t.Helper()

	raw, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate rsa key: %v", err)
	}

	priv, err := jwk.FromRaw(raw)
	if err != nil {
		t.Fatalf("import rsa key: %v", err)
	}

	if err := priv.Set(jwk.KeyIDKey, kid); err != nil {
		t.Fatal(err)
	}

	if err := priv.Set(jwk.AlgorithmKey, jwa.RS256); err != nil {
		t.Fatal(err)
	}

	pub, err := jwk.PublicKeyOf(priv)
	if err != nil {
		t.Fatalf("public key: %v", err)
	}

	return priv, pub
}

func genECPEM(t *testing.T) string {
	t.Helper()

	raw, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generate ec key: %v", err)
	}

	der, err := x509.MarshalPKCS8PrivateKey(raw)
	if err != nil {
		t.Fatalf("marshal ec key: %v", err)
	}

	return string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}))
}

func jwksJSON(t *testing.T, pubs ...jwk.Key) []byte {
	t.Helper()

	set := jwk.NewSet()

	for _, pub := range pubs {
		if err := set.AddKey(pub); err != nil {
			t.Fatalf("add key: %v", err)
		}
	}

	b, err := json.Marshal(set)
	if err != nil {
		t.Fatalf("marshal jwks: %v", err)
	}

	return b
}

func signToken(t *testing.T, priv jwk.Key, claims map[string]any) []byte {
	t.Helper()

	b := jwt.NewBuilder()

	for k, v := range claims {
		b = b.Claim(k, v)
	}

	tok, err := b.Build()
	if err != nil {
		t.Fatalf("build token: %v", err)
	}

	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.RS256, priv))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	return signed
}

// jwksServer serves a swappable JWKS document and counts fetches.
type jwksServer struct {
	*httptest.Server

	mu     sync.Mutex
	body   []byte
	status int
	count  int
}

func newJWKSServer(t *testing.T, body []byte) *jwksServer {
	t.Helper()

	s := &jwksServer{body: body, status: http.StatusOK}

	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		s.mu.Lock()
		body, status := s.body, s.status
		s.count++
		s.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write(body)
	}))

	t.Cleanup(s.Close)

	return s
}

func (s *jwksServer) setBody(body []byte) {
	s.mu.Lock()
	s.body = body
	s.mu.Unlock()
}

func (s *jwksServer) fetchCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.count
}
