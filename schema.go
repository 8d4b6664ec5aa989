package siwa

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Key is a single JSON Web Key as published at Apple's keys endpoint.
// Keys are immutable once decoded.
type Key struct {
	// Alg is the algorithm the key is meant to be used with.
	Alg string `json:"alg"`

	// E is the base64url-encoded RSA public exponent.
	E string `json:"e"`

	// Kid identifies the key within the set.
	Kid string `json:"kid"`

	// Kty is the key type. Apple publishes RSA keys only.
	Kty string `json:"kty"`

	// N is the base64url-encoded RSA modulus.
	N string `json:"n"`

	// Use is the intended use of the key ("sig").
	Use string `json:"use"`
}

func (k Key) validate() error {
	var err error

	if k.Kid == "" {
		err = errors.Join(errors.New("kid is required"), err)
	}

	if k.Kty != "RSA" {
		err = errors.Join(fmt.Errorf("kty must be RSA, got %q", k.Kty), err)
	}

	if k.N == "" {
		err = errors.Join(errors.New("n is required"), err)
	}

	if k.E == "" {
		err = errors.Join(errors.New("e is required"), err)
	}

	return err
}

// JWKSet is the key set document served at the issuer's keys endpoint.
// Kid values are unique within a set; decoding rejects duplicates.
type JWKSet struct {
	Keys []Key `json:"keys"`
}

type jwkSetWire JWKSet

func (s *JWKSet) UnmarshalJSON(data []byte) error {
	var w jwkSetWire

	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(w.Keys))

	for _, k := range w.Keys {
		if _, ok := seen[k.Kid]; ok {
			return fmt.Errorf("duplicate kid in key set: %s", k.Kid)
		}

		seen[k.Kid] = struct{}{}
	}

	*s = JWKSet(w)

	return nil
}

// Key returns the key matching kid, if any.
func (s JWKSet) Key(kid string) (Key, bool) {
	for _, k := range s.Keys {
		if k.Kid == kid {
			return k, true
		}
	}

	return Key{}, false
}

// Valid reports whether every key in the set is well formed.
func (s JWKSet) Valid() error {
	if len(s.Keys) == 0 {
		return errors.New("there is no key in JWKS")
	}

	for _, k := range s.Keys {
		if err := k.validate(); err != nil {
			return fmt.Errorf("key %q: %w", k.Kid, err)
		}
	}

	return nil
}
