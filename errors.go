package siwa

import (
	"errors"
	"fmt"
)

var (
	// ErrKeySetUnavailable reports that the JWKS could not be fetched or
	// decoded. Previously cached keys, if any, are retained.
	ErrKeySetUnavailable = errors.New("key set unavailable")

	// ErrUnknownKey reports that no key matched the token's kid, even
	// after a forced refresh of the key set.
	ErrUnknownKey = errors.New("unknown key")

	// ErrUnsupportedAlgorithm reports a token header alg outside the
	// accepted asymmetric signing algorithms.
	ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")

	// ErrInvalidSignature reports a signature that did not verify
	// against the resolved public key.
	ErrInvalidSignature = errors.New("invalid signature")
)

// ClaimError reports an identity token claim that failed validation.
// Claim holds the claim name as it appears on the wire ("exp", "aud", ...).
type ClaimError struct {
	Claim  string
	Reason string
}

func (e *ClaimError) Error() string {
	return fmt.Sprintf("claim validation failed: %s: %s", e.Claim, e.Reason)
}

// ConfigError reports a required setting that is missing or empty.
// Field holds the environment variable name, e.g. "SIWA_CLIENT_ID".
type ConfigError struct {
	Field string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("missing configuration: %s", e.Field)
}
