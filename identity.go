package siwa

import (
	"fmt"
	"strings"
	"time"
)

// RealUserStatus is Apple's real-user detection status.
type RealUserStatus int

const (
	// RealUserStatusUnsupported means the device does not support the
	// determination.
	RealUserStatusUnsupported RealUserStatus = 0

	// RealUserStatusUnknown means the status could not be determined.
	RealUserStatusUnknown RealUserStatus = 1

	// RealUserStatusLikelyReal means the user appears to be a real person.
	RealUserStatusLikelyReal RealUserStatus = 2
)

func (s RealUserStatus) String() string {
	switch s {
	case RealUserStatusUnsupported:
		return "unsupported"
	case RealUserStatusUnknown:
		return "unknown"
	case RealUserStatusLikelyReal:
		return "likely_real"
	default:
		return fmt.Sprintf("real_user_status(%d)", int(s))
	}
}

// IdentityToken is the validated claim set of a verified identity token.
// It is constructed once per verified token and never mutated.
type IdentityToken struct {
	Issuer         string         `json:"iss"`
	Subject        string         `json:"sub"`
	Audience       string         `json:"aud"`
	IssuedAt       time.Time      `json:"iat"`
	Expiration     time.Time      `json:"exp"`
	Nonce          string         `json:"nonce,omitempty"`
	NonceSupported bool           `json:"nonce_supported,omitempty"`
	Email          string         `json:"email,omitempty"`
	EmailVerified  bool           `json:"email_verified,omitempty"`
	IsPrivateEmail bool           `json:"is_private_email,omitempty"`
	RealUserStatus RealUserStatus `json:"real_user_status,omitempty"`
	TransferSub    string         `json:"transfer_sub,omitempty"`
}

// normalizeBool coerces the claims Apple delivers as either a JSON boolean
// or the literal strings "true"/"false" (any casing). Anything else is
// invalid input.
func normalizeBool(v any) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		if strings.EqualFold(b, "true") {
			return true, nil
		}

		if strings.EqualFold(b, "false") {
			return false, nil
		}

		return false, fmt.Errorf("unexpected boolean value: %q", b)
	default:
		return false, fmt.Errorf("unexpected boolean value: %v", v)
	}
}
