package siwa

import (
	"encoding/json"
	"fmt"
	"strings"
)

// TokenResponse is the token endpoint's reply to a successful grant.
type TokenResponse struct {
	// AccessToken grants access to allowed data.
	AccessToken string `json:"access_token"`

	// ExpiresIn is the access token lifetime in seconds.
	ExpiresIn int `json:"expires_in"`

	// IDToken is the compact signed identity token.
	IDToken string `json:"id_token"`

	// RefreshToken regenerates new access tokens.
	RefreshToken string `json:"refresh_token"`

	// TokenType is always "bearer".
	TokenType string `json:"token_type"`
}

type tokenResponseWire TokenResponse

func (r *TokenResponse) UnmarshalJSON(data []byte) error {
	var w tokenResponseWire

	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	if !strings.EqualFold(w.TokenType, "bearer") {
		return fmt.Errorf("unexpected token_type: %q", w.TokenType)
	}

	w.TokenType = "bearer"
	*r = TokenResponse(w)

	return nil
}

// ErrorType enumerates the reasons the authorization server rejects a
// request. The enumeration is closed: decoding any other value fails.
type ErrorType string

const (
	ErrorInvalidRequest       ErrorType = "invalid_request"
	ErrorInvalidClient        ErrorType = "invalid_client"
	ErrorInvalidGrant         ErrorType = "invalid_grant"
	ErrorUnauthorizedClient   ErrorType = "unauthorized_client"
	ErrorUnsupportedGrantType ErrorType = "unsupported_grant_type"
	ErrorInvalidScope         ErrorType = "invalid_scope"
)

func (t ErrorType) valid() bool {
	switch t {
	case ErrorInvalidRequest,
		ErrorInvalidClient,
		ErrorInvalidGrant,
		ErrorUnauthorizedClient,
		ErrorUnsupportedGrantType,
		ErrorInvalidScope:
		return true
	}

	return false
}

func (t *ErrorType) UnmarshalJSON(data []byte) error {
	var s string

	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	v := ErrorType(s)
	if !v.valid() {
		return fmt.Errorf("unknown error value: %q", s)
	}

	*t = v

	return nil
}

// ErrorResponse is the token endpoint's reply to a rejected request. It is
// surfaced verbatim to the caller as an error.
type ErrorResponse struct {
	ErrorType        ErrorType `json:"error"`
	ErrorDescription string    `json:"error_description,omitempty"`
	ErrorURI         string    `json:"error_uri,omitempty"`
}

func (e *ErrorResponse) Error() string {
	if e.ErrorDescription == "" {
		return fmt.Sprintf("authorization server: %s", e.ErrorType)
	}

	return fmt.Sprintf("authorization server: %s: %s", e.ErrorType, e.ErrorDescription)
}
