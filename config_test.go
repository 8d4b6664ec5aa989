package siwa_test

import (
	"errors"
	"testing"

	"github.com/edenhq/go-siwa"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()

	t.Setenv("SIWA_CLIENT_ID", "com.example.app")
	t.Setenv("SIWA_TEAM_ID", "TEAM123456")
	t.Setenv("SIWA_KEY_ID", "KEY1234567")
	t.Setenv("SIWA_PRIVATE_KEY", genECPEM(t))
	t.Setenv("SIWA_REDIRECT_URI", "https://example.com/auth/callback")
}

//nolint:paralleltest
func TestLoadConfig(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := siwa.Export_loadConfig()
	if err != nil {
		t.Fatalf("should not return error: %v", err)
	}

	if cfg.ClientID != "com.example.app" {
		t.Errorf("unexpected client_id: %s", cfg.ClientID)
	}

	if cfg.TeamID != "TEAM123456" {
		t.Errorf("unexpected team_id: %s", cfg.TeamID)
	}

	// Defaults apply for the optional settings.
	if cfg.Scope != "email name" {
		t.Errorf("unexpected scope default: %s", cfg.Scope)
	}

	if cfg.ResponseMode != "form_post" {
		t.Errorf("unexpected response_mode default: %s", cfg.ResponseMode)
	}

	if cfg.ResponseType != "code id_token" {
		t.Errorf("unexpected response_type default: %s", cfg.ResponseType)
	}

	if cfg.State != "" {
		t.Errorf("state should be empty: %s", cfg.State)
	}
}

//nolint:paralleltest
func TestLoadConfig_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SIWA_SCOPE", "email")
	t.Setenv("SIWA_RESPONSE_MODE", "query")
	t.Setenv("SIWA_STATE", "csrf-token")

	cfg, err := siwa.Export_loadConfig()
	if err != nil {
		t.Fatalf("should not return error: %v", err)
	}

	if cfg.Scope != "email" {
		t.Errorf("unexpected scope: %s", cfg.Scope)
	}

	if cfg.ResponseMode != "query" {
		t.Errorf("unexpected response_mode: %s", cfg.ResponseMode)
	}

	if cfg.State != "csrf-token" {
		t.Errorf("unexpected state: %s", cfg.State)
	}
}

//nolint:paralleltest
func TestLoadConfig_Missing(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SIWA_TEAM_ID", "")

	_, err := siwa.Export_loadConfig()
	if err == nil {
		t.Fatal("should return error")
	}

	var cerr *siwa.ConfigError

	if !errors.As(err, &cerr) {
		t.Fatalf("want ConfigError, got %v", err)
	}

	if cerr.Field != "SIWA_TEAM_ID" {
		t.Errorf("error should name SIWA_TEAM_ID, got %s", cerr.Field)
	}
}

//nolint:paralleltest
func TestLoad_CachedInstance(t *testing.T) {
	setRequiredEnv(t)

	first, err := siwa.Load()
	if err != nil {
		t.Fatalf("should not return error: %v", err)
	}

	// The environment is read once per process.
	t.Setenv("SIWA_CLIENT_ID", "com.other.app")

	second, err := siwa.Load()
	if err != nil {
		t.Fatalf("should not return error: %v", err)
	}

	if first != second {
		t.Error("Load should return the cached instance")
	}

	if second.ClientID != "com.example.app" {
		t.Errorf("cached config should be immutable, got %s", second.ClientID)
	}
}

func TestEnvName(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"ClientID":     "SIWA_CLIENT_ID",
		"TeamID":       "SIWA_TEAM_ID",
		"KeyID":        "SIWA_KEY_ID",
		"PrivateKey":   "SIWA_PRIVATE_KEY",
		"RedirectURI":  "SIWA_REDIRECT_URI",
		"Scope":        "SIWA_SCOPE",
		"ResponseMode": "SIWA_RESPONSE_MODE",
		"State":        "SIWA_STATE",
	}

	for field, want := range cases {
		if got := siwa.Export_envName(field); got != want {
			t.Errorf("%s: want %s, got %s", field, want, got)
		}
	}
}
