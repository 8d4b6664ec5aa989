package siwa

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const envPrefix = "SIWA"

// Config holds the integration parameters resolved from SIWA_-prefixed
// environment variables. It is immutable after Load and is passed
// explicitly to the components that need it.
type Config struct {
	// ClientID is the Service ID registered with Apple.
	ClientID string `mapstructure:"client_id" validate:"required"`

	// TeamID is the Apple Developer Team ID.
	TeamID string `mapstructure:"team_id" validate:"required"`

	// KeyID identifies the private key registered for the Service ID.
	KeyID string `mapstructure:"key_id" validate:"required"`

	// PrivateKey is the PEM-encoded private key used to mint client
	// secrets.
	PrivateKey string `mapstructure:"private_key" validate:"required"`

	// RedirectURI is where Apple sends the authorization response.
	RedirectURI string `mapstructure:"redirect_uri" validate:"required,url"`

	// Scope is the space-separated list of scopes to request.
	Scope string `mapstructure:"scope"`

	// ResponseMode controls how the authorization response is returned.
	ResponseMode string `mapstructure:"response_mode"`

	// ResponseType is the authorization response type.
	ResponseType string `mapstructure:"response_type"`

	// State is an optional CSRF token included in authorization
	// requests when no per-request state is supplied.
	State string `mapstructure:"state"`
}

var configKeys = []string{
	"client_id",
	"team_id",
	"key_id",
	"private_key",
	"redirect_uri",
	"scope",
	"response_mode",
	"response_type",
	"state",
}

var validate = validator.New()

var (
	loadOnce   sync.Once
	loadedCfg  *Config
	loadFailed error
)

// Load resolves the configuration from the environment exactly once per
// process. Subsequent calls return the cached instance.
func Load() (*Config, error) {
	loadOnce.Do(func() {
		loadedCfg, loadFailed = loadConfig()
	})

	return loadedCfg, loadFailed
}

func loadConfig() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	for _, k := range configKeys {
		if err := v.BindEnv(k); err != nil {
			return nil, fmt.Errorf("bind %s: %w", k, err)
		}
	}

	v.SetDefault("scope", "email name")
	v.SetDefault("response_mode", "form_post")
	v.SetDefault("response_type", "code id_token")

	var cfg Config

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}

	if err := validate.Struct(&cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return nil, &ConfigError{Field: envName(verrs[0].StructField())}
		}

		return nil, fmt.Errorf("validate configuration: %w", err)
	}

	return &cfg, nil
}

// envName maps a Config struct field to its environment variable, e.g.
// "ClientID" to "SIWA_CLIENT_ID".
func envName(field string) string {
	var b strings.Builder

	for i, r := range field {
		if i > 0 && r >= 'A' && r <= 'Z' && field[i-1] >= 'a' && field[i-1] <= 'z' {
			b.WriteByte('_')
		}

		b.WriteRune(r)
	}

	return envPrefix + "_" + strings.ToUpper(b.String())
}
