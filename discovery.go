package siwa

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
)

var (
	cacheProviderMeta map[string]ProviderMetadata
	pmmux             sync.RWMutex
)

func init() {
	cacheProviderMeta = make(map[string]ProviderMetadata)
}

// ProviderMetadata is the subset of the OpenID Provider Metadata document
// (OpenID Connect Discovery 1.0) that Apple publishes and this package
// consumes.
type ProviderMetadata struct {
	Issuer                           string   `json:"issuer"`
	AuthorizationEndpoint            string   `json:"authorization_endpoint"`
	TokenEndpoint                    string   `json:"token_endpoint"`
	RevocationEndpoint               string   `json:"revocation_endpoint,omitempty"`
	JWKSURI                          string   `json:"jwks_uri"`
	ScopesSupported                  []string `json:"scopes_supported,omitempty"`
	ResponseTypesSupported           []string `json:"response_types_supported"`
	ResponseModesSupported           []string `json:"response_modes_supported,omitempty"`
	SubjectTypesSupported            []string `json:"subject_types_supported"`
	IDTokenSigningAlgValuesSupported []string `json:"id_token_signing_alg_values_supported"`
}

func (c ProviderMetadata) Valid() error {
	var err error

	if c.Issuer == "" {
		err = errors.Join(errors.New("issuer is required"), err)
	}

	if c.AuthorizationEndpoint == "" {
		err = errors.Join(errors.New("authorization_endpoint is required"), err)
	}

	if c.TokenEndpoint == "" {
		err = errors.Join(errors.New("token_endpoint is required"), err)
	}

	if c.JWKSURI == "" {
		err = errors.Join(errors.New("jwks_uri is required"), err)
	}

	if len(c.ResponseTypesSupported) == 0 {
		err = errors.Join(errors.New("response_types_supported is required"), err)
	}

	if len(c.SubjectTypesSupported) == 0 {
		err = errors.Join(errors.New("subject_types_supported is required"), err)
	}

	if len(c.IDTokenSigningAlgValuesSupported) == 0 {
		err = errors.Join(errors.New("id_token_signing_alg_values_supported is required"), err)
	}

	return err
}

// Discover fetches the issuer's provider metadata. Documents are cached
// per URI for the lifetime of the process.
func Discover(ctx context.Context, cfguri string) (*ProviderMetadata, error) {
	pmmux.RLock()
	v, ok := cacheProviderMeta[cfguri]
	pmmux.RUnlock()

	if ok {
		return &v, nil
	}

	pmmux.Lock()
	defer pmmux.Unlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cfguri, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid uri (%s): %w", cfguri, err)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", cfguri, err)
	}

	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("http get %s: status=%d", cfguri, res.StatusCode)
	}

	var cfg ProviderMetadata

	if err := json.NewDecoder(res.Body).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode configuration json: %w", err)
	}

	if err := cfg.Valid(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	cacheProviderMeta[cfguri] = cfg

	return &cfg, nil
}
