package siwa

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwk"
)

const (
	defaultRefreshInterval = time.Hour
	defaultFetchTimeout    = 10 * time.Second
)

// KeySet fetches and caches the issuer's JSON Web Key Set and serves
// lookups by kid. The underlying cache swaps complete immutable snapshots,
// so concurrent readers never observe a partially updated set.
type KeySet struct {
	uri   string
	cache *jwk.Cache

	// refreshMu serializes forced refreshes so that concurrent misses
	// for the same kid coalesce into a single fetch.
	refreshMu   sync.Mutex
	lastRefresh time.Time
}

type keySetOption struct {
	uri             string
	client          jwk.HTTPClient
	refreshInterval time.Duration
}

type KeySetOption func(*keySetOption)

// WithJWKSURI overrides the key set endpoint. The default is Apple's
// keys endpoint.
func WithJWKSURI(uri string) KeySetOption {
	return func(opt *keySetOption) {
		opt.uri = uri
	}
}

// WithHTTPClient sets the client used to fetch the key set.
func WithHTTPClient(client jwk.HTTPClient) KeySetOption {
	return func(opt *keySetOption) {
		opt.client = client
	}
}

// WithRefreshInterval sets the background refresh interval of the cache.
func WithRefreshInterval(d time.Duration) KeySetOption {
	return func(opt *keySetOption) {
		opt.refreshInterval = d
	}
}

// NewKeySet registers the key set endpoint with a fresh cache. The given
// context controls the lifetime of the cache's background refresher.
func NewKeySet(ctx context.Context, opts ...KeySetOption) (*KeySet, error) {
	opt := keySetOption{
		uri:             KeysEndpoint,
		client:          &http.Client{Timeout: defaultFetchTimeout},
		refreshInterval: defaultRefreshInterval,
	}

	for _, f := range opts {
		f(&opt)
	}

	cache := jwk.NewCache(ctx)

	err := cache.Register(opt.uri,
		jwk.WithHTTPClient(opt.client),
		jwk.WithRefreshInterval(opt.refreshInterval),
	)
	if err != nil {
		return nil, fmt.Errorf("register jwks uri: %w", err)
	}

	return &KeySet{uri: opt.uri, cache: cache}, nil
}

// Key returns the public key matching kid. A miss forces one synchronous
// refresh before giving up: a kid we have never seen may mean the issuer
// rotated its keys. A failed refresh retains previously cached keys.
//
//nolint:ireturn
func (s *KeySet) Key(ctx context.Context, kid string) (jwk.Key, error) {
	// Taken before reading the snapshot: if a refresh lands after this
	// point, the miss below is already satisfied by that refresh.
	entered := time.Now()

	set, err := s.cache.Get(ctx, s.uri)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrKeySetUnavailable, err)
	}

	if key, ok := set.LookupKeyID(kid); ok {
		return key, nil
	}

	set, err = s.refresh(ctx, entered)
	if err != nil {
		return nil, err
	}

	if key, ok := set.LookupKeyID(kid); ok {
		return key, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownKey, kid)
}

//nolint:ireturn
func (s *KeySet) refresh(ctx context.Context, entered time.Time) (jwk.Set, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	// Another caller finished a refresh while we were waiting; its
	// snapshot is current enough for us.
	if s.lastRefresh.After(entered) {
		set, err := s.cache.Get(ctx, s.uri)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrKeySetUnavailable, err)
		}

		return set, nil
	}

	set, err := s.cache.Refresh(ctx, s.uri)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrKeySetUnavailable, err)
	}

	s.lastRefresh = time.Now()

	return set, nil
}
