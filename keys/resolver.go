// keys/resolver.go
package keys

import (
	"context"
	"crypto"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"regexp"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/dive25/pep/config"
	pep_errors "github.com/dive25/pep/errors"
	logger "github.com/dive25/pep/logging"
)

// Source resolves a verification key for a token. The issuer claim is a
// hint for realm selection only; keys are assumed globally unique by kid.
type Source interface {
	ResolveKey(ctx context.Context, kid string, issuer string) (crypto.PublicKey, error)
}

type JSONWebKey struct {
	Kty string `json:"kty"`
	Use string `json:"use"`
	Kid string `json:"kid"`
	Alg string `json:"alg"`
	N   string `json:"n"`
	E   string `json:"e"`
}

type jwksDocument struct {
	Keys []JSONWebKey `json:"keys"`
}

// Resolver fetches verification keys from the trust realms' discovery
// endpoints and caches them by kid.
type Resolver struct {
	realms       []config.TrustRealm
	defaultRealm string
	httpClient   *http.Client
	cache        *gocache.Cache
	group        singleflight.Group
}

var realmPathPattern = regexp.MustCompile(`/realms/([^/]+)`)

func NewResolver(realms []config.TrustRealm, defaultRealm string, cacheTTL time.Duration) *Resolver {
	return &Resolver{
		realms:       realms,
		defaultRealm: defaultRealm,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		cache:        gocache.New(cacheTTL, cacheTTL/2),
	}
}

var _ Source = &Resolver{}

// ResolveKey returns the verification key for kid, fetching the realm's key
// set on a cache miss. Concurrent misses for the same kid share one fetch.
func (r *Resolver) ResolveKey(ctx context.Context, kid string, issuer string) (crypto.PublicKey, error) {
	if cached, found := r.cache.Get(kid); found {
		return cached.(crypto.PublicKey), nil
	}

	key, err, _ := r.group.Do(kid, func() (interface{}, error) {
		// Re-check under the flight: a racing request may have populated
		// the cache between the miss and the Do call.
		if cached, found := r.cache.Get(kid); found {
			return cached, nil
		}
		return r.fetchKey(ctx, kid, issuer)
	})
	if err != nil {
		return nil, err
	}
	return key.(crypto.PublicKey), nil
}

func (r *Resolver) fetchKey(ctx context.Context, kid string, issuer string) (crypto.PublicKey, error) {
	realm := r.realmForIssuer(issuer)
	endpoints := r.endpointsForRealm(realm)

	var tried []string
	for _, endpoint := range endpoints {
		tried = append(tried, endpoint)

		key, err := r.fetchKeyFromEndpoint(ctx, endpoint, kid)
		if err != nil {
			// One endpoint failing does not abort the search.
			logger.Warn("Key discovery endpoint failed",
				zap.String("endpoint", endpoint),
				zap.String("realm", realm),
				zap.Error(err))
			continue
		}
		if key == nil {
			logger.Debug("Key set did not contain kid",
				zap.String("endpoint", endpoint),
				zap.String("kid", kid))
			continue
		}

		r.cache.SetDefault(kid, key)
		logger.Info("Cached signing key",
			zap.String("kid", kid),
			zap.String("realm", realm),
			zap.String("endpoint", endpoint))
		return key, nil
	}

	return nil, fmt.Errorf("%w: kid %q not found, tried endpoints %s",
		pep_errors.ErrKeyNotFound, kid, strings.Join(tried, ", "))
}

func (r *Resolver) fetchKeyFromEndpoint(ctx context.Context, endpoint string, kid string) (crypto.PublicKey, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("key discovery endpoint returned status %d", resp.StatusCode)
	}

	var doc jwksDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode key set: %w", err)
	}

	for _, jwk := range doc.Keys {
		if jwk.Kid != kid || jwk.Use != "sig" {
			continue
		}
		return parseJWK(jwk)
	}
	return nil, nil
}

func parseJWK(jwk JSONWebKey) (crypto.PublicKey, error) {
	if jwk.Kty != "RSA" {
		return nil, fmt.Errorf("unsupported key type %q for kid %q", jwk.Kty, jwk.Kid)
	}

	nBytes, err := base64.RawURLEncoding.DecodeString(jwk.N)
	if err != nil {
		return nil, fmt.Errorf("failed to decode modulus: %w", err)
	}
	eBytes, err := base64.RawURLEncoding.DecodeString(jwk.E)
	if err != nil {
		return nil, fmt.Errorf("failed to decode exponent: %w", err)
	}

	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(nBytes),
		E: int(new(big.Int).SetBytes(eBytes).Int64()),
	}, nil
}

// realmForIssuer matches the issuer URL against the configured realms,
// falling back to path extraction, then to the default realm.
func (r *Resolver) realmForIssuer(issuer string) string {
	for _, realm := range r.realms {
		for _, realmIssuer := range realm.Issuers {
			if issuer == realmIssuer {
				return realm.Name
			}
		}
	}
	if match := realmPathPattern.FindStringSubmatch(issuer); match != nil {
		return match[1]
	}
	return r.defaultRealm
}

// endpointsForRealm returns the realm's candidate endpoints in priority
// order. An unknown realm falls back to every configured endpoint so a key
// published by any trusted realm can still be found.
func (r *Resolver) endpointsForRealm(name string) []string {
	for _, realm := range r.realms {
		if realm.Name == name {
			return realm.JWKSEndpoints
		}
	}
	var all []string
	for _, realm := range r.realms {
		all = append(all, realm.JWKSEndpoints...)
	}
	return all
}
