// keys/resolver_test.go
package keys_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dive25/pep/config"
	pep_errors "github.com/dive25/pep/errors"
	"github.com/dive25/pep/keys"
	logger "github.com/dive25/pep/logging"
)

const realmIssuer = "https://sso.dive25.local/realms/dive25"

func jwksBody(t *testing.T, publicKey *rsa.PublicKey, kid, use string) []byte {
	t.Helper()
	doc := map[string]interface{}{
		"keys": []keys.JSONWebKey{{
			Kty: "RSA",
			Use: use,
			Kid: kid,
			Alg: "RS256",
			N:   base64.RawURLEncoding.EncodeToString(publicKey.N.Bytes()),
			E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(publicKey.E)).Bytes()),
		}},
	}
	body, err := json.Marshal(doc)
	require.NoError(t, err)
	return body
}

func jwksServer(t *testing.T, body []byte, hits *int32) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			atomic.AddInt32(hits, 1)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestResolver(t *testing.T) {
	logger.InitLogger("../logging")
	defer logger.Sync()

	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	publicKey := &privateKey.PublicKey
	ctx := context.Background()

	t.Run("ResolveAndCache", func(t *testing.T) {
		var hits int32
		server := jwksServer(t, jwksBody(t, publicKey, "key-1", "sig"), &hits)

		resolver := keys.NewResolver([]config.TrustRealm{
			{Name: "dive25", Issuers: []string{realmIssuer}, JWKSEndpoints: []string{server.URL}},
		}, "dive25", time.Hour)

		first, err := resolver.ResolveKey(ctx, "key-1", realmIssuer)
		require.NoError(t, err)
		second, err := resolver.ResolveKey(ctx, "key-1", realmIssuer)
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, int32(1), atomic.LoadInt32(&hits), "second resolve must come from cache")

		resolved, ok := first.(*rsa.PublicKey)
		require.True(t, ok)
		assert.Equal(t, 0, publicKey.N.Cmp(resolved.N))
		assert.Equal(t, publicKey.E, resolved.E)
	})

	t.Run("EndpointFallback", func(t *testing.T) {
		dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		t.Cleanup(dead.Close)
		alive := jwksServer(t, jwksBody(t, publicKey, "key-2", "sig"), nil)

		resolver := keys.NewResolver([]config.TrustRealm{
			{Name: "dive25", Issuers: []string{realmIssuer}, JWKSEndpoints: []string{dead.URL, alive.URL}},
		}, "dive25", time.Hour)

		_, err := resolver.ResolveKey(ctx, "key-2", realmIssuer)
		assert.NoError(t, err)
	})

	t.Run("EncryptionKeySkipped", func(t *testing.T) {
		server := jwksServer(t, jwksBody(t, publicKey, "key-3", "enc"), nil)

		resolver := keys.NewResolver([]config.TrustRealm{
			{Name: "dive25", Issuers: []string{realmIssuer}, JWKSEndpoints: []string{server.URL}},
		}, "dive25", time.Hour)

		_, err := resolver.ResolveKey(ctx, "key-3", realmIssuer)
		assert.ErrorIs(t, err, pep_errors.ErrKeyNotFound)
	})

	t.Run("ExhaustionNamesEndpoints", func(t *testing.T) {
		first := jwksServer(t, []byte(`{"keys":[]}`), nil)
		second := jwksServer(t, []byte(`{"keys":[]}`), nil)

		resolver := keys.NewResolver([]config.TrustRealm{
			{Name: "dive25", Issuers: []string{realmIssuer}, JWKSEndpoints: []string{first.URL, second.URL}},
		}, "dive25", time.Hour)

		_, err := resolver.ResolveKey(ctx, "missing-key", realmIssuer)
		require.ErrorIs(t, err, pep_errors.ErrKeyNotFound)
		assert.Contains(t, err.Error(), first.URL)
		assert.Contains(t, err.Error(), second.URL)
	})

	t.Run("UnknownIssuerFallsBackToAllEndpoints", func(t *testing.T) {
		server := jwksServer(t, jwksBody(t, publicKey, "key-4", "sig"), nil)

		resolver := keys.NewResolver([]config.TrustRealm{
			{Name: "partner-x", Issuers: []string{"https://sso.partner-x.local/realms/partner-x"}, JWKSEndpoints: []string{server.URL}},
		}, "dive25", time.Hour)

		// Issuer matches no configured realm; every endpoint is a candidate.
		_, err := resolver.ResolveKey(ctx, "key-4", "https://unlisted.example.com/realms/somewhere")
		assert.NoError(t, err)
	})

	t.Run("RealmFromIssuerPath", func(t *testing.T) {
		dive25Hits := int32(0)
		partnerHits := int32(0)
		dive25Server := jwksServer(t, jwksBody(t, publicKey, "key-5", "sig"), &dive25Hits)
		partnerServer := jwksServer(t, []byte(`{"keys":[]}`), &partnerHits)

		resolver := keys.NewResolver([]config.TrustRealm{
			{Name: "dive25", JWKSEndpoints: []string{dive25Server.URL}},
			{Name: "partner-x", JWKSEndpoints: []string{partnerServer.URL}},
		}, "dive25", time.Hour)

		// Realm extracted from the issuer path scopes the endpoint search.
		_, err := resolver.ResolveKey(ctx, "key-5", "https://anywhere.example.com/realms/dive25")
		require.NoError(t, err)
		assert.Equal(t, int32(0), atomic.LoadInt32(&partnerHits))
	})

	t.Run("StaticSource", func(t *testing.T) {
		source := keys.StaticSource{"static-kid": publicKey}

		key, err := source.ResolveKey(ctx, "static-kid", realmIssuer)
		require.NoError(t, err)
		assert.Equal(t, publicKey, key)

		_, err = source.ResolveKey(ctx, "other", realmIssuer)
		assert.ErrorIs(t, err, pep_errors.ErrKeyNotFound)
	})
}
