// pdp/client_test.go
package pdp_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pep_errors "github.com/dive25/pep/errors"
	logger "github.com/dive25/pep/logging"
	"github.com/dive25/pep/pdp"
	pdp_model "github.com/dive25/pep/pdp/model"
)

func evaluationRequest() *pdp_model.EvaluationRequest {
	return &pdp_model.EvaluationRequest{
		Input: pdp_model.EvaluationInput{
			Subject: pdp_model.Subject{
				Authenticated:        true,
				UniqueID:             "jdoe@mil",
				Clearance:            "SECRET",
				CountryOfAffiliation: "USA",
			},
			Action:   pdp_model.Action{Operation: "read"},
			Resource: pdp_model.Resource{ResourceID: "doc-1", Classification: "SECRET"},
			Context:  pdp_model.Context{RequestID: "req-1"},
		},
	}
}

func pdpServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestClientEvaluate(t *testing.T) {
	logger.InitLogger("../logging")
	defer logger.Sync()

	ctx := context.Background()

	t.Run("NestedShape", func(t *testing.T) {
		server := pdpServer(t, http.StatusOK, `{
			"result": {
				"decision": {
					"allow": true,
					"reason": "all checks passed",
					"obligations": [{"type": "fetch-key", "resourceId": "doc-1"}],
					"evaluation_details": {"clearance_check": "PASS"}
				}
			}
		}`)

		client := pdp.NewClient(server.URL, 5*time.Second)
		decision, err := client.Evaluate(ctx, evaluationRequest())
		require.NoError(t, err)

		assert.True(t, decision.Allow)
		assert.Equal(t, "all checks passed", decision.Reason)
		require.Len(t, decision.Obligations, 1)
		assert.Equal(t, pdp_model.ObligationFetchKey, decision.Obligations[0].Type)
		assert.Equal(t, "PASS", decision.EvaluationDetails["clearance_check"])
	})

	t.Run("FlatShapeFallback", func(t *testing.T) {
		server := pdpServer(t, http.StatusOK, `{
			"result": {"allow": false, "reason": "releasability check failed"}
		}`)

		client := pdp.NewClient(server.URL, 5*time.Second)
		decision, err := client.Evaluate(ctx, evaluationRequest())
		require.NoError(t, err)

		assert.False(t, decision.Allow)
		assert.Equal(t, "releasability check failed", decision.Reason)
	})

	t.Run("MissingResult", func(t *testing.T) {
		server := pdpServer(t, http.StatusOK, `{}`)

		client := pdp.NewClient(server.URL, 5*time.Second)
		_, err := client.Evaluate(ctx, evaluationRequest())
		assert.ErrorIs(t, err, pep_errors.ErrInvalidPDPResponse)
	})

	t.Run("NullResult", func(t *testing.T) {
		server := pdpServer(t, http.StatusOK, `{"result": null}`)

		client := pdp.NewClient(server.URL, 5*time.Second)
		_, err := client.Evaluate(ctx, evaluationRequest())
		assert.ErrorIs(t, err, pep_errors.ErrInvalidPDPResponse)
	})

	t.Run("MalformedBody", func(t *testing.T) {
		server := pdpServer(t, http.StatusOK, `{"result": `)

		client := pdp.NewClient(server.URL, 5*time.Second)
		_, err := client.Evaluate(ctx, evaluationRequest())
		assert.ErrorIs(t, err, pep_errors.ErrInvalidPDPResponse)
	})

	t.Run("ServerError", func(t *testing.T) {
		server := pdpServer(t, http.StatusInternalServerError, `boom`)

		client := pdp.NewClient(server.URL, 5*time.Second)
		_, err := client.Evaluate(ctx, evaluationRequest())
		assert.ErrorIs(t, err, pep_errors.ErrPDPUnavailable)
	})

	t.Run("Unreachable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close() // nothing listens anymore

		client := pdp.NewClient(server.URL, time.Second)
		_, err := client.Evaluate(ctx, evaluationRequest())
		assert.ErrorIs(t, err, pep_errors.ErrPDPUnavailable)
	})

	t.Run("Timeout", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
			w.Write([]byte(`{"result": {"decision": {"allow": true}}}`))
		}))
		t.Cleanup(server.Close)

		client := pdp.NewClient(server.URL, 20*time.Millisecond)
		_, err := client.Evaluate(ctx, evaluationRequest())
		assert.ErrorIs(t, err, pep_errors.ErrPDPUnavailable)
	})
}

func TestDecodeDecision(t *testing.T) {
	t.Run("NestedWins", func(t *testing.T) {
		decision, flat, err := pdp_model.DecodeDecision([]byte(`{"result":{"decision":{"allow":true}}}`))
		require.NoError(t, err)
		assert.False(t, flat)
		assert.True(t, decision.Allow)
	})

	t.Run("FlatDetected", func(t *testing.T) {
		decision, flat, err := pdp_model.DecodeDecision([]byte(`{"result":{"allow":true}}`))
		require.NoError(t, err)
		assert.True(t, flat)
		assert.True(t, decision.Allow)
	})

	t.Run("ObligationsRoundTrip", func(t *testing.T) {
		raw := `{"result":{"decision":{"allow":true,"obligations":[{"type":"fetch-key","resourceId":"doc-9"}]}}}`
		decision, _, err := pdp_model.DecodeDecision([]byte(raw))
		require.NoError(t, err)

		encoded, err := json.Marshal(decision.Obligations)
		require.NoError(t, err)
		assert.JSONEq(t, `[{"type":"fetch-key","resourceId":"doc-9"}]`, string(encoded))
	})
}
