// pdp/model/decision.go
package model

import (
	"encoding/json"
	"errors"
)

var errMissingResult = errors.New("decision response missing result field")

// Obligation is a follow-up action the caller must perform when access is
// granted, e.g. fetching a decryption key from the key-access service.
type Obligation struct {
	Type       string `json:"type"`
	ResourceID string `json:"resourceId,omitempty"`
}

const ObligationFetchKey = "fetch-key"

// Decision is the normalized PDP response.
type Decision struct {
	Allow             bool                   `json:"allow"`
	Reason            string                 `json:"reason,omitempty"`
	Obligations       []Obligation           `json:"obligations,omitempty"`
	EvaluationDetails map[string]interface{} `json:"evaluation_details,omitempty"`
}

// evaluationResponse is the raw decision endpoint envelope. Some PDP
// builds nest the decision one level below result, others inline it; both
// shapes must be accepted.
type evaluationResponse struct {
	Result json.RawMessage `json:"result"`
}

type nestedResult struct {
	Decision *Decision `json:"decision"`
}

// DecodeDecision unwraps a decision endpoint response body. It returns the
// decision, whether the flat fallback shape was used, and an error when
// the body lacks the minimal expected structure.
func DecodeDecision(body []byte) (*Decision, bool, error) {
	var envelope evaluationResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, false, err
	}
	if len(envelope.Result) == 0 || string(envelope.Result) == "null" {
		return nil, false, errMissingResult
	}

	// Nested shape first; fall back to reading the fields directly off the
	// result object.
	var nested nestedResult
	if err := json.Unmarshal(envelope.Result, &nested); err == nil && nested.Decision != nil {
		return nested.Decision, false, nil
	}

	var flat Decision
	if err := json.Unmarshal(envelope.Result, &flat); err != nil {
		return nil, false, err
	}
	return &flat, true, nil
}
